// seed_catalog aplica el esquema base y siembra los datos paramétricos: provincias,
// paquetes VIP por defecto (solo si el catálogo está vacío) y la cuenta ADMIN inicial.
//
// Uso: go run ./cmd/seed_catalog [ruta/provincias.csv]
// El CSV tiene dos columnas "codigo;nombre". Los exportes oficiales llegan en Windows-1258;
// con SEED_CSV_ENCODING=utf-8 se leen sin conversión. Sin CSV se siembran las cinco
// ciudades de administración central.
// La cuenta ADMIN se crea con ADMIN_EMAIL y ADMIN_PASSWORD si aún no existe. La conexión
// usa la misma configuración que la API.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/infrastructure/postgres"
	"github.com/jhoicas/jobboard-api/pkg/config"
)

type province struct{ code, name string }

var defaultProvinces = []province{
	{"01", "Thành phố Hà Nội"},
	{"31", "Thành phố Hải Phòng"},
	{"48", "Thành phố Đà Nẵng"},
	{"79", "Thành phố Hồ Chí Minh"},
	{"92", "Thành phố Cần Thơ"},
}

var defaultPackages = []entity.VipPackage{
	{Name: "Gói Cơ Bản", Description: "3 tin tuyển dụng hiển thị 15 ngày", NumPost: 3, Price: decimal.NewFromInt(200000), DurationDay: 15, Priority: entity.LevelBasic},
	{Name: "Gói Bạc", Description: "5 tin tuyển dụng ưu tiên trong 30 ngày", NumPost: 5, Price: decimal.NewFromInt(500000), DurationDay: 30, Priority: entity.LevelSilver},
	{Name: "Gói Vàng", Description: "10 tin tuyển dụng nổi bật trong 30 ngày", NumPost: 10, Price: decimal.NewFromInt(1500000), DurationDay: 30, Priority: entity.LevelGold},
	{Name: "Gói Bạch Kim", Description: "20 tin tuyển dụng nổi bật trong 60 ngày", NumPost: 20, Price: decimal.NewFromInt(3000000), DurationDay: 60, Priority: entity.LevelPlatinum},
	{Name: "Gói Kim Cương", Description: "50 tin tuyển dụng đầu trang trong 90 ngày", NumPost: 50, Price: decimal.NewFromInt(9000000), DurationDay: 90, Priority: entity.LevelDiamond},
}

func main() {
	provinces := defaultProvinces
	if len(os.Args) > 1 {
		var err error
		provinces, err = readProvinces(os.Args[1], os.Getenv("SEED_CSV_ENCODING"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Leer provincias: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.ApplySchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if err := seedProvinces(ctx, pool, provinces); err != nil {
		fmt.Fprintf(os.Stderr, "Provincias: %v\n", err)
		os.Exit(1)
	}
	n, err := seedPackages(ctx, pool)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Paquetes VIP: %v\n", err)
		os.Exit(1)
	}
	admin, err := seedAdmin(ctx, pool, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cuenta ADMIN: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sembrado: %d provincias, %d paquetes VIP nuevos, admin=%s\n", len(provinces), n, admin)
}

func readProvinces(path, encoding string) ([]province, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var in io.Reader = f
	if !strings.EqualFold(encoding, "utf-8") && !strings.EqualFold(encoding, "utf8") {
		in = transform.NewReader(f, charmap.Windows1258.NewDecoder())
	}
	r := csv.NewReader(in)
	r.Comma = ';'
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	out := make([]province, 0, len(rows))
	for _, row := range rows {
		code, name := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
		if code == "" || name == "" || strings.EqualFold(code, "codigo") {
			continue
		}
		out = append(out, province{code: code, name: name})
	}
	return out, nil
}

func seedProvinces(ctx context.Context, pool *pgxpool.Pool, list []province) error {
	for _, p := range list {
		if _, err := pool.Exec(ctx,
			`INSERT INTO provinces (id, name) VALUES ($1, $2)
			 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`, p.code, p.name); err != nil {
			return fmt.Errorf("%s: %w", p.code, err)
		}
	}
	return nil
}

// seedPackages no toca un catálogo ya administrado.
func seedPackages(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM vip_packages`).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	repo := postgres.NewVipPackageRepository(pool)
	now := time.Now().UTC()
	for _, p := range defaultPackages {
		p.ID = uuid.New().String()
		p.CreatedAt, p.UpdatedAt = now, now
		if err := repo.Create(ctx, &p); err != nil {
			return 0, fmt.Errorf("%s: %w", p.Name, err)
		}
	}
	return len(defaultPackages), nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "(omitido)", nil
	}
	repo := postgres.NewAccountRepository(pool)
	existing, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return email + " (existente)", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	if err := repo.Create(ctx, &entity.Account{
		ID: uuid.New().String(), Email: email, PasswordHash: string(hash), Role: entity.RoleAdmin,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		return "", err
	}
	return email, nil
}
