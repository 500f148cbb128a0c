package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/domain/repository"
)

var _ repository.VipPackageRepository = (*VipPackageRepo)(nil)

const vipPackageColumns = `id, name, description, num_post, price, duration_day, priority, is_deleted, created_at, updated_at`

// activeOrderGuard condición "ningún pedido del paquete vence después de $now".
// El estado del pedido no importa: un PENDING también bloquea la edición.
const activeOrderGuard = `NOT EXISTS (
	SELECT 1 FROM company_vip_packages o WHERE o.vip_package_id = vip_packages.id AND o.end_date > $%d)`

// VipPackageRepo implementación del catálogo VIP sobre PostgreSQL.
type VipPackageRepo struct {
	q Querier
}

// NewVipPackageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVipPackageRepository(q Querier) *VipPackageRepo {
	return &VipPackageRepo{q: q}
}

// Create inserta un paquete nuevo.
func (r *VipPackageRepo) Create(ctx context.Context, p *entity.VipPackage) error {
	query := `
		INSERT INTO vip_packages (id, name, description, num_post, price, duration_day, priority, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9)`
	_, err := r.q.Exec(ctx, query, p.ID, p.Name, p.Description, p.NumPost, p.Price, p.DurationDay,
		int(p.Priority), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert vip package: %w", err)
	}
	return nil
}

// GetByID obtiene un paquete no eliminado.
func (r *VipPackageRepo) GetByID(ctx context.Context, id string) (*entity.VipPackage, error) {
	query := `SELECT ` + vipPackageColumns + ` FROM vip_packages WHERE id = $1 AND is_deleted = FALSE`
	p, err := scanVipPackage(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vip package: %w", err)
	}
	return p, nil
}

// List página del catálogo con búsqueda por nombre y filtro por prioridad.
func (r *VipPackageRepo) List(ctx context.Context, f repository.VipPackageFilter) ([]*entity.VipPackage, int, error) {
	where := []string{"is_deleted = FALSE"}
	var args []any
	pos := 1
	if strings.TrimSpace(f.Search) != "" {
		where = append(where, fmt.Sprintf("name ILIKE $%d", pos))
		args = append(args, likePattern(f.Search))
		pos++
	}
	if f.Priority != nil {
		where = append(where, fmt.Sprintf("priority = $%d", pos))
		args = append(args, int(*f.Priority))
		pos++
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM vip_packages WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count vip packages: %w", err)
	}

	query := `SELECT ` + vipPackageColumns + ` FROM vip_packages WHERE ` + cond +
		fmt.Sprintf(" ORDER BY priority DESC, price ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	list, err := r.queryList(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListActive todos los paquetes vigentes, del más barato al más caro.
func (r *VipPackageRepo) ListActive(ctx context.Context) ([]*entity.VipPackage, error) {
	return r.queryList(ctx, `SELECT `+vipPackageColumns+` FROM vip_packages WHERE is_deleted = FALSE ORDER BY price ASC`)
}

// HasActiveOrders informa si algún pedido del paquete sigue vigente en now.
func (r *VipPackageRepo) HasActiveOrders(ctx context.Context, id string, now time.Time) (bool, error) {
	var ok bool
	query := `SELECT EXISTS (SELECT 1 FROM company_vip_packages WHERE vip_package_id = $1 AND end_date > $2)`
	if err := r.q.QueryRow(ctx, query, id, now).Scan(&ok); err != nil {
		return false, fmt.Errorf("has active orders: %w", err)
	}
	return ok, nil
}

// Update reescribe los campos del paquete si sigue vigente y sin pedidos activos.
func (r *VipPackageRepo) Update(ctx context.Context, p *entity.VipPackage, now time.Time) (bool, error) {
	query := `
		UPDATE vip_packages
		SET name = $2, description = $3, num_post = $4, price = $5, duration_day = $6, priority = $7, updated_at = $8
		WHERE id = $1 AND is_deleted = FALSE AND ` + fmt.Sprintf(activeOrderGuard, 8)
	tag, err := r.q.Exec(ctx, query, p.ID, p.Name, p.Description, p.NumPost, p.Price, p.DurationDay,
		int(p.Priority), now)
	if err != nil {
		return false, fmt.Errorf("update vip package: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SoftDelete marca is_deleted con la misma guarda que Update.
func (r *VipPackageRepo) SoftDelete(ctx context.Context, id string, now time.Time) (bool, error) {
	query := `
		UPDATE vip_packages SET is_deleted = TRUE, updated_at = $2
		WHERE id = $1 AND is_deleted = FALSE AND ` + fmt.Sprintf(activeOrderGuard, 2)
	tag, err := r.q.Exec(ctx, query, id, now)
	if err != nil {
		return false, fmt.Errorf("delete vip package: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *VipPackageRepo) queryList(ctx context.Context, query string, args ...any) ([]*entity.VipPackage, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vip packages: %w", err)
	}
	defer rows.Close()
	var list []*entity.VipPackage
	for rows.Next() {
		p, err := scanVipPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vip package: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanVipPackage(row pgx.Row) (*entity.VipPackage, error) {
	var p entity.VipPackage
	var priority int
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.NumPost, &p.Price, &p.DurationDay,
		&priority, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Priority = entity.PackageLevel(priority)
	return &p, nil
}
