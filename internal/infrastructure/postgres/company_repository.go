package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/jobboard-api/internal/domain"
	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

const companyColumns = `
	id, account_id, email, name, COALESCE(description, ''), address, province_id,
	COALESCE(website, ''), COALESCE(logo, ''), tax_code, business_license_path,
	status, reason_reject, reviewed_by, reviewed_at, created_at, updated_at`

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste una nueva empresa (siempre llega en PENDING desde el registro).
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (id, account_id, email, name, description, address, province_id,
			website, logo, tax_code, business_license_path, status, reason_reject, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.AccountID, c.Email, c.Name, nullIfEmpty(c.Description), c.Address, c.ProvinceID,
		nullIfEmpty(c.Website), nullIfEmpty(c.Logo), c.TaxCode, c.BusinessLicensePath,
		int(c.Status), c.ReasonReject, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.NewValidationError("provinceId", "NOT_FOUND")
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID, en cualquier estado.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.findOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
}

// GetByAccountID obtiene la empresa de una cuenta.
func (r *CompanyRepo) GetByAccountID(ctx context.Context, accountID string) (*entity.Company, error) {
	return r.findOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE account_id = $1`, accountID)
}

// GetByEmail obtiene una empresa por email de contacto.
func (r *CompanyRepo) GetByEmail(ctx context.Context, email string) (*entity.Company, error) {
	return r.findOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE lower(email) = lower($1) LIMIT 1`, email)
}

// GetPendingByID solo encuentra la empresa si está PENDING.
func (r *CompanyRepo) GetPendingByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.findOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1 AND status = $2`,
		id, int(entity.CompanyPending))
}

// GetApprovedByID solo encuentra la empresa si está APPROVED.
func (r *CompanyRepo) GetApprovedByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.findOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1 AND status = $2`,
		id, int(entity.CompanyApproved))
}

// TransitionStatus UPDATE condicionado a status = PENDING; dos revisiones concurrentes
// no pueden pisarse: la segunda no afecta filas.
func (r *CompanyRepo) TransitionStatus(ctx context.Context, id string, rv entity.CompanyReview) (bool, error) {
	query := `
		UPDATE companies
		SET status = $2, reason_reject = $3, reviewed_by = $4, reviewed_at = $5, updated_at = now()
		WHERE id = $1 AND status = $6`
	tag, err := r.q.Exec(ctx, query, id, int(rv.Status), rv.ReasonReject, nullIfEmpty(rv.ReviewedBy), rv.ReviewedAt,
		int(entity.CompanyPending))
	if err != nil {
		return false, fmt.Errorf("transition company status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateProfile modifica solo los campos editables por la empresa aprobada.
func (r *CompanyRepo) UpdateProfile(ctx context.Context, id string, p entity.CompanyProfile) (bool, error) {
	query := `
		UPDATE companies
		SET description = $2, address = $3, province_id = $4, website = $5, logo = $6, updated_at = now()
		WHERE id = $1 AND status = $7`
	tag, err := r.q.Exec(ctx, query, id, nullIfEmpty(p.Description), p.Address, p.ProvinceID,
		nullIfEmpty(p.Website), nullIfEmpty(p.Logo), int(entity.CompanyApproved))
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, domain.NewValidationError("provinceId", "NOT_FOUND")
		}
		return false, fmt.Errorf("update company profile: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List devuelve una página de empresas y el total que cumple el filtro.
func (r *CompanyRepo) List(ctx context.Context, f repository.CompanyFilter) ([]*entity.Company, int, error) {
	where := []string{"TRUE"}
	var args []any
	pos := 1
	if len(f.Statuses) > 0 {
		statuses := make([]int, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, int(s))
		}
		where = append(where, fmt.Sprintf("status = ANY($%d)", pos))
		args = append(args, statuses)
		pos++
	}
	if strings.TrimSpace(f.Search) != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR tax_code ILIKE $%d)", pos, pos, pos))
		args = append(args, likePattern(f.Search))
		pos++
	}
	if strings.TrimSpace(f.Province) != "" {
		where = append(where, fmt.Sprintf("province_id IN (SELECT id FROM provinces WHERE name ILIKE $%d)", pos))
		args = append(args, likePattern(f.Province))
		pos++
	}
	if f.ActiveAccountOnly {
		where = append(where, "NOT EXISTS (SELECT 1 FROM accounts a WHERE a.id = companies.account_id AND a.is_locked)")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM companies WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	query := `SELECT ` + companyColumns + ` FROM companies WHERE ` + cond +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// ProvinceExists informa si la provincia está en la tabla de referencia.
func (r *CompanyRepo) ProvinceExists(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM provinces WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("province exists: %w", err)
	}
	return ok, nil
}

func (r *CompanyRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	var status int
	err := row.Scan(
		&c.ID, &c.AccountID, &c.Email, &c.Name, &c.Description, &c.Address, &c.ProvinceID,
		&c.Website, &c.Logo, &c.TaxCode, &c.BusinessLicensePath,
		&status, &c.ReasonReject, &c.ReviewedBy, &c.ReviewedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = entity.CompanyStatus(status)
	return &c, nil
}
