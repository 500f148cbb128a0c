package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderWithPackageSelect = `
	SELECT o.id, o.company_id, o.vip_package_id, o.end_date, o.remaining_posts, o.status, o.created_at, o.updated_at,
		p.id, p.name, p.description, p.num_post, p.price, p.duration_day, p.priority, p.is_deleted, p.created_at, p.updated_at
	FROM company_vip_packages o
	JOIN vip_packages p ON p.id = o.vip_package_id`

// OrderRepo implementación del libro de pedidos sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta el pedido en estado inicial.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO company_vip_packages (id, company_id, vip_package_id, end_date, remaining_posts, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, o.ID, o.CompanyID, o.VipPackageID, o.EndDate, o.RemainingPosts,
		string(o.Status), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetWithPackage obtiene el pedido con su paquete. El paquete puede estar eliminado.
func (r *OrderRepo) GetWithPackage(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrderWithPackage(r.q.QueryRow(ctx, orderWithPackageSelect+` WHERE o.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// CompareAndSetStatus UPDATE condicionado al estado actual; nunca sobrescribe un estado final
// si from es PENDING.
func (r *OrderRepo) CompareAndSetStatus(ctx context.Context, id string, from, to entity.OrderStatus) (bool, error) {
	query := `UPDATE company_vip_packages SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(ctx, query, id, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByCompany pedidos de la empresa, más recientes primero.
func (r *OrderRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Order, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM company_vip_packages WHERE company_id = $1`, companyID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	rows, err := r.q.Query(ctx, orderWithPackageSelect+`
		WHERE o.company_id = $1 ORDER BY o.created_at DESC LIMIT $2 OFFSET $3`, companyID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrderWithPackage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, total, rows.Err()
}

// consumeAttempts intentos de ConsumePostCredit antes de concluir que no hay cupo.
const consumeAttempts = 2

const consumePostCreditSQL = `
	WITH pick AS (
		SELECT o.id
		FROM company_vip_packages o
		JOIN vip_packages p ON p.id = o.vip_package_id
		WHERE o.company_id = $1 AND o.status = $2 AND o.end_date > $3 AND o.remaining_posts > 0
		ORDER BY p.priority DESC, o.end_date ASC
		LIMIT 1
		FOR UPDATE OF o
	)
	UPDATE company_vip_packages c
	SET remaining_posts = c.remaining_posts - 1, updated_at = now()
	FROM pick
	WHERE c.id = pick.id AND c.remaining_posts > 0
	RETURNING c.id, c.company_id, c.vip_package_id, c.end_date, c.remaining_posts, c.status, c.created_at, c.updated_at`

// ConsumePostCredit descuenta una publicación en una sola sentencia. La fila elegida se
// bloquea con FOR UPDATE: una publicación simultánea espera al commit de la primera en
// lugar de saltarse el crédito.
//
// Tras la espera, Postgres vuelve a evaluar la fila bloqueada; si la otra publicación
// agotó ese crédito la fila se descarta y LIMIT 1 no busca la siguiente. Por eso una
// respuesta vacía se reintenta una vez con una sentencia nueva.
func (r *OrderRepo) ConsumePostCredit(ctx context.Context, companyID string, now time.Time) (*entity.Order, error) {
	for attempt := 1; ; attempt++ {
		var o entity.Order
		var status string
		err := r.q.QueryRow(ctx, consumePostCreditSQL, companyID, string(entity.OrderSuccess), now).Scan(
			&o.ID, &o.CompanyID, &o.VipPackageID, &o.EndDate, &o.RemainingPosts, &status, &o.CreatedAt, &o.UpdatedAt,
		)
		if err == nil {
			o.Status = entity.OrderStatus(status)
			return &o, nil
		}
		if !isNoRows(err) {
			return nil, fmt.Errorf("consume post credit: %w", err)
		}
		if attempt >= consumeAttempts {
			return nil, nil
		}
	}
}

func scanOrderWithPackage(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var p entity.VipPackage
	var status string
	var priority int
	err := row.Scan(
		&o.ID, &o.CompanyID, &o.VipPackageID, &o.EndDate, &o.RemainingPosts, &status, &o.CreatedAt, &o.UpdatedAt,
		&p.ID, &p.Name, &p.Description, &p.NumPost, &p.Price, &p.DurationDay, &priority, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	p.Priority = entity.PackageLevel(priority)
	o.VipPackage = &p
	return &o, nil
}
