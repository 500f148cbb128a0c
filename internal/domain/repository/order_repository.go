package repository

import (
	"context"
	"time"

	"github.com/jhoicas/jobboard-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia de pedidos (company_vip_packages).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	// GetWithPackage devuelve el pedido con su VipPackage cargado (aunque esté eliminado).
	GetWithPackage(ctx context.Context, id string) (*entity.Order, error)
	// CompareAndSetStatus cambia el estado solo si el actual es from.
	CompareAndSetStatus(ctx context.Context, id string, from, to entity.OrderStatus) (bool, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Order, int, error)
	// ConsumePostCredit descuenta una publicación del mejor crédito usable de la empresa
	// (mayor prioridad, vencimiento más cercano). Devuelve (nil, nil) si no hay crédito.
	ConsumePostCredit(ctx context.Context, companyID string, now time.Time) (*entity.Order, error)
}
