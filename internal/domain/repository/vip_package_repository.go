package repository

import (
	"context"
	"time"

	"github.com/jhoicas/jobboard-api/internal/domain/entity"
)

// VipPackageFilter filtro del catálogo administrativo.
type VipPackageFilter struct {
	Search   string
	Priority *entity.PackageLevel
	Limit    int
	Offset   int
}

// VipPackageRepository define el puerto de persistencia del catálogo VIP.
// Los paquetes con is_deleted = true no se devuelven en ninguna lectura.
type VipPackageRepository interface {
	Create(ctx context.Context, pkg *entity.VipPackage) error
	GetByID(ctx context.Context, id string) (*entity.VipPackage, error)
	List(ctx context.Context, filter VipPackageFilter) ([]*entity.VipPackage, int, error)
	// ListActive paquetes no eliminados ordenados por precio ascendente.
	ListActive(ctx context.Context) ([]*entity.VipPackage, error)
	// HasActiveOrders informa si algún pedido del paquete vence después de now,
	// sin importar su estado.
	HasActiveOrders(ctx context.Context, id string, now time.Time) (bool, error)
	// Update y SoftDelete no escriben si el paquete está eliminado o tiene pedidos
	// activos en now; devuelven false en ese caso.
	Update(ctx context.Context, pkg *entity.VipPackage, now time.Time) (bool, error)
	SoftDelete(ctx context.Context, id string, now time.Time) (bool, error)
}
