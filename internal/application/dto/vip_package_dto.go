package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// VipPackageRequest alta o edición de un paquete. Price se valida en el caso de uso
// (decimal no es comparable por etiquetas).
type VipPackageRequest struct {
	Name        string          `json:"name" validate:"required,min=3"`
	Description string          `json:"description" validate:"required,min=10"`
	NumPost     int             `json:"numPost" validate:"min=1"`
	Price       decimal.Decimal `json:"price"`
	DurationDay int             `json:"durationDay" validate:"min=1"`
	Priority    string          `json:"priority" validate:"required,packagelevel"`
}

// VipPackageResponse salida de un paquete; Priority como etiqueta (BASIC..DIAMOND).
type VipPackageResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	NumPost     int             `json:"numPost"`
	Price       decimal.Decimal `json:"price"`
	DurationDay int             `json:"durationDay"`
	Priority    string          `json:"priority"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// VipPackageListQuery filtro del catálogo administrativo.
type VipPackageListQuery struct {
	PageRequest
	Search   string `query:"search"`
	Priority string `query:"priority" validate:"omitempty,packagelevel"`
}
