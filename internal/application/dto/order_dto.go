package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest compra de un paquete VIP.
type CreateOrderRequest struct {
	VipPackageID string `json:"vipPackageId" validate:"required,uuid"`
}

// OrderResponse salida de un pedido. TransferContent es el texto que la empresa debe
// escribir en la transferencia bancaria.
type OrderResponse struct {
	ID              string              `json:"id"`
	CompanyID       string              `json:"companyId"`
	VipPackageID    string              `json:"vipPackageId"`
	EndDate         time.Time           `json:"endDate"`
	RemainingPosts  int                 `json:"remainingPosts"`
	Status          string              `json:"status"`
	Amount          decimal.Decimal     `json:"amount"`
	TransferContent string              `json:"transferContent"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
	VipPackage      *VipPackageResponse `json:"vipPackage,omitempty"`
}
