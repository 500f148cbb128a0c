package entity

import "time"

// OrderStatus estado de pago de un pedido.
type OrderStatus string

const (
	OrderPending OrderStatus = "PENDING"
	OrderSuccess OrderStatus = "SUCCESS"
	OrderFailed  OrderStatus = "FAILED"
)

// Terminal informa si el estado ya no admite transiciones.
func (s OrderStatus) Terminal() bool {
	return s == OrderSuccess || s == OrderFailed
}

// Order compra de un paquete VIP por una empresa (tabla company_vip_packages).
type Order struct {
	ID             string
	CompanyID      string
	VipPackageID   string
	EndDate        time.Time
	RemainingPosts int
	Status         OrderStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time

	VipPackage *VipPackage // cargado solo en lecturas con join
}

// Usable informa si el pedido es crédito utilizable para publicar empleos.
func (o *Order) Usable(now time.Time) bool {
	return o.Status == OrderSuccess && o.EndDate.After(now) && o.RemainingPosts > 0
}

// OrderEndDate calcula el vencimiento: now + durationDay días, truncado a medianoche UTC.
func OrderEndDate(now time.Time, durationDay int) time.Time {
	t := now.UTC().AddDate(0, 0, durationDay)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
