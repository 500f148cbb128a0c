package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resultado de procesar una notificación de la pasarela.
const (
	PaymentOutcomeSuccess  = "SUCCESS"  // pedido marcado SUCCESS
	PaymentOutcomeFailed   = "FAILED"   // pedido marcado FAILED
	PaymentOutcomeIgnored  = "IGNORED"  // reentrega sobre un pedido ya finalizado
	PaymentOutcomeRejected = "REJECTED" // sin pedido asociable
)

// PaymentEvent registro de auditoría de cada webhook autenticado.
type PaymentEvent struct {
	ID             string
	GatewayTxID    *int64
	Gateway        string
	Content        string
	TransferType   string
	TransferAmount decimal.Decimal
	OrderReference *string
	Outcome        string
	ReceivedAt     time.Time
}
