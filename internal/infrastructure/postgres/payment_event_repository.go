package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/domain/repository"
)

var _ repository.PaymentEventRepository = (*PaymentEventRepo)(nil)

// PaymentEventRepo auditoría de webhooks de pago.
type PaymentEventRepo struct {
	q Querier
}

// NewPaymentEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentEventRepository(q Querier) *PaymentEventRepo {
	return &PaymentEventRepo{q: q}
}

// Insert agrega el evento; nunca se actualiza ni se borra.
func (r *PaymentEventRepo) Insert(ctx context.Context, e *entity.PaymentEvent) error {
	query := `
		INSERT INTO payment_webhook_events (id, gateway_tx_id, gateway, content, transfer_type, transfer_amount,
			order_reference, outcome, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, e.ID, e.GatewayTxID, e.Gateway, e.Content, e.TransferType, e.TransferAmount,
		e.OrderReference, e.Outcome, e.ReceivedAt)
	if err != nil {
		return fmt.Errorf("insert payment event: %w", err)
	}
	return nil
}
