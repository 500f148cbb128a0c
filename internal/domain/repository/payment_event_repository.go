package repository

import (
	"context"

	"github.com/jhoicas/jobboard-api/internal/domain/entity"
)

// PaymentEventRepository registro append-only de las notificaciones del gateway.
type PaymentEventRepository interface {
	Insert(ctx context.Context, event *entity.PaymentEvent) error
}
