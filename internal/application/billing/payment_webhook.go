package billing

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/jobboard-api/internal/application/dto"
	"github.com/jhoicas/jobboard-api/internal/application/ports"
	"github.com/jhoicas/jobboard-api/internal/domain"
	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/domain/payment"
	"github.com/jhoicas/jobboard-api/internal/domain/repository"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

// GatewaySePay nombre del gateway en el registro de eventos.
const GatewaySePay = "sepay"

// OutcomeUnauthorized etiqueta de métrica para notificaciones sin Apikey válida.
const OutcomeUnauthorized = "UNAUTHORIZED"

// authScheme esquema del header Authorization que envía SePay.
const authScheme = "Apikey"

// PaymentWebhookUseCase concilia las notificaciones de transferencias bancarias con los
// pedidos PENDING. Cada pedido recibe su estado final una sola vez.
type PaymentWebhookUseCase struct {
	orders  repository.OrderRepository
	events  repository.PaymentEventRepository
	metrics ports.WebhookMetrics
	clock   ports.Clock
	apiKey  string
	log     *logger.Logger
}

// NewPaymentWebhookUseCase construye el conciliador. apiKey es el secreto compartido con SePay.
func NewPaymentWebhookUseCase(
	orders repository.OrderRepository,
	events repository.PaymentEventRepository,
	metrics ports.WebhookMetrics,
	clock ports.Clock,
	apiKey string,
	log *logger.Logger,
) *PaymentWebhookUseCase {
	if metrics == nil {
		metrics = ports.NopWebhookMetrics{}
	}
	return &PaymentWebhookUseCase{
		orders:  orders,
		events:  events,
		metrics: metrics,
		clock:   clock,
		apiKey:  apiKey,
		log:     log.Component("payment_webhook"),
	}
}

// Authorize valida "Authorization: Apikey <token>" en tiempo constante. Cada rechazo se
// cuenta como UNAUTHORIZED en las métricas.
func (uc *PaymentWebhookUseCase) Authorize(header string) error {
	if !uc.validKey(header) {
		uc.metrics.ObserveWebhook(OutcomeUnauthorized)
		uc.log.Warn().Msg("webhook de pago con Apikey ausente o inválida")
		return domain.ErrUnauthorized
	}
	return nil
}

func (uc *PaymentWebhookUseCase) validKey(header string) bool {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, authScheme) || uc.apiKey == "" {
		return false
	}
	token = strings.TrimSpace(token)
	return subtle.ConstantTimeCompare([]byte(token), []byte(uc.apiKey)) == 1
}

// HandleWebhook procesa una notificación:
//   - aceptada (entrante, pedido encontrado, monto == precio) → PENDING a SUCCESS;
//   - rechazada con pedido → PENDING a FAILED, y ErrPaymentRejected;
//   - rechazada sin pedido → sin escrituras, ErrPaymentRejected.
//
// Un pedido ya SUCCESS responde igual que la primera vez (reentrega idempotente); un pago
// aceptado sobre un pedido FAILED devuelve ErrOrderFinalized.
func (uc *PaymentWebhookUseCase) HandleWebhook(ctx context.Context, authHeader string, in dto.SePayWebhookRequest) (*dto.WebhookResult, error) {
	if err := uc.Authorize(authHeader); err != nil {
		return nil, err
	}

	ref := payment.ExtractOrderReference(in.Content)
	var order *entity.Order
	if ref != "" {
		o, err := uc.orders.GetWithPackage(ctx, ref)
		if err != nil {
			return nil, err
		}
		order = o
	}

	price := decimal.Zero
	if order != nil && order.VipPackage != nil {
		price = order.VipPackage.Price
	}
	accepted := payment.Accepts(in.TransferType, order != nil && order.VipPackage != nil, in.TransferAmount, price)

	result, outcome, err := uc.apply(ctx, order, accepted)
	if err != nil && outcome == "" {
		return nil, err
	}
	uc.record(ctx, in, ref, outcome)

	ev := uc.log.Info()
	if err != nil {
		ev = uc.log.Warn().Err(err)
	}
	ev.Int64("gateway_tx_id", in.ID).Str("reference", ref).Str("transfer_type", in.TransferType).
		Str("amount", in.TransferAmount.String()).Str("outcome", outcome).Msg("webhook de pago procesado")
	return result, err
}

// apply ejecuta la transición condicionada y devuelve el resultado a registrar.
// outcome vacío indica un error de infraestructura (no se registra el evento).
func (uc *PaymentWebhookUseCase) apply(ctx context.Context, order *entity.Order, accepted bool) (*dto.WebhookResult, string, error) {
	if order == nil {
		return nil, entity.PaymentOutcomeRejected,
			fmt.Errorf("%w: referencia de pedido inválida o inexistente", domain.ErrPaymentRejected)
	}

	if !accepted {
		applied, err := uc.orders.CompareAndSetStatus(ctx, order.ID, entity.OrderPending, entity.OrderFailed)
		if err != nil {
			return nil, "", err
		}
		outcome := entity.PaymentOutcomeFailed
		if !applied {
			// Ya tenía estado final: SUCCESS nunca pasa a FAILED.
			outcome = entity.PaymentOutcomeIgnored
		}
		return &dto.WebhookResult{Outcome: outcome, OrderID: order.ID}, outcome,
			fmt.Errorf("%w: tipo o monto no coinciden con el pedido", domain.ErrPaymentRejected)
	}

	applied, err := uc.orders.CompareAndSetStatus(ctx, order.ID, entity.OrderPending, entity.OrderSuccess)
	if err != nil {
		return nil, "", err
	}
	if applied {
		return &dto.WebhookResult{Outcome: entity.PaymentOutcomeSuccess, OrderID: order.ID}, entity.PaymentOutcomeSuccess, nil
	}

	// La guarda no aplicó: otra entrega ya fijó el estado final. Se relee para decidir.
	current, err := uc.orders.GetWithPackage(ctx, order.ID)
	if err != nil {
		return nil, "", err
	}
	if current != nil && current.Status == entity.OrderSuccess {
		return &dto.WebhookResult{Outcome: entity.PaymentOutcomeIgnored, OrderID: order.ID}, entity.PaymentOutcomeIgnored, nil
	}
	return nil, entity.PaymentOutcomeIgnored, domain.ErrOrderFinalized
}

// record agrega el evento de auditoría. Un fallo aquí no revierte la transición ya aplicada.
func (uc *PaymentWebhookUseCase) record(ctx context.Context, in dto.SePayWebhookRequest, ref, outcome string) {
	uc.metrics.ObserveWebhook(outcome)
	ev := &entity.PaymentEvent{
		ID:             uuid.New().String(),
		Gateway:        GatewaySePay,
		Content:        in.Content,
		TransferType:   in.TransferType,
		TransferAmount: in.TransferAmount,
		Outcome:        outcome,
		ReceivedAt:     uc.clock.Now(),
	}
	if in.ID != 0 {
		id := in.ID
		ev.GatewayTxID = &id
	}
	if ref != "" {
		ev.OrderReference = &ref
	}
	if err := uc.events.Insert(context.WithoutCancel(ctx), ev); err != nil {
		uc.log.Error().Err(err).Str("reference", ref).Msg("no se pudo registrar el evento de pago")
	}
}
