package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobboard-api/internal/application/billing"
	"github.com/jhoicas/jobboard-api/internal/application/dto"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

// PaymentHandler recibe las notificaciones de SePay.
type PaymentHandler struct {
	uc  *billing.PaymentWebhookUseCase
	log *logger.Logger
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *billing.PaymentWebhookUseCase, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, log: log}
}

// SePayCallback godoc
// @Summary      Webhook de SePay
// @Description  Autenticado con "Authorization: Apikey <token>". 200 si el pago activa el pedido
// @Description  (o ya estaba activo), 400 si se rechaza, 409 si el pedido ya había fallado.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SePayWebhookRequest  true  "Movimiento bancario"
// @Success      200   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Failure      401   {object}  dto.Response
// @Failure      409   {object}  dto.Response
// @Router       /api/v1/payment/sepay-callback [post]
func (h *PaymentHandler) SePayCallback(c *fiber.Ctx) error {
	// La autenticación va antes que el cuerpo: sin Apikey válida no se parsea nada.
	if err := h.uc.Authorize(c.Get(fiber.HeaderAuthorization)); err != nil {
		return respondError(c, h.log, err)
	}
	var in dto.SePayWebhookRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrCodeInvalidBody)
	}
	out, err := h.uc.HandleWebhook(c.UserContext(), c.Get(fiber.HeaderAuthorization), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgUpdated, out)
}
