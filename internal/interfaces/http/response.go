package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobboard-api/internal/application/dto"
	"github.com/jhoicas/jobboard-api/internal/domain"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

// Códigos de mensaje del sobre de respuesta.
const (
	MsgGetAll  = "GET_ALL_SUCCESS"
	MsgGet     = "GET_SUCCESS"
	MsgCreated = "CREATED_SUCCESS"
	MsgUpdated = "UPDATED_SUCCESS"
	MsgDeleted = "DELETED_SUCCESS"
	MsgLogin   = "LOGIN_SUCCESS"
	MsgGetMe   = "GET_ME_SUCCESS"

	MsgResetEmailSent = "PASSWORD_RESET_EMAIL_SENT"
)

// Códigos de error del sobre de respuesta.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternal           = "INTERNAL_SERVER_ERROR"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeAccountLocked      = "ACCOUNT_IS_LOCKED"
	ErrCodeNotApproved        = "COMPANY_NOT_APPROVED"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeEmailExists        = "EMAIL_ALREADY_EXISTS"
	ErrCodePackageInUse       = "CANNOT_UPDATE_ACTIVE_PACKAGE"
	ErrCodeOrderFinalized     = "ORDER_ALREADY_FINALIZED"
	ErrCodeNoPostCredit       = "NO_POST_CREDIT"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeTokenRequired      = "TOKEN_REQUIRED"
	ErrCodeInvalidToken       = "INVALID_OR_EXPIRED_TOKEN"
	ErrCodeMissingRole        = "MISSING_ROLE"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInvalidBody        = "INVALID_BODY"
	ErrCodeEmailSendFailed    = "EMAIL_SEND_FAILED"
)

func strPtr(s string) *string { return &s }

// ok responde con éxito y los datos dados.
func ok(c *fiber.Ctx, status int, messageCode string, data any) error {
	return c.Status(status).JSON(dto.Response{
		Success:     true,
		MessageCode: strPtr(messageCode),
		Data:        data,
		Errors:      []dto.FieldError{},
	})
}

// okList responde un listado paginado: data = {data: [...], pagination}.
func okList[T any](c *fiber.Ctx, page *dto.Page[T]) error {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return ok(c, fiber.StatusOK, MsgGetAll, dto.ListData{Data: items, Pagination: page.Pagination})
}

// fail responde un error sin datos.
func fail(c *fiber.Ctx, status int, errorCode string, fields ...dto.FieldError) error {
	if fields == nil {
		fields = []dto.FieldError{}
	}
	return c.Status(status).JSON(dto.Response{
		Success:   false,
		ErrorCode: strPtr(errorCode),
		Errors:    fields,
	})
}

// respondError traduce un error de caso de uso a status + código. Lo no reconocido es
// 500 genérico y se registra con el detalle.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make([]dto.FieldError, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, dto.FieldError{Field: f.Field, ErrorCode: f.Code})
		}
		return fail(c, fiber.StatusBadRequest, ErrCodeValidation, fields...)
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrPaymentRejected):
		return fail(c, fiber.StatusBadRequest, ErrCodeValidation)
	case errors.Is(err, domain.ErrInvalidResetToken):
		return fail(c, fiber.StatusBadRequest, ErrCodeInvalidToken)
	case errors.Is(err, domain.ErrEmailDelivery):
		return fail(c, fiber.StatusBadGateway, ErrCodeEmailSendFailed)
	case errors.Is(err, domain.ErrPackageInUse):
		return fail(c, fiber.StatusBadRequest, ErrCodePackageInUse)
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, fiber.StatusNotFound, ErrCodeNotFound)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, ErrCodeInvalidCredentials)
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, ErrCodeUnauthorized)
	case errors.Is(err, domain.ErrAccountLocked):
		return fail(c, fiber.StatusForbidden, ErrCodeAccountLocked)
	case errors.Is(err, domain.ErrCompanyNotApproved):
		return fail(c, fiber.StatusForbidden, ErrCodeNotApproved)
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, ErrCodeForbidden)
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fail(c, fiber.StatusConflict, ErrCodeEmailExists)
	case errors.Is(err, domain.ErrOrderFinalized):
		return fail(c, fiber.StatusConflict, ErrCodeOrderFinalized)
	case errors.Is(err, domain.ErrNoPostCredit):
		return fail(c, fiber.StatusConflict, ErrCodeNoPostCredit)
	case errors.Is(err, domain.ErrConflict):
		return fail(c, fiber.StatusConflict, ErrCodeConflict)
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return fail(c, fiber.StatusInternalServerError, ErrCodeInternal)
}

// ErrorHandler para fiber.Config: errores del framework (404 de ruta, body demasiado
// grande) y pánicos recuperados también salen con el sobre.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := ErrCodeInternal
			switch fe.Code {
			case fiber.StatusNotFound:
				code = ErrCodeNotFound
			case fiber.StatusRequestEntityTooLarge, fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
				code = ErrCodeValidation
			case fiber.StatusMethodNotAllowed:
				code = ErrCodeNotFound
			case fiber.StatusTooManyRequests:
				code = ErrCodeTooManyRequests
			}
			if fe.Code >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Path()).Msg("error del servidor")
			}
			return fail(c, fe.Code, code)
		}
		return respondError(c, log, err)
	}
}
