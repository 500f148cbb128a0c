package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobboard-api/internal/application/auth"
	"github.com/jhoicas/jobboard-api/internal/application/dto"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

// AuthHandler maneja registro de empresas, login y gestión de cuentas.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	log *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// RegisterCompany godoc
// @Summary      Registrar empresa
// @Description  Crea la cuenta COMPANY y la empresa en estado PENDING (multipart).
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Param        email            formData  string  true   "Email"
// @Param        password         formData  string  true   "Contraseña"
// @Param        name             formData  string  true   "Nombre de la empresa"
// @Param        address          formData  string  true   "Dirección"
// @Param        provinceId       formData  string  true   "Provincia"
// @Param        taxCode          formData  string  true   "Código fiscal"
// @Param        website          formData  string  false  "Sitio web"
// @Param        description      formData  string  false  "Descripción"
// @Param        logo             formData  file    true   "Logo"
// @Param        businessLicense  formData  file    true   "Licencia comercial"
// @Success      201  {object}  dto.Response
// @Failure      400  {object}  dto.Response
// @Failure      409  {object}  dto.Response
// @Router       /api/v1/company/register [post]
func (h *AuthHandler) RegisterCompany(c *fiber.Ctx) error {
	var in dto.RegisterCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrCodeInvalidBody)
	}
	logo, err := formUpload(c, "logo")
	if err != nil {
		return respondError(c, h.log, err)
	}
	license, err := formUpload(c, "businessLicense")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.RegisterCompany(c.UserContext(), in, logo, license)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, MsgCreated, out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.Response
// @Failure      401   {object}  dto.Response
// @Failure      403   {object}  dto.Response
// @Failure      429   {object}  dto.Response
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrCodeInvalidBody)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgLogin, out)
}

// Me godoc
// @Summary      Cuenta actual
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response
// @Failure      401  {object}  dto.Response
// @Router       /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgGetMe, out)
}

// ChangePassword godoc
// @Summary      Cambiar contraseña
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePasswordRequest  true  "Contraseña actual y nueva"
// @Success      200   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Router       /api/v1/auth/change-password [patch]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrCodeInvalidBody)
	}
	if err := h.uc.ChangePassword(c.UserContext(), GetActor(c), in); err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgUpdated, nil)
}

// LockAccount godoc
// @Summary      Bloquear cuenta
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LockAccountRequest  true  "Cuenta"
// @Success      200   {object}  dto.Response
// @Failure      404   {object}  dto.Response
// @Router       /api/v1/auth/lock-account [patch]
func (h *AuthHandler) LockAccount(c *fiber.Ctx) error { return h.setLocked(c, true) }

// UnlockAccount godoc
// @Summary      Desbloquear cuenta
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LockAccountRequest  true  "Cuenta"
// @Success      200   {object}  dto.Response
// @Failure      404   {object}  dto.Response
// @Router       /api/v1/auth/unlock-account [patch]
func (h *AuthHandler) UnlockAccount(c *fiber.Ctx) error { return h.setLocked(c, false) }

func (h *AuthHandler) setLocked(c *fiber.Ctx, locked bool) error {
	var in dto.LockAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrCodeInvalidBody)
	}
	if err := h.uc.SetLocked(c.UserContext(), GetActor(c), in, locked); err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgUpdated, nil)
}

// ForgotPassword godoc
// @Summary      Solicitar recuperación de contraseña
// @Description  Envía por email un enlace con un token de un solo uso (30 minutos).
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "Email de la cuenta"
// @Success      200   {object}  dto.Response
// @Failure      404   {object}  dto.Response
// @Failure      502   {object}  dto.Response
// @Router       /api/v1/auth/forgot-password [patch]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrCodeInvalidBody)
	}
	out, err := h.uc.ForgotPassword(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgResetEmailSent, out)
}

// CheckResetToken godoc
// @Summary      Comprobar token de recuperación
// @Tags         auth
// @Produce      json
// @Param        token  path  string  true  "Token recibido por email"
// @Success      200    {object}  dto.Response
// @Failure      400    {object}  dto.Response
// @Router       /api/v1/auth/forgot-password/{token} [get]
func (h *AuthHandler) CheckResetToken(c *fiber.Ctx) error {
	out, err := h.uc.CheckResetToken(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgGet, out)
}

// ResetPassword godoc
// @Summary      Restablecer contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "Token y nueva contraseña"
// @Success      200   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Router       /api/v1/auth/reset-password [patch]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrCodeInvalidBody)
	}
	if err := h.uc.ResetPassword(c.UserContext(), in); err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgUpdated, nil)
}
