package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobboard-api/internal/application/dto"
	"github.com/jhoicas/jobboard-api/internal/application/usecase"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

// CompanyHandler revisión de empresas (admin) y perfil de la empresa aprobada.
type CompanyHandler struct {
	uc  *usecase.CompanyUseCase
	log *logger.Logger
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *usecase.CompanyUseCase, log *logger.Logger) *CompanyHandler {
	return &CompanyHandler{uc: uc, log: log}
}

// ChangeStatus godoc
// @Summary      Aprobar o rechazar empresa
// @Description  Sólo empresas en PENDING. status: 1 = aprobar, 0 = rechazar (reasonReject obligatorio).
// @Tags         admin-companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la empresa"
// @Param        body  body  dto.ChangeCompanyStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Failure      404   {object}  dto.Response
// @Router       /api/v1/admin/company/{id}/change-status [patch]
func (h *CompanyHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeCompanyStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrCodeInvalidBody)
	}
	out, err := h.uc.TransitionStatus(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgUpdated, out)
}

// ListUnapproved godoc
// @Summary      Listar empresas sin aprobar
// @Tags         admin-companies
// @Security     Bearer
// @Produce      json
// @Param        page    query  int     false  "Página"  default(1)
// @Param        size    query  int     false  "Tamaño"  default(10)
// @Param        status  query  string  false  "pending | rejected | all"
// @Param        search  query  string  false  "Nombre, email o código fiscal"
// @Success      200     {object}  dto.Response
// @Router       /api/v1/admin/companies/unapproved [get]
func (h *CompanyHandler) ListUnapproved(c *fiber.Ctx) error {
	var q dto.CompanyListQuery
	if err := c.QueryParser(&q); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrCodeValidation)
	}
	page, err := h.uc.ListUnapproved(c.UserContext(), GetActor(c), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return okList(c, page)
}

// GetByID godoc
// @Summary      Obtener empresa
// @Tags         admin-companies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /api/v1/admin/company/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgGet, out)
}

// ListPublic godoc
// @Summary      Directorio de empresas
// @Description  Público: empresas aprobadas cuya cuenta no está bloqueada.
// @Tags         companies
// @Produce      json
// @Param        page      query  int     false  "Página (desde 1)"
// @Param        size      query  int     false  "Tamaño de página"
// @Param        search    query  string  false  "Nombre, email o código fiscal"
// @Param        province  query  string  false  "Nombre de la provincia (parcial)"
// @Success      200       {object}  dto.Response
// @Router       /api/v1/companies [get]
func (h *CompanyHandler) ListPublic(c *fiber.Ctx) error {
	var q dto.PublicCompanyListQuery
	if err := c.QueryParser(&q); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrCodeValidation)
	}
	page, err := h.uc.ListPublic(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return okList(c, page)
}

// GetPublic godoc
// @Summary      Ficha pública de empresa
// @Tags         companies
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /api/v1/companies/{id} [get]
func (h *CompanyHandler) GetPublic(c *fiber.Ctx) error {
	out, err := h.uc.GetPublicByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgGet, out)
}

// VerificationStatus godoc
// @Summary      Estado de verificación
// @Description  Público: permite a una empresa recién registrada consultar su revisión.
// @Tags         companies
// @Produce      json
// @Param        email  query  string  true  "Email de registro"
// @Success      200    {object}  dto.Response
// @Failure      404    {object}  dto.Response
// @Router       /api/v1/company/verification-status [get]
func (h *CompanyHandler) VerificationStatus(c *fiber.Ctx) error {
	out, err := h.uc.GetVerificationStatus(c.UserContext(), c.Query("email"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgGet, out)
}

// UpdateProfile godoc
// @Summary      Actualizar perfil de empresa
// @Tags         companies
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id           path      string  true   "ID de la empresa"
// @Param        address      formData  string  true   "Dirección"
// @Param        provinceId   formData  string  true   "Provincia"
// @Param        website      formData  string  false  "Sitio web"
// @Param        description  formData  string  false  "Descripción"
// @Param        logo         formData  string  false  "URI del logo actual"
// @Param        logoFile     formData  file    false  "Logo nuevo"
// @Success      200  {object}  dto.Response
// @Failure      400  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /api/v1/company/{id} [put]
func (h *CompanyHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrCodeInvalidBody)
	}
	logo, err := formUpload(c, "logoFile")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.UpdateProfile(c.UserContext(), GetActor(c), c.Params("id"), in, logo)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgUpdated, out)
}
