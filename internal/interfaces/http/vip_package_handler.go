package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobboard-api/internal/application/dto"
	"github.com/jhoicas/jobboard-api/internal/application/usecase"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

// VipPackageHandler catálogo de paquetes VIP.
type VipPackageHandler struct {
	uc  *usecase.VipPackageUseCase
	log *logger.Logger
}

// NewVipPackageHandler construye el handler.
func NewVipPackageHandler(uc *usecase.VipPackageUseCase, log *logger.Logger) *VipPackageHandler {
	return &VipPackageHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear paquete VIP
// @Tags         admin-vip-packages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VipPackageRequest  true  "Paquete"
// @Success      201   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Router       /api/v1/admin/vip-package [post]
func (h *VipPackageHandler) Create(c *fiber.Ctx) error {
	var in dto.VipPackageRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrCodeInvalidBody)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, MsgCreated, out)
}

// Update godoc
// @Summary      Actualizar paquete VIP
// @Description  Rechazado con CANNOT_UPDATE_ACTIVE_PACKAGE si hay pedidos vigentes del paquete.
// @Tags         admin-vip-packages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del paquete"
// @Param        body  body  dto.VipPackageRequest  true  "Paquete"
// @Success      200   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Failure      404   {object}  dto.Response
// @Router       /api/v1/admin/vip-package/{id} [put]
func (h *VipPackageHandler) Update(c *fiber.Ctx) error {
	var in dto.VipPackageRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrCodeInvalidBody)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgUpdated, out)
}

// Delete godoc
// @Summary      Eliminar paquete VIP (lógico)
// @Tags         admin-vip-packages
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paquete"
// @Success      200  {object}  dto.Response
// @Failure      400  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /api/v1/admin/vip-package/{id} [delete]
func (h *VipPackageHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgDeleted, nil)
}

// GetByID godoc
// @Summary      Obtener paquete VIP
// @Tags         admin-vip-packages
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paquete"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /api/v1/admin/vip-package/{id} [get]
func (h *VipPackageHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgGet, out)
}

// List godoc
// @Summary      Listar paquetes VIP
// @Tags         admin-vip-packages
// @Security     Bearer
// @Produce      json
// @Param        page      query  int     false  "Página"  default(1)
// @Param        size      query  int     false  "Tamaño"  default(10)
// @Param        search    query  string  false  "Nombre"
// @Param        priority  query  string  false  "BASIC | SILVER | GOLD | PLATINUM | DIAMOND"
// @Success      200       {object}  dto.Response
// @Router       /api/v1/admin/vip-packages [get]
func (h *VipPackageHandler) List(c *fiber.Ctx) error {
	var q dto.VipPackageListQuery
	if err := c.QueryParser(&q); err != nil {
		return fail(c, fiber.StatusBadRequest, ErrCodeValidation)
	}
	page, err := h.uc.List(c.UserContext(), GetActor(c), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return okList(c, page)
}

// ListForCompany godoc
// @Summary      Paquetes disponibles
// @Description  Catálogo público ordenado por precio ascendente.
// @Tags         companies
// @Produce      json
// @Success      200  {object}  dto.Response
// @Router       /api/v1/company/vip-packages [get]
func (h *VipPackageHandler) ListForCompany(c *fiber.Ctx) error {
	out, err := h.uc.ListForCompany(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, MsgGetAll, out)
}
