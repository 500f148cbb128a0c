package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/jobboard-api/internal/application/dto"
	"github.com/jhoicas/jobboard-api/internal/application/ports"
	"github.com/jhoicas/jobboard-api/internal/application/validation"
	"github.com/jhoicas/jobboard-api/internal/domain"
	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/domain/repository"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

// MinPackagePrice precio mínimo de un paquete VIP.
var MinPackagePrice = decimal.NewFromInt(1000)

// VipPackageUseCase catálogo de paquetes VIP administrado por ADMIN.
type VipPackageUseCase struct {
	repo  repository.VipPackageRepository
	clock ports.Clock
	log   *logger.Logger
}

// NewVipPackageUseCase construye el caso de uso del catálogo.
func NewVipPackageUseCase(repo repository.VipPackageRepository, clock ports.Clock, log *logger.Logger) *VipPackageUseCase {
	return &VipPackageUseCase{repo: repo, clock: clock, log: log.Component("vip_package")}
}

// Create agrega un paquete. La prioridad llega como etiqueta y se guarda como rango.
func (uc *VipPackageUseCase) Create(ctx context.Context, actor entity.Actor, in dto.VipPackageRequest) (*dto.VipPackageResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	level, err := validatePackage(in)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	pkg := &entity.VipPackage{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		NumPost:     in.NumPost,
		Price:       in.Price,
		DurationDay: in.DurationDay,
		Priority:    level,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, pkg); err != nil {
		return nil, err
	}
	uc.log.Info().Str("package_id", pkg.ID).Str("priority", level.String()).Msg("paquete VIP creado")
	return NewVipPackageResponse(pkg), nil
}

// Update reescribe el paquete. Falla con ErrPackageInUse mientras algún pedido siga vigente.
func (uc *VipPackageUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.VipPackageRequest) (*dto.VipPackageResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	level, err := validatePackage(in)
	if err != nil {
		return nil, err
	}
	current, err := uc.loadEditable(ctx, id)
	if err != nil {
		return nil, err
	}

	current.Name = strings.TrimSpace(in.Name)
	current.Description = strings.TrimSpace(in.Description)
	current.NumPost = in.NumPost
	current.Price = in.Price
	current.DurationDay = in.DurationDay
	current.Priority = level

	now := uc.clock.Now()
	applied, err := uc.repo.Update(ctx, current, now)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, uc.explainRejectedWrite(ctx, id)
	}
	current.UpdatedAt = now
	return NewVipPackageResponse(current), nil
}

// Delete borrado lógico con la misma regla de pedidos vigentes que Update.
func (uc *VipPackageUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if _, err := uc.loadEditable(ctx, id); err != nil {
		return err
	}
	applied, err := uc.repo.SoftDelete(ctx, id, uc.clock.Now())
	if err != nil {
		return err
	}
	if !applied {
		return uc.explainRejectedWrite(ctx, id)
	}
	uc.log.Info().Str("package_id", id).Msg("paquete VIP eliminado")
	return nil
}

// GetByID detalle de un paquete no eliminado.
func (uc *VipPackageUseCase) GetByID(ctx context.Context, id string) (*dto.VipPackageResponse, error) {
	pkg, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, domain.ErrNotFound
	}
	return NewVipPackageResponse(pkg), nil
}

// List catálogo paginado con búsqueda y filtro de prioridad (admin).
func (uc *VipPackageUseCase) List(ctx context.Context, actor entity.Actor, q dto.VipPackageListQuery) (*dto.Page[dto.VipPackageResponse], error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	q.DefaultPage()
	filter := repository.VipPackageFilter{Search: q.Search, Limit: q.Size, Offset: q.Offset()}
	if q.Priority != "" {
		level, _ := entity.ParsePackageLevel(q.Priority)
		filter.Priority = &level
	}
	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VipPackageResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *NewVipPackageResponse(p))
	}
	return &dto.Page[dto.VipPackageResponse]{Items: items, Pagination: dto.NewPagination(q.PageRequest, total)}, nil
}

// ListForCompany paquetes disponibles para comprar, del más barato al más caro.
func (uc *VipPackageUseCase) ListForCompany(ctx context.Context) ([]dto.VipPackageResponse, error) {
	list, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VipPackageResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *NewVipPackageResponse(p))
	}
	return items, nil
}

// loadEditable NotFound si no existe o está eliminado; ErrPackageInUse si tiene pedidos vigentes.
func (uc *VipPackageUseCase) loadEditable(ctx context.Context, id string) (*entity.VipPackage, error) {
	pkg, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, domain.ErrNotFound
	}
	active, err := uc.repo.HasActiveOrders(ctx, id, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if active {
		return nil, domain.ErrPackageInUse
	}
	return pkg, nil
}

// explainRejectedWrite la escritura condicionada no afectó filas: o el paquete desapareció
// o entró un pedido entre la verificación y el UPDATE.
func (uc *VipPackageUseCase) explainRejectedWrite(ctx context.Context, id string) error {
	pkg, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pkg == nil {
		return domain.ErrNotFound
	}
	return domain.ErrPackageInUse
}

func validatePackage(in dto.VipPackageRequest) (entity.PackageLevel, error) {
	verr := &domain.ValidationError{}
	if err := validation.Struct(in); err != nil {
		fe, ok := err.(*domain.ValidationError)
		if !ok {
			return 0, err
		}
		verr.Fields = append(verr.Fields, fe.Fields...)
	}
	if in.Price.LessThan(MinPackagePrice) {
		verr.Add("price", validation.CodeTooSmall)
	}
	if verr.HasErrors() {
		return 0, verr
	}
	level, _ := entity.ParsePackageLevel(in.Priority)
	return level, nil
}

// NewVipPackageResponse convierte la entidad al DTO de salida.
func NewVipPackageResponse(p *entity.VipPackage) *dto.VipPackageResponse {
	if p == nil {
		return nil
	}
	return &dto.VipPackageResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		NumPost:     p.NumPost,
		Price:       p.Price,
		DurationDay: p.DurationDay,
		Priority:    p.Priority.String(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
