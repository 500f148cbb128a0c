package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/jobboard-api/internal/application/dto"
	"github.com/jhoicas/jobboard-api/internal/application/ports"
	"github.com/jhoicas/jobboard-api/internal/application/validation"
	"github.com/jhoicas/jobboard-api/internal/domain"
	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/domain/payment"
	"github.com/jhoicas/jobboard-api/internal/domain/repository"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

// PaymentInstructions datos bancarios que se muestran a la empresa para pagar.
type PaymentInstructions struct {
	TransferPrefix string
	BankAccount    string
	BankName       string
}

// OrderUseCase libro de pedidos y créditos de publicación.
type OrderUseCase struct {
	orders    repository.OrderRepository
	packages  repository.VipPackageRepository
	companies repository.CompanyRepository
	slips     ports.PaymentSlipGenerator
	clock     ports.Clock
	pay       PaymentInstructions
	log       *logger.Logger
}

// NewOrderUseCase construye el caso de uso de pedidos.
func NewOrderUseCase(
	orders repository.OrderRepository,
	packages repository.VipPackageRepository,
	companies repository.CompanyRepository,
	slips ports.PaymentSlipGenerator,
	clock ports.Clock,
	pay PaymentInstructions,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:    orders,
		packages:  packages,
		companies: companies,
		slips:     slips,
		clock:     clock,
		pay:       pay,
		log:       log.Component("order"),
	}
}

// CreateOrder único camino de alta de pedidos: PENDING, cupos = numPost del paquete,
// vencimiento a medianoche UTC de now + durationDay.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, actor entity.Actor, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	company, err := uc.actorCompany(ctx, actor)
	if err != nil {
		return nil, err
	}
	if company.Status != entity.CompanyApproved {
		return nil, domain.ErrCompanyNotApproved
	}
	pkg, err := uc.packages.GetByID(ctx, in.VipPackageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.clock.Now()
	order := &entity.Order{
		ID:             uuid.New().String(),
		CompanyID:      company.ID,
		VipPackageID:   pkg.ID,
		EndDate:        entity.OrderEndDate(now, pkg.DurationDay),
		RemainingPosts: pkg.NumPost,
		Status:         entity.OrderPending,
		CreatedAt:      now,
		UpdatedAt:      now,
		VipPackage:     pkg,
	}
	if err := uc.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("company_id", company.ID).Str("package_id", pkg.ID).
		Str("amount", pkg.Price.String()).Msg("pedido creado")
	return uc.toResponse(order, company), nil
}

// GetOrderByID pedido con su paquete. Los pedidos de otra empresa no existen para el actor.
func (uc *OrderUseCase) GetOrderByID(ctx context.Context, actor entity.Actor, id string) (*dto.OrderResponse, error) {
	order, company, err := uc.ownedOrder(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(order, company), nil
}

// ListOrders pedidos de la empresa del actor, más recientes primero.
func (uc *OrderUseCase) ListOrders(ctx context.Context, actor entity.Actor, q dto.PageRequest) (*dto.Page[dto.OrderResponse], error) {
	company, err := uc.actorCompany(ctx, actor)
	if err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, total, err := uc.orders.ListByCompany(ctx, company.ID, q.Size, q.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *uc.toResponse(o, company))
	}
	return &dto.Page[dto.OrderResponse]{Items: items, Pagination: dto.NewPagination(q, total)}, nil
}

// PaymentSlip PDF con monto, datos bancarios y contenido exacto de la transferencia.
func (uc *OrderUseCase) PaymentSlip(ctx context.Context, actor entity.Actor, id string) ([]byte, string, error) {
	order, company, err := uc.ownedOrder(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	slip := ports.PaymentSlip{
		OrderID:         order.ID,
		CompanyName:     company.Name,
		TaxCode:         company.TaxCode,
		PackageName:     order.VipPackage.Name,
		NumPost:         order.VipPackage.NumPost,
		DurationDay:     order.VipPackage.DurationDay,
		Amount:          order.VipPackage.Price,
		TransferContent: uc.transferContent(order, company),
		BankAccount:     uc.pay.BankAccount,
		BankName:        uc.pay.BankName,
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt,
		EndDate:         order.EndDate,
	}
	pdf, err := uc.slips.Generate(ctx, slip)
	if err != nil {
		return nil, "", fmt.Errorf("generar orden de pago: %w", err)
	}
	return pdf, fmt.Sprintf("orden-pago-%s.pdf", payment.CompactReference(order.ID)), nil
}

// ConsumePostCredit descuenta una publicación del mejor crédito usable de la empresa.
// Lo invoca el módulo de publicación de empleos.
func (uc *OrderUseCase) ConsumePostCredit(ctx context.Context, companyID string) (*dto.OrderResponse, error) {
	order, err := uc.orders.ConsumePostCredit(ctx, companyID, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNoPostCredit
	}
	return &dto.OrderResponse{
		ID:             order.ID,
		CompanyID:      order.CompanyID,
		VipPackageID:   order.VipPackageID,
		EndDate:        order.EndDate,
		RemainingPosts: order.RemainingPosts,
		Status:         string(order.Status),
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}, nil
}

func (uc *OrderUseCase) actorCompany(ctx context.Context, actor entity.Actor) (*entity.Company, error) {
	if !actor.IsCompany() {
		return nil, domain.ErrForbidden
	}
	company, err := uc.companies.GetByAccountID(ctx, actor.AccountID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

func (uc *OrderUseCase) ownedOrder(ctx context.Context, actor entity.Actor, id string) (*entity.Order, *entity.Company, error) {
	company, err := uc.actorCompany(ctx, actor)
	if err != nil {
		return nil, nil, err
	}
	order, err := uc.orders.GetWithPackage(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if order == nil || order.CompanyID != company.ID {
		return nil, nil, domain.ErrNotFound
	}
	return order, company, nil
}

func (uc *OrderUseCase) transferContent(o *entity.Order, c *entity.Company) string {
	return payment.TransferContent(uc.pay.TransferPrefix, c.TaxCode, o.ID)
}

func (uc *OrderUseCase) toResponse(o *entity.Order, c *entity.Company) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:              o.ID,
		CompanyID:       o.CompanyID,
		VipPackageID:    o.VipPackageID,
		EndDate:         o.EndDate,
		RemainingPosts:  o.RemainingPosts,
		Status:          string(o.Status),
		TransferContent: uc.transferContent(o, c),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.VipPackage != nil {
		resp.Amount = o.VipPackage.Price
		resp.VipPackage = NewVipPackageResponse(o.VipPackage)
	}
	return resp
}
