package usecase_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobboard-api/internal/application/dto"
	"github.com/jhoicas/jobboard-api/internal/application/usecase"
	"github.com/jhoicas/jobboard-api/internal/domain"
	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/domain/payment"
	"github.com/jhoicas/jobboard-api/internal/testutil"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

type orderFixture struct {
	store *testutil.Store
	clock *testutil.FakeClock
	slips *testutil.StubSlipGenerator
	uc    *usecase.OrderUseCase
}

func newOrderUC() *orderFixture {
	s := testutil.NewStore()
	clock := testutil.NewFakeClock(time.Date(2025, 1, 31, 23, 30, 0, 0, time.UTC))
	slips := &testutil.StubSlipGenerator{}
	uc := usecase.NewOrderUseCase(s.OrderRepo(), s.VipPackageRepo(), s.CompanyRepo(), slips, clock,
		usecase.PaymentInstructions{TransferPrefix: "VIECLAM", BankAccount: "0011001234567", BankName: "Vietcombank"},
		logger.Nop())
	return &orderFixture{store: s, clock: clock, slips: slips, uc: uc}
}

func companyActor(a *entity.Account) entity.Actor {
	return entity.Actor{Role: entity.RoleCompany, AccountID: a.ID}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta de pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_VencimientoYCupos(t *testing.T) {
	f := newOrderUC()
	acc, c := f.store.SeedCompany("a@congty.vn", entity.CompanyApproved)
	pkg := f.store.SeedPackage("Gói Bạc", 500000, 5, 30, entity.LevelSilver)

	resp, err := f.uc.CreateOrder(context.Background(), companyActor(acc), dto.CreateOrderRequest{VipPackageID: pkg.ID})
	require.NoError(t, err)

	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, 5, resp.RemainingPosts)
	assert.Equal(t, c.ID, resp.CompanyID)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), resp.EndDate)
	assert.True(t, resp.Amount.Equal(pkg.Price))

	// El contenido de transferencia lleva la referencia en la posición que lee el conciliador.
	assert.True(t, strings.HasPrefix(resp.TransferContent, "VIECLAM 0101234567 "))
	assert.Equal(t, resp.ID, payment.ExtractOrderReference(resp.TransferContent))
}

func TestCreateOrder_PaqueteEliminadoOInexistente(t *testing.T) {
	f := newOrderUC()
	acc, _ := f.store.SeedCompany("a@congty.vn", entity.CompanyApproved)
	pkg := f.store.SeedPackage("Gói Bạc", 500000, 5, 30, entity.LevelSilver)
	_, _ = f.store.VipPackageRepo().SoftDelete(context.Background(), pkg.ID, f.clock.Now())

	_, err := f.uc.CreateOrder(context.Background(), companyActor(acc), dto.CreateOrderRequest{VipPackageID: pkg.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.CreateOrder(context.Background(), companyActor(acc),
		dto.CreateOrderRequest{VipPackageID: "8d0e7b3a-2f7e-4b8e-9c1a-2b3c4d5e6f70"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.CreateOrder(context.Background(), companyActor(acc), dto.CreateOrderRequest{VipPackageID: "no-uuid"})
	assert.Equal(t, "INVALID_UUID", fieldCodes(t, err)["vipPackageId"])
}

func TestCreateOrder_EmpresaNoAprobada(t *testing.T) {
	f := newOrderUC()
	acc, _ := f.store.SeedCompany("p@congty.vn", entity.CompanyPending)
	pkg := f.store.SeedPackage("Gói Bạc", 500000, 5, 30, entity.LevelSilver)

	_, err := f.uc.CreateOrder(context.Background(), companyActor(acc), dto.CreateOrderRequest{VipPackageID: pkg.ID})
	assert.ErrorIs(t, err, domain.ErrCompanyNotApproved)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas y propiedad
// ──────────────────────────────────────────────────────────────────────────────

func TestGetOrderByID_PedidoAjenoEsNotFound(t *testing.T) {
	f := newOrderUC()
	accA, a := f.store.SeedCompany("a@congty.vn", entity.CompanyApproved)
	accB, _ := f.store.SeedCompany("b@congty.vn", entity.CompanyApproved)
	pkg := f.store.SeedPackage("Gói Bạc", 500000, 5, 30, entity.LevelSilver)
	o := f.store.SeedOrder(a.ID, pkg, entity.OrderPending, f.clock.Now().Add(30*24*time.Hour))

	got, err := f.uc.GetOrderByID(context.Background(), companyActor(accA), o.ID)
	require.NoError(t, err)
	require.NotNil(t, got.VipPackage)
	assert.Equal(t, "Gói Bạc", got.VipPackage.Name)

	_, err = f.uc.GetOrderByID(context.Background(), companyActor(accB), o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOrders_Paginado(t *testing.T) {
	f := newOrderUC()
	acc, c := f.store.SeedCompany("a@congty.vn", entity.CompanyApproved)
	pkg := f.store.SeedPackage("Gói Bạc", 500000, 5, 30, entity.LevelSilver)
	for i := 0; i < 3; i++ {
		f.store.SeedOrder(c.ID, pkg, entity.OrderPending, f.clock.Now().Add(time.Hour))
	}

	page, err := f.uc.ListOrders(context.Background(), companyActor(acc), dto.PageRequest{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Len(t, page.Items, 1)
}

func TestPaymentSlip_DatosBancarios(t *testing.T) {
	f := newOrderUC()
	acc, c := f.store.SeedCompany("a@congty.vn", entity.CompanyApproved)
	pkg := f.store.SeedPackage("Gói Bạc", 500000, 5, 30, entity.LevelSilver)
	o := f.store.SeedOrder(c.ID, pkg, entity.OrderPending, f.clock.Now().Add(time.Hour))

	pdf, name, err := f.uc.PaymentSlip(context.Background(), companyActor(acc), o.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "orden-pago-"+payment.CompactReference(o.ID)+".pdf", name)

	require.NotNil(t, f.slips.Last)
	assert.Equal(t, "Vietcombank", f.slips.Last.BankName)
	assert.True(t, f.slips.Last.Amount.Equal(pkg.Price))
	assert.Equal(t, o.ID, payment.ExtractOrderReference(f.slips.Last.TransferContent))
}

// ──────────────────────────────────────────────────────────────────────────────
// Créditos de publicación
// ──────────────────────────────────────────────────────────────────────────────

func TestConsumePostCredit_MayorPrioridadPrimero(t *testing.T) {
	f := newOrderUC()
	_, c := f.store.SeedCompany("a@congty.vn", entity.CompanyApproved)
	silver := f.store.SeedPackage("Gói Bạc", 500000, 2, 30, entity.LevelSilver)
	gold := f.store.SeedPackage("Gói Vàng", 1200000, 1, 30, entity.LevelGold)
	now := f.clock.Now()
	oSilver := f.store.SeedOrder(c.ID, silver, entity.OrderSuccess, now.Add(24*time.Hour))
	oGold := f.store.SeedOrder(c.ID, gold, entity.OrderSuccess, now.Add(48*time.Hour))
	f.store.SeedOrder(c.ID, gold, entity.OrderPending, now.Add(48*time.Hour)) // sin pagar: no cuenta

	got, err := f.uc.ConsumePostCredit(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, oGold.ID, got.ID)
	assert.Equal(t, 0, got.RemainingPosts)

	got, err = f.uc.ConsumePostCredit(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, oSilver.ID, got.ID)
}

func TestConsumePostCredit_PublicacionesConcurrentesNoPierdenCupo(t *testing.T) {
	f := newOrderUC()
	_, c := f.store.SeedCompany("a@congty.vn", entity.CompanyApproved)
	gold := f.store.SeedPackage("Gói Vàng", 1200000, 1, 30, entity.LevelGold)
	silver := f.store.SeedPackage("Gói Bạc", 500000, 4, 30, entity.LevelSilver)
	now := f.clock.Now()
	oGold := f.store.SeedOrder(c.ID, gold, entity.OrderSuccess, now.Add(48*time.Hour))
	oSilver := f.store.SeedOrder(c.ID, silver, entity.OrderSuccess, now.Add(48*time.Hour))

	const posts = 5
	errs := make(chan error, posts)
	var wg sync.WaitGroup
	for i := 0; i < posts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.ConsumePostCredit(context.Background(), c.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err, "hay un cupo por publicación")
	}

	assert.Equal(t, 0, f.store.Order(oGold.ID).RemainingPosts)
	assert.Equal(t, 0, f.store.Order(oSilver.ID).RemainingPosts)
	_, err := f.uc.ConsumePostCredit(context.Background(), c.ID)
	assert.ErrorIs(t, err, domain.ErrNoPostCredit)
}

func TestConsumePostCredit_SinCredito(t *testing.T) {
	f := newOrderUC()
	_, c := f.store.SeedCompany("a@congty.vn", entity.CompanyApproved)
	pkg := f.store.SeedPackage("Gói Bạc", 500000, 1, 30, entity.LevelSilver)
	f.store.SeedOrder(c.ID, pkg, entity.OrderSuccess, f.clock.Now()) // vence justo ahora

	_, err := f.uc.ConsumePostCredit(context.Background(), c.ID)
	assert.ErrorIs(t, err, domain.ErrNoPostCredit)
}
