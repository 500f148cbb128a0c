package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobboard-api/internal/application/auth"
	"github.com/jhoicas/jobboard-api/internal/application/billing"
	"github.com/jhoicas/jobboard-api/internal/application/usecase"
	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/infrastructure/ratelimit"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CompanyUC    *usecase.CompanyUseCase
	VipPackageUC *usecase.VipPackageUseCase
	OrderUC      *usecase.OrderUseCase
	PaymentUC    *billing.PaymentWebhookUseCase
	JWTSecret    string

	// Limiter nil desactiva el rate limiting.
	Limiter          ratelimit.Limiter
	LoginPerMinute   int
	WebhookPerMinute int

	Log *logger.Logger
}

// Router registra las rutas de la API bajo /api/v1.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api/v1")
	authMW := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)
	companyOnly := RequireRole(entity.RoleCompany)

	authHandler := NewAuthHandler(deps.AuthUC, log)
	companyHandler := NewCompanyHandler(deps.CompanyUC, log)
	vipHandler := NewVipPackageHandler(deps.VipPackageUC, log)
	orderHandler := NewOrderHandler(deps.OrderUC, log)
	paymentHandler := NewPaymentHandler(deps.PaymentUC, log)

	// Auth
	api.Post("/auth/login", RateLimit(deps.Limiter, "login", deps.LoginPerMinute, time.Minute), authHandler.Login)
	api.Get("/auth/me", authMW, authHandler.Me)
	api.Patch("/auth/change-password", authMW, authHandler.ChangePassword)
	api.Patch("/auth/lock-account", authMW, adminOnly, authHandler.LockAccount)
	api.Patch("/auth/unlock-account", authMW, adminOnly, authHandler.UnlockAccount)
	api.Patch("/auth/forgot-password", RateLimit(deps.Limiter, "forgot", deps.LoginPerMinute, time.Minute), authHandler.ForgotPassword)
	api.Get("/auth/forgot-password/:token", authHandler.CheckResetToken)
	api.Patch("/auth/reset-password", RateLimit(deps.Limiter, "reset", deps.LoginPerMinute, time.Minute), authHandler.ResetPassword)

	// Empresas (público). Las rutas estáticas van antes de /company/:id.
	api.Post("/company/register", authHandler.RegisterCompany)
	api.Get("/company/verification-status", companyHandler.VerificationStatus)
	api.Get("/company/vip-packages", vipHandler.ListForCompany)
	api.Get("/companies", companyHandler.ListPublic)
	api.Get("/companies/:id", companyHandler.GetPublic)

	// Pedidos (COMPANY)
	api.Post("/company/order", authMW, companyOnly, orderHandler.Create)
	api.Get("/company/orders", authMW, companyOnly, orderHandler.List)
	api.Get("/company/order/:id", authMW, companyOnly, orderHandler.GetByID)
	api.Get("/company/order/:id/payment-slip", authMW, companyOnly, orderHandler.PaymentSlip)

	// Perfil (COMPANY)
	api.Put("/company/:id", authMW, companyOnly, companyHandler.UpdateProfile)

	// Administración
	admin := api.Group("/admin", authMW, adminOnly)
	admin.Patch("/company/:id/change-status", companyHandler.ChangeStatus)
	admin.Get("/companies/unapproved", companyHandler.ListUnapproved)
	admin.Get("/company/:id", companyHandler.GetByID)

	admin.Get("/vip-packages", vipHandler.List)
	admin.Post("/vip-package", vipHandler.Create)
	admin.Get("/vip-package/:id", vipHandler.GetByID)
	admin.Put("/vip-package/:id", vipHandler.Update)
	admin.Delete("/vip-package/:id", vipHandler.Delete)

	// Webhook de pagos (Apikey, no JWT)
	api.Post("/payment/sepay-callback",
		RateLimit(deps.Limiter, "webhook", deps.WebhookPerMinute, time.Minute),
		paymentHandler.SePayCallback)
}
