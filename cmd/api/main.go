package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/jobboard-api/internal/application/auth"
	"github.com/jhoicas/jobboard-api/internal/application/billing"
	"github.com/jhoicas/jobboard-api/internal/application/ports"
	"github.com/jhoicas/jobboard-api/internal/application/usecase"
	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/internal/infrastructure/mail"
	"github.com/jhoicas/jobboard-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/jobboard-api/internal/infrastructure/pdf"
	"github.com/jhoicas/jobboard-api/internal/infrastructure/postgres"
	"github.com/jhoicas/jobboard-api/internal/infrastructure/ratelimit"
	"github.com/jhoicas/jobboard-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/jobboard-api/internal/interfaces/http"
	"github.com/jhoicas/jobboard-api/pkg/config"
	"github.com/jhoicas/jobboard-api/pkg/logger"

	_ "github.com/jhoicas/jobboard-api/docs"
)

// @title        JobBoard API
// @version      1.0
// @description  Aprobación de empresas, paquetes VIP, pedidos y conciliación de pagos SePay.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if err := entity.ValidatePackageLevels(); err != nil {
		log.Fatal().Err(err).Msg("tabla de niveles VIP inconsistente")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	accountRepo := postgres.NewAccountRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	vipPackageRepo := postgres.NewVipPackageRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	paymentEventRepo := postgres.NewPaymentEventRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	files, err := storage.NewDiskStorage(cfg.Storage.Dir, cfg.Storage.PublicURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de archivos")
	}
	m := metrics.New(cfg.Metrics.Namespace)

	// Redis si está configurado; si no, ventanas en memoria (una sola instancia).
	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no responde; el limitador dejará pasar las peticiones")
		}
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.App.Name+":ratelimit", log)
	}

	var mailer ports.Mailer = mail.NewLogMailer(log)
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, log)
	} else {
		log.Warn().Msg("SMTP_HOST vacío: los emails de recuperación se escriben en el log")
	}

	clock := ports.SystemClock{}
	authUC := auth.NewAuthUseCase(accountRepo, companyRepo, txRunner, files, clock, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, mailer, auth.PasswordResetConfig{
		LinkBaseURL: cfg.App.ResetPasswordURL,
		TTL:         auth.DefaultResetTTL,
	}, log)
	companyUC := usecase.NewCompanyUseCase(companyRepo, files, clock, log)
	vipPackageUC := usecase.NewVipPackageUseCase(vipPackageRepo, clock, log)
	orderUC := usecase.NewOrderUseCase(orderRepo, vipPackageRepo, companyRepo, infrapdf.NewMarotoPDFGenerator(), clock,
		usecase.PaymentInstructions{
			TransferPrefix: cfg.SePay.TransferPrefix,
			BankAccount:    cfg.SePay.BankAccount,
			BankName:       cfg.SePay.BankName,
		}, log)
	paymentUC := billing.NewPaymentWebhookUseCase(orderRepo, paymentEventRepo, m, clock, cfg.SePay.APIKey, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    12 * 1024 * 1024,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log, m))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "JobBoard API",
	}))

	app.Static(cfg.Storage.PublicURL, files.BaseDir())
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		CompanyUC:        companyUC,
		VipPackageUC:     vipPackageUC,
		OrderUC:          orderUC,
		PaymentUC:        paymentUC,
		JWTSecret:        cfg.JWT.Secret,
		Limiter:          limiter,
		LoginPerMinute:   cfg.RateLimit.LoginPerMinute,
		WebhookPerMinute: cfg.RateLimit.WebhookPerMinute,
		Log:              log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
