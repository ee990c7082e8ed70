package main

import (
	"context"
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"escrow-broker.backend/internal/config"
	"escrow-broker.backend/internal/infrastructure/email"
	"escrow-broker.backend/internal/infrastructure/jobs"
	"escrow-broker.backend/internal/infrastructure/repositories"
	"escrow-broker.backend/internal/interfaces/http/handlers"
	"escrow-broker.backend/internal/interfaces/http/middleware"
	"escrow-broker.backend/internal/usecases"
	"escrow-broker.backend/pkg/jwt"
	"escrow-broker.backend/pkg/logger"
	"escrow-broker.backend/pkg/metrics"
	"escrow-broker.backend/pkg/redis"
)

type routeDeps struct {
	authHandler            *handlers.AuthHandler
	userHandler            *handlers.UserHandler
	escrowHandler          *handlers.EscrowHandler
	kycHandler             *handlers.KYCHandler
	bankHandler            *handlers.BankHandler
	custodialWalletHandler *handlers.CustodialWalletHandler
	sellerBankHandler      *handlers.SellerBankHandler
	healthHandler          *handlers.HealthHandler

	authMiddleware       gin.HandlerFunc
	authRateLimit        gin.HandlerFunc
	superAdminMiddleware gin.HandlerFunc
}

type app struct {
	router      *gin.Engine
	expiryJob   *jobs.EscrowExpiryJob
	emailWorker *jobs.EmailWorker
	emailQueue  *asynq.Client
}

func (a *app) stopJobs() {
	a.expiryJob.Stop()
	if a.emailWorker != nil {
		a.emailWorker.Stop()
	}
}

// closeQueue releases the email queue client once nothing enqueues anymore.
func (a *app) closeQueue() {
	if a.emailQueue == nil {
		return
	}
	if err := a.emailQueue.Close(); err != nil {
		logger.Warn(context.Background(), "Failed to close email queue", zap.Error(err))
	}
}

// newEmailQueue connects the outbox to Redis. Without a Redis URL mail is sent inline.
func newEmailQueue(cfg *config.Config) (asynq.RedisConnOpt, *asynq.Client) {
	if cfg.Redis.URL == "" {
		return nil, nil
	}
	opt, err := email.RedisConnOpt(cfg.Redis)
	if err != nil {
		logger.Warn(context.Background(), "Email queue disabled, delivering inline", zap.Error(err))
		return nil, nil
	}
	return opt, asynq.NewClient(opt)
}

// buildApp wires repositories, usecases, handlers and background jobs.
func buildApp(cfg *config.Config, db *gorm.DB, sqlDB *sql.DB, sessions usecases.SessionStore) *app {
	userRepo := repositories.NewUserRepository(db)
	escrowRepo := repositories.NewEscrowRepository(db)
	kycRepo := repositories.NewKYCRepository(db)
	bankRepo := repositories.NewBankRepository(db)
	custodialWalletRepo := repositories.NewCustodialWalletRepository(db)
	sellerBankRepo := repositories.NewSellerBankAccountRepository(db)
	uow := repositories.NewUnitOfWork(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	queueOpt, queueClient := newEmailQueue(cfg)
	outbox := email.NewOutbox(email.NewMailer(cfg.Mail), queueClient)
	emailService := usecases.NewEmailService(outbox, cfg.Mail.AppURL, cfg.Escrow.AdminNotifyEmail)

	authUsecase := usecases.NewAuthUsecase(uow, userRepo, escrowRepo, jwtService, sessions)
	userUsecase := usecases.NewUserUsecase(userRepo)
	kycUsecase := usecases.NewKYCUsecase(uow, kycRepo, userRepo, emailService)
	bankUsecase := usecases.NewBankUsecase(bankRepo)
	custodialWalletUsecase := usecases.NewCustodialWalletUsecase(custodialWalletRepo)
	sellerBankUsecase := usecases.NewSellerBankUsecase(sellerBankRepo)
	escrowUsecase := usecases.NewEscrowUsecase(uow, usecases.EscrowRepos{
		Escrows:          escrowRepo,
		Balances:         repositories.NewEscrowBalanceRepository(db),
		Audit:            repositories.NewEscrowAuditRepository(db),
		Users:            userRepo,
		SellerBanks:      sellerBankRepo,
		PayoutWallets:    repositories.NewPayoutWalletRepository(db),
		Banks:            bankRepo,
		CustodialWallets: custodialWalletRepo,
	}, emailService, usecases.EscrowSettings{
		RequireKYC:             cfg.Escrow.RequireKYC,
		DefaultConfirmationTTL: cfg.Escrow.DefaultConfirmationTTL,
		FiatCurrencies:         cfg.Escrow.FiatCurrencies,
		CryptoCurrencies:       cfg.Escrow.CryptoCurrencies,
	})

	health := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"database": handlers.PingFunc(gormPinger(db, sqlDB)),
		"redis": handlers.PingFunc(func(ctx context.Context) error {
			c := redis.GetClient()
			if c == nil {
				return redis.ErrNotConfigured
			}
			return c.Ping(ctx).Err()
		}),
	})

	r := gin.New()
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))

	registerAPIV1Routes(r, routeDeps{
		authHandler: handlers.NewAuthHandler(authUsecase, handlers.CookieSettings{
			Domain: cfg.Server.CookieDomain,
			Secure: cfg.Server.CookieSecure,
		}),
		userHandler:            handlers.NewUserHandler(userUsecase),
		escrowHandler:          handlers.NewEscrowHandler(escrowUsecase),
		kycHandler:             handlers.NewKYCHandler(kycUsecase),
		bankHandler:            handlers.NewBankHandler(bankUsecase),
		custodialWalletHandler: handlers.NewCustodialWalletHandler(custodialWalletUsecase),
		sellerBankHandler:      handlers.NewSellerBankHandler(sellerBankUsecase),
		healthHandler:          health,
		authMiddleware:         middleware.AuthMiddleware(jwtService),
		authRateLimit:          middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst).Middleware(),
		superAdminMiddleware:   middleware.RequireSuperAdmin(cfg.Security.SuperAdminEmails),
	})

	a := &app{
		router:     r,
		expiryJob:  jobs.NewEscrowExpiryJob(escrowUsecase, cfg.Escrow.ExpiryInterval),
		emailQueue: queueClient,
	}
	if queueClient != nil {
		a.emailWorker = jobs.NewEmailWorker(queueOpt, outbox.ServeMux(), email.Queue, cfg.Mail.WorkerConcurrency)
	}
	return a
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	r.GET("/health", d.healthHandler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authRateLimit, d.authHandler.Register)
			auth.POST("/login", d.authRateLimit, d.authHandler.Login)
			auth.POST("/refresh", d.authRateLimit, d.authHandler.Refresh)
			auth.POST("/logout", d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
			auth.POST("/change-password", d.authMiddleware, d.authHandler.ChangePassword)
		}

		users := v1.Group("/users")
		users.Use(d.authMiddleware)
		{
			users.GET("/me", d.userHandler.GetMe)
			users.PUT("/me", d.userHandler.UpdateMe)
			users.GET("", middleware.RequireAdmin(), d.userHandler.ListUsers)
			users.GET("/:id", middleware.RequireAdmin(), d.userHandler.GetUser)
			users.PUT("/:id/role", middleware.RequireAdmin(), d.userHandler.SetRole)
		}

		escrow := v1.Group("/escrow")
		escrow.Use(d.authMiddleware)
		{
			escrow.POST("", d.escrowHandler.InitiateEscrow)
			escrow.GET("", d.escrowHandler.ListMyEscrows)
			escrow.GET("/:id", d.escrowHandler.GetEscrow)
			escrow.PUT("/:id/reception-details", d.escrowHandler.AddReceptionDetails)
			escrow.POST("/:id/fund", middleware.IdempotencyMiddleware(), d.escrowHandler.MarkAsFunded)
			escrow.POST("/:id/cancel", d.escrowHandler.CancelEscrow)

			admin := escrow.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/all", d.escrowHandler.ListAllEscrows)
				admin.PATCH("/:id", d.escrowHandler.AdminUpdateEscrow)
				admin.POST("/:id/release", d.escrowHandler.ReleaseEscrow)
				admin.POST("/:id/cancel", d.escrowHandler.CancelEscrow)
				admin.GET("/:id/audit", d.escrowHandler.ListAuditLog)
			}
		}

		kyc := v1.Group("/kyc")
		kyc.Use(d.authMiddleware)
		{
			kyc.POST("", d.kycHandler.Submit)
			kyc.GET("/me", d.kycHandler.GetMine)
			kyc.GET("/admin", middleware.RequireAdmin(), d.kycHandler.List)
			kyc.PUT("/admin/:userId/review", middleware.RequireAdmin(), d.kycHandler.Review)
		}

		banks := v1.Group("/banks")
		banks.Use(d.authMiddleware)
		{
			banks.GET("", d.bankHandler.ListActive)
			banks.GET("/admin", middleware.RequireAdmin(), d.bankHandler.ListAll)
			banks.POST("", middleware.RequireAdmin(), d.bankHandler.Create)
			banks.PUT("/:id", middleware.RequireAdmin(), d.bankHandler.Update)
			banks.DELETE("/:id", middleware.RequireAdmin(), d.bankHandler.Delete)
		}

		wallets := v1.Group("/custodial-wallets")
		wallets.Use(d.authMiddleware)
		{
			wallets.GET("", d.custodialWalletHandler.ListActive)
			wallets.GET("/admin", d.superAdminMiddleware, d.custodialWalletHandler.ListAll)
			wallets.POST("", d.superAdminMiddleware, d.custodialWalletHandler.Create)
			wallets.PUT("/:id", d.superAdminMiddleware, d.custodialWalletHandler.Update)
			wallets.DELETE("/:id", d.superAdminMiddleware, d.custodialWalletHandler.Delete)
		}

		sellerBanks := v1.Group("/seller-banks")
		sellerBanks.Use(d.authMiddleware)
		{
			sellerBanks.GET("", d.sellerBankHandler.List)
			sellerBanks.POST("", d.sellerBankHandler.Create)
			sellerBanks.PUT("/:id", d.sellerBankHandler.Update)
			sellerBanks.DELETE("/:id", d.sellerBankHandler.Delete)
		}
	}
}
