package router

import (
	"time"

	"givepay/config"
	"givepay/internal/handler"
	"givepay/internal/lock"
	"givepay/internal/middleware"
	"givepay/internal/repository"
	"givepay/internal/service"
	"givepay/pkg/gateway"
	"givepay/pkg/publisher"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers and returns the engine plus
// the relay, whose sweep loop the caller owns.
func Setup(cfg *config.Config, db *gorm.DB, locker lock.Locker, gw gateway.Client, pub publisher.Publisher) (*gin.Engine, *service.Relay) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	txnRepo := repository.NewTransactionRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	processor := service.NewProcessor(db, txnRepo, outboxRepo, ledgerRepo, locker, gw, cfg)
	relay := service.NewRelay(outboxRepo, pub, cfg.Outbox)

	paymentHandler := handler.NewPaymentHandler(processor, txnRepo, ledgerRepo)
	adminHandler := handler.NewAdminHandler(relay)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.AdminRequired()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		payments := api.Group("/payments")
		payments.Use(authMw)
		{
			payments.POST("", paymentHandler.Create)
			payments.GET("/:id", paymentHandler.Get)
			payments.GET("/:id/ledger", paymentHandler.Ledger)
			payments.POST("/:id/refund", adminMw, paymentHandler.Refund)
			payments.POST("/:id/cancel", adminMw, paymentHandler.Cancel)
		}
		api.GET("/donations/:donationID/payment", authMw, paymentHandler.GetByDonation)

		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.POST("/outbox/flush", adminHandler.FlushOutbox)
			admin.POST("/outbox/retry", adminHandler.RetryFailed)
			admin.GET("/outbox/stats", adminHandler.OutboxStats)
		}
	}

	return r, relay
}
