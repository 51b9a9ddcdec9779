package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/exchange-ui/backend/internal/chains"
	"github.com/exchange-ui/backend/internal/config"
	"github.com/exchange-ui/backend/internal/db"
	"github.com/exchange-ui/backend/internal/events"
	apphttp "github.com/exchange-ui/backend/internal/http"
	"github.com/exchange-ui/backend/internal/http/handlers"
	"github.com/exchange-ui/backend/internal/repositories"
	"github.com/exchange-ui/backend/internal/services"
	"github.com/exchange-ui/backend/internal/session"
	"github.com/exchange-ui/backend/migrations"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, db.DefaultPoolOptions(), log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	beneficiaryRepo := repositories.NewBeneficiaryRepo(pool)
	memberRepo := repositories.NewMemberRepo(pool)
	tradeRepo := repositories.NewTradeRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	notifier := services.NewNotifierClient(cfg.NotifierInternalURL, log)
	addresses := chains.NewValidator(cfg.BTCNetwork, cfg.TONNetwork)
	beneficiaryService := services.NewBeneficiaryService(beneficiaryRepo, memberRepo, auditRepo, notifier, addresses, publisher, cfg, log)
	memberService := services.NewMemberService(memberRepo)
	tradeService := services.NewTradeService(tradeRepo, auditRepo, publisher, cfg, log)

	// Sessions
	hub := session.NewHub(subscriber, log)
	if err := hub.Start(ctx); err != nil {
		log.Fatal("failed to start session hub", zap.Error(err))
	}
	deps := session.Deps{
		Beneficiaries: beneficiaryService,
		Members:       memberService,
		Trades:        tradeService,
		Location:      cfg.Location(log),
		Log:           log,
	}

	// Handlers
	h := apphttp.Handlers{
		Beneficiaries: handlers.NewBeneficiaryHandler(beneficiaryService, log),
		Members:       handlers.NewMemberHandler(memberService, log),
		Trades:        handlers.NewTradeHandler(tradeService, log),
		WS:            handlers.NewWSHandler(cfg, hub, deps, log),
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, h)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
