package http

import (
	"time"

	"github.com/exchange-ui/backend/internal/config"
	"github.com/exchange-ui/backend/internal/http/handlers"
	"github.com/exchange-ui/backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handlers struct {
	Beneficiaries *handlers.BeneficiaryHandler
	Members       *handlers.MemberHandler
	Trades        *handlers.TradeHandler
	WS            *handlers.WSHandler
}

func SetupRouter(app *fiber.App, cfg *config.Config, log *zap.Logger, rdb *redis.Client, h Handlers) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Public, rate-limited by IP
	public := api.Group("/public", middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute, log))
	public.Get("/member-levels", h.Members.Levels)
	public.Get("/markets", h.Trades.Markets)
	public.Get("/markets/:market/trades", h.Trades.Recent)

	// Protected endpoints, rate-limited by user
	protected := api.Group("",
		middleware.AuthMiddleware(cfg, log),
		middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute, log),
	)

	protected.Get("/me", h.Members.Me)

	// Beneficiaries
	protected.Get("/account/beneficiaries", h.Beneficiaries.List)
	protected.Post("/account/beneficiaries", h.Beneficiaries.Create)
	protected.Get("/account/beneficiaries/:id", h.Beneficiaries.Get)
	protected.Post("/account/beneficiaries/:id/activate", h.Beneficiaries.Activate)
	protected.Post("/account/beneficiaries/:id/resend-pin", h.Beneficiaries.ResendPin)
	protected.Delete("/account/beneficiaries/:id", h.Beneficiaries.Delete)

	// Internal (matching engine)
	internal := app.Group("/internal", middleware.InternalMiddleware(cfg))
	internal.Post("/trades", h.Trades.Record)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(h.WS.HandleWS))
}
