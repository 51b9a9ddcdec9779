package handlers

import (
	"context"

	"github.com/exchange-ui/backend/internal/auth"
	"github.com/exchange-ui/backend/internal/config"
	"github.com/exchange-ui/backend/internal/models"
	"github.com/exchange-ui/backend/internal/session"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WSHandler serves the view session websocket.
type WSHandler struct {
	cfg  *config.Config
	hub  *session.Hub
	deps session.Deps
	log  *zap.Logger
}

func NewWSHandler(cfg *config.Config, hub *session.Hub, deps session.Deps, log *zap.Logger) *WSHandler {
	return &WSHandler{cfg: cfg, hub: hub, deps: deps, log: log}
}

// WSUpgradeMiddleware checks for websocket upgrade
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

func (h *WSHandler) HandleWS(conn *websocket.Conn) {
	tokenStr := conn.Query("token")
	if tokenStr == "" {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"missing token"}`))
		conn.Close()
		return
	}

	claims, err := auth.ParseJWT(h.cfg.JWTSecret, tokenStr)
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
		conn.Close()
		return
	}

	kind := models.BeneficiaryType(conn.Query("type", string(models.BeneficiaryTypeCoin)))
	if !models.IsValidBeneficiaryType(string(kind)) {
		kind = models.BeneficiaryTypeCoin
	}

	s := session.New(session.Params{
		UserID:   claims.UserID,
		Currency: conn.Query("currency"),
		Type:     kind,
		Market:   conn.Query("market"),
	}, conn, h.deps)

	ctx, cancel := context.WithCancel(context.Background())
	h.hub.Register(s)
	defer func() {
		cancel()
		// conn возвращается в пул после выхода из хендлера, ждём последнюю запись
		<-s.Done()
		h.hub.Unregister(s)
		conn.Close()
	}()

	// весь вывод в conn идёт из цикла сессии, здесь только чтение
	go s.Run(ctx)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if err := s.HandleMessage(data); err != nil {
			h.log.Debug("ws message rejected",
				zap.String("session_id", s.ID().String()),
				zap.Error(err),
			)
		}
	}
}
