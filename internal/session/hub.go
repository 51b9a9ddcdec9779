package session

import (
	"context"
	"sync"

	"github.com/exchange-ui/backend/internal/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub tracks live sessions and fans pub/sub events out to them.
type Hub struct {
	subscriber events.Subscriber
	log        *zap.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]map[uuid.UUID]*Session // user -> session id -> session
}

func NewHub(subscriber events.Subscriber, log *zap.Logger) *Hub {
	return &Hub{
		subscriber: subscriber,
		log:        log,
		sessions:   make(map[uuid.UUID]map[uuid.UUID]*Session),
	}
}

func (h *Hub) Start(ctx context.Context) error {
	if err := h.subscriber.Subscribe(ctx, events.StreamBeneficiary, h.Route); err != nil {
		return err
	}
	return h.subscriber.Subscribe(ctx, events.StreamTrades, h.Route)
}

func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	byID, ok := h.sessions[s.UserID()]
	if !ok {
		byID = make(map[uuid.UUID]*Session)
		h.sessions[s.UserID()] = byID
	}
	byID[s.ID()] = s
}

func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	byID := h.sessions[s.UserID()]
	delete(byID, s.ID())
	if len(byID) == 0 {
		delete(h.sessions, s.UserID())
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, byID := range h.sessions {
		n += len(byID)
	}
	return n
}

// Route delivers beneficiary events to the owner's sessions and trade
// events to every session; sessions ignore markets they do not watch.
func (h *Hub) Route(e events.Event) {
	switch e.Type {
	case events.EventBeneficiaryCreated, events.EventBeneficiaryActivated, events.EventBeneficiaryDeleted:
		userID, err := uuid.Parse(e.String("user_id"))
		if err != nil {
			h.log.Warn("beneficiary event without user", zap.String("type", e.Type))
			return
		}
		for _, s := range h.userSessions(userID) {
			s.Deliver(e)
		}
	case events.EventTradeExecuted:
		for _, s := range h.all() {
			s.Deliver(e)
		}
	}
}

func (h *Hub) userSessions(userID uuid.UUID) []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*Session, 0, len(h.sessions[userID]))
	for _, s := range h.sessions[userID] {
		out = append(out, s)
	}
	return out
}

func (h *Hub) all() []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []*Session
	for _, byID := range h.sessions {
		for _, s := range byID {
			out = append(out, s)
		}
	}
	return out
}

// Deliver queues a pub/sub event for the loop.
func (s *Session) Deliver(e events.Event) {
	s.post(func(ctx context.Context) { s.onEvent(ctx, e) })
}

func (s *Session) onEvent(ctx context.Context, e events.Event) {
	switch e.Type {
	case events.EventBeneficiaryCreated, events.EventBeneficiaryActivated, events.EventBeneficiaryDeleted:
		// список другой валюты не трогаем
		if c := e.String("currency"); c != "" && c != s.props.Currency {
			return
		}
		s.refreshBeneficiaries()
	case events.EventTradeExecuted:
		m := s.ticker.Market()
		if m == nil || m.ID != e.String("market") {
			return
		}
		tradeIntents{s}.FetchTrades(ctx, *m)
	}
}
