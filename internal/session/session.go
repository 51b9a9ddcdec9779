package session

import (
	"context"
	"time"

	"github.com/exchange-ui/backend/internal/beneficiaries"
	"github.com/exchange-ui/backend/internal/models"
	"github.com/exchange-ui/backend/internal/store"
	"github.com/exchange-ui/backend/internal/trades"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BeneficiaryBackend interface {
	List(ctx context.Context, userID uuid.UUID, currency string) ([]models.Beneficiary, error)
	Create(ctx context.Context, userID uuid.UUID, draft models.BeneficiaryDraft) (*models.Beneficiary, error)
	Activate(ctx context.Context, userID uuid.UUID, id int64, pin string) (*models.Beneficiary, error)
	ResendPin(ctx context.Context, userID uuid.UUID, id int64) error
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
}

type MemberBackend interface {
	Levels(ctx context.Context) (*models.MemberLevels, error)
	Me(ctx context.Context, userID uuid.UUID) (*models.UserInfo, error)
}

type TradeBackend interface {
	Market(ctx context.Context, id string) (*models.Market, error)
	Recent(ctx context.Context, marketID string, limit int) ([]models.PublicTrade, error)
}

// Conn is the write half of the client connection. Only the session loop
// writes to it.
type Conn interface {
	WriteJSON(v any) error
}

type Deps struct {
	Beneficiaries BeneficiaryBackend
	Members       MemberBackend
	Trades        TradeBackend
	Location      *time.Location
	Log           *zap.Logger
}

type Params struct {
	UserID   uuid.UUID
	Currency string
	Type     models.BeneficiaryType
	Market   string
}

const inboxSize = 64

// Session is one client's view: a store plus the components rendering it.
// Everything that touches them runs on the goroutine executing Run.
type Session struct {
	id     uuid.UUID
	userID uuid.UUID
	props  beneficiaries.Props
	market string

	store  *store.Store
	picker *beneficiaries.Component
	ticker *trades.Component

	deps Deps
	conn Conn
	log  *zap.Logger

	inbox  chan func(context.Context)
	done   chan struct{}
	queue  []func(context.Context)
	frames []Frame
	dirty  bool
}

func New(p Params, conn Conn, deps Deps) *Session {
	if p.Type == "" {
		p.Type = models.BeneficiaryTypeCoin
	}
	s := &Session{
		id:     uuid.New(),
		userID: p.UserID,
		props:  beneficiaries.Props{Currency: normalize(p.Currency), Type: p.Type},
		market: normalize(p.Market),
		store:  store.New(),
		deps:   deps,
		conn:   conn,
		inbox:  make(chan func(context.Context), inboxSize),
		done:   make(chan struct{}),
	}
	s.log = deps.Log.With(zap.String("session_id", s.id.String()), zap.String("user_id", p.UserID.String()))
	s.picker = beneficiaries.NewComponent(s.props, s, s.selectionChanged, s.log)
	s.ticker = trades.NewComponent(tradeIntents{s}, deps.Location, s.log)
	s.store.Subscribe(func(store.State) { s.dirty = true })
	return s
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) UserID() uuid.UUID { return s.userID }

// Done is closed once Run has returned and the loop no longer writes to conn.
func (s *Session) Done() <-chan struct{} { return s.done }

// Run mounts the view and processes queued work until ctx is done.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)
	s.dispatch(ctx, s.mount)
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-s.inbox:
			s.dispatch(ctx, op)
		}
	}
}

// post hands op to the loop. It never blocks; a full inbox drops op.
func (s *Session) post(op func(context.Context)) bool {
	select {
	case s.inbox <- op:
		return true
	default:
		s.log.Warn("session inbox full, dropping work")
		return false
	}
}

// dispatch runs op, then every intent it queued, pushing store changes into
// the components between steps. Intents never run inside a component call.
func (s *Session) dispatch(ctx context.Context, op func(context.Context)) {
	op(ctx)
	s.sync(ctx)
	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		next(ctx)
		s.sync(ctx)
	}
	s.flush()
}

func (s *Session) enqueue(op func(context.Context)) {
	s.queue = append(s.queue, op)
}

func (s *Session) sync(ctx context.Context) {
	if !s.dirty {
		return
	}
	s.dirty = false
	st := s.store.State()
	s.picker.Update(ctx, s.props, snapshot(st))
	s.ticker.Update(ctx, tradesInput(st))
}

func (s *Session) mount(ctx context.Context) {
	if user, err := s.deps.Members.Me(ctx, s.userID); err != nil {
		s.fail("load user", err)
	} else {
		s.store.SetUser(*user)
	}

	if s.props.Currency != "" {
		s.loadBeneficiaries(ctx, s.props.Currency)
	}
	if s.market != "" {
		s.loadMarket(ctx, s.market)
	}

	st := s.store.State()
	s.picker.Mount(ctx, snapshot(st))
	s.ticker.Mount(ctx, tradesInput(st))
	s.dirty = false

	s.log.Info("session mounted",
		zap.String("currency", s.props.Currency),
		zap.String("market", s.market),
	)
}

func (s *Session) loadBeneficiaries(ctx context.Context, currency string) {
	items, err := s.deps.Beneficiaries.List(ctx, s.userID, currency)
	if err != nil {
		s.fail("list beneficiaries", err)
		return
	}
	s.store.SetBeneficiaries(items)
}

func (s *Session) loadMarket(ctx context.Context, id string) {
	m, err := s.deps.Trades.Market(ctx, id)
	if err != nil {
		s.fail("load market", err)
		return
	}
	s.market = m.ID
	s.store.SetMarket(m)
}

func (s *Session) refreshBeneficiaries() {
	currency := s.props.Currency
	s.enqueue(func(ctx context.Context) { s.loadBeneficiaries(ctx, currency) })
}

func (s *Session) selectionChanged(b models.Beneficiary) {
	selected := b
	s.frames = append(s.frames, Frame{Type: FrameSelectionChanged, Beneficiary: &selected})
}

// fail reports err to the client and logs it.
func (s *Session) fail(op string, err error) {
	notice := noticeFor(err)
	if notice.Severity == models.SeverityConsole {
		s.log.Error(op+" failed", zap.Error(err))
	} else {
		s.log.Debug(op+" rejected", zap.Error(err))
	}
	s.frames = append(s.frames, Frame{Type: FrameNotification, Notification: &notice})
}

func (s *Session) flush() {
	view := s.picker.View()
	table := s.ticker.Table()
	s.frames = append(s.frames, Frame{Type: FrameView, Beneficiaries: &view, Trades: &table})

	frames := s.frames
	s.frames = nil
	for _, f := range frames {
		if err := s.conn.WriteJSON(f); err != nil {
			s.log.Debug("write frame failed", zap.String("type", f.Type), zap.Error(err))
			return
		}
	}
}

// beneficiaries.Intents

func (s *Session) CreateBeneficiary(_ context.Context, draft models.BeneficiaryDraft) {
	s.enqueue(func(ctx context.Context) {
		s.store.CreateRequested()
		s.sync(ctx)
		b, err := s.deps.Beneficiaries.Create(ctx, s.userID, draft)
		if err != nil {
			s.fail("create beneficiary", err)
			return
		}
		s.store.CreateSucceeded(*b)
		s.loadBeneficiaries(ctx, s.props.Currency)
	})
}

func (s *Session) ActivateBeneficiary(_ context.Context, id int64, pin string) {
	s.enqueue(func(ctx context.Context) {
		s.store.ActivateRequested()
		s.sync(ctx)
		b, err := s.deps.Beneficiaries.Activate(ctx, s.userID, id, pin)
		if err != nil {
			s.fail("activate beneficiary", err)
			return
		}
		s.store.ActivateSucceeded(*b)
		s.loadBeneficiaries(ctx, s.props.Currency)
	})
}

func (s *Session) ResendPin(_ context.Context, id int64) {
	s.enqueue(func(ctx context.Context) {
		if err := s.deps.Beneficiaries.ResendPin(ctx, s.userID, id); err != nil {
			s.fail("resend pin", err)
		}
	})
}

func (s *Session) DeleteBeneficiary(_ context.Context, id int64) {
	s.enqueue(func(ctx context.Context) {
		if err := s.deps.Beneficiaries.Delete(ctx, s.userID, id); err != nil {
			s.fail("delete beneficiary", err)
			return
		}
		s.loadBeneficiaries(ctx, s.props.Currency)
	})
}

func (s *Session) StageBeneficiary(_ context.Context, b models.Beneficiary) {
	s.enqueue(func(context.Context) { s.store.Stage(b) })
}

func (s *Session) FetchMemberLevels(context.Context) {
	s.enqueue(func(ctx context.Context) {
		levels, err := s.deps.Members.Levels(ctx)
		if err != nil {
			s.fail("load member levels", err)
			return
		}
		s.store.SetMemberLevels(*levels)
	})
}

func (s *Session) ReportError(_ context.Context, key string, severity models.Severity) {
	notice := models.Notice{Message: key, Severity: severity}
	s.frames = append(s.frames, Frame{Type: FrameNotification, Notification: &notice})
}

// tradeIntents keeps the trades.Intents methods off the Session method set.
type tradeIntents struct{ s *Session }

func (t tradeIntents) FetchTrades(_ context.Context, market models.Market) {
	s := t.s
	s.enqueue(func(ctx context.Context) {
		items, err := s.deps.Trades.Recent(ctx, market.ID, 0)
		if err != nil {
			s.fail("load trades", err)
			return
		}
		if !s.store.SetRecentTrades(market.ID, items) {
			s.log.Debug("stale trades dropped", zap.String("market", market.ID))
		}
	})
}

func (t tradeIntents) SetCurrentPrice(_ context.Context, price decimal.Decimal) {
	s := t.s
	s.enqueue(func(context.Context) { s.store.SetCurrentPrice(price) })
}

func snapshot(st store.State) beneficiaries.Snapshot {
	return beneficiaries.Snapshot{
		Beneficiaries:   st.Beneficiaries,
		AddResult:       st.AddResult,
		AddSuccess:      st.AddSuccess,
		ActivateSuccess: st.ActivateSuccess,
		MemberLevels:    st.MemberLevels,
		User:            st.User,
	}
}

func tradesInput(st store.State) trades.Input {
	return trades.Input{
		Market:       st.CurrentMarket,
		Trades:       st.RecentTrades,
		CurrentPrice: st.CurrentPrice,
	}
}
