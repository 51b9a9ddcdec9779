package store

import (
	"github.com/exchange-ui/backend/internal/models"
	"github.com/shopspring/decimal"
)

// State is an immutable snapshot; mutators build a new one and hand it to
// subscribers.
type State struct {
	Beneficiaries   models.BeneficiaryList
	AddResult       *models.Beneficiary
	AddSuccess      bool
	ActivateSuccess bool
	MemberLevels    *models.MemberLevels
	User            models.UserInfo

	CurrentMarket *models.Market
	RecentTrades  []models.PublicTrade
	CurrentPrice  *decimal.Decimal
}

// Store is the per-session application state. It is not safe for
// concurrent use; a session owns it from a single goroutine.
type Store struct {
	state    State
	revision uint64
	subs     []func(State)
}

func New() *Store {
	return &Store{}
}

func (s *Store) State() State { return s.state }

// Subscribe registers fn for every subsequent change and returns a func
// that removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1
	return func() {
		if idx < len(s.subs) {
			s.subs[idx] = nil
		}
	}
}

func (s *Store) commit(next State) {
	s.state = next
	for _, fn := range s.subs {
		if fn != nil {
			fn(next)
		}
	}
}

// SetBeneficiaries replaces the list with a fresh revision.
func (s *Store) SetBeneficiaries(items []models.Beneficiary) {
	s.revision++
	next := s.state
	next.Beneficiaries = models.BeneficiaryList{
		Revision: s.revision,
		Items:    append([]models.Beneficiary(nil), items...),
	}
	s.commit(next)
}

func (s *Store) CreateRequested() {
	next := s.state
	next.AddSuccess = false
	s.commit(next)
}

func (s *Store) CreateSucceeded(b models.Beneficiary) {
	next := s.state
	next.AddResult = &b
	next.AddSuccess = true
	next.ActivateSuccess = false
	s.commit(next)
}

// Stage puts an existing pending beneficiary up for confirmation.
func (s *Store) Stage(b models.Beneficiary) {
	next := s.state
	next.AddResult = &b
	next.ActivateSuccess = false
	s.commit(next)
}

func (s *Store) ActivateRequested() {
	next := s.state
	next.ActivateSuccess = false
	s.commit(next)
}

func (s *Store) ActivateSucceeded(b models.Beneficiary) {
	next := s.state
	next.AddResult = &b
	next.ActivateSuccess = true
	s.commit(next)
}

func (s *Store) SetMemberLevels(levels models.MemberLevels) {
	next := s.state
	next.MemberLevels = &levels
	s.commit(next)
}

func (s *Store) SetUser(u models.UserInfo) {
	next := s.state
	next.User = u
	s.commit(next)
}

func (s *Store) SetMarket(m *models.Market) {
	next := s.state
	next.CurrentMarket = m
	if m == nil || s.state.CurrentMarket == nil || s.state.CurrentMarket.ID != m.ID {
		next.RecentTrades = nil
	}
	s.commit(next)
}

// SetRecentTrades ignores results for a market that is no longer current.
func (s *Store) SetRecentTrades(marketID string, trades []models.PublicTrade) bool {
	if s.state.CurrentMarket == nil || s.state.CurrentMarket.ID != marketID {
		return false
	}
	next := s.state
	next.RecentTrades = append([]models.PublicTrade(nil), trades...)
	s.commit(next)
	return true
}

func (s *Store) SetCurrentPrice(p decimal.Decimal) {
	next := s.state
	next.CurrentPrice = &p
	s.commit(next)
}
