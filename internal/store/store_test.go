package store

import (
	"testing"

	"github.com/exchange-ui/backend/internal/models"
	"github.com/shopspring/decimal"
)

func TestSetBeneficiariesBumpsRevision(t *testing.T) {
	s := New()
	var seen []uint64
	s.Subscribe(func(st State) { seen = append(seen, st.Beneficiaries.Revision) })

	items := []models.Beneficiary{{ID: 1}}
	s.SetBeneficiaries(items)
	s.SetBeneficiaries(items)

	if len(seen) != 2 || seen[0] == seen[1] {
		t.Fatalf("revisions = %v, want two distinct", seen)
	}

	items[0].ID = 99
	if s.State().Beneficiaries.Items[0].ID != 1 {
		t.Error("store must not alias the caller's slice")
	}
}

func TestSuccessFlagsAreLevelTriggered(t *testing.T) {
	s := New()
	b := models.Beneficiary{ID: 7, State: models.StatePending}

	s.CreateRequested()
	if s.State().AddSuccess {
		t.Fatal("create requested clears success")
	}
	s.CreateSucceeded(b)
	st := s.State()
	if !st.AddSuccess || st.AddResult == nil || st.AddResult.ID != 7 {
		t.Fatalf("state = %+v", st)
	}

	s.SetBeneficiaries([]models.Beneficiary{b})
	if !s.State().AddSuccess {
		t.Error("success flag persists across unrelated updates")
	}

	s.ActivateRequested()
	b.State = models.StateActive
	s.ActivateSucceeded(b)
	if !s.State().ActivateSuccess || s.State().AddResult.State != models.StateActive {
		t.Errorf("state = %+v", s.State())
	}

	s.Stage(models.Beneficiary{ID: 8})
	if s.State().ActivateSuccess || s.State().AddResult.ID != 8 {
		t.Errorf("stage must reset activate success, got %+v", s.State())
	}
}

func TestUnsubscribe(t *testing.T) {
	s := New()
	var calls int
	stop := s.Subscribe(func(State) { calls++ })
	s.SetUser(models.UserInfo{Level: 1})
	stop()
	s.SetUser(models.UserInfo{Level: 2})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRecentTradesForStaleMarketDropped(t *testing.T) {
	s := New()
	btc := models.Market{ID: "btcusdt"}
	eth := models.Market{ID: "ethusdt"}

	s.SetMarket(&btc)
	if !s.SetRecentTrades("btcusdt", []models.PublicTrade{{ID: 1}}) {
		t.Fatal("trades for the current market must apply")
	}

	s.SetMarket(&eth)
	if len(s.State().RecentTrades) != 0 {
		t.Error("switching market clears trades")
	}
	if s.SetRecentTrades("btcusdt", []models.PublicTrade{{ID: 2}}) {
		t.Error("trades for a replaced market must be dropped")
	}

	s.SetCurrentPrice(decimal.NewFromInt(5))
	if s.State().CurrentPrice == nil || !s.State().CurrentPrice.Equal(decimal.NewFromInt(5)) {
		t.Error("current price not stored")
	}
}
