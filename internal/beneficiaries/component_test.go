package beneficiaries

import (
	"context"
	"testing"

	"github.com/exchange-ui/backend/internal/models"
	"go.uber.org/zap"
)

type fakeIntents struct {
	created      []models.BeneficiaryDraft
	activated    []int64
	pins         []string
	resent       []int64
	deleted      []int64
	staged       []models.Beneficiary
	levelFetches int
	errors       []string
}

func (f *fakeIntents) CreateBeneficiary(_ context.Context, d models.BeneficiaryDraft) {
	f.created = append(f.created, d)
}

func (f *fakeIntents) ActivateBeneficiary(_ context.Context, id int64, pin string) {
	f.activated = append(f.activated, id)
	f.pins = append(f.pins, pin)
}

func (f *fakeIntents) ResendPin(_ context.Context, id int64) { f.resent = append(f.resent, id) }

func (f *fakeIntents) DeleteBeneficiary(_ context.Context, id int64) {
	f.deleted = append(f.deleted, id)
}

func (f *fakeIntents) StageBeneficiary(_ context.Context, b models.Beneficiary) {
	f.staged = append(f.staged, b)
}

func (f *fakeIntents) FetchMemberLevels(context.Context) { f.levelFetches++ }

func (f *fakeIntents) ReportError(_ context.Context, key string, _ models.Severity) {
	f.errors = append(f.errors, key)
}

type harness struct {
	comp     *Component
	intents  *fakeIntents
	notified []int64
}

func newHarness(currency string) *harness {
	h := &harness{intents: &fakeIntents{}}
	h.comp = NewComponent(
		Props{Currency: currency, Type: models.BeneficiaryTypeCoin},
		h.intents,
		func(b models.Beneficiary) { h.notified = append(h.notified, b.ID) },
		zap.NewNop(),
	)
	return h
}

func list(rev uint64, items ...models.Beneficiary) models.BeneficiaryList {
	return models.BeneficiaryList{Revision: rev, Items: items}
}

func TestComponentMount(t *testing.T) {
	ctx := context.Background()
	h := newHarness("btc")

	h.comp.Mount(ctx, Snapshot{Beneficiaries: list(1, coin(1, models.StatePending), coin(2, models.StateActive))})

	if h.comp.Current().ID != 2 {
		t.Errorf("current = %d, want 2", h.comp.Current().ID)
	}
	if h.intents.levelFetches != 1 {
		t.Errorf("member level fetches = %d, want 1", h.intents.levelFetches)
	}

	h2 := newHarness("btc")
	h2.comp.Mount(ctx, Snapshot{MemberLevels: &models.MemberLevels{}})
	if h2.intents.levelFetches != 0 {
		t.Error("member levels already present, no fetch expected")
	}
	if !h2.comp.Current().IsUnset() {
		t.Error("empty list must leave the placeholder")
	}
}

func TestComponentUpdateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness("btc")
	h.comp.Mount(ctx, Snapshot{})

	snap := Snapshot{Beneficiaries: list(1, coin(1, models.StateActive))}
	props := Props{Currency: "btc", Type: models.BeneficiaryTypeCoin}
	h.comp.Update(ctx, props, snap)
	h.comp.Update(ctx, props, snap)

	if len(h.notified) != 1 {
		t.Fatalf("notified = %v, want one notification", h.notified)
	}

	// A refetch of the same content is a new revision but the same selection.
	h.comp.Update(ctx, props, Snapshot{Beneficiaries: list(2, coin(1, models.StateActive))})
	if len(h.notified) != 1 {
		t.Errorf("notified = %v, want one notification", h.notified)
	}
}

func TestComponentReconcilesOnCurrencySwitch(t *testing.T) {
	ctx := context.Background()
	h := newHarness("btc")
	h.comp.Mount(ctx, Snapshot{Beneficiaries: list(1, coin(1, models.StateActive))})

	eth := coin(9, models.StatePending)
	eth.Currency = "eth"
	h.comp.Update(ctx, Props{Currency: "eth", Type: models.BeneficiaryTypeCoin}, Snapshot{Beneficiaries: list(2, eth)})

	if h.comp.Current().ID != 9 {
		t.Errorf("current = %d, want 9", h.comp.Current().ID)
	}
	if h.comp.Props().Currency != "eth" {
		t.Errorf("props currency = %q", h.comp.Props().Currency)
	}
}

func TestComponentSelectPendingStagesConfirmation(t *testing.T) {
	ctx := context.Background()
	h := newHarness("btc")
	h.comp.Mount(ctx, Snapshot{Beneficiaries: list(1, coin(1, models.StateActive), coin(5, models.StatePending))})

	if !h.comp.SelectByID(ctx, 5) {
		t.Fatal("id 5 is visible and must resolve")
	}
	if h.comp.Current().ID != 1 {
		t.Errorf("current = %d, want 1 (unchanged)", h.comp.Current().ID)
	}
	if len(h.intents.staged) != 1 || h.intents.staged[0].ID != 5 {
		t.Errorf("staged = %+v, want id 5", h.intents.staged)
	}
	if h.comp.Dialog() != DialogConfirm {
		t.Errorf("dialog = %v, want confirm", h.comp.Dialog())
	}
}

func TestComponentSelectCollapsesDropdown(t *testing.T) {
	ctx := context.Background()
	h := newHarness("btc")
	h.comp.Mount(ctx, Snapshot{Beneficiaries: list(1, coin(1, models.StateActive), coin(2, models.StateActive))})

	h.comp.ToggleDropdown()
	if !h.comp.View().DropdownOpen {
		t.Fatal("dropdown should be open")
	}
	h.comp.SelectByID(ctx, 2)
	if h.comp.View().DropdownOpen {
		t.Error("dropdown should collapse after selection")
	}
	if h.comp.Current().ID != 2 {
		t.Errorf("current = %d, want 2", h.comp.Current().ID)
	}
	if h.comp.SelectByID(ctx, 42) {
		t.Error("unknown id must not resolve")
	}
}

func TestComponentRequestAdd(t *testing.T) {
	ctx := context.Background()
	levels := &models.MemberLevels{Withdraw: models.LevelRequirement{MinimumLevel: 3}}

	full := make([]models.Beneficiary, 0, MaxBeneficiaries)
	for i := 1; i <= MaxBeneficiaries; i++ {
		full = append(full, coin(int64(i), models.StateActive))
	}

	tests := []struct {
		name       string
		snap       Snapshot
		decision   Decision
		dialog     Dialog
		errorCount int
	}{
		{"low level", Snapshot{MemberLevels: levels, User: models.UserInfo{Level: 1}}, ShowInsufficientLevelError, DialogFail, 0},
		{"levels unknown", Snapshot{User: models.UserInfo{Level: 0}}, OpenAddDialog, DialogAdd, 0},
		{"full", Snapshot{MemberLevels: levels, User: models.UserInfo{Level: 3}, Beneficiaries: list(1, full...)}, ShowMaxCountError, DialogNone, 1},
		{"ok", Snapshot{MemberLevels: levels, User: models.UserInfo{Level: 3}}, OpenAddDialog, DialogAdd, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness("btc")
			h.comp.Mount(ctx, tt.snap)
			got := h.comp.RequestAdd(ctx)
			if got != tt.decision {
				t.Errorf("decision = %v, want %v", got, tt.decision)
			}
			if h.comp.Dialog() != tt.dialog {
				t.Errorf("dialog = %v, want %v", h.comp.Dialog(), tt.dialog)
			}
			if len(h.intents.errors) != tt.errorCount {
				t.Errorf("errors = %v", h.intents.errors)
			}
			if tt.errorCount > 0 && h.intents.errors[0] != ErrKeyMaxAddresses {
				t.Errorf("error key = %q", h.intents.errors[0])
			}
		})
	}
}

func TestComponentAddFlow(t *testing.T) {
	ctx := context.Background()
	h := newHarness("btc")
	props := Props{Currency: "btc", Type: models.BeneficiaryTypeCoin}
	h.comp.Mount(ctx, Snapshot{MemberLevels: &models.MemberLevels{}})

	h.comp.Submit(ctx, models.BeneficiaryDraft{Name: "ignored"})
	if len(h.intents.created) != 0 {
		t.Fatal("submit outside the add dialog must be ignored")
	}

	h.comp.RequestAdd(ctx)
	h.comp.Submit(ctx, models.BeneficiaryDraft{Name: "cold", Data: models.CoinAddress{Address: "bc1q"}})
	if len(h.intents.created) != 1 || h.intents.created[0].Currency != "btc" {
		t.Fatalf("created = %+v", h.intents.created)
	}

	created := coin(11, models.StatePending)
	snap := Snapshot{
		MemberLevels:  &models.MemberLevels{},
		Beneficiaries: list(2, created),
		AddResult:     &created,
		AddSuccess:    true,
	}
	h.comp.Update(ctx, props, snap)
	if h.comp.Dialog() != DialogConfirm {
		t.Fatalf("dialog = %v, want confirm", h.comp.Dialog())
	}
	if v := h.comp.View(); v.Confirm == nil || v.Confirm.ID != 11 {
		t.Errorf("confirm view = %+v", v.Confirm)
	}

	h.comp.Confirm(ctx, "123456")
	h.comp.ResendPin(ctx)
	if len(h.intents.activated) != 1 || h.intents.activated[0] != 11 || h.intents.pins[0] != "123456" {
		t.Errorf("activated = %v pins = %v", h.intents.activated, h.intents.pins)
	}
	if len(h.intents.resent) != 1 {
		t.Errorf("resent = %v", h.intents.resent)
	}

	activated := created
	activated.State = models.StateActive
	snap.Beneficiaries = list(3, activated)
	snap.ActivateSuccess = true
	h.comp.Update(ctx, props, snap)
	if h.comp.Dialog() != DialogNone {
		t.Errorf("dialog = %v, want none", h.comp.Dialog())
	}

	// Flags stay true on later snapshots; nothing re-opens.
	snap.Beneficiaries = list(4, activated)
	h.comp.Update(ctx, props, snap)
	if h.comp.Dialog() != DialogNone {
		t.Errorf("dialog = %v, want none", h.comp.Dialog())
	}
}

func TestComponentDeleteAndDismiss(t *testing.T) {
	ctx := context.Background()
	h := newHarness("btc")
	h.comp.Mount(ctx, Snapshot{MemberLevels: &models.MemberLevels{}})

	h.comp.Delete(ctx, 3)
	if len(h.intents.deleted) != 1 || h.intents.deleted[0] != 3 {
		t.Errorf("deleted = %v", h.intents.deleted)
	}

	h.comp.RequestAdd(ctx)
	h.comp.Dismiss()
	if h.comp.Dialog() != DialogNone {
		t.Errorf("dialog = %v, want none", h.comp.Dialog())
	}
}
