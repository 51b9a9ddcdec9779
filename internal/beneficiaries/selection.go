package beneficiaries

import "github.com/exchange-ui/backend/internal/models"

// Pick returns the beneficiary that should become current: the first active
// one in list order, or the first pending one when nothing is active.
func Pick(list []models.Beneficiary) (models.Beneficiary, bool) {
	for _, state := range []models.BeneficiaryState{models.StateActive, models.StatePending} {
		for _, b := range list {
			if b.State == state {
				return b, true
			}
		}
	}
	return models.Beneficiary{}, false
}

// ShouldReconcile reports whether a store update warrants recomputing the
// current beneficiary: the currency switched, or a non-empty list was replaced.
func ShouldReconcile(list, prevList models.BeneficiaryList, currency, prevCurrency string) bool {
	if currency != "" && currency != prevCurrency {
		return true
	}
	return list.Len() > 0 && list.Revision != prevList.Revision
}

type ManualOutcome int

const (
	ManualIgnored ManualOutcome = iota
	ManualSelected
	ManualNeedsConfirmation
)

// Selector owns the current beneficiary and notifies the consumer when the
// selected id changes.
type Selector struct {
	current     models.Beneficiary
	notifiedID  int64
	hasNotified bool
	onChange    func(models.Beneficiary)
}

func NewSelector(onChange func(models.Beneficiary)) *Selector {
	return &Selector{
		current:  models.DefaultBeneficiary(),
		onChange: onChange,
	}
}

func (s *Selector) Current() models.Beneficiary {
	return s.current
}

// Reconcile picks from list and makes it current. An empty pick, or a pick
// without a destination, leaves the current beneficiary untouched.
func (s *Selector) Reconcile(list []models.Beneficiary) bool {
	b, ok := Pick(list)
	if !ok || b.Data == nil {
		return false
	}
	s.set(b)
	return true
}

// SelectManually handles an explicit pick from the dropdown. Pending records
// are not selected; the caller routes them to confirmation.
func (s *Selector) SelectManually(item models.Beneficiary) ManualOutcome {
	if item.State == models.StatePending {
		return ManualNeedsConfirmation
	}
	if item.Data == nil {
		return ManualIgnored
	}
	s.set(item)
	return ManualSelected
}

func (s *Selector) set(b models.Beneficiary) {
	s.current = b
	if s.hasNotified && s.notifiedID == b.ID {
		return
	}
	s.hasNotified = true
	s.notifiedID = b.ID
	if s.onChange != nil {
		s.onChange(b)
	}
}
