package beneficiaries

import (
	"context"

	"github.com/exchange-ui/backend/internal/models"
	"go.uber.org/zap"
)

// Intents are the operations the component hands off to the data layer.
// Implementations must not call back into the component synchronously.
type Intents interface {
	CreateBeneficiary(ctx context.Context, draft models.BeneficiaryDraft)
	ActivateBeneficiary(ctx context.Context, id int64, pin string)
	ResendPin(ctx context.Context, id int64)
	DeleteBeneficiary(ctx context.Context, id int64)
	StageBeneficiary(ctx context.Context, b models.Beneficiary)
	FetchMemberLevels(ctx context.Context)
	ReportError(ctx context.Context, messageKey string, severity models.Severity)
}

type Props struct {
	Currency string
	Type     models.BeneficiaryType
}

// Snapshot is the slice of store state the component reads.
type Snapshot struct {
	Beneficiaries   models.BeneficiaryList
	AddResult       *models.Beneficiary
	AddSuccess      bool
	ActivateSuccess bool
	MemberLevels    *models.MemberLevels
	User            models.UserInfo
}

// Component is the withdrawal address picker: it keeps the current
// beneficiary in line with store updates and drives the add/confirm/fail
// dialogs.
type Component struct {
	props    Props
	snap     Snapshot
	prevList models.BeneficiaryList

	selector *Selector
	dialogs  Dialogs
	intents  Intents

	dropdownOpen bool
	tipOpen      bool

	log *zap.Logger
}

func NewComponent(props Props, intents Intents, onChange func(models.Beneficiary), log *zap.Logger) *Component {
	return &Component{
		props:    props,
		selector: NewSelector(onChange),
		intents:  intents,
		log:      log,
	}
}

func (c *Component) Current() models.Beneficiary { return c.selector.Current() }

func (c *Component) Dialog() Dialog { return c.dialogs.Current() }

func (c *Component) Props() Props { return c.props }

// Mount runs the first reconciliation and requests member levels when the
// store has none yet.
func (c *Component) Mount(ctx context.Context, snap Snapshot) {
	c.snap = snap
	c.dialogs.Prime(snap.AddSuccess, snap.ActivateSuccess)

	if c.props.Currency != "" && snap.Beneficiaries.Len() > 0 {
		c.selector.Reconcile(snap.Beneficiaries.Items)
	}
	c.prevList = snap.Beneficiaries

	if snap.MemberLevels == nil {
		c.intents.FetchMemberLevels(ctx)
	}
}

// Update is called with every new store snapshot and the parent's props.
func (c *Component) Update(ctx context.Context, props Props, snap Snapshot) {
	prevCurrency := c.props.Currency
	c.props = props
	c.snap = snap

	if ShouldReconcile(snap.Beneficiaries, c.prevList, props.Currency, prevCurrency) {
		if c.selector.Reconcile(snap.Beneficiaries.Items) {
			c.log.Debug("beneficiary reconciled",
				zap.String("currency", props.Currency),
				zap.Int64("beneficiary_id", c.selector.Current().ID),
			)
		}
	}
	c.prevList = snap.Beneficiaries

	addEdge, activateEdge := c.dialogs.Observe(snap.AddSuccess, snap.ActivateSuccess)
	if addEdge || activateEdge {
		c.log.Debug("beneficiary dialog transition",
			zap.Bool("add_success", addEdge),
			zap.Bool("activate_success", activateEdge),
			zap.Stringer("dialog", c.dialogs.Current()),
		)
	}
}

// Select handles a click on a dropdown item.
func (c *Component) Select(ctx context.Context, item models.Beneficiary) {
	switch c.selector.SelectManually(item) {
	case ManualNeedsConfirmation:
		c.intents.StageBeneficiary(ctx, item)
		c.dialogs.Open(DialogConfirm)
	case ManualSelected:
		c.dropdownOpen = false
	case ManualIgnored:
		c.log.Debug("beneficiary without destination ignored", zap.Int64("beneficiary_id", item.ID))
	}
}

// SelectByID resolves id against the visible list and selects it.
func (c *Component) SelectByID(ctx context.Context, id int64) bool {
	for _, b := range c.visible() {
		if b.ID == id {
			c.Select(ctx, b)
			return true
		}
	}
	return false
}

// RequestAdd handles the "add address" affordance.
func (c *Component) RequestAdd(ctx context.Context) Decision {
	minimum := 0
	if c.snap.MemberLevels != nil {
		minimum = c.snap.MemberLevels.Withdraw.MinimumLevel
	}

	decision := ShouldOpenAddDialog(c.snap.User.Level, minimum, c.snap.Beneficiaries.Len())
	switch decision {
	case ShowInsufficientLevelError:
		c.dialogs.Open(DialogFail)
	case ShowMaxCountError:
		c.intents.ReportError(ctx, ErrKeyMaxAddresses, models.SeverityAlert)
	case OpenAddDialog:
		c.dialogs.Open(DialogAdd)
	}
	return decision
}

// Submit is the add dialog's submit button.
func (c *Component) Submit(ctx context.Context, draft models.BeneficiaryDraft) {
	if c.dialogs.Current() != DialogAdd {
		return
	}
	if draft.Currency == "" {
		draft.Currency = c.props.Currency
	}
	c.intents.CreateBeneficiary(ctx, draft)
}

// Confirm is the confirmation dialog's submit button.
func (c *Component) Confirm(ctx context.Context, pin string) {
	if c.dialogs.Current() != DialogConfirm || c.snap.AddResult == nil {
		return
	}
	c.intents.ActivateBeneficiary(ctx, c.snap.AddResult.ID, pin)
}

func (c *Component) ResendPin(ctx context.Context) {
	if c.dialogs.Current() != DialogConfirm || c.snap.AddResult == nil {
		return
	}
	c.intents.ResendPin(ctx, c.snap.AddResult.ID)
}

func (c *Component) Delete(ctx context.Context, id int64) {
	c.intents.DeleteBeneficiary(ctx, id)
}

func (c *Component) Dismiss() { c.dialogs.Dismiss() }

func (c *Component) ToggleDropdown() { c.dropdownOpen = !c.dropdownOpen }

func (c *Component) SetTip(open bool) { c.tipOpen = open }

func (c *Component) visible() []models.Beneficiary {
	return c.snap.Beneficiaries.Filter(models.StateActive, models.StatePending)
}
