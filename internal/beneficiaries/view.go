package beneficiaries

import "github.com/exchange-ui/backend/internal/models"

// Message keys, resolved to text by the client.
const (
	keyTitleCoin       = "page.body.wallets.beneficiaries.title"
	keyTitleFiat       = "page.body.wallets.beneficiaries.fiat.title"
	keyTipAddress      = "page.body.wallets.beneficiaries.tipAddress"
	keyTipName         = "page.body.wallets.beneficiaries.tipName"
	keyTipDescription  = "page.body.wallets.beneficiaries.tipDescription"
	keyFiatName        = "page.body.wallets.beneficiaries.dropdown.fiat.name"
	keyFiatDescription = "page.body.wallets.beneficiaries.dropdown.fiat.description"
	keyFiatAccount     = "page.body.wallets.beneficiaries.dropdown.fiat.account"
	keyFiatBank        = "page.body.wallets.beneficiaries.dropdown.fiat.bankOfBeneficiary"
)

type ItemView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name,omitempty"`
	Pending  bool   `json:"pending"`
	Current  bool   `json:"current"`
}

type TipRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type View struct {
	Title          string                 `json:"title"`
	Type           models.BeneficiaryType `json:"type"`
	Currency       string                 `json:"currency"`
	Items          []ItemView             `json:"items"`
	ShowAdd        bool                   `json:"show_add"`
	Current        *models.Beneficiary    `json:"current,omitempty"`
	CurrentPending bool                   `json:"current_pending"`
	DropdownOpen   bool                   `json:"dropdown_open"`
	Tip            []TipRow               `json:"tip,omitempty"`
	Dialog         Dialog                 `json:"dialog"`
	Confirm        *models.Beneficiary    `json:"confirm,omitempty"`
}

// View renders the component state for the client.
func (c *Component) View() View {
	v := View{
		Title:        keyTitleCoin,
		Type:         c.props.Type,
		Currency:     c.props.Currency,
		DropdownOpen: c.dropdownOpen,
		Dialog:       c.dialogs.Current(),
	}
	if c.props.Type == models.BeneficiaryTypeFiat {
		v.Title = keyTitleFiat
	}

	current := c.selector.Current()
	for _, b := range c.visible() {
		item := ItemView{
			ID:      b.ID,
			Name:    b.Name,
			Pending: b.State == models.StatePending,
			Current: !current.IsUnset() && b.ID == current.ID,
		}
		if acc, ok := b.Bank(); ok {
			item.FullName = acc.FullName
		}
		v.Items = append(v.Items, item)
	}
	v.ShowAdd = len(v.Items) == 0

	if !current.IsUnset() {
		v.Current = &current
		v.CurrentPending = current.State == models.StatePending
		if c.tipOpen {
			v.Tip = tipRows(current, c.props.Type)
		}
	}

	if v.Dialog == DialogConfirm && c.snap.AddResult != nil {
		staged := *c.snap.AddResult
		v.Confirm = &staged
	}
	return v
}

func tipRows(b models.Beneficiary, kind models.BeneficiaryType) []TipRow {
	if kind == models.BeneficiaryTypeFiat {
		rows := []TipRow{{Label: keyFiatName, Value: b.Name}}
		if b.Description != nil && *b.Description != "" {
			rows = append(rows, TipRow{Label: keyFiatDescription, Value: *b.Description})
		}
		acc, _ := b.Bank()
		return append(rows,
			TipRow{Label: keyFiatAccount, Value: acc.AccountNumber},
			TipRow{Label: keyFiatBank, Value: acc.BankName},
		)
	}

	rows := []TipRow{
		{Label: keyTipAddress, Value: b.Address()},
		{Label: keyTipName, Value: b.Name},
	}
	if b.Description != nil && *b.Description != "" {
		rows = append(rows, TipRow{Label: keyTipDescription, Value: *b.Description})
	}
	return rows
}
