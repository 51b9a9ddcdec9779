package beneficiaries

import (
	"encoding/json"
	"fmt"
)

// Dialog is the single modal currently on screen.
type Dialog int

const (
	DialogNone Dialog = iota
	DialogAdd
	DialogConfirm
	DialogFail
)

func (d Dialog) String() string {
	switch d {
	case DialogNone:
		return "none"
	case DialogAdd:
		return "add"
	case DialogConfirm:
		return "confirm"
	case DialogFail:
		return "fail"
	default:
		return fmt.Sprintf("dialog(%d)", int(d))
	}
}

func (d Dialog) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Dialogs tracks the open modal and the last observed success flags of the
// add and activate operations, so each false->true transition fires once.
type Dialogs struct {
	open         Dialog
	prevAdd      bool
	prevActivate bool
}

func (d *Dialogs) Current() Dialog { return d.open }

func (d *Dialogs) Open(dialog Dialog) { d.open = dialog }

func (d *Dialogs) Dismiss() { d.open = DialogNone }

// Prime records the flags as already seen without reacting to them.
func (d *Dialogs) Prime(addSuccess, activateSuccess bool) {
	d.prevAdd = addSuccess
	d.prevActivate = activateSuccess
}

// Observe applies the add-success and activate-success edges and reports
// which of them fired. The activate edge is applied first, so a batch that
// carries both leaves the confirm dialog for the new beneficiary open.
func (d *Dialogs) Observe(addSuccess, activateSuccess bool) (addEdge, activateEdge bool) {
	addEdge = !d.prevAdd && addSuccess
	activateEdge = !d.prevActivate && activateSuccess
	d.prevAdd = addSuccess
	d.prevActivate = activateSuccess

	if activateEdge && d.open == DialogConfirm {
		d.open = DialogNone
	}
	if addEdge {
		d.open = DialogConfirm
	}
	return addEdge, activateEdge
}
