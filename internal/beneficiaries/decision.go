package beneficiaries

// MaxBeneficiaries is the per-user cap on saved withdrawal addresses.
const MaxBeneficiaries = 10

const (
	ErrKeyMaxAddresses      = "error.beneficiaries.max10.addresses"
	ErrKeyInsufficientLevel = "error.beneficiaries.insufficient.level"
)

type Decision int

const (
	OpenAddDialog Decision = iota
	ShowInsufficientLevelError
	ShowMaxCountError
)

func (d Decision) String() string {
	switch d {
	case OpenAddDialog:
		return "open_add_dialog"
	case ShowInsufficientLevelError:
		return "insufficient_level"
	case ShowMaxCountError:
		return "max_count"
	default:
		return "unknown"
	}
}

// ShouldOpenAddDialog decides what "add address" leads to. Level is checked
// before capacity.
func ShouldOpenAddDialog(memberLevel, minimumLevel, existingCount int) Decision {
	if memberLevel < minimumLevel {
		return ShowInsufficientLevelError
	}
	if existingCount >= MaxBeneficiaries {
		return ShowMaxCountError
	}
	return OpenAddDialog
}
