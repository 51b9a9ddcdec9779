package beneficiaries

import "testing"

func TestShouldOpenAddDialog(t *testing.T) {
	tests := []struct {
		name     string
		level    int
		minimum  int
		count    int
		expected Decision
	}{
		{"insufficient level", 2, 5, 0, ShowInsufficientLevelError},
		{"level checked before capacity", 2, 5, 10, ShowInsufficientLevelError},
		{"at cap", 10, 5, 10, ShowMaxCountError},
		{"above cap", 10, 5, 12, ShowMaxCountError},
		{"happy path", 10, 5, 3, OpenAddDialog},
		{"exact minimum", 5, 5, 9, OpenAddDialog},
		{"no minimum", 0, 0, 0, OpenAddDialog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ShouldOpenAddDialog(tt.level, tt.minimum, tt.count)
			if result != tt.expected {
				t.Errorf("ShouldOpenAddDialog(%d, %d, %d) = %v, want %v", tt.level, tt.minimum, tt.count, result, tt.expected)
			}
		})
	}
}
