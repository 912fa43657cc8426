package budget

import (
	"regexp"
	"strings"
)

// Fiscal years follow the Australian form "2024-25".
var fiscalYearPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ValidFiscalYear reports whether fy looks like "2024-25".
func ValidFiscalYear(fy string) bool {
	return fiscalYearPattern.MatchString(fy)
}

// ValidateAllocation checks an allocation before it reaches the store.
// Returns true if valid, possibly after clamping the description.
func ValidateAllocation(a *Allocation) bool {
	if a == nil {
		return false
	}
	if !ValidFiscalYear(a.FiscalYear) {
		return false
	}
	if strings.TrimSpace(a.ProgramName) == "" {
		return false
	}
	if !a.Category.Valid() {
		return false
	}
	if a.Amount.IsNegative() {
		return false
	}
	if runes := []rune(a.Description); len(runes) > 500 {
		a.Description = string(runes[:500])
	}
	return true
}
