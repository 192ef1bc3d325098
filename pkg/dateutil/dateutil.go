package dateutil

import (
	"fmt"
	"time"
)

// FiscalYearStartMonth is the first month of the payroll fiscal year (April to March).
const FiscalYearStartMonth = time.April

// FiscalYearStart returns April 1 of the fiscal year containing t
func FiscalYearStart(t time.Time) time.Time {
	year := t.Year()
	if t.Month() < FiscalYearStartMonth {
		year--
	}
	return time.Date(year, FiscalYearStartMonth, 1, 0, 0, 0, 0, t.Location())
}

// FiscalYearEnd returns March 31 of the fiscal year containing t
func FiscalYearEnd(t time.Time) time.Time {
	return FiscalYearStart(t).AddDate(1, 0, -1)
}

// FiscalYearLabel formats the fiscal year containing t, e.g. "FY 2025-26"
func FiscalYearLabel(t time.Time) string {
	start := FiscalYearStart(t).Year()
	return fmt.Sprintf("FY %d-%02d", start, (start+1)%100)
}

// ParseFiscalYearLabel parses a label produced by FiscalYearLabel and returns the
// first day of that fiscal year.
func ParseFiscalYearLabel(label string) (time.Time, error) {
	var start, end int
	n, err := fmt.Sscanf(label, "FY %4d-%2d", &start, &end)
	if err != nil || n != 2 || len(label) != len("FY 2006-07") {
		return time.Time{}, fmt.Errorf("invalid fiscal year label %q", label)
	}
	if (start+1)%100 != end {
		return time.Time{}, fmt.Errorf("invalid fiscal year label %q: years are not consecutive", label)
	}
	if FiscalYearLabel(time.Date(start, FiscalYearStartMonth, 1, 0, 0, 0, 0, time.UTC)) != label {
		return time.Time{}, fmt.Errorf("invalid fiscal year label %q", label)
	}
	return time.Date(start, FiscalYearStartMonth, 1, 0, 0, 0, 0, time.UTC), nil
}
