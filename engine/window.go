package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// WINDOW - The aggregation time boundary (annual or monthly)
// =============================================================================

// Window is the time boundary for income aggregation. Month is optional:
// a zero Month means the whole year.
//
// Both granularities exist on purpose. Planning and recap screens
// aggregate per month while assignment screens aggregate per year, and
// collapsing them would silently change what each screen validates.
// Callers pick the granularity that matches the screen they serve.
type Window struct {
	Year  int
	Month time.Month // 0 = annual
}

// AnnualWindow covers a whole calendar year.
func AnnualWindow(year int) Window {
	return Window{Year: year}
}

// MonthlyWindow covers a single month.
func MonthlyWindow(year int, month time.Month) Window {
	return Window{Year: year, Month: month}
}

// WindowFor derives the window from a task start date.
func WindowFor(start time.Time, monthly bool) Window {
	if monthly {
		return MonthlyWindow(start.Year(), start.Month())
	}
	return AnnualWindow(start.Year())
}

// Monthly reports whether the window is month-granular.
func (w Window) Monthly() bool { return w.Month != 0 }

// Contains reports whether a task start date falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if t.Year() != w.Year {
		return false
	}
	if w.Monthly() && t.Month() != w.Month {
		return false
	}
	return true
}

func (w Window) String() string {
	if w.Monthly() {
		return fmt.Sprintf("%04d-%02d", w.Year, int(w.Month))
	}
	return fmt.Sprintf("%04d", w.Year)
}
