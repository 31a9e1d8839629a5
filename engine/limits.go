package engine

// =============================================================================
// CEILING - Income limit for a year, possibly unbounded
// =============================================================================

// Ceiling is the income limit applicable to one year. Unbounded means
// no limit rule exists for that year and NO validation applies. It is
// never "ceiling is zero" - that would flag every partner.
type Ceiling struct {
	Amount    Money
	Unbounded bool
}

// ExceededBy reports whether a projected income breaks the ceiling.
// Landing exactly on the ceiling is allowed; only strictly greater
// exceeds. An unbounded ceiling is never exceeded.
func (c Ceiling) ExceededBy(projected Money) bool {
	return !c.Unbounded && projected.GreaterThan(c.Amount)
}

// =============================================================================
// LIMIT RESOLVER - Ceiling lookup by year
// =============================================================================

// LimitResolver looks up the income ceiling for a year derived from a
// task's start date.
type LimitResolver struct {
	snap *Snapshot
}

func NewLimitResolver(snap *Snapshot) *LimitResolver {
	return &LimitResolver{snap: snap}
}

// Resolve returns the ceiling for the year. A year with no rule is
// unbounded by policy, not by omission.
func (r *LimitResolver) Resolve(year int) Ceiling {
	rule, ok := r.snap.limitRules[year]
	if !ok {
		return Ceiling{Unbounded: true}
	}
	return Ceiling{Amount: rule.Ceiling}
}
