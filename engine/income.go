/*
income.go - Honorarium aggregation per partner per window

PURPOSE:
  Sums tariff x volume over every membership of a partner whose task
  falls inside a window. This is the "existing income" figure that the
  ceiling check compares against, and the number the recap screen shows.

GUARANTEES:
  - Idempotent: same snapshot in, same decimal out, bit for bit.
  - Additive: aggregating two disjoint membership sets equals the sum
    of aggregating each separately.
  - Degrading: a membership whose task has no resolvable rate card
    contributes zero instead of failing. So do memberships with
    non-positive volume or a dangling task reference.

GRANULARITY:
  The window carries the granularity choice (annual vs monthly).
  Do NOT unify the two: different screens intentionally validate
  against different windows. See window.go.
*/
package engine

// IncomeAggregator sums a partner's projected honorarium over a window.
type IncomeAggregator struct {
	snap  *Snapshot
	rates *RateResolver
}

func NewIncomeAggregator(snap *Snapshot) *IncomeAggregator {
	return &IncomeAggregator{snap: snap, rates: NewRateResolver(snap)}
}

// Aggregate returns the summed honorarium of every membership of the
// partner whose task start date falls inside the window.
func (a *IncomeAggregator) Aggregate(partnerID PartnerID, w Window) Money {
	total := ZeroMoney()
	for _, i := range a.snap.membershipsOfPartner(partnerID) {
		m := a.snap.membership(i)
		task, ok := a.snap.Task(m.TaskID)
		if !ok {
			continue
		}
		if !w.Contains(task.Start) {
			continue
		}
		rc, ok := a.rates.Resolve(task.SubActivityID, m.Position)
		if !ok {
			continue
		}
		total = total.Add(m.Honorarium(rc))
	}
	return total
}
