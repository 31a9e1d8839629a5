/*
quota.go - Volume allocation vs. position target

PURPOSE:
  Answers "how much of this position's quota is already spoken for?"
  by summing membership volume across every task under a sub-activity.

EDGE CASE THAT MATTERS:
  A missing rate card yields Target = 0 while Used still reflects the
  real allocation. Target 0 with nonzero Used is a valid over-quota
  result that callers must be able to surface - it is NOT "no limit".

SEE ALSO:
  - validator.go: Combines usage with the candidate volume
*/
package engine

// QuotaUsage reports allocated volume against the position's target.
type QuotaUsage struct {
	Used   int
	Target int
}

// QuotaTracker sums volume allocated to a position within a
// sub-activity's tasks.
type QuotaTracker struct {
	snap  *Snapshot
	rates *RateResolver
}

func NewQuotaTracker(snap *Snapshot) *QuotaTracker {
	return &QuotaTracker{snap: snap, rates: NewRateResolver(snap)}
}

// Usage sums volume across all memberships whose task belongs to the
// sub-activity and whose position matches. Pass excludeTask when
// editing an existing task so its own prior rows don't double-count
// against the candidate. Non-positive stored volumes contribute zero.
func (q *QuotaTracker) Usage(subActivityID SubActivityID, position PositionCode, excludeTask TaskID) QuotaUsage {
	used := 0
	for _, taskID := range q.snap.taskIDsOfSubActivity(subActivityID) {
		if excludeTask != "" && taskID == excludeTask {
			continue
		}
		for _, i := range q.snap.membershipsOfTask(taskID) {
			m := q.snap.membership(i)
			if m.Position != position || m.Volume <= 0 {
				continue
			}
			used += m.Volume
		}
	}

	target := 0
	if rc, ok := q.rates.Resolve(subActivityID, position); ok {
		target = rc.TargetVolume
	}

	return QuotaUsage{Used: used, Target: target}
}
