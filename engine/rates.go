package engine

// =============================================================================
// RATE RESOLVER - Tariff lookup for (sub-activity, position)
// =============================================================================

// RateResolver looks up the rate card for a (sub-activity, position)
// pair. Absence is a typed result, not an error: callers that can
// degrade (aggregation, validation) treat a missing card as zero
// tariff and zero target, and still report that degradation.
type RateResolver struct {
	snap *Snapshot
}

func NewRateResolver(snap *Snapshot) *RateResolver {
	return &RateResolver{snap: snap}
}

// Resolve returns the matching rate card, or ok=false if the
// combination does not exist in the reference set. No side effects.
func (r *RateResolver) Resolve(subActivityID SubActivityID, position PositionCode) (RateCard, bool) {
	rc, ok := r.snap.rateCards[rateKey{subActivityID, position}]
	return rc, ok
}
