/*
validator.go - Single-candidate evaluation

PURPOSE:
  Evaluates one candidate change (adding or editing one membership)
  and reports whether it would exceed the position quota and/or the
  partner's income ceiling, alongside every intermediate figure.

WHY FULL CONTEXT, NOT PASS/FAIL:
  Every calling screen renders a progress/limit bar and then decides
  whether to warn-and-allow or hard-block. A bare boolean cannot feed
  that UI, so the result carries existing/new/projected income, the
  ceiling, existing/new/projected volume, and the target.

DEGRADATION RULES:
  - Missing rate card: tariff 0 and target 0, computation continues,
    RateFound=false in the result.
  - Missing limit rule: unbounded ceiling, OverLimit always false.
  - Non-positive candidate volume: rejected with InvalidInput BEFORE
    any computation. This is the only hard error.

SPECULATIVE vs COMMITTED:
  The same Validate call serves both the preview path (before commit)
  and the post-commit path; because it is a pure function over a
  snapshot, both produce identical numbers for identical data. Batch
  preview stacks same-batch draft rows through DraftIncome/DraftVolume.

SEE ALSO:
  - importer/preview.go: Runs this over parsed spreadsheet rows
  - importer/commit.go: Re-runs this against a fresh snapshot in a
    transaction before persisting
*/
package engine

// =============================================================================
// CANDIDATE - One speculative membership change
// =============================================================================

// Candidate describes one membership change to evaluate.
type Candidate struct {
	PartnerID     PartnerID
	SubActivityID SubActivityID
	Position      PositionCode
	Volume        int

	// Window for income aggregation. The caller derives it from the
	// task start date at the granularity its screen expects.
	Window Window

	// ExcludeTask removes one task's rows from the quota usage, so an
	// edited task's prior state doesn't count against itself.
	ExcludeTask TaskID

	// Draft adjustments let batch preview stack rows accepted earlier
	// in the same batch on top of the committed state.
	DraftIncome Money
	DraftVolume int
}

// =============================================================================
// VALIDATION RESULT - Every intermediate figure, never a bare boolean
// =============================================================================

type ValidationResult struct {
	// Rate card resolution. RateFound=false means tariff and target
	// degraded to zero.
	Tariff    Money
	Unit      string
	RateFound bool

	// Income side
	ExistingIncome  Money
	NewIncome       Money
	ProjectedIncome Money
	Ceiling         Ceiling
	OverLimit       bool

	// Quota side
	ExistingVolume  int
	NewVolume       int
	ProjectedVolume int
	TargetVolume    int
	OverQuota       bool
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator combines the resolvers, the aggregator, and the quota
// tracker over one snapshot.
type Validator struct {
	snap   *Snapshot
	rates  *RateResolver
	limits *LimitResolver
	quota  *QuotaTracker
	income *IncomeAggregator
}

func NewValidator(snap *Snapshot) *Validator {
	return &Validator{
		snap:   snap,
		rates:  NewRateResolver(snap),
		limits: NewLimitResolver(snap),
		quota:  NewQuotaTracker(snap),
		income: NewIncomeAggregator(snap),
	}
}

// Validate evaluates one candidate. It returns an InvalidInput error
// for a non-positive volume or missing identifiers; every lookup
// absence degrades instead of erroring.
func (v *Validator) Validate(c Candidate) (ValidationResult, error) {
	if err := v.checkInput(c); err != nil {
		return ValidationResult{}, err
	}

	// 1. Rate card; absent means tariff 0, not an error.
	rc, rateFound := v.rates.Resolve(c.SubActivityID, c.Position)

	// 2-4. Income: existing (committed + same-batch drafts) + new.
	existing := v.income.Aggregate(c.PartnerID, c.Window).Add(c.DraftIncome)
	newIncome := rc.Tariff.MulInt(c.Volume)
	projected := existing.Add(newIncome)

	// 5-6. Ceiling for the window's year. Exactly on the ceiling is
	// allowed; one rupiah over is not.
	ceiling := v.limits.Resolve(c.Window.Year)
	overLimit := ceiling.ExceededBy(projected)

	// 7-9. Quota.
	usage := v.quota.Usage(c.SubActivityID, c.Position, c.ExcludeTask)
	used := usage.Used + c.DraftVolume
	projectedVolume := used + c.Volume
	overQuota := isOverQuota(used, projectedVolume, usage.Target)

	return ValidationResult{
		Tariff:          rc.Tariff,
		Unit:            rc.Unit,
		RateFound:       rateFound,
		ExistingIncome:  existing,
		NewIncome:       newIncome,
		ProjectedIncome: projected,
		Ceiling:         ceiling,
		OverLimit:       overLimit,
		ExistingVolume:  used,
		NewVolume:       c.Volume,
		ProjectedVolume: projectedVolume,
		TargetVolume:    usage.Target,
		OverQuota:       overQuota,
	}, nil
}

func (v *Validator) checkInput(c Candidate) error {
	if c.PartnerID == "" {
		return &InvalidInputError{Field: "partner_id", Reason: "required", Cause: ErrMissingIdentifier}
	}
	if c.SubActivityID == 0 {
		return &InvalidInputError{Field: "sub_activity_id", Reason: "required", Cause: ErrMissingIdentifier}
	}
	if c.Position == "" {
		return &InvalidInputError{Field: "position", Reason: "required", Cause: ErrMissingIdentifier}
	}
	if c.Window.Year == 0 {
		return &InvalidInputError{Field: "year", Reason: "required", Cause: ErrMissingIdentifier}
	}
	if c.Volume <= 0 {
		return &InvalidInputError{Field: "volume", Reason: "must be a positive integer", Cause: ErrInvalidVolume}
	}
	return nil
}

// isOverQuota applies the quota rule. A positive target is exceeded
// only when the projected volume strictly passes it. A zero target
// (missing rate card) with rows already allocated is over quota too:
// someone is assigned to a position the plan never budgeted.
func isOverQuota(used, projected, target int) bool {
	if target > 0 {
		return projected > target
	}
	return used > 0
}
