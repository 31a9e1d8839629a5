package engine_test

import (
	"testing"
	"time"

	"github.com/sigap/mitra-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func rp(v int64) engine.Money { return engine.NewMoney(v) }

func march(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
}

// paddySnapshot builds the reference scenario: rate card 100000/target 5
// for (sub-activity 7, "PPL"), 2025 ceiling 1,000,000, partner P1 with
// one existing volume-3 membership under that sub-activity.
func paddySnapshot(extra ...engine.AssignmentMembership) *engine.Snapshot {
	memberships := append([]engine.AssignmentMembership{
		{PartnerID: "P1", TaskID: "task-7", Position: "PPL", Volume: 3},
	}, extra...)

	return engine.NewSnapshot(engine.SnapshotInput{
		Partners: []engine.Partner{
			{ID: "P1", Name: "Sari"},
			{ID: "P2", Name: "Budi"},
		},
		SubActivities: []engine.SubActivity{
			{ID: 7, Name: "Ubinan Padi", Activity: "Survei Ubinan", Start: march(1)},
			{ID: 9, Name: "Pendataan Hortikultura", Activity: "Survei Hortikultura", Start: march(1)},
		},
		RateCards: []engine.RateCard{
			{SubActivityID: 7, Position: "PPL", Tariff: rp(100000), Unit: "plot", TargetVolume: 5},
		},
		LimitRules: []engine.LimitRule{
			{Year: 2025, Ceiling: rp(1000000)},
		},
		Tasks: []engine.AssignmentTask{
			{ID: "task-7", SubActivityID: 7, Start: march(1)},
			{ID: "task-9", SubActivityID: 9, Start: march(1)},
		},
		Memberships: memberships,
	})
}

// =============================================================================
// VALIDATOR SCENARIO TESTS
// =============================================================================

func TestValidate_OverQuotaUnderLimit(t *testing.T) {
	// GIVEN: Tariff 100000, target 5, ceiling 1,000,000, P1 already has volume 3
	// WHEN: Validating a candidate volume of 4
	// THEN: Income stays under the ceiling but 3+4=7 exceeds the target of 5

	v := engine.NewValidator(paddySnapshot())

	result, err := v.Validate(engine.Candidate{
		PartnerID:     "P1",
		SubActivityID: 7,
		Position:      "PPL",
		Volume:        4,
		Window:        engine.AnnualWindow(2025),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.ExistingIncome.Equal(rp(300000)) {
		t.Errorf("existing income: want 300000, got %v", result.ExistingIncome)
	}
	if !result.NewIncome.Equal(rp(400000)) {
		t.Errorf("new income: want 400000, got %v", result.NewIncome)
	}
	if !result.ProjectedIncome.Equal(rp(700000)) {
		t.Errorf("projected income: want 700000, got %v", result.ProjectedIncome)
	}
	if result.OverLimit {
		t.Error("700000 against a 1,000,000 ceiling must not be over limit")
	}
	if result.ExistingVolume != 3 || result.NewVolume != 4 || result.TargetVolume != 5 {
		t.Errorf("volumes: got existing=%d new=%d target=%d", result.ExistingVolume, result.NewVolume, result.TargetVolume)
	}
	if !result.OverQuota {
		t.Error("3+4=7 against a target of 5 must be over quota")
	}
}

func TestValidate_ExactlyOnQuota(t *testing.T) {
	// GIVEN: Same setup
	// WHEN: Candidate volume 2 brings projected volume to exactly the target
	// THEN: Not over quota

	v := engine.NewValidator(paddySnapshot())

	result, err := v.Validate(engine.Candidate{
		PartnerID:     "P1",
		SubActivityID: 7,
		Position:      "PPL",
		Volume:        2,
		Window:        engine.AnnualWindow(2025),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ProjectedVolume != 5 {
		t.Errorf("projected volume: want 5, got %d", result.ProjectedVolume)
	}
	if result.OverQuota {
		t.Error("projected volume equal to target must not be over quota")
	}
}

func TestValidate_MissingRateCard_Degrades(t *testing.T) {
	// GIVEN: No rate card exists for (sub-activity 9, "X")
	// WHEN: Validating a candidate there
	// THEN: Zero tariff-derived income, zero target, no failure

	v := engine.NewValidator(paddySnapshot())

	result, err := v.Validate(engine.Candidate{
		PartnerID:     "P1",
		SubActivityID: 9,
		Position:      "X",
		Volume:        4,
		Window:        engine.AnnualWindow(2025),
	})
	if err != nil {
		t.Fatalf("lookup absence must degrade, not fail: %v", err)
	}
	if result.RateFound {
		t.Error("rate card should not resolve")
	}
	if !result.NewIncome.IsZero() {
		t.Errorf("new income: want 0, got %v", result.NewIncome)
	}
	if result.TargetVolume != 0 {
		t.Errorf("target volume: want 0, got %d", result.TargetVolume)
	}
	// Nothing allocated yet for that position, so not over quota.
	if result.OverQuota {
		t.Error("zero target with zero used must not be over quota")
	}
}

func TestValidate_ZeroTargetWithExistingUse_IsOverQuota(t *testing.T) {
	// GIVEN: Rows exist for (sub-activity 9, "X") but no rate card budgets it
	// WHEN: Validating another candidate there
	// THEN: Target 0 with used > 0 is a real over-quota result, not "no limit"

	snap := paddySnapshot(engine.AssignmentMembership{
		PartnerID: "P2", TaskID: "task-9", Position: "X", Volume: 2,
	})
	v := engine.NewValidator(snap)

	result, err := v.Validate(engine.Candidate{
		PartnerID:     "P1",
		SubActivityID: 9,
		Position:      "X",
		Volume:        1,
		Window:        engine.AnnualWindow(2025),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TargetVolume != 0 || result.ExistingVolume != 2 {
		t.Errorf("got target=%d used=%d", result.TargetVolume, result.ExistingVolume)
	}
	if !result.OverQuota {
		t.Error("used > 0 with target 0 must surface as over quota")
	}
}

// =============================================================================
// CEILING BOUNDARY TESTS
// =============================================================================

func TestValidate_ExactlyOnCeiling(t *testing.T) {
	// GIVEN: P1 has 300000 existing income, ceiling 1,000,000, tariff 100000
	// WHEN: A candidate brings projected income to exactly the ceiling
	// THEN: Not over limit

	snap := engine.NewSnapshot(engine.SnapshotInput{
		RateCards: []engine.RateCard{
			{SubActivityID: 7, Position: "PPL", Tariff: rp(100000), Unit: "plot", TargetVolume: 100},
		},
		LimitRules:  []engine.LimitRule{{Year: 2025, Ceiling: rp(1000000)}},
		Tasks:       []engine.AssignmentTask{{ID: "task-7", SubActivityID: 7, Start: march(1)}},
		Memberships: []engine.AssignmentMembership{{PartnerID: "P1", TaskID: "task-7", Position: "PPL", Volume: 3}},
	})
	v := engine.NewValidator(snap)

	result, err := v.Validate(engine.Candidate{
		PartnerID: "P1", SubActivityID: 7, Position: "PPL", Volume: 7,
		Window: engine.AnnualWindow(2025),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.ProjectedIncome.Equal(rp(1000000)) {
		t.Fatalf("projected income: want 1000000, got %v", result.ProjectedIncome)
	}
	if result.OverLimit {
		t.Error("projected income equal to the ceiling must not be over limit")
	}

	// One more unit is one tariff over: now it must flag.
	over, err := v.Validate(engine.Candidate{
		PartnerID: "P1", SubActivityID: 7, Position: "PPL", Volume: 8,
		Window: engine.AnnualWindow(2025),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !over.OverLimit {
		t.Error("projected income above the ceiling must be over limit")
	}
}

func TestValidate_OneRupiahOverCeiling(t *testing.T) {
	// GIVEN: Ceiling 999999 and a projection of exactly 1,000,000
	// WHEN: Validating
	// THEN: One rupiah over flags

	snap := engine.NewSnapshot(engine.SnapshotInput{
		RateCards:  []engine.RateCard{{SubActivityID: 7, Position: "PPL", Tariff: rp(1000000), TargetVolume: 10}},
		LimitRules: []engine.LimitRule{{Year: 2025, Ceiling: rp(999999)}},
		Tasks:      []engine.AssignmentTask{{ID: "task-7", SubActivityID: 7, Start: march(1)}},
	})
	v := engine.NewValidator(snap)

	result, err := v.Validate(engine.Candidate{
		PartnerID: "P1", SubActivityID: 7, Position: "PPL", Volume: 1,
		Window: engine.AnnualWindow(2025),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.OverLimit {
		t.Error("1,000,000 against a 999,999 ceiling must be over limit")
	}
}

func TestValidate_NoLimitRule_Unbounded(t *testing.T) {
	// GIVEN: No limit rule for 2024
	// WHEN: Validating an enormous candidate income
	// THEN: Never over limit; unbounded is "no validation", not "zero"

	snap := engine.NewSnapshot(engine.SnapshotInput{
		RateCards: []engine.RateCard{
			{SubActivityID: 7, Position: "PPL", Tariff: rp(100000000), TargetVolume: 1000},
		},
		Tasks: []engine.AssignmentTask{
			{ID: "task-7", SubActivityID: 7, Start: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)},
		},
	})
	v := engine.NewValidator(snap)

	result, err := v.Validate(engine.Candidate{
		PartnerID: "P1", SubActivityID: 7, Position: "PPL", Volume: 999,
		Window: engine.AnnualWindow(2024),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Ceiling.Unbounded {
		t.Error("missing limit rule must resolve as unbounded")
	}
	if result.OverLimit {
		t.Error("unbounded ceiling must never flag over limit")
	}
}

// =============================================================================
// INPUT REJECTION TESTS
// =============================================================================

func TestValidate_NonPositiveVolume_Rejected(t *testing.T) {
	// GIVEN: Candidates with zero and negative volume
	// WHEN: Validating
	// THEN: InvalidInput before any computation

	v := engine.NewValidator(paddySnapshot())

	for _, volume := range []int{0, -3} {
		_, err := v.Validate(engine.Candidate{
			PartnerID: "P1", SubActivityID: 7, Position: "PPL", Volume: volume,
			Window: engine.AnnualWindow(2025),
		})
		if err == nil {
			t.Fatalf("volume %d must be rejected", volume)
		}
		if !engine.IsInvalidInput(err) {
			t.Errorf("volume %d: want invalid-input category, got %v", volume, err)
		}
	}
}

func TestValidate_MissingIdentifiers_Rejected(t *testing.T) {
	// GIVEN: Candidates each missing one required identifier
	// WHEN: Validating
	// THEN: InvalidInput naming the field

	v := engine.NewValidator(paddySnapshot())
	base := engine.Candidate{
		PartnerID: "P1", SubActivityID: 7, Position: "PPL", Volume: 1,
		Window: engine.AnnualWindow(2025),
	}

	cases := []struct {
		name   string
		mutate func(*engine.Candidate)
	}{
		{"partner", func(c *engine.Candidate) { c.PartnerID = "" }},
		{"sub_activity", func(c *engine.Candidate) { c.SubActivityID = 0 }},
		{"position", func(c *engine.Candidate) { c.Position = "" }},
		{"year", func(c *engine.Candidate) { c.Window = engine.Window{} }},
	}
	for _, tc := range cases {
		c := base
		tc.mutate(&c)
		_, err := v.Validate(c)
		if err == nil || !engine.IsInvalidInput(err) {
			t.Errorf("%s: want invalid-input rejection, got %v", tc.name, err)
		}
	}
}

// =============================================================================
// EDIT EXCLUSION TESTS
// =============================================================================

func TestValidate_ExcludeTask_NoDoubleCount(t *testing.T) {
	// GIVEN: P1's volume-3 row lives on task-7
	// WHEN: Re-validating task-7 itself with a replacement volume of 5
	// THEN: The prior row is excluded from quota usage

	v := engine.NewValidator(paddySnapshot())

	result, err := v.Validate(engine.Candidate{
		PartnerID: "P1", SubActivityID: 7, Position: "PPL", Volume: 5,
		Window:      engine.AnnualWindow(2025),
		ExcludeTask: "task-7",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExistingVolume != 0 {
		t.Errorf("existing volume with own task excluded: want 0, got %d", result.ExistingVolume)
	}
	if result.OverQuota {
		t.Error("replacement volume 5 against target 5 must not be over quota")
	}
}

// =============================================================================
// DRAFT STACKING (single-candidate view)
// =============================================================================

func TestValidate_DraftAdjustments_StackOnExisting(t *testing.T) {
	// GIVEN: A draft row worth 400000 and volume 1 already accepted in batch
	// WHEN: Validating the next candidate
	// THEN: Existing figures include the draft contribution

	v := engine.NewValidator(paddySnapshot())

	result, err := v.Validate(engine.Candidate{
		PartnerID: "P1", SubActivityID: 7, Position: "PPL", Volume: 1,
		Window:      engine.AnnualWindow(2025),
		DraftIncome: rp(400000),
		DraftVolume: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.ExistingIncome.Equal(rp(700000)) {
		t.Errorf("existing income with draft: want 700000, got %v", result.ExistingIncome)
	}
	if result.ExistingVolume != 4 {
		t.Errorf("existing volume with draft: want 4, got %d", result.ExistingVolume)
	}
}
