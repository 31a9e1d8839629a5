package importer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sigap/mitra-engine/engine"
	"github.com/sigap/mitra-engine/importer"
	"github.com/sigap/mitra-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	must(st.SavePartner(ctx, engine.Partner{ID: "510200001", Name: "Sari Dewi"}))
	must(st.SavePartner(ctx, engine.Partner{ID: "510200002", Name: "Budi Santoso"}))
	must(st.SaveSubActivity(ctx, engine.SubActivity{ID: 7, Name: "Ubinan Padi", Activity: "Survei Ubinan", Start: start}))
	must(st.SaveRateCard(ctx, engine.RateCard{SubActivityID: 7, Position: "PPL", Tariff: engine.NewMoney(400000), Unit: "plot", TargetVolume: 10}))
	must(st.SaveLimitRule(ctx, engine.LimitRule{Year: 2025, Ceiling: engine.NewMoney(1000000)}))
	must(st.SaveTask(ctx, engine.AssignmentTask{ID: "task-7", SubActivityID: 7, Start: start}))
	return st
}

func membershipCount(t *testing.T, st *memory.Store) int {
	t.Helper()
	snap, err := st.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	return len(snap.Memberships())
}

// =============================================================================
// COMMIT TESTS
// =============================================================================

func TestCommitBatch_WritesValidRows(t *testing.T) {
	// GIVEN: A clean batch of two rows
	// WHEN: Committing with BlockNever
	// THEN: Both membership rows are persisted

	st := seededStore(t)
	c := &importer.Committer{Store: st, PositionAliases: aliases}

	result, err := c.CommitBatch(context.Background(), []importer.ImportRow{
		{Line: 2, Activity: "Ubinan Padi", SobatID: "510200001", PositionName: "PPL", Volume: 2},
		{Line: 3, Activity: "Ubinan Padi", SobatID: "510200002", PositionName: "PPL", Volume: 1},
	}, importer.BlockNever)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Committed != 2 {
		t.Errorf("want 2 committed, got %d", result.Committed)
	}
	if got := membershipCount(t, st); got != 2 {
		t.Errorf("want 2 persisted memberships, got %d", got)
	}
}

func TestCommitBatch_BlockAny_RejectsWholeBatch(t *testing.T) {
	// GIVEN: A batch whose second row stacks over the ceiling
	// WHEN: Committing with BlockAny
	// THEN: BlockedError; nothing is written, not even the clean row

	st := seededStore(t)
	c := &importer.Committer{Store: st, PositionAliases: aliases}

	_, err := c.CommitBatch(context.Background(), []importer.ImportRow{
		{Line: 2, Activity: "Ubinan Padi", SobatID: "510200001", PositionName: "PPL", Volume: 2},
		{Line: 3, Activity: "Ubinan Padi", SobatID: "510200001", PositionName: "PPL", Volume: 2},
	}, importer.BlockAny)

	if !errors.Is(err, importer.ErrBatchBlocked) {
		t.Fatalf("want ErrBatchBlocked, got %v", err)
	}
	var blocked *importer.BlockedError
	if !errors.As(err, &blocked) {
		t.Fatal("want *BlockedError with flagged rows")
	}
	if len(blocked.Rows) != 1 || !blocked.Rows[0].Stats.OverLimit {
		t.Errorf("blocked rows must carry their stats: %+v", blocked.Rows)
	}
	if got := membershipCount(t, st); got != 0 {
		t.Errorf("blocked batch must write nothing, got %d rows", got)
	}
}

func TestCommitBatch_BlockOverQuota_IgnoresLimitFlags(t *testing.T) {
	// GIVEN: A batch that breaks the ceiling but not the quota
	// WHEN: Committing with BlockOverQuota
	// THEN: The batch commits; the limit flag is warn-and-allow here

	st := seededStore(t)
	c := &importer.Committer{Store: st, PositionAliases: aliases}

	result, err := c.CommitBatch(context.Background(), []importer.ImportRow{
		{Line: 2, Activity: "Ubinan Padi", SobatID: "510200001", PositionName: "PPL", Volume: 3},
	}, importer.BlockOverQuota)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Committed != 1 {
		t.Errorf("want 1 committed, got %d", result.Committed)
	}
	if len(result.Preview.FlaggedRows()) != 1 {
		t.Error("the over-limit flag must still be reported on the result")
	}
}

func TestCommitBatch_RevalidatesAgainstFreshSnapshot(t *testing.T) {
	// GIVEN: A batch previewed clean, then a competing membership lands
	//        before commit and pushes the partner to the ceiling
	// WHEN: Committing with BlockOverLimit
	// THEN: The commit-time snapshot sees the new row and blocks

	st := seededStore(t)
	rows := []importer.ImportRow{
		{Line: 2, Activity: "Ubinan Padi", SobatID: "510200001", PositionName: "PPL", Volume: 2},
	}

	// Advisory preview: clean (800000 projected against 1,000,000).
	snap, err := st.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	preview := importer.NewPreviewValidator(snap, aliases, false).Preview(snap, rows)
	if len(preview.Valid) != 1 || preview.Valid[0].Stats.OverLimit {
		t.Fatal("setup: preview should be clean")
	}

	// Competing submission commits first.
	if err := st.AppendMemberships(context.Background(), []engine.AssignmentMembership{
		{PartnerID: "510200001", TaskID: "task-7", Position: "PPL", Volume: 2},
	}); err != nil {
		t.Fatalf("competing append: %v", err)
	}

	c := &importer.Committer{Store: st, PositionAliases: aliases}
	_, err = c.CommitBatch(context.Background(), rows, importer.BlockOverLimit)
	if !errors.Is(err, importer.ErrBatchBlocked) {
		t.Fatalf("stale preview must not win at commit time: got %v", err)
	}
	if got := membershipCount(t, st); got != 1 {
		t.Errorf("only the competing row may exist, got %d", got)
	}
}

func TestCommitBatch_UnknownPolicy_Rejected(t *testing.T) {
	st := seededStore(t)
	c := &importer.Committer{Store: st, PositionAliases: aliases}

	_, err := c.CommitBatch(context.Background(), nil, importer.BlockPolicy("sometimes"))
	if err == nil || !engine.IsInvalidInput(err) {
		t.Errorf("want invalid-input rejection, got %v", err)
	}
}
