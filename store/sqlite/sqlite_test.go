package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigap/mitra-engine/engine"
	"github.com/sigap/mitra-engine/importer"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func seedSurvey(t *testing.T, st *Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, st.SavePartner(ctx, engine.Partner{ID: "P1", Name: "Sari Dewi", NationalID: "3275010101900001"}))
	require.NoError(t, st.SaveSubActivity(ctx, engine.SubActivity{
		ID: 7, Name: "Ubinan Padi", Activity: "Survei Ubinan",
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, st.SaveRateCard(ctx, engine.RateCard{
		SubActivityID: 7, Position: "PPL",
		Tariff: engine.NewMoney(100000), Unit: "plot", TargetVolume: 5,
	}))
	require.NoError(t, st.SaveLimitRule(ctx, engine.LimitRule{Year: 2025, Ceiling: engine.NewMoney(1000000)}))
	require.NoError(t, st.SaveTask(ctx, engine.AssignmentTask{
		ID: "task-7", SubActivityID: 7, Name: "Ubinan Maret",
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, st.AppendMemberships(ctx, []engine.AssignmentMembership{
		{PartnerID: "P1", TaskID: "task-7", Position: "PPL", Volume: 3},
	}))
}

func TestLoadSnapshot_Roundtrip(t *testing.T) {
	st := newTestStore(t)
	seedSurvey(t, st)

	snap, err := st.LoadSnapshot(context.Background())
	require.NoError(t, err)

	p, ok := snap.Partner("P1")
	require.True(t, ok)
	assert.Equal(t, "Sari Dewi", p.Name)
	assert.Equal(t, "3275010101900001", p.NationalID)

	sa, ok := snap.SubActivity(7)
	require.True(t, ok)
	assert.Equal(t, "Survei Ubinan", sa.Activity)
	assert.Equal(t, 2025, sa.Start.Year())
	assert.Equal(t, time.March, sa.Start.Month())

	rr := engine.NewRateResolver(snap)
	rc, ok := rr.Resolve(7, "PPL")
	require.True(t, ok)
	assert.Equal(t, "100000", rc.Tariff.String())
	assert.Equal(t, 5, rc.TargetVolume)

	task, ok := snap.Task("task-7")
	require.True(t, ok)
	assert.Equal(t, engine.SubActivityID(7), task.SubActivityID)

	require.Len(t, snap.Memberships(), 1)
	assert.Equal(t, 3, snap.Memberships()[0].Volume)
}

func TestLoadSnapshot_FeedsValidator(t *testing.T) {
	st := newTestStore(t)
	seedSurvey(t, st)

	snap, err := st.LoadSnapshot(context.Background())
	require.NoError(t, err)

	v := engine.NewValidator(snap)
	result, err := v.Validate(engine.Candidate{
		PartnerID:     "P1",
		SubActivityID: 7,
		Position:      "PPL",
		Volume:        3,
		Window:        engine.AnnualWindow(2025),
	})
	require.NoError(t, err)

	assert.Equal(t, "300000", result.ExistingIncome.String())
	assert.Equal(t, "600000", result.ProjectedIncome.String())
	assert.False(t, result.OverLimit)
	assert.True(t, result.OverQuota)
}

func TestSave_UpsertsByKey(t *testing.T) {
	st := newTestStore(t)
	seedSurvey(t, st)
	ctx := context.Background()

	// Same keys, changed values.
	require.NoError(t, st.SavePartner(ctx, engine.Partner{ID: "P1", Name: "Sari D."}))
	require.NoError(t, st.SaveRateCard(ctx, engine.RateCard{
		SubActivityID: 7, Position: "PPL",
		Tariff: engine.NewMoney(120000), Unit: "plot", TargetVolume: 6,
	}))
	require.NoError(t, st.SaveLimitRule(ctx, engine.LimitRule{Year: 2025, Ceiling: engine.NewMoney(1500000)}))

	snap, err := st.LoadSnapshot(ctx)
	require.NoError(t, err)

	p, _ := snap.Partner("P1")
	assert.Equal(t, "Sari D.", p.Name)
	assert.Len(t, snap.Partners(), 1)

	rc, _ := engine.NewRateResolver(snap).Resolve(7, "PPL")
	assert.Equal(t, "120000", rc.Tariff.String())
	assert.Equal(t, 6, rc.TargetVolume)
	assert.Len(t, snap.RateCards(), 1)

	ceiling := engine.NewLimitResolver(snap).Resolve(2025)
	assert.Equal(t, "1500000", ceiling.Amount.String())
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	st := newTestStore(t)
	seedSurvey(t, st)
	ctx := context.Background()

	boom := errors.New("boom")
	err := st.WithTx(ctx, func(tx importer.Store) error {
		if err := tx.AppendMemberships(ctx, []engine.AssignmentMembership{
			{PartnerID: "P1", TaskID: "task-7", Position: "PPL", Volume: 2},
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	snap, err := st.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Memberships(), 1)
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	st := newTestStore(t)
	seedSurvey(t, st)
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx importer.Store) error {
		return tx.AppendMemberships(ctx, []engine.AssignmentMembership{
			{PartnerID: "P1", TaskID: "task-7", Position: "PPL", Volume: 2},
		})
	})
	require.NoError(t, err)

	snap, err := st.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Memberships(), 2)
}

func TestWithTx_SnapshotSeesUncommittedWrites(t *testing.T) {
	st := newTestStore(t)
	seedSurvey(t, st)
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx importer.Store) error {
		if err := tx.AppendMemberships(ctx, []engine.AssignmentMembership{
			{PartnerID: "P1", TaskID: "task-7", Position: "PPL", Volume: 2},
		}); err != nil {
			return err
		}
		snap, err := tx.LoadSnapshot(ctx)
		if err != nil {
			return err
		}
		assert.Len(t, snap.Memberships(), 2)
		return errors.New("abort")
	})
	require.Error(t, err)
}

func TestCommitBatch_AgainstSqlite(t *testing.T) {
	st := newTestStore(t)
	seedSurvey(t, st)
	ctx := context.Background()

	aliases := map[string]engine.PositionCode{"Petugas Pendataan Lapangan": "PPL"}
	committer := &importer.Committer{Store: st, PositionAliases: aliases}

	result, err := committer.CommitBatch(ctx, []importer.ImportRow{
		{Line: 1, Activity: "Ubinan Padi", SobatID: "P1", PositionName: "Petugas Pendataan Lapangan", Volume: 2},
	}, importer.BlockAny)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Committed)

	snap, err := st.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Memberships(), 2)
}

func TestCommitBatch_BlockedLeavesNoRows(t *testing.T) {
	st := newTestStore(t)
	seedSurvey(t, st)
	ctx := context.Background()

	aliases := map[string]engine.PositionCode{"Petugas Pendataan Lapangan": "PPL"}
	committer := &importer.Committer{Store: st, PositionAliases: aliases}

	// 4 more plots projects 7 > target 5.
	_, err := committer.CommitBatch(ctx, []importer.ImportRow{
		{Line: 1, Activity: "Ubinan Padi", SobatID: "P1", PositionName: "Petugas Pendataan Lapangan", Volume: 4},
	}, importer.BlockOverQuota)
	require.ErrorIs(t, err, importer.ErrBatchBlocked)

	snap, err := st.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Memberships(), 1)
}

func TestReset_WipesEverything(t *testing.T) {
	st := newTestStore(t)
	seedSurvey(t, st)
	ctx := context.Background()

	require.NoError(t, st.Reset(ctx))

	snap, err := st.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Partners())
	assert.Empty(t, snap.SubActivities())
	assert.Empty(t, snap.RateCards())
	assert.Empty(t, snap.LimitRules())
	assert.Empty(t, snap.Tasks())
	assert.Empty(t, snap.Memberships())
}
