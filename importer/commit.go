/*
commit.go - Transactional batch commit

PURPOSE:
  The preview is a read-then-decide step, and two nearly-simultaneous
  submissions could both pass preview and jointly blow a ceiling. The
  Committer therefore re-validates against a FRESHLY loaded snapshot
  inside a store transaction immediately before persisting. The
  preview the user saw is advisory; the commit-time preview decides.

BLOCKING:
  The caller's BlockPolicy is applied to the commit-time stats. When
  any row blocks, the whole batch is rejected and rolled back; partial
  batches are never written. Rows that failed resolution at commit
  time are skipped with warnings (same rule as preview).
*/
package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sigap/mitra-engine/engine"
)

// =============================================================================
// STORE CONTRACT
// =============================================================================

// Store is what the committer needs from persistence: fresh snapshots,
// a transaction boundary, and membership appends. store/sqlite and
// store/memory implement it.
type Store interface {
	// LoadSnapshot assembles the current reference data.
	LoadSnapshot(ctx context.Context) (*engine.Snapshot, error)

	// WithTx runs fn inside a transaction. fn receives a Store bound
	// to that transaction; an error rolls everything back.
	WithTx(ctx context.Context, fn func(Store) error) error

	// AppendMemberships persists new membership rows.
	AppendMemberships(ctx context.Context, ms []engine.AssignmentMembership) error
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrBatchBlocked is returned when the block policy rejects the batch.
var ErrBatchBlocked = errors.New("batch blocked by policy")

// BlockedError carries the offending rows so the caller can render
// them with their numbers.
type BlockedError struct {
	Policy BlockPolicy
	Rows   []PreviewRow
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("batch blocked by policy %q: %d row(s) flagged", e.Policy, len(e.Rows))
}

func (e *BlockedError) Unwrap() error { return ErrBatchBlocked }

// =============================================================================
// COMMITTER
// =============================================================================

// Committer persists a previewed batch under a blocking policy.
type Committer struct {
	Store           Store
	PositionAliases map[string]engine.PositionCode
	Monthly         bool
}

// CommitResult reports what the commit-time re-validation saw and how
// many rows were written.
type CommitResult struct {
	Committed int     `json:"committed"`
	Preview   Preview `json:"preview"`
}

// CommitBatch re-validates rows against a fresh snapshot inside a
// transaction and persists every valid row, or nothing at all.
func (c *Committer) CommitBatch(ctx context.Context, rows []ImportRow, policy BlockPolicy) (*CommitResult, error) {
	if !policy.Valid() {
		return nil, &engine.InvalidInputError{Field: "block_policy", Reason: "unknown policy", Cause: engine.ErrMissingIdentifier}
	}

	var result *CommitResult
	err := c.Store.WithTx(ctx, func(tx Store) error {
		snap, err := tx.LoadSnapshot(ctx)
		if err != nil {
			return err
		}

		pv := NewPreviewValidator(snap, c.PositionAliases, c.Monthly)
		preview := pv.Preview(snap, rows)

		var blocked []PreviewRow
		for _, row := range preview.Valid {
			if policy.Blocks(row.Stats) {
				blocked = append(blocked, row)
			}
		}
		if len(blocked) > 0 {
			return &BlockedError{Policy: policy, Rows: blocked}
		}

		memberships := make([]engine.AssignmentMembership, 0, len(preview.Valid))
		for _, row := range preview.Valid {
			if row.TaskID == "" {
				preview.Warnings = append(preview.Warnings,
					fmt.Sprintf("row %d: sub-activity %d has no task to attach to", row.Row.Line, row.SubActivityID))
				continue
			}
			memberships = append(memberships, engine.AssignmentMembership{
				PartnerID: row.PartnerID,
				TaskID:    row.TaskID,
				Position:  row.Position,
				Volume:    row.Row.Volume,
			})
		}

		if len(memberships) > 0 {
			if err := tx.AppendMemberships(ctx, memberships); err != nil {
				return err
			}
		}

		result = &CommitResult{Committed: len(memberships), Preview: preview}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
