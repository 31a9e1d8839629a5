/*
Package importer implements spreadsheet batch preview and commit on top
of the validation engine.

PURPOSE:
  Planners upload a spreadsheet of candidate assignments: free-text
  activity references, partner "sobat" IDs, position names, volumes.
  This package resolves those references against the snapshot, runs
  the validator over the rows IN ORDER with same-batch draft stacking,
  and produces a classified preview without mutating anything. A
  separate Committer re-validates against a fresh snapshot inside a
  store transaction before persisting.

KEY CONCEPTS:
  ImportRow:   One parsed spreadsheet row, still free text.
  PreviewRow:  A resolved row with its full ValidationResult attached.
  Preview:     {Valid rows (flags included!), Warnings for the rest}.
  BlockPolicy: Caller-chosen rule for whether flagged rows block a
               commit. Deliberately NOT hard-coded: screens differ.

OVER-LIMIT ROWS ARE NOT DROPPED:
  A row that exceeds the ceiling or the quota still lands in Valid
  with its flags set. The caller renders it and decides. Only rows
  that cannot be resolved (or carry invalid volume) are excluded, each
  with a human-readable warning naming the row and reason.
*/
package importer

import (
	"github.com/sigap/mitra-engine/engine"
)

// =============================================================================
// ROWS
// =============================================================================

// ImportRow is one parsed spreadsheet row. Line is the 1-based source
// line, used in warning messages.
type ImportRow struct {
	Line         int    `json:"line"`
	Activity     string `json:"activity"` // free-text activity / sub-activity reference
	SobatID      string `json:"sobat_id"` // partner external reference
	PositionName string `json:"position"` // position display name
	Volume       int    `json:"volume"`
}

// PreviewRow is a resolved, validated row.
type PreviewRow struct {
	Row           ImportRow               `json:"row"`
	PartnerID     engine.PartnerID        `json:"partner_id"`
	PartnerName   string                  `json:"partner_name"`
	SubActivityID engine.SubActivityID    `json:"sub_activity_id"`
	TaskID        engine.TaskID           `json:"task_id"`
	Position      engine.PositionCode     `json:"position_code"`
	Window        engine.Window           `json:"window"`
	Stats         engine.ValidationResult `json:"stats"`
}

// Preview is the outcome of a batch dry run. Nothing has been written.
type Preview struct {
	Valid    []PreviewRow `json:"valid"`
	Warnings []string     `json:"warnings"`
}

// FlaggedRows returns the valid rows whose stats carry any flag.
func (p Preview) FlaggedRows() []PreviewRow {
	var out []PreviewRow
	for _, row := range p.Valid {
		if row.Stats.OverLimit || row.Stats.OverQuota {
			out = append(out, row)
		}
	}
	return out
}

// =============================================================================
// BLOCK POLICY - Caller-configurable, never hard-coded
// =============================================================================

// BlockPolicy decides whether a flagged row blocks the whole batch's
// commit. The observed behavior differs per screen upstream, so the
// policy is a parameter of the commit call, not of the engine.
type BlockPolicy string

const (
	BlockNever     BlockPolicy = "never"      // warn-and-allow everything
	BlockOverLimit BlockPolicy = "over_limit" // block when any row breaks the ceiling
	BlockOverQuota BlockPolicy = "over_quota" // block when any row breaks the quota
	BlockAny       BlockPolicy = "any"        // block on either flag
)

// Blocks reports whether a row with this result stops the commit.
func (p BlockPolicy) Blocks(stats engine.ValidationResult) bool {
	switch p {
	case BlockOverLimit:
		return stats.OverLimit
	case BlockOverQuota:
		return stats.OverQuota
	case BlockAny:
		return stats.OverLimit || stats.OverQuota
	default:
		return false
	}
}

// Valid reports whether the policy value is one of the known modes.
func (p BlockPolicy) Valid() bool {
	switch p {
	case BlockNever, BlockOverLimit, BlockOverQuota, BlockAny:
		return true
	}
	return false
}
