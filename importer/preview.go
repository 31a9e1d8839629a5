/*
preview.go - Ordered batch dry run

PURPOSE:
  Runs the validator over parsed spreadsheet rows WITHOUT mutating
  stored state, producing {valid rows with stats, warnings}.

ORDER MATTERS:
  Later rows in a batch see the cumulative effect of earlier accepted
  rows. Two rows assigning the same partner must stack against the
  ceiling: the first may pass while the second flags. The same goes
  for volume against a position's quota. Drafts are tracked per
  (partner, window) for income and per (sub-activity, position) for
  volume, and only rows that reached the validator contribute.

SEE ALSO:
  - commit.go: Re-runs this preview against a fresh snapshot inside a
    transaction before persisting
*/
package importer

import (
	"fmt"

	"github.com/sigap/mitra-engine/engine"
)

// PreviewValidator classifies a batch of import rows against one
// snapshot.
type PreviewValidator struct {
	SubActivities SubActivityResolver
	Partners      PartnerResolver
	Positions     PositionResolver

	// Monthly selects month-granular income windows. The planning
	// screen previews monthly; assignment imports preview annually.
	Monthly bool
}

// NewPreviewValidator wires the default directory resolver for all
// three reference kinds.
func NewPreviewValidator(snap *engine.Snapshot, positionAliases map[string]engine.PositionCode, monthly bool) *PreviewValidator {
	dir := NewDirectoryResolver(snap, positionAliases)
	return &PreviewValidator{
		SubActivities: dir,
		Partners:      dir,
		Positions:     dir,
		Monthly:       monthly,
	}
}

// draftIncomeKey tracks same-batch income per partner per window.
type draftIncomeKey struct {
	Partner engine.PartnerID
	Window  engine.Window
}

// draftVolumeKey tracks same-batch volume per sub-activity position.
type draftVolumeKey struct {
	SubActivity engine.SubActivityID
	Position    engine.PositionCode
}

// Preview evaluates rows in input order. Unresolvable or invalid rows
// are excluded with a warning; everything else is included with its
// stats, flags and all.
func (pv *PreviewValidator) Preview(snap *engine.Snapshot, rows []ImportRow) Preview {
	validator := engine.NewValidator(snap)

	draftIncome := make(map[draftIncomeKey]engine.Money)
	draftVolume := make(map[draftVolumeKey]int)

	preview := Preview{}
	for _, row := range rows {
		sa, err := pv.SubActivities.ResolveSubActivity(row.Activity)
		if err != nil {
			preview.Warnings = append(preview.Warnings, rowWarning(row, err))
			continue
		}
		partner, err := pv.Partners.ResolvePartner(row.SobatID)
		if err != nil {
			preview.Warnings = append(preview.Warnings, rowWarning(row, err))
			continue
		}
		position, err := pv.Positions.ResolvePosition(row.PositionName)
		if err != nil {
			preview.Warnings = append(preview.Warnings, rowWarning(row, err))
			continue
		}

		// The window comes from the sub-activity's task when one
		// exists, else from the sub-activity schedule itself.
		start := sa.Start
		var taskID engine.TaskID
		if task, ok := snap.TaskForSubActivity(sa.ID); ok {
			start = task.Start
			taskID = task.ID
		}
		window := engine.WindowFor(start, pv.Monthly)

		incomeKey := draftIncomeKey{Partner: partner.ID, Window: window}
		volumeKey := draftVolumeKey{SubActivity: sa.ID, Position: position}

		stats, err := validator.Validate(engine.Candidate{
			PartnerID:     partner.ID,
			SubActivityID: sa.ID,
			Position:      position,
			Volume:        row.Volume,
			Window:        window,
			DraftIncome:   draftIncome[incomeKey],
			DraftVolume:   draftVolume[volumeKey],
		})
		if err != nil {
			preview.Warnings = append(preview.Warnings, rowWarning(row, err))
			continue
		}

		preview.Valid = append(preview.Valid, PreviewRow{
			Row:           row,
			PartnerID:     partner.ID,
			PartnerName:   partner.Name,
			SubActivityID: sa.ID,
			TaskID:        taskID,
			Position:      position,
			Window:        window,
			Stats:         stats,
		})

		// Accepted rows stack on subsequent ones.
		draftIncome[incomeKey] = draftIncome[incomeKey].Add(stats.NewIncome)
		draftVolume[volumeKey] += row.Volume
	}

	return preview
}

func rowWarning(row ImportRow, err error) string {
	return fmt.Sprintf("row %d: %v", row.Line, err)
}
