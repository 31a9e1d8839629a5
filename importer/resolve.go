/*
resolve.go - Free-text reference resolution

PURPOSE:
  Spreadsheet rows reference reference data by display text: an
  activity or sub-activity name, a sobat ID, a position name. These
  must be matched against the snapshot before validation. Matching is
  behind small interfaces so the ambiguous-match policy can be tested
  and swapped without touching the aggregation logic.

MATCHING RULES (DirectoryResolver):
  - Case-insensitive, whitespace-collapsed comparison.
  - Sub-activities match on "activity - sub-activity", the
    sub-activity name alone, or the activity name alone when the
    activity has exactly one sub-activity.
  - Partners match on exact sobat ID first, then on name.
  - Positions match on the rate cards' position codes, plus an alias
    table for display names ("Petugas Pendataan Lapangan" -> "PPL").
  - More than one match is AMBIGUOUS and reported as such, never
    silently picked.

FAILURE MODEL:
  Resolution failures are data-quality problems, not engine errors:
  the caller turns them into per-row warnings and excludes the row.
*/
package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sigap/mitra-engine/engine"
)

// =============================================================================
// RESOLUTION ERRORS
// =============================================================================

var (
	// ErrNoMatch means the reference matched nothing in the snapshot.
	ErrNoMatch = errors.New("no match")

	// ErrAmbiguous means the reference matched more than one record.
	ErrAmbiguous = errors.New("ambiguous reference")
)

// ResolveError names the reference that failed and why.
type ResolveError struct {
	Kind string // "sub-activity", "partner", "position"
	Ref  string
	Err  error // ErrNoMatch or ErrAmbiguous
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Ref, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// =============================================================================
// RESOLVER INTERFACES - Injectable strategies
// =============================================================================

type SubActivityResolver interface {
	ResolveSubActivity(ref string) (engine.SubActivity, error)
}

type PartnerResolver interface {
	ResolvePartner(ref string) (engine.Partner, error)
}

type PositionResolver interface {
	ResolvePosition(name string) (engine.PositionCode, error)
}

// =============================================================================
// DIRECTORY RESOLVER - Default snapshot-backed implementation
// =============================================================================

// DirectoryResolver resolves all three reference kinds against one
// snapshot, with an optional alias table for position display names.
type DirectoryResolver struct {
	snap    *engine.Snapshot
	aliases map[string]engine.PositionCode // normalized name -> code
}

var _ SubActivityResolver = (*DirectoryResolver)(nil)
var _ PartnerResolver = (*DirectoryResolver)(nil)
var _ PositionResolver = (*DirectoryResolver)(nil)

// NewDirectoryResolver builds the default resolver. Alias keys are
// normalized on construction.
func NewDirectoryResolver(snap *engine.Snapshot, positionAliases map[string]engine.PositionCode) *DirectoryResolver {
	aliases := make(map[string]engine.PositionCode, len(positionAliases))
	for name, code := range positionAliases {
		aliases[normalize(name)] = code
	}
	return &DirectoryResolver{snap: snap, aliases: aliases}
}

// normalize lowercases and collapses internal whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ResolveSubActivity matches a free-text activity/sub-activity
// reference. Candidate forms, all normalized:
//   "<activity> - <sub-activity>", "<sub-activity>", "<activity>".
func (d *DirectoryResolver) ResolveSubActivity(ref string) (engine.SubActivity, error) {
	want := normalize(ref)
	if want == "" {
		return engine.SubActivity{}, &ResolveError{Kind: "sub-activity", Ref: ref, Err: ErrNoMatch}
	}

	var matches []engine.SubActivity
	for _, sa := range d.snap.SubActivities() {
		combined := normalize(sa.Activity + " - " + sa.Name)
		if want == combined || want == normalize(sa.Name) || want == normalize(sa.Activity) {
			matches = append(matches, sa)
		}
	}

	switch len(matches) {
	case 0:
		return engine.SubActivity{}, &ResolveError{Kind: "sub-activity", Ref: ref, Err: ErrNoMatch}
	case 1:
		return matches[0], nil
	default:
		return engine.SubActivity{}, &ResolveError{Kind: "sub-activity", Ref: ref, Err: ErrAmbiguous}
	}
}

// ResolvePartner matches a sobat ID exactly, then falls back to the
// partner display name.
func (d *DirectoryResolver) ResolvePartner(ref string) (engine.Partner, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return engine.Partner{}, &ResolveError{Kind: "partner", Ref: ref, Err: ErrNoMatch}
	}

	if p, ok := d.snap.Partner(engine.PartnerID(trimmed)); ok {
		return p, nil
	}

	want := normalize(ref)
	var matches []engine.Partner
	for _, p := range d.snap.Partners() {
		if normalize(p.Name) == want {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return engine.Partner{}, &ResolveError{Kind: "partner", Ref: ref, Err: ErrNoMatch}
	case 1:
		return matches[0], nil
	default:
		return engine.Partner{}, &ResolveError{Kind: "partner", Ref: ref, Err: ErrAmbiguous}
	}
}

// ResolvePosition matches the alias table first, then the position
// codes present on rate cards.
func (d *DirectoryResolver) ResolvePosition(name string) (engine.PositionCode, error) {
	want := normalize(name)
	if want == "" {
		return "", &ResolveError{Kind: "position", Ref: name, Err: ErrNoMatch}
	}

	if code, ok := d.aliases[want]; ok {
		return code, nil
	}

	seen := make(map[engine.PositionCode]bool)
	var matches []engine.PositionCode
	for _, rc := range d.snap.RateCards() {
		if seen[rc.Position] {
			continue
		}
		seen[rc.Position] = true
		if normalize(string(rc.Position)) == want {
			matches = append(matches, rc.Position)
		}
	}

	switch len(matches) {
	case 0:
		return "", &ResolveError{Kind: "position", Ref: name, Err: ErrNoMatch}
	case 1:
		return matches[0], nil
	default:
		return "", &ResolveError{Kind: "position", Ref: name, Err: ErrAmbiguous}
	}
}
