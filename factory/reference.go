/*
Package factory provides JSON to Go reference-data conversion.

PURPOSE:
  Converts JSON reference-set definitions into engine structs. This
  enables seeding and admin tooling without code changes - planners
  can define rate cards, limit rules, and position aliases in JSON.

JSON SCHEMA:
  {
    "partners": [
      {"id": "510200001", "name": "Sari Dewi", "national_id": "3275..."}
    ],
    "sub_activities": [
      {"id": 7, "name": "Ubinan Padi", "activity": "Survei Ubinan",
       "start": "2025-03-01"}
    ],
    "rate_cards": [
      {"sub_activity_id": 7, "position": "PPL", "tariff": "100000",
       "unit": "plot", "target_volume": 5}
    ],
    "limit_rules": [
      {"year": 2025, "ceiling": "1000000"}
    ],
    "position_aliases": {
      "Petugas Pendataan Lapangan": "PPL"
    }
  }

KEY FEATURES:
  - Validates structure and dates, rejects negative tariffs/ceilings
  - Tariffs and ceilings are decimal strings, never floats

USAGE:
  set, err := factory.ParseReference(jsonBytes)
  // seed a store, or build an engine.Snapshot directly
  snap := engine.NewSnapshot(set.SnapshotInput())

SEE ALSO:
  - api/scenarios.go: Demo data defined with this schema
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sigap/mitra-engine/engine"
)

const dateFormat = "2006-01-02"

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

type ReferenceJSON struct {
	Partners        []PartnerJSON     `json:"partners,omitempty"`
	SubActivities   []SubActivityJSON `json:"sub_activities,omitempty"`
	RateCards       []RateCardJSON    `json:"rate_cards,omitempty"`
	LimitRules      []LimitRuleJSON   `json:"limit_rules,omitempty"`
	PositionAliases map[string]string `json:"position_aliases,omitempty"`
}

type PartnerJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NationalID string `json:"national_id,omitempty"`
}

type SubActivityJSON struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Activity string `json:"activity"`
	Start    string `json:"start"` // YYYY-MM-DD
}

type RateCardJSON struct {
	SubActivityID int64  `json:"sub_activity_id"`
	Position      string `json:"position"`
	Tariff        string `json:"tariff"` // decimal string
	Unit          string `json:"unit,omitempty"`
	TargetVolume  int    `json:"target_volume"`
}

type LimitRuleJSON struct {
	Year    int    `json:"year"`
	Ceiling string `json:"ceiling"` // decimal string
}

// =============================================================================
// PARSED REFERENCE SET
// =============================================================================

// ReferenceSet is the parsed, validated form.
type ReferenceSet struct {
	Partners        []engine.Partner
	SubActivities   []engine.SubActivity
	RateCards       []engine.RateCard
	LimitRules      []engine.LimitRule
	PositionAliases map[string]engine.PositionCode
}

// SnapshotInput converts the set for engine.NewSnapshot. Tasks and
// memberships come from the store, not from reference JSON.
func (rs *ReferenceSet) SnapshotInput() engine.SnapshotInput {
	return engine.SnapshotInput{
		Partners:      rs.Partners,
		SubActivities: rs.SubActivities,
		RateCards:     rs.RateCards,
		LimitRules:    rs.LimitRules,
	}
}

// =============================================================================
// PARSING
// =============================================================================

// ParseReference parses and validates a JSON reference set.
func ParseReference(data []byte) (*ReferenceSet, error) {
	var raw ReferenceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse reference json: %w", err)
	}

	set := &ReferenceSet{
		PositionAliases: make(map[string]engine.PositionCode, len(raw.PositionAliases)),
	}

	for i, p := range raw.Partners {
		if p.ID == "" {
			return nil, fmt.Errorf("partner %d: id is required", i)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("partner %q: name is required", p.ID)
		}
		set.Partners = append(set.Partners, engine.Partner{
			ID:         engine.PartnerID(p.ID),
			Name:       p.Name,
			NationalID: p.NationalID,
		})
	}

	for i, sa := range raw.SubActivities {
		if sa.ID == 0 {
			return nil, fmt.Errorf("sub_activity %d: id is required", i)
		}
		if sa.Name == "" {
			return nil, fmt.Errorf("sub_activity %d: name is required", sa.ID)
		}
		start, err := time.Parse(dateFormat, sa.Start)
		if err != nil {
			return nil, fmt.Errorf("sub_activity %d: start: %w", sa.ID, err)
		}
		set.SubActivities = append(set.SubActivities, engine.SubActivity{
			ID:       engine.SubActivityID(sa.ID),
			Name:     sa.Name,
			Activity: sa.Activity,
			Start:    start,
		})
	}

	for i, rc := range raw.RateCards {
		if rc.SubActivityID == 0 || rc.Position == "" {
			return nil, fmt.Errorf("rate_card %d: sub_activity_id and position are required", i)
		}
		tariff, err := parseAmount(rc.Tariff)
		if err != nil {
			return nil, fmt.Errorf("rate_card (%d, %s): tariff: %w", rc.SubActivityID, rc.Position, err)
		}
		if rc.TargetVolume < 0 {
			return nil, fmt.Errorf("rate_card (%d, %s): target_volume must not be negative", rc.SubActivityID, rc.Position)
		}
		set.RateCards = append(set.RateCards, engine.RateCard{
			SubActivityID: engine.SubActivityID(rc.SubActivityID),
			Position:      engine.PositionCode(rc.Position),
			Tariff:        tariff,
			Unit:          rc.Unit,
			TargetVolume:  rc.TargetVolume,
		})
	}

	for i, lr := range raw.LimitRules {
		if lr.Year < 2000 || lr.Year > 2200 {
			return nil, fmt.Errorf("limit_rule %d: implausible year %d", i, lr.Year)
		}
		ceiling, err := parseAmount(lr.Ceiling)
		if err != nil {
			return nil, fmt.Errorf("limit_rule %d: ceiling: %w", lr.Year, err)
		}
		set.LimitRules = append(set.LimitRules, engine.LimitRule{
			Year:    lr.Year,
			Ceiling: ceiling,
		})
	}

	for name, code := range raw.PositionAliases {
		if code == "" {
			return nil, fmt.Errorf("position_alias %q: empty code", name)
		}
		set.PositionAliases[name] = engine.PositionCode(code)
	}

	return set, nil
}

func parseAmount(s string) (engine.Money, error) {
	if s == "" {
		return engine.Money{}, fmt.Errorf("required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return engine.Money{}, err
	}
	if d.IsNegative() {
		return engine.Money{}, fmt.Errorf("must not be negative")
	}
	return engine.Money{Value: d}, nil
}
