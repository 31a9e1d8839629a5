package factory

import (
	"strings"
	"testing"

	"github.com/sigap/mitra-engine/engine"
)

const sampleJSON = `{
  "partners": [
    {"id": "510200001", "name": "Sari Dewi", "national_id": "3275010101900001"},
    {"id": "510200002", "name": "Budi Santoso"}
  ],
  "sub_activities": [
    {"id": 7, "name": "Ubinan Padi", "activity": "Survei Ubinan", "start": "2025-03-01"}
  ],
  "rate_cards": [
    {"sub_activity_id": 7, "position": "PPL", "tariff": "100000", "unit": "plot", "target_volume": 5}
  ],
  "limit_rules": [
    {"year": 2025, "ceiling": "1000000"}
  ],
  "position_aliases": {
    "Petugas Pendataan Lapangan": "PPL"
  }
}`

func TestParseReference_Complete(t *testing.T) {
	// GIVEN a full reference set
	// WHEN parsed
	set, err := ParseReference([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// THEN every section maps onto engine structs
	if len(set.Partners) != 2 {
		t.Fatalf("expected 2 partners, got %d", len(set.Partners))
	}
	if set.Partners[0].ID != engine.PartnerID("510200001") {
		t.Errorf("unexpected partner id %q", set.Partners[0].ID)
	}
	if len(set.SubActivities) != 1 || set.SubActivities[0].Start.Year() != 2025 {
		t.Errorf("sub-activity start not parsed: %+v", set.SubActivities)
	}
	if len(set.RateCards) != 1 {
		t.Fatalf("expected 1 rate card, got %d", len(set.RateCards))
	}
	if set.RateCards[0].Tariff.String() != "100000" {
		t.Errorf("tariff = %s, want 100000", set.RateCards[0].Tariff)
	}
	if len(set.LimitRules) != 1 || set.LimitRules[0].Ceiling.String() != "1000000" {
		t.Errorf("limit rule not parsed: %+v", set.LimitRules)
	}
	if set.PositionAliases["Petugas Pendataan Lapangan"] != engine.PositionCode("PPL") {
		t.Errorf("alias not parsed: %v", set.PositionAliases)
	}
}

func TestParseReference_SnapshotInput(t *testing.T) {
	set, err := ParseReference([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// The parsed set plugs straight into a snapshot.
	snap := engine.NewSnapshot(set.SnapshotInput())
	if _, ok := snap.Partner("510200002"); !ok {
		t.Error("partner missing from snapshot")
	}
	rr := engine.NewRateResolver(snap)
	if _, ok := rr.Resolve(7, "PPL"); !ok {
		t.Error("rate card missing from snapshot")
	}
}

func TestParseReference_Rejections(t *testing.T) {
	cases := []struct {
		name string
		json string
		want string
	}{
		{
			name: "malformed json",
			json: `{`,
			want: "parse reference json",
		},
		{
			name: "partner without id",
			json: `{"partners": [{"name": "Sari"}]}`,
			want: "id is required",
		},
		{
			name: "partner without name",
			json: `{"partners": [{"id": "510200001"}]}`,
			want: "name is required",
		},
		{
			name: "sub-activity with bad date",
			json: `{"sub_activities": [{"id": 7, "name": "Ubinan", "start": "Maret 2025"}]}`,
			want: "start",
		},
		{
			name: "rate card with negative tariff",
			json: `{"rate_cards": [{"sub_activity_id": 7, "position": "PPL", "tariff": "-5"}]}`,
			want: "must not be negative",
		},
		{
			name: "rate card with negative target",
			json: `{"rate_cards": [{"sub_activity_id": 7, "position": "PPL", "tariff": "5", "target_volume": -1}]}`,
			want: "target_volume",
		},
		{
			name: "rate card without position",
			json: `{"rate_cards": [{"sub_activity_id": 7, "tariff": "5"}]}`,
			want: "position are required",
		},
		{
			name: "limit rule with implausible year",
			json: `{"limit_rules": [{"year": 25, "ceiling": "1000000"}]}`,
			want: "implausible year",
		},
		{
			name: "limit rule without ceiling",
			json: `{"limit_rules": [{"year": 2025}]}`,
			want: "required",
		},
		{
			name: "empty alias code",
			json: `{"position_aliases": {"Petugas": ""}}`,
			want: "empty code",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseReference([]byte(tc.json))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
