/*
scenarios.go - Demo scenario loaders

PURPOSE:
  Ships a handful of self-contained data sets that exercise the engine
  end to end: reference data as factory JSON, plus tasks and existing
  memberships seeded directly. Loading a scenario wipes the database
  first, so each scenario is a clean, reproducible starting point for
  demos and manual testing.

SCENARIOS:
  paddy-harvest:    One survey with a partner already at 60% of quota.
                    Validating 3 more plots goes over quota but stays
                    under the yearly ceiling.
  ceiling-pressure: A partner one assignment away from the yearly
                    income ceiling across two surveys.
  empty:            Wiped database, no data.

SEE ALSO:
  - factory/reference.go: The JSON schema the reference blocks use
  - handlers.go: Scenario endpoints registered in server.go
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sigap/mitra-engine/engine"
	"github.com/sigap/mitra-engine/factory"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ID          string
	Name        string
	Description string

	// Reference is a factory JSON document. Empty means no reference
	// data (the "empty" scenario).
	Reference string

	Tasks       []engine.AssignmentTask
	Memberships []engine.AssignmentMembership
}

var scenarios = []scenario{
	{
		ID:          "paddy-harvest",
		Name:        "Paddy Harvest Survey",
		Description: "One partner at 60% of plot quota. Adding 3 more plots exceeds the quota while staying under the yearly ceiling.",
		Reference: `{
			"partners": [
				{"id": "510200001", "name": "Sari Dewi", "national_id": "3275010101900001"},
				{"id": "510200002", "name": "Budi Santoso", "national_id": "3275010202910002"}
			],
			"sub_activities": [
				{"id": 7, "name": "Ubinan Padi", "activity": "Survei Ubinan", "start": "2025-03-01"}
			],
			"rate_cards": [
				{"sub_activity_id": 7, "position": "PPL", "tariff": "100000", "unit": "plot", "target_volume": 5},
				{"sub_activity_id": 7, "position": "PML", "tariff": "150000", "unit": "plot", "target_volume": 2}
			],
			"limit_rules": [
				{"year": 2025, "ceiling": "1000000"}
			],
			"position_aliases": {
				"Petugas Pendataan Lapangan": "PPL",
				"Petugas Pemeriksa Lapangan": "PML"
			}
		}`,
		Tasks: []engine.AssignmentTask{
			{ID: "task-ubinan-7", SubActivityID: 7, Name: "Ubinan Padi Maret", Start: date(2025, 3, 1)},
		},
		Memberships: []engine.AssignmentMembership{
			{PartnerID: "510200001", TaskID: "task-ubinan-7", Position: "PPL", Volume: 3},
		},
	},
	{
		ID:          "ceiling-pressure",
		Name:        "Ceiling Pressure",
		Description: "A partner with 900,000 of 1,000,000 yearly honorarium booked across two surveys. One more standard assignment tips over the ceiling.",
		Reference: `{
			"partners": [
				{"id": "510200010", "name": "Agus Wibowo", "national_id": "3275010303880003"}
			],
			"sub_activities": [
				{"id": 11, "name": "Sakernas Februari", "activity": "Sakernas", "start": "2025-02-01"},
				{"id": 12, "name": "Susenas Maret", "activity": "Susenas", "start": "2025-03-01"}
			],
			"rate_cards": [
				{"sub_activity_id": 11, "position": "PPL", "tariff": "30000", "unit": "responden", "target_volume": 20},
				{"sub_activity_id": 12, "position": "PPL", "tariff": "30000", "unit": "responden", "target_volume": 20}
			],
			"limit_rules": [
				{"year": 2025, "ceiling": "1000000"}
			],
			"position_aliases": {
				"Petugas Pendataan Lapangan": "PPL"
			}
		}`,
		Tasks: []engine.AssignmentTask{
			{ID: "task-sakernas-11", SubActivityID: 11, Name: "Sakernas Ruta", Start: date(2025, 2, 1)},
			{ID: "task-susenas-12", SubActivityID: 12, Name: "Susenas Ruta", Start: date(2025, 3, 1)},
		},
		Memberships: []engine.AssignmentMembership{
			{PartnerID: "510200010", TaskID: "task-sakernas-11", Position: "PPL", Volume: 15},
			{PartnerID: "510200010", TaskID: "task-susenas-12", Position: "PPL", Volume: 15},
		},
	},
	{
		ID:          "empty",
		Name:        "Empty Database",
		Description: "No data. Build reference data through the API.",
	},
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = ScenarioDTO{ID: s.ID, Name: s.Name, Description: s.Description}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the last loaded scenario ID.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": h.currentScenario})
}

// LoadScenario wipes the database and seeds the selected scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var selected *scenario
	for i := range scenarios {
		if scenarios[i].ID == req.ScenarioID {
			selected = &scenarios[i]
			break
		}
	}
	if selected == nil {
		writeError(w, http.StatusNotFound, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	if selected.Reference != "" {
		set, err := factory.ParseReference([]byte(selected.Reference))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Scenario reference data is invalid", err)
			return
		}
		for _, p := range set.Partners {
			if err := h.Store.SavePartner(ctx, p); err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to seed partners", err)
				return
			}
		}
		for _, sa := range set.SubActivities {
			if err := h.Store.SaveSubActivity(ctx, sa); err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to seed sub-activities", err)
				return
			}
		}
		for _, rc := range set.RateCards {
			if err := h.Store.SaveRateCard(ctx, rc); err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to seed rate cards", err)
				return
			}
		}
		for _, lr := range set.LimitRules {
			if err := h.Store.SaveLimitRule(ctx, lr); err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to seed limit rules", err)
				return
			}
		}
		h.PositionAliases = set.PositionAliases
	} else {
		h.PositionAliases = make(map[string]engine.PositionCode)
	}

	for _, t := range selected.Tasks {
		if err := h.Store.SaveTask(ctx, t); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to seed tasks", err)
			return
		}
	}
	if len(selected.Memberships) > 0 {
		if err := h.Store.AppendMemberships(ctx, selected.Memberships); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to seed memberships", err)
			return
		}
	}

	h.currentScenario = selected.ID
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "loaded",
		"scenario_id": selected.ID,
	})
}

// ResetDatabase wipes everything.
// POST /api/scenarios/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	h.PositionAliases = make(map[string]engine.PositionCode)
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
