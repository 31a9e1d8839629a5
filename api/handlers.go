/*
handlers.go - HTTP API handlers for the partner assignment engine

PURPOSE:
  Exposes the income aggregation and quota validation engine via REST
  API. Handles HTTP request/response, JSON serialization, and delegates
  to domain logic.

ENDPOINTS:
  Validation:
    POST   /api/validate                 Dry-run one candidate assignment

  Import:
    POST   /api/import/preview           Preview a spreadsheet batch
    POST   /api/import/commit            Commit a batch under a policy

  Partners:
    GET    /api/partners                 List partners
    POST   /api/partners                 Create partner
    GET    /api/partners/{id}            Get partner
    GET    /api/partners/{id}/income     Income for a window

  Reference data:
    GET/POST /api/subactivities          Sub-activities
    GET      /api/subactivities/{id}/quota Quota usage per position
    GET/POST /api/ratecards              Rate cards
    GET/POST /api/limits                 Yearly ceilings

  Tasks:
    GET    /api/tasks                    List tasks
    POST   /api/tasks                    Create task
    GET    /api/tasks/{id}/members       List members
    POST   /api/tasks/{id}/members       Assign a partner (re-validated)

  Scenarios:
    GET    /api/scenarios                List demo scenarios
    POST   /api/scenarios/load           Load a demo scenario
    POST   /api/scenarios/reset          Wipe the database

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access (sqlite or memory)
  - PositionAliases: Display-name to position-code mapping for import

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (validator, importer, aggregator)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (batch blocked by policy)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sigap/mitra-engine/engine"
	"github.com/sigap/mitra-engine/importer"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is what the handlers need from persistence: the importer's
// snapshot/transaction contract plus reference-data writers.
// store/sqlite and store/memory both implement it.
type Store interface {
	importer.Store

	SavePartner(ctx context.Context, p engine.Partner) error
	SaveSubActivity(ctx context.Context, sa engine.SubActivity) error
	SaveRateCard(ctx context.Context, rc engine.RateCard) error
	SaveLimitRule(ctx context.Context, lr engine.LimitRule) error
	SaveTask(ctx context.Context, t engine.AssignmentTask) error
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store Store

	// PositionAliases maps spreadsheet display names to codes during
	// import resolution. Loaded from scenarios or left empty.
	PositionAliases map[string]engine.PositionCode

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store Store) *Handler {
	return &Handler{
		Store:           store,
		PositionAliases: make(map[string]engine.PositionCode),
	}
}

// =============================================================================
// VALIDATION HANDLER
// =============================================================================

// Validate dry-runs one candidate assignment.
// POST /api/validate
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	v := engine.NewValidator(snap)
	result, err := v.Validate(engine.Candidate{
		PartnerID:     engine.PartnerID(req.PartnerID),
		SubActivityID: engine.SubActivityID(req.SubActivityID),
		Position:      engine.PositionCode(req.Position),
		Volume:        req.Volume,
		Window:        windowFromRequest(req.Year, req.Month),
		ExcludeTask:   engine.TaskID(req.ExcludeTask),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid candidate", err)
		return
	}

	writeJSON(w, http.StatusOK, toValidationResultDTO(result))
}

// =============================================================================
// IMPORT HANDLERS
// =============================================================================

// PreviewImport evaluates a batch of spreadsheet rows without writing.
// POST /api/import/preview
func (h *Handler) PreviewImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "No rows to preview", nil)
		return
	}

	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	pv := importer.NewPreviewValidator(snap, h.PositionAliases, req.Monthly)
	preview := pv.Preview(snap, req.Rows)

	writeJSON(w, http.StatusOK, toPreviewDTO(preview))
}

// CommitImport re-validates and persists a batch under the caller's
// blocking policy. All-or-nothing.
// POST /api/import/commit
func (h *Handler) CommitImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "No rows to commit", nil)
		return
	}

	policy := importer.BlockPolicy(req.BlockPolicy)
	if req.BlockPolicy == "" {
		policy = importer.BlockNever
	}

	committer := &importer.Committer{
		Store:           h.Store,
		PositionAliases: h.PositionAliases,
		Monthly:         req.Monthly,
	}

	result, err := committer.CommitBatch(r.Context(), req.Rows, policy)
	if err != nil {
		var blocked *importer.BlockedError
		if errors.As(err, &blocked) {
			rows := make([]PreviewRowDTO, len(blocked.Rows))
			for i, row := range blocked.Rows {
				rows[i] = toPreviewRowDTO(row)
			}
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":        "Batch blocked by policy",
				"policy":       string(blocked.Policy),
				"blocked_rows": rows,
			})
			return
		}
		if engine.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, "Invalid commit request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to commit batch", err)
		return
	}

	writeJSON(w, http.StatusOK, CommitResultDTO{
		Committed: result.Committed,
		Preview:   toPreviewDTO(result.Preview),
	})
}

// =============================================================================
// PARTNER HANDLERS
// =============================================================================

// ListPartners returns all partners.
// GET /api/partners
func (h *Handler) ListPartners(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	partners := snap.Partners()
	sort.Slice(partners, func(i, j int) bool { return partners[i].ID < partners[j].ID })

	dtos := make([]PartnerDTO, len(partners))
	for i, p := range partners {
		dtos[i] = toPartnerDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPartner returns a single partner.
// GET /api/partners/{id}
func (h *Handler) GetPartner(w http.ResponseWriter, r *http.Request) {
	id := engine.PartnerID(chi.URLParam(r, "id"))

	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	p, ok := snap.Partner(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Partner not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPartnerDTO(p))
}

// CreatePartner registers a partner.
// POST /api/partners
func (h *Handler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	var req PartnerDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	p := engine.Partner{
		ID:         engine.PartnerID(req.ID),
		Name:       req.Name,
		NationalID: req.NationalID,
	}
	if err := h.Store.SavePartner(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create partner", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPartnerDTO(p))
}

// GetPartnerIncome reports accumulated honorarium for a window,
// alongside the ceiling so the client can render a limit bar.
// GET /api/partners/{id}/income?year=2025&month=3
func (h *Handler) GetPartnerIncome(w http.ResponseWriter, r *http.Request) {
	id := engine.PartnerID(chi.URLParam(r, "id"))

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year == 0 {
		writeError(w, http.StatusBadRequest, "year query parameter is required", err)
		return
	}
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))

	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}
	if _, ok := snap.Partner(id); !ok {
		writeError(w, http.StatusNotFound, "Partner not found", nil)
		return
	}

	window := windowFromRequest(year, month)
	income := engine.NewIncomeAggregator(snap).Aggregate(id, window)
	ceiling := engine.NewLimitResolver(snap).Resolve(window.Year)

	dto := IncomeDTO{
		PartnerID: string(id),
		Window:    window.String(),
		Income:    income.String(),
		Unbounded: ceiling.Unbounded,
		OverLimit: ceiling.ExceededBy(income),
	}
	if !ceiling.Unbounded {
		dto.Ceiling = ceiling.Amount.String()
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// REFERENCE DATA HANDLERS
// =============================================================================

// ListSubActivities returns all sub-activities.
// GET /api/subactivities
func (h *Handler) ListSubActivities(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	sas := snap.SubActivities()
	sort.Slice(sas, func(i, j int) bool { return sas[i].ID < sas[j].ID })

	dtos := make([]SubActivityDTO, len(sas))
	for i, sa := range sas {
		dtos[i] = toSubActivityDTO(sa)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateSubActivity registers a sub-activity.
// POST /api/subactivities
func (h *Handler) CreateSubActivity(w http.ResponseWriter, r *http.Request) {
	var req SubActivityDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == 0 || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	start, err := time.Parse(dateFormat, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start format (use YYYY-MM-DD)", err)
		return
	}

	sa := engine.SubActivity{
		ID:       engine.SubActivityID(req.ID),
		Name:     req.Name,
		Activity: req.Activity,
		Start:    start,
	}
	if err := h.Store.SaveSubActivity(r.Context(), sa); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create sub-activity", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSubActivityDTO(sa))
}

// GetSubActivityQuota reports allocated volume against target for each
// position with a rate card under the sub-activity. An optional
// position query parameter narrows the report to one position.
// GET /api/subactivities/{id}/quota?position=PPL
func (h *Handler) GetSubActivityQuota(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sub-activity id", err)
		return
	}
	subActivityID := engine.SubActivityID(id)
	positionFilter := engine.PositionCode(r.URL.Query().Get("position"))

	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}
	if _, ok := snap.SubActivity(subActivityID); !ok {
		writeError(w, http.StatusNotFound, "Sub-activity not found", nil)
		return
	}

	tracker := engine.NewQuotaTracker(snap)
	var dtos []QuotaDTO
	for _, rc := range snap.RateCards() {
		if rc.SubActivityID != subActivityID {
			continue
		}
		if positionFilter != "" && rc.Position != positionFilter {
			continue
		}
		usage := tracker.Usage(subActivityID, rc.Position, "")
		dtos = append(dtos, QuotaDTO{
			SubActivityID: int64(subActivityID),
			Position:      string(rc.Position),
			Used:          usage.Used,
			Target:        usage.Target,
			OverQuota:     usage.Target > 0 && usage.Used > usage.Target,
		})
	}
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].Position < dtos[j].Position })
	writeJSON(w, http.StatusOK, dtos)
}

// ListRateCards returns all rate cards.
// GET /api/ratecards
func (h *Handler) ListRateCards(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	rcs := snap.RateCards()
	sort.Slice(rcs, func(i, j int) bool {
		if rcs[i].SubActivityID != rcs[j].SubActivityID {
			return rcs[i].SubActivityID < rcs[j].SubActivityID
		}
		return rcs[i].Position < rcs[j].Position
	})

	dtos := make([]RateCardDTO, len(rcs))
	for i, rc := range rcs {
		dtos[i] = toRateCardDTO(rc)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateRateCard registers a tariff for a (sub-activity, position) pair.
// POST /api/ratecards
func (h *Handler) CreateRateCard(w http.ResponseWriter, r *http.Request) {
	var req RateCardDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.SubActivityID == 0 || req.Position == "" {
		writeError(w, http.StatusBadRequest, "sub_activity_id and position are required", nil)
		return
	}
	tariff := engine.MustParseMoney(req.Tariff)
	if tariff.IsNegative() || (tariff.IsZero() && req.Tariff != "0") {
		writeError(w, http.StatusBadRequest, "Invalid tariff (use a non-negative decimal string)", nil)
		return
	}
	if req.TargetVolume < 0 {
		writeError(w, http.StatusBadRequest, "target_volume must not be negative", nil)
		return
	}

	rc := engine.RateCard{
		SubActivityID: engine.SubActivityID(req.SubActivityID),
		Position:      engine.PositionCode(req.Position),
		Tariff:        tariff,
		Unit:          req.Unit,
		TargetVolume:  req.TargetVolume,
	}
	if err := h.Store.SaveRateCard(r.Context(), rc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create rate card", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRateCardDTO(rc))
}

// ListLimitRules returns all yearly ceilings.
// GET /api/limits
func (h *Handler) ListLimitRules(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	lrs := snap.LimitRules()
	sort.Slice(lrs, func(i, j int) bool { return lrs[i].Year < lrs[j].Year })

	dtos := make([]LimitRuleDTO, len(lrs))
	for i, lr := range lrs {
		dtos[i] = toLimitRuleDTO(lr)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateLimitRule sets the ceiling for a year.
// POST /api/limits
func (h *Handler) CreateLimitRule(w http.ResponseWriter, r *http.Request) {
	var req LimitRuleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year == 0 {
		writeError(w, http.StatusBadRequest, "year is required", nil)
		return
	}
	ceiling := engine.MustParseMoney(req.Ceiling)
	if ceiling.IsNegative() || (ceiling.IsZero() && req.Ceiling != "0") {
		writeError(w, http.StatusBadRequest, "Invalid ceiling (use a non-negative decimal string)", nil)
		return
	}

	lr := engine.LimitRule{Year: req.Year, Ceiling: ceiling}
	if err := h.Store.SaveLimitRule(r.Context(), lr); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create limit rule", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLimitRuleDTO(lr))
}

// =============================================================================
// TASK HANDLERS
// =============================================================================

// ListTasks returns all tasks with member counts.
// GET /api/tasks
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	counts := make(map[engine.TaskID]int)
	for _, m := range snap.Memberships() {
		counts[m.TaskID]++
	}

	tasks := snap.Tasks()
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = toTaskDTO(t, counts[t.ID])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTask registers a task under a sub-activity. A missing ID is
// generated; a missing start date inherits the sub-activity's.
// POST /api/tasks
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req TaskDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.SubActivityID == 0 {
		writeError(w, http.StatusBadRequest, "sub_activity_id is required", nil)
		return
	}

	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}
	sa, ok := snap.SubActivity(engine.SubActivityID(req.SubActivityID))
	if !ok {
		writeError(w, http.StatusNotFound, "Sub-activity not found", nil)
		return
	}

	start := sa.Start
	if req.Start != "" {
		start, err = time.Parse(dateFormat, req.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start format (use YYYY-MM-DD)", err)
			return
		}
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	task := engine.AssignmentTask{
		ID:            engine.TaskID(id),
		SubActivityID: sa.ID,
		Name:          req.Name,
		Start:         start,
	}
	if err := h.Store.SaveTask(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create task", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskDTO(task, 0))
}

// ListTaskMembers returns a task's membership rows.
// GET /api/tasks/{id}/members
func (h *Handler) ListTaskMembers(w http.ResponseWriter, r *http.Request) {
	id := engine.TaskID(chi.URLParam(r, "id"))

	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}
	if _, ok := snap.Task(id); !ok {
		writeError(w, http.StatusNotFound, "Task not found", nil)
		return
	}

	dtos := []MembershipDTO{}
	for _, m := range snap.Memberships() {
		if m.TaskID != id {
			continue
		}
		dtos = append(dtos, MembershipDTO{
			PartnerID: string(m.PartnerID),
			TaskID:    string(m.TaskID),
			Position:  string(m.Position),
			Volume:    m.Volume,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddTaskMember assigns one partner to a task. The candidate is
// re-validated against a fresh snapshot inside a transaction, so two
// near-simultaneous assignments cannot jointly blow a ceiling the
// caller's policy cares about.
// POST /api/tasks/{id}/members
func (h *Handler) AddTaskMember(w http.ResponseWriter, r *http.Request) {
	taskID := engine.TaskID(chi.URLParam(r, "id"))

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	policy := importer.BlockPolicy(req.BlockPolicy)
	if req.BlockPolicy == "" {
		policy = importer.BlockNever
	}
	if !policy.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown block_policy", nil)
		return
	}

	var stats engine.ValidationResult
	err := h.Store.WithTx(r.Context(), func(tx importer.Store) error {
		snap, err := tx.LoadSnapshot(r.Context())
		if err != nil {
			return err
		}

		task, ok := snap.Task(taskID)
		if !ok {
			return engine.ErrTaskNotFound
		}
		if _, ok := snap.Partner(engine.PartnerID(req.PartnerID)); !ok {
			return engine.ErrPartnerNotFound
		}

		v := engine.NewValidator(snap)
		stats, err = v.Validate(engine.Candidate{
			PartnerID:     engine.PartnerID(req.PartnerID),
			SubActivityID: task.SubActivityID,
			Position:      engine.PositionCode(req.Position),
			Volume:        req.Volume,
			Window:        engine.WindowFor(task.Start, req.Monthly),
		})
		if err != nil {
			return err
		}
		if policy.Blocks(stats) {
			return &importer.BlockedError{Policy: policy}
		}

		return tx.AppendMemberships(r.Context(), []engine.AssignmentMembership{{
			PartnerID: engine.PartnerID(req.PartnerID),
			TaskID:    taskID,
			Position:  engine.PositionCode(req.Position),
			Volume:    req.Volume,
		}})
	})
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrBatchBlocked):
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":  "Assignment blocked by policy",
				"policy": string(policy),
				"stats":  toValidationResultDTO(stats),
			})
		case engine.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Task or partner not found", err)
		case engine.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "Invalid assignment", err)
		default:
			writeError(w, http.StatusInternalServerError, "Failed to add member", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, AddMemberResponse{
		Added: true,
		Stats: toValidationResultDTO(stats),
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
