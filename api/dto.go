/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Reference data:
    PartnerDTO, SubActivityDTO, RateCardDTO, LimitRuleDTO, TaskDTO

  Validation:
    ValidateRequest, ValidationResultDTO

  Import:
    ImportRequest, PreviewDTO, PreviewRowDTO, CommitResultDTO

  Reports:
    IncomeDTO, QuotaDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers and the engine, not in DTOs. DTOs are
  pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/validator.go: ValidationResult source type
*/
package api

import (
	"time"

	"github.com/sigap/mitra-engine/engine"
	"github.com/sigap/mitra-engine/importer"
)

const dateFormat = "2006-01-02"

// =============================================================================
// REFERENCE DATA TYPES
// =============================================================================

// PartnerDTO represents a field partner in API responses.
type PartnerDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NationalID string `json:"national_id,omitempty"`
}

// SubActivityDTO represents a sub-activity in API responses.
type SubActivityDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Activity string `json:"activity"`
	Start    string `json:"start"` // YYYY-MM-DD
}

// RateCardDTO represents a tariff definition in API responses.
type RateCardDTO struct {
	SubActivityID int64  `json:"sub_activity_id"`
	Position      string `json:"position"`
	Tariff        string `json:"tariff"`
	Unit          string `json:"unit,omitempty"`
	TargetVolume  int    `json:"target_volume"`
}

// LimitRuleDTO represents a yearly ceiling in API responses.
type LimitRuleDTO struct {
	Year    int    `json:"year"`
	Ceiling string `json:"ceiling"`
}

// TaskDTO represents an assignment task in API responses.
type TaskDTO struct {
	ID            string `json:"id"`
	SubActivityID int64  `json:"sub_activity_id"`
	Name          string `json:"name"`
	Start         string `json:"start"`
	MemberCount   int    `json:"member_count"`
}

// MembershipDTO represents a task member row.
type MembershipDTO struct {
	PartnerID string `json:"partner_id"`
	TaskID    string `json:"task_id"`
	Position  string `json:"position"`
	Volume    int    `json:"volume"`
}

// =============================================================================
// VALIDATION TYPES
// =============================================================================

// ValidateRequest asks for a dry-run evaluation of one candidate
// assignment. Month 0 means the whole year.
type ValidateRequest struct {
	PartnerID     string `json:"partner_id"`
	SubActivityID int64  `json:"sub_activity_id"`
	Position      string `json:"position"`
	Volume        int    `json:"volume"`
	Year          int    `json:"year"`
	Month         int    `json:"month,omitempty"`
	ExcludeTask   string `json:"exclude_task,omitempty"`
}

// ValidationResultDTO carries the full numeric context of one
// evaluation, never a bare pass/fail.
type ValidationResultDTO struct {
	Tariff          string `json:"tariff"`
	Unit            string `json:"unit,omitempty"`
	RateFound       bool   `json:"rate_found"`
	ExistingIncome  string `json:"existing_income"`
	NewIncome       string `json:"new_income"`
	ProjectedIncome string `json:"projected_income"`
	Ceiling         string `json:"ceiling,omitempty"`
	Unbounded       bool   `json:"unbounded,omitempty"`
	OverLimit       bool   `json:"over_limit"`
	ExistingVolume  int    `json:"existing_volume"`
	NewVolume       int    `json:"new_volume"`
	ProjectedVolume int    `json:"projected_volume"`
	TargetVolume    int    `json:"target_volume"`
	OverQuota       bool   `json:"over_quota"`
}

// =============================================================================
// IMPORT TYPES
// =============================================================================

// ImportRequest carries a batch of spreadsheet rows plus the caller's
// blocking policy and window granularity.
type ImportRequest struct {
	Rows        []importer.ImportRow `json:"rows"`
	BlockPolicy string               `json:"block_policy,omitempty"`
	Monthly     bool                 `json:"monthly,omitempty"`
}

// PreviewRowDTO is one resolved, evaluated row of a batch preview.
type PreviewRowDTO struct {
	Line          int                 `json:"line"`
	PartnerID     string              `json:"partner_id"`
	PartnerName   string              `json:"partner_name"`
	SubActivityID int64               `json:"sub_activity_id"`
	TaskID        string              `json:"task_id,omitempty"`
	Position      string              `json:"position"`
	Volume        int                 `json:"volume"`
	Window        string              `json:"window"`
	Stats         ValidationResultDTO `json:"stats"`
}

// PreviewDTO is the batch preview: evaluated rows in input order plus
// per-row warnings for rows that could not be evaluated.
type PreviewDTO struct {
	Rows     []PreviewRowDTO `json:"rows"`
	Warnings []string        `json:"warnings"`
	Flagged  int             `json:"flagged"`
}

// CommitResultDTO reports a committed batch.
type CommitResultDTO struct {
	Committed int        `json:"committed"`
	Preview   PreviewDTO `json:"preview"`
}

// AddMemberRequest assigns one partner to an existing task.
type AddMemberRequest struct {
	PartnerID   string `json:"partner_id"`
	Position    string `json:"position"`
	Volume      int    `json:"volume"`
	Monthly     bool   `json:"monthly,omitempty"`
	BlockPolicy string `json:"block_policy,omitempty"`
}

// AddMemberResponse carries the commit-time evaluation alongside the
// write outcome.
type AddMemberResponse struct {
	Added bool                `json:"added"`
	Stats ValidationResultDTO `json:"stats"`
}

// =============================================================================
// REPORT TYPES
// =============================================================================

// IncomeDTO reports a partner's accumulated honorarium for a window.
type IncomeDTO struct {
	PartnerID string `json:"partner_id"`
	Window    string `json:"window"`
	Income    string `json:"income"`
	Ceiling   string `json:"ceiling,omitempty"`
	Unbounded bool   `json:"unbounded,omitempty"`
	OverLimit bool   `json:"over_limit"`
}

// QuotaDTO reports allocated volume against target for one position
// within one sub-activity.
type QuotaDTO struct {
	SubActivityID int64  `json:"sub_activity_id"`
	Position      string `json:"position"`
	Used          int    `json:"used"`
	Target        int    `json:"target"`
	OverQuota     bool   `json:"over_quota"`
}

// =============================================================================
// SCENARIO TYPES
// =============================================================================

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario by ID.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toPartnerDTO(p engine.Partner) PartnerDTO {
	return PartnerDTO{ID: string(p.ID), Name: p.Name, NationalID: p.NationalID}
}

func toSubActivityDTO(sa engine.SubActivity) SubActivityDTO {
	return SubActivityDTO{
		ID:       int64(sa.ID),
		Name:     sa.Name,
		Activity: sa.Activity,
		Start:    sa.Start.Format(dateFormat),
	}
}

func toRateCardDTO(rc engine.RateCard) RateCardDTO {
	return RateCardDTO{
		SubActivityID: int64(rc.SubActivityID),
		Position:      string(rc.Position),
		Tariff:        rc.Tariff.String(),
		Unit:          rc.Unit,
		TargetVolume:  rc.TargetVolume,
	}
}

func toLimitRuleDTO(lr engine.LimitRule) LimitRuleDTO {
	return LimitRuleDTO{Year: lr.Year, Ceiling: lr.Ceiling.String()}
}

func toTaskDTO(t engine.AssignmentTask, memberCount int) TaskDTO {
	return TaskDTO{
		ID:            string(t.ID),
		SubActivityID: int64(t.SubActivityID),
		Name:          t.Name,
		Start:         t.Start.Format(dateFormat),
		MemberCount:   memberCount,
	}
}

func toValidationResultDTO(r engine.ValidationResult) ValidationResultDTO {
	dto := ValidationResultDTO{
		Tariff:          r.Tariff.String(),
		Unit:            r.Unit,
		RateFound:       r.RateFound,
		ExistingIncome:  r.ExistingIncome.String(),
		NewIncome:       r.NewIncome.String(),
		ProjectedIncome: r.ProjectedIncome.String(),
		Unbounded:       r.Ceiling.Unbounded,
		OverLimit:       r.OverLimit,
		ExistingVolume:  r.ExistingVolume,
		NewVolume:       r.NewVolume,
		ProjectedVolume: r.ProjectedVolume,
		TargetVolume:    r.TargetVolume,
		OverQuota:       r.OverQuota,
	}
	if !r.Ceiling.Unbounded {
		dto.Ceiling = r.Ceiling.Amount.String()
	}
	return dto
}

func toPreviewRowDTO(row importer.PreviewRow) PreviewRowDTO {
	return PreviewRowDTO{
		Line:          row.Row.Line,
		PartnerID:     string(row.PartnerID),
		PartnerName:   row.PartnerName,
		SubActivityID: int64(row.SubActivityID),
		TaskID:        string(row.TaskID),
		Position:      string(row.Position),
		Volume:        row.Row.Volume,
		Window:        row.Window.String(),
		Stats:         toValidationResultDTO(row.Stats),
	}
}

func toPreviewDTO(p importer.Preview) PreviewDTO {
	rows := make([]PreviewRowDTO, len(p.Valid))
	for i, row := range p.Valid {
		rows[i] = toPreviewRowDTO(row)
	}
	warnings := p.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return PreviewDTO{
		Rows:     rows,
		Warnings: warnings,
		Flagged:  len(p.FlaggedRows()),
	}
}

func windowFromRequest(year, month int) engine.Window {
	if month >= 1 && month <= 12 {
		return engine.MonthlyWindow(year, time.Month(month))
	}
	return engine.AnnualWindow(year)
}
