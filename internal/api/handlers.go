package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/pengo/internal/advisor"
	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/config"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/plan"
	"github.com/rgehrsitz/pengo/internal/refdata"
	"github.com/rgehrsitz/pengo/internal/scenario"
)

const (
	// maxBodyBytes caps request bodies; every request is a single career record
	maxBodyBytes = 1 << 20

	// maxHorizonYears bounds the per-year and per-month projection loops
	maxHorizonYears = 100
)

// Handler holds the dependencies shared by all endpoints
type Handler struct {
	Reference *refdata.Provider
	Parser    *config.InputParser
	Templates *scenario.TemplateRegistry
	Logger    calculation.Logger
	Now       func() time.Time
}

// NewHandler creates a handler backed by the given reference data provider
func NewHandler(reference *refdata.Provider, logger calculation.Logger) *Handler {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Handler{
		Reference: reference,
		Parser:    config.NewInputParser(),
		Templates: scenario.BuiltInTemplates(),
		Logger:    logger,
		Now:       time.Now,
	}
}

// Health reports liveness and whether reference data is loaded.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "referenceData": "loaded"}
	if _, err := h.Reference.Get(); err != nil {
		status["referenceData"] = "unavailable"
	}
	writeJSON(w, http.StatusOK, status)
}

// Project runs the benefit projection for one career record.
// POST /api/project
func (h *Handler) Project(w http.ResponseWriter, r *http.Request) {
	cfg, asOf, ok := h.decodeProject(w, r)
	if !ok {
		return
	}
	ref := h.optionalReference()

	engine := calculation.NewEngineWithAssumptions(cfg.EffectiveAssumptions())
	engine.SetLogger(h.Logger)
	report, err := engine.Project(&cfg.Career, ref, asOf)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Projection failed", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Plan runs projection, scenario grids and the advisor in one call.
// POST /api/plan
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	cfg, asOf, ok := h.decodeProject(w, r)
	if !ok {
		return
	}
	ref := h.optionalReference()

	with, err := h.resolveVariants(cfg.with)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scenario", err)
		return
	}

	report, err := plan.Build(&cfg.Configuration, ref, plan.Options{AsOf: asOf, Now: h.Now, With: with}, h.Logger)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Plan failed", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// WorkLongerScenarios evaluates the work-longer grid.
// POST /api/scenarios/work-longer
func (h *Handler) WorkLongerScenarios(w http.ResponseWriter, r *http.Request) {
	var req ScenarioRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.CurrentPension.IsPositive() || !req.FinalSalary.IsPositive() {
		writeError(w, http.StatusBadRequest, "currentPension and finalSalary must be positive", nil)
		return
	}
	outcomes := scenario.GenerateWorkLongerScenarios(calculation.NewEngine(), req.CurrentPension, req.FinalSalary, req.Target)
	writeJSON(w, http.StatusOK, ScenarioListResponse{Scenarios: outcomes, Count: len(outcomes)})
}

// ExtraIncomeScenarios evaluates the income x duration grid.
// POST /api/scenarios/extra-income
func (h *Handler) ExtraIncomeScenarios(w http.ResponseWriter, r *http.Request) {
	var req ScenarioRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.CurrentPension.IsPositive() {
		writeError(w, http.StatusBadRequest, "currentPension must be positive", nil)
		return
	}
	outcomes := scenario.GenerateExtraIncomeScenarios(calculation.NewEngine(), req.CurrentPension, req.FinalSalary, req.Target)
	writeJSON(w, http.StatusOK, ScenarioListResponse{Scenarios: outcomes, Count: len(outcomes)})
}

// RaiseScenarios evaluates the raise-rate grid.
// POST /api/scenarios/raises
func (h *Handler) RaiseScenarios(w http.ResponseWriter, r *http.Request) {
	var req ScenarioRequest
	if !decodeBody(w, r, &req) {
		return
	}
	salary := req.FinalSalary
	if req.CurrentSalary != nil {
		salary = *req.CurrentSalary
	}
	if !req.CurrentPension.IsPositive() || !salary.IsPositive() || req.HorizonYears <= 0 {
		writeError(w, http.StatusBadRequest, "currentPension, salary and horizonYears must be positive", nil)
		return
	}
	if req.HorizonYears > maxHorizonYears {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("horizonYears cannot exceed %d", maxHorizonYears), nil)
		return
	}
	outcomes := scenario.GenerateRaiseScenarios(calculation.NewEngine(), req.CurrentPension, salary, req.HorizonYears, req.Target)
	writeJSON(w, http.StatusOK, ScenarioListResponse{Scenarios: outcomes, Count: len(outcomes)})
}

// ListTemplates lists the built-in scenario templates.
// GET /api/scenarios/templates
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	names := h.Templates.List()
	dtos := make([]TemplateDTO, 0, len(names))
	for _, name := range names {
		t, _ := h.Templates.Get(name)
		dtos = append(dtos, TemplateDTO{Name: t.Name, Description: t.Description})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Gap computes the distance between a pension and a target.
// POST /api/gap
func (h *Handler) Gap(w http.ResponseWriter, r *http.Request) {
	var req GapRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, advisor.ComputeGap(req.Current, req.Target))
}

// Suggestions runs the goal advisor.
// POST /api/suggestions
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	var req SuggestionsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.YearsUntilRetirement < 0 || req.YearsUntilRetirement > maxHorizonYears {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("yearsUntilRetirement must be between 0 and %d", maxHorizonYears), nil)
		return
	}
	result, err := advisor.SuggestPaths(req.Current, req.Target, req.Salary, req.YearsUntilRetirement)
	if err != nil {
		var advErr *advisor.AdvisorError
		if errors.As(err, &advErr) {
			writeError(w, http.StatusBadRequest, "Invalid advisor input", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Advisor failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Lifespan returns the loaded life table.
// GET /api/reference/lifespan
func (h *Handler) Lifespan(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.reference(w)
	if !ok {
		return
	}
	rows := make([]LifespanRowDTO, 0, ref.Lifespan.Len())
	for _, age := range ref.Lifespan.Ages() {
		months, _ := ref.Lifespan.Row(age)
		rows = append(rows, LifespanRowDTO{Age: age, Months: months})
	}
	writeJSON(w, http.StatusOK, LifespanResponse{Rows: rows, Skipped: ref.LifespanStats.Skipped})
}

// Indexation returns the loaded indexation series.
// GET /api/reference/indexation
func (h *Handler) Indexation(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.reference(w)
	if !ok {
		return
	}
	records := ref.Indexation.Records()
	if records == nil {
		records = []refdata.IndexationRecord{}
	}
	writeJSON(w, http.StatusOK, IndexationResponse{Records: records, Skipped: ref.IndexationStats.Skipped})
}

// =============================================================================
// HELPERS
// =============================================================================

type projectInput struct {
	domain.Configuration
	with []string
}

func (h *Handler) decodeProject(w http.ResponseWriter, r *http.Request) (*projectInput, time.Time, bool) {
	var req ProjectRequest
	if !decodeBody(w, r, &req) {
		return nil, time.Time{}, false
	}

	cfg := &projectInput{
		Configuration: domain.Configuration{
			Career:        req.Career,
			Assumptions:   req.Assumptions,
			AdvisorPolicy: req.Policy,
		},
		with: req.With,
	}
	if err := h.Parser.ValidateConfiguration(&cfg.Configuration); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid career record", err)
		return nil, time.Time{}, false
	}

	asOf, err := config.ResolveAsOf(req.AsOf, nil, h.Now)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid asOf", err)
		return nil, time.Time{}, false
	}
	return cfg, asOf, true
}

func (h *Handler) resolveVariants(specs []string) ([]scenario.Variant, error) {
	variants := make([]scenario.Variant, 0, len(specs))
	for _, spec := range specs {
		v, err := scenario.Resolve(spec)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, nil
}

func (h *Handler) reference(w http.ResponseWriter) (*refdata.ReferenceData, bool) {
	ref, err := h.Reference.Get()
	if err != nil {
		h.Logger.Errorf("reference data unavailable: %v", err)
		writeError(w, http.StatusServiceUnavailable, "Reference data unavailable", err)
		return nil, false
	}
	return ref, true
}

// optionalReference returns nil when the tables cannot be loaded; projection
// does not depend on them
func (h *Handler) optionalReference() *refdata.ReferenceData {
	ref, err := h.Reference.Get()
	if err != nil {
		h.Logger.Warnf("reference data unavailable, projecting without it: %v", err)
		return nil
	}
	return ref
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return false
	}
	return true
}

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
