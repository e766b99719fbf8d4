package api

import (
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/refdata"
	"github.com/shopspring/decimal"
)

// ProjectRequest is the body of POST /api/project and POST /api/plan
type ProjectRequest struct {
	Career      domain.CareerRecord         `json:"career"`
	AsOf        string                      `json:"asOf,omitempty"` // "2025", "2025-Q3" or "2025-07-01"
	Assumptions *domain.EconomicAssumptions `json:"assumptions,omitempty"`
	Policy      *domain.AdvisorPolicy       `json:"advisorPolicy,omitempty"`
	With        []string                    `json:"with,omitempty"` // Template names or variant specs
}

// ScenarioRequest is the body of the scenario grid endpoints
type ScenarioRequest struct {
	CurrentPension decimal.Decimal  `json:"currentPension"`
	FinalSalary    decimal.Decimal  `json:"finalSalary"`
	CurrentSalary  *decimal.Decimal `json:"currentSalary,omitempty"` // Raise scenarios only
	HorizonYears   int              `json:"horizonYears,omitempty"`  // Raise scenarios only
	Target         *decimal.Decimal `json:"target,omitempty"`
}

// GapRequest is the body of POST /api/gap
type GapRequest struct {
	Current decimal.Decimal `json:"current"`
	Target  decimal.Decimal `json:"target"`
}

// SuggestionsRequest is the body of POST /api/suggestions
type SuggestionsRequest struct {
	Current              decimal.Decimal `json:"current"`
	Target               decimal.Decimal `json:"target"`
	Salary               decimal.Decimal `json:"salary"`
	YearsUntilRetirement int             `json:"yearsUntilRetirement"`
}

// ScenarioListResponse wraps a scenario grid
type ScenarioListResponse struct {
	Scenarios []domain.ScenarioOutcome `json:"scenarios"`
	Count     int                      `json:"count"`
}

// LifespanRowDTO is one age row of the life table
type LifespanRowDTO struct {
	Age    int               `json:"age"`
	Months []decimal.Decimal `json:"months"`
}

// LifespanResponse is the body of GET /api/reference/lifespan
type LifespanResponse struct {
	Rows    []LifespanRowDTO     `json:"rows"`
	Skipped []refdata.SkippedRow `json:"skipped,omitempty"`
}

// IndexationResponse is the body of GET /api/reference/indexation
type IndexationResponse struct {
	Records []refdata.IndexationRecord `json:"records"`
	Skipped []refdata.SkippedRow       `json:"skipped,omitempty"`
}

// TemplateDTO describes one built-in scenario template
type TemplateDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is returned for every non-2xx status
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
