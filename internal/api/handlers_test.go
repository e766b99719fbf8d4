package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/refdata"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, provider *refdata.Provider) *httptest.Server {
	t.Helper()
	if provider == nil {
		provider = refdata.NewProvider(func() (*refdata.ReferenceData, error) {
			return refdata.LoadDefault(), nil
		})
	}
	h := NewHandler(provider, nil)
	h.Now = func() time.Time { return time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC) }
	srv := httptest.NewServer(NewRouter(h, RouterOptions{}))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func careerBody() map[string]any {
	return map[string]any{
		"career": map[string]any{
			"age":                   30,
			"sex":                   "male",
			"grossSalary":           8000,
			"workStartYear":         2015,
			"workEndYear":           2055,
			"includeSickLeave":      true,
			"desiredMonthlyPension": 6000,
		},
		"asOf": "2025-Q3",
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "loaded", body["referenceData"])
}

func TestProject(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := post(t, srv, "/api/project", careerBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var report domain.BenefitReport
	decode(t, resp, &report)
	assert.Equal(t, 2060, report.RetirementYear)
	assert.Equal(t, 35, report.YearsUntilRetirement)
	assert.True(t, report.NominalMonthlyPension.IsPositive())
	assert.True(t, report.RealMonthlyPension.LessThan(report.NominalMonthlyPension))
	require.NotNil(t, report.SickLeaveImpact)
	require.NotNil(t, report.YearsNeededForGoal)
}

func TestProject_Validation(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name   string
		mutate func(body map[string]any)
	}{
		{"age out of range", func(b map[string]any) { b["career"].(map[string]any)["age"] = 12 }},
		{"unknown sex", func(b map[string]any) { b["career"].(map[string]any)["sex"] = "other" }},
		{"salary below floor", func(b map[string]any) { b["career"].(map[string]any)["grossSalary"] = 100 }},
		{"bad as-of", func(b map[string]any) { b["asOf"] = "someday" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := careerBody()
			tt.mutate(body)
			resp := post(t, srv, "/api/project", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var errResp ErrorResponse
			decode(t, resp, &errResp)
			assert.NotEmpty(t, errResp.Error)
			assert.NotEmpty(t, errResp.Details)
		})
	}
}

func TestProject_MalformedJSON(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Post(srv.URL+"/api/project", "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlan(t *testing.T) {
	srv := newTestServer(t, nil)
	body := careerBody()
	body["with"] = []string{"raise_3pct", "work_longer:years=3"}

	resp := post(t, srv, "/api/plan", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report domain.PlanReport
	decode(t, resp, &report)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, domain.YearQuarter{Year: 2025, Quarter: domain.QuarterIII}, report.AsOf)
	assert.Len(t, report.Custom, 2)
	require.NotNil(t, report.Advice)

	body["with"] = []string{"no_such_template"}
	resp = post(t, srv, "/api/plan", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScenarioGrids(t *testing.T) {
	srv := newTestServer(t, nil)
	req := map[string]any{"currentPension": 4000, "finalSalary": 8000, "target": 4500}

	resp := post(t, srv, "/api/scenarios/work-longer", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var work ScenarioListResponse
	decode(t, resp, &work)
	assert.Equal(t, 10, work.Count)
	for i := 1; i < len(work.Scenarios); i++ {
		assert.True(t, work.Scenarios[i].ResultingPension.GreaterThan(work.Scenarios[i-1].ResultingPension))
	}

	resp = post(t, srv, "/api/scenarios/extra-income", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var extra ScenarioListResponse
	decode(t, resp, &extra)
	assert.Equal(t, 36, extra.Count)
	for i := 1; i < len(extra.Scenarios); i++ {
		assert.True(t, extra.Scenarios[i-1].PercentageIncrease.GreaterThanOrEqual(extra.Scenarios[i].PercentageIncrease))
	}

	raiseReq := map[string]any{"currentPension": 4000, "currentSalary": 8000, "horizonYears": 30}
	resp = post(t, srv, "/api/scenarios/raises", raiseReq)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var raises ScenarioListResponse
	decode(t, resp, &raises)
	assert.Equal(t, 4, raises.Count)

	resp = post(t, srv, "/api/scenarios/work-longer", map[string]any{"currentPension": 0, "finalSalary": 8000})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListTemplates(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := get(t, srv, "/api/scenarios/templates")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var templates []TemplateDTO
	decode(t, resp, &templates)
	names := make([]string, 0, len(templates))
	for _, tpl := range templates {
		names = append(names, tpl.Name)
		assert.NotEmpty(t, tpl.Description)
	}
	assert.Contains(t, names, "work_2yr_plus_side_income")
}

func TestGap(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := post(t, srv, "/api/gap", map[string]any{"current": 3000, "target": 5000})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var gap domain.GapAnalysis
	decode(t, resp, &gap)
	assert.True(t, gap.Gap.Equal(decimal.NewFromInt(2000)))
	assert.True(t, gap.GapPercentage.Equal(decimal.NewFromInt(40)))
	assert.True(t, gap.HasGap)
}

func TestSuggestions(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := post(t, srv, "/api/suggestions", map[string]any{
		"current": 3000, "target": 3080, "salary": 8000, "yearsUntilRetirement": 20,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.AdvisorResult
	decode(t, resp, &result)
	assert.True(t, result.NeedsSuggestions)
	assert.Len(t, result.Suggestions, 4)
	assert.Equal(t, domain.StrategyFastest, result.Suggestions[0].Strategy)

	resp = post(t, srv, "/api/suggestions", map[string]any{"current": 3000, "target": 0, "salary": 8000})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHorizonBounds(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name string
		path string
		body map[string]any
		want int
	}{
		{"raise horizon at limit", "/api/scenarios/raises",
			map[string]any{"currentPension": 4000, "currentSalary": 8000, "horizonYears": maxHorizonYears}, http.StatusOK},
		{"raise horizon over limit", "/api/scenarios/raises",
			map[string]any{"currentPension": 4000, "currentSalary": 8000, "horizonYears": 200000}, http.StatusBadRequest},
		{"years until retirement over limit", "/api/suggestions",
			map[string]any{"current": 3000, "target": 3080, "salary": 8000, "yearsUntilRetirement": 200000}, http.StatusBadRequest},
		{"negative years until retirement", "/api/suggestions",
			map[string]any{"current": 3000, "target": 3080, "salary": 8000, "yearsUntilRetirement": -1}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			resp := post(t, srv, tt.path, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Less(t, time.Since(start), 5*time.Second)
		})
	}
}

func TestReferenceEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := get(t, srv, "/api/reference/lifespan")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var lifespan LifespanResponse
	decode(t, resp, &lifespan)
	require.NotEmpty(t, lifespan.Rows)
	assert.Equal(t, 50, lifespan.Rows[0].Age)
	require.Len(t, lifespan.Rows[0].Months, refdata.MonthsPerAge)
	assert.True(t, lifespan.Rows[0].Months[0].Equal(decimal.NewFromFloat(370.8)))

	resp = get(t, srv, "/api/reference/indexation")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var indexation IndexationResponse
	decode(t, resp, &indexation)
	require.NotEmpty(t, indexation.Records)
	assert.Equal(t, 2015, indexation.Records[0].Year)
	assert.Equal(t, domain.QuarterI, indexation.Records[0].Quarter)
}

func TestReferenceUnavailable(t *testing.T) {
	loads := 0
	provider := refdata.NewProvider(func() (*refdata.ReferenceData, error) {
		loads++
		return nil, errors.New("tables missing")
	})
	srv := newTestServer(t, provider)

	resp := get(t, srv, "/api/reference/lifespan")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp = get(t, srv, "/api/reference/indexation")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	// projection does not need the tables
	resp = post(t, srv, "/api/project", careerBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report domain.BenefitReport
	decode(t, resp, &report)
	assert.True(t, report.NominalMonthlyPension.IsPositive())
	assert.Nil(t, report.Valorization)
	assert.Nil(t, report.TableLifeExpectancyMonths)

	resp = post(t, srv, "/api/plan", careerBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var planReport domain.PlanReport
	decode(t, resp, &planReport)
	require.NotNil(t, planReport.Benefit)
	assert.Nil(t, planReport.Benefit.Valorization)

	resp = get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "unavailable", body["referenceData"])
	assert.Equal(t, 1, loads, "provider memoizes the failed load")
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil)
	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/project", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
