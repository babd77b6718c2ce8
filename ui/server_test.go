package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"hrdash/app"
	"hrdash/domain/dataset"
	"hrdash/internal"
	"hrdash/internal/catalog"
	datastore "hrdash/internal/dataset"
	"hrdash/internal/errors"
	"hrdash/internal/testkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quiet() *internal.Logger { return internal.NewLogger(internal.LogLevelError) }

func newDashboard(steps ...testkit.ScriptStep) *app.DashboardService {
	if len(steps) == 0 {
		steps = []testkit.ScriptStep{{Table: testkit.Employees(200, 3)}}
	}
	store := datastore.NewStore(testkit.NewScriptedSource("test", steps...), quiet())
	return app.NewDashboardService(store, catalog.Default(), nil, 4, quiet())
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestHealthAndDashboard(t *testing.T) {
	h := NewServer(newDashboard(), quiet()).Handler()

	rec, body := do(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	rec, body = do(t, h, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Employee Attrition Dashboard", body["title"])
	assert.Contains(t, body["description_html"], "<p>")
	assert.Len(t, body["tabs"], 4)
	snap := body["snapshot"].(map[string]interface{})
	assert.EqualValues(t, 200, snap["rows"])
}

func TestFiltersEndpoint(t *testing.T) {
	rec, body := do(t, NewServer(newDashboard(), quiet()).Handler(), http.MethodGet, "/api/filters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	filters := body["filters"].([]interface{})
	require.Len(t, filters, 3)
	first := filters[0].(map[string]interface{})
	assert.Equal(t, dataset.ColDepartment, first["column"])
	assert.Equal(t, first["values"], first["selected"])
}

func TestColumnsEndpoint(t *testing.T) {
	h := NewServer(newDashboard(), quiet()).Handler()
	rec, body := do(t, h, http.MethodGet, "/api/columns?Gender=Female", "")
	require.Equal(t, http.StatusOK, rec.Code)
	columns := body["columns"].([]interface{})
	require.Len(t, columns, dataset.EmployeeSchema().Len())
	age := columns[0].(map[string]interface{})
	assert.Equal(t, dataset.ColAge, age["name"])
	assert.Contains(t, age, "numeric")
}

func TestColumnsEndpointSingleRow(t *testing.T) {
	h := NewServer(newDashboard(testkit.ScriptStep{Table: testkit.Employees(1, 3)}), quiet()).Handler()
	rec, body := do(t, h, http.MethodGet, "/api/columns", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, body, "body must be JSON")
	age := body["columns"].([]interface{})[0].(map[string]interface{})
	numeric := age["numeric"].(map[string]interface{})
	assert.EqualValues(t, 0, numeric["std_dev"])
	assert.EqualValues(t, 0, numeric["skewness"])
}

func TestTabsEndpoint(t *testing.T) {
	h := NewServer(newDashboard(), quiet()).Handler()

	rec, body := do(t, h, http.MethodGet, "/api/tabs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["tabs"], 4)

	rec, body = do(t, h, http.MethodGet, "/api/tabs/overview?OverTime=Yes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "overview", body["key"])
	assert.Less(t, body["rows"].(float64), 200.0)
	assert.Len(t, body["charts"], 5)

	rec, body = do(t, h, http.MethodGet, "/api/tabs/overview?Department=", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, body["rows"], "an empty selection keeps no rows")

	rec, body = do(t, h, http.MethodGet, "/api/tabs/payroll", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errors.CodeNotFound, body["code"])

	rec, body = do(t, h, http.MethodGet, "/api/tabs/overview?Shoe=9", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.CodeInvalidColumn, body["code"])
}

func TestViewsEndpoint(t *testing.T) {
	h := NewServer(newDashboard(), quiet()).Handler()

	rec, body := do(t, h, http.MethodPost, "/api/views",
		`{"filters": {"Department": ["Sales"]}, "view": {"metric": "Age", "group": "Attrition", "kind": "histogram", "bins": 5}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	hist := body["histogram"].(map[string]interface{})
	assert.Len(t, hist["bins"], 5)
	assert.Len(t, hist["edges"], 6)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed body", `{"view": `, errors.CodeInvalidInput},
		{"unknown metric", `{"view": {"metric": "Shoe", "kind": "count"}}`, errors.CodeUnknownColumn},
		{"categorical histogram", `{"view": {"metric": "Department", "kind": "histogram"}}`, errors.CodeTypeMismatch},
		{"unknown kind", `{"view": {"metric": "Age", "kind": "violin"}}`, errors.CodeInvalidInput},
		{"negative bins", `{"view": {"metric": "Age", "kind": "histogram", "bins": -1}}`, errors.CodeInvalidInput},
		{"unknown filter column", `{"filters": {"Shoe": ["9"]}, "view": {"metric": "Age", "kind": "count"}}`, errors.CodeInvalidColumn},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := do(t, h, http.MethodPost, "/api/views", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

func TestReloadEndpoint(t *testing.T) {
	h := NewServer(newDashboard(
		testkit.ScriptStep{Table: testkit.Employees(20, 1)},
		testkit.ScriptStep{Err: errors.Ingestion("file vanished")},
	), quiet()).Handler()

	rec, _ := do(t, h, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := do(t, h, http.MethodPost, "/api/reload", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, errors.CodeIngestion, body["code"])

	rec, body = do(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code, "previous snapshot still serves")
	assert.EqualValues(t, 20, body["snapshot"].(map[string]interface{})["rows"])
}

func TestHealthBeforeLoad(t *testing.T) {
	h := NewServer(newDashboard(testkit.ScriptStep{Err: errors.Ingestion("no file")}), quiet()).Handler()
	rec, body := do(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", body["status"])
}

func TestFiltersFromQuery(t *testing.T) {
	q, err := url.ParseQuery("Department=Sales&Department=Human+Resources&Gender=&OverTime=Yes&OverTime=")
	require.NoError(t, err)
	spec := filtersFromQuery(q)

	assert.ElementsMatch(t, []string{"Sales", "Human Resources"}, spec["Department"])
	assert.NotNil(t, spec["Gender"])
	assert.Empty(t, spec["Gender"])
	assert.Equal(t, []string{"Yes"}, spec["OverTime"])
	assert.Equal(t, []string{"Department", "Gender", "OverTime"}, spec.Columns())

	assert.Nil(t, filtersFromQuery(url.Values{}))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(errors.InvalidColumn("x")))
	assert.Equal(t, http.StatusBadRequest, StatusFor(errors.UnknownColumn("x")))
	assert.Equal(t, http.StatusBadRequest, StatusFor(errors.TypeMismatch("x", "histogram")))
	assert.Equal(t, http.StatusBadRequest, StatusFor(errors.InvalidInput("x")))
	assert.Equal(t, http.StatusNotFound, StatusFor(errors.NotFound("tab")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.Ingestion("x")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(assert.AnError))
}
