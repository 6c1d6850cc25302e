package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	domrepo "TSLab/internal/domain/repository"
	"TSLab/internal/forecast"
	"TSLab/internal/usecase"
	"TSLab/pkg/logger"
)

type noopMetrics struct{}

func (noopMetrics) RecordFit(string, string)          {}
func (noopMetrics) RecordFitDuration(string, float64) {}
func (noopMetrics) RecordAnalysis(string)             {}
func (noopMetrics) RecordError(string)                {}
func (noopMetrics) RecordCacheLookup(string, bool)    {}

var _ domrepo.Metrics = noopMetrics{}

func testRouter(t *testing.T) *echo.Echo {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	mgr := forecast.NewManager(l, forecast.Capabilities{})
	forecaster := usecase.NewForecaster(mgr, nil, noopMetrics{}, l, 2, 0)

	e := echo.New()
	NewModelsHandler(l, forecaster).RegisterRoutes(e)
	return e
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *envelope {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("%s %s: HTTP %d, body %s", method, path, rec.Code, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v, body %s", err, rec.Body.String())
	}
	return &env
}

func trendBody(n int) string {
	var sb strings.Builder
	sb.WriteString(`[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"v": %g}`, 100+2.0*float64(i))
	}
	sb.WriteString(`]`)
	return sb.String()
}

func TestModelsAvailable(t *testing.T) {
	e := testRouter(t)
	env := doJSON(t, e, http.MethodGet, "/api/models", "")
	if env.Status != http.StatusOK {
		t.Fatalf("status = %d", env.Status)
	}

	var descriptors []map[string]any
	if err := json.Unmarshal(env.Data, &descriptors); err != nil {
		t.Fatalf("data: %v", err)
	}
	if len(descriptors) != 4 {
		t.Errorf("models listed = %d, want 4 without optional capabilities", len(descriptors))
	}
}

func TestModelsFit(t *testing.T) {
	e := testRouter(t)
	body := fmt.Sprintf(`{
		"data": {"records": %s, "value_column": "v"},
		"model_configuration": {"model_type": "moving_average", "forecast_periods": 5}
	}`, trendBody(40))

	env := doJSON(t, e, http.MethodPost, "/api/models/fit", body)
	if env.Status != http.StatusOK {
		t.Fatalf("status = %d, data %s", env.Status, env.Data)
	}

	var result struct {
		ModelType string    `json:"model_type"`
		Forecast  []float64 `json:"forecast"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("data: %v", err)
	}
	if result.ModelType != "moving_average" || len(result.Forecast) != 5 {
		t.Errorf("result = %+v", result)
	}
}

func TestModelsFitUnknownModel(t *testing.T) {
	e := testRouter(t)
	body := fmt.Sprintf(`{
		"data": {"records": %s, "value_column": "v"},
		"model_configuration": {"model_type": "gradient_boosting"}
	}`, trendBody(40))

	env := doJSON(t, e, http.MethodPost, "/api/models/fit", body)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", env.Status)
	}
	var appErrs []struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(env.Data, &appErrs); err != nil {
		t.Fatalf("data: %v", err)
	}
	if len(appErrs) != 1 || appErrs[0].Code != "ERR_UNKNOWN_MODEL" {
		t.Errorf("app errors = %+v", appErrs)
	}
}

func TestModelsFitValidation(t *testing.T) {
	e := testRouter(t)
	// forecast_periods above the allowed maximum trips validation.
	body := fmt.Sprintf(`{
		"data": {"records": %s, "value_column": "v"},
		"model_configuration": {"model_type": "arima", "forecast_periods": 1000}
	}`, trendBody(40))

	env := doJSON(t, e, http.MethodPost, "/api/models/fit", body)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", env.Status)
	}
}

func TestModelsValidateEndpoint(t *testing.T) {
	e := testRouter(t)
	env := doJSON(t, e, http.MethodPost, "/api/models/validate",
		`{"model_configuration": {"model_type": "arima"}}`)
	if env.Status != http.StatusOK {
		t.Fatalf("status = %d", env.Status)
	}

	var result struct {
		Valid   bool   `json:"valid"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("data: %v", err)
	}
	if !result.Valid || result.Message != "configuration is valid" {
		t.Errorf("result = %+v", result)
	}
}

func TestModelsAutoSelect(t *testing.T) {
	e := testRouter(t)
	body := fmt.Sprintf(`{"data": {"records": %s, "value_column": "v"}}`, trendBody(30))

	env := doJSON(t, e, http.MethodPost, "/api/models/auto-select", body)
	if env.Status != http.StatusOK {
		t.Fatalf("status = %d", env.Status)
	}

	var sel struct {
		ModelType string `json:"model_type"`
	}
	if err := json.Unmarshal(env.Data, &sel); err != nil {
		t.Fatalf("data: %v", err)
	}
	if sel.ModelType != "holt-winters" {
		t.Errorf("model = %q, want holt-winters for 30 points", sel.ModelType)
	}
}
