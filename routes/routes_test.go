package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/psp-router/app"
	"github.com/upb/psp-router/config"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host: "127.0.0.1", Port: 8080,
			ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second, ShutdownTimeout: time.Second,
		},
		Scorer: config.ScorerConfig{URL: "http://127.0.0.1:1/predict", Timeout: 200 * time.Millisecond, DefaultScore: 0.5},
		Routing: config.RoutingConfig{
			RiskThreshold:   0.6,
			DefaultProvider: "Axis_PSP",
			PreferenceOrder: []string{"HDFC_PSP", "SBI_PSP", "Axis_PSP"},
		},
		Providers: config.ProvidersConfig{
			Timeout: time.Second,
			List: []config.ProviderConfig{
				{Name: "Axis_PSP", Simulated: &config.SimulatedConfig{BaseFail: 0.045}},
				{Name: "HDFC_PSP", Simulated: &config.SimulatedConfig{BaseFail: 0.02}},
			},
		},
		Simulator: config.SimulatorConfig{
			BaseFail:           0.03,
			AmountSensitivity:  0.0001,
			LatencySensitivity: 0.001,
			Seed:               1,
		},
		Observability: config.ObservabilityConfig{LogLevel: "info", LogFormat: "json"},
	}
}

func TestSetupRouterRoutes(t *testing.T) {
	deps, err := app.NewDependencies(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	handler := SetupRouterRoutes(deps)

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, 0.6, body["risk_threshold"])
		assert.Equal(t, []interface{}{"Axis_PSP", "HDFC_PSP"}, body["providers"])
	})

	t.Run("route with scorer down", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/route", strings.NewReader(`{"amount":500,"network_latency_ms":80,"app":"PhonePe"}`))
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, 0.5, body["predicted_fail_prob"])
		assert.Equal(t, true, body["score_fallback"])
		assert.Equal(t, "Axis_PSP", body["initial_psp"])
		assert.Equal(t, "Axis_PSP", body["routed_to"])
		assert.NotEmpty(t, w.Header().Get("Content-Type"))

		psp := body["psp_response"].(map[string]interface{})
		assert.Contains(t, []interface{}{"success", "failure"}, psp["status"])
		assert.Equal(t, body["txn_id"], psp["txn_id"])
	})

	t.Run("invalid body", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/route", strings.NewReader(`{"amount":-1}`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown path", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/predict", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/route", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestSetupSimulatorRoutes(t *testing.T) {
	deps, err := app.NewSimulatorDependencies(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	handler := SetupSimulatorRoutes(deps)

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","base_fail":0.03}`, w.Body.String())
	})

	t.Run("process", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(`{"txn_id":"txn-1","amount":100,"network_latency_ms":50}`))
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "txn-1", body["txn_id"])
		assert.Equal(t, 0.0405, body["psp_fail_prob"])
		assert.Contains(t, []interface{}{"success", "failure"}, body["status"])
	})
}
