package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-sync/internal/mocks"
	"github.com/jsamuelsen/quote-sync/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func probe(t *testing.T, h *HealthHandler, path string) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	h.RegisterHealthRoutesOnEngine(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	return w
}

func TestHealthHandler_Liveness(t *testing.T) {
	// Liveness must not touch the registry; the mock fails on any call.
	h := NewHealthHandler(mocks.NewMockHealthRegistry(t), BuildInfo{}, nil)

	w := probe(t, h, "/-/live")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		result     *ports.HealthResult
		wantCode   int
		wantStatus string
	}{
		{
			name: "healthy",
			result: &ports.HealthResult{
				Status: ports.HealthStatusHealthy,
				Checks: map[string]*ports.CheckResult{"slot-store": {Status: ports.HealthStatusHealthy}},
			},
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
		},
		{
			name: "degraded remote stays ready",
			result: &ports.HealthResult{
				Status: ports.HealthStatusDegraded,
				Checks: map[string]*ports.CheckResult{
					"slot-store":    {Status: ports.HealthStatusHealthy},
					"remote-quotes": {Status: ports.HealthStatusDegraded, Message: "circuit breaker is open"},
				},
			},
			wantCode:   http.StatusOK,
			wantStatus: "degraded",
		},
		{
			name: "unhealthy storage",
			result: &ports.HealthResult{
				Status: ports.HealthStatusUnhealthy,
				Checks: map[string]*ports.CheckResult{
					"slot-store": {Status: ports.HealthStatusUnhealthy, Message: "database is locked"},
				},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := mocks.NewMockHealthRegistry(t)
			registry.EXPECT().CheckAll(mock.Anything).Return(tt.result).Once()

			w := probe(t, NewHealthHandler(registry, BuildInfo{}, nil), "/-/ready")

			require.Equal(t, tt.wantCode, w.Code)

			var resp probeResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Len(t, resp.Checks, len(tt.result.Checks))

			for name, check := range tt.result.Checks {
				assert.Equal(t, check.Message, resp.Checks[name].Message)
			}
		})
	}
}

func TestHealthHandler_ReadinessWithoutRegistry(t *testing.T) {
	w := probe(t, NewHealthHandler(nil, BuildInfo{}, nil), "/-/ready")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestHealthHandler_BuildInfo(t *testing.T) {
	info := NewBuildInfo("1.2.3", "def456", "2026-02-01T12:00:00Z")
	assert.Equal(t, runtime.Version(), info.GoVersion)

	w := probe(t, NewHealthHandler(nil, info, nil), "/-/build")

	require.Equal(t, http.StatusOK, w.Code)

	var got BuildInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, info, got)
}

func TestHealthHandler_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	telemetry.NewSyncMetrics(reg).ObserveRun(telemetry.OutcomeSuccess, 0.2, 1)

	w := probe(t, NewHealthHandler(nil, BuildInfo{}, reg), "/-/metrics")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "quotes_sync_runs_total")
}
