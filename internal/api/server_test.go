package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_harvester/internal/domain"
	"stock_harvester/internal/scheduler"
)

type fakeController struct {
	result  scheduler.TriggerResult
	err     error
	outcome *scheduler.Outcome
	running bool
	reasons []string
}

func (f *fakeController) Trigger(reason string) (scheduler.TriggerResult, error) {
	f.reasons = append(f.reasons, reason)
	return f.result, f.err
}

func (f *fakeController) LastOutcome() (scheduler.Outcome, bool) {
	if f.outcome == nil {
		return scheduler.Outcome{}, false
	}
	return *f.outcome, true
}

func (f *fakeController) Running() bool { return f.running }

type fakeHealth struct{ err error }

func (f fakeHealth) Ping(context.Context) error { return f.err }

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(ctrl Controller, health HealthChecker) *Server {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewServer(":0", ctrl, health, logger)
}

func do(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(&fakeController{running: true}, fakeHealth{})

	rec := do(t, s, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","cycle_running":true}`, rec.Body.String())
}

func TestHealth_StoreDown(t *testing.T) {
	s := newTestServer(&fakeController{}, fakeHealth{err: domain.ErrStoreUnavailable})

	rec := do(t, s, http.MethodGet, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTriggerCycle(t *testing.T) {
	tests := []struct {
		name       string
		result     scheduler.TriggerResult
		err        error
		wantStatus int
	}{
		{"started", scheduler.TriggerStarted, nil, http.StatusAccepted},
		{"queued", scheduler.TriggerQueued, nil, http.StatusAccepted},
		{"skipped", "", domain.ErrCycleInProgress, http.StatusConflict},
		{"not running", "", scheduler.ErrNotRunning, http.StatusServiceUnavailable},
		{"other", "", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &fakeController{result: tt.result, err: tt.err}
			s := newTestServer(ctrl, nil)

			rec := do(t, s, http.MethodPost, "/api/v1/cycles")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, []string{"api"}, ctrl.reasons)
			if tt.err == nil {
				assert.JSONEq(t, `{"status":"`+string(tt.result)+`"}`, rec.Body.String())
			}
		})
	}
}

func TestLastCycle_NotFound(t *testing.T) {
	s := newTestServer(&fakeController{}, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/cycles/last")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLastCycle(t *testing.T) {
	report := domain.NewCycleReport("run-1", false, []domain.Market{domain.MarketA})
	report.TasksDone = 4
	ctrl := &fakeController{outcome: &scheduler.Outcome{
		Reason:  "schedule",
		Report:  report,
		Err:     errors.New("cycle run-1 interrupted: context canceled"),
		EndedAt: time.Date(2026, 10, 18, 1, 0, 0, 0, time.UTC),
	}}
	s := newTestServer(ctrl, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/cycles/last")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp lastCycleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "schedule", resp.Reason)
	assert.Contains(t, resp.Error, "interrupted")
	require.NotNil(t, resp.Report)
	assert.Equal(t, "run-1", resp.Report.RunID)
	assert.Equal(t, 4, resp.Report.TasksDone)
}
