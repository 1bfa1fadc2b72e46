package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/conversion-audit/internal/config"
	"github.com/vfg2006/conversion-audit/internal/domain"
	"github.com/vfg2006/conversion-audit/internal/usecases/auditing"
	"github.com/vfg2006/conversion-audit/internal/usecases/auditing/mocks"
	"github.com/vfg2006/conversion-audit/internal/usecases/authenticating"
	"github.com/vfg2006/conversion-audit/pkg/metrics"
	"go.uber.org/mock/gomock"
)

type fakeScheduler struct {
	running   bool
	triggered int
}

func (f *fakeScheduler) TriggerManualSync() bool {
	if f.running {
		return false
	}
	f.triggered++
	return true
}

func (f *fakeScheduler) GetStatus() map[string]any {
	return map[string]any{"audit_running": f.running, "audit_cron": "0 7 * * *"}
}

type testEnv struct {
	handler   http.Handler
	auditor   *mocks.MockAuditor
	scheduler *fakeScheduler
	admin     string
	viewer    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	cfg := &config.Config{
		Auth:   config.Auth{Secret: "segredo"},
		Server: config.Server{Host: "localhost", Port: "0"},
	}

	authenticator := authenticating.NewService(cfg)
	admin, err := authenticator.GenerateToken("ops", "admin", time.Hour)
	require.NoError(t, err)
	viewer, err := authenticator.GenerateToken("dashboard", "viewer", time.Hour)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics.NewMetrics(metrics.Namespace, reg).ObserveRun("success", time.Second)

	env := &testEnv{
		auditor:   mocks.NewMockAuditor(ctrl),
		scheduler: &fakeScheduler{},
		admin:     admin,
		viewer:    viewer,
	}

	srv, err := New(cfg, env.auditor, env.scheduler, authenticator, reg)
	require.NoError(t, err)
	env.handler = srv.Handler()

	return env
}

func (e *testEnv) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_PublicRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "conversion_audit_runs_total")
}

func TestServer_AuditRoutes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		token      func(e *testEnv) string
		setup      func(e *testEnv)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Status sem token",
			method:     http.MethodGet,
			path:       "/v1/audit/status",
			token:      func(*testEnv) string { return "" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Status com token inválido",
			method:     http.MethodGet,
			path:       "/v1/audit/status",
			token:      func(*testEnv) string { return "invalido" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Status com perfil viewer",
			method:     http.MethodGet,
			path:       "/v1/audit/status",
			token:      func(e *testEnv) string { return e.viewer },
			wantStatus: http.StatusOK,
			wantBody:   `"audit_cron":"0 7 * * *"`,
		},
		{
			name:       "Execução manual exige admin",
			method:     http.MethodPost,
			path:       "/v1/audit/run",
			token:      func(e *testEnv) string { return e.viewer },
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "Execução manual aceita",
			method:     http.MethodPost,
			path:       "/v1/audit/run",
			token:      func(e *testEnv) string { return e.admin },
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "Execução manual com auditoria em andamento",
			method:     http.MethodPost,
			path:       "/v1/audit/run",
			token:      func(e *testEnv) string { return e.admin },
			setup:      func(e *testEnv) { e.scheduler.running = true },
			wantStatus: http.StatusConflict,
			wantBody:   "AUD_001",
		},
		{
			name:   "Prévia da auditoria",
			method: http.MethodGet,
			path:   "/v1/audit/preview",
			token:  func(e *testEnv) string { return e.admin },
			setup: func(e *testEnv) {
				e.auditor.EXPECT().Audit(gomock.Any()).Return(&domain.AuditReport{
					RunID:      "abc",
					Result:     domain.NewAuditResult(),
					ActionPlan: &domain.ActionPlan{},
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"dateRanges"`,
		},
		{
			name:   "Prévia com falha na coleta",
			method: http.MethodGet,
			path:   "/v1/audit/preview",
			token:  func(e *testEnv) string { return e.admin },
			setup: func(e *testEnv) {
				e.auditor.EXPECT().Audit(gomock.Any()).Return(nil,
					auditing.NewAuditError(auditing.ErrFetchConversionActions, auditing.StageCollect, errors.New("quota")))
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   `"stage":"collect"`,
		},
		{
			name:       "Rota inexistente",
			method:     http.MethodGet,
			path:       "/v1/unknown",
			token:      func(e *testEnv) string { return e.admin },
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.setup != nil {
				tt.setup(env)
			}

			rec := env.do(tt.method, tt.path, tt.token(env))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestServer_RunAuditTriggersScheduler(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/v1/audit/run", env.admin)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var body map[string]string
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Conversion audit started", body["message"])
	assert.Equal(t, 1, env.scheduler.triggered)
}
