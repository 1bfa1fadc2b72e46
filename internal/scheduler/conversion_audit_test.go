package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/conversion-audit/internal/config"
	"github.com/vfg2006/conversion-audit/internal/usecases/auditing"
	"github.com/vfg2006/conversion-audit/internal/usecases/auditing/mocks"
	"go.uber.org/mock/gomock"
)

func newTestConfig(enabled bool) *config.Config {
	return &config.Config{
		AuditSchedule: config.AuditSchedule{
			CronSchedule: "0 7 * * *",
			Enabled:      enabled,
		},
	}
}

func TestConversionAuditService_RunAudit(t *testing.T) {
	tests := []struct {
		name          string
		runErr        error
		expectSuccess bool
		expectError   string
	}{
		{
			name:          "Execução com sucesso",
			expectSuccess: true,
		},
		{
			name:          "Execução com erro fatal",
			runErr:        errors.New("error fetching conversion actions"),
			expectSuccess: false,
			expectError:   "error fetching conversion actions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			auditor := mocks.NewMockAuditor(ctrl)
			auditor.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
				// O identificador da execução chega no contexto
				assert.Len(t, auditing.RunIDFromContext(ctx), 10)
				return tt.runErr
			})

			service := NewConversionAuditService(auditor, newTestConfig(false))

			assert.True(t, service.RunAudit())

			status := service.GetStatus()
			assert.Equal(t, tt.expectSuccess, status["last_audit_succeeded"])
			assert.Equal(t, tt.expectError, status["last_error"])
			assert.Equal(t, false, status["audit_running"])
			assert.NotEmpty(t, status["last_run_id"])
			assert.False(t, status["last_audit_completed_at"].(time.Time).IsZero())
		})
	}
}

func TestConversionAuditService_SkipsOverlappingRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	started := make(chan struct{})
	release := make(chan struct{})

	auditor := mocks.NewMockAuditor(ctrl)
	auditor.EXPECT().Run(gomock.Any()).DoAndReturn(func(context.Context) error {
		close(started)
		<-release
		return nil
	}).Times(1)

	service := NewConversionAuditService(auditor, newTestConfig(false))

	done := make(chan bool)
	go func() { done <- service.RunAudit() }()
	<-started

	assert.True(t, service.IsRunning())
	assert.False(t, service.RunAudit())
	assert.False(t, service.TriggerManualSync())

	close(release)
	require.True(t, <-done)
	assert.False(t, service.IsRunning())
}

func TestConversionAuditService_StartDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	auditor := mocks.NewMockAuditor(ctrl)
	service := NewConversionAuditService(auditor, newTestConfig(false))

	require.NoError(t, service.Start(context.Background()))

	status := service.GetStatus()
	assert.Equal(t, false, status["audit_enabled"])
	assert.Equal(t, "0 7 * * *", status["audit_cron"])
}

func TestConversionAuditService_StartInvalidCron(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := newTestConfig(true)
	cfg.AuditSchedule.CronSchedule = "invalid cron"

	service := NewConversionAuditService(mocks.NewMockAuditor(ctrl), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Error(t, service.Start(ctx))
}
