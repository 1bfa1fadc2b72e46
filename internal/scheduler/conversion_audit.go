package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/conversion-audit/internal/config"
	"github.com/vfg2006/conversion-audit/internal/usecases/auditing"
	"github.com/vfg2006/conversion-audit/pkg/utils"
)

// ConversionAuditConfig representa a configuração do agendador da auditoria
type ConversionAuditConfig struct {
	CronSchedule string
	Enabled      bool
	RunOnStart   bool
}

// ConversionAuditService gerencia o agendamento e a execução da auditoria de conversões
type ConversionAuditService struct {
	scheduler        *gocron.Scheduler
	config           ConversionAuditConfig
	auditor          auditing.Auditor
	baseCtx          context.Context
	auditRunning     bool
	auditMutex       sync.Mutex
	lastRunID        string
	lastStartedAt    time.Time
	lastCompletedAt  time.Time
	lastError        string
	lastRunSucceeded bool
}

// NewConversionAuditService cria uma nova instância do agendador da auditoria
func NewConversionAuditService(auditor auditing.Auditor, appConfig *config.Config) *ConversionAuditService {
	auditConfig := ConversionAuditConfig{
		CronSchedule: appConfig.AuditSchedule.CronSchedule,
		Enabled:      appConfig.AuditSchedule.Enabled,
		RunOnStart:   appConfig.AuditSchedule.RunOnStart,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": auditConfig.CronSchedule,
		"enabled":       auditConfig.Enabled,
		"run_on_start":  auditConfig.RunOnStart,
	}).Info("Configuração do agendador da auditoria de conversões carregada")

	return &ConversionAuditService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    auditConfig,
		auditor:   auditor,
		baseCtx:   context.Background(),
	}
}

// Start inicia o agendador e, se configurado, executa uma auditoria imediatamente
func (s *ConversionAuditService) Start(ctx context.Context) error {
	s.baseCtx = ctx

	if s.config.RunOnStart {
		logrus.Info("Executando auditoria de conversões na inicialização")
		go s.RunAudit()
	}

	if !s.config.Enabled {
		logrus.Info("Agendamento da auditoria de conversões desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador da auditoria de conversões")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.RunAudit()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar auditoria de conversões: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador da auditoria de conversões")
		s.scheduler.Stop()
	}()

	return nil
}

// RunAudit executa uma auditoria completa. Execuções sobrepostas são ignoradas.
func (s *ConversionAuditService) RunAudit() bool {
	s.auditMutex.Lock()
	if s.auditRunning {
		s.auditMutex.Unlock()
		logrus.Info("Auditoria de conversões já em andamento, ignorando")
		return false
	}
	s.auditRunning = true

	runID, err := utils.GenerateID()
	if err != nil {
		runID = fmt.Sprintf("%d", time.Now().UnixNano())
	}
	s.lastRunID = runID
	s.lastStartedAt = time.Now()
	s.auditMutex.Unlock()

	log := logrus.WithField("run_id", runID)
	log.Info("Iniciando execução da auditoria de conversões")

	runErr := s.auditor.Run(auditing.WithRunID(s.baseCtx, runID))

	s.auditMutex.Lock()
	s.auditRunning = false
	s.lastCompletedAt = time.Now()
	s.lastRunSucceeded = runErr == nil
	s.lastError = ""
	if runErr != nil {
		s.lastError = runErr.Error()
	}
	s.auditMutex.Unlock()

	log.WithField("success", runErr == nil).Info("Execução da auditoria de conversões encerrada")

	return true
}

// TriggerManualSync dispara uma auditoria em segundo plano. Retorna false se já houver uma em andamento.
func (s *ConversionAuditService) TriggerManualSync() bool {
	s.auditMutex.Lock()
	if s.auditRunning {
		s.auditMutex.Unlock()
		logrus.Info("Auditoria de conversões já em andamento, ignorando solicitação manual")
		return false
	}
	s.auditMutex.Unlock()

	logrus.Info("Iniciando auditoria manual de conversões")
	go s.RunAudit()

	return true
}

// IsRunning indica se há uma auditoria em andamento
func (s *ConversionAuditService) IsRunning() bool {
	s.auditMutex.Lock()
	defer s.auditMutex.Unlock()
	return s.auditRunning
}

func (s *ConversionAuditService) GetStatus() map[string]any {
	s.auditMutex.Lock()
	defer s.auditMutex.Unlock()

	return map[string]any{
		"audit_enabled":           s.config.Enabled,
		"audit_cron":              s.config.CronSchedule,
		"audit_run_on_start":      s.config.RunOnStart,
		"audit_running":           s.auditRunning,
		"last_run_id":             s.lastRunID,
		"last_audit_started_at":   s.lastStartedAt,
		"last_audit_completed_at": s.lastCompletedAt,
		"last_audit_succeeded":    s.lastRunSucceeded,
		"last_error":              s.lastError,
	}
}
