package auditing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/conversion-audit/internal/config"
	"github.com/vfg2006/conversion-audit/internal/domain"
	"github.com/vfg2006/conversion-audit/pkg/metrics"
)

const (
	ErrorSubject = "Error in Conversion Audit"

	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"

	NotificationReport = "report"
	NotificationError  = "error"
)

type runIDKey struct{}

// WithRunID associa o identificador da execução ao contexto
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext retorna o identificador da execução, vazio se ausente
func RunIDFromContext(ctx context.Context) string {
	runID, _ := ctx.Value(runIDKey{}).(string)
	return runID
}

func loggerFrom(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(logrus.StandardLogger())
	if runID := RunIDFromContext(ctx); runID != "" {
		entry = entry.WithField("run_id", runID)
	}
	return entry
}

// Service orquestra uma execução completa da auditoria
type Service struct {
	emailConfig config.Email
	resolver    *DateRangeResolver
	collector   *Collector
	aggregator  *Aggregator
	classifier  *Classifier
	planner     *ActionPlanBuilder
	renderer    ReportRenderer
	notifier    Notifier
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewService cria o serviço de auditoria
func NewService(
	cfg *config.Config,
	source DataSource,
	renderer ReportRenderer,
	notifier Notifier,
	m *metrics.Metrics,
) *Service {
	return &Service{
		emailConfig: cfg.Email,
		resolver:    NewDateRangeResolver(cfg.AuditPeriod, nil),
		collector:   NewCollector(source),
		aggregator:  NewAggregator(source, m),
		classifier:  NewClassifier(m),
		planner:     NewActionPlanBuilder(cfg.Goals.PrimaryConversion),
		renderer:    renderer,
		notifier:    notifier,
		metrics:     m,
		now:         time.Now,
	}
}

// WithClock substitui o relógio usado como "hoje" e na data do relatório
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.resolver.now = now
	return s
}

// Audit coleta, agrega, classifica e monta o plano de ação, sem notificar
func (s *Service) Audit(ctx context.Context) (*domain.AuditReport, error) {
	windows := s.resolver.Resolve()

	log := loggerFrom(ctx).WithFields(logrus.Fields{
		"period":       windows.Period.String(),
		"last_30_days": windows.Last30Days.String(),
	})
	log.Info("Iniciando auditoria de conversões")

	actions, err := s.collector.Collect(ctx)
	if err != nil {
		return nil, err
	}

	result := domain.NewAuditResult()
	for _, action := range actions {
		s.aggregator.Aggregate(ctx, action, windows, &result.Summary)
		s.classifier.Classify(action, result)
	}

	plan := s.planner.Build(result)

	log.WithFields(logrus.Fields{
		"total":         result.Total,
		"active":        len(result.Summary.ActiveConversions),
		"issues":        len(result.Issues),
		"opportunities": len(result.Opportunities),
		"action_items":  len(plan.Items),
	}).Info("Auditoria de conversões concluída")

	return &domain.AuditReport{
		RunID:       RunIDFromContext(ctx),
		GeneratedAt: s.now(),
		Windows:     windows,
		Result:      result,
		ActionPlan:  plan,
	}, nil
}

// Run executa a auditoria e envia o relatório. Em caso de erro fatal envia o
// aviso de erro e retorna o erro. Falhas de envio são apenas registradas.
func (s *Service) Run(ctx context.Context) error {
	start := time.Now()
	log := loggerFrom(ctx)

	err := s.run(ctx)

	duration := time.Since(start)
	if err != nil {
		s.metrics.ObserveRun(RunStatusFailed, duration)
		log.WithFields(logrus.Fields{
			"duration": duration,
			"error":    err,
		}).Error("Erro durante a auditoria de conversões")

		s.sendError(ctx, err)
		return err
	}

	s.metrics.ObserveRun(RunStatusSuccess, duration)
	log.WithField("duration", duration).Info("Auditoria de conversões finalizada com sucesso")

	return nil
}

func (s *Service) run(ctx context.Context) error {
	report, err := s.Audit(ctx)
	if err != nil {
		return err
	}

	body, err := s.renderer.RenderReport(report)
	if err != nil {
		return NewAuditError(ErrRenderReport, StageRender, err)
	}

	if !s.emailConfig.Enabled {
		loggerFrom(ctx).Info("Envio de e-mail desabilitado, relatório não enviado")
		return nil
	}

	s.notify(ctx, NotificationReport, domain.Notification{
		To:       s.emailConfig.Recipient,
		Subject:  fmt.Sprintf("%s - %s", s.emailConfig.SubjectPrefix, report.GeneratedAt.Format(time.DateOnly)),
		HTMLBody: body,
	})

	return nil
}

func (s *Service) sendError(ctx context.Context, cause error) {
	s.notify(ctx, NotificationError, domain.Notification{
		To:       s.emailConfig.Recipient,
		Subject:  ErrorSubject,
		TextBody: s.renderer.RenderError(cause),
	})
}

// notify envia a notificação e registra o resultado. Falhas não interrompem a execução.
func (s *Service) notify(ctx context.Context, kind string, notification domain.Notification) {
	log := loggerFrom(ctx).WithField("kind", kind)

	err := s.send(ctx, notification)
	switch {
	case err == nil:
		s.metrics.Notification(kind, "sent")
		log.WithField("to", notification.To).Info("Notificação enviada")
	case errors.Is(err, ErrMissingRecipient):
		s.metrics.Notification(kind, "skipped")
		log.WithField("error", err).Warn("Destinatário não configurado, notificação não enviada")
	default:
		s.metrics.Notification(kind, "failed")
		log.WithFields(logrus.Fields{
			"to":    notification.To,
			"error": err,
		}).Error("Erro ao enviar notificação")
	}
}

func (s *Service) send(ctx context.Context, notification domain.Notification) error {
	if notification.To == "" {
		return NewAuditError(ErrMissingRecipient, StageNotify, nil)
	}

	if err := s.notifier.Send(ctx, notification); err != nil {
		return NewAuditError(ErrSendNotification, StageNotify, err)
	}

	return nil
}
