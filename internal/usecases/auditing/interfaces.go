package auditing

import (
	"context"

	"github.com/vfg2006/conversion-audit/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// DataSource executa uma consulta lógica no backend de relatórios
type DataSource interface {
	// Query retorna as linhas da consulta indexadas pelo nome completo do campo
	Query(ctx context.Context, query domain.ReportQuery) ([]domain.ReportRow, error)
}

// Notifier envia o relatório ou o aviso de erro por e-mail
type Notifier interface {
	Send(ctx context.Context, notification domain.Notification) error
}

// ReportRenderer transforma o resultado da auditoria em documentos
type ReportRenderer interface {
	RenderReport(report *domain.AuditReport) (string, error)
	RenderError(err error) string
}

// Auditor é a interface usada pelo agendador e pela API
type Auditor interface {
	// Run executa a auditoria completa e envia a notificação
	Run(ctx context.Context) error
	// Audit executa apenas a coleta, classificação e plano de ação, sem notificar
	Audit(ctx context.Context) (*domain.AuditReport, error)
}
