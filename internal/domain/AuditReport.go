package domain

import "time"

// AuditWindows são as duas janelas usadas em uma execução
type AuditWindows struct {
	Period     DateRange `json:"period"`
	Last30Days DateRange `json:"last30Days"`
	// ComparePeriods indica que o período configurado difere da janela fixa de 30 dias
	ComparePeriods bool `json:"comparePeriods"`
}

// AuditReport reúne tudo o que uma execução produz antes da renderização
type AuditReport struct {
	RunID       string       `json:"runId"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Windows     AuditWindows `json:"dateRanges"`
	Result      *AuditResult `json:"result"`
	ActionPlan  *ActionPlan  `json:"actionPlan"`
}
