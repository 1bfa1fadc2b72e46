package handler

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/conversion-audit/internal/usecases/auditing"
	"github.com/vfg2006/conversion-audit/pkg/apiErrors"
	"github.com/vfg2006/conversion-audit/pkg/log"
)

// AuditScheduler é a parte do agendador usada pela API
type AuditScheduler interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := jsoniter.NewEncoder(w).Encode(body); err != nil {
		log.L.WithError(err).Warn("erro ao escrever resposta")
	}
}

// GetAuditStatus retorna o estado do agendador e da última execução
func GetAuditStatus(scheduler AuditScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, scheduler.GetStatus())
	}
}

// RunAudit dispara uma auditoria em segundo plano
func RunAudit(scheduler AuditScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !scheduler.TriggerManualSync() {
			apiErrors.WriteError(w, apiErrors.ErrAuditRunning, "Conversion audit already running", nil)
			return
		}

		log.ForContext(r.Context()).Info("Auditoria manual disparada pela API")

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Conversion audit started",
		})
	}
}

// PreviewAudit executa a auditoria sem enviar e-mail e retorna o resultado
func PreviewAudit(auditor auditing.Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := auditor.Audit(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao gerar prévia da auditoria")

			var auditErr *auditing.AuditError
			if errors.As(err, &auditErr) {
				apiErrors.WriteError(w, apiErrors.ErrExternalService, err.Error(), map[string]string{"stage": auditErr.Stage})
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}
