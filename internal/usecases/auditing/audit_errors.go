package auditing

import (
	"errors"
	"fmt"
)

// Etapas da auditoria usadas em logs e erros
const (
	StageCollect = "collect"
	StageRender  = "render"
	StageNotify  = "notify"
)

var (
	// Erro fatal: sem a lista de ações de conversão não há relatório
	ErrFetchConversionActions = errors.New("error fetching conversion actions")
	ErrRenderReport           = errors.New("error rendering audit report")
	ErrMissingRecipient       = errors.New("email recipient is not configured")
	ErrSendNotification       = errors.New("error sending notification")
)

// AuditError é um erro fatal com a etapa em que ocorreu
type AuditError struct {
	Err   error  // Erro base
	Stage string // Etapa da auditoria
	Cause error  // Erro original, quando houver
}

func (e *AuditError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Cause.Error())
	}
	return e.Err.Error()
}

func (e *AuditError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func NewAuditError(err error, stage string, cause error) *AuditError {
	return &AuditError{
		Err:   err,
		Stage: stage,
		Cause: cause,
	}
}
