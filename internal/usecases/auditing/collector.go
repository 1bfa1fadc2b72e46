package auditing

import (
	"context"

	"github.com/vfg2006/conversion-audit/internal/domain"
)

// Collector busca as ações de conversão habilitadas e sua configuração estática
type Collector struct {
	source DataSource
}

func NewCollector(source DataSource) *Collector {
	return &Collector{source: source}
}

// Collect retorna uma ação por linha, na ordem da fonte, com as métricas zeradas.
// Falha na consulta é fatal para a execução.
func (c *Collector) Collect(ctx context.Context) ([]*domain.ConversionAction, error) {
	rows, err := c.source.Query(ctx, conversionActionsQuery())
	if err != nil {
		return nil, NewAuditError(ErrFetchConversionActions, StageCollect, err)
	}

	actions := make([]*domain.ConversionAction, 0, len(rows))
	for _, row := range rows {
		actions = append(actions, parseConversionAction(row))
	}

	loggerFrom(ctx).WithField("total", len(actions)).Info("Ações de conversão encontradas")

	return actions, nil
}

func parseConversionAction(row domain.ReportRow) *domain.ConversionAction {
	action := domain.NewConversionAction(
		row.String(FieldConversionActionID),
		row.String(FieldConversionActionName),
	)

	action.Status = row.String(FieldConversionActionStatus)
	action.Category = row.String(FieldConversionActionCategory)
	action.CountingType = row.String(FieldConversionActionCountingType)
	action.DefaultValue = row.Float(FieldConversionActionDefaultValue)
	if action.DefaultValue < 0 {
		action.DefaultValue = 0
	}
	action.HasValue = action.DefaultValue > 0
	action.IncludeInConversions = row.Bool(FieldConversionActionInclude)
	action.IsPrimary = row.Bool(FieldConversionActionPrimary)
	action.AttributionModel = row.String(FieldConversionActionAttribution)
	action.AppID = row.String(FieldConversionActionAppID)
	action.Type = row.String(FieldConversionActionType)

	return action
}
