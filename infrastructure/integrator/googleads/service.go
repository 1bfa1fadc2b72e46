package googleads

import (
	"context"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/conversion-audit/infrastructure/integrator/googleads/adsclient"
	"github.com/vfg2006/conversion-audit/internal/domain"
	"github.com/vfg2006/conversion-audit/pkg/metrics"
)

const sourceName = "googleads"

// GoogleAdsIntegrator executa as consultas da auditoria na API REST do Google Ads
type GoogleAdsIntegrator struct {
	Client  adsclient.Client
	metrics *metrics.Metrics
}

func New(client adsclient.Client, m *metrics.Metrics) *GoogleAdsIntegrator {
	return &GoogleAdsIntegrator{
		Client:  client,
		metrics: m,
	}
}

func (s *GoogleAdsIntegrator) Query(ctx context.Context, q domain.ReportQuery) ([]domain.ReportRow, error) {
	gaql, err := BuildQuery(q)
	if err != nil {
		s.metrics.DataSourceQuery(sourceName, "error")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"resource": q.Resource,
		"query":    gaql,
	}).Debug("googleads: executando consulta")

	batches, err := s.Client.SearchStream(ctx, gaql)
	if err != nil {
		s.metrics.DataSourceQuery(sourceName, "error")
		logrus.WithFields(logrus.Fields{
			"resource": q.Resource,
			"error":    err.Error(),
		}).Error("googleads: falha na consulta")
		return nil, err
	}

	rows := make([]domain.ReportRow, 0)
	for _, batch := range batches {
		for _, result := range batch.Results {
			row := domain.ReportRow{}
			flatten("", result, row)
			rows = append(rows, row)
		}
	}

	s.metrics.DataSourceQuery(sourceName, "success")

	return rows, nil
}

// flatten converte {"conversionAction": {"valueSettings": {"defaultValue": 1}}}
// em {"conversion_action.value_settings.default_value": 1}
func flatten(prefix string, value map[string]any, row domain.ReportRow) {
	for key, v := range value {
		field := snakeCase(key)
		if prefix != "" {
			field = prefix + "." + field
		}

		if nested, ok := v.(map[string]any); ok {
			flatten(field, nested, row)
			continue
		}
		row[field] = v
	}
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
