package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/conversion-audit/infrastructure/database/postgres"
	"github.com/vfg2006/conversion-audit/internal/domain"
	"github.com/vfg2006/conversion-audit/pkg/metrics"
)

const (
	warehouseSource = "warehouse"
	metricPrefix    = "metrics."
)

// ReportWarehouse executa as consultas da auditoria sobre uma cópia dos relatórios
// do Google Ads em Postgres. Cada recurso é uma tabela {prefixo}{recurso} com uma
// linha diária por combinação de segmentos e colunas nomeadas pelo campo completo
// (ex.: "metrics.clicks").
type ReportWarehouse struct {
	conn        postgres.Queryer
	tablePrefix string
	metrics     *metrics.Metrics
}

func NewReportWarehouse(conn postgres.Queryer, tablePrefix string, m *metrics.Metrics) *ReportWarehouse {
	return &ReportWarehouse{
		conn:        conn,
		tablePrefix: tablePrefix,
		metrics:     m,
	}
}

func (r *ReportWarehouse) Query(ctx context.Context, q domain.ReportQuery) ([]domain.ReportRow, error) {
	query, args, err := r.buildQuery(q)
	if err != nil {
		r.metrics.DataSourceQuery(warehouseSource, "error")
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		r.metrics.DataSourceQuery(warehouseSource, "error")
		logrus.WithFields(logrus.Fields{
			"resource": q.Resource,
			"error":    err.Error(),
		}).Error("warehouse: falha na consulta")
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		r.metrics.DataSourceQuery(warehouseSource, "error")
		return nil, fmt.Errorf("erro ao ler colunas: %w", err)
	}

	result := make([]domain.ReportRow, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			r.metrics.DataSourceQuery(warehouseSource, "error")
			return nil, fmt.Errorf("erro ao escanear linha: %w", err)
		}

		row := make(domain.ReportRow, len(columns))
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				row[column] = string(b)
				continue
			}
			row[column] = values[i]
		}
		result = append(result, row)
	}

	if err = rows.Err(); err != nil {
		r.metrics.DataSourceQuery(warehouseSource, "error")
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	r.metrics.DataSourceQuery(warehouseSource, "success")

	return result, nil
}

// buildQuery soma as métricas agrupando pelos demais campos selecionados
func (r *ReportWarehouse) buildQuery(q domain.ReportQuery) (string, []any, error) {
	if q.Resource == "" || len(q.Fields) == 0 {
		return "", nil, fmt.Errorf("consulta sem recurso ou campos")
	}

	columns := make([]string, 0, len(q.Fields))
	groupBy := make([]string, 0, len(q.Fields))
	hasMetrics := false

	for _, field := range q.Fields {
		column := quoteIdent(field)
		if strings.HasPrefix(field, metricPrefix) {
			hasMetrics = true
			columns = append(columns, fmt.Sprintf("COALESCE(SUM(%s), 0) AS %s", column, column))
			continue
		}
		columns = append(columns, column)
		groupBy = append(groupBy, column)
	}

	builder := squirrel.
		Select(columns...).
		From(quoteIdent(r.tablePrefix + string(q.Resource)))

	for _, f := range q.Filters {
		builder = builder.Where(squirrel.Eq{quoteIdent(f.Field): f.Value})
	}

	if q.DateRange != nil {
		builder = builder.Where(
			squirrel.Expr(quoteIdent(domain.DateField)+" BETWEEN ? AND ?",
				q.DateRange.Start.Format("2006-01-02"),
				q.DateRange.End.Format("2006-01-02"),
			),
		)
	}

	if hasMetrics && len(groupBy) > 0 {
		builder = builder.GroupBy(groupBy...)
	}

	for _, o := range q.OrderBy {
		direction := "ASC"
		if o.Desc {
			direction = "DESC"
		}
		builder = builder.OrderBy(quoteIdent(o.Field) + " " + direction)
	}

	return builder.PlaceholderFormat(squirrel.Dollar).ToSql()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
