package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/conversion-audit/internal/domain"
)

func newWarehouseMock(t *testing.T) (*ReportWarehouse, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewReportWarehouse(db, "ads_", nil), mock
}

var testWindow = domain.DateRange{
	Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
}

func TestReportWarehouse_Query(t *testing.T) {
	t.Run("Soma métricas agrupando pelos segmentos", func(t *testing.T) {
		warehouse, mock := newWarehouseMock(t)

		mock.ExpectQuery(`SELECT "campaign.name", "segments.conversion_action_name", ` +
			`COALESCE(SUM("metrics.all_conversions"), 0) AS "metrics.all_conversions" ` +
			`FROM "ads_campaign" ` +
			`WHERE "campaign.status" = $1 AND "segments.conversion_action_name" = $2 AND "segments.date" BETWEEN $3 AND $4 ` +
			`GROUP BY "campaign.name", "segments.conversion_action_name" ` +
			`ORDER BY "metrics.all_conversions" DESC`).
			WithArgs("ENABLED", "Purchase", "2024-06-01", "2024-06-14").
			WillReturnRows(sqlmock.NewRows([]string{"campaign.name", "segments.conversion_action_name", "metrics.all_conversions"}).
				AddRow("Brand", "Purchase", []byte("12.5")).
				AddRow("Generic", "Purchase", []byte("3")))

		rows, err := warehouse.Query(context.Background(), domain.ReportQuery{
			Resource: domain.ResourceCampaign,
			Fields:   []string{"campaign.name", "segments.conversion_action_name", "metrics.all_conversions"},
			Filters: []domain.Filter{
				{Field: "campaign.status", Value: "ENABLED"},
				{Field: "segments.conversion_action_name", Value: "Purchase"},
			},
			DateRange: &testWindow,
			OrderBy:   []domain.Order{{Field: "metrics.all_conversions", Desc: true}},
		})
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "Brand", rows[0].String("campaign.name"))
		assert.Equal(t, 12.5, rows[0].Float("metrics.all_conversions"))
		assert.Equal(t, 3.0, rows[1].Float("metrics.all_conversions"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Somente métricas não agrupa", func(t *testing.T) {
		warehouse, mock := newWarehouseMock(t)

		mock.ExpectQuery(`SELECT COALESCE(SUM("metrics.clicks"), 0) AS "metrics.clicks" ` +
			`FROM "ads_campaign" WHERE "segments.date" BETWEEN $1 AND $2`).
			WithArgs("2024-06-01", "2024-06-14").
			WillReturnRows(sqlmock.NewRows([]string{"metrics.clicks"}).AddRow(int64(420)))

		rows, err := warehouse.Query(context.Background(), domain.ReportQuery{
			Resource:  domain.ResourceCampaign,
			Fields:    []string{"metrics.clicks"},
			DateRange: &testWindow,
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 420.0, rows[0].Float("metrics.clicks"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Sem métricas seleciona as linhas", func(t *testing.T) {
		warehouse, mock := newWarehouseMock(t)

		mock.ExpectQuery(`SELECT "conversion_action.id", "conversion_action.primary_for_goal" ` +
			`FROM "ads_conversion_action" WHERE "conversion_action.status" = $1`).
			WithArgs("ENABLED").
			WillReturnRows(sqlmock.NewRows([]string{"conversion_action.id", "conversion_action.primary_for_goal"}).
				AddRow("1", true))

		rows, err := warehouse.Query(context.Background(), domain.ReportQuery{
			Resource: domain.ResourceConversionAction,
			Fields:   []string{"conversion_action.id", "conversion_action.primary_for_goal"},
			Filters:  []domain.Filter{{Field: "conversion_action.status", Value: "ENABLED"}},
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].Bool("conversion_action.primary_for_goal"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Erro de banco é propagado", func(t *testing.T) {
		warehouse, mock := newWarehouseMock(t)

		mock.ExpectQuery(`SELECT COALESCE(SUM("metrics.clicks"), 0) AS "metrics.clicks" FROM "ads_customer"`).
			WillReturnError(errors.New("connection refused"))

		_, err := warehouse.Query(context.Background(), domain.ReportQuery{
			Resource: domain.ResourceCustomer,
			Fields:   []string{"metrics.clicks"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("Consulta sem campos", func(t *testing.T) {
		warehouse, _ := newWarehouseMock(t)

		_, err := warehouse.Query(context.Background(), domain.ReportQuery{Resource: domain.ResourceCustomer})
		assert.Error(t, err)
	})
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"metrics.clicks"`, quoteIdent("metrics.clicks"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}
