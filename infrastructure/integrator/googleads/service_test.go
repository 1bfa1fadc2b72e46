package googleads

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	googleadsdomain "github.com/vfg2006/conversion-audit/infrastructure/integrator/googleads/domain"
	"github.com/vfg2006/conversion-audit/internal/domain"
	"github.com/vfg2006/conversion-audit/pkg/metrics"
)

type fakeClient struct {
	query   string
	batches []googleadsdomain.SearchStreamBatch
	err     error
}

func (f *fakeClient) SearchStream(_ context.Context, query string) ([]googleadsdomain.SearchStreamBatch, error) {
	f.query = query
	return f.batches, f.err
}

func TestGoogleAdsIntegrator_Query(t *testing.T) {
	query := domain.ReportQuery{
		Resource: domain.ResourceConversionAction,
		Fields:   []string{"conversion_action.id", "conversion_action.value_settings.default_value"},
	}

	t.Run("Achata os resultados de todos os lotes", func(t *testing.T) {
		client := &fakeClient{batches: []googleadsdomain.SearchStreamBatch{
			{Results: []map[string]any{
				{"conversionAction": map[string]any{
					"id":             "123",
					"primaryForGoal": true,
					"valueSettings":  map[string]any{"defaultValue": 10.5},
				}},
			}},
			{Results: []map[string]any{
				{"metrics": map[string]any{"allConversions": 3.0, "costMicros": "2500000"}},
			}},
		}}

		reg := prometheus.NewRegistry()
		m := metrics.NewMetrics("test", reg)

		rows, err := New(client, m).Query(context.Background(), query)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "123", rows[0].String("conversion_action.id"))
		assert.True(t, rows[0].Bool("conversion_action.primary_for_goal"))
		assert.Equal(t, 10.5, rows[0].Float("conversion_action.value_settings.default_value"))
		assert.Equal(t, 3.0, rows[1].Float("metrics.all_conversions"))
		assert.Equal(t, 2500000.0, rows[1].Float("metrics.cost_micros"))

		assert.Contains(t, client.query, "FROM conversion_action")
		assert.Equal(t, 1.0, testutil.ToFloat64(m.DataSourceQueries.WithLabelValues(sourceName, "success")))
	})

	t.Run("Resposta vazia", func(t *testing.T) {
		rows, err := New(&fakeClient{}, nil).Query(context.Background(), query)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("Erro do cliente é propagado", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := metrics.NewMetrics("test", reg)

		_, err := New(&fakeClient{err: errors.New("quota exceeded")}, m).Query(context.Background(), query)
		assert.EqualError(t, err, "quota exceeded")
		assert.Equal(t, 1.0, testutil.ToFloat64(m.DataSourceQueries.WithLabelValues(sourceName, "error")))
	})
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "conversion_action", snakeCase("conversionAction"))
	assert.Equal(t, "all_conversions_value", snakeCase("allConversionsValue"))
	assert.Equal(t, "id", snakeCase("id"))
}
