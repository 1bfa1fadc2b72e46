package googleads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/conversion-audit/internal/domain"
)

func TestBuildQuery(t *testing.T) {
	window := domain.DateRange{
		Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name     string
		query    domain.ReportQuery
		expected string
		wantErr  bool
	}{
		{
			name: "Campos, filtro, janela e ordenação",
			query: domain.ReportQuery{
				Resource:  domain.ResourceCampaign,
				Fields:    []string{"campaign.name", "metrics.all_conversions"},
				Filters:   []domain.Filter{{Field: "campaign.status", Value: "ENABLED"}},
				DateRange: &window,
				OrderBy:   []domain.Order{{Field: "metrics.all_conversions", Desc: true}},
			},
			expected: "SELECT campaign.name, metrics.all_conversions FROM campaign " +
				"WHERE campaign.status = 'ENABLED' AND segments.date BETWEEN '2024-06-01' AND '2024-06-14' " +
				"ORDER BY metrics.all_conversions DESC",
		},
		{
			name: "Ordenação crescente",
			query: domain.ReportQuery{
				Resource: domain.ResourceCustomer,
				Fields:   []string{"segments.week"},
				OrderBy:  []domain.Order{{Field: "segments.week"}},
			},
			expected: "SELECT segments.week FROM customer ORDER BY segments.week ASC",
		},
		{
			name: "Aspas no valor são escapadas",
			query: domain.ReportQuery{
				Resource: domain.ResourceCustomer,
				Fields:   []string{"metrics.all_conversions"},
				Filters:  []domain.Filter{{Field: "segments.conversion_action_name", Value: `Lead's form`}},
			},
			expected: `SELECT metrics.all_conversions FROM customer WHERE segments.conversion_action_name = 'Lead\'s form'`,
		},
		{
			name:    "Consulta sem campos",
			query:   domain.ReportQuery{Resource: domain.ResourceCustomer},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildQuery(tt.query)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
