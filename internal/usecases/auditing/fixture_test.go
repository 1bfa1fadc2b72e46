package auditing

import (
	"context"
	"slices"
	"time"

	"github.com/vfg2006/conversion-audit/internal/config"
	"github.com/vfg2006/conversion-audit/internal/domain"
)

// Data de referência dos testes: 15 de junho de 2024
var referenceNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time {
	return referenceNow
}

// Período de 14 dias para que as duas janelas sejam diferentes
var testPeriod = config.AuditPeriod{Days: 14}

// reportFixture responde às consultas lógicas de acordo com o formato da consulta,
// o nome da ação filtrada e a janela de datas
type reportFixture struct {
	windows domain.AuditWindows

	actions       []domain.ReportRow
	devices       map[string][]domain.ReportRow
	trends        map[string][]domain.ReportRow
	periodTotals  map[string][]domain.ReportRow
	last30Totals  map[string][]domain.ReportRow
	periodTraffic []domain.ReportRow
	last30Traffic []domain.ReportRow
	campaigns     map[string][]domain.ReportRow

	// failures usa o formato da consulta como chave, ou formato:ação
	failures map[string]error
	calls    []string
}

func newReportFixture() *reportFixture {
	return &reportFixture{
		windows:      NewDateRangeResolver(testPeriod, fixedClock).Resolve(),
		devices:      map[string][]domain.ReportRow{},
		trends:       map[string][]domain.ReportRow{},
		periodTotals: map[string][]domain.ReportRow{},
		last30Totals: map[string][]domain.ReportRow{},
		campaigns:    map[string][]domain.ReportRow{},
		failures:     map[string]error{},
	}
}

func queryShape(q domain.ReportQuery) string {
	switch {
	case q.Resource == domain.ResourceConversionAction:
		return "actions"
	case slices.Contains(q.Fields, FieldSegmentDevice):
		return SliceDevice
	case slices.Contains(q.Fields, FieldSegmentWeek):
		return SliceTrend
	case slices.Contains(q.Fields, FieldClicks):
		return "traffic"
	case slices.Contains(q.Fields, FieldCampaignName):
		return SliceCampaign
	default:
		return "totals"
	}
}

func filterValue(q domain.ReportQuery, field string) string {
	for _, f := range q.Filters {
		if f.Field == field {
			return f.Value
		}
	}
	return ""
}

func (f *reportFixture) query(_ context.Context, q domain.ReportQuery) ([]domain.ReportRow, error) {
	shape := queryShape(q)
	name := filterValue(q, FieldSegmentConversionActionName)
	f.calls = append(f.calls, shape+":"+name)

	if err, ok := f.failures[shape+":"+name]; ok {
		return nil, err
	}
	if err, ok := f.failures[shape]; ok {
		return nil, err
	}

	last30 := q.DateRange != nil && *q.DateRange == f.windows.Last30Days

	switch shape {
	case "actions":
		return f.actions, nil
	case SliceDevice:
		return f.devices[name], nil
	case SliceTrend:
		return f.trends[name], nil
	case "traffic":
		if last30 {
			return f.last30Traffic, nil
		}
		return f.periodTraffic, nil
	case SliceCampaign:
		return f.campaigns[name], nil
	default:
		if last30 {
			return f.last30Totals[name], nil
		}
		return f.periodTotals[name], nil
	}
}

func actionRow(id, name, defaultValue, primary string) domain.ReportRow {
	return domain.ReportRow{
		FieldConversionActionID:           id,
		FieldConversionActionName:         name,
		FieldConversionActionCategory:     "PURCHASE",
		FieldConversionActionStatus:       StatusEnabled,
		FieldConversionActionPrimary:      primary,
		FieldConversionActionInclude:      "TRUE",
		FieldConversionActionCountingType: "ONE_PER_CLICK",
		FieldConversionActionDefaultValue: defaultValue,
		FieldConversionActionAttribution:  "GOOGLE_SEARCH_ATTRIBUTION_DATA_DRIVEN",
		FieldConversionActionType:         "WEBPAGE",
	}
}

func conversionRow(conversions, value float64) domain.ReportRow {
	return domain.ReportRow{
		FieldAllConversions:      conversions,
		FieldAllConversionsValue: value,
	}
}

func deviceRow(device string, conversions, value float64) domain.ReportRow {
	row := conversionRow(conversions, value)
	row[FieldSegmentDevice] = device
	return row
}

func trafficRow(clicks, costMicros float64) domain.ReportRow {
	return domain.ReportRow{
		FieldClicks:     clicks,
		FieldCostMicros: costMicros,
	}
}

func campaignRow(campaign string, conversions, value float64) domain.ReportRow {
	row := conversionRow(conversions, value)
	row[FieldCampaignName] = campaign
	return row
}
