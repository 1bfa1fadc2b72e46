package auditing

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/conversion-audit/internal/domain"
	"github.com/vfg2006/conversion-audit/pkg/metrics"
)

// Fatias de métricas buscadas para cada ação de conversão
const (
	SliceDevice     = "device"
	SliceTrend      = "trend"
	SlicePeriod     = "period"
	SliceLast30Days = "last_30_days"
	SliceCampaign   = "campaign"
)

// Aggregator preenche as métricas de cada ação e acumula os totais por
// dispositivo e por campanha no resumo da execução
type Aggregator struct {
	source  DataSource
	metrics *metrics.Metrics
}

func NewAggregator(source DataSource, m *metrics.Metrics) *Aggregator {
	return &Aggregator{source: source, metrics: m}
}

// Aggregate executa as cinco fatias de forma independente. Uma fatia com erro é
// registrada em log e deixa seus campos zerados, sem interromper as demais.
func (a *Aggregator) Aggregate(ctx context.Context, action *domain.ConversionAction, windows domain.AuditWindows, summary *domain.Summary) {
	a.slice(ctx, action.Name, SliceDevice, func() error {
		return a.fetchDevices(ctx, action, windows.Period, summary)
	})
	a.slice(ctx, action.Name, SliceTrend, func() error {
		return a.fetchTrend(ctx, action, windows.Period)
	})
	a.slice(ctx, action.Name, SlicePeriod, func() error {
		return a.fetchWindow(ctx, action.Name, windows.Period, &action.Period)
	})
	a.slice(ctx, action.Name, SliceLast30Days, func() error {
		return a.fetchWindow(ctx, action.Name, windows.Last30Days, &action.Last30Days)
	})
	a.slice(ctx, action.Name, SliceCampaign, func() error {
		return a.fetchCampaigns(ctx, action.Name, windows.Period, summary.CampaignPerformance)
	})
}

func (a *Aggregator) slice(ctx context.Context, conversionAction, slice string, fn func() error) {
	start := time.Now()
	if err := fn(); err != nil {
		a.metrics.SliceFailed(slice)
		loggerFrom(ctx).WithFields(logrus.Fields{
			"conversion_action": conversionAction,
			"slice":             slice,
			"error":             err,
		}).Warn("Erro ao buscar fatia de métricas, mantendo valores zerados")
		return
	}

	loggerFrom(ctx).WithFields(logrus.Fields{
		"conversion_action": conversionAction,
		"slice":             slice,
		"duration":          time.Since(start),
	}).Debug("Fatia de métricas carregada")
}

// fetchDevices substitui a entrada da ação e soma no total geral. Dispositivos
// desconhecidos são ignorados.
func (a *Aggregator) fetchDevices(ctx context.Context, action *domain.ConversionAction, window domain.DateRange, summary *domain.Summary) error {
	rows, err := a.source.Query(ctx, deviceQuery(action.Name, window))
	if err != nil {
		return err
	}

	for _, row := range rows {
		device := domain.Device(row.String(FieldSegmentDevice))
		if !device.IsKnown() {
			continue
		}

		conversions := amount(row, FieldAllConversions)
		value := amount(row, FieldAllConversionsValue)

		action.DevicePerformance[device] = &domain.DeviceStats{
			Conversions: conversions,
			Value:       value,
		}
		summary.AddDevice(device, conversions, value)
	}

	return nil
}

func (a *Aggregator) fetchTrend(ctx context.Context, action *domain.ConversionAction, window domain.DateRange) error {
	rows, err := a.source.Query(ctx, weeklyTrendQuery(action.Name, window))
	if err != nil {
		return err
	}

	for _, row := range rows {
		action.Trends.WeeklyConversions = append(action.Trends.WeeklyConversions, amount(row, FieldAllConversions))
		action.Trends.WeeklyValue = append(action.Trends.WeeklyValue, amount(row, FieldAllConversionsValue))
	}

	return nil
}

// fetchWindow calcula as métricas de uma janela. Cliques e custo são somados em
// todas as campanhas habilitadas da conta, não apenas nas da ação.
func (a *Aggregator) fetchWindow(ctx context.Context, conversionAction string, window domain.DateRange, target *domain.WindowMetrics) error {
	rows, err := a.source.Query(ctx, windowTotalsQuery(conversionAction, window))
	if err != nil {
		return err
	}

	// Vale a última linha
	for _, row := range rows {
		target.Conversions = amount(row, FieldAllConversions)
		target.Value = amount(row, FieldAllConversionsValue)
	}

	traffic, err := a.source.Query(ctx, windowTrafficQuery(window))
	if err != nil {
		return err
	}

	var clicks, cost float64
	for _, row := range traffic {
		clicks += amount(row, FieldClicks)
		cost += amount(row, FieldCostMicros) / microsPerUnit
	}

	// Custo sem arredondamento; o relatório arredonda na exibição
	target.ApplyTraffic(clicks, cost)

	return nil
}

func (a *Aggregator) fetchCampaigns(ctx context.Context, conversionAction string, window domain.DateRange, performance *domain.CampaignPerformance) error {
	rows, err := a.source.Query(ctx, campaignBreakdownQuery(conversionAction, window))
	if err != nil {
		return err
	}

	for _, row := range rows {
		performance.Fold(
			row.String(FieldCampaignName),
			conversionAction,
			amount(row, FieldAllConversions),
			amount(row, FieldAllConversionsValue),
		)
	}

	return nil
}

// amount lê um campo numérico descartando valores negativos
func amount(row domain.ReportRow, field string) float64 {
	v := row.Float(field)
	if v < 0 {
		return 0
	}
	return v
}
