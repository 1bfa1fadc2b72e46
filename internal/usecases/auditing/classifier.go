package auditing

import (
	"fmt"

	"github.com/vfg2006/conversion-audit/internal/domain"
	"github.com/vfg2006/conversion-audit/pkg/metrics"
)

const (
	lowConversionRateThreshold = 1.0
	lowConversionRateMinClicks = 100
	deviceSpreadRatio          = 3.0
	decliningTrendFactor       = 0.7
)

// Classifier aplica as regras de diagnóstico a cada ação de conversão
type Classifier struct {
	metrics *metrics.Metrics
}

func NewClassifier(m *metrics.Metrics) *Classifier {
	return &Classifier{metrics: m}
}

// Classify registra a ação no resumo e adiciona problemas e oportunidades ao
// resultado, sempre na mesma ordem de regras
func (c *Classifier) Classify(action *domain.ConversionAction, result *domain.AuditResult) {
	summary := &result.Summary
	summary.ActiveConversions = append(summary.ActiveConversions, action)

	if !action.HasValue {
		summary.NoValueSet = append(summary.NoValueSet, action)
		c.issue(result, domain.IssueNoValue, domain.SeverityMedium, action.Name, "No conversion value set")
	}

	if action.Last30Days.Conversions == 0 {
		summary.NoConversions30Days = append(summary.NoConversions30Days, action)
		c.issue(result, domain.IssueNoConversions, domain.SeverityHigh, action.Name, "No conversions in last 30 days")
	}

	if action.Last30Days.ConversionRate < lowConversionRateThreshold && action.Last30Days.Clicks > lowConversionRateMinClicks {
		summary.LowConvRate = append(summary.LowConvRate, action)
		c.issue(result, domain.IssueLowConversionRate, domain.SeverityHigh, action.Name,
			fmt.Sprintf("Low conversion rate (%.2f%%)", action.Last30Days.ConversionRate))
	}

	if hasDeviceSpread(action.DevicePerformance) {
		c.opportunity(result, domain.IssueDeviceOptimization, domain.SeverityMedium, action.Name,
			"Large performance difference between devices")
	}

	if isDeclining(action.Trends.WeeklyConversions) {
		c.issue(result, domain.IssueDecliningTrend, domain.SeverityHigh, action.Name,
			"Significant decrease in conversions last week")
	}

	result.Total++
}

func (c *Classifier) issue(result *domain.AuditResult, t domain.IssueType, severity domain.Severity, conversion, message string) {
	result.Issues = append(result.Issues, domain.Issue{
		Type:       t,
		Severity:   severity,
		Conversion: conversion,
		Message:    message,
	})
	c.metrics.IssueFound(string(t))
}

func (c *Classifier) opportunity(result *domain.AuditResult, t domain.IssueType, severity domain.Severity, conversion, message string) {
	result.Opportunities = append(result.Opportunities, domain.Issue{
		Type:       t,
		Severity:   severity,
		Conversion: conversion,
		Message:    message,
	})
	c.metrics.OpportunityFound(string(t))
}

// hasDeviceSpread compara apenas dispositivos com conversões. Com menos de dois
// não há comparação.
func hasDeviceSpread(performance domain.DevicePerformance) bool {
	var converting []float64
	for _, device := range domain.Devices {
		stats, ok := performance[device]
		if ok && stats != nil && stats.Conversions > 0 {
			converting = append(converting, stats.Conversions)
		}
	}

	if len(converting) < 2 {
		return false
	}

	maxConversions, minConversions := converting[0], converting[0]
	for _, conversions := range converting[1:] {
		maxConversions = max(maxConversions, conversions)
		minConversions = min(minConversions, conversions)
	}

	return maxConversions/minConversions > deviceSpreadRatio
}

// isDeclining compara as duas últimas semanas da série
func isDeclining(weekly []float64) bool {
	if len(weekly) < 2 {
		return false
	}

	lastWeek := weekly[len(weekly)-1]
	previousWeek := weekly[len(weekly)-2]

	return lastWeek < previousWeek*decliningTrendFactor
}
