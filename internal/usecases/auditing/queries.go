package auditing

import (
	"github.com/vfg2006/conversion-audit/internal/domain"
)

// Campos das consultas de relatório
const (
	FieldConversionActionID           = "conversion_action.id"
	FieldConversionActionName         = "conversion_action.name"
	FieldConversionActionCategory     = "conversion_action.category"
	FieldConversionActionStatus       = "conversion_action.status"
	FieldConversionActionPrimary      = "conversion_action.primary_for_goal"
	FieldConversionActionInclude      = "conversion_action.include_in_conversions_metric"
	FieldConversionActionCountingType = "conversion_action.counting_type"
	FieldConversionActionDefaultValue = "conversion_action.value_settings.default_value"
	FieldConversionActionAttribution  = "conversion_action.attribution_model_settings.attribution_model"
	FieldConversionActionAppID        = "conversion_action.app_id"
	FieldConversionActionType         = "conversion_action.type"

	FieldCampaignName   = "campaign.name"
	FieldCampaignStatus = "campaign.status"

	FieldSegmentConversionActionName = "segments.conversion_action_name"
	FieldSegmentDevice               = "segments.device"
	FieldSegmentWeek                 = "segments.week"

	FieldAllConversions      = "metrics.all_conversions"
	FieldAllConversionsValue = "metrics.all_conversions_value"
	FieldClicks              = "metrics.clicks"
	FieldCostMicros          = "metrics.cost_micros"
)

const (
	StatusEnabled = "ENABLED"

	// Custos são reportados em micros da moeda da conta
	microsPerUnit = 1_000_000
)

// conversionActionsQuery lista as ações de conversão habilitadas
func conversionActionsQuery() domain.ReportQuery {
	return domain.ReportQuery{
		Resource: domain.ResourceConversionAction,
		Fields: []string{
			FieldConversionActionID,
			FieldConversionActionName,
			FieldConversionActionCategory,
			FieldConversionActionStatus,
			FieldConversionActionPrimary,
			FieldConversionActionInclude,
			FieldConversionActionCountingType,
			FieldConversionActionDefaultValue,
			FieldConversionActionAttribution,
			FieldConversionActionAppID,
			FieldConversionActionType,
		},
		Filters: []domain.Filter{
			{Field: FieldConversionActionStatus, Value: StatusEnabled},
		},
	}
}

// deviceQuery segmenta as conversões de uma ação por dispositivo
func deviceQuery(conversionAction string, window domain.DateRange) domain.ReportQuery {
	return domain.ReportQuery{
		Resource: domain.ResourceCustomer,
		Fields: []string{
			FieldSegmentConversionActionName,
			FieldSegmentDevice,
			FieldAllConversions,
			FieldAllConversionsValue,
		},
		Filters:   []domain.Filter{{Field: FieldSegmentConversionActionName, Value: conversionAction}},
		DateRange: &window,
	}
}

// weeklyTrendQuery segmenta as conversões de uma ação por semana, em ordem crescente
func weeklyTrendQuery(conversionAction string, window domain.DateRange) domain.ReportQuery {
	return domain.ReportQuery{
		Resource: domain.ResourceCustomer,
		Fields: []string{
			FieldSegmentConversionActionName,
			FieldSegmentWeek,
			FieldAllConversions,
			FieldAllConversionsValue,
		},
		Filters:   []domain.Filter{{Field: FieldSegmentConversionActionName, Value: conversionAction}},
		DateRange: &window,
		OrderBy:   []domain.Order{{Field: FieldSegmentWeek}},
	}
}

// windowTotalsQuery retorna o total de conversões e valor de uma ação na janela
func windowTotalsQuery(conversionAction string, window domain.DateRange) domain.ReportQuery {
	return domain.ReportQuery{
		Resource: domain.ResourceCustomer,
		Fields: []string{
			FieldSegmentConversionActionName,
			FieldAllConversions,
			FieldAllConversionsValue,
		},
		Filters:   []domain.Filter{{Field: FieldSegmentConversionActionName, Value: conversionAction}},
		DateRange: &window,
	}
}

// windowTrafficQuery retorna cliques e custo de todas as campanhas habilitadas da conta
func windowTrafficQuery(window domain.DateRange) domain.ReportQuery {
	return domain.ReportQuery{
		Resource: domain.ResourceCampaign,
		Fields: []string{
			FieldClicks,
			FieldCostMicros,
		},
		Filters:   []domain.Filter{{Field: FieldCampaignStatus, Value: StatusEnabled}},
		DateRange: &window,
	}
}

// campaignBreakdownQuery retorna as conversões de uma ação por campanha, da maior para a menor
func campaignBreakdownQuery(conversionAction string, window domain.DateRange) domain.ReportQuery {
	return domain.ReportQuery{
		Resource: domain.ResourceCampaign,
		Fields: []string{
			FieldCampaignName,
			FieldSegmentConversionActionName,
			FieldAllConversions,
			FieldAllConversionsValue,
		},
		Filters: []domain.Filter{
			{Field: FieldCampaignStatus, Value: StatusEnabled},
			{Field: FieldSegmentConversionActionName, Value: conversionAction},
		},
		DateRange: &window,
		OrderBy:   []domain.Order{{Field: FieldAllConversions, Desc: true}},
	}
}
