package auditing

import (
	"fmt"

	"github.com/vfg2006/conversion-audit/internal/domain"
)

const (
	dominantCampaignShare = 0.8
	dominantSuffix        = " (Dominant conversion source)"
)

// Tipos de item do plano de ação
const (
	ActionNoPrimaryGoals           = "No Primary Goals"
	ActionNoConversions            = "No Conversions"
	ActionMissingPrimaryConversion = "Missing Primary Conversion"
	ActionMissingValues            = "Missing Values"
	ActionCampaignDistribution     = "Campaign Distribution"
)

// ActionPlanBuilder gera as recomendações a partir do resultado já classificado
type ActionPlanBuilder struct {
	primaryConversion string
}

// NewActionPlanBuilder recebe o nome da conversão principal configurada, vazio
// para usar as ações marcadas como principais
func NewActionPlanBuilder(primaryConversion string) *ActionPlanBuilder {
	return &ActionPlanBuilder{primaryConversion: primaryConversion}
}

func (b *ActionPlanBuilder) Build(result *domain.AuditResult) *domain.ActionPlan {
	campaigns := result.Summary.CampaignPerformance.Campaigns()

	plan := &domain.ActionPlan{
		PrimaryConversions: b.primaryConversions(result),
		Items:              make([]domain.ActionItem, 0),
	}

	if len(plan.PrimaryConversions) == 0 {
		plan.Items = append(plan.Items, domain.ActionItem{
			Priority: domain.PriorityHigh,
			Type:     ActionNoPrimaryGoals,
			Action:   "Set up primary conversion goals",
			Tip:      "Define which conversion actions are your main campaign objectives",
			Affected: []string{"No primary conversion actions defined"},
		})
	}

	noConversions := campaignNames(campaigns, func(c *domain.CampaignStats) bool {
		return c.Conversions == 0
	})
	if len(noConversions) > 0 {
		plan.Items = append(plan.Items, domain.ActionItem{
			Priority: domain.PriorityHigh,
			Type:     ActionNoConversions,
			Action:   fmt.Sprintf("Review %d campaign(s) with no conversions", len(noConversions)),
			Tip:      "Check campaign settings, targeting, and landing pages for these campaigns",
			Affected: noConversions,
		})
	}

	for _, primary := range plan.PrimaryConversions {
		withoutPrimary := campaignNames(campaigns, func(c *domain.CampaignStats) bool {
			contribution, ok := c.ConversionAction(primary)
			return !ok || contribution.Conversions == 0
		})
		if len(withoutPrimary) == 0 {
			continue
		}

		plan.Items = append(plan.Items, domain.ActionItem{
			Priority: domain.PriorityMedium,
			Type:     ActionMissingPrimaryConversion,
			Action:   fmt.Sprintf("Review %d campaign(s) without %s", len(withoutPrimary), primary),
			Tip:      "Check why these campaigns aren't generating this primary conversion type",
			Affected: withoutPrimary,
		})
	}

	withoutValues := campaignNames(campaigns, func(c *domain.CampaignStats) bool {
		return c.Conversions > 0 && c.Value == 0
	})
	if len(withoutValues) > 0 {
		plan.Items = append(plan.Items, domain.ActionItem{
			Priority: domain.PriorityMedium,
			Type:     ActionMissingValues,
			Action:   fmt.Sprintf("Set conversion values for %d converting campaign(s)", len(withoutValues)),
			Tip:      "Adding conversion values will help optimize campaign performance",
			Affected: withoutValues,
		})
	}

	total := result.Summary.CampaignPerformance.TotalConversions()
	if total > 0 {
		dominant := campaignNames(campaigns, func(c *domain.CampaignStats) bool {
			return c.Conversions/total > dominantCampaignShare
		})
		if len(dominant) > 0 {
			affected := make([]string, 0, len(dominant))
			for _, name := range dominant {
				affected = append(affected, name+dominantSuffix)
			}

			plan.Items = append(plan.Items, domain.ActionItem{
				Priority: domain.PriorityMedium,
				Type:     ActionCampaignDistribution,
				Action:   "Review budget allocation across campaigns",
				Tip:      "Some campaigns are generating most conversions. Consider redistributing budget or applying successful strategies to other campaigns",
				Affected: affected,
			})
		}
	}

	return plan
}

// primaryConversions usa a conversão configurada ou, sem ela, as ações marcadas como principais
func (b *ActionPlanBuilder) primaryConversions(result *domain.AuditResult) []string {
	if b.primaryConversion != "" {
		return []string{b.primaryConversion}
	}

	names := make([]string, 0)
	for _, action := range result.Summary.ActiveConversions {
		if action.IsPrimary {
			names = append(names, action.Name)
		}
	}
	return names
}

func campaignNames(campaigns []*domain.CampaignStats, match func(*domain.CampaignStats) bool) []string {
	names := make([]string, 0)
	for _, c := range campaigns {
		if match(c) {
			names = append(names, c.Name)
		}
	}
	return names
}
