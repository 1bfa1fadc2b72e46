package reporting

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/conversion-audit/internal/domain"
	"github.com/vfg2006/conversion-audit/pkg/utils"
)

//go:embed templates/*.html
var templatesFS embed.FS

const errorPrefix = "An error occurred while running the conversion audit:\n\n"

// Renderer gera o relatório HTML e o texto do aviso de erro
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("report.html").Funcs(template.FuncMap{
		"number": formatNumber,
		"money":  formatMoney,
		"device": formatDevice,
		"date":   formatDate,
		"join":   strings.Join,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("reporting: erro ao carregar templates: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

type deviceRow struct {
	Device domain.Device
	Stats  domain.DeviceStats
}

type reportView struct {
	Report         *domain.AuditReport
	ComparePeriods bool
	Conversions    []*domain.ConversionAction
	Devices        []deviceRow
	Campaigns      []*domain.CampaignStats
	Totals         totalsView
	Issues         []domain.Issue
	Opportunities  []domain.Issue
	Plan           *domain.ActionPlan
	HighPriority   []domain.ActionItem
	MediumPriority []domain.ActionItem
}

type totalsView struct {
	Conversions       float64
	Value             float64
	PeriodConversions float64
	PeriodValue       float64
}

// RenderReport monta o documento HTML de uma execução
func (r *Renderer) RenderReport(report *domain.AuditReport) (string, error) {
	if report == nil || report.Result == nil || report.ActionPlan == nil {
		return "", fmt.Errorf("reporting: relatório incompleto")
	}

	summary := &report.Result.Summary

	view := reportView{
		Report:         report,
		ComparePeriods: report.Windows.ComparePeriods,
		Conversions:    summary.ActiveConversions,
		Devices:        devices(summary.DevicePerformance),
		Campaigns:      campaignsByConversions(summary.CampaignPerformance),
		Totals: totalsView{
			Conversions:       summary.TotalConversions(),
			Value:             summary.TotalValue(),
			PeriodConversions: summary.TotalPeriodConversions(),
			PeriodValue:       summary.TotalPeriodValue(),
		},
		Issues:         report.Result.Issues,
		Opportunities:  report.Result.Opportunities,
		Plan:           report.ActionPlan,
		HighPriority:   report.ActionPlan.ByPriority(domain.PriorityHigh),
		MediumPriority: report.ActionPlan.ByPriority(domain.PriorityMedium),
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "report.html", view); err != nil {
		return "", fmt.Errorf("reporting: erro ao renderizar relatório: %w", err)
	}

	return buf.String(), nil
}

// RenderError monta o corpo em texto do aviso de erro
func (r *Renderer) RenderError(err error) string {
	if err == nil {
		return errorPrefix + "unknown error"
	}
	return errorPrefix + err.Error()
}

func devices(performance domain.DevicePerformance) []deviceRow {
	rows := make([]deviceRow, 0, len(domain.Devices))
	for _, d := range domain.Devices {
		stats := domain.DeviceStats{}
		if s, ok := performance[d]; ok && s != nil {
			stats = *s
		}
		rows = append(rows, deviceRow{Device: d, Stats: stats})
	}
	return rows
}

// campaignsByConversions ordena por conversões, mantendo a ordem de inserção nos empates
func campaignsByConversions(performance *domain.CampaignPerformance) []*domain.CampaignStats {
	if performance == nil {
		return nil
	}

	campaigns := make([]*domain.CampaignStats, performance.Len())
	copy(campaigns, performance.Campaigns())

	sort.SliceStable(campaigns, func(i, j int) bool {
		return campaigns[i].Conversions > campaigns[j].Conversions
	})

	return campaigns
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatMoney arredonda para centavos só na exibição
func formatMoney(v float64) string {
	return strconv.FormatFloat(utils.RoundToCents(v), 'f', 2, 64)
}

// formatDevice exibe MOBILE como Mobile
func formatDevice(d domain.Device) string {
	s := string(d)
	if s == "" {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
