package domain

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type IssueType string

const (
	IssueNoValue            IssueType = "no_value"
	IssueNoConversions      IssueType = "no_conversions"
	IssueLowConversionRate  IssueType = "low_conversion_rate"
	IssueDeviceOptimization IssueType = "device_optimization"
	IssueDecliningTrend     IssueType = "declining_trend"
)

// Issue é um problema ou oportunidade detectado em uma ação de conversão
type Issue struct {
	Type       IssueType `json:"type"`
	Severity   Severity  `json:"severity"`
	Conversion string    `json:"conversion"`
	Message    string    `json:"message"`
}

// ConversionContribution é a contribuição de uma ação de conversão para uma campanha
type ConversionContribution struct {
	ConversionAction string  `json:"conversionAction"`
	Conversions      float64 `json:"conversions"`
	Value            float64 `json:"value"`
}

// CampaignStats acumula as conversões de uma campanha e a contribuição de cada ação
type CampaignStats struct {
	Name              string                    `json:"name"`
	Conversions       float64                   `json:"conversions"`
	Value             float64                   `json:"value"`
	ConversionActions []*ConversionContribution `json:"conversionActions"`

	actionIndex map[string]int
}

// ConversionAction retorna a contribuição registrada para a ação informada
func (c *CampaignStats) ConversionAction(name string) (*ConversionContribution, bool) {
	i, ok := c.actionIndex[name]
	if !ok {
		return nil, false
	}
	return c.ConversionActions[i], true
}

// CampaignPerformance é o mapa campanha -> métricas, preservando a ordem em que
// cada campanha apareceu pela primeira vez
type CampaignPerformance struct {
	campaigns []*CampaignStats
	index     map[string]int
}

func NewCampaignPerformance() *CampaignPerformance {
	return &CampaignPerformance{
		campaigns: make([]*CampaignStats, 0),
		index:     make(map[string]int),
	}
}

// Fold soma uma linha (campanha, ação) aos totais da campanha, criando a entrada
// na primeira ocorrência. A contribuição da ação é sobrescrita, não somada.
func (p *CampaignPerformance) Fold(campaign, conversionAction string, conversions, value float64) {
	i, ok := p.index[campaign]
	if !ok {
		i = len(p.campaigns)
		p.index[campaign] = i
		p.campaigns = append(p.campaigns, &CampaignStats{
			Name:              campaign,
			ConversionActions: make([]*ConversionContribution, 0),
			actionIndex:       make(map[string]int),
		})
	}

	stats := p.campaigns[i]
	stats.Conversions += conversions
	stats.Value += value

	if contribution, exists := stats.ConversionAction(conversionAction); exists {
		contribution.Conversions = conversions
		contribution.Value = value
		return
	}

	stats.actionIndex[conversionAction] = len(stats.ConversionActions)
	stats.ConversionActions = append(stats.ConversionActions, &ConversionContribution{
		ConversionAction: conversionAction,
		Conversions:      conversions,
		Value:            value,
	})
}

// Get retorna as métricas de uma campanha
func (p *CampaignPerformance) Get(campaign string) (*CampaignStats, bool) {
	i, ok := p.index[campaign]
	if !ok {
		return nil, false
	}
	return p.campaigns[i], true
}

// Campaigns retorna as campanhas na ordem da primeira ocorrência
func (p *CampaignPerformance) Campaigns() []*CampaignStats {
	return p.campaigns
}

func (p *CampaignPerformance) Len() int {
	return len(p.campaigns)
}

// TotalConversions soma as conversões de todas as campanhas
func (p *CampaignPerformance) TotalConversions() float64 {
	total := 0.0
	for _, c := range p.campaigns {
		total += c.Conversions
	}
	return total
}

func (p *CampaignPerformance) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.campaigns)
}

// Summary agrega as visões filtradas e os acumuladores por dispositivo e campanha
type Summary struct {
	ActiveConversions   []*ConversionAction  `json:"activeConversions"`
	NoValueSet          []*ConversionAction  `json:"noValueSet"`
	NoConversions30Days []*ConversionAction  `json:"noConversions30Days"`
	LowConvRate         []*ConversionAction  `json:"lowConvRate"`
	DevicePerformance   DevicePerformance    `json:"devicePerformance"`
	CampaignPerformance *CampaignPerformance `json:"campaignPerformance"`
}

// AuditResult é o resultado de uma execução da auditoria
type AuditResult struct {
	Total         int     `json:"total"`
	Issues        []Issue `json:"issues"`
	Opportunities []Issue `json:"opportunities"`
	Summary       Summary `json:"summary"`
}

func NewAuditResult() *AuditResult {
	return &AuditResult{
		Issues:        make([]Issue, 0),
		Opportunities: make([]Issue, 0),
		Summary: Summary{
			ActiveConversions:   make([]*ConversionAction, 0),
			NoValueSet:          make([]*ConversionAction, 0),
			NoConversions30Days: make([]*ConversionAction, 0),
			LowConvRate:         make([]*ConversionAction, 0),
			DevicePerformance:   NewDevicePerformance(),
			CampaignPerformance: NewCampaignPerformance(),
		},
	}
}

// AddDevice soma conversões e valor de um dispositivo ao total geral
func (s *Summary) AddDevice(device Device, conversions, value float64) {
	stats, ok := s.DevicePerformance[device]
	if !ok {
		stats = &DeviceStats{}
		s.DevicePerformance[device] = stats
	}
	stats.Conversions += conversions
	stats.Value += value
}

// TotalConversions soma as conversões dos últimos 30 dias de todas as ações ativas
func (s *Summary) TotalConversions() float64 {
	total := 0.0
	for _, c := range s.ActiveConversions {
		total += c.Last30Days.Conversions
	}
	return total
}

// TotalValue soma o valor dos últimos 30 dias de todas as ações ativas
func (s *Summary) TotalValue() float64 {
	total := 0.0
	for _, c := range s.ActiveConversions {
		total += c.Last30Days.Value
	}
	return total
}

func (s *Summary) TotalPeriodConversions() float64 {
	total := 0.0
	for _, c := range s.ActiveConversions {
		total += c.Period.Conversions
	}
	return total
}

func (s *Summary) TotalPeriodValue() float64 {
	total := 0.0
	for _, c := range s.ActiveConversions {
		total += c.Period.Value
	}
	return total
}
