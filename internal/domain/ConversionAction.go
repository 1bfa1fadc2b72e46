package domain

// Device representa a categoria de dispositivo reportada pela plataforma de anúncios
type Device string

const (
	DeviceMobile  Device = "MOBILE"
	DeviceDesktop Device = "DESKTOP"
	DeviceTablet  Device = "TABLET"
)

// Devices é a ordem fixa em que os dispositivos são percorridos e exibidos
var Devices = []Device{DeviceMobile, DeviceDesktop, DeviceTablet}

// IsKnown indica se o dispositivo é um dos acompanhados pela auditoria
func (d Device) IsKnown() bool {
	for _, known := range Devices {
		if d == known {
			return true
		}
	}
	return false
}

// DeviceStats acumula conversões e valor de um dispositivo
type DeviceStats struct {
	Conversions float64 `json:"conversions"`
	Value       float64 `json:"value"`
}

// DevicePerformance mapeia dispositivo -> métricas
type DevicePerformance map[Device]*DeviceStats

// NewDevicePerformance cria o mapa já com as três entradas zeradas
func NewDevicePerformance() DevicePerformance {
	dp := make(DevicePerformance, len(Devices))
	for _, d := range Devices {
		dp[d] = &DeviceStats{}
	}
	return dp
}

// WindowMetrics são as métricas de uma janela de datas (últimos 30 dias ou período selecionado)
type WindowMetrics struct {
	Conversions       float64 `json:"conversions"`
	Value             float64 `json:"value"`
	Clicks            float64 `json:"clicks"`
	Cost              float64 `json:"cost"`
	ConversionRate    float64 `json:"conversionRate"`
	CostPerConversion float64 `json:"costPerConversion"`
}

// ApplyTraffic define cliques e custo e recalcula taxa de conversão e custo por conversão
func (m *WindowMetrics) ApplyTraffic(clicks, cost float64) {
	m.Clicks = clicks
	m.Cost = cost

	m.ConversionRate = 0
	if clicks > 0 {
		m.ConversionRate = m.Conversions / clicks * 100
	}

	m.CostPerConversion = 0
	if m.Conversions > 0 {
		m.CostPerConversion = cost / m.Conversions
	}
}

// Trends contém as séries semanais do período selecionado, em ordem crescente de semana
type Trends struct {
	WeeklyConversions []float64 `json:"weeklyConversions"`
	WeeklyValue       []float64 `json:"weeklyValue"`
}

// ConversionAction representa uma ação de conversão ativa e suas métricas derivadas
type ConversionAction struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Status               string  `json:"status"`
	Category             string  `json:"category"`
	CountingType         string  `json:"countingType"`
	DefaultValue         float64 `json:"defaultValue"`
	HasValue             bool    `json:"hasValue"`
	IncludeInConversions bool    `json:"includeInConversions"`
	IsPrimary            bool    `json:"isPrimary"`
	AttributionModel     string  `json:"attributionModel"`
	AppID                string  `json:"appId,omitempty"`
	Type                 string  `json:"type"`

	// Last30Days usa sempre a janela fixa dos últimos 30 dias
	Last30Days WindowMetrics `json:"last30Days"`
	// Period usa o período configurado na auditoria
	Period WindowMetrics `json:"period"`

	DevicePerformance DevicePerformance `json:"devicePerformance"`
	Trends            Trends            `json:"trends"`
}

// NewConversionAction cria uma ação de conversão com as métricas zeradas
func NewConversionAction(id, name string) *ConversionAction {
	return &ConversionAction{
		ID:                id,
		Name:              name,
		DevicePerformance: NewDevicePerformance(),
		Trends: Trends{
			WeeklyConversions: []float64{},
			WeeklyValue:       []float64{},
		},
	}
}
