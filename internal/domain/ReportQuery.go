package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Resource é o recurso de relatório consultado
type Resource string

const (
	ResourceConversionAction Resource = "conversion_action"
	ResourceCustomer         Resource = "customer"
	ResourceCampaign         Resource = "campaign"
)

// DateField é o campo de segmento usado em todos os filtros de data
const DateField = "segments.date"

// DateRange é um intervalo de datas inclusivo
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
}

// Filter é uma condição de igualdade sobre um campo
type Filter struct {
	Field string
	Value string
}

// Order define a ordenação por um campo
type Order struct {
	Field string
	Desc  bool
}

// ReportQuery descreve uma consulta lógica: seleção de campos de um recurso,
// filtros de igualdade, janela de datas opcional e ordenação
type ReportQuery struct {
	Resource  Resource
	Fields    []string
	Filters   []Filter
	DateRange *DateRange
	OrderBy   []Order
}

// ReportRow é uma linha retornada pela fonte de dados, indexada pelo nome
// completo do campo (ex.: "metrics.clicks")
type ReportRow map[string]any

// String retorna o valor do campo como texto, vazio se ausente
func (r ReportRow) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}

	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Float converte o campo para número. Campos ausentes ou não numéricos valem 0.
func (r ReportRow) Float(field string) float64 {
	v, ok := r[field]
	if !ok || v == nil {
		return 0
	}

	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case bool:
		return 0
	default:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(r.String(field)), 64)
		if err != nil {
			return 0
		}
		f = parsed
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Bool compara o campo com "true" sem diferenciar maiúsculas
func (r ReportRow) Bool(field string) bool {
	if b, ok := r[field].(bool); ok {
		return b
	}
	return strings.EqualFold(strings.TrimSpace(r.String(field)), "true")
}
