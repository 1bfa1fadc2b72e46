package domain

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
)

// ActionItem é uma recomendação do plano de ação
type ActionItem struct {
	Priority Priority `json:"priority"`
	Type     string   `json:"type"`
	Action   string   `json:"action"`
	Tip      string   `json:"tip"`
	Affected []string `json:"affected"`
}

// ActionPlan é a lista priorizada de recomendações. Sem itens, o plano indica sucesso.
type ActionPlan struct {
	PrimaryConversions []string     `json:"primaryConversions"`
	Items              []ActionItem `json:"items"`
}

// Success indica que nenhuma recomendação foi gerada
func (p *ActionPlan) Success() bool {
	return len(p.Items) == 0
}

// ByPriority filtra os itens de uma prioridade mantendo a ordem original
func (p *ActionPlan) ByPriority(priority Priority) []ActionItem {
	items := make([]ActionItem, 0, len(p.Items))
	for _, item := range p.Items {
		if item.Priority == priority {
			items = append(items, item)
		}
	}
	return items
}
