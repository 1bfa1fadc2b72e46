package auditing

import (
	"time"

	"github.com/vfg2006/conversion-audit/internal/config"
	"github.com/vfg2006/conversion-audit/internal/domain"
	"github.com/vfg2006/conversion-audit/pkg/utils"
)

// BaselineDays é o tamanho da janela fixa usada nas métricas "últimos 30 dias"
const BaselineDays = 30

// DateRangeResolver calcula o período selecionado e a janela fixa de 30 dias
type DateRangeResolver struct {
	period config.AuditPeriod
	now    func() time.Time
}

func NewDateRangeResolver(period config.AuditPeriod, now func() time.Time) *DateRangeResolver {
	if now == nil {
		now = time.Now
	}
	return &DateRangeResolver{period: period, now: now}
}

// Resolve usa a data de execução como "hoje". Datas explícitas só valem quando as duas estão definidas.
func (r *DateRangeResolver) Resolve() domain.AuditWindows {
	today := utils.StartOfDay(r.now())

	days := r.period.Days
	if days <= 0 {
		days = BaselineDays
	}

	explicit := r.period.StartDate != nil && !r.period.StartDate.IsZero() &&
		r.period.EndDate != nil && !r.period.EndDate.IsZero()

	var period domain.DateRange
	if explicit {
		period = domain.DateRange{
			Start: utils.StartOfDay(*r.period.StartDate),
			End:   utils.StartOfDay(*r.period.EndDate),
		}
	} else {
		period = domain.DateRange{
			Start: today.AddDate(0, 0, -days),
			End:   today,
		}
	}

	return domain.AuditWindows{
		Period: period,
		Last30Days: domain.DateRange{
			Start: today.AddDate(0, 0, -BaselineDays),
			End:   today,
		},
		ComparePeriods: explicit || days != BaselineDays,
	}
}
