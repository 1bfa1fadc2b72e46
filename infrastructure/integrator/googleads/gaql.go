package googleads

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/conversion-audit/internal/domain"
)

var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// quote transforma o valor em literal GAQL entre aspas simples
func quote(value string) string {
	return "'" + literalEscaper.Replace(value) + "'"
}

// BuildQuery traduz a consulta lógica para GAQL. Os valores são escritos como
// literais porque a linguagem não aceita parâmetros.
func BuildQuery(q domain.ReportQuery) (string, error) {
	if q.Resource == "" || len(q.Fields) == 0 {
		return "", errors.New("google ads: consulta sem recurso ou campos")
	}

	builder := squirrel.Select(q.Fields...).From(string(q.Resource))

	for _, f := range q.Filters {
		builder = builder.Where(squirrel.Expr(fmt.Sprintf("%s = %s", f.Field, quote(f.Value))))
	}

	if q.DateRange != nil {
		builder = builder.Where(squirrel.Expr(fmt.Sprintf(
			"%s BETWEEN %s AND %s",
			domain.DateField,
			quote(q.DateRange.Start.Format(time.DateOnly)),
			quote(q.DateRange.End.Format(time.DateOnly)),
		)))
	}

	for _, o := range q.OrderBy {
		direction := "ASC"
		if o.Desc {
			direction = "DESC"
		}
		builder = builder.OrderBy(o.Field + " " + direction)
	}

	query, _, err := builder.ToSql()
	if err != nil {
		return "", errors.Wrap(err, "google ads: erro ao montar consulta")
	}

	return query, nil
}
