package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/hugohenrick/erp-vendas/internal/domain/sale"
	"github.com/hugohenrick/erp-vendas/pkg/query"
	"github.com/shopspring/decimal"
)

// sqlArgs acumula os parâmetros posicionais de uma consulta
type sqlArgs struct {
	values []any
}

func (a *sqlArgs) add(v any) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", len(a.values))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereClause traduz as condições do filtro em SQL. Retorna "" quando não há condições.
func whereClause(f *query.Filter[*sale.Sale], args *sqlArgs) string {
	conditions := f.Conditions()
	if len(conditions) == 0 {
		return ""
	}

	parts := make([]string, 0, len(conditions))
	for _, c := range conditions {
		parts = append(parts, conditionSQL(c, args))
	}
	return "WHERE " + strings.Join(parts, " AND ")
}

func conditionSQL(c query.Condition[*sale.Sale], args *sqlArgs) string {
	col := c.Field.Column

	switch c.Operator {
	case query.OpContains:
		return fmt.Sprintf(`lower(%s) LIKE %s ESCAPE '\'`, col, args.add("%"+likeEscaper.Replace(c.Value.(string))+"%"))
	case query.OpPrefix:
		return fmt.Sprintf(`lower(%s) LIKE %s ESCAPE '\'`, col, args.add(likeEscaper.Replace(c.Value.(string))+"%"))
	case query.OpSuffix:
		return fmt.Sprintf(`lower(%s) LIKE %s ESCAPE '\'`, col, args.add("%"+likeEscaper.Replace(c.Value.(string))))
	case query.OpSameDay:
		day := c.Value.(time.Time).UTC().Truncate(24 * time.Hour)
		return fmt.Sprintf("(%s >= %s AND %s < %s)", col, args.add(day), col, args.add(day.Add(24*time.Hour)))
	case query.OpGreaterOrEq:
		return fmt.Sprintf("%s >= %s", col, sqlValue(c, args))
	case query.OpLessOrEq:
		return fmt.Sprintf("%s <= %s", col, sqlValue(c, args))
	default:
		if c.Field.Type == query.String {
			return fmt.Sprintf("lower(%s) = %s", col, args.add(c.Value.(string)))
		}
		return fmt.Sprintf("%s = %s", col, sqlValue(c, args))
	}
}

// sqlValue registra o valor tipado da condição
func sqlValue(c query.Condition[*sale.Sale], args *sqlArgs) string {
	switch v := c.Value.(type) {
	case decimal.Decimal:
		return args.add(v.String()) + "::numeric"
	case int64:
		return args.add(v) + "::bigint"
	default:
		return args.add(v)
	}
}

// orderClause traduz a ordenação em SQL. O id é sempre o último critério,
// para que a paginação seja estável.
func orderClause(o query.Ordering[*sale.Sale]) string {
	keys := o.Keys()
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		col := k.Field.Column
		if k.Field.Type == query.String {
			col = "lower(" + col + ")"
		}
		if k.Desc {
			parts = append(parts, col+" DESC NULLS LAST")
		} else {
			parts = append(parts, col+" ASC NULLS FIRST")
		}
	}
	parts = append(parts, "s.id")
	return "ORDER BY " + strings.Join(parts, ", ")
}
