package sale

import (
	"github.com/hugohenrick/erp-vendas/pkg/query"
)

// Schema registra os campos de venda que podem ser filtrados e ordenados
var Schema = query.NewSchema[*Sale](
	query.Field[*Sale]{Name: "id", Type: query.Identifier, Column: "s.id",
		Get: func(s *Sale) any { return s.id }},
	query.Field[*Sale]{Name: "saleNumber", Type: query.String, Column: "s.sale_number",
		Get: func(s *Sale) any { return s.saleNumber }},
	query.Field[*Sale]{Name: "saleDate", Type: query.Date, Column: "s.sale_date",
		Get: func(s *Sale) any { return s.saleDate }},
	query.Field[*Sale]{Name: "customerId", Type: query.Identifier, Column: "s.customer_id",
		Get: func(s *Sale) any { return s.customerID }},
	query.Field[*Sale]{Name: "customerName", Type: query.String, Column: "s.customer_name",
		Get: func(s *Sale) any { return s.customerName }},
	query.Field[*Sale]{Name: "branch", Type: query.String, Column: "s.branch",
		Get: func(s *Sale) any { return s.branch }},
	query.Field[*Sale]{Name: "totalAmount", Type: query.Decimal, Column: "s.total_amount",
		Get: func(s *Sale) any { return s.totalAmount }},
	query.Field[*Sale]{Name: "isCancelled", Type: query.Bool, Column: "s.is_cancelled",
		Get: func(s *Sale) any { return s.isCancelled }},
	query.Field[*Sale]{Name: "itemCount", Type: query.Integer,
		Column: "(SELECT count(*) FROM sale_items si WHERE si.sale_id = s.id)",
		Get:    func(s *Sale) any { return int64(len(s.items)) }},
	query.Field[*Sale]{Name: "createdAt", Type: query.Date, Column: "s.created_at",
		Get: func(s *Sale) any { return s.createdAt }},
	query.Field[*Sale]{Name: "updatedAt", Type: query.Date, Column: "s.updated_at",
		Get: func(s *Sale) any {
			if s.updatedAt == nil {
				return nil
			}
			return *s.updatedAt
		}},
)

// DefaultOrdering é usada quando nenhuma ordenação é informada: data da venda, mais recente primeiro
func DefaultOrdering() query.Ordering[*Sale] {
	f, _ := Schema.Lookup("saleDate")
	return query.OrderBy(query.OrderKey[*Sale]{Field: f, Desc: true})
}
