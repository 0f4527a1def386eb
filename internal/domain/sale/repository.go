package sale

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-vendas/pkg/query"
)

// ListQuery descreve uma consulta paginada já compilada
type ListQuery struct {
	Page     int
	Size     int
	Filter   *query.Filter[*Sale]
	Ordering query.Ordering[*Sale]
}

// Repository define a interface para operações de repositório de vendas
type Repository interface {
	// Create persiste uma nova venda com seus itens
	Create(ctx context.Context, s *Sale) (*Sale, error)

	// GetByID busca uma venda pelo ID. Retorna ErrSaleNotFound se não existir.
	GetByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// List retorna uma página de vendas filtradas e ordenadas
	List(ctx context.Context, q ListQuery) (*query.PaginatedList[*Sale], error)

	// Update grava a venda e seus itens. Retorna ErrConcurrencyConflict se a
	// versão lida estiver desatualizada, ou ErrSaleNotFound se a venda não existir.
	Update(ctx context.Context, s *Sale) (*Sale, error)

	// Delete remove a venda e seus itens. Retorna false se não existir.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
