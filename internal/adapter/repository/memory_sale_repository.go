package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-vendas/internal/domain/sale"
	"github.com/hugohenrick/erp-vendas/pkg/query"
)

// MemorySaleRepository implementa sale.Repository em memória.
// Guarda cópias das vendas; o token de versão é um contador por venda.
type MemorySaleRepository struct {
	mu    sync.RWMutex
	sales map[uuid.UUID]*sale.Sale
	order []uuid.UUID
}

// NewMemorySaleRepository cria uma nova instância de MemorySaleRepository
func NewMemorySaleRepository() *MemorySaleRepository {
	return &MemorySaleRepository{
		sales: make(map[uuid.UUID]*sale.Sale),
	}
}

// Create implementa sale.Repository.Create
func (r *MemorySaleRepository) Create(ctx context.Context, s *sale.Sale) (*sale.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := s.Clone()
	stored.StampVersion(1)
	r.sales[stored.ID()] = stored
	r.order = append(r.order, stored.ID())

	return stored.Clone(), nil
}

// GetByID implementa sale.Repository.GetByID
func (r *MemorySaleRepository) GetByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.sales[id]
	if !ok {
		return nil, sale.ErrSaleNotFound
	}
	return stored.Clone(), nil
}

// List implementa sale.Repository.List
func (r *MemorySaleRepository) List(ctx context.Context, q sale.ListQuery) (*query.PaginatedList[*sale.Sale], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	all := make([]*sale.Sale, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.sales[id].Clone())
	}
	r.mu.RUnlock()

	return query.Paginate(all, q.Filter, q.Ordering, q.Page, q.Size), nil
}

// Update implementa sale.Repository.Update
func (r *MemorySaleRepository) Update(ctx context.Context, s *sale.Sale) (*sale.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sales[s.ID()]
	if !ok {
		return nil, sale.ErrSaleNotFound
	}
	if current.Version() != s.Version() {
		return nil, sale.ErrConcurrencyConflict
	}

	stored := s.Clone()
	stored.StampVersion(current.Version() + 1)
	r.sales[stored.ID()] = stored

	return stored.Clone(), nil
}

// Delete implementa sale.Repository.Delete
func (r *MemorySaleRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sales[id]; !ok {
		return false, nil
	}
	delete(r.sales, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}
