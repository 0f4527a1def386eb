package saleapp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-vendas/internal/domain/event"
	"github.com/hugohenrick/erp-vendas/internal/domain/sale"
	"github.com/hugohenrick/erp-vendas/pkg/correlation"
	"github.com/hugohenrick/erp-vendas/pkg/logger"
	"github.com/hugohenrick/erp-vendas/pkg/query"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// CreateInput são os dados para criação de uma venda
type CreateInput struct {
	SaleNumber   string
	SaleDate     time.Time
	CustomerID   uuid.UUID
	CustomerName string
	Branch       string
	IsCancelled  bool
	Items        []sale.ItemSpec
}

// UpdateInput são os dados para atualização de uma venda. Items é a lista
// completa desejada; itens atuais ausentes são removidos.
type UpdateInput struct {
	SaleNumber   string
	SaleDate     time.Time
	CustomerID   uuid.UUID
	CustomerName string
	Branch       string
	IsCancelled  bool
	Items        []sale.ItemSpec
}

// ListInput são os parâmetros de listagem. Filters contém os pares
// campo→valor recebidos; chaves reservadas são ignoradas.
type ListInput struct {
	Page    int
	Size    int
	OrderBy string
	Filters map[string]string
}

// Service orquestra os casos de uso de vendas
type Service struct {
	repo      sale.Repository
	publisher event.Publisher
	logger    logger.Logger
}

// NewService cria uma nova instância de Service
func NewService(repo sale.Repository, publisher event.Publisher, logger logger.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Create cria e persiste uma nova venda
func (s *Service) Create(ctx context.Context, in CreateInput) (*sale.Sale, error) {
	newSale, err := sale.NewSale(in.SaleNumber, in.SaleDate, in.CustomerID, in.CustomerName, in.Branch, in.Items)
	if err != nil {
		return nil, err
	}
	if in.IsCancelled {
		newSale.Cancel()
	}

	created, err := s.repo.Create(ctx, newSale)
	if err != nil {
		s.logger.Error("erro ao salvar venda", "sale_number", in.SaleNumber, "error", err)
		return nil, fmt.Errorf("erro ao salvar venda: %w", err)
	}

	s.logger.Info("venda criada", "sale_id", created.ID(), "total_amount", created.TotalAmount().String())

	cid := correlation.FromContext(ctx)
	s.publish(ctx, event.Created(created.ID(), cid))
	if created.IsCancelled() {
		s.publish(ctx, event.Cancelled(created.ID(), cid))
	}

	return created, nil
}

// Get busca uma venda pelo ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	return s.repo.GetByID(ctx, id)
}

// List retorna uma página de vendas filtradas e ordenadas. Sem ordenação
// informada, as vendas mais recentes vêm primeiro.
func (s *Service) List(ctx context.Context, in ListInput) (*query.PaginatedList[*sale.Sale], error) {
	if in.Page < 1 {
		return nil, sale.ErrInvalidPage
	}
	if in.Size < 1 || in.Size > MaxPageSize {
		return nil, sale.ErrInvalidPageSize
	}

	filter, err := query.BuildFilter(sale.Schema, in.Filters)
	if err != nil {
		return nil, err
	}
	ordering, err := query.ParseOrder(sale.Schema, in.OrderBy)
	if err != nil {
		return nil, err
	}
	if ordering.IsZero() {
		ordering = sale.DefaultOrdering()
	}

	return s.repo.List(ctx, sale.ListQuery{
		Page:     in.Page,
		Size:     in.Size,
		Filter:   filter,
		Ordering: ordering,
	})
}

// Update altera o cabeçalho e reconcilia os itens de uma venda
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*sale.Sale, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wasCancelled := current.IsCancelled()
	if err := current.UpdateHeader(in.SaleNumber, in.SaleDate, in.CustomerID, in.CustomerName, in.Branch, in.IsCancelled); err != nil {
		return nil, err
	}
	if err := current.ReconcileItems(in.Items); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		s.logger.Warn("erro ao atualizar venda", "sale_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("venda atualizada", "sale_id", id, "items", updated.ItemCount(), "total_amount", updated.TotalAmount().String())

	cid := correlation.FromContext(ctx)
	if !wasCancelled && updated.IsCancelled() {
		s.publish(ctx, event.Cancelled(id, cid))
	}
	s.publish(ctx, event.Modified(id, cid))

	return updated, nil
}

// Cancel cancela uma venda. Cancelar uma venda já cancelada não gera evento.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !current.Cancel() {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		s.logger.Warn("erro ao cancelar venda", "sale_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("venda cancelada", "sale_id", id)
	s.publish(ctx, event.Cancelled(id, correlation.FromContext(ctx)))

	return updated, nil
}

// Delete remove uma venda
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("erro ao remover venda", "sale_id", id, "error", err)
		return fmt.Errorf("erro ao remover venda: %w", err)
	}
	if !deleted {
		return sale.ErrSaleNotFound
	}

	s.logger.Info("venda removida", "sale_id", id)
	s.publish(ctx, event.Deleted(id, correlation.FromContext(ctx)))
	return nil
}

// publish entrega o evento; falhas são apenas registradas
func (s *Service) publish(ctx context.Context, e event.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("falha ao publicar evento", "kind", e.Kind, "sale_id", e.AggregateID, "error", err)
	}
}
