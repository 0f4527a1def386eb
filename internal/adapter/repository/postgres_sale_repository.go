package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-vendas/internal/domain/sale"
	"github.com/hugohenrick/erp-vendas/internal/infrastructure/database"
	"github.com/hugohenrick/erp-vendas/pkg/query"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const saleColumns = `
	s.id, s.sale_number, s.sale_date, s.customer_id, s.customer_name, s.branch,
	s.total_amount::text, s.is_cancelled, s.created_at, s.updated_at, s.xmin::text::bigint`

const itemColumns = `
	id, sale_id, product_id, quantity, discount::text, unit_price::text, total_amount::text,
	product_title, product_category, product_price::text, product_image, created_at, updated_at`

// PostgresSaleRepository implementa a interface sale.Repository usando PostgreSQL.
// O token de versão é a coluna de sistema xmin da linha da venda.
type PostgresSaleRepository struct {
	db *database.PostgresDB
}

// NewPostgresSaleRepository cria uma nova instância de PostgresSaleRepository
func NewPostgresSaleRepository(db *database.PostgresDB) *PostgresSaleRepository {
	return &PostgresSaleRepository{
		db: db,
	}
}

// Create implementa sale.Repository.Create
func (r *PostgresSaleRepository) Create(ctx context.Context, s *sale.Sale) (*sale.Sale, error) {
	st := s.State()

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		stmt := `
			INSERT INTO sales (
				id, sale_number, sale_date, customer_id, customer_name, branch,
				total_amount, is_cancelled, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6,
				$7, $8, $9, $10
			)
			RETURNING xmin::text::bigint
		`

		err := tx.QueryRow(ctx, stmt,
			st.ID,
			st.SaleNumber,
			st.SaleDate,
			st.CustomerID,
			st.CustomerName,
			st.Branch,
			st.TotalAmount.String(),
			st.IsCancelled,
			st.CreatedAt,
			st.UpdatedAt,
		).Scan(&st.Version)
		if err != nil {
			return fmt.Errorf("falha ao inserir venda: %w", err)
		}

		return r.upsertItems(ctx, tx, st.Items)
	})
	if err != nil {
		return nil, err
	}

	return sale.RestoreSale(st), nil
}

// GetByID implementa sale.Repository.GetByID
func (r *PostgresSaleRepository) GetByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	pool := r.db.Pool()

	st, err := scanSale(pool.QueryRow(ctx, "SELECT"+saleColumns+" FROM sales s WHERE s.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sale.ErrSaleNotFound
		}
		return nil, fmt.Errorf("falha ao buscar venda: %w", err)
	}

	items, err := r.loadItems(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	st.Items = items[id]

	return sale.RestoreSale(st), nil
}

// List implementa sale.Repository.List
func (r *PostgresSaleRepository) List(ctx context.Context, q sale.ListQuery) (*query.PaginatedList[*sale.Sale], error) {
	pool := r.db.Pool()

	args := &sqlArgs{}
	where := whereClause(q.Filter, args)

	var total int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM sales s "+where, args.values...).Scan(&total); err != nil {
		return nil, fmt.Errorf("falha ao contar vendas: %w", err)
	}

	skip := query.Offset(q.Page, q.Size)
	if skip >= total {
		return query.NewPaginatedList[*sale.Sale](nil, total, q.Page, q.Size), nil
	}

	limit := args.add(q.Size)
	offset := args.add(skip)
	sql := fmt.Sprintf("SELECT%s FROM sales s %s %s LIMIT %s OFFSET %s",
		saleColumns, where, orderClause(q.Ordering), limit, offset)

	rows, err := pool.Query(ctx, sql, args.values...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar vendas: %w", err)
	}
	defer rows.Close()

	var states []sale.State
	for rows.Next() {
		st, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler venda: %w", err)
		}
		states = append(states, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao listar vendas: %w", err)
	}

	ids := make([]uuid.UUID, len(states))
	for i, st := range states {
		ids[i] = st.ID
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	sales := make([]*sale.Sale, 0, len(states))
	for _, st := range states {
		st.Items = items[st.ID]
		sales = append(sales, sale.RestoreSale(st))
	}

	return query.NewPaginatedList(sales, total, q.Page, q.Size), nil
}

// Update implementa sale.Repository.Update
func (r *PostgresSaleRepository) Update(ctx context.Context, s *sale.Sale) (*sale.Sale, error) {
	st := s.State()

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		stmt := `
			UPDATE sales SET
				sale_number = $2,
				sale_date = $3,
				customer_id = $4,
				customer_name = $5,
				branch = $6,
				total_amount = $7,
				is_cancelled = $8,
				updated_at = $9
			WHERE id = $1 AND xmin::text::bigint = $10
			RETURNING xmin::text::bigint
		`

		err := tx.QueryRow(ctx, stmt,
			st.ID,
			st.SaleNumber,
			st.SaleDate,
			st.CustomerID,
			st.CustomerName,
			st.Branch,
			st.TotalAmount.String(),
			st.IsCancelled,
			st.UpdatedAt,
			st.Version,
		).Scan(&st.Version)
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM sales WHERE id = $1)", st.ID).Scan(&exists); err != nil {
				return fmt.Errorf("falha ao verificar venda: %w", err)
			}
			if !exists {
				return sale.ErrSaleNotFound
			}
			return sale.ErrConcurrencyConflict
		}
		if err != nil {
			return fmt.Errorf("falha ao atualizar venda: %w", err)
		}

		keep := make([]string, len(st.Items))
		for i, item := range st.Items {
			keep[i] = item.ID.String()
		}
		_, err = tx.Exec(ctx, "DELETE FROM sale_items WHERE sale_id = $1 AND NOT (id = ANY($2::uuid[]))", st.ID, keep)
		if err != nil {
			return fmt.Errorf("falha ao remover itens da venda: %w", err)
		}

		return r.upsertItems(ctx, tx, st.Items)
	})
	if err != nil {
		return nil, err
	}

	return sale.RestoreSale(st), nil
}

// Delete implementa sale.Repository.Delete
func (r *PostgresSaleRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Pool().Exec(ctx, "DELETE FROM sales WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("falha ao remover venda: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// upsertItems grava os itens em lote, preservando a ordem pela coluna position
func (r *PostgresSaleRepository) upsertItems(ctx context.Context, tx pgx.Tx, items []sale.ItemState) error {
	stmt := `
		INSERT INTO sale_items (
			id, sale_id, position, product_id, quantity, discount, unit_price, total_amount,
			product_title, product_category, product_price, product_image, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14
		)
		ON CONFLICT (id) DO UPDATE SET
			position = EXCLUDED.position,
			product_id = EXCLUDED.product_id,
			quantity = EXCLUDED.quantity,
			discount = EXCLUDED.discount,
			unit_price = EXCLUDED.unit_price,
			total_amount = EXCLUDED.total_amount,
			product_title = EXCLUDED.product_title,
			product_category = EXCLUDED.product_category,
			product_price = EXCLUDED.product_price,
			product_image = EXCLUDED.product_image,
			updated_at = EXCLUDED.updated_at
	`

	batch := &pgx.Batch{}
	for i, item := range items {
		batch.Queue(stmt,
			item.ID,
			item.SaleID,
			i,
			item.ProductID,
			item.Quantity,
			item.Discount.String(),
			item.UnitPrice.String(),
			item.TotalAmount.String(),
			item.Product.Title,
			item.Product.Category,
			item.Product.Price.String(),
			item.Product.Image,
			item.CreatedAt,
			item.UpdatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range items {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("falha ao gravar item da venda: %w", err)
		}
	}
	return results.Close()
}

// loadItems busca os itens das vendas informadas, agrupados por venda
func (r *PostgresSaleRepository) loadItems(ctx context.Context, saleIDs []uuid.UUID) (map[uuid.UUID][]sale.ItemState, error) {
	out := make(map[uuid.UUID][]sale.ItemState, len(saleIDs))
	if len(saleIDs) == 0 {
		return out, nil
	}

	ids := make([]string, len(saleIDs))
	for i, id := range saleIDs {
		ids[i] = id.String()
	}

	rows, err := r.db.Pool().Query(ctx,
		"SELECT"+itemColumns+" FROM sale_items WHERE sale_id = ANY($1::uuid[]) ORDER BY sale_id, position", ids)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar itens da venda: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler item da venda: %w", err)
		}
		out[item.SaleID] = append(out[item.SaleID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao buscar itens da venda: %w", err)
	}

	return out, nil
}

func scanSale(row pgx.Row) (sale.State, error) {
	var (
		st    sale.State
		total string
	)

	err := row.Scan(
		&st.ID,
		&st.SaleNumber,
		&st.SaleDate,
		&st.CustomerID,
		&st.CustomerName,
		&st.Branch,
		&total,
		&st.IsCancelled,
		&st.CreatedAt,
		&st.UpdatedAt,
		&st.Version,
	)
	if err != nil {
		return sale.State{}, err
	}

	if st.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return sale.State{}, fmt.Errorf("valor total inválido %q: %w", total, err)
	}
	st.SaleDate = st.SaleDate.UTC()
	st.CreatedAt = st.CreatedAt.UTC()
	st.UpdatedAt = utcPtr(st.UpdatedAt)

	return st, nil
}

func scanItem(row pgx.Row) (sale.ItemState, error) {
	var item sale.ItemState
	var discount, unitPrice, total, price string

	err := row.Scan(
		&item.ID,
		&item.SaleID,
		&item.ProductID,
		&item.Quantity,
		&discount,
		&unitPrice,
		&total,
		&item.Product.Title,
		&item.Product.Category,
		&price,
		&item.Product.Image,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return sale.ItemState{}, err
	}

	for _, p := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&item.Discount, discount},
		{&item.UnitPrice, unitPrice},
		{&item.TotalAmount, total},
		{&item.Product.Price, price},
	} {
		if *p.dst, err = decimal.NewFromString(p.src); err != nil {
			return sale.ItemState{}, fmt.Errorf("valor decimal inválido %q: %w", p.src, err)
		}
	}
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = utcPtr(item.UpdatedAt)

	return item, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
