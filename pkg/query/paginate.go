package query

import "math"

// PaginatedList é uma página de resultados
type PaginatedList[T any] struct {
	Items       []T `json:"items"`
	TotalCount  int `json:"total_count"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalPages  int `json:"total_pages"`
}

// NewPaginatedList monta a página e calcula o total de páginas.
// totalCount deve ser a contagem após o filtro e antes do recorte da página.
func NewPaginatedList[T any](items []T, totalCount, page, size int) *PaginatedList[T] {
	if items == nil {
		items = []T{}
	}
	return &PaginatedList[T]{
		Items:       items,
		TotalCount:  totalCount,
		CurrentPage: page,
		PageSize:    size,
		TotalPages:  TotalPages(totalCount, size),
	}
}

// HasNext indica se existe uma próxima página
func (p *PaginatedList[T]) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// HasPrevious indica se existe uma página anterior
func (p *PaginatedList[T]) HasPrevious() bool {
	return p.CurrentPage > 1
}

// TotalPages calcula ceil(total/size)
func TotalPages(total, size int) int {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Offset retorna quantos itens pular para chegar à página.
// Páginas tão altas que o produto estouraria um int retornam math.MaxInt.
func Offset(page, size int) int {
	if page < 1 || size <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (page - 1) * size
}

// Paginate aplica filtro, contagem, ordenação e recorte, nesta ordem.
// A fatia de entrada não é modificada.
func Paginate[T any](items []T, filter *Filter[T], ordering Ordering[T], page, size int) *PaginatedList[T] {
	matched := make([]T, 0, len(items))
	for _, item := range items {
		if filter.Match(item) {
			matched = append(matched, item)
		}
	}

	total := len(matched)
	ordering.Sort(matched)

	start := Offset(page, size)
	if start > total {
		start = total
	}
	end := total
	if size > 0 && size < total-start {
		end = start + size
	}

	return NewPaginatedList(matched[start:end], total, page, size)
}
