package query

import (
	"slices"
	"strings"
)

// OrderKey é um critério de ordenação
type OrderKey[T any] struct {
	Field Field[T]
	Desc  bool
}

// Ordering é a lista de critérios; cada critério desempata o anterior
type Ordering[T any] struct {
	keys []OrderKey[T]
}

// OrderBy monta uma ordenação diretamente a partir de chaves já resolvidas
func OrderBy[T any](keys ...OrderKey[T]) Ordering[T] {
	return Ordering[T]{keys: keys}
}

// Keys retorna os critérios na ordem de prioridade
func (o Ordering[T]) Keys() []OrderKey[T] {
	out := make([]OrderKey[T], len(o.keys))
	copy(out, o.keys)
	return out
}

// IsZero indica que nenhuma ordenação foi informada
func (o Ordering[T]) IsZero() bool {
	return len(o.keys) == 0
}

// Compare compara dois itens segundo todos os critérios
func (o Ordering[T]) Compare(a, b T) int {
	for _, k := range o.keys {
		c := compareValues(k.Field.Type, k.Field.Get(a), k.Field.Get(b))
		if c == 0 {
			continue
		}
		if k.Desc {
			return -c
		}
		return c
	}
	return 0
}

// Sort ordena os itens de forma estável
func (o Ordering[T]) Sort(items []T) {
	if o.IsZero() {
		return
	}
	slices.SortStableFunc(items, o.Compare)
}

// ParseOrder compila uma cláusula "campo [asc|desc], campo2 [asc|desc]".
//
// Campos desconhecidos geram *FilterError. Uma cláusula vazia retorna uma
// ordenação zero; cabe a quem chama aplicar a ordenação padrão.
func ParseOrder[T any](schema *Schema[T], clause string) (Ordering[T], error) {
	var keys []OrderKey[T]

	for _, token := range strings.Split(clause, ",") {
		parts := strings.Fields(token)
		if len(parts) == 0 {
			continue
		}
		if len(parts) > 2 {
			return Ordering[T]{}, &FilterError{Key: "orderBy", Value: strings.TrimSpace(token), Reason: "formato esperado: campo [asc|desc]"}
		}

		field, ok := schema.Lookup(parts[0])
		if !ok {
			return Ordering[T]{}, &FilterError{Key: "orderBy", Value: parts[0], Reason: "campo de ordenação desconhecido"}
		}

		desc := false
		if len(parts) == 2 {
			switch strings.ToLower(parts[1]) {
			case "asc":
			case "desc":
				desc = true
			default:
				return Ordering[T]{}, &FilterError{Key: "orderBy", Value: parts[1], Reason: "direção deve ser asc ou desc"}
			}
		}

		keys = append(keys, OrderKey[T]{Field: field, Desc: desc})
	}

	return Ordering[T]{keys: keys}, nil
}
