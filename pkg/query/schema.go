package query

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FieldType identifica o tipo de um campo consultável
type FieldType int

const (
	String FieldType = iota
	Bool
	Integer
	Decimal
	Date
	Identifier
)

// String retorna o nome do tipo
func (t FieldType) String() string {
	switch t {
	case String:
		return "string"
	case Bool:
		return "bool"
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	case Date:
		return "date"
	case Identifier:
		return "identifier"
	default:
		return "unknown"
	}
}

// ranged indica se o tipo suporta comparações de intervalo (_min/_max)
func (t FieldType) ranged() bool {
	return t == Integer || t == Decimal || t == Date
}

// Field descreve um campo de T que pode ser filtrado e ordenado.
//
// Get deve retornar o valor no tipo correspondente a Type: string, bool,
// int64, decimal.Decimal, time.Time ou uuid.UUID. nil representa um valor nulo.
type Field[T any] struct {
	Name   string
	Type   FieldType
	Column string
	Get    func(T) any
}

// Schema é o registro de campos de uma entidade, montado uma única vez
type Schema[T any] struct {
	fields map[string]Field[T]
	order  []string
}

// NewSchema cria um schema a partir da lista de campos
func NewSchema[T any](fields ...Field[T]) *Schema[T] {
	s := &Schema[T]{fields: make(map[string]Field[T], len(fields))}
	for _, f := range fields {
		key := normalizeName(f.Name)
		if _, exists := s.fields[key]; exists {
			panic("query: campo duplicado no schema: " + f.Name)
		}
		s.fields[key] = f
		s.order = append(s.order, f.Name)
	}
	return s
}

// Lookup busca um campo pelo nome, sem diferenciar maiúsculas e ignorando "_"
func (s *Schema[T]) Lookup(name string) (Field[T], bool) {
	f, ok := s.fields[normalizeName(name)]
	return f, ok
}

// Names retorna os nomes dos campos na ordem de registro
func (s *Schema[T]) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func normalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", ""))
}

// compareValues compara dois valores do mesmo tipo. Nulos vêm primeiro.
func compareValues(t FieldType, a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch t {
	case String:
		return strings.Compare(strings.ToLower(a.(string)), strings.ToLower(b.(string)))
	case Bool:
		av, bv := a.(bool), b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case Integer:
		av, bv := a.(int64), b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case Decimal:
		return a.(decimal.Decimal).Cmp(b.(decimal.Decimal))
	case Date:
		return a.(time.Time).Compare(b.(time.Time))
	case Identifier:
		av, bv := a.(uuid.UUID), b.(uuid.UUID)
		return strings.Compare(av.String(), bv.String())
	default:
		return 0
	}
}
