package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	minPrefix = "_min"
	maxPrefix = "_max"
)

// chaves de paginação/ordenação que nunca são tratadas como filtro
var reservedKeys = map[string]struct{}{
	"page":    {},
	"size":    {},
	"orderby": {},
}

var reservedPrefixes = []string{"_page", "_size", "_order"}

// Operator é o operador de comparação de uma condição
type Operator string

const (
	OpEqual       Operator = "eq"
	OpSameDay     Operator = "same_day"
	OpGreaterOrEq Operator = "gte"
	OpLessOrEq    Operator = "lte"
	OpContains    Operator = "contains"
	OpPrefix      Operator = "prefix"
	OpSuffix      Operator = "suffix"
)

// FilterError indica um filtro ou ordenação que não pôde ser interpretado
type FilterError struct {
	Key    string
	Value  string
	Reason string
}

func (e *FilterError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("filtro inválido %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("filtro inválido %q=%q: %s", e.Key, e.Value, e.Reason)
}

// Condition é um predicado compilado sobre um único campo.
// Para operadores de texto Value é a string já em minúsculas, sem os curingas.
type Condition[T any] struct {
	Field    Field[T]
	Operator Operator
	Value    any
}

// Match avalia a condição contra um item
func (c Condition[T]) Match(item T) bool {
	v := c.Field.Get(item)
	if v == nil {
		return false
	}

	switch c.Operator {
	case OpContains:
		return strings.Contains(strings.ToLower(v.(string)), c.Value.(string))
	case OpPrefix:
		return strings.HasPrefix(strings.ToLower(v.(string)), c.Value.(string))
	case OpSuffix:
		return strings.HasSuffix(strings.ToLower(v.(string)), c.Value.(string))
	case OpSameDay:
		a := v.(time.Time).UTC()
		b := c.Value.(time.Time).UTC()
		return a.Year() == b.Year() && a.YearDay() == b.YearDay()
	case OpGreaterOrEq:
		return compareValues(c.Field.Type, v, c.Value) >= 0
	case OpLessOrEq:
		return compareValues(c.Field.Type, v, c.Value) <= 0
	default:
		if c.Field.Type == String {
			return strings.ToLower(v.(string)) == c.Value.(string)
		}
		return compareValues(c.Field.Type, v, c.Value) == 0
	}
}

// Filter é a conjunção (AND) de todas as condições
type Filter[T any] struct {
	conditions []Condition[T]
}

// Conditions retorna as condições compiladas
func (f *Filter[T]) Conditions() []Condition[T] {
	if f == nil {
		return nil
	}
	out := make([]Condition[T], len(f.conditions))
	copy(out, f.conditions)
	return out
}

// Empty indica se o filtro aceita qualquer item
func (f *Filter[T]) Empty() bool {
	return f == nil || len(f.conditions) == 0
}

// Match avalia todas as condições. Um filtro nil aceita tudo.
func (f *Filter[T]) Match(item T) bool {
	if f == nil {
		return true
	}
	for _, c := range f.conditions {
		if !c.Match(item) {
			return false
		}
	}
	return true
}

// BuildFilter compila um mapa campo→valor em um único filtro.
//
// Chaves desconhecidas sem prefixo são ignoradas; chaves _min/_max com campo
// desconhecido ou valor inválido retornam *FilterError.
func BuildFilter[T any](schema *Schema[T], filters map[string]string) (*Filter[T], error) {
	f := &Filter[T]{}

	// ordem determinística para que o mesmo mapa gere sempre o mesmo filtro
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := strings.TrimSpace(filters[key])
		name := strings.TrimSpace(key)
		if name == "" || value == "" || isReserved(name) {
			continue
		}

		lower := strings.ToLower(name)
		switch {
		case strings.HasPrefix(lower, minPrefix):
			c, err := rangeCondition(schema, key, name[len(minPrefix):], value, OpGreaterOrEq)
			if err != nil {
				return nil, err
			}
			f.conditions = append(f.conditions, c)

		case strings.HasPrefix(lower, maxPrefix):
			c, err := rangeCondition(schema, key, name[len(maxPrefix):], value, OpLessOrEq)
			if err != nil {
				return nil, err
			}
			f.conditions = append(f.conditions, c)

		default:
			field, ok := schema.Lookup(name)
			if !ok {
				continue
			}
			c, err := matchCondition(field, key, value)
			if err != nil {
				return nil, err
			}
			f.conditions = append(f.conditions, c)
		}
	}

	return f, nil
}

func isReserved(key string) bool {
	lower := strings.ToLower(key)
	if _, ok := reservedKeys[lower]; ok {
		return true
	}
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

func rangeCondition[T any](schema *Schema[T], key, fieldName, value string, op Operator) (Condition[T], error) {
	field, ok := schema.Lookup(fieldName)
	if !ok {
		return Condition[T]{}, &FilterError{Key: key, Value: value, Reason: "campo desconhecido"}
	}
	if !field.Type.ranged() {
		return Condition[T]{}, &FilterError{Key: key, Value: value, Reason: "intervalo não suportado para campo do tipo " + field.Type.String()}
	}
	parsed, err := ParseValue(field.Type, value)
	if err != nil {
		return Condition[T]{}, &FilterError{Key: key, Value: value, Reason: err.Error()}
	}
	return Condition[T]{Field: field, Operator: op, Value: parsed}, nil
}

func matchCondition[T any](field Field[T], key, value string) (Condition[T], error) {
	if field.Type == String {
		op, pattern := wildcard(value)
		return Condition[T]{Field: field, Operator: op, Value: strings.ToLower(pattern)}, nil
	}

	parsed, err := ParseValue(field.Type, value)
	if err != nil {
		return Condition[T]{}, &FilterError{Key: key, Value: value, Reason: err.Error()}
	}
	if field.Type == Date {
		return Condition[T]{Field: field, Operator: OpSameDay, Value: parsed}, nil
	}
	return Condition[T]{Field: field, Operator: OpEqual, Value: parsed}, nil
}

// wildcard traduz *x*, *x e x* em contém, termina com e começa com
func wildcard(value string) (Operator, string) {
	starts := strings.HasPrefix(value, "*")
	ends := strings.HasSuffix(value, "*")
	switch {
	case starts && ends:
		return OpContains, strings.Trim(value, "*")
	case starts:
		return OpSuffix, value[1:]
	case ends:
		return OpPrefix, value[:len(value)-1]
	default:
		return OpEqual, value
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseValue converte o texto para o tipo do campo
func ParseValue(t FieldType, value string) (any, error) {
	switch t {
	case String:
		return value, nil
	case Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("valor booleano inválido")
		}
		return b, nil
	case Integer:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("valor inteiro inválido")
		}
		return n, nil
	case Decimal:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("valor decimal inválido")
		}
		return d, nil
	case Date:
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, value); err == nil {
				return ts.UTC(), nil
			}
		}
		return nil, fmt.Errorf("data inválida")
	case Identifier:
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("identificador inválido")
		}
		return id, nil
	default:
		return nil, fmt.Errorf("tipo de campo não suportado")
	}
}
