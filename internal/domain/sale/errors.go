package sale

import (
	"errors"
	"fmt"
)

// ValidationError indica um dado de entrada malformado
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// DomainError indica a violação de uma regra de negócio da venda
type DomainError struct {
	Reason string
}

func (e *DomainError) Error() string {
	return e.Reason
}

// Erros de validação
var (
	ErrEmptySaleNumber     = &ValidationError{Field: "sale_number", Reason: "número da venda não pode ser vazio"}
	ErrSaleNumberTooLong   = &ValidationError{Field: "sale_number", Reason: "número da venda deve ter no máximo 50 caracteres"}
	ErrEmptySaleDate       = &ValidationError{Field: "sale_date", Reason: "data da venda é obrigatória"}
	ErrFutureSaleDate      = &ValidationError{Field: "sale_date", Reason: "data da venda não pode estar no futuro"}
	ErrEmptyCustomerID     = &ValidationError{Field: "customer_id", Reason: "cliente é obrigatório"}
	ErrCustomerNameTooLong = &ValidationError{Field: "customer_name", Reason: "nome do cliente deve ter no máximo 255 caracteres"}
	ErrEmptyBranch         = &ValidationError{Field: "branch", Reason: "filial não pode ser vazia"}
	ErrBranchTooLong       = &ValidationError{Field: "branch", Reason: "filial deve ter no máximo 100 caracteres"}
	ErrEmptyProductID      = &ValidationError{Field: "product_id", Reason: "produto é obrigatório"}
	ErrMissingProduct      = &ValidationError{Field: "product_details", Reason: "dados do produto são obrigatórios"}
	ErrEmptyProductTitle   = &ValidationError{Field: "product_details.title", Reason: "título do produto é obrigatório"}
	ErrProductTitleTooLong = &ValidationError{Field: "product_details.title", Reason: "título do produto deve ter no máximo 255 caracteres"}
	ErrEmptyCategory       = &ValidationError{Field: "product_details.category", Reason: "categoria do produto é obrigatória"}
	ErrCategoryTooLong     = &ValidationError{Field: "product_details.category", Reason: "categoria do produto deve ter no máximo 100 caracteres"}
	ErrInvalidPrice        = &ValidationError{Field: "product_details.price", Reason: "preço do produto deve ser maior que zero"}
	ErrEmptyImage          = &ValidationError{Field: "product_details.image", Reason: "imagem do produto é obrigatória"}
	ErrDuplicateItem       = &ValidationError{Field: "items", Reason: "o mesmo item foi informado mais de uma vez"}
	ErrInvalidPage         = &ValidationError{Field: "page", Reason: "página deve ser maior ou igual a 1"}
	ErrInvalidPageSize     = &ValidationError{Field: "size", Reason: "tamanho da página deve estar entre 1 e 100"}
)

// Erros de regra de negócio
var (
	ErrNoItems         = &DomainError{Reason: "a venda deve ter pelo menos um item"}
	ErrInvalidQuantity = &DomainError{Reason: "quantidade deve estar entre 1 e 20"}
)

// Erros da camada de persistência
var (
	ErrSaleNotFound        = errors.New("venda não encontrada")
	ErrConcurrencyConflict = errors.New("a venda foi alterada por outra operação")
)
