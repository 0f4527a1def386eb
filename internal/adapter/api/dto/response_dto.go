package dto

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-vendas/pkg/correlation"
)

// ErrorResponse é o corpo das respostas de erro da API de vendas.
// CorrelationID repete o cabeçalho X-Correlation-ID para facilitar a busca nos logs.
type ErrorResponse struct {
	Code          int    `json:"code"`
	Message       string `json:"message"`
	Details       string `json:"details,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// NewErrorResponse cria uma nova resposta de erro para a requisição
func NewErrorResponse(ctx context.Context, code int, message, details string) ErrorResponse {
	return ErrorResponse{
		Code:          code,
		Message:       message,
		Details:       details,
		CorrelationID: correlation.FromContext(ctx),
	}
}

// DeleteSaleResponse confirma a remoção de uma venda
type DeleteSaleResponse struct {
	ID            string `json:"id"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// NewDeleteSaleResponse cria a confirmação de remoção
func NewDeleteSaleResponse(ctx context.Context, id uuid.UUID) DeleteSaleResponse {
	return DeleteSaleResponse{
		ID:            id.String(),
		Message:       "venda removida com sucesso",
		CorrelationID: correlation.FromContext(ctx),
	}
}
