package correlation

import (
	"context"
)

type contextKey string

// correlationIDKey é a chave usada para armazenar o correlation ID no contexto
const correlationIDKey contextKey = "correlation_id"

// HeaderName é o cabeçalho HTTP que transporta o correlation ID
const HeaderName = "X-Correlation-ID"

// WithID define o correlation ID no contexto
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// FromContext obtém o correlation ID do contexto, ou "" se ausente
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}
