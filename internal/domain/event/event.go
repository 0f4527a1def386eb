package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind identifica o tipo de evento de venda
type Kind string

const (
	KindSaleCreated   Kind = "sale.created"
	KindSaleModified  Kind = "sale.modified"
	KindSaleCancelled Kind = "sale.cancelled"
	KindSaleDeleted   Kind = "sale.deleted"
)

// Event é um fato ocorrido com uma venda, emitido após a persistência
type Event struct {
	Kind          Kind      `json:"type"`
	AggregateID   uuid.UUID `json:"sale_id"`
	OccurredOn    time.Time `json:"occurred_on"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

func newEvent(kind Kind, id uuid.UUID, correlationID string) Event {
	return Event{
		Kind:          kind,
		AggregateID:   id,
		OccurredOn:    time.Now().UTC(),
		CorrelationID: correlationID,
	}
}

// Created indica que uma venda foi criada
func Created(id uuid.UUID, correlationID string) Event {
	return newEvent(KindSaleCreated, id, correlationID)
}

// Modified indica que uma venda foi alterada
func Modified(id uuid.UUID, correlationID string) Event {
	return newEvent(KindSaleModified, id, correlationID)
}

// Cancelled indica que uma venda foi cancelada
func Cancelled(id uuid.UUID, correlationID string) Event {
	return newEvent(KindSaleCancelled, id, correlationID)
}

// Deleted indica que uma venda foi removida
func Deleted(id uuid.UUID, correlationID string) Event {
	return newEvent(KindSaleDeleted, id, correlationID)
}

// Publisher entrega eventos a um destino externo
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
