package messaging

import (
	"context"

	"github.com/hugohenrick/erp-vendas/internal/domain/event"
	"github.com/hugohenrick/erp-vendas/pkg/logger"
)

// LogPublisher registra os eventos no log. Usado quando não há broker configurado.
type LogPublisher struct {
	logger logger.Logger
}

// NewLogPublisher cria uma nova instância de LogPublisher
func NewLogPublisher(logger logger.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish implementa event.Publisher.Publish
func (p *LogPublisher) Publish(_ context.Context, e event.Event) error {
	p.logger.Info("evento de venda",
		"kind", string(e.Kind),
		"sale_id", e.AggregateID.String(),
		"occurred_on", e.OccurredOn,
		"correlation_id", e.CorrelationID,
	)
	return nil
}
