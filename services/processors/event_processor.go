package processors

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"fmt"

	// Local Packages
	models "paybot-console/models"

	// External Packages
	"go.uber.org/zap"
)

const undecodableReason = "undecodable transaction event"

type DeadLetterQueue interface {
	Send(ctx context.Context, records []models.Record, reason string) error
}

// Refresher reloads the transaction feed.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// EventProcessor turns a batch of backend transaction events into at most one feed refresh.
type EventProcessor struct {
	Logger *zap.Logger
	DLQ    DeadLetterQueue
	Feed   Refresher
}

// NewEventProcessor creates a processor. dlq may be nil, in which case undecodable events are
// only logged.
func NewEventProcessor(logger *zap.Logger, dlq DeadLetterQueue, feed Refresher) *EventProcessor {
	return &EventProcessor{Logger: logger, DLQ: dlq, Feed: feed}
}

func (p *EventProcessor) ProcessRecords(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	var (
		bad     []models.Record
		changed []string
	)
	for _, record := range records {
		var ev models.TxEvent
		if err := json.Unmarshal(record.Value, &ev); err != nil || ev.TransactionID == "" {
			p.Logger.Error("failed to unmarshal transaction event", zap.ByteString("key", record.Key), zap.Error(err))
			bad = append(bad, record)
			continue
		}
		changed = append(changed, ev.TransactionID.String())
	}

	if len(bad) > 0 && p.DLQ != nil {
		if err := p.DLQ.Send(ctx, bad, undecodableReason); err != nil {
			return fmt.Errorf("failed to dead-letter %d records: %w", len(bad), err)
		}
	}
	if len(changed) == 0 {
		return nil
	}

	p.Logger.Info("transaction events received, refreshing feed", zap.Strings("transactions", changed))
	if err := p.Feed.Refresh(ctx); err != nil {
		// the events are consumed either way; the next event or manual refresh retries
		p.Logger.Warn("feed refresh after events failed", zap.Error(err))
	}
	return nil
}
