package redis

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"fmt"
	"time"

	// Local Packages
	models "paybot-console/models"

	// External Packages
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type deadLetter struct {
	Topic    string    `json:"topic"`
	Key      string    `json:"key"`
	Value    string    `json:"value"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}

type DeadLetterQueue struct {
	client   *redis.Client
	logger   *zap.Logger
	listName string
}

func NewDeadLetterQueue(client *redis.Client, logger *zap.Logger, listName string) *DeadLetterQueue {
	return &DeadLetterQueue{client: client, logger: logger, listName: listName}
}

// Send appends every undecodable transaction event to the dead-letter list. It fails when any
// record could not be stored.
func (r *DeadLetterQueue) Send(ctx context.Context, records []models.Record, reason string) error {
	if len(records) == 0 {
		return nil
	}

	successCount := 0
	for _, record := range records {
		jsonData, err := json.Marshal(deadLetter{
			Topic:    record.Topic,
			Key:      string(record.Key),
			Value:    string(record.Value),
			Reason:   reason,
			FailedAt: time.Now().UTC(),
		})
		if err != nil {
			r.logger.Error("failed to marshal record", zap.Error(err))
			continue
		}

		err = r.client.RPush(ctx, r.listName, jsonData).Err()
		if err != nil {
			r.logger.Error("failed to store record", zap.String("key", string(record.Key)), zap.Error(err))
			continue
		}
		successCount++
	}

	if successCount > 0 {
		r.logger.Info("sent records to dead-letter queue", zap.Int("count", successCount), zap.String("list", r.listName))
	}
	if successCount < len(records) {
		return fmt.Errorf("stored %d of %d records in %s", successCount, len(records), r.listName)
	}
	return nil
}
