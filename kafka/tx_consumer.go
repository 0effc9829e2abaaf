package kafka

import (
	// Go Internal Packages
	"context"
	"errors"

	// Local Packages
	models "paybot-console/models"

	// External Packages
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
)

type ConsumerConfig struct {
	Brokers        []string
	Name           string
	Topic          string
	RecordsPerPoll int
}

type Consumer struct {
	Client    *kgo.Client
	Config    *ConsumerConfig
	Processor EventProcessor
	Logger    *zap.Logger
}

type EventProcessor interface {
	ProcessRecords(ctx context.Context, records []models.Record) error
}

// NewEventConsumer creates a consumer of the backend's transaction events
// (PS: Must call Poll to start consuming the records)
func NewEventConsumer(conf *ConsumerConfig, logger *zap.Logger, processor EventProcessor, metrics *kprom.Metrics) (*Consumer, error) {
	c := &Consumer{Config: conf, Processor: processor, Logger: logger}

	opts := []kgo.Opt{
		kgo.SeedBrokers(conf.Brokers...),
		kgo.ConsumerGroup(conf.Name),
		kgo.ConsumeTopics(conf.Topic),
		kgo.DisableAutoCommit(),
		kgo.BlockRebalanceOnPoll(),
		// only changes made while the console is watching matter
		kgo.ConsumeResetOffset(kgo.NewOffset().AtEnd()),
	}
	if metrics != nil {
		opts = append(opts, kgo.WithHooks(metrics))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, err
	}

	c.Client = client
	return c, nil
}

// Poll consumes records until ctx is cancelled. A batch is committed only after the processor
// accepted it.
func (c *Consumer) Poll(ctx context.Context) error {
	defer c.Client.Close()

	for {
		if ctx.Err() != nil {
			c.Logger.Warn("polling stopped: context canceled")
			return ctx.Err()
		}

		fetches := c.Client.PollRecords(ctx, c.Config.RecordsPerPoll)
		if fetches.IsClientClosed() {
			return errors.New("kafka client closed")
		}
		if errors.Is(fetches.Err0(), context.Canceled) {
			return ctx.Err()
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.Logger.Error("fetch error", zap.String("topic", topic), zap.Int32("partition", partition), zap.Error(err))
		})

		fetched := fetches.Records()
		if len(fetched) == 0 {
			c.Client.AllowRebalance()
			continue
		}

		records := make([]models.Record, len(fetched))
		for idx, record := range fetched {
			records[idx] = models.Record{
				Key:   record.Key,
				Value: record.Value,
				Topic: record.Topic,
			}
		}

		if err := c.Processor.ProcessRecords(ctx, records); err != nil {
			c.Logger.Error("failed to process records", zap.String("consumer", c.Config.Name), zap.Error(err))
			c.Client.AllowRebalance()
			continue
		}

		if err := c.Client.CommitRecords(ctx, fetched...); err != nil {
			c.Logger.Warn("failed to commit records", zap.Error(err))
		}
		c.Client.AllowRebalance()
	}
}
