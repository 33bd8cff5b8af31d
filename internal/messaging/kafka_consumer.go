package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
	"github.com/cypherlabdev/prediction-tracker-service/internal/service"
)

// errMalformed marks messages that can never be processed
var errMalformed = errors.New("malformed message")

// KafkaConsumer consumes payment confirmations from Kafka and applies them to subscriptions
type KafkaConsumer struct {
	reader    *kafka.Reader
	processor service.PaymentProcessor
	logger    zerolog.Logger
}

// KafkaConsumerConfig holds Kafka consumer configuration
type KafkaConsumerConfig struct {
	Brokers []string // e.g., ["localhost:9092"]
	Topic   string   // e.g., "vip_payments"
	GroupID string   // e.g., "prediction-tracker"
}

// NewKafkaConsumer creates a new Kafka consumer
func NewKafkaConsumer(
	config KafkaConsumerConfig,
	processor service.PaymentProcessor,
	logger zerolog.Logger,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        config.Brokers,
		Topic:          config.Topic,
		GroupID:        config.GroupID,
		MinBytes:       1,
		MaxBytes:       1e6, // 1MB
		CommitInterval: time.Second,
	})

	return &KafkaConsumer{
		reader:    reader,
		processor: processor,
		logger:    logger.With().Str("component", "kafka_consumer").Logger(),
	}
}

// Start begins consuming messages from Kafka
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("topic", c.reader.Config().Topic).
		Str("group_id", c.reader.Config().GroupID).
		Msg("started consuming from Kafka")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("stopping Kafka consumer")
			return c.reader.Close()

		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				c.logger.Error().Err(err).Msg("failed to fetch message")
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				if !isPermanent(err) {
					c.logger.Error().
						Err(err).
						Int64("offset", msg.Offset).
						Str("key", string(msg.Key)).
						Msg("failed to process message")
					// Not committed, but a later commit moves the offset past it: the payment is dropped, not retried
					continue
				}
				c.logger.Warn().
					Err(err).
					Int64("offset", msg.Offset).
					Str("key", string(msg.Key)).
					Msg("skipping unprocessable message")
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error().Err(err).Msg("failed to commit message")
			}
		}
	}
}

// processMessage applies a single payment confirmation
func (c *KafkaConsumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var event models.PaymentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}

	c.logger.Debug().
		Str("reference", event.Reference).
		Str("user_id", event.UserID).
		Str("status", event.Status).
		Msg("processing payment event")

	if err := c.processor.ApplyPayment(ctx, &event); err != nil {
		return fmt.Errorf("failed to apply payment %s: %w", event.Reference, err)
	}

	return nil
}

// isPermanent reports whether retrying the message can never succeed
func isPermanent(err error) bool {
	return errors.Is(err, errMalformed) || errors.Is(err, models.ErrValidationFailed)
}

// Close closes the Kafka reader
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
