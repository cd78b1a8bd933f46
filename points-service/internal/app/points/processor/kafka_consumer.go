package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"triple/pkg/logger"
	"triple/pkg/metrics"
	"triple/points-service/internal/app/points/entity"
	"triple/points-service/internal/app/points/service"
	"triple/points-service/internal/app/points/util"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"
)

const (
	serviceName = "points-service"

	// Повторы внутри consumer для временных ошибок (конфликт сериализации, сбой БД)
	maxProcessAttempts = 3
	retryBackoff       = 200 * time.Millisecond
)

// errPoisonMessage - сообщение не разбирается или не проходит валидацию,
// повторная обработка не поможет
var errPoisonMessage = errors.New("poison message")

// messageReader - часть kafka.Reader, которая нужна consumer
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Stats() kafka.ReaderStats
	Close() error
}

// KafkaConsumer читает события отзывов из топика review_events и начисляет баллы
type KafkaConsumer struct {
	reader      messageReader
	distributor service.DistributorInterface
	validate    *validator.Validate
	topic       string
	groupID     string
	stopChan    chan struct{}
	doneChan    chan struct{}
}

func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	distributor service.DistributorInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: minBytes,
		MaxBytes: maxBytes,
		// Новая группа обрабатывает всю историю событий
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return newKafkaConsumer(reader, topic, groupID, distributor)
}

func newKafkaConsumer(reader messageReader, topic, groupID string, distributor service.DistributorInterface) *KafkaConsumer {
	return &KafkaConsumer{
		reader:      reader,
		distributor: distributor,
		validate:    util.NewValidator(),
		topic:       topic,
		groupID:     groupID,
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().
		Str("topic", c.topic).
		Str("group_id", c.groupID).
		Msg("Starting Kafka consumer")

	go c.consume(ctx)
}

// Stop дожидается завершения текущего сообщения и закрывает reader
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer")
	close(c.stopChan)
	<-c.doneChan
	if err := c.reader.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close Kafka reader")
	}
	logger.Info().Msg("Kafka consumer stopped")
}

func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}

		readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		message, err := c.reader.FetchMessage(readCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			logger.Error().Err(err).Msg("Error fetching message")
			metrics.RecordKafkaError(serviceName, c.topic, "fetch")
			time.Sleep(time.Second)
			continue
		}

		c.handle(ctx, message)
	}
}

// handle обрабатывает сообщение и решает, коммитить ли offset
func (c *KafkaConsumer) handle(ctx context.Context, message kafka.Message) {
	start := time.Now()
	err := c.processWithRetry(ctx, message)
	outcome := classify(err)

	log := logger.FromContext(messageContext(ctx, message))
	switch outcome {
	case outcomePoison:
		log.Warn().Err(err).Msg("Dropping review event")
	case outcomeRetry:
		// Без коммита: сообщение будет прочитано повторно после перезапуска или ребаланса группы
		log.Error().Err(err).Msg("Review event left uncommitted")
	}

	if outcome != outcomeRetry {
		if err := c.reader.CommitMessages(ctx, message); err != nil {
			log.Error().Err(err).Msg("Error committing message")
			metrics.RecordKafkaError(serviceName, c.topic, "commit")
		}
	}

	metrics.RecordKafkaMessageConsumed(serviceName, c.topic, c.groupID, outcome, time.Since(start))
}

func (c *KafkaConsumer) processWithRetry(ctx context.Context, message kafka.Message) error {
	var err error
	for attempt := 1; attempt <= maxProcessAttempts; attempt++ {
		err = c.processMessage(ctx, message)
		if classify(err) != outcomeRetry {
			return err
		}
		if attempt == maxProcessAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return err
		case <-c.stopChan:
			return err
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}
	return err
}

// processMessage разбирает одно сообщение и передает событие distributor
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event entity.ReviewEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("%w: failed to unmarshal review event: %v", errPoisonMessage, err)
	}
	if err := c.validate.Struct(&event); err != nil {
		return fmt.Errorf("%w: invalid review event: %v", errPoisonMessage, err)
	}

	ctx = messageContext(ctx, message)
	logger.FromContext(ctx).Debug().
		Str("action", string(event.Action)).
		Str("review_id", event.ReviewID.String()).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received review event")

	if _, err := c.distributor.Distribute(ctx, &event); err != nil {
		return fmt.Errorf("failed to distribute review event: %w", err)
	}
	return nil
}

// GetStats возвращает статистику reader
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}

const (
	outcomeCommitted = "committed"
	outcomePoison    = "poison"
	outcomeRetry     = "retry"
)

func classify(err error) string {
	switch {
	case err == nil:
		return outcomeCommitted
	case errors.Is(err, errPoisonMessage), service.IsPermanentError(err):
		return outcomePoison
	}
	return outcomeRetry
}

// messageContext помечает логи сообщения request id из заголовка или координатами в топике
func messageContext(ctx context.Context, message kafka.Message) context.Context {
	for _, h := range message.Headers {
		if h.Key == logger.RequestIDHeader && len(h.Value) > 0 {
			return logger.WithRequestID(ctx, string(h.Value))
		}
	}
	return logger.WithRequestID(ctx, message.Topic+"/"+strconv.Itoa(message.Partition)+"/"+strconv.FormatInt(message.Offset, 10))
}
