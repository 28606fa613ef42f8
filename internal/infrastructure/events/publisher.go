// Package events publishes committed stock movements.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"backoffice/internal/config"
	"backoffice/internal/domain"
)

var jsonMarshal = json.Marshal

const queueSize = 1000

// Publisher is called after commit. Implementations must not block the request.
type Publisher interface {
	Publish(ctx context.Context, event domain.StockEvent)
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer    KafkaWriter
	events    chan domain.StockEvent
	logger    *zap.Logger
	closeChan chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func NewKafkaPublisher(cfg config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		Topic:                  cfg.Topic,
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	return newKafkaPublisher(writer, queueSize, logger)
}

func newKafkaPublisher(writer KafkaWriter, size int, logger *zap.Logger) *KafkaPublisher {
	p := &KafkaPublisher{
		writer:    writer,
		events:    make(chan domain.StockEvent, size),
		logger:    logger.Named("kafka_publisher"),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}

	go p.eventLoop()
	return p
}

// Publish enqueues the event, dropping it when the queue is full.
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.StockEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	select {
	case p.events <- event:
	default:
		p.logger.Warn("kafka publisher queue full, dropping event",
			zap.String("eventType", string(event.Type)),
			zap.Int64("productId", event.ProductID),
		)
	}
}

func (p *KafkaPublisher) eventLoop() {
	defer close(p.done)
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *KafkaPublisher) sendEvent(ctx context.Context, event domain.StockEvent) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("failed to serialize event",
			zap.Error(err),
			zap.Int64("productId", event.ProductID),
		)
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ProductID, 10)),
		Value: value,
	})
	if err != nil {
		p.logger.Error("failed to publish event",
			zap.Error(err),
			zap.String("eventType", string(event.Type)),
			zap.Int64("productId", event.ProductID),
		)
	}
}

// Close stops the loop without draining the queue and closes the writer.
func (p *KafkaPublisher) Close() {
	p.closeOnce.Do(func() {
		close(p.closeChan)
		<-p.done
		if err := p.writer.Close(); err != nil {
			p.logger.Error("failed to close kafka writer", zap.Error(err))
		}
	})
}

// NopPublisher discards events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event domain.StockEvent) {}

// NewPublisher returns a Kafka publisher when brokers are configured and a
// NopPublisher otherwise. The returned close func is never nil.
func NewPublisher(cfg config.KafkaConfig, logger *zap.Logger) (Publisher, func()) {
	if len(cfg.Brokers) == 0 {
		logger.Info("no kafka brokers configured, stock events disabled")
		return NopPublisher{}, func() {}
	}

	p := NewKafkaPublisher(cfg, logger)
	logger.Info("publishing stock events",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
	)
	return p, p.Close
}
