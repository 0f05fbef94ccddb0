package backend

import (
	"context"
	"fmt"
	"strings"

	"finman/internal/events"
	"finman/internal/events/amqp"
	"finman/internal/events/kafka"
	applog "finman/internal/log"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend. An unreachable AMQP broker
// degrades to a no-op publisher: events are notifications and the ledger
// works without them.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case NoneBackend:
		return f.createNoneBackend(ctx)
	case AMQPBackend:
		return f.createAMQPBackend(ctx, config)
	case KafkaBackend:
		return f.createKafkaBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createNoneBackend(ctx context.Context) (*BackendResult, error) {
	f.logger.InfoContext(ctx, "Ledger events disabled")
	pub := events.Nop{}
	return &BackendResult{Publisher: pub, Cleanup: pub.Close}, nil
}

func (f *DefaultFactory) createAMQPBackend(ctx context.Context, config Config) (*BackendResult, error) {
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", "error", err)
		pub := events.Nop{}
		return &BackendResult{Publisher: pub, Cleanup: pub.Close}, nil
	}

	f.logger.InfoContext(ctx, "Initialized AMQP events backend",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	return &BackendResult{
		Publisher: client,
		Cleanup:   client.Close,
	}, nil
}

func (f *DefaultFactory) createKafkaBackend(ctx context.Context, config Config) (*BackendResult, error) {
	pub := kafka.NewPublisher(config.KafkaBrokers, config.KafkaTopic)

	f.logger.InfoContext(ctx, "Initialized Kafka events backend",
		"brokers", strings.Join(config.KafkaBrokers, ","),
		"topic", config.KafkaTopic)

	return &BackendResult{
		Publisher: pub,
		Cleanup:   pub.Close,
	}, nil
}
