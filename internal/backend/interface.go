package backend

import (
	"context"

	"finman/internal/events"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the publisher instance and its cleanup function
type BackendResult struct {
	Publisher events.Publisher
	Cleanup   CleanupFunc
}

// Factory creates event publishers based on configuration
type Factory interface {
	// CreateBackend creates a publisher for the configured backend type
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for publisher creation
type Config struct {
	Type BackendType

	// AMQP specific
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Kafka specific
	KafkaBrokers []string
	KafkaTopic   string
}

// BackendType represents the type of events backend
type BackendType string

const (
	NoneBackend  BackendType = "none"
	AMQPBackend  BackendType = "amqp"
	KafkaBackend BackendType = "kafka"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case NoneBackend, AMQPBackend, KafkaBackend:
		return true
	default:
		return false
	}
}
