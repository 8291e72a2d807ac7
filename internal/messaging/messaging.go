// Package messaging moves ingestion tasks between the API and the workers,
// over RabbitMQ in deployments and an in-memory queue for local runs.
package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	IngestQueue     = "ingest_queue"
	RetryDelay      = 5 * time.Second
	MaxConnectRetry = 5
)

type Task interface {
	Type() string

	Payload() []byte

	Ack() error

	Nack() error

	Reject() error
}

// IngestTaskPayload identifies one file of an ingest job. The worker looks up
// the task row for the object key.
type IngestTaskPayload struct {
	JobId  uuid.UUID
	TaskId int
}

type Publisher interface {
	PublishIngestTask(ctx context.Context, payload IngestTaskPayload) error

	Close()
}

type Reciever interface {
	Tasks() <-chan Task

	Close()
}
