package broker

import (
	"context"
	"encoding/json"
)

// Queue names.
const (
	QueueEmail = "jobs:email"
)

// Job is the envelope stored on a queue.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JobBroker moves background jobs between the API and the workers.
type JobBroker interface {
	Enqueue(ctx context.Context, queue, jobType string, payload any) error
	// Dequeue blocks until a job arrives or the context ends. It returns
	// nil, nil when nothing arrived before its poll timeout.
	Dequeue(ctx context.Context, queues ...string) (*Delivery, error)
	Close() error
}

// Delivery is a job taken off a named queue.
type Delivery struct {
	Queue string
	Job   Job
}
