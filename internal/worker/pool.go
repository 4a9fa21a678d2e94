package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/aromakopi/pos-backend/internal/broker"
	"github.com/aromakopi/pos-backend/pkg/logger"
	"go.uber.org/zap"
)

// Handler processes one job payload.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Pool runs goroutines that pull jobs off the broker and hand them to the
// handler registered for the job type.
type Pool struct {
	broker   broker.JobBroker
	queues   []string
	handlers map[string]Handler
	size     int
	wg       sync.WaitGroup
}

func NewPool(b broker.JobBroker, size int, queues ...string) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		broker:   b,
		queues:   queues,
		handlers: make(map[string]Handler),
		size:     size,
	}
}

// Register binds a handler to a job type. Call before Start.
func (p *Pool) Register(jobType string, h Handler) {
	p.handlers[jobType] = h
}

// Start launches the workers. They stop when ctx is cancelled; Wait blocks
// until they have all returned.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	logger.Log.Info("Worker pool started",
		zap.Int("workers", p.size),
		zap.Strings("queues", p.queues),
	)
}

func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		if ctx.Err() != nil {
			logger.Log.Info("Worker shutting down", zap.Int("worker", id))
			return
		}

		delivery, err := p.broker.Dequeue(ctx, p.queues...)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logger.Log.Error("Failed to dequeue job", zap.Int("worker", id), zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		if delivery == nil {
			continue
		}

		p.dispatch(ctx, id, delivery)
	}
}

func (p *Pool) dispatch(ctx context.Context, id int, d *broker.Delivery) {
	h, ok := p.handlers[d.Job.Type]
	if !ok {
		logger.Log.Warn("No handler for job type",
			zap.String("type", d.Job.Type),
			zap.String("queue", d.Queue),
		)
		return
	}

	start := time.Now()
	if err := h.Process(ctx, d.Job.Payload); err != nil {
		logger.Log.Error("Job failed",
			zap.Int("worker", id),
			zap.String("type", d.Job.Type),
			zap.Error(err),
		)
		return
	}

	logger.Log.Info("Job processed",
		zap.Int("worker", id),
		zap.String("type", d.Job.Type),
		zap.Duration("duration", time.Since(start)),
	)
}
