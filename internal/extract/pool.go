package extract

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"
	"time"
)

// Request asks a pool to extract spans from one image. Results, including
// progress updates, are sent on Reply.
type Request struct {
	ID         string
	Generation uint64
	Image      image.Image
	Reply      chan<- Result
}

// Result is a message from a worker. Progress updates carry a non-nil
// Progress; the single final message carries Spans or Err.
type Result struct {
	RequestID  string
	Generation uint64
	Progress   *Progress
	Spans      []Span
	Err        error
	Duration   time.Duration
}

// Final reports whether r is the terminal message for its request.
func (r Result) Final() bool { return r.Progress == nil }

// PoolStatus reports current pool state.
type PoolStatus struct {
	Name       string `json:"name"`
	Workers    int    `json:"workers"`
	InFlight   int    `json:"in_flight"`
	QueueDepth int    `json:"queue_depth"`
}

// Pool runs extraction requests on background workers. All workers share a
// single queue.
type Pool struct {
	name        string
	logger      *slog.Logger
	workerCount int
	pipeline    *Pipeline

	queue chan *Request

	inFlight atomic.Int32
}

// PoolConfig configures a new Pool.
type PoolConfig struct {
	Name        string
	Logger      *slog.Logger
	Pipeline    *Pipeline
	WorkerCount int // Default 1
	QueueSize   int // Default 4
}

// NewPool creates a pool. Call Start to run its workers.
func NewPool(cfg PoolConfig) *Pool {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := cfg.Name
	if name == "" {
		name = "extract"
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 4
	}

	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
	}

	return &Pool{
		name:        name,
		logger:      logger.With("pool", name, "workers", workerCount),
		workerCount: workerCount,
		pipeline:    cfg.Pipeline,
		queue:       make(chan *Request, queueSize),
	}
}

// Name returns the pool name.
func (p *Pool) Name() string {
	return p.name
}

// Pipeline returns the pipeline the workers run.
func (p *Pool) Pipeline() *Pipeline {
	return p.pipeline
}

// Start runs the workers. Blocks until ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	p.logger.Debug("extraction pool starting")
	for i := 0; i < p.workerCount; i++ {
		go p.worker(ctx, i)
	}
	<-ctx.Done()
	p.logger.Debug("extraction pool stopping")
}

// Submit queues a request without blocking.
func (p *Pool) Submit(req *Request) error {
	if req.Reply == nil {
		return fmt.Errorf("extraction request %s has no reply channel", req.ID)
	}
	select {
	case p.queue <- req:
		p.logger.Debug("accepted extraction request", "request_id", req.ID, "generation", req.Generation, "queue_len", len(p.queue))
		return nil
	default:
		p.logger.Warn("extraction queue full", "request_id", req.ID)
		return fmt.Errorf("%w: %s", ErrQueueFull, p.name)
	}
}

// Status returns current pool status.
func (p *Pool) Status() PoolStatus {
	return PoolStatus{
		Name:       p.name,
		Workers:    p.workerCount,
		InFlight:   int(p.inFlight.Load()),
		QueueDepth: len(p.queue),
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return

		case req := <-p.queue:
			p.inFlight.Add(1)
			result := p.process(ctx, req)
			p.inFlight.Add(-1)
			p.logger.Debug("extraction request completed", "worker_id", id, "request_id", req.ID, "spans", len(result.Spans), "error", result.Err)

			select {
			case req.Reply <- result:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (p *Pool) process(ctx context.Context, req *Request) Result {
	start := time.Now()
	result := Result{
		RequestID:  req.ID,
		Generation: req.Generation,
	}
	if p.pipeline == nil {
		result.Err = fmt.Errorf("%w: pool %s has no pipeline", ErrEngineUnavailable, p.name)
		return result
	}

	// Progress is best effort; a busy receiver just misses updates.
	report := func(pr Progress) {
		msg := Result{RequestID: req.ID, Generation: req.Generation, Progress: &pr}
		select {
		case req.Reply <- msg:
		default:
		}
	}

	result.Spans, result.Err = p.pipeline.Run(ctx, req.Image, report)
	result.Duration = time.Since(start)
	return result
}
