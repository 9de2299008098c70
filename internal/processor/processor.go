package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nimasrn/ppob-gateway/internal/queue"
	"github.com/nimasrn/ppob-gateway/pkg/logger"
	"github.com/nimasrn/ppob-gateway/pkg/redis"
	"github.com/nimasrn/ppob-gateway/pkg/worker"
)

const (
	ProcessingTimeout = 5 * time.Second
	HealthInterval    = 30 * time.Second
	MetricsInterval   = 30 * time.Second
	ShutdownTimeout   = time.Minute

	highLagThreshold = 10_000
)

type Processor interface {
	Process(ctx context.Context, message *queue.Message) error
	GetType() string
}

type Config struct {
	Queue       queue.QueueConfig
	Consumers   int
	Workers     int
	BufferSize  int
	Timeout     time.Duration
	HealthEvery time.Duration
}

// ProcessorService fans messages from several stream consumers into one
// worker pool and acks each only after its processor returns.
type ProcessorService struct {
	adapter   redis.RedisAdapter
	config    Config
	processor Processor
	log       *logger.ZapLogger
	queues    []*queue.Queue
	metrics   *ServiceMetrics
	worker    *worker.WorkerManager
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewProcessorService(adapter redis.RedisAdapter, processor Processor, cfg Config) (*ProcessorService, error) {
	if processor == nil {
		return nil, errors.New("processor is required")
	}
	if cfg.Consumers < 1 {
		cfg.Consumers = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = ProcessingTimeout
	}
	if cfg.HealthEvery == 0 {
		cfg.HealthEvery = HealthInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &ProcessorService{
		adapter:   adapter,
		config:    cfg,
		processor: processor,
		log:       logger.With("processor", processor.GetType()),
		metrics:   NewServiceMetrics(),
		worker:    worker.NewWorkerManager(cfg.BufferSize, cfg.Workers),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

func (s *ProcessorService) Metrics() MetricsSnapshot {
	return s.metrics.Snapshot()
}

func (s *ProcessorService) Start() error {
	logger.Info("starting processor service", "processor", s.processor.GetType())

	s.worker.SetWorker(s.workerHandler)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.worker.Start()
	}()

	for i := 0; i < s.config.Consumers; i++ {
		qc := s.config.Queue
		qc.ConsumerName = fmt.Sprintf("%s-instance-%d", qc.ConsumerName, i)

		q, err := queue.NewQueue(s.adapter, qc)
		if err != nil {
			return fmt.Errorf("failed to create queue consumer %d: %w", i, err)
		}
		if err := q.Consume(s.messageHandler); err != nil {
			return fmt.Errorf("failed to start consumer %d: %w", i, err)
		}
		s.queues = append(s.queues, q)
	}

	s.wg.Add(2)
	go s.every(MetricsInterval, s.reportMetrics)
	go s.every(s.config.HealthEvery, s.performHealthCheck)

	logger.Info("processor service started",
		"stream", s.config.Queue.Name,
		"consumers", len(s.queues),
		"workers", s.config.Workers)
	return nil
}

func (s *ProcessorService) every(interval time.Duration, fn func()) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fn()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *ProcessorService) reportMetrics() {
	m := s.metrics.Snapshot()
	logger.Info("processor metrics",
		"recorded", m.Recorded,
		"skipped", m.Skipped,
		"failed", m.Failed,
		"rate_per_second", m.RatePerSecond,
		"avg_duration_ms", m.AvgDuration.Milliseconds(),
		"uptime_seconds", int64(m.Uptime.Seconds()))

	if len(s.queues) == 0 {
		return
	}
	if stats, err := s.queues[0].GetStats(s.ctx); err == nil {
		logger.Info("stream stats",
			"stream", s.config.Queue.Name,
			"total", stats.TotalMessages,
			"pending", stats.PendingMessages,
			"dead_letters", stats.DeadLetters)
	}
}

func (s *ProcessorService) performHealthCheck() {
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()

	if err := s.adapter.Ping(ctx); err != nil {
		logger.Error("health check failed: redis unreachable", "error", err)
		return
	}
	if len(s.queues) == 0 {
		return
	}
	stats, err := s.queues[0].GetStats(ctx)
	if err != nil {
		logger.Warn("health check: stream stats unavailable", "error", err)
		return
	}
	if stats.PendingMessages > highLagThreshold {
		logger.Warn("health check: stream has high lag", "pending_messages", stats.PendingMessages)
	}
}

// Stop stops consuming, drains the pool and waits for background loops.
func (s *ProcessorService) Stop() {
	logger.Info("shutting down processor service")

	var wg sync.WaitGroup
	for i, q := range s.queues {
		wg.Add(1)
		go func(index int, q *queue.Queue) {
			defer wg.Done()
			if err := q.Stop(ShutdownTimeout); err != nil {
				logger.Error("error stopping consumer", "consumer", index, "error", err)
			}
		}(i, q)
	}
	wg.Wait()

	s.cancel()
	s.worker.Exit()
	s.wg.Wait()

	s.reportMetrics()
	logger.Info("processor service stopped")
}

type job struct {
	ctx    context.Context
	msg    *queue.Message
	result chan error
}

// messageHandler hands the message to the pool and waits for the verdict,
// so the queue acks only what a worker finished.
func (s *ProcessorService) messageHandler(ctx context.Context, msg *queue.Message) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout+time.Second)
	defer cancel()

	j := &job{ctx: ctx, msg: msg, result: make(chan error, 1)}
	if err := s.worker.Enqueue(ctx, j); err != nil {
		return fmt.Errorf("enqueue message %s: %w", msg.ID, err)
	}

	select {
	case err := <-j.result:
		return err
	case <-ctx.Done():
		return fmt.Errorf("timeout waiting for worker to process message: %w", ctx.Err())
	}
}

func (s *ProcessorService) workerHandler(workerIndex int, v interface{}) {
	j, ok := v.(*job)
	if !ok {
		s.log.Error("invalid job type in worker", "worker", workerIndex)
		return
	}
	if j.ctx.Err() != nil {
		return
	}

	ctx, cancel := context.WithTimeout(j.ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	err := s.processor.Process(ctx, j.msg)
	switch {
	case err == nil:
		s.metrics.RecordSuccess(time.Since(start))
	case errors.Is(err, errSkipped):
		s.metrics.RecordSkip()
		err = nil
	default:
		s.metrics.RecordFailure()
		s.log.Error("failed to process message",
			"worker", workerIndex,
			"stream_id", j.msg.ID,
			"attempts", j.msg.Attempts,
			"error", err)
	}

	j.result <- err
}
