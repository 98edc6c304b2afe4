package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/upb/yamdb/internal/requestmeta"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"github.com/upb/yamdb/services"
	"go.uber.org/zap"
)

var (
	ErrNotRunning = errors.New("audit service not running")
	ErrQueueFull  = errors.New("audit queue full")
)

type state int

const (
	stateIdle state = iota
	stateRunning
	stateStopped
)

// Config sizes the moderation audit queue.
type Config struct {
	BufferSize    int
	WorkerCount   int
	InsertTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{BufferSize: 1000, WorkerCount: 2, InsertTimeout: 5 * time.Second}
}

// AuditService persists moderation entries off the request path. Entries
// are queued by Record and written by a fixed set of workers; Stop drains
// whatever is still queued.
type AuditService struct {
	repo   repositories.AuditRepository
	logger *zap.Logger
	cfg    Config

	queue chan *models.AuditLog
	wg    sync.WaitGroup

	// insertCtx is cancelled once Stop returns so stuck inserts give up
	insertCtx context.Context
	cancel    context.CancelFunc

	mu    sync.RWMutex
	state state

	written atomic.Int64
	dropped atomic.Int64
}

func NewAuditService(repo repositories.AuditRepository, logger *zap.Logger, cfg Config) *AuditService {
	if cfg.InsertTimeout <= 0 {
		cfg.InsertTimeout = DefaultConfig().InsertTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AuditService{
		repo:      repo,
		logger:    logger.Named("audit"),
		cfg:       cfg,
		queue:     make(chan *models.AuditLog, cfg.BufferSize),
		insertCtx: ctx,
		cancel:    cancel,
	}
}

func (s *AuditService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateIdle {
		return errors.New("audit service already started")
	}

	for i := range s.cfg.WorkerCount {
		s.wg.Add(1)
		go s.drain(i)
	}
	s.state = stateRunning

	s.logger.Info("audit queue started",
		zap.Int("workers", s.cfg.WorkerCount),
		zap.Int("buffer", s.cfg.BufferSize))
	return nil
}

// Stop closes the queue and waits up to timeout for the workers to flush it.
func (s *AuditService) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if s.state != stateRunning {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.state = stateStopped
	close(s.queue)
	s.mu.Unlock()

	defer s.cancel()
	pending := len(s.queue)

	flushed := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(flushed)
	}()

	select {
	case <-flushed:
		s.logger.Info("audit queue flushed",
			zap.Int("pending_at_stop", pending),
			zap.Int64("written", s.written.Load()),
			zap.Int64("dropped", s.dropped.Load()))
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("audit service stop timeout after %v with %d entries pending", timeout, len(s.queue))
	}
}

// Record queues entry without blocking. Request metadata from ctx is
// attached when the entry has none of its own.
func (s *AuditService) Record(ctx context.Context, entry *models.AuditLog) error {
	if entry.RequestID == "" {
		if meta, ok := requestmeta.From(ctx); ok {
			entry.WithRequest(meta.RequestID, meta.IPAddress, meta.UserAgent)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != stateRunning {
		return ErrNotRunning
	}

	select {
	case s.queue <- entry:
		return nil
	default:
		s.dropped.Add(1)
		s.logger.Warn("audit queue full, entry dropped",
			zap.String("action", string(entry.Action)),
			zap.String("resource", entry.ResourceType),
			zap.Stringer("resource_id", entry.ResourceID))
		return ErrQueueFull
	}
}

// List returns audit entries, newest first
func (s *AuditService) List(ctx context.Context, params repositories.ListParams) ([]*models.AuditLog, int, error) {
	logs, total, err := s.repo.List(ctx, services.NormalizeListParams(params))
	if err != nil {
		return nil, 0, services.WrapInternal("database error", err)
	}
	return logs, total, nil
}

func (s *AuditService) drain(worker int) {
	defer s.wg.Done()
	log := s.logger.With(zap.Int("worker", worker))

	for entry := range s.queue {
		ctx, cancel := context.WithTimeout(s.insertCtx, s.cfg.InsertTimeout)
		err := s.repo.Insert(ctx, entry)
		cancel()

		if err != nil {
			log.Error("failed to persist audit entry",
				zap.Error(err),
				zap.String("action", string(entry.Action)),
				zap.Stringer("actor_id", entry.ActorID))
			continue
		}
		s.written.Add(1)
	}
}

// Stats is a point-in-time snapshot of the queue.
type Stats struct {
	BufferSize    int
	PendingEvents int
	WorkerCount   int
	Started       bool
	Written       int64
	Dropped       int64
}

func (s *AuditService) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		BufferSize:    s.cfg.BufferSize,
		PendingEvents: len(s.queue),
		WorkerCount:   s.cfg.WorkerCount,
		Started:       s.state == stateRunning,
		Written:       s.written.Load(),
		Dropped:       s.dropped.Load(),
	}
}
