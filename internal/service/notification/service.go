package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cruisehub/reseller-backend-go/internal/domain/notification"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	config Config

	notifyQueue chan notification.CreateNotificationRequest
	auditQueue  chan notification.AuditRecord
	wg          sync.WaitGroup
	stopCh      chan struct{}
}

// NewNotificationService creates the fire-and-forget sink backed by background
// workers. Enqueueing never blocks the caller: a full queue drops the event
// with a warning, because a sink failure must never fail the state transition
// that produced it.
func NewNotificationService(repo notification.Repository, cfg Config) notification.Service {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:        repo,
		config:      cfg,
		notifyQueue: make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		auditQueue:  make(chan notification.AuditRecord, cfg.QueueSize),
		stopCh:      make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.notifyWorker()
	}
	s.wg.Add(1)
	go s.auditWorker()

	slog.Info("Notification sink started",
		"workers", cfg.WorkerCount, "batch_size", cfg.BatchSize, "flush_interval", cfg.FlushInterval)

	return s
}

func (s *service) Notify(req notification.CreateNotificationRequest) {
	select {
	case s.notifyQueue <- req:
	default:
		slog.Warn("Notification queue full, dropping event", "type", req.Type, "recipient", req.RecipientID)
	}
}

func (s *service) Audit(record notification.AuditRecord) {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	select {
	case s.auditQueue <- record:
	default:
		slog.Warn("Audit queue full, dropping record", "action", record.Action, "entity", record.EntityID)
	}
}

func (s *service) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]notification.Notification, error) {
	return s.repo.ListByRecipient(ctx, recipientID, unreadOnly)
}

func (s *service) MarkRead(ctx context.Context, id, recipientID string) error {
	return s.repo.MarkRead(ctx, id, recipientID)
}

// Shutdown stops the workers after draining whatever is queued.
func (s *service) Shutdown() {
	close(s.stopCh)
	s.wg.Wait()
	slog.Info("Notification sink stopped")
}

func (s *service) notifyWorker() {
	defer s.wg.Done()

	batch := make([]*notification.Notification, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			slog.Error("Failed to persist notification batch", "count", len(batch), "error", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.notifyQueue:
			batch = append(batch, &notification.Notification{
				ID:          uuid.New().String(),
				RecipientID: req.RecipientID,
				SenderID:    req.SenderID,
				Type:        req.Type,
				Title:       req.Title,
				Message:     req.Message,
				Data:        req.Data,
				CreatedAt:   time.Now(),
			})
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain remaining events before exit
			for {
				select {
				case req := <-s.notifyQueue:
					batch = append(batch, &notification.Notification{
						ID:          uuid.New().String(),
						RecipientID: req.RecipientID,
						SenderID:    req.SenderID,
						Type:        req.Type,
						Title:       req.Title,
						Message:     req.Message,
						Data:        req.Data,
						CreatedAt:   time.Now(),
					})
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *service) auditWorker() {
	defer s.wg.Done()

	batch := make([]*notification.AuditRecord, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.repo.CreateAuditBatch(ctx, batch); err != nil {
			slog.Error("Failed to persist audit batch", "count", len(batch), "error", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case rec := <-s.auditQueue:
			rec.ID = uuid.New().String()
			record := rec
			batch = append(batch, &record)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			for {
				select {
				case rec := <-s.auditQueue:
					rec.ID = uuid.New().String()
					record := rec
					batch = append(batch, &record)
				default:
					flush()
					return
				}
			}
		}
	}
}
