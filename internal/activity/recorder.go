package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-web/console-core/internal/session"
)

// RetryEnqueuer hands a failed entry to the background queue.
type RetryEnqueuer interface {
	EnqueueActivityRetry(ctx context.Context, entry Entry) error
}

// FailureCounter surfaces dropped writes to operational monitoring.
type FailureCounter interface {
	ActivityWriteFailed()
}

// Recorder appends one immutable entry per administrative action.
//
// A failed write never blocks the primary action: the entry is queued
// for retry and the failure counted, but the error is returned so the
// boundary can log it. Anyone relying on log completeness must watch
// the failure metric; gaps are possible when both stores are down.
type Recorder struct {
	repo    RepositoryPort
	retry   RetryEnqueuer
	metrics FailureCounter
	logger  *slog.Logger
	now     func() time.Time
}

// NewRecorder constructs a Recorder. retry and metrics may be nil.
func NewRecorder(repo RepositoryPort, retry RetryEnqueuer, metrics FailureCounter, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{repo: repo, retry: retry, metrics: metrics, logger: logger, now: time.Now}
}

// Record stamps and appends one entry, snapshotting the actor's
// identity and role as held at this moment.
func (r *Recorder) Record(ctx context.Context, actor session.Session, action, actionLabel string, details map[string]any) (string, error) {
	entry := Entry{
		ID:          uuid.NewString(),
		OccurredAt:  r.now().UTC(),
		UserID:      actor.SubjectID,
		UserName:    actor.Username,
		UserEmail:   actor.Email,
		UserRole:    actor.Role,
		Action:      action,
		ActionLabel: actionLabel,
		Details:     details,
	}
	if err := r.repo.Insert(ctx, entry); err != nil {
		if r.metrics != nil {
			r.metrics.ActivityWriteFailed()
		}
		r.logger.Warn("activity write failed",
			slog.String("action", action), slog.String("entry", entry.ID), slog.Any("error", err))
		if r.retry != nil {
			if enqErr := r.retry.EnqueueActivityRetry(ctx, entry); enqErr != nil {
				r.logger.Error("activity retry enqueue failed",
					slog.String("entry", entry.ID), slog.Any("error", enqErr))
			}
		}
		return entry.ID, err
	}
	return entry.ID, nil
}

// Query returns entries newest first. Authorization (super-admin only)
// belongs to the boundary calling this, not in here.
func (r *Recorder) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	return r.repo.List(ctx, filter)
}
