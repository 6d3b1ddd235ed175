package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/meridian-web/console-core/internal/activity"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeActivityRetry re-attempts an activity log write that
	// failed synchronously.
	TaskTypeActivityRetry = "activity:retry"
)

// NewActivityRetryTask constructs an Asynq task carrying the original
// entry, timestamp and snapshot included, so nothing is re-resolved.
func NewActivityRetryTask(entry activity.Entry) (*asynq.Task, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeActivityRetry, data), nil
}

// EntryInserter is the slice of the activity repository the worker needs.
type EntryInserter interface {
	Insert(ctx context.Context, entry activity.Entry) error
}

// RecoveryCounter counts entries persisted on retry.
type RecoveryCounter interface {
	ActivityRetryRecovered()
}

// NewActivityRetryHandler processes TaskTypeActivityRetry tasks.
func NewActivityRetryHandler(repo EntryInserter, metrics RecoveryCounter) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var entry activity.Entry
		if err := json.Unmarshal(t.Payload(), &entry); err != nil {
			return asynq.SkipRetry
		}
		if err := repo.Insert(ctx, entry); err != nil {
			return err
		}
		if metrics != nil {
			metrics.ActivityRetryRecovered()
		}
		return nil
	}
}
