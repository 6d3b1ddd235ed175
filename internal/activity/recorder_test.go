package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-web/console-core/internal/session"
)

type memoryRepository struct {
	entries    []Entry
	lastFilter Filter
	insertErr  error
}

func (m *memoryRepository) Insert(ctx context.Context, entry Entry) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryRepository) List(ctx context.Context, filter Filter) ([]Entry, error) {
	m.lastFilter = filter
	return m.entries, nil
}

type stubEnqueuer struct {
	entries []Entry
	err     error
}

func (s *stubEnqueuer) EnqueueActivityRetry(ctx context.Context, entry Entry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

type countingMetrics struct {
	failures int
}

func (c *countingMetrics) ActivityWriteFailed() { c.failures++ }

func actorSession() session.Session {
	return session.New("sess-1", "7", "jane", "jane@example.com", "editor", "Jane", time.Unix(1_758_000_000, 0), time.Hour)
}

func TestRecordSnapshotsActor(t *testing.T) {
	repo := &memoryRepository{}
	recorder := NewRecorder(repo, nil, nil, nil)
	stamp := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	recorder.now = func() time.Time { return stamp }

	id, err := recorder.Record(context.Background(), actorSession(), "role.create", "Created role content", map[string]any{"role": "content"})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)

	entry := repo.entries[0]
	assert.Equal(t, id, entry.ID)
	_, parseErr := uuid.Parse(entry.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, stamp.UTC(), entry.OccurredAt)
	assert.Equal(t, time.UTC, entry.OccurredAt.Location())
	assert.Equal(t, "7", entry.UserID)
	assert.Equal(t, "jane", entry.UserName)
	assert.Equal(t, "jane@example.com", entry.UserEmail)
	assert.Equal(t, "editor", entry.UserRole)
	assert.Equal(t, "role.create", entry.Action)
	assert.Equal(t, "Created role content", entry.ActionLabel)
	assert.Equal(t, map[string]any{"role": "content"}, entry.Details)
}

func TestRecordUniqueIDs(t *testing.T) {
	repo := &memoryRepository{}
	recorder := NewRecorder(repo, nil, nil, nil)

	first, err := recorder.Record(context.Background(), actorSession(), "auth.login", "Logged in", nil)
	require.NoError(t, err)
	second, err := recorder.Record(context.Background(), actorSession(), "auth.login", "Logged in", nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestRecordFailureQueuesRetry(t *testing.T) {
	repo := &memoryRepository{insertErr: errors.New("pg down")}
	queue := &stubEnqueuer{}
	metrics := &countingMetrics{}
	recorder := NewRecorder(repo, queue, metrics, nil)

	id, err := recorder.Record(context.Background(), actorSession(), "role.delete", "Deleted role temp", nil)
	require.Error(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, metrics.failures)

	// The queued entry carries the original stamp and snapshot.
	require.Len(t, queue.entries, 1)
	assert.Equal(t, id, queue.entries[0].ID)
	assert.Equal(t, "editor", queue.entries[0].UserRole)
}

func TestRecordFailureWhenQueueAlsoDown(t *testing.T) {
	repo := &memoryRepository{insertErr: errors.New("pg down")}
	queue := &stubEnqueuer{err: errors.New("redis down")}
	metrics := &countingMetrics{}
	recorder := NewRecorder(repo, queue, metrics, nil)

	_, err := recorder.Record(context.Background(), actorSession(), "role.delete", "Deleted role temp", nil)
	assert.ErrorContains(t, err, "pg down")
	assert.Equal(t, 1, metrics.failures)
	assert.Empty(t, queue.entries)
}

func TestQueryPassesFilterThrough(t *testing.T) {
	repo := &memoryRepository{entries: []Entry{{ID: "a"}, {ID: "b"}}}
	recorder := NewRecorder(repo, nil, nil, nil)

	filter := Filter{ActionPrefix: "role.", Search: "jane", Limit: 50}
	logs, err := recorder.Query(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
	assert.Equal(t, filter, repo.lastFilter)
}
