package activity

import "context"

// RepositoryPort defines append and query access to the activity log.
// The log is append-only; there is no update or delete.
type RepositoryPort interface {
	Insert(ctx context.Context, entry Entry) error
	List(ctx context.Context, filter Filter) ([]Entry, error)
}
