package roles

import "context"

// RepositoryPort defines data access methods for roles. Updates replace
// the whole record; partial merges that could resurrect a just-deleted
// permission are forbidden.
type RepositoryPort interface {
	Insert(ctx context.Context, role Role) (Role, error)
	SeedInsert(ctx context.Context, role Role) error
	Replace(ctx context.Context, role Role) (Role, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (Role, error)
	GetByName(ctx context.Context, name string) (Role, error)
	List(ctx context.Context) ([]Role, error)
}
