package api

import "context"

// Lister fetches a full collection snapshot.
type Lister[R any] interface {
	List(ctx context.Context) ([]R, error)
}

// Mutator persists drafts and returns the server-assigned record.
type Mutator[R, D any] interface {
	Create(ctx context.Context, draft D) (R, error)
	Update(ctx context.Context, id string, draft D) (R, error)
}

// Remover deletes one record by identifier.
type Remover interface {
	Remove(ctx context.Context, id string) error
}

// Collection is the full CRUD contract of one collection endpoint.
type Collection[R, D any] interface {
	Lister[R]
	Mutator[R, D]
	Remover
}

// GroupService reads group timetables.
type GroupService interface {
	Group(ctx context.Context, code string) (*Group, error)
}
