package repository

import (
	"context"

	"github.com/todoapp/todo-api/internal/todo"
)

// Repository is the persistence capability set the service depends on.
// Missing records are reported as todo.ErrNotFound and backend failures as
// *todo.StoreError.
type Repository interface {
	Create(ctx context.Context, t *todo.Todo) error
	Get(ctx context.Context, id int64) (*todo.Todo, error)
	// List returns the requested window of matches and the total number of
	// matches before Limit/Offset were applied.
	List(ctx context.Context, opts todo.ListOptions) ([]*todo.Todo, int, error)
	Update(ctx context.Context, t *todo.Todo) error
	Delete(ctx context.Context, id int64) error
}

// Pinger is implemented by repositories that can report backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}
