package service

import (
	"context"
	"errors"
	"math"

	"github.com/todoapp/todo-api/internal/todo"
	"github.com/todoapp/todo-api/internal/todo/repository"
	"github.com/todoapp/todo-api/pkg/logger"
)

// Service defines the todo operations used by the handler layer. Outcomes
// other than success are reported as errors:
//   - *todo.ValidationError when the payload is rejected
//   - todo.ErrNotFound when the id does not exist
//   - todo.ErrInvalidPage when the requested page is out of range
//   - *todo.StoreError when the repository failed
type Service interface {
	Create(ctx context.Context, p todo.Payload) (*todo.Todo, error)
	Get(ctx context.Context, id int64) (*todo.Todo, error)
	List(ctx context.Context, q ListQuery) (*Page, error)
	Update(ctx context.Context, id int64, p todo.Payload, partial bool) (*todo.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// ListQuery carries filters and the requested page number (1-based). Page
// is 0 when the client did not ask for one and negative when the client sent
// an unusable value. It is ignored when pagination is disabled.
type ListQuery struct {
	Statuses []todo.Status
	Search   string
	Ordering string
	Page     int
}

// Page is one window of a listing. PageSize is zero when pagination is
// disabled, in which case Results holds every match.
type Page struct {
	Count    int
	Number   int
	PageSize int
	Results  []*todo.Todo
}

func (p *Page) Paginated() bool { return p.PageSize > 0 }

func (p *Page) HasNext() bool {
	return p.Paginated() && (p.Number-1)*p.PageSize+len(p.Results) < p.Count
}

func (p *Page) HasPrevious() bool {
	return p.Paginated() && p.Number > 1
}

// NewService returns a Service over repo. A positive pageSize enables
// page-number pagination of List.
func NewService(repo repository.Repository, pageSize int) Service {
	if pageSize < 0 {
		pageSize = 0
	}
	return &todoService{repo: repo, pageSize: pageSize}
}

type todoService struct {
	repo     repository.Repository
	pageSize int
}

func (s *todoService) Create(ctx context.Context, p todo.Payload) (*todo.Todo, error) {
	ch, err := p.Validate(false)
	if err != nil {
		return nil, err
	}
	t := &todo.Todo{Status: todo.StatusOpen}
	t.Apply(ch)
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, s.storeErr("create", err)
	}
	logger.Debugf("todo %d created", t.ID)
	return t, nil
}

func (s *todoService) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.storeErr("get", err)
	}
	return t, nil
}

func (s *todoService) List(ctx context.Context, q ListQuery) (*Page, error) {
	opts := todo.ListOptions{Statuses: q.Statuses, Search: q.Search, Ordering: q.Ordering}
	if opts.Ordering != todo.OrderOldest {
		opts.Ordering = todo.OrderNewest
	}
	number := 1
	if s.pageSize > 0 {
		switch {
		case q.Page < 0:
			return nil, todo.ErrInvalidPage
		case q.Page > 0:
			number = q.Page
		}
		// no store can hold a page whose offset does not fit in an int
		if number-1 > math.MaxInt/s.pageSize {
			return nil, todo.ErrInvalidPage
		}
		opts.Limit = s.pageSize
		opts.Offset = (number - 1) * s.pageSize
	}
	list, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, s.storeErr("list", err)
	}
	// an empty first page is valid, any other page must hold results
	if s.pageSize > 0 && number > 1 && len(list) == 0 {
		return nil, todo.ErrInvalidPage
	}
	if list == nil {
		list = []*todo.Todo{}
	}
	return &Page{Count: total, Number: number, PageSize: s.pageSize, Results: list}, nil
}

func (s *todoService) Update(ctx context.Context, id int64, p todo.Payload, partial bool) (*todo.Todo, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.storeErr("update", err)
	}
	ch, err := p.Validate(partial)
	if err != nil {
		return nil, err
	}
	t.Apply(ch)
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, s.storeErr("update", err)
	}
	return t, nil
}

func (s *todoService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return s.storeErr("delete", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storeErr("delete", err)
	}
	return nil
}

// storeErr logs backend failures with their cause before they are reduced to
// a generic response.
func (s *todoService) storeErr(op string, err error) error {
	var se *todo.StoreError
	if errors.As(err, &se) {
		logger.Errorf("todo %s: %v", op, err)
	}
	return err
}
