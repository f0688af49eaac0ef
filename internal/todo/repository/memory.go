package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/todoapp/todo-api/internal/todo"
)

// MemoryRepo keeps todos in a map. It backs unit tests and the "memory"
// store driver.
type MemoryRepo struct {
	mu     sync.RWMutex
	store  map[int64]*todo.Todo
	nextID int64
	now    func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[int64]*todo.Todo), now: time.Now}
}

func (m *MemoryRepo) Create(_ context.Context, t *todo.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t.ID = m.nextID
	t.CreatedAt = m.now().UTC()
	cp := *t
	m.store[t.ID] = &cp
	return nil
}

func (m *MemoryRepo) Get(_ context.Context, id int64) (*todo.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.store[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, todo.ErrNotFound
}

func (m *MemoryRepo) List(_ context.Context, opts todo.ListOptions) ([]*todo.Todo, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*todo.Todo, 0, len(m.store))
	for _, t := range m.store {
		if matches(t, opts) {
			cp := *t
			out = append(out, &cp)
		}
	}
	asc := opts.Ascending()
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if asc {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
		if asc {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})
	total := len(out)
	return window(out, opts.Offset, opts.Limit), total, nil
}

// Update replaces the mutable fields of the stored record. ID and CreatedAt
// of the stored record are kept.
func (m *MemoryRepo) Update(_ context.Context, t *todo.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.store[t.ID]
	if !ok {
		return todo.ErrNotFound
	}
	cur.Title = t.Title
	cur.Description = t.Description
	cur.Status = t.Status
	t.CreatedAt = cur.CreatedAt
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return todo.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepo) Ping(context.Context) error { return nil }

func matches(t *todo.Todo, opts todo.ListOptions) bool {
	if len(opts.Statuses) > 0 {
		found := false
		for _, s := range opts.Statuses {
			if t.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if opts.Search != "" {
		q := strings.ToLower(opts.Search)
		if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}

func window(list []*todo.Todo, offset, limit int) []*todo.Todo {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []*todo.Todo{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
