package todo

import "time"

// Status is the lifecycle state of a Todo.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists the accepted status values in display order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusDone}

func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Todo is the persisted task record. ID and CreatedAt are assigned by the
// repository on insert and never change afterwards.
type Todo struct {
	ID          int64     `json:"id" db:"id" bson:"_id"`
	Title       string    `json:"title" db:"title" bson:"title"`
	Description string    `json:"description" db:"description" bson:"description"`
	Status      Status    `json:"status" db:"status" bson:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" bson:"created_at"`
}

// Apply copies the validated changes onto t. Fields left nil are untouched.
func (t *Todo) Apply(c Changes) {
	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Description != nil {
		t.Description = *c.Description
	}
	if c.Status != nil {
		t.Status = *c.Status
	}
}

// Ordering values accepted by List.
const (
	OrderNewest = "-created_at"
	OrderOldest = "created_at"
)

// ListOptions narrows and pages a listing. A zero Limit returns every match.
type ListOptions struct {
	Statuses []Status
	Search   string
	Ordering string
	Limit    int
	Offset   int
}

// Ascending reports whether results are ordered oldest first.
func (o ListOptions) Ascending() bool {
	return o.Ordering == OrderOldest
}
