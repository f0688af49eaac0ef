package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/todoapp/todo-api/internal/todo"
)

const todoColumns = `id, title, description, status, created_at`

// SQLiteRepo stores todos in the "todos" table created by
// database.ConnectSQLite.
type SQLiteRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSQLiteRepo(db *sqlx.DB) *SQLiteRepo {
	return &SQLiteRepo{db: db, now: time.Now}
}

func (r *SQLiteRepo) Create(ctx context.Context, t *todo.Todo) error {
	t.CreatedAt = r.now().UTC()
	res, err := r.db.NamedExecContext(ctx,
		`INSERT INTO todos (title, description, status, created_at) VALUES (:title, :description, :status, :created_at)`, t)
	if err != nil {
		return todo.WrapStore("insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return todo.WrapStore("insert", err)
	}
	t.ID = id
	return nil
}

func (r *SQLiteRepo) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	var t todo.Todo
	err := r.db.GetContext(ctx, &t, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, todo.ErrNotFound
		}
		return nil, todo.WrapStore("get", err)
	}
	return &t, nil
}

func (r *SQLiteRepo) List(ctx context.Context, opts todo.ListOptions) ([]*todo.Todo, int, error) {
	var (
		clauses []string
		args    []interface{}
	)
	if len(opts.Statuses) > 0 {
		statuses := make([]string, len(opts.Statuses))
		for i, s := range opts.Statuses {
			statuses[i] = string(s)
		}
		clauses = append(clauses, `status IN (?)`)
		args = append(args, statuses)
	}
	if opts.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(opts.Search)) + "%"
		clauses = append(clauses, `(casefold(title) LIKE ? ESCAPE '\' OR casefold(description) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	countQuery, countArgs, err := sqlx.In(`SELECT COUNT(*) FROM todos`+where, args...)
	if err != nil {
		return nil, 0, todo.WrapStore("list", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, todo.WrapStore("list", err)
	}

	dir := "DESC"
	if opts.Ascending() {
		dir = "ASC"
	}
	limit := -1
	if opts.Limit > 0 {
		limit = opts.Limit
	}
	query := `SELECT ` + todoColumns + ` FROM todos` + where +
		` ORDER BY created_at ` + dir + `, id ` + dir + ` LIMIT ? OFFSET ?`
	query, qargs, err := sqlx.In(query, append(args, limit, opts.Offset)...)
	if err != nil {
		return nil, 0, todo.WrapStore("list", err)
	}
	out := []*todo.Todo{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), qargs...); err != nil {
		return nil, 0, todo.WrapStore("list", err)
	}
	return out, total, nil
}

func (r *SQLiteRepo) Update(ctx context.Context, t *todo.Todo) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, description = ?, status = ? WHERE id = ?`,
		t.Title, t.Description, string(t.Status), t.ID)
	if err != nil {
		return todo.WrapStore("update", err)
	}
	return affected(res, "update")
}

func (r *SQLiteRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return todo.WrapStore("delete", err)
	}
	return affected(res, "delete")
}

func (r *SQLiteRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func affected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return todo.WrapStore(op, err)
	}
	if n == 0 {
		return todo.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
