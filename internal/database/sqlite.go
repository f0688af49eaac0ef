package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// SQLiteDriver is go-sqlite3 with a casefold(text) SQL function that lowers
// any Unicode text. SQLite's own LIKE and lower() only fold ASCII.
const SQLiteDriver = "sqlite3_todo"

func init() {
	sql.Register(SQLiteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("casefold", strings.ToLower, true)
		},
	})
	sqlx.BindDriver(SQLiteDriver, sqlx.QUESTION)
}

var sqliteSchema = `
CREATE TABLE IF NOT EXISTS todos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title VARCHAR(200) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'open',
    created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS todos_created_at_idx ON todos (created_at);
`

// ConnectSQLite opens (creating if needed) the SQLite database at path and
// applies the idempotent schema.
func ConnectSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(SQLiteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("sqlite connect: %w", err)
	}
	// a single connection avoids "database is locked" under concurrent writes
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return db, nil
}
