package todo

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/mattn/go-sqlite3"
)

// DefaultUser owns every todo row.
const DefaultUser = "Root"

const healthMarker = "health str"

// Store is the persistence contract used by Manager.
type Store interface {
	Initialize(path string) error
	HealthCheck(path string) error
	Save(path string, t Todo) (int64, error)
	FindAll(path string) ([]Todo, error)
	FindByID(path string, id int64) (*Todo, error)
	RemoveAll(path string) error
	RemoveByID(path string, id int64) error
}

// SQLiteStore implements Store on a SQLite file. The database is opened for
// each operation and closed before returning.
type SQLiteStore struct{}

// NewSQLiteStore returns a SQLite backed Store.
func NewSQLiteStore() *SQLiteStore { return &SQLiteStore{} }

// open connects to the database at path. With create unset the file must
// already exist.
func open(path string, create bool) (*sql.DB, error) {
	mode := "rw"
	if create {
		mode = "rwc"
	}
	// Escape the path so '?', '#' and '%' in a db name stay part of the file
	// name. Enable busy_timeout and foreign keys.
	file := (&url.URL{Path: path}).EscapedPath()
	dsn := fmt.Sprintf("file:%s?mode=%s&_busy_timeout=5000&_foreign_keys=1", file, mode)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sql.Open is lazy; make sure the file can actually be opened.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return db, nil
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// Initialize creates the schema and the default user. Running it against an
// initialized store is a no-op.
func (s *SQLiteStore) Initialize(path string) error {
	db, err := open(path, true)
	if err != nil {
		return err
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user (
            id INTEGER PRIMARY KEY,
            name TEXT NOT NULL UNIQUE
        );`,
		`CREATE TABLE IF NOT EXISTS todo (
            id INTEGER PRIMARY KEY,
            title TEXT NOT NULL,
            content TEXT NOT NULL,
            user_id INTEGER NOT NULL REFERENCES user(id)
        );`,
		`CREATE TABLE IF NOT EXISTS health (
            name TEXT NOT NULL
        );`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	if _, err := db.Exec(`INSERT INTO user(name) VALUES(?)`, DefaultUser); err != nil {
		// The user already existing is the normal state after the first run.
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("insert default user: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

// HealthCheck writes a marker row, reads it back and clears the health table.
func (s *SQLiteStore) HealthCheck(path string) error {
	db, err := open(path, false)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(`INSERT INTO health(name) VALUES(?)`, healthMarker); err != nil {
		return fmt.Errorf("insert health row: %w", err)
	}

	rows, err := db.Query(`SELECT name FROM health`)
	if err != nil {
		return fmt.Errorf("read health row: %w", err)
	}
	found := false
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("scan health row: %w", err)
		}
		if name == healthMarker {
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("read health row: %w", err)
	}
	rows.Close()
	if !found {
		return errors.New("health row missing")
	}

	if _, err := db.Exec(`DELETE FROM health`); err != nil {
		return fmt.Errorf("clear health rows: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// CRUD helpers
// ---------------------------------------------------------------------------

// Save inserts t for the default user and returns the assigned id.
func (s *SQLiteStore) Save(path string, t Todo) (int64, error) {
	db, err := open(path, false)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	res, err := db.Exec(`INSERT INTO todo(title,content,user_id)
        VALUES(?,?,(SELECT id FROM user WHERE name=?))`, t.Title, t.Content, DefaultUser)
	if err != nil {
		return 0, fmt.Errorf("insert todo: %w", err)
	}
	return res.LastInsertId()
}

const selectTodos = `SELECT t.id, t.title, t.content, u.name
        FROM todo t
        INNER JOIN user u ON u.id = t.user_id`

// FindAll returns every todo with its owner's name. No ordering is applied.
func (s *SQLiteStore) FindAll(path string) ([]Todo, error) {
	db, err := open(path, false)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(selectTodos)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	todos := []Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read todos: %w", err)
	}
	return todos, nil
}

// FindByID returns the default user's todo with the given id, or nil.
func (s *SQLiteStore) FindByID(path string, id int64) (*Todo, error) {
	db, err := open(path, false)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(selectTodos+` WHERE t.id = ? AND u.id = (SELECT id FROM user WHERE name = ?)`, id, DefaultUser)
	if err != nil {
		return nil, fmt.Errorf("query todo %d: %w", id, err)
	}
	defer rows.Close()

	// Keep the last row seen.
	var result *Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		result = &t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read todo %d: %w", id, err)
	}
	return result, nil
}

func scanTodo(rows *sql.Rows) (Todo, error) {
	var (
		t    Todo
		id   int64
		user string
	)
	if err := rows.Scan(&id, &t.Title, &t.Content, &user); err != nil {
		return Todo{}, fmt.Errorf("scan todo: %w", err)
	}
	t.ID = &id
	t.UserName = &user
	return t, nil
}

// RemoveAll deletes every todo.
func (s *SQLiteStore) RemoveAll(path string) error {
	db, err := open(path, false)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(`DELETE FROM todo`); err != nil {
		return fmt.Errorf("delete todos: %w", err)
	}
	return nil
}

// RemoveByID deletes the todo with the given id. A missing id is not an error.
func (s *SQLiteStore) RemoveByID(path string, id int64) error {
	db, err := open(path, false)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(`DELETE FROM todo WHERE id=?`, id); err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	return nil
}
