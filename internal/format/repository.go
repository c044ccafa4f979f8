// Package format persists stored label formats (^DF documents) so they can
// be re-sent to a printer or recalled by name with ^XF.
package format

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

//go:embed schema.sql
var schema string

type Format struct {
	Uuid      uuid.UUID
	Name      string
	ZPL       string
	CreatedAt time.Time
}

type Repository struct {
	Db *sql.DB
}

// Open opens (and if needed initialises) the format database at path.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("Couldn't open database:\n%w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("Couldn't initialise database:\n%w", err)
	}
	return &Repository{Db: db}, nil
}

func (r *Repository) Close() error {
	return r.Db.Close()
}

// Save inserts a format, replacing an existing one of the same name the way
// a printer overwrites a re-uploaded ^DF format.
func (r *Repository) Save(tx *sql.Tx, f *Format) error {
	if f.Uuid == (uuid.UUID{}) {
		f.Uuid = uuid.New()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	_, err := tx.Exec(`
    INSERT INTO format (uuid, name, zpl, created_at)
    VALUES (?, ?, ?, ?)
    ON CONFLICT (name) DO UPDATE SET uuid = excluded.uuid,
      zpl = excluded.zpl, created_at = excluded.created_at`,
		f.Uuid.String(), f.Name, f.ZPL, f.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("Failed to save format:\n%w", err)
	}
	return nil
}

// Get returns the format with the given name, or nil when none is stored.
func (r *Repository) Get(name string) (*Format, error) {
	row := r.Db.QueryRow(`
    SELECT uuid, name, zpl, created_at
    FROM format
    WHERE name = ?`, name)

	f, err := scanFormat(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Failed to read format:\n%w", err)
	}
	return f, nil
}

// List returns every stored format, newest first.
func (r *Repository) List() ([]Format, error) {
	rows, err := r.Db.Query(`
    SELECT uuid, name, zpl, created_at
    FROM format
    ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("Query execution failed:\n%w", err)
	}
	defer rows.Close()

	formats := []Format{}
	for rows.Next() {
		f, err := scanFormat(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("Row scanning failed:\n%w", err)
		}
		formats = append(formats, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Error iterating rows:\n%w", err)
	}
	return formats, nil
}

// Delete removes the format with the given name; deleting an unknown name
// is not an error.
func (r *Repository) Delete(name string) error {
	if _, err := r.Db.Exec(`DELETE FROM format WHERE name = ?`, name); err != nil {
		return fmt.Errorf("Failed to delete format:\n%w", err)
	}
	return nil
}

func scanFormat(scan func(...any) error) (*Format, error) {
	var f Format
	var uuidString, createdAt string
	if err := scan(&uuidString, &f.Name, &f.ZPL, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if f.Uuid, err = uuid.Parse(uuidString); err != nil {
		return nil, err
	}
	if f.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// Transact runs operations in a transaction, committing afterward, or
// rolling back if the passed function returns an error.
func (r *Repository) Transact(f func(*sql.Tx) error) error {
	tx, err := r.Db.Begin()
	if err != nil {
		return err
	}

	err = f(tx)
	if err != nil {
		if err2 := tx.Rollback(); err2 != nil {
			return fmt.Errorf("Failed to roll back transaction: %w\n\nAfter handling: %v", err2, err)
		}
		return err
	}
	return tx.Commit()
}
