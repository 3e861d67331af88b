package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tristangrace/uispin/core"
	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db *sql.DB
}

// NewStore creates a new SQLite-based store.
func NewStore(dataSourceName string) *sqliteStore {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}
	// A single connection keeps writers from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// seq preserves insertion order so listing can be newest-first without
	// depending on timestamp resolution.
	designTableStmt := `
	CREATE TABLE IF NOT EXISTS designs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		prompt TEXT NOT NULL,
		guidelines TEXT,
		provider TEXT,
		created_at TEXT NOT NULL
	);`
	if _, err = db.Exec(designTableStmt); err != nil {
		log.Fatalf("failed to create designs table: %v", err)
	}

	designImagesTableStmt := `
	CREATE TABLE IF NOT EXISTS design_images (
		design_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		path TEXT NOT NULL,
		PRIMARY KEY (design_id, idx)
	);`
	if _, err = db.Exec(designImagesTableStmt); err != nil {
		log.Fatalf("failed to create design_images table: %v", err)
	}

	imageTableStmt := `CREATE TABLE IF NOT EXISTS images (name TEXT PRIMARY KEY, data BLOB);`
	if _, err = db.Exec(imageTableStmt); err != nil {
		log.Fatalf("failed to create images table: %v", err)
	}

	return &sqliteStore{db}
}

// Close releases the underlying database handle.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) List(ctx context.Context) ([]*core.Design, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, prompt, guidelines, provider, created_at FROM designs ORDER BY seq DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	designs := []*core.Design{}
	byID := make(map[string]*core.Design)
	for rows.Next() {
		design, err := scanDesign(rows)
		if err != nil {
			return nil, err
		}
		designs = append(designs, design)
		byID[design.ID] = design
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	imageRows, err := s.db.QueryContext(ctx, "SELECT design_id, path FROM design_images ORDER BY design_id, idx")
	if err != nil {
		return nil, err
	}
	defer imageRows.Close()

	for imageRows.Next() {
		var designID, path string
		if err := imageRows.Scan(&designID, &path); err != nil {
			return nil, err
		}
		if design, ok := byID[designID]; ok {
			design.Images = append(design.Images, path)
		}
	}
	if err := imageRows.Err(); err != nil {
		return nil, err
	}

	logrus.Debugf("Listed %d designs", len(designs))
	return designs, nil
}

func (s *sqliteStore) Get(ctx context.Context, id string) (*core.Design, error) {
	log := logrus.WithField("design_id", id)

	row := s.db.QueryRowContext(ctx, "SELECT id, prompt, guidelines, provider, created_at FROM designs WHERE id = ?", id)
	design, err := scanDesign(row)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Warn("Design with specified ID not found")
			return nil, core.ErrDesignNotFound
		}
		log.WithError(err).Error("Failed to retrieve design")
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT path FROM design_images WHERE design_id = ? ORDER BY idx", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		design.Images = append(design.Images, path)
	}
	return design, rows.Err()
}

func (s *sqliteStore) Prepend(ctx context.Context, design *core.Design) error {
	log := logrus.WithField("design_id", design.ID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO designs (id, prompt, guidelines, provider, created_at) VALUES (?, ?, ?, ?, ?)",
		design.ID, design.Prompt, design.Guidelines, design.Provider, design.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		log.WithError(err).Error("Failed to insert design")
		return err
	}

	for i, path := range design.Images {
		if _, err := tx.ExecContext(ctx, "INSERT INTO design_images (design_id, idx, path) VALUES (?, ?, ?)", design.ID, i, path); err != nil {
			log.WithError(err).Error("Failed to insert design image")
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Design saved successfully")
	return nil
}

func (s *sqliteStore) PutImage(ctx context.Context, name string, data []byte) error {
	if err := core.ValidateImageName(name); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "INSERT OR REPLACE INTO images (name, data) VALUES (?, ?)", name, data)
	return err
}

func (s *sqliteStore) OpenImage(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := core.ValidateImageName(name); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM images WHERE name = ?", name).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("image %s: %w", name, core.ErrImageNotFound)
		}
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDesign(row scanner) (*core.Design, error) {
	var (
		design     core.Design
		guidelines sql.NullString
		provider   sql.NullString
		createdAt  string
	)
	if err := row.Scan(&design.ID, &design.Prompt, &guidelines, &provider, &createdAt); err != nil {
		return nil, err
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for design %s: %w", design.ID, err)
	}
	design.CreatedAt = ts
	design.Guidelines = guidelines.String
	design.Provider = provider.String
	design.Images = []string{}
	return &design, nil
}
