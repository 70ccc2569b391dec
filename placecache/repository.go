// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

// Package placecache persists geocoding results so repeated resolutions
// of the same places skip the provider. Entries key on the normalized
// place name and carry H3 cells for proximity queries.
package placecache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wayfarerhq/wayfarer/spatial"
)

// Entry is one cached geocoding result.
type Entry struct {
	Place       string        `json:"place"` // normalized name, the cache key
	DisplayName string        `json:"display_name,omitempty"`
	Point       spatial.Point `json:"point"`
	Provider    string        `json:"provider"`
	Confidence  string        `json:"confidence"` // high, medium, low
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	H3Res1      int64         `json:"-"`
	H3Res2      int64         `json:"-"`
	H3Res3      int64         `json:"-"`
	H3Res4      int64         `json:"-"`
	H3Res5      int64         `json:"-"`
	H3Res6      int64         `json:"-"`
	H3Res7      int64         `json:"-"`
	H3Res8      int64         `json:"-"`
}

func (e *Entry) computeH3() error {
	for res := spatial.MinCellResolution; res <= spatial.MaxCellResolution; res++ {
		cell, err := spatial.CellID(e.Point, res)
		if err != nil {
			return err
		}

		switch res {
		case 1:
			e.H3Res1 = int64(cell)
		case 2:
			e.H3Res2 = int64(cell)
		case 3:
			e.H3Res3 = int64(cell)
		case 4:
			e.H3Res4 = int64(cell)
		case 5:
			e.H3Res5 = int64(cell)
		case 6:
			e.H3Res6 = int64(cell)
		case 7:
			e.H3Res7 = int64(cell)
		case 8:
			e.H3Res8 = int64(cell)
		}
	}

	return nil
}

// Repository handles persistence of cached geocoding results.
type Repository interface {
	// CreateSchema creates the places table
	CreateSchema() error

	// Save inserts or updates an entry by its place key
	Save(entry *Entry) error

	// Get returns the entry for a place key, or sql.ErrNoRows
	Get(place string) (*Entry, error)

	// GetAllSorted returns all entries sorted by place, for stable exports
	GetAllSorted() ([]*Entry, error)

	// BulkInsert inserts a slice of entries in one transaction
	BulkInsert(entries []*Entry) error

	// Count returns the total number of entries
	Count() (int, error)

	// Nearby returns entries sharing the query point's H3 cell at the
	// given resolution (1..8)
	Nearby(point spatial.Point, res int) ([]*Entry, error)

	// DB returns the underlying database connection
	DB() *sql.DB
}

type sqlPlaceRepository struct {
	db *sql.DB
}

// NewRepository creates a place repository over a DuckDB connection.
func NewRepository(db *sql.DB) Repository {
	return &sqlPlaceRepository{db: db}
}

// DB returns the underlying database connection for advanced queries.
func (r *sqlPlaceRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlPlaceRepository) CreateSchema() error {
	// DuckDB needs to load the spatial extension
	_, err := r.db.Exec(`INSTALL spatial; LOAD spatial;`)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS places_seq START 1;

		CREATE TABLE IF NOT EXISTS places (
			id INTEGER PRIMARY KEY DEFAULT nextval('places_seq'),
			place VARCHAR NOT NULL UNIQUE,
			display_name VARCHAR,
			point POINT_2D NOT NULL,
			provider VARCHAR NOT NULL,
			confidence VARCHAR NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			h3_res1 UBIGINT,
			h3_res2 UBIGINT,
			h3_res3 UBIGINT,
			h3_res4 UBIGINT,
			h3_res5 UBIGINT,
			h3_res6 UBIGINT,
			h3_res7 UBIGINT,
			h3_res8 UBIGINT
		);
	`)

	return err
}

func (r *sqlPlaceRepository) Save(entry *Entry) error {
	if entry.Place == "" {
		return errors.New("place key can't be empty")
	}

	if err := entry.computeH3(); err != nil {
		return err
	}

	existing, err := r.Get(entry.Place)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	entry.UpdatedAt = time.Now()

	if existing != nil {
		_, err = r.db.Exec(`
			UPDATE places
			SET display_name = ?, point = ST_Point(?, ?), provider = ?,
			    confidence = ?, updated_at = ?,
			    h3_res1 = ?, h3_res2 = ?, h3_res3 = ?, h3_res4 = ?,
			    h3_res5 = ?, h3_res6 = ?, h3_res7 = ?, h3_res8 = ?
			WHERE place = ?
		`,
			entry.DisplayName,
			entry.Point.Lng,
			entry.Point.Lat,
			entry.Provider,
			entry.Confidence,
			entry.UpdatedAt,
			entry.H3Res1,
			entry.H3Res2,
			entry.H3Res3,
			entry.H3Res4,
			entry.H3Res5,
			entry.H3Res6,
			entry.H3Res7,
			entry.H3Res8,
			entry.Place,
		)

		return err
	}

	entry.CreatedAt = entry.UpdatedAt

	return r.BulkInsert([]*Entry{entry})
}

func (r *sqlPlaceRepository) BulkInsert(entries []*Entry) error {
	// Index every point before the transaction opens.
	for _, e := range entries {
		if err := e.computeH3(); err != nil {
			return err
		}
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO places(
			place,
			display_name,
			point,
			provider,
			confidence,
			created_at,
			updated_at,
			h3_res1,
			h3_res2,
			h3_res3,
			h3_res4,
			h3_res5,
			h3_res6,
			h3_res7,
			h3_res8
		)
		VALUES (?, ?, ST_Point(?, ?), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			err = rErr
		}

		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		displayName := &e.DisplayName
		if len(*displayName) == 0 {
			displayName = nil
		}

		_, err = stmt.Exec(
			e.Place,
			displayName,
			e.Point.Lng,
			e.Point.Lat,
			e.Provider,
			e.Confidence,
			e.CreatedAt,
			e.UpdatedAt,
			e.H3Res1,
			e.H3Res2,
			e.H3Res3,
			e.H3Res4,
			e.H3Res5,
			e.H3Res6,
			e.H3Res7,
			e.H3Res8,
		)
		if err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr
			}

			return err
		}
	}

	return tx.Commit()
}

var baseSelect = `
	SELECT place, display_name, point, provider, confidence,
	       created_at, updated_at,
	       h3_res1, h3_res2, h3_res3, h3_res4, h3_res5, h3_res6, h3_res7, h3_res8
	FROM places
`

func (r *sqlPlaceRepository) Get(place string) (*Entry, error) {
	entries, err := r.list(baseSelect+" WHERE place = ?", []any{place})
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, sql.ErrNoRows
	}

	return entries[0], nil
}

func (r *sqlPlaceRepository) GetAllSorted() ([]*Entry, error) {
	return r.list(baseSelect+" ORDER BY place", []any{})
}

func (r *sqlPlaceRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM places",
	).Scan(&count)

	return count, err
}

func (r *sqlPlaceRepository) Nearby(point spatial.Point, res int) ([]*Entry, error) {
	cell, err := spatial.CellID(point, res)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("%s WHERE h3_res%d = ? ORDER BY place", baseSelect, res)

	return r.list(query, []any{int64(cell)})
}

func (r *sqlPlaceRepository) list(query string, args []any) ([]*Entry, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry

	for rows.Next() {
		entry := &Entry{}

		var displayName sql.NullString

		var h3Res1, h3Res2, h3Res3, h3Res4, h3Res5, h3Res6, h3Res7, h3Res8 sql.NullInt64

		err := rows.Scan(
			&entry.Place, &displayName, &entry.Point,
			&entry.Provider, &entry.Confidence,
			&entry.CreatedAt, &entry.UpdatedAt,
			&h3Res1, &h3Res2, &h3Res3, &h3Res4, &h3Res5, &h3Res6, &h3Res7, &h3Res8,
		)
		if err != nil {
			return nil, err
		}

		if displayName.Valid {
			entry.DisplayName = displayName.String
		}

		if h3Res1.Valid {
			entry.H3Res1 = h3Res1.Int64
		}

		if h3Res2.Valid {
			entry.H3Res2 = h3Res2.Int64
		}

		if h3Res3.Valid {
			entry.H3Res3 = h3Res3.Int64
		}

		if h3Res4.Valid {
			entry.H3Res4 = h3Res4.Int64
		}

		if h3Res5.Valid {
			entry.H3Res5 = h3Res5.Int64
		}

		if h3Res6.Valid {
			entry.H3Res6 = h3Res6.Int64
		}

		if h3Res7.Valid {
			entry.H3Res7 = h3Res7.Int64
		}

		if h3Res8.Valid {
			entry.H3Res8 = h3Res8.Int64
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
