// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build sqlite

package connstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps connections in a SQLite database.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the connection table.
func (s *SQLiteStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(db); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) Add(c Conn) (Conn, error) {
	db, err := s.getDB()
	if err != nil {
		return c, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := db.Begin()
	if err != nil {
		return c, err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`SELECT next_port FROM ports WHERE source = ? AND model_id = ?`, c.Source, c.ModelID).Scan(&c.Port)
	if errors.Is(err, sql.ErrNoRows) {
		c.Port = 0
	} else if err != nil {
		return c, err
	}
	_, err = tx.Exec(`
		INSERT INTO ports (source, model_id, next_port) VALUES (?, ?, ?)
		ON CONFLICT(source, model_id) DO UPDATE SET next_port = excluded.next_port
	`, c.Source, c.ModelID, c.Port+1)
	if err != nil {
		return c, err
	}

	var params []byte
	if len(c.Params) > 0 {
		params, err = json.Marshal(c.Params)
		if err != nil {
			return c, fmt.Errorf("encode params: %w", err)
		}
	}
	_, err = tx.Exec(`
		INSERT INTO connections (source, target, thread, model_id, port, label, weight, delay, params)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.Source, c.Target, c.Thread, c.ModelID, c.Port, c.Label, c.Weight, c.Delay, params)
	if err != nil {
		return c, err
	}
	return c, tx.Commit()
}

func (s *SQLiteStore) Remove(src, tgt, modelID int) (bool, error) {
	db, err := s.getDB()
	if err != nil {
		return false, err
	}
	res, err := db.Exec(`
		DELETE FROM connections WHERE id = (
			SELECT id FROM connections
			WHERE source = ? AND target = ? AND model_id = ?
			ORDER BY port LIMIT 1
		)
	`, src, tgt, modelID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) Query(f Filter) ([]Conn, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var where []string
	var args []any
	if len(f.Sources) > 0 {
		where = append(where, "source IN ("+placeholders(len(f.Sources))+")")
		for _, v := range f.Sources {
			args = append(args, v)
		}
	}
	if len(f.Targets) > 0 {
		where = append(where, "target IN ("+placeholders(len(f.Targets))+")")
		for _, v := range f.Targets {
			args = append(args, v)
		}
	}
	if f.ModelID >= 0 {
		where = append(where, "model_id = ?")
		args = append(args, f.ModelID)
	}
	if f.Label >= 0 {
		where = append(where, "label = ?")
		args = append(args, f.Label)
	}
	q := `SELECT source, target, thread, model_id, port, label, weight, delay, params FROM connections`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY source, model_id, port"

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Conn
	for rows.Next() {
		var c Conn
		var params []byte
		if err := rows.Scan(&c.Source, &c.Target, &c.Thread, &c.ModelID, &c.Port, &c.Label, &c.Weight, &c.Delay, &params); err != nil {
			return nil, err
		}
		if len(params) > 0 {
			if err := json.Unmarshal(params, &c.Params); err != nil {
				return nil, fmt.Errorf("decode params of %d -> %d: %w", c.Source, c.Target, err)
			}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Len() (int, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, err
	}
	var n int
	err = db.QueryRow(`SELECT COUNT(*) FROM connections`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrClosed
	}
	return s.db, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS connections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source INTEGER NOT NULL,
			target INTEGER NOT NULL,
			thread INTEGER NOT NULL,
			model_id INTEGER NOT NULL,
			port INTEGER NOT NULL,
			label INTEGER NOT NULL,
			weight REAL NOT NULL,
			delay REAL NOT NULL,
			params BLOB
		);
		CREATE INDEX IF NOT EXISTS connections_source ON connections (source, model_id, port);
		CREATE TABLE IF NOT EXISTS ports (
			source INTEGER NOT NULL,
			model_id INTEGER NOT NULL,
			next_port INTEGER NOT NULL,
			PRIMARY KEY (source, model_id)
		);
	`)
	return err
}
