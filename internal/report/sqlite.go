/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var schema = []string{
	`CREATE TABLE runs (
		id          INTEGER PRIMARY KEY,
		start_track INTEGER NOT NULL,
		batch_size  INTEGER NOT NULL,
		requests    INTEGER NOT NULL,
		created_at  TEXT    NOT NULL
	)`,
	`CREATE TABLE results (
		run_id INTEGER NOT NULL REFERENCES runs(id),
		policy TEXT    NOT NULL,
		seq    INTEGER NOT NULL,
		track  INTEGER NOT NULL,
		moves  INTEGER NOT NULL,
		PRIMARY KEY (run_id, policy, seq)
	)`,
	`CREATE TABLE summaries (
		run_id       INTEGER NOT NULL REFERENCES runs(id),
		policy       TEXT    NOT NULL,
		mean_moves   INTEGER NOT NULL,
		mean_time_ns INTEGER NOT NULL,
		PRIMARY KEY (run_id, policy)
	)`,
	`CREATE TABLE faults (
		run_id INTEGER NOT NULL REFERENCES runs(id),
		policy TEXT    NOT NULL,
		reason TEXT    NOT NULL
	)`,
}

// WriteSQLite stores r in a fresh SQLite database at path, replacing any
// existing file.
func WriteSQLite(ctx context.Context, path string, r *Report) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := insertReport(ctx, tx, r); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertReport(ctx context.Context, tx *sql.Tx, r *Report) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO runs (start_track, batch_size, requests, created_at) VALUES (?, ?, ?, ?)",
		r.StartTrack, r.BatchSize, r.Requests, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO results (run_id, policy, seq, track, moves) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, row := range r.Rows {
		for i, c := range row.Cells {
			if _, err := stmt.ExecContext(ctx, runID, r.Policies[i], row.Index, c.Track, c.Moves); err != nil {
				return fmt.Errorf("insert result %d: %w", row.Index, err)
			}
		}
	}

	for _, s := range r.Summaries {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO summaries (run_id, policy, mean_moves, mean_time_ns) VALUES (?, ?, ?, ?)",
			runID, s.Policy, s.MeanMoves, s.MeanTime.Nanoseconds()); err != nil {
			return fmt.Errorf("insert summary: %w", err)
		}
	}
	for _, f := range r.Faults {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO faults (run_id, policy, reason) VALUES (?, ?, ?)",
			runID, f.Policy, f.Reason); err != nil {
			return fmt.Errorf("insert fault: %w", err)
		}
	}
	return nil
}
