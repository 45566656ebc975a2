// Package db persists per-cycle pipeline records to SQLite. Raw samples are
// never stored; one row per emitted record keeps the database bounded by
// cycle rate rather than sample rate.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/motor.report/internal/motor"
)

type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the record database at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS cycle_records (
			record_id         TEXT PRIMARY KEY,
			ts                TIMESTAMP,
			ax                DOUBLE,
			ay                DOUBLE,
			az                DOUBLE,
			temp              DOUBLE,
			ia                DOUBLE,
			ib                DOUBLE,
			ic                DOUBLE,
			raw_id            DOUBLE,
			raw_iq            DOUBLE,
			filtered_id       DOUBLE,
			filtered_iq       DOUBLE,
			score             DOUBLE,
			classification    TEXT,
			warnings          TEXT,
			fallback          BOOLEAN,
			overflow          BOOLEAN
		);
		CREATE INDEX IF NOT EXISTS idx_cycle_records_ts ON cycle_records(ts);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// RecordCycle inserts one emitted record.
func (db *DB) RecordCycle(rec motor.Record) error {
	warnings, err := json.Marshal(rec.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}
	_, err = db.Exec(`
		INSERT INTO cycle_records (
			record_id, ts, ax, ay, az, temp, ia, ib, ic,
			raw_id, raw_iq, filtered_id, filtered_iq,
			score, classification, warnings, fallback, overflow
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), rec.Time, rec.Ax, rec.Ay, rec.Az, rec.Temp,
		rec.Ia, rec.Ib, rec.Ic,
		rec.RawID, rec.RawIQ, rec.FilteredID, rec.FilteredIQ,
		rec.Score, string(rec.Classification), string(warnings),
		rec.Fallback, rec.Overflow,
	)
	if err != nil {
		return fmt.Errorf("failed to record cycle: %w", err)
	}
	return nil
}

func scanRecords(rows *sql.Rows) ([]motor.Record, error) {
	var out []motor.Record
	for rows.Next() {
		var rec motor.Record
		var class, warnings string
		if err := rows.Scan(
			&rec.Time, &rec.Ax, &rec.Ay, &rec.Az, &rec.Temp,
			&rec.Ia, &rec.Ib, &rec.Ic,
			&rec.RawID, &rec.RawIQ, &rec.FilteredID, &rec.FilteredIQ,
			&rec.Score, &class, &warnings, &rec.Fallback, &rec.Overflow,
		); err != nil {
			return nil, err
		}
		rec.Classification = motor.Classification(class)
		if warnings != "" && warnings != "null" {
			if err := json.Unmarshal([]byte(warnings), &rec.Warnings); err != nil {
				return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

const recordColumns = `ts, ax, ay, az, temp, ia, ib, ic,
	raw_id, raw_iq, filtered_id, filtered_iq,
	score, classification, warnings, fallback, overflow`

// RecentRecords returns up to limit records, newest first.
func (db *DB) RecentRecords(limit int) ([]motor.Record, error) {
	rows, err := db.Query(
		`SELECT `+recordColumns+` FROM cycle_records ORDER BY ts DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// RecordsSince returns records with timestamps at or after the given time,
// oldest first.
func (db *DB) RecordsSince(since time.Time) ([]motor.Record, error) {
	rows, err := db.Query(
		`SELECT `+recordColumns+` FROM cycle_records WHERE ts >= ? ORDER BY ts ASC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}
