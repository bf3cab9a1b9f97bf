// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package hospital

import (
	"database/sql"
	"fmt"
	"sort"
)

// Repository handles persistence of the hospital dataset. The ranking engine
// is indifferent to the source: it only ever sees the []Hospital slice the
// repository materializes at startup.
type Repository interface {
	// CreateSchema creates the hospitals table
	CreateSchema() error

	// BulkInsert inserts a slice of hospitals into the database
	BulkInsert(hospitals []Hospital) error

	// All returns every stored hospital, sorted by name
	All() ([]Hospital, error)

	// Types returns the distinct type labels, TypeAll first
	Types() ([]string, error)

	// Count returns the number of stored hospitals
	Count() (int, error)

	// DB returns the underlying database connection
	DB() *sql.DB
}

type sqlHospitalRepository struct {
	db *sql.DB
}

// NewRepository creates a DuckDB backed hospital repository.
func NewRepository(db *sql.DB) Repository {
	return &sqlHospitalRepository{db: db}
}

// DB returns the underlying database connection for advanced queries.
func (r *sqlHospitalRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlHospitalRepository) CreateSchema() error {
	// DuckDB needs to load the spatial extension
	_, err := r.db.Exec(`INSTALL spatial; LOAD spatial;`)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS hospitals_seq START 1;

		CREATE TABLE IF NOT EXISTS hospitals (
			id INTEGER PRIMARY KEY DEFAULT nextval('hospitals_seq'),
			name VARCHAR NOT NULL,
			type VARCHAR NOT NULL,
			point POINT_2D NOT NULL,
			doctors VARCHAR NOT NULL,
			rating DOUBLE NOT NULL,
			h3_res5 UBIGINT,
			UNIQUE(name)
		);
	`)

	return err
}

func (r *sqlHospitalRepository) BulkInsert(hospitals []Hospital) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO hospitals (name, type, point, doctors, rating, h3_res5)
		VALUES (?, ?, ST_Point(?, ?), ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			type = excluded.type,
			point = excluded.point,
			doctors = excluded.doctors,
			rating = excluded.rating,
			h3_res5 = excluded.h3_res5
	`)
	if err != nil {
		_ = tx.Rollback()

		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range hospitals {
		hosp := &hospitals[i]

		if hosp.Cell == 0 {
			if err := hosp.computeCell(); err != nil {
				_ = tx.Rollback()

				return err
			}
		}

		_, err := stmt.Exec(
			hosp.Name,
			hosp.Type,
			hosp.Point.Lng,
			hosp.Point.Lat,
			JoinDoctors(hosp.Doctors),
			hosp.Rating,
			hosp.Cell,
		)
		if err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("inserting %s: %w", hosp.Name, err)
		}
	}

	return tx.Commit()
}

func (r *sqlHospitalRepository) All() ([]Hospital, error) {
	rows, err := r.db.Query(`
		SELECT name, type, point, doctors, rating, h3_res5
		FROM hospitals
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying hospitals: %w", err)
	}
	defer rows.Close()

	var hospitals []Hospital

	for rows.Next() {
		var (
			hosp    Hospital
			doctors string
		)

		if err := rows.Scan(&hosp.Name, &hosp.Type, &hosp.Point, &doctors, &hosp.Rating, &hosp.Cell); err != nil {
			return nil, fmt.Errorf("scanning hospital: %w", err)
		}

		hosp.Doctors = SplitDoctors(doctors)
		hospitals = append(hospitals, hosp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return hospitals, nil
}

func (r *sqlHospitalRepository) Types() ([]string, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT type
		FROM hospitals
		WHERE type IS NOT NULL AND type != ''
	`)
	if err != nil {
		return nil, fmt.Errorf("querying types: %w", err)
	}
	defer rows.Close()

	var types []string

	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}

		types = append(types, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Strings(types)

	return append([]string{TypeAll}, types...), nil
}

func (r *sqlHospitalRepository) Count() (int, error) {
	var count int

	err := r.db.QueryRow(`SELECT COUNT(*) FROM hospitals`).Scan(&count)

	return count, err
}
