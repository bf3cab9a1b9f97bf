// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package hospital

import (
	"database/sql"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupHospitalDB opens an in-memory DuckDB with the hospitals schema.
func setupHospitalDB(t *testing.T) (*sql.DB, Repository) {
	t.Helper()

	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)

	repo := NewRepository(db)
	require.NoError(t, repo.CreateSchema())

	return db, repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	db, repo := setupHospitalDB(t)
	defer db.Close()

	require.NoError(t, repo.BulkInsert(Fallback()))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	hospitals, err := repo.All()
	require.NoError(t, err)
	require.Len(t, hospitals, 5)

	byName := make(map[string]Hospital, len(hospitals))
	for _, hosp := range hospitals {
		byName[hosp.Name] = hosp
	}

	for _, want := range Fallback() {
		got, ok := byName[want.Name]
		require.True(t, ok, "missing %s", want.Name)

		assert.Equal(t, want.Type, got.Type)
		assert.InDelta(t, want.Point.Lat, got.Point.Lat, 1e-6)
		assert.InDelta(t, want.Point.Lng, got.Point.Lng, 1e-6)
		assert.InDelta(t, want.Rating, got.Rating, 1e-9)
		assert.Equal(t, want.Cell, got.Cell)

		if diff := cmp.Diff(want.Doctors, got.Doctors); diff != "" {
			t.Errorf("%s doctors mismatch (-want +got):\n%s", want.Name, diff)
		}
	}
}

func TestRepositoryAllSortedByName(t *testing.T) {
	db, repo := setupHospitalDB(t)
	defer db.Close()

	require.NoError(t, repo.BulkInsert(Fallback()))

	hospitals, err := repo.All()
	require.NoError(t, err)

	for i := 1; i < len(hospitals); i++ {
		assert.LessOrEqual(t, hospitals[i-1].Name, hospitals[i].Name)
	}
}

func TestRepositoryUpsertByName(t *testing.T) {
	db, repo := setupHospitalDB(t)
	defer db.Close()

	require.NoError(t, repo.BulkInsert(Fallback()))

	updated := Fallback()[0]
	updated.Rating = 5.0
	updated.Doctors = []string{"Dr. New"}

	require.NoError(t, repo.BulkInsert([]Hospital{updated}))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, count, "upsert must not duplicate rows")

	hospitals, err := repo.All()
	require.NoError(t, err)

	for _, hosp := range hospitals {
		if hosp.Name == updated.Name {
			assert.InDelta(t, 5.0, hosp.Rating, 1e-9)
			assert.Equal(t, []string{"Dr. New"}, hosp.Doctors)
		}
	}
}

func TestRepositoryTypes(t *testing.T) {
	db, repo := setupHospitalDB(t)
	defer db.Close()

	require.NoError(t, repo.BulkInsert(Fallback()))

	types, err := repo.Types()
	require.NoError(t, err)

	assert.Equal(t, []string{TypeAll, "General", "Multispeciality", "Psychiatry"}, types)
}

func TestRepositoryEmpty(t *testing.T) {
	db, repo := setupHospitalDB(t)
	defer db.Close()

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	hospitals, err := repo.All()
	require.NoError(t, err)
	assert.Empty(t, hospitals)

	types, err := repo.Types()
	require.NoError(t, err)
	assert.Equal(t, []string{TypeAll}, types)
}
