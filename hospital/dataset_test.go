// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package hospital

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallback(t *testing.T) {
	hospitals := Fallback()

	require.Len(t, hospitals, 5)

	for _, hosp := range hospitals {
		assert.NotEmpty(t, hosp.Name)
		assert.True(t, hosp.Point.Valid(), "%s has invalid coordinates", hosp.Name)
		assert.NotZero(t, hosp.Cell, "%s has no H3 cell", hosp.Name)
		assert.GreaterOrEqual(t, hosp.Rating, 0.0)
		assert.LessOrEqual(t, hosp.Rating, 5.0)
	}
}

func TestReadCSVFile(t *testing.T) {
	hospitals, skipped, err := ReadCSVFile(filepath.Join("testdata", "hospitals.csv"))
	require.NoError(t, err)

	// two malformed rows: unparseable latitude, missing name
	assert.Equal(t, 2, skipped)
	require.Len(t, hospitals, 6)

	byName := make(map[string]Hospital, len(hospitals))
	for _, hosp := range hospitals {
		byName[hosp.Name] = hosp
	}

	aiims, ok := byName["AIIMS Delhi"]
	require.True(t, ok)
	assert.InDelta(t, 28.5672, aiims.Point.Lat, 1e-6)
	assert.InDelta(t, 77.2100, aiims.Point.Lng, 1e-6)
	assert.InDelta(t, 4.8, aiims.Rating, 1e-9)

	if diff := cmp.Diff([]string{"Dr. Sharma", "Dr. Rao"}, aiims.Doctors); diff != "" {
		t.Errorf("doctors mismatch (-want +got):\n%s", diff)
	}

	// blank doctors and rating coerce to defaults, not errors
	nursing, ok := byName["No Rating Nursing Home"]
	require.True(t, ok)
	assert.Empty(t, nursing.Doctors)
	assert.Zero(t, nursing.Rating)
}

func TestReadCSVHeaderFolding(t *testing.T) {
	csv := "NAME, Type ,LATITUDE,Longitude,Doctors,RATING\n" +
		"Test Clinic,General,12.5,79.5,Dr. One|Dr. Two,3.9\n"

	hospitals, skipped, err := ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, hospitals, 1)

	assert.Equal(t, "Test Clinic", hospitals[0].Name)
	assert.Equal(t, "General", hospitals[0].Type)
	assert.Len(t, hospitals[0].Doctors, 2)
}

func TestReadCSVMissingRequiredColumn(t *testing.T) {
	csv := "name,type\nSome Clinic,General\n"

	_, _, err := ReadCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")
}

func TestReadCSVOutOfRangeCoordinatesSkipped(t *testing.T) {
	csv := "name,type,latitude,longitude,doctors,rating\n" +
		"North of the Pole,General,95.0,79.0,,4.0\n" +
		"Fine Clinic,General,12.0,79.0,,4.0\n"

	hospitals, skipped, err := ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, hospitals, 1)
	assert.Equal(t, "Fine Clinic", hospitals[0].Name)
}

func TestSplitDoctors(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Dr. A|Dr. B", []string{"Dr. A", "Dr. B"}},
		{" Dr. A | Dr. B ", []string{"Dr. A", "Dr. B"}},
		{"Dr. A||", []string{"Dr. A"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitDoctors(tt.in))
	}
}

func TestJoinDoctorsRoundTrip(t *testing.T) {
	doctors := []string{"Dr. Sharma", "Dr. Rao"}

	assert.Equal(t, doctors, SplitDoctors(JoinDoctors(doctors)))
}
