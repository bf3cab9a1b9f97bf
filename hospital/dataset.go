// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package hospital

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jcodagnone/hospifind/spatial"
	"github.com/jcodagnone/hospifind/utils"
)

// Fallback returns the built-in sample dataset, used when no CSV has been
// imported. Coordinates and ratings mirror the published sample data.
func Fallback() []Hospital {
	hospitals := []Hospital{
		{
			Name:    "AIIMS Delhi",
			Type:    "Multispeciality",
			Point:   spatial.Point{Lat: 28.5672, Lng: 77.2100},
			Doctors: []string{"Dr. Sharma", "Dr. Rao"},
			Rating:  4.8,
		},
		{
			Name:    "Apollo Hospital Chennai",
			Type:    "Multispeciality",
			Point:   spatial.Point{Lat: 13.0500, Lng: 80.2500},
			Doctors: []string{"Dr. Kumar", "Dr. Meena"},
			Rating:  4.5,
		},
		{
			Name:    "NIMHANS Bangalore",
			Type:    "Psychiatry",
			Point:   spatial.Point{Lat: 12.9780, Lng: 77.5910},
			Doctors: []string{"Dr. Ramesh"},
			Rating:  4.6,
		},
		{
			Name:    "KEM Hospital Mumbai",
			Type:    "General",
			Point:   spatial.Point{Lat: 18.9875, Lng: 72.8260},
			Doctors: []string{"Dr. Patil"},
			Rating:  4.4,
		},
		{
			Name:    "Vinayaka Mission Hospital Karaikal",
			Type:    "Multispeciality",
			Point:   spatial.Point{Lat: 10.9094, Lng: 79.8461},
			Doctors: []string{"Dr. R.T. Kannapiran"},
			Rating:  4.3,
		},
	}

	for i := range hospitals {
		if err := hospitals[i].computeCell(); err != nil {
			// The fallback coordinates are constants; this cannot happen
			// unless the table above is edited into something invalid.
			log.Printf("computing cell for %s: %v", hospitals[i].Name, err)
		}
	}

	return hospitals
}

// csvColumns maps folded header names to column indexes.
type csvColumns map[string]int

func (c csvColumns) get(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// ReadCSV parses a hospitals CSV with the columns
// name,type,latitude,longitude,doctors,rating where doctors is
// pipe-separated and rating defaults to 0 when blank or unparseable.
// Header matching is case and accent insensitive. Rows that fail to parse
// are skipped and counted, never abort the whole load.
func ReadCSV(r io.Reader) ([]Hospital, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("reading CSV header: %w", err)
	}

	columns := make(csvColumns, len(header))
	for i, name := range header {
		columns[utils.LowerASCIIFolding(name)] = i
	}

	for _, required := range []string{"name", "latitude", "longitude"} {
		if _, ok := columns[required]; !ok {
			return nil, 0, fmt.Errorf("CSV is missing the %q column", required)
		}
	}

	var hospitals []Hospital

	skipped := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			skipped++

			continue
		}

		hosp, err := parseRow(columns, row)
		if err != nil {
			log.Printf("skipping row: %v", err)

			skipped++

			continue
		}

		hospitals = append(hospitals, hosp)
	}

	return hospitals, skipped, nil
}

// parseRow converts one CSV row into a Hospital, coercing optional fields to
// defaults and rejecting rows whose required fields don't parse.
func parseRow(columns csvColumns, row []string) (Hospital, error) {
	name := columns.get(row, "name")
	if name == "" {
		return Hospital{}, fmt.Errorf("row has no name: %q", row)
	}

	lat, err := strconv.ParseFloat(columns.get(row, "latitude"), 64)
	if err != nil {
		return Hospital{}, fmt.Errorf("%s: bad latitude: %w", name, err)
	}

	lng, err := strconv.ParseFloat(columns.get(row, "longitude"), 64)
	if err != nil {
		return Hospital{}, fmt.Errorf("%s: bad longitude: %w", name, err)
	}

	point := spatial.Point{Lat: lat, Lng: lng}
	if !point.Valid() {
		return Hospital{}, fmt.Errorf("%s: coordinates out of range: %s", name, point)
	}

	rating, err := strconv.ParseFloat(columns.get(row, "rating"), 64)
	if err != nil {
		rating = 0
	}

	hosp := Hospital{
		Name:    name,
		Type:    columns.get(row, "type"),
		Point:   point,
		Doctors: SplitDoctors(columns.get(row, "doctors")),
		Rating:  rating,
	}

	if err := hosp.computeCell(); err != nil {
		return Hospital{}, err
	}

	return hosp, nil
}

// ReadCSVFile is ReadCSV over a file on disk.
func ReadCSVFile(path string) ([]Hospital, int, error) {
	f, err := os.Open(path) // #nosec G304 - path is provided by admin
	if err != nil {
		return nil, 0, fmt.Errorf("opening CSV: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}
