// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package hospital

import (
	"fmt"
	"strings"

	"github.com/jcodagnone/hospifind/spatial"
	"github.com/uber/h3-go/v4"
)

// clusterResolution is the H3 resolution used to group markers on the map.
// Resolution 5 cells are ~250 km², city sized.
const clusterResolution = 5

// Hospital represents a single record of the dataset. The dataset is loaded
// once at startup and is read-only afterwards, so values can be shared
// between requests without synchronization.
type Hospital struct {
	Name    string        `json:"name"`
	Type    string        `json:"type"`
	Point   spatial.Point `json:"point"`
	Doctors []string      `json:"doctors"`
	Rating  float64       `json:"rating"`
	Cell    int64         `json:"-"`
}

// Ranked is a Hospital annotated with the distance to the query coordinate.
// Ranked values are computed fresh per request and never persisted.
type Ranked struct {
	Hospital
	DistanceKm float64 `json:"distance_km"`
}

// SplitDoctors parses the pipe-separated doctors field of the CSV format.
// Blank entries are dropped.
func SplitDoctors(s string) []string {
	parts := strings.Split(s, "|")
	doctors := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			doctors = append(doctors, part)
		}
	}

	return doctors
}

// JoinDoctors is the inverse of SplitDoctors, used when persisting.
func JoinDoctors(doctors []string) string {
	return strings.Join(doctors, "|")
}

func (hosp *Hospital) computeCell() error {
	latLng := h3.NewLatLng(hosp.Point.Lat, hosp.Point.Lng)

	cell, err := h3.LatLngToCell(latLng, clusterResolution)
	if err != nil {
		return fmt.Errorf("converting to h3 cell at res %d: %w", clusterResolution, err)
	}

	hosp.Cell = int64(cell)

	return nil
}
