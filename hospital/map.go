// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package hospital

import (
	"fmt"

	"github.com/jcodagnone/hospifind/spatial"
	"github.com/uber/h3-go/v4"
)

// Marker is a single pin on the rendered map.
type Marker struct {
	Name       string        `json:"name"`
	Type       string        `json:"type"`
	Point      spatial.Point `json:"point"`
	Rating     float64       `json:"rating"`
	DistanceKm float64       `json:"distance_km"`
	Doctors    []string      `json:"doctors"`
	Best       bool          `json:"best"`
}

// Cluster groups nearby markers that share an H3 cell, so dense cities
// render as one badge instead of a stack of overlapping pins.
type Cluster struct {
	Cell   string        `json:"cell"`
	Center spatial.Point `json:"center"`
	Count  int           `json:"count"`
	Names  []string      `json:"names"`
}

// MapView is the payload handed to the Leaflet front end: the query
// location, one marker per nearby result, a distinguished best marker, and
// the H3 cluster summary.
type MapView struct {
	Center   spatial.Point `json:"center"`
	Zoom     int           `json:"zoom"`
	Markers  []Marker      `json:"markers"`
	Best     Marker        `json:"best"`
	Clusters []Cluster     `json:"clusters"`
}

// BuildMapView assembles the map payload from the ranking output.
func BuildMapView(origin spatial.Point, best Ranked, nearby []Ranked) MapView {
	view := MapView{
		Center: origin,
		Zoom:   12,
		Best:   rankedMarker(best, true),
	}

	view.Markers = make([]Marker, 0, len(nearby))
	for _, r := range nearby {
		view.Markers = append(view.Markers, rankedMarker(r, r.Name == best.Name))
	}

	view.Clusters = clusterMarkers(nearby)

	return view
}

func rankedMarker(r Ranked, best bool) Marker {
	doctors := r.Doctors
	if doctors == nil {
		doctors = []string{}
	}

	return Marker{
		Name:       r.Name,
		Type:       r.Type,
		Point:      r.Point,
		Rating:     r.Rating,
		DistanceKm: r.DistanceKm,
		Doctors:    doctors,
		Best:       best,
	}
}

// clusterMarkers groups the ranked results by their H3 cell. Cluster order
// follows the first appearance in the (distance-sorted) input, so output is
// deterministic.
func clusterMarkers(nearby []Ranked) []Cluster {
	index := make(map[int64]int, len(nearby))

	clusters := make([]Cluster, 0, len(nearby))

	for _, r := range nearby {
		if i, ok := index[r.Cell]; ok {
			clusters[i].Count++
			clusters[i].Names = append(clusters[i].Names, r.Name)

			continue
		}

		center := r.Point

		if latLng, err := h3.CellToLatLng(h3.Cell(r.Cell)); err == nil {
			center = spatial.Point{Lat: latLng.Lat, Lng: latLng.Lng}
		}

		index[r.Cell] = len(clusters)
		clusters = append(clusters, Cluster{
			Cell:   fmt.Sprintf("%x", r.Cell),
			Center: center,
			Count:  1,
			Names:  []string{r.Name},
		})
	}

	return clusters
}
