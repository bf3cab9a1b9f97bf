// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package hospital

import (
	"fmt"
	"strings"

	"github.com/jcodagnone/hospifind/spatial"
)

// validateCoordinates checks global coordinate ranges plus reasonable bounds
// for India (with roughly a degree of margin for precision errors). Geocoder
// output outside these bounds is treated as "not found" rather than placing
// markers on another continent.
func validateCoordinates(p spatial.Point) error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90 (got: %f)", p.Lat)
	}

	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180 (got: %f)", p.Lng)
	}

	// India: approximately 6°N to 36°N, 68°E to 98°E
	const (
		indiaMinLat = 5.0
		indiaMaxLat = 37.0
		indiaMinLng = 67.0
		indiaMaxLng = 99.0
	)

	if p.Lat < indiaMinLat || p.Lat > indiaMaxLat {
		return fmt.Errorf("latitude outside India bounds (%f to %f): %f", indiaMinLat, indiaMaxLat, p.Lat)
	}

	if p.Lng < indiaMinLng || p.Lng > indiaMaxLng {
		return fmt.Errorf("longitude outside India bounds (%f to %f): %f", indiaMinLng, indiaMaxLng, p.Lng)
	}

	return nil
}

// sanitizeLocation trims and caps a free-text location query.
func sanitizeLocation(loc string) string {
	loc = strings.TrimSpace(loc)

	if len(loc) > 500 {
		loc = loc[:500]
	}

	return loc
}
