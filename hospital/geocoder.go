// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package hospital

import "github.com/jcodagnone/hospifind/spatial"

// GeocodingResult represents a geocoding result from any provider.
type GeocodingResult struct {
	Point       spatial.Point `json:"point"`
	Confidence  string        `json:"confidence"` // high, medium, low
	Provider    string        `json:"provider"`
	DisplayName string        `json:"display_name"`
}

// Geocoder resolves free-text locations into coordinates. Implementations
// may retry internally (e.g. with a country-qualifying suffix) but must
// report failures as errors, never panic; timeouts are treated by callers
// the same as "no match found".
type Geocoder interface {
	Geocode(location string) (*GeocodingResult, error)
}
