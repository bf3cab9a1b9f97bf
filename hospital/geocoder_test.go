// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package hospital

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcodagnone/hospifind/spatial"
)

// The debug geocode command prints results as JSON; keys must stay in the
// documented lowercase form.
func TestGeocodingResultJSON(t *testing.T) {
	result := GeocodingResult{
		Point:       spatial.Point{Lat: 13.0827, Lng: 80.2707},
		Confidence:  "high",
		Provider:    "nominatim",
		DisplayName: "Chennai, Tamil Nadu, India",
	}

	encoded, err := json.Marshal(result)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"point": {"lat": 13.0827, "lng": 80.2707},
		"confidence": "high",
		"provider": "nominatim",
		"display_name": "Chennai, Tamil Nadu, India"
	}`, string(encoded))
}
