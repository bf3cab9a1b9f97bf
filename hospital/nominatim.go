// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package hospital

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jcodagnone/hospifind/spatial"
	"github.com/jcodagnone/hospifind/utils/httputils"
)

const nominatimBaseURL = "https://nominatim.openstreetmap.org/search"

// NominatimGeocoder resolves locations against the OpenStreetMap Nominatim
// API. It is the default provider; free, but subject to the Nominatim usage
// policy (identify with a User-Agent, low request rates).
type NominatimGeocoder struct {
	baseURL       string
	countrySuffix string
	httpClient    *http.Client
}

// NewNominatimGeocoder creates a Nominatim geocoder biased to India. The
// version goes into the User-Agent the Nominatim usage policy requires.
// When trace is non-nil, every HTTP transaction is dumped to it.
func NewNominatimGeocoder(version string, trace io.Writer) *NominatimGeocoder {
	var transport http.RoundTripper = &httputils.AppendRequestHeadersRoundTripper{
		Transport: http.DefaultTransport,
		Headers:   map[string]string{"User-Agent": fmt.Sprintf("hospifind/%s (hospital finder)", version)},
	}

	if trace != nil {
		transport = &httputils.LoggingRoundTripper{
			Transport: transport,
			Writer:    trace,
			DumpBody:  true,
		}
	}

	return &NominatimGeocoder{
		baseURL:       nominatimBaseURL,
		countrySuffix: "India",
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
	}
}

type nominatimResponse []struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Importance  float64 `json:"importance"`
	DisplayName string  `json:"display_name"`
}

// Geocode resolves a free-text location. When the raw query has no match it
// retries once with the country suffix appended ("<query>, India"), which
// rescues bare locality names that are ambiguous globally.
func (g *NominatimGeocoder) Geocode(location string) (*GeocodingResult, error) {
	result, err := g.search(location)
	if err == nil {
		return result, nil
	}

	if !IsNotFoundError(err) {
		return nil, err
	}

	return g.search(fmt.Sprintf("%s, %s", location, g.countrySuffix))
}

func (g *NominatimGeocoder) search(query string) (*GeocodingResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("accept-language", "en")

	resp, err := g.httpClient.Get(g.baseURL + "?" + params.Encode())
	if err != nil {
		if urlErr, ok := err.(interface{ Timeout() bool }); ok && urlErr.Timeout() {
			return nil, &GeocodingError{Type: ErrorTypeTimeout, Message: "geocoding timed out", Err: err}
		}

		return nil, &GeocodingError{Type: ErrorTypeNetworkError, Message: "geocoding request failed", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode)
	}

	var results nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(results) == 0 {
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("no results found for location: %s", query),
		}
	}

	first := results[0]

	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude %q: %w", first.Lat, err)
	}

	lng, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude %q: %w", first.Lon, err)
	}

	// Nominatim has no rooftop/approximate distinction; importance is the
	// closest signal it exposes.
	confidence := "low"

	switch {
	case first.Importance >= 0.6:
		confidence = "high"
	case first.Importance >= 0.4:
		confidence = "medium"
	}

	return &GeocodingResult{
		Point:       spatial.Point{Lat: lat, Lng: lng},
		Confidence:  confidence,
		Provider:    "nominatim",
		DisplayName: first.DisplayName,
	}, nil
}
