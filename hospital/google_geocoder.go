// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package hospital

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"github.com/jcodagnone/hospifind/spatial"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
)

// GoogleMapsGeocoder uses the Google Maps Geocoding API. Paid and quota
// bound, but considerably more stable than Nominatim.
type GoogleMapsGeocoder struct {
	apiKey     string
	httpClient *http.Client
}

// NewGoogleMapsGeocoder creates a new Google Maps geocoder. The API key is
// taken from GOOGLE_MAPS_API_KEY, falling back to Application Default
// Credentials lookup.
func NewGoogleMapsGeocoder() *GoogleMapsGeocoder {
	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		log.Println("GOOGLE_MAPS_API_KEY is not set. Attempting to retrieve via ADC...")

		var err error

		apiKey, err = getAPIKeyFromADC(context.Background())
		if err != nil {
			log.Printf("Failed to retrieve API key via ADC: %v", err)
			log.Print("GOOGLE_MAPS_API_KEY is not set and ADC failed. Geocoding will be rejected upstream.")
		}
	}

	return &GoogleMapsGeocoder{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func getAPIKeyFromADC(ctx context.Context) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", fmt.Errorf("finding default credentials: %w", err)
	}

	projectID := creds.ProjectID
	if projectID == "" {
		return "", errors.New("no project ID found in default credentials")
	}

	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer client.Close()

	const targetDisplayName = "HospiFind Geocoding Key"

	req := &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", projectID),
	}

	it := client.ListKeys(ctx, req)

	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}

		if key.DisplayName == targetDisplayName {
			// ListKeys and GetKey redact the KeyString; GetKeyString is the
			// only way to retrieve the secret.
			getReq := &apikeyspb.GetKeyStringRequest{
				Name: key.Name,
			}

			resp, err := client.GetKeyString(ctx, getReq)
			if err != nil {
				return "", fmt.Errorf("getting key string: %w", err)
			}

			if resp.KeyString == "" {
				return "", fmt.Errorf("key %q found but KeyString is still empty after GetKeyString", targetDisplayName)
			}

			return resp.KeyString, nil
		}
	}

	return "", fmt.Errorf("key with display name %q not found in project %s", targetDisplayName, projectID)
}

type googleMapsResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
			LocationType string `json:"location_type"` // ROOFTOP, RANGE_INTERPOLATED, GEOMETRIC_CENTER, APPROXIMATE
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status string `json:"status"` // OK, ZERO_RESULTS, etc.
}

// Geocode resolves a free-text location, biased to India.
func (g *GoogleMapsGeocoder) Geocode(location string) (*GeocodingResult, error) {
	if g.apiKey == "" {
		return nil, &GeocodingError{
			Type:    ErrorTypeInvalidRequest,
			Message: "google maps geocoder has no API key",
		}
	}

	params := url.Values{}
	params.Set("address", location+", India")
	params.Set("key", g.apiKey)
	params.Set("region", "in") // Bias to India

	reqURL := "https://maps.googleapis.com/maps/api/geocode/json?" + params.Encode()

	resp, err := g.httpClient.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode)
	}

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if gmResp.Status == "ZERO_RESULTS" || (gmResp.Status == "OK" && len(gmResp.Results) == 0) {
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("no results found for location: %s", location),
		}
	}

	if gmResp.Status != "OK" {
		return nil, fmt.Errorf("google maps status: %s", gmResp.Status)
	}

	result := gmResp.Results[0]

	confidence := "low"

	switch result.Geometry.LocationType {
	case "ROOFTOP", "RANGE_INTERPOLATED":
		confidence = "high"
	case "GEOMETRIC_CENTER":
		confidence = "medium"
	case "APPROXIMATE":
		confidence = "low"
	}

	return &GeocodingResult{
		Point:       spatial.Point{Lat: result.Geometry.Location.Lat, Lng: result.Geometry.Location.Lng},
		Confidence:  confidence,
		Provider:    "google_maps",
		DisplayName: result.FormattedAddress,
	}, nil
}
