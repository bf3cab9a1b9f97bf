// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package hospital

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/jcodagnone/hospifind/spatial"
)

type stubGeocoder struct {
	result *GeocodingResult
	err    error
}

func (g *stubGeocoder) Geocode(string) (*GeocodingResult, error) {
	return g.result, g.err
}

func testServer(t *testing.T, geocoder Geocoder) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	s := NewServer(Fallback(), nil, geocoder)
	s.TemplateGlob = "../templates/*.html"

	return s.Router()
}

func doGet(t *testing.T, router *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)

	return w
}

func doPost(t *testing.T, router *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	return w
}

// collectNodes walks the parsed document and returns every element named tag.
func collectNodes(root *html.Node, tag string) []*html.Node {
	var nodes []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			nodes = append(nodes, n)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return nodes
}

func TestHealth(t *testing.T) {
	router := testServer(t, &stubGeocoder{})

	w := doGet(t, router, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAPITypes(t *testing.T) {
	router := testServer(t, &stubGeocoder{})

	w := doGet(t, router, "/api/types")
	require.Equal(t, http.StatusOK, w.Code)

	var types []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &types))

	assert.Equal(t, TypeAll, types[0])
	assert.Contains(t, types, "Psychiatry")
}

func TestAPIHospitals(t *testing.T) {
	router := testServer(t, &stubGeocoder{})

	w := doGet(t, router, "/api/hospitals?lat=13.0827&lng=80.2707")
	require.Equal(t, http.StatusOK, w.Code)

	var resp rankingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "AIIMS Delhi", resp.Best.Name)
	require.NotEmpty(t, resp.Nearby)
	assert.Equal(t, "Apollo Hospital Chennai", resp.Nearby[0].Name)
	assert.InDelta(t, 13.0827, resp.Query.Lat, 1e-6)
}

func TestAPIHospitalsBadRequest(t *testing.T) {
	router := testServer(t, &stubGeocoder{})

	for _, target := range []string{
		"/api/hospitals",
		"/api/hospitals?lat=abc&lng=80",
		"/api/hospitals?lat=13",
		"/api/hospitals?lat=95&lng=80",
	} {
		w := doGet(t, router, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestAPIHospitalsUnknownType(t *testing.T) {
	router := testServer(t, &stubGeocoder{})

	w := doGet(t, router, "/api/hospitals?lat=13.0827&lng=80.2707&type=Dental")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), msgNoMatchingType)
}

func TestIndexRendersForm(t *testing.T) {
	router := testServer(t, &stubGeocoder{})

	w := doGet(t, router, "/")
	require.Equal(t, http.StatusOK, w.Code)

	doc, err := html.Parse(w.Body)
	require.NoError(t, err)

	require.Len(t, collectNodes(doc, "form"), 1)

	// one option per distinct type, plus the "All" entry
	options := collectNodes(doc, "option")
	assert.Len(t, options, len(Types(Fallback())))
}

func TestSearchEmptyLocation(t *testing.T) {
	router := testServer(t, &stubGeocoder{})

	w := doPost(t, router, url.Values{"location": {"   "}, "type": {TypeAll}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), msgEmptyLocation)
}

func TestSearchLocationNotFound(t *testing.T) {
	router := testServer(t, &stubGeocoder{
		err: &GeocodingError{Type: ErrorTypeNotFound, Message: "no results found for location: Atlantis"},
	})

	w := doPost(t, router, url.Values{"location": {"Atlantis"}, "type": {TypeAll}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), msgLocationMissing)
	assert.NotContains(t, w.Body.String(), "Atlantis is not a place")
}

func TestSearchGeocoderFailure(t *testing.T) {
	router := testServer(t, &stubGeocoder{
		err: &GeocodingError{Type: ErrorTypeRateLimit, Message: "rate limit reached"},
	})

	w := doPost(t, router, url.Values{"location": {"Chennai"}, "type": {TypeAll}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), msgInternal)

	// the provider detail stays in the server log
	assert.NotContains(t, w.Body.String(), "rate limit")
}

func TestSearchOutsideServicedArea(t *testing.T) {
	router := testServer(t, &stubGeocoder{
		result: &GeocodingResult{Point: spatial.Point{Lat: 51.5074, Lng: -0.1278}, Provider: "stub"},
	})

	w := doPost(t, router, url.Values{"location": {"London"}, "type": {TypeAll}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), msgLocationMissing)
}

func TestSearchRendersResults(t *testing.T) {
	router := testServer(t, &stubGeocoder{
		result: &GeocodingResult{
			Point:      spatial.Point{Lat: 13.0827, Lng: 80.2707},
			Confidence: "high",
			Provider:   "stub",
		},
	})

	w := doPost(t, router, url.Values{"location": {"Chennai"}, "type": {TypeAll}})
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()

	assert.Contains(t, body, "AIIMS Delhi")
	assert.Contains(t, body, "Apollo Hospital Chennai")
	assert.Contains(t, body, `"zoom":12`)

	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)

	lists := collectNodes(doc, "ol")
	require.Len(t, lists, 1)
	assert.Len(t, collectNodes(lists[0], "li"), 5)
}

func TestSearchUnknownType(t *testing.T) {
	router := testServer(t, &stubGeocoder{
		result: &GeocodingResult{Point: spatial.Point{Lat: 13.0827, Lng: 80.2707}, Provider: "stub"},
	})

	w := doPost(t, router, url.Values{"location": {"Chennai"}, "type": {"Dental"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), msgNoMatchingType)
}

func TestSearchEmptyDataset(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewServer(nil, nil, &stubGeocoder{
		result: &GeocodingResult{Point: spatial.Point{Lat: 13.0827, Lng: 80.2707}, Provider: "stub"},
	})
	s.TemplateGlob = "../templates/*.html"

	w := doPost(t, s.Router(), url.Values{"location": {"Chennai"}, "type": {TypeAll}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), msgEmptyDataset)
}
