// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package hospital

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/hospifind/spatial"
)

// User-visible messages of the error taxonomy. Internal detail is logged
// server side and never leaks into these.
const (
	msgEmptyLocation   = "Please enter a location."
	msgLocationMissing = "Location not found. Try a different query or be more specific."
	msgNoMatchingType  = "No hospitals of that type are available in this dataset."
	msgEmptyDataset    = "The hospital dataset is empty."
	msgInternal        = "Something went wrong on our side. Please try again."
)

// Server serves the hospital finder UI and its JSON API. The dataset slice
// is immutable after construction; concurrent requests read it without
// synchronization.
type Server struct {
	dataset  []Hospital
	types    []string
	geocoder Geocoder

	// TemplateGlob locates the HTML views. Tests point it elsewhere.
	TemplateGlob string
}

// NewServer creates a Server over an immutable dataset.
func NewServer(dataset []Hospital, types []string, geocoder Geocoder) *Server {
	if len(types) == 0 {
		types = Types(dataset)
	}

	return &Server{
		dataset:      dataset,
		types:        types,
		geocoder:     geocoder,
		TemplateGlob: "templates/*.html",
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(template.Must(template.New("").ParseGlob(s.TemplateGlob)))

	r.GET("/", s.indexView)
	r.POST("/", s.searchView)
	r.GET("/api/hospitals", s.apiHospitals)
	r.GET("/api/types", s.apiTypes)
	r.GET("/health", s.health)

	return r
}

// Run starts the server on addr and blocks.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

// viewData carries everything the index template can render.
type viewData struct {
	Error    string
	Location string
	Type     string
	Types    []string
	Best     *Ranked
	Nearby   []Ranked
	MapJSON  template.JS
}

func (s *Server) indexView(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "index.html", viewData{
		Types: s.types,
		Type:  TypeAll,
	})
}

func (s *Server) searchView(ctx *gin.Context) {
	data := viewData{
		Types:    s.types,
		Location: sanitizeLocation(ctx.PostForm("location")),
		Type:     ctx.DefaultPostForm("type", TypeAll),
	}

	if data.Location == "" {
		data.Error = msgEmptyLocation
		ctx.HTML(http.StatusOK, "index.html", data)

		return
	}

	result, err := s.geocoder.Geocode(data.Location)
	if err != nil {
		if IsNotFoundError(err) {
			data.Error = msgLocationMissing
		} else {
			log.Printf("geocoding %q: %v", data.Location, err)

			data.Error = msgInternal
		}

		ctx.HTML(http.StatusOK, "index.html", data)

		return
	}

	if err := validateCoordinates(result.Point); err != nil {
		log.Printf("geocoder placed %q outside the serviced area: %v", data.Location, err)

		data.Error = msgLocationMissing
		ctx.HTML(http.StatusOK, "index.html", data)

		return
	}

	best, nearby, err := Rank(s.dataset, result.Point, data.Type)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoMatchingType):
			data.Error = msgNoMatchingType
		case errors.Is(err, ErrEmptyDataset):
			data.Error = msgEmptyDataset
		default:
			log.Printf("ranking for %q: %v", data.Location, err)

			data.Error = msgInternal
		}

		ctx.HTML(http.StatusOK, "index.html", data)

		return
	}

	view := BuildMapView(result.Point, best, nearby)

	encoded, err := json.Marshal(view)
	if err != nil {
		log.Printf("encoding map view: %v", err)

		data.Error = msgInternal
		ctx.HTML(http.StatusOK, "index.html", data)

		return
	}

	data.Best = &best
	data.Nearby = nearby
	data.MapJSON = template.JS(encoded) // #nosec G203 - encoded by json.Marshal above

	ctx.HTML(http.StatusOK, "index.html", data)
}

// rankingResponse is the JSON API shape.
type rankingResponse struct {
	Query  spatial.Point `json:"query"`
	Best   Ranked        `json:"best"`
	Nearby []Ranked      `json:"nearby"`
}

func (s *Server) apiHospitals(ctx *gin.Context) {
	lat, errLat := strconv.ParseFloat(ctx.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(ctx.Query("lng"), 64)

	if errLat != nil || errLng != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})

		return
	}

	origin := spatial.Point{Lat: lat, Lng: lng}
	if !origin.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("coordinates out of range: %s", origin)})

		return
	}

	typeFilter := ctx.DefaultQuery("type", TypeAll)

	best, nearby, err := Rank(s.dataset, origin, typeFilter)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoMatchingType):
			ctx.JSON(http.StatusNotFound, gin.H{"error": msgNoMatchingType})
		case errors.Is(err, ErrEmptyDataset):
			ctx.JSON(http.StatusNotFound, gin.H{"error": msgEmptyDataset})
		default:
			log.Printf("ranking: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		}

		return
	}

	ctx.JSON(http.StatusOK, rankingResponse{
		Query:  origin,
		Best:   best,
		Nearby: nearby,
	})
}

func (s *Server) apiTypes(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, s.types)
}

func (s *Server) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
