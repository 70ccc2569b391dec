// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the resolution pipeline over HTTP.
package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wayfarerhq/wayfarer/extract"
	"github.com/wayfarerhq/wayfarer/placecache"
	"github.com/wayfarerhq/wayfarer/render"
	"github.com/wayfarerhq/wayfarer/route"
	"github.com/wayfarerhq/wayfarer/spatial"
)

type Server struct {
	engine *route.Engine
	cache  *placecache.Cache
	addr   string
}

// NewServer wires the pipeline behind an HTTP API. cache may be nil
// when no cache is configured; the stats endpoint then reports zeros.
func NewServer(engine *route.Engine, cache *placecache.Cache, addr string) *Server {
	if addr == "" {
		addr = "localhost:8080"
	}

	return &Server{
		engine: engine,
		cache:  cache,
		addr:   addr,
	}
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	return s.router().Run(s.addr)
}

func (s *Server) router() *gin.Engine {
	r := gin.Default()

	r.GET("/api/health", s.health)
	r.POST("/api/messages/resolve", s.resolveMessage)
	r.GET("/api/cache/stats", s.cacheStats)
	r.GET("/api/cache/nearby", s.cacheNearby)

	return r
}

func (s *Server) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type resolveRequest struct {
	Text string `json:"text"`
	HTML string `json:"html"`
	// Reference names a built-in canonical ordering, currently only
	// "pacific-coast-highway". Empty keeps the narrative order.
	Reference string                 `json:"reference"`
	PlaceRefs []route.PlaceReference `json:"placeRefs"`
}

type resolveResponse struct {
	Places   []string              `json:"places"`
	Result   *route.RouteResult    `json:"result"`
	Map      *render.MapView       `json:"map,omitempty"`
	Fallback *render.SchematicView `json:"fallback,omitempty"`
}

func (s *Server) resolveMessage(ctx *gin.Context) {
	var req resolveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if req.Text == "" && req.HTML == "" && len(req.PlaceRefs) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "text, html or placeRefs is required"})

		return
	}

	reference, ok := referenceByName(req.Reference)
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown reference route: " + req.Reference})

		return
	}

	var list *extract.PlaceList

	if req.HTML != "" {
		var err error

		list, err = extract.FromHTMLMessage(req.HTML)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "parsing html: " + err.Error()})

			return
		}
	} else {
		list = extract.FromMessage(req.Text)
	}

	places := reference.Reorder(list).Names()
	result := s.engine.Resolve(ctx.Request.Context(), places, req.PlaceRefs)

	resp := resolveResponse{
		Places: places,
		Result: result,
	}

	mapView, err := render.AssembleMap(result)
	if err != nil {
		resp.Fallback = render.Schematic(places, req.PlaceRefs)
	} else {
		resp.Map = mapView
	}

	ctx.JSON(http.StatusOK, resp)
}

func (s *Server) cacheStats(ctx *gin.Context) {
	if s.cache == nil {
		ctx.JSON(http.StatusOK, gin.H{"memory": 0, "durable": 0})

		return
	}

	memory, durable, err := s.cache.Stats()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"memory": memory, "durable": durable})
}

// cacheNearby lists cached places around a point, closest first. lat and
// lng are required; res defaults to placecache.DefaultNearbyResolution.
func (s *Server) cacheNearby(ctx *gin.Context) {
	if s.cache == nil {
		ctx.JSON(http.StatusOK, gin.H{"places": []any{}})

		return
	}

	lat, latErr := strconv.ParseFloat(ctx.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(ctx.Query("lng"), 64)

	if latErr != nil || lngErr != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required numbers"})

		return
	}

	res := placecache.DefaultNearbyResolution

	if raw := ctx.Query("res"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "res must be an integer"})

			return
		}

		res = parsed
	}

	places, err := s.cache.Nearby(spatial.Point{Lat: lat, Lng: lng}, res)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if places == nil {
		places = []*placecache.NearbyEntry{}
	}

	ctx.JSON(http.StatusOK, gin.H{"places": places})
}

// referenceByName maps a request's reference name to a built-in route.
// An empty name means no reordering.
func referenceByName(name string) (*extract.ReferenceRoute, bool) {
	switch name {
	case "":
		return nil, true
	case "pacific-coast-highway":
		return extract.PacificCoastHighway, true
	default:
		return nil, false
	}
}
