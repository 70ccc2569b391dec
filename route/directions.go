// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package route

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wayfarerhq/wayfarer/spatial"
)

const googleDirectionsURL = "https://maps.googleapis.com/maps/api/directions/json"

// RouteRequest describes one multi-stop directions query.
type RouteRequest struct {
	Origin      string
	Destination string
	Waypoints   []string
	Mode        string // driving, walking, bicycling, transit
	// PreserveOrder keeps waypoints in the given sequence instead of
	// letting the provider reorder them.
	PreserveOrder bool
}

// Leg is one segment of a returned route.
type Leg struct {
	Start spatial.Point
	End   spatial.Point
}

// RouteResponse is a successful directions result.
type RouteResponse struct {
	Legs             []Leg
	OverviewPolyline string
	Bounds           spatial.Bounds
}

// DirectionsClient issues multi-stop route queries.
type DirectionsClient interface {
	Route(ctx context.Context, req *RouteRequest) (*RouteResponse, error)
}

// GoogleDirectionsClient uses the Google Maps Directions API.
type GoogleDirectionsClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewGoogleDirectionsClient creates a Google Maps directions client. A
// nil httpClient gets a default with a 15s timeout.
func NewGoogleDirectionsClient(apiKey string, httpClient *http.Client) *GoogleDirectionsClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &GoogleDirectionsClient{
		apiKey:     apiKey,
		httpClient: httpClient,
		baseURL:    googleDirectionsURL,
	}
}

type googleDirectionsResponse struct {
	Routes []struct {
		Legs []struct {
			StartLocation struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"start_location"`
			EndLocation struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"end_location"`
		} `json:"legs"`
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Bounds struct {
			Northeast struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"northeast"`
			Southwest struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"southwest"`
		} `json:"bounds"`
	} `json:"routes"`
	Status string `json:"status"` // OK, ZERO_RESULTS, NOT_FOUND, etc.
}

// Route issues one directions query.
func (c *GoogleDirectionsClient) Route(ctx context.Context, routeReq *RouteRequest) (*RouteResponse, error) {
	params := url.Values{}
	params.Set("origin", routeReq.Origin)
	params.Set("destination", routeReq.Destination)
	params.Set("key", c.apiKey)

	mode := routeReq.Mode
	if mode == "" {
		mode = "driving"
	}

	params.Set("mode", mode)

	if len(routeReq.Waypoints) > 0 {
		// The API reorders waypoints only when asked with an
		// "optimize:true" prefix; omitting it preserves the given order.
		waypoints := strings.Join(routeReq.Waypoints, "|")
		if !routeReq.PreserveOrder {
			waypoints = "optimize:true|" + waypoints
		}

		params.Set("waypoints", waypoints)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building directions request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode)
	}

	var gmResp googleDirectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if gmResp.Status != "OK" {
		return nil, ClassifyProviderStatus(gmResp.Status)
	}

	if len(gmResp.Routes) == 0 {
		return nil, &ProviderError{
			Type:    ErrorTypeNotFound,
			Message: "no routes returned",
		}
	}

	gmRoute := gmResp.Routes[0]

	legs := make([]Leg, 0, len(gmRoute.Legs))
	for _, l := range gmRoute.Legs {
		legs = append(legs, Leg{
			Start: spatial.Point{Lat: l.StartLocation.Lat, Lng: l.StartLocation.Lng},
			End:   spatial.Point{Lat: l.EndLocation.Lat, Lng: l.EndLocation.Lng},
		})
	}

	return &RouteResponse{
		Legs:             legs,
		OverviewPolyline: gmRoute.OverviewPolyline.Points,
		Bounds: spatial.Bounds{
			SouthWest: spatial.Point{Lat: gmRoute.Bounds.Southwest.Lat, Lng: gmRoute.Bounds.Southwest.Lng},
			NorthEast: spatial.Point{Lat: gmRoute.Bounds.Northeast.Lat, Lng: gmRoute.Bounds.Northeast.Lng},
		},
	}, nil
}
