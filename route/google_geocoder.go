// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package route

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wayfarerhq/wayfarer/spatial"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleGeocoder uses the Google Maps Geocoding API.
type GoogleGeocoder struct {
	apiKey     string
	region     string // optional ccTLD bias, e.g. "us"
	httpClient *http.Client
	baseURL    string
}

// NewGoogleGeocoder creates a Google Maps geocoder. region biases
// results toward a country (ccTLD code) and may be empty. A nil
// httpClient gets a default with a 10s timeout.
func NewGoogleGeocoder(apiKey, region string, httpClient *http.Client) *GoogleGeocoder {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &GoogleGeocoder{
		apiKey:     apiKey,
		region:     region,
		httpClient: httpClient,
		baseURL:    googleGeocodeURL,
	}
}

type googleGeocodeResponse struct {
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

// Geocode resolves one place name to a coordinate.
func (g *GoogleGeocoder) Geocode(ctx context.Context, place string) (*GeocodingResult, error) {
	params := url.Values{}
	params.Set("address", place)
	params.Set("key", g.apiKey)

	if g.region != "" {
		params.Set("region", g.region)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building geocode request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode)
	}

	var gmResp googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if gmResp.Status != "OK" {
		return nil, ClassifyProviderStatus(gmResp.Status)
	}

	if len(gmResp.Results) == 0 {
		return nil, &ProviderError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("no results for place: %s", place),
		}
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
		Point: spatial.Point{
			Lat: result.Geometry.Location.Lat,
			Lng: result.Geometry.Location.Lng,
		},
		Confidence:  confidence,
		Provider:    "google_maps",
		DisplayName: result.FormattedAddress,
	}, nil
}
