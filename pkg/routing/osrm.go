// Package routing talks to the external routing and geocoding providers
// and computes the straight-line fallback estimates used when they cannot
// help. "No route found" is a normal outcome here, never an error.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/transitview/transitview/pkg/tvf"
	"github.com/transitview/transitview/pkg/util"
)

type TravelMode string

const (
	TravelModeWalk  TravelMode = "walking"
	TravelModeBike  TravelMode = "cycling"
	TravelModeDrive TravelMode = "driving"
)

// Profile maps a travel mode onto the routing engine profile name
func (m TravelMode) Profile() string {
	switch m {
	case TravelModeBike:
		return "bike"
	case TravelModeDrive:
		return "car"
	default:
		return "foot"
	}
}

const defaultOSRMAddress = "https://router.project-osrm.org"

type Path struct {
	Geometry []tvf.Location `json:"geometry" groups:"basic"`

	DistanceMetres float64       `json:"distance_metres" groups:"basic"`
	Duration       time.Duration `json:"duration" groups:"basic"`
}

type OSRM struct {
	httpClient *http.Client

	baseURL string
}

func NewOSRM() *OSRM {
	env := util.GetEnvironmentVariables()

	baseURL := defaultOSRMAddress
	if env["TRANSITVIEW_OSRM_ADDRESS"] != "" {
		baseURL = env["TRANSITVIEW_OSRM_ADDRESS"]
	}

	return &OSRM{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

func NewOSRMWithTarget(baseURL string) *OSRM {
	osrm := NewOSRM()
	osrm.baseURL = baseURL

	return osrm
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Route requests a point to point path for the travel mode. The boolean is
// false when the engine cannot find a route between the points
func (o *OSRM) Route(ctx context.Context, mode TravelMode, from tvf.Location, to tvf.Location) (Path, bool) {
	requestURL := fmt.Sprintf(
		"%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=geojson",
		o.baseURL,
		mode.Profile(),
		from.Longitude, from.Latitude,
		to.Longitude, to.Latitude,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return Path{}, false
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Routing engine request failed")
		return Path{}, false
	}
	defer resp.Body.Close()

	jsonBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Msg("Routing engine request failed")
		return Path{}, false
	}

	var response osrmResponse
	if err := json.Unmarshal(jsonBytes, &response); err != nil {
		log.Error().Err(err).Msg("Routing engine returned malformed response")
		return Path{}, false
	}

	if response.Code != "Ok" || len(response.Routes) == 0 {
		return Path{}, false
	}

	route := response.Routes[0]

	path := Path{
		DistanceMetres: route.Distance,
		Duration:       time.Duration(route.Duration * float64(time.Second)),
	}

	for _, coordinate := range route.Geometry.Coordinates {
		if len(coordinate) < 2 {
			continue
		}

		// GeoJSON is longitude first
		path.Geometry = append(path.Geometry, tvf.Location{
			Latitude:  coordinate[1],
			Longitude: coordinate[0],
		})
	}

	if len(path.Geometry) < 2 {
		return Path{}, false
	}

	return path, true
}
