package routing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/transitview/transitview/pkg/tvf"
	"github.com/transitview/transitview/pkg/util"
)

const defaultGeocoderAddress = "https://nominatim.openstreetmap.org"

// Greater Boston, the default search bias for free text lookups
const defaultViewbox = "-71.1912,42.2279,-70.9228,42.4368"

type Place struct {
	Label    string       `json:"label" groups:"basic"`
	Location tvf.Location `json:"location" groups:"basic"`
}

type Geocoder struct {
	httpClient *http.Client

	baseURL string
	viewbox string
}

func NewGeocoder() *Geocoder {
	env := util.GetEnvironmentVariables()

	baseURL := defaultGeocoderAddress
	if env["TRANSITVIEW_GEOCODER_ADDRESS"] != "" {
		baseURL = env["TRANSITVIEW_GEOCODER_ADDRESS"]
	}

	viewbox := defaultViewbox
	if env["TRANSITVIEW_GEOCODER_VIEWBOX"] != "" {
		viewbox = env["TRANSITVIEW_GEOCODER_VIEWBOX"]
	}

	return &Geocoder{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		viewbox: viewbox,
	}
}

func NewGeocoderWithTarget(baseURL string) *Geocoder {
	geocoder := NewGeocoder()
	geocoder.baseURL = baseURL

	return geocoder
}

type geocoderResult struct {
	DisplayName string `json:"display_name"`
	Latitude    string `json:"lat"`
	Longitude   string `json:"lon"`
}

// Search runs a free text address lookup biased to the configured region
func (g *Geocoder) Search(ctx context.Context, queryText string) []Place {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("q", queryText)
	query.Set("viewbox", g.viewbox)
	query.Set("bounded", "1")
	query.Set("limit", "5")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", "transitview/1.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Geocoder request failed")
		return nil
	}
	defer resp.Body.Close()

	jsonBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Msg("Geocoder request failed")
		return nil
	}

	var results []geocoderResult
	if err := json.Unmarshal(jsonBytes, &results); err != nil {
		log.Error().Err(err).Msg("Geocoder returned malformed response")
		return nil
	}

	var places []Place
	for _, result := range results {
		latitude, latErr := strconv.ParseFloat(result.Latitude, 64)
		longitude, lonErr := strconv.ParseFloat(result.Longitude, 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		places = append(places, Place{
			Label: result.DisplayName,
			Location: tvf.Location{
				Latitude:  latitude,
				Longitude: longitude,
			},
		})
	}

	return places
}
