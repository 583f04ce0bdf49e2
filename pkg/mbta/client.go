// Package mbta is the typed data access layer over the transit provider's
// V3 JSON:API. Every operation normalises the provider payload into flat
// tvf records and degrades to an empty result on any transport or parse
// failure - callers treat empty as "no data right now", never as fatal.
package mbta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/transitview/transitview/pkg/util"
)

const defaultBaseURL = "https://api-v3.mbta.com"

// Route ID filters above this size are split into parallel batched requests
const routeFilterBatchSize = 15

type Client struct {
	httpClient *http.Client

	baseURL string
	apiKey  string
}

func NewClient() *Client {
	env := util.GetEnvironmentVariables()

	baseURL := defaultBaseURL
	if env["TRANSITVIEW_MBTA_ADDRESS"] != "" {
		baseURL = env["TRANSITVIEW_MBTA_ADDRESS"]
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  env["TRANSITVIEW_MBTA_API_KEY"],
	}
}

// NewClientWithTarget is used by tests and the dataset tooling to point the
// client at a specific provider instance
func NewClientWithTarget(baseURL string, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*envelope, error) {
	if c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}

	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d for %s", resp.StatusCode, path)
	}

	jsonBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var responseEnvelope envelope
	if err := json.Unmarshal(jsonBytes, &responseEnvelope); err != nil {
		return nil, err
	}

	return &responseEnvelope, nil
}

// batchRouteFilter splits a route ID set into comma joined filter values of
// at most routeFilterBatchSize IDs each
func batchRouteFilter(routeIDs []string) []string {
	var batches []string

	for start := 0; start < len(routeIDs); start += routeFilterBatchSize {
		end := start + routeFilterBatchSize
		if end > len(routeIDs) {
			end = len(routeIDs)
		}

		batches = append(batches, strings.Join(routeIDs[start:end], ","))
	}

	return batches
}

func logFetchFailure(resource string, err error) {
	log.Error().Err(err).Str("resource", resource).Msg("Provider fetch failed")
}
