// Package stopsdata generates and loads the pre-bundled all-stops snapshot
// - the fast path for high-density stop lookups that would otherwise need
// an unfiltered provider fetch.
package stopsdata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/transitview/transitview/pkg/tvf"
)

type StopSource interface {
	AllStops(ctx context.Context) ([]tvf.Stop, error)
}

// Fetch pulls the complete stop set from the provider and writes it as a
// static JSON asset, retrying transient failures with exponential backoff
func Fetch(ctx context.Context, source StopSource, outputPath string) error {
	var stops []tvf.Stop

	retryBackoff := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4)

	err := backoff.Retry(func() error {
		var fetchErr error
		stops, fetchErr = source.AllStops(ctx)
		return fetchErr
	}, backoff.WithContext(retryBackoff, ctx))

	if err != nil {
		return fmt.Errorf("failed fetching stops: %w", err)
	}

	stopsJSON, err := json.MarshalIndent(stops, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, stopsJSON, 0644); err != nil {
		return err
	}

	log.Info().
		Int("stops", len(stops)).
		Int("bytes", len(stopsJSON)).
		Str("path", outputPath).
		Msg("Wrote stops snapshot")

	return nil
}

// Load reads a previously generated snapshot
func Load(path string) ([]tvf.Stop, error) {
	stopsJSON, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var stops []tvf.Stop
	if err := json.Unmarshal(stopsJSON, &stops); err != nil {
		return nil, err
	}

	return stops, nil
}
