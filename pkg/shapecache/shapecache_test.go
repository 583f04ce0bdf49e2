package shapecache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transitview/transitview/pkg/tvf"
)

type fakeShapeSource struct {
	shapes map[string]*tvf.RouteShape
	calls  int
}

func (f *fakeShapeSource) RouteShape(ctx context.Context, routeID string) *tvf.RouteShape {
	f.calls++
	return f.shapes[routeID]
}

func TestRouteShapeMemoises(t *testing.T) {
	source := &fakeShapeSource{
		shapes: map[string]*tvf.RouteShape{
			"Red": {
				RouteID: "Red",
				Polylines: [][]tvf.Location{
					{{Latitude: 42.0, Longitude: -71.0}, {Latitude: 42.1, Longitude: -71.1}},
				},
			},
		},
	}

	cache := NewShapeCache(source)

	first := cache.RouteShape(context.Background(), "Red")
	require.NotNil(t, first)
	assert.Equal(t, "Red", first.RouteID)

	second := cache.RouteShape(context.Background(), "Red")
	require.NotNil(t, second)

	// The second lookup never reaches the provider
	assert.Equal(t, 1, source.calls)
}

func TestRouteShapeDoesNotCacheFailures(t *testing.T) {
	source := &fakeShapeSource{shapes: map[string]*tvf.RouteShape{}}
	cache := NewShapeCache(source)

	assert.Nil(t, cache.RouteShape(context.Background(), "Ghost"))
	assert.Nil(t, cache.RouteShape(context.Background(), "Ghost"))

	// Every miss retries the provider
	assert.Equal(t, 2, source.calls)
}
