package geolocate

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transitview/transitview/pkg/tvf"
)

type fakeWatcher struct {
	mutex   sync.Mutex
	onFix   func(Position)
	onError func(error)
	watches int
	cancels int
}

func (w *fakeWatcher) Watch(options WatchOptions, onFix func(Position), onError func(error)) func() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.onFix = onFix
	w.onError = onError
	w.watches++

	return func() {
		w.mutex.Lock()
		defer w.mutex.Unlock()

		w.cancels++
	}
}

func (w *fakeWatcher) fix(latitude float64, longitude float64) {
	w.mutex.Lock()
	onFix := w.onFix
	w.mutex.Unlock()

	onFix(Position{Location: tvf.Location{Latitude: latitude, Longitude: longitude}})
}

type fakeView struct {
	mutex sync.Mutex

	origin       *tvf.Location
	originCustom bool
	flights      int
	lastZoom     int
}

func (v *fakeView) SetOrigin(location tvf.Location, custom bool) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	v.origin = &location
	v.originCustom = custom
}

func (v *fakeView) ClearOrigin() {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	v.origin = nil
}

func (v *fakeView) FlyTo(location tvf.Location, zoom int) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	v.flights++
	v.lastZoom = zoom
}

func TestFirstFixPlacesMarkerAndFlies(t *testing.T) {
	watcher := &fakeWatcher{}
	view := &fakeView{}
	tracker := &OriginTracker{Watcher: watcher, View: view}

	tracker.EnableTracking()
	assert.Equal(t, 1, watcher.watches)

	watcher.fix(42.36, -71.05)

	require.NotNil(t, view.origin)
	assert.Equal(t, 42.36, view.origin.Latitude)
	assert.False(t, view.originCustom)
	assert.Equal(t, 1, view.flights)
	assert.Equal(t, 15, view.lastZoom)

	// Later fixes move the marker without flying again
	watcher.fix(42.37, -71.06)
	assert.Equal(t, 42.37, view.origin.Latitude)
	assert.Equal(t, 1, view.flights)
}

func TestEnableTrackingIsIdempotent(t *testing.T) {
	watcher := &fakeWatcher{}
	tracker := &OriginTracker{Watcher: watcher, View: &fakeView{}}

	tracker.EnableTracking()
	tracker.EnableTracking()

	assert.Equal(t, 1, watcher.watches)
}

func TestCustomOriginWinsOverGPS(t *testing.T) {
	watcher := &fakeWatcher{}
	view := &fakeView{}
	tracker := &OriginTracker{Watcher: watcher, View: view}

	tracker.EnableTracking()
	watcher.fix(42.36, -71.05)

	tracker.SetCustomOrigin(tvf.Location{Latitude: 42.40, Longitude: -71.10})

	origin, ok := tracker.Origin()
	require.True(t, ok)
	assert.Equal(t, 42.40, origin.Latitude)
	assert.True(t, view.originCustom)

	// GPS fixes keep arriving but must not displace the custom origin
	watcher.fix(42.37, -71.06)
	assert.Equal(t, 42.40, view.origin.Latitude)

	// Clearing the custom origin falls back to the latest GPS position
	tracker.ClearCustomOrigin()
	origin, ok = tracker.Origin()
	require.True(t, ok)
	assert.Equal(t, 42.37, origin.Latitude)
	assert.False(t, view.originCustom)
}

func TestDisableTrackingDropsInFlightFix(t *testing.T) {
	watcher := &fakeWatcher{}
	view := &fakeView{}
	tracker := &OriginTracker{Watcher: watcher, View: view}

	tracker.EnableTracking()
	tracker.DisableTracking()

	assert.Equal(t, 1, watcher.cancels)

	// A fix already in flight when the watch was cancelled is dropped
	watcher.fix(42.36, -71.05)
	assert.Nil(t, view.origin)

	_, ok := tracker.Origin()
	assert.False(t, ok)
}

func TestWatchErrorLeavesStateUntouched(t *testing.T) {
	watcher := &fakeWatcher{}
	view := &fakeView{}
	tracker := &OriginTracker{Watcher: watcher, View: view}

	tracker.EnableTracking()
	watcher.onError(errors.New("permission denied"))

	assert.Nil(t, view.origin)

	_, ok := tracker.Origin()
	assert.False(t, ok)
}

func TestClearCustomOriginWithoutGPSClearsMarker(t *testing.T) {
	view := &fakeView{}
	tracker := &OriginTracker{Watcher: &fakeWatcher{}, View: view}

	tracker.SetCustomOrigin(tvf.Location{Latitude: 42.40, Longitude: -71.10})
	tracker.ClearCustomOrigin()

	assert.Nil(t, view.origin)
}
