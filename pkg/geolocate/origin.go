// Package geolocate manages the user's origin - a continuous GPS watch, a
// one-shot custom origin from a map click or address search, or neither -
// and the routed path overlay drawn from that origin.
package geolocate

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/transitview/transitview/pkg/tvf"
)

type Position struct {
	Location tvf.Location
	Heading  *float64
}

type WatchOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// PositionWatcher is the browser geolocation capability: a continuous
// position watch yielding fixes or errors until its cancel func runs
type PositionWatcher interface {
	Watch(options WatchOptions, onFix func(Position), onError func(error)) (cancel func())
}

// MapView is the slice of the map session the tracker drives
type MapView interface {
	SetOrigin(location tvf.Location, custom bool)
	ClearOrigin()
	FlyTo(location tvf.Location, zoom int)
}

// OriginTracker owns the single user/origin marker. A custom origin always
// takes priority over the live GPS position while both are configured
type OriginTracker struct {
	Watcher PositionWatcher
	View    MapView

	mutex sync.Mutex

	cancelWatch func()

	gps    *tvf.Location
	custom *tvf.Location

	hadFirstFix bool
}

func (t *OriginTracker) EnableTracking() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.cancelWatch != nil || t.Watcher == nil {
		return
	}

	t.cancelWatch = t.Watcher.Watch(
		WatchOptions{HighAccuracy: true, Timeout: 5 * time.Second},
		t.onFix,
		func(err error) {
			// Denied permission or a timeout just means no GPS marker -
			// nothing else is blocked
			log.Error().Err(err).Msg("Geolocation watch failed")
		},
	)
}

func (t *OriginTracker) DisableTracking() {
	t.mutex.Lock()

	if t.cancelWatch != nil {
		t.cancelWatch()
		t.cancelWatch = nil
	}

	t.gps = nil
	t.hadFirstFix = false
	showCleared := t.custom == nil

	t.mutex.Unlock()

	if showCleared {
		t.View.ClearOrigin()
	}
}

func (t *OriginTracker) onFix(position Position) {
	t.mutex.Lock()

	if t.cancelWatch == nil {
		// Cancellation only stops future callbacks - drop a fix that was
		// already in flight
		t.mutex.Unlock()
		return
	}

	location := position.Location
	t.gps = &location

	customActive := t.custom != nil
	firstFix := !t.hadFirstFix
	t.hadFirstFix = true

	t.mutex.Unlock()

	if customActive {
		return
	}

	t.View.SetOrigin(location, false)

	if firstFix {
		t.View.FlyTo(location, 15)
	}
}

// SetCustomOrigin captures a map click or search pick as the origin
func (t *OriginTracker) SetCustomOrigin(location tvf.Location) {
	t.mutex.Lock()
	t.custom = &location
	t.mutex.Unlock()

	t.View.SetOrigin(location, true)
}

func (t *OriginTracker) ClearCustomOrigin() {
	t.mutex.Lock()

	t.custom = nil
	gps := t.gps

	t.mutex.Unlock()

	if gps != nil {
		t.View.SetOrigin(*gps, false)
	} else {
		t.View.ClearOrigin()
	}
}

// Origin resolves the active origin: custom wins over GPS
func (t *OriginTracker) Origin() (tvf.Location, bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.custom != nil {
		return *t.custom, true
	}

	if t.gps != nil {
		return *t.gps, true
	}

	return tvf.Location{}, false
}
