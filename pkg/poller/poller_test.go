package poller

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/transitview/transitview/pkg/snapshot"
	"github.com/transitview/transitview/pkg/tvf"
)

type fakeVehicleSource struct {
	mutex    sync.Mutex
	calls    int
	vehicles []tvf.Vehicle

	// Runs while the fetch is "in flight", before returning
	duringFetch func()
}

func (f *fakeVehicleSource) Vehicles(ctx context.Context, routeIDs []string) []tvf.Vehicle {
	f.mutex.Lock()
	f.calls++
	f.mutex.Unlock()

	if f.duringFetch != nil {
		f.duringFetch()
	}

	return f.vehicles
}

func (f *fakeVehicleSource) callCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.calls
}

type fakeAlertSource struct {
	alerts []tvf.Alert
}

func (f *fakeAlertSource) Alerts(ctx context.Context) []tvf.Alert {
	return f.alerts
}

type fakeSelection struct {
	routeIDs []string
}

func (f *fakeSelection) SelectedRouteIDs() []string {
	return f.routeIDs
}

func TestRefreshVehiclesEmptySelectionShortCircuits(t *testing.T) {
	source := &fakeVehicleSource{}

	poller := &Poller{
		VehicleSource: source,
		Store:         snapshot.NewStore(),
		Selection:     &fakeSelection{},
	}

	poller.RefreshVehicles(context.Background())

	assert.Equal(t, 0, source.callCount())
}

func TestRefreshVehiclesAppliesResult(t *testing.T) {
	store := snapshot.NewStore()
	source := &fakeVehicleSource{
		vehicles: []tvf.Vehicle{{PrimaryIdentifier: "y1234", RouteID: "Red"}},
	}

	var applied []tvf.Vehicle

	poller := &Poller{
		VehicleSource: source,
		Store:         store,
		Selection:     &fakeSelection{routeIDs: []string{"Red"}},
		OnVehiclesApplied: func(vehicles []tvf.Vehicle) {
			applied = vehicles
		},
	}

	poller.RefreshVehicles(context.Background())

	assert.Equal(t, 1, source.callCount())
	assert.Len(t, store.Vehicles(), 1)
	assert.Len(t, applied, 1)
}

func TestRefreshVehiclesDiscardsResultAfterSelectionChange(t *testing.T) {
	store := snapshot.NewStore()

	source := &fakeVehicleSource{
		vehicles: []tvf.Vehicle{{PrimaryIdentifier: "y1234", RouteID: "Red"}},
	}

	// The mode moves on while the response is still in flight
	source.duringFetch = func() {
		store.ClearOverlaySets()
	}

	hookFired := false

	poller := &Poller{
		VehicleSource: source,
		Store:         store,
		Selection:     &fakeSelection{routeIDs: []string{"Red"}},
		OnVehiclesApplied: func(vehicles []tvf.Vehicle) {
			hookFired = true
		},
	}

	poller.RefreshVehicles(context.Background())

	assert.Empty(t, store.Vehicles())
	assert.False(t, hookFired)
}

func TestRefreshAlertsKeepsLastSetOnFailure(t *testing.T) {
	store := snapshot.NewStore()
	store.ReplaceAlerts([]tvf.Alert{{PrimaryIdentifier: "alert-1"}})

	poller := &Poller{
		AlertSource: &fakeAlertSource{alerts: nil},
		Store:       store,
		Selection:   &fakeSelection{},
	}

	poller.RefreshAlerts(context.Background())

	assert.Len(t, store.Alerts(), 1)
}

func TestRefreshAlertsReplacesSet(t *testing.T) {
	store := snapshot.NewStore()
	store.ReplaceAlerts([]tvf.Alert{{PrimaryIdentifier: "alert-1"}})

	poller := &Poller{
		AlertSource: &fakeAlertSource{alerts: []tvf.Alert{
			{PrimaryIdentifier: "alert-2"},
			{PrimaryIdentifier: "alert-3"},
		}},
		Store:     store,
		Selection: &fakeSelection{},
	}

	poller.RefreshAlerts(context.Background())

	assert.Len(t, store.Alerts(), 2)
}

func TestPausedPollerSkipsCycles(t *testing.T) {
	source := &fakeVehicleSource{}

	poller := &Poller{
		VehicleSource: source,
		Store:         snapshot.NewStore(),
		Selection:     &fakeSelection{routeIDs: []string{"Red"}},
	}

	poller.Pause()
	assert.True(t, poller.isPaused())

	poller.Resume()
	assert.False(t, poller.isPaused())

	// Resume runs an immediate catch-up cycle
	assert.Equal(t, 1, source.callCount())
}
