// Package poller drives the repeating vehicle refresh and the on-demand
// alert refresh. Every cycle captures its selection context at dispatch
// time; results landing after the context has moved on are discarded by
// the snapshot store, never merged.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/transitview/transitview/pkg/snapshot"
	"github.com/transitview/transitview/pkg/tvf"
)

const DefaultRefreshRate = time.Second

type VehicleSource interface {
	Vehicles(ctx context.Context, routeIDs []string) []tvf.Vehicle
}

type AlertSource interface {
	Alerts(ctx context.Context) []tvf.Alert
}

// SelectionSource is the single source of truth for which routes are polled
// and displayed - owned by the mode controller
type SelectionSource interface {
	SelectedRouteIDs() []string
}

type Poller struct {
	VehicleSource VehicleSource
	AlertSource   AlertSource

	Store     *snapshot.Store
	Selection SelectionSource

	RefreshRate time.Duration

	// Fired after a refresh result was accepted by the store
	OnVehiclesApplied func([]tvf.Vehicle)
	OnAlertsApplied   func([]tvf.Alert)

	mutex   sync.Mutex
	cancel  context.CancelFunc
	paused  bool
	running bool
}

// Start launches the vehicle refresh loop. Safe to call when already
// running
func (p *Poller) Start() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.running {
		return
	}

	if p.RefreshRate == 0 {
		p.RefreshRate = DefaultRefreshRate
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.running = true

	log.Info().Dur("refreshrate", p.RefreshRate).Msg("Starting vehicle refresh loop")

	go p.run(ctx)
}

// Stop tears the refresh loop down. In-flight fetches are not aborted -
// their results are discarded through the store's generation check
func (p *Poller) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.running {
		return
	}

	p.cancel()
	p.running = false
}

// Pause suspends fetching while the document/tab is hidden
func (p *Poller) Pause() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.paused = true
}

// Resume restarts fetching and immediately runs one cycle to catch up
func (p *Poller) Resume() {
	p.mutex.Lock()
	p.paused = false
	p.mutex.Unlock()

	p.RefreshVehicles(context.Background())
}

func (p *Poller) isPaused() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.paused
}

func (p *Poller) run(ctx context.Context) {
	for {
		startTime := time.Now()

		if !p.isPaused() {
			p.RefreshVehicles(ctx)
		}

		executionDuration := time.Since(startTime)
		waitTime := p.RefreshRate - executionDuration
		if waitTime < 0 {
			waitTime = 0
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(waitTime):
		}
	}
}

// RefreshVehicles runs one vehicle refresh cycle. An empty selection short
// circuits without a fetch
func (p *Poller) RefreshVehicles(ctx context.Context) {
	routeIDs := p.Selection.SelectedRouteIDs()
	if len(routeIDs) == 0 {
		return
	}

	// Capture the dispatch-time context before the fetch suspends
	token := p.Store.CaptureToken(routeIDs)

	vehicles := p.VehicleSource.Vehicles(ctx, routeIDs)

	if !p.Store.ReplaceVehicles(vehicles, token) {
		return
	}

	if p.OnVehiclesApplied != nil {
		p.OnVehiclesApplied(vehicles)
	}
}

// RefreshAlerts fetches service alerts, used on manual refresh and on mode
// changes. Alerts are independent of the route selection
func (p *Poller) RefreshAlerts(ctx context.Context) {
	alerts := p.AlertSource.Alerts(ctx)
	if alerts == nil {
		// Keep the last known alert set on a failed fetch
		return
	}

	p.Store.ReplaceAlerts(alerts)

	if p.OnAlertsApplied != nil {
		p.OnAlertsApplied(alerts)
	}
}
