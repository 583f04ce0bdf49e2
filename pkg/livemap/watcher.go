package livemap

import (
	"sync"

	"github.com/transitview/transitview/pkg/geolocate"
)

// RemoteWatcher adapts browser-reported geolocation fixes onto the
// position watch contract. The shell POSTs each fix; while a watch is
// active the fix is forwarded, otherwise it is dropped
type RemoteWatcher struct {
	mutex sync.Mutex

	onFix   func(geolocate.Position)
	onError func(error)
	active  bool
}

func (w *RemoteWatcher) Watch(options geolocate.WatchOptions, onFix func(geolocate.Position), onError func(error)) func() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.onFix = onFix
	w.onError = onError
	w.active = true

	return func() {
		w.mutex.Lock()
		defer w.mutex.Unlock()

		w.active = false
		w.onFix = nil
		w.onError = nil
	}
}

// Report feeds one client-side fix into the active watch
func (w *RemoteWatcher) Report(position geolocate.Position) {
	w.mutex.Lock()
	onFix := w.onFix
	active := w.active
	w.mutex.Unlock()

	if active && onFix != nil {
		onFix(position)
	}
}

// ReportError feeds a client-side geolocation failure into the active
// watch, e.g. the user denying the permission prompt
func (w *RemoteWatcher) ReportError(err error) {
	w.mutex.Lock()
	onError := w.onError
	active := w.active
	w.mutex.Unlock()

	if active && onError != nil {
		onError(err)
	}
}
