package livemap

import (
	"sync"

	"github.com/transitview/transitview/pkg/mapsession"
	"github.com/transitview/transitview/pkg/tvf"
	"golang.org/x/exp/slices"
)

// StateRenderer implements the map render capability by keeping a
// serialisable mirror of every overlay. The browser shell polls the
// mirror and draws it with whatever tile substrate it likes - the engine
// never learns about the DOM
type StateRenderer struct {
	mutex sync.Mutex

	nextMarkerRef  mapsession.MarkerRef
	nextOverlayRef mapsession.OverlayRef

	markers  map[mapsession.MarkerRef]*RenderedMarker
	overlays map[mapsession.OverlayRef]*RenderedOverlay

	viewport Viewport
}

type RenderedMarker struct {
	Ref      int                   `json:"ref" groups:"basic"`
	Kind     mapsession.MarkerKind `json:"kind" groups:"basic"`
	Location tvf.Location          `json:"location" groups:"basic"`
	Bearing  *float64              `json:"bearing,omitempty" groups:"basic"`
	Colour   string                `json:"colour,omitempty" groups:"basic"`
	Label    string                `json:"label,omitempty" groups:"basic"`
	ZIndex   int                   `json:"z_index" groups:"basic"`
	Visible  bool                  `json:"visible" groups:"basic"`
}

type RenderedPolyline struct {
	Points  []tvf.Location `json:"points" groups:"basic"`
	Colour  string         `json:"colour" groups:"basic"`
	Weight  int            `json:"weight" groups:"basic"`
	Opacity float64        `json:"opacity" groups:"basic"`
}

type RenderedOverlay struct {
	Ref       int                `json:"ref" groups:"basic"`
	Polylines []RenderedPolyline `json:"polylines" groups:"basic"`
	Visible   bool               `json:"visible" groups:"basic"`
}

type Viewport struct {
	Centre tvf.Location `json:"centre" groups:"basic"`
	Zoom   int          `json:"zoom" groups:"basic"`
}

// OverlayState is one consistent frame of everything currently rendered
type OverlayState struct {
	Markers  []RenderedMarker  `json:"markers" groups:"basic"`
	Overlays []RenderedOverlay `json:"overlays" groups:"basic"`
	Viewport Viewport          `json:"viewport" groups:"basic"`
}

// Boston, matching the original viewport
var defaultViewport = Viewport{
	Centre: tvf.Location{Latitude: 42.3601, Longitude: -71.0589},
	Zoom:   12,
}

func NewStateRenderer() *StateRenderer {
	return &StateRenderer{
		markers:  map[mapsession.MarkerRef]*RenderedMarker{},
		overlays: map[mapsession.OverlayRef]*RenderedOverlay{},
		viewport: defaultViewport,
	}
}

func (r *StateRenderer) AddMarker(spec mapsession.MarkerSpec) mapsession.MarkerRef {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.nextMarkerRef++
	ref := r.nextMarkerRef

	r.markers[ref] = &RenderedMarker{
		Ref:      int(ref),
		Kind:     spec.Kind,
		Location: spec.Location,
		Bearing:  spec.Bearing,
		Colour:   spec.Colour,
		Label:    spec.Label,
		ZIndex:   spec.ZIndex,
		Visible:  true,
	}

	return ref
}

func (r *StateRenderer) MoveMarker(ref mapsession.MarkerRef, location tvf.Location) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if marker, ok := r.markers[ref]; ok {
		marker.Location = location
	}
}

func (r *StateRenderer) RotateMarker(ref mapsession.MarkerRef, bearing float64) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if marker, ok := r.markers[ref]; ok {
		marker.Bearing = &bearing
	}
}

func (r *StateRenderer) SetMarkerZIndex(ref mapsession.MarkerRef, zIndex int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if marker, ok := r.markers[ref]; ok {
		marker.ZIndex = zIndex
	}
}

func (r *StateRenderer) SetMarkerVisible(ref mapsession.MarkerRef, visible bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if marker, ok := r.markers[ref]; ok {
		marker.Visible = visible
	}
}

func (r *StateRenderer) RemoveMarker(ref mapsession.MarkerRef) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.markers, ref)
}

func (r *StateRenderer) AddPolylineGroup(spec mapsession.PolylineGroupSpec) mapsession.OverlayRef {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.nextOverlayRef++
	ref := r.nextOverlayRef

	overlay := &RenderedOverlay{
		Ref:     int(ref),
		Visible: true,
	}

	for _, polyline := range spec.Polylines {
		overlay.Polylines = append(overlay.Polylines, RenderedPolyline{
			Points:  slices.Clone(polyline.Points),
			Colour:  polyline.Colour,
			Weight:  polyline.Weight,
			Opacity: polyline.Opacity,
		})
	}

	r.overlays[ref] = overlay

	return ref
}

func (r *StateRenderer) SetPolylinePoints(ref mapsession.OverlayRef, index int, points []tvf.Location) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	overlay, ok := r.overlays[ref]
	if !ok || index >= len(overlay.Polylines) {
		return
	}

	overlay.Polylines[index].Points = slices.Clone(points)
}

func (r *StateRenderer) SetOverlayVisible(ref mapsession.OverlayRef, visible bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if overlay, ok := r.overlays[ref]; ok {
		overlay.Visible = visible
	}
}

func (r *StateRenderer) RemoveOverlay(ref mapsession.OverlayRef) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.overlays, ref)
}

func (r *StateRenderer) FlyTo(location tvf.Location, zoom int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.viewport = Viewport{Centre: location, Zoom: zoom}
}

// Snapshot returns a consistent copy of the rendered state, markers in
// stacking order
func (r *StateRenderer) Snapshot() OverlayState {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	state := OverlayState{Viewport: r.viewport}

	for _, marker := range r.markers {
		state.Markers = append(state.Markers, *marker)
	}
	slices.SortFunc(state.Markers, func(a RenderedMarker, b RenderedMarker) int {
		if a.ZIndex != b.ZIndex {
			return a.ZIndex - b.ZIndex
		}
		return a.Ref - b.Ref
	})

	for _, overlay := range r.overlays {
		state.Overlays = append(state.Overlays, *overlay)
	}
	slices.SortFunc(state.Overlays, func(a RenderedOverlay, b RenderedOverlay) int {
		return a.Ref - b.Ref
	})

	return state
}
