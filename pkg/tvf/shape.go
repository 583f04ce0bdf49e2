package tvf

// RouteShape is the decoded geographic path of a route. A route with
// branches has one polyline per disjoint branch
type RouteShape struct {
	RouteID string `json:"route_id" groups:"basic"`

	Colour string `json:"colour" groups:"basic"`

	Polylines [][]Location `json:"polylines" groups:"basic"`
}

func (s *RouteShape) Empty() bool {
	return s == nil || len(s.Polylines) == 0
}
