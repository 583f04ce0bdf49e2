package modes

import "github.com/transitview/transitview/pkg/tvf"

// Definitions bounds how many routes a transit kind may select at once.
// Full unfiltered bus and commuter rail selections would fan out into an
// unbounded number of shape and stop fetches, so those kinds carry a cap,
// overridable (along with an explicit route list) from the definitions file
type Definitions struct {
	Kinds map[tvf.TransitKind]KindDefinition `yaml:"kinds"`
}

type KindDefinition struct {
	// 0 means no cap
	MaxRoutes int `yaml:"max_routes"`

	// When set, selection is exactly this list (intersected with the
	// routes the provider actually returned)
	Routes []string `yaml:"routes"`
}

func DefaultDefinitions() Definitions {
	return Definitions{
		Kinds: map[tvf.TransitKind]KindDefinition{
			tvf.TransitKindSubway: {},
			tvf.TransitKindBus:    {MaxRoutes: 15},
			tvf.TransitKindRail:   {MaxRoutes: 12},
		},
	}
}

// Curate applies the kind's route cap/allowlist to a fetched route set
func (d Definitions) Curate(kind tvf.TransitKind, routes []tvf.Route) []tvf.Route {
	definition := d.Kinds[kind]

	if len(definition.Routes) > 0 {
		allowed := map[string]bool{}
		for _, id := range definition.Routes {
			allowed[id] = true
		}

		var curated []tvf.Route
		for _, route := range routes {
			if allowed[route.PrimaryIdentifier] {
				curated = append(curated, route)
			}
		}

		routes = curated
	}

	if definition.MaxRoutes > 0 && len(routes) > definition.MaxRoutes {
		routes = routes[:definition.MaxRoutes]
	}

	return routes
}
