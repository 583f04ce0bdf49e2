package mbta

import "encoding/json"

// The provider wraps every response in a JSON:API envelope of resources
// plus a sideloaded included set referenced by relationships
type envelope struct {
	Data     []resource `json:"data"`
	Included []resource `json:"included"`
}

type resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    json.RawMessage         `json:"attributes"`
	Relationships map[string]relationship `json:"relationships"`
}

type relationship struct {
	Data *resourceIdentifier `json:"data"`
}

type resourceIdentifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// relatedID resolves relationships.<name>.data.id
func (r resource) relatedID(name string) string {
	rel, ok := r.Relationships[name]
	if !ok || rel.Data == nil {
		return ""
	}

	return rel.Data.ID
}

type includedSet map[string]resource

func (e *envelope) includedSet() includedSet {
	set := includedSet{}

	for _, included := range e.Included {
		set[included.Type+"/"+included.ID] = included
	}

	return set
}

// find decodes the attributes of an included resource into out, returning
// false when the reference cannot be resolved
func (s includedSet) find(resourceType string, id string, out any) bool {
	if id == "" {
		return false
	}

	included, ok := s[resourceType+"/"+id]
	if !ok {
		return false
	}

	return json.Unmarshal(included.Attributes, out) == nil
}
