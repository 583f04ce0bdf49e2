package tvf

type StopKind string

const (
	StopKindStation StopKind = "Station"
	StopKindStop    StopKind = "Stop"
)

type Stop struct {
	PrimaryIdentifier string `json:"id" groups:"basic"`

	Name string `json:"name" groups:"basic"`

	Location Location `json:"location" groups:"basic"`

	Kind StopKind `json:"kind" groups:"basic"`

	WheelchairAccessible bool `json:"wheelchair_accessible" groups:"basic"`

	Description string `json:"description,omitempty" groups:"detailed"`
}
