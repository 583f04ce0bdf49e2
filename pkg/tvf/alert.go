package tvf

type Alert struct {
	PrimaryIdentifier string `json:"id" groups:"basic"`

	Header      string `json:"header" groups:"basic"`
	Description string `json:"description" groups:"basic"`

	Severity int    `json:"severity" groups:"basic"`
	Effect   string `json:"effect" groups:"basic"`
}
