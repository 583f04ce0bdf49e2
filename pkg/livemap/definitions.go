package livemap

import (
	"os"

	"github.com/transitview/transitview/pkg/modes"
	"gopkg.in/yaml.v3"
)

// LoadDefinitions reads a mode definitions file, overriding the built-in
// per-kind route caps and allowlists
func LoadDefinitions(path string) (modes.Definitions, error) {
	definitionsYaml, err := os.ReadFile(path)
	if err != nil {
		return modes.Definitions{}, err
	}

	definitions := modes.DefaultDefinitions()

	if err := yaml.Unmarshal(definitionsYaml, &definitions); err != nil {
		return modes.Definitions{}, err
	}

	return definitions, nil
}
