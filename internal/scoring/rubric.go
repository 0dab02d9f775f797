package scoring

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadRubric reads a YAML weight table layered over the defaults, so a
// rubric file only needs the keys it changes. An empty path returns the
// defaults unchanged.
func LoadRubric(path string) (Weights, error) {
	w := DefaultWeights()
	if path == "" {
		return w, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, eris.Wrapf(err, "scoring: read rubric %s", path)
	}
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return Weights{}, eris.Wrapf(err, "scoring: parse rubric %s", path)
	}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}
