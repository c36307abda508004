// Package persona loads the target job titles used for person search.
package persona

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/artifact"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// Load reads a JSON (or YAML) array of {title} records. Entries with a blank
// title are skipped.
func Load(fs afero.Fs, path string) ([]model.Persona, error) {
	var raw []model.Persona
	if err := artifact.ReadDocument(fs, path, &raw); err != nil {
		return nil, eris.Wrap(err, "persona: load")
	}

	personas := make([]model.Persona, 0, len(raw))
	for i, p := range raw {
		title := strings.TrimSpace(p.Title)
		if title == "" {
			zap.L().Warn("persona: skipping entry without title", zap.Int("index", i), zap.String("path", path))
			continue
		}
		personas = append(personas, model.Persona{Title: title})
	}

	zap.L().Info("persona: loaded", zap.Int("count", len(personas)), zap.String("path", path))
	return personas, nil
}

// Titles returns the titles of personas in order.
func Titles(personas []model.Persona) []string {
	titles := make([]string, len(personas))
	for i, p := range personas {
		titles[i] = p.Title
	}
	return titles
}
