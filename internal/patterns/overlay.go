package patterns

import (
	"fmt"
	"io/ioutil"

	"github.com/weaponry/autogrep/internal/model"
	"gopkg.in/yaml.v2"
)

// overlayFile is the on-disk shape of a --patterns-file YAML document. It
// mirrors Pattern's public fields using snake_case keys so an operator can
// hand-author rules without touching Go.
type overlayFile struct {
	Patterns []overlayPattern `yaml:"patterns"`
}

type overlayPattern struct {
	ID          string `yaml:"id"`
	Source      string `yaml:"regex"`
	Component   string `yaml:"component"`
	Category    string `yaml:"category"`
	Severity    string `yaml:"severity"`
	Priority    int    `yaml:"priority"`
	Multiline   bool   `yaml:"multiline"`
	Description string `yaml:"description"`
}

// LoadOverlay reads additional pattern definitions from a YAML file and adds
// them to b. It must be called before Build. Unknown component or severity
// names fall back to Generic/Error respectively rather than failing the
// whole file, so one bad entry doesn't take down the rest of an operator's
// overlay.
func LoadOverlay(b *Bank, path string) (int, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("patterns: reading overlay file: %w", err)
	}

	var doc overlayFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("patterns: parsing overlay file %s: %w", path, err)
	}

	added := 0
	for _, op := range doc.Patterns {
		def := Pattern{
			ID:          op.ID,
			Source:      op.Source,
			Component:   overlayComponent(op.Component),
			Category:    op.Category,
			Severity:    overlaySeverity(op.Severity),
			Priority:    op.Priority,
			Multiline:   op.Multiline,
			Description: op.Description,
		}
		if def.Category == "" {
			def.Category = "custom"
		}
		if def.Priority == 0 {
			def.Priority = 5
		}
		if err := b.Add(def); err != nil {
			return added, fmt.Errorf("patterns: overlay entry %q: %w", op.ID, err)
		}
		added++
	}
	return added, nil
}

var overlayComponentNames = map[string]model.Component{
	"gitaly": model.ComponentGitaly, "praefect": model.ComponentGitaly,
	"postgresql": model.ComponentPostgreSQL, "postgres": model.ComponentPostgreSQL,
	"redis": model.ComponentRedis, "sidekiq": model.ComponentSidekiq,
	"rails": model.ComponentRails, "workhorse": model.ComponentWorkhorse,
	"nginx": model.ComponentNginx, "auth": model.ComponentAuth,
	"network": model.ComponentNetwork, "system": model.ComponentSystem,
	"kubernetes": model.ComponentKubernetes, "k8s": model.ComponentKubernetes,
	"ssl": model.ComponentSSL, "geo": model.ComponentGeo,
	"git": model.ComponentGitShell, "git_shell": model.ComponentGitShell,
	"cicd": model.ComponentCICD, "ci_cd": model.ComponentCICD,
	"generic": model.ComponentGeneric,
}

func overlayComponent(name string) model.Component {
	if c, ok := overlayComponentNames[name]; ok {
		return c
	}
	return model.ComponentGeneric
}

var overlaySeverityNames = map[string]model.Severity{
	"critical": model.SeverityCritical,
	"error":    model.SeverityError,
	"warning":  model.SeverityWarning,
}

func overlaySeverity(name string) model.Severity {
	if s, ok := overlaySeverityNames[name]; ok {
		return s
	}
	return model.SeverityError
}
