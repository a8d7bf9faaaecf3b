// Package intent loads the workspace intent manifest, the disabled-intent
// list, and per-intent context views assembled from the mutation ledger.
package intent

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/papercomputeco/reins/pkg/scope"
	"github.com/papercomputeco/reins/pkg/trace"
)

// ManifestFile is the manifest filename inside the orchestration directory.
const ManifestFile = "active_intents.yaml"

// Intent is one declared unit of agent work. Constraints and Scope are
// free-form prose for the agent; OwnedScope is the enforceable pattern list.
type Intent struct {
	ID          string
	Constraints string
	Scope       string
	OwnedScope  []string
}

// manifestEntry mirrors the YAML shape of a single manifest item.
type manifestEntry struct {
	ID          string     `yaml:"id"`
	IntentID    string     `yaml:"intent_id"`
	Constraints string     `yaml:"constraints"`
	Scope       string     `yaml:"scope"`
	OwnedScope  stringList `yaml:"owned_scope"`
}

// stringList accepts either a bare string or a sequence of strings.
type stringList []string

func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		if s != "" {
			*l = stringList{s}
		}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = stringList(items)
		return nil
	default:
		return fmt.Errorf("owned_scope must be a string or a list, got %v", node.Kind)
	}
}

// manifestDoc accepts either a top-level list of intents or a mapping with
// an intents key.
type manifestDoc struct {
	entries []manifestEntry
}

func (d *manifestDoc) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		return node.Decode(&d.entries)
	case yaml.MappingNode:
		var wrapper struct {
			Intents []manifestEntry `yaml:"intents"`
		}
		if err := node.Decode(&wrapper); err != nil {
			return err
		}
		d.entries = wrapper.Intents
		return nil
	default:
		return fmt.Errorf("manifest must be a list or an intents mapping, got %v", node.Kind)
	}
}

// ManifestPath returns the manifest location for a workspace.
func ManifestPath(workspaceRoot string) string {
	return filepath.Join(workspaceRoot, trace.Dir, ManifestFile)
}

// LoadManifest parses the workspace manifest. A missing manifest yields an
// empty list. The manifest is re-read on every call: it may be edited
// mid-session and a long-lived cache would serve stale scopes.
func LoadManifest(workspaceRoot string) ([]Intent, error) {
	data, err := os.ReadFile(ManifestPath(workspaceRoot))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading intent manifest: %w", err)
	}

	var doc manifestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing intent manifest: %w", err)
	}

	intents := make([]Intent, 0, len(doc.entries))
	for _, e := range doc.entries {
		id := e.ID
		if id == "" {
			id = e.IntentID
		}
		if id == "" {
			continue
		}

		owned := make([]string, 0, len(e.OwnedScope))
		for _, p := range e.OwnedScope {
			if n := scope.Normalize(p); n != "" {
				owned = append(owned, n)
			}
		}

		intents = append(intents, Intent{
			ID:          id,
			Constraints: e.Constraints,
			Scope:       e.Scope,
			OwnedScope:  owned,
		})
	}

	return intents, nil
}

// FindIntent returns the manifest entry with the given id, or nil.
func FindIntent(workspaceRoot, intentID string) (*Intent, error) {
	intents, err := LoadManifest(workspaceRoot)
	if err != nil {
		return nil, err
	}
	for i := range intents {
		if intents[i].ID == intentID {
			return &intents[i], nil
		}
	}
	return nil, nil
}
