// Package initcmder provides the init command for scaffolding a reins
// workspace.
package initcmder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/reins/pkg/cliui"
	"github.com/papercomputeco/reins/pkg/config"
	"github.com/papercomputeco/reins/pkg/intent"
	"github.com/papercomputeco/reins/pkg/trace"
)

const initLongDesc string = `Initialize a reins workspace.

Creates the .reins/config.toml configuration, the .orchestration/ directory
with a sample intent manifest, and an empty .intentignore file. Existing
files are left untouched.

Examples:
  reins init
  reins init --workspace /srv/project`

const initShortDesc string = "Initialize a reins workspace"

const sampleManifest = `# Declared intents for this workspace.
# Every destructive agent operation must be attributed to one of these ids.
intents:
  - id: INT-001
    constraints: "Describe the guardrails for this intent."
    scope: "Describe the unit of work in one line."
    owned_scope:
      - src/**
`

const sampleIgnore = `# Intent ids listed here are disabled: any destructive tool call
# attributed to them is blocked.
`

type InitCommander struct {
	workspace string
}

func NewInitCmd() *cobra.Command {
	cmder := &InitCommander{}
	fs := config.DefaultFlags()

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, fs, config.FlagWorkspace, &cmder.workspace)

	return cmd
}

func (c *InitCommander) run() error {
	root, err := filepath.Abs(c.workspace)
	if err != nil {
		return fmt.Errorf("resolving workspace root: %w", err)
	}

	err = cliui.Step(os.Stdout, "writing .reins/config.toml", func() error {
		cfger, err := config.NewConfiger(filepath.Join(root, ".reins"))
		if err != nil {
			return err
		}
		if _, statErr := os.Stat(cfger.GetTarget()); statErr == nil {
			return nil
		}

		cfg := config.NewDefaultConfig()
		cfg.Workspace.Root = root
		return cfger.SaveConfig(cfg)
	})
	if err != nil {
		return err
	}

	err = cliui.Step(os.Stdout, "scaffolding .orchestration/", func() error {
		orchDir := filepath.Join(root, trace.Dir)
		if err := os.MkdirAll(orchDir, 0o755); err != nil {
			return fmt.Errorf("creating orchestration directory: %w", err)
		}
		return writeIfAbsent(filepath.Join(orchDir, intent.ManifestFile), sampleManifest)
	})
	if err != nil {
		return err
	}

	err = cliui.Step(os.Stdout, "writing .intentignore", func() error {
		return writeIfAbsent(filepath.Join(root, intent.IgnoreFile), sampleIgnore)
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nWorkspace ready. Declare intents in %s and run reins serve.\n",
		filepath.Join(trace.Dir, intent.ManifestFile))
	return nil
}

func writeIfAbsent(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
