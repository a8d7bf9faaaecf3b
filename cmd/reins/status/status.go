// Package statuscmder provides the status command for summarizing the
// mediated workspace.
package statuscmder

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/reins/pkg/cliui"
	"github.com/papercomputeco/reins/pkg/config"
	"github.com/papercomputeco/reins/pkg/intent"
	"github.com/papercomputeco/reins/pkg/trace"
	"github.com/papercomputeco/reins/pkg/vcs"
)

const statusLongDesc string = `Show the state of the mediated workspace.

Reads the intent manifest, the ignore list, the trace ledger, and the VCS
head to summarize what the gate is currently enforcing.

Examples:
  reins status
  reins status --workspace /srv/project`

const statusShortDesc string = "Show workspace mediation state"

type StatusCommander struct {
	workspace string
}

func NewStatusCmd() *cobra.Command {
	cmder := &StatusCommander{}
	fs := config.DefaultFlags()

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, fs, config.FlagWorkspace, &cmder.workspace)

	return cmd
}

func (c *StatusCommander) run() error {
	root, err := filepath.Abs(c.workspace)
	if err != nil {
		return fmt.Errorf("resolving workspace root: %w", err)
	}

	fmt.Println(cliui.HeaderStyle.Render("Workspace"))
	fmt.Printf("  root: %s\n", root)

	if revision := vcs.CurrentRevision(root); revision != "" {
		branch := vcs.CurrentBranch(root)
		if branch == "" {
			branch = "(detached)"
		}
		fmt.Printf("  vcs:  %s @ %s\n", branch, revision[:min(12, len(revision))])
	} else {
		fmt.Println("  vcs:  none detected")
	}

	intents, err := intent.LoadManifest(root)
	if err != nil {
		fmt.Printf("\n%s intent manifest unreadable: %v\n", cliui.FailMark, err)
	} else {
		fmt.Printf("\n%s %d intent(s) declared\n", cliui.Mark(nil), len(intents))
		ignore := intent.NewIgnoreCache()
		for _, in := range intents {
			fmt.Println(cliui.IntentLine(in, ignore.IsIgnored(root, in.ID)))
		}
	}

	records, err := trace.NewReader(root, nil).Read()
	if err != nil {
		fmt.Printf("\n%s trace ledger unreadable: %v\n", cliui.FailMark, err)
		return nil
	}
	fmt.Printf("\n%s %d ledger record(s)\n", cliui.Mark(nil), len(records))
	if len(records) > 0 {
		fmt.Println("  last: " + cliui.TraceLine(records[len(records)-1]))
	}

	return nil
}
