// Package intentscmder provides commands for inspecting the intent manifest.
package intentscmder

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/reins/pkg/cliui"
	"github.com/papercomputeco/reins/pkg/config"
	"github.com/papercomputeco/reins/pkg/intent"
)

const intentsShortDesc string = "Inspect declared intents"

type IntentsCommander struct {
	workspace string
}

func NewIntentsCmd() *cobra.Command {
	cmder := &IntentsCommander{}
	fs := config.DefaultFlags()

	cmd := &cobra.Command{
		Use:   "intents",
		Short: intentsShortDesc,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List intents declared in the manifest",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.list()
		},
	}

	show := &cobra.Command{
		Use:   "show <intent-id>",
		Short: "Show one intent's context view",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmder.show(args[0])
		},
	}

	config.AddStringFlag(list, fs, config.FlagWorkspace, &cmder.workspace)
	config.AddStringFlag(show, fs, config.FlagWorkspace, &cmder.workspace)

	cmd.AddCommand(list)
	cmd.AddCommand(show)

	return cmd
}

func (c *IntentsCommander) list() error {
	root, err := filepath.Abs(c.workspace)
	if err != nil {
		return fmt.Errorf("resolving workspace root: %w", err)
	}

	intents, err := intent.LoadManifest(root)
	if err != nil {
		return err
	}
	if len(intents) == 0 {
		fmt.Println("No intents declared. Run reins init to scaffold a manifest.")
		return nil
	}

	ignore := intent.NewIgnoreCache()
	for _, in := range intents {
		fmt.Println(cliui.IntentLine(in, ignore.IsIgnored(root, in.ID)))
	}
	return nil
}

func (c *IntentsCommander) show(id string) error {
	root, err := filepath.Abs(c.workspace)
	if err != nil {
		return fmt.Errorf("resolving workspace root: %w", err)
	}

	view, err := intent.NewLoader(nil).Load(root, id)
	if err != nil {
		return err
	}
	if view == nil {
		return fmt.Errorf("intent %s is not declared in the manifest", id)
	}

	fmt.Println(cliui.HeaderStyle.Render(view.IntentID))
	if view.Constraints != "" {
		rendered, err := cliui.RenderMarkdown(view.Constraints)
		if err != nil {
			rendered = view.Constraints
		}
		fmt.Print(rendered)
	}
	if view.Scope != "" {
		fmt.Printf("scope: %s\n", view.Scope)
	}
	if len(view.OwnedScope) > 0 {
		fmt.Printf("owned: %s\n", strings.Join(view.OwnedScope, ", "))
	}
	fmt.Printf("traces: %d\n\n", len(view.Traces))
	fmt.Println(view.Render())
	return nil
}
