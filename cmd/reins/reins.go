// Package reinscmder
package reinscmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/reins/cmd/reins/config"
	initcmder "github.com/papercomputeco/reins/cmd/reins/init"
	intentscmder "github.com/papercomputeco/reins/cmd/reins/intents"
	servecmder "github.com/papercomputeco/reins/cmd/reins/serve"
	statuscmder "github.com/papercomputeco/reins/cmd/reins/status"
	synccmder "github.com/papercomputeco/reins/cmd/reins/sync"
	tracecmder "github.com/papercomputeco/reins/cmd/reins/trace"
	versioncmder "github.com/papercomputeco/reins/cmd/version"
)

const reinsLongDesc string = `Reins is intent-gated tool mediation for your agents.

Every destructive operation an agent issues is attributed to a declared
intent, confined to that intent's file scope, approved by a human, checked
against the last-known state of the target file, and journaled to an
append-only trace ledger.

Run services using:
  reins serve          Run the MCP and API servers`

const reinsShortDesc string = "Reins - Agent Intent Gating"

func NewReinsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reins",
		Short: reinsShortDesc,
		Long:  reinsLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(intentscmder.NewIntentsCmd())
	cmd.AddCommand(tracecmder.NewTraceCmd())
	cmd.AddCommand(synccmder.NewSyncCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
