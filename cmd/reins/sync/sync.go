// Package synccmder provides the sync command for rebuilding the read-side
// trace index from the ledger.
package synccmder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/reins/pkg/cliui"
	"github.com/papercomputeco/reins/pkg/config"
	"github.com/papercomputeco/reins/pkg/dotdir"
	"github.com/papercomputeco/reins/pkg/storage"
	"github.com/papercomputeco/reins/pkg/storage/sqlite"
)

const syncLongDesc string = `Rebuild the SQLite trace index from the workspace ledger.

The JSONL ledger stays authoritative; the index is a rebuildable query
structure. Running sync repeatedly is safe; already-indexed records are
skipped. Without --sqlite the index lands at .reins/trace.db.

Examples:
  reins sync
  reins sync --sqlite /tmp/trace.db`

const syncShortDesc string = "Rebuild the trace index from the ledger"

type SyncCommander struct {
	workspace  string
	sqlitePath string
}

func NewSyncCmd() *cobra.Command {
	cmder := &SyncCommander{}
	fs := config.DefaultFlags()

	cmd := &cobra.Command{
		Use:   "sync",
		Short: syncShortDesc,
		Long:  syncLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, fs, config.FlagWorkspace, &cmder.workspace)
	config.AddStringFlag(cmd, fs, config.FlagSQLite, &cmder.sqlitePath)

	return cmd
}

func (c *SyncCommander) run() error {
	if c.sqlitePath == "" {
		path, err := dotdir.NewManager().IndexPath("")
		if err != nil {
			return fmt.Errorf("resolving default index path: %w", err)
		}
		c.sqlitePath = path
	}

	root, err := filepath.Abs(c.workspace)
	if err != nil {
		return fmt.Errorf("resolving workspace root: %w", err)
	}

	driver, err := sqlite.NewDriver(c.sqlitePath)
	if err != nil {
		return err
	}
	defer driver.Close()

	var inserted int
	err = cliui.Step(os.Stdout, "indexing trace ledger", func() error {
		var rebuildErr error
		inserted, rebuildErr = storage.Rebuild(context.Background(), driver, root)
		return rebuildErr
	})
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d new record(s) into %s\n", inserted, c.sqlitePath)
	return nil
}
