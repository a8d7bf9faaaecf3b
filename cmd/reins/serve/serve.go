// Package servecmder provides the serve command for running the reins
// mediation services.
package servecmder

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/reins/api"
	mcpapi "github.com/papercomputeco/reins/api/mcp"
	"github.com/papercomputeco/reins/pkg/config"
	"github.com/papercomputeco/reins/pkg/eventstream/nop"
	"github.com/papercomputeco/reins/pkg/gate"
	"github.com/papercomputeco/reins/pkg/hooks"
	"github.com/papercomputeco/reins/pkg/intent"
	"github.com/papercomputeco/reins/pkg/logger"
	"github.com/papercomputeco/reins/pkg/storage"
	"github.com/papercomputeco/reins/pkg/storage/inmemory"
	"github.com/papercomputeco/reins/pkg/storage/sqlite"
	"github.com/papercomputeco/reins/pkg/tools"
	"github.com/papercomputeco/reins/pkg/watch"
)

type ServeCommander struct {
	workspace   string
	apiListen   string
	mcpListen   string
	sqlitePath  string
	strictAuth  bool
	autoApprove bool
	modelID     string
	debug       bool
	logger      *zap.Logger
}

const serveLongDesc string = `Run the reins mediation services.

Starts the MCP server agents connect to and the read-only HTTP API for
inspecting intents and the trace ledger. The intent manifest and ignore
list are watched for edits while serving.`

const serveShortDesc string = "Run the reins MCP and API servers"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}
	fs := config.DefaultFlags()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.InitViper("")
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, fs, []string{
				config.FlagWorkspace,
				config.FlagAPIListen,
				config.FlagMCPListen,
				config.FlagSQLite,
				config.FlagStrictAuth,
				config.FlagAutoApprove,
			})

			cfg := config.ConfigFromViper(v)
			cmder.workspace = cfg.Workspace.Root
			cmder.apiListen = cfg.API.Listen
			cmder.mcpListen = cfg.MCP.Listen
			cmder.sqlitePath = cfg.Storage.SQLitePath
			cmder.strictAuth = cfg.Gate.StrictAuthorization
			cmder.autoApprove = cfg.Gate.AutoApprove
			cmder.modelID = cfg.Trace.ModelIdentifier
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, fs, config.FlagWorkspace, &cmder.workspace)
	config.AddStringFlag(cmd, fs, config.FlagAPIListen, &cmder.apiListen)
	config.AddStringFlag(cmd, fs, config.FlagMCPListen, &cmder.mcpListen)
	config.AddStringFlag(cmd, fs, config.FlagSQLite, &cmder.sqlitePath)
	config.AddBoolFlag(cmd, fs, config.FlagStrictAuth, &cmder.strictAuth)
	config.AddBoolFlag(cmd, fs, config.FlagAutoApprove, &cmder.autoApprove)

	return cmd
}

func (c *ServeCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	root, err := filepath.Abs(c.workspace)
	if err != nil {
		return fmt.Errorf("resolving workspace root: %w", err)
	}

	// Shared read-side index
	storer, err := c.createStorer()
	if err != nil {
		return err
	}
	defer storer.Close()

	if _, err := storage.Rebuild(context.Background(), storer, root); err != nil {
		c.logger.Warn("rebuilding trace index", zap.Error(err))
	}

	// Mediation pipeline
	executor, err := c.createExecutor(root)
	if err != nil {
		return err
	}

	mcpServer, err := mcpapi.NewServer(mcpapi.Config{
		Executor:        executor,
		WorkspaceRoot:   root,
		ModelIdentifier: c.modelID,
		Logger:          c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}
	defer mcpServer.Close()

	apiServer := api.NewServer(api.Config{
		ListenAddr:    c.apiListen,
		WorkspaceRoot: root,
	}, storer, c.logger)

	c.logger.Info("starting reins",
		logger.Workspace(root),
		zap.String("mcp_addr", c.mcpListen),
		zap.String("api_addr", c.apiListen),
		zap.Bool("strict_authorization", c.strictAuth),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Watch the manifest and ignore list for operator visibility.
	if watcher, err := watch.New(root, c.logger); err != nil {
		c.logger.Warn("workspace watcher unavailable", zap.Error(err))
	} else {
		go watcher.Run(ctx)
	}

	errChan := make(chan error, 2)

	go func() {
		if err := http.ListenAndServe(c.mcpListen, mcpServer.Handler()); err != nil {
			errChan <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return apiServer.Shutdown()
	}
}

// createExecutor wires the tool registry, the security gate, and the trace
// journaler into one executor.
func (c *ServeCommander) createExecutor(root string) (*tools.Executor, error) {
	loader := intent.NewLoader(c.logger)

	registry := tools.NewRegistry()
	if err := tools.RegisterCore(registry, loader); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}

	// Confirmations prefer the calling MCP session's elicitation channel;
	// the fallback below only answers when the session has none.
	var fallback gate.Authorizer
	if c.autoApprove {
		c.logger.Warn("auto-approve is enabled; every confirmation is answered yes")
		fallback = gate.StaticAuthorizer{Decision: gate.Approve}
	} else {
		fallback = gate.NewTerminalAuthorizer()
	}
	auth := gate.ContextAuthorizer{Fallback: fallback}

	hookRegistry := hooks.NewRegistry(c.logger)
	hookRegistry.RegisterPre(gate.NewSecurityHook(registry, intent.NewIgnoreCache(), auth,
		gate.SecurityConfig{StrictAuthorization: c.strictAuth}, c.logger))
	hookRegistry.RegisterPost(gate.NewTraceHook(nop.NewPublisher(), c.logger))

	return tools.NewExecutor(registry, hookRegistry, c.logger), nil
}

func (c *ServeCommander) createStorer() (storage.Driver, error) {
	if c.sqlitePath != "" {
		storer, err := sqlite.NewDriver(c.sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite index: %w", err)
		}
		c.logger.Info("using SQLite trace index", zap.String("path", c.sqlitePath))
		return storer, nil
	}

	c.logger.Info("using in-memory trace index")
	return inmemory.NewDriver(), nil
}
