package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/reins/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the REINS_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (REINS_API_LISTEN, REINS_WORKSPACE_ROOT, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: REINS_API_LISTEN, REINS_GATE_AUTO_APPROVE, etc.
	v.SetEnvPrefix("REINS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Workspace
	v.SetDefault("workspace.root", d.Workspace.Root)

	// API
	v.SetDefault("api.listen", d.API.Listen)

	// MCP
	v.SetDefault("mcp.listen", d.MCP.Listen)

	// Storage
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)

	// Gate
	v.SetDefault("gate.strict_authorization", d.Gate.StrictAuthorization)
	v.SetDefault("gate.auto_approve", d.Gate.AutoApprove)

	// Trace
	v.SetDefault("trace.model_identifier", d.Trace.ModelIdentifier)
}

// ConfigFromViper materializes a Config from a resolved viper instance.
func ConfigFromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		Workspace: WorkspaceConfig{
			Root: v.GetString("workspace.root"),
		},
		API: APIConfig{
			Listen: v.GetString("api.listen"),
		},
		MCP: MCPConfig{
			Listen: v.GetString("mcp.listen"),
		},
		Storage: StorageConfig{
			SQLitePath: v.GetString("storage.sqlite_path"),
		},
		Gate: GateConfig{
			StrictAuthorization: v.GetBool("gate.strict_authorization"),
			AutoApprove:         v.GetBool("gate.auto_approve"),
		},
		Trace: TraceConfig{
			ModelIdentifier: v.GetString("trace.model_identifier"),
		},
	}
}
