package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --workspace
// on "reins serve", "reins status", and "reins trace").
type Flag struct {
	// Name is the long flag name (e.g. "workspace").
	Name string

	// Shorthand is the one-letter short flag (e.g. "w"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "workspace.root").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddBoolFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagWorkspace   = "workspace"
	FlagAPIListen   = "api-listen"
	FlagMCPListen   = "mcp-listen"
	FlagSQLite      = "sqlite"
	FlagStrictAuth  = "strict-authorization"
	FlagAutoApprove = "auto-approve"
)

// DefaultFlags returns the shared flag registry.
func DefaultFlags() FlagSet {
	return FlagSet{
		FlagWorkspace: {
			Name:        "workspace",
			Shorthand:   "w",
			ViperKey:    "workspace.root",
			Description: "Path to the mediated workspace root",
		},
		FlagAPIListen: {
			Name:        "api-listen",
			Shorthand:   "a",
			ViperKey:    "api.listen",
			Description: "Address for the API server to listen on",
		},
		FlagMCPListen: {
			Name:        "mcp-listen",
			Shorthand:   "m",
			ViperKey:    "mcp.listen",
			Description: "Address for the MCP server to listen on",
		},
		FlagSQLite: {
			Name:        "sqlite",
			Shorthand:   "s",
			ViperKey:    "storage.sqlite_path",
			Description: "Path to the SQLite ledger index (serve default: in-memory; sync default: .reins/trace.db)",
		},
		FlagStrictAuth: {
			Name:        "strict-authorization",
			ViperKey:    "gate.strict_authorization",
			Description: "Deny destructive operations when no authorization surface is reachable",
		},
		FlagAutoApprove: {
			Name:        "auto-approve",
			ViperKey:    "gate.auto_approve",
			Description: "Approve every confirmation without prompting (headless mode)",
		},
	}
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddBoolFlag registers a bool flag on cmd from the given FlagSet.
func AddBoolFlag(cmd *cobra.Command, fs FlagSet, key string, target *bool) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultBool(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().BoolVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().BoolVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultBool returns the default bool value for a viper key from NewDefaultConfig.
func defaultBool(viperKey string) bool {
	v := viper.New()
	setViperDefaults(v)
	return v.GetBool(viperKey)
}
