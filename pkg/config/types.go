package config

import "strconv"

// Config represents the persistent reins configuration stored as config.toml
// in the .reins/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version   int            `toml:"version"`
	Workspace WorkspaceConfig `toml:"workspace"`
	API       APIConfig       `toml:"api"`
	MCP       MCPConfig       `toml:"mcp"`
	Storage   StorageConfig   `toml:"storage"`
	Gate      GateConfig      `toml:"gate"`
	Trace     TraceConfig     `toml:"trace"`
}

// WorkspaceConfig names the mediated workspace.
type WorkspaceConfig struct {
	Root string `toml:"root,omitempty"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// StorageConfig holds the read-side ledger index settings. An empty path
// keeps the index in memory.
type StorageConfig struct {
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// GateConfig holds security gate settings.
type GateConfig struct {
	// StrictAuthorization denies destructive operations when no
	// authorization surface is reachable.
	StrictAuthorization bool `toml:"strict_authorization"`

	// AutoApprove answers every confirmation with approve. For headless
	// deployments that accept the risk.
	AutoApprove bool `toml:"auto_approve"`
}

// TraceConfig holds ledger record settings.
type TraceConfig struct {
	// ModelIdentifier is stamped onto ledger records when set.
	ModelIdentifier string `toml:"model_identifier,omitempty"`
}

// keyInfo couples a config key name with typed get/set accessors.
type keyInfo struct {
	get func(*Config) string
	set func(*Config, string) error
}

func parseBool(value string) (bool, error) {
	return strconv.ParseBool(value)
}

// configKeys is the registry of settable configuration keys.
var configKeys = map[string]keyInfo{
	"workspace.root": {
		get: func(c *Config) string { return c.Workspace.Root },
		set: func(c *Config, v string) error { c.Workspace.Root = v; return nil },
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"mcp.listen": {
		get: func(c *Config) string { return c.MCP.Listen },
		set: func(c *Config, v string) error { c.MCP.Listen = v; return nil },
	},
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"gate.strict_authorization": {
		get: func(c *Config) string { return strconv.FormatBool(c.Gate.StrictAuthorization) },
		set: func(c *Config, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			c.Gate.StrictAuthorization = b
			return nil
		},
	},
	"gate.auto_approve": {
		get: func(c *Config) string { return strconv.FormatBool(c.Gate.AutoApprove) },
		set: func(c *Config, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			c.Gate.AutoApprove = b
			return nil
		},
	},
	"trace.model_identifier": {
		get: func(c *Config) string { return c.Trace.ModelIdentifier },
		set: func(c *Config, v string) error { c.Trace.ModelIdentifier = v; return nil },
	},
}
