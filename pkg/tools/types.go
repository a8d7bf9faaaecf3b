// Package tools defines the mediated tool surface: declarations, the
// capability table, the registry, and the executor that threads every call
// through the hook pipeline.
package tools

import (
	"context"

	"github.com/papercomputeco/reins/pkg/task"
)

// Capability classifies a tool's side-effect profile. The closed set keeps
// the gate's policy decidable: anything not provably safe is destructive.
type Capability string

const (
	// Safe tools only observe; they bypass the security gate.
	Safe Capability = "safe"

	// Destructive tools alter files, processes, or external systems.
	Destructive Capability = "destructive"
)

// Registered tool names.
const (
	ToolSelectIntent   = "select_active_intent"
	ToolListIntents    = "list_intents"
	ToolReadFile       = "read_file"
	ToolWriteFile      = "write_to_file"
	ToolExecuteCommand = "execute_command"
)

// Well-known parameter keys.
const (
	ParamPath          = "path"
	ParamContent       = "content"
	ParamCommand       = "command"
	ParamIntentID      = "intent_id"
	ParamMutationClass = "mutation_class"
)

// Property describes a single parameter for the tool's declared schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Schema declares a tool's parameters.
type Schema struct {
	Required   []string            `json:"required"`
	Properties map[string]Property `json:"properties"`
}

// ExecuteFunc runs a tool body under a task.
type ExecuteFunc func(ctx context.Context, t *task.Task, params map[string]any) (string, error)

// Tool is one mediated operation.
type Tool struct {
	// Name uniquely identifies the tool.
	Name string

	// Description explains the tool to the agent.
	Description string

	// Capability feeds the security gate's capability table.
	Capability Capability

	// Schema declares the expected parameters.
	Schema Schema

	// Execute is the tool body.
	Execute ExecuteFunc
}

// Validate checks the tool definition.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Execute == nil {
		return ErrToolExecuteNil
	}
	if t.Capability != Safe && t.Capability != Destructive {
		return ErrToolCapabilityInvalid
	}
	return nil
}
