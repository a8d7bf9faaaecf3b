package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/reins/pkg/gate"
	"github.com/papercomputeco/reins/pkg/hooks"
	"github.com/papercomputeco/reins/pkg/logger"
	"github.com/papercomputeco/reins/pkg/tools"
)

// SelectIntentInput names the intent to bind the session to.
type SelectIntentInput struct {
	IntentID string `json:"intent_id" jsonschema:"the id of a declared intent from the workspace manifest"`
}

// ListIntentsInput has no parameters.
type ListIntentsInput struct{}

// ReadFileInput names the file to read.
type ReadFileInput struct {
	Path string `json:"path" jsonschema:"the file path to read, relative to the workspace root"`
}

// WriteFileInput carries a gated file write.
type WriteFileInput struct {
	Path          string `json:"path" jsonschema:"the file path to write, relative to the workspace root"`
	Content       string `json:"content" jsonschema:"the full new content of the file"`
	IntentID      string `json:"intent_id,omitempty" jsonschema:"the intent this mutation belongs to (defaults to the session's active intent)"`
	MutationClass string `json:"mutation_class,omitempty" jsonschema:"optional declared mutation class: AST_REFACTOR or INTENT_EVOLUTION"`
}

// ExecuteCommandInput carries a gated shell invocation.
type ExecuteCommandInput struct {
	Command string `json:"command" jsonschema:"the shell command line to execute in the workspace"`
}

// ToolOutput is the common result envelope. At most one of Result or Error
// is set; Error carries the agent-correctable policy payload. Execution
// faults leave both empty and are reported through IsError on the result.
type ToolOutput struct {
	Result string           `json:"result,omitempty"`
	Error  *hooks.ToolError `json:"error,omitempty"`
}

func (sess *session) handleSelectIntent(ctx context.Context, req *mcp.CallToolRequest, input SelectIntentInput) (*mcp.CallToolResult, ToolOutput, error) {
	return sess.dispatch(ctx, req, tools.ToolSelectIntent, map[string]any{
		tools.ParamIntentID: input.IntentID,
	})
}

func (sess *session) handleListIntents(ctx context.Context, req *mcp.CallToolRequest, _ ListIntentsInput) (*mcp.CallToolResult, ToolOutput, error) {
	return sess.dispatch(ctx, req, tools.ToolListIntents, map[string]any{})
}

func (sess *session) handleReadFile(ctx context.Context, req *mcp.CallToolRequest, input ReadFileInput) (*mcp.CallToolResult, ToolOutput, error) {
	return sess.dispatch(ctx, req, tools.ToolReadFile, map[string]any{
		tools.ParamPath: input.Path,
	})
}

func (sess *session) handleWriteFile(ctx context.Context, req *mcp.CallToolRequest, input WriteFileInput) (*mcp.CallToolResult, ToolOutput, error) {
	params := map[string]any{
		tools.ParamPath:    input.Path,
		tools.ParamContent: input.Content,
	}
	if input.IntentID != "" {
		params[tools.ParamIntentID] = input.IntentID
	}
	if input.MutationClass != "" {
		params[tools.ParamMutationClass] = input.MutationClass
	}
	return sess.dispatch(ctx, req, tools.ToolWriteFile, params)
}

func (sess *session) handleExecuteCommand(ctx context.Context, req *mcp.CallToolRequest, input ExecuteCommandInput) (*mcp.CallToolResult, ToolOutput, error) {
	return sess.dispatch(ctx, req, tools.ToolExecuteCommand, map[string]any{
		tools.ParamCommand: input.Command,
	})
}

// dispatch runs one tool call through the executor and maps its outcome onto
// the MCP result channel. The calling session's elicitation channel rides
// the context so the gate's confirmation reaches the human behind this
// session. Policy denials are delivered as ordinary results (the agent is
// expected to read the reason and self-correct); fatal parameter and
// execution faults surface as tool errors.
func (sess *session) dispatch(ctx context.Context, req *mcp.CallToolRequest, name string, params map[string]any) (*mcp.CallToolResult, ToolOutput, error) {
	if req != nil && req.Session != nil {
		ctx = gate.WithAuthorizer(ctx, &elicitAuthorizer{
			session: req.Session,
			logger:  sess.config.Logger,
		})
	}

	result := sess.config.Executor.Run(ctx, sess.task, name, params)

	switch {
	case result.IsDenied():
		sess.config.Logger.Debug("MCP tool call denied",
			logger.Tool(name),
			logger.Reason(result.Denied.Reason),
			logger.TaskID(sess.task.ID),
		)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: result.Denied.JSON()},
			},
		}, ToolOutput{Error: result.Denied}, nil

	case result.Err != nil:
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: result.Err.Error()},
			},
		}, ToolOutput{}, nil

	default:
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: result.Output},
			},
		}, ToolOutput{Result: result.Output}, nil
	}
}
