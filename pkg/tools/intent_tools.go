package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/papercomputeco/reins/pkg/hooks"
	"github.com/papercomputeco/reins/pkg/intent"
	"github.com/papercomputeco/reins/pkg/task"
)

// SelectIntentTool returns the tool that binds a task to a declared intent.
// It is classified Safe, so the gate lets it through before any intent is
// active, and its output is the rendered context document that seeds the agent.
func SelectIntentTool(loader *intent.Loader) *Tool {
	return &Tool{
		Name:        ToolSelectIntent,
		Description: "Select the active intent for this task and load its context",
		Capability:  Safe,
		Schema: Schema{
			Required: []string{ParamIntentID},
			Properties: map[string]Property{
				ParamIntentID: {
					Type:        "string",
					Description: "The id of a declared intent from the workspace manifest",
				},
			},
		},
		Execute: func(_ context.Context, t *task.Task, params map[string]any) (string, error) {
			intentID, _ := params[ParamIntentID].(string)
			if intentID == "" {
				return "", fmt.Errorf("%s is required", ParamIntentID)
			}

			view, err := loader.Load(t.WorkspaceRoot, intentID)
			if err != nil {
				return "", fmt.Errorf("loading intent context: %w", err)
			}
			if view == nil {
				return "", hooks.NewToolError(ToolSelectIntent, hooks.ReasonIntentNotFound,
					fmt.Sprintf("intent %s is not declared in the workspace manifest", intentID),
				).WithIntent(intentID)
			}

			t.SetActiveIntent(intentID)
			return view.Render(), nil
		},
	}
}

// ListIntentsTool returns the tool that summarizes the manifest for the
// agent.
func ListIntentsTool() *Tool {
	return &Tool{
		Name:        ToolListIntents,
		Description: "List the intents declared in the workspace manifest",
		Capability:  Safe,
		Schema:      Schema{Properties: map[string]Property{}},
		Execute: func(_ context.Context, t *task.Task, _ map[string]any) (string, error) {
			intents, err := intent.LoadManifest(t.WorkspaceRoot)
			if err != nil {
				return "", fmt.Errorf("loading intent manifest: %w", err)
			}
			if len(intents) == 0 {
				return "No intents are declared in this workspace.", nil
			}

			var b strings.Builder
			for _, in := range intents {
				b.WriteString(in.ID)
				if in.Scope != "" {
					b.WriteString(": ")
					b.WriteString(in.Scope)
				}
				if len(in.OwnedScope) > 0 {
					b.WriteString(" [")
					b.WriteString(strings.Join(in.OwnedScope, ", "))
					b.WriteString("]")
				}
				b.WriteString("\n")
			}
			return b.String(), nil
		},
	}
}
