package tools

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/papercomputeco/reins/pkg/task"
)

// ExecuteCommandTool returns the tool for running shell commands in the
// task's working directory. Cancellation of the surrounding context kills
// the subprocess.
func ExecuteCommandTool() *Tool {
	return &Tool{
		Name:        ToolExecuteCommand,
		Description: "Run a shell command in the working directory and return its output",
		Capability:  Destructive,
		Schema: Schema{
			Required: []string{ParamCommand},
			Properties: map[string]Property{
				ParamCommand: {
					Type:        "string",
					Description: "The shell command line to execute",
				},
			},
		},
		Execute: executeCommand,
	}
}

func executeCommand(ctx context.Context, t *task.Task, params map[string]any) (string, error) {
	command, _ := params[ParamCommand].(string)
	if strings.TrimSpace(command) == "" {
		return "", fmt.Errorf("%s is required", ParamCommand)
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = t.WorkingDir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("command failed: %w\n%s", err, out)
	}
	return string(out), nil
}
