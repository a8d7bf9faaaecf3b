package tools

import (
	"github.com/papercomputeco/reins/pkg/intent"
)

// RegisterCore registers the built-in mediated tools.
func RegisterCore(registry *Registry, loader *intent.Loader) error {
	all := []*Tool{
		SelectIntentTool(loader),
		ListIntentsTool(),
		ReadFileTool(),
		WriteFileTool(),
		ExecuteCommandTool(),
	}

	for _, tool := range all {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}
