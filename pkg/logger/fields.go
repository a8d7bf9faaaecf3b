package logger

import "go.uber.org/zap"

// Typed field constructors for the mediation domain. The gate, the hook
// registry, the journal, and the servers all tag their diagnostics with the
// same keys, so a blocked call, its hook fault, and its eventual ledger line
// correlate in one grep.
func Tool(name string) zap.Field {
	return zap.String("tool", name)
}

func Intent(id string) zap.Field {
	return zap.String("intent_id", id)
}

func TaskID(id string) zap.Field {
	return zap.String("task", id)
}

func File(path string) zap.Field {
	return zap.String("file", path)
}

func Hook(id string) zap.Field {
	return zap.String("hook", id)
}

func Reason(code string) zap.Field {
	return zap.String("reason", code)
}

func Workspace(root string) zap.Field {
	return zap.String("workspace", root)
}
