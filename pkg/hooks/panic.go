package hooks

import "fmt"

// panicError wraps a recovered hook panic so it flows through the normal
// fault logging path.
type panicError struct {
	hook  string
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("hook %s panicked: %v", e.hook, e.value)
}
