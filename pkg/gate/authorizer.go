// Package gate implements the policy half of the hook pipeline: the security
// pre-hook that decides whether a destructive tool call may proceed, and the
// trace post-hook that journals the mutation once it has.
package gate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Decision is the human operator's verdict on a destructive operation.
type Decision int

const (
	Reject Decision = iota
	Approve
)

// ErrUnavailable marks an authorization surface that cannot currently reach
// a human. The gate's fail-open/strict policy decides what happens next.
var ErrUnavailable = errors.New("authorization surface unavailable")

// Authorizer presents a modal confirmation to the human operator.
type Authorizer interface {
	Confirm(ctx context.Context, description string) (Decision, error)
}

type authorizerContextKey struct{}

// WithAuthorizer returns a context carrying a call-scoped authorization
// surface. The MCP layer uses this to route confirmations to the session
// that issued the tool call (its elicitation channel) rather than to a
// process-wide surface.
func WithAuthorizer(ctx context.Context, a Authorizer) context.Context {
	return context.WithValue(ctx, authorizerContextKey{}, a)
}

// AuthorizerFromContext returns the call-scoped authorization surface, if
// one was attached.
func AuthorizerFromContext(ctx context.Context) (Authorizer, bool) {
	a, ok := ctx.Value(authorizerContextKey{}).(Authorizer)
	return a, ok
}

// ContextAuthorizer prefers the surface carried on the call context and
// falls back to a fixed one when the context carries none or the carried
// surface is unavailable. A denial from the context surface is final; only
// unavailability falls through.
type ContextAuthorizer struct {
	Fallback Authorizer
}

func (a ContextAuthorizer) Confirm(ctx context.Context, description string) (Decision, error) {
	if scoped, ok := AuthorizerFromContext(ctx); ok {
		decision, err := scoped.Confirm(ctx, description)
		if err == nil || !errors.Is(err, ErrUnavailable) {
			return decision, err
		}
	}

	if a.Fallback == nil {
		return Reject, ErrUnavailable
	}
	return a.Fallback.Confirm(ctx, description)
}

// StaticAuthorizer always answers with a fixed decision. Used for headless
// deployments and tests.
type StaticAuthorizer struct {
	Decision Decision
}

func (a StaticAuthorizer) Confirm(_ context.Context, _ string) (Decision, error) {
	return a.Decision, nil
}

// TerminalAuthorizer asks for confirmation on an interactive terminal.
// When stdin is not a TTY the surface is unavailable.
type TerminalAuthorizer struct {
	In  *os.File
	Out io.Writer
}

// NewTerminalAuthorizer builds an authorizer over the process terminal.
func NewTerminalAuthorizer() *TerminalAuthorizer {
	return &TerminalAuthorizer{In: os.Stdin, Out: os.Stderr}
}

func (a *TerminalAuthorizer) Confirm(ctx context.Context, description string) (Decision, error) {
	if a.In == nil || !term.IsTerminal(int(a.In.Fd())) {
		return Reject, ErrUnavailable
	}

	fmt.Fprintf(a.Out, "\n%s\nApprove? [y/N] ", description)

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(a.In).ReadString('\n')
		ch <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return Reject, ctx.Err()
	case ans := <-ch:
		if ans.err != nil {
			return Reject, ErrUnavailable
		}
		switch strings.ToLower(strings.TrimSpace(ans.line)) {
		case "y", "yes":
			return Approve, nil
		default:
			return Reject, nil
		}
	}
}
