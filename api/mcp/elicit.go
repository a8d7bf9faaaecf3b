package mcp

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/papercomputeco/reins/pkg/gate"
)

// elicitAuthorizer answers gate confirmations through the MCP session's
// elicitation capability: the client shows the human the description and
// returns accept or decline. Clients that do not advertise elicitation make
// the surface unavailable, which hands the decision to the gate's
// fail-open/strict rule via the fallback chain.
type elicitAuthorizer struct {
	session *mcp.ServerSession
	logger  *zap.Logger
}

// confirmSchema is the empty object the elicitation request asks for; the
// accept/decline action alone carries the decision.
var confirmSchema = &jsonschema.Schema{
	Type:       "object",
	Properties: map[string]*jsonschema.Schema{},
}

func (a *elicitAuthorizer) Confirm(ctx context.Context, description string) (gate.Decision, error) {
	result, err := a.session.Elicit(ctx, &mcp.ElicitParams{
		Message:         description,
		RequestedSchema: confirmSchema,
	})
	if err != nil {
		a.logger.Debug("session elicitation unavailable", zap.Error(err))
		return gate.Reject, gate.ErrUnavailable
	}

	if result.Action == "accept" {
		return gate.Approve, nil
	}
	return gate.Reject, nil
}
