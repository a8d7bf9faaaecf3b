// Package mcp exposes the mediated tool surface over the Model Context
// Protocol so MCP-speaking agents can work the workspace through the gate.
package mcp

import (
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/papercomputeco/reins/pkg/task"
	"github.com/papercomputeco/reins/pkg/tools"
	"github.com/papercomputeco/reins/pkg/utils"
)

type Config struct {
	// Executor runs tool calls through the hook pipeline.
	Executor *tools.Executor

	// WorkspaceRoot is the mediated workspace.
	WorkspaceRoot string

	// ModelIdentifier is stamped onto ledger records when set.
	ModelIdentifier string

	// Logger is the configured zap logger.
	Logger *zap.Logger
}

// Server accepts MCP sessions over streamable HTTP. Each client session gets
// its own task, so two agents on one process cannot see each other's active
// intent or poison each other's optimistic-lock snapshots.
type Server struct {
	config  Config
	handler *mcp.StreamableHTTPHandler

	mu       sync.Mutex
	sessions []*session
}

// session binds one MCP client session to one task. The session's tool
// closures all route through the shared executor under that task.
type session struct {
	config Config
	task   *task.Task
}

// NewServer creates the MCP serving surface.
func NewServer(c Config) (*Server, error) {
	if c.Executor == nil {
		return nil, errors.New("executor is required")
	}
	if c.WorkspaceRoot == "" {
		return nil, errors.New("workspace root is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{config: c}

	// A new session arriving over HTTP gets a fresh *mcp.Server whose tool
	// handlers close over a fresh task.
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return s.newSession().mcpServer()
		},
		&mcp.StreamableHTTPOptions{},
	)

	return s, nil
}

// newSession mints a task-scoped session and tracks it for cleanup.
func (s *Server) newSession() *session {
	t := task.New("t-"+uuid.NewString()[:8], s.config.WorkspaceRoot, s.config.WorkspaceRoot)
	t.ModelIdentifier = s.config.ModelIdentifier

	sess := &session{config: s.config, task: t}

	s.mu.Lock()
	s.sessions = append(s.sessions, sess)
	s.mu.Unlock()

	return sess
}

// mcpServer builds the per-session MCP server over this session's task.
func (sess *session) mcpServer() *mcp.Server {
	srv := mcp.NewServer(
		&mcp.Implementation{
			Name:    "reins",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        tools.ToolSelectIntent,
		Description: "Select the active intent for this session and load its context",
	}, sess.handleSelectIntent)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        tools.ToolListIntents,
		Description: "List the intents declared in the workspace manifest",
	}, sess.handleListIntents)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        tools.ToolReadFile,
		Description: "Read a workspace file",
	}, sess.handleReadFile)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        tools.ToolWriteFile,
		Description: "Write a workspace file (intent-gated)",
	}, sess.handleWriteFile)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        tools.ToolExecuteCommand,
		Description: "Run a shell command in the workspace (intent-gated)",
	}, sess.handleExecuteCommand)

	return srv
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Close ends every session task.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.task.Close()
	}
	s.sessions = nil
}
