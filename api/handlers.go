package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/reins/pkg/intent"
	"github.com/papercomputeco/reins/pkg/logger"
	"github.com/papercomputeco/reins/pkg/trace"
)

// ErrorResponse is the API's error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// IntentSummary is the list view of a manifest entry.
type IntentSummary struct {
	ID         string   `json:"id"`
	Scope      string   `json:"scope,omitempty"`
	OwnedScope []string `json:"owned_scope,omitempty"`
}

// IntentDetail is the full context view of one intent.
type IntentDetail struct {
	ID          string         `json:"id"`
	Constraints string         `json:"constraints,omitempty"`
	Scope       string         `json:"scope,omitempty"`
	OwnedScope  []string       `json:"owned_scope,omitempty"`
	Traces      []trace.Record `json:"traces"`
	Rendered    string         `json:"rendered"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleListIntents returns the manifest summary.
func (s *Server) handleListIntents(c *fiber.Ctx) error {
	intents, err := intent.LoadManifest(s.config.WorkspaceRoot)
	if err != nil {
		s.logger.Error("loading manifest", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to load intent manifest"})
	}

	out := make([]IntentSummary, 0, len(intents))
	for _, in := range intents {
		out = append(out, IntentSummary{
			ID:         in.ID,
			Scope:      in.Scope,
			OwnedScope: in.OwnedScope,
		})
	}
	return c.JSON(out)
}

// handleGetIntent returns the context view for one intent.
func (s *Server) handleGetIntent(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "id parameter required"})
	}

	view, err := s.loader.Load(s.config.WorkspaceRoot, id)
	if err != nil {
		s.logger.Error("loading intent context", logger.Intent(id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to load intent context"})
	}
	if view == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "intent not found"})
	}

	traces := view.Traces
	if traces == nil {
		traces = []trace.Record{}
	}

	return c.JSON(IntentDetail{
		ID:          view.IntentID,
		Constraints: view.Constraints,
		Scope:       view.Scope,
		OwnedScope:  view.OwnedScope,
		Traces:      traces,
		Rendered:    view.Render(),
	})
}

// handleQueryTrace returns ledger records, filtered by query parameters.
func (s *Server) handleQueryTrace(c *fiber.Ctx) error {
	q := trace.Query{
		IntentID:      c.Query("intent_id"),
		File:          c.Query("file"),
		MutationClass: c.Query("mutation_class"),
		Limit:         c.QueryInt("limit"),
		Offset:        c.QueryInt("offset"),
	}

	records, err := s.storer.Query(c.Context(), q)
	if err != nil {
		s.logger.Error("querying trace index", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to query trace records"})
	}
	if records == nil {
		records = []trace.Record{}
	}
	return c.JSON(records)
}

// handleTraceStats returns aggregate ledger statistics.
func (s *Server) handleTraceStats(c *fiber.Ctx) error {
	stats, err := s.storer.Stats(c.Context())
	if err != nil {
		s.logger.Error("computing trace stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to compute trace stats"})
	}
	return c.JSON(stats)
}
