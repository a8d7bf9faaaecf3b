// Package trace defines the append-only mutation ledger: the record schema,
// the JSONL writer and reader, and the per-task file fingerprint tracker that
// backs the optimistic lock.
package trace

import (
	"errors"
	"fmt"
	"time"

	"github.com/papercomputeco/reins/pkg/mutation"
)

const (
	// Dir is the workspace-relative directory holding orchestration state.
	Dir = ".orchestration"

	// LedgerFile is the ledger filename inside Dir.
	LedgerFile = "agent_trace.jsonl"

	// TimestampLayout is RFC 3339 UTC with millisecond precision.
	TimestampLayout = "2006-01-02T15:04:05.000Z"
)

// Record is one append-only ledger entry describing a single successful
// mutation. Immutable once appended.
type Record struct {
	ReqID           string         `json:"req_id"`
	IntentID        string         `json:"intent_id"`
	File            string         `json:"file"`
	Timestamp       string         `json:"timestamp"`
	MutationClass   mutation.Class `json:"mutation_class"`
	ContentHash     string         `json:"content_hash"`
	ModelIdentifier string         `json:"model_identifier,omitempty"`
	Related         []string       `json:"related"`
	Ranges          Ranges         `json:"ranges"`
	VCS             *VCS           `json:"vcs,omitempty"`
}

// Ranges carries the spatial-index hash. It must stay identical to the
// record's primary content hash today.
type Ranges struct {
	ContentHash string `json:"content_hash"`
}

// VCS describes the version control context at append time.
type VCS struct {
	Revision string `json:"revision"`
	Branch   string `json:"branch,omitempty"`
}

// FormatTimestamp formats t for a ledger record.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

var (
	ErrMissingReqID    = errors.New("missing req_id")
	ErrMissingIntentID = errors.New("missing intent_id")
	ErrMissingFile     = errors.New("missing file")
	ErrMissingHash     = errors.New("missing content_hash")
	ErrHashMismatch    = errors.New("ranges.content_hash differs from content_hash")
	ErrBadClass        = errors.New("unknown mutation_class")
	ErrEmptyRevision   = errors.New("vcs present with empty revision")
)

// Validate checks the structural invariants every ledger record must hold.
func (r *Record) Validate() error {
	switch {
	case r.ReqID == "":
		return ErrMissingReqID
	case r.IntentID == "":
		return ErrMissingIntentID
	case r.File == "":
		return ErrMissingFile
	case r.ContentHash == "":
		return ErrMissingHash
	case r.Ranges.ContentHash != r.ContentHash:
		return ErrHashMismatch
	case !r.MutationClass.Valid():
		return fmt.Errorf("%w: %q", ErrBadClass, r.MutationClass)
	case r.VCS != nil && r.VCS.Revision == "":
		return ErrEmptyRevision
	}
	return nil
}
