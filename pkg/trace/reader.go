package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Reader streams records back out of a workspace ledger.
type Reader struct {
	workspaceRoot string
	logger        *zap.Logger
}

// NewReader creates a ledger reader. A nil logger disables malformed-line
// warnings.
func NewReader(workspaceRoot string, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{workspaceRoot: workspaceRoot, logger: logger}
}

// Read returns every well-formed record in the ledger, oldest first.
// A missing ledger yields an empty slice. Malformed lines are skipped with a
// warning; a ledger's history must stay readable past one bad line.
func (r *Reader) Read() ([]Record, error) {
	path := filepath.Join(r.workspaceRoot, Dir, LedgerFile)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			r.logger.Warn("skipping malformed ledger line",
				zap.Int("line", line),
				zap.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning ledger: %w", err)
	}

	return records, nil
}

// Query filters ledger reads. Zero values match everything.
type Query struct {
	IntentID      string
	File          string
	MutationClass string
	Limit         int
	Offset        int
}

// ReadFiltered returns the records matching q, oldest first.
func (r *Reader) ReadFiltered(q Query) ([]Record, error) {
	records, err := r.Read()
	if err != nil {
		return nil, err
	}

	filtered := records[:0:0]
	for _, rec := range records {
		if q.IntentID != "" && rec.IntentID != q.IntentID {
			continue
		}
		if q.File != "" && rec.File != q.File {
			continue
		}
		if q.MutationClass != "" && string(rec.MutationClass) != q.MutationClass {
			continue
		}
		filtered = append(filtered, rec)
	}

	if q.Offset > 0 {
		if q.Offset >= len(filtered) {
			return nil, nil
		}
		filtered = filtered[q.Offset:]
	}
	if q.Limit > 0 && len(filtered) > q.Limit {
		filtered = filtered[:q.Limit]
	}

	return filtered, nil
}
