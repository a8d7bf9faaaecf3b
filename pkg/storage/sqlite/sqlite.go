// Package sqlite provides a SQLite-backed storage driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/reins/pkg/mutation"
	"github.com/papercomputeco/reins/pkg/storage"
	"github.com/papercomputeco/reins/pkg/trace"
)

const schema = `
CREATE TABLE IF NOT EXISTS trace_records (
	req_id           TEXT NOT NULL,
	intent_id        TEXT NOT NULL,
	file             TEXT NOT NULL,
	timestamp        TEXT NOT NULL,
	mutation_class   TEXT NOT NULL,
	content_hash     TEXT NOT NULL,
	model_identifier TEXT NOT NULL DEFAULT '',
	related          TEXT NOT NULL DEFAULT '[]',
	vcs_revision     TEXT NOT NULL DEFAULT '',
	vcs_branch       TEXT NOT NULL DEFAULT '',
	UNIQUE (req_id, file, timestamp, content_hash)
);
CREATE INDEX IF NOT EXISTS idx_trace_intent ON trace_records (intent_id);
CREATE INDEX IF NOT EXISTS idx_trace_file ON trace_records (file);
`

// Driver implements storage.Driver using SQLite.
type Driver struct {
	db *sql.DB
}

// NewDriver creates a SQLite-backed index. The dbPath can be a file path or
// ":memory:" for an in-memory database.
func NewDriver(dbPath string) (*Driver, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Driver{db: db}, nil
}

// Put implements storage.Driver.
func (d *Driver) Put(ctx context.Context, record *trace.Record) (bool, error) {
	related, err := json.Marshal(record.Related)
	if err != nil {
		return false, fmt.Errorf("encoding related ids: %w", err)
	}

	var revision, branch string
	if record.VCS != nil {
		revision = record.VCS.Revision
		branch = record.VCS.Branch
	}

	res, err := d.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO trace_records
		(req_id, intent_id, file, timestamp, mutation_class, content_hash,
		 model_identifier, related, vcs_revision, vcs_branch)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ReqID, record.IntentID, record.File, record.Timestamp,
		string(record.MutationClass), record.ContentHash,
		record.ModelIdentifier, string(related), revision, branch,
	)
	if err != nil {
		return false, fmt.Errorf("inserting trace record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking insert result: %w", err)
	}
	return n > 0, nil
}

// Query implements storage.Driver.
func (d *Driver) Query(ctx context.Context, q trace.Query) ([]trace.Record, error) {
	query := `
		SELECT req_id, intent_id, file, timestamp, mutation_class, content_hash,
		       model_identifier, related, vcs_revision, vcs_branch
		FROM trace_records WHERE 1=1`
	var args []any

	if q.IntentID != "" {
		query += " AND intent_id = ?"
		args = append(args, q.IntentID)
	}
	if q.File != "" {
		query += " AND file = ?"
		args = append(args, q.File)
	}
	if q.MutationClass != "" {
		query += " AND mutation_class = ?"
		args = append(args, q.MutationClass)
	}

	query += " ORDER BY timestamp, rowid"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
		if q.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, q.Offset)
		}
	} else if q.Offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, q.Offset)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying trace records: %w", err)
	}
	defer rows.Close()

	var out []trace.Record
	for rows.Next() {
		var (
			rec      trace.Record
			class    string
			related  string
			revision string
			branch   string
		)
		if err := rows.Scan(&rec.ReqID, &rec.IntentID, &rec.File, &rec.Timestamp,
			&class, &rec.ContentHash, &rec.ModelIdentifier,
			&related, &revision, &branch); err != nil {
			return nil, fmt.Errorf("scanning trace record: %w", err)
		}

		rec.MutationClass = mutation.Class(class)
		rec.Ranges = trace.Ranges{ContentHash: rec.ContentHash}
		if err := json.Unmarshal([]byte(related), &rec.Related); err != nil {
			return nil, fmt.Errorf("decoding related ids: %w", err)
		}
		if revision != "" {
			rec.VCS = &trace.VCS{Revision: revision, Branch: branch}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Stats implements storage.Driver.
func (d *Driver) Stats(ctx context.Context) (*storage.Stats, error) {
	stats := &storage.Stats{
		ByClass:  make(map[string]int),
		ByIntent: make(map[string]int),
	}

	if err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM trace_records").Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("counting trace records: %w", err)
	}

	rows, err := d.db.QueryContext(ctx,
		"SELECT mutation_class, COUNT(*) FROM trace_records GROUP BY mutation_class")
	if err != nil {
		return nil, fmt.Errorf("grouping by class: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var class string
		var n int
		if err := rows.Scan(&class, &n); err != nil {
			return nil, err
		}
		stats.ByClass[class] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	intents, err := d.db.QueryContext(ctx,
		"SELECT intent_id, COUNT(*) FROM trace_records GROUP BY intent_id")
	if err != nil {
		return nil, fmt.Errorf("grouping by intent: %w", err)
	}
	defer intents.Close()
	for intents.Next() {
		var intentID string
		var n int
		if err := intents.Scan(&intentID, &n); err != nil {
			return nil, err
		}
		stats.ByIntent[intentID] = n
	}
	return stats, intents.Err()
}

// Close implements storage.Driver.
func (d *Driver) Close() error {
	return d.db.Close()
}
