// Package journal keeps a local log of every edit committed to the map
// server, so a session's changes can be reviewed later.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Kind string

const (
	KindUpdate Kind = "update"
	KindSwing  Kind = "swing"
)

type Entry struct {
	ID        string
	Kind      Kind
	Districts []string
	Payload   json.RawMessage
	CreatedAt time.Time
}

type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db, now: time.Now}, nil
}

func createSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create journal schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS edit (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL CHECK (kind IN ('update', 'swing')),
    districts TEXT NOT NULL,
    payload TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_edit_created_at ON edit(created_at);
`

func (j *Journal) Close() error { return j.db.Close() }

// Record stores one committed edit and returns its entry.
func (j *Journal) Record(ctx context.Context, kind Kind, districts []string, payload any) (Entry, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Entry{}, fmt.Errorf("encode journal payload: %w", err)
	}
	e := Entry{
		ID:        uuid.NewString(),
		Kind:      kind,
		Districts: append([]string(nil), districts...),
		Payload:   raw,
		CreatedAt: j.now().UTC(),
	}
	_, err = j.db.ExecContext(ctx,
		`INSERT INTO edit (id, kind, districts, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), strings.Join(e.Districts, ","), string(raw), e.CreatedAt.UnixNano())
	if err != nil {
		return Entry{}, fmt.Errorf("record %s: %w", kind, err)
	}
	return e, nil
}

// Recent returns up to n entries, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, kind, districts, payload, created_at FROM edit ORDER BY created_at DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e         Entry
			kind      string
			districts string
			payload   string
			created   int64
		)
		if err := rows.Scan(&e.ID, &kind, &districts, &payload, &created); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		e.Kind = Kind(kind)
		if districts != "" {
			e.Districts = strings.Split(districts, ",")
		}
		e.Payload = json.RawMessage(payload)
		e.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
