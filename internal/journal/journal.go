// Package journal records allergen changes made during a session.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// MemoryDSN keeps the journal for the lifetime of the process only.
const MemoryDSN = "file::memory:"

// Op is a kind of change.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// Entry is one recorded change.
type Entry struct {
	ID        string    `json:"id"`
	Seq       int       `json:"seq"`
	Profile   string    `json:"profile"`
	Op        Op        `json:"op"`
	Mask      uint32    `json:"mask"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}

// Journal stores entries in SQLite.
type Journal struct {
	db      *sql.DB
	entropy *rand.Rand
}

// Open opens or creates a journal at dsn.
func Open(ctx context.Context, dsn string) (*Journal, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// every connection to an in-memory database is a new database
	db.SetMaxOpenConns(1)

	j := &Journal{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := j.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return j, nil
}

func (j *Journal) newID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), j.entropy).String()
}

func (j *Journal) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS changes (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		profile    TEXT NOT NULL,
		op         TEXT NOT NULL,
		mask       INTEGER NOT NULL,
		result     TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_changes_profile ON changes(profile, seq);
	`
	_, err := j.db.ExecContext(ctx, schema)
	return err
}

// Record stores e, filling in its ID, sequence number and timestamp.
func (j *Journal) Record(ctx context.Context, e Entry) (*Entry, error) {
	now := time.Now().UTC()
	e.ID = j.newID(now)
	e.CreatedAt = now.Truncate(time.Second)

	res, err := j.db.ExecContext(ctx,
		`INSERT INTO changes (id, profile, op, mask, result, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Profile, string(e.Op), int64(e.Mask), e.Result, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert change: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("change seq: %w", err)
	}
	e.Seq = int(seq)
	return &e, nil
}

// List returns entries in recording order. An empty profile lists all of them.
func (j *Journal) List(ctx context.Context, profile string) ([]Entry, error) {
	query := `SELECT seq, id, profile, op, mask, result, created_at FROM changes`
	var args []interface{}
	if profile != "" {
		query += ` WHERE profile = ?`
		args = append(args, profile)
	}
	query += ` ORDER BY seq`

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			op        string
			mask      int64
			createdAt string
		)
		if err := rows.Scan(&e.Seq, &e.ID, &e.Profile, &op, &mask, &e.Result, &createdAt); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		e.Op = Op(op)
		e.Mask = uint32(mask)
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the journal.
func (j *Journal) Close() error {
	return j.db.Close()
}
