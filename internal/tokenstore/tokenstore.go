// Package tokenstore persists document-store OAuth tokens as opaque blobs.
// The rest of the system owns no durable state; this is the one thing that
// must survive a restart so the bot does not demand re-authentication on
// every deploy.
package tokenstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	_ "modernc.org/sqlite"
)

// ErrNoToken is returned when no token has been stored yet.
var ErrNoToken = errors.New("tokenstore: no token stored")

// Store persists one OAuth token blob per provider name.
type Store struct {
	db *sql.DB
}

// Open initializes the SQLite database at baseDir/huntbot.db. The baseDir
// parameter allows tests to use t.TempDir() instead of ~/.huntbot.
func Open(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	dbPath := filepath.Join(baseDir, "huntbot.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS oauth_tokens (
	  provider   TEXT PRIMARY KEY,
	  blob       TEXT NOT NULL,
	  updated_at INTEGER NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	// Token blobs are credentials; keep the file private (best-effort).
	_ = os.Chmod(dbPath, 0600)

	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the token blob for a provider.
func (s *Store) Save(ctx context.Context, provider string, tok *oauth2.Token) error {
	blob, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO oauth_tokens (provider, blob, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(provider) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at`,
		provider, string(blob), time.Now().Unix())
	return err
}

// Load returns the stored token for a provider, or ErrNoToken.
func (s *Store) Load(ctx context.Context, provider string) (*oauth2.Token, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT blob FROM oauth_tokens WHERE provider = ?`, provider).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, err
	}

	tok := &oauth2.Token{}
	if err := json.Unmarshal([]byte(blob), tok); err != nil {
		return nil, fmt.Errorf("unmarshal token: %w", err)
	}
	return tok, nil
}
