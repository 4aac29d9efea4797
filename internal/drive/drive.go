// Package drive adapts the Google Drive API to the document-store surface
// the orchestrator needs: find-or-create a spreadsheet by title, move it to
// the Solved folder, and trash it. Spreadsheets are never hard-deleted.
//
// The adapter owns no state beyond the resolved folder ids and the OAuth
// token refresh cycle; refreshed tokens are persisted through a TokenStore
// so a restart does not force re-authentication.
package drive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	mimeFolder      = "application/vnd.google-apps.folder"
	mimeSpreadsheet = "application/vnd.google-apps.spreadsheet"

	tokenProvider = "drive"
)

// TokenStore persists OAuth tokens between runs.
type TokenStore interface {
	Load(ctx context.Context, provider string) (*oauth2.Token, error)
	Save(ctx context.Context, provider string, tok *oauth2.Token) error
}

// filesAPI is the narrow slice of the Drive files surface the store uses;
// tests substitute an in-memory implementation.
type filesAPI interface {
	list(ctx context.Context, query string) ([]*drive.File, error)
	create(ctx context.Context, file *drive.File) (*drive.File, error)
	update(ctx context.Context, id string, file *drive.File, addParents, removeParents string) error
}

// Store is the document-store adapter.
type Store struct {
	files    filesAPI
	rootID   string
	solvedID string
	log      *slog.Logger
}

// Open connects to Google Drive with stored credentials and resolves the
// root and Solved folders. A missing root folder is fatal: the adapter has
// no destination to create spreadsheets in. A missing Solved folder is
// created under the root.
func Open(ctx context.Context, rootFolder, clientSecretsPath string, tokens TokenStore, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	oaCfg, err := oauthConfig(clientSecretsPath)
	if err != nil {
		return nil, err
	}

	tok, err := tokens.Load(ctx, tokenProvider)
	if err != nil {
		return nil, fmt.Errorf("load drive credentials (run 'huntbot auth' first): %w", err)
	}

	src := &savingSource{
		src:    oaCfg.TokenSource(ctx, tok),
		tokens: tokens,
		last:   tok.AccessToken,
		log:    log,
	}
	svc, err := drive.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return newStore(ctx, &googleFiles{svc: svc}, rootFolder, log)
}

// newStore resolves folder ids through the files surface. Split from Open
// so tests can inject a fake.
func newStore(ctx context.Context, files filesAPI, rootFolder string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{files: files, log: log}

	matches, err := files.list(ctx, fmt.Sprintf(
		"mimeType = '%s' and name = '%s' and trashed = false", mimeFolder, escapeQuery(rootFolder)))
	if err != nil {
		return nil, fmt.Errorf("look up root folder: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("root folder %q not found in Google Drive; check the configured folder name", rootFolder)
	}
	s.rootID = matches[0].Id

	s.solvedID, err = s.getOrCreateFolder(ctx, "Solved", s.rootID)
	if err != nil {
		return nil, fmt.Errorf("resolve solved folder: %w", err)
	}

	log.Info("drive ready", "root_folder", rootFolder)
	return s, nil
}

// FindOrCreateSpreadsheet returns the link of the spreadsheet titled title
// in the root folder, creating it if absent. Safe to call twice with the
// same title: the search runs before the create. Multiple existing matches
// are tolerated, not deduplicated; the first wins.
func (s *Store) FindOrCreateSpreadsheet(ctx context.Context, title string) (string, error) {
	matches, err := s.files.list(ctx, s.spreadsheetQuery(title, s.rootID))
	if err != nil {
		return "", err
	}
	if len(matches) > 0 {
		return matches[0].WebViewLink, nil
	}

	created, err := s.files.create(ctx, &drive.File{
		Name:     title,
		MimeType: mimeSpreadsheet,
		Parents:  []string{s.rootID},
	})
	if err != nil {
		return "", err
	}
	s.log.Info("spreadsheet created", "title", title)
	return created.WebViewLink, nil
}

// MoveToSolved re-parents every non-trashed spreadsheet matching title from
// the root folder to the Solved folder. Operating on all matches keeps the
// move idempotent against earlier duplicate-creation anomalies.
func (s *Store) MoveToSolved(ctx context.Context, title string) error {
	matches, err := s.files.list(ctx, s.spreadsheetQuery(title, s.rootID))
	if err != nil {
		return err
	}
	for _, f := range matches {
		if err := s.files.update(ctx, f.Id, &drive.File{}, s.solvedID, s.rootID); err != nil {
			return err
		}
	}
	return nil
}

// Trash marks every spreadsheet matching title, in the root or Solved
// folder, as trashed.
func (s *Store) Trash(ctx context.Context, title string) error {
	for _, folder := range []string{s.rootID, s.solvedID} {
		matches, err := s.files.list(ctx, s.spreadsheetQuery(title, folder))
		if err != nil {
			return err
		}
		for _, f := range matches {
			if err := s.files.update(ctx, f.Id, &drive.File{Trashed: true}, "", ""); err != nil {
				return err
			}
		}
	}
	return nil
}

// getOrCreateFolder is an idempotent folder lookup/creation under parent.
func (s *Store) getOrCreateFolder(ctx context.Context, name, parentID string) (string, error) {
	matches, err := s.files.list(ctx, fmt.Sprintf(
		"mimeType = '%s' and name = '%s' and '%s' in parents and trashed = false",
		mimeFolder, escapeQuery(name), parentID))
	if err != nil {
		return "", err
	}
	if len(matches) > 0 {
		return matches[0].Id, nil
	}

	created, err := s.files.create(ctx, &drive.File{
		Name:     name,
		MimeType: mimeFolder,
		Parents:  []string{parentID},
	})
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

func (s *Store) spreadsheetQuery(title, folderID string) string {
	return fmt.Sprintf("mimeType = '%s' and name = '%s' and '%s' in parents and trashed = false",
		mimeSpreadsheet, escapeQuery(title), folderID)
}

// escapeQuery escapes a string literal for a Drive query. Sanitized titles
// cannot carry quotes, but folder names come straight from configuration.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// savingSource wraps a TokenSource and persists every refreshed token, so
// the refresh cycle survives restarts.
type savingSource struct {
	src    oauth2.TokenSource
	tokens TokenStore
	last   string // last persisted access token
	log    *slog.Logger
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		if err := s.tokens.Save(context.Background(), tokenProvider, tok); err != nil {
			s.log.Warn("persist refreshed drive token failed", "err", err)
		} else {
			s.last = tok.AccessToken
		}
	}
	return tok, nil
}

// googleFiles implements filesAPI over the real Drive service.
type googleFiles struct {
	svc *drive.Service
}

func (g *googleFiles) list(ctx context.Context, query string) ([]*drive.File, error) {
	res, err := g.svc.Files.List().
		Q(query).
		Fields("files(id, name, webViewLink, parents)").
		PageSize(100).
		Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return res.Files, nil
}

func (g *googleFiles) create(ctx context.Context, file *drive.File) (*drive.File, error) {
	return g.svc.Files.Create(file).
		Fields("id, name, webViewLink").
		Context(ctx).Do()
}

func (g *googleFiles) update(ctx context.Context, id string, file *drive.File, addParents, removeParents string) error {
	call := g.svc.Files.Update(id, file)
	if addParents != "" {
		call = call.AddParents(addParents)
	}
	if removeParents != "" {
		call = call.RemoveParents(removeParents)
	}
	_, err := call.Context(ctx).Do()
	return err
}

// oauthConfig reads the OAuth client credentials file.
func oauthConfig(clientSecretsPath string) (*oauth2.Config, error) {
	data, err := os.ReadFile(clientSecretsPath)
	if err != nil {
		return nil, fmt.Errorf("read client secrets: %w", err)
	}
	cfg, err := google.ConfigFromJSON(data, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}
	return cfg, nil
}
