package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hpungsan/huntbot/internal/directory"
	"github.com/hpungsan/huntbot/internal/hunt"
	"github.com/hpungsan/huntbot/internal/voice"
)

type stubDocs struct{}

func (stubDocs) FindOrCreateSpreadsheet(_ context.Context, title string) (string, error) {
	return "https://sheets.example/" + title, nil
}
func (stubDocs) MoveToSolved(context.Context, string) error { return nil }
func (stubDocs) Trash(context.Context, string) error        { return nil }

func testServer(t *testing.T) (http.Handler, *hunt.Orchestrator) {
	t.Helper()
	mem := directory.NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	vm := voice.NewManager(mem, "Puzzle Voice Channels", log)
	orc := hunt.New(mem, stubDocs{}, vm, nil, mem, hunt.Options{}, log)
	if err := orc.EnsureReady(context.Background()); err != nil {
		t.Fatalf("EnsureReady: %v", err)
	}
	srv := NewServer(orc, "test", "127.0.0.1", 0)
	return srv.Handler, orc
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRootRedirectsToBoard(t *testing.T) {
	handler, _ := testServer(t)
	rec := get(t, handler, "/")
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/board" {
		t.Errorf("Location = %q, want /board", loc)
	}
}

func TestBoardListsPuzzles(t *testing.T) {
	handler, orc := testServer(t)

	if _, err := orc.Add(context.Background(), hunt.AddInput{Title: "Cryptic Climb"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	rec := get(t, handler, "/board")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Cryptic Climb") {
		t.Errorf("board missing puzzle title:\n%s", body)
	}
	if !strings.Contains(body, "1 open") {
		t.Errorf("board missing open count:\n%s", body)
	}
}

func TestBoardSecurityHeaders(t *testing.T) {
	handler, _ := testServer(t)
	rec := get(t, handler, "/board")

	for _, header := range []string{"Content-Security-Policy", "X-Content-Type-Options", "X-Frame-Options"} {
		if rec.Header().Get(header) == "" {
			t.Errorf("missing %s header", header)
		}
	}
}

func TestHelpPage(t *testing.T) {
	handler, _ := testServer(t)
	rec := get(t, handler, "/help")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/puzzle") {
		t.Error("help page missing command reference")
	}
}

func TestStaticStylesheet(t *testing.T) {
	handler, _ := testServer(t)
	rec := get(t, handler, "/static/style.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
