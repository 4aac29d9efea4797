package web

import (
	"html/template"
	"net/http"

	"github.com/hpungsan/huntbot/internal/hunt"
)

// Handlers holds dependencies for the dashboard pages.
type Handlers struct {
	orc      *hunt.Orchestrator
	renderer *Renderer
	helpHTML template.HTML
}

// HandleBoard renders the puzzle board: every puzzle grouped by category,
// with solved status and voice room presence.
func (h *Handlers) HandleBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.orc.Board(r.Context())
	if err != nil {
		h.renderer.renderError(w, err)
		return
	}

	h.renderer.renderPage(w, http.StatusOK, "board", BoardPageData{
		PageData: PageData{Title: "Puzzle Board", Version: h.renderer.version, Nav: "board"},
		Board:    board,
	})
}

// HandleHelp renders the command reference.
func (h *Handlers) HandleHelp(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, http.StatusOK, "help", HelpPageData{
		PageData: PageData{Title: "Help", Version: h.renderer.version, Nav: "help"},
		HelpHTML: h.helpHTML,
	})
}
