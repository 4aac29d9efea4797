package hunt

import (
	"context"
	"sort"
	"strings"

	"github.com/hpungsan/huntbot/internal/directory"
	"github.com/hpungsan/huntbot/internal/errors"
)

// BoardPuzzle is one puzzle row on the status board.
type BoardPuzzle struct {
	Title    string `json:"title"`
	Solved   bool   `json:"solved"`
	HasVoice bool   `json:"has_voice"`
}

// BoardGroup is one category worth of puzzles.
type BoardGroup struct {
	Category string        `json:"category"`
	Solved   bool          `json:"solved"`
	Puzzles  []BoardPuzzle `json:"puzzles"`
}

// BoardOutput is the read-only status listing consumed by the web dashboard
// and the MCP host. Like everything else, it is derived from the live guild
// on each call.
type BoardOutput struct {
	Groups       []BoardGroup `json:"groups"`
	ActiveCount  int          `json:"active_count"`
	SolvedCount  int          `json:"solved_count"`
	PendingVoice []string     `json:"pending_voice,omitempty"`
	CurrentRound string       `json:"current_round,omitempty"`
	PartySize    *int         `json:"party_size,omitempty"`
}

// Board lists every puzzle grouped by category. A text channel counts as a
// puzzle when it has a non-empty topic and sits in a non-archive category.
func (o *Orchestrator) Board(ctx context.Context) (*BoardOutput, error) {
	snap, err := o.dir.Snapshot(ctx)
	if err != nil {
		return nil, errors.NewExternal("list channels", err)
	}

	out := &BoardOutput{CurrentRound: o.currentRound}

	groups := make(map[string]*BoardGroup)
	var order []string
	for _, ch := range snap.TextChannels {
		title := strings.TrimSpace(ch.Topic)
		if title == "" {
			continue
		}
		cat, ok := snap.CategoryByID(ch.CategoryID)
		if !ok || directory.NameHasPrefix(cat.Name, o.opts.ArchivePrefix) {
			continue
		}

		g, ok := groups[cat.Name]
		if !ok {
			g = &BoardGroup{
				Category: cat.Name,
				Solved:   directory.NameHasPrefix(cat.Name, o.opts.SolvedPrefix),
			}
			groups[cat.Name] = g
			order = append(order, cat.Name)
		}

		_, hasVoice := snap.VoiceChannelByName(title)
		g.Puzzles = append(g.Puzzles, BoardPuzzle{
			Title:    title,
			Solved:   g.Solved,
			HasVoice: hasVoice,
		})
		if g.Solved {
			out.SolvedCount++
		} else {
			out.ActiveCount++
		}
	}

	sort.Strings(order)
	for _, name := range order {
		g := groups[name]
		sort.Slice(g.Puzzles, func(i, j int) bool { return g.Puzzles[i].Title < g.Puzzles[j].Title })
		out.Groups = append(out.Groups, *g)
	}

	pending := o.voice.PendingRemovals()
	sort.Strings(pending)
	out.PendingVoice = pending

	if o.counter != nil {
		size := o.counter.Size(snap)
		out.PartySize = &size
	}
	return out, nil
}
