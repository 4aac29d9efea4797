package hunt

import (
	"context"
	"fmt"
	"strings"

	"github.com/hpungsan/huntbot/internal/directory"
	"github.com/hpungsan/huntbot/internal/errors"
	"github.com/hpungsan/huntbot/internal/voice"
)

// SolveInput contains parameters for the Solve operation. The operation is
// invoked from inside the puzzle's own text channel.
type SolveInput struct {
	ChannelID string
}

// SolveOutput contains the result of the Solve operation.
type SolveOutput struct {
	Title          string `json:"title"`
	SolvedCategory string `json:"solved_category"`
	VoiceRemoved   bool   `json:"voice_removed"`
	VoiceDeferred  bool   `json:"voice_deferred"`
	PartySize      *int   `json:"party_size,omitempty"`
}

// Solve marks the invoking channel's puzzle as solved: the spreadsheet moves
// to the Solved folder, the text channel moves to the first solved category
// with room, and the voice room is removed if empty or queued for deferred
// removal if occupied. An occupied voice room never fails the solve.
func (o *Orchestrator) Solve(ctx context.Context, input SolveInput) (*SolveOutput, error) {
	snap, err := o.dir.Snapshot(ctx)
	if err != nil {
		return nil, errors.NewExternal("list channels", err)
	}

	ch, ok := snap.TextChannelByID(input.ChannelID)
	if !ok {
		return nil, errors.NewConflict("this channel is not associated with a puzzle")
	}
	title := strings.TrimSpace(ch.Topic)
	if title == "" {
		return nil, errors.NewConflict("this channel is not associated with a puzzle")
	}
	if o.isSolvedCategory(snap, ch.CategoryID) {
		return nil, errors.NewConflict("puzzle already solved")
	}
	if cat, ok := snap.CategoryByID(ch.CategoryID); !ok || directory.NameHasPrefix(cat.Name, o.opts.ArchivePrefix) {
		return nil, errors.NewConflict("this channel is not associated with a puzzle")
	}

	unlock := o.locks.lock(title)
	defer unlock()

	target, err := o.solvedTarget(ctx, snap)
	if err != nil {
		return nil, err
	}

	if err := o.docs.MoveToSolved(ctx, title); err != nil {
		return nil, errors.NewExternal("move spreadsheet to solved", err)
	}
	if err := o.dir.MoveChannel(ctx, ch.ID, target.ID); err != nil {
		return nil, errors.NewExternal("move text channel", err)
	}

	out := &SolveOutput{Title: title, SolvedCategory: target.Name}

	outcome, err := o.voice.RemoveIfEmpty(ctx, title)
	if err != nil {
		return nil, err
	}
	switch outcome {
	case voice.RemoveDone:
		out.VoiceRemoved = true
	case voice.RemoveBusy:
		o.voice.DeferRemove(title)
		out.VoiceDeferred = true
	}

	if o.counter != nil {
		size, err := o.recount(ctx, fmt.Sprintf("Solved puzzle %s.", title))
		if err != nil {
			// The solve itself succeeded; a failed badge update is logged
			// and left for the next recount.
			o.log.Warn("party recount after solve failed", "title", title, "err", err)
		} else {
			out.PartySize = &size
		}
	}

	o.log.Info("puzzle solved", "title", title, "category", target.Name,
		"voice_removed", out.VoiceRemoved, "voice_deferred", out.VoiceDeferred)
	return out, nil
}
