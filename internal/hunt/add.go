package hunt

import (
	"context"

	"github.com/hpungsan/huntbot/internal/errors"
	"github.com/hpungsan/huntbot/internal/naming"
)

// AddInput contains parameters for the Add operation.
type AddInput struct {
	Title string // raw user-supplied title; sanitized before use
	Round string // optional round prefix, only meaningful with rounds enabled
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	Title          string `json:"title"`
	ChannelID      string `json:"channel_id"`
	SpreadsheetURL string `json:"spreadsheet_url"`
	Round          string `json:"round,omitempty"` // resolved round, or the default category
}

// Add creates the puzzle's resource bundle: a spreadsheet, a text channel
// with the title as topic, a pinned link message, and a paired voice room.
//
// Everything that can be validated is validated before the first external
// write: title sanitation, round resolution, and the duplicate check all run
// up front, so a rejected add touches nothing. A second add with the same
// title finds the existing text channel by topic and reports a conflict
// instead of creating a second bundle.
func (o *Orchestrator) Add(ctx context.Context, input AddInput) (*AddOutput, error) {
	title, err := naming.SanitizeTitle(input.Title)
	if err != nil {
		return nil, err
	}

	unlock := o.locks.lock(title)
	defer unlock()

	snap, err := o.dir.Snapshot(ctx)
	if err != nil {
		return nil, errors.NewExternal("list channels", err)
	}

	// Resolve the target category before any side effect.
	targetName := o.opts.PuzzlesCategory
	if o.rounds != nil {
		switch {
		case input.Round != "":
			targetName, err = o.rounds.Match(input.Round)
			if err != nil {
				return nil, err
			}
		case o.currentRound != "":
			targetName = o.currentRound
		default:
			return nil, errors.NewValidation("no active round; name one or create it first")
		}
	}

	if existing, ok := snap.TextChannelByTopic(title); ok {
		o.log.Info("add rejected, puzzle exists", "title", title, "channel", existing.ID)
		return nil, errors.NewConflict("there is already a puzzle called " + title)
	}

	link, err := o.docs.FindOrCreateSpreadsheet(ctx, title)
	if err != nil {
		return nil, errors.NewExternal("find or create spreadsheet", err)
	}

	cat, err := o.ensureCategory(ctx, snap, targetName)
	if err != nil {
		return nil, err
	}

	channel, err := o.dir.CreateTextChannel(ctx, title, title, cat.ID)
	if err != nil {
		// The spreadsheet already exists at this point; it is left in place
		// as evidence of partial progress rather than speculatively removed.
		return nil, errors.NewExternal("create text channel", err)
	}

	if err := o.msg.PostPinned(ctx, channel.ID, "Spreadsheet for this puzzle: "+link); err != nil {
		return nil, errors.NewExternal("pin spreadsheet link", err)
	}

	if err := o.voice.Create(ctx, title); err != nil {
		return nil, err
	}

	if o.rounds != nil {
		o.currentRound = targetName
	}

	o.log.Info("puzzle added", "title", title, "round", targetName, "channel", channel.ID)
	return &AddOutput{
		Title:          title,
		ChannelID:      channel.ID,
		SpreadsheetURL: link,
		Round:          targetName,
	}, nil
}
