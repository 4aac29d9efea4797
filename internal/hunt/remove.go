package hunt

import (
	"context"

	"github.com/hpungsan/huntbot/internal/errors"
	"github.com/hpungsan/huntbot/internal/naming"
	"github.com/hpungsan/huntbot/internal/voice"
)

// RemoveInput contains parameters for the privileged Remove operation.
type RemoveInput struct {
	Title string
}

// RemoveOutput contains the result of the Remove operation. Each field
// reports what was actually found and acted on; removing a puzzle that is
// already partially or wholly gone is a no-op, not an error.
type RemoveOutput struct {
	Title          string `json:"title"`
	ChannelDeleted bool   `json:"channel_deleted"`
	VoiceRemoved   bool   `json:"voice_removed"`
	VoiceBusy      bool   `json:"voice_busy"`
}

// Remove tears the puzzle's bundle down: voice room (best effort — an
// occupied room is reported, not deleted and not deferred), text channel,
// and every matching spreadsheet in both folders (trashed, never
// hard-deleted).
func (o *Orchestrator) Remove(ctx context.Context, input RemoveInput) (*RemoveOutput, error) {
	title, err := naming.SanitizeTitle(input.Title)
	if err != nil {
		return nil, err
	}

	unlock := o.locks.lock(title)
	defer unlock()

	out := &RemoveOutput{Title: title}

	outcome, err := o.voice.RemoveIfEmpty(ctx, title)
	if err != nil {
		return nil, err
	}
	switch outcome {
	case voice.RemoveDone:
		out.VoiceRemoved = true
	case voice.RemoveBusy:
		out.VoiceBusy = true
	}

	snap, err := o.dir.Snapshot(ctx)
	if err != nil {
		return nil, errors.NewExternal("list channels", err)
	}
	if ch, ok := snap.TextChannelByTopic(title); ok {
		if err := o.dir.DeleteChannel(ctx, ch.ID); err != nil {
			return nil, errors.NewExternal("delete text channel", err)
		}
		out.ChannelDeleted = true
	}

	if err := o.docs.Trash(ctx, title); err != nil {
		return nil, errors.NewExternal("trash spreadsheets", err)
	}

	o.log.Info("puzzle removed", "title", title,
		"channel_deleted", out.ChannelDeleted, "voice_busy", out.VoiceBusy)
	return out, nil
}
