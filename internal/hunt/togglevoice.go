package hunt

import (
	"context"
	"strings"

	"github.com/hpungsan/huntbot/internal/errors"
	"github.com/hpungsan/huntbot/internal/voice"
)

// ToggleVoiceInput contains parameters for the ToggleVoice operation.
type ToggleVoiceInput struct {
	ChannelID string
}

// ToggleVoiceOutput contains the result of the ToggleVoice operation.
type ToggleVoiceOutput struct {
	Title  string             `json:"title"`
	Result voice.ToggleResult `json:"-"`
	Action string             `json:"action"`
}

// ToggleVoice creates or removes the puzzle's voice room. It is valid only
// from within the puzzle's own text channel (active or solved); the topic
// identifies the puzzle. An occupied room is retained and reported, never
// deleted.
func (o *Orchestrator) ToggleVoice(ctx context.Context, input ToggleVoiceInput) (*ToggleVoiceOutput, error) {
	snap, err := o.dir.Snapshot(ctx)
	if err != nil {
		return nil, errors.NewExternal("list channels", err)
	}

	ch, ok := snap.TextChannelByID(input.ChannelID)
	if !ok || strings.TrimSpace(ch.Topic) == "" {
		return nil, errors.NewConflict("a voice channel can only be toggled from a puzzle's text channel")
	}
	title := strings.TrimSpace(ch.Topic)

	unlock := o.locks.lock(title)
	defer unlock()

	res, err := o.voice.Toggle(ctx, title)
	if err != nil {
		return nil, err
	}

	o.log.Info("voice toggled", "title", title, "result", res.String())
	return &ToggleVoiceOutput{Title: title, Result: res, Action: res.String()}, nil
}
