package hunt

import (
	"context"
	"fmt"

	"github.com/hpungsan/huntbot/internal/errors"
)

// RecountOutput contains the result of the Recount operation.
type RecountOutput struct {
	PartySize   int `json:"party_size"`
	SolvedCount int `json:"solved_count"`
}

// Recount recomputes the party size from the live category listing and
// renames the badge channel to match. Used when the badge drifts out of
// sync; the same path runs silently after every solve.
func (o *Orchestrator) Recount(ctx context.Context) (*RecountOutput, error) {
	if o.counter == nil {
		return nil, errors.NewValidation("the party counter is not enabled for this hunt")
	}

	size, err := o.recount(ctx, "")
	if err != nil {
		return nil, err
	}

	snap, err := o.dir.Snapshot(ctx)
	if err != nil {
		return nil, errors.NewExternal("list channels", err)
	}
	return &RecountOutput{
		PartySize:   size,
		SolvedCount: o.counter.SolvedCount(snap),
	}, nil
}

// recount renames the badge channel to the current party size and, when
// announce is non-empty, posts it with the new size to the badge channel.
// Returns the computed size.
func (o *Orchestrator) recount(ctx context.Context, announce string) (int, error) {
	snap, err := o.dir.Snapshot(ctx)
	if err != nil {
		return 0, errors.NewExternal("list channels", err)
	}

	size := o.counter.Size(snap)
	ch, ok := o.counter.Channel(snap)
	if !ok {
		o.log.Warn("party badge channel not found", "size", size)
		return size, nil
	}

	if want := o.counter.ChannelName(size); ch.Name != want {
		if err := o.dir.RenameChannel(ctx, ch.ID, want); err != nil {
			return size, errors.NewExternal("rename party channel", err)
		}
	}
	if announce != "" {
		body := fmt.Sprintf("%s\nWe're now a party of %d.", announce, size)
		if err := o.msg.Send(ctx, ch.ID, body); err != nil {
			return size, errors.NewExternal("announce party size", err)
		}
	}
	return size, nil
}
