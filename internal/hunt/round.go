package hunt

import (
	"context"
	"strings"

	"github.com/hpungsan/huntbot/internal/errors"
)

// RoundInput contains parameters for the Round operation.
type RoundInput struct {
	Name string
}

// RoundOutput contains the result of the Round operation.
type RoundOutput struct {
	Name       string `json:"name"`
	CategoryID string `json:"category_id"`
}

// Round creates a new round: a category with the given name, registered in
// the round index and set as the current round for subsequent adds. A name
// whose normalized key collides with an existing round is rejected rather
// than silently shadowing it.
func (o *Orchestrator) Round(ctx context.Context, input RoundInput) (*RoundOutput, error) {
	if o.rounds == nil {
		return nil, errors.NewValidation("rounds are not enabled for this hunt")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.NewValidation("round name is empty")
	}

	if err := o.rounds.Register(name); err != nil {
		return nil, err
	}

	snap, err := o.dir.Snapshot(ctx)
	if err != nil {
		return nil, errors.NewExternal("list channels", err)
	}
	cat, err := o.ensureCategory(ctx, snap, name)
	if err != nil {
		return nil, err
	}

	o.currentRound = name
	o.log.Info("round created", "name", name, "category", cat.ID)
	return &RoundOutput{Name: name, CategoryID: cat.ID}, nil
}
