package hunt

import (
	"context"
	"fmt"
	"testing"

	"github.com/hpungsan/huntbot/internal/errors"
)

func TestRecount(t *testing.T) {
	ctx := context.Background()
	f := newPartyFixture(t, 10)

	snap := f.snapshot(t)
	puzzles, _ := snap.CategoryByName("Puzzles")
	solved, _ := snap.CategoryByName("Solved")
	badge, _ := f.mem.CreateTextChannel(ctx, "party-of-10", "", puzzles.ID)
	for i := 0; i < 3; i++ {
		f.mem.CreateTextChannel(ctx, fmt.Sprintf("done-%d", i), fmt.Sprintf("Done %d", i), solved.ID)
	}

	out, err := f.orc.Recount(ctx)
	if err != nil {
		t.Fatalf("Recount failed: %v", err)
	}
	if out.PartySize != 7 || out.SolvedCount != 3 {
		t.Errorf("Recount = %+v, want size 7 solved 3", out)
	}

	snap = f.snapshot(t)
	ch, _ := snap.TextChannelByID(badge.ID)
	if ch.Name != "party-of-7" {
		t.Errorf("badge = %q, want party-of-7", ch.Name)
	}
	// Recount is silent: no announcement.
	if len(f.mem.Sent[badge.ID]) != 0 {
		t.Error("Recount should not announce")
	}
}

func TestRecount_NegativeSizeUsesMinus(t *testing.T) {
	ctx := context.Background()
	f := newPartyFixture(t, 1)

	snap := f.snapshot(t)
	puzzles, _ := snap.CategoryByName("Puzzles")
	solved, _ := snap.CategoryByName("Solved")
	badge, _ := f.mem.CreateTextChannel(ctx, "party-of-1", "", puzzles.ID)
	for i := 0; i < 3; i++ {
		f.mem.CreateTextChannel(ctx, fmt.Sprintf("done-%d", i), fmt.Sprintf("Done %d", i), solved.ID)
	}

	out, err := f.orc.Recount(ctx)
	if err != nil {
		t.Fatalf("Recount failed: %v", err)
	}
	if out.PartySize != -2 {
		t.Errorf("PartySize = %d, want -2", out.PartySize)
	}

	snap = f.snapshot(t)
	ch, _ := snap.TextChannelByID(badge.ID)
	if ch.Name != "party-of-minus-2" {
		t.Errorf("badge = %q, want party-of-minus-2", ch.Name)
	}
}

func TestRecount_CounterDisabled(t *testing.T) {
	f := newFixture(t, Options{})

	_, err := f.orc.Recount(context.Background())
	if !errors.Is(err, errors.ErrValidation) {
		t.Fatalf("Recount error = %v, want VALIDATION", err)
	}
}

func TestRecount_MissingBadgeChannel(t *testing.T) {
	f := newPartyFixture(t, 10)

	// No party-of channel exists; recount still reports the size.
	out, err := f.orc.Recount(context.Background())
	if err != nil {
		t.Fatalf("Recount failed: %v", err)
	}
	if out.PartySize != 10 {
		t.Errorf("PartySize = %d, want 10", out.PartySize)
	}
}
