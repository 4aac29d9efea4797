package hunt

import (
	"context"
	"fmt"
	"testing"

	"github.com/hpungsan/huntbot/internal/errors"
)

// addPuzzle adds a puzzle and returns its text channel id.
func addPuzzle(t *testing.T, f *fixture, title string) string {
	t.Helper()
	out, err := f.orc.Add(context.Background(), AddInput{Title: title})
	if err != nil {
		t.Fatalf("Add(%s) failed: %v", title, err)
	}
	return out.ChannelID
}

func TestSolve_MovesEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	chID := addPuzzle(t, f, "Crossword")

	out, err := f.orc.Solve(ctx, SolveInput{ChannelID: chID})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if out.Title != "Crossword" {
		t.Errorf("Title = %q", out.Title)
	}
	if out.SolvedCategory != "Solved" {
		t.Errorf("SolvedCategory = %q", out.SolvedCategory)
	}
	if !out.VoiceRemoved || out.VoiceDeferred {
		t.Errorf("voice: removed=%v deferred=%v, want removed", out.VoiceRemoved, out.VoiceDeferred)
	}

	snap := f.snapshot(t)
	ch, _ := snap.TextChannelByTopic("Crossword")
	cat, _ := snap.CategoryByID(ch.CategoryID)
	if cat.Name != "Solved" {
		t.Errorf("channel now in %q, want Solved", cat.Name)
	}
	if _, ok := snap.VoiceChannelByName("Crossword"); ok {
		t.Error("empty voice channel survived the solve")
	}
	if got := f.docs.folderOf("Crossword"); got != "solved" {
		t.Errorf("spreadsheet folder = %q, want solved", got)
	}
}

func TestSolve_AlreadySolved(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	chID := addPuzzle(t, f, "Crossword")

	if _, err := f.orc.Solve(ctx, SolveInput{ChannelID: chID}); err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	_, err := f.orc.Solve(ctx, SolveInput{ChannelID: chID})
	if !errors.Is(err, errors.ErrConflict) {
		t.Fatalf("second Solve error = %v, want CONFLICT", err)
	}
}

func TestSolve_NotAPuzzleChannel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})

	// A channel without a topic is not a puzzle.
	snap := f.snapshot(t)
	puzzles, _ := snap.CategoryByName("Puzzles")
	plain, _ := f.mem.CreateTextChannel(ctx, "chit-chat", "", puzzles.ID)

	_, err := f.orc.Solve(ctx, SolveInput{ChannelID: plain.ID})
	if !errors.Is(err, errors.ErrConflict) {
		t.Fatalf("Solve error = %v, want CONFLICT", err)
	}

	// Unknown channel ids are not puzzles either.
	_, err = f.orc.Solve(ctx, SolveInput{ChannelID: "nope"})
	if !errors.Is(err, errors.ErrConflict) {
		t.Fatalf("Solve error = %v, want CONFLICT", err)
	}
}

func TestSolve_CapacityCeiling(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	chID := addPuzzle(t, f, "Crossword")

	snap := f.snapshot(t)
	solved, _ := snap.CategoryByName("Solved")
	for i := 0; i < 50; i++ {
		f.mem.CreateTextChannel(ctx, fmt.Sprintf("done-%d", i), fmt.Sprintf("Done %d", i), solved.ID)
	}

	_, err := f.orc.Solve(ctx, SolveInput{ChannelID: chID})
	if !errors.Is(err, errors.ErrCapacity) {
		t.Fatalf("Solve error = %v, want CAPACITY", err)
	}

	// Nothing moved.
	snap = f.snapshot(t)
	ch, _ := snap.TextChannelByTopic("Crossword")
	cat, _ := snap.CategoryByID(ch.CategoryID)
	if cat.Name != "Puzzles" {
		t.Errorf("channel in %q after capacity error, want Puzzles", cat.Name)
	}
	if got := f.docs.folderOf("Crossword"); got != "root" {
		t.Errorf("spreadsheet folder = %q after capacity error, want root", got)
	}
}

func TestSolve_FitsExactlyAtCeiling(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	chID := addPuzzle(t, f, "Crossword")

	// 49 existing channels: the 50th fits, only the 51st is blocked.
	snap := f.snapshot(t)
	solved, _ := snap.CategoryByName("Solved")
	for i := 0; i < 49; i++ {
		f.mem.CreateTextChannel(ctx, fmt.Sprintf("done-%d", i), fmt.Sprintf("Done %d", i), solved.ID)
	}

	if _, err := f.orc.Solve(ctx, SolveInput{ChannelID: chID}); err != nil {
		t.Fatalf("Solve at 49/50 failed: %v", err)
	}
}

func TestSolve_UsesOverflowCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	chID := addPuzzle(t, f, "Crossword")

	snap := f.snapshot(t)
	solved, _ := snap.CategoryByName("Solved")
	for i := 0; i < 50; i++ {
		f.mem.CreateTextChannel(ctx, fmt.Sprintf("done-%d", i), fmt.Sprintf("Done %d", i), solved.ID)
	}
	// Operators created the overflow by hand.
	f.mem.CreateCategory(ctx, "Solved 2")

	out, err := f.orc.Solve(ctx, SolveInput{ChannelID: chID})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if out.SolvedCategory != "Solved 2" {
		t.Errorf("SolvedCategory = %q, want Solved 2", out.SolvedCategory)
	}
}

func TestSolve_OccupiedVoiceIsDeferred(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	chID := addPuzzle(t, f, "Crossword")

	f.mem.SetOccupants("Crossword", 2)

	out, err := f.orc.Solve(ctx, SolveInput{ChannelID: chID})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !out.VoiceDeferred || out.VoiceRemoved {
		t.Errorf("voice: removed=%v deferred=%v, want deferred", out.VoiceRemoved, out.VoiceDeferred)
	}

	snap := f.snapshot(t)
	if _, ok := snap.VoiceChannelByName("Crossword"); !ok {
		t.Fatal("occupied voice channel was deleted")
	}

	// The pending removal completes once the room empties.
	f.mem.SetOccupants("Crossword", 0)
	removed, err := f.orc.Voice().OnOccupancyChange(ctx, "Crossword", false)
	if err != nil || !removed {
		t.Fatalf("OnOccupancyChange = %v, %v; want removal", removed, err)
	}
}

func TestSolve_UpdatesPartyBadge(t *testing.T) {
	ctx := context.Background()
	f := newPartyFixture(t, 12)

	snap := f.snapshot(t)
	puzzles, _ := snap.CategoryByName("Puzzles")
	badge, _ := f.mem.CreateTextChannel(ctx, "party-of-12", "", puzzles.ID)

	chID := addPuzzle(t, f, "Crossword")
	out, err := f.orc.Solve(ctx, SolveInput{ChannelID: chID})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if out.PartySize == nil || *out.PartySize != 11 {
		t.Fatalf("PartySize = %v, want 11", out.PartySize)
	}

	snap = f.snapshot(t)
	ch, _ := snap.TextChannelByID(badge.ID)
	if ch.Name != "party-of-11" {
		t.Errorf("badge channel = %q, want party-of-11", ch.Name)
	}
	if msgs := f.mem.Sent[badge.ID]; len(msgs) != 1 {
		t.Errorf("announcements = %d, want 1", len(msgs))
	}
}
