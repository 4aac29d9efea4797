package directory

import (
	"context"
	"testing"
)

func buildSnapshot(t *testing.T) (*Memory, *Snapshot) {
	t.Helper()
	ctx := context.Background()
	m := NewMemory()

	puzzles, _ := m.CreateCategory(ctx, "Puzzles")
	solved, _ := m.CreateCategory(ctx, "Solved")
	m.CreateCategory(ctx, "Solved 2")
	m.CreateCategory(ctx, "archive 2023")

	m.CreateTextChannel(ctx, "crossword-1", "Crossword 1", puzzles.ID)
	m.CreateTextChannel(ctx, "logic-grid", "Logic Grid", solved.ID)
	m.CreateVoiceChannel(ctx, "Crossword 1", puzzles.ID)

	snap, err := m.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	return m, snap
}

func TestSnapshot_CategoryLookups(t *testing.T) {
	_, snap := buildSnapshot(t)

	if _, ok := snap.CategoryByName("Puzzles"); !ok {
		t.Error("CategoryByName(Puzzles) not found")
	}
	if _, ok := snap.CategoryByName("puzzles"); ok {
		t.Error("CategoryByName should be exact-match")
	}

	solved := snap.CategoriesWithPrefix("solved")
	if len(solved) != 2 {
		t.Errorf("CategoriesWithPrefix(solved) = %d categories, want 2", len(solved))
	}
	if solved[0].Name != "Solved" {
		t.Errorf("first solved category = %q, want listing order preserved", solved[0].Name)
	}
}

func TestSnapshot_ChannelLookups(t *testing.T) {
	_, snap := buildSnapshot(t)

	ch, ok := snap.TextChannelByTopic("Crossword 1")
	if !ok {
		t.Fatal("TextChannelByTopic(Crossword 1) not found")
	}
	if ch.Name != "crossword-1" {
		t.Errorf("channel name = %q", ch.Name)
	}

	if _, ok := snap.TextChannelByTopic("crossword 1"); ok {
		t.Error("topic lookup should be exact-match")
	}

	if _, ok := snap.VoiceChannelByName("Crossword 1"); !ok {
		t.Error("VoiceChannelByName(Crossword 1) not found")
	}

	puzzles, _ := snap.CategoryByName("Puzzles")
	if n := snap.ChannelCountIn(puzzles.ID); n != 2 {
		t.Errorf("ChannelCountIn = %d, want 2 (text + voice)", n)
	}
}

func TestMemory_MoveRenameDelete(t *testing.T) {
	ctx := context.Background()
	m, snap := buildSnapshot(t)

	ch, _ := snap.TextChannelByTopic("Crossword 1")
	solved, _ := snap.CategoryByName("Solved")

	if err := m.MoveChannel(ctx, ch.ID, solved.ID); err != nil {
		t.Fatalf("MoveChannel failed: %v", err)
	}
	if err := m.RenameChannel(ctx, ch.ID, "crossword-1-solved"); err != nil {
		t.Fatalf("RenameChannel failed: %v", err)
	}

	snap, _ = m.Snapshot(ctx)
	moved, _ := snap.TextChannelByTopic("Crossword 1")
	if moved.CategoryID != solved.ID {
		t.Error("channel was not re-parented")
	}
	if moved.Name != "crossword-1-solved" {
		t.Errorf("channel name = %q after rename", moved.Name)
	}

	if err := m.DeleteChannel(ctx, ch.ID); err != nil {
		t.Fatalf("DeleteChannel failed: %v", err)
	}
	if err := m.DeleteChannel(ctx, ch.ID); err == nil {
		t.Error("double delete should fail")
	}
}

func TestNameHasPrefix(t *testing.T) {
	tests := []struct {
		name, prefix string
		want         bool
	}{
		{"Solved 2", "solved", true},
		{"SOLVED", "Solved", true},
		{"Unsolved", "solved", false},
		{"lobby-east", "lobby", true},
	}
	for _, tt := range tests {
		if got := NameHasPrefix(tt.name, tt.prefix); got != tt.want {
			t.Errorf("NameHasPrefix(%q, %q) = %v, want %v", tt.name, tt.prefix, got, tt.want)
		}
	}
}
