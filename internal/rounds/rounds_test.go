package rounds

import (
	"reflect"
	"testing"

	"github.com/hpungsan/huntbot/internal/directory"
	"github.com/hpungsan/huntbot/internal/errors"
)

func newResolver(t *testing.T, names ...string) *Resolver {
	t.Helper()
	r := New(Excludes{
		SolvedPrefix:  "Solved",
		ArchivePrefix: "archive",
		Exact:         []string{"Puzzles", "Puzzle Voice Channels"},
	})
	cats := make([]directory.Category, 0, len(names))
	for i, name := range names {
		cats = append(cats, directory.Category{ID: string(rune('a' + i)), Name: name})
	}
	r.Rebuild(cats)
	return r
}

func TestMatch(t *testing.T) {
	r := newResolver(t, "Ocean", "Outer Space", "Movies!")

	tests := []struct {
		name    string
		prefix  string
		want    string
		wantErr errors.ErrorCode
	}{
		{
			name:   "unique prefix resolves",
			prefix: "Oc",
			want:   "Ocean",
		},
		{
			name:    "shared prefix is ambiguous",
			prefix:  "O",
			wantErr: errors.ErrAmbiguousRound,
		},
		{
			name:    "unknown prefix not found",
			prefix:  "Zzz",
			wantErr: errors.ErrNotFound,
		},
		{
			name:   "case and punctuation insensitive",
			prefix: "movies",
			want:   "Movies!",
		},
		{
			name:   "full name resolves",
			prefix: "Outer Space",
			want:   "Outer Space",
		},
		{
			name:    "empty after normalization",
			prefix:  "!!!",
			wantErr: errors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Match(tt.prefix)
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Match(%q) error = %v, want code %s", tt.prefix, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Match(%q) error: %v", tt.prefix, err)
			}
			if got != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestMatch_AmbiguousCandidates(t *testing.T) {
	r := newResolver(t, "Ocean", "Outer Space")

	_, err := r.Match("O")
	hErr, ok := err.(*errors.HuntError)
	if !ok || hErr.Code != errors.ErrAmbiguousRound {
		t.Fatalf("Match(O) error = %v, want AMBIGUOUS_ROUND", err)
	}
	want := []string{"Ocean", "Outer Space"}
	if !reflect.DeepEqual(hErr.Details["candidates"], want) {
		t.Errorf("candidates = %v, want %v", hErr.Details["candidates"], want)
	}
}

func TestRebuild_Exclusions(t *testing.T) {
	r := newResolver(t,
		"Ocean",
		"Solved",
		"Solved 2",
		"archive 2023",
		"Puzzles",
		"Puzzle Voice Channels",
	)

	got := r.Canonicals()
	if !reflect.DeepEqual(got, []string{"Ocean"}) {
		t.Errorf("Canonicals() = %v, want only Ocean", got)
	}
}

func TestRebuild_Replaces(t *testing.T) {
	r := newResolver(t, "Ocean")
	r.Rebuild([]directory.Category{{ID: "x", Name: "Desert"}})

	if _, err := r.Match("Ocean"); !errors.Is(err, errors.ErrNotFound) {
		t.Error("stale round survived a rebuild")
	}
	if name, err := r.Match("Des"); err != nil || name != "Desert" {
		t.Errorf("Match(Des) = %q, %v", name, err)
	}
}

func TestRegister(t *testing.T) {
	r := newResolver(t, "Ocean")

	if err := r.Register("Desert"); err != nil {
		t.Fatalf("Register(Desert) failed: %v", err)
	}
	if name, err := r.Match("Desert"); err != nil || name != "Desert" {
		t.Errorf("Match(Desert) = %q, %v", name, err)
	}

	// Same normalized key as an existing round is rejected, not shadowed.
	if err := r.Register("ocean!"); !errors.Is(err, errors.ErrConflict) {
		t.Errorf("Register(ocean!) error = %v, want CONFLICT", err)
	}

	if err := r.Register("???"); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("Register(???) error = %v, want VALIDATION", err)
	}
}
