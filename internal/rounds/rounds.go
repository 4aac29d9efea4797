// Package rounds maintains a derived mapping from normalized round key to
// canonical round name and resolves user-supplied prefixes against it.
//
// The index is never persisted: it is rebuilt from the guild's live category
// listing on connect and after every round creation, so a chat-side rename
// can never leave it stale.
package rounds

import (
	"sort"

	"github.com/hpungsan/huntbot/internal/directory"
	"github.com/hpungsan/huntbot/internal/errors"
	"github.com/hpungsan/huntbot/internal/naming"
)

// Excludes names the categories that are never rounds.
type Excludes struct {
	SolvedPrefix  string   // e.g. "Solved"
	ArchivePrefix string   // e.g. "archive"
	Exact         []string // default puzzles category, voice category, ...
}

// Resolver indexes round categories by normalized key.
type Resolver struct {
	excludes Excludes
	index    map[string]string // normalized key -> canonical name
}

// New returns an empty resolver. Call Rebuild before matching.
func New(excludes Excludes) *Resolver {
	return &Resolver{
		excludes: excludes,
		index:    make(map[string]string),
	}
}

// Rebuild rescans the category listing and replaces the index. Categories
// with the solved or archive prefix and the excluded exact names are
// skipped; so are categories whose normalized key is empty.
func (r *Resolver) Rebuild(categories []directory.Category) {
	index := make(map[string]string, len(categories))
	for _, c := range categories {
		if r.excluded(c.Name) {
			continue
		}
		key := naming.RoundKey(c.Name)
		if key == "" {
			continue
		}
		index[key] = c.Name
	}
	r.index = index
}

// Register adds a newly created round to the index. A round whose normalized
// key collides with an existing round is rejected: silently shadowing the
// earlier round would make it unmatchable.
func (r *Resolver) Register(name string) error {
	key := naming.RoundKey(name)
	if key == "" {
		return errors.NewValidation("round name has no letters or digits")
	}
	if existing, ok := r.index[key]; ok {
		return errors.NewConflict("round name collides with existing round " + existing)
	}
	r.index[key] = name
	return nil
}

// Match resolves a user-supplied prefix to a canonical round name. The
// normalized prefix is matched against the start of every normalized key:
// exactly one hit resolves, zero hits is NOT_FOUND, and two or more are
// reported back as AMBIGUOUS_ROUND with the candidate names. Ambiguity is
// always surfaced, never broken by a closest-match heuristic.
func (r *Resolver) Match(prefix string) (string, error) {
	key := naming.RoundKey(prefix)
	if key == "" {
		return "", errors.NewValidation("round prefix has no letters or digits")
	}

	var candidates []string
	for k, canonical := range r.index {
		if len(k) >= len(key) && k[:len(key)] == key {
			candidates = append(candidates, canonical)
		}
	}

	switch len(candidates) {
	case 0:
		return "", errors.NewRoundNotFound(prefix)
	case 1:
		return candidates[0], nil
	default:
		sort.Strings(candidates)
		return "", errors.NewAmbiguousRound(prefix, candidates)
	}
}

// Canonicals returns every known round name, sorted.
func (r *Resolver) Canonicals() []string {
	out := make([]string, 0, len(r.index))
	for _, name := range r.index {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *Resolver) excluded(name string) bool {
	if r.excludes.SolvedPrefix != "" && directory.NameHasPrefix(name, r.excludes.SolvedPrefix) {
		return true
	}
	if r.excludes.ArchivePrefix != "" && directory.NameHasPrefix(name, r.excludes.ArchivePrefix) {
		return true
	}
	for _, exact := range r.excludes.Exact {
		if name == exact {
			return true
		}
	}
	return false
}
