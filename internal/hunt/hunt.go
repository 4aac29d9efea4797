// Package hunt holds the puzzle lifecycle orchestrator: the state machine
// that keeps a puzzle's text channel, spreadsheet, and voice room in a
// consistent logical state as it moves from active to solved to removed.
//
// Puzzle state is derived, never stored. A puzzle exists if a text channel
// with its title as topic exists; it is solved if that channel sits in a
// Solved-prefixed category. The orchestrator owns only the pending voice
// removal set (inside the voice manager) and the current-round pointer;
// everything else is re-read from the chat platform and document store on
// each call.
package hunt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hpungsan/huntbot/internal/directory"
	"github.com/hpungsan/huntbot/internal/errors"
	"github.com/hpungsan/huntbot/internal/party"
	"github.com/hpungsan/huntbot/internal/rounds"
	"github.com/hpungsan/huntbot/internal/voice"
)

// DocumentStore is the slice of the spreadsheet store the orchestrator uses.
type DocumentStore interface {
	// FindOrCreateSpreadsheet returns the link of the spreadsheet with the
	// given title in the root folder, creating it if absent.
	FindOrCreateSpreadsheet(ctx context.Context, title string) (string, error)
	// MoveToSolved re-parents every matching spreadsheet to the Solved folder.
	MoveToSolved(ctx context.Context, title string) error
	// Trash marks every matching spreadsheet, in either folder, as trashed.
	Trash(ctx context.Context, title string) error
}

// Messenger posts messages into guild channels on the orchestrator's behalf.
type Messenger interface {
	// PostPinned sends a message and pins it.
	PostPinned(ctx context.Context, channelID, content string) error
	// Send sends a plain message.
	Send(ctx context.Context, channelID, content string) error
}

// Options configures one orchestrator instance. Historical deployments were
// near-identical bot variants; the differences are flags here instead.
type Options struct {
	// RoundsEnabled requires puzzles to belong to a round category and
	// enables the round command. When false, puzzles land in PuzzlesCategory.
	RoundsEnabled bool

	PuzzlesCategory string // default puzzle category, used when rounds are off
	SolvedPrefix    string // solved categories: "Solved", "Solved 2", ...
	VoiceCategory   string // parent of all puzzle voice rooms
	ArchivePrefix   string // categories excluded from puzzle/round scans

	// SolvedCapacity is the platform channel ceiling per category. The check
	// is exact equality: the SolvedCapacity-th channel fits, the next is
	// blocked.
	SolvedCapacity int

	// ProtectedVoicePrefixes are never touched by the idle sweep.
	ProtectedVoicePrefixes []string
}

func (o Options) withDefaults() Options {
	if o.PuzzlesCategory == "" {
		o.PuzzlesCategory = "Puzzles"
	}
	if o.SolvedPrefix == "" {
		o.SolvedPrefix = "Solved"
	}
	if o.VoiceCategory == "" {
		o.VoiceCategory = "Puzzle Voice Channels"
	}
	if o.ArchivePrefix == "" {
		o.ArchivePrefix = "archive"
	}
	if o.SolvedCapacity == 0 {
		o.SolvedCapacity = 50
	}
	if o.ProtectedVoicePrefixes == nil {
		o.ProtectedVoicePrefixes = []string{"lobby", "general"}
	}
	return o
}

// Orchestrator coordinates the directory, document store, and voice manager
// to implement the puzzle commands.
type Orchestrator struct {
	dir     directory.Directory
	docs    DocumentStore
	voice   *voice.Manager
	rounds  *rounds.Resolver // nil when rounds are disabled
	counter *party.Counter   // nil when the party counter is disabled
	msg     Messenger
	opts    Options
	log     *slog.Logger

	locks *keyedMutex

	// currentRound is guild-session scoped: set by round creation and by
	// adds that name a round, cleared on reconnect.
	currentRound string
}

// New wires an orchestrator. The rounds resolver is created internally when
// opts.RoundsEnabled is set; counter may be nil to disable party counting.
func New(dir directory.Directory, docs DocumentStore, vm *voice.Manager, counter *party.Counter, msg Messenger, opts Options, log *slog.Logger) *Orchestrator {
	opts = opts.withDefaults()
	if log == nil {
		log = slog.Default()
	}

	o := &Orchestrator{
		dir:     dir,
		docs:    docs,
		voice:   vm,
		counter: counter,
		msg:     msg,
		opts:    opts,
		log:     log,
		locks:   newKeyedMutex(),
	}
	if opts.RoundsEnabled {
		o.rounds = rounds.New(rounds.Excludes{
			SolvedPrefix:  opts.SolvedPrefix,
			ArchivePrefix: opts.ArchivePrefix,
			Exact:         []string{opts.PuzzlesCategory, opts.VoiceCategory},
		})
	}
	return o
}

// Voice exposes the voice manager so hosts can forward occupancy events and
// run sweeps.
func (o *Orchestrator) Voice() *voice.Manager {
	return o.voice
}

// EnsureReady bootstraps the standing categories, rebuilds the round index
// from the live category listing, and resets the current-round pointer.
// Called on every (re)connect.
func (o *Orchestrator) EnsureReady(ctx context.Context) error {
	snap, err := o.dir.Snapshot(ctx)
	if err != nil {
		return errors.NewExternal("list channels", err)
	}

	standing := []string{o.opts.PuzzlesCategory, o.opts.VoiceCategory, o.opts.SolvedPrefix}
	for _, name := range standing {
		if _, ok := snap.CategoryByName(name); ok {
			continue
		}
		if _, err := o.dir.CreateCategory(ctx, name); err != nil {
			return errors.NewExternal("create category "+name, err)
		}
	}

	if o.rounds != nil {
		snap, err = o.dir.Snapshot(ctx)
		if err != nil {
			return errors.NewExternal("list channels", err)
		}
		o.rounds.Rebuild(snap.Categories)
	}
	o.currentRound = ""
	return nil
}

// CurrentRound returns the current-round pointer, empty when unset.
func (o *Orchestrator) CurrentRound() string {
	return o.currentRound
}

// solvedTarget probes "Solved", "Solved 2", ... for the first category with
// room. Solve never auto-creates overflow categories: once every existing
// solved category sits exactly at the ceiling, the operation fails with a
// capacity error and operators create the next overflow by hand. Only a
// missing primary category is created.
func (o *Orchestrator) solvedTarget(ctx context.Context, snap *directory.Snapshot) (directory.Category, error) {
	for i := 1; ; i++ {
		name := o.opts.SolvedPrefix
		if i > 1 {
			name = fmt.Sprintf("%s %d", o.opts.SolvedPrefix, i)
		}
		cat, ok := snap.CategoryByName(name)
		if !ok {
			if i == 1 {
				created, err := o.dir.CreateCategory(ctx, name)
				if err != nil {
					return directory.Category{}, errors.NewExternal("create category "+name, err)
				}
				return created, nil
			}
			return directory.Category{}, errors.NewCapacity(o.opts.SolvedPrefix, o.opts.SolvedCapacity)
		}
		if snap.ChannelCountIn(cat.ID) == o.opts.SolvedCapacity {
			continue
		}
		return cat, nil
	}
}

// ensureCategory looks a category up by exact name and creates it if absent.
func (o *Orchestrator) ensureCategory(ctx context.Context, snap *directory.Snapshot, name string) (directory.Category, error) {
	if cat, ok := snap.CategoryByName(name); ok {
		return cat, nil
	}
	cat, err := o.dir.CreateCategory(ctx, name)
	if err != nil {
		return directory.Category{}, errors.NewExternal("create category "+name, err)
	}
	return cat, nil
}

// isSolvedCategory reports whether the channel's category carries the
// solved prefix.
func (o *Orchestrator) isSolvedCategory(snap *directory.Snapshot, categoryID string) bool {
	cat, ok := snap.CategoryByID(categoryID)
	return ok && directory.NameHasPrefix(cat.Name, o.opts.SolvedPrefix)
}
