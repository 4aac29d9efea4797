// Package voice manages the voice rooms paired to puzzles.
//
// The one hard rule is that an occupied room is never deleted by any
// automated path. Removals that cannot proceed are parked in a
// pending-removal set keyed by room name and completed later, either by the
// occupancy-change observer or by the periodic idle sweep.
package voice

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/hpungsan/huntbot/internal/directory"
	"github.com/hpungsan/huntbot/internal/errors"
)

// ToggleResult reports what Toggle did.
type ToggleResult int

const (
	// Created means no room existed and one was created.
	Created ToggleResult = iota
	// Removed means an empty room existed and was deleted.
	Removed
	// RetainedBusy means the room is occupied and was left alone.
	RetainedBusy
)

// String returns a short label for logs and status messages.
func (r ToggleResult) String() string {
	switch r {
	case Created:
		return "created"
	case Removed:
		return "removed"
	case RetainedBusy:
		return "retained (in use)"
	default:
		return "unknown"
	}
}

// RemoveOutcome reports what RemoveIfEmpty found.
type RemoveOutcome int

const (
	// RemoveDone means the room existed, was empty, and was deleted.
	RemoveDone RemoveOutcome = iota
	// RemoveBusy means the room is occupied and was left alone.
	RemoveBusy
	// RemoveAbsent means no room with that name exists.
	RemoveAbsent
)

// Manager creates and removes the voice rooms paired to puzzles. All rooms
// live under a single fixed voice category.
type Manager struct {
	dir      directory.Directory
	category string
	log      *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{} // room names awaiting removal once empty
}

// NewManager returns a Manager parenting rooms under the named category.
func NewManager(dir directory.Directory, category string, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		dir:      dir,
		category: category,
		log:      log,
		pending:  make(map[string]struct{}),
	}
}

// Toggle creates the puzzle's voice room if absent, deletes it if present
// and empty, and leaves it alone if occupied.
func (m *Manager) Toggle(ctx context.Context, title string) (ToggleResult, error) {
	snap, err := m.dir.Snapshot(ctx)
	if err != nil {
		return 0, errors.NewExternal("list channels", err)
	}

	room, ok := snap.VoiceChannelByName(title)
	if !ok {
		if err := m.create(ctx, snap, title); err != nil {
			return 0, err
		}
		return Created, nil
	}

	if room.Occupants > 0 {
		return RetainedBusy, nil
	}
	if err := m.dir.DeleteChannel(ctx, room.ID); err != nil {
		return 0, errors.NewExternal("delete voice channel", err)
	}
	m.forget(title)
	return Removed, nil
}

// Create makes the puzzle's voice room if it does not already exist.
func (m *Manager) Create(ctx context.Context, title string) error {
	snap, err := m.dir.Snapshot(ctx)
	if err != nil {
		return errors.NewExternal("list channels", err)
	}
	if _, ok := snap.VoiceChannelByName(title); ok {
		return nil
	}
	return m.create(ctx, snap, title)
}

// RemoveIfEmpty deletes the puzzle's voice room when it exists and is empty.
// An occupied room is reported as busy and left untouched; queuing a
// deferred removal is the caller's decision.
func (m *Manager) RemoveIfEmpty(ctx context.Context, title string) (RemoveOutcome, error) {
	snap, err := m.dir.Snapshot(ctx)
	if err != nil {
		return 0, errors.NewExternal("list channels", err)
	}
	room, ok := snap.VoiceChannelByName(title)
	if !ok {
		return RemoveAbsent, nil
	}
	if room.Occupants > 0 {
		return RemoveBusy, nil
	}
	if err := m.dir.DeleteChannel(ctx, room.ID); err != nil {
		return 0, errors.NewExternal("delete voice channel", err)
	}
	m.forget(title)
	return RemoveDone, nil
}

// DeferRemove marks the room for deletion once it becomes empty.
func (m *Manager) DeferRemove(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[title] = struct{}{}
	m.log.Info("voice removal deferred", "room", title)
}

// PendingRemovals returns the room names currently awaiting removal.
func (m *Manager) PendingRemovals() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.pending))
	for name := range m.pending {
		out = append(out, name)
	}
	return out
}

// OnOccupancyChange is the observer hook for the platform's voice-state
// feed. When a room transitions to empty and its name is in the
// pending-removal set, the room is deleted and the entry cleared. Returns
// whether a deletion happened.
func (m *Manager) OnOccupancyChange(ctx context.Context, roomName string, stillOccupied bool) (bool, error) {
	if stillOccupied {
		return false, nil
	}
	m.mu.Lock()
	_, queued := m.pending[roomName]
	m.mu.Unlock()
	if !queued {
		return false, nil
	}

	outcome, err := m.RemoveIfEmpty(ctx, roomName)
	if err != nil {
		return false, err
	}
	switch outcome {
	case RemoveDone:
		m.log.Info("deferred voice removal completed", "room", roomName)
		return true, nil
	case RemoveAbsent:
		// Someone beat us to it; drop the pending entry.
		m.forget(roomName)
		return false, nil
	default:
		return false, nil
	}
}

// SweepIdle deletes every empty voice channel whose trimmed, lowercased name
// does not start with one of the protected prefixes. Occupied channels are
// never touched regardless of name. Returns the number removed.
func (m *Manager) SweepIdle(ctx context.Context, protectedPrefixes []string) (int, error) {
	snap, err := m.dir.Snapshot(ctx)
	if err != nil {
		return 0, errors.NewExternal("list channels", err)
	}

	removed := 0
	for _, room := range snap.VoiceChannels {
		if room.Occupants > 0 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(room.Name))
		if hasAnyPrefix(name, protectedPrefixes) {
			continue
		}
		if err := m.dir.DeleteChannel(ctx, room.ID); err != nil {
			return removed, errors.NewExternal("delete voice channel", err)
		}
		m.forget(room.Name)
		removed++
	}
	if removed > 0 {
		m.log.Info("idle voice sweep", "removed", removed)
	}
	return removed, nil
}

func (m *Manager) create(ctx context.Context, snap *directory.Snapshot, title string) error {
	cat, ok := snap.CategoryByName(m.category)
	if !ok {
		var err error
		cat, err = m.dir.CreateCategory(ctx, m.category)
		if err != nil {
			return errors.NewExternal("create voice category", err)
		}
	}
	if _, err := m.dir.CreateVoiceChannel(ctx, title, cat.ID); err != nil {
		return errors.NewExternal("create voice channel", err)
	}
	return nil
}

func (m *Manager) forget(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, title)
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
