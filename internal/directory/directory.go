// Package directory provides a read-through view of a chat guild's channels
// and categories plus the write operations the puzzle lifecycle needs.
//
// Reads are filtered scans over a point-in-time Snapshot of the live guild;
// nothing is cached between calls. The directory does not deduplicate on
// write: every creation is expected to be guarded by a lookup on the same
// snapshot (lookup-then-create), and two racing creators can still produce
// duplicates.
package directory

import (
	"context"
	"strings"
)

// Category is a channel grouping (a chat-platform category channel).
type Category struct {
	ID   string
	Name string
}

// TextChannel is a guild text channel. The Topic doubles as the puzzle
// title lookup key.
type TextChannel struct {
	ID         string
	Name       string
	Topic      string
	CategoryID string
}

// VoiceChannel is a guild voice channel with its current occupant count.
type VoiceChannel struct {
	ID         string
	Name       string
	CategoryID string
	Occupants  int
}

// Snapshot is a point-in-time listing of a guild's channels.
type Snapshot struct {
	Categories    []Category
	TextChannels  []TextChannel
	VoiceChannels []VoiceChannel
}

// Directory exposes the guild operations the orchestrator uses. All
// creations are idempotent only by lookup-then-create on the caller's side.
type Directory interface {
	// Snapshot lists the guild's current categories and channels.
	Snapshot(ctx context.Context) (*Snapshot, error)

	CreateCategory(ctx context.Context, name string) (Category, error)
	CreateTextChannel(ctx context.Context, name, topic, categoryID string) (TextChannel, error)
	CreateVoiceChannel(ctx context.Context, name, categoryID string) (VoiceChannel, error)

	// MoveChannel re-parents a channel to the given category.
	MoveChannel(ctx context.Context, channelID, categoryID string) error
	// RenameChannel changes a channel's display name.
	RenameChannel(ctx context.Context, channelID, name string) error
	DeleteChannel(ctx context.Context, channelID string) error
}

// NameHasPrefix reports whether name starts with prefix, ignoring case.
func NameHasPrefix(name, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix))
}

// CategoryByName returns the first category with the exact name.
func (s *Snapshot) CategoryByName(name string) (Category, bool) {
	for _, c := range s.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryByID returns the category with the given id.
func (s *Snapshot) CategoryByID(id string) (Category, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CategoriesWithPrefix returns every category whose name starts with prefix,
// ignoring case, in listing order.
func (s *Snapshot) CategoriesWithPrefix(prefix string) []Category {
	var out []Category
	for _, c := range s.Categories {
		if NameHasPrefix(c.Name, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// TextChannelByTopic returns the first text channel whose topic equals topic.
func (s *Snapshot) TextChannelByTopic(topic string) (TextChannel, bool) {
	for _, ch := range s.TextChannels {
		if ch.Topic == topic {
			return ch, true
		}
	}
	return TextChannel{}, false
}

// TextChannelByID returns the text channel with the given id.
func (s *Snapshot) TextChannelByID(id string) (TextChannel, bool) {
	for _, ch := range s.TextChannels {
		if ch.ID == id {
			return ch, true
		}
	}
	return TextChannel{}, false
}

// TextChannelsIn returns the text channels parented to the given category.
func (s *Snapshot) TextChannelsIn(categoryID string) []TextChannel {
	var out []TextChannel
	for _, ch := range s.TextChannels {
		if ch.CategoryID == categoryID {
			out = append(out, ch)
		}
	}
	return out
}

// VoiceChannelByName returns the first voice channel with the given name.
func (s *Snapshot) VoiceChannelByName(name string) (VoiceChannel, bool) {
	for _, ch := range s.VoiceChannels {
		if ch.Name == name {
			return ch, true
		}
	}
	return VoiceChannel{}, false
}

// ChannelCountIn returns how many channels (text and voice) are parented to
// the given category. The platform capacity ceiling counts both kinds.
func (s *Snapshot) ChannelCountIn(categoryID string) int {
	n := 0
	for _, ch := range s.TextChannels {
		if ch.CategoryID == categoryID {
			n++
		}
	}
	for _, ch := range s.VoiceChannels {
		if ch.CategoryID == categoryID {
			n++
		}
	}
	return n
}
