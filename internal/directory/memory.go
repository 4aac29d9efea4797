package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/hpungsan/huntbot/internal/errors"
)

// Memory is an in-process Directory backed by plain slices. It exists for
// tests and for running the orchestrator against a synthetic guild; it has
// no external dependencies and is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	nextID int

	categories []Category
	texts      []TextChannel
	voices     []VoiceChannel

	// Pinned and Sent record posted messages keyed by channel id, newest last.
	Pinned map[string][]string
	Sent   map[string][]string
}

// NewMemory returns an empty in-memory guild.
func NewMemory() *Memory {
	return &Memory{
		nextID: 1000,
		Pinned: make(map[string][]string),
		Sent:   make(map[string][]string),
	}
}

func (m *Memory) id() string {
	m.nextID++
	return fmt.Sprintf("ch-%d", m.nextID)
}

// Snapshot returns a copy of the current guild state.
func (m *Memory) Snapshot(_ context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := &Snapshot{
		Categories:    append([]Category(nil), m.categories...),
		TextChannels:  append([]TextChannel(nil), m.texts...),
		VoiceChannels: append([]VoiceChannel(nil), m.voices...),
	}
	return snap, nil
}

// CreateCategory appends a new category.
func (m *Memory) CreateCategory(_ context.Context, name string) (Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := Category{ID: m.id(), Name: name}
	m.categories = append(m.categories, c)
	return c, nil
}

// CreateTextChannel appends a new text channel.
func (m *Memory) CreateTextChannel(_ context.Context, name, topic, categoryID string) (TextChannel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := TextChannel{ID: m.id(), Name: name, Topic: topic, CategoryID: categoryID}
	m.texts = append(m.texts, ch)
	return ch, nil
}

// CreateVoiceChannel appends a new, empty voice channel.
func (m *Memory) CreateVoiceChannel(_ context.Context, name, categoryID string) (VoiceChannel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := VoiceChannel{ID: m.id(), Name: name, CategoryID: categoryID}
	m.voices = append(m.voices, ch)
	return ch, nil
}

// MoveChannel re-parents a text or voice channel.
func (m *Memory) MoveChannel(_ context.Context, channelID, categoryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.texts {
		if m.texts[i].ID == channelID {
			m.texts[i].CategoryID = categoryID
			return nil
		}
	}
	for i := range m.voices {
		if m.voices[i].ID == channelID {
			m.voices[i].CategoryID = categoryID
			return nil
		}
	}
	return errors.NewNotFound("channel", channelID)
}

// RenameChannel changes a channel's name.
func (m *Memory) RenameChannel(_ context.Context, channelID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.texts {
		if m.texts[i].ID == channelID {
			m.texts[i].Name = name
			return nil
		}
	}
	for i := range m.voices {
		if m.voices[i].ID == channelID {
			m.voices[i].Name = name
			return nil
		}
	}
	return errors.NewNotFound("channel", channelID)
}

// DeleteChannel removes a text or voice channel. Deleting an unknown channel
// is an error so tests catch double deletes.
func (m *Memory) DeleteChannel(_ context.Context, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.texts {
		if m.texts[i].ID == channelID {
			m.texts = append(m.texts[:i], m.texts[i+1:]...)
			return nil
		}
	}
	for i := range m.voices {
		if m.voices[i].ID == channelID {
			m.voices = append(m.voices[:i], m.voices[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFound("channel", channelID)
}

// PostPinned records a pinned message in the given channel.
func (m *Memory) PostPinned(_ context.Context, channelID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pinned[channelID] = append(m.Pinned[channelID], content)
	return nil
}

// Send records a plain message in the given channel.
func (m *Memory) Send(_ context.Context, channelID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent[channelID] = append(m.Sent[channelID], content)
	return nil
}

// SetOccupants sets the occupant count of the named voice channel.
func (m *Memory) SetOccupants(name string, n int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.voices {
		if m.voices[i].Name == name {
			m.voices[i].Occupants = n
			return true
		}
	}
	return false
}
