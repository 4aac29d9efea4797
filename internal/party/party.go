// Package party derives the "party size" badge from the solved-puzzle count.
// It is a secondary consumer of the same category data the orchestrator
// reads; the badge lives in the name of a sentinel "party-of-N" channel.
package party

import (
	"fmt"

	"github.com/hpungsan/huntbot/internal/directory"
)

// DefaultChannelPrefix identifies the sentinel channel carrying the badge.
const DefaultChannelPrefix = "party-of"

// Counter computes the party size: the start-of-event size minus one per
// solved puzzle.
type Counter struct {
	StartSize     int
	SolvedPrefix  string // category prefix, e.g. "Solved"
	ChannelPrefix string // sentinel channel prefix, defaults to "party-of"
}

// SolvedCount sums the text channels across every Solved-prefixed category,
// including manual overflow categories ("Solved 2", "Solved 3", ...).
func (c *Counter) SolvedCount(snap *directory.Snapshot) int {
	n := 0
	for _, cat := range snap.CategoriesWithPrefix(c.SolvedPrefix) {
		n += len(snap.TextChannelsIn(cat.ID))
	}
	return n
}

// Size returns the current party size. It can go negative when more puzzles
// are solved than the starting size.
func (c *Counter) Size(snap *directory.Snapshot) int {
	return c.StartSize - c.SolvedCount(snap)
}

// ChannelName renders the badge channel name for a party size. Channel names
// cannot carry a "-" sign character, so negative counts spell out "minus".
func (c *Counter) ChannelName(size int) string {
	prefix := c.channelPrefix()
	if size < 0 {
		return fmt.Sprintf("%s-minus-%d", prefix, -size)
	}
	return fmt.Sprintf("%s-%d", prefix, size)
}

// Channel finds the sentinel badge channel by name prefix.
func (c *Counter) Channel(snap *directory.Snapshot) (directory.TextChannel, bool) {
	for _, ch := range snap.TextChannels {
		if directory.NameHasPrefix(ch.Name, c.channelPrefix()) {
			return ch, true
		}
	}
	return directory.TextChannel{}, false
}

func (c *Counter) channelPrefix() string {
	if c.ChannelPrefix == "" {
		return DefaultChannelPrefix
	}
	return c.ChannelPrefix
}
