// Package discord hosts the bot on a Discord guild: it adapts the guild's
// channel tree to the directory interface, registers the slash commands,
// and forwards voice occupancy events to the orchestrator.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/hpungsan/huntbot/internal/directory"
)

// Adapter implements directory.Directory and hunt.Messenger over a live
// Discord session. All reads go through GuildChannels rather than session
// state, so a Snapshot reflects changes made outside the bot.
type Adapter struct {
	session *discordgo.Session
	guildID string
}

// NewAdapter wraps a session for one guild.
func NewAdapter(session *discordgo.Session, guildID string) *Adapter {
	return &Adapter{session: session, guildID: guildID}
}

// Snapshot lists the guild's categories, text channels, and voice channels.
// Voice occupancy comes from session state; the voice-states intent must be
// enabled for counts to be accurate.
func (a *Adapter) Snapshot(ctx context.Context) (*directory.Snapshot, error) {
	channels, err := a.session.GuildChannels(a.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list guild channels: %w", err)
	}

	occupants := map[string]int{}
	if guild, err := a.session.State.Guild(a.guildID); err == nil {
		for _, vs := range guild.VoiceStates {
			occupants[vs.ChannelID]++
		}
	}

	snap := &directory.Snapshot{}
	for _, ch := range channels {
		switch ch.Type {
		case discordgo.ChannelTypeGuildCategory:
			snap.Categories = append(snap.Categories, directory.Category{
				ID:   ch.ID,
				Name: ch.Name,
			})
		case discordgo.ChannelTypeGuildText:
			snap.TextChannels = append(snap.TextChannels, directory.TextChannel{
				ID:         ch.ID,
				Name:       ch.Name,
				Topic:      ch.Topic,
				CategoryID: ch.ParentID,
			})
		case discordgo.ChannelTypeGuildVoice:
			snap.VoiceChannels = append(snap.VoiceChannels, directory.VoiceChannel{
				ID:         ch.ID,
				Name:       ch.Name,
				CategoryID: ch.ParentID,
				Occupants:  occupants[ch.ID],
			})
		}
	}
	return snap, nil
}

func (a *Adapter) CreateCategory(ctx context.Context, name string) (directory.Category, error) {
	ch, err := a.session.GuildChannelCreateComplex(a.guildID, discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildCategory,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return directory.Category{}, fmt.Errorf("create category %q: %w", name, err)
	}
	return directory.Category{ID: ch.ID, Name: ch.Name}, nil
}

func (a *Adapter) CreateTextChannel(ctx context.Context, name, topic, categoryID string) (directory.TextChannel, error) {
	ch, err := a.session.GuildChannelCreateComplex(a.guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildText,
		Topic:    topic,
		ParentID: categoryID,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return directory.TextChannel{}, fmt.Errorf("create text channel %q: %w", name, err)
	}
	return directory.TextChannel{ID: ch.ID, Name: ch.Name, Topic: ch.Topic, CategoryID: ch.ParentID}, nil
}

func (a *Adapter) CreateVoiceChannel(ctx context.Context, name, categoryID string) (directory.VoiceChannel, error) {
	ch, err := a.session.GuildChannelCreateComplex(a.guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildVoice,
		ParentID: categoryID,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return directory.VoiceChannel{}, fmt.Errorf("create voice channel %q: %w", name, err)
	}
	return directory.VoiceChannel{ID: ch.ID, Name: ch.Name, CategoryID: ch.ParentID}, nil
}

func (a *Adapter) MoveChannel(ctx context.Context, channelID, categoryID string) error {
	_, err := a.session.ChannelEdit(channelID, &discordgo.ChannelEdit{
		ParentID: categoryID,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("move channel %s: %w", channelID, err)
	}
	return nil
}

func (a *Adapter) RenameChannel(ctx context.Context, channelID, name string) error {
	_, err := a.session.ChannelEdit(channelID, &discordgo.ChannelEdit{
		Name: name,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("rename channel %s: %w", channelID, err)
	}
	return nil
}

func (a *Adapter) DeleteChannel(ctx context.Context, channelID string) error {
	if _, err := a.session.ChannelDelete(channelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete channel %s: %w", channelID, err)
	}
	return nil
}

// PostPinned sends a message and pins it.
func (a *Adapter) PostPinned(ctx context.Context, channelID, content string) error {
	msg, err := a.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if err := a.session.ChannelMessagePin(channelID, msg.ID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("pin message: %w", err)
	}
	return nil
}

// Send sends a plain message.
func (a *Adapter) Send(ctx context.Context, channelID, content string) error {
	if _, err := a.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
