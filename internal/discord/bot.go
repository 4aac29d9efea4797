package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/hpungsan/huntbot/internal/hunt"
)

// NewSession builds a Discord session with the intents the bot needs:
// guild structure for the channel directory and voice states for occupancy
// tracking and deferred voice removal.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates
	return session, nil
}

// Bot hosts the orchestrator on a guild: slash commands in, channel and
// message operations out.
type Bot struct {
	session     *discordgo.Session
	orc         *hunt.Orchestrator
	guildID     string
	adminRoleID string
	sweepEvery  time.Duration
	log         *slog.Logger
}

// BotConfig carries the host-level settings.
type BotConfig struct {
	GuildID     string
	AdminRoleID string
	SweepEvery  time.Duration // 0 disables the idle voice sweep
}

// NewBot wires the command host. The session must not be open yet; Run
// attaches handlers before connecting.
func NewBot(session *discordgo.Session, orc *hunt.Orchestrator, cfg BotConfig, log *slog.Logger) *Bot {
	if log == nil {
		log = slog.Default()
	}
	return &Bot{
		session:     session,
		orc:         orc,
		guildID:     cfg.GuildID,
		adminRoleID: cfg.AdminRoleID,
		sweepEvery:  cfg.SweepEvery,
		log:         log,
	}
}

// Run connects, bootstraps the guild, registers the slash commands, and
// blocks until ctx is cancelled. The periodic idle voice sweep runs on this
// goroutine.
func (b *Bot) Run(ctx context.Context) error {
	ready := make(chan struct{})
	b.session.AddHandlerOnce(func(*discordgo.Session, *discordgo.Ready) { close(ready) })
	b.session.AddHandler(b.onInteraction)
	b.session.AddHandler(b.onVoiceStateUpdate)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("connect to discord: %w", err)
	}
	defer b.session.Close()

	select {
	case <-ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := b.orc.EnsureReady(ctx); err != nil {
		return fmt.Errorf("bootstrap guild: %w", err)
	}
	if err := b.registerCommands(); err != nil {
		return err
	}
	b.log.Info("bot running", "guild_id", b.guildID)

	if b.sweepEvery <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(b.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			out, err := b.orc.VoiceCleanup(ctx)
			if err != nil {
				b.log.Warn("idle voice sweep failed", "err", err)
				continue
			}
			if out.Removed > 0 {
				b.log.Info("idle voice sweep", "removed", out.Removed)
			}
		}
	}
}

// onVoiceStateUpdate watches for users leaving voice channels and lets the
// voice manager complete deferred removals once a room empties.
func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, e *discordgo.VoiceStateUpdate) {
	if e.GuildID != b.guildID {
		return
	}
	// Only channel departures matter: joins never empty a room.
	if e.BeforeUpdate == nil || e.BeforeUpdate.ChannelID == "" || e.BeforeUpdate.ChannelID == e.ChannelID {
		return
	}
	left := e.BeforeUpdate.ChannelID

	ch, err := s.State.Channel(left)
	if err != nil {
		return
	}

	occupied := false
	if guild, err := s.State.Guild(b.guildID); err == nil {
		for _, vs := range guild.VoiceStates {
			if vs.ChannelID == left && vs.UserID != e.UserID {
				occupied = true
				break
			}
		}
	}

	removed, err := b.orc.Voice().OnOccupancyChange(context.Background(), ch.Name, occupied)
	if err != nil {
		b.log.Warn("deferred voice removal failed", "room", ch.Name, "err", err)
		return
	}
	if removed {
		b.log.Info("voice room removed after deferral", "room", ch.Name)
	}
}
