package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/huntbot/internal/errors"
	"github.com/hpungsan/huntbot/internal/hunt"
)

var manageChannels int64 = discordgo.PermissionManageChannels

// commandDefs are the guild slash commands. Remove is gated on the
// channel-management permission; everything else is open to the team.
var commandDefs = []*discordgo.ApplicationCommand{
	{
		Name:        "puzzle",
		Description: "Create a puzzle: text channel, voice room, and spreadsheet",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "title",
				Description: "Puzzle title",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "round",
				Description: "Round name prefix (defaults to the most recent round)",
			},
		},
	},
	{
		Name:        "solve",
		Description: "Mark this channel's puzzle as solved",
	},
	{
		Name:        "voice",
		Description: "Create or remove this puzzle's voice room",
	},
	{
		Name:                     "remove",
		Description:              "Remove a puzzle's channel and trash its spreadsheet",
		DefaultMemberPermissions: &manageChannels,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "title",
				Description: "Puzzle title",
				Required:    true,
			},
		},
	},
	{
		Name:        "round",
		Description: "Create a round category for new puzzles",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Round name",
				Required:    true,
			},
		},
	},
	{
		Name:        "recount",
		Description: "Recount solved puzzles and update the party size channel",
	},
	{
		Name:        "voice-cleanup",
		Description: "Remove idle puzzle voice rooms now",
	},
}

// registerCommands bulk-overwrites the guild's command set so removed
// commands disappear on deploy.
func (b *Bot) registerCommands() error {
	appID := b.session.State.User.ID
	if _, err := b.session.ApplicationCommandBulkOverwrite(appID, b.guildID, commandDefs); err != nil {
		return fmt.Errorf("register slash commands: %w", err)
	}
	return nil
}

// onInteraction dispatches a slash command. The response is deferred up
// front: puzzle creation and solving round-trip to the document store,
// which can outlast the three-second interaction ack window.
func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand || i.GuildID != b.guildID {
		return
	}
	data := i.ApplicationCommandData()
	log := b.log.With("request_id", ulid.Make().String(), "command", data.Name)

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		log.Warn("interaction ack failed", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	reply := b.dispatch(ctx, data, i, log)
	log.Info("command handled", "duration", time.Since(start).Round(time.Millisecond))

	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &reply}); err != nil {
		log.Warn("interaction reply failed", "err", err)
	}
}

func (b *Bot) dispatch(ctx context.Context, data discordgo.ApplicationCommandInteractionData, i *discordgo.InteractionCreate, log *slog.Logger) string {
	switch data.Name {
	case "puzzle":
		out, err := b.orc.Add(ctx, hunt.AddInput{
			Title: optionString(data, "title"),
			Round: optionString(data, "round"),
		})
		if err != nil {
			return b.renderError(err, log)
		}
		return fmt.Sprintf("👍 **%s** is ready under **%s**.\nSpreadsheet: %s", out.Title, out.Round, out.SpreadsheetURL)

	case "solve":
		out, err := b.orc.Solve(ctx, hunt.SolveInput{ChannelID: i.ChannelID})
		if err != nil {
			return b.renderError(err, log)
		}
		reply := fmt.Sprintf("👍 **%s** solved! Channel moved to **%s**.", out.Title, out.SolvedCategory)
		if out.VoiceDeferred {
			reply += "\nThe voice room is occupied; it will be removed once it empties."
		}
		return reply

	case "voice":
		out, err := b.orc.ToggleVoice(ctx, hunt.ToggleVoiceInput{ChannelID: i.ChannelID})
		if err != nil {
			return b.renderError(err, log)
		}
		return "👍 " + out.Action

	case "remove":
		out, err := b.orc.Remove(ctx, hunt.RemoveInput{Title: optionString(data, "title")})
		if err != nil {
			return b.renderError(err, log)
		}
		reply := fmt.Sprintf("👍 **%s** removed; spreadsheet trashed.", out.Title)
		if out.VoiceBusy {
			reply += "\nThe voice room is occupied and was left in place."
		}
		return reply

	case "round":
		out, err := b.orc.Round(ctx, hunt.RoundInput{Name: optionString(data, "name")})
		if err != nil {
			return b.renderError(err, log)
		}
		return fmt.Sprintf("👍 Round **%s** created. New puzzles land there by default.", out.Name)

	case "recount":
		out, err := b.orc.Recount(ctx)
		if err != nil {
			return b.renderError(err, log)
		}
		return fmt.Sprintf("👍 %d solved. We're a party of %d.", out.SolvedCount, out.PartySize)

	case "voice-cleanup":
		out, err := b.orc.VoiceCleanup(ctx)
		if err != nil {
			return b.renderError(err, log)
		}
		if out.Removed == 0 {
			return "👍 No idle voice rooms to remove."
		}
		return fmt.Sprintf("👍 Removed %d idle voice room(s).", out.Removed)
	}
	return "👎 Unknown command."
}

// renderError turns an operation error into a user-facing reply. Capacity
// errors mention the admin role, since opening a fresh solved category
// needs channel-management rights.
func (b *Bot) renderError(err error, log *slog.Logger) string {
	log.Warn("command failed", "err", err)

	msg := "Something went wrong; check the bot logs."
	if hErr, ok := err.(*errors.HuntError); ok {
		msg = hErr.Message
	}
	reply := "👎 " + strings.ToUpper(msg[:1]) + msg[1:]
	if errors.Is(err, errors.ErrCapacity) && b.adminRoleID != "" {
		reply = fmt.Sprintf("<@&%s> %s", b.adminRoleID, reply)
	}
	return reply
}

func optionString(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}
