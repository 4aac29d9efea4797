package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/huntbot/internal/config"
	"github.com/hpungsan/huntbot/internal/discord"
	"github.com/hpungsan/huntbot/internal/drive"
	"github.com/hpungsan/huntbot/internal/hunt"
	"github.com/hpungsan/huntbot/internal/mcp"
	"github.com/hpungsan/huntbot/internal/party"
	"github.com/hpungsan/huntbot/internal/tokenstore"
	"github.com/hpungsan/huntbot/internal/voice"
	"github.com/hpungsan/huntbot/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	return &cli.App{
		Name:    "huntbot",
		Usage:   "Puzzle hunt bot: channels, voice rooms, and spreadsheets per puzzle",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "home",
				Usage: "Directory for config, credentials, and the token store",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "Log level: debug|info|warn|error",
			},
		},
		Commands: []*cli.Command{
			runCmd(),
			authCmd(),
		},
	}
}

// runCmd starts the bot and keeps it running until SIGINT/SIGTERM.
func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Connect to the guild and serve commands",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "mcp",
				Usage: "Also expose the puzzle tools over MCP on stdio",
			},
			&cli.IntFlag{
				Name:  "web-port",
				Usage: "Serve the read-only dashboard on this port (overrides config)",
			},
		},
		Action: func(c *cli.Context) error {
			baseDir, err := resolveBaseDir(c.String("home"))
			if err != nil {
				return err
			}

			cfg, err := config.Load(baseDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := newLogger(c.String("log-level"))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			tokens, err := tokenstore.Open(baseDir)
			if err != nil {
				return fmt.Errorf("open token store: %w", err)
			}
			defer tokens.Close()

			docs, err := drive.Open(ctx, cfg.DriveRootFolder, secretsPath(baseDir, cfg.DriveClientSecrets), tokens, log)
			if err != nil {
				return err
			}

			session, err := discord.NewSession(cfg.DiscordToken)
			if err != nil {
				return err
			}

			adapter := discord.NewAdapter(session, cfg.GuildID)
			vm := voice.NewManager(adapter, cfg.VoiceCategory, log)

			var counter *party.Counter
			if cfg.PartyCounterEnabled {
				counter = &party.Counter{
					StartSize:    cfg.StartPartySize,
					SolvedPrefix: cfg.SolvedPrefix,
				}
			}

			orc := hunt.New(adapter, docs, vm, counter, adapter, hunt.Options{
				RoundsEnabled:          cfg.RoundsEnabled,
				PuzzlesCategory:        cfg.PuzzlesCategory,
				SolvedPrefix:           cfg.SolvedPrefix,
				VoiceCategory:          cfg.VoiceCategory,
				SolvedCapacity:         cfg.SolvedCapacity,
				ProtectedVoicePrefixes: cfg.ProtectedVoicePrefixes,
			}, log)

			bot := discord.NewBot(session, orc, discord.BotConfig{
				GuildID:     cfg.GuildID,
				AdminRoleID: cfg.AdminRoleID,
				SweepEvery:  time.Duration(cfg.SweepIntervalMinutes) * time.Minute,
			}, log)

			var wg sync.WaitGroup
			errCh := make(chan error, 3)
			start := func(name string, fn func() error) {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := fn(); err != nil && !errors.Is(err, context.Canceled) {
						errCh <- fmt.Errorf("%s: %w", name, err)
					}
				}()
			}

			start("discord", func() error { return bot.Run(ctx) })
			if c.Int("web-port") > 0 {
				cfg.WebPort = c.Int("web-port")
			}
			if cfg.WebPort > 0 {
				srv := web.NewServer(orc, Version, cfg.WebBind, cfg.WebPort)
				start("web", func() error { return web.Run(ctx, srv, log) })
			}
			if c.Bool("mcp") {
				// ServeStdio ends when stdin closes; process exit covers it
				// on shutdown.
				start("mcp", func() error { return mcp.Run(orc, Version) })
			}

			go func() {
				wg.Wait()
				close(errCh)
			}()

			var runErr error
			for err := range errCh {
				stop()
				if runErr == nil {
					runErr = err
				}
			}
			return runErr
		},
	}
}

// authCmd runs the interactive Google Drive consent flow and stores the
// resulting token.
func authCmd() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize Google Drive access and store the token",
		Action: func(c *cli.Context) error {
			baseDir, err := resolveBaseDir(c.String("home"))
			if err != nil {
				return err
			}

			cfg, err := config.Load(baseDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			tokens, err := tokenstore.Open(baseDir)
			if err != nil {
				return fmt.Errorf("open token store: %w", err)
			}
			defer tokens.Close()

			return drive.Authenticate(c.Context, secretsPath(baseDir, cfg.DriveClientSecrets), tokens, os.Stdin, os.Stdout)
		},
	}
}

// resolveBaseDir returns the bot's home directory, defaulting to ~/.huntbot.
func resolveBaseDir(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".huntbot"), nil
}

// secretsPath resolves the client secrets file relative to the base
// directory unless an absolute path is configured.
func secretsPath(baseDir, configured string) string {
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(baseDir, configured)
}

// newLogger builds the process logger writing to stderr, leaving stdout to
// the MCP transport.
func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}
