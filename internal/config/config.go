package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration. Values come from three layers:
// defaults, then baseDir/config.json, then environment variables. Secrets
// (the bot token) are environment-only so the config file can be committed
// to an ops repo.
type Config struct {
	// GuildID is the chat guild the bot serves.
	GuildID string `json:"guild_id" env:"HUNTBOT_GUILD_ID"`

	// DiscordToken is the bot token. Environment-only.
	DiscordToken string `json:"-" env:"HUNTBOT_DISCORD_TOKEN"`

	// DriveRootFolder is the name of the document-store folder holding the
	// hunt's spreadsheets. A missing root folder is fatal at startup.
	DriveRootFolder string `json:"drive_root_folder" env:"HUNTBOT_DRIVE_ROOT_FOLDER"`

	// DriveClientSecrets is the path to the OAuth client credentials file.
	DriveClientSecrets string `json:"drive_client_secrets" env:"HUNTBOT_DRIVE_CLIENT_SECRETS"`

	// AdminRoleID, when set, is mentioned on capacity errors so someone
	// with channel-management rights can open a fresh solved category.
	AdminRoleID string `json:"admin_role_id" env:"HUNTBOT_ADMIN_ROLE_ID"`

	// RoundsEnabled groups puzzles into round categories and requires a
	// round on add.
	RoundsEnabled bool `json:"rounds_enabled" env:"HUNTBOT_ROUNDS_ENABLED"`

	// PartyCounterEnabled maintains the party-of-N badge channel.
	PartyCounterEnabled bool `json:"party_counter_enabled" env:"HUNTBOT_PARTY_COUNTER_ENABLED"`

	// StartPartySize is the start-of-event party size the solved count is
	// subtracted from.
	StartPartySize int `json:"start_party_size" env:"HUNTBOT_START_PARTY_SIZE"`

	// PuzzlesCategory is the default category for new puzzles when rounds
	// are disabled.
	PuzzlesCategory string `json:"puzzles_category"`

	// SolvedPrefix names the solved categories: "Solved", "Solved 2", ...
	SolvedPrefix string `json:"solved_prefix"`

	// VoiceCategory parents all puzzle voice rooms.
	VoiceCategory string `json:"voice_category"`

	// SolvedCapacity is the platform channel ceiling per category.
	SolvedCapacity int `json:"solved_capacity"`

	// ProtectedVoicePrefixes are never removed by the idle sweep.
	ProtectedVoicePrefixes []string `json:"protected_voice_prefixes"`

	// SweepIntervalMinutes is the period of the idle voice sweep. 0 disables it.
	SweepIntervalMinutes int `json:"sweep_interval_minutes"`

	// WebBind/WebPort serve the read-only dashboard. Port 0 disables it.
	WebBind string `json:"web_bind"`
	WebPort int    `json:"web_port" env:"HUNTBOT_WEB_PORT"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DriveClientSecrets:     "client_secrets.json",
		PuzzlesCategory:        "Puzzles",
		SolvedPrefix:           "Solved",
		VoiceCategory:          "Puzzle Voice Channels",
		SolvedCapacity:         50,
		ProtectedVoicePrefixes: []string{"lobby", "general"},
		SweepIntervalMinutes:   30,
		WebBind:                "127.0.0.1",
	}
}

// Load loads configuration from baseDir/config.json and the environment.
// A missing file is fine; defaults apply. The baseDir parameter allows
// tests to use t.TempDir() instead of ~/.huntbot.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields the process cannot start without.
func (c *Config) Validate() error {
	if c.GuildID == "" {
		return errors.New("guild_id is required (config.json or HUNTBOT_GUILD_ID)")
	}
	if c.DiscordToken == "" {
		return errors.New("HUNTBOT_DISCORD_TOKEN is required")
	}
	if c.DriveRootFolder == "" {
		return errors.New("drive_root_folder is required")
	}
	return nil
}

// loadFile loads configuration from a specific file path, applying defaults
// for anything the file omits.
func loadFile(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Re-apply defaults for fields the file set to zero values.
	if cfg.SolvedCapacity == 0 {
		cfg.SolvedCapacity = 50
	}
	if cfg.SolvedPrefix == "" {
		cfg.SolvedPrefix = "Solved"
	}
	if cfg.PuzzlesCategory == "" {
		cfg.PuzzlesCategory = "Puzzles"
	}
	if cfg.VoiceCategory == "" {
		cfg.VoiceCategory = "Puzzle Voice Channels"
	}
	if len(cfg.ProtectedVoicePrefixes) == 0 {
		cfg.ProtectedVoicePrefixes = []string{"lobby", "general"}
	}
	return cfg, nil
}
