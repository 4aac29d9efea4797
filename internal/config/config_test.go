package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SolvedCapacity != 50 {
		t.Errorf("SolvedCapacity = %d, want 50", cfg.SolvedCapacity)
	}
	if cfg.SolvedPrefix != "Solved" {
		t.Errorf("SolvedPrefix = %q", cfg.SolvedPrefix)
	}
	if cfg.SweepIntervalMinutes != 30 {
		t.Errorf("SweepIntervalMinutes = %d, want 30", cfg.SweepIntervalMinutes)
	}
	if len(cfg.ProtectedVoicePrefixes) != 2 {
		t.Errorf("ProtectedVoicePrefixes = %v", cfg.ProtectedVoicePrefixes)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `{
		"guild_id": "1234",
		"drive_root_folder": "Hunt 2026",
		"puzzles_category": "Unsorted Puzzles",
		"rounds_enabled": true,
		"start_party_size": 87
	}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.GuildID != "1234" {
		t.Errorf("GuildID = %q", cfg.GuildID)
	}
	if cfg.PuzzlesCategory != "Unsorted Puzzles" {
		t.Errorf("PuzzlesCategory = %q", cfg.PuzzlesCategory)
	}
	if !cfg.RoundsEnabled {
		t.Error("RoundsEnabled should be true")
	}
	if cfg.StartPartySize != 87 {
		t.Errorf("StartPartySize = %d", cfg.StartPartySize)
	}
	// Unset fields keep their defaults.
	if cfg.SolvedCapacity != 50 {
		t.Errorf("SolvedCapacity = %d, want 50", cfg.SolvedCapacity)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := `{"guild_id": "1234"}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("HUNTBOT_GUILD_ID", "5678")
	t.Setenv("HUNTBOT_DISCORD_TOKEN", "secret")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GuildID != "5678" {
		t.Errorf("GuildID = %q, want env override 5678", cfg.GuildID)
	}
	if cfg.DiscordToken != "secret" {
		t.Errorf("DiscordToken = %q", cfg.DiscordToken)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("Load should fail on malformed JSON")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should fail with no guild id")
	}

	cfg.GuildID = "1234"
	cfg.DiscordToken = "token"
	cfg.DriveRootFolder = "Hunt 2026"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}
