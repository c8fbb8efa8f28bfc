package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"plan", "sources", "graph", "edit", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestGraphCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	graph, _, err := root.Find([]string{"graph"})
	if err != nil {
		t.Fatalf("Find(graph) error: %v", err)
	}
	want := []string{"stats", "export", "import", "save", "load", "reset", "render"}
	for _, name := range want {
		found := false
		for _, cmd := range graph.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("graph command is missing subcommand %q", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.SetLogLevel(LogDebug)
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("log level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestConfigDir(t *testing.T) {
	oldXdg := os.Getenv("XDG_CONFIG_HOME")
	os.Unsetenv("XDG_CONFIG_HOME")
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CONFIG_HOME", oldXdg)
		}
	}()

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".config", appName)
	if dir != expected {
		t.Errorf("configDir() = %q, want %q", dir, expected)
	}
}

func TestConfigDirXDG(t *testing.T) {
	customConfig := "/tmp/custom-config"
	oldXdg := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", customConfig)
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CONFIG_HOME", oldXdg)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
	}()

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}

	expected := filepath.Join(customConfig, appName)
	if dir != expected {
		t.Errorf("configDir() with XDG_CONFIG_HOME = %q, want %q", dir, expected)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Start != "mir" {
		t.Errorf("default Start = %q, want mir", cfg.Start)
	}
	if cfg.Storage.Backend != StorageFile {
		t.Errorf("default backend = %q, want file", cfg.Storage.Backend)
	}
	if cfg.Chapter != 0 {
		t.Errorf("default Chapter = %d, want 0", cfg.Chapter)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
chapter = 2
start = "ryba"
unlocks = ["boat_dock"]

[storage]
backend = "redis"
redis_addr = "localhost:6379"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Chapter != 2 || cfg.Start != "ryba" {
		t.Errorf("cfg = %+v, want chapter 2 start ryba", cfg)
	}
	if cfg.Storage.Backend != StorageRedis || cfg.Storage.RedisAddr != "localhost:6379" {
		t.Errorf("storage = %+v, want redis backend", cfg.Storage)
	}
	if set := cfg.UnlockSet(); !set["boat_dock"] {
		t.Errorf("UnlockSet() = %v, want boat_dock", set)
	}
}

func TestLoadConfigRejectsMissingExplicitPath(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("LoadConfig() with a missing explicit path should fail")
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[storage]\nbackend = \"mongo\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown storage backend")
	}
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("chapter = "), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestPlanCommandRequiresSelection(t *testing.T) {
	c := New(io.Discard, LogInfo)
	cmd := c.planCommand()
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "nothing selected") {
		t.Errorf("expected selection error, got %v", err)
	}
}
