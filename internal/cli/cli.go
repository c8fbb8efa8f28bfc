package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/isofar/wayfinder/pkg/buildinfo"
	"github.com/isofar/wayfinder/pkg/editor"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "wayfinder"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
}

// New creates a new CLI instance with a default logger and the config
// loaded from disk (or defaults when no config file exists).
func New(w io.Writer, level log.Level) *CLI {
	cfg, err := LoadConfig("")
	logger := newLogger(w, level)
	if err != nil {
		logger.Warn("ignoring invalid config file", "err", err)
		cfg = DefaultConfig()
	}
	return &CLI{
		Logger: logger,
		Config: cfg,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// ReloadConfig replaces the loaded config with the file at path.
// Unlike the constructor, an unreadable explicit path is an error.
func (c *CLI) ReloadConfig(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Wayfinder plans collection routes across the world map",
		Long:         `Wayfinder is a route planning companion: select the items you want to craft and it computes the shortest tour that visits a source for every required material, taking unlocked crossings into account.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.planCommand())
	root.AddCommand(c.sourcesCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Session Factory
// =============================================================================

// openStore creates the snapshot store configured in the config file.
func (c *CLI) openStore(ctx context.Context) (editor.SnapshotStore, error) {
	if c.Config.Storage.Backend == StorageRedis {
		return editor.NewRedisStore(ctx, editor.RedisConfig{
			Addr:     c.Config.Storage.RedisAddr,
			Password: c.Config.Storage.RedisPassword,
			DB:       c.Config.Storage.RedisDB,
		})
	}
	return editor.NewFileStore(c.Config.Storage.Dir)
}

// openSession opens an editing session over the configured store,
// starting from the persisted map or the embedded default.
func (c *CLI) openSession(ctx context.Context) (*editor.Session, error) {
	store, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := editor.NewSession(ctx, store)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("session opened",
		"id", sess.ID,
		"nodes", sess.Graph().NodeCount(),
		"edges", sess.Graph().EdgeCount())
	return sess, nil
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/wayfinder/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
