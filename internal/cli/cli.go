// Package cli implements the dockworks command-line interface.
//
// Commands that read a saved state file restore it into an in-memory
// desktop with a recording window system, so they run without a display:
//   - show: print every dock as a table
//   - validate: report skipped records and invariant violations
//   - compact: consolidate drawers and write the file back
//   - render: draw the desktop topology as SVG or DOT
//   - launch: run the command of a docked icon
//
// serve runs the engine for real: the dispatch loop, auto-behavior timers,
// the configured store and the HTTP API. sim is an interactive terminal
// simulator on the same engine.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging and
// --log-file to tee output into a rotating file.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dockworks/pkg/buildinfo"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dockworks"

	// defaultAddr is where serve listens unless --addr says otherwise.
	defaultAddr = "127.0.0.1:7878"
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

	stderr     io.Writer
	configPath string
	logFile    string
	logCloser  io.Closer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		stderr: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Close flushes and closes the log file, if one was opened.
func (c *CLI) Close() error {
	if c.logCloser == nil {
		return nil
	}
	return c.logCloser.Close()
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Dockworks is a dock, clip and drawer engine for desktop shells",
		Long:         `Dockworks places, snaps, compacts and persists application launcher icons in a screen dock, per-workspace clips and drawers.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.logFile != "" && c.logCloser == nil {
				c.logCloser = teeLogFile(c.Logger, c.stderr, c.logFile)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/dockworks/config.toml)")
	root.PersistentFlags().StringVar(&c.logFile, "log-file", "", "also write logs to this file, rotated at 10MB")

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.compactCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.simCommand())
	root.AddCommand(c.launchCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Paths
// =============================================================================

// configPathFor resolves the config file: the --config flag, then
// $XDG_CONFIG_HOME/dockworks/config.toml, then "" for the built-in lookup.
func configPathFor(flag string) string {
	if flag != "" {
		return flag
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		p := filepath.Join(dir, appName, "config.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
