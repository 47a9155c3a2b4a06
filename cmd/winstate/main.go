// Package main is the winstate command: a daemon that takes over one
// window's presentation and the clients that drive it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winstate/internal/config"
	"github.com/1broseidon/winstate/internal/daemon"
	"github.com/1broseidon/winstate/internal/ipc"
	"github.com/1broseidon/winstate/internal/mcp"
	"github.com/1broseidon/winstate/internal/tui"
)

var version = "dev"

// Global flags
var (
	debugMode  bool
	configPath string
	socketPath string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "winstate",
		Short: "Window presentation control",
		Long: `winstate - window presentation control

Attaches to one top-level window and manages its fullscreen and maximized
states, chrome, size, cursor confinement and pointer tracking. The daemon
serves commands over a local socket; every other subcommand is a client.`,
		Example: `  # Attach to a window by title and serve commands
  winstate daemon --title "My Game"

  # Toggle fullscreen on the attached window
  winstate fullscreen

  # Center a 1280x720 window
  winstate size 1280 720 --center

  # Stream pointer and state events
  winstate watch`,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: $XDG_CONFIG_HOME/winstate/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "Daemon socket path (default: ipc.socket or the runtime directory)")

	rootCmd.AddCommand(
		newDaemonCmd(),
		newStatusCmd(),
		newMonitorsCmd(),
		newToggleCmd("fullscreen", "Toggle fullscreen", (*ipc.Client).ToggleFullscreen),
		newToggleCmd("maximize", "Toggle maximize", (*ipc.Client).ToggleMaximize),
		newDisableCmd(),
		newSizeCmd(),
		newTitleCmd(),
		newClipCmd(),
		newUnclipCmd(),
		newCursorCmd(),
		newWatchCmd(),
		newReloadCmd(),
		newTUICmd(),
		newMCPCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// newClient resolves the socket from --socket, then ipc.socket in the
// config, then the runtime default.
func newClient() *ipc.Client {
	if socketPath != "" {
		return ipc.NewClientAt(socketPath)
	}
	if res, err := loadConfig(); err == nil && res.Config.IPC.Socket != "" {
		return ipc.NewClientAt(res.Config.IPC.Socket)
	}
	return ipc.NewClient()
}

func loadConfig() (*config.LoadResult, error) {
	if configPath == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(configPath)
}

func newDaemonCmd() *cobra.Command {
	var (
		headless bool
		windowID string
		title    string
		display  string
	)

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Attach to a window and serve commands",
		Long: `Attach to a window and serve commands over the local socket

The window is chosen by --window-id, then --title, then the config file's
window section, then the active window. On exit the window is restored
to the state it had when the daemon attached.`,
		Example: `  winstate daemon --title "My Game"
  winstate daemon --window-id 0x3a00007
  winstate daemon --headless --socket /tmp/winstate.sock`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := daemon.Options{
				ConfigPath: configPath,
				Headless:   headless,
				Title:      title,
				Display:    display,
				Debug:      debugMode,
				SocketPath: socketPath,
			}
			if windowID != "" {
				id, err := strconv.ParseUint(windowID, 0, 64)
				if err != nil {
					return fmt.Errorf("invalid --window-id %q: %w", windowID, err)
				}
				opts.WindowID = id
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return daemon.Run(ctx, opts)
		},
	}

	cmd.Flags().BoolVar(&headless, "headless", false, "Manage an in-memory window instead of a real one")
	cmd.Flags().StringVar(&windowID, "window-id", "", "Window ID to attach to (decimal or 0x hex)")
	cmd.Flags().StringVar(&title, "title", "", "Attach to the first window with this title")
	cmd.Flags().StringVar(&display, "display", "", "X display (default: $DISPLAY)")
	return cmd
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive control panel",
		Long: `Open an interactive control panel for the running daemon

Shows the window state, monitors and live events, and edits the config
file. Saving asks the daemon to reload.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(newClient(), configPath, debugMode)
		},
	}
}

func newMCPCmd() *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: `Start the MCP server on stdio

Exposes the daemon's commands as MCP tools. Designed to be launched by an
MCP client; the daemon must already be running.`,
		Example: `  winstate mcp serve`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := mcp.NewServer(newClient()).Run(ctx); err != nil && ctx.Err() == nil {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		},
	}

	mcpCmd.AddCommand(serveCmd)
	return mcpCmd
}
