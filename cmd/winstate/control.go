package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winstate/internal/config"
	"github.com/1broseidon/winstate/internal/events"
	"github.com/1broseidon/winstate/internal/ipc"
)

func newStatusCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the managed window's state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := newClient().GetStatus()
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(status)
			}
			fmt.Print(renderStatus(status, isTTY(os.Stdout)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newMonitorsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "monitors",
		Short: "List displays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newClient().GetMonitors()
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(data)
			}
			fmt.Print(renderMonitors(data.Monitors, isTTY(os.Stdout)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newToggleCmd(use, short string, toggle func(*ipc.Client) (*ipc.StateData, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := toggle(newClient())
			if err != nil {
				return err
			}
			fmt.Println(state.State)
			return nil
		},
	}
}

func newDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "disable <maximize|minimize|resize>",
		Short:     "Remove a window control",
		Long:      "Remove the maximize button, the minimize button or the resize border. Removed controls come back when the daemon exits.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{ipc.DisableMaximize, ipc.DisableMinimize, ipc.DisableResize},
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().Disable(strings.ToLower(args[0]))
		},
	}
}

func newSizeCmd() *cobra.Command {
	var (
		x, y   int
		center bool
		client bool
	)
	cmd := &cobra.Command{
		Use:   "size [width height]",
		Short: "Get or set the window size",
		Long: `Get or set the window size

With no arguments, prints the window's normal rectangle: the one it returns
to when it leaves fullscreen or maximized. With a width and height, resizes
the window and leaves fullscreen or maximized first.`,
		Example: `  winstate size
  winstate size 1280 720 --center
  winstate size 800 600 --x 0 --y 0 --client`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("size takes no arguments or <width> <height>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			if len(args) == 0 {
				rect, err := c.GetWindowSize()
				if err != nil {
					return err
				}
				fmt.Printf("%d %d %d %d\n", rect.X, rect.Y, rect.Width, rect.Height)
				return nil
			}

			width, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid width %q", args[0])
			}
			height, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid height %q", args[1])
			}
			if center {
				x = config.CenterX
			}
			rect, err := c.SetWindowSize(x, y, width, height, client)
			if err != nil {
				return err
			}
			fmt.Printf("%d %d %d %d\n", rect.X, rect.Y, rect.Width, rect.Height)
			return nil
		},
	}
	cmd.Flags().IntVar(&x, "x", 0, "Left edge")
	cmd.Flags().IntVar(&y, "y", 0, "Top edge")
	cmd.Flags().BoolVar(&center, "center", false, "Center on the primary display (ignores --x and --y)")
	cmd.Flags().BoolVar(&client, "client", false, "Width and height describe the client area")
	return cmd
}

func newTitleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "title <text>",
		Short: "Set the window title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().SetTitle(strings.Join(args, " "))
		},
	}
}

func newClipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clip",
		Short: "Confine the cursor to the window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().ClipCursor()
		},
	}
}

func newUnclipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unclip",
		Short: "Restore the cursor confinement saved by clip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().RestoreCursorClip()
		},
	}
}

func newCursorCmd() *cobra.Command {
	cursorCmd := &cobra.Command{
		Use:   "cursor",
		Short: "Move, show or hide the cursor",
	}

	point := func(args []string) (int, int, error) {
		x, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid x %q", args[0])
		}
		y, err := strconv.Atoi(args[1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid y %q", args[1])
		}
		return x, y, nil
	}

	moveCmd := &cobra.Command{
		Use:   "move <x> <y>",
		Short: "Move the cursor relative to the client area",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := point(args)
			if err != nil {
				return err
			}
			return newClient().MoveCursor(x, y)
		},
	}
	posCmd := &cobra.Command{
		Use:   "pos <x> <y>",
		Short: "Move the cursor to a screen position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := point(args)
			if err != nil {
				return err
			}
			return newClient().SetCursorPos(x, y)
		},
	}
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the cursor over the window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().SetCursorVisible(true)
		},
	}
	hideCmd := &cobra.Command{
		Use:   "hide",
		Short: "Hide the cursor over the window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().SetCursorVisible(false)
		},
	}

	cursorCmd.AddCommand(moveCmd, posCmd, showCmd, hideCmd)
	return cursorCmd
}

func newWatchCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream pointer enter/leave and state change events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			enc := json.NewEncoder(os.Stdout)
			return newClient().Watch(ctx, func(ev events.Event) {
				if asJSON {
					enc.Encode(ev)
					return
				}
				fmt.Println(formatEvent(ev))
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per event")
	return cmd
}

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Ask the daemon to reload its config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().Reload(); err != nil {
				return err
			}
			fmt.Println("reload requested")
			return nil
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
