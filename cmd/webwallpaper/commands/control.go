package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryanchriswhite/WebWallpaper/internal/api"
	"github.com/bryanchriswhite/WebWallpaper/internal/wallpaper"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch the running wallpaper between background and interactive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return control(func(c *api.Client) (wallpaper.State, error) { return c.Toggle() })
	},
}

var modeCmd = &cobra.Command{
	Use:   "mode background|foreground",
	Short: "Put the running wallpaper into a specific mode",
	Example: `  # Send the page behind the desktop icons
  webwallpaper mode background

  # Make it a normal interactive window
  webwallpaper mode fg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := wallpaper.ParseMode(args[0])
		if err != nil {
			return err
		}
		return control(func(c *api.Client) (wallpaper.State, error) { return c.SetMode(mode) })
	},
}

var muteCmd = &cobra.Command{
	Use:   "mute [on|off|toggle]",
	Short: "Mute or unmute the page audio",
	Long:  `Mute or unmute the page audio. Without an argument the state is toggled.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "toggle"
		if len(args) == 1 {
			action = strings.ToLower(args[0])
		}
		switch action {
		case "on", "true":
			return control(func(c *api.Client) (wallpaper.State, error) { return c.SetMuted(true) })
		case "off", "false":
			return control(func(c *api.Client) (wallpaper.State, error) { return c.SetMuted(false) })
		case "toggle":
			return control(func(c *api.Client) (wallpaper.State, error) { return c.ToggleMute() })
		default:
			return fmt.Errorf("unknown mute action %q (use on, off or toggle)", args[0])
		}
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return control(func(c *api.Client) (wallpaper.State, error) { return c.Reload() })
	},
}

var navigateCmd = &cobra.Command{
	Use:   "navigate URL",
	Short: "Load a new page in the running wallpaper and remember it",
	Example: `  # Scheme is optional, https is assumed
  webwallpaper navigate example.com

  # Local files need the file:/// prefix
  webwallpaper navigate file:///home/me/wallpaper/index.html`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return control(func(c *api.Client) (wallpaper.State, error) { return c.Navigate(args[0]) })
	},
}

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the running wallpaper",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		state, err := client.State()
		if err != nil {
			return err
		}
		switch statusFormat {
		case "json":
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(state)
		case "text":
			printState(state)
			return nil
		default:
			return fmt.Errorf("unsupported format: %s (use 'text' or 'json')", statusFormat)
		}
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd, modeCmd, muteCmd, reloadCmd, navigateCmd, statusCmd)

	statusCmd.Flags().StringVarP(&statusFormat, "format", "f", "text", "output format (text or json)")
}

// control runs one request against the running instance and prints the
// resulting state.
func control(do func(*api.Client) (wallpaper.State, error)) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	state, err := do(client)
	if err != nil {
		return err
	}
	printState(state)
	return nil
}

func printState(s wallpaper.State) {
	fmt.Printf("Mode:   %s\n", s.Mode)
	fmt.Printf("Muted:  %t\n", s.Muted)
	fmt.Printf("URL:    %s\n", s.URL)
	if s.Host != 0 {
		fmt.Printf("Host:   %s\n", s.Host)
	} else {
		fmt.Println("Host:   (none)")
	}
	if !s.Ready {
		fmt.Println("Renderer is not ready")
	}
}
