package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bryanchriswhite/WebWallpaper/internal/autostart"
)

var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Start WebWallpaper when you log in",
}

var autostartEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Start with the session",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, args []string) error { return setAutostart(true) },
}

var autostartDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Do not start with the session",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, args []string) error { return setAutostart(false) },
}

var autostartStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether autostart is enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := autostart.New()
		if err != nil {
			return err
		}
		enabled, err := m.Enabled()
		if err != nil {
			return fmt.Errorf("failed to read autostart: %w", err)
		}
		fmt.Printf("%s: %t\n", m.Label(), enabled)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(autostartCmd)
	autostartCmd.AddCommand(autostartEnableCmd)
	autostartCmd.AddCommand(autostartDisableCmd)
	autostartCmd.AddCommand(autostartStatusCmd)
}

func setAutostart(enabled bool) error {
	m, err := autostart.New()
	if err != nil {
		return err
	}
	if err := autostart.Set(m, enabled); err != nil {
		return fmt.Errorf("failed to change autostart: %w", err)
	}
	if enabled {
		fmt.Println("✅ Autostart enabled")
	} else {
		fmt.Println("✅ Autostart disabled")
	}
	return nil
}
