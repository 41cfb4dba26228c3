package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bryanchriswhite/WebWallpaper/internal/app"
	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Show the web page as the desktop wallpaper",
	Long: `Start WebWallpaper. The configured page is placed behind the desktop
icons; the toggle hotkey brings it forward as an interactive window.

The process runs until Quit is chosen from the tray, the window is closed,
or it receives an interrupt.`,
	Example: `  # Start with the saved settings
  webwallpaper run

  # Start without the tray icon and with debug logging
  webwallpaper run --no-tray --log-level debug

  # Serve the control API on another port
  webwallpaper run --port 9090`,
	RunE: runRun,
}

var (
	runNoTray    bool
	runNoHotkeys bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runNoTray, "no-tray", false, "do not show the tray icon")
	runCmd.Flags().BoolVar(&runNoHotkeys, "no-hotkeys", false, "do not register global hotkeys")
}

func runRun(cmd *cobra.Command, args []string) error {
	configMgr, err := loadConfig()
	if err != nil {
		return err
	}

	// Override log level from flag if provided
	cfg := configMgr.Get()
	level := cfg.LogLevel
	if viper.IsSet("log_level") && viper.GetString("log_level") != "" {
		level = viper.GetString("log_level")
	}
	logger.Init(logger.Options{Level: level, File: cfg.LogFile})
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, app.Options{
		Config:    configMgr,
		Version:   version,
		Port:      viper.GetInt("api_port"),
		NoTray:    runNoTray,
		NoHotkeys: runNoHotkeys,
	}); err != nil {
		logger.WithComponent("main").Error().Err(err).Msg("WebWallpaper stopped")
		return fmt.Errorf("webwallpaper: %w", err)
	}
	return nil
}
