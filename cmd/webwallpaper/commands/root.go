package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bryanchriswhite/WebWallpaper/internal/api"
	"github.com/bryanchriswhite/WebWallpaper/internal/config"
	"github.com/bryanchriswhite/WebWallpaper/internal/logger"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "webwallpaper",
		Short: "WebWallpaper - a web page as your desktop wallpaper",
		Long: `WebWallpaper shows a web page behind your desktop icons and lets you
switch it into a normal interactive window and back with a hotkey.

Features:
  • Renders any URL or local HTML file as the wallpaper
  • Ctrl+Alt+W toggles between wallpaper and interactive window
  • Ctrl+Alt+M mutes, Ctrl+Alt+R reloads
  • Tray menu and start-at-login
  • Local control API for scripts`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Keep subcommand output clean; `run` reconfigures logging.
			level := viper.GetString("log_level")
			if level == "" {
				level = "warn"
			}
			logger.Init(logger.Options{Level: level})
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/webwallpaper/config.yaml)")
	rootCmd.PersistentFlags().Int("port", 0, fmt.Sprintf("control API port (default is %d)", config.DefaultPort))
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	// Bind flags to viper
	viper.BindPFlag("api_port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// Execute runs the root command
func Execute(v string) {
	version = v
	rootCmd.Version = v
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

func loadConfig() (*config.Manager, error) {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return configMgr, nil
}

// apiPort returns the --port flag, falling back to the configured port.
func apiPort() (int, error) {
	if port := viper.GetInt("api_port"); port > 0 {
		return port, nil
	}
	configMgr, err := loadConfig()
	if err != nil {
		return 0, err
	}
	return configMgr.GetPort(), nil
}

func newClient() (*api.Client, error) {
	port, err := apiPort()
	if err != nil {
		return nil, err
	}
	return api.NewClient(port), nil
}
