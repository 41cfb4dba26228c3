package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bryanchriswhite/WebWallpaper/internal/notify"
)

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Read or change the saved wallpaper URL",
	Long: `Read or change the saved wallpaper URL without a running instance.

A running instance notices the change and loads the new page.`,
}

var urlGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the saved URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configMgr, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Println(configMgr.GetURL())
		return nil
	},
}

var urlSetNotify bool

var urlSetCmd = &cobra.Command{
	Use:   "set URL",
	Short: "Save a new URL",
	Example: `  # Stored as https://example.com
  webwallpaper url set example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configMgr, err := loadConfig()
		if err != nil {
			return err
		}
		url, err := configMgr.SetURL(args[0])
		if err != nil {
			if urlSetNotify {
				notify.ShowError(fmt.Sprintf("Invalid URL %q: %v", args[0], err))
			}
			return fmt.Errorf("failed to set url: %w", err)
		}
		fmt.Printf("✅ URL saved: %s\n", url)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(urlCmd)
	urlCmd.AddCommand(urlGetCmd)
	urlCmd.AddCommand(urlSetCmd)

	urlSetCmd.Flags().BoolVar(&urlSetNotify, "notify", false, "also report an invalid URL in a desktop dialog")
}
