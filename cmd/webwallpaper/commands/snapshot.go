package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryanchriswhite/WebWallpaper/internal/capture"
)

var (
	snapshotOutput  string
	snapshotQuality int
	snapshotCaption bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save an image of what the running wallpaper is showing",
	Long: `Capture the rendered page of the running instance, even while it sits
behind the desktop icons. The format follows the output file extension.

A live preview is served at http://127.0.0.1:<port>/api/preview.`,
	Example: `  # Save as PNG
  webwallpaper snapshot -o wallpaper.png

  # Save a smaller JPEG
  webwallpaper snapshot -o wallpaper.jpg --quality 60`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := capture.ParseFormat(strings.TrimPrefix(filepath.Ext(snapshotOutput), "."))
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		data, err := client.Snapshot(format, snapshotQuality, snapshotCaption)
		if err != nil {
			return fmt.Errorf("failed to capture wallpaper: %w", err)
		}
		if err := os.WriteFile(snapshotOutput, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", snapshotOutput, err)
		}
		fmt.Printf("✅ Saved %s (%d bytes)\n", snapshotOutput, len(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "wallpaper.png", "file to write (.png or .jpg)")
	snapshotCmd.Flags().IntVar(&snapshotQuality, "quality", 0, "JPEG quality 1-100")
	snapshotCmd.Flags().BoolVar(&snapshotCaption, "caption", false, "label the image with the mode, mute state and URL")
}
