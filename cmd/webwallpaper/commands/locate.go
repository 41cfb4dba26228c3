package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bryanchriswhite/WebWallpaper/internal/app"
)

var locateTimeout time.Duration

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Find the desktop window the wallpaper would be attached to",
	Long: `Run the wallpaper host search once and print the window it finds.

Useful when the page shows up in front of the desktop icons instead of
behind them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), locateTimeout+5*time.Second)
		defer cancel()

		host, found, err := app.LocateHost(ctx, locateTimeout)
		if err != nil {
			return err
		}
		if !found {
			fmt.Println("No wallpaper host found; the page would stay an interactive window")
			return nil
		}
		fmt.Printf("Wallpaper host: %s\n", host)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)

	locateCmd.Flags().DurationVar(&locateTimeout, "timeout", time.Second, "how long to wait for the shell to create the host")
}
