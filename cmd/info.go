package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show bridge firmware revision and signal strength",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		b, t, err := dialBridge(ctx)
		if err != nil {
			log.Error("Failed to connect to bridge", "error", err)
			os.Exit(1)
		}
		defer t.Close()

		rev, err := b.FirmwareRevision(ctx)
		if err != nil {
			log.Error("Failed to read firmware revision", "error", err)
			os.Exit(1)
		}

		rssi, err := b.SignalStrength(ctx)
		if err != nil {
			log.Error("Failed to read signal strength", "error", err)
			os.Exit(1)
		}

		fmt.Printf("firmware revision %d\n", rev)
		fmt.Printf("signal strength %d dBm\n", rssi)
	},
}
