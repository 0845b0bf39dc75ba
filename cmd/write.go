package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var writeCmd = &cobra.Command{
	Use:   "write <register> <value>",
	Short: "Write a value to a register on the selected I2C device",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := strconv.ParseUint(args[0], 0, 32)
		if err != nil {
			log.Error("Invalid register number", "register", args[0], "error", err)
			os.Exit(1)
		}

		value, err := strconv.ParseUint(args[1], 0, 64)
		if err != nil {
			log.Error("Invalid register value", "value", args[1], "error", err)
			os.Exit(1)
		}

		ctx := context.Background()

		b, t, err := dialBridge(ctx)
		if err != nil {
			log.Error("Failed to connect to bridge", "error", err)
			os.Exit(1)
		}
		defer t.Close()

		if err := b.WriteRegUint(ctx, uint32(reg), value); err != nil {
			log.Error("Register write failed", "register", reg, "error", err)
			os.Exit(1)
		}

		log.Info("Register written", "register", reg, "value", value)
	},
}
