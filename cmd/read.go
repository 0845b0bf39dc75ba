package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var readLength int

var readCmd = &cobra.Command{
	Use:   "read <register>",
	Short: "Read a register from the selected I2C device",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := strconv.ParseUint(args[0], 0, 32)
		if err != nil {
			log.Error("Invalid register number", "register", args[0], "error", err)
			os.Exit(1)
		}

		ctx := context.Background()

		b, t, err := dialBridge(ctx)
		if err != nil {
			log.Error("Failed to connect to bridge", "error", err)
			os.Exit(1)
		}
		defer t.Close()

		value, err := b.ReadRegUint(ctx, uint32(reg), readLength)
		if err != nil {
			log.Error("Register read failed", "register", reg, "error", err)
			os.Exit(1)
		}

		fmt.Printf("register %#x = %d\n", reg, value)
	},
}

func init() {
	readCmd.Flags().IntVar(&readLength, "length", 1, "number of bytes to read")
}
