package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// MCP23008 port expander demo: a red LED on pin 5 and a green LED on
// pin 6, flashed alternately.
const (
	mcp23008Address   = 0x23
	mcp23008Direction = 0x00
	mcp23008GPIO      = 0x09

	greenLED = 1 << 6
	redLED   = 1 << 5
)

var blinkCount int

var blinkCmd = &cobra.Command{
	Use:   "blink",
	Short: "Flash the LEDs on an MCP23008 at address 0x23",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		b, t, err := dialBridge(ctx)
		if err != nil {
			log.Error("Failed to connect to bridge", "error", err)
			os.Exit(1)
		}
		defer t.Close()

		if err := b.SetAddress(ctx, mcp23008Address); err != nil {
			log.Error("Failed to select device", "error", err)
			os.Exit(1)
		}

		// Bottom five pins as inputs, the top three as outputs
		if err := b.WriteRegUint(ctx, mcp23008Direction, 0x1F); err != nil {
			log.Error("Failed to set pin directions", "error", err)
			os.Exit(1)
		}

		for reg := uint32(0); reg < 10; reg++ {
			val, err := b.ReadRegUint(ctx, reg, 1)
			if err != nil {
				log.Error("Register dump failed", "register", reg, "error", err)
				os.Exit(1)
			}
			fmt.Printf("register %d has value %d\n", reg, val)
		}

		for i := 0; blinkCount == 0 || i < blinkCount; i++ {
			if err := b.WriteRegUint(ctx, mcp23008GPIO, greenLED); err != nil {
				log.Error("LED write failed", "error", err)
				os.Exit(1)
			}
			time.Sleep(250 * time.Millisecond)

			if err := b.WriteRegUint(ctx, mcp23008GPIO, redLED); err != nil {
				log.Error("LED write failed", "error", err)
				os.Exit(1)
			}
			time.Sleep(250 * time.Millisecond)
		}
	},
}

func init() {
	blinkCmd.Flags().IntVar(&blinkCount, "count", 0, "number of blink cycles, 0 runs forever")
}
