package cmd

import (
	"os"

	"github.com/DouglasWWolf/wifi-i2c/internal/transport"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Run: func(cmd *cobra.Command, args []string) {
		log.Info("Starting validation...")

		// Prove a reply port can be bound from the configured candidate range
		lis, err := transport.NewListener(cfg.Listener.Host, cfg.Listener.BasePort, cfg.Listener.PortAttempts, log)
		if err != nil {
			log.Error("No listener port is available",
				"base_port", cfg.Listener.BasePort,
				"port_attempts", cfg.Listener.PortAttempts,
				"error", err,
			)
			os.Exit(1)
		}
		port := lis.Port()
		lis.Close()
		log.Info("Listener port is available", "port", port)

		log.Info("Validation completed successfully")
	},
}
