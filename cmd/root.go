package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/DouglasWWolf/wifi-i2c/internal/bridge"
	"github.com/DouglasWWolf/wifi-i2c/internal/config"
	wlog "github.com/DouglasWWolf/wifi-i2c/internal/log"
	"github.com/DouglasWWolf/wifi-i2c/internal/transport"
	"github.com/DouglasWWolf/wifi-i2c/internal/version"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	cfgRegistry *config.Registry
	cfg         *config.Config
	log         *wlog.Logger

	rootCmd = &cobra.Command{
		Use:   "wifi-i2c",
		Short: "Control I2C devices behind a WiFi bridge",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
)

func Execute() error {
	defer func() {
		if log != nil {
			if err := log.Close(); err != nil {
				fmt.Printf("Failed to close logger: %v\n", err)
			}
		}
	}()
	return rootCmd.Execute()
}

func init() {
	cfgRegistry = config.NewRegistry()
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.wifi-i2c/config.yaml)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(blinkCmd)
}

func initConfig() {
	var err error
	cfg, err = cfgRegistry.LoadConfig(cfgFile)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err = wlog.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	log.Debug("Configuration loaded successfully",
		"config_file", cfgRegistry.ConfigFile(),
		"version", version.Version,
		"server_host", cfg.Server.Host,
		"server_port", cfg.Server.Port,
		"listener_base_port", cfg.Listener.BasePort,
		"request_timeout", cfg.Request.Timeout,
		"request_max_attempts", cfg.Request.MaxAttempts,
	)
}

// dialBridge brings up the full stack for a subcommand: listener,
// connected transport, and the register API bound to the configured
// I2C address.
func dialBridge(ctx context.Context) (*bridge.Bridge, *transport.Transport, error) {
	lis, err := transport.NewListener(cfg.Listener.Host, cfg.Listener.BasePort, cfg.Listener.PortAttempts, log)
	if err != nil {
		return nil, nil, err
	}

	opts := transport.Options{
		Timeout:     time.Duration(cfg.Request.Timeout) * time.Second,
		DNSTimeout:  time.Duration(cfg.Request.DNSTimeout) * time.Second,
		MaxAttempts: cfg.Request.MaxAttempts,
	}

	t := transport.New(lis, opts, log)
	if err := t.Connect(ctx, cfg.Server.Host, cfg.Server.Port); err != nil {
		t.Close()
		return nil, nil, err
	}

	b, err := bridge.New(t, cfg.I2C.RegisterWidth, log)
	if err != nil {
		t.Close()
		return nil, nil, err
	}

	if err := b.SetAddress(ctx, byte(cfg.I2C.Address)); err != nil {
		t.Close()
		return nil, nil, err
	}

	return b, t, nil
}
