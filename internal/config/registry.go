package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Registry struct {
	v *viper.Viper
}

func NewRegistry() *Registry {
	v := viper.New()

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 0)
	v.SetDefault("listener.host", "")
	v.SetDefault("listener.base_port", 30000)
	v.SetDefault("listener.port_attempts", 500)
	v.SetDefault("request.timeout", 1)
	v.SetDefault("request.max_attempts", 5)
	v.SetDefault("request.dns_timeout", 5)
	v.SetDefault("i2c.address", 0)
	v.SetDefault("i2c.register_width", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	return &Registry{
		v: v,
	}
}

func (r *Registry) LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		r.v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("Failed to get user home directory: %v", err)
		}

		configDir := filepath.Join(home, ".wifi-i2c")

		r.v.AddConfigPath(configDir)
		r.v.SetConfigName("config")
		r.v.SetConfigType("yaml")
	}

	if err := r.v.ReadInConfig(); err != nil {
		// Running entirely on defaults is fine; a file named explicitly
		// with --config must exist.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("Failed to read config: %v", err)
		}
	} else {
		r.v.OnConfigChange(func(e fsnotify.Event) {
			fmt.Printf("config file changed: %s\n", e.Name)
		})
		r.v.WatchConfig()
	}

	var cfg Config

	if err := r.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("Failed to unmarshal config: %v", err)
	}

	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("Error on validating config: %v", err)
	}

	return &cfg, nil
}

func (r *Registry) ConfigFile() string {
	return r.v.ConfigFileUsed()
}
