package config

type LogConfig struct {
	Dir    string `mapstructure:"dir"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

type ServerConfig struct {
	Host string `mapstructure:"host"` // empty connects to the AP-mode default
	Port int    `mapstructure:"port" validate:"min=0,max=65535"` // 0 selects the default port (1182)
}

type ListenerConfig struct {
	Host         string `mapstructure:"host"`
	BasePort     int    `mapstructure:"base_port" validate:"required,min=1024,max=65535"`
	PortAttempts int    `mapstructure:"port_attempts" validate:"required,min=1"`
}

type RequestConfig struct {
	Timeout     int `mapstructure:"timeout" validate:"required,min=1"` // per-attempt timeout in seconds
	MaxAttempts int `mapstructure:"max_attempts" validate:"required,min=1"`
	DNSTimeout  int `mapstructure:"dns_timeout" validate:"required,min=1"` // seconds
}

type I2CConfig struct {
	Address       int `mapstructure:"address" validate:"min=0,max=127"` // address 0 is the bridge's built-in virtual device
	RegisterWidth int `mapstructure:"register_width" validate:"required,oneof=1 2 4"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Listener ListenerConfig `mapstructure:"listener"`
	Request  RequestConfig  `mapstructure:"request"`
	I2C      I2CConfig      `mapstructure:"i2c"`
	Log      LogConfig      `mapstructure:"log"`
}
