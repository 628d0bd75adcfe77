package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	FritzBox FritzBoxConfig `mapstructure:"fritzbox"`
	Poller   PollerConfig   `mapstructure:"poller"`
	Server   ServerConfig   `mapstructure:"server"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
}

type FritzBoxConfig struct {
	Host        string        `mapstructure:"host" validate:"required,url"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password" validate:"required"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	SIDLifetime time.Duration `mapstructure:"sid_lifetime" validate:"gt=0"`
	Endpoints   []string      `mapstructure:"endpoints" validate:"min=1,dive,startswith=/"`
}

type PollerConfig struct {
	Interval           time.Duration `mapstructure:"interval" validate:"gte=1s"`
	EndpointResetAfter int           `mapstructure:"endpoint_reset_after" validate:"gte=1"`
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr" validate:"required"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret" validate:"required,min=16"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fritzbox.host", "http://fritz.box")
	v.SetDefault("fritzbox.username", "")
	v.SetDefault("fritzbox.password", "")
	v.SetDefault("fritzbox.timeout", 5*time.Second)
	v.SetDefault("fritzbox.sid_lifetime", 9*time.Minute)
	v.SetDefault("fritzbox.endpoints", []string{"/luaquery.lua", "/query.lua"})

	v.SetDefault("poller.interval", 5*time.Minute)
	v.SetDefault("poller.endpoint_reset_after", 2)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{})

	v.SetDefault("jwt.secret", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
}

// Load reads settings.yml from ./configs or /configs, or the file given in
// path when it is non-empty. Environment variables override file values,
// e.g. FRITZBOX_PASSWORD for fritzbox.password.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDevice is Load for the one-shot router check. Only the fritzbox and log
// sections are validated, so server and jwt settings may still be missing.
func LoadDevice(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	validate := validator.New()
	for _, section := range []any{cfg.FritzBox, cfg.Log} {
		if err := validate.Struct(section); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return cfg, nil
}

func read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("./configs")
		v.AddConfigPath("/configs")
		v.SetConfigName("settings")
		v.SetConfigType("yml")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
