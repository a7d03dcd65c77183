package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/asnowfix/wololo/internal/providers/fritzbox"
	"github.com/asnowfix/wololo/pkg/wol"

	"github.com/spf13/viper"
)

const Name = "wololo"

type Config struct {
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Machines []string `mapstructure:"machines"`
	FritzBox FritzBox `mapstructure:"fritzbox"`
	Wol      Wol      `mapstructure:"wol"`
	Mdns     Mdns     `mapstructure:"mdns"`
	Metrics  Metrics  `mapstructure:"metrics"`
}

type FritzBox struct {
	Enabled     bool          `mapstructure:"enabled"`
	URL         string        `mapstructure:"url"` // empty: the default gateway
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	Refresh     time.Duration `mapstructure:"refresh"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
}

type Wol struct {
	Broadcast string `mapstructure:"broadcast"`
}

type Mdns struct {
	Enabled  bool   `mapstructure:"enabled"`
	Instance string `mapstructure:"instance"`
}

type Metrics struct {
	Enabled bool `mapstructure:"enabled"`
}

// New returns a viper instance with every key defaulted, so that WOLOLO_* environment
// variables are honoured for all of them.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 3000)
	v.SetDefault("machines", []string{})
	v.SetDefault("fritzbox.enabled", false)
	v.SetDefault("fritzbox.url", "")
	v.SetDefault("fritzbox.username", "")
	v.SetDefault("fritzbox.password", "")
	v.SetDefault("fritzbox.refresh", fritzbox.DefaultRefreshInterval)
	v.SetDefault("fritzbox.timeout", fritzbox.DefaultTimeout)
	v.SetDefault("fritzbox.concurrency", fritzbox.DefaultConcurrency)
	v.SetDefault("wol.broadcast", wol.DefaultBroadcast)
	v.SetDefault("mdns.enabled", false)
	v.SetDefault("mdns.instance", "WoLolo")
	v.SetDefault("metrics.enabled", true)

	v.SetEnvPrefix(strings.ToUpper(Name))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file, or the first wololo.{yaml,json,toml} found in the search path when file is
// empty. A missing config file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(Name)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/" + Name)
		v.AddConfigPath("/etc/" + Name)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.FritzBox.Refresh < 0 || c.FritzBox.Timeout < 0 || c.FritzBox.Concurrency < 0 {
		return fmt.Errorf("invalid fritzbox settings: refresh=%v timeout=%v concurrency=%d", c.FritzBox.Refresh, c.FritzBox.Timeout, c.FritzBox.Concurrency)
	}
	if _, _, err := net.SplitHostPort(c.Wol.Broadcast); err != nil {
		return fmt.Errorf("invalid wol.broadcast %q: %w", c.Wol.Broadcast, err)
	}
	return nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

