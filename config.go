package sipper

import (
	"io"
	"io/ioutil"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config is the engine configuration, loaded from a TOML file. Zero values
// are filled in with defaults, so an empty file is a valid configuration.
type Config struct {
	Port           string
	TimeoutSeconds float64
	PeriodSeconds  float64
	StaleSeconds   float64
	LogFile        string

	Metrics MetricsConfig
}

type MetricsConfig struct {
	Addr string
}

func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open config file %s", path)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

func LoadConfigFromReader(configReader io.Reader) (*Config, error) {
	configData, err := ioutil.ReadAll(configReader)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read config reader")
	}
	cfg := Config{}
	if _, err := toml.Decode(string(configData), &cfg); err != nil {
		return nil, errors.Wrap(err, "unable to load configuration")
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = "/dev/ttyUSB0"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 2
	}
	if c.PeriodSeconds == 0 {
		c.PeriodSeconds = 1
	}
	if c.StaleSeconds == 0 {
		c.StaleSeconds = 5
	}
}

func (c *Config) validate() error {
	if c.TimeoutSeconds < 0 || c.PeriodSeconds <= 0 || c.StaleSeconds <= 0 {
		return errors.New("timeouts must be positive")
	}
	return nil
}

func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

func (c *Config) CyclePeriod() time.Duration {
	return time.Duration(c.PeriodSeconds * float64(time.Second))
}

func (c *Config) StaleThreshold() time.Duration {
	return time.Duration(c.StaleSeconds * float64(time.Second))
}
