package config

import (
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// TimeZone is the session timezone applied when converting time values
	// to their foreign form.
	TimeZone    string `yaml:"timezone"`
	ProgressBar bool   `yaml:"progressBar"`
	Debug       bool   `yaml:"debug"`
}

func Default() *Config {
	return &Config{
		TimeZone:    "UTC",
		ProgressBar: true,
	}
}

// DefaultPath is ~/.starql.yml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "couldn't resolve home directory")
	}
	return filepath.Join(home, ".starql.yml"), nil
}

// Read loads the configuration at path. A missing file yields the defaults.
func Read(path string) (*Config, error) {
	config := Default()

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "couldn't open configuration file")
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml configuration")
	}
	return config, nil
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't load timezone %s", c.TimeZone)
	}
	return loc, nil
}
