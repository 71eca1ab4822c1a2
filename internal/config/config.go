package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-ledmatrix/board"
	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

type Config struct {
	Driver   string `yaml:"driver"`            // "i2c" | "sim"
	Bus      string `yaml:"bus,omitempty"`     // periph i2creg name, "" for the first bus
	SpeedKHz int    `yaml:"speed_khz"`         // 0 leaves the bus default
	Board    string `yaml:"board"`             // see board.Kinds
	Address  uint8  `yaml:"address,omitempty"` // 0 selects the board default
	Frame    uint8  `yaml:"frame"`
	Gamma    bool   `yaml:"gamma"`
	FPS      int    `yaml:"fps"`
	Listen   string `yaml:"listen"`
	LogLevel string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		Driver:   "i2c",
		SpeedKHz: 400,
		Board:    board.Matrix.String(),
		Gamma:    true,
		FPS:      30,
		Listen:   ":8080",
		LogLevel: "info",
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Driver != "i2c" && c.Driver != "sim" {
		errs = append(errs, fmt.Errorf("driver %q: want i2c or sim", c.Driver))
	}
	if _, err := board.Parse(c.Board); err != nil {
		errs = append(errs, fmt.Errorf("board %q: %w", c.Board, err))
	}
	if c.Address > 0x7F {
		errs = append(errs, fmt.Errorf("address 0x%02x is not a 7-bit address", c.Address))
	}
	if c.Frame > is31fl3731.MaxFrame {
		errs = append(errs, fmt.Errorf("frame %d: %w", c.Frame, is31fl3731.ErrInvalidLocation))
	}
	if c.FPS < 0 || c.SpeedKHz < 0 {
		errs = append(errs, errors.New("fps and speed_khz must not be negative"))
	}
	return errors.Join(errs...)
}

// Kind returns the configured board. Validate must have passed.
func (c *Config) Kind() board.Kind {
	k, _ := board.Parse(c.Board)
	return k
}
