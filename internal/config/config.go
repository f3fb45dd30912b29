package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	DefaultExitKeyword   = "quit"
	DefaultMaxLineLength = 2048
	historyFileName      = ".jobshell_history"
)

type Config struct {
	HistoryFile   string `yaml:"history_file"`
	HomeDir       string `yaml:"home_dir"`
	ExitKeyword   string `yaml:"exit_keyword" validate:"required,alphanum"`
	MaxLineLength int    `yaml:"max_line_length" validate:"gte=1,lte=65536"`
	Debug         bool   `yaml:"debug"`
	LogFile       string `yaml:"log_file"`
}

// Default returns the configuration used when no file is present.
func Default() (*Config, error) {
	cfg := &Config{
		ExitKeyword:   DefaultExitKeyword,
		MaxLineLength: DefaultMaxLineLength,
	}
	if err := cfg.fillPaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads a YAML configuration from file. Missing keys, and a missing
// file, fall back to the defaults.
func Load(fsys afero.Fs, file string) (*Config, error) {
	cfg := &Config{
		ExitKeyword:   DefaultExitKeyword,
		MaxLineLength: DefaultMaxLineLength,
	}

	data, err := afero.ReadFile(fsys, file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
	}

	if err := cfg.fillPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", file, err)
	}
	return cfg, nil
}

// Validate the configuration for basic semantic errors.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	})
	return validate.Struct(c)
}

func (c *Config) fillPaths() error {
	if c.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.HomeDir = home
	}

	if c.HistoryFile == "" {
		c.HistoryFile = filepath.Join(c.HomeDir, historyFileName)
	}
	return nil
}
