package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/born-ml/npyio/npy"
)

// config holds the settings shared by all commands.
type config struct {
	LogLevel    logrus.Level
	Concurrency int
	Digest      npy.DigestAlgorithm
	Validation  npy.ValidationLevel
	DumpLimit   int
}

func defaultConfig() config {
	return config{
		LogLevel:    logrus.InfoLevel,
		Concurrency: runtime.NumCPU(),
		Digest:      npy.DigestSHA256,
		Validation:  npy.ValidationStrict,
		DumpLimit:   100,
	}
}

type fileConfig struct {
	LogLevel    string `toml:"log_level"`
	Concurrency int    `toml:"concurrency"`
	Digest      string `toml:"digest"`
	Validation  string `toml:"validation"`
	DumpLimit   int    `toml:"dump_limit"`
}

// loadConfig overlays the keys defined in a TOML file on the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load npy config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load npy config: unknown keys %v", undecoded)
	}

	if meta.IsDefined("log_level") {
		if err := cfg.setLogLevel(raw.LogLevel); err != nil {
			return config{}, err
		}
	}

	if meta.IsDefined("concurrency") {
		if err := cfg.setConcurrency(raw.Concurrency); err != nil {
			return config{}, err
		}
	}

	if meta.IsDefined("digest") {
		if err := cfg.setDigest(raw.Digest); err != nil {
			return config{}, err
		}
	}

	if meta.IsDefined("validation") {
		if err := cfg.setValidation(raw.Validation); err != nil {
			return config{}, err
		}
	}

	if meta.IsDefined("dump_limit") {
		cfg.DumpLimit = raw.DumpLimit
	}

	return cfg, nil
}

func (c *config) setLogLevel(s string) error {
	level, err := logrus.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("parse log_level: %w", err)
	}
	c.LogLevel = level
	return nil
}

func (c *config) setConcurrency(n int) error {
	if n < 1 {
		return fmt.Errorf("concurrency should be greater than 0, got %d", n)
	}
	c.Concurrency = n
	return nil
}

func (c *config) setDigest(s string) error {
	algo, err := npy.ParseDigestAlgorithm(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("parse digest: %w", err)
	}
	c.Digest = algo
	return nil
}

func (c *config) setValidation(s string) error {
	level, err := npy.ParseValidationLevel(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("parse validation: %w", err)
	}
	c.Validation = level
	return nil
}

func (c config) readerOptions(logger logrus.FieldLogger) npy.ReaderOptions {
	return npy.ReaderOptions{ValidationLevel: c.Validation, Logger: logger}
}
