// Package config loads the enginebus configuration.
//
// Configuration comes from three places, later ones winning:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, chosen by extension
//  3. ENGINEBUS_* environment variables
//
// Watch reloads the file when it changes on disk.
package config

import (
	"fmt"
	"strings"
)

// Config is the complete configuration.
type Config struct {
	Log     LogConfig     `toml:"log" yaml:"log"`
	Bus     BusConfig     `toml:"bus" yaml:"bus"`
	Input   InputConfig   `toml:"input" yaml:"input"`
	Scripts ScriptsConfig `toml:"scripts" yaml:"scripts"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`

	// Format is text or json.
	Format string `toml:"format" yaml:"format"`
}

// BusConfig configures the message bus.
type BusConfig struct {
	// FailureReports publishes listener failures on the errorsystem topic.
	FailureReports bool `toml:"failure_reports" yaml:"failure_reports"`

	// DispatchLogging logs every routed publish at debug level.
	DispatchLogging bool `toml:"dispatch_logging" yaml:"dispatch_logging"`
}

// InputConfig configures the terminal input bridge.
type InputConfig struct {
	// Mouse enables mouse reporting.
	Mouse bool `toml:"mouse" yaml:"mouse"`

	// QuitKey is the tcell name of the key that stops input, e.g. "Esc".
	QuitKey string `toml:"quit_key" yaml:"quit_key"`

	// IOEcho also publishes an iosystem message for every input.
	IOEcho bool `toml:"io_echo" yaml:"io_echo"`
}

// ScriptsConfig lists Lua scripts to load at startup.
type ScriptsConfig struct {
	Paths []string `toml:"paths" yaml:"paths"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Bus: BusConfig{
			FailureReports: true,
		},
		Input: InputConfig{
			Mouse:   true,
			QuitKey: "Esc",
		},
	}
}

// ValidLogLevel reports whether level names a supported log level.
func ValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !ValidLogLevel(c.Log.Level) {
		return &ValidationError{Field: "log.level", Value: c.Log.Level, Reason: "must be debug, info, warn or error"}
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return &ValidationError{Field: "log.format", Value: c.Log.Format, Reason: "must be text or json"}
	}

	if strings.TrimSpace(c.Input.QuitKey) == "" {
		return &ValidationError{Field: "input.quit_key", Value: c.Input.QuitKey, Reason: "cannot be empty"}
	}

	for i, p := range c.Scripts.Paths {
		if strings.TrimSpace(p) == "" {
			return &ValidationError{Field: fmt.Sprintf("scripts.paths[%d]", i), Value: p, Reason: "cannot be empty"}
		}
	}

	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Scripts.Paths = append([]string(nil), c.Scripts.Paths...)
	return &out
}
