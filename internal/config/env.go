package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ENGINEBUS_"

// applyEnv overrides cfg from ENGINEBUS_* variables. Empty values are
// treated as set.
func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"LOG_LEVEL":      &cfg.Log.Level,
		"LOG_FORMAT":     &cfg.Log.Format,
		"INPUT_QUIT_KEY": &cfg.Input.QuitKey,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"BUS_FAILURE_REPORTS":  &cfg.Bus.FailureReports,
		"BUS_DISPATCH_LOGGING": &cfg.Bus.DispatchLogging,
		"INPUT_MOUSE":          &cfg.Input.Mouse,
		"INPUT_IO_ECHO":        &cfg.Input.IOEcho,
	}
	for name, dst := range bools {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, &ValidationError{
				Field:  strings.ToLower(name),
				Value:  v,
				Reason: "must be a boolean",
			})
		}
		*dst = b
	}

	if v, ok := os.LookupEnv(EnvPrefix + "SCRIPTS_PATHS"); ok {
		cfg.Scripts.Paths = splitList(v)
	}

	return nil
}

// splitList splits an os.PathListSeparator separated list, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, string(os.PathListSeparator)) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
