package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError aggregates every configuration problem found.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	var problems []string

	if c.Timer.Device == "" {
		problems = append(problems, "timer.device must be set")
	}
	if c.Timer.Baud <= 0 {
		problems = append(problems, fmt.Sprintf("timer.baud must be positive (got %d)", c.Timer.Baud))
	}
	if c.Timer.LaneCount < 2 || c.Timer.LaneCount > 8 {
		problems = append(problems, fmt.Sprintf("timer.lane_count must be between 2 and 8 (got %d)", c.Timer.LaneCount))
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format must be console or json (got %q)", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level))
	}

	if c.Paths.ResultsDir == "" {
		problems = append(problems, "paths.results_dir must be set")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// IsValidationError reports whether err is a configuration validation error.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
