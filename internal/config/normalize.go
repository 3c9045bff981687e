package config

import "strings"

func (c *Config) normalize() error {
	c.Timer.Device = strings.TrimSpace(c.Timer.Device)

	for _, field := range []*string{&c.Paths.ResultsDir, &c.Paths.LogDir} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.Capture.MaxLineBytes <= 0 {
		c.Capture.MaxLineBytes = Default().Capture.MaxLineBytes
	}
	if c.Capture.EventBuffer <= 0 {
		c.Capture.EventBuffer = Default().Capture.EventBuffer
	}
	if c.Capture.ReadTimeoutMillis <= 0 {
		c.Capture.ReadTimeoutMillis = Default().Capture.ReadTimeoutMillis
	}

	return nil
}
