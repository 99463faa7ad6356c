package http

import "time"

// ParseTimeout parses a duration string from config, falling back to the
// default for empty or invalid values. Negative durations are rejected
// because http.Client.Timeout panics on them.
func ParseTimeout(configured string, defaultVal time.Duration) time.Duration {
	if configured != "" {
		if d, err := time.ParseDuration(configured); err == nil && d >= 0 {
			return d
		}
	}
	if defaultVal < 0 {
		return 60 * time.Second
	}
	return defaultVal
}

// BuildRetryConfig assembles a RetryConfig from config strings, using the
// package defaults for anything missing or unparseable.
func BuildRetryConfig(maxRetries int, initialBackoff, maxBackoff string, multiplier float64) RetryConfig {
	defaults := DefaultRetryConfig()

	cfg := RetryConfig{
		MaxRetries:     maxRetries,
		InitialBackoff: parseDuration(initialBackoff, defaults.InitialBackoff),
		MaxBackoff:     parseDuration(maxBackoff, defaults.MaxBackoff),
		Multiplier:     multiplier,
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = defaults.Multiplier
	}
	return cfg
}

func parseDuration(configured string, defaultVal time.Duration) time.Duration {
	if configured != "" {
		if d, err := time.ParseDuration(configured); err == nil && d >= 0 {
			return d
		}
	}
	return defaultVal
}
