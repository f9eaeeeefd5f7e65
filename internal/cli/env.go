package cli

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const envPrefix = "TRACEGRAPH_"

// envOrDefault returns TRACEGRAPH_<key> or the fallback when it is unset.
func envOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	if v, err := strconv.Atoi(envOrDefault(key, "")); err == nil {
		return v
	}
	return fallback
}

func envFloatOrDefault(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(envOrDefault(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func envDurationOrDefault(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(envOrDefault(key, "")); err == nil {
		return v
	}
	return fallback
}

// envListOrDefault splits a comma-separated variable.
func envListOrDefault(key string, fallback []string) []string {
	raw := envOrDefault(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for item := range strings.SplitSeq(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
