package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables mapped onto Load overrides.
const (
	EnvPort     = "DASHBOARD_GRID_PORT"
	EnvLogLevel = "DASHBOARD_GRID_LOG_LEVEL"
)

// EnvOverrides loads the given .env files (".env" when none are named) into
// the process environment, then returns the overrides found there. Missing
// files are not an error; variables already set win over file values.
func EnvOverrides(files ...string) (map[string]string, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	overrides := make(map[string]string)
	if v, ok := os.LookupEnv(EnvPort); ok && v != "" {
		overrides[OverridePort] = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		overrides[OverrideLogLevel] = v
	}
	return overrides, nil
}
