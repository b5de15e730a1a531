/* Copyright 2025 Papershelf Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"net/url"
	"os"
	"strconv"

	"github.com/papershelf/papershelf/pkg/server/log"
	"github.com/pkg/errors"
)

var (
	// ErrBaseURLInvalid is an error for an incomplete configuration with invalid base url
	ErrBaseURLInvalid = errors.New("Invalid BaseURL")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrLogLevelInvalid is an error for an unknown log level
	ErrLogLevelInvalid = errors.New("Invalid LogLevel")
)

func readBoolEnv(name string) bool {
	return os.Getenv(name) == "true"
}

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

// Config is a share server configuration
type Config struct {
	Port string
	// BaseURL is the public address share links are built on
	BaseURL string
	// DatabaseURL is the postgres DSN holding share snapshots. Empty serves
	// inline links only.
	DatabaseURL      string
	LogLevel         string
	DisableRateLimit bool
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	Port             string
	BaseURL          string
	DatabaseURL      string
	LogLevel         string
	DisableRateLimit bool
}

// New constructs and returns a new validated config.
// Empty string params will fall back to environment variables and defaults.
func New(p Params) (Config, error) {
	c := Config{
		Port:             getOrEnv(p.Port, "PORT", "3002"),
		BaseURL:          getOrEnv(p.BaseURL, "SHARE_BASE_URL", "http://localhost:3002"),
		DatabaseURL:      getOrEnv(p.DatabaseURL, "PAPERSHELF_DATABASE_URL", ""),
		LogLevel:         getOrEnv(p.LogLevel, "LOG_LEVEL", log.LevelInfo),
		DisableRateLimit: p.DisableRateLimit || readBoolEnv("DISABLE_RATE_LIMIT"),
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

func validate(c Config) error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return errors.Wrapf(ErrBaseURLInvalid, "'%s'", c.BaseURL)
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return errors.Wrapf(ErrPortInvalid, "'%s'", c.Port)
	}
	if !log.ValidLevel(c.LogLevel) {
		return errors.Wrapf(ErrLogLevelInvalid, "'%s'", c.LogLevel)
	}

	return nil
}
