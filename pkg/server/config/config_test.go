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
	"fmt"
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
	"github.com/pkg/errors"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		config      Config
		expectedErr error
	}{
		{
			config: Config{
				BaseURL:  "http://mock.url",
				Port:     "3000",
				LogLevel: "info",
			},
			expectedErr: nil,
		},
		{
			config: Config{
				Port:     "3000",
				LogLevel: "info",
			},
			expectedErr: ErrBaseURLInvalid,
		},
		{
			config: Config{
				BaseURL:  "http://mock.url",
				LogLevel: "info",
			},
			expectedErr: ErrPortInvalid,
		},
		{
			config: Config{
				BaseURL:  "http://mock.url",
				Port:     "http",
				LogLevel: "info",
			},
			expectedErr: ErrPortInvalid,
		},
		{
			config: Config{
				BaseURL:  "http://mock.url",
				Port:     "3000",
				LogLevel: "verbose",
			},
			expectedErr: ErrLogLevelInvalid,
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			err := validate(tc.config)

			assert.Equal(t, errors.Cause(err), tc.expectedErr, "error mismatch")
		})
	}
}

func TestNewDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SHARE_BASE_URL", "")
	t.Setenv("PAPERSHELF_DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DISABLE_RATE_LIMIT", "")

	c, err := New(Params{})
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating config"))
	}

	assert.Equal(t, c.Port, "3002", "port mismatch")
	assert.Equal(t, c.BaseURL, "http://localhost:3002", "base url mismatch")
	assert.Equal(t, c.DatabaseURL, "", "database url mismatch")
	assert.Equal(t, c.LogLevel, "info", "log level mismatch")
	assert.Equal(t, c.DisableRateLimit, false, "rate limit mismatch")
}

func TestNewPrecedence(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("SHARE_BASE_URL", "https://papers.example.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DISABLE_RATE_LIMIT", "true")

	c, err := New(Params{Port: "5000"})
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating config"))
	}

	assert.Equal(t, c.Port, "5000", "params win over the environment")
	assert.Equal(t, c.BaseURL, "https://papers.example.com", "base url mismatch")
	assert.Equal(t, c.LogLevel, "debug", "log level mismatch")
	assert.Equal(t, c.DisableRateLimit, true, "rate limit mismatch")
}

func TestNewInvalid(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	_, err := New(Params{BaseURL: "not a url"})

	assert.Equal(t, errors.Cause(err), ErrBaseURLInvalid, "error mismatch")
}
