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

package app

import (
	"github.com/papershelf/papershelf/pkg/clock"
	"github.com/papershelf/papershelf/pkg/server/middleware"
	"github.com/papershelf/papershelf/pkg/share"
	"github.com/pkg/errors"
)

var (
	// ErrEmptyShares is an error for a missing share service in the app configuration
	ErrEmptyShares = errors.New("No share service was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrEmptyBaseURL is an error for missing BaseURL content in the app configuration
	ErrEmptyBaseURL = errors.New("No BaseURL was provided")
)

// App is an application context
type App struct {
	Shares  *share.Service
	Clock   clock.Clock
	BaseURL string
	Port    string
	// Limiter throttles rate limited routes per client IP. nil disables it.
	Limiter *middleware.RateLimiter
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.BaseURL == "" {
		return ErrEmptyBaseURL
	}
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.Shares == nil {
		return ErrEmptyShares
	}

	return nil
}
