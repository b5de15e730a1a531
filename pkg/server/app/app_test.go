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
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(a *App)
		expectedErr error
	}{
		{"valid", func(a *App) {}, nil},
		{"no base url", func(a *App) { a.BaseURL = "" }, ErrEmptyBaseURL},
		{"no clock", func(a *App) { a.Clock = nil }, ErrEmptyClock},
		{"no shares", func(a *App) { a.Shares = nil }, ErrEmptyShares},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewTest()
			tc.mutate(&a)

			assert.Equal(t, a.Validate(), tc.expectedErr, "error mismatch")
		})
	}
}
