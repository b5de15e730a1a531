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
	"github.com/papershelf/papershelf/pkg/share"
)

// NewTest returns an app for a testing environment. Shares resolve inline
// links only until a snapshot store is configured.
func NewTest() App {
	baseURL := "http://127.0.0.1"

	return App{
		Shares:  share.New(share.Config{BaseURL: baseURL}),
		Clock:   clock.NewMock(),
		BaseURL: baseURL,
		Port:    "3000",
	}
}
