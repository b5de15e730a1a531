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

package reconcile

import (
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
)

func TestSessionDemote(t *testing.T) {
	s := NewSession("user_1", TierRemote, true)

	assert.Equal(t, s.Demote(), TierStructured, "remote demotes to structured")
	assert.Equal(t, s.Demote(), TierFlat, "structured demotes to flat")
	assert.Equal(t, s.StructuredAvailable(), false, "structured is given up")
	assert.Equal(t, s.Demote(), TierFlat, "flat is the floor")
}

func TestSessionDemoteSkipsUnavailableStructured(t *testing.T) {
	s := NewSession("user_1", TierRemote, false)

	assert.Equal(t, s.Demote(), TierFlat, "remote demotes to flat")
}

func TestNewSessionStructuredUnavailable(t *testing.T) {
	s := NewSession("user_1", TierStructured, false)

	assert.Equal(t, s.Active(), TierFlat, "unavailable structured starts on flat")
	assert.Equal(t, s.UserID(), "user_1", "user id mismatch")
}
