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
	"sync"
)

// TierName identifies a storage tier
type TierName string

// Storage tiers, in priority order
const (
	TierRemote     TierName = "remote-database"
	TierStructured TierName = "local-structured"
	TierFlat       TierName = "local-flat"
	TierMirror     TierName = "remote-mirror"
)

// Session is the storage state of one process. The active tier is chosen once
// at startup and afterwards only moves down the tier order.
type Session struct {
	mu           sync.RWMutex
	userID       string
	active       TierName
	structuredOK bool
}

// NewSession returns a session for userID. active must be one of the remote,
// structured or flat tiers. structuredOK tells whether the structured store
// initialised, which decides where a demoted remote session lands.
func NewSession(userID string, active TierName, structuredOK bool) *Session {
	if active == TierStructured && !structuredOK {
		active = TierFlat
	}

	return &Session{userID: userID, active: active, structuredOK: structuredOK}
}

// UserID returns the identifier the remote rows are keyed by
func (s *Session) UserID() string {
	return s.userID
}

// Active returns the active tier
func (s *Session) Active() TierName {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.active
}

// StructuredAvailable reports whether the structured store can be used
func (s *Session) StructuredAvailable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.structuredOK
}

// Demote moves the session one tier down and returns the new active tier.
// The flat tier is the floor.
func (s *Session) Demote() TierName {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.active {
	case TierRemote:
		if s.structuredOK {
			s.active = TierStructured
		} else {
			s.active = TierFlat
		}
	case TierStructured:
		s.active = TierFlat
		s.structuredOK = false
	}

	return s.active
}
