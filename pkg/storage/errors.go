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

// Package storage holds what the storage tiers have in common: the error
// taxonomy every adapter reports failures with.
package storage

import (
	"github.com/pkg/errors"
)

var (
	// ErrInit means a tier could not start
	ErrInit = errors.New("storage initialization failed")
	// ErrTransport means a reachable remote call returned an error
	ErrTransport = errors.New("storage transport failure")
	// ErrCorrupt means stored data could not be parsed or validated
	ErrCorrupt = errors.New("stored data is corrupt")
	// ErrQuota means a write exceeded the capacity of the tier
	ErrQuota = errors.New("storage quota exceeded")
	// ErrNotFound means the requested item does not exist
	ErrNotFound = errors.New("not found")
)

// Kind classifies a storage failure
type Kind string

// Kinds of storage failure
const (
	KindNone      Kind = ""
	KindInit      Kind = "initialization"
	KindTransport Kind = "transport"
	KindCorrupt   Kind = "parse"
	KindQuota     Kind = "quota"
	KindNotFound  Kind = "not-found"
	KindUnknown   Kind = "unknown"
)

// KindOf returns the kind of a failure returned by a storage adapter
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInit):
		return KindInit
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrCorrupt):
		return KindCorrupt
	case errors.Is(err, ErrQuota):
		return KindQuota
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindUnknown
	}
}
