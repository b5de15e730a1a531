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

// Package filehost stores uploaded paper files on a blob host and returns
// a public URL for them.
package filehost

import (
	"context"
	"fmt"
	"regexp"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/pkg/errors"
)

// ErrDisabled is returned by hosts that are not configured
var ErrDisabled = errors.New("file hosting is not configured")

// Host stores file blobs
type Host interface {
	Name() string
	Upload(ctx context.Context, f catalog.Payload, title string) (catalog.FileInfo, error)
	Delete(ctx context.Context, info catalog.FileInfo) error
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// ObjectName returns the stored path of an uploaded file
func ObjectName(uploadedAtMillis int64, name string) string {
	return fmt.Sprintf("pdfs/%d_%s", uploadedAtMillis, unsafeChars.ReplaceAllString(name, "_"))
}

// None is a host that stores nothing
type None struct{}

// Name returns the host name
func (None) Name() string { return "none" }

// Upload always fails with ErrDisabled
func (None) Upload(context.Context, catalog.Payload, string) (catalog.FileInfo, error) {
	return catalog.FileInfo{}, ErrDisabled
}

// Delete always fails with ErrDisabled
func (None) Delete(context.Context, catalog.FileInfo) error {
	return ErrDisabled
}
