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

package validate

import (
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
	"github.com/pkg/errors"
)

func TestCategory(t *testing.T) {
	testCases := []struct {
		input    string
		expected error
	}{
		{"", nil},
		{"Mobile Device", nil},
		{"auto", nil},
		{"Cooking", ErrCategoryUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, errors.Cause(Category(tc.input)), tc.expected, "error mismatch")
		})
	}
}

func TestSortOrder(t *testing.T) {
	testCases := []struct {
		input    string
		expected error
	}{
		{"", nil},
		{"year-desc", nil},
		{"title-asc", nil},
		{"citations-asc", nil},
		{"random", ErrSortUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, errors.Cause(SortOrder(tc.input)), tc.expected, "error mismatch")
		})
	}
}

func TestConcurrency(t *testing.T) {
	assert.Equal(t, Concurrency(3), nil, "3 workers")
	assert.Equal(t, Concurrency(0), ErrConcurrency, "0 workers")
}

func TestFileHost(t *testing.T) {
	for _, h := range []string{"github", "s3", "none"} {
		assert.Equal(t, FileHost(h), nil, h)
	}
	assert.Equal(t, errors.Cause(FileHost("dropbox")), ErrFileHostUnknown, "dropbox")
}
