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

package utils

import (
	"strings"
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
)

func TestIsNumber(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{"1", true},
		{"42", true},
		{"", false},
		{"-1", false},
		{"1a", false},
		{"js", false},
	}

	for _, tc := range testCases {
		assert.Equal(t, IsNumber(tc.input), tc.expected, tc.input)
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("12")
	assert.Equal(t, err, nil, "error mismatch")
	assert.Equal(t, id, 12, "id mismatch")

	for _, s := range []string{"0", "abc", "", "99999999999999999999999"} {
		_, err := ParseID(s)
		assert.NotEqual(t, err, nil, s+" should be rejected")
	}
}

func TestGenerateUserID(t *testing.T) {
	a := GenerateUserID()
	b := GenerateUserID()

	assert.Equal(t, strings.HasPrefix(a, "user_"), true, "prefix mismatch")
	assert.NotEqual(t, a, b, "ids should be unique")
}
