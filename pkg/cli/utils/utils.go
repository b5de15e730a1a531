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
	"regexp"
	"strconv"

	"github.com/google/uuid"
	"github.com/papershelf/papershelf/pkg/cli/consts"
	"github.com/pkg/errors"
)

// GenerateUserID returns a new anonymous user identifier
func GenerateUserID() string {
	return consts.UserIDPrefix + uuid.NewString()
}

// regexNumber is a regex that matches a string that looks like an integer
var regexNumber = regexp.MustCompile(`^\d+$`)

// IsNumber checks if the given string is in the form of a number
func IsNumber(s string) bool {
	if s == "" {
		return false
	}

	return regexNumber.MatchString(s)
}

// ParseID parses a paper id argument
func ParseID(s string) (int, error) {
	if !IsNumber(s) {
		return 0, errors.Errorf("invalid paper id '%s'", s)
	}

	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, errors.Errorf("invalid paper id '%s'", s)
	}

	return id, nil
}
