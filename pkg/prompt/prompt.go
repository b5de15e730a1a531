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

// Package prompt reads confirmations typed by the user
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// FormatQuestion formats a yes/no question with the appropriate choice indicator
func FormatQuestion(question string, optimistic bool) string {
	choices := "(y/N)"
	if optimistic {
		choices = "(Y/n)"
	}
	return fmt.Sprintf("%s %s", question, choices)
}

// FormatPhrase formats a request to type a phrase
func FormatPhrase(instruction, phrase string) string {
	return fmt.Sprintf("%s, type %s", instruction, phrase)
}

// Reader reads answers line by line. Keep one Reader per input stream so
// buffered input is not lost between questions.
type Reader struct {
	r *bufio.Reader
}

// NewReader returns a Reader over r
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

func (r *Reader) line() (string, error) {
	input, err := r.r.ReadString('\n')
	if err != nil && !(err == io.EOF && input != "") {
		return "", errors.Wrap(err, "reading answer")
	}

	return strings.TrimSpace(input), nil
}

// Text reads one line with surrounding spaces removed
func (r *Reader) Text() (string, error) {
	return r.line()
}

// YesNo reads a yes/no answer. In optimistic mode an empty answer confirms.
func (r *Reader) YesNo(optimistic bool) (bool, error) {
	input, err := r.line()
	if err != nil {
		return false, err
	}

	input = strings.ToLower(input)
	confirmed := input == "y" || input == "yes"
	if optimistic {
		confirmed = confirmed || input == ""
	}

	return confirmed, nil
}

// Phrase reports whether the answer is exactly phrase. Case matters.
func (r *Reader) Phrase(phrase string) (bool, error) {
	input, err := r.line()
	if err != nil {
		return false, err
	}

	return input == phrase, nil
}

// ReadYesNo reads and parses a yes/no response from the given reader.
func ReadYesNo(r io.Reader, optimistic bool) (bool, error) {
	return NewReader(r).YesNo(optimistic)
}
