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

package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/server/log"
	"github.com/papershelf/papershelf/pkg/share"
	"github.com/papershelf/papershelf/pkg/storage"
	"github.com/pkg/errors"
)

var errInvalidQuery = errors.New("invalid query")

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

// statusOf maps an error to the status code reported to the client
func statusOf(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, share.ErrInvalidLink), errors.Is(err, catalog.ErrInvalid), errors.Is(err, errInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, share.ErrUnavailable), errors.Is(err, storage.ErrTransport):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleJSONError logs the error and responds with a JSON error body.
// Server errors do not expose the underlying message.
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	statusCode := statusOf(err)

	var message string
	if statusCode >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"status": statusCode,
		}).ErrorWrap(err, msg)
		message = http.StatusText(statusCode)
	} else {
		message = errors.Cause(err).Error()
	}

	respondJSON(w, statusCode, errorResponse{Error: message})
}
