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
	"net/http"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/server/app"
)

// NewSchema creates a new Schema controller
func NewSchema(app *app.App) *Schema {
	return &Schema{}
}

// Schema serves the JSON schema of a paper record
type Schema struct {
}

// Show handles GET /api/schema
func (s *Schema) Show(w http.ResponseWriter, r *http.Request) {
	b, err := catalog.Schema()
	if err != nil {
		handleJSONError(w, err, "building schema")
		return
	}

	w.Header().Set("Content-Type", "application/schema+json")
	w.Write(b)
}
