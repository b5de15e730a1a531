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

package presenters

import (
	"time"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/share"
)

// Collection is a result of PresentCollection
type Collection struct {
	ShareID     string          `json:"shareId,omitempty"`
	Inline      bool            `json:"inline"`
	AccessCount int             `json:"accessCount"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
	Total       int             `json:"total"`
	Matched     int             `json:"matched"`
	Page        int             `json:"page"`
	TotalPages  int             `json:"totalPages"`
	Papers      []catalog.Paper `json:"papers"`
	Facets      catalog.Facets  `json:"facets"`
}

// PresentCollection presents one page of a shared collection narrowed down
// by the filter. Facets are computed over the whole collection.
func PresentCollection(s share.Shared, f catalog.Filter) Collection {
	page := catalog.Query(s.Papers, f)

	ret := Collection{
		ShareID:     s.ShareID,
		Inline:      s.Inline,
		AccessCount: s.AccessCount,
		Total:       len(s.Papers),
		Matched:     page.Matched,
		Page:        page.Page,
		TotalPages:  page.TotalPages,
		Papers:      catalog.StripPayload(page.Papers),
		Facets:      catalog.FacetsOf(s.Papers),
	}
	if !s.CreatedAt.IsZero() {
		ts := FormatTS(s.CreatedAt)
		ret.CreatedAt = &ts
	}

	return ret
}
