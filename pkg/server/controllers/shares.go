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

	"github.com/gorilla/mux"
	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/server/app"
	"github.com/papershelf/papershelf/pkg/server/presenters"
	"github.com/papershelf/papershelf/pkg/share"
	"github.com/pkg/errors"
)

// NewShares creates a new Shares controller
func NewShares(app *app.App) *Shares {
	return &Shares{
		app: app,
	}
}

// Shares is a controller for shared collections
type Shares struct {
	app *app.App
}

type indexResponse struct {
	Message string `json:"message"`
	BaseURL string `json:"baseUrl"`
}

func (s *Shares) render(w http.ResponseWriter, r *http.Request, l share.Link) {
	f, err := catalog.DecodeFilter(r.URL.Query())
	if err != nil {
		handleJSONError(w, errors.Wrap(errInvalidQuery, err.Error()), "decoding filter")
		return
	}

	shared, err := s.app.Shares.Resolve(r.Context(), l)
	if err != nil {
		handleJSONError(w, err, "resolving share")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentCollection(shared, f))
}

// Show handles GET /share/{shareId}
func (s *Shares) Show(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	s.render(w, r, share.Link{Kind: share.KindSnapshot, ShareID: vars["shareId"]})
}

// Index handles GET /. A share_id or share query parameter opens that share.
func (s *Shares) Index(w http.ResponseWriter, r *http.Request) {
	l, err := share.ParseLink(r.URL.String())
	if errors.Is(err, share.ErrInvalidLink) {
		respondJSON(w, http.StatusOK, indexResponse{
			Message: "open a share link to view a collection",
			BaseURL: s.app.BaseURL,
		})
		return
	}

	s.render(w, r, l)
}

// Papers handles GET /api/papers. The share is given by the share_id or
// share query parameter and the remaining parameters filter the papers.
func (s *Shares) Papers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var l share.Link
	switch {
	case q.Get("share_id") != "":
		l = share.Link{Kind: share.KindSnapshot, ShareID: q.Get("share_id")}
	case q.Get("share") != "":
		l = share.Link{Kind: share.KindInline, Data: q.Get("share")}
	default:
		handleJSONError(w, share.ErrInvalidLink, "reading share parameters")
		return
	}

	s.render(w, r, l)
}
