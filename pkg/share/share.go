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

// Package share creates and resolves links to a read-only copy of a
// collection.
package share

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/reconcile"
	"github.com/papershelf/papershelf/pkg/storage/remote"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidLink is returned for links that carry no share
	ErrInvalidLink = errors.New("invalid share link")
	// ErrEmpty is returned when sharing an empty collection
	ErrEmpty = errors.New("no papers to share")
	// ErrUnavailable is returned when a snapshot link is resolved without a
	// remote database
	ErrUnavailable = errors.New("share snapshots need the remote database")
)

// Kind is the kind of a share link
type Kind int

// Link kinds
const (
	// KindSnapshot links point to a snapshot stored in the remote database
	KindSnapshot Kind = iota
	// KindInline links carry the papers in the URL
	KindInline
)

// Link is a parsed share link
type Link struct {
	Kind    Kind
	ShareID string
	// Data is the encoded inline document of KindInline links
	Data string
}

// ParseLink reads a share link. The path form /share/{id} takes precedence
// over the share_id query parameter, which takes precedence over the inline
// share parameter.
func ParseLink(raw string) (Link, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Link{}, errors.Wrap(ErrInvalidLink, err.Error())
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(segments); i++ {
		if segments[i] == "share" && segments[i+1] != "" {
			return Link{Kind: KindSnapshot, ShareID: segments[i+1]}, nil
		}
	}

	q := u.Query()
	if id := q.Get("share_id"); id != "" {
		return Link{Kind: KindSnapshot, ShareID: id}, nil
	}
	if data := q.Get("share"); data != "" {
		return Link{Kind: KindInline, Data: data}, nil
	}

	return Link{}, ErrInvalidLink
}

type inlineDocument struct {
	Papers []catalog.SharedPaper `json:"papers"`
}

// EncodeInline encodes the field-limited form of papers for an inline link
func EncodeInline(papers []catalog.Paper) (string, error) {
	b, err := json.Marshal(inlineDocument{Papers: catalog.ForInlineShare(papers)})
	if err != nil {
		return "", errors.Wrap(err, "encoding shared papers")
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

// DecodeInline decodes the papers of an inline link. Ids are assigned from 1.
func DecodeInline(data string) ([]catalog.Paper, error) {
	// a raw + in an unescaped query string arrives as a space
	data = strings.ReplaceAll(strings.TrimSpace(data), " ", "+")

	var b []byte
	var err error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.RawURLEncoding} {
		if b, err = enc.DecodeString(data); err == nil {
			break
		}
	}
	if err != nil {
		return nil, errors.Wrap(ErrInvalidLink, "decoding base64")
	}

	var doc inlineDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrap(ErrInvalidLink, "decoding shared papers")
	}

	return catalog.FromShared(doc.Papers), nil
}

// InlineURL returns the inline link of papers under baseURL
func InlineURL(baseURL string, papers []catalog.Paper) (string, error) {
	data, err := EncodeInline(papers)
	if err != nil {
		return "", err
	}

	return strings.TrimRight(baseURL, "/") + "/?" + url.Values{"share": {data}}.Encode(), nil
}

// Snapshots stores share snapshots. remote.Store implements it.
type Snapshots interface {
	CreateShareSnapshot(ctx context.Context, papers []catalog.Paper, userID, baseURL string) (string, string, error)
	GetSharedPapers(ctx context.Context, shareID string) (remote.Snapshot, error)
}

// Config configures a Service
type Config struct {
	// Snapshots is nil when the remote database is not available
	Snapshots Snapshots
	BaseURL   string
	UserID    string
	Logger    reconcile.Logger
}

// Service creates and resolves share links
type Service struct {
	snapshots Snapshots
	baseURL   string
	userID    string
	log       reconcile.Logger
}

// New returns a share service
func New(c Config) *Service {
	return &Service{
		snapshots: c.Snapshots,
		baseURL:   c.BaseURL,
		userID:    c.UserID,
		log:       c.Logger,
	}
}

// Created is a newly created share link
type Created struct {
	URL     string
	ShareID string
	Inline  bool
}

// Create shares the collection. A snapshot in the remote database is
// preferred; without one the papers are embedded in the link.
func (s *Service) Create(ctx context.Context, papers []catalog.Paper) (Created, error) {
	if len(papers) == 0 {
		return Created{}, ErrEmpty
	}

	if s.snapshots != nil {
		id, u, err := s.snapshots.CreateShareSnapshot(ctx, papers, s.userID, s.baseURL)
		if err == nil {
			return Created{URL: u, ShareID: id}, nil
		}

		if s.log != nil {
			s.log.Debug("creating share snapshot: %s\n", err.Error())
			s.log.Warnf("could not store a share snapshot, embedding the papers in the link\n")
		}
	}

	u, err := InlineURL(s.baseURL, papers)
	if err != nil {
		return Created{}, err
	}

	return Created{URL: u, Inline: true}, nil
}

// Shared is a resolved share
type Shared struct {
	Papers      []catalog.Paper
	ShareID     string
	Inline      bool
	AccessCount int
	CreatedAt   time.Time
}

// Resolve returns the papers of a share link
func (s *Service) Resolve(ctx context.Context, l Link) (Shared, error) {
	switch l.Kind {
	case KindInline:
		papers, err := DecodeInline(l.Data)
		if err != nil {
			return Shared{}, err
		}

		return Shared{Papers: papers, Inline: true}, nil
	case KindSnapshot:
		if s.snapshots == nil {
			return Shared{}, ErrUnavailable
		}

		snap, err := s.snapshots.GetSharedPapers(ctx, l.ShareID)
		if err != nil {
			return Shared{}, errors.Wrapf(err, "resolving share %s", l.ShareID)
		}

		return Shared{
			Papers:      snap.Papers,
			ShareID:     snap.ID,
			AccessCount: snap.AccessCount,
			CreatedAt:   snap.CreatedAt,
		}, nil
	default:
		return Shared{}, ErrInvalidLink
	}
}

// ResolveURL parses and resolves a share link
func (s *Service) ResolveURL(ctx context.Context, raw string) (Shared, error) {
	l, err := ParseLink(raw)
	if err != nil {
		return Shared{}, err
	}

	return s.Resolve(ctx, l)
}
