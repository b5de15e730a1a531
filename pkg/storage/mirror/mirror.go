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

// Package mirror implements the remote metadata mirror: the whole collection
// as one JSON document in a public GitHub repository, written through the
// contents API and read back through a CDN.
package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/github"
	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/client"
	"github.com/papershelf/papershelf/pkg/storage"
	"github.com/pkg/errors"
)

// DocumentPath is the path of the collection document in the repository
const DocumentPath = "papers-database.json"

// DefaultCDNBaseURL serves files of public GitHub repositories
const DefaultCDNBaseURL = "https://cdn.jsdelivr.net/gh"

// ErrNoToken is returned by writes when no token is configured
var ErrNoToken = errors.New("GitHub token not configured")

// Config locates the mirror repository
type Config struct {
	Owner  string
	Repo   string
	Branch string
	Token  string
	// CDNBaseURL serves raw repository files. Defaults to DefaultCDNBaseURL.
	CDNBaseURL string
	// APIBaseURL overrides the GitHub API endpoint
	APIBaseURL string
}

// Mirror is the remote metadata mirror
type Mirror struct {
	cfg Config
	hc  *http.Client
	gh  *github.Client
}

// New returns a mirror for the given repository. hc is used for every
// request and defaults to a rate limited client.
func New(cfg Config, hc *http.Client) (*Mirror, error) {
	if hc == nil {
		hc = client.NewRateLimitedHTTPClient()
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	if cfg.CDNBaseURL == "" {
		cfg.CDNBaseURL = DefaultCDNBaseURL
	}

	gh, err := client.NewGitHub(hc, cfg.Token, cfg.APIBaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "initializing GitHub client")
	}

	return &Mirror{cfg: cfg, hc: hc, gh: gh}, nil
}

// Enabled reports whether a repository is configured
func (m *Mirror) Enabled() bool {
	return m != nil && m.cfg.Owner != "" && m.cfg.Repo != ""
}

// CanWrite reports whether the mirror has a token to write with
func (m *Mirror) CanWrite() bool {
	return m.Enabled() && m.cfg.Token != ""
}

// CDNURL returns the public URL of a file in the repository
func (m *Mirror) CDNURL(path string) string {
	return fmt.Sprintf("%s/%s/%s@%s/%s", strings.TrimRight(m.cfg.CDNBaseURL, "/"), m.cfg.Owner, m.cfg.Repo, m.cfg.Branch, path)
}

// GitHub returns the API client of the mirror repository
func (m *Mirror) GitHub() *github.Client {
	return m.gh
}

// Config returns the repository configuration
func (m *Mirror) Config() Config {
	return m.cfg
}

// ValidateToken checks that the token can read the repository
func (m *Mirror) ValidateToken(ctx context.Context) error {
	if !m.CanWrite() {
		return ErrNoToken
	}

	if _, _, err := m.gh.Repositories.Get(ctx, m.cfg.Owner, m.cfg.Repo); err != nil {
		return errors.Wrapf(storage.ErrTransport, "reading repository %s/%s: %s", m.cfg.Owner, m.cfg.Repo, err.Error())
	}

	return nil
}

// currentSHA returns the revision of the document, or nil when it does not exist yet
func (m *Mirror) currentSHA(ctx context.Context) (*string, error) {
	file, _, _, err := m.gh.Repositories.GetContents(ctx, m.cfg.Owner, m.cfg.Repo, DocumentPath,
		&github.RepositoryContentGetOptions{Ref: m.cfg.Branch})
	if client.GitHubStatus(err) == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(storage.ErrTransport, "checking %s: %s", DocumentPath, err.Error())
	}
	if file == nil {
		return nil, nil
	}

	return file.SHA, nil
}

// UploadSnapshot commits the collection as the mirror document. Embedded PDF
// data is replaced by a placeholder and file payloads are dropped.
func (m *Mirror) UploadSnapshot(ctx context.Context, papers []catalog.Paper) error {
	if !m.CanWrite() {
		return ErrNoToken
	}

	content, err := json.MarshalIndent(catalog.ForMirror(papers), "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding mirror document")
	}

	sha, err := m.currentSHA(ctx)
	if err != nil {
		return err
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(fmt.Sprintf("Update papers database: %d papers", len(papers))),
		Content: content,
		Branch:  github.String(m.cfg.Branch),
		SHA:     sha,
	}

	if sha == nil {
		_, _, err = m.gh.Repositories.CreateFile(ctx, m.cfg.Owner, m.cfg.Repo, DocumentPath, opts)
	} else {
		_, _, err = m.gh.Repositories.UpdateFile(ctx, m.cfg.Owner, m.cfg.Repo, DocumentPath, opts)
	}
	if err != nil {
		return errors.Wrapf(storage.ErrTransport, "writing %s: %s", DocumentPath, err.Error())
	}

	return nil
}

// DownloadSnapshot fetches the mirror document through the CDN. A missing
// document is an empty collection.
func (m *Mirror) DownloadSnapshot(ctx context.Context) ([]catalog.Paper, error) {
	if !m.Enabled() {
		return []catalog.Paper{}, nil
	}

	body, err := client.Get(ctx, m.hc, m.CDNURL(DocumentPath))
	if err != nil {
		var httpErr *client.HTTPError
		if errors.As(err, &httpErr) && httpErr.IsNotFound() {
			return []catalog.Paper{}, nil
		}

		return nil, errors.Wrapf(storage.ErrTransport, "downloading %s: %s", DocumentPath, err.Error())
	}

	papers, err := catalog.DecodeCollection(body)
	if err != nil {
		return nil, errors.Wrapf(storage.ErrCorrupt, "decoding %s: %s", DocumentPath, err.Error())
	}

	return papers, nil
}
