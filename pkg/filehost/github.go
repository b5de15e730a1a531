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

package filehost

import (
	"context"
	"fmt"

	"github.com/google/go-github/github"
	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/clock"
	"github.com/papershelf/papershelf/pkg/storage/mirror"
	"github.com/pkg/errors"
)

// GitHub stores files in the mirror repository
type GitHub struct {
	mirror *mirror.Mirror
	clock  clock.Clock
}

// NewGitHub returns a host writing into the repository of m
func NewGitHub(m *mirror.Mirror, c clock.Clock) *GitHub {
	return &GitHub{mirror: m, clock: c}
}

// Name returns the host name
func (h *GitHub) Name() string { return "github" }

// Upload commits the file under pdfs/ and returns its CDN URL
func (h *GitHub) Upload(ctx context.Context, f catalog.Payload, title string) (catalog.FileInfo, error) {
	if !h.mirror.CanWrite() {
		return catalog.FileInfo{}, ErrDisabled
	}

	if title == "" {
		title = f.Name
	}
	cfg := h.mirror.Config()
	name := ObjectName(h.clock.Now().UnixMilli(), f.Name)

	res, _, err := h.mirror.GitHub().Repositories.CreateFile(ctx, cfg.Owner, cfg.Repo, name, &github.RepositoryContentFileOptions{
		Message: github.String(fmt.Sprintf("Add PDF: %s", title)),
		Content: f.Data,
		Branch:  github.String(cfg.Branch),
	})
	if err != nil {
		return catalog.FileInfo{}, errors.Wrapf(err, "uploading %s", name)
	}

	info := catalog.FileInfo{
		Filename: name,
		Size:     int64(len(f.Data)),
		URL:      h.mirror.CDNURL(name),
	}
	if res != nil && res.Content != nil {
		info.SHA = res.Content.GetSHA()
	}

	return info, nil
}

// Delete removes a previously uploaded file
func (h *GitHub) Delete(ctx context.Context, info catalog.FileInfo) error {
	if !h.mirror.CanWrite() {
		return ErrDisabled
	}

	cfg := h.mirror.Config()
	_, _, err := h.mirror.GitHub().Repositories.DeleteFile(ctx, cfg.Owner, cfg.Repo, info.Filename, &github.RepositoryContentFileOptions{
		Message: github.String(fmt.Sprintf("Delete PDF: %s", info.Filename)),
		SHA:     github.String(info.SHA),
		Branch:  github.String(cfg.Branch),
	})
	if err != nil {
		return errors.Wrapf(err, "deleting %s", info.Filename)
	}

	return nil
}
