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

// Package collection holds the in-memory paper collection and persists every
// mutation through the reconciliation engine.
package collection

import (
	"context"
	"sync"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/filehost"
	"github.com/papershelf/papershelf/pkg/reconcile"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when no paper has the given id
var ErrNotFound = errors.New("paper not found")

// Logger is the logger used by the manager
type Logger = reconcile.Logger

// Config configures a Manager
type Config struct {
	Engine *reconcile.Engine
	// FileHost stores embedded payloads of added papers. Optional.
	FileHost filehost.Host
	// AutoPublish pushes the collection to the metadata mirror after every
	// add and edit
	AutoPublish bool
	Logger      Logger
}

// Manager owns the collection. Every method is safe for concurrent use and
// mutations are applied one at a time.
type Manager struct {
	mu          sync.Mutex
	papers      []catalog.Paper
	engine      *reconcile.Engine
	host        filehost.Host
	autoPublish bool
	log         Logger
}

// New returns a manager with an empty collection
func New(c Config) *Manager {
	m := &Manager{
		papers:      []catalog.Paper{},
		engine:      c.Engine,
		host:        c.FileHost,
		autoPublish: c.AutoPublish,
		log:         c.Logger,
	}
	if m.log == nil {
		m.log = nopLogger{}
	}

	return m
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{}) {}

// Load replaces the in-memory collection with the engine's load result
func (m *Manager) Load(ctx context.Context) reconcile.LoadResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := m.engine.Load(ctx)
	m.papers = catalog.CloneAll(res.Papers)

	return res
}

// All returns a copy of the collection
func (m *Manager) All() []catalog.Paper {
	m.mu.Lock()
	defer m.mu.Unlock()

	return catalog.CloneAll(m.papers)
}

// Len returns the number of papers
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.papers)
}

// Get returns the paper with the given id
func (m *Manager) Get(id int) (catalog.Paper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := catalog.Find(m.papers, id)
	if idx == -1 {
		return catalog.Paper{}, errors.Wrapf(ErrNotFound, "id %d", id)
	}

	return m.papers[idx].Clone(), nil
}

// View filters, sorts and paginates the collection
func (m *Manager) View(f catalog.Filter) catalog.Page {
	m.mu.Lock()
	defer m.mu.Unlock()

	return catalog.Query(catalog.CloneAll(m.papers), f)
}

// Facets counts the collection by research area, methodology and venue
func (m *Manager) Facets() catalog.Facets {
	m.mu.Lock()
	defer m.mu.Unlock()

	return catalog.FacetsOf(m.papers)
}

// hostFile moves the embedded payload of p to the file host. On failure the
// payload stays embedded.
func (m *Manager) hostFile(ctx context.Context, p catalog.Paper) catalog.Paper {
	if m.host == nil || p.PDFFile == nil {
		return p
	}

	info, err := m.host.Upload(ctx, *p.PDFFile, p.Title)
	if err != nil {
		if errors.Cause(err) != filehost.ErrDisabled {
			m.log.Warnf("could not upload %s to %s, keeping it locally\n", p.PDFFile.Name, m.host.Name())
		}
		m.log.Debug("uploading %s: %s\n", p.PDFFile.Name, err.Error())
		return p
	}

	p.GitHubFileInfo = &info
	p.PDFURL = info.URL
	p.PDFFileSize = info.Size
	p.IsPersistentPDF = true
	p.PDFFile = nil

	return p
}

// Add appends a paper and saves the collection. The id is assigned here, as
// max existing id + 1, while the manager lock is held. The paper stays in
// the collection even when the save fails.
func (m *Manager) Add(ctx context.Context, p catalog.Paper) (catalog.Paper, reconcile.SaveResult) {
	p = m.hostFile(ctx, p.Clone())
	p.HIndex = catalog.HIndex(p.Citations)

	m.mu.Lock()
	p.ID = catalog.NextID(m.papers)
	m.papers = append(m.papers, p)
	res := m.save(ctx)
	snapshot := catalog.CloneAll(m.papers)
	m.mu.Unlock()

	m.publish(ctx, snapshot)

	return p.Clone(), res
}

// Edit replaces the paper that has the same id. The h-index is recomputed
// from the citations.
func (m *Manager) Edit(ctx context.Context, p catalog.Paper) (reconcile.SaveResult, error) {
	if err := catalog.Validate(p); err != nil {
		return reconcile.SaveResult{}, errors.Wrap(err, "validating paper")
	}
	p = p.Clone()
	p.HIndex = catalog.HIndex(p.Citations)

	m.mu.Lock()
	idx := catalog.Find(m.papers, p.ID)
	if idx == -1 {
		m.mu.Unlock()
		return reconcile.SaveResult{}, errors.Wrapf(ErrNotFound, "id %d", p.ID)
	}
	m.papers[idx] = p
	res := m.save(ctx)
	snapshot := catalog.CloneAll(m.papers)
	m.mu.Unlock()

	m.publish(ctx, snapshot)

	return res, nil
}

// Delete removes a paper from every tier
func (m *Manager) Delete(ctx context.Context, id int) (reconcile.PurgeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := catalog.Find(m.papers, id)
	if idx == -1 {
		return reconcile.PurgeResult{}, errors.Wrapf(ErrNotFound, "id %d", id)
	}

	p := m.papers[idx]
	remaining := make([]catalog.Paper, 0, len(m.papers)-1)
	remaining = append(remaining, m.papers[:idx]...)
	remaining = append(remaining, m.papers[idx+1:]...)
	m.papers = remaining

	return m.engine.DeleteOne(ctx, p, catalog.CloneAll(remaining)), nil
}

// DeleteAll empties the collection and purges every tier. Confirmation is
// the caller's job.
func (m *Manager) DeleteAll(ctx context.Context) reconcile.PurgeResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.papers = []catalog.Paper{}

	return m.engine.DeleteAll(ctx)
}

// SetThumbnail replaces the thumbnail of a paper. The first thumbnail a paper
// gets is kept as its original.
func (m *Manager) SetThumbnail(ctx context.Context, id int, thumbnail string) (reconcile.SaveResult, error) {
	return m.update(ctx, id, func(p *catalog.Paper) error {
		if p.OriginalThumbnail == "" {
			p.OriginalThumbnail = p.Thumbnail
			if p.OriginalThumbnail == "" {
				p.OriginalThumbnail = thumbnail
			}
		}
		p.Thumbnail = thumbnail
		return nil
	})
}

// ErrNoOriginalThumbnail is returned when a thumbnail cannot be reset
var ErrNoOriginalThumbnail = errors.New("paper has no original thumbnail")

// ResetThumbnail restores the original thumbnail
func (m *Manager) ResetThumbnail(ctx context.Context, id int) (reconcile.SaveResult, error) {
	return m.update(ctx, id, func(p *catalog.Paper) error {
		if p.OriginalThumbnail == "" {
			return ErrNoOriginalThumbnail
		}
		p.Thumbnail = p.OriginalThumbnail
		return nil
	})
}

// RemoveThumbnail clears the thumbnail. The original is kept for a later reset.
func (m *Manager) RemoveThumbnail(ctx context.Context, id int) (reconcile.SaveResult, error) {
	return m.update(ctx, id, func(p *catalog.Paper) error {
		p.Thumbnail = ""
		return nil
	})
}

func (m *Manager) update(ctx context.Context, id int, fn func(p *catalog.Paper) error) (reconcile.SaveResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := catalog.Find(m.papers, id)
	if idx == -1 {
		return reconcile.SaveResult{}, errors.Wrapf(ErrNotFound, "id %d", id)
	}

	p := m.papers[idx].Clone()
	if err := fn(&p); err != nil {
		return reconcile.SaveResult{}, err
	}
	m.papers[idx] = p

	return m.save(ctx), nil
}

// Publish pushes the collection to the metadata mirror
func (m *Manager) Publish(ctx context.Context) error {
	return m.engine.Publish(ctx, m.All())
}

// save persists the collection. The caller must hold the lock.
func (m *Manager) save(ctx context.Context) reconcile.SaveResult {
	res := m.engine.Save(ctx, catalog.CloneAll(m.papers))
	for _, f := range res.Failures {
		m.log.Debug("save to %s failed: %s\n", f.Tier, f.Err.Error())
	}

	return res
}

func (m *Manager) publish(ctx context.Context, papers []catalog.Paper) {
	if !m.autoPublish {
		return
	}

	if err := m.engine.Publish(ctx, papers); err != nil {
		if errors.Cause(err) == reconcile.ErrMirrorUnavailable {
			return
		}
		m.log.Warnf("could not update the metadata mirror: %s\n", err.Error())
	}
}
