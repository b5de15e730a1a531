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

package reconcile

import (
	"context"
	"sort"
	"sync"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/pkg/errors"
)

type fakeRemote struct {
	mu            sync.Mutex
	rows          map[string][]catalog.Paper
	shares        map[string]int
	loadErr       error
	saveErr       error
	deleteErr     error
	loadCalls     int
	deletedShares bool
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{rows: map[string][]catalog.Paper{}, shares: map[string]int{}}
}

func (f *fakeRemote) LoadPapers(ctx context.Context, userID string) ([]catalog.Paper, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loadCalls++
	if f.loadErr != nil {
		return nil, f.loadErr
	}

	return catalog.CloneAll(f.rows[userID]), nil
}

func (f *fakeRemote) SavePapers(ctx context.Context, papers []catalog.Paper, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveErr != nil {
		return f.saveErr
	}
	f.rows[userID] = catalog.StripPayload(papers)

	return nil
}

func (f *fakeRemote) DeleteAllPapers(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, userID)

	return nil
}

func (f *fakeRemote) DeleteShares(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deletedShares = true
	delete(f.shares, userID)

	return nil
}

type fakeStructured struct {
	papers    map[int]catalog.Paper
	loadErr   error
	saveErr   error
	deleteErr error
	clearErr  error
	// failInsert makes the nth insert of a ReplaceAll fail, counting from 1
	failInsert int
}

func newFakeStructured(papers ...catalog.Paper) *fakeStructured {
	f := &fakeStructured{papers: map[int]catalog.Paper{}}
	for _, p := range papers {
		f.papers[p.ID] = p
	}

	return f
}

func (f *fakeStructured) GetAllPapers(ctx context.Context) ([]catalog.Paper, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}

	ret := []catalog.Paper{}
	for _, p := range f.papers {
		ret = append(ret, p)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })

	return ret, nil
}

func (f *fakeStructured) SavePaper(ctx context.Context, p catalog.Paper) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.papers[p.ID] = p

	return nil
}

func (f *fakeStructured) DeletePaper(ctx context.Context, id int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.papers, id)

	return nil
}

func (f *fakeStructured) ClearAllData(ctx context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.papers = map[int]catalog.Paper{}

	return nil
}

func (f *fakeStructured) ReplaceAll(ctx context.Context, papers []catalog.Paper) error {
	if f.saveErr != nil {
		return f.saveErr
	}

	next := map[int]catalog.Paper{}
	for i, p := range papers {
		if i+1 == f.failInsert {
			return errors.Errorf("inserting paper %d: constraint failed", p.ID)
		}
		next[p.ID] = p
	}
	f.papers = next

	return nil
}

type fakeFlat struct {
	papers  []catalog.Paper
	present bool
	marker  bool
	setErr  error
	getErr  error
}

func (f *fakeFlat) Get() ([]catalog.Paper, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if !f.present {
		return []catalog.Paper{}, nil
	}

	return catalog.CloneAll(f.papers), nil
}

func (f *fakeFlat) Set(papers []catalog.Paper) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.papers = catalog.StripPayload(papers)
	f.present = true

	return nil
}

func (f *fakeFlat) Remove() error {
	f.papers = nil
	f.present = false
	return nil
}

func (f *fakeFlat) Marker() (bool, error) { return f.marker, nil }
func (f *fakeFlat) SetMarker() error      { f.marker = true; return nil }
func (f *fakeFlat) ClearMarker() error    { f.marker = false; return nil }

type fakeMirror struct {
	papers      []catalog.Paper
	enabled     bool
	canWrite    bool
	validateErr error
	uploadErr   error
	downloadErr error
	uploads     [][]catalog.Paper
}

func (f *fakeMirror) Enabled() bool  { return f.enabled }
func (f *fakeMirror) CanWrite() bool { return f.canWrite }

func (f *fakeMirror) ValidateToken(ctx context.Context) error {
	return f.validateErr
}

func (f *fakeMirror) UploadSnapshot(ctx context.Context, papers []catalog.Paper) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, catalog.ForMirror(papers))
	f.papers = catalog.ForMirror(papers)

	return nil
}

func (f *fakeMirror) DownloadSnapshot(ctx context.Context) ([]catalog.Paper, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}

	return catalog.CloneAll(f.papers), nil
}

type fakeHost struct {
	deleted []catalog.FileInfo
	err     error
}

func (f *fakeHost) Delete(ctx context.Context, info catalog.FileInfo) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, info)

	return nil
}
