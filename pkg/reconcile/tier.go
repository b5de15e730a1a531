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

	"github.com/papershelf/papershelf/pkg/catalog"
)

// RemoteStore is the remote database tier
type RemoteStore interface {
	LoadPapers(ctx context.Context, userID string) ([]catalog.Paper, error)
	SavePapers(ctx context.Context, papers []catalog.Paper, userID string) error
	DeleteAllPapers(ctx context.Context, userID string) error
	DeleteShares(ctx context.Context, userID string) error
}

// StructuredStore is the local structured tier
type StructuredStore interface {
	GetAllPapers(ctx context.Context) ([]catalog.Paper, error)
	SavePaper(ctx context.Context, p catalog.Paper) error
	DeletePaper(ctx context.Context, id int) error
	ClearAllData(ctx context.Context) error
	// ReplaceAll swaps the stored set for papers atomically
	ReplaceAll(ctx context.Context, papers []catalog.Paper) error
}

// FlatStore is the local flat tier. It also holds the deletion marker.
type FlatStore interface {
	Get() ([]catalog.Paper, error)
	Set(papers []catalog.Paper) error
	Remove() error
	Marker() (bool, error)
	SetMarker() error
	ClearMarker() error
}

// Mirror is the remote metadata mirror
type Mirror interface {
	Enabled() bool
	CanWrite() bool
	ValidateToken(ctx context.Context) error
	UploadSnapshot(ctx context.Context, papers []catalog.Paper) error
	DownloadSnapshot(ctx context.Context) ([]catalog.Paper, error)
}

// FileHost deletes hosted paper files
type FileHost interface {
	Delete(ctx context.Context, info catalog.FileInfo) error
}

// tier is one entry of the fallback chain
type tier struct {
	name TierName
	// acceptEmpty makes an empty successful load authoritative
	acceptEmpty bool
	// guarded tiers are not read while the deletion marker is set
	guarded bool
	// local tiers receive the backstop write on save
	local bool
	load    func(ctx context.Context) ([]catalog.Paper, error)
	save    func(ctx context.Context, papers []catalog.Paper) error
	// clear empties a local tier whose backstop write failed, so a later
	// load reaches the tier that holds the current copy
	clear func(ctx context.Context) error
}

func (e *Engine) buildTiers() []tier {
	var tiers []tier

	if e.remote != nil {
		tiers = append(tiers, tier{
			name:        TierRemote,
			acceptEmpty: true,
			load: func(ctx context.Context) ([]catalog.Paper, error) {
				return e.remote.LoadPapers(ctx, e.session.UserID())
			},
			save: func(ctx context.Context, papers []catalog.Paper) error {
				return e.remote.SavePapers(ctx, papers, e.session.UserID())
			},
		})
	}

	if e.structured != nil {
		tiers = append(tiers, tier{
			name:    TierStructured,
			guarded: true,
			local:   true,
			load:    e.structured.GetAllPapers,
			save:    e.structured.ReplaceAll,
			clear:   e.structured.ClearAllData,
		})
	}

	if e.flat != nil {
		tiers = append(tiers, tier{
			name:    TierFlat,
			guarded: true,
			local:   true,
			load: func(ctx context.Context) ([]catalog.Paper, error) {
				return e.flat.Get()
			},
			save: func(ctx context.Context, papers []catalog.Paper) error {
				return e.flat.Set(papers)
			},
		})
	}

	if e.mirror != nil {
		tiers = append(tiers, tier{
			name:        TierMirror,
			acceptEmpty: true,
			guarded:     true,
			load:        e.mirror.DownloadSnapshot,
		})
	}

	return tiers
}

// usable reports whether the session allows reading or writing the tier
func (e *Engine) usable(t tier) bool {
	switch t.name {
	case TierRemote:
		return e.session.Active() == TierRemote
	case TierStructured:
		return e.session.StructuredAvailable()
	case TierMirror:
		return e.mirror.Enabled()
	default:
		return true
	}
}
