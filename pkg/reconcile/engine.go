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

// Package reconcile decides which storage tier is authoritative on every read
// and write, degrades across tiers when one fails, and keeps a collection the
// user deleted from coming back out of a stale tier.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/storage"
	"github.com/pkg/errors"
)

// ErrMirrorUnavailable is returned by Publish when the mirror cannot be written
var ErrMirrorUnavailable = errors.New("metadata mirror is not writable")

// Logger receives the failures the engine recovers from
type Logger interface {
	Debug(msg string, v ...interface{})
	Warnf(msg string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{}) {}

// Config wires the engine. Leave a tier nil when it is not available in this
// process. Flat is required.
type Config struct {
	Session    *Session
	Remote     RemoteStore
	Structured StructuredStore
	Flat       FlatStore
	Mirror     Mirror
	FileHost   FileHost
	Logger     Logger
}

// Engine is the storage reconciliation engine
type Engine struct {
	session    *Session
	remote     RemoteStore
	structured StructuredStore
	flat       FlatStore
	mirror     Mirror
	fileHost   FileHost
	log        Logger
	tiers      []tier
}

// New returns an engine over the given tiers
func New(c Config) *Engine {
	e := &Engine{
		session:    c.Session,
		remote:     c.Remote,
		structured: c.Structured,
		flat:       c.Flat,
		mirror:     c.Mirror,
		fileHost:   c.FileHost,
		log:        c.Logger,
	}
	if e.log == nil {
		e.log = nopLogger{}
	}
	e.tiers = e.buildTiers()

	return e
}

// Session returns the session of the engine
func (e *Engine) Session() *Session {
	return e.session
}

// LoadResult is the outcome of Load
type LoadResult struct {
	Papers []catalog.Paper
	// Source is the tier the papers came from. It is empty when no tier had data.
	Source TierName
	// Blocked is set when the deletion marker short-circuited the load
	Blocked bool
}

// Load returns the collection from the first authoritative tier. It never
// fails: tier errors are logged and the next tier is tried.
//
// A reachable remote database is authoritative even when empty. While the
// deletion marker is set, no other tier is read.
func (e *Engine) Load(ctx context.Context) LoadResult {
	markerChecked := false

	for _, t := range e.tiers {
		if !e.usable(t) {
			continue
		}

		if t.guarded && !markerChecked {
			markerChecked = true
			if e.markerSet() {
				e.log.Debug("deletion marker is set, staying empty\n")
				return LoadResult{Papers: []catalog.Paper{}, Blocked: true}
			}
		}

		papers, err := t.load(ctx)
		if err != nil {
			e.log.Debug("loading from %s (%s): %s\n", t.name, storage.KindOf(err), err.Error())
			if t.name == TierRemote {
				next := e.session.Demote()
				e.log.Warnf("remote database unavailable, using %s for this session\n", next)
			}
			continue
		}

		if len(papers) > 0 || t.acceptEmpty {
			e.log.Debug("loaded %d papers from %s\n", len(papers), t.name)
			return LoadResult{Papers: papers, Source: t.name}
		}
	}

	return LoadResult{Papers: []catalog.Paper{}}
}

func (e *Engine) markerSet() bool {
	if e.flat == nil {
		return false
	}

	set, err := e.flat.Marker()
	if err != nil {
		e.log.Debug("reading deletion marker: %s\n", err.Error())
		return false
	}

	return set
}

// TierError is a failed write to one tier
type TierError struct {
	Tier TierName
	Err  error
}

// SaveResult is the outcome of Save
type SaveResult struct {
	Written       []TierName
	Failures      []TierError
	MarkerCleared bool

	// Cleared lists local tiers emptied after their backstop write failed
	Cleared []TierName
}

// OK reports whether the collection reached at least one tier
func (r SaveResult) OK() bool {
	return len(r.Written) > 0
}

// Err returns an error when nothing durable was written
func (r SaveResult) Err() error {
	if r.OK() {
		return nil
	}
	if len(r.Failures) == 0 {
		return errors.New("no storage tier available")
	}

	msgs := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Tier, f.Err.Error()))
	}

	return errors.Wrap(r.Failures[0].Err, "saving failed on every tier ("+strings.Join(msgs, "; ")+")")
}

// Save writes the collection to the remote database when it is active and,
// regardless of the remote outcome, to one local tier as a backstop. A
// remote failure is not retried and does not demote the session.
//
// Saving a non-empty collection removes the deletion marker.
func (e *Engine) Save(ctx context.Context, papers []catalog.Paper) SaveResult {
	var res SaveResult

	for _, t := range e.tiers {
		if t.save == nil || t.local || !e.usable(t) {
			continue
		}

		if err := t.save(ctx, papers); err != nil {
			e.log.Debug("saving to %s (%s): %s\n", t.name, storage.KindOf(err), err.Error())
			res.Failures = append(res.Failures, TierError{Tier: t.name, Err: err})
			continue
		}
		res.Written = append(res.Written, t.name)
	}

	// the first local tier that accepts the write is the backstop
	var skipped []tier
	for _, t := range e.tiers {
		if t.save == nil || !t.local || !e.usable(t) {
			continue
		}

		if err := t.save(ctx, papers); err != nil {
			e.log.Debug("saving to %s (%s): %s\n", t.name, storage.KindOf(err), err.Error())
			res.Failures = append(res.Failures, TierError{Tier: t.name, Err: err})
			skipped = append(skipped, t)
			continue
		}
		res.Written = append(res.Written, t.name)

		// a stale copy in a tier read before this one would shadow it on load
		for _, s := range skipped {
			if s.clear == nil {
				continue
			}
			if err := s.clear(ctx); err != nil {
				e.log.Debug("clearing stale %s: %s\n", s.name, err.Error())
				continue
			}
			res.Cleared = append(res.Cleared, s.name)
		}
		break
	}

	if len(papers) > 0 && res.OK() && e.markerSet() {
		if err := e.flat.ClearMarker(); err != nil {
			e.log.Debug("clearing deletion marker: %s\n", err.Error())
		} else {
			res.MarkerCleared = true
		}
	}

	for _, f := range res.Failures {
		if errors.Is(f.Err, storage.ErrQuota) {
			e.log.Warnf("%s is full, this save was not stored there\n", f.Tier)
		}
	}

	return res
}

// DeleteAll purges the collection from every tier and sets the deletion
// marker. It does not go through Save, so an empty collection is never
// written as if it were regular data.
func (e *Engine) DeleteAll(ctx context.Context) PurgeResult {
	var res PurgeResult
	remoteActive := e.remote != nil && e.session.Active() == TierRemote
	userID := e.session.UserID()

	res.run(StepRemotePapers, remoteActive, func() error {
		return e.remote.DeleteAllPapers(ctx, userID)
	})
	res.run(StepRemoteShares, remoteActive, func() error {
		return e.remote.DeleteShares(ctx, userID)
	})
	res.run(StepMarker, e.flat != nil, func() error {
		return e.flat.SetMarker()
	})
	res.run(StepStructured, e.structured != nil && e.session.StructuredAvailable(), func() error {
		return e.structured.ClearAllData(ctx)
	})
	res.run(StepFlat, e.flat != nil, func() error {
		return e.flat.Remove()
	})

	e.logPurge("delete all", res)

	return res
}

// DeleteOne purges a single paper. remaining is the collection without it.
// Every step is attempted even when an earlier one fails. When remaining is
// empty the deletion marker is set, so a stale mirror copy is not loaded.
func (e *Engine) DeleteOne(ctx context.Context, p catalog.Paper, remaining []catalog.Paper) PurgeResult {
	var res PurgeResult

	res.run(StepStructured, e.structured != nil && e.session.StructuredAvailable(), func() error {
		return e.structured.DeletePaper(ctx, p.ID)
	})
	res.run(StepFile, e.fileHost != nil && p.GitHubFileInfo != nil && p.GitHubFileInfo.Filename != "", func() error {
		return e.fileHost.Delete(ctx, *p.GitHubFileInfo)
	})
	res.run(StepSave, true, func() error {
		return e.Save(ctx, remaining).Err()
	})
	// removing the last paper empties the collection as delete-all does
	res.run(StepMarker, e.flat != nil && len(remaining) == 0, func() error {
		return e.flat.SetMarker()
	})
	res.run(StepMirror, e.mirror != nil && e.mirror.CanWrite(), func() error {
		return e.mirror.UploadSnapshot(ctx, remaining)
	})

	e.logPurge(fmt.Sprintf("delete paper %d", p.ID), res)

	return res
}

func (e *Engine) logPurge(op string, res PurgeResult) {
	for _, s := range res.Failed() {
		e.log.Debug("%s: step %s failed: %s\n", op, s.Name, s.Err.Error())
	}
}

// Publish uploads the collection to the metadata mirror after checking the
// token
func (e *Engine) Publish(ctx context.Context, papers []catalog.Paper) error {
	if e.mirror == nil || !e.mirror.CanWrite() {
		return ErrMirrorUnavailable
	}

	if err := e.mirror.ValidateToken(ctx); err != nil {
		return errors.Wrap(err, "validating mirror token")
	}
	if err := e.mirror.UploadSnapshot(ctx, papers); err != nil {
		return errors.Wrap(err, "uploading to mirror")
	}

	return nil
}
