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

// Package ingest adds papers from uploaded files in batches, a few files at a
// time.
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/clock"
	"github.com/papershelf/papershelf/pkg/reconcile"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the number of files parsed at the same time
const DefaultConcurrency = 3

// Status is the state of a batch item
type Status string

// Item states
const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var (
	// ErrRunning is returned by Run when the batch is already running
	ErrRunning = errors.New("batch is already running")
	// ErrItemNotFound is returned by RetryItem for an unknown item
	ErrItemNotFound = errors.New("batch item not found")
)

// Item is one file of a batch
type Item struct {
	ID     int
	Path   string
	Status Status
	Err    error
	// Papers are the papers added from the file, with their ids
	Papers []catalog.Paper
}

// Name returns the file name of the item
func (i Item) Name() string {
	return filepath.Base(i.Path)
}

// Adder receives parsed papers. collection.Manager is an Adder.
type Adder interface {
	Add(ctx context.Context, p catalog.Paper) (catalog.Paper, reconcile.SaveResult)
}

// Config configures a batch
type Config struct {
	Adder Adder
	// Concurrency is the number of files processed at the same time
	Concurrency int
	// Category is the research area given to every paper, or
	// catalog.CategoryAuto
	Category string
	Parse    ParseFunc
	ReadFile func(path string) ([]byte, error)
	Clock    clock.Clock
	Logger   reconcile.Logger
	// OnUpdate is called after every status change
	OnUpdate func(Item)
}

// Batch is a queue of files processed by a bounded pool of workers
type Batch struct {
	cfg Config

	mu      sync.Mutex
	items   []*Item
	nextID  int
	running bool
	// gate is non-nil while the batch is paused and is closed on resume
	gate chan struct{}
}

// NewBatch returns a batch with the given files queued
func NewBatch(c Config, paths ...string) *Batch {
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Category == "" {
		c.Category = catalog.CategoryAuto
	}
	if c.Parse == nil {
		c.Parse = ParseFile
	}
	if c.ReadFile == nil {
		c.ReadFile = os.ReadFile
	}
	if c.Clock == nil {
		c.Clock = clock.New()
	}

	b := &Batch{cfg: c}
	b.Queue(paths...)

	return b
}

// Queue adds files to the batch
func (b *Batch) Queue(paths ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range paths {
		b.nextID++
		b.items = append(b.items, &Item{ID: b.nextID, Path: p, Status: StatusQueued})
	}
}

// Run processes every queued item and returns when they are done. Pausing
// stops new items from starting; cancelling ctx stops the batch after the
// in-flight items finish, leaving the rest queued.
func (b *Batch) Run(ctx context.Context) (Summary, error) {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return Summary{}, ErrRunning
	}
	b.running = true
	queued := []*Item{}
	for _, it := range b.items {
		if it.Status == StatusQueued {
			queued = append(queued, it)
		}
	}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.running = false
		b.mu.Unlock()
	}()

	sem := semaphore.NewWeighted(int64(b.cfg.Concurrency))
	// in-flight items run to completion even when ctx is cancelled
	workCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	var stopErr error
	for _, it := range queued {
		if err := b.acquire(ctx, sem, it); err != nil {
			stopErr = err
			break
		}

		wg.Add(1)
		go func(it *Item) {
			defer wg.Done()
			defer sem.Release(1)

			b.process(workCtx, it)
		}(it)
	}
	wg.Wait()

	return b.Summary(), stopErr
}

func (b *Batch) process(ctx context.Context, it *Item) {
	data, err := b.cfg.ReadFile(it.Path)
	if err != nil {
		b.fail(it, errors.Wrap(err, "reading file"))
		return
	}

	papers, err := b.cfg.Parse(it.Name(), data, b.cfg.Category, b.cfg.Clock.Now().Year())
	if err != nil {
		b.fail(it, err)
		return
	}
	if len(papers) == 0 {
		b.fail(it, ErrNoRecords)
		return
	}

	added := make([]catalog.Paper, 0, len(papers))
	for _, p := range papers {
		got, res := b.cfg.Adder.Add(ctx, p)
		if err := res.Err(); err != nil && b.cfg.Logger != nil {
			b.cfg.Logger.Warnf("%s was added but could not be saved: %s\n", got.Title, err.Error())
		}
		added = append(added, got)
	}

	b.setStatus(it, StatusCompleted, nil, added)
}

func (b *Batch) fail(it *Item, err error) {
	if b.cfg.Logger != nil {
		b.cfg.Logger.Debug("processing %s: %s\n", it.Path, err.Error())
	}
	b.setStatus(it, StatusFailed, err, nil)
}

func (b *Batch) setStatus(it *Item, s Status, err error, papers []catalog.Paper) {
	b.mu.Lock()
	it.Status = s
	it.Err = err
	it.Papers = papers
	snapshot := *it
	b.mu.Unlock()

	if b.cfg.OnUpdate != nil {
		b.cfg.OnUpdate(snapshot)
	}
}

// acquire takes a worker slot and marks the item as processing. The pause
// gate is checked after the slot is taken.
func (b *Batch) acquire(ctx context.Context, sem *semaphore.Weighted, it *Item) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}

		b.mu.Lock()
		gate := b.gate
		if gate == nil {
			it.Status = StatusProcessing
			it.Err = nil
			it.Papers = nil
			snapshot := *it
			b.mu.Unlock()

			if b.cfg.OnUpdate != nil {
				b.cfg.OnUpdate(snapshot)
			}
			return nil
		}
		b.mu.Unlock()

		sem.Release(1)
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Pause stops new items from starting. Items already processing finish.
func (b *Batch) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.gate == nil {
		b.gate = make(chan struct{})
	}
}

// Resume lets a paused batch continue
func (b *Batch) Resume() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.gate != nil {
		close(b.gate)
		b.gate = nil
	}
}

// Paused reports whether the batch is paused
func (b *Batch) Paused() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.gate != nil
}

// RetryFailed queues every failed item again and returns how many there were
func (b *Batch) RetryFailed() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, it := range b.items {
		if it.Status == StatusFailed {
			it.Status = StatusQueued
			it.Err = nil
			n++
		}
	}

	return n
}

// RetryItem queues one failed item again
func (b *Batch) RetryItem(id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, it := range b.items {
		if it.ID != id {
			continue
		}
		if it.Status != StatusFailed {
			return errors.Errorf("item %d is %s", id, it.Status)
		}
		it.Status = StatusQueued
		it.Err = nil
		return nil
	}

	return errors.Wrapf(ErrItemNotFound, "id %d", id)
}

// Items returns a copy of the items in queue order
func (b *Batch) Items() []Item {
	b.mu.Lock()
	defer b.mu.Unlock()

	ret := make([]Item, 0, len(b.items))
	for _, it := range b.items {
		ret = append(ret, *it)
	}

	return ret
}

// Summary counts the items of a batch by status
type Summary struct {
	Total      int
	Queued     int
	Processing int
	Completed  int
	Failed     int
}

// Summary returns the current counts
func (b *Batch) Summary() Summary {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := Summary{Total: len(b.items)}
	for _, it := range b.items {
		switch it.Status {
		case StatusQueued:
			s.Queued++
		case StatusProcessing:
			s.Processing++
		case StatusCompleted:
			s.Completed++
		case StatusFailed:
			s.Failed++
		}
	}

	return s
}
