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


// Package watch implements the watch command
package watch

import (
	stdctx "context"
	"time"

	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/infra"
	"github.com/papershelf/papershelf/pkg/cli/log"
	"github.com/papershelf/papershelf/pkg/cli/output"
	"github.com/papershelf/papershelf/pkg/cli/validate"
	"github.com/papershelf/papershelf/pkg/ingest"
	"github.com/pkg/errors"
	"github.com/radovskyb/watcher"
	"github.com/robfig/cron"
	"github.com/spf13/cobra"
)

var intervalFlag time.Duration
var categoryFlag string
var scheduleFlag string

var example = `
 * Import every paper saved into a directory
 papershelf watch ~/Downloads/papers

 * Also push the collection to the metadata mirror every 10 minutes
 papershelf watch ~/Downloads/papers --mirror-schedule "@every 10m"`

// NewCmd returns a new watch command
func NewCmd(ctx context.PapershelfCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch <directory>",
		Short:   "Import papers as they are saved into a directory",
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.DurationVar(&intervalFlag, "interval", time.Second, "how often the directory is scanned")
	f.StringVarP(&categoryFlag, "category", "c", "auto", "research area of the imported papers")
	f.StringVar(&scheduleFlag, "mirror-schedule", ctx.Config.MirrorSchedule, "cron spec of periodic mirror pushes, e.g. \"@every 10m\"")

	return cmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}
	if intervalFlag <= 0 {
		return errors.New("interval must be positive")
	}

	return validate.Category(categoryFlag)
}

// Options configures a Watcher
type Options struct {
	Interval time.Duration
	Category string
}

// Watcher ingests the files created in a directory
type Watcher struct {
	ctx      context.PapershelfCtx
	w        *watcher.Watcher
	batch    *ingest.Batch
	interval time.Duration
}

// New starts tracking dir. Files already present are not imported.
func New(ctx context.PapershelfCtx, dir string, opts Options) (*Watcher, error) {
	w := watcher.New()
	w.FilterOps(watcher.Create, watcher.Move)
	if err := w.Add(dir); err != nil {
		return nil, errors.Wrapf(err, "watching %s", dir)
	}

	b := ingest.NewBatch(ingest.Config{
		Adder:    ctx.Collection,
		Category: opts.Category,
		Clock:    ctx.Clock,
		Logger:   log.Logger{},
		OnUpdate: output.BatchItem,
	})

	return &Watcher{ctx: ctx, w: w, batch: b, interval: opts.Interval}, nil
}

// importable returns the path of a new file that can be imported
func importable(ev watcher.Event) (string, bool) {
	if ev.Op != watcher.Create && ev.Op != watcher.Move {
		return "", false
	}
	if ev.FileInfo != nil && ev.IsDir() {
		return "", false
	}
	if !ingest.Supported(ev.Path) {
		return "", false
	}

	return ev.Path, true
}

func (wt *Watcher) ingest(c stdctx.Context, path string) {
	wt.batch.Queue(path)

	if _, err := wt.batch.Run(c); err != nil {
		log.Debug("importing %s: %s\n", path, err.Error())
	}
}

// Run imports new files until c is cancelled
func (wt *Watcher) Run(c stdctx.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- wt.w.Start(wt.interval)
	}()
	wt.w.Wait()

	done := make(chan struct{})
	go func() {
		defer close(done)

		for {
			select {
			case ev := <-wt.w.Event:
				if path, ok := importable(ev); ok {
					wt.ingest(c, path)
				}
			case err := <-wt.w.Error:
				log.Debug("watching: %s\n", err.Error())
			case <-wt.w.Closed:
				return
			}
		}
	}()

	select {
	case <-c.Done():
		wt.w.Close()
		<-done
		return nil
	case err := <-errCh:
		return errors.Wrap(err, "watching")
	}
}

// Schedule runs push on the cron spec until the returned cron is stopped
func Schedule(spec string, push func()) (*cron.Cron, error) {
	sched := cron.New()
	if err := sched.AddFunc(spec, push); err != nil {
		return nil, errors.Wrapf(err, "invalid schedule '%s'", spec)
	}
	sched.Start()

	return sched, nil
}

func pushMirror(c stdctx.Context, ctx context.PapershelfCtx) func() {
	return func() {
		if err := ctx.Collection.Publish(c); err != nil {
			log.Warnf("could not update the metadata mirror: %s\n", err.Error())
			return
		}

		log.Successf("metadata mirror updated\n")
	}
}

func newRun(ctx context.PapershelfCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		c := cmd.Context()
		dir := args[0]

		infra.LoadCollection(c, ctx)

		wt, err := New(ctx, dir, Options{Interval: intervalFlag, Category: categoryFlag})
		if err != nil {
			return err
		}

		if scheduleFlag != "" {
			if !ctx.Mirror.CanWrite() {
				log.Warnf("the metadata mirror is not writable, periodic pushes are off\n")
			} else {
				sched, err := Schedule(scheduleFlag, pushMirror(c, ctx))
				if err != nil {
					return err
				}
				defer sched.Stop()
			}
		}

		log.Infof("watching %s, press Ctrl+C to stop\n", dir)

		return wt.Run(c)
	}
}
