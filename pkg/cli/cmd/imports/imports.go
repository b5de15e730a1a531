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


// Package imports implements the import command
package imports

import (
	stdctx "context"
	"os"
	"path/filepath"
	"sort"

	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/infra"
	"github.com/papershelf/papershelf/pkg/cli/log"
	"github.com/papershelf/papershelf/pkg/cli/output"
	"github.com/papershelf/papershelf/pkg/cli/validate"
	"github.com/papershelf/papershelf/pkg/ingest"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var concurrencyFlag int
var categoryFlag string
var retryFlag bool

var example = `
 * Import papers from JSON and CSV exports
 papershelf import library.json export.csv

 * Import every supported file of a directory as Mobile Device papers
 papershelf import ~/papers --category "Mobile Device"

 * Process one file at a time and retry failed files once
 papershelf import ~/papers --concurrency 1 --retry`

// NewCmd returns a new import command
func NewCmd(ctx context.PapershelfCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "import <file or directory...>",
		Short:   "Import papers from JSON, CSV and document files",
		Aliases: []string{"i"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.IntVarP(&concurrencyFlag, "concurrency", "n", ctx.Config.BatchConcurrency, "number of files processed at the same time")
	f.StringVarP(&categoryFlag, "category", "c", "auto", "research area of the imported papers, or auto to read it from each record")
	f.BoolVar(&retryFlag, "retry", false, "retry failed files once")

	return cmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("Incorrect number of argument")
	}
	if err := validate.Concurrency(concurrencyFlag); err != nil {
		return err
	}

	return validate.Category(categoryFlag)
}

// ExpandPaths replaces directories by the supported files they contain
func ExpandPaths(args []string) ([]string, error) {
	var ret []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", arg)
		}
		if !info.IsDir() {
			ret = append(ret, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "reading directory %s", arg)
		}

		var names []string
		for _, e := range entries {
			if !e.IsDir() && ingest.Supported(e.Name()) {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, n := range names {
			ret = append(ret, filepath.Join(arg, n))
		}
	}

	return ret, nil
}

// Options configures an import
type Options struct {
	Concurrency int
	Category    string
	Retry       bool
}

// Run ingests the files into the collection of ctx
func Run(c stdctx.Context, ctx context.PapershelfCtx, paths []string, opts Options) (ingest.Summary, error) {
	b := ingest.NewBatch(ingest.Config{
		Adder:       ctx.Collection,
		Concurrency: opts.Concurrency,
		Category:    opts.Category,
		Clock:       ctx.Clock,
		Logger:      log.Logger{},
		OnUpdate:    output.BatchItem,
	}, paths...)

	s, err := b.Run(c)
	if err != nil {
		return s, errors.Wrap(err, "importing")
	}

	if opts.Retry && s.Failed > 0 {
		log.Infof("retrying %d files\n", b.RetryFailed())

		s, err = b.Run(c)
		if err != nil {
			return s, errors.Wrap(err, "retrying")
		}
	}

	return s, nil
}

func newRun(ctx context.PapershelfCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		paths, err := ExpandPaths(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return errors.New("no supported files found")
		}

		infra.LoadCollection(cmd.Context(), ctx)

		s, err := Run(cmd.Context(), ctx, paths, Options{
			Concurrency: concurrencyFlag,
			Category:    categoryFlag,
			Retry:       retryFlag,
		})
		output.BatchSummary(s)
		if err != nil {
			return err
		}
		if s.Completed == 0 {
			return errors.New("no file could be imported")
		}

		return nil
	}
}
