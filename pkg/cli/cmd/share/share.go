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


package share

import (
	stdctx "context"
	"encoding/json"
	"io"
	"os"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/infra"
	"github.com/papershelf/papershelf/pkg/cli/log"
	"github.com/papershelf/papershelf/pkg/cli/output"
	"github.com/papershelf/papershelf/pkg/cli/utils"
	"github.com/papershelf/papershelf/pkg/share"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var jsonFlag bool

var example = `
  * Share the whole collection
  papershelf share

  * Share some papers
  papershelf share 1 4 7

  * Open a link someone shared
  papershelf share open "http://localhost:3002/share/3f9a..."`

// NewCmd returns a new share command
func NewCmd(ctx context.PapershelfCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "share [paper id...]",
		Short:   "Create a read-only link to papers",
		Example: example,
		RunE:    newRun(ctx),
	}

	cmd.AddCommand(newOpenCmd(ctx))

	return cmd
}

func newOpenCmd(ctx context.PapershelfCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "open <link>",
		Short:   "Show the papers of a share link",
		PreRunE: openPreRun,
		RunE:    newOpenRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&jsonFlag, "json", "", false, "print the shared papers as JSON")

	return cmd
}

func openPreRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// selectPapers returns the papers with the given ids, or every paper when
// no id is given
func selectPapers(ctx context.PapershelfCtx, args []string) ([]catalog.Paper, error) {
	if len(args) == 0 {
		return ctx.Collection.All(), nil
	}

	ret := make([]catalog.Paper, 0, len(args))
	for _, arg := range args {
		id, err := utils.ParseID(arg)
		if err != nil {
			return nil, err
		}

		p, err := ctx.Collection.Get(id)
		if err != nil {
			return nil, err
		}
		ret = append(ret, p)
	}

	return ret, nil
}

func create(c stdctx.Context, ctx context.PapershelfCtx, args []string) (share.Created, error) {
	papers, err := selectPapers(ctx, args)
	if err != nil {
		return share.Created{}, err
	}

	return ctx.Shares.Create(c, papers)
}

func newRun(ctx context.PapershelfCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		infra.LoadCollection(cmd.Context(), ctx)

		created, err := create(cmd.Context(), ctx, args)
		if err != nil {
			return errors.Wrap(err, "creating share link")
		}

		if created.Inline {
			log.Infof("the papers are embedded in the link\n")
		}
		log.Successf("share link created\n")
		log.Plainf("%s\n", created.URL)

		return nil
	}
}

func open(c stdctx.Context, ctx context.PapershelfCtx, w io.Writer, link string, asJSON bool) error {
	shared, err := ctx.Shares.ResolveURL(c, link)
	if err != nil {
		return errors.Wrap(err, "opening share link")
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(shared.Papers)
	}

	for _, p := range shared.Papers {
		output.PaperRow(p)
	}
	if !shared.Inline {
		log.Plainf("viewed %d times\n", shared.AccessCount)
	}

	return nil
}

func newOpenRun(ctx context.PapershelfCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		return open(cmd.Context(), ctx, os.Stdout, args[0], jsonFlag)
	}
}
