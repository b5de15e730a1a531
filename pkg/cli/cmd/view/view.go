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


package view

import (
	"encoding/json"
	"io"
	"os"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/infra"
	"github.com/papershelf/papershelf/pkg/cli/output"
	"github.com/papershelf/papershelf/pkg/cli/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * View a paper
 papershelf view 3

 * Print the record as JSON
 papershelf view 3 --json`

var jsonFlag bool

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new view command
func NewCmd(ctx context.PapershelfCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "view <paper id>",
		Aliases: []string{"v"},
		Short:   "View a paper",
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVar(&jsonFlag, "json", false, "print the record as JSON")

	return cmd
}

// viewPaper prints the paper with the given id. The JSON form leaves out
// embedded file data.
func viewPaper(ctx context.PapershelfCtx, w io.Writer, idArg string, asJSON bool) error {
	id, err := utils.ParseID(idArg)
	if err != nil {
		return err
	}

	p, err := ctx.Collection.Get(id)
	if err != nil {
		return err
	}

	if !asJSON {
		output.PaperInfo(p)
		return nil
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(catalog.StripPayload([]catalog.Paper{p})[0]); err != nil {
		return errors.Wrap(err, "encoding paper")
	}

	return nil
}

func newRun(ctx context.PapershelfCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		infra.LoadCollection(cmd.Context(), ctx)

		return viewPaper(ctx, os.Stdout, args[0], jsonFlag)
	}
}
