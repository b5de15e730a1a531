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


package export

import (
	stdctx "context"
	"encoding/json"
	"io"
	"os"

	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/infra"
	"github.com/papershelf/papershelf/pkg/cli/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var outputFlag string

var example = `
  * Print the local store as JSON
  papershelf export

  * Write it to a file
  papershelf export -o backup.json`

// ErrNoStore is returned when the local structured store could not be opened
var ErrNoStore = errors.New("the local structured store is not available")

// NewCmd returns a new export command
func NewCmd(ctx context.PapershelfCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export the local store with statistics",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&outputFlag, "output", "o", "", "file to write the export to")

	return cmd
}

func export(c stdctx.Context, ctx context.PapershelfCtx, w io.Writer) error {
	if ctx.Structured == nil {
		return ErrNoStore
	}

	ex, err := ctx.Structured.Export(c)
	if err != nil {
		return errors.Wrap(err, "exporting")
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ex); err != nil {
		return errors.Wrap(err, "encoding the export")
	}

	return nil
}

func newRun(ctx context.PapershelfCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if outputFlag == "" {
			return export(cmd.Context(), ctx, os.Stdout)
		}

		f, err := os.OpenFile(outputFlag, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return errors.Wrapf(err, "creating %s", outputFlag)
		}
		defer f.Close()

		if err := export(cmd.Context(), ctx, f); err != nil {
			return err
		}

		log.Successf("exported to %s\n", outputFlag)

		return nil
	}
}
