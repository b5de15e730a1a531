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


package remove

import (
	stdctx "context"

	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/infra"
	"github.com/papershelf/papershelf/pkg/cli/log"
	"github.com/papershelf/papershelf/pkg/cli/output"
	"github.com/papershelf/papershelf/pkg/cli/ui"
	"github.com/papershelf/papershelf/pkg/cli/utils"
	"github.com/papershelf/papershelf/pkg/reconcile"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var yesFlag bool

var example = `
  * Remove a paper by id
  papershelf remove 3

  * Skip confirmation
  papershelf remove 3 -y`

// NewCmd returns a new remove command
func NewCmd(ctx context.PapershelfCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <paper id>",
		Short:   "Remove a paper",
		Aliases: []string{"rm", "d"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&yesFlag, "yes", "y", false, "Assume yes to the prompts and run in non-interactive mode")

	return cmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

func removePaper(c stdctx.Context, ctx context.PapershelfCtx, id int, yes bool) (reconcile.PurgeResult, bool, error) {
	p, err := ctx.Collection.Get(id)
	if err != nil {
		return reconcile.PurgeResult{}, false, err
	}

	if !yes {
		output.PaperInfo(p)

		ok, err := ui.Confirm("remove this paper?", false)
		if err != nil {
			return reconcile.PurgeResult{}, false, errors.Wrap(err, "getting confirmation")
		}
		if !ok {
			return reconcile.PurgeResult{}, false, nil
		}
	}

	res, err := ctx.Collection.Delete(c, id)
	if err != nil {
		return reconcile.PurgeResult{}, false, errors.Wrap(err, "removing paper")
	}

	return res, true, nil
}

func newRun(ctx context.PapershelfCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		id, err := utils.ParseID(args[0])
		if err != nil {
			return err
		}

		infra.LoadCollection(cmd.Context(), ctx)

		res, removed, err := removePaper(cmd.Context(), ctx, id, yesFlag)
		if err != nil {
			return err
		}
		if !removed {
			log.Warnf("aborted by user\n")
			return nil
		}

		output.PurgeResult(res)
		if !res.OK() {
			return errors.Errorf("paper %d was removed with %d failed steps", id, len(res.Failed()))
		}

		log.Successf("removed paper %d\n", id)

		return nil
	}
}
