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


package nuke

import (
	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/infra"
	"github.com/papershelf/papershelf/pkg/cli/log"
	"github.com/papershelf/papershelf/pkg/cli/output"
	"github.com/papershelf/papershelf/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// phrase must be typed exactly to delete the collection
const phrase = "DELETE ALL"

var example = `
  * Delete every paper from every storage tier
  papershelf nuke`

// NewCmd returns a new nuke command
func NewCmd(ctx context.PapershelfCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "nuke",
		Short:   "Delete every paper everywhere",
		Example: example,
		RunE:    newRun(ctx),
	}

	return cmd
}

func confirm(count int) (bool, error) {
	log.Warnf("this removes %d papers, their shares and the local stores\n", count)

	ok, err := ui.Confirm("delete every paper? This cannot be undone.", false)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	return ui.ConfirmPhrase("To confirm", phrase)
}

func newRun(ctx context.PapershelfCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		infra.LoadCollection(cmd.Context(), ctx)

		ok, err := confirm(ctx.Collection.Len())
		if err != nil {
			return errors.Wrap(err, "getting confirmation")
		}
		if !ok {
			log.Warnf("aborted by user\n")
			return nil
		}

		res := ctx.Collection.DeleteAll(cmd.Context())
		output.PurgeResult(res)
		if !res.OK() {
			return errors.Errorf("%d steps failed, run nuke again to retry them", len(res.Failed()))
		}

		log.Successf("deleted every paper\n")

		return nil
	}
}
