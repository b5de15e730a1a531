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


package thumbnail

import (
	stdctx "context"
	"encoding/base64"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/infra"
	"github.com/papershelf/papershelf/pkg/cli/log"
	"github.com/papershelf/papershelf/pkg/cli/output"
	"github.com/papershelf/papershelf/pkg/cli/utils"
	"github.com/papershelf/papershelf/pkg/reconcile"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// maxImageSize is the largest image accepted as a thumbnail
const maxImageSize = 2 * 1024 * 1024

var setFlag string
var resetFlag bool
var removeFlag bool

var example = `
  * Use an image as the thumbnail of paper 3
  papershelf thumbnail 3 --set cover.png

  * Go back to the first thumbnail the paper had
  papershelf thumbnail 3 --reset

  * Remove the thumbnail
  papershelf thumbnail 3 --remove`

// NewCmd returns a new thumbnail command
func NewCmd(ctx context.PapershelfCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "thumbnail <paper id>",
		Short:   "Change the thumbnail of a paper",
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&setFlag, "set", "s", "", "image file to use as the thumbnail")
	f.BoolVarP(&resetFlag, "reset", "r", false, "restore the original thumbnail")
	f.BoolVarP(&removeFlag, "remove", "", false, "remove the thumbnail")

	return cmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	n := 0
	if setFlag != "" {
		n++
	}
	if resetFlag {
		n++
	}
	if removeFlag {
		n++
	}
	if n != 1 {
		return errors.New("exactly one of --set, --reset or --remove is required")
	}

	return nil
}

// DataURL encodes the image at path as a data URL
func DataURL(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	if len(b) > maxImageSize {
		return "", errors.Errorf("%s is larger than %d bytes", path, maxImageSize)
	}

	mime := mimetype.Detect(b)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", errors.Errorf("%s is not an image (%s)", path, mime.String())
	}

	return "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

// Action is a thumbnail change
type Action int

// Thumbnail actions
const (
	ActionSet Action = iota
	ActionReset
	ActionRemove
)

func apply(c stdctx.Context, ctx context.PapershelfCtx, id int, action Action, path string) (reconcile.SaveResult, error) {
	switch action {
	case ActionSet:
		u, err := DataURL(path)
		if err != nil {
			return reconcile.SaveResult{}, err
		}
		return ctx.Collection.SetThumbnail(c, id, u)
	case ActionReset:
		return ctx.Collection.ResetThumbnail(c, id)
	case ActionRemove:
		return ctx.Collection.RemoveThumbnail(c, id)
	default:
		return reconcile.SaveResult{}, errors.Errorf("unknown thumbnail action %d", action)
	}
}

func actionFromFlags() Action {
	switch {
	case resetFlag:
		return ActionReset
	case removeFlag:
		return ActionRemove
	default:
		return ActionSet
	}
}

func newRun(ctx context.PapershelfCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		id, err := utils.ParseID(args[0])
		if err != nil {
			return err
		}

		infra.LoadCollection(cmd.Context(), ctx)

		res, err := apply(cmd.Context(), ctx, id, actionFromFlags(), setFlag)
		if err != nil {
			return err
		}
		output.SaveResult(res)
		if err := res.Err(); err != nil {
			return errors.Wrap(err, "saving the collection")
		}

		log.Successf("updated the thumbnail of paper %d\n", id)

		return nil
	}
}
