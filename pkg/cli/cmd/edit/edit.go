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


package edit

import (
	stdctx "context"
	"fmt"
	"strings"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/infra"
	"github.com/papershelf/papershelf/pkg/cli/log"
	"github.com/papershelf/papershelf/pkg/cli/output"
	"github.com/papershelf/papershelf/pkg/cli/ui"
	"github.com/papershelf/papershelf/pkg/cli/utils"
	"github.com/papershelf/papershelf/pkg/cli/utils/diff"
	"github.com/papershelf/papershelf/pkg/cli/validate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var example = `
  * Edit a paper by id
  papershelf edit 3

  * Replace the fields of a paper without launching an editor
  papershelf edit 3 < paper.yaml`

// NewCmd returns a new edit command
func NewCmd(ctx context.PapershelfCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <paper id>",
		Short:   "Edit a paper",
		Aliases: []string{"e"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	return cmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// EditableYAML renders the fields of p a user may edit
func EditableYAML(p catalog.Paper) (string, error) {
	b, err := yaml.Marshal(p)
	if err != nil {
		return "", errors.Wrap(err, "marshalling paper")
	}

	return string(b), nil
}

// ApplyEdit returns original with its editable fields replaced by the ones in
// content. Fields missing from content are cleared.
func ApplyEdit(original catalog.Paper, content string) (catalog.Paper, error) {
	var edited catalog.Paper
	if err := yaml.Unmarshal([]byte(content), &edited); err != nil {
		return catalog.Paper{}, errors.Wrap(err, "parsing the edited paper")
	}

	ret := original.Clone()
	ret.Title = strings.TrimSpace(edited.Title)
	ret.Authors = edited.Authors
	ret.Year = edited.Year
	ret.Journal = edited.Journal
	ret.ResearchArea = edited.ResearchArea
	ret.Methodology = edited.Methodology
	ret.StudyType = edited.StudyType
	ret.Keywords = edited.Keywords
	ret.Citations = edited.Citations
	ret.Downloads = edited.Downloads
	ret.Abstract = edited.Abstract
	ret.DOI = edited.DOI
	ret.PDFURL = edited.PDFURL
	ret.WebsiteURL = edited.WebsiteURL

	if ret.Title == "" {
		return catalog.Paper{}, errors.New("title is required")
	}
	if err := catalog.Validate(ret); err != nil {
		return catalog.Paper{}, errors.Wrap(err, "invalid paper")
	}
	if err := validate.Category(ret.ResearchArea); err != nil {
		return catalog.Paper{}, err
	}

	return ret, nil
}

// Changes returns the changed lines between two renderings of a paper
func Changes(before, after string) []diff.Line {
	return diff.Changed(diff.Do(before, after))
}

func printChanges(lines []diff.Line) {
	for _, l := range lines {
		switch l.Type {
		case diff.DiffInsert:
			fmt.Println(log.ColorGreen.Sprintf("+ %s", l.Text))
		case diff.DiffDelete:
			fmt.Println(log.ColorRed.Sprintf("- %s", l.Text))
		}
	}
}

func getContent(ctx context.PapershelfCtx, initial string) (string, error) {
	if ui.IsPiped() {
		c, err := ui.ReadStdInput()
		if err != nil {
			return "", errors.Wrap(err, "Failed to get piped input")
		}
		return c, nil
	}

	fpath, err := ui.GetTmpContentPath(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting temporarily content file path")
	}

	c, err := ui.GetEditorInput(ctx, fpath, initial)
	if err != nil {
		return "", errors.Wrap(err, "getting editor input")
	}

	return c, nil
}

// editPaper replaces the paper with the edited one. It reports false when
// nothing changed.
func editPaper(c stdctx.Context, ctx context.PapershelfCtx, id int, getContent func(initial string) (string, error)) (bool, error) {
	original, err := ctx.Collection.Get(id)
	if err != nil {
		return false, err
	}

	before, err := EditableYAML(original)
	if err != nil {
		return false, err
	}

	content, err := getContent(before)
	if err != nil {
		return false, err
	}

	edited, err := ApplyEdit(original, content)
	if err != nil {
		return false, err
	}

	after, err := EditableYAML(edited)
	if err != nil {
		return false, err
	}

	changes := Changes(before, after)
	if len(changes) == 0 {
		return false, nil
	}
	printChanges(changes)

	res, err := ctx.Collection.Edit(c, edited)
	if err != nil {
		return false, errors.Wrap(err, "editing paper")
	}
	output.SaveResult(res)
	if err := res.Err(); err != nil {
		return false, errors.Wrap(err, "saving the collection")
	}

	return true, nil
}

func newRun(ctx context.PapershelfCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		id, err := utils.ParseID(args[0])
		if err != nil {
			return err
		}

		infra.LoadCollection(cmd.Context(), ctx)

		changed, err := editPaper(cmd.Context(), ctx, id, func(initial string) (string, error) {
			return getContent(ctx, initial)
		})
		if err != nil {
			return err
		}
		if !changed {
			log.Plain("Nothing changed\n")
			return nil
		}

		log.Successf("edited paper %d\n", id)

		return nil
	}
}
