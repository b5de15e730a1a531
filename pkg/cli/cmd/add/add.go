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


package add

import (
	stdctx "context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/infra"
	"github.com/papershelf/papershelf/pkg/cli/log"
	"github.com/papershelf/papershelf/pkg/cli/output"
	"github.com/papershelf/papershelf/pkg/cli/ui"
	"github.com/papershelf/papershelf/pkg/cli/validate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var (
	titleFlag       string
	authorsFlag     []string
	yearFlag        int
	venueFlag       string
	categoryFlag    string
	methodologyFlag string
	studyTypeFlag   string
	keywordsFlag    []string
	citationsFlag   int
	downloadsFlag   int
	abstractFlag    string
	doiFlag         string
	pdfURLFlag      string
	websiteURLFlag  string
	fileFlag        string
)

var example = `
 * Open an editor to fill in the paper
 papershelf add

 * Skip the editor by giving the fields as flags
 papershelf add --title "Haptic Gloves for VR" --authors "Alex Kim,Sam Park" --year 2022 --venue CHI

 * Attach the PDF of the paper
 papershelf add --title "Haptic Gloves for VR" --authors "Alex Kim" --year 2022 --file gloves.pdf

 * Pipe a paper in the editor format
 papershelf add < paper.yaml`

// template is the editor buffer of a new paper
const template = `title:
authors:
  -
year: %d
journal:
researchArea: %s
methodology: Experimental
studyType: Empirical
keywords: []
citations: 0
downloads: 0
abstract:
doi:
pdfUrl:
websiteUrl:
`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return errors.New("Incorrect number of argument")
	}

	return validate.Category(categoryFlag)
}

// NewCmd returns a new add command
func NewCmd(ctx context.PapershelfCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a paper",
		Aliases: []string{"a", "new"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&titleFlag, "title", "t", "", "title of the paper")
	f.StringSliceVar(&authorsFlag, "authors", nil, "comma separated authors")
	f.IntVarP(&yearFlag, "year", "y", 0, "publication year")
	f.StringVar(&venueFlag, "venue", "", "journal or conference")
	f.StringVarP(&categoryFlag, "category", "c", "", "research area")
	f.StringVar(&methodologyFlag, "methodology", "", "methodology, e.g. Experimental")
	f.StringVar(&studyTypeFlag, "study-type", "", "study type, e.g. Empirical")
	f.StringSliceVar(&keywordsFlag, "keywords", nil, "comma separated keywords")
	f.IntVar(&citationsFlag, "citations", 0, "citation count")
	f.IntVar(&downloadsFlag, "downloads", 0, "download count")
	f.StringVar(&abstractFlag, "abstract", "", "abstract")
	f.StringVar(&doiFlag, "doi", "", "DOI")
	f.StringVar(&pdfURLFlag, "pdf-url", "", "link to the PDF")
	f.StringVar(&websiteURLFlag, "website-url", "", "link to the paper page")
	f.StringVarP(&fileFlag, "file", "f", "", "path of the PDF to attach")

	return cmd
}

// flagsRaw collects the fields given as flags
func flagsRaw() catalog.Raw {
	raw := catalog.Raw{}

	strs := map[string]string{
		"title":        titleFlag,
		"journal":      venueFlag,
		"researchArea": categoryFlag,
		"methodology":  methodologyFlag,
		"studyType":    studyTypeFlag,
		"abstract":     abstractFlag,
		"doi":          doiFlag,
		"pdfUrl":       pdfURLFlag,
		"websiteUrl":   websiteURLFlag,
	}
	for k, v := range strs {
		if v != "" {
			raw[k] = v
		}
	}

	if len(authorsFlag) > 0 {
		raw["authors"] = authorsFlag
	}
	if len(keywordsFlag) > 0 {
		raw["keywords"] = keywordsFlag
	}
	if yearFlag != 0 {
		raw["year"] = yearFlag
	}
	if citationsFlag != 0 {
		raw["citations"] = citationsFlag
	}
	if downloadsFlag != 0 {
		raw["downloads"] = downloadsFlag
	}

	return raw
}

// ParseYAML reads a paper in the editor format
func ParseYAML(content string) (catalog.Raw, error) {
	raw := catalog.Raw{}
	if err := yaml.Unmarshal([]byte(content), &raw); err != nil {
		return nil, errors.Wrap(err, "parsing the paper")
	}

	return raw, nil
}

// BuildPaper turns the fields of a new paper into a paper
func BuildPaper(raw catalog.Raw, currentYear int) (catalog.Paper, error) {
	if !raw.HasRequired() {
		return catalog.Paper{}, errors.New("title, authors and year are required")
	}

	p := catalog.Normalize(raw, catalog.CategoryAuto, currentYear)
	if err := catalog.Validate(p); err != nil {
		return catalog.Paper{}, errors.Wrap(err, "invalid paper")
	}
	if err := validate.Category(p.ResearchArea); err != nil {
		return catalog.Paper{}, err
	}

	return p, nil
}

// AttachFile embeds the file at path into p
func AttachFile(p *catalog.Paper, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	p.PDFFile = &catalog.Payload{
		Name:     filepath.Base(path),
		MimeType: mimetype.Detect(b).String(),
		Data:     b,
	}
	p.PDFFileSize = int64(len(b))

	return nil
}

func getRaw(ctx context.PapershelfCtx) (catalog.Raw, error) {
	if titleFlag != "" {
		return flagsRaw(), nil
	}

	var content string
	if ui.IsPiped() {
		c, err := ui.ReadStdInput()
		if err != nil {
			return nil, errors.Wrap(err, "Failed to get piped input")
		}
		content = c
	} else {
		fpath, err := ui.GetTmpContentPath(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "getting temporarily content file path")
		}

		initial := fmt.Sprintf(template, ctx.Clock.Now().Year(), catalog.AreaGeneral)
		c, err := ui.GetEditorInput(ctx, fpath, initial)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to get editor input")
		}
		content = c
	}

	raw, err := ParseYAML(content)
	if err != nil {
		return nil, err
	}
	if categoryFlag != "" && categoryFlag != catalog.CategoryAuto {
		raw["researchArea"] = categoryFlag
	}

	return raw, nil
}

// addPaper adds p to the loaded collection and reports where it was saved
func addPaper(c stdctx.Context, ctx context.PapershelfCtx, p catalog.Paper) (catalog.Paper, error) {
	infra.LoadCollection(c, ctx)

	added, res := ctx.Collection.Add(c, p)
	output.SaveResult(res)
	if err := res.Err(); err != nil {
		return added, errors.Wrap(err, "saving the collection")
	}

	return added, nil
}

func newRun(ctx context.PapershelfCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		raw, err := getRaw(ctx)
		if err != nil {
			return errors.Wrap(err, "getting the paper")
		}

		p, err := BuildPaper(raw, ctx.Clock.Now().Year())
		if err != nil {
			return err
		}

		if fileFlag != "" {
			if err := AttachFile(&p, fileFlag); err != nil {
				return err
			}
		}

		added, err := addPaper(cmd.Context(), ctx, p)
		if err != nil {
			return err
		}

		log.Successf("added paper %d\n", added.ID)
		output.PaperInfo(added)

		return nil
	}
}
