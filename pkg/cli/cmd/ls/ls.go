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


package ls

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/infra"
	"github.com/papershelf/papershelf/pkg/cli/log"
	"github.com/papershelf/papershelf/pkg/cli/output"
	"github.com/papershelf/papershelf/pkg/cli/validate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * List the newest papers
 papershelf ls

 * Search titles, authors, abstracts and keywords
 papershelf ls --search haptic

 * Filter and sort
 papershelf ls --category "Mobile Device" --year-min 2020 --sort citations-desc

 * Several methodologies at once, second page
 papershelf ls --methodology Experimental --methodology "Mixed Methods" --page 2

 * Show the values available for filtering
 papershelf ls --facets`

var facetsFlag bool

// scalarFlags maps flags to the query keys of a filter
var scalarFlags = map[string]string{
	"search":        "search",
	"category":      "category",
	"year-min":      "year_min",
	"year-max":      "year_max",
	"venue":         "venue",
	"citations-min": "citations_min",
	"citations-max": "citations_max",
	"sort":          "sort",
	"page":          "page",
	"per-page":      "per_page",
}

var sliceFlags = map[string]string{
	"methodology": "methodology",
	"study-type":  "study_type",
}

// NewCmd returns a new ls command
func NewCmd(ctx context.PapershelfCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"l", "list"},
		Short:   "List, filter and sort papers",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringP("search", "s", "", "text to look for")
	f.StringP("category", "c", "", "research area, or all")
	f.Int("year-min", 0, "earliest publication year")
	f.Int("year-max", 0, "latest publication year")
	f.StringSlice("methodology", nil, "methodologies to include")
	f.StringSlice("study-type", nil, "study types to include")
	f.String("venue", "", "journal or conference")
	f.Int("citations-min", 0, "minimum citation count")
	f.Int("citations-max", 0, "maximum citation count")
	f.String("sort", catalog.SortYearDesc, "year-desc, year-asc, citations-desc, citations-asc or title-asc")
	f.IntP("page", "p", 1, "page number")
	f.Int("per-page", catalog.PerPage, "papers per page")
	f.BoolVar(&facetsFlag, "facets", false, "print the values available for filtering")

	return cmd
}

// FilterValues collects the filter flags set on the command line as query
// values
func FilterValues(cmd *cobra.Command) (url.Values, error) {
	f := cmd.Flags()
	v := url.Values{}

	for name, key := range scalarFlags {
		if f.Changed(name) {
			v.Set(key, f.Lookup(name).Value.String())
		}
	}
	for name, key := range sliceFlags {
		if !f.Changed(name) {
			continue
		}
		vals, err := f.GetStringSlice(name)
		if err != nil {
			return nil, errors.Wrapf(err, "reading --%s", name)
		}
		v[key] = vals
	}

	return v, nil
}

// ParseFilter decodes and checks a filter
func ParseFilter(v url.Values) (catalog.Filter, error) {
	filter, err := catalog.DecodeFilter(v)
	if err != nil {
		return catalog.Filter{}, err
	}
	if err := validate.SortOrder(filter.Sort); err != nil {
		return catalog.Filter{}, err
	}
	if filter.Category != "all" {
		if err := validate.Category(filter.Category); err != nil {
			return catalog.Filter{}, err
		}
	}

	return filter, nil
}

func printFacet(name string, facets []catalog.Facet) {
	items := make([]string, 0, len(facets))
	for _, fc := range facets {
		items = append(items, fmt.Sprintf("%s (%d)", fc.Value, fc.Count))
	}
	sort.Strings(items)

	log.Infof("%s: %s\n", name, strings.Join(items, ", "))
}

func printFacets(fs catalog.Facets) {
	printFacet("research areas", fs.Areas)
	printFacet("methodologies", fs.Methodologies)
	printFacet("study types", fs.StudyTypes)
	printFacet("venues", fs.Venues)
}

func newRun(ctx context.PapershelfCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		v, err := FilterValues(cmd)
		if err != nil {
			return err
		}
		filter, err := ParseFilter(v)
		if err != nil {
			return errors.Wrap(err, "invalid filter")
		}

		infra.LoadCollection(cmd.Context(), ctx)

		if facetsFlag {
			printFacets(ctx.Collection.Facets())
			return nil
		}

		output.Page(ctx.Collection.View(filter), ctx.Collection.Len())

		return nil
	}
}
