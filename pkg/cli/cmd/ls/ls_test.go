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
	"net/url"
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/testutils"
	"github.com/pkg/errors"
)

func TestFilterValues(t *testing.T) {
	cmd := NewCmd(context.PapershelfCtx{})
	err := cmd.ParseFlags([]string{
		"--search", "haptic",
		"--year-min", "2020",
		"--methodology", "Experimental",
		"--methodology", "Mixed Methods",
		"--citations-min", "0",
		"--sort", catalog.SortCitationsDesc,
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "parsing flags"))
	}

	got, err := FilterValues(cmd)
	if err != nil {
		t.Fatal(errors.Wrap(err, "collecting values"))
	}

	expected := url.Values{
		"search":        {"haptic"},
		"year_min":      {"2020"},
		"methodology":   {"Experimental", "Mixed Methods"},
		"citations_min": {"0"},
		"sort":          {catalog.SortCitationsDesc},
	}
	assert.DeepEqual(t, got, expected, "values mismatch")

	filter, err := ParseFilter(got)
	if err != nil {
		t.Fatal(errors.Wrap(err, "parsing filter"))
	}
	assert.Equal(t, filter.YearMin, 2020, "year min mismatch")
	assert.Equal(t, *filter.CitationMin, 0, "citations min should be set")
	assert.Equal(t, filter.CitationMax == nil, true, "citations max should be unset")
}

func TestParseFilterErrors(t *testing.T) {
	testCases := []struct {
		name   string
		values url.Values
	}{
		{"unknown sort", url.Values{"sort": {"random"}}},
		{"unknown category", url.Values{"category": {"Astronomy"}}},
		{"non numeric year", url.Values{"year_min": {"recent"}}},
	}

	for _, tc := range testCases {
		_, err := ParseFilter(tc.values)
		assert.NotEqual(t, err, nil, tc.name)
	}

	_, err := ParseFilter(url.Values{"category": {"all"}})
	assert.Equal(t, err, nil, "all should be accepted")
}

func TestView(t *testing.T) {
	ctx := testutils.InitTestCtx(t)
	testutils.Setup(t, ctx)

	testCases := []struct {
		name     string
		values   url.Values
		expected []int
	}{
		{"default order", url.Values{}, []int{3, 1, 2}},
		{"search", url.Values{"search": {"typing"}}, []int{3}},
		{"category", url.Values{"category": {catalog.AreaImmersive}}, []int{2}},
		{"citations", url.Values{"sort": {catalog.SortCitationsDesc}, "citations_min": {"10"}}, []int{1, 3}},
		{"page size", url.Values{"sort": {catalog.SortTitleAsc}, "per_page": {"2"}, "page": {"2"}}, []int{3}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			filter, err := ParseFilter(tc.values)
			if err != nil {
				t.Fatal(errors.Wrap(err, "parsing filter"))
			}

			pg := ctx.Collection.View(filter)
			ids := []int{}
			for _, p := range pg.Papers {
				ids = append(ids, p.ID)
			}
			assert.DeepEqual(t, ids, tc.expected, "ids mismatch")
		})
	}
}
