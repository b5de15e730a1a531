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

package catalog

import (
	"net/url"
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
)

func ids(papers []Paper) []int {
	ret := []int{}
	for _, p := range papers {
		ret = append(ret, p.ID)
	}

	return ret
}

func intPtr(n int) *int {
	return &n
}

var fixtures = []Paper{
	{ID: 1, Title: "Haptic gloves", Authors: []string{"Kim"}, Year: 2018, Journal: "CHI", ResearchArea: AreaWearable, Methodology: "Experimental", StudyType: "Empirical", Citations: 50},
	{ID: 2, Title: "Screen readers", Authors: []string{"Lee"}, Year: 2021, Journal: "ASSETS", ResearchArea: AreaAccessible, Methodology: "Qualitative", StudyType: "Empirical", Citations: 12, Keywords: []string{"blind"}},
	{ID: 3, Title: "AR menus", Authors: []string{"Park"}, Year: 2023, Journal: "CHI", ResearchArea: AreaImmersive, Methodology: "Experimental", StudyType: "Theoretical", Citations: 3, Abstract: "Menus in headsets"},
}

func TestFilterApply(t *testing.T) {
	testCases := []struct {
		name     string
		filter   Filter
		expected []int
	}{
		{"zero filter", Filter{}, []int{1, 2, 3}},
		{"search title", Filter{Search: "HAPTIC"}, []int{1}},
		{"search keyword", Filter{Search: "blind"}, []int{2}},
		{"search abstract", Filter{Search: "headsets"}, []int{3}},
		{"category", Filter{Category: AreaImmersive}, []int{3}},
		{"category all", Filter{Category: "all"}, []int{1, 2, 3}},
		{"year range", Filter{YearMin: 2019, YearMax: 2022}, []int{2}},
		{"methodology", Filter{Methodologies: []string{"Experimental"}}, []int{1, 3}},
		{"study type", Filter{StudyTypes: []string{"Theoretical"}}, []int{3}},
		{"venue", Filter{Venue: "CHI"}, []int{1, 3}},
		{"citation min", Filter{CitationMin: intPtr(12)}, []int{1, 2}},
		{"citation max", Filter{CitationMax: intPtr(12)}, []int{2, 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.DeepEqual(t, ids(tc.filter.Apply(fixtures)), tc.expected, "ids mismatch")
		})
	}
}

func TestSort(t *testing.T) {
	testCases := []struct {
		order    string
		expected []int
	}{
		{SortYearDesc, []int{3, 2, 1}},
		{SortYearAsc, []int{1, 2, 3}},
		{SortCitationsDesc, []int{1, 2, 3}},
		{SortCitationsAsc, []int{3, 2, 1}},
		{SortTitleAsc, []int{3, 1, 2}},
		{"unknown", []int{3, 2, 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.order, func(t *testing.T) {
			papers := CloneAll(fixtures)
			Sort(papers, tc.order)
			assert.DeepEqual(t, ids(papers), tc.expected, "order mismatch")
		})
	}
}

func TestPaginate(t *testing.T) {
	var papers []Paper
	for i := 1; i <= 25; i++ {
		papers = append(papers, Paper{ID: i})
	}

	page, total := Paginate(papers, 1, PerPage)
	assert.Equal(t, total, 3, "total pages mismatch")
	assert.Equal(t, len(page), 12, "first page size")

	page, _ = Paginate(papers, 3, PerPage)
	assert.DeepEqual(t, ids(page), []int{25}, "last page")

	page, _ = Paginate(papers, 9, PerPage)
	assert.DeepEqual(t, ids(page), []int{25}, "page is clamped")

	page, total = Paginate(nil, 1, PerPage)
	assert.Equal(t, total, 0, "empty total")
	assert.Equal(t, len(page), 0, "empty page")
}

func TestQuery(t *testing.T) {
	got := Query(fixtures, Filter{Venue: "CHI", Sort: SortYearAsc})

	assert.Equal(t, got.Matched, 2, "matched mismatch")
	assert.Equal(t, got.Page, 1, "page mismatch")
	assert.Equal(t, got.TotalPages, 1, "total pages mismatch")
	assert.DeepEqual(t, ids(got.Papers), []int{1, 3}, "ids mismatch")
	assert.DeepEqual(t, ids(fixtures), []int{1, 2, 3}, "input order is kept")
}

func TestDecodeFilter(t *testing.T) {
	values := url.Values{
		"search":        {"gloves"},
		"year_min":      {"2015"},
		"methodology":   {"Experimental", "Qualitative"},
		"citations_min": {"5"},
		"sort":          {SortTitleAsc},
		"unknown":       {"x"},
	}

	f, err := DecodeFilter(values)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, f.Search, "gloves", "search mismatch")
	assert.Equal(t, f.YearMin, 2015, "year min mismatch")
	assert.DeepEqual(t, f.Methodologies, []string{"Experimental", "Qualitative"}, "methodologies mismatch")
	assert.Equal(t, *f.CitationMin, 5, "citation min mismatch")
	assert.Equal(t, f.CitationMax == nil, true, "citation max should be unset")
	assert.Equal(t, f.Sort, SortTitleAsc, "sort mismatch")
}

func TestFacetsOf(t *testing.T) {
	f := FacetsOf(fixtures)

	assert.DeepEqual(t, f.Venues, []Facet{{Value: "ASSETS", Count: 1}, {Value: "CHI", Count: 2}}, "venues mismatch")
	assert.DeepEqual(t, f.Methodologies, []Facet{{Value: "Experimental", Count: 2}, {Value: "Qualitative", Count: 1}}, "methodologies mismatch")
}
