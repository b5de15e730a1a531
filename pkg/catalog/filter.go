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
	"sort"
	"strings"

	"github.com/gorilla/schema"
	"github.com/pkg/errors"
)

// Sort orders accepted by Sort
const (
	SortYearDesc      = "year-desc"
	SortYearAsc       = "year-asc"
	SortCitationsDesc = "citations-desc"
	SortCitationsAsc  = "citations-asc"
	SortTitleAsc      = "title-asc"
)

// PerPage is the default number of papers on one page
const PerPage = 12

// Filter narrows a collection down. Zero values do not filter.
type Filter struct {
	Search        string   `schema:"search"`
	Category      string   `schema:"category"`
	YearMin       int      `schema:"year_min"`
	YearMax       int      `schema:"year_max"`
	Methodologies []string `schema:"methodology"`
	StudyTypes    []string `schema:"study_type"`
	Venue         string   `schema:"venue"`
	CitationMin   *int     `schema:"citations_min"`
	CitationMax   *int     `schema:"citations_max"`
	Sort          string   `schema:"sort"`
	Page          int      `schema:"page"`
	PerPage       int      `schema:"per_page"`
}

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

// DecodeFilter reads a filter from query string values
func DecodeFilter(values url.Values) (Filter, error) {
	var f Filter
	if err := decoder.Decode(&f, values); err != nil {
		return Filter{}, errors.Wrap(err, "decoding filter")
	}

	return f, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}

	return false
}

// Match reports whether a paper passes the filter
func (f Filter) Match(p Paper) bool {
	if f.Search != "" {
		haystack := strings.ToLower(strings.Join([]string{
			p.Title,
			strings.Join(p.Authors, " "),
			p.Abstract,
			strings.Join(p.Keywords, " "),
		}, " "))
		if !strings.Contains(haystack, strings.ToLower(f.Search)) {
			return false
		}
	}
	if f.Category != "" && f.Category != "all" && p.ResearchArea != f.Category {
		return false
	}
	if f.YearMin != 0 && p.Year < f.YearMin {
		return false
	}
	if f.YearMax != 0 && p.Year > f.YearMax {
		return false
	}
	if len(f.Methodologies) > 0 && !contains(f.Methodologies, p.Methodology) {
		return false
	}
	if len(f.StudyTypes) > 0 && !contains(f.StudyTypes, p.StudyType) {
		return false
	}
	if f.Venue != "" && p.Journal != f.Venue {
		return false
	}
	if f.CitationMin != nil && p.Citations < *f.CitationMin {
		return false
	}
	if f.CitationMax != nil && p.Citations > *f.CitationMax {
		return false
	}

	return true
}

// Apply returns the papers passing the filter, in their original order
func (f Filter) Apply(papers []Paper) []Paper {
	ret := []Paper{}
	for _, p := range papers {
		if f.Match(p) {
			ret = append(ret, p)
		}
	}

	return ret
}

// Sort orders papers in place. Unknown orders fall back to year-desc.
func Sort(papers []Paper, order string) {
	var less func(a, b Paper) bool
	switch order {
	case SortYearAsc:
		less = func(a, b Paper) bool { return a.Year < b.Year }
	case SortCitationsDesc:
		less = func(a, b Paper) bool { return a.Citations > b.Citations }
	case SortCitationsAsc:
		less = func(a, b Paper) bool { return a.Citations < b.Citations }
	case SortTitleAsc:
		less = func(a, b Paper) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	default:
		less = func(a, b Paper) bool { return a.Year > b.Year }
	}

	sort.SliceStable(papers, func(i, j int) bool {
		return less(papers[i], papers[j])
	})
}

// Paginate returns one page of papers and the total page count. page is
// 1-based and is clamped into range.
func Paginate(papers []Paper, page, perPage int) ([]Paper, int) {
	if perPage <= 0 {
		perPage = PerPage
	}

	total := (len(papers) + perPage - 1) / perPage
	if total == 0 {
		return []Paper{}, 0
	}
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(papers) {
		end = len(papers)
	}

	return papers[start:end], total
}

// Page is the result of querying a collection
type Page struct {
	Papers     []Paper
	Matched    int
	Page       int
	TotalPages int
}

// Query filters, sorts and paginates a collection without modifying it
func Query(papers []Paper, f Filter) Page {
	matched := f.Apply(papers)
	Sort(matched, f.Sort)

	page := f.Page
	if page < 1 {
		page = 1
	}
	items, total := Paginate(matched, page, f.PerPage)
	if total > 0 && page > total {
		page = total
	}

	return Page{
		Papers:     items,
		Matched:    len(matched),
		Page:       page,
		TotalPages: total,
	}
}

// Facet is a distinct value of a field and the number of papers holding it
type Facet struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets summarises the values available for the checkbox style filters
type Facets struct {
	Methodologies []Facet `json:"methodologies"`
	StudyTypes    []Facet `json:"studyTypes"`
	Venues        []Facet `json:"venues"`
	Areas         []Facet `json:"researchAreas"`
}

func countBy(papers []Paper, key func(Paper) string) []Facet {
	counts := map[string]int{}
	for _, p := range papers {
		counts[key(p)]++
	}

	ret := make([]Facet, 0, len(counts))
	for v, n := range counts {
		if v == "" {
			continue
		}
		ret = append(ret, Facet{Value: v, Count: n})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Value < ret[j].Value })

	return ret
}

// FacetsOf computes the facets of a collection
func FacetsOf(papers []Paper) Facets {
	return Facets{
		Methodologies: countBy(papers, func(p Paper) string { return p.Methodology }),
		StudyTypes:    countBy(papers, func(p Paper) string { return p.StudyType }),
		Venues:        countBy(papers, func(p Paper) string { return p.Journal }),
		Areas:         countBy(papers, func(p Paper) string { return p.ResearchArea }),
	}
}
