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
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Raw is an imported record before normalisation. Values come either from
// decoded JSON or from CSV cells.
type Raw map[string]interface{}

// aliases maps a field to the alternative column names accepted on import
var aliases = map[string][]string{
	"title":        {"title", "Title"},
	"authors":      {"authors", "Authors"},
	"year":         {"year", "Year"},
	"journal":      {"journal", "Journal", "venue"},
	"researchArea": {"researchArea", "Research Field"},
	"methodology":  {"methodology", "Method"},
	"studyType":    {"studyType", "Type"},
	"keywords":     {"keywords", "Keywords"},
	"citations":    {"citations", "Citations"},
	"hIndex":       {"hIndex", "H-Index"},
	"downloads":    {"downloads", "Downloads"},
	"abstract":     {"abstract", "Abstract"},
	"doi":          {"doi", "DOI"},
	"pdfUrl":       {"pdfUrl", "PDF Link"},
	"websiteUrl":   {"websiteUrl", "Website Link"},
}

var listSeparator = regexp.MustCompile(`[,;]`)

func (r Raw) lookup(field string) (interface{}, bool) {
	for _, name := range aliases[field] {
		v, ok := r[name]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}

		return v, true
	}

	return nil, false
}

func (r Raw) str(field, fallback string) string {
	v, ok := r.lookup(field)
	if !ok {
		return fallback
	}

	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fallback
	}
}

func (r Raw) integer(field string, fallback int) int {
	v, ok := r.lookup(field)
	if !ok {
		return fallback
	}

	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		if f, err := t.Float64(); err == nil {
			return int(f)
		}
	case string:
		if n, err := strconv.Atoi(leadingDigits(strings.TrimSpace(t))); err == nil {
			return n
		}
	}

	return fallback
}

func (r Raw) list(field string, fallback string) []string {
	v, ok := r.lookup(field)
	if !ok {
		v = fallback
	}

	var items []string
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			if s, isStr := item.(string); isStr {
				items = append(items, strings.TrimSpace(s))
			}
		}
	case []string:
		for _, s := range t {
			items = append(items, strings.TrimSpace(s))
		}
	case string:
		for _, s := range listSeparator.Split(t, -1) {
			items = append(items, strings.TrimSpace(s))
		}
	}

	ret := []string{}
	for _, s := range items {
		if s != "" {
			ret = append(ret, s)
		}
	}

	return ret
}

// leadingDigits returns the longest prefix of s made of an optional sign and
// digits, so that "2021a" reads as 2021.
func leadingDigits(s string) string {
	end := 0
	for i, c := range s {
		if (c == '-' || c == '+') && i == 0 {
			end = 1
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		end = i + 1
	}

	return s[:end]
}

// HasRequired reports whether the record carries a title, authors and a year
func (r Raw) HasRequired() bool {
	for _, f := range []string{"title", "authors", "year"} {
		if _, ok := r.lookup(f); !ok {
			return false
		}
	}

	return true
}

// Normalize turns an imported record into a paper, filling defaults for
// missing fields. category is the research area chosen by the user, or
// CategoryAuto to take it from the record. The returned paper has no id.
func Normalize(r Raw, category string, currentYear int) Paper {
	area := category
	if area == "" || area == CategoryAuto {
		area = r.str("researchArea", AreaGeneral)
	}

	citations := r.integer("citations", 0)

	return Paper{
		Title:        r.str("title", "Untitled"),
		Authors:      r.list("authors", "Unknown"),
		Year:         r.integer("year", currentYear),
		Journal:      r.str("journal", "Unknown Journal"),
		ResearchArea: area,
		Methodology:  r.str("methodology", "Experimental"),
		StudyType:    r.str("studyType", "Empirical"),
		Keywords:     r.list("keywords", ""),
		Citations:    citations,
		HIndex:       r.integer("hIndex", HIndex(citations)),
		Downloads:    r.integer("downloads", 0),
		Abstract:     r.str("abstract", ""),
		DOI:          r.str("doi", ""),
		PDFURL:       r.str("pdfUrl", "#"),
		WebsiteURL:   r.str("websiteUrl", "#"),
	}
}
