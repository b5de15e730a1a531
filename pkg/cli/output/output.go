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


// Package output provides functions to print informations on the terminal
// in a consistent manner
package output

import (
	"fmt"
	"strings"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/cli/log"
	"github.com/papershelf/papershelf/pkg/ingest"
	"github.com/papershelf/papershelf/pkg/reconcile"
)

func orDash(s string) string {
	if s == "" || s == "#" {
		return "-"
	}

	return s
}

// PaperInfo prints a paper
func PaperInfo(p catalog.Paper) {
	log.Infof("paper id: %d\n", p.ID)
	log.Infof("title: %s\n", p.Title)
	log.Infof("authors: %s\n", strings.Join(p.Authors, ", "))
	log.Infof("year: %d\n", p.Year)
	log.Infof("venue: %s\n", p.Journal)
	log.Infof("research area: %s\n", p.ResearchArea)
	log.Infof("methodology: %s, %s\n", p.Methodology, p.StudyType)
	log.Infof("citations: %d (h-index %d), downloads: %d\n", p.Citations, p.HIndex, p.Downloads)
	if len(p.Keywords) > 0 {
		log.Infof("keywords: %s\n", strings.Join(p.Keywords, ", "))
	}
	log.Infof("doi: %s\n", orDash(p.DOI))
	log.Infof("pdf: %s\n", orDash(p.PDFURL))
	if p.GitHubFileInfo != nil {
		log.Infof("hosted file: %s\n", p.GitHubFileInfo.Filename)
	} else if p.PDFFile != nil {
		log.Infof("stored file: %s (%d bytes)\n", p.PDFFile.Name, len(p.PDFFile.Data))
	}

	if p.Abstract != "" {
		fmt.Printf("\n------------------------abstract------------------------\n")
		fmt.Printf("%s", p.Abstract)
		fmt.Printf("\n--------------------------------------------------------\n")
	}
}

// PaperRow prints a one line summary of a paper
func PaperRow(p catalog.Paper) {
	authors := "Unknown"
	if len(p.Authors) > 0 {
		authors = p.Authors[0]
		if len(p.Authors) > 1 {
			authors += " et al."
		}
	}

	fmt.Printf("(%s) %s %s\n", log.ColorYellow.Sprintf("%d", p.ID), p.Title,
		log.ColorGray.Sprintf("[%s, %d, %d citations]", authors, p.Year, p.Citations))
}

// Page prints a page of papers
func Page(pg catalog.Page, total int) {
	if pg.Matched == 0 {
		log.Plainf("no papers match (%d in the collection)\n", total)
		return
	}

	for _, p := range pg.Papers {
		PaperRow(p)
	}
	log.Plainf("page %d of %d, %d of %d papers\n", pg.Page, pg.TotalPages, pg.Matched, total)
}

// SaveResult reports where a save landed
func SaveResult(res reconcile.SaveResult) {
	if err := res.Err(); err != nil {
		log.Errorf("the collection was not saved anywhere: %s\n", err.Error())
		return
	}
	for _, f := range res.Failures {
		log.Warnf("could not save to %s: %s\n", f.Tier, f.Err.Error())
	}

	names := make([]string, 0, len(res.Written))
	for _, w := range res.Written {
		names = append(names, string(w))
	}
	log.Debug("saved to %s\n", strings.Join(names, ", "))
}

// PurgeResult prints every step of a purge
func PurgeResult(res reconcile.PurgeResult) {
	for _, s := range res.Steps {
		switch {
		case s.Skipped:
			log.Printf("%s: skipped\n", s.Name)
		case s.Err != nil:
			log.Errorf("%s: %s\n", s.Name, s.Err.Error())
		default:
			log.Successf("%s\n", s.Name)
		}
	}
}

// LoadResult prints where the collection was loaded from
func LoadResult(res reconcile.LoadResult) {
	switch {
	case res.Blocked:
		log.Infof("the collection was deleted, starting empty\n")
	case res.Source == "":
		log.Infof("no stored collection\n")
	default:
		log.Infof("%d papers loaded from %s\n", len(res.Papers), res.Source)
	}
}

// BatchItem prints the state of a batch item
func BatchItem(it ingest.Item) {
	switch it.Status {
	case ingest.StatusCompleted:
		log.Successf("%s: %d papers added\n", it.Name(), len(it.Papers))
	case ingest.StatusFailed:
		log.Errorf("%s: %s\n", it.Name(), it.Err.Error())
	default:
		log.Debug("%s: %s\n", it.Name(), it.Status)
	}
}

// BatchSummary prints the counts of a finished batch
func BatchSummary(s ingest.Summary) {
	if s.Failed == 0 {
		log.Successf("%d of %d files imported\n", s.Completed, s.Total)
		return
	}

	log.Warnf("%d of %d files imported, %d failed\n", s.Completed, s.Total, s.Failed)
}
