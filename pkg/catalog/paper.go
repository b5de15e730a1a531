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

// Package catalog defines the paper record and the pure operations on a
// collection of papers: normalisation, filtering, sorting and pagination.
package catalog

import (
	"strings"

	"github.com/pkg/errors"
)

// Research areas a paper can be filed under
const (
	AreaAccessible    = "Accessible Interaction"
	AreaWearable      = "HCI New Wearable Devices"
	AreaImmersive     = "Immersive Interaction"
	AreaMobile        = "Mobile Device"
	AreaSpecial       = "Special Scenarios"
	AreaGeneral       = "General"
	CategoryAuto      = "auto"
	MirrorPlaceholder = "[LOCAL_PDF_DATA]"
)

// ResearchAreas lists every research area in display order
var ResearchAreas = []string{
	AreaAccessible,
	AreaWearable,
	AreaImmersive,
	AreaMobile,
	AreaSpecial,
	AreaGeneral,
}

// IsResearchArea reports whether s is one of the known research areas
func IsResearchArea(s string) bool {
	for _, a := range ResearchAreas {
		if a == s {
			return true
		}
	}

	return false
}

// FileInfo describes a blob stored on a file host
type FileInfo struct {
	SHA      string `json:"sha" yaml:"sha"`
	Filename string `json:"filename" yaml:"filename"`
	Size     int64  `json:"size,omitempty" yaml:"size,omitempty"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Payload is an uploaded file embedded in a record
type Payload struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// Paper is a single bibliographic record
type Paper struct {
	ID                int       `json:"id" yaml:"-" jsonschema:"required,minimum=1"`
	Title             string    `json:"title" yaml:"title" jsonschema:"required"`
	Authors           []string  `json:"authors,omitempty" yaml:"authors"`
	Year              int       `json:"year" yaml:"year"`
	Journal           string    `json:"journal" yaml:"journal"`
	ResearchArea      string    `json:"researchArea" yaml:"researchArea"`
	Methodology       string    `json:"methodology" yaml:"methodology"`
	StudyType         string    `json:"studyType" yaml:"studyType"`
	Keywords          []string  `json:"keywords,omitempty" yaml:"keywords"`
	Citations         int       `json:"citations" yaml:"citations" jsonschema:"minimum=0"`
	HIndex            int       `json:"hIndex" yaml:"-"`
	Downloads         int       `json:"downloads" yaml:"downloads" jsonschema:"minimum=0"`
	Abstract          string    `json:"abstract" yaml:"abstract"`
	DOI               string    `json:"doi" yaml:"doi"`
	PDFURL            string    `json:"pdfUrl" yaml:"pdfUrl"`
	WebsiteURL        string    `json:"websiteUrl" yaml:"websiteUrl"`
	Thumbnail         string    `json:"thumbnail,omitempty" yaml:"-" jsonschema:"nullable"`
	OriginalThumbnail string    `json:"originalThumbnail,omitempty" yaml:"-" jsonschema:"nullable"`
	PDFFileSize       int64     `json:"pdfFileSize,omitempty" yaml:"-"`
	IsPersistentPDF   bool      `json:"isPersistentPDF,omitempty" yaml:"-"`
	GitHubFileInfo    *FileInfo `json:"githubFileInfo,omitempty" yaml:"-" jsonschema:"nullable"`
	PDFFile           *Payload  `json:"pdfFile,omitempty" yaml:"-" jsonschema:"nullable"`
}

// HIndex derives the h-index shown for a citation count
func HIndex(citations int) int {
	if citations < 0 {
		return 0
	}

	return citations / 3
}

// Clone returns a deep copy of the paper
func (p Paper) Clone() Paper {
	ret := p
	ret.Authors = append([]string(nil), p.Authors...)
	ret.Keywords = append([]string(nil), p.Keywords...)
	if p.GitHubFileInfo != nil {
		info := *p.GitHubFileInfo
		ret.GitHubFileInfo = &info
	}
	if p.PDFFile != nil {
		payload := *p.PDFFile
		payload.Data = append([]byte(nil), p.PDFFile.Data...)
		ret.PDFFile = &payload
	}

	return ret
}

// CloneAll deep copies a collection
func CloneAll(papers []Paper) []Paper {
	ret := make([]Paper, 0, len(papers))
	for _, p := range papers {
		ret = append(ret, p.Clone())
	}

	return ret
}

// NextID returns the identifier the next added paper receives
func NextID(papers []Paper) int {
	maxID := 0
	for _, p := range papers {
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	return maxID + 1
}

// Find returns the index of the paper with the given id, or -1
func Find(papers []Paper, id int) int {
	for i, p := range papers {
		if p.ID == id {
			return i
		}
	}

	return -1
}

// StripPayload returns copies of the papers without their embedded file
// payloads. Used before writing to size-limited storage.
func StripPayload(papers []Paper) []Paper {
	ret := make([]Paper, 0, len(papers))
	for _, p := range papers {
		c := p.Clone()
		c.PDFFile = nil
		ret = append(ret, c)
	}

	return ret
}

// ForMirror prepares a collection for the public metadata mirror. Embedded
// PDF data is replaced by a placeholder while thumbnails are kept.
func ForMirror(papers []Paper) []Paper {
	ret := StripPayload(papers)
	for i := range ret {
		if strings.HasPrefix(ret[i].PDFURL, "data:") {
			ret[i].PDFURL = MirrorPlaceholder
		}
	}

	return ret
}

// SharedPaper is the field-limited form of a paper embedded in inline share links
type SharedPaper struct {
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	Year         int      `json:"year"`
	Journal      string   `json:"journal"`
	Abstract     string   `json:"abstract"`
	ResearchArea string   `json:"researchArea"`
	Thumbnail    string   `json:"thumbnail,omitempty"`
}

// ForInlineShare reduces papers to the fields carried by inline share links
func ForInlineShare(papers []Paper) []SharedPaper {
	ret := make([]SharedPaper, 0, len(papers))
	for _, p := range papers {
		ret = append(ret, SharedPaper{
			Title:        p.Title,
			Authors:      append([]string(nil), p.Authors...),
			Year:         p.Year,
			Journal:      p.Journal,
			Abstract:     p.Abstract,
			ResearchArea: p.ResearchArea,
			Thumbnail:    p.Thumbnail,
		})
	}

	return ret
}

// FromShared expands inline share entries into papers numbered from 1
func FromShared(shared []SharedPaper) []Paper {
	ret := make([]Paper, 0, len(shared))
	for i, s := range shared {
		ret = append(ret, Paper{
			ID:           i + 1,
			Title:        s.Title,
			Authors:      append([]string(nil), s.Authors...),
			Year:         s.Year,
			Journal:      s.Journal,
			Abstract:     s.Abstract,
			ResearchArea: s.ResearchArea,
			Thumbnail:    s.Thumbnail,
		})
	}

	return ret
}

// Validation errors for edited papers
var (
	ErrNoAuthors = errors.New("at least one author is required")
	ErrNoJournal = errors.New("journal is required")
	ErrBadYear   = errors.New("year must be between 1900 and 2030")
)

// Validate checks an edited paper
func Validate(p Paper) error {
	hasAuthor := false
	for _, a := range p.Authors {
		if strings.TrimSpace(a) != "" {
			hasAuthor = true
			break
		}
	}
	if !hasAuthor {
		return ErrNoAuthors
	}
	if strings.TrimSpace(p.Journal) == "" {
		return ErrNoJournal
	}
	if p.Year < 1900 || p.Year > 2030 {
		return ErrBadYear
	}

	return nil
}
