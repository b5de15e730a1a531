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

package remote

import (
	"encoding/json"
	"time"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/pkg/errors"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PaperRow is a paper owned by one user
type PaperRow struct {
	Model
	UserID            string `gorm:"index;type:text;not null"`
	PaperID           int    `gorm:"index"`
	Title             string
	Authors           string `gorm:"type:text"`
	Year              int
	Journal           string
	ResearchArea      string
	Methodology       string
	StudyType         string
	Keywords          string `gorm:"type:text"`
	Citations         int
	Downloads         int
	Abstract          string `gorm:"type:text"`
	DOI               string `gorm:"column:doi"`
	PDFURL            string `gorm:"column:pdf_url;type:text"`
	WebsiteURL        string `gorm:"column:website_url"`
	Thumbnail         string `gorm:"type:text"`
	OriginalThumbnail string `gorm:"type:text"`
	PDFFileSize       int64  `gorm:"column:pdf_file_size"`
	IsPersistentPDF   bool   `gorm:"column:is_persistent_pdf"`
	GitHubFileInfo    string `gorm:"column:github_file_info;type:text"`
}

// TableName overrides the table name of PaperRow
func (PaperRow) TableName() string {
	return "papers"
}

// SharedCollection is a snapshot of a collection addressed by an opaque id
type SharedCollection struct {
	ID          string    `gorm:"primaryKey;type:text"`
	UserID      string    `gorm:"index;type:text"`
	Papers      string    `gorm:"type:text"`
	CreatedAt   time.Time
	AccessCount int `gorm:"default:0"`
}

func encodeJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func newPaperRow(p catalog.Paper, userID string, now time.Time) (PaperRow, error) {
	authors, err := encodeJSON(p.Authors)
	if err != nil {
		return PaperRow{}, errors.Wrap(err, "encoding authors")
	}
	keywords, err := encodeJSON(p.Keywords)
	if err != nil {
		return PaperRow{}, errors.Wrap(err, "encoding keywords")
	}
	var fileInfo string
	if p.GitHubFileInfo != nil {
		if fileInfo, err = encodeJSON(p.GitHubFileInfo); err != nil {
			return PaperRow{}, errors.Wrap(err, "encoding file info")
		}
	}

	return PaperRow{
		Model:             Model{CreatedAt: now, UpdatedAt: now},
		UserID:            userID,
		PaperID:           p.ID,
		Title:             p.Title,
		Authors:           authors,
		Year:              p.Year,
		Journal:           p.Journal,
		ResearchArea:      p.ResearchArea,
		Methodology:       p.Methodology,
		StudyType:         p.StudyType,
		Keywords:          keywords,
		Citations:         p.Citations,
		Downloads:         p.Downloads,
		Abstract:          p.Abstract,
		DOI:               p.DOI,
		PDFURL:            p.PDFURL,
		WebsiteURL:        p.WebsiteURL,
		Thumbnail:         p.Thumbnail,
		OriginalThumbnail: p.OriginalThumbnail,
		PDFFileSize:       p.PDFFileSize,
		IsPersistentPDF:   p.IsPersistentPDF,
		GitHubFileInfo:    fileInfo,
	}, nil
}

// Paper converts the row back into a paper. The h-index is derived from the
// citation count rather than stored.
func (r PaperRow) Paper() (catalog.Paper, error) {
	p := catalog.Paper{
		ID:                r.PaperID,
		Title:             r.Title,
		Year:              r.Year,
		Journal:           r.Journal,
		ResearchArea:      r.ResearchArea,
		Methodology:       r.Methodology,
		StudyType:         r.StudyType,
		Citations:         r.Citations,
		HIndex:            catalog.HIndex(r.Citations),
		Downloads:         r.Downloads,
		Abstract:          r.Abstract,
		DOI:               r.DOI,
		PDFURL:            r.PDFURL,
		WebsiteURL:        r.WebsiteURL,
		Thumbnail:         r.Thumbnail,
		OriginalThumbnail: r.OriginalThumbnail,
		PDFFileSize:       r.PDFFileSize,
		IsPersistentPDF:   r.IsPersistentPDF,
	}

	if r.Authors != "" {
		if err := json.Unmarshal([]byte(r.Authors), &p.Authors); err != nil {
			return catalog.Paper{}, errors.Wrapf(err, "decoding authors of paper %d", r.PaperID)
		}
	}
	if r.Keywords != "" {
		if err := json.Unmarshal([]byte(r.Keywords), &p.Keywords); err != nil {
			return catalog.Paper{}, errors.Wrapf(err, "decoding keywords of paper %d", r.PaperID)
		}
	}
	if r.GitHubFileInfo != "" {
		var info catalog.FileInfo
		if err := json.Unmarshal([]byte(r.GitHubFileInfo), &info); err != nil {
			return catalog.Paper{}, errors.Wrapf(err, "decoding file info of paper %d", r.PaperID)
		}
		p.GitHubFileInfo = &info
	}

	return p, nil
}
