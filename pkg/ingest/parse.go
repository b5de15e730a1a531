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

package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/pkg/errors"
)

var (
	// ErrUnsupported is returned for files of an unknown format
	ErrUnsupported = errors.New("unsupported file format")
	// ErrMissingFields is returned when a record has no title, authors or year
	ErrMissingFields = errors.New("missing required fields (title, authors, year)")
	// ErrNoRecords is returned when a file holds no usable record
	ErrNoRecords = errors.New("no valid paper data found")
)

// Extensions lists the file extensions ParseFile accepts
var Extensions = []string{".json", ".csv", ".pdf", ".doc", ".docx"}

// Supported reports whether ParseFile accepts the file name
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}

	return false
}

// ParseFunc turns one file into papers
type ParseFunc func(name string, data []byte, category string, currentYear int) ([]catalog.Paper, error)

// ParseFile turns one uploaded file into papers. JSON and CSV files carry
// records; PDF and Word documents become a single paper titled after the file
// with the document kept as its payload.
func ParseFile(name string, data []byte, category string, currentYear int) ([]catalog.Paper, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return parseJSON(data, category, currentYear)
	case ".csv":
		return parseCSV(data, category, currentYear)
	case ".pdf", ".doc", ".docx":
		return []catalog.Paper{parseDocument(name, data, category, currentYear)}, nil
	default:
		return nil, errors.Wrap(ErrUnsupported, filepath.Ext(name))
	}
}

func parseJSON(data []byte, category string, currentYear int) ([]catalog.Paper, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "decoding json")
	}

	switch t := v.(type) {
	case map[string]interface{}:
		r := catalog.Raw(t)
		if !r.HasRequired() {
			return nil, ErrMissingFields
		}

		return []catalog.Paper{catalog.Normalize(r, category, currentYear)}, nil
	case []interface{}:
		var ret []catalog.Paper
		for _, item := range t {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if r := catalog.Raw(m); r.HasRequired() {
				ret = append(ret, catalog.Normalize(r, category, currentYear))
			}
		}
		if len(ret) == 0 {
			return nil, ErrNoRecords
		}

		return ret, nil
	default:
		return nil, errors.Wrap(ErrNoRecords, "json is neither an object nor an array")
	}
}

func parseCSV(data []byte, category string, currentYear int) ([]catalog.Paper, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.Wrap(ErrNoRecords, "empty csv")
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading csv header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var ret []catalog.Paper
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading csv")
		}

		raw := catalog.Raw{}
		for i, h := range header {
			if i < len(record) {
				raw[h] = strings.TrimSpace(record[i])
			}
		}
		if raw.HasRequired() {
			ret = append(ret, catalog.Normalize(raw, category, currentYear))
		}
	}

	if len(ret) == 0 {
		return nil, ErrNoRecords
	}

	return ret, nil
}

func parseDocument(name string, data []byte, category string, currentYear int) catalog.Paper {
	base := filepath.Base(name)
	title := strings.TrimSuffix(base, filepath.Ext(base))

	p := catalog.Normalize(catalog.Raw{
		"title":   title,
		"authors": "Unknown Author",
	}, category, currentYear)
	p.PDFFile = &catalog.Payload{
		Name:     base,
		MimeType: mimetype.Detect(data).String(),
		Data:     data,
	}
	p.PDFFileSize = int64(len(data))

	return p
}
