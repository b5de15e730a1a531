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
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/cli/testutils"
	"github.com/pkg/errors"
)

func TestBuildPaperFromYAML(t *testing.T) {
	raw, err := ParseYAML(`title: Gaze Typing on Smart Glasses
authors:
  - Robin Lee
  - Casey Wu
year: 2023
journal: UIST
researchArea: HCI New Wearable Devices
keywords: [gaze, typing]
citations: 9
`)
	if err != nil {
		t.Fatal(errors.Wrap(err, "parsing"))
	}

	p, err := BuildPaper(raw, 2024)
	if err != nil {
		t.Fatal(errors.Wrap(err, "building"))
	}

	assert.Equal(t, p.Title, "Gaze Typing on Smart Glasses", "title mismatch")
	assert.DeepEqual(t, p.Authors, []string{"Robin Lee", "Casey Wu"}, "authors mismatch")
	assert.Equal(t, p.Year, 2023, "year mismatch")
	assert.Equal(t, p.ResearchArea, catalog.AreaWearable, "area mismatch")
	assert.DeepEqual(t, p.Keywords, []string{"gaze", "typing"}, "keywords mismatch")
	assert.Equal(t, p.Citations, 9, "citations mismatch")
	assert.Equal(t, p.PDFURL, "#", "pdf url default")
}

func TestBuildPaperTemplate(t *testing.T) {
	raw, err := ParseYAML(fmt.Sprintf(template, 2024, catalog.AreaGeneral))
	if err != nil {
		t.Fatal(errors.Wrap(err, "parsing"))
	}

	_, err = BuildPaper(raw, 2024)
	assert.NotEqual(t, err, nil, "an untouched template should be rejected")
}

func TestBuildPaperErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"missing title", "authors: [Robin Lee]\nyear: 2023\n"},
		{"missing year", "title: Gaze Typing\nauthors: [Robin Lee]\n"},
		{"year out of range", "title: Gaze Typing\nauthors: [Robin Lee]\nyear: 1850\n"},
		{"unknown area", "title: Gaze Typing\nauthors: [Robin Lee]\nyear: 2023\nresearchArea: Astronomy\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := ParseYAML(tc.content)
			if err != nil {
				t.Fatal(errors.Wrap(err, "parsing"))
			}

			_, err = BuildPaper(raw, 2024)
			assert.NotEqual(t, err, nil, "should fail")
		})
	}
}

func TestParseYAMLInvalid(t *testing.T) {
	_, err := ParseYAML("title: [unclosed")
	assert.NotEqual(t, err, nil, "should fail on malformed YAML")
}

func TestAttachFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gloves.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n%test\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var p catalog.Paper
	if err := AttachFile(&p, path); err != nil {
		t.Fatal(errors.Wrap(err, "attaching"))
	}

	assert.Equal(t, p.PDFFile.Name, "gloves.pdf", "name mismatch")
	assert.Equal(t, p.PDFFile.MimeType, "application/pdf", "mime type mismatch")
	assert.Equal(t, p.PDFFileSize, int64(15), "size mismatch")
}

func TestAddPaper(t *testing.T) {
	ctx := testutils.InitTestCtx(t)
	testutils.Setup(t, ctx)

	added, err := addPaper(t.Context(), ctx, testutils.Papers()[0])
	if err != nil {
		t.Fatal(errors.Wrap(err, "adding"))
	}

	assert.Equal(t, added.ID, 4, "id should follow the existing ones")
	assert.Equal(t, ctx.Collection.Len(), 4, "collection size mismatch")

	stored, err := ctx.Structured.GetAllPapers(t.Context())
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading local database"))
	}
	assert.Equal(t, len(stored), 4, "local database should hold the paper")
}
