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


package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/cli/consts"
	"github.com/papershelf/papershelf/pkg/cli/testutils"
	"github.com/papershelf/papershelf/pkg/cli/utils"
	"github.com/papershelf/papershelf/pkg/storage/structured"
	"github.com/pkg/errors"
)

var binaryName = "test-papershelf"

// setupTestEnv creates a unique test directory for parallel test execution
func setupTestEnv(t *testing.T) (string, testutils.RunCmdOptions) {
	testDir := t.TempDir()
	opts := testutils.RunCmdOptions{
		Env: []string{
			fmt.Sprintf("XDG_CONFIG_HOME=%s", testDir),
			fmt.Sprintf("XDG_DATA_HOME=%s", testDir),
			fmt.Sprintf("XDG_CACHE_HOME=%s", testDir),
		},
	}
	return testDir, opts
}

func TestMain(m *testing.M) {
	if err := exec.Command("go", "build", "-o", binaryName).Run(); err != nil {
		log.Print(errors.Wrap(err, "building a binary").Error())
		os.Exit(1)
	}

	code := m.Run()
	os.Remove(binaryName)
	os.Exit(code)
}

// exportPapers runs the export command and returns the exported papers
func exportPapers(t *testing.T, testDir string, opts testutils.RunCmdOptions) structured.Export {
	path := filepath.Join(testDir, "export.json")
	testutils.RunPapershelfCmd(t, opts, binaryName, "export", "-o", path)

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading export"))
	}

	var ret structured.Export
	testutils.MustUnmarshalJSON(t, b, &ret)

	return ret
}

func titles(papers []catalog.Paper) []string {
	ret := make([]string, 0, len(papers))
	for _, p := range papers {
		ret = append(ret, p.Title)
	}

	return ret
}

func TestInit(t *testing.T) {
	testDir, opts := setupTestEnv(t)

	testutils.RunPapershelfCmd(t, opts, binaryName, "status")

	for _, path := range []string{
		filepath.Join(testDir, "papershelf", consts.ConfigFilename),
		filepath.Join(testDir, "papershelf", consts.StructuredFilename),
	} {
		ok, err := utils.FileExists(path)
		if err != nil {
			t.Fatal(errors.Wrapf(err, "checking %s", path))
		}
		assert.Equal(t, ok, true, fmt.Sprintf("%s should exist", path))
	}
}

func TestAddPaper(t *testing.T) {
	t.Run("flags", func(t *testing.T) {
		testDir, opts := setupTestEnv(t)

		out := testutils.RunPapershelfCmd(t, opts, binaryName, "add",
			"-t", "Haptic Feedback for Blind Navigation",
			"--authors", "Alex Kim,Sam Park",
			"-y", "2021",
			"--venue", "CHI",
			"--citations", "42")
		assert.Equal(t, strings.Contains(out, "added paper 1"), true, "output mismatch")

		ex := exportPapers(t, testDir, opts)
		assert.Equalf(t, len(ex.Papers), 1, "paper count mismatch")

		p := ex.Papers[0]
		assert.Equal(t, p.ID, 1, "id mismatch")
		assert.Equal(t, p.Title, "Haptic Feedback for Blind Navigation", "title mismatch")
		assert.DeepEqual(t, p.Authors, []string{"Alex Kim", "Sam Park"}, "authors mismatch")
		assert.Equal(t, p.HIndex, 14, "h-index mismatch")
	})

	t.Run("piped yaml", func(t *testing.T) {
		testDir, opts := setupTestEnv(t)

		testutils.MustWaitPapershelfCmd(t, opts, testutils.UserPaperYAML, binaryName, "add")

		ex := exportPapers(t, testDir, opts)
		assert.Equalf(t, len(ex.Papers), 1, "paper count mismatch")
		assert.Equal(t, ex.Papers[0].Title, "Gaze Typing on Smart Glasses", "title mismatch")
		assert.Equal(t, ex.Papers[0].ResearchArea, catalog.AreaWearable, "research area mismatch")
	})

	t.Run("invalid year", func(t *testing.T) {
		testDir, opts := setupTestEnv(t)

		cmd, _, _, err := testutils.NewPapershelfCmd(opts, binaryName, "add", "-t", "Too Late", "--authors", "A", "-y", "3000", "--venue", "CHI")
		if err != nil {
			t.Fatal(err)
		}
		assert.NotEqual(t, cmd.Run(), nil, "add should fail")

		ex := exportPapers(t, testDir, opts)
		assert.Equal(t, len(ex.Papers), 0, "no paper should be stored")
	})
}

func TestImportAndList(t *testing.T) {
	testDir, opts := setupTestEnv(t)

	dir := filepath.Join(testDir, "incoming")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"a.json": `[{"title": "Mid-Air Gestures in Virtual Reality", "authors": ["Jordan Diaz"], "year": 2019, "journal": "IEEE VR", "researchArea": "Immersive Interaction"}]`,
		"b.csv":  "Title,Authors,Year,Research Field\nOne-Handed Typing on Large Phones,Morgan Chen,2023,Mobile Device\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	testutils.RunPapershelfCmd(t, opts, binaryName, "import", dir, "-n", "1")

	ex := exportPapers(t, testDir, opts)
	assert.Equal(t, len(ex.Papers), 2, "paper count mismatch")

	out := testutils.RunPapershelfCmd(t, opts, binaryName, "ls", "-c", catalog.AreaMobile)
	assert.Equal(t, strings.Contains(out, "One-Handed Typing on Large Phones"), true, "mobile paper should be listed")
	assert.Equal(t, strings.Contains(out, "Mid-Air Gestures in Virtual Reality"), false, "immersive paper should be filtered out")
}

func TestEditPaper(t *testing.T) {
	testDir, opts := setupTestEnv(t)

	testutils.RunPapershelfCmd(t, opts, binaryName, "add", "-t", "Gaze Typing", "--authors", "Robin Lee", "-y", "2023", "--venue", "UIST")

	edited := func(stdout io.Reader, stdin io.WriteCloser) error {
		content := "title: Gaze Typing on Smart Glasses\nauthors:\n  - Robin Lee\nyear: 2024\njournal: UIST\nresearchArea: HCI New Wearable Devices\ncitations: 12\n"
		if _, err := io.WriteString(stdin, content); err != nil {
			return errors.Wrap(err, "writing paper to stdin")
		}

		return stdin.Close()
	}
	testutils.MustWaitPapershelfCmd(t, opts, edited, binaryName, "edit", "1")

	ex := exportPapers(t, testDir, opts)
	assert.Equalf(t, len(ex.Papers), 1, "paper count mismatch")

	p := ex.Papers[0]
	assert.Equal(t, p.ID, 1, "id mismatch")
	assert.Equal(t, p.Title, "Gaze Typing on Smart Glasses", "title mismatch")
	assert.Equal(t, p.Year, 2024, "year mismatch")
	assert.Equal(t, p.Citations, 12, "citations mismatch")
	assert.Equal(t, p.HIndex, 4, "h-index mismatch")
}

func TestRemovePaper(t *testing.T) {
	testDir, opts := setupTestEnv(t)

	testutils.RunPapershelfCmd(t, opts, binaryName, "add", "-t", "First", "--authors", "A", "-y", "2020", "--venue", "CHI")
	testutils.RunPapershelfCmd(t, opts, binaryName, "add", "-t", "Second", "--authors", "B", "-y", "2021", "--venue", "CHI")

	testutils.MustWaitPapershelfCmd(t, opts, testutils.ConfirmRemovePaper, binaryName, "remove", "1")

	ex := exportPapers(t, testDir, opts)
	assert.DeepEqual(t, titles(ex.Papers), []string{"Second"}, "remaining papers mismatch")
}

func TestNuke(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		testDir, opts := setupTestEnv(t)

		testutils.RunPapershelfCmd(t, opts, binaryName, "add", "-t", "First", "--authors", "A", "-y", "2020", "--venue", "CHI")
		testutils.MustWaitPapershelfCmd(t, opts, testutils.ConfirmDeleteAll, binaryName, "nuke")

		ex := exportPapers(t, testDir, opts)
		assert.Equal(t, len(ex.Papers), 0, "papers should be deleted")

		out := testutils.RunPapershelfCmd(t, opts, binaryName, "status")
		assert.Equal(t, strings.Contains(out, "deletion marker is set"), true, "marker should be reported")

		// a new paper clears the marker and gets a fresh id
		out = testutils.RunPapershelfCmd(t, opts, binaryName, "add", "-t", "Fresh", "--authors", "A", "-y", "2022", "--venue", "CHI")
		assert.Equal(t, strings.Contains(out, "added paper 1"), true, "id should restart")

		out = testutils.RunPapershelfCmd(t, opts, binaryName, "status")
		assert.Equal(t, strings.Contains(out, "deletion marker is set"), false, "marker should be cleared")
	})

	t.Run("mistyped phrase", func(t *testing.T) {
		testDir, opts := setupTestEnv(t)

		testutils.RunPapershelfCmd(t, opts, binaryName, "add", "-t", "First", "--authors", "A", "-y", "2020", "--venue", "CHI")
		testutils.MustWaitPapershelfCmd(t, opts, testutils.MistypeDeleteAll, binaryName, "nuke")

		ex := exportPapers(t, testDir, opts)
		assert.Equal(t, len(ex.Papers), 1, "papers should be kept")
	})
}

func TestVersion(t *testing.T) {
	_, opts := setupTestEnv(t)

	out := testutils.RunPapershelfCmd(t, opts, binaryName, "version")
	assert.Equal(t, strings.Contains(out, "papershelf master"), true, "version mismatch")
}
