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


package thumbnail

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
	"github.com/papershelf/papershelf/pkg/cli/testutils"
	"github.com/papershelf/papershelf/pkg/collection"
	"github.com/pkg/errors"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func writeFile(t *testing.T, name string, b []byte) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, b, 0644); err != nil {
		t.Fatal(errors.Wrap(err, "writing file"))
	}

	return path
}

func TestDataURL(t *testing.T) {
	path := writeFile(t, "cover.png", pngHeader)

	got, err := DataURL(path)
	if err != nil {
		t.Fatal(errors.Wrap(err, "encoding"))
	}

	assert.Equal(t, strings.HasPrefix(got, "data:image/png;base64,"), true, "data url prefix mismatch")
}

func TestDataURLNotImage(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("plain text notes\n"))

	_, err := DataURL(path)
	assert.NotEqual(t, err, nil, "should reject text files")
}

func TestApply(t *testing.T) {
	ctx := testutils.InitTestCtx(t)
	testutils.Setup(t, ctx)
	path := writeFile(t, "cover.png", pngHeader)

	if _, err := apply(t.Context(), ctx, 1, ActionSet, path); err != nil {
		t.Fatal(errors.Wrap(err, "setting"))
	}
	p, err := ctx.Collection.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	first := p.Thumbnail
	assert.Equal(t, strings.HasPrefix(first, "data:image/png"), true, "thumbnail should be set")
	assert.Equal(t, p.OriginalThumbnail, first, "the first thumbnail should become the original")

	if _, err := apply(t.Context(), ctx, 1, ActionRemove, ""); err != nil {
		t.Fatal(errors.Wrap(err, "removing"))
	}
	p, _ = ctx.Collection.Get(1)
	assert.Equal(t, p.Thumbnail, "", "thumbnail should be removed")

	if _, err := apply(t.Context(), ctx, 1, ActionReset, ""); err != nil {
		t.Fatal(errors.Wrap(err, "resetting"))
	}
	p, _ = ctx.Collection.Get(1)
	assert.Equal(t, p.Thumbnail, first, "thumbnail should be restored")

	stored, err := ctx.Structured.GetThumbnail(t.Context(), 1)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, stored, first, "stored thumbnail mismatch")
}

func TestApplyResetWithoutOriginal(t *testing.T) {
	ctx := testutils.InitTestCtx(t)
	testutils.Setup(t, ctx)

	_, err := apply(t.Context(), ctx, 2, ActionReset, "")
	assert.Equal(t, errors.Cause(err), collection.ErrNoOriginalThumbnail, "error mismatch")
}
