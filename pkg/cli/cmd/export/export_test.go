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


package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
	"github.com/papershelf/papershelf/pkg/cli/testutils"
	"github.com/papershelf/papershelf/pkg/storage/structured"
	"github.com/pkg/errors"
)

func TestExport(t *testing.T) {
	ctx := testutils.InitTestCtx(t)
	testutils.Setup(t, ctx)

	var buf bytes.Buffer
	if err := export(t.Context(), ctx, &buf); err != nil {
		t.Fatal(errors.Wrap(err, "exporting"))
	}

	var got structured.Export
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(errors.Wrap(err, "decoding output"))
	}

	assert.Equal(t, got.Version, structured.Version, "version mismatch")
	assert.Equal(t, got.Statistics.Papers, 3, "paper count mismatch")
	assert.Equal(t, got.Statistics.Files, 0, "file count mismatch")
	assert.Equal(t, len(got.Papers), 3, "papers length mismatch")
}

func TestExportWithoutStore(t *testing.T) {
	ctx := testutils.InitTestCtx(t)
	ctx.Structured = nil

	var buf bytes.Buffer
	err := export(t.Context(), ctx, &buf)
	assert.Equal(t, err, ErrNoStore, "error mismatch")
}
