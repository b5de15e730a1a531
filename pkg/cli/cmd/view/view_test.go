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


package view

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/cli/testutils"
	"github.com/papershelf/papershelf/pkg/collection"
	"github.com/pkg/errors"
)

func TestViewPaperJSON(t *testing.T) {
	ctx := testutils.InitTestCtx(t)
	testutils.Setup(t, ctx)

	var buf bytes.Buffer
	if err := viewPaper(ctx, &buf, "2", true); err != nil {
		t.Fatal(errors.Wrap(err, "viewing"))
	}

	var got catalog.Paper
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(errors.Wrap(err, "decoding output"))
	}
	assert.Equal(t, got.ID, 2, "id mismatch")
	assert.Equal(t, got.Title, "Mid-Air Gestures in Virtual Reality", "title mismatch")
	assert.Equal(t, got.HIndex, 2, "h-index mismatch")
}

func TestViewPaperMissing(t *testing.T) {
	ctx := testutils.InitTestCtx(t)
	testutils.Setup(t, ctx)

	var buf bytes.Buffer
	err := viewPaper(ctx, &buf, "9", true)
	assert.Equal(t, errors.Cause(err), collection.ErrNotFound, "error mismatch")
}

func TestViewPaperInvalidID(t *testing.T) {
	ctx := testutils.InitTestCtx(t)

	var buf bytes.Buffer
	err := viewPaper(ctx, &buf, "not-a-number", false)
	assert.NotEqual(t, err, nil, "should return error for invalid id")
}
