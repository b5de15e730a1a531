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


package nuke

import (
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
	"github.com/papershelf/papershelf/pkg/cli/infra"
	"github.com/papershelf/papershelf/pkg/cli/testutils"
	"github.com/papershelf/papershelf/pkg/reconcile"
	"github.com/pkg/errors"
)

func TestDeleteAll(t *testing.T) {
	ctx := testutils.InitTestCtx(t)
	testutils.Setup(t, ctx)

	res := ctx.Collection.DeleteAll(t.Context())
	assert.Equal(t, res.OK(), true, "every step should succeed")
	assert.Equal(t, ctx.Collection.Len(), 0, "collection should be empty")

	marker, err := ctx.Flat.Marker()
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading marker"))
	}
	assert.Equal(t, marker, true, "marker should be set")

	step, ok := res.Step(reconcile.StepRemotePapers)
	assert.Equal(t, ok, true, "remote step should be listed")
	assert.Equal(t, step.Skipped, true, "remote step should be skipped without a database")

	stored, err := ctx.Structured.GetAllPapers(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(stored), 0, "structured store should be empty")
}

func TestDeleteAllThenLoad(t *testing.T) {
	ctx := testutils.InitTestCtx(t)
	testutils.Setup(t, ctx)

	ctx.Collection.DeleteAll(t.Context())

	res := infra.LoadCollection(t.Context(), ctx)
	assert.Equal(t, res.Blocked, true, "load should be blocked by the marker")
	assert.Equal(t, ctx.Collection.Len(), 0, "collection should stay empty")
}
