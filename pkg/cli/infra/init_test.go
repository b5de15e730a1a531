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


package infra

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
	"github.com/papershelf/papershelf/pkg/cli/config"
	"github.com/papershelf/papershelf/pkg/cli/consts"
	"github.com/papershelf/papershelf/pkg/clock"
	"github.com/papershelf/papershelf/pkg/dirs"
	"github.com/papershelf/papershelf/pkg/reconcile"
	"github.com/pkg/errors"
)

func noEnv(string) (string, bool) {
	return "", false
}

func setupPaths(t *testing.T) dirs.Paths {
	paths := dirs.Resolve(t.TempDir(), func(string) string { return "" })
	if err := initFiles(paths); err != nil {
		t.Fatal(errors.Wrap(err, "initializing files"))
	}

	return paths
}

func TestInitConfigFile(t *testing.T) {
	paths := setupPaths(t)

	cf, err := config.Read(paths)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading config"))
	}
	assert.Equal(t, cf.FileHost, config.FileHostGitHub, "default file host mismatch")
	assert.Equal(t, cf.BatchConcurrency, config.DefaultBatchConcurrency, "default concurrency mismatch")

	cf.Editor = "nano"
	if err := config.Write(paths, cf); err != nil {
		t.Fatal(errors.Wrap(err, "writing config"))
	}

	if err := initConfigFile(paths); err != nil {
		t.Fatal(errors.Wrap(err, "initializing again"))
	}

	cf2, err := config.Read(paths)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading config"))
	}
	assert.Equal(t, cf2.Editor, "nano", "existing config should not be overwritten")
}

func TestNewCtxLocal(t *testing.T) {
	paths := setupPaths(t)
	cf := config.ApplyEnv(config.Default("vi"), noEnv)

	ctx, err := NewCtx(paths, cf, "test-version", clock.NewMock())
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating context"))
	}
	defer ctx.Close()

	assert.Equal(t, ctx.Remote == nil, true, "remote should be unavailable")
	assert.Equal(t, ctx.Structured != nil, true, "structured store should be open")
	assert.Equal(t, ctx.Engine.Session().Active(), reconcile.TierStructured, "active tier mismatch")
	assert.Equal(t, strings.HasPrefix(ctx.UserID, consts.UserIDPrefix), true, "user id prefix")
	assert.Equal(t, ctx.FileHost.Name(), "github", "file host mismatch")
	assert.Equal(t, ctx.Mirror.Enabled(), false, "mirror should be disabled without a repository")

	_, err = os.Stat(filepath.Join(paths.AppData(), consts.StructuredFilename))
	assert.Equal(t, err, nil, "structured database should be created")

	ctx2, err := NewCtx(paths, cf, "test-version", clock.NewMock())
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating second context"))
	}
	defer ctx2.Close()

	assert.Equal(t, ctx2.UserID, ctx.UserID, "user id should be stable")
}

func TestNewCtxUnreachableRemote(t *testing.T) {
	paths := setupPaths(t)
	cf := config.ApplyEnv(config.Default("vi"), noEnv)
	cf.DatabaseURL = "postgres://papershelf@127.0.0.1:1/papershelf?sslmode=disable&connect_timeout=1"

	ctx, err := NewCtx(paths, cf, "test-version", clock.NewMock())
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating context"))
	}
	defer ctx.Close()

	assert.Equal(t, ctx.Remote == nil, true, "remote should be left out")
	assert.Equal(t, ctx.Engine.Session().Active(), reconcile.TierStructured, "active tier mismatch")
}

func TestNewCtxRoundTrip(t *testing.T) {
	paths := setupPaths(t)
	cf := config.ApplyEnv(config.Default("vi"), noEnv)
	cf.FileHost = config.FileHostNone

	ctx, err := NewCtx(paths, cf, "test-version", clock.NewMock())
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating context"))
	}
	defer ctx.Close()

	ctx.Collection.Load(t.Context())
	if _, res := ctx.Collection.Add(t.Context(), testPaper()); !res.OK() {
		t.Fatal(errors.Wrap(res.Err(), "adding a paper"))
	}
	ctx.Close()

	ctx2, err := NewCtx(paths, cf, "test-version", clock.NewMock())
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating second context"))
	}
	defer ctx2.Close()

	res := ctx2.Collection.Load(t.Context())
	assert.Equal(t, res.Source, reconcile.TierStructured, "source mismatch")
	assert.Equal(t, len(res.Papers), 1, "paper count mismatch")
}

func TestNewFileHost(t *testing.T) {
	paths := setupPaths(t)
	base := config.ApplyEnv(config.Default("vi"), noEnv)

	ctx, err := NewCtx(paths, base, "test-version", clock.NewMock())
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating context"))
	}
	defer ctx.Close()

	testCases := []struct {
		fileHost string
		bucket   string
		expected string
	}{
		{config.FileHostGitHub, "", "github"},
		{config.FileHostNone, "", "none"},
		{config.FileHostS3, "", "none"},
		{"dropbox", "", "none"},
	}

	for _, tc := range testCases {
		cf := base
		cf.FileHost = tc.fileHost
		cf.S3.Bucket = tc.bucket

		got := newFileHost(cf, ctx.Mirror, clock.NewMock())
		assert.Equal(t, got.Name(), tc.expected, tc.fileHost)
	}
}
