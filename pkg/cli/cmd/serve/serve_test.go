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


package serve

import (
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
	"github.com/papershelf/papershelf/pkg/cli/testutils"
	"github.com/papershelf/papershelf/pkg/server/config"
	"github.com/pkg/errors"
)

func TestServerConfig(t *testing.T) {
	ctx := testutils.InitTestCtx(t)
	ctx.Config.ShareBaseURL = "https://papers.example.com"

	cfg, err := serverConfig(ctx, "8080", "debug", true)
	if err != nil {
		t.Fatal(errors.Wrap(err, "building config"))
	}

	assert.Equal(t, cfg.Port, "8080", "port mismatch")
	assert.Equal(t, cfg.BaseURL, "https://papers.example.com", "base url mismatch")
	assert.Equal(t, cfg.LogLevel, "debug", "log level mismatch")
	assert.Equal(t, cfg.DisableRateLimit, true, "rate limit mismatch")
}

func TestServerConfigInvalidPort(t *testing.T) {
	ctx := testutils.InitTestCtx(t)

	_, err := serverConfig(ctx, "99999", "", false)
	assert.Equal(t, errors.Cause(err), config.ErrPortInvalid, "error mismatch")
}
