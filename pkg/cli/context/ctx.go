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


// Package context defines the papershelf runtime context
package context

import (
	"net/http"

	"github.com/papershelf/papershelf/pkg/cli/config"
	"github.com/papershelf/papershelf/pkg/clock"
	"github.com/papershelf/papershelf/pkg/collection"
	"github.com/papershelf/papershelf/pkg/dirs"
	"github.com/papershelf/papershelf/pkg/filehost"
	"github.com/papershelf/papershelf/pkg/reconcile"
	"github.com/papershelf/papershelf/pkg/share"
	"github.com/papershelf/papershelf/pkg/storage/flat"
	"github.com/papershelf/papershelf/pkg/storage/mirror"
	"github.com/papershelf/papershelf/pkg/storage/remote"
	"github.com/papershelf/papershelf/pkg/storage/structured"
)

// PapershelfCtx is a context holding the information of the current runtime
type PapershelfCtx struct {
	Paths      dirs.Paths
	Version    string
	Config     config.Config
	Editor     string
	Clock      clock.Clock
	HTTPClient *http.Client
	UserID     string

	Flat *flat.Store
	// Structured is nil when the local database could not be opened
	Structured *structured.Store
	// Remote is nil when no database URL is configured or it is unreachable
	Remote     *remote.Store
	Mirror     *mirror.Mirror
	FileHost   filehost.Host
	Engine     *reconcile.Engine
	Collection *collection.Manager
	Shares     *share.Service
}

// Close releases the database connections of the context
func (ctx PapershelfCtx) Close() {
	if ctx.Structured != nil {
		ctx.Structured.Close()
	}
	if ctx.Remote != nil {
		ctx.Remote.Close()
	}
}

func redactValue(s string) string {
	if s != "" {
		return "1"
	}

	return "0"
}

// Redact replaces private information from the context with a set of
// placeholder values.
func Redact(ctx PapershelfCtx) PapershelfCtx {
	ctx.Config.DatabaseURL = redactValue(ctx.Config.DatabaseURL)
	ctx.Config.GitHub.Token = redactValue(ctx.Config.GitHub.Token)

	return ctx
}
