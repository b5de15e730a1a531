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
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/papershelf/papershelf/pkg/cli/infra"
	"github.com/papershelf/papershelf/pkg/cli/log"
	"github.com/pkg/errors"

	// commands
	"github.com/papershelf/papershelf/pkg/cli/cmd/add"
	"github.com/papershelf/papershelf/pkg/cli/cmd/edit"
	"github.com/papershelf/papershelf/pkg/cli/cmd/export"
	"github.com/papershelf/papershelf/pkg/cli/cmd/imports"
	"github.com/papershelf/papershelf/pkg/cli/cmd/ls"
	"github.com/papershelf/papershelf/pkg/cli/cmd/mirror"
	"github.com/papershelf/papershelf/pkg/cli/cmd/nuke"
	"github.com/papershelf/papershelf/pkg/cli/cmd/remove"
	"github.com/papershelf/papershelf/pkg/cli/cmd/root"
	"github.com/papershelf/papershelf/pkg/cli/cmd/serve"
	"github.com/papershelf/papershelf/pkg/cli/cmd/share"
	"github.com/papershelf/papershelf/pkg/cli/cmd/status"
	"github.com/papershelf/papershelf/pkg/cli/cmd/thumbnail"
	"github.com/papershelf/papershelf/pkg/cli/cmd/version"
	"github.com/papershelf/papershelf/pkg/cli/cmd/view"
	"github.com/papershelf/papershelf/pkg/cli/cmd/watch"
)

// versionTag is populated during link time
var versionTag = "master"

func run() error {
	ctx, err := infra.Init(versionTag)
	if err != nil {
		return errors.Wrap(err, "initializing context")
	}
	defer ctx.Close()

	root.Register(add.NewCmd(*ctx))
	root.Register(imports.NewCmd(*ctx))
	root.Register(watch.NewCmd(*ctx))
	root.Register(ls.NewCmd(*ctx))
	root.Register(view.NewCmd(*ctx))
	root.Register(edit.NewCmd(*ctx))
	root.Register(remove.NewCmd(*ctx))
	root.Register(nuke.NewCmd(*ctx))
	root.Register(thumbnail.NewCmd(*ctx))
	root.Register(share.NewCmd(*ctx))
	root.Register(mirror.NewCmd(*ctx))
	root.Register(export.NewCmd(*ctx))
	root.Register(status.NewCmd(*ctx))
	root.Register(serve.NewCmd(*ctx))
	root.Register(version.NewCmd(*ctx))

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return root.Execute(sigCtx)
}

func main() {
	if err := run(); err != nil {
		log.Errorf("%s\n", err.Error())
		os.Exit(1)
	}
}
