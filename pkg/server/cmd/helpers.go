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

package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/papershelf/papershelf/pkg/clock"
	"github.com/papershelf/papershelf/pkg/server/app"
	"github.com/papershelf/papershelf/pkg/server/config"
	"github.com/papershelf/papershelf/pkg/server/log"
	mw "github.com/papershelf/papershelf/pkg/server/middleware"
	"github.com/papershelf/papershelf/pkg/share"
	"github.com/papershelf/papershelf/pkg/storage/remote"
	"github.com/pkg/errors"
)

// NewApp builds the server app from the configuration. The returned
// cleanup function closes the snapshot store, if any.
func NewApp(cfg config.Config) (app.App, func(), error) {
	c := clock.New()
	cleanup := func() {}

	sc := share.Config{
		BaseURL: cfg.BaseURL,
		Logger:  log.Printf{Fields: log.Fields{"component": "share"}},
	}

	if cfg.DatabaseURL != "" {
		store, err := remote.Open(cfg.DatabaseURL, c)
		if err != nil {
			return app.App{}, cleanup, errors.Wrap(err, "opening the share database")
		}

		sc.Snapshots = store
		cleanup = func() {
			if err := store.Close(); err != nil {
				log.ErrorWrap(err, "closing the share database")
			}
		}
	} else {
		log.Warn("no database configured, serving inline share links only")
	}

	a := app.App{
		Shares:  share.New(sc),
		Clock:   c,
		BaseURL: cfg.BaseURL,
		Port:    cfg.Port,
	}
	if !cfg.DisableRateLimit {
		a.Limiter = mw.NewRateLimiter(mw.DefaultPerSecond, mw.DefaultBurst)
	}

	return a, cleanup, nil
}

// printFlags prints flags with -- prefix for consistency with CLI
func printFlags(fs *flag.FlagSet) {
	fs.VisitAll(func(f *flag.Flag) {
		fmt.Printf("  --%s", f.Name)

		// Print type hint for non-boolean flags
		name, usage := flag.UnquoteUsage(f)
		if name != "" {
			fmt.Printf(" %s", name)
		}
		fmt.Println()

		// Print usage description with indentation
		if usage != "" {
			fmt.Printf("    \t%s", usage)
			if f.DefValue != "" && f.DefValue != "false" {
				fmt.Printf(" (default: %s)", f.DefValue)
			}
			fmt.Println()
		}
	})
}

// setupFlagSet creates a FlagSet with standard usage format
func setupFlagSet(name, usageCmd string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Printf(`Usage:
  %s [flags]

Flags:
`, usageCmd)
		printFlags(fs)
	}
	return fs
}

// requireString validates that a required string flag is not empty
func requireString(fs *flag.FlagSet, value, fieldName string) {
	if value == "" {
		fmt.Printf("Error: %s is required\n", fieldName)
		fs.Usage()
		os.Exit(1)
	}
}
