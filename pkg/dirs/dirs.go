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

// Package dirs resolves the base directories papershelf keeps its files in,
// following the XDG base directory specification.
package dirs

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/pkg/errors"
)

// AppDirName is the directory created under each base directory
const AppDirName = "papershelf"

// The environment variable names for the XDG base directory specification
const (
	envConfigHome = "XDG_CONFIG_HOME"
	envDataHome   = "XDG_DATA_HOME"
	envCacheHome  = "XDG_CACHE_HOME"
)

// Paths holds the base directories for one user
type Paths struct {
	Home   string
	Config string
	Data   string
	Cache  string
}

// AppConfig returns the papershelf directory under the config home
func (p Paths) AppConfig() string {
	return filepath.Join(p.Config, AppDirName)
}

// AppData returns the papershelf directory under the data home
func (p Paths) AppData() string {
	return filepath.Join(p.Data, AppDirName)
}

// AppCache returns the papershelf directory under the cache home
func (p Paths) AppCache() string {
	return filepath.Join(p.Cache, AppDirName)
}

// Resolve computes the base directories for the given home directory. lookup
// reads environment variables and is os.Getenv outside of tests.
func Resolve(home string, lookup func(string) string) Paths {
	read := func(envName, defaultPath string) string {
		if dir := lookup(envName); dir != "" {
			return dir
		}

		return defaultPath
	}

	return Paths{
		Home:   home,
		Config: read(envConfigHome, filepath.Join(home, ".config")),
		Data:   read(envDataHome, filepath.Join(home, ".local", "share")),
		Cache:  read(envCacheHome, filepath.Join(home, ".cache")),
	}
}

// Current resolves the base directories of the current user
func Current() (Paths, error) {
	usr, err := user.Current()
	if err != nil {
		return Paths{}, errors.Wrap(err, "getting home dir")
	}

	return Resolve(usr.HomeDir, os.Getenv), nil
}

// Ensure creates the papershelf directories if they don't already exist
func Ensure(p Paths) error {
	for _, dir := range []string{p.AppConfig(), p.AppData(), p.AppCache()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "creating directory at %s", dir)
		}
	}

	return nil
}
