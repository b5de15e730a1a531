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

// Package validate checks command line input before it reaches the collection
package validate

import (
	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/cli/config"
	"github.com/pkg/errors"
)

// ErrCategoryUnknown is an error for a category that is not a research area
var ErrCategoryUnknown = errors.New("unknown research area")

// ErrSortUnknown is an error for an unknown sort order
var ErrSortUnknown = errors.New("unknown sort order")

// ErrConcurrency is an error for a worker count below one
var ErrConcurrency = errors.New("concurrency must be at least 1")

// ErrFileHostUnknown is an error for an unknown file host
var ErrFileHostUnknown = errors.New("unknown file host")

var sortOrders = []string{
	catalog.SortYearDesc,
	catalog.SortYearAsc,
	catalog.SortCitationsDesc,
	catalog.SortCitationsAsc,
	catalog.SortTitleAsc,
}

// Category validates a research area given on the command line. Empty and
// auto leave the area to the record.
func Category(name string) error {
	if name == "" || name == catalog.CategoryAuto || catalog.IsResearchArea(name) {
		return nil
	}

	return errors.Wrapf(ErrCategoryUnknown, "'%s'", name)
}

// SortOrder validates a sort order. Empty means the default order.
func SortOrder(order string) error {
	if order == "" {
		return nil
	}
	for _, o := range sortOrders {
		if o == order {
			return nil
		}
	}

	return errors.Wrapf(ErrSortUnknown, "'%s'", order)
}

// Concurrency validates a batch worker count
func Concurrency(n int) error {
	if n < 1 {
		return ErrConcurrency
	}

	return nil
}

// FileHost validates the file host named in the config
func FileHost(name string) error {
	switch name {
	case config.FileHostGitHub, config.FileHostS3, config.FileHostNone:
		return nil
	default:
		return errors.Wrapf(ErrFileHostUnknown, "'%s'", name)
	}
}
