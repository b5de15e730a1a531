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


package testutils

import (
	"testing"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/cli/config"
	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/infra"
	"github.com/papershelf/papershelf/pkg/clock"
	"github.com/papershelf/papershelf/pkg/dirs"
	"github.com/pkg/errors"
)

// InitTestCtx returns a context over fresh local stores in a temporary
// directory. No remote database, mirror or file host is configured.
func InitTestCtx(t *testing.T) context.PapershelfCtx {
	paths := dirs.Resolve(t.TempDir(), func(string) string { return "" })
	if err := dirs.Ensure(paths); err != nil {
		t.Fatal(errors.Wrap(err, "creating test directories"))
	}

	cf := config.ApplyEnv(config.Default("vi"), func(string) (string, bool) { return "", false })
	cf.FileHost = config.FileHostNone

	ctx, err := infra.NewCtx(paths, cf, "test", clock.NewMock())
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating test context"))
	}
	t.Cleanup(ctx.Close)

	ctx.Collection.Load(t.Context())

	return *ctx
}

// Papers returns three papers without ids
func Papers() []catalog.Paper {
	return []catalog.Paper{
		{
			Title:        "Haptic Feedback for Blind Navigation",
			Authors:      []string{"Alex Kim", "Sam Park"},
			Year:         2021,
			Journal:      "CHI",
			ResearchArea: catalog.AreaAccessible,
			Methodology:  "Experimental",
			StudyType:    "Empirical",
			Keywords:     []string{"haptics", "navigation"},
			Citations:    42,
			PDFURL:       "#",
			WebsiteURL:   "#",
		},
		{
			Title:        "Mid-Air Gestures in Virtual Reality",
			Authors:      []string{"Jordan Diaz"},
			Year:         2019,
			Journal:      "IEEE VR",
			ResearchArea: catalog.AreaImmersive,
			Methodology:  "Mixed Methods",
			StudyType:    "Empirical",
			Citations:    7,
			PDFURL:       "#",
			WebsiteURL:   "#",
		},
		{
			Title:        "One-Handed Typing on Large Phones",
			Authors:      []string{"Morgan Chen"},
			Year:         2023,
			Journal:      "MobileHCI",
			ResearchArea: catalog.AreaMobile,
			Methodology:  "Experimental",
			StudyType:    "Empirical",
			Citations:    15,
			PDFURL:       "#",
			WebsiteURL:   "#",
		},
	}
}

// Setup adds the fixture papers to the collection of ctx. They get ids 1 to 3.
func Setup(t *testing.T, ctx context.PapershelfCtx) {
	for _, p := range Papers() {
		if _, res := ctx.Collection.Add(t.Context(), p); !res.OK() {
			t.Fatal(errors.Wrap(res.Err(), "adding fixture paper"))
		}
	}
}
