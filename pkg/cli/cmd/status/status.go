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


package status

import (
	stdctx "context"

	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/infra"
	"github.com/papershelf/papershelf/pkg/cli/log"
	"github.com/papershelf/papershelf/pkg/reconcile"
	"github.com/spf13/cobra"
)

// Status describes where the collection lives
type Status struct {
	Active     reconcile.TierName
	Source     reconcile.TierName
	UserID     string
	Marker     bool
	Papers     int
	Remote     TierStatus
	Structured TierStatus
	Flat       TierStatus
	Mirror     string
	FileHost   string
}

// TierStatus is the state of one storage tier
type TierStatus struct {
	Available bool
	Papers    int
	Err       error
}

// NewCmd returns a new status command
func NewCmd(ctx context.PapershelfCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the storage tiers of the collection",
		RunE:  newRun(ctx),
	}

	return cmd
}

func count(papers int, err error) TierStatus {
	return TierStatus{Available: true, Papers: papers, Err: err}
}

func collect(c stdctx.Context, ctx context.PapershelfCtx, load reconcile.LoadResult) Status {
	st := Status{
		Active:   ctx.Engine.Session().Active(),
		Source:   load.Source,
		UserID:   ctx.UserID,
		Papers:   ctx.Collection.Len(),
		Mirror:   "not configured",
		FileHost: ctx.FileHost.Name(),
	}

	marker, err := ctx.Flat.Marker()
	if err == nil {
		st.Marker = marker
	}

	if ctx.Remote != nil {
		papers, err := ctx.Remote.LoadPapers(c, ctx.UserID)
		st.Remote = count(len(papers), err)
	}
	if ctx.Structured != nil {
		stats, err := ctx.Structured.Stats(c)
		st.Structured = count(stats.Papers, err)
	}
	papers, err := ctx.Flat.Get()
	st.Flat = count(len(papers), err)

	switch {
	case ctx.Mirror.CanWrite():
		st.Mirror = "writable"
	case ctx.Mirror.Enabled():
		st.Mirror = "read-only"
	}

	return st
}

func printTier(name string, t TierStatus) {
	switch {
	case !t.Available:
		log.Plainf("  %-18s %s\n", name, log.ColorGray.Sprint("unavailable"))
	case t.Err != nil:
		log.Plainf("  %-18s %s\n", name, log.ColorRed.Sprint(t.Err.Error()))
	default:
		log.Plainf("  %-18s %d papers\n", name, t.Papers)
	}
}

func printStatus(st Status) {
	log.Plainf("active tier: %s\n", st.Active)
	if st.Source != "" {
		log.Plainf("loaded from: %s\n", st.Source)
	}
	log.Plainf("user id: %s\n", st.UserID)
	log.Plainf("papers: %d\n", st.Papers)
	if st.Marker {
		log.Warnf("deletion marker is set\n")
	}

	log.Plainf("tiers:\n")
	printTier(string(reconcile.TierRemote), st.Remote)
	printTier(string(reconcile.TierStructured), st.Structured)
	printTier(string(reconcile.TierFlat), st.Flat)

	log.Plainf("mirror: %s\n", st.Mirror)
	log.Plainf("file host: %s\n", st.FileHost)
}

func newRun(ctx context.PapershelfCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		res := infra.LoadCollection(cmd.Context(), ctx)

		printStatus(collect(cmd.Context(), ctx, res))

		return nil
	}
}
