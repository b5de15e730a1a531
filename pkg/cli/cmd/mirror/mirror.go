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


package mirror

import (
	stdctx "context"
	"net/http"
	"os"

	"github.com/papershelf/papershelf/pkg/cli/config"
	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/infra"
	"github.com/papershelf/papershelf/pkg/cli/log"
	"github.com/papershelf/papershelf/pkg/cli/ui"
	"github.com/papershelf/papershelf/pkg/dirs"
	"github.com/papershelf/papershelf/pkg/reconcile"
	"github.com/papershelf/papershelf/pkg/storage/mirror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var ownerFlag, repoFlag, branchFlag, tokenFlag string

var example = `
  * Publish the collection to the mirror repository
  papershelf mirror push

  * Store a token for the mirror repository
  papershelf mirror login --owner alice --repo papers`

// NewCmd returns a new mirror command
func NewCmd(ctx context.PapershelfCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mirror",
		Short:   "Manage the GitHub metadata mirror",
		Example: example,
	}

	cmd.AddCommand(newPushCmd(ctx))
	cmd.AddCommand(newLoginCmd(ctx))

	return cmd
}

func newPushCmd(ctx context.PapershelfCtx) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload the collection to the mirror repository",
		RunE:  newPushRun(ctx),
	}
}

func newLoginCmd(ctx context.PapershelfCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Configure the mirror repository and its token",
		RunE:  newLoginRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&ownerFlag, "owner", "", "", "repository owner")
	f.StringVarP(&repoFlag, "repo", "", "", "repository name")
	f.StringVarP(&branchFlag, "branch", "", "", "repository branch")
	f.StringVarP(&tokenFlag, "token", "", "", "GitHub token. Prompted for when omitted.")

	return cmd
}

func push(c stdctx.Context, ctx context.PapershelfCtx) error {
	if err := ctx.Collection.Publish(c); err != nil {
		if errors.Cause(err) == reconcile.ErrMirrorUnavailable {
			return errors.Wrap(err, "run 'papershelf mirror login' first")
		}
		return err
	}

	return nil
}

func newPushRun(ctx context.PapershelfCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		infra.LoadCollection(cmd.Context(), ctx)

		if err := push(cmd.Context(), ctx); err != nil {
			return errors.Wrap(err, "publishing")
		}

		log.Successf("published %d papers to %s\n", ctx.Collection.Len(), ctx.Mirror.CDNURL(mirror.DocumentPath))

		return nil
	}
}

// readConfig reads the config file, falling back to fallback when the file
// does not exist
func readConfig(paths dirs.Paths, fallback config.Config) (config.Config, error) {
	cf, err := config.Read(paths)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return fallback, nil
		}
		return config.Config{}, err
	}

	return cf, nil
}

// login checks that gh can reach its repository and stores it in the config
// file. apiBaseURL overrides the GitHub API endpoint when not empty.
func login(c stdctx.Context, ctx context.PapershelfCtx, gh config.GitHub, hc *http.Client, apiBaseURL string) error {
	m, err := mirror.New(mirror.Config{
		Owner:      gh.Owner,
		Repo:       gh.Repo,
		Branch:     gh.Branch,
		Token:      gh.Token,
		CDNBaseURL: gh.CDNBaseURL,
		APIBaseURL: apiBaseURL,
	}, hc)
	if err != nil {
		return err
	}
	if !m.Enabled() {
		return errors.New("owner and repo are required")
	}
	if err := m.ValidateToken(c); err != nil {
		return errors.Wrap(err, "checking the token")
	}

	cf, err := readConfig(ctx.Paths, ctx.Config)
	if err != nil {
		return err
	}
	cf.GitHub = gh

	if err := config.Write(ctx.Paths, cf); err != nil {
		return errors.Wrap(err, "saving the token")
	}

	return nil
}

func loginTarget(ctx context.PapershelfCtx) (config.GitHub, error) {
	gh := ctx.Config.GitHub
	if ownerFlag != "" {
		gh.Owner = ownerFlag
	}
	if repoFlag != "" {
		gh.Repo = repoFlag
	}
	if branchFlag != "" {
		gh.Branch = branchFlag
	}

	gh.Token = tokenFlag
	if gh.Token == "" {
		if err := ui.PromptPassword("token", &gh.Token); err != nil {
			return config.GitHub{}, errors.Wrap(err, "getting token input")
		}
	}
	if gh.Token == "" {
		return config.GitHub{}, errors.New("Empty token")
	}

	return gh, nil
}

func newLoginRun(ctx context.PapershelfCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		gh, err := loginTarget(ctx)
		if err != nil {
			return err
		}

		if err := login(cmd.Context(), ctx, gh, ctx.HTTPClient, ""); err != nil {
			return errors.Wrap(err, "logging in")
		}

		log.Successf("mirror %s/%s configured\n", gh.Owner, gh.Repo)

		return nil
	}
}
