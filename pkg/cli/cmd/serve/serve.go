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
	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/infra"
	servercmd "github.com/papershelf/papershelf/pkg/server/cmd"
	"github.com/papershelf/papershelf/pkg/server/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var portFlag, logLevelFlag string
var disableRateLimitFlag bool

var example = `
  * Serve share links on the configured base URL
  papershelf serve

  * Serve on another port
  papershelf serve --port 8080`

// NewCmd returns a new serve command
func NewCmd(ctx context.PapershelfCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the share server",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&portFlag, "port", "p", "", "port to listen on (env: PORT, default: 3002)")
	f.StringVarP(&logLevelFlag, "log-level", "", "", "debug, info, warn or error (env: LOG_LEVEL)")
	f.BoolVarP(&disableRateLimitFlag, "disable-rate-limit", "", false, "serve without per-client rate limits")

	return cmd
}

// serverConfig builds the share server configuration on top of the CLI
// configuration
func serverConfig(ctx context.PapershelfCtx, port, logLevel string, disableRateLimit bool) (config.Config, error) {
	return config.New(config.Params{
		Port:             port,
		BaseURL:          ctx.Config.ShareBaseURL,
		DatabaseURL:      ctx.Config.DatabaseURL,
		LogLevel:         logLevel,
		DisableRateLimit: disableRateLimit,
	})
}

func newRun(ctx context.PapershelfCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := serverConfig(ctx, portFlag, logLevelFlag, disableRateLimitFlag)
		if err != nil {
			return errors.Wrap(err, "configuring the server")
		}

		servercmd.Version = ctx.Version

		return servercmd.Start(cmd.Context(), cfg)
	}
}
