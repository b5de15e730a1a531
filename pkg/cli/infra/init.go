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


// Package infra provides operations and definitions for the
// local infrastructure for papershelf
package infra

import (
	stdctx "context"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/papershelf/papershelf/pkg/cli/config"
	"github.com/papershelf/papershelf/pkg/cli/consts"
	"github.com/papershelf/papershelf/pkg/cli/context"
	"github.com/papershelf/papershelf/pkg/cli/log"
	"github.com/papershelf/papershelf/pkg/cli/utils"
	"github.com/papershelf/papershelf/pkg/cli/validate"
	"github.com/papershelf/papershelf/pkg/client"
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
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// remotePingTimeout bounds the reachability check of the remote database
const remotePingTimeout = 5 * time.Second

// RunEFunc is a function type of papershelf commands
type RunEFunc func(*cobra.Command, []string) error

// LoadCollection loads the collection of ctx from the first authoritative tier
func LoadCollection(c stdctx.Context, ctx context.PapershelfCtx) reconcile.LoadResult {
	res := ctx.Collection.Load(c)
	if res.Blocked {
		log.Debug("deletion marker set, the collection starts empty\n")
	} else {
		log.Debug("loaded %d papers from %s\n", len(res.Papers), res.Source)
	}

	return res
}

// Init initializes the papershelf environment and returns a new context
func Init(versionTag string) (*context.PapershelfCtx, error) {
	if err := godotenv.Load(consts.EnvFilename); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "loading %s", consts.EnvFilename)
	}

	paths, err := dirs.Current()
	if err != nil {
		return nil, errors.Wrap(err, "resolving directories")
	}

	if err := initFiles(paths); err != nil {
		return nil, errors.Wrap(err, "initializing files")
	}

	cf, err := config.Read(paths)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	cf = config.ApplyEnv(cf, os.LookupEnv)

	ctx, err := NewCtx(paths, cf, versionTag, clock.New())
	if err != nil {
		return nil, errors.Wrap(err, "setting up the context")
	}

	log.Debug("context: %+v\n", context.Redact(*ctx))

	return ctx, nil
}

// NewCtx opens every storage tier the configuration allows and wires them
// into a context. Unavailable tiers are logged and left out.
func NewCtx(paths dirs.Paths, cf config.Config, versionTag string, c clock.Clock) (*context.PapershelfCtx, error) {
	hc := client.NewRateLimitedHTTPClient()

	ctx := context.PapershelfCtx{
		Paths:      paths,
		Version:    versionTag,
		Config:     cf,
		Editor:     cf.Editor,
		Clock:      c,
		HTTPClient: hc,
	}

	ctx.Flat = flat.Open(filepath.Join(paths.AppData(), consts.FlatFilename), cf.FlatQuotaBytes)
	userID, err := ctx.Flat.UserID(utils.GenerateUserID)
	if err != nil {
		return nil, errors.Wrap(err, "getting the user id")
	}
	ctx.UserID = userID

	ctx.Structured = openStructured(paths, c)
	ctx.Remote = openRemote(cf.DatabaseURL, c)

	m, err := mirror.New(mirror.Config{
		Owner:      cf.GitHub.Owner,
		Repo:       cf.GitHub.Repo,
		Branch:     cf.GitHub.Branch,
		Token:      cf.GitHub.Token,
		CDNBaseURL: cf.GitHub.CDNBaseURL,
	}, hc)
	if err != nil {
		ctx.Close()
		return nil, errors.Wrap(err, "initializing the metadata mirror")
	}
	ctx.Mirror = m
	ctx.FileHost = newFileHost(cf, m, c)

	ctx.Engine = reconcile.New(engineConfig(ctx))
	ctx.Collection = collection.New(collection.Config{
		Engine:      ctx.Engine,
		FileHost:    ctx.FileHost,
		AutoPublish: m.CanWrite(),
		Logger:      log.Logger{},
	})

	shareCfg := share.Config{
		BaseURL: cf.ShareBaseURL,
		UserID:  userID,
		Logger:  log.Logger{},
	}
	if ctx.Remote != nil {
		shareCfg.Snapshots = ctx.Remote
	}
	ctx.Shares = share.New(shareCfg)

	return &ctx, nil
}

func openStructured(paths dirs.Paths, c clock.Clock) *structured.Store {
	path := filepath.Join(paths.AppData(), consts.StructuredFilename)

	s, err := structured.Open(path, c)
	if err != nil {
		log.Debug("opening the local database at %s: %s\n", path, err.Error())
		return nil
	}

	return s
}

func openRemote(dsn string, c clock.Clock) *remote.Store {
	if dsn == "" {
		return nil
	}

	s, err := remote.Open(dsn, c)
	if err != nil {
		log.Debug("opening the remote database: %s\n", err.Error())
		log.Warnf("remote database unavailable, using local storage\n")
		return nil
	}

	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), remotePingTimeout)
	defer cancel()

	if err := s.Ping(ctx); err != nil {
		s.Close()
		log.Debug("pinging the remote database: %s\n", err.Error())
		log.Warnf("remote database unavailable, using local storage\n")
		return nil
	}

	return s
}

func newFileHost(cf config.Config, m *mirror.Mirror, c clock.Clock) filehost.Host {
	if err := validate.FileHost(cf.FileHost); err != nil {
		log.Warnf("%s, files are kept in the records\n", err.Error())
		return filehost.None{}
	}

	switch cf.FileHost {
	case config.FileHostNone:
		return filehost.None{}
	case config.FileHostS3:
		h, err := filehost.NewS3(cf.S3.Bucket, cf.S3.Region, c)
		if err != nil {
			log.Debug("initializing the S3 file host: %s\n", err.Error())
			log.Warnf("S3 file host unavailable, files are kept in the records\n")
			return filehost.None{}
		}
		return h
	default:
		return filehost.NewGitHub(m, c)
	}
}

// activeTier is the primary tier of a new session
func activeTier(ctx context.PapershelfCtx) reconcile.TierName {
	switch {
	case ctx.Remote != nil:
		return reconcile.TierRemote
	case ctx.Structured != nil:
		return reconcile.TierStructured
	default:
		return reconcile.TierFlat
	}
}

// engineConfig leaves unavailable tiers as nil interfaces
func engineConfig(ctx context.PapershelfCtx) reconcile.Config {
	c := reconcile.Config{
		Session:  reconcile.NewSession(ctx.UserID, activeTier(ctx), ctx.Structured != nil),
		Flat:     ctx.Flat,
		Mirror:   ctx.Mirror,
		FileHost: ctx.FileHost,
		Logger:   log.Logger{},
	}
	if ctx.Remote != nil {
		c.Remote = ctx.Remote
	}
	if ctx.Structured != nil {
		c.Structured = ctx.Structured
	}

	return c
}

// getEditorCommand returns the system's editor command with appropriate flags,
// if necessary, to make the command wait until editor is close to exit.
func getEditorCommand() string {
	editor := os.Getenv("EDITOR")

	var ret string

	switch editor {
	case "atom":
		ret = "atom -w"
	case "subl":
		ret = "subl -n -w"
	case "code":
		ret = "code -n -w"
	case "mate":
		ret = "mate -w"
	case "vim":
		ret = "vim"
	case "nano":
		ret = "nano"
	case "emacs":
		ret = "emacs"
	case "nvim":
		ret = "nvim"
	default:
		ret = "vi"
	}

	return ret
}

// initConfigFile populates a new config file if it does not exist yet
func initConfigFile(paths dirs.Paths) error {
	path := config.GetPath(paths)
	ok, err := utils.FileExists(path)
	if err != nil {
		return errors.Wrap(err, "checking if config exists")
	}
	if ok {
		return nil
	}

	if err := config.Write(paths, config.Default(getEditorCommand())); err != nil {
		return errors.Wrap(err, "writing config")
	}

	return nil
}

// initFiles creates, if necessary, the directories and files for papershelf
func initFiles(paths dirs.Paths) error {
	if err := dirs.Ensure(paths); err != nil {
		return errors.Wrap(err, "initializing papershelf directories")
	}
	if err := initConfigFile(paths); err != nil {
		return errors.Wrap(err, "generating the config file")
	}

	return nil
}
