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
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/papershelf/papershelf/pkg/server/config"
	"github.com/papershelf/papershelf/pkg/server/controllers"
	"github.com/papershelf/papershelf/pkg/server/log"
	"github.com/pkg/errors"
)

const shutdownTimeout = 10 * time.Second

// Start serves shared collections until ctx is done
func Start(ctx context.Context, cfg config.Config) error {
	log.SetLevel(cfg.LogLevel)

	a, cleanup, err := NewApp(cfg)
	if err != nil {
		return errors.Wrap(err, "initializing app")
	}
	defer cleanup()

	ctl := controllers.New(&a)
	rc := controllers.RouteConfig{
		Routes:      controllers.NewRoutes(&a, ctl),
		Controllers: ctl,
	}

	r, err := controllers.NewRouter(&a, rc)
	if err != nil {
		return errors.Wrap(err, "initializing router")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.WithFields(log.Fields{
		"version": Version,
		"port":    cfg.Port,
		"baseUrl": cfg.BaseURL,
	}).Info("Papershelf share server starting")

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serving")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}

	return nil
}

func startCmd(args []string) {
	fs := setupFlagSet("start", "papershelf-server start")

	port := fs.String("port", "", "Server port (env: PORT, default: 3002)")
	baseURL := fs.String("baseUrl", "", "Public URL share links are built on, without trailing slash (env: SHARE_BASE_URL, default: http://localhost:3002)")
	dbURL := fs.String("databaseUrl", "", "Postgres DSN holding share snapshots (env: PAPERSHELF_DATABASE_URL)")
	logLevel := fs.String("logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")
	disableRateLimit := fs.Bool("disableRateLimit", false, "Disable per-IP rate limiting (env: DISABLE_RATE_LIMIT, default: false)")

	fs.Parse(args)

	cfg, err := config.New(config.Params{
		Port:             *port,
		BaseURL:          *baseURL,
		DatabaseURL:      *dbURL,
		LogLevel:         *logLevel,
		DisableRateLimit: *disableRateLimit,
	})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		fs.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Start(ctx, cfg); err != nil {
		log.ErrorWrap(err, "server failed")
		os.Exit(1)
	}
}
