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
	"os"

	"github.com/papershelf/papershelf/pkg/clock"
	"github.com/papershelf/papershelf/pkg/server/config"
	"github.com/papershelf/papershelf/pkg/storage/remote"
	"github.com/pkg/errors"
)

type shareStore interface {
	GetSharedPapers(ctx context.Context, shareID string) (remote.Snapshot, error)
	DeleteShares(ctx context.Context, userID string) error
}

func sharesCmd(args []string) {
	if len(args) < 1 {
		fmt.Println(`Usage:
  papershelf-server shares [command]

Available commands:
  show: Print a share snapshot summary
  purge: Delete every share snapshot of a user`)
		return
	}

	switch args[0] {
	case "show":
		sharesShowCmd(args[1:])
	case "purge":
		sharesPurgeCmd(args[1:])
	default:
		fmt.Printf("Unknown subcommand: %s\n\n", args[0])
		os.Exit(1)
	}
}

func openStore(dbURL string) *remote.Store {
	cfg, err := config.New(config.Params{DatabaseURL: dbURL})
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Println("Error: databaseUrl is required")
		os.Exit(1)
	}

	store, err := remote.Open(cfg.DatabaseURL, clock.New())
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}

	return store
}

func showShare(ctx context.Context, store shareStore, shareID string) (string, error) {
	snap, err := store.GetSharedPapers(ctx, shareID)
	if err != nil {
		return "", errors.Wrapf(err, "loading share %s", shareID)
	}

	return fmt.Sprintf("share %s: %d papers, created %s, viewed %d times",
		snap.ID, len(snap.Papers), snap.CreatedAt.Format("2006-01-02 15:04"), snap.AccessCount), nil
}

func sharesShowCmd(args []string) {
	fs := setupFlagSet("show", "papershelf-server shares show")
	shareID := fs.String("id", "", "Share ID (required)")
	dbURL := fs.String("databaseUrl", "", "Postgres DSN (env: PAPERSHELF_DATABASE_URL)")
	fs.Parse(args)

	requireString(fs, *shareID, "Share ID")

	store := openStore(*dbURL)
	defer store.Close()

	summary, err := showShare(context.Background(), store, *shareID)
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}

	fmt.Println(summary)
}

func sharesPurgeCmd(args []string) {
	fs := setupFlagSet("purge", "papershelf-server shares purge")
	userID := fs.String("user", "", "User ID whose snapshots are deleted (required)")
	dbURL := fs.String("databaseUrl", "", "Postgres DSN (env: PAPERSHELF_DATABASE_URL)")
	fs.Parse(args)

	requireString(fs, *userID, "User ID")

	store := openStore(*dbURL)
	defer store.Close()

	if err := store.DeleteShares(context.Background(), *userID); err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("Deleted share snapshots of %s\n", *userID)
}
