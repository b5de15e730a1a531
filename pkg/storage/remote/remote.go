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

// Package remote implements the remote database tier: per-user paper rows and
// share snapshots in PostgreSQL, accessed through gorm.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/clock"
	"github.com/papershelf/papershelf/pkg/storage"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// insertBatchSize bounds the rows sent in one insert statement
const insertBatchSize = 100

// Store is the remote database tier
type Store struct {
	db    *gorm.DB
	clock clock.Clock
	// NewShareID generates share snapshot identifiers
	NewShareID func() string
}

// Snapshot is a shared copy of a collection
type Snapshot struct {
	ID          string
	Papers      []catalog.Paper
	CreatedAt   time.Time
	AccessCount int
}

// NewShareID returns a random opaque share identifier
func NewShareID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// Open connects to the PostgreSQL database at dsn through the lib/pq driver.
// Failures wrap storage.ErrInit.
func Open(dsn string, c clock.Clock) (*Store, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        dsn,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(storage.ErrInit, "connecting to the remote database: %s", err.Error())
	}

	return New(db, c)
}

// New wraps an open gorm connection and makes sure the tables exist
func New(db *gorm.DB, c clock.Clock) (*Store, error) {
	if err := db.AutoMigrate(&PaperRow{}, &SharedCollection{}); err != nil {
		return nil, errors.Wrapf(storage.ErrInit, "migrating the remote database: %s", err.Error())
	}

	return &Store{db: db, clock: c, NewShareID: NewShareID}, nil
}

// Close closes the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "getting the connection pool")
	}

	return sqlDB.Close()
}

// classify wraps an error from the database with the storage taxonomy. Data
// exceptions and constraint violations reported by PostgreSQL are corrupt
// data, everything else is a transport failure.
func classify(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "22", "23":
			return errors.Wrapf(storage.ErrCorrupt, "%s: %s", msg, pqErr.Message)
		}
	}

	return errors.Wrapf(storage.ErrTransport, "%s: %s", msg, err.Error())
}

// Ping runs a lightweight count query to probe connectivity
func (s *Store) Ping(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&PaperRow{}).Count(&count).Error; err != nil {
		return classify(err, "probing the remote database")
	}

	return nil
}

// LoadPapers returns the papers of a user, most recently saved first
func (s *Store) LoadPapers(ctx context.Context, userID string) ([]catalog.Paper, error) {
	var rows []PaperRow
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, classify(err, fmt.Sprintf("loading papers of %s", userID))
	}

	papers := make([]catalog.Paper, 0, len(rows))
	for _, r := range rows {
		p, err := r.Paper()
		if err != nil {
			return nil, errors.Wrap(storage.ErrCorrupt, err.Error())
		}
		papers = append(papers, p)
	}

	return papers, nil
}

// SavePapers replaces every paper of the user with the given collection
func (s *Store) SavePapers(ctx context.Context, papers []catalog.Paper, userID string) error {
	now := s.clock.Now().UTC()

	rows := make([]PaperRow, 0, len(papers))
	for _, p := range papers {
		r, err := newPaperRow(p, userID, now)
		if err != nil {
			return errors.Wrapf(err, "converting paper %d", p.ID)
		}
		rows = append(rows, r)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&PaperRow{}).Error; err != nil {
			return errors.Wrap(err, "deleting existing papers")
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return errors.Wrap(err, "inserting papers")
		}

		return nil
	})
	if err != nil {
		return classify(err, fmt.Sprintf("saving papers of %s", userID))
	}

	return nil
}

// DeleteAllPapers deletes every paper of the user
func (s *Store) DeleteAllPapers(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&PaperRow{}).Error; err != nil {
		return classify(err, fmt.Sprintf("deleting papers of %s", userID))
	}

	return nil
}

// DeleteShares deletes every share snapshot created by the user
func (s *Store) DeleteShares(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&SharedCollection{}).Error; err != nil {
		return classify(err, fmt.Sprintf("deleting share snapshots of %s", userID))
	}

	return nil
}

// ShareURL builds the path based link for a share snapshot
func ShareURL(baseURL, shareID string) string {
	return fmt.Sprintf("%s/share/%s", strings.TrimRight(baseURL, "/"), shareID)
}

// CreateShareSnapshot stores a copy of the collection and returns its
// identifier together with the shareable URL under baseURL
func (s *Store) CreateShareSnapshot(ctx context.Context, papers []catalog.Paper, userID, baseURL string) (string, string, error) {
	b, err := json.Marshal(catalog.StripPayload(papers))
	if err != nil {
		return "", "", errors.Wrap(err, "encoding snapshot")
	}

	snapshot := SharedCollection{
		ID:        s.NewShareID(),
		UserID:    userID,
		Papers:    string(b),
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&snapshot).Error; err != nil {
		return "", "", classify(err, "creating share snapshot")
	}

	return snapshot.ID, ShareURL(baseURL, snapshot.ID), nil
}

// GetSharedPapers returns a snapshot and increments its access counter. The
// increment is a read followed by a write and concurrent readers may lose
// counts.
func (s *Store) GetSharedPapers(ctx context.Context, shareID string) (Snapshot, error) {
	var row SharedCollection
	err := s.db.WithContext(ctx).Where("id = ?", shareID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Snapshot{}, errors.Wrapf(storage.ErrNotFound, "share %s", shareID)
	}
	if err != nil {
		return Snapshot{}, classify(err, fmt.Sprintf("loading share %s", shareID))
	}

	papers, err := catalog.DecodeCollection([]byte(row.Papers))
	if err != nil {
		return Snapshot{}, errors.Wrapf(storage.ErrCorrupt, "decoding share %s: %s", shareID, err.Error())
	}

	count := row.AccessCount + 1
	if err := s.db.WithContext(ctx).Model(&SharedCollection{}).
		Where("id = ?", shareID).
		Update("access_count", count).Error; err != nil {
		return Snapshot{}, classify(err, fmt.Sprintf("counting access to share %s", shareID))
	}

	return Snapshot{
		ID:          row.ID,
		Papers:      papers,
		CreatedAt:   row.CreatedAt,
		AccessCount: count,
	}, nil
}
