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

// Package structured implements the local structured store on SQLite. Paper
// records, chunked file payloads and thumbnails live in separate tables.
package structured

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	// register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/clock"
	"github.com/papershelf/papershelf/pkg/storage"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
)

// ChunkSize is the size of one stored file segment
const ChunkSize = 1024 * 1024

// Version is the export format version
const Version = 1

// Store is the structured store
type Store struct {
	db    *sql.DB
	clock clock.Clock
}

// Open opens the database at path and brings its schema up to date. Every
// failure wraps storage.ErrInit.
func Open(path string, c clock.Clock) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(storage.ErrInit, "opening %s: %s", path, err.Error())
	}

	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(storage.ErrInit, "connecting to %s: %s", path, err.Error())
	}

	if _, err := migrate.Exec(db, "sqlite3", migrations, migrate.Up); err != nil {
		db.Close()
		return nil, errors.Wrapf(storage.ErrInit, "migrating %s: %s", path, err.Error())
	}

	return &Store{db: db, clock: c}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning a transaction")
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing a transaction")
	}

	return nil
}

// GetAllPapers returns every stored paper ordered by id, with file payloads
// reassembled from their chunks
func (s *Store) GetAllPapers(ctx context.Context) ([]catalog.Paper, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, data FROM papers ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "querying papers")
	}
	defer rows.Close()

	papers := []catalog.Paper{}
	for rows.Next() {
		var id int
		var data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, errors.Wrap(err, "scanning a paper")
		}

		var p catalog.Paper
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, errors.Wrapf(storage.ErrCorrupt, "decoding paper %d: %s", id, err.Error())
		}
		p.ID = id

		papers = append(papers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating papers")
	}
	rows.Close()

	for i := range papers {
		payload, err := s.GetFile(ctx, papers[i].ID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		papers[i].PDFFile = payload
	}

	return papers, nil
}

// SavePaper inserts or replaces a paper. An embedded file payload is stored
// as chunks in the files table rather than inline.
func (s *Store) SavePaper(ctx context.Context, p catalog.Paper) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.savePaper(ctx, tx, p)
	})
}

// ReplaceAll clears every table and inserts papers in a single transaction.
// On failure the store keeps its prior contents.
func (s *Store) ReplaceAll(ctx context.Context, papers []catalog.Paper) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := clearTables(ctx, tx); err != nil {
			return err
		}

		for _, p := range papers {
			if err := s.savePaper(ctx, tx, p); err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *Store) savePaper(ctx context.Context, tx *sql.Tx, p catalog.Paper) error {
	payload := p.PDFFile
	record := p
	record.PDFFile = nil

	data, err := json.Marshal(record)
	if err != nil {
		return errors.Wrapf(err, "encoding paper %d", p.ID)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO papers (id, data, title, year, research_area) VALUES (?, ?, ?, ?, ?)",
		p.ID, string(data), p.Title, p.Year, p.ResearchArea); err != nil {
		return errors.Wrapf(err, "inserting paper %d", p.ID)
	}

	if payload != nil {
		if err := saveFile(ctx, tx, p.ID, *payload); err != nil {
			return err
		}
	}

	if p.Thumbnail != "" {
		if err := saveThumbnail(ctx, tx, p.ID, p.Thumbnail, s.clock.Now()); err != nil {
			return err
		}
	}

	return nil
}

func saveFile(ctx context.Context, tx *sql.Tx, paperID int, f catalog.Payload) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM files WHERE paper_id = ?", paperID); err != nil {
		return errors.Wrapf(err, "deleting old chunks of paper %d", paperID)
	}

	total := (len(f.Data) + ChunkSize - 1) / ChunkSize
	if total == 0 {
		total = 1
	}

	for i := 0; i < total; i++ {
		start := i * ChunkSize
		end := start + ChunkSize
		if end > len(f.Data) {
			end = len(f.Data)
		}
		chunk := f.Data[start:end]
		if chunk == nil {
			chunk = []byte{}
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO files (paper_id, chunk_index, data, total_chunks, file_name, file_size, mime_type) VALUES (?, ?, ?, ?, ?, ?, ?)",
			paperID, i, chunk, total, f.Name, len(f.Data), f.MimeType); err != nil {
			return errors.Wrapf(err, "inserting chunk %d of paper %d", i, paperID)
		}
	}

	return nil
}

func saveThumbnail(ctx context.Context, tx *sql.Tx, paperID int, thumbnail string, now time.Time) error {
	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO thumbnails (paper_id, thumbnail, created_at) VALUES (?, ?, ?)",
		paperID, thumbnail, now.UnixMilli()); err != nil {
		return errors.Wrapf(err, "saving thumbnail of paper %d", paperID)
	}

	return nil
}

// GetFile reassembles the file payload of a paper from its chunks
func (s *Store) GetFile(ctx context.Context, paperID int) (*catalog.Payload, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT chunk_index, data, total_chunks, file_name, file_size, mime_type FROM files WHERE paper_id = ? ORDER BY chunk_index",
		paperID)
	if err != nil {
		return nil, errors.Wrapf(err, "querying chunks of paper %d", paperID)
	}
	defer rows.Close()

	var payload *catalog.Payload
	var total, count int
	var size int64
	for rows.Next() {
		var index int
		var chunk []byte
		var name, mimeType string
		if err := rows.Scan(&index, &chunk, &total, &name, &size, &mimeType); err != nil {
			return nil, errors.Wrap(err, "scanning a chunk")
		}
		if index != count {
			return nil, errors.Wrapf(storage.ErrCorrupt, "paper %d is missing chunk %d", paperID, count)
		}

		if payload == nil {
			payload = &catalog.Payload{Name: name, MimeType: mimeType, Data: make([]byte, 0, size)}
		}
		payload.Data = append(payload.Data, chunk...)
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating chunks")
	}

	if payload == nil {
		return nil, errors.Wrapf(storage.ErrNotFound, "file of paper %d", paperID)
	}
	if count != total || int64(len(payload.Data)) != size {
		return nil, errors.Wrapf(storage.ErrCorrupt, "paper %d has %d of %d chunks", paperID, count, total)
	}

	return payload, nil
}

// DeletePaper removes a paper along with its file and thumbnail
func (s *Store) DeletePaper(ctx context.Context, id int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"papers", "files", "thumbnails"} {
			col := "paper_id"
			if table == "papers" {
				col = "id"
			}

			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE "+col+" = ?", id); err != nil {
				return errors.Wrapf(err, "deleting paper %d from %s", id, table)
			}
		}

		return nil
	})
}

// ClearAllData empties every table
func (s *Store) ClearAllData(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return clearTables(ctx, tx)
	})
}

func clearTables(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"papers", "files", "thumbnails"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.Wrapf(err, "clearing %s", table)
		}
	}

	return nil
}

// SaveThumbnail stores a thumbnail for a paper
func (s *Store) SaveThumbnail(ctx context.Context, paperID int, thumbnail string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return saveThumbnail(ctx, tx, paperID, thumbnail, s.clock.Now())
	})
}

// GetThumbnail returns the thumbnail of a paper
func (s *Store) GetThumbnail(ctx context.Context, paperID int) (string, error) {
	var thumbnail string
	err := s.db.QueryRowContext(ctx, "SELECT thumbnail FROM thumbnails WHERE paper_id = ?", paperID).Scan(&thumbnail)
	if err == sql.ErrNoRows {
		return "", errors.Wrapf(storage.ErrNotFound, "thumbnail of paper %d", paperID)
	}
	if err != nil {
		return "", errors.Wrapf(err, "querying thumbnail of paper %d", paperID)
	}

	return thumbnail, nil
}

// Stats summarises the store contents
type Stats struct {
	Papers     int   `json:"paperCount"`
	Files      int   `json:"fileCount"`
	Thumbnails int   `json:"thumbnailCount"`
	FileBytes  int64 `json:"totalFileSize"`
}

// Stats counts the stored records
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats

	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM papers").Scan(&st.Papers); err != nil {
		return Stats{}, errors.Wrap(err, "counting papers")
	}
	if err := s.db.QueryRowContext(ctx,
		"SELECT count(*), coalesce(sum(file_size), 0) FROM files WHERE chunk_index = 0").Scan(&st.Files, &st.FileBytes); err != nil {
		return Stats{}, errors.Wrap(err, "counting files")
	}
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM thumbnails").Scan(&st.Thumbnails); err != nil {
		return Stats{}, errors.Wrap(err, "counting thumbnails")
	}

	return st, nil
}

// Export is a full dump of the store
type Export struct {
	Version    int             `json:"version"`
	ExportDate time.Time       `json:"exportDate"`
	Statistics Stats           `json:"statistics"`
	Papers     []catalog.Paper `json:"papers"`
}

// Export dumps every paper without file payloads together with statistics
func (s *Store) Export(ctx context.Context) (Export, error) {
	papers, err := s.GetAllPapers(ctx)
	if err != nil {
		return Export{}, errors.Wrap(err, "reading papers")
	}
	st, err := s.Stats(ctx)
	if err != nil {
		return Export{}, errors.Wrap(err, "reading statistics")
	}

	return Export{
		Version:    Version,
		ExportDate: s.clock.Now().UTC(),
		Statistics: st,
		Papers:     catalog.StripPayload(papers),
	}, nil
}
