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

// Package flat implements the flat key-value store: a single JSON file of
// string values with a byte quota, the local tier of last resort.
package flat

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/storage"
	"github.com/pkg/errors"
)

// Well-known keys
const (
	KeyPapers  = "literaturePapers"
	KeyDeleted = "papers_explicitly_deleted"
	KeyUserID  = "user_id"
	KeyToken   = "github_token"
)

// DefaultQuota is the capacity of the store in bytes
const DefaultQuota = 5 * 1024 * 1024

// Store is a flat key-value store persisted as one file
type Store struct {
	path  string
	quota int
	mu    sync.Mutex
}

// Open returns a store backed by the file at path. The file is created on the
// first write. A quota of zero or less means DefaultQuota.
func Open(path string, quota int) *Store {
	if quota <= 0 {
		quota = DefaultQuota
	}

	return &Store{path: path, quota: quota}
}

// Path returns the file backing the store
func (s *Store) Path() string {
	return s.path
}

func (s *Store) read() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", s.path)
	}

	m := map[string]string{}
	if len(b) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrapf(storage.ErrCorrupt, "decoding %s: %s", s.path, err.Error())
	}

	return m, nil
}

// size counts the stored bytes the way browsers account local storage
func size(m map[string]string) int {
	n := 0
	for k, v := range m {
		n += len(k) + len(v)
	}

	return n
}

func (s *Store) write(m map[string]string) error {
	if n := size(m); n > s.quota {
		return errors.Wrapf(storage.ErrQuota, "%d bytes exceeds the %d byte quota", n, s.quota)
	}

	b, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "encoding flat store")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".flat-*")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temporary file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temporary file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrapf(err, "replacing %s", s.path)
	}

	return nil
}

// Value returns the value under key and whether it is present
func (s *Store) Value(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return "", false, err
	}

	v, ok := m[key]
	return v, ok, nil
}

// SetValue stores a value under key
func (s *Store) SetValue(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		// a corrupt file is replaced rather than blocking every write
		if !errors.Is(err, storage.ErrCorrupt) {
			return err
		}
		m = map[string]string{}
	}

	m[key] = value
	return s.write(m)
}

// Delete removes the key entirely
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		if !errors.Is(err, storage.ErrCorrupt) {
			return err
		}
		m = map[string]string{}
	}
	if _, ok := m[key]; !ok {
		return nil
	}

	delete(m, key)
	return s.write(m)
}

// Get returns the stored collection. A missing key yields an empty collection.
func (s *Store) Get() ([]catalog.Paper, error) {
	v, ok, err := s.Value(KeyPapers)
	if err != nil {
		return nil, err
	}
	if !ok || v == "" {
		return []catalog.Paper{}, nil
	}

	papers, err := catalog.DecodeCollection([]byte(v))
	if err != nil {
		return nil, errors.Wrapf(storage.ErrCorrupt, "decoding %s: %s", KeyPapers, err.Error())
	}

	return papers, nil
}

// Set serializes the whole collection under one key, without embedded file
// payloads
func (s *Store) Set(papers []catalog.Paper) error {
	b, err := json.Marshal(catalog.StripPayload(papers))
	if err != nil {
		return errors.Wrap(err, "encoding papers")
	}

	return s.SetValue(KeyPapers, string(b))
}

// Remove deletes the collection key
func (s *Store) Remove() error {
	return s.Delete(KeyPapers)
}

// Marker reports whether the deletion marker is set
func (s *Store) Marker() (bool, error) {
	v, ok, err := s.Value(KeyDeleted)
	if err != nil {
		return false, err
	}

	return ok && v == "true", nil
}

// SetMarker sets the deletion marker
func (s *Store) SetMarker() error {
	return s.SetValue(KeyDeleted, "true")
}

// ClearMarker removes the deletion marker
func (s *Store) ClearMarker() error {
	return s.Delete(KeyDeleted)
}

// UserID returns the anonymous user identifier, generating and storing one
// with generate on first use
func (s *Store) UserID(generate func() string) (string, error) {
	v, ok, err := s.Value(KeyUserID)
	if err != nil && !errors.Is(err, storage.ErrCorrupt) {
		return "", err
	}
	if ok && v != "" {
		return v, nil
	}

	id := generate()
	if err := s.SetValue(KeyUserID, id); err != nil {
		return "", errors.Wrap(err, "storing user id")
	}

	return id, nil
}
