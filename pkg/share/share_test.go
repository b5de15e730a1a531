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

package share

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/clock"
	"github.com/papershelf/papershelf/pkg/storage"
	"github.com/papershelf/papershelf/pkg/storage/remote"
	"github.com/papershelf/papershelf/pkg/testutils"
	"github.com/pkg/errors"
)

const baseURL = "https://papers.example.com"

func setupRemote(t *testing.T) *remote.Store {
	t.Helper()

	s, err := remote.New(testutils.InitMemoryDB(t), clock.NewMock())
	if err != nil {
		t.Fatal(errors.Wrap(err, "initializing remote store"))
	}
	s.NewShareID = func() string { return "abc123" }
	t.Cleanup(func() { s.Close() })

	return s
}

var testPapers = []catalog.Paper{
	{ID: 4, Title: "A", Authors: []string{"X"}, Year: 2020, Journal: "CHI", Citations: 30, DOI: "10.1/a"},
	{ID: 9, Title: "B", Authors: []string{"Y"}, Year: 2021, Thumbnail: "data:image/png;base64,AA"},
}

func TestParseLink(t *testing.T) {
	testCases := []struct {
		link     string
		expected Link
	}{
		{"https://papers.example.com/share/abc123", Link{Kind: KindSnapshot, ShareID: "abc123"}},
		{"/share/abc123/", Link{Kind: KindSnapshot, ShareID: "abc123"}},
		{"https://papers.example.com/?share_id=abc123", Link{Kind: KindSnapshot, ShareID: "abc123"}},
		{"https://papers.example.com/share/path-id?share_id=query-id", Link{Kind: KindSnapshot, ShareID: "path-id"}},
		{"https://papers.example.com/?share_id=abc&share=eyJ9", Link{Kind: KindSnapshot, ShareID: "abc"}},
		{"https://papers.example.com/?share=eyJ9", Link{Kind: KindInline, Data: "eyJ9"}},
	}

	for _, tc := range testCases {
		t.Run(tc.link, func(t *testing.T) {
			got, err := ParseLink(tc.link)
			if err != nil {
				t.Fatal(err)
			}

			assert.Equal(t, got, tc.expected, "link mismatch")
		})
	}
}

func TestParseLinkInvalid(t *testing.T) {
	for _, link := range []string{"https://papers.example.com/", "/share/", "https://papers.example.com/?share_id=", "%zz"} {
		_, err := ParseLink(link)

		assert.Equal(t, errors.Cause(err), ErrInvalidLink, link)
	}
}

func TestInlineRoundTrip(t *testing.T) {
	data, err := EncodeInline(testPapers)
	if err != nil {
		t.Fatal(err)
	}

	got, err := DecodeInline(data)
	if err != nil {
		t.Fatal(err)
	}

	expected := []catalog.Paper{
		{ID: 1, Title: "A", Authors: []string{"X"}, Year: 2020, Journal: "CHI"},
		{ID: 2, Title: "B", Authors: []string{"Y"}, Year: 2021, Thumbnail: "data:image/png;base64,AA"},
	}
	assert.DeepEqual(t, got, expected, "only the shared fields are carried")
}

func TestDecodeInlineUnescapedPlus(t *testing.T) {
	// {"papers":[{"title":"a~~~",...}]} encodes to a plus sign
	data := "eyJwYXBlcnMiOlt7InRpdGxlIjoiYX5+fiIsImF1dGhvcnMiOlsiWiJdLCJ5ZWFyIjoyMDIwLCJqb3VybmFsIjoiIiwiYWJzdHJhY3QiOiIiLCJyZXNlYXJjaEFyZWEiOiIifV19"

	got, err := DecodeInline(strings.ReplaceAll(data, "+", " "))
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, got[0].Title, "a~~~", "title mismatch")
}

func TestDecodeInlineInvalid(t *testing.T) {
	for _, data := range []string{"!!!", "bm90IGpzb24="} {
		_, err := DecodeInline(data)

		assert.Equal(t, errors.Cause(err), ErrInvalidLink, data)
	}
}

func TestCreateSnapshot(t *testing.T) {
	ctx := context.Background()
	s := New(Config{Snapshots: setupRemote(t), BaseURL: baseURL, UserID: "user_1"})

	created, err := s.Create(ctx, testPapers)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, created, Created{URL: baseURL + "/share/abc123", ShareID: "abc123"}, "created mismatch")

	shared, err := s.ResolveURL(ctx, created.URL)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, shared.AccessCount, 1, "access count mismatch")
	assert.Equal(t, len(shared.Papers), 2, "papers mismatch")
	assert.Equal(t, shared.Papers[0].DOI, "10.1/a", "snapshots keep every field")

	shared, err = s.ResolveURL(ctx, baseURL+"/?share_id=abc123")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, shared.AccessCount, 2, "access count should increase")
}

func TestCreateInlineWithoutRemote(t *testing.T) {
	ctx := context.Background()
	s := New(Config{BaseURL: baseURL + "/"})

	created, err := s.Create(ctx, testPapers)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, created.Inline, true, "should be inline")
	u, err := url.Parse(created.URL)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, u.Host, "papers.example.com", "host mismatch")
	assert.Equal(t, u.Path, "/", "path mismatch")

	shared, err := s.ResolveURL(ctx, created.URL)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, shared.Inline, true, "should resolve inline")
	assert.Equal(t, shared.Papers[1].Title, "B", "title mismatch")
}

type failingSnapshots struct{}

func (failingSnapshots) CreateShareSnapshot(context.Context, []catalog.Paper, string, string) (string, string, error) {
	return "", "", errors.Wrap(storage.ErrTransport, "connection reset")
}

func (failingSnapshots) GetSharedPapers(context.Context, string) (remote.Snapshot, error) {
	return remote.Snapshot{}, errors.Wrap(storage.ErrTransport, "connection reset")
}

func TestCreateFallsBackToInline(t *testing.T) {
	s := New(Config{Snapshots: failingSnapshots{}, BaseURL: baseURL})

	created, err := s.Create(context.Background(), testPapers)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, created.Inline, true, "should fall back to inline")
}

func TestCreateEmpty(t *testing.T) {
	s := New(Config{BaseURL: baseURL})

	_, err := s.Create(context.Background(), nil)

	assert.Equal(t, err, ErrEmpty, "error mismatch")
}

func TestResolveErrors(t *testing.T) {
	ctx := context.Background()

	_, err := New(Config{}).ResolveURL(ctx, baseURL+"/share/abc123")
	assert.Equal(t, err, ErrUnavailable, "snapshot without remote")

	_, err = New(Config{Snapshots: setupRemote(t)}).ResolveURL(ctx, baseURL+"/share/missing")
	assert.Equal(t, errors.Is(err, storage.ErrNotFound), true, "unknown share")
}
