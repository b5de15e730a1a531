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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/papershelf/papershelf/pkg/assert"
	"github.com/papershelf/papershelf/pkg/catalog"
	"github.com/papershelf/papershelf/pkg/storage"
	"github.com/pkg/errors"
)

// fakeGitHub emulates the parts of the GitHub contents API and the CDN that
// the mirror uses
type fakeGitHub struct {
	mu       sync.Mutex
	content  []byte
	sha      string
	puts     []map[string]interface{}
	authz    []string
	cdnFails bool
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/api/repos/alice/papers":
		f.authz = append(f.authz, r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":1,"name":"papers"}`))
	case r.URL.Path == "/api/repos/alice/papers/contents/"+DocumentPath && r.Method == http.MethodGet:
		if f.sha == "" {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"type": "file", "sha": f.sha, "path": DocumentPath})
	case r.URL.Path == "/api/repos/alice/papers/contents/"+DocumentPath && r.Method == http.MethodPut:
		var body struct {
			Message string  `json:"message"`
			Content []byte  `json:"content"`
			SHA     *string `json:"sha"`
			Branch  string  `json:"branch"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if f.sha != "" && (body.SHA == nil || *body.SHA != f.sha) {
			http.Error(w, `{"message":"sha mismatch"}`, http.StatusConflict)
			return
		}

		put := map[string]interface{}{"message": body.Message, "branch": body.Branch, "hasSHA": body.SHA != nil}
		f.puts = append(f.puts, put)
		f.content = body.Content
		f.sha = f.sha + "x"

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"content": map[string]interface{}{"sha": f.sha}})
	case r.URL.Path == "/cdn/alice/papers@main/"+DocumentPath:
		if f.cdnFails {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		if f.content == nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Write(f.content)
	default:
		http.Error(w, "unexpected "+r.Method+" "+r.URL.Path, http.StatusTeapot)
	}
}

func (f *fakeGitHub) state() ([]map[string]interface{}, []byte, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.puts, f.content, f.authz
}

func setupMirror(t *testing.T, token string) (*Mirror, *fakeGitHub) {
	t.Helper()

	fake := &fakeGitHub{}
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	m, err := New(Config{
		Owner:      "alice",
		Repo:       "papers",
		Token:      token,
		CDNBaseURL: ts.URL + "/cdn",
		APIBaseURL: ts.URL + "/api/",
	}, ts.Client())
	if err != nil {
		t.Fatal(err)
	}

	return m, fake
}

func TestDownloadMissing(t *testing.T) {
	m, _ := setupMirror(t, "")

	papers, err := m.DownloadSnapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, papers, []catalog.Paper{}, "missing document is empty")
}

func TestDownloadFailure(t *testing.T) {
	m, fake := setupMirror(t, "")
	fake.mu.Lock()
	fake.cdnFails = true
	fake.mu.Unlock()

	_, err := m.DownloadSnapshot(context.Background())
	assert.Equal(t, errors.Is(err, storage.ErrTransport), true, "should be a transport error")
}

func TestUploadWithoutToken(t *testing.T) {
	m, _ := setupMirror(t, "")

	err := m.UploadSnapshot(context.Background(), []catalog.Paper{{ID: 1, Title: "A"}})
	assert.Equal(t, errors.Cause(err), ErrNoToken, "error mismatch")
}

func TestUploadThenDownload(t *testing.T) {
	m, fake := setupMirror(t, "secret")
	ctx := context.Background()
	papers := []catalog.Paper{
		{ID: 1, Title: "A", PDFURL: "data:application/pdf;base64,AAAA", Thumbnail: "data:image/png;base64,BB"},
		{ID: 2, Title: "B", PDFURL: "https://example.com/b.pdf", PDFFile: &catalog.Payload{Name: "b.pdf", Data: []byte("b")}},
	}

	if err := m.UploadSnapshot(ctx, papers); err != nil {
		t.Fatal(err)
	}
	// the second upload must carry the revision of the first
	if err := m.UploadSnapshot(ctx, papers[:1]); err != nil {
		t.Fatal(err)
	}

	puts, content, _ := fake.state()
	assert.Equalf(t, len(puts), 2, "put count mismatch")
	assert.Equal(t, puts[0]["hasSHA"], false, "first write creates the file")
	assert.Equal(t, puts[1]["hasSHA"], true, "second write updates the file")
	assert.Equal(t, puts[1]["message"], "Update papers database: 1 papers", "message mismatch")
	assert.Equal(t, puts[1]["branch"], "main", "branch mismatch")
	assert.Equal(t, strings.Contains(string(content), "\n  "), true, "document should be indented")

	got, err := m.DownloadSnapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, got, []catalog.Paper{
		{ID: 1, Title: "A", PDFURL: catalog.MirrorPlaceholder, Thumbnail: "data:image/png;base64,BB"},
	}, "papers mismatch")
}

func TestValidateToken(t *testing.T) {
	m, fake := setupMirror(t, "secret")

	if err := m.ValidateToken(context.Background()); err != nil {
		t.Fatal(err)
	}
	_, _, authz := fake.state()
	assert.DeepEqual(t, authz, []string{"Bearer secret"}, "token should be sent")

	noToken, _ := setupMirror(t, "")
	assert.Equal(t, errors.Cause(noToken.ValidateToken(context.Background())), ErrNoToken, "error mismatch")
}

func TestEnabled(t *testing.T) {
	m, err := New(Config{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, m.Enabled(), false, "unconfigured mirror is disabled")

	papers, err := m.DownloadSnapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(papers), 0, "disabled mirror is empty")
}

func TestCDNURL(t *testing.T) {
	m, err := New(Config{Owner: "alice", Repo: "papers"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, m.CDNURL("pdfs/1_a.pdf"), "https://cdn.jsdelivr.net/gh/alice/papers@main/pdfs/1_a.pdf", "url mismatch")
}
