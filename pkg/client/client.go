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

// Package client provides the HTTP plumbing shared by the remote adapters:
// a rate limited client, error decoding and a GitHub API client.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/github"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// HTTPError represents an HTTP error response from a server
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(`response %d "%s"`, e.StatusCode, e.Message)
}

// IsNotFound returns true if the error is a 404 Not Found error
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

const (
	// rateLimitPerSecond is the max requests per second the client will make
	rateLimitPerSecond = 10
	// rateLimitBurst is the burst capacity for rate limiting
	rateLimitBurst = 20
)

// rateLimitedTransport wraps an http.RoundTripper with rate limiting
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}

// NewRateLimitedHTTPClient creates an HTTP client with rate limiting
func NewRateLimitedHTTPClient() *http.Client {
	interval := time.Second / time.Duration(rateLimitPerSecond)

	return &http.Client{
		Transport: &rateLimitedTransport{
			transport: http.DefaultTransport,
			limiter:   rate.NewLimiter(rate.Every(interval), rateLimitBurst),
		},
	}
}

// CheckRespErr returns an HTTPError if the response indicates an error
func CheckRespErr(res *http.Response) error {
	if res.StatusCode < 400 {
		return nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(err, "server responded with %d but client could not read the response body", res.StatusCode)
	}

	return &HTTPError{
		StatusCode: res.StatusCode,
		Message:    strings.TrimRight(string(body), "\n"),
	}
}

// Get fetches the body at endpoint. Non-2xx responses are returned as *HTTPError.
func Get(ctx context.Context, hc *http.Client, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "constructing http request")
	}

	res, err := hc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "making http request")
	}
	defer res.Body.Close()

	if err := CheckRespErr(res); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading the response body")
	}

	return body, nil
}

// NewGitHub returns a GitHub API client authenticated with token on top of
// hc. apiBaseURL overrides the public API endpoint when not empty.
func NewGitHub(hc *http.Client, token, apiBaseURL string) (*github.Client, error) {
	if hc == nil {
		hc = NewRateLimitedHTTPClient()
	}

	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, hc)
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}

	gh := github.NewClient(hc)
	if apiBaseURL != "" {
		if !strings.HasSuffix(apiBaseURL, "/") {
			apiBaseURL += "/"
		}

		u, err := url.Parse(apiBaseURL)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing GitHub API URL %s", apiBaseURL)
		}
		gh.BaseURL = u
	}

	return gh, nil
}

// GitHubStatus returns the HTTP status of an error from the GitHub client, or
// zero if the request did not get a response
func GitHubStatus(err error) int {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}

	return 0
}
