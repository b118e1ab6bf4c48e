package infra

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/kindred-labs/grimoire/internal/ghclient"
)

const httpTimeout = 30 * time.Second

// HTTPClient fetches remote content over plain HTTP, falling back to the
// authenticated GitHub contents API for raw.githubusercontent.com URLs
// when the direct request fails (typically rate limiting on CI hosts).
type HTTPClient struct {
	http *http.Client
	gh   *ghclient.Client
}

// NewHTTPClient returns the production HttpClient.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		http: &http.Client{Timeout: httpTimeout},
		gh:   ghclient.New(),
	}
}

func (c *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	data, err := c.get(ctx, url)
	if err == nil {
		return data, nil
	}

	if strings.Contains(url, "raw.githubusercontent.com") {
		if content, ghErr := c.getViaGitHub(ctx, url); ghErr == nil {
			return content, nil
		}
	}

	return nil, err
}

func (c *HTTPClient) Download(ctx context.Context, url, dest string) error {
	data, err := c.Get(ctx, url)
	if err != nil {
		return err
	}

	fs := NewOSFileSystem()
	if err := fs.CreateDirAll(filepath.Dir(dest)); err != nil {
		return err
	}
	return fs.Write(dest, data)
}

func (c *HTTPClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{Path: url}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &NetworkError{URL: url, Err: &statusError{code: resp.StatusCode}}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	return body, nil
}

func (c *HTTPClient) getViaGitHub(ctx context.Context, rawURL string) ([]byte, error) {
	owner, repo, ref, path, err := ghclient.ParseRawURL(rawURL)
	if err != nil {
		return nil, err
	}
	return c.gh.GetContents(ctx, owner, repo, path, ref)
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.code, http.StatusText(e.code))
}
