package tmdb

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"

	// ImageBaseURL is the CDN root for poster/backdrop paths returned by the API.
	ImageBaseURL = "https://image.tmdb.org/t/p"
)

// Client is a pass-through client for the TMDb API. The api_key is appended
// server-side and never appears in anything returned to callers.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

func New(apiKey, base string) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Result is the upstream response relayed verbatim.
type Result struct {
	Status int
	Body   []byte
}

// Get forwards path and the caller's query parameters to TMDb with the
// server credential appended. Upstream 4xx/5xx responses are returned as a
// Result, not an error; only transport failures return an error.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Result, error) {
	u, err := url.Parse(c.BaseURL + "/" + strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("api_key", c.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	return &Result{Status: res.StatusCode, Body: body}, nil
}

// ImageURL builds a CDN URL for a provider-relative poster/backdrop path.
// Size is a TMDb size token such as "w200", "w500" or "original".
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "original"
	}
	return ImageBaseURL + "/" + size + "/" + strings.TrimPrefix(path, "/")
}
