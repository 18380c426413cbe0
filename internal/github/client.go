// Package github is a minimal client for the GitHub REST API v3, covering
// just the endpoints the ingestion pipeline requires: the authenticated user,
// the starred-repository listing, and raw README content.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/airmomo/starsearch/internal/repo"
)

const (
	defaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"
	perPage        = 100

	maxRetries     = 3
	backoffFactor  = 0.3
	requestTimeout = 30 * time.Second
)

// retryStatuses is the fixed set of transient statuses the session-level
// retry covers, matching GitHub's documented error responses for these
// endpoints.
var retryStatuses = map[int]string{
	http.StatusNotModified:         "Not modified",
	http.StatusUnauthorized:        "Requires authentication",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Resource not found",
	http.StatusUnprocessableEntity: "Validation failed, or the endpoint has been spammed.",
}

// Client talks to the GitHub REST API with bearer authentication and a
// bounded retry-with-backoff policy for transient failures.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	backoff    time.Duration // base backoff unit, scaled exponentially
	logger     *slog.Logger
}

// NewClient returns a ready-to-use GitHub API client. An empty token is
// accepted but subject to very low rate limits.
func NewClient(token string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: requestTimeout},
		backoff:    time.Duration(backoffFactor * float64(time.Second)),
		logger:     slog.Default(),
	}
}

// NewClientWithBaseURL points the client at a custom API root (for testing).
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *Client) newRequest(ctx context.Context, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do executes req, retrying up to maxRetries times on the fixed transient
// status set with exponential backoff (factor 0.3). The final response body
// is returned on success; the last error otherwise.
func (c *Client) do(req *http.Request) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			sleep := time.Duration(float64(c.backoff) * math.Pow(2, float64(attempt-1)))
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(sleep):
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if reason, retry := retryStatuses[resp.StatusCode]; retry {
			lastErr = fmt.Errorf("github: %s %s: %s (status %d)", req.Method, req.URL.Path, reason, resp.StatusCode)
			continue
		}
		if readErr != nil {
			lastErr = fmt.Errorf("github: reading response: %w", readErr)
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("github: %s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
		}
		return body, nil
	}
	return nil, lastErr
}

// Username returns the login of the authenticated user.
func (c *Client) Username(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, "/user")
	if err != nil {
		return "", err
	}
	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var user struct {
		Login string `json:"login"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("github: decoding user: %w", err)
	}
	return user.Login, nil
}

// starredItem mirrors the fields of a starred-listing entry we care about.
type starredItem struct {
	Name  string `json:"name"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
	Description     *string `json:"description"`
	StargazersCount int     `json:"stargazers_count"`
	HTMLURL         string  `json:"html_url"`
	Disabled        bool    `json:"disabled"`
}

// ListStarred returns every repository the authenticated user has starred,
// following pagination until an empty page is returned. Repositories flagged
// as disabled by GitHub are skipped with a diagnostic. README content is not
// fetched here; it is deferred to first access.
func (c *Client) ListStarred(ctx context.Context) ([]repo.Repository, error) {
	var items []starredItem
	for page := 1; ; page++ {
		req, err := c.newRequest(ctx, "/user/starred?per_page="+strconv.Itoa(perPage)+"&page="+strconv.Itoa(page))
		if err != nil {
			return nil, err
		}
		body, err := c.do(req)
		if err != nil {
			return nil, err
		}

		var pageItems []starredItem
		if err := json.Unmarshal(body, &pageItems); err != nil {
			return nil, fmt.Errorf("github: decoding starred page %d: %w", page, err)
		}
		if len(pageItems) == 0 {
			break
		}
		items = append(items, pageItems...)
	}

	repos := make([]repo.Repository, 0, len(items))
	for _, item := range items {
		if item.Disabled {
			c.logger.Warn("repository has been officially disabled by its owner or GitHub",
				"repository", item.Owner.Login+"/"+item.Name)
			continue
		}
		description := ""
		if item.Description != nil {
			description = *item.Description
		}
		repos = append(repos, repo.Repository{
			Owner:       item.Owner.Login,
			Name:        item.Name,
			Description: description,
			Stars:       item.StargazersCount,
			URL:         item.HTMLURL,
		})
	}
	return repos, nil
}

// Readme returns the raw README text of owner/name.
func (c *Client) Readme(ctx context.Context, owner, name string) (string, error) {
	req, err := c.newRequest(ctx, "/repos/"+owner+"/"+name+"/readme")
	if err != nil {
		return "", err
	}
	// Raw media type returns the file contents directly.
	req.Header.Set("Accept", "application/vnd.github.raw+json")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
