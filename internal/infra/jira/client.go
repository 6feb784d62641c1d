// Package jira provides the Jira Cloud REST client used to search issues.
package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/runoshun/agile-notes/internal/domain"
)

// Ensure Client implements domain.IssueTracker.
var _ domain.IssueTracker = (*Client)(nil)

const (
	searchPath = "/rest/api/3/search"

	// maxErrorBody bounds the response body quoted in error messages.
	maxErrorBody = 512

	// Page requests are paced to stay below the Jira Cloud rate limits.
	defaultPageRate  = rate.Limit(5)
	defaultPageBurst = 1
)

// Client searches issues through the Jira REST API with basic auth.
// Fields are ordered to minimize memory padding.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	siteURL     string
	authHeader  string
	sprintField string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter replaces the page request limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates a client for the site described by cfg.
func NewClient(cfg domain.JiraConfig, opts ...Option) *Client {
	sprintField := cfg.SprintField
	if sprintField == "" {
		sprintField = domain.DefaultSprintField
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: cfg.RequestTimeout},
		limiter:     rate.NewLimiter(defaultPageRate, defaultPageBurst),
		siteURL:     domain.SiteURL(cfg.BaseURL),
		authHeader:  BasicAuth(cfg.Email, cfg.APIToken),
		sprintField: sprintField,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BasicAuth returns the Authorization header value for email and token.
func BasicAuth(email, token string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+token))
}

// Search returns up to q.MaxResults issues matching q.JQL.
// Further pages are requested only while the server reports more matches
// than it has returned so far.
func (c *Client) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Issue, error) {
	limit := q.MaxResults
	if limit <= 0 {
		limit = domain.DefaultMaxResults
	}

	var issues []domain.Issue
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for jira rate limit: %w: %w", domain.ErrRemote, err)
		}

		page, err := c.searchPage(ctx, q.JQL, len(issues), limit-len(issues))
		if err != nil {
			return nil, err
		}
		issues = append(issues, page.issues...)

		if len(page.issues) == 0 || len(issues) >= page.total || len(issues) >= limit {
			break
		}
	}
	if len(issues) > limit {
		issues = issues[:limit]
	}
	return issues, nil
}

type searchPage struct {
	issues []domain.Issue
	total  int
}

// searchResponse is the body of a search call.
type searchResponse struct {
	Issues     []json.RawMessage `json:"issues"`
	StartAt    int               `json:"startAt"`
	MaxResults int               `json:"maxResults"`
	Total      int               `json:"total"`
}

func (c *Client) searchPage(ctx context.Context, jql string, startAt, maxResults int) (*searchPage, error) {
	params := url.Values{}
	params.Set("jql", jql)
	params.Set("maxResults", strconv.Itoa(maxResults))
	if startAt > 0 {
		params.Set("startAt", strconv.Itoa(startAt))
	}
	reqURL := c.siteURL + searchPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build jira search request: %w: %w", domain.ErrRemote, err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call jira search: %w: %w", domain.ErrRemote, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("jira search returned %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(raw)), domain.ErrRemote)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode jira search response: %w: %v", domain.ErrMalformedPayload, err)
	}

	page := &searchPage{
		issues: make([]domain.Issue, 0, len(body.Issues)),
		total:  body.Total,
	}
	for _, raw := range body.Issues {
		issue, err := c.decodeIssue(raw)
		if err != nil {
			return nil, err
		}
		page.issues = append(page.issues, issue)
	}
	return page, nil
}

// decodeIssue decodes one issue including the configured sprint field.
func (c *Client) decodeIssue(raw json.RawMessage) (domain.Issue, error) {
	var issue domain.Issue
	if err := json.Unmarshal(raw, &issue); err != nil {
		return domain.Issue{}, fmt.Errorf("decode jira issue: %w: %v", domain.ErrMalformedPayload, err)
	}

	var extra struct {
		Fields map[string]json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(raw, &extra); err == nil {
		issue.Fields.Sprints = decodeSprints(extra.Fields[c.sprintField])
	}
	return issue, nil
}

// decodeSprints reads a sprint custom field. Jira Cloud returns objects with
// a name; older servers return strings such as
// "com.atlassian.greenhopper.service.sprint.Sprint@1f[id=1,name=Sprint 1,...]".
// Entries of any other shape are skipped.
func decodeSprints(raw json.RawMessage) []domain.Sprint {
	if len(raw) == 0 {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	sprints := make([]domain.Sprint, 0, len(items))
	for _, item := range items {
		var obj domain.Sprint
		if err := json.Unmarshal(item, &obj); err == nil && obj.Name != "" {
			sprints = append(sprints, obj)
			continue
		}
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if name, ok := legacySprintName(s); ok {
				sprints = append(sprints, domain.Sprint{Name: name})
			}
		}
	}
	return sprints
}

func legacySprintName(s string) (string, bool) {
	_, rest, ok := strings.Cut(s, "name=")
	if !ok {
		return "", false
	}
	name, _, _ := strings.Cut(rest, ",")
	name = strings.TrimSuffix(name, "]")
	return name, name != ""
}
