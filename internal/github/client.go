// internal/github/client.go
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"portfolio-projects/internal/model"
	"portfolio-projects/internal/paginate"
)

// Client is a wrapper around the go-github client.
type Client struct {
	gh       *github.Client
	logger   *slog.Logger
	pageSize int
}

// NewClient creates and configures a new Client instance.
// An empty token yields an unauthenticated client. An empty baseURL keeps the public API.
func NewClient(token, baseURL string, logger *slog.Logger) (*Client, error) {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		hc = oauth2.NewClient(context.Background(), ts)
	}

	gh := github.NewClient(hc)
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		gh.BaseURL = u
	}

	return &Client{
		gh:       gh,
		logger:   logger,
		pageSize: paginate.DefaultPageSize,
	}, nil
}

// FetchPage requests one page of a list endpoint and returns its raw items.
// Any non-2xx status is returned as an error by go-github.
func (c *Client) FetchPage(ctx context.Context, urlStr string) ([]json.RawMessage, error) {
	req, err := c.gh.NewRequest(http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}

	var page []json.RawMessage
	if _, err := c.gh.Do(ctx, req, &page); err != nil {
		return nil, err
	}
	return page, nil
}

// ListUserRepos returns every repository owned by user. Failures end the listing early.
func (c *Client) ListUserRepos(ctx context.Context, user string) []model.RepoRecord {
	base := fmt.Sprintf("users/%s/repos?type=owner&sort=updated", url.PathEscape(user))
	return c.listRepos(ctx, base)
}

// ListOrgRepos returns every public repository of org. Failures end the listing early.
func (c *Client) ListOrgRepos(ctx context.Context, org string) []model.RepoRecord {
	base := fmt.Sprintf("orgs/%s/repos?type=public", url.PathEscape(org))
	return c.listRepos(ctx, base)
}

// GetRepository fetches repository details and translates them to our internal model.
func (c *Client) GetRepository(ctx context.Context, owner, name string) (*model.RepoRecord, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	rec := toRepoRecord(repo)
	return &rec, nil
}

func (c *Client) listRepos(ctx context.Context, base string) []model.RepoRecord {
	raw := paginate.All(ctx, c, c.logger, base, c.pageSize)

	records := make([]model.RepoRecord, 0, len(raw))
	for _, item := range raw {
		var repo github.Repository
		if err := json.Unmarshal(item, &repo); err != nil {
			c.logger.Debug("Skipping malformed repository record", "listing", base, "error", err)
			continue
		}
		records = append(records, toRepoRecord(&repo))
	}
	c.logger.Info("Listed repositories", "listing", base, "count", len(records))
	return records
}

// toRepoRecord translates a github.Repository object to our internal model.RepoRecord.
func toRepoRecord(r *github.Repository) model.RepoRecord {
	return model.RepoRecord{
		FullName:    r.GetFullName(),
		Name:        r.GetName(),
		Owner:       r.GetOwner().GetLogin(),
		Description: r.Description,
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Language:    r.Language,
		URL:         r.GetHTMLURL(),
	}
}
