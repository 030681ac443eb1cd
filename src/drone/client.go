// Package drone provides a typed client for the Drone CI HTTP API.
package drone

import (
	"context"
	"fmt"

	"github.com/tomzx/drone-stats/src/fetch"
)

// Client is a Drone API client backed by a caching fetcher. Repeated calls
// for the same resource are served from disk after the first run.
type Client struct {
	fetcher *fetch.Fetcher
}

// NewClient creates a new Drone API client.
func NewClient(fetcher *fetch.Fetcher) *Client {
	return &Client{fetcher: fetcher}
}

// Builds fetches the builds list for a repository, most recent first.
func (c *Client) Builds(ctx context.Context, org, repo string) ([]BuildSummary, error) {
	path := fmt.Sprintf("repos/%s/%s/builds", org, repo)

	var builds []BuildSummary
	if err := c.fetcher.GetJSON(ctx, path, &builds); err != nil {
		return nil, err
	}
	return builds, nil
}

// Build fetches a single build with its process tree.
func (c *Client) Build(ctx context.Context, org, repo string, number int) (*Build, error) {
	path := fmt.Sprintf("repos/%s/%s/builds/%d", org, repo, number)

	var build Build
	if err := c.fetcher.GetJSON(ctx, path, &build); err != nil {
		return nil, err
	}
	return &build, nil
}

// Logs fetches the log output of one proc of a build.
func (c *Client) Logs(ctx context.Context, org, repo string, build, pid int) ([]LogLine, error) {
	path := fmt.Sprintf("repos/%s/%s/logs/%d/%d", org, repo, build, pid)

	var lines []LogLine
	if err := c.fetcher.GetJSON(ctx, path, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}
