package tmdb

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
)

// Trending returns this week's trending movies.
func (c *Client) Trending(ctx context.Context) ([]Movie, error) {
	slog.Debug("fetching TMDB trending")
	var result ListResponse
	if err := c.getJSON(ctx, "/trending/movie/week", nil, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Details returns full details for a single movie.
func (c *Client) Details(ctx context.Context, tmdbID int64) (*MovieDetails, error) {
	slog.Debug("fetching TMDB movie detail", "tmdb_id", tmdbID)
	var result MovieDetails
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", tmdbID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Recommendations returns movies TMDB recommends for the given movie.
func (c *Client) Recommendations(ctx context.Context, tmdbID int64) ([]Movie, error) {
	slog.Debug("fetching TMDB recommendations", "tmdb_id", tmdbID)
	var result ListResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/recommendations", tmdbID), nil, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Search returns movies whose title matches query.
func (c *Client) Search(ctx context.Context, query string) ([]Movie, error) {
	slog.Debug("searching TMDB", "query", query)
	var result ListResponse
	params := url.Values{"query": {query}}
	if err := c.getJSON(ctx, "/search/movie", params, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}
