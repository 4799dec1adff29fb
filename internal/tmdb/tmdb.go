// Package tmdb is the metadata enrichment client for The Movie Database.
//
// A movie add triggers exactly one enrichment: a title search (first result
// wins) followed by a watch-provider lookup for US streaming ("flatrate")
// services. Both calls are best effort. Any failure degrades the result
// instead of failing the add, so a slow or down TMDB never blocks the
// catalog. Results are frozen into the record at insert time and never
// refreshed.
//
// Required env var: TMDB_API_KEY (https://www.themoviedb.org/settings/api)
// Rate limit: TMDB allows ~50 requests/second; this client does not rate-limit.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/kylemdonovan/moviebot/internal/catalog"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// watchRegion scopes the provider lookup. Only this region's "flatrate"
// offerings are stored.
const watchRegion = "US"

// Client is a minimal TMDB API client implementing catalog.Enricher.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a TMDB Client. apiKey may be empty, in which case every
// lookup reports catalog.EnrichmentUnavailable and adds proceed bare.
func NewClient(apiKey string, log *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// NewClientWithBaseURL is NewClient pointed at a custom API base. Tests use
// it with an httptest server.
func NewClientWithBaseURL(apiKey, baseURL string, log *slog.Logger) *Client {
	c := NewClient(apiKey, log)
	c.baseURL = baseURL
	return c
}

// searchResult is one entry from GET /search/movie.
type searchResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// providersResponse is the shape of GET /movie/{id}/watch/providers.
type providersResponse struct {
	Results map[string]struct {
		Flatrate []struct {
			ProviderName string `json:"provider_name"`
		} `json:"flatrate"`
	} `json:"results"`
}

// Lookup searches TMDB for name and, on a hit, fetches where to watch it.
// It never returns an error: a failed search yields EnrichmentUnavailable,
// an empty result list yields EnrichmentNotFound, and a failed provider
// lookup yields a Found result with no services.
func (c *Client) Lookup(ctx context.Context, name string) catalog.Enrichment {
	if c.apiKey == "" {
		c.log.Warn("tmdb: no API key configured, skipping enrichment", "movie", name)
		return catalog.Enrichment{Outcome: catalog.EnrichmentUnavailable}
	}

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("query", name)

	var search struct {
		Results []searchResult `json:"results"`
	}
	if err := c.get(ctx, "/search/movie?"+q.Encode(), &search); err != nil {
		c.log.Warn("tmdb: search failed", "movie", name, "error", err)
		return catalog.Enrichment{Outcome: catalog.EnrichmentUnavailable}
	}
	if len(search.Results) == 0 {
		return catalog.Enrichment{Outcome: catalog.EnrichmentNotFound}
	}

	top := search.Results[0]
	rating := top.VoteAverage
	return catalog.Enrichment{
		Outcome:     catalog.EnrichmentFound,
		Title:       top.Title,
		ReleaseYear: releaseYear(top.ReleaseDate),
		Rating:      &rating,
		Services:    c.watchProviders(ctx, top.ID, name),
	}
}

// watchProviders fetches the US flatrate streaming services for a movie.
// Any failure, or a response without the region or offering type, yields an
// empty list — it must never fail the enclosing enrichment.
func (c *Client) watchProviders(ctx context.Context, movieID int, name string) []string {
	q := url.Values{}
	q.Set("api_key", c.apiKey)

	var resp providersResponse
	path := fmt.Sprintf("/movie/%d/watch/providers?%s", movieID, q.Encode())
	if err := c.get(ctx, path, &resp); err != nil {
		c.log.Warn("tmdb: watch provider lookup failed", "movie", name, "error", err)
		return nil
	}

	region, ok := resp.Results[watchRegion]
	if !ok {
		return nil
	}
	services := make([]string, 0, len(region.Flatrate))
	for _, p := range region.Flatrate {
		services = append(services, p.ProviderName)
	}
	return services
}

// releaseYear extracts the 4-digit year from a TMDB release_date
// ("2010-07-15"). Returns "" for short or missing dates.
func releaseYear(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// get performs a GET request to the TMDB API and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, dst any) error {
	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("tmdb: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("tmdb: invalid API key (check TMDB_API_KEY)")
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("tmdb: rate limited")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb: HTTP %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("tmdb: decode response: %w", err)
	}
	return nil
}
