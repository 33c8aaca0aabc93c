// Package swapi is a read-only client for the upstream Star Wars catalog
// API. It follows the cursor-style pagination of the /films/ and /planets/
// collections and fails fast on transport errors; retry policy is left to
// the caller.
package swapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// UnavailableError reports a connection-level failure while fetching from
// the upstream catalog. It is distinct from HTTP-level errors so callers can
// tell "upstream unreachable" apart from "upstream answered badly".
type UnavailableError struct {
	URL string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("upstream catalog unavailable: %s: %v", e.URL, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Film is one record of the upstream /films/ collection. ReleaseDate stays a
// string here because the upstream sends a bare date; the importer parses it.
type Film struct {
	Title       string    `json:"title"`
	ReleaseDate string    `json:"release_date"`
	Created     time.Time `json:"created"`
	Edited      time.Time `json:"edited"`
	URL         string    `json:"url"`
}

// Planet is one record of the upstream /planets/ collection.
type Planet struct {
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
	Edited  time.Time `json:"edited"`
	URL     string    `json:"url"`
}

type filmsPage struct {
	Next    *string `json:"next"`
	Results []Film  `json:"results"`
}

type planetsPage struct {
	Next    *string  `json:"next"`
	Results []Planet `json:"results"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient creates a catalog client for the given base URL (no trailing
// slash), throttled to rps requests per second.
func NewClient(baseURL, userAgent string, rps int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:   baseURL,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

// FetchAllFilms retrieves every film, following the next cursor until exhausted.
func (c *Client) FetchAllFilms(ctx context.Context) ([]Film, error) {
	var all []Film
	next := c.baseURL + "/films/"
	for next != "" {
		var page filmsPage
		if err := c.getPage(ctx, next, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Results...)
		next = ""
		if page.Next != nil {
			next = *page.Next
		}
	}
	return all, nil
}

// FetchAllPlanets retrieves every planet, following the next cursor until exhausted.
func (c *Client) FetchAllPlanets(ctx context.Context) ([]Planet, error) {
	var all []Planet
	next := c.baseURL + "/planets/"
	for next != "" {
		var page planetsPage
		if err := c.getPage(ctx, next, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Results...)
		next = ""
		if page.Next != nil {
			next = *page.Next
		}
	}
	return all, nil
}

func (c *Client) getPage(ctx context.Context, url string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UnavailableError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding page from %s: %w", url, err)
	}
	return nil
}
