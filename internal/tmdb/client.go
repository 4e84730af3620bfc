// Package tmdb is the one-way catalog import adapter.  It pulls movie
// records from The Movie Database and normalizes them into catalog rows;
// nothing is ever written back.
package tmdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const baseURL = "https://api.themoviedb.org/3"
const imageBaseURL = "https://image.tmdb.org/t/p/w500"

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("tmdb: api key not configured")

// ErrNoResults is returned when a search query matches nothing.
var ErrNoResults = errors.New("tmdb: no results")

type Client struct {
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a TMDB client around the given API key.  An empty key
// yields a client whose every call fails with ErrNotConfigured, letting the
// import endpoint answer cleanly when the feature is switched off.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) get(endpoint string, params url.Values, out any) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	resp, err := c.httpClient.Get(fmt.Sprintf("%s%s?%s", baseURL, endpoint, params.Encode()))
	if err != nil {
		return fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb api error: status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

// SearchMovies runs a title search and returns the raw result page.
func (c *Client) SearchMovies(query string) (*MovieSearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var result MovieSearchResponse
	if err := c.get("/search/movie", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMovieDetails fetches the full record for a TMDB movie id.
func (c *Client) GetMovieDetails(tmdbID int) (*MovieDetails, error) {
	var details MovieDetails
	if err := c.get(fmt.Sprintf("/movie/%d", tmdbID), nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// GetMovieCredits fetches cast and crew for a TMDB movie id.
func (c *Client) GetMovieCredits(tmdbID int) (*Credits, error) {
	var credits Credits
	if err := c.get(fmt.Sprintf("/movie/%d/credits", tmdbID), nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// PosterURL resolves a poster path against the image CDN, or "" when absent.
func PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + path
}
