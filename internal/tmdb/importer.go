package tmdb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cinevault/movie-catalog/internal/repository"
)

// maxCastMembers bounds how many top-billed names land in the cast column.
const maxCastMembers = 10

// Importer converts TMDB records into catalog movies.
type Importer struct {
	client *Client
}

func NewImporter(client *Client) *Importer {
	return &Importer{client: client}
}

// FetchByID pulls a movie's details and credits by TMDB id and normalizes
// them into a catalog record ready for insertion.
func (i *Importer) FetchByID(tmdbID int) (*repository.Movie, error) {
	details, err := i.client.GetMovieDetails(tmdbID)
	if err != nil {
		return nil, fmt.Errorf("get movie details: %w", err)
	}
	credits, err := i.client.GetMovieCredits(tmdbID)
	if err != nil {
		return nil, fmt.Errorf("get movie credits: %w", err)
	}
	return i.convert(details, credits), nil
}

// FetchByQuery searches TMDB and imports the best match.
func (i *Importer) FetchByQuery(query string) (*repository.Movie, error) {
	results, err := i.client.SearchMovies(query)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	if len(results.Results) == 0 {
		return nil, ErrNoResults
	}
	return i.FetchByID(results.Results[0].ID)
}

func (i *Importer) convert(details *MovieDetails, credits *Credits) *repository.Movie {
	m := &repository.Movie{Title: details.Title}

	if details.Overview != "" {
		m.Description = strPtr(details.Overview)
	}
	// Release date arrives as YYYY-MM-DD; the catalog keeps only the year.
	if len(details.ReleaseDate) >= 4 {
		if year, err := strconv.Atoi(details.ReleaseDate[:4]); err == nil {
			m.ReleaseYear = &year
		}
	}
	if names := genreNames(details.Genres); names != "" {
		m.Genre = strPtr(names)
	}
	if d := director(credits.Crew); d != "" {
		m.Director = strPtr(d)
	}
	if c := topCast(credits.Cast); c != "" {
		m.Cast = strPtr(c)
	}
	if details.VoteAverage > 0 {
		rating := details.VoteAverage
		m.Rating = &rating
	}
	if poster := PosterURL(details.PosterPath); poster != "" {
		m.PosterURL = strPtr(poster)
	}
	return m
}

func genreNames(genres []Genre) string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

func director(crew []CrewMember) string {
	for _, c := range crew {
		if c.Job == "Director" {
			return c.Name
		}
	}
	return ""
}

func topCast(cast []CastMember) string {
	names := make([]string, 0, maxCastMembers)
	for _, c := range cast {
		if len(names) == maxCastMembers {
			break
		}
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

func strPtr(s string) *string { return &s }
