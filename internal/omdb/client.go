// Package omdb wraps the OMDb movie-metadata lookup. It returns a
// flat record of the attributes the catalog stores, with the first
// country of the response resolved to its ISO-3166 alpha-2 code.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pariz/gountries"
)

// DefaultTimeout bounds every outbound lookup.
const DefaultTimeout = 3 * time.Second

// ErrConnection tags lookups that never reached a usable response.
// The failure is retryable from the caller's perspective, but no
// retry is attempted here.
var ErrConnection = errors.New("connection error")

// ErrMovieNotFound tags lookups the upstream answered with an error
// payload, or whose response could not be resolved to a catalog
// record.
var ErrMovieNotFound = errors.New("movie not found!")

var countryQuery = gountries.New()

// MovieData is the flat record returned by a successful lookup.
type MovieData struct {
	Name     string
	Rating   float64
	Year     int
	Genre    string
	Img      string
	Director string
	Country  string
	Alpha2   string
	IMDBID   string
}

// Client talks to the OMDb HTTP API.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

// New creates a Client with the given timeout; zero means
// DefaultTimeout.
func New(apiKey, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type omdbResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	IMDBRating string `json:"imdbRating"`
	Genre      string `json:"Genre"`
	Poster     string `json:"Poster"`
	Director   string `json:"Director"`
	Country    string `json:"Country"`
	IMDBID     string `json:"imdbID"`
	Error      string `json:"Error"`
}

// GetMovieData looks up a movie by title, optionally narrowed by
// release year.
func (c *Client) GetMovieData(ctx context.Context, title, year string) (*MovieData, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid omdb base url: %w", err)
	}
	q := u.Query()
	q.Set("apikey", c.APIKey)
	q.Set("type", "movie")
	q.Set("t", title)
	if year != "" {
		q.Set("y", year)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build omdb request: %w", err)
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: omdb status %d", ErrConnection, res.StatusCode)
	}

	var payload omdbResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode omdb response: %v", ErrConnection, err)
	}
	if payload.Error != "" {
		return nil, ErrMovieNotFound
	}

	releaseYear, err := strconv.Atoi(strings.TrimSpace(payload.Year))
	if err != nil {
		return nil, fmt.Errorf("%w: unexpected year %q", ErrMovieNotFound, payload.Year)
	}
	alpha2, err := CountryAlpha2(payload.Country)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMovieNotFound, err)
	}

	// OMDb reports "N/A" for unrated titles; those stay at zero.
	var rating float64
	if v, err := strconv.ParseFloat(payload.IMDBRating, 64); err == nil {
		rating = v
	}

	return &MovieData{
		Name:     payload.Title,
		Rating:   rating,
		Year:     releaseYear,
		Genre:    payload.Genre,
		Img:      payload.Poster,
		Director: payload.Director,
		Country:  payload.Country,
		Alpha2:   alpha2,
		IMDBID:   payload.IMDBID,
	}, nil
}

// CountryAlpha2 resolves a country-name string to a 2-letter ISO-3166
// code. OMDb may list several comma-separated countries; only the
// first is used.
func CountryAlpha2(countryName string) (string, error) {
	if i := strings.Index(countryName, ","); i >= 0 {
		countryName = countryName[:i]
	}
	countryName = strings.TrimSpace(countryName)
	if countryName == "" {
		return "", errors.New("empty country name")
	}
	country, err := countryQuery.FindCountryByName(countryName)
	if err != nil {
		// Short responses like "USA" are ISO codes, not names.
		// Informal abbreviations ("UK") are neither and stay
		// unresolvable.
		country, err = countryQuery.FindCountryByAlpha(countryName)
	}
	if err != nil {
		return "", fmt.Errorf("unresolvable country %q", countryName)
	}
	return country.Alpha2, nil
}
