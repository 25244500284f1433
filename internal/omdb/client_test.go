package omdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieweb/internal/omdb"
)

func TestClient_GetMovieData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "testkey", r.URL.Query().Get("apikey"))
		assert.Equal(t, "movie", r.URL.Query().Get("type"))
		assert.Equal(t, "inception", r.URL.Query().Get("t"))
		assert.Equal(t, "2010", r.URL.Query().Get("y"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"Title": "Inception",
			"Year": "2010",
			"Genre": "Action, Adventure, Sci-Fi",
			"Director": "Christopher Nolan",
			"Country": "United States, United Kingdom",
			"Poster": "https://example.com/inception.jpg",
			"imdbRating": "8.8",
			"imdbID": "tt1375666",
			"Response": "True"
		}`))
	}))
	defer server.Close()

	client := omdb.New("testkey", server.URL, time.Second)
	data, err := client.GetMovieData(context.Background(), "inception", "2010")
	require.NoError(t, err)

	assert.Equal(t, "Inception", data.Name)
	assert.Equal(t, 2010, data.Year)
	assert.Equal(t, 8.8, data.Rating)
	assert.Equal(t, "Christopher Nolan", data.Director)
	assert.Equal(t, "tt1375666", data.IMDBID)
	// Only the first comma-separated country is resolved.
	assert.Equal(t, "US", data.Alpha2)
}

func TestClient_GetMovieData_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	}))
	defer server.Close()

	client := omdb.New("testkey", server.URL, time.Second)
	_, err := client.GetMovieData(context.Background(), "definitely not a movie", "")
	assert.ErrorIs(t, err, omdb.ErrMovieNotFound)
}

func TestClient_GetMovieData_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	client := omdb.New("testkey", server.URL, time.Second)
	_, err := client.GetMovieData(context.Background(), "inception", "")
	assert.ErrorIs(t, err, omdb.ErrConnection)
}

func TestClient_GetMovieData_UnratedMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Title":"Obscure","Year":"1999","Country":"France","imdbRating":"N/A","Response":"True"}`))
	}))
	defer server.Close()

	client := omdb.New("testkey", server.URL, time.Second)
	data, err := client.GetMovieData(context.Background(), "obscure", "")
	require.NoError(t, err)
	assert.Zero(t, data.Rating)
	assert.Equal(t, "FR", data.Alpha2)
}

func TestCountryAlpha2(t *testing.T) {
	tests := []struct {
		country string
		alpha2  string
	}{
		{"United States", "US"},
		{"United States, United Kingdom", "US"},
		{"France", "FR"},
		{"germany", "DE"},
		{"USA", "US"},
	}
	for _, tt := range tests {
		got, err := omdb.CountryAlpha2(tt.country)
		require.NoError(t, err, tt.country)
		assert.Equal(t, tt.alpha2, got, tt.country)
	}

	// "UK" is an informal abbreviation, not an ISO code, and does not
	// resolve.
	for _, unresolvable := range []string{"Atlantis", "UK", ""} {
		_, err := omdb.CountryAlpha2(unresolvable)
		assert.Error(t, err, unresolvable)
	}
}
