package testutil

import (
	"fmt"
	"strings"

	"github.com/Belphemur/CineFinder/internal/models"
)

// Genre ids used by the fixture catalog
const (
	GenreAction = 28
	GenreComedy = 35
	GenreDrama  = 18
)

// FixtureGenres is the genre list served by the fake API
var FixtureGenres = []models.Genre{
	{ID: GenreAction, Name: "Action"},
	{ID: GenreComedy, Name: "Comedy"},
	{ID: GenreDrama, Name: "Drama"},
}

// SampleCatalog returns n deterministic movies with ids 1..n.
//
// Odd ids are titled "Star Voyage <id>", even ids "Night Harbor <id>". Release years cycle
// through 2000..2009, genres through action/comedy/drama and ratings through 5.0..9.5.
func SampleCatalog(n int) []models.Movie {
	genres := []int{GenreAction, GenreComedy, GenreDrama}
	movies := make([]models.Movie, 0, n)
	for i := 1; i <= n; i++ {
		title := fmt.Sprintf("Night Harbor %d", i)
		if i%2 == 1 {
			title = fmt.Sprintf("Star Voyage %d", i)
		}
		movies = append(movies, models.Movie{
			ID:               i,
			Title:            title,
			OriginalTitle:    title,
			Overview:         fmt.Sprintf("Overview of %s.", title),
			PosterPath:       fmt.Sprintf("/poster%d.jpg", i),
			BackdropPath:     fmt.Sprintf("/backdrop%d.jpg", i),
			ReleaseDate:      fmt.Sprintf("%d-0%d-15", 2000+i%10, 1+i%9),
			VoteAverage:      5 + float64(i%10)*0.5,
			VoteCount:        100 * i,
			Popularity:       float64(1000 - i),
			GenreIDs:         []int{genres[i%len(genres)]},
			OriginalLanguage: "en",
		})
	}
	return movies
}

// DetailsFor builds the details record the fake API serves for m.
func DetailsFor(m models.Movie) models.MovieDetails {
	genres := make([]models.Genre, 0, len(m.GenreIDs))
	for _, id := range m.GenreIDs {
		for _, g := range FixtureGenres {
			if g.ID == id {
				genres = append(genres, g)
			}
		}
	}
	return models.MovieDetails{
		Movie:    m,
		Runtime:  90 + m.ID,
		Budget:   int64(m.ID) * 1_000_000,
		Revenue:  int64(m.ID) * 3_500_000,
		Status:   "Released",
		Tagline:  "Tagline for " + m.Title,
		Homepage: "https://example.com/" + strings.ReplaceAll(strings.ToLower(m.Title), " ", "-"),
		IMDbID:   fmt.Sprintf("tt%07d", m.ID),
		Genres:   genres,
	}
}

// VideosFor returns a teaser followed by the official YouTube trailer.
func VideosFor(m models.Movie) []models.Video {
	return []models.Video{
		{ID: fmt.Sprintf("v%d-1", m.ID), Key: fmt.Sprintf("teaser%d", m.ID), Name: "Teaser", Site: "YouTube", Type: "Teaser"},
		{ID: fmt.Sprintf("v%d-2", m.ID), Key: fmt.Sprintf("vimeo%d", m.ID), Name: "Trailer (Vimeo)", Site: "Vimeo", Type: "Trailer"},
		{ID: fmt.Sprintf("v%d-3", m.ID), Key: fmt.Sprintf("trailer%d", m.ID), Name: "Official Trailer", Site: "YouTube", Type: "Trailer", Official: true},
	}
}

// CreditsFor returns 15 cast members and a crew with two directors.
func CreditsFor(m models.Movie) ([]models.CastMember, []models.CrewMember) {
	cast := make([]models.CastMember, 0, 15)
	for i := 0; i < 15; i++ {
		cast = append(cast, models.CastMember{
			ID:          m.ID*100 + i,
			Name:        fmt.Sprintf("Actor %d", i),
			Character:   fmt.Sprintf("Character %d", i),
			ProfilePath: fmt.Sprintf("/actor%d.jpg", i),
			Order:       i,
		})
	}
	crew := []models.CrewMember{
		{ID: m.ID*100 + 50, Name: "Director One", Job: "Director", Department: "Directing"},
		{ID: m.ID*100 + 51, Name: "Writer One", Job: "Screenplay", Department: "Writing"},
		{ID: m.ID*100 + 52, Name: "Director Two", Job: "Director", Department: "Directing"},
	}
	return cast, crew
}
