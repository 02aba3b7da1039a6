package models

// Movie represents a movie summary as returned by list, search and discover endpoints
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"` // YYYY-MM-DD
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	Adult            bool    `json:"adult"`

	// Resolved image URLs, filled in by the client from the configured image base.
	PosterURL   string `json:"poster_url,omitempty"`
	BackdropURL string `json:"backdrop_url,omitempty"`
}

// Year returns the release year or an empty string when the release date is unknown
func (m Movie) Year() string {
	return ExtractYear(m.ReleaseDate)
}

// Genre represents a movie genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Video represents a video (trailer, teaser, clip...) attached to a movie
type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// CastMember is an actor credited on a movie
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path,omitempty"`
	ProfileURL  string `json:"profile_url,omitempty"`
	Order       int    `json:"order"`
}

// CrewMember is a crew credit (director, writer, ...) on a movie
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path,omitempty"`
}

// MovieDetails is the full movie record with its videos and credits
type MovieDetails struct {
	Movie
	Runtime  int          `json:"runtime"` // minutes
	Budget   int64        `json:"budget"`
	Revenue  int64        `json:"revenue"`
	Status   string       `json:"status,omitempty"`
	Tagline  string       `json:"tagline,omitempty"`
	Homepage string       `json:"homepage,omitempty"`
	IMDbID   string       `json:"imdb_id,omitempty"`
	Genres   []Genre      `json:"genres"`
	Videos   []Video      `json:"videos"`
	Cast     []CastMember `json:"cast"`
	Crew     []CrewMember `json:"crew"`
}

// Directors returns the crew members whose job is "Director", in credit order
func (d *MovieDetails) Directors() []CrewMember {
	directors := make([]CrewMember, 0, 1)
	for _, member := range d.Crew {
		if member.Job == "Director" {
			directors = append(directors, member)
		}
	}
	return directors
}

// Trailer returns the first YouTube trailer, or nil when the movie has none
func (d *MovieDetails) Trailer() *Video {
	for i := range d.Videos {
		if d.Videos[i].Type == "Trailer" && d.Videos[i].Site == "YouTube" {
			return &d.Videos[i]
		}
	}
	return nil
}

// MoviePage is one page of a paginated movie listing
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalResults int     `json:"total_results"`
	TotalPages   int     `json:"total_pages"`
}

// HasMore reports whether pages after this one exist
func (p *MoviePage) HasMore() bool {
	return p.Page < p.TotalPages
}
