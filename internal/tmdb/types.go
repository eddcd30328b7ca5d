package tmdb

// Movie is a list item from the trending, recommendations and search endpoints.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	ReleaseDate      string  `json:"release_date"`
	GenreIDs         []int64 `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
}

// MovieDetails is the response of /movie/{id}.
type MovieDetails struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	ReleaseDate      string  `json:"release_date"`
	Genres           []Genre `json:"genres"`
	OriginalLanguage string  `json:"original_language"`
	Runtime          int     `json:"runtime"`
}

// Genre is a genre object embedded in movie details.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GenreIDs flattens the embedded genre objects to their ids.
func (d *MovieDetails) GenreIDs() []int64 {
	ids := make([]int64, 0, len(d.Genres))
	for _, g := range d.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// ListResponse is a paginated list of movies.
type ListResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}
