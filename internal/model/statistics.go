package model

// Statistics is the database-wide summary returned by
// get_database_statistics.  Every field is computed from the same
// read-only snapshot of the movies table.
type Statistics struct {
	TotalMovies    int64           `json:"total_movies"`
	DateRange      DateRange       `json:"date_range"`
	RatingStats    RatingStats     `json:"rating_stats"`
	TopGenres      []GenreCount    `json:"top_genres"`
	TopLanguages   []LanguageCount `json:"top_languages"`
	LanguageCount  int64           `json:"language_count"`
	MoviesByDecade []DecadeCount   `json:"movies_by_decade"`
}

// DateRange holds the earliest and latest release dates; both are nil
// when no row carries a release date.
type DateRange struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

// RatingStats summarises vote_average over rated movies (vote_count > 0).
type RatingStats struct {
	RatedMovies   int64   `json:"rated_movies"`
	AverageRating float64 `json:"average_rating"`
	MinRating     float64 `json:"min_rating"`
	MaxRating     float64 `json:"max_rating"`
	AverageVotes  float64 `json:"average_votes"`
}

// GenreCount counts how many movies carry a genre token.  A movie tagged
// "Action, Drama" contributes to both Action and Drama.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int64  `json:"count"`
}

type LanguageCount struct {
	Language string `json:"language"`
	Count    int64  `json:"count"`
}

// DecadeCount buckets movies by release decade.  Decade is the first
// year of the decade (1990) and Label its display form ("1990s").
type DecadeCount struct {
	Decade int    `json:"decade"`
	Label  string `json:"label"`
	Count  int64  `json:"count"`
}
