package service

// Public defaults and bounds of the tool contract.  They are fixed
// values, not tuning knobs.
const (
	MinRating = 0.0
	MaxRating = 10.0

	DefaultTitleSearchLimit = 20
	DefaultGenreLimit       = 50
	DefaultYearLimit        = 100
	DefaultTopRatedLimit    = 50
	DefaultAdvancedLimit    = 100
	DefaultRecentLimit      = 50
	MaxLimit                = 1000

	DefaultMinVotes   = 100
	DefaultRecentDays = 365
	StatisticsTopN    = 10
)

// CreateMovieRequest is the parameter set of create_movie.
type CreateMovieRequest struct {
	Title            string   `json:"title" validate:"notblank,max=512"`
	ReleaseDate      *string  `json:"release_date" validate:"omitempty,isodate"`
	Overview         *string  `json:"overview"`
	Popularity       *float64 `json:"popularity" validate:"omitempty,gte=0"`
	VoteCount        *int64   `json:"vote_count" validate:"omitempty,gte=0"`
	VoteAverage      *float64 `json:"vote_average" validate:"omitempty,gte=0,lte=10"`
	OriginalLanguage *string  `json:"original_language" validate:"omitempty,max=16"`
	Genre            *string  `json:"genre" validate:"omitempty,max=255"`
	PosterURL        *string  `json:"poster_url" validate:"omitempty,max=1024"`
}

// GetMovieRequest is the parameter set of get_movie_by_id.
type GetMovieRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// TitleSearchRequest is the parameter set of search_movies_by_title.
type TitleSearchRequest struct {
	TitleSearch string `json:"title_search" validate:"notblank"`
	Limit       *int   `json:"limit" validate:"omitempty,gte=1,lte=1000"`
}

// GenreRequest is the parameter set of get_movies_by_genre.
type GenreRequest struct {
	Genre string `json:"genre" validate:"notblank"`
	Limit *int   `json:"limit" validate:"omitempty,gte=1,lte=1000"`
}

// YearRequest is the parameter set of get_movies_by_year.
type YearRequest struct {
	Year  int  `json:"year" validate:"required,gte=1,lte=9999"`
	Limit *int `json:"limit" validate:"omitempty,gte=1,lte=1000"`
}

// TopRatedRequest is the parameter set of get_top_rated_movies.  The
// vote floor always applies; omitting min_votes selects DefaultMinVotes.
type TopRatedRequest struct {
	MinVotes *int64 `json:"min_votes" validate:"omitempty,gte=0"`
	Limit    *int   `json:"limit" validate:"omitempty,gte=1,lte=1000"`
}

// AdvancedSearchRequest is the parameter set of advanced_search_movies.
// Every criterion is optional.
type AdvancedSearchRequest struct {
	Title            *string  `json:"title"`
	Genre            *string  `json:"genre"`
	OriginalLanguage *string  `json:"original_language"`
	MinRating        *float64 `json:"min_rating" validate:"omitempty,gte=0,lte=10"`
	MaxRating        *float64 `json:"max_rating" validate:"omitempty,gte=0,lte=10"`
	YearFrom         *int     `json:"year_from" validate:"omitempty,gte=1,lte=9999"`
	YearTo           *int     `json:"year_to" validate:"omitempty,gte=1,lte=9999"`
	Limit            *int     `json:"limit" validate:"omitempty,gte=1,lte=1000"`
}

// RecentMoviesRequest is the parameter set of get_recent_movies.
type RecentMoviesRequest struct {
	Days  *int `json:"days" validate:"omitempty,gte=1,lte=36500"`
	Limit *int `json:"limit" validate:"omitempty,gte=1,lte=1000"`
}

// UpdateMovieRequest is the parameter set of update_movie.  Nil fields
// keep their stored value.
type UpdateMovieRequest struct {
	ID               int64    `json:"id" validate:"required,gt=0"`
	Title            *string  `json:"title" validate:"omitempty,notblank,max=512"`
	ReleaseDate      *string  `json:"release_date" validate:"omitempty,isodate"`
	Overview         *string  `json:"overview"`
	Popularity       *float64 `json:"popularity" validate:"omitempty,gte=0"`
	VoteCount        *int64   `json:"vote_count" validate:"omitempty,gte=0"`
	VoteAverage      *float64 `json:"vote_average" validate:"omitempty,gte=0,lte=10"`
	OriginalLanguage *string  `json:"original_language" validate:"omitempty,max=16"`
	Genre            *string  `json:"genre" validate:"omitempty,max=255"`
	PosterURL        *string  `json:"poster_url" validate:"omitempty,max=1024"`
}

// AddVoteRequest is the parameter set of add_movie_vote.
type AddVoteRequest struct {
	ID        int64    `json:"id" validate:"required,gt=0"`
	NewRating *float64 `json:"new_rating" validate:"required,gte=0,lte=10"`
}

// DeleteMovieRequest is the parameter set of delete_movie.
type DeleteMovieRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// DeleteByCriteriaRequest is the parameter set of
// delete_movies_by_criteria.  At least one criterion is required.
type DeleteByCriteriaRequest struct {
	BeforeDate *string  `json:"before_date" validate:"omitempty,isodate"`
	MinRating  *float64 `json:"min_rating" validate:"omitempty,gte=0,lte=10"`
	MinVotes   *int64   `json:"min_votes" validate:"omitempty,gte=0"`
}

// StatisticsRequest is the (empty) parameter set of
// get_database_statistics.
type StatisticsRequest struct{}

func limitOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
