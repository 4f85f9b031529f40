package model

// Movie represents one film in the catalog.  Nullable columns are
// pointers so that "absent" and "zero" stay distinguishable all the way
// to the tool envelope.  This struct corresponds to a row in the
// `movies` table.
//
// Fields:
//
//	ID               – primary key, assigned by the store, never changes.
//	Title            – required, never empty.
//	ReleaseDate      – ISO-8601 YYYY-MM-DD or nil.
//	Overview         – free text plot summary.
//	Popularity       – unbounded non-negative score, used as relevance.
//	VoteCount        – number of ratings folded into VoteAverage.
//	VoteAverage      – running average rating, 0–10.
//	OriginalLanguage – short language code, e.g. "en".
//	Genre            – comma separated list, e.g. "Action, Drama".
//	PosterURL        – opaque poster location.
type Movie struct {
	ID               int64    `json:"id"`                // movies.id
	Title            string   `json:"title"`             // movies.title
	ReleaseDate      *string  `json:"release_date"`      // movies.release_date
	Overview         *string  `json:"overview"`          // movies.overview
	Popularity       *float64 `json:"popularity"`        // movies.popularity
	VoteCount        *int64   `json:"vote_count"`        // movies.vote_count
	VoteAverage      *float64 `json:"vote_average"`      // movies.vote_average
	OriginalLanguage *string  `json:"original_language"` // movies.original_language
	Genre            *string  `json:"genre"`             // movies.genre
	PosterURL        *string  `json:"poster_url"`        // movies.poster_url
}
