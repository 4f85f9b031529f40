package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// SortOrder selects the ORDER BY clause of a movie search.
type SortOrder int

const (
	// OrderPopularity ranks by popularity (nulls last), then id.
	OrderPopularity SortOrder = iota
	// OrderTopRated ranks by vote_average, then vote_count, then id.
	OrderTopRated
	// OrderRecent ranks by release_date (newest first), then id.
	OrderRecent
)

func (o SortOrder) clause() string {
	switch o {
	case OrderTopRated:
		return "vote_average IS NULL, vote_average DESC, vote_count DESC, id ASC"
	case OrderRecent:
		return "release_date IS NULL, release_date DESC, id ASC"
	default:
		return "popularity IS NULL, popularity DESC, id ASC"
	}
}

// MovieSearchQuery defines the filters of a movie search.  Zero values
// and nil pointers impose no constraint; only supplied filters become
// predicates.  Values are expected to be validated by the caller.
type MovieSearchQuery struct {
	Title        string   // case-insensitive substring of title
	Genre        string   // case-insensitive substring of genre
	Language     string   // original_language, case-insensitive equality
	MinRating    *float64 // vote_average >= MinRating
	MaxRating    *float64 // vote_average <= MaxRating
	YearFrom     *int     // release year >= YearFrom
	YearTo       *int     // release year <= YearTo
	MinVotes     *int64   // vote_count >= MinVotes
	ReleasedFrom string   // release_date >= ReleasedFrom (YYYY-MM-DD)
	Order        SortOrder
	Limit        int
}

// where builds the conjunction of the supplied predicates.  Year bounds
// are rewritten as release_date ranges so the release_date index serves
// them and NULL dates never match.
func (q MovieSearchQuery) where() (string, []any) {
	where := []string{}
	args := []any{}

	if q.Title != "" {
		where = append(where, "LOWER(title) LIKE ? ESCAPE '"+likeEscape+"'")
		args = append(args, containsPattern(q.Title))
	}
	if q.Genre != "" {
		where = append(where, "LOWER(genre) LIKE ? ESCAPE '"+likeEscape+"'")
		args = append(args, containsPattern(q.Genre))
	}
	if q.Language != "" {
		where = append(where, "LOWER(original_language) = ?")
		args = append(args, strings.ToLower(q.Language))
	}
	if q.MinRating != nil {
		where = append(where, "vote_average >= ?")
		args = append(args, *q.MinRating)
	}
	if q.MaxRating != nil {
		where = append(where, "vote_average <= ?")
		args = append(args, *q.MaxRating)
	}
	if q.YearFrom != nil {
		where = append(where, "release_date >= ?")
		args = append(args, fmt.Sprintf("%04d-01-01", *q.YearFrom))
	}
	if q.YearTo != nil {
		where = append(where, "release_date <= ?")
		args = append(args, fmt.Sprintf("%04d-12-31", *q.YearTo))
	}
	if q.MinVotes != nil {
		where = append(where, "vote_count >= ?")
		args = append(args, *q.MinVotes)
	}
	if q.ReleasedFrom != "" {
		where = append(where, "release_date >= ?")
		args = append(args, q.ReleasedFrom)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return cond, args
}

// Search runs a filtered, ordered and bounded movie query.  An empty
// result is not an error.
func (r *MovieRepo) Search(ctx context.Context, q MovieSearchQuery) ([]*model.Movie, error) {
	cond, args := q.where()
	dataSQL := "SELECT " + movieColumns + `
		FROM movies
		WHERE ` + cond + `
		ORDER BY ` + q.Order.clause() + `
		LIMIT ?`
	args = append(args, q.Limit)

	rows, err := r.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, err
	}
	return scanMovies(rows, q.Limit)
}
