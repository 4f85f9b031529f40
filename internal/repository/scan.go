package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// movieColumns is the projection every movie query selects, in scan order.
const movieColumns = `id, title, release_date, overview, popularity, vote_count,
	vote_average, original_language, genre, poster_url`

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(s rowScanner) (*model.Movie, error) {
	var (
		m           model.Movie
		releaseDate sql.NullString
		overview    sql.NullString
		popularity  sql.NullFloat64
		voteCount   sql.NullInt64
		voteAverage sql.NullFloat64
		language    sql.NullString
		genre       sql.NullString
		posterURL   sql.NullString
	)
	if err := s.Scan(&m.ID, &m.Title, &releaseDate, &overview, &popularity, &voteCount,
		&voteAverage, &language, &genre, &posterURL); err != nil {
		return nil, err
	}
	m.ReleaseDate = nullString(releaseDate)
	m.Overview = nullString(overview)
	m.Popularity = nullFloat(popularity)
	m.VoteCount = nullInt(voteCount)
	m.VoteAverage = nullFloat(voteAverage)
	m.OriginalLanguage = nullString(language)
	m.Genre = nullString(genre)
	m.PosterURL = nullString(posterURL)
	return &m, nil
}

func scanMovies(rows *sql.Rows, capHint int) ([]*model.Movie, error) {
	defer rows.Close()
	out := make([]*model.Movie, 0, capHint)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

// likeEscape is the ESCAPE character used by every LIKE predicate.  It is
// not a backslash because MySQL and SQLite disagree on backslash quoting.
const likeEscape = "!"

// containsPattern builds a case-insensitive "contains" LIKE pattern for
// s.  Wildcards in s match literally.
func containsPattern(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
