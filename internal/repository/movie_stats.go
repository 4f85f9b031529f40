package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// Statistics computes the database-wide summary.  All queries run in one
// read-only transaction, so the figures describe a single snapshot and
// writers are not blocked.  topN bounds the genre and language lists.
func (r *MovieRepo) Statistics(ctx context.Context, topN int) (*model.Statistics, error) {
	st := &model.Statistics{}
	err := r.withTx(ctx, &sql.TxOptions{ReadOnly: true}, func(tx *sql.Tx) error {
		if err := totals(ctx, tx, st); err != nil {
			return err
		}
		if err := ratingStats(ctx, tx, st); err != nil {
			return err
		}
		genres, err := genreCounts(ctx, tx, topN)
		if err != nil {
			return err
		}
		st.TopGenres = genres
		if err := languageCounts(ctx, tx, topN, st); err != nil {
			return err
		}
		decades, err := decadeCounts(ctx, tx)
		if err != nil {
			return err
		}
		st.MoviesByDecade = decades
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func totals(ctx context.Context, tx *sql.Tx, st *model.Statistics) error {
	const q = `SELECT COUNT(*), MIN(release_date), MAX(release_date) FROM movies`
	var from, to sql.NullString
	if err := tx.QueryRowContext(ctx, q).Scan(&st.TotalMovies, &from, &to); err != nil {
		return fmt.Errorf("totals: %w", err)
	}
	st.DateRange = model.DateRange{From: nullString(from), To: nullString(to)}
	return nil
}

func ratingStats(ctx context.Context, tx *sql.Tx, st *model.Statistics) error {
	const q = `SELECT COUNT(*), AVG(vote_average), MIN(vote_average), MAX(vote_average), AVG(vote_count)
		FROM movies
		WHERE vote_count > 0 AND vote_average IS NOT NULL`
	var avg, lo, hi, votes sql.NullFloat64
	if err := tx.QueryRowContext(ctx, q).Scan(&st.RatingStats.RatedMovies, &avg, &lo, &hi, &votes); err != nil {
		return fmt.Errorf("rating stats: %w", err)
	}
	st.RatingStats.AverageRating = avg.Float64
	st.RatingStats.MinRating = lo.Float64
	st.RatingStats.MaxRating = hi.Float64
	st.RatingStats.AverageVotes = votes.Float64
	return nil
}

// genreCounts groups by the raw genre string in SQL and splits each
// distinct combination in Go, so "Action, Drama" adds its row count to
// both Action and Drama.  A token repeated within one row counts once.
func genreCounts(ctx context.Context, tx *sql.Tx, topN int) ([]model.GenreCount, error) {
	const q = `SELECT genre, COUNT(*) FROM movies
		WHERE genre IS NOT NULL AND genre <> ''
		GROUP BY genre`
	rows, err := tx.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("genre counts: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var raw string
		var n int64
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, err
		}
		seen := map[string]bool{}
		for _, g := range model.SplitGenres(raw) {
			if seen[g] {
				continue
			}
			seen[g] = true
			counts[g] += n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.GenreCount, 0, len(counts))
	for g, n := range counts {
		out = append(out, model.GenreCount{Genre: g, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Genre < out[j].Genre
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out, nil
}

func languageCounts(ctx context.Context, tx *sql.Tx, topN int, st *model.Statistics) error {
	const qDistinct = `SELECT COUNT(DISTINCT original_language) FROM movies
		WHERE original_language IS NOT NULL AND original_language <> ''`
	if err := tx.QueryRowContext(ctx, qDistinct).Scan(&st.LanguageCount); err != nil {
		return fmt.Errorf("language count: %w", err)
	}

	const q = `SELECT original_language, COUNT(*) AS n FROM movies
		WHERE original_language IS NOT NULL AND original_language <> ''
		GROUP BY original_language
		ORDER BY n DESC, original_language ASC
		LIMIT ?`
	rows, err := tx.QueryContext(ctx, q, topN)
	if err != nil {
		return fmt.Errorf("language counts: %w", err)
	}
	defer rows.Close()

	st.TopLanguages = make([]model.LanguageCount, 0, topN)
	for rows.Next() {
		var lc model.LanguageCount
		if err := rows.Scan(&lc.Language, &lc.Count); err != nil {
			return err
		}
		st.TopLanguages = append(st.TopLanguages, lc)
	}
	return rows.Err()
}

// decadeCounts buckets dated rows by the first three digits of the
// year.  Undated rows are left out here but still counted in the total.
func decadeCounts(ctx context.Context, tx *sql.Tx) ([]model.DecadeCount, error) {
	const q = `SELECT SUBSTR(release_date, 1, 3) AS d, COUNT(*) FROM movies
		WHERE release_date IS NOT NULL
		GROUP BY SUBSTR(release_date, 1, 3)`
	rows, err := tx.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("decade counts: %w", err)
	}
	defer rows.Close()

	byDecade := map[int]int64{}
	for rows.Next() {
		var prefix string
		var n int64
		if err := rows.Scan(&prefix, &n); err != nil {
			return nil, err
		}
		d, err := strconv.Atoi(prefix)
		if err != nil {
			continue // not a YYYY-MM-DD value
		}
		byDecade[d*10] += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.DecadeCount, 0, len(byDecade))
	for d, n := range byDecade {
		out = append(out, model.DecadeCount{Decade: d, Label: strconv.Itoa(d) + "s", Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Decade < out[j].Decade })
	return out, nil
}
