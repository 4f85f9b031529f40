package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// MovieRepo encapsulates all database queries related to movies.  It
// depends on a sql.DB pool which is opened elsewhere and shared by every
// caller; the repository itself holds no other state.
type MovieRepo struct {
	db      *sql.DB          // db is the underlying connection pool
	dialect database.Dialect // dialect owns the DDL for the driver
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB, d database.Dialect) *MovieRepo {
	return &MovieRepo{db: db, dialect: d}
}

// EnsureSchema creates the movies table and indexes if needed.
func (r *MovieRepo) EnsureSchema(ctx context.Context) error {
	return database.EnsureSchema(ctx, r.db, r.dialect)
}

// MoviePatch lists the columns an update may overwrite.  Nil fields keep
// their stored value.
type MoviePatch struct {
	Title            *string
	ReleaseDate      *string
	Overview         *string
	Popularity       *float64
	VoteCount        *int64
	VoteAverage      *float64
	OriginalLanguage *string
	Genre            *string
	PosterURL        *string
}

// Empty reports whether the patch would change nothing.
func (p MoviePatch) Empty() bool {
	sets, _ := p.assignments()
	return len(sets) == 0
}

// assignments returns the SET fragments and their arguments in a fixed
// column order.
func (p MoviePatch) assignments() ([]string, []any) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.ReleaseDate != nil {
		add("release_date", *p.ReleaseDate)
	}
	if p.Overview != nil {
		add("overview", *p.Overview)
	}
	if p.Popularity != nil {
		add("popularity", *p.Popularity)
	}
	if p.VoteCount != nil {
		add("vote_count", *p.VoteCount)
	}
	if p.VoteAverage != nil {
		add("vote_average", *p.VoteAverage)
	}
	if p.OriginalLanguage != nil {
		add("original_language", *p.OriginalLanguage)
	}
	if p.Genre != nil {
		add("genre", *p.Genre)
	}
	if p.PosterURL != nil {
		add("poster_url", *p.PosterURL)
	}
	return sets, args
}

const qInsertMovie = `INSERT INTO movies (title, release_date, overview, popularity, vote_count,
	vote_average, original_language, genre, poster_url)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func insertArgs(m *model.Movie) []any {
	return []any{m.Title, nullable(m.ReleaseDate), nullable(m.Overview), nullable(m.Popularity),
		nullable(m.VoteCount), nullable(m.VoteAverage), nullable(m.OriginalLanguage),
		nullable(m.Genre), nullable(m.PosterURL)}
}

// nullable turns a nil pointer into SQL NULL and dereferences the rest.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// Create inserts a new movie and returns the stored row, including the
// id assigned by the database.  Insert and read-back share a transaction
// so the caller sees exactly what was committed.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) (*model.Movie, error) {
	var out *model.Movie
	err := r.withTx(ctx, nil, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, qInsertMovie, insertArgs(m)...)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		out, err = getByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBulk inserts all movies in a single transaction and fills in
// their ids.  Either every row is inserted or none is.
func (r *MovieRepo) CreateBulk(ctx context.Context, movies []*model.Movie) (int, error) {
	if len(movies) == 0 {
		return 0, nil
	}
	err := r.withTx(ctx, nil, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, qInsertMovie)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, m := range movies {
			res, err := stmt.ExecContext(ctx, insertArgs(m)...)
			if err != nil {
				return err
			}
			if m.ID, err = res.LastInsertId(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(movies), nil
}

// GetByID fetches a movie by its id.  It returns ErrMovieNotFound if no
// row matches.
func (r *MovieRepo) GetByID(ctx context.Context, id int64) (*model.Movie, error) {
	return getByID(ctx, r.db, id)
}

func getByID(ctx context.Context, q queryer, id int64) (*model.Movie, error) {
	const qSelect = "SELECT " + movieColumns + " FROM movies WHERE id = ?"
	m, err := scanMovie(q.QueryRowContext(ctx, qSelect, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return m, nil
}

// Update overwrites the supplied columns of one movie and returns the
// row as stored afterwards.  The UPDATE is a single statement, so either
// every supplied column is written or none is.  ErrMovieNotFound is
// returned when the id does not exist.
func (r *MovieRepo) Update(ctx context.Context, id int64, p MoviePatch) (*model.Movie, error) {
	sets, args := p.assignments()
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	q := "UPDATE movies SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	var out *model.Movie
	err := r.withTx(ctx, nil, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
		// MySQL reports zero affected rows for a no-op update, so existence
		// is decided by the read-back rather than RowsAffected.
		var err error
		out, err = getByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddVote folds one rating into the running average and bumps the vote
// count:
//
//	new_average = (old_average * old_count + rating) / (old_count + 1)
//
// The read and the write happen inside one UPDATE statement, so two
// concurrent votes on the same movie cannot lose an update.  vote_average
// is assigned before vote_count because MySQL evaluates single-table SET
// clauses left to right.
func (r *MovieRepo) AddVote(ctx context.Context, id int64, rating float64) (*model.Movie, error) {
	const q = `UPDATE movies SET
		vote_average = (COALESCE(vote_average, 0) * COALESCE(vote_count, 0) + ?) / (COALESCE(vote_count, 0) + 1),
		vote_count   = COALESCE(vote_count, 0) + 1
		WHERE id = ?`

	var out *model.Movie
	err := r.withTx(ctx, nil, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, q, rating, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrMovieNotFound
		}
		out, err = getByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a movie.  A missing id yields ErrMovieNotFound, so a
// second delete of the same id is distinguishable from the first.
func (r *MovieRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// DeleteCriteria selects the rows removed by DeleteByCriteria.  Supplied
// predicates are combined with AND.
type DeleteCriteria struct {
	BeforeDate *string  // release_date < BeforeDate
	MinRating  *float64 // vote_average < MinRating
	MinVotes   *int64   // vote_count < MinVotes
}

// DeleteByCriteria removes every movie matching the criteria and returns
// how many rows were deleted.
func (r *MovieRepo) DeleteByCriteria(ctx context.Context, c DeleteCriteria) (int64, error) {
	var where []string
	var args []any
	if c.BeforeDate != nil {
		where = append(where, "release_date < ?")
		args = append(args, *c.BeforeDate)
	}
	if c.MinRating != nil {
		where = append(where, "vote_average < ?")
		args = append(args, *c.MinRating)
	}
	if c.MinVotes != nil {
		where = append(where, "vote_count < ?")
		args = append(args, *c.MinVotes)
	}
	if len(where) == 0 {
		return 0, ErrNoCriteria
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM movies WHERE "+strings.Join(where, " AND "), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// withTx runs fn inside a transaction, committing when fn succeeds and
// rolling back otherwise.
func (r *MovieRepo) withTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
