// Package service implements MovieStore, the catalog's operation set:
// it validates typed requests, maps them onto repository statements and
// shapes the results.  Every method returns either a result or a *Error
// of kind ValidationError, NotFoundError or StorageError.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/movie-catalog/internal/logging"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// Repository is the storage contract MovieStore depends on.  It is
// satisfied by *repository.MovieRepo.
type Repository interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, m *model.Movie) (*model.Movie, error)
	CreateBulk(ctx context.Context, movies []*model.Movie) (int, error)
	GetByID(ctx context.Context, id int64) (*model.Movie, error)
	Search(ctx context.Context, q repository.MovieSearchQuery) ([]*model.Movie, error)
	Update(ctx context.Context, id int64, p repository.MoviePatch) (*model.Movie, error)
	AddVote(ctx context.Context, id int64, rating float64) (*model.Movie, error)
	Delete(ctx context.Context, id int64) error
	DeleteByCriteria(ctx context.Context, c repository.DeleteCriteria) (int64, error)
	Statistics(ctx context.Context, topN int) (*model.Statistics, error)
}

// MovieStore owns the movie catalog operations.  It keeps no mutable
// state of its own: concurrency control is left to the store's
// transactions, so a single MovieStore is shared by all callers.
type MovieStore struct {
	repo  Repository
	hooks []MutationHook
	now   func() time.Time
}

// NewMovieStore constructs a MovieStore.  Hooks are notified, in order,
// after every committed mutation.
func NewMovieStore(repo Repository, hooks ...MutationHook) *MovieStore {
	if repo == nil {
		panic("nil repository passed to NewMovieStore")
	}
	return &MovieStore{repo: repo, hooks: hooks, now: time.Now}
}

// Init ensures the schema exists.  It is idempotent.
func (s *MovieStore) Init(ctx context.Context) error {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return storageError("ensure schema", err)
	}
	return nil
}

// CreateResult is returned by Create.
type CreateResult struct {
	ID    int64        `json:"id"`
	Movie *model.Movie `json:"movie"`
}

// MovieList is the result of every search operation.  An empty list is
// a successful result.
type MovieList struct {
	Movies []*model.Movie `json:"movies"`
	Count  int            `json:"count"`
}

// VoteResult is returned by AddVote.
type VoteResult struct {
	Movie      *model.Movie `json:"movie"`
	NewAverage float64      `json:"new_average"`
	TotalVotes int64        `json:"total_votes"`
}

// DeleteResult is returned by Delete.
type DeleteResult struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

// BulkCreateResult is returned by CreateBulk.
type BulkCreateResult struct {
	Created int     `json:"created"`
	IDs     []int64 `json:"ids"`
}

// BulkDeleteResult is returned by DeleteByCriteria.
type BulkDeleteResult struct {
	Deleted int64 `json:"deleted"`
}

// Create validates and inserts one movie.  Omitted vote_count and
// vote_average default to 0; other omitted fields are stored as NULL.
func (s *MovieStore) Create(ctx context.Context, req CreateMovieRequest) (*CreateResult, error) {
	m, err := movieFromRequest(req)
	if err != nil {
		return nil, err
	}
	stored, err := s.repo.Create(ctx, m)
	if err != nil {
		return nil, s.fail("create movie", 0, err)
	}
	s.notify(ctx, Change{Action: ActionCreated, MovieID: stored.ID, Movie: stored})
	return &CreateResult{ID: stored.ID, Movie: stored}, nil
}

// CreateBulk validates every request first and then inserts all of
// them in one transaction.  A single invalid row rejects the batch.
func (s *MovieStore) CreateBulk(ctx context.Context, reqs []CreateMovieRequest) (*BulkCreateResult, error) {
	movies := make([]*model.Movie, 0, len(reqs))
	for i, req := range reqs {
		m, err := movieFromRequest(req)
		if err != nil {
			var e *Error
			if errors.As(err, &e) {
				e.Field = fmt.Sprintf("movies[%d].%s", i, e.Field)
				e.Message = fmt.Sprintf("movies[%d]: %s", i, e.Message)
			}
			return nil, err
		}
		movies = append(movies, m)
	}
	n, err := s.repo.CreateBulk(ctx, movies)
	if err != nil {
		return nil, s.fail("create movies", 0, err)
	}
	ids := make([]int64, 0, n)
	for _, m := range movies {
		ids = append(ids, m.ID)
	}
	s.notify(ctx, Change{Action: ActionBulkCreated, Count: int64(n)})
	return &BulkCreateResult{Created: n, IDs: ids}, nil
}

func movieFromRequest(req CreateMovieRequest) (*model.Movie, error) {
	req.ReleaseDate = blankToNil(req.ReleaseDate)
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	zeroVotes, zeroAverage := int64(0), 0.0
	m := &model.Movie{
		Title:            strings.TrimSpace(req.Title),
		ReleaseDate:      req.ReleaseDate,
		Overview:         req.Overview,
		Popularity:       req.Popularity,
		VoteCount:        req.VoteCount,
		VoteAverage:      req.VoteAverage,
		OriginalLanguage: req.OriginalLanguage,
		Genre:            req.Genre,
		PosterURL:        req.PosterURL,
	}
	if m.VoteCount == nil {
		m.VoteCount = &zeroVotes
	}
	if m.VoteAverage == nil {
		m.VoteAverage = &zeroAverage
	}
	return m, nil
}

// Get returns one movie by id.
func (s *MovieStore) Get(ctx context.Context, req GetMovieRequest) (*model.Movie, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	m, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, s.fail("get movie", req.ID, err)
	}
	return m, nil
}

// SearchByTitle matches title substrings case-insensitively, most
// popular first.
func (s *MovieStore) SearchByTitle(ctx context.Context, req TitleSearchRequest) (*MovieList, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	return s.search(ctx, "search by title", repository.MovieSearchQuery{
		Title: strings.TrimSpace(req.TitleSearch),
		Order: repository.OrderPopularity,
		Limit: limitOr(req.Limit, DefaultTitleSearchLimit),
	})
}

// ByGenre matches the genre column as a case-insensitive substring.
func (s *MovieStore) ByGenre(ctx context.Context, req GenreRequest) (*MovieList, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	return s.search(ctx, "search by genre", repository.MovieSearchQuery{
		Genre: strings.TrimSpace(req.Genre),
		Order: repository.OrderPopularity,
		Limit: limitOr(req.Limit, DefaultGenreLimit),
	})
}

// ByYear matches movies released in the given calendar year.  Movies
// without a release date never match.
func (s *MovieStore) ByYear(ctx context.Context, req YearRequest) (*MovieList, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	return s.search(ctx, "search by year", repository.MovieSearchQuery{
		YearFrom: &req.Year,
		YearTo:   &req.Year,
		Order:    repository.OrderPopularity,
		Limit:    limitOr(req.Limit, DefaultYearLimit),
	})
}

// TopRated ranks movies with at least min_votes votes by average.
func (s *MovieStore) TopRated(ctx context.Context, req TopRatedRequest) (*MovieList, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	minVotes := int64(DefaultMinVotes)
	if req.MinVotes != nil {
		minVotes = *req.MinVotes
	}
	return s.search(ctx, "top rated", repository.MovieSearchQuery{
		MinVotes: &minVotes,
		Order:    repository.OrderTopRated,
		Limit:    limitOr(req.Limit, DefaultTopRatedLimit),
	})
}

// AdvancedSearch combines any supplied criteria with AND.  With no
// criteria it returns the first rows of the default ordering.
func (s *MovieStore) AdvancedSearch(ctx context.Context, req AdvancedSearchRequest) (*MovieList, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	if req.YearFrom != nil && req.YearTo != nil && *req.YearFrom > *req.YearTo {
		return nil, validationError("year_from", "year_from (%d) must not be after year_to (%d)", *req.YearFrom, *req.YearTo)
	}
	if req.MinRating != nil && req.MaxRating != nil && *req.MinRating > *req.MaxRating {
		return nil, validationError("min_rating", "min_rating (%g) must not exceed max_rating (%g)", *req.MinRating, *req.MaxRating)
	}
	return s.search(ctx, "advanced search", repository.MovieSearchQuery{
		Title:     trimmed(req.Title),
		Genre:     trimmed(req.Genre),
		Language:  trimmed(req.OriginalLanguage),
		MinRating: req.MinRating,
		MaxRating: req.MaxRating,
		YearFrom:  req.YearFrom,
		YearTo:    req.YearTo,
		Order:     repository.OrderPopularity,
		Limit:     limitOr(req.Limit, DefaultAdvancedLimit),
	})
}

// Recent returns movies released within the last `days` days, newest
// first.
func (s *MovieStore) Recent(ctx context.Context, req RecentMoviesRequest) (*MovieList, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	days := DefaultRecentDays
	if req.Days != nil {
		days = *req.Days
	}
	since := s.now().UTC().AddDate(0, 0, -days).Format(DateLayout)
	return s.search(ctx, "recent movies", repository.MovieSearchQuery{
		ReleasedFrom: since,
		Order:        repository.OrderRecent,
		Limit:        limitOr(req.Limit, DefaultRecentLimit),
	})
}

func (s *MovieStore) search(ctx context.Context, op string, q repository.MovieSearchQuery) (*MovieList, error) {
	movies, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, s.fail(op, 0, err)
	}
	return &MovieList{Movies: movies, Count: len(movies)}, nil
}

// Update applies a partial update.  Validation happens before any
// statement runs, and the repository writes all supplied columns in one
// statement, so a rejected update leaves the row untouched.
func (s *MovieStore) Update(ctx context.Context, req UpdateMovieRequest) (*model.Movie, error) {
	req.ReleaseDate = blankToNil(req.ReleaseDate)
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	patch := repository.MoviePatch{
		ReleaseDate:      req.ReleaseDate,
		Overview:         req.Overview,
		Popularity:       req.Popularity,
		VoteCount:        req.VoteCount,
		VoteAverage:      req.VoteAverage,
		OriginalLanguage: req.OriginalLanguage,
		Genre:            req.Genre,
		PosterURL:        req.PosterURL,
	}
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		patch.Title = &t
	}
	if patch.Empty() {
		return nil, validationError("", "no fields to update")
	}
	m, err := s.repo.Update(ctx, req.ID, patch)
	if err != nil {
		return nil, s.fail("update movie", req.ID, err)
	}
	s.notify(ctx, Change{Action: ActionUpdated, MovieID: m.ID, Movie: m})
	return m, nil
}

// AddVote folds one rating into the movie's running average.
func (s *MovieStore) AddVote(ctx context.Context, req AddVoteRequest) (*VoteResult, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	m, err := s.repo.AddVote(ctx, req.ID, *req.NewRating)
	if err != nil {
		return nil, s.fail("add vote", req.ID, err)
	}
	s.notify(ctx, Change{Action: ActionVoted, MovieID: m.ID, Movie: m})
	res := &VoteResult{Movie: m}
	if m.VoteAverage != nil {
		res.NewAverage = *m.VoteAverage
	}
	if m.VoteCount != nil {
		res.TotalVotes = *m.VoteCount
	}
	return res, nil
}

// Delete removes one movie.  Deleting a missing id is a NotFoundError.
func (s *MovieStore) Delete(ctx context.Context, req DeleteMovieRequest) (*DeleteResult, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, req.ID); err != nil {
		return nil, s.fail("delete movie", req.ID, err)
	}
	s.notify(ctx, Change{Action: ActionDeleted, MovieID: req.ID})
	return &DeleteResult{ID: req.ID, Deleted: true}, nil
}

// DeleteByCriteria removes every movie matching all supplied criteria.
func (s *MovieStore) DeleteByCriteria(ctx context.Context, req DeleteByCriteriaRequest) (*BulkDeleteResult, error) {
	req.BeforeDate = blankToNil(req.BeforeDate)
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	if req.BeforeDate == nil && req.MinRating == nil && req.MinVotes == nil {
		return nil, validationError("", "%s", repository.ErrNoCriteria.Error())
	}
	n, err := s.repo.DeleteByCriteria(ctx, repository.DeleteCriteria{
		BeforeDate: req.BeforeDate,
		MinRating:  req.MinRating,
		MinVotes:   req.MinVotes,
	})
	if err != nil {
		return nil, s.fail("delete movies", 0, err)
	}
	if n > 0 {
		s.notify(ctx, Change{Action: ActionBulkDeleted, Count: n})
	}
	return &BulkDeleteResult{Deleted: n}, nil
}

// Statistics returns the database-wide summary.  It never writes.
func (s *MovieStore) Statistics(ctx context.Context, _ StatisticsRequest) (*model.Statistics, error) {
	st, err := s.repo.Statistics(ctx, StatisticsTopN)
	if err != nil {
		return nil, s.fail("statistics", 0, err)
	}
	return st, nil
}

// fail maps a repository error onto the catalog error kinds.
func (s *MovieStore) fail(op string, id int64, err error) error {
	if errors.Is(err, repository.ErrMovieNotFound) {
		return notFoundError(id)
	}
	logging.Error().Err(err).Str("op", op).Int64("movie_id", id).Msg("storage failure")
	return storageError(op, err)
}

func (s *MovieStore) notify(ctx context.Context, c Change) {
	for _, h := range s.hooks {
		h.MovieChanged(ctx, c)
	}
}

func blankToNil(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// ValidateCreate reports whether req would be accepted by Create.
func ValidateCreate(req CreateMovieRequest) error {
	_, err := movieFromRequest(req)
	return err
}
