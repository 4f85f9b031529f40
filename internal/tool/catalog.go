package tool

import (
	"context"

	"github.com/iliyamo/movie-catalog/internal/service"
)

// Tool names of the catalog contract.
const (
	CreateMovie            = "create_movie"
	CreateMoviesBulk       = "create_movies_bulk"
	GetMovieByID           = "get_movie_by_id"
	SearchMoviesByTitle    = "search_movies_by_title"
	GetMoviesByGenre       = "get_movies_by_genre"
	GetMoviesByYear        = "get_movies_by_year"
	GetTopRatedMovies      = "get_top_rated_movies"
	AdvancedSearchMovies   = "advanced_search_movies"
	GetRecentMovies        = "get_recent_movies"
	UpdateMovie            = "update_movie"
	AddMovieVote           = "add_movie_vote"
	DeleteMovie            = "delete_movie"
	DeleteMoviesByCriteria = "delete_movies_by_criteria"
	GetDatabaseStatistics  = "get_database_statistics"
)

// CreateBulkRequest is the parameter set of create_movies_bulk.
type CreateBulkRequest struct {
	Movies []service.CreateMovieRequest `json:"movies" validate:"required"`
}

// NewCatalog registers every catalog tool against store.
func NewCatalog(store *service.MovieStore) *Registry {
	r := NewRegistry()

	Register(r, CreateMovie, "Create a movie and return it with its new id.", false, store.Create)
	Register(r, CreateMoviesBulk, "Create many movies in one transaction; one invalid row rejects the batch.", false,
		func(ctx context.Context, req CreateBulkRequest) (*service.BulkCreateResult, error) {
			if len(req.Movies) == 0 {
				return nil, invalid("movies", "movies must contain at least one movie")
			}
			return store.CreateBulk(ctx, req.Movies)
		})
	Register(r, GetMovieByID, "Fetch one movie by id.", true, store.Get)
	Register(r, SearchMoviesByTitle, "Case-insensitive title substring search, most popular first.", true, store.SearchByTitle)
	Register(r, GetMoviesByGenre, "Movies whose genre list contains the given text, most popular first.", true, store.ByGenre)
	Register(r, GetMoviesByYear, "Movies released in a calendar year, most popular first.", true, store.ByYear)
	Register(r, GetTopRatedMovies, "Highest rated movies with at least min_votes votes.", true, store.TopRated)
	Register(r, AdvancedSearchMovies, "Combine title, genre, language, rating and year criteria; all optional.", true, store.AdvancedSearch)
	Register(r, GetRecentMovies, "Movies released within the last days days, newest first.", true, store.Recent)
	Register(r, UpdateMovie, "Update the supplied fields of a movie. An empty release_date counts as omitted and keeps the stored date; dates cannot be cleared.", false, store.Update)
	Register(r, AddMovieVote, "Fold a 0-10 rating into the movie's running average.", false, store.AddVote)
	Register(r, DeleteMovie, "Delete a movie by id.", false, store.Delete)
	Register(r, DeleteMoviesByCriteria, "Delete every movie matching all supplied criteria.", false, store.DeleteByCriteria)
	Register(r, GetDatabaseStatistics, "Catalog-wide totals, rating summary, top genres and languages, decade histogram.", true, store.Statistics)

	return r
}
