package service

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

type recordingHook struct {
	mu      sync.Mutex
	changes []Change
}

func (h *recordingHook) MovieChanged(_ context.Context, c Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.changes = append(h.changes, c)
}

func (h *recordingHook) actions() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.changes))
	for i, c := range h.changes {
		out[i] = c.Action
	}
	return out
}

func newTestStore(t *testing.T, hooks ...MutationHook) *MovieStore {
	t.Helper()
	db, d, err := database.Open(database.Options{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "catalog.db"),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	s := NewMovieStore(repository.NewMovieRepo(db, d), hooks...)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s
}

func strp(s string) *string   { return &s }
func f64p(f float64) *float64 { return &f }
func i64p(n int64) *int64     { return &n }
func intp(n int) *int         { return &n }

func mustCreate(t *testing.T, s *MovieStore, req CreateMovieRequest) int64 {
	t.Helper()
	res, err := s.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("create %q: %v", req.Title, err)
	}
	return res.ID
}

func assertKind(t *testing.T, err error, kind ErrorKind, field string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("kind = %s, want %s (err: %v)", got, kind, err)
	}
	if field != "" && FieldOf(err) != field {
		t.Fatalf("field = %q, want %q (err: %v)", FieldOf(err), field, err)
	}
}

func TestCreate_ThenGetReturnsSuppliedRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	req := CreateMovieRequest{
		Title:            "Alpha",
		ReleaseDate:      strp("2020-02-29"),
		Overview:         strp("A leap-day premiere."),
		Popularity:       f64p(12.5),
		VoteCount:        i64p(1),
		VoteAverage:      f64p(5),
		OriginalLanguage: strp("en"),
		Genre:            strp("Drama, Thriller"),
		PosterURL:        strp("/alpha.jpg"),
	}
	res, err := s.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.Get(ctx, GetMovieRequest{ID: res.ID})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := &model.Movie{
		ID: res.ID, Title: req.Title, ReleaseDate: req.ReleaseDate, Overview: req.Overview,
		Popularity: req.Popularity, VoteCount: req.VoteCount, VoteAverage: req.VoteAverage,
		OriginalLanguage: req.OriginalLanguage, Genre: req.Genre, PosterURL: req.PosterURL,
	}
	if !moviesEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if !moviesEqual(res.Movie, want) {
		t.Errorf("create returned %+v", res.Movie)
	}
}

func TestCreate_DefaultsVoteColumns(t *testing.T) {
	s := newTestStore(t)
	res, err := s.Create(context.Background(), CreateMovieRequest{Title: "  Padded  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	m := res.Movie
	if m.Title != "Padded" {
		t.Errorf("title = %q, want trimmed", m.Title)
	}
	if *m.VoteCount != 0 || *m.VoteAverage != 0 {
		t.Errorf("vote defaults = %v/%v, want 0/0", *m.VoteCount, *m.VoteAverage)
	}
	if m.ReleaseDate != nil || m.Genre != nil {
		t.Errorf("omitted fields should be null: %+v", m)
	}
}

func TestCreate_Validation(t *testing.T) {
	s := newTestStore(t)
	tests := []struct {
		name  string
		req   CreateMovieRequest
		field string
	}{
		{"empty title", CreateMovieRequest{Title: ""}, "title"},
		{"blank title", CreateMovieRequest{Title: "   "}, "title"},
		{"bad date", CreateMovieRequest{Title: "x", ReleaseDate: strp("22/12/2021")}, "release_date"},
		{"impossible date", CreateMovieRequest{Title: "x", ReleaseDate: strp("2021-02-30")}, "release_date"},
		{"datetime", CreateMovieRequest{Title: "x", ReleaseDate: strp("2021-12-22T00:00:00Z")}, "release_date"},
		{"rating too high", CreateMovieRequest{Title: "x", VoteAverage: f64p(10.5)}, "vote_average"},
		{"rating negative", CreateMovieRequest{Title: "x", VoteAverage: f64p(-1)}, "vote_average"},
		{"negative votes", CreateMovieRequest{Title: "x", VoteCount: i64p(-3)}, "vote_count"},
		{"negative popularity", CreateMovieRequest{Title: "x", Popularity: f64p(-0.1)}, "popularity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), tt.req)
			assertKind(t, err, KindValidation, tt.field)
		})
	}
}

func TestCreate_EmptyReleaseDateIsAbsent(t *testing.T) {
	s := newTestStore(t)
	res, err := s.Create(context.Background(), CreateMovieRequest{Title: "No date", ReleaseDate: strp("")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Movie.ReleaseDate != nil {
		t.Errorf("release_date = %q, want null", *res.Movie.ReleaseDate)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), GetMovieRequest{ID: 123})
	assertKind(t, err, KindNotFound, "")
}

func TestGet_MissingID(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), GetMovieRequest{})
	assertKind(t, err, KindValidation, "id")
}

func TestDelete_ThenGetAndDeleteAgainAreNotFound(t *testing.T) {
	hook := &recordingHook{}
	s := newTestStore(t, hook)
	ctx := context.Background()
	id := mustCreate(t, s, CreateMovieRequest{Title: "Ephemeral"})

	res, err := s.Delete(ctx, DeleteMovieRequest{ID: id})
	if err != nil || !res.Deleted {
		t.Fatalf("Delete: %v %+v", err, res)
	}
	_, err = s.Get(ctx, GetMovieRequest{ID: id})
	assertKind(t, err, KindNotFound, "")
	_, err = s.Delete(ctx, DeleteMovieRequest{ID: id})
	assertKind(t, err, KindNotFound, "")

	if got := hook.actions(); len(got) != 2 || got[0] != ActionCreated || got[1] != ActionDeleted {
		t.Errorf("hook actions = %v", got)
	}
}

func TestAddVote_Example(t *testing.T) {
	s := newTestStore(t)
	id := mustCreate(t, s, CreateMovieRequest{Title: "Alpha", VoteAverage: f64p(5), VoteCount: i64p(1)})

	res, err := s.AddVote(context.Background(), AddVoteRequest{ID: id, NewRating: f64p(9)})
	if err != nil {
		t.Fatalf("AddVote: %v", err)
	}
	if res.NewAverage != 7.0 || res.TotalVotes != 2 {
		t.Errorf("got %v/%d, want 7.0/2", res.NewAverage, res.TotalVotes)
	}
}

func TestAddVote_SequenceMatchesBatchAverage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := mustCreate(t, s, CreateMovieRequest{Title: "Batch"})

	var last *VoteResult
	for _, r := range []float64{8, 6, 7} {
		res, err := s.AddVote(ctx, AddVoteRequest{ID: id, NewRating: f64p(r)})
		if err != nil {
			t.Fatalf("AddVote(%v): %v", r, err)
		}
		last = res
	}
	if last.TotalVotes != 3 || math.Abs(last.NewAverage-7.0) > 1e-9 {
		t.Errorf("got %v/%d, want 7/3", last.NewAverage, last.TotalVotes)
	}
}

func TestAddVote_ZeroRatingIsValid(t *testing.T) {
	s := newTestStore(t)
	id := mustCreate(t, s, CreateMovieRequest{Title: "Harsh"})
	res, err := s.AddVote(context.Background(), AddVoteRequest{ID: id, NewRating: f64p(0)})
	if err != nil {
		t.Fatalf("AddVote: %v", err)
	}
	if res.TotalVotes != 1 || res.NewAverage != 0 {
		t.Errorf("got %v/%d", res.NewAverage, res.TotalVotes)
	}
}

func TestAddVote_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := mustCreate(t, s, CreateMovieRequest{Title: "V"})

	_, err := s.AddVote(ctx, AddVoteRequest{ID: id, NewRating: f64p(11)})
	assertKind(t, err, KindValidation, "new_rating")
	_, err = s.AddVote(ctx, AddVoteRequest{ID: id, NewRating: f64p(-0.5)})
	assertKind(t, err, KindValidation, "new_rating")
	_, err = s.AddVote(ctx, AddVoteRequest{ID: id})
	assertKind(t, err, KindValidation, "new_rating")
	_, err = s.AddVote(ctx, AddVoteRequest{ID: id + 100, NewRating: f64p(5)})
	assertKind(t, err, KindNotFound, "")
}

func TestAddVote_ConcurrentVotesAreNotLost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := mustCreate(t, s, CreateMovieRequest{Title: "Contended"})

	const voters = 20
	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AddVote(ctx, AddVoteRequest{ID: id, NewRating: f64p(10)}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent AddVote: %v", err)
	}

	m, err := s.Get(ctx, GetMovieRequest{ID: id})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *m.VoteCount != voters || *m.VoteAverage != 10 {
		t.Errorf("got %v votes averaging %v, want %d averaging 10", *m.VoteCount, *m.VoteAverage, voters)
	}
}

func TestUpdate_Partial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := mustCreate(t, s, CreateMovieRequest{Title: "Draft", Genre: strp("Drama"), VoteAverage: f64p(6)})

	m, err := s.Update(ctx, UpdateMovieRequest{ID: id, Title: strp("Final"), Popularity: f64p(4)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if m.Title != "Final" || *m.Popularity != 4 || *m.Genre != "Drama" || *m.VoteAverage != 6 {
		t.Errorf("unexpected row %+v", m)
	}
}

func TestUpdate_BlankReleaseDateIsOmitted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := mustCreate(t, s, CreateMovieRequest{Title: "Dated", ReleaseDate: strp("1999-03-31")})

	m, err := s.Update(ctx, UpdateMovieRequest{ID: id, Title: strp("Still Dated"), ReleaseDate: strp("")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if m.ReleaseDate == nil || *m.ReleaseDate != "1999-03-31" {
		t.Errorf("release_date = %v, want 1999-03-31", m.ReleaseDate)
	}

	_, err = s.Update(ctx, UpdateMovieRequest{ID: id, ReleaseDate: strp("  ")})
	assertKind(t, err, KindValidation, "")
}

func TestUpdate_InvalidFieldLeavesRowUntouched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := mustCreate(t, s, CreateMovieRequest{Title: "Stable", VoteAverage: f64p(6)})

	_, err := s.Update(ctx, UpdateMovieRequest{ID: id, Title: strp("Changed"), VoteAverage: f64p(42)})
	assertKind(t, err, KindValidation, "vote_average")

	m, err := s.Get(ctx, GetMovieRequest{ID: id})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m.Title != "Stable" || *m.VoteAverage != 6 {
		t.Errorf("row changed after rejected update: %+v", m)
	}
}

func TestUpdate_Errors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := mustCreate(t, s, CreateMovieRequest{Title: "U"})

	_, err := s.Update(ctx, UpdateMovieRequest{ID: id, Title: strp("  ")})
	assertKind(t, err, KindValidation, "title")
	_, err = s.Update(ctx, UpdateMovieRequest{ID: id, ReleaseDate: strp("2021-13-01")})
	assertKind(t, err, KindValidation, "release_date")
	_, err = s.Update(ctx, UpdateMovieRequest{ID: id})
	assertKind(t, err, KindValidation, "")
	_, err = s.Update(ctx, UpdateMovieRequest{ID: id + 1, Title: strp("ghost")})
	assertKind(t, err, KindNotFound, "")
}

func seed(t *testing.T, s *MovieStore) {
	t.Helper()
	for _, req := range []CreateMovieRequest{
		{Title: "Dune", ReleaseDate: strp("2021-09-15"), Popularity: f64p(300), VoteCount: i64p(9000), VoteAverage: f64p(7.8), OriginalLanguage: strp("en"), Genre: strp("Science Fiction, Adventure")},
		{Title: "Dune", ReleaseDate: strp("1984-12-14"), Popularity: f64p(40), VoteCount: i64p(2500), VoteAverage: f64p(6.3), OriginalLanguage: strp("en"), Genre: strp("Science Fiction")},
		{Title: "Tenet", ReleaseDate: strp("2020-08-22"), Popularity: f64p(150), VoteCount: i64p(8000), VoteAverage: f64p(7.2), OriginalLanguage: strp("en"), Genre: strp("Action, Thriller")},
		{Title: "Soul", ReleaseDate: strp("2020-12-25"), Popularity: f64p(200), VoteCount: i64p(7000), VoteAverage: f64p(8.2), OriginalLanguage: strp("en"), Genre: strp("Animation, Comedy")},
		{Title: "Minari", ReleaseDate: strp("2020-12-11"), Popularity: f64p(30), VoteCount: i64p(900), VoteAverage: f64p(7.4), OriginalLanguage: strp("ko"), Genre: strp("Drama")},
		{Title: "Undated Gem", VoteCount: i64p(5), VoteAverage: f64p(9.9), Genre: strp("Drama")},
	} {
		mustCreate(t, s, req)
	}
}

func listTitles(l *MovieList) []string {
	out := make([]string, len(l.Movies))
	for i, m := range l.Movies {
		out[i] = m.Title
	}
	return out
}

func TestSearchByTitle_DefaultOrderingAndLimit(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	l, err := s.SearchByTitle(ctx, TitleSearchRequest{TitleSearch: "dUn"})
	if err != nil {
		t.Fatalf("SearchByTitle: %v", err)
	}
	if l.Count != 2 || *l.Movies[0].ReleaseDate != "2021-09-15" {
		t.Errorf("got %v", listTitles(l))
	}

	_, err = s.SearchByTitle(ctx, TitleSearchRequest{TitleSearch: "dune", Limit: intp(0)})
	assertKind(t, err, KindValidation, "limit")
	_, err = s.SearchByTitle(ctx, TitleSearchRequest{TitleSearch: ""})
	assertKind(t, err, KindValidation, "title_search")
}

func TestAdvancedSearch_NoParamsMatchesDefaultOrdering(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)

	l, err := s.AdvancedSearch(context.Background(), AdvancedSearchRequest{Limit: intp(4)})
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}
	want := []string{"Dune", "Soul", "Tenet", "Dune"}
	got := listTitles(l)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestAdvancedSearch_YearEqualsByYear(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	byYear, err := s.ByYear(ctx, YearRequest{Year: 2020})
	if err != nil {
		t.Fatalf("ByYear: %v", err)
	}
	adv, err := s.AdvancedSearch(ctx, AdvancedSearchRequest{YearFrom: intp(2020), YearTo: intp(2020)})
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}
	if a, b := listTitles(byYear), listTitles(adv); len(a) != 3 || len(a) != len(b) {
		t.Fatalf("by year %v vs advanced %v", a, b)
	}
	for i := range byYear.Movies {
		if byYear.Movies[i].ID != adv.Movies[i].ID {
			t.Errorf("position %d: %d vs %d", i, byYear.Movies[i].ID, adv.Movies[i].ID)
		}
	}

	narrowed, err := s.AdvancedSearch(ctx, AdvancedSearchRequest{YearFrom: intp(2020), YearTo: intp(2020), OriginalLanguage: strp("ko")})
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}
	if got := listTitles(narrowed); len(got) != 1 || got[0] != "Minari" {
		t.Errorf("got %v, want [Minari]", got)
	}
}

func TestAdvancedSearch_CrossFieldValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AdvancedSearch(ctx, AdvancedSearchRequest{YearFrom: intp(2021), YearTo: intp(2020)})
	assertKind(t, err, KindValidation, "year_from")
	_, err = s.AdvancedSearch(ctx, AdvancedSearchRequest{MinRating: f64p(8), MaxRating: f64p(7)})
	assertKind(t, err, KindValidation, "min_rating")
	_, err = s.AdvancedSearch(ctx, AdvancedSearchRequest{MaxRating: f64p(11)})
	assertKind(t, err, KindValidation, "max_rating")
}

func TestTopRated_DefaultVoteFloor(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	l, err := s.TopRated(ctx, TopRatedRequest{})
	if err != nil {
		t.Fatalf("TopRated: %v", err)
	}
	for _, m := range l.Movies {
		if *m.VoteCount < DefaultMinVotes {
			t.Errorf("%q below default vote floor", m.Title)
		}
	}
	if l.Movies[0].Title != "Soul" {
		t.Errorf("top = %q, want Soul", l.Movies[0].Title)
	}

	l, err = s.TopRated(ctx, TopRatedRequest{MinVotes: i64p(1000)})
	if err != nil {
		t.Fatalf("TopRated: %v", err)
	}
	for _, m := range l.Movies {
		if *m.VoteCount < 1000 {
			t.Errorf("%q has %d votes", m.Title, *m.VoteCount)
		}
	}
	if l.Count != 4 {
		t.Errorf("count = %d, want 4", l.Count)
	}
}

func TestByGenre(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)

	l, err := s.ByGenre(context.Background(), GenreRequest{Genre: "science"})
	if err != nil {
		t.Fatalf("ByGenre: %v", err)
	}
	if l.Count != 2 || *l.Movies[0].Popularity != 300 {
		t.Errorf("got %v", listTitles(l))
	}
}

func TestRecent_UsesClock(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)
	s.now = func() time.Time { return time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC) }

	l, err := s.Recent(context.Background(), RecentMoviesRequest{Days: intp(30)})
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	want := []string{"Dune", "Soul", "Minari"}
	if got := listTitles(l); len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCreateBulk_RejectsWholeBatch(t *testing.T) {
	hook := &recordingHook{}
	s := newTestStore(t, hook)
	ctx := context.Background()

	_, err := s.CreateBulk(ctx, []CreateMovieRequest{{Title: "ok"}, {Title: ""}})
	assertKind(t, err, KindValidation, "movies[1].title")

	st, err := s.Statistics(ctx, StatisticsRequest{})
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if st.TotalMovies != 0 {
		t.Errorf("partial batch persisted: %d rows", st.TotalMovies)
	}

	res, err := s.CreateBulk(ctx, []CreateMovieRequest{{Title: "a"}, {Title: "b"}})
	if err != nil {
		t.Fatalf("CreateBulk: %v", err)
	}
	if res.Created != 2 || len(res.IDs) != 2 {
		t.Errorf("unexpected result %+v", res)
	}
	if got := hook.actions(); len(got) != 1 || got[0] != ActionBulkCreated {
		t.Errorf("hook actions = %v", got)
	}
}

func TestDeleteByCriteria(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	_, err := s.DeleteByCriteria(ctx, DeleteByCriteriaRequest{})
	assertKind(t, err, KindValidation, "")

	res, err := s.DeleteByCriteria(ctx, DeleteByCriteriaRequest{BeforeDate: strp("2000-01-01")})
	if err != nil {
		t.Fatalf("DeleteByCriteria: %v", err)
	}
	if res.Deleted != 1 {
		t.Errorf("deleted %d, want 1", res.Deleted)
	}
}

func TestStatistics_GenreTokensCounted(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)

	st, err := s.Statistics(context.Background(), StatisticsRequest{})
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	var sum int64
	for _, g := range st.TopGenres {
		sum += g.Count
	}
	if sum < st.TotalMovies {
		t.Errorf("genre token sum %d < total rows %d", sum, st.TotalMovies)
	}
	if st.TotalMovies != 6 {
		t.Errorf("total = %d, want 6", st.TotalMovies)
	}
	var dated int64
	for _, d := range st.MoviesByDecade {
		dated += d.Count
	}
	if dated != 5 {
		t.Errorf("decade buckets hold %d rows, want 5 dated rows", dated)
	}
}

type failingRepo struct{ Repository }

func (failingRepo) GetByID(context.Context, int64) (*model.Movie, error) {
	return nil, errors.New("disk I/O error")
}

func TestStorageErrorsAreClassified(t *testing.T) {
	s := NewMovieStore(failingRepo{})
	_, err := s.Get(context.Background(), GetMovieRequest{ID: 1})
	assertKind(t, err, KindStorage, "")
	var e *Error
	if !errors.As(err, &e) || e.Err == nil {
		t.Fatalf("storage error should wrap the cause: %v", err)
	}
}

func moviesEqual(a, b *model.Movie) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Title == b.Title &&
		eqPtr(a.ReleaseDate, b.ReleaseDate) && eqPtr(a.Overview, b.Overview) &&
		eqPtr(a.Popularity, b.Popularity) && eqPtr(a.VoteCount, b.VoteCount) &&
		eqPtr(a.VoteAverage, b.VoteAverage) && eqPtr(a.OriginalLanguage, b.OriginalLanguage) &&
		eqPtr(a.Genre, b.Genre) && eqPtr(a.PosterURL, b.PosterURL)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
