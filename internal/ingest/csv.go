// Package ingest loads the TMDB-style movie CSV export into the catalog.
package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/movie-catalog/internal/logging"
	"github.com/iliyamo/movie-catalog/internal/service"
)

// DefaultBatchSize is the number of rows inserted per transaction.
const DefaultBatchSize = 500

// Column headers of the dataset, matched case-insensitively.
const (
	colReleaseDate      = "release_date"
	colTitle            = "title"
	colOverview         = "overview"
	colPopularity       = "popularity"
	colVoteCount        = "vote_count"
	colVoteAverage      = "vote_average"
	colOriginalLanguage = "original_language"
	colGenre            = "genre"
	colPosterURL        = "poster_url"
)

// Creator is the part of the store the loader needs.
type Creator interface {
	CreateBulk(ctx context.Context, reqs []service.CreateMovieRequest) (*service.BulkCreateResult, error)
}

// Stats summarises one load.
type Stats struct {
	Rows     int // data rows read
	Skipped  int // malformed, untitled or invalid rows
	Inserted int
}

// Loader reads CSV rows and inserts them in batches.
type Loader struct {
	Store     Creator
	BatchSize int
}

// Load reads the whole of r.  Rows without a title, unparsable rows and
// rows the catalog would reject are skipped and logged; a read or
// storage failure aborts the load after the batches already committed.
func (l *Loader) Load(ctx context.Context, r io.Reader) (Stats, error) {
	var st Stats
	size := l.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return st, fmt.Errorf("read header: %w", err)
	}
	idx := headerIndex(header)
	if _, ok := idx[colTitle]; !ok {
		return st, errors.New("csv has no Title column")
	}

	batch := make([]service.CreateMovieRequest, 0, size)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		res, err := l.Store.CreateBulk(ctx, batch)
		if err != nil {
			return err
		}
		st.Inserted += res.Created
		batch = batch[:0]
		return nil
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		st.Rows++
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return st, fmt.Errorf("read row %d: %w", st.Rows, err)
			}
			st.Skipped++
			logging.Debug().Err(err).Int("row", st.Rows).Msg("skip malformed row")
			continue
		}
		req, ok := ParseRecord(idx, rec)
		if !ok {
			st.Skipped++
			continue
		}
		if err := service.ValidateCreate(req); err != nil {
			st.Skipped++
			logging.Debug().Err(err).Int("row", st.Rows).Str("field", service.FieldOf(err)).Msg("skip invalid row")
			continue
		}
		batch = append(batch, req)
		if len(batch) == size {
			if err := flush(); err != nil {
				return st, err
			}
		}
	}
	if err := flush(); err != nil {
		return st, err
	}
	return st, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		idx[h] = i
	}
	return idx
}

// ParseRecord maps one CSV record onto a create request.  It reports
// false for rows without a title.  Unparsable numbers and dates are
// treated as absent.
func ParseRecord(idx map[string]int, rec []string) (service.CreateMovieRequest, bool) {
	get := func(col string) string {
		if i, ok := idx[col]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	title := get(colTitle)
	if title == "" {
		return service.CreateMovieRequest{}, false
	}
	return service.CreateMovieRequest{
		Title:            title,
		ReleaseDate:      parseDate(get(colReleaseDate)),
		Overview:         optString(get(colOverview)),
		Popularity:       optFloat(get(colPopularity)),
		VoteCount:        optInt(get(colVoteCount)),
		VoteAverage:      optFloat(get(colVoteAverage)),
		OriginalLanguage: optString(get(colOriginalLanguage)),
		Genre:            optString(get(colGenre)),
		PosterURL:        optString(get(colPosterURL)),
	}, true
}

var dateLayouts = []string{service.DateLayout, "2006-01-02 15:04:05", time.RFC3339, "1/2/2006", "01/02/2006"}

func parseDate(s string) *string {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := t.Format(service.DateLayout)
			return &d
		}
	}
	return nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optFloat(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func optInt(s string) *int64 {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		n := int64(f)
		return &n
	}
	return nil
}
