// Package repository contains the SQL behind the movie catalog.  Every
// statement uses `?` placeholders only; user input never reaches the
// statement text.  The sentinel values below let the service layer tell
// a missing row apart from a storage failure.
package repository

import "errors"

// ErrMovieNotFound is returned when an id-keyed statement matches no
// row.  The service layer translates it into a NotFoundError.
var ErrMovieNotFound = errors.New("movie not found")

// ErrNoCriteria is returned by DeleteByCriteria when no predicate was
// supplied; an unconstrained delete would empty the table.
var ErrNoCriteria = errors.New("at least one deletion criterion is required")
