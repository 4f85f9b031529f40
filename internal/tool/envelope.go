package tool

import (
	"errors"

	"github.com/iliyamo/movie-catalog/internal/service"
)

// Envelope is the only wire shape of a tool result:
// {success: true, data} or {success: false, error, kind[, field]}.
type Envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Kind    service.ErrorKind `json:"kind,omitempty"`
	Field   string            `json:"field,omitempty"`
}

// OK wraps a successful result.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Fail wraps err.  Errors that are not *service.Error are reported as
// storage failures.
func Fail(err error) Envelope {
	var e *service.Error
	if errors.As(err, &e) {
		return Envelope{Error: e.Error(), Kind: e.Kind, Field: e.Field}
	}
	return Envelope{Error: err.Error(), Kind: service.KindStorage}
}

// Outcome labels the envelope for metrics and logs.
func (e Envelope) Outcome() string {
	if e.Success {
		return "ok"
	}
	return string(e.Kind)
}
