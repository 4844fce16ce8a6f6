package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/wdm0006/classimpute/pkg/impute"
)

const (
	TypeValidation      = "/errors/validation"
	TypeInvalidTarget   = "/errors/invalid-target"
	TypeParseFailure    = "/errors/parse-failure"
	TypeDegenerateClass = "/errors/degenerate-class"
	TypePayloadTooLarge = "/errors/payload-too-large"
	TypeTimeout         = "/errors/timeout"
	TypeInternal        = "/errors/internal"
)

// Problem is an RFC 7807 problem document.
type Problem struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (p *Problem) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, p.Status)
	return nil
}

// problemFor maps an error from reading or imputing a table to a problem.
func problemFor(err error, r *http.Request) *Problem {
	p := &Problem{Instance: r.URL.Path, RequestID: RequestID(r.Context()), Detail: err.Error()}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		p.Type, p.Title, p.Status = TypePayloadTooLarge, "Payload Too Large", http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		p.Type, p.Title, p.Status = TypeTimeout, "Request Cancelled", http.StatusServiceUnavailable
	default:
		switch impute.KindOf(err) {
		case impute.KindInvalidTarget:
			p.Type, p.Title, p.Status = TypeInvalidTarget, "Invalid Target Column", http.StatusUnprocessableEntity
		case impute.KindDegenerateClassStatistic:
			p.Type, p.Title, p.Status = TypeDegenerateClass, "Degenerate Class Statistic", http.StatusUnprocessableEntity
		case impute.KindParseFailure:
			p.Type, p.Title, p.Status = TypeParseFailure, "Table Parse Failure", http.StatusBadRequest
		default:
			p.Type, p.Title, p.Status = TypeInternal, "Internal Server Error", http.StatusInternalServerError
		}
	}
	return p
}

func validationProblem(detail string, r *http.Request) *Problem {
	return &Problem{
		Type:      TypeValidation,
		Title:     "Validation Failed",
		Status:    http.StatusBadRequest,
		Detail:    detail,
		Instance:  r.URL.Path,
		RequestID: RequestID(r.Context()),
	}
}
