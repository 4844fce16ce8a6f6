package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	fr "github.com/wdm0006/classimpute/pkg/frame"
	"github.com/wdm0006/classimpute/pkg/impute"
	"github.com/wdm0006/classimpute/pkg/io/csvio"
	"github.com/wdm0006/classimpute/pkg/io/tableio"
	"github.com/wdm0006/classimpute/pkg/report"
)

var validate = validator.New()

type imputeQuery struct {
	Target   string `validate:"required"`
	Format   string `validate:"omitempty,oneof=csv tsv jsonl ndjson json parquet xlsx"`
	Policy   string `validate:"omitempty,oneof=leave_null error"`
	NoHeader bool
}

func parseQuery(r *http.Request, needTarget bool) (imputeQuery, error) {
	q := r.URL.Query()
	iq := imputeQuery{
		Target:   q.Get("target"),
		Format:   strings.ToLower(q.Get("format")),
		Policy:   strings.ToLower(q.Get("policy")),
		NoHeader: q.Get("header") == "false",
	}
	if !needTarget && iq.Target == "" {
		iq.Target = "-"
	}
	if err := validate.Struct(iq); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("query parameter %s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return iq, errors.New(strings.Join(msgs, "; "))
		}
		return iq, err
	}
	return iq, nil
}

func (s *Server) readTable(w http.ResponseWriter, r *http.Request, q imputeQuery) (*fr.Frame, error) {
	format := tableio.CSV
	if q.Format != "" {
		var err error
		if format, err = tableio.ParseFormat(q.Format); err != nil {
			return nil, err
		}
	}
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	f, err := tableio.Read(body, tableio.Options{Format: format, CSV: csvio.ReaderOptions{HasHeader: !q.NoHeader}})
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, impute.ParseFailure(err)
	}
	return f, nil
}

type imputeResponse struct {
	RequestID string `json:"request_id"`
	report.Document
	Data string `json:"data"`
}

func (s *Server) handleImpute(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, true)
	if err != nil {
		_ = render.Render(w, r, validationProblem(err.Error(), r))
		return
	}
	policy, _ := impute.ParseDegeneratePolicy(q.Policy)
	f, err := s.readTable(w, r, q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	log := s.logger.With(zap.String("request_id", RequestID(r.Context())))
	im := impute.New(
		impute.WithLogger(log),
		impute.WithPlaceholder(s.opts.Placeholder),
		impute.WithNumericStrategy(s.opts.Strategy),
		impute.WithDegeneratePolicy(policy),
	)
	res, err := im.Run(r.Context(), f, q.Target)
	if err != nil {
		s.metrics.runs.WithLabelValues(impute.KindOf(err).String()).Inc()
		s.fail(w, r, err)
		return
	}
	s.metrics.runs.WithLabelValues("ok").Inc()
	s.metrics.filled.Add(float64(res.Filled))
	s.metrics.unfilled.Add(float64(res.Unfilled))

	var buf bytes.Buffer
	if err := csvio.Write(&buf, res.Frame, csvio.WriterOptions{}); err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, imputeResponse{
		RequestID: RequestID(r.Context()),
		Document:  report.NewDocument(res),
		Data:      buf.String(),
	})
}

type missingResponse struct {
	RequestID string                `json:"request_id"`
	Rows      int                   `json:"rows"`
	Missing   []report.MissingEntry `json:"missing"`
}

func (s *Server) handleMissing(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, false)
	if err != nil {
		_ = render.Render(w, r, validationProblem(err.Error(), r))
		return
	}
	f, err := s.readTable(w, r, q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, missingResponse{
		RequestID: RequestID(r.Context()),
		Rows:      f.Rows(),
		Missing:   report.MissingEntries(impute.DetectMissing(f)),
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	p := problemFor(err, r)
	if p.Status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("request_id", p.RequestID), zap.Error(err))
	} else {
		s.logger.Info("request rejected", zap.String("request_id", p.RequestID), zap.String("problem", p.Type), zap.Error(err))
	}
	_ = render.Render(w, r, p)
}
