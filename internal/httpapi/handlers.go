package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/huangsam/salespulse/core"
	"github.com/huangsam/salespulse/internal/contract"
)

// analysisQuery is the query string shared by the analysis endpoints.
type analysisQuery struct {
	Start     string  `json:"start" validate:"omitempty,monthdate"`
	End       string  `json:"end" validate:"omitempty,monthdate"`
	Branches  string  `json:"branches" validate:"omitempty,max=512"`
	Dimension string  `json:"dimension" validate:"omitempty,oneof=product branch"`
	Limit     int     `json:"limit" validate:"omitempty,min=1,max=1000"`
	Alpha     float64 `json:"alpha" validate:"omitempty,gt=0,lt=1"`
}

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report query parameter names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("monthdate", func(fl validator.FieldLevel) bool {
		_, err := contract.ParseMonthDate(fl.Field().String())
		return err == nil
	})
	return v
}

// parseQuery decodes and validates an analysis query string.
func (s *Server) parseQuery(values url.Values) (analysisQuery, error) {
	q := analysisQuery{
		Start:     values.Get("start"),
		End:       values.Get("end"),
		Branches:  values.Get("branches"),
		Dimension: values.Get("dimension"),
	}
	if v := values.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, fmt.Errorf("%w: limit must be an integer", contract.ErrInvalidInput)
		}
		q.Limit = n
	}
	if v := values.Get("alpha"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return q, fmt.Errorf("%w: alpha must be a number", contract.ErrInvalidInput)
		}
		q.Alpha = f
	}

	if err := s.validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return q, fmt.Errorf("%w: %s fails '%s'", contract.ErrInvalidInput, fe.Field(), fe.Tag())
		}
		return q, err
	}
	return q, nil
}

// configFor resolves the per-request config for r.
func (s *Server) configFor(r *http.Request) (*contract.Config, error) {
	q, err := s.parseQuery(r.URL.Query())
	if err != nil {
		return nil, err
	}
	return s.baseCfg.WithOverrides(contract.Overrides{
		Start:     q.Start,
		End:       q.End,
		Branches:  q.Branches,
		Dimension: q.Dimension,
		Limit:     q.Limit,
		Alpha:     q.Alpha,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, RequestID: requestID(w)})
}

// fail maps analysis errors to status codes. Input errors are the caller's fault.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, contract.ErrInvalidInput),
		errors.Is(err, contract.ErrInvalidRange),
		errors.Is(err, contract.ErrBranchCount):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		contract.LoggerFrom(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("analysis failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// builder runs one analysis for a resolved config.
type builder func(ctx context.Context, cfg *contract.Config) (any, error)

// analysis adapts a builder to an endpoint.
func (s *Server) analysis(build builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := s.configFor(r)
		if err != nil {
			fail(w, r, err)
			return
		}
		res, err := build(r.Context(), cfg)
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := s.src.ListBranches(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, branches)
}

func (s *Server) compare(ctx context.Context, cfg *contract.Config) (any, error) {
	return core.CompareBranches(ctx, cfg, s.src)
}

func (s *Server) trend(ctx context.Context, cfg *contract.Config) (any, error) {
	return core.BuildTrend(ctx, cfg, s.src)
}

func (s *Server) pareto(ctx context.Context, cfg *contract.Config) (any, error) {
	return core.BuildPareto(ctx, cfg, s.src)
}

func (s *Server) growth(ctx context.Context, cfg *contract.Config) (any, error) {
	return core.BuildGrowth(ctx, cfg, s.src)
}

func (s *Server) summary(ctx context.Context, cfg *contract.Config) (any, error) {
	return core.BuildSummary(ctx, cfg, s.src)
}

func (s *Server) report(ctx context.Context, cfg *contract.Config) (any, error) {
	return core.BuildReport(ctx, cfg, s.src)
}
