package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"homespend/internal/core"
	"homespend/internal/middleware/trace"
)

// errorResponse is the JSON envelope for every non-2xx reply.
type errorResponse struct {
	Error     string   `json:"error"`
	RequestID string   `json:"request_id,omitempty"`
	Columns   []string `json:"columns,omitempty"`
}

// parseFilterSpec extracts the shared filter parameters from the query
// string. Absent parameters leave their predicate disabled.
func parseFilterSpec(r *http.Request) (core.FilterSpec, error) {
	q := r.URL.Query()
	spec := core.FilterSpec{
		Category:    strings.TrimSpace(q.Get("category")),
		Responsible: strings.TrimSpace(q.Get("responsible")),
		Bank:        strings.TrimSpace(q.Get("bank")),
	}

	if v := strings.TrimSpace(q.Get("start")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return core.FilterSpec{}, fmt.Errorf("invalid start date %q: expected YYYY-MM-DD", v)
		}
		spec.Start = t
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return core.FilterSpec{}, fmt.Errorf("invalid end date %q: expected YYYY-MM-DD", v)
		}
		spec.End = t
	}
	if !spec.Start.IsZero() && !spec.End.IsZero() && spec.End.Before(spec.Start) {
		return core.FilterSpec{}, fmt.Errorf("end date precedes start date")
	}

	if v := strings.TrimSpace(q.Get("min_amount")); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return core.FilterSpec{}, fmt.Errorf("invalid min_amount %q", v)
		}
		if d.IsNegative() {
			return core.FilterSpec{}, fmt.Errorf("min_amount cannot be negative")
		}
		spec.MinAmount = d
	}

	return spec, nil
}

// parseLimit reads a positive integer limit, falling back to def when the
// parameter is absent. Values above 500 are rejected to bound responses.
func parseLimit(r *http.Request, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("limit"))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid limit %q: must be a positive integer", v)
	}
	if n > 500 {
		return 0, fmt.Errorf("invalid limit %d: must be at most 500", n)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		RequestID: trace.GetRequestID(r.Context()),
	})
}

// writeLoadError maps pipeline failures onto status codes. An
// unreconcilable schema or unreachable source is the upstream's fault,
// not the caller's.
func (s *Server) writeLoadError(w http.ResponseWriter, r *http.Request, err error) {
	var schemaErr *core.SchemaError
	if errors.As(err, &schemaErr) {
		slog.ErrorContext(r.Context(), "Source schema not recognizable",
			"error", schemaErr.Reason, "columns", strings.Join(schemaErr.Columns, ","))
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:     "source schema not recognizable: " + schemaErr.Reason,
			RequestID: trace.GetRequestID(r.Context()),
			Columns:   schemaErr.Columns,
		})
		return
	}

	slog.ErrorContext(r.Context(), "Dataset load failed", "error", err)
	s.writeError(w, r, http.StatusBadGateway, "source data unavailable")
}

// dataset fetches the current dataset and the request's filter spec,
// answering the error responses itself. The bool reports success.
func (s *Server) dataset(w http.ResponseWriter, r *http.Request) (*core.Dataset, core.FilterSpec, bool) {
	spec, err := parseFilterSpec(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return nil, core.FilterSpec{}, false
	}

	ds, err := s.provider.Dataset(r.Context())
	if err != nil {
		s.writeLoadError(w, r, err)
		return nil, core.FilterSpec{}, false
	}
	return ds, spec, true
}

// respondCached serves a cached aggregate when the same query already ran
// against this load, building and caching it otherwise.
func (s *Server) respondCached(w http.ResponseWriter, r *http.Request, loadID string, build func() (any, error)) {
	key := r.URL.Path + "?" + r.URL.RawQuery + "#" + loadID
	if body, ok := s.responses.Get(key); ok {
		writeRawJSON(w, http.StatusOK, body)
		return
	}

	result, err := build()
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		slog.ErrorContext(r.Context(), "Response marshaling failed", "error", err)
		s.writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	body = append(body, '\n')
	s.responses.Set(key, body)
	writeRawJSON(w, http.StatusOK, body)
}
