package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"homespend/internal/core"
	"homespend/internal/query"
)

// datasetMeta describes the load a response was computed from.
type datasetMeta struct {
	LoadID      string    `json:"load_id"`
	LoadedAt    time.Time `json:"loaded_at"`
	SourceRows  int       `json:"source_rows"`
	DroppedRows int       `json:"dropped_rows"`
	Records     int       `json:"records"`
}

func metaOf(ds *core.Dataset) datasetMeta {
	return datasetMeta{
		LoadID:      ds.LoadID,
		LoadedAt:    ds.LoadedAt,
		SourceRows:  ds.SourceRows,
		DroppedRows: ds.DroppedRows,
		Records:     len(ds.Transactions),
	}
}

type summaryResponse struct {
	Meta              datasetMeta     `json:"meta"`
	Summary           query.Summary   `json:"summary"`
	CurrentMonthTotal decimal.Decimal `json:"current_month_total"`
	DailyMean         decimal.Decimal `json:"daily_mean"`
}

type trendResponse struct {
	Group   string              `json:"group"`
	Periods []query.PeriodTotal `json:"periods"`
	Stats   *query.PeriodStats  `json:"stats,omitempty"`
}

type breakdownResponse struct {
	By    string             `json:"by"`
	Items []query.LabelTotal `json:"items"`
}

type transactionsResponse struct {
	Count        int                `json:"count"`
	Transactions []core.Transaction `json:"transactions"`
}

type filtersResponse struct {
	Categories     []string `json:"categories"`
	Responsibles   []string `json:"responsibles"`
	Banks          []string `json:"banks"`
	MinDate        string   `json:"min_date,omitempty"`
	MaxDate        string   `json:"max_date,omitempty"`
	CurrencySymbol string   `json:"currency_symbol"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	metrics := s.tracer.GetMetrics()
	body := map[string]any{
		"status":           "ok",
		"total_requests":   metrics.TotalRequests,
		"last_response_ms": metrics.LastResponseTime,
	}
	if at := s.provider.LoadedAt(); !at.IsZero() {
		body["loaded_at"] = at
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ds, spec, ok := s.dataset(w, r)
	if !ok {
		return
	}
	s.respondCached(w, r, ds.LoadID, func() (any, error) {
		filtered := query.Filter(ds.Transactions, spec)
		return summaryResponse{
			Meta:              metaOf(ds),
			Summary:           query.Summarize(filtered),
			CurrentMonthTotal: query.MonthTotal(filtered, time.Now().UTC()),
			DailyMean:         query.DailyMean(filtered),
		}, nil
	})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	ds, spec, ok := s.dataset(w, r)
	if !ok {
		return
	}

	group := query.Granularity(r.URL.Query().Get("group"))
	if group == "" {
		group = query.ByDay
	}
	switch group {
	case query.ByDay, query.ByWeek, query.ByMonth:
	default:
		s.writeError(w, r, http.StatusBadRequest,
			fmt.Sprintf("invalid group %q: expected day, week or month", group))
		return
	}

	s.respondCached(w, r, ds.LoadID, func() (any, error) {
		filtered := query.Filter(ds.Transactions, spec)
		periods := query.GroupByPeriod(filtered, group)
		resp := trendResponse{Group: string(group), Periods: periods}
		if stats, ok := query.StatsOf(periods); ok {
			resp.Stats = &stats
		}
		return resp, nil
	})
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	ds, spec, ok := s.dataset(w, r)
	if !ok {
		return
	}

	by := r.URL.Query().Get("by")
	if by == "" {
		by = "category"
	}
	var selector func(core.Transaction) string
	switch by {
	case "category":
		selector = query.ByCategory
	case "bank":
		selector = query.ByBank
	case "responsible":
		selector = query.ByResponsible
	default:
		s.writeError(w, r, http.StatusBadRequest,
			fmt.Sprintf("invalid by %q: expected category, bank or responsible", by))
		return
	}

	s.respondCached(w, r, ds.LoadID, func() (any, error) {
		limit, err := parseLimit(r, s.opts.TopLimit)
		if err != nil {
			return nil, err
		}
		filtered := query.Filter(ds.Transactions, spec)
		return breakdownResponse{By: by, Items: query.GroupByLabel(filtered, selector, limit)}, nil
	})
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	ds, spec, ok := s.dataset(w, r)
	if !ok {
		return
	}
	s.respondCached(w, r, ds.LoadID, func() (any, error) {
		limit, err := parseLimit(r, s.opts.TopLimit)
		if err != nil {
			return nil, err
		}
		filtered := query.Filter(ds.Transactions, spec)
		top := query.TopTransactions(filtered, limit)
		return transactionsResponse{Count: len(top), Transactions: top}, nil
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ds, spec, ok := s.dataset(w, r)
	if !ok {
		return
	}
	s.respondCached(w, r, ds.LoadID, func() (any, error) {
		limit := 0
		if r.URL.Query().Get("limit") != "" {
			var err error
			if limit, err = parseLimit(r, 0); err != nil {
				return nil, err
			}
		}
		filtered := query.Newest(query.Filter(ds.Transactions, spec), limit)
		return transactionsResponse{Count: len(filtered), Transactions: filtered}, nil
	})
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	ds, err := s.provider.Dataset(r.Context())
	if err != nil {
		s.writeLoadError(w, r, err)
		return
	}

	s.respondCached(w, r, ds.LoadID, func() (any, error) {
		resp := filtersResponse{
			Categories:     query.Distinct(ds.Transactions, query.ByCategory),
			Responsibles:   query.Distinct(ds.Transactions, query.ByResponsible),
			Banks:          query.Distinct(ds.Transactions, query.ByBank),
			CurrencySymbol: s.opts.CurrencySymbol,
		}
		if len(ds.Transactions) > 0 {
			minDate, maxDate := dateRange(ds.Transactions)
			resp.MinDate = minDate.Format("2006-01-02")
			resp.MaxDate = maxDate.Format("2006-01-02")
		}
		return resp, nil
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ds, err := s.provider.Refresh(r.Context())
	if err != nil {
		s.writeLoadError(w, r, err)
		return
	}

	// Aged entries from the previous load serve nobody now.
	s.responses.Purge()

	slog.InfoContext(r.Context(), "Dataset refreshed",
		"load_id", ds.LoadID, "records", len(ds.Transactions))
	writeJSON(w, http.StatusOK, map[string]any{"meta": metaOf(ds)})
}

func dateRange(txs []core.Transaction) (min, max time.Time) {
	min, max = txs[0].Date, txs[0].Date
	for _, t := range txs[1:] {
		if t.Date.Before(min) {
			min = t.Date
		}
		if t.Date.After(max) {
			max = t.Date
		}
	}
	return min, max
}
