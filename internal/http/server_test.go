package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"homespend/internal/core"
)

type stubProvider struct {
	ds           *core.Dataset
	err          error
	datasetCalls int
	refreshCalls int
}

func (p *stubProvider) Dataset(ctx context.Context) (*core.Dataset, error) {
	p.datasetCalls++
	if p.err != nil {
		return nil, p.err
	}
	return p.ds, nil
}

func (p *stubProvider) Refresh(ctx context.Context) (*core.Dataset, error) {
	p.refreshCalls++
	if p.err != nil {
		return nil, p.err
	}
	fresh := *p.ds
	fresh.LoadID = "load-2"
	fresh.LoadedAt = time.Now()
	p.ds = &fresh
	return p.ds, nil
}

func (p *stubProvider) LoadedAt() time.Time {
	if p.ds == nil {
		return time.Time{}
	}
	return p.ds.LoadedAt
}

func day(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func tx(id string, date time.Time, amount int64, category, bank, responsible string) core.Transaction {
	return core.Transaction{
		ID:          id,
		Date:        date,
		Amount:      decimal.NewFromInt(amount),
		Category:    category,
		Description: "desc-" + id,
		Bank:        bank,
		Responsible: responsible,
	}
}

func sampleDataset() *core.Dataset {
	return &core.Dataset{
		Transactions: []core.Transaction{
			tx("t1", day(5), 12500, "Comida", "BAC", "FIORELLA INFANTE AMORE"),
			tx("t2", day(6), 4300, "Transporte", "BAC", "LUIS ESTEBAN OVIEDO MATAMOROS"),
			tx("t3", day(6), 80000, "Comida", "BN", "FIORELLA INFANTE AMORE"),
			tx("t4", day(20), 430000, "Arrendamiento", core.FixedExpenseBank, "ALVARO FERNANDO OVIEDO MATAMOROS"),
		},
		SourceRows:  3,
		DroppedRows: 0,
		LoadedAt:    time.Date(2025, time.February, 1, 12, 0, 0, 0, time.UTC),
		LoadID:      "load-1",
	}
}

func newTestServer(p DataProvider) *Server {
	return NewServer(":0", p, Options{TopLimit: 10, CurrencySymbol: "₡"})
}

func doGet(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
	return out
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	// A prior request so the trace counters have something to report.
	doGet(t, s, "/api/summary")

	rec := doGet(t, s, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody[map[string]any](t, rec)
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
	total, ok := body["total_requests"].(float64)
	if !ok || total < 2 {
		t.Errorf("total_requests = %v, want at least 2", body["total_requests"])
	}
	if _, ok := body["last_response_ms"]; !ok {
		t.Error("last_response_ms must be reported")
	}
}

func TestHandleSummary(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	rec := doGet(t, s, "/api/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeBody[summaryResponse](t, rec)
	if body.Summary.Count != 4 {
		t.Errorf("count = %d, want 4", body.Summary.Count)
	}
	if !body.Summary.Total.Equal(decimal.NewFromInt(526800)) {
		t.Errorf("total = %s, want 526800", body.Summary.Total)
	}
	if body.Meta.LoadID != "load-1" {
		t.Errorf("load id = %q", body.Meta.LoadID)
	}
	// Three distinct days carry transactions.
	if !body.DailyMean.Equal(decimal.NewFromInt(175600)) {
		t.Errorf("daily mean = %s, want 175600", body.DailyMean)
	}
}

func TestHandleSummaryFiltered(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	rec := doGet(t, s, "/api/summary?category=Comida")
	body := decodeBody[summaryResponse](t, rec)
	if body.Summary.Count != 2 {
		t.Errorf("count = %d, want 2", body.Summary.Count)
	}
	if !body.Summary.Total.Equal(decimal.NewFromInt(92500)) {
		t.Errorf("total = %s, want 92500", body.Summary.Total)
	}
}

func TestHandleSummaryBadDate(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	rec := doGet(t, s, "/api/summary?start=01/05/2025")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSummaryInvertedRange(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	rec := doGet(t, s, "/api/summary?start=2025-01-10&end=2025-01-01")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleTrend(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	rec := doGet(t, s, "/api/trend?group=day")
	body := decodeBody[trendResponse](t, rec)

	if len(body.Periods) != 3 {
		t.Fatalf("periods = %d, want 3", len(body.Periods))
	}
	if body.Periods[0].Period != "2025-01-05" {
		t.Errorf("first period = %q", body.Periods[0].Period)
	}
	if body.Stats == nil {
		t.Error("stats must be present for multi-period series")
	}
}

func TestHandleTrendMonthSinglePeriod(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	rec := doGet(t, s, "/api/trend?group=month")
	body := decodeBody[trendResponse](t, rec)

	if len(body.Periods) != 1 || body.Periods[0].Period != "2025-01" {
		t.Fatalf("periods = %+v", body.Periods)
	}
	if body.Stats != nil {
		t.Error("stats must be omitted for single-period series")
	}
}

func TestHandleTrendInvalidGroup(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	if rec := doGet(t, s, "/api/trend?group=year"); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleBreakdown(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	rec := doGet(t, s, "/api/breakdown?by=bank")
	body := decodeBody[breakdownResponse](t, rec)

	if body.By != "bank" {
		t.Errorf("by = %q", body.By)
	}
	if len(body.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(body.Items))
	}
	if body.Items[0].Label != core.FixedExpenseBank {
		t.Errorf("largest bank = %q, want %q", body.Items[0].Label, core.FixedExpenseBank)
	}
}

func TestHandleBreakdownLimit(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	rec := doGet(t, s, "/api/breakdown?by=category&limit=1")
	body := decodeBody[breakdownResponse](t, rec)
	if len(body.Items) != 1 || body.Items[0].Label != "Arrendamiento" {
		t.Errorf("items = %+v", body.Items)
	}
}

func TestHandleBreakdownInvalidBy(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	if rec := doGet(t, s, "/api/breakdown?by=card"); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleTop(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	rec := doGet(t, s, "/api/top?limit=2")
	body := decodeBody[transactionsResponse](t, rec)

	if body.Count != 2 {
		t.Fatalf("count = %d, want 2", body.Count)
	}
	if body.Transactions[0].ID != "t4" || body.Transactions[1].ID != "t3" {
		t.Errorf("order = %s, %s", body.Transactions[0].ID, body.Transactions[1].ID)
	}
}

func TestHandleTransactions(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	rec := doGet(t, s, "/api/transactions?"+url.Values{"responsible": {"FIORELLA INFANTE AMORE"}}.Encode())
	body := decodeBody[transactionsResponse](t, rec)

	if body.Count != 2 {
		t.Fatalf("count = %d, want 2", body.Count)
	}
	// Newest first.
	if body.Transactions[0].ID != "t3" {
		t.Errorf("first = %q, want t3", body.Transactions[0].ID)
	}
}

func TestHandleTransactionsDateRange(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	rec := doGet(t, s, "/api/transactions?start=2025-01-06&end=2025-01-06")
	body := decodeBody[transactionsResponse](t, rec)
	if body.Count != 2 {
		t.Errorf("count = %d, want 2 (inclusive bounds)", body.Count)
	}
}

func TestHandleFilters(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	rec := doGet(t, s, "/api/filters")
	body := decodeBody[filtersResponse](t, rec)

	if len(body.Categories) != 3 {
		t.Errorf("categories = %v", body.Categories)
	}
	if len(body.Banks) != 3 {
		t.Errorf("banks = %v", body.Banks)
	}
	if body.MinDate != "2025-01-05" || body.MaxDate != "2025-01-20" {
		t.Errorf("date range = %s..%s", body.MinDate, body.MaxDate)
	}
	if body.CurrencySymbol != "₡" {
		t.Errorf("currency symbol = %q", body.CurrencySymbol)
	}
}

func TestHandleRefresh(t *testing.T) {
	p := &stubProvider{ds: sampleDataset()}
	s := newTestServer(p)

	// Warm the response cache, then refresh.
	doGet(t, s, "/api/summary")

	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if p.refreshCalls != 1 {
		t.Errorf("refresh calls = %d", p.refreshCalls)
	}
	if s.responses.Size() != 0 {
		t.Errorf("response cache size = %d after refresh", s.responses.Size())
	}

	body := decodeBody[summaryResponse](t, doGet(t, s, "/api/summary"))
	if body.Meta.LoadID != "load-2" {
		t.Errorf("load id after refresh = %q", body.Meta.LoadID)
	}
}

func TestHandleRefreshRejectsGet(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	if rec := doGet(t, s, "/api/refresh"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleSchemaError(t *testing.T) {
	p := &stubProvider{err: &core.SchemaError{
		Reason:  "no recognizable columns",
		Columns: []string{"col_a", "col_b"},
	}}
	s := newTestServer(p)

	rec := doGet(t, s, "/api/summary")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	body := decodeBody[errorResponse](t, rec)
	if len(body.Columns) != 2 {
		t.Errorf("columns = %v", body.Columns)
	}
}

func TestResponseCacheReuse(t *testing.T) {
	p := &stubProvider{ds: sampleDataset()}
	s := newTestServer(p)

	first := doGet(t, s, "/api/summary?category=Comida")
	second := doGet(t, s, "/api/summary?category=Comida")

	if first.Body.String() != second.Body.String() {
		t.Error("cached response must match the original")
	}
	if s.responses.Size() != 1 {
		t.Errorf("response cache size = %d, want 1", s.responses.Size())
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	s := newTestServer(&stubProvider{ds: sampleDataset()})

	rec := doGet(t, s, "/api/summary")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}
