// Package services orchestrates the ingestion pipeline: fetch, decode,
// reconcile, normalize, resolve, synthesize. The result is cached with a
// TTL so repeated reads cost nothing until the data is stale.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"homespend/internal/cache"
	"homespend/internal/core"
	"homespend/internal/fixed"
	"homespend/internal/log"
	"homespend/internal/normalize"
	"homespend/internal/resolve"
	"homespend/internal/workbook"
)

// Source supplies the raw spreadsheet bytes, from a URL or a local file.
type Source interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// LoaderConfig wires a Loader's collaborators.
type LoaderConfig struct {
	Source   Source
	Location string

	// CurrencySymbol is stripped from amount cells in addition to the
	// defaults. Empty means defaults only.
	CurrencySymbol string

	CacheTTL time.Duration
	Logger   *log.Logger
}

// Loader runs the pipeline and owns the dataset cache. All reads go
// through Dataset; concurrent cache misses collapse into one load.
type Loader struct {
	source   Source
	location string

	normalizer  *normalize.Normalizer
	resolver    *resolve.Resolver
	synthesizer *fixed.Synthesizer

	cache  *cache.Value[*core.Dataset]
	group  singleflight.Group
	logger *log.Logger
}

// NewLoader builds a Loader with the default resolver and fixed-expense
// rules.
func NewLoader(cfg LoaderConfig) *Loader {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentLoader)
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	var symbols []string
	if cfg.CurrencySymbol != "" {
		symbols = append(symbols, normalize.DefaultSymbols...)
		symbols = append(symbols, cfg.CurrencySymbol)
	}

	return &Loader{
		source:      cfg.Source,
		location:    cfg.Location,
		normalizer:  normalize.New(symbols...),
		resolver:    resolve.New(nil, ""),
		synthesizer: fixed.New(nil, nil),
		cache:       cache.NewValue[*core.Dataset](ttl),
		logger:      logger,
	}
}

// Dataset returns the current dataset, loading it when the cache is
// empty or stale. Concurrent callers share a single load.
func (l *Loader) Dataset(ctx context.Context) (*core.Dataset, error) {
	if ds, ok := l.cache.Get(); ok {
		return ds, nil
	}

	v, err, _ := l.group.Do("dataset", func() (any, error) {
		// A racing caller may have filled the cache while we waited.
		if ds, ok := l.cache.Get(); ok {
			return ds, nil
		}
		ds, err := l.load(ctx)
		if err != nil {
			return nil, err
		}
		l.cache.Set(ds)
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*core.Dataset), nil
}

// Refresh drops the cached dataset and loads a fresh one.
func (l *Loader) Refresh(ctx context.Context) (*core.Dataset, error) {
	l.cache.Invalidate()
	return l.Dataset(ctx)
}

// Invalidate expires the cached dataset without reloading.
func (l *Loader) Invalidate() {
	l.cache.Invalidate()
}

// LoadedAt reports when the cached dataset was produced, zero when the
// cache is empty.
func (l *Loader) LoadedAt() time.Time {
	return l.cache.LoadedAt()
}

func (l *Loader) load(ctx context.Context) (*core.Dataset, error) {
	start := time.Now()
	loadID := uuid.NewString()

	raw, err := l.source.Fetch(ctx, l.location)
	if err != nil {
		l.logger.ErrorContext(ctx, "Source fetch failed",
			log.FieldLoadID, loadID, log.FieldOperation, log.OpFetch, log.FieldError, err.Error())
		return nil, fmt.Errorf("fetch source: %w", err)
	}

	table, err := workbook.Decode(raw)
	if err != nil {
		l.logger.ErrorContext(ctx, "Workbook decode failed",
			log.FieldLoadID, loadID, log.FieldOperation, log.OpDecode, log.FieldError, err.Error())
		return nil, fmt.Errorf("decode workbook: %w", err)
	}

	table, err = workbook.Reconcile(table)
	if err != nil {
		l.logger.ErrorContext(ctx, "Column reconciliation failed",
			log.FieldLoadID, loadID, log.FieldOperation, log.OpReconcile, log.FieldError, err.Error())
		return nil, fmt.Errorf("reconcile columns: %w", err)
	}

	result := l.normalizer.Transactions(table)
	l.resolver.Apply(result.Transactions)
	merged := l.synthesizer.Merge(result.Transactions)

	ds := &core.Dataset{
		Transactions: merged,
		SourceRows:   len(table.Rows),
		DroppedRows:  result.Dropped,
		LoadedAt:     time.Now(),
		LoadID:       loadID,
	}

	l.logger.InfoContext(ctx, "Dataset loaded",
		log.FieldLoadID, loadID,
		log.FieldSource, l.location,
		log.FieldSourceRows, ds.SourceRows,
		log.FieldDroppedRows, ds.DroppedRows,
		log.FieldRecordCount, len(merged),
		log.FieldSynthetic, len(merged)-len(result.Transactions),
		log.FieldDuration, time.Since(start).Milliseconds())

	return ds, nil
}
