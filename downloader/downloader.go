// Package downloader runs the batch historical-download loop: one symbol at a
// time, one attempt at a time, exponential backoff with jitter on transient
// errors, a fixed short delay on empty results, and a fixed rate-limit
// cushion between symbols.
package downloader

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockharvest/stockharvest/feed"
	"github.com/stockharvest/stockharvest/model"
)

const (
	// DefaultMaxRetries bounds download attempts per symbol.
	DefaultMaxRetries = 3
	// DefaultPeriod is the range descriptor passed to the provider.
	DefaultPeriod = "1y"

	emptyRetryDelay = 2 * time.Second
	symbolRateDelay = 1500 * time.Millisecond
)

// outcome classifies one fetch attempt. The retry loop switches on this tag;
// backoff policy never re-inspects errors downstream.
type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeEmpty
	outcomeError
)

func classify(frame *model.Frame, err error) outcome {
	switch {
	case err != nil:
		return outcomeError
	case frame.Empty():
		return outcomeEmpty
	default:
		return outcomeSuccess
	}
}

// Options tunes a Downloader. Zero values fall back to defaults. Sleep and
// Jitter exist so tests can observe delays without a real clock; nil means a
// context-aware sleep and rand.Float64.
type Options struct {
	Period     string
	MaxRetries int
	Sleep      func(context.Context, time.Duration)
	Jitter     func() float64
}

// Downloader fetches historical series for batches of symbols from a single
// provider. It is not safe for concurrent use; a run is fully sequential.
type Downloader struct {
	provider   feed.Provider
	logger     *zap.Logger
	period     string
	maxRetries int
	sleep      func(context.Context, time.Duration)
	jitter     func() float64
}

// New builds a Downloader around a provider and an explicitly injected
// logger.
func New(provider feed.Provider, logger *zap.Logger, opts Options) *Downloader {
	d := &Downloader{
		provider:   provider,
		logger:     logger,
		period:     opts.Period,
		maxRetries: opts.MaxRetries,
		sleep:      opts.Sleep,
		jitter:     opts.Jitter,
	}
	if d.period == "" {
		d.period = DefaultPeriod
	}
	if d.maxRetries < 1 {
		d.maxRetries = DefaultMaxRetries
	}
	if d.sleep == nil {
		d.sleep = sleepCtx
	}
	if d.jitter == nil {
		d.jitter = rand.Float64
	}
	return d
}

// Download fetches the historical series for every symbol in order. Failed
// symbols are absent from the result; failure detail is only in the log.
// Cancelling the context stops the run early and returns what has been
// collected so far.
func (d *Downloader) Download(ctx context.Context, symbols []string) model.ResultSet {
	results := make(model.ResultSet, len(symbols))
	log := d.logger.With(zap.String("run_id", uuid.NewString()))
	log.Info("starting downloads", zap.Int("symbols", len(symbols)))

	for _, symbol := range symbols {
		if ctx.Err() != nil {
			log.Warn("download run canceled", zap.Error(ctx.Err()))
			return results
		}
		d.downloadSymbol(ctx, log, symbol, results)
		// Unconditional rate-limit cushion between symbols, success or not.
		d.sleep(ctx, symbolRateDelay)
	}

	log.Info("download run completed",
		zap.Int("symbols", len(symbols)),
		zap.Int("downloaded", len(results)))
	return results
}

func (d *Downloader) downloadSymbol(ctx context.Context, log *zap.Logger, symbol string, results model.ResultSet) {
	for attempt := 1; attempt <= d.maxRetries; attempt++ {
		log.Info("downloading symbol",
			zap.String("symbol", symbol),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", d.maxRetries))

		frame, err := d.provider.FetchHistory(ctx, symbol, d.period)
		var series *model.PriceSeries
		if err == nil && !frame.Empty() {
			// A frame that violates the schema contract counts as a
			// failed attempt.
			series, err = model.Normalize(symbol, frame)
		}

		switch classify(frame, err) {
		case outcomeSuccess:
			results[symbol] = series
			log.Info("successfully downloaded symbol",
				zap.String("symbol", symbol),
				zap.Int("bars", len(series.Bars)))
			return
		case outcomeEmpty:
			log.Warn("download succeeded but returned no data", zap.String("symbol", symbol))
			if attempt < d.maxRetries {
				d.sleep(ctx, emptyRetryDelay)
			}
		case outcomeError:
			log.Error("download failed",
				zap.String("symbol", symbol),
				zap.Int("attempt", attempt),
				zap.Error(err))
			if attempt < d.maxRetries {
				delay := d.backoffDelay(attempt)
				log.Info("waiting before retry",
					zap.String("symbol", symbol),
					zap.Duration("delay", delay))
				d.sleep(ctx, delay)
			}
		}
	}
	log.Error("all attempts failed",
		zap.String("symbol", symbol),
		zap.Int("max_retries", d.maxRetries))
}

// backoffDelay computes the pause after `attempt` failed attempts:
// 2^(attempt-1) seconds plus up to one second of jitter.
func (d *Downloader) backoffDelay(attempt int) time.Duration {
	secs := math.Pow(2, float64(attempt-1)) + d.jitter()
	return time.Duration(secs * float64(time.Second))
}

func sleepCtx(ctx context.Context, delay time.Duration) {
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
