// Package ingest turns raw rows from either input path into sequential store
// writes, collecting per-row outcomes into a report. One bad row never aborts
// the batch.
package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/tagmail/contact-cli/internal/model"
	"github.com/tagmail/contact-cli/internal/normalize"
)

// WriteFunc hands one normalized contact to the store. The engine never
// retains the contact after the call returns.
type WriteFunc func(ctx context.Context, c model.CanonicalContact) error

// LookupFunc reports whether a contact with the given email and tag already
// exists. Used only when the duplicate check is enabled.
type LookupFunc func(ctx context.Context, email, tag string) (bool, error)

// Engine runs ingestion passes. Zero value is usable; options configure the
// optional duplicate check.
type Engine struct {
	lookup LookupFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithDedupe enables a pre-write existence check keyed on (email, tag).
// Hits are skipped with reason "duplicate". Off by default: writes are
// last-write-wins and duplicate rows are the store's to resolve.
func WithDedupe(lookup LookupFunc) Option {
	return func(e *Engine) {
		e.lookup = lookup
	}
}

// New creates an ingestion engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run processes rows in source order, normalizing each and writing the
// survivors through write one at a time. Write i+1 is only issued after
// write i resolves, so the report's row indices stay meaningful. A reject
// is counted as skipped, a write error as failed; neither stops the batch.
// A value on errs terminates iteration and the partial report is returned
// with ParseFailure set. Context cancellation stops issuing new writes.
func (e *Engine) Run(ctx context.Context, rows <-chan model.RawRow, errs <-chan error, origin model.Origin, write WriteFunc) *Report {
	log := zap.L().With(
		zap.String("component", "ingest.engine"),
		zap.String("origin", string(origin)),
	)

	report := &Report{}
	index := 0
	for row := range rows {
		if ctx.Err() != nil {
			report.ParseFailure = ctx.Err().Error()
			break
		}
		e.processRow(ctx, row, index, origin, write, report, log)
		index++
	}

	if report.ParseFailure == "" {
		if err, ok := <-errs; ok && err != nil {
			log.Warn("row source terminated early", zap.Error(err))
			report.ParseFailure = err.Error()
		}
	}

	log.Info("ingestion complete",
		zap.Int("accepted", report.Accepted),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report
}

// RunSlice is Run over an in-memory slice, used by the scrape path where the
// business-search response arrives whole.
func (e *Engine) RunSlice(ctx context.Context, rows []model.RawRow, origin model.Origin, write WriteFunc) *Report {
	log := zap.L().With(
		zap.String("component", "ingest.engine"),
		zap.String("origin", string(origin)),
	)

	report := &Report{}
	for index, row := range rows {
		if ctx.Err() != nil {
			report.ParseFailure = ctx.Err().Error()
			break
		}
		e.processRow(ctx, row, index, origin, write, report, log)
	}

	log.Info("ingestion complete",
		zap.Int("accepted", report.Accepted),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report
}

func (e *Engine) processRow(ctx context.Context, row model.RawRow, index int, origin model.Origin, write WriteFunc, report *Report, log *zap.Logger) {
	contact, err := normalize.Normalize(row, origin)
	if err != nil {
		log.Debug("row rejected", zap.Int("index", index), zap.String("reason", err.Error()))
		report.skip(index, err.Error())
		return
	}

	if e.lookup != nil {
		exists, lookupErr := e.lookup(ctx, contact.Email, contact.Tag)
		if lookupErr != nil {
			// A broken lookup must not block the write; fall through.
			log.Warn("duplicate check failed", zap.Int("index", index), zap.Error(lookupErr))
		} else if exists {
			report.skip(index, "duplicate")
			return
		}
	}

	if err := write(ctx, contact); err != nil {
		log.Warn("write failed", zap.Int("index", index), zap.Error(err))
		report.fail(index, err.Error())
		return
	}
	report.Accepted++
}
