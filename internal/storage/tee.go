package storage

import (
	"context"
	"errors"

	"github.com/mselser95/bracket-arb/internal/arbitrage"
	"github.com/mselser95/bracket-arb/internal/kalshi"
)

// Tee fans writes out to every configured sink, collecting but not
// short-circuiting on a per-sink error — a failing optional Postgres
// tee must never stop the text-file sinks (or vice versa) from being
// written.
type Tee struct {
	sinks []Sink
}

// NewTee builds a Tee over one or more sinks. Nil sinks are skipped,
// so the caller can pass an optional sink unconditionally.
func NewTee(sinks ...Sink) *Tee {
	t := &Tee{}
	for _, s := range sinks {
		if s != nil {
			t.sinks = append(t.sinks, s)
		}
	}
	return t
}

func (t *Tee) LogOpportunity(ctx context.Context, opp arbitrage.Opportunity, executed bool) error {
	var errs []error
	for _, s := range t.sinks {
		if err := s.LogOpportunity(ctx, opp, executed); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *Tee) LogTrade(ctx context.Context, opp arbitrage.Opportunity, ticker string, order kalshi.Order, positionSize int64) error {
	var errs []error
	for _, s := range t.sinks {
		if err := s.LogTrade(ctx, opp, ticker, order, positionSize); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *Tee) LogScan(ctx context.Context, seriesCount, eventsCount, opportunities, trades int) error {
	var errs []error
	for _, s := range t.sinks {
		if err := s.LogScan(ctx, seriesCount, eventsCount, opportunities, trades); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *Tee) LogReconciliation(ctx context.Context, opp arbitrage.Opportunity, filled []FilledOrder, incomplete bool) error {
	var errs []error
	for _, s := range t.sinks {
		if err := s.LogReconciliation(ctx, opp, filled, incomplete); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *Tee) Close() error {
	var errs []error
	for _, s := range t.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
