// Package analyzer folds a stream of access log lines into latency
// statistics.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/es-debug/nginx-latency-report/internal/parser"
	"github.com/es-debug/nginx-latency-report/internal/scanner"
	"github.com/es-debug/nginx-latency-report/internal/stats"
	"golang.org/x/sync/errgroup"
)

type Analyzer struct {
	parser *parser.Parser
	opts   Options
	logger *slog.Logger
}

func New(p *parser.Parser, opts Options, logger *slog.Logger) *Analyzer {
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	return &Analyzer{
		parser: p,
		opts:   opts,
		logger: logger,
	}
}

func (a *Analyzer) processLines(ctx context.Context, lines <-chan scanner.Line, agg *stats.Aggregator) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case curLine, ok := <-lines:
			if !ok {
				return nil
			}

			rec, err := a.parser.ParseLine(curLine.Text)
			if err != nil {
				agg.Reject()
				a.logger.Debug("line_skipped", "line", curLine.Number, "error", err)

				continue
			}

			agg.FoldAt(int64(curLine.Number), rec)
		}
	}
}

// Analyze reads in to the end and returns the aggregated statistics. Lines
// that do not parse are counted, never fatal. With several workers every
// worker folds into its own aggregator and the results are merged. On error
// the statistics folded so far are returned along with it.
func (a *Analyzer) Analyze(ctx context.Context, in io.Reader) (*stats.Aggregator, error) {
	eg, ctx := errgroup.WithContext(ctx)
	linesChan := make(chan scanner.Line, a.opts.Workers)

	eg.Go(func() error {
		return scanner.Read(ctx, in, linesChan)
	})

	partials := make([]*stats.Aggregator, a.opts.Workers)
	for i := range partials {
		i := i
		partials[i] = stats.NewAggregator(stats.WithDistribution(a.opts.Distribution))

		eg.Go(func() error {
			return a.processLines(ctx, linesChan, partials[i])
		})
	}

	err := eg.Wait()

	result := partials[0]
	for _, partial := range partials[1:] {
		result.Merge(partial)
	}

	if err != nil {
		return result, fmt.Errorf("eg.Wait(): %w", err)
	}

	return result, nil
}
