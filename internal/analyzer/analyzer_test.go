package analyzer_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/es-debug/nginx-latency-report/internal/analyzer"
	"github.com/es-debug/nginx-latency-report/internal/parser"
	"github.com/es-debug/nginx-latency-report/internal/report"
	"github.com/es-debug/nginx-latency-report/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(url, duration string) string {
	return fmt.Sprintf(
		`1.169.137.128 -  - [29/Jun/2017:03:50:23 +0300] "GET %s HTTP/1.1" 200 1002 "-" `+
			`"Configovod" "-" "1498697423-2118016444-4708-9752777" "712e90144abee9" %s`,
		url, duration,
	)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAnalyze(t *testing.T) {
	tt := []struct {
		name        string
		content     string
		general     stats.GeneralStats
		quality     stats.Quality
		wantReport  []string
		wantMedians map[string]int64
	}{
		{
			name:       "one log line",
			content:    logLine("/api/v2/banner/25019354", "0.390"),
			general:    stats.GeneralStats{TotalRecords: 1, SumLatency: 390},
			quality:    stats.Quality{Good: 1},
			wantReport: []string{"/api/v2/banner/25019354"},
			wantMedians: map[string]int64{
				"/api/v2/banner/25019354": 390,
			},
		},
		{
			name: "multiple log lines with garbage",
			content: strings.Join([]string{
				logLine("/api/1", "0.100"),
				"garbage",
				logLine("/api/2", "0.500"),
				logLine("/api/1", "0.300"),
				logLine("/api/1", "0.000"),
				"",
				logLine("/api/3", "0.200"),
			}, "\n"),
			general:    stats.GeneralStats{TotalRecords: 4, SumLatency: 1100},
			quality:    stats.Quality{Good: 5, Bad: 2, Ignored: 1},
			wantReport: []string{"/api/2", "/api/1", "/api/3"},
			wantMedians: map[string]int64{
				"/api/1": 200,
				"/api/2": 500,
				"/api/3": 200,
			},
		},
		{
			name:       "no log lines",
			content:    "",
			general:    stats.GeneralStats{},
			quality:    stats.Quality{},
			wantReport: []string{},
		},
	}

	for _, tc := range tt {
		for _, workers := range []int{1, 4} {
			t.Run(fmt.Sprintf("%s/%d workers", tc.name, workers), func(t *testing.T) {
				opts := analyzer.DefaultOptions()
				opts.Workers = workers

				a := analyzer.New(parser.NewParser(), opts, discardLogger())

				agg, err := a.Analyze(context.Background(), strings.NewReader(tc.content))
				require.NoError(t, err, "content must be analyzed")

				assert.Equal(t, tc.general, agg.General())
				assert.Equal(t, tc.quality, agg.Quality())

				rows := report.FromAggregator(agg, 10)

				urls := make([]string, 0, len(rows))
				for _, row := range rows {
					urls = append(urls, row.URL)
				}

				assert.Equal(t, tc.wantReport, urls)

				for url, want := range tc.wantMedians {
					urlStats, ok := agg.Lookup(url)
					require.True(t, ok, "url %s must be aggregated", url)
					assert.Equal(t, want, urlStats.Median())
				}
			})
		}
	}
}

func TestAnalyzeStableOrderAcrossWorkers(t *testing.T) {
	lines := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		lines = append(lines, logLine(fmt.Sprintf("/api/%d", i%20), "0.010"))
	}

	content := strings.Join(lines, "\n")

	sequential, err := analyzer.New(parser.NewParser(), analyzer.DefaultOptions(), discardLogger()).
		Analyze(context.Background(), strings.NewReader(content))
	require.NoError(t, err)

	parallel, err := analyzer.New(parser.NewParser(), analyzer.Options{Workers: 8}, discardLogger()).
		Analyze(context.Background(), strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, report.FromAggregator(sequential, 20), report.FromAggregator(parallel, 20))
}

func TestAnalyzeDigest(t *testing.T) {
	opts := analyzer.Options{Workers: 2, Distribution: stats.Digest}

	content := strings.Join([]string{
		logLine("/api/1", "0.010"),
		logLine("/api/1", "0.020"),
		logLine("/api/1", "0.030"),
	}, "\n")

	agg, err := analyzer.New(parser.NewParser(), opts, discardLogger()).
		Analyze(context.Background(), strings.NewReader(content))
	require.NoError(t, err)

	urlStats, ok := agg.Lookup("/api/1")
	require.True(t, ok)
	assert.Equal(t, int64(3), urlStats.Occurrences)
	assert.InDelta(t, 20, urlStats.Median(), 5)
}

func TestAnalyzeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	content := strings.Repeat(logLine("/api/1", "0.100")+"\n", 100)

	agg, err := analyzer.New(parser.NewParser(), analyzer.DefaultOptions(), discardLogger()).
		Analyze(ctx, strings.NewReader(content))
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, agg, "partial statistics must be returned")
	assert.LessOrEqual(t, agg.General().TotalRecords, int64(100))
}
