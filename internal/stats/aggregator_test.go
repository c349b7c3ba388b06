package stats_test

import (
	"testing"

	"github.com/es-debug/nginx-latency-report/internal/parser"
	"github.com/es-debug/nginx-latency-report/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(url string, duration int64) parser.Record {
	return parser.Record{
		URL:      url,
		Duration: duration,
	}
}

func urlNames(urls []*stats.URLStats) []string {
	names := make([]string, 0, len(urls))
	for _, u := range urls {
		names = append(names, u.URL)
	}

	return names
}

func TestFold(t *testing.T) {
	agg := stats.NewAggregator()

	agg.Fold(record("/api/1", 100))
	agg.Fold(record("/api/2", 200))
	agg.Fold(record("/api/1", 300))

	first, ok := agg.Lookup("/api/1")
	require.True(t, ok, "url must be aggregated")

	assert.Equal(t, int64(2), first.Occurrences)
	assert.Equal(t, int64(400), first.SumLatency)
	assert.Equal(t, int64(300), first.MaxLatency)
	assert.Equal(t, []int64{100, 300}, first.Durations())

	assert.Equal(t, stats.GeneralStats{TotalRecords: 3, SumLatency: 600}, agg.General())
	assert.Equal(t, 2, agg.Len())
	assert.Equal(t, []string{"/api/1", "/api/2"}, urlNames(agg.URLs()))
}

func TestFoldZeroDuration(t *testing.T) {
	agg := stats.NewAggregator()

	agg.Fold(record("/api/1", 100))
	agg.Fold(record("/api/1", 0))
	agg.Fold(record("/cached", 0))

	first, ok := agg.Lookup("/api/1")
	require.True(t, ok, "url must be aggregated")
	assert.Equal(t, int64(1), first.Occurrences)

	_, ok = agg.Lookup("/cached")
	assert.False(t, ok, "zero duration url must not be aggregated")

	assert.Equal(t, stats.GeneralStats{TotalRecords: 1, SumLatency: 100}, agg.General())
	assert.Equal(t, stats.Quality{Good: 3, Ignored: 2}, agg.Quality())
}

func TestQuality(t *testing.T) {
	agg := stats.NewAggregator()
	assert.Zero(t, agg.Quality().ErrorRatio())

	agg.Fold(record("/api/1", 100))
	agg.Reject()
	agg.Reject()
	agg.Fold(record("/api/1", 0))

	quality := agg.Quality()
	assert.Equal(t, int64(4), quality.Total())
	assert.InDelta(t, 0.5, quality.ErrorRatio(), 1e-9)
}

func TestMerge(t *testing.T) {
	lines := []parser.Record{
		record("/a", 10),
		record("/b", 20),
		record("/a", 30),
		record("/c", 0),
		record("/c", 5),
		record("/b", 40),
	}

	sequential := stats.NewAggregator()
	for _, rec := range lines {
		sequential.Fold(rec)
	}

	split := func() (*stats.Aggregator, *stats.Aggregator) {
		even, odd := stats.NewAggregator(), stats.NewAggregator()

		for i, rec := range lines {
			if i%2 == 0 {
				even.FoldAt(int64(i+1), rec)
			} else {
				odd.FoldAt(int64(i+1), rec)
			}
		}

		return even, odd
	}

	even, odd := split()
	even.Merge(odd)

	odd2, even2 := split()
	even2.Merge(odd2)

	for _, merged := range []*stats.Aggregator{even, even2} {
		assert.Equal(t, sequential.General(), merged.General())
		assert.Equal(t, sequential.Quality(), merged.Quality())
		assert.Equal(t, urlNames(sequential.URLs()), urlNames(merged.URLs()))

		for _, want := range sequential.URLs() {
			got, ok := merged.Lookup(want.URL)
			require.True(t, ok, "url %s must be merged", want.URL)

			assert.Equal(t, want.Occurrences, got.Occurrences)
			assert.Equal(t, want.SumLatency, got.SumLatency)
			assert.Equal(t, want.MaxLatency, got.MaxLatency)
			assert.Equal(t, want.Median(), got.Median())
			assert.ElementsMatch(t, want.Durations(), got.Durations())
		}
	}
}

func TestDigestDistribution(t *testing.T) {
	exact := stats.NewAggregator()
	digest := stats.NewAggregator(stats.WithDistribution(stats.Digest))
	other := stats.NewAggregator(stats.WithDistribution(stats.Digest))

	for i := int64(1); i <= 1000; i++ {
		exact.Fold(record("/api", i))

		if i%2 == 0 {
			digest.Fold(record("/api", i))
		} else {
			other.Fold(record("/api", i))
		}
	}

	digest.Merge(other)

	want, ok := exact.Lookup("/api")
	require.True(t, ok)

	got, ok := digest.Lookup("/api")
	require.True(t, ok)

	assert.Equal(t, want.Occurrences, got.Occurrences)
	assert.Equal(t, want.SumLatency, got.SumLatency)
	assert.InDelta(t, want.Median(), got.Median(), 10)
	assert.Nil(t, got.Durations())
}

func TestDigestSingleValue(t *testing.T) {
	agg := stats.NewAggregator(stats.WithDistribution(stats.Digest))
	agg.Fold(record("/api", 13))

	got, ok := agg.Lookup("/api")
	require.True(t, ok)
	assert.Equal(t, int64(13), got.Median())
}

func TestParseDistributionKind(t *testing.T) {
	tt := []struct {
		value   string
		want    stats.DistributionKind
		wantErr bool
	}{
		{value: "", want: stats.Exact},
		{value: "exact", want: stats.Exact},
		{value: "TDigest", want: stats.Digest},
		{value: "digest", want: stats.Digest},
		{value: "approx", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.value, func(t *testing.T) {
			kind, err := stats.ParseDistributionKind(tc.value)
			if tc.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, kind)
		})
	}
}
