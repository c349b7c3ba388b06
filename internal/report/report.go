package report

import (
	"sort"

	"github.com/es-debug/nginx-latency-report/internal/domain"
	"github.com/es-debug/nginx-latency-report/internal/stats"
)

// MinSignificantLatency is the total latency in milliseconds a URL has to
// exceed to be reported.
const MinSignificantLatency = 1

const msPerSecond = 1000.0

// Build ranks urls by total latency and returns at most limit rows. urls is
// expected in first-seen order, which breaks ties. An empty file yields an
// empty report.
func Build(urls []*stats.URLStats, general stats.GeneralStats, limit int) []domain.URLStats {
	if general.TotalRecords == 0 || general.SumLatency == 0 || limit <= 0 {
		return []domain.URLStats{}
	}

	significant := make([]*stats.URLStats, 0, len(urls))

	for _, urlStats := range urls {
		if urlStats.SumLatency > MinSignificantLatency {
			significant = append(significant, urlStats)
		}
	}

	sort.SliceStable(significant, func(i, j int) bool {
		return significant[i].SumLatency > significant[j].SumLatency
	})

	urlLimit := min(limit, len(significant))
	significant = significant[:urlLimit]

	totalCount := float64(general.TotalRecords)
	totalTime := float64(general.SumLatency)

	result := make([]domain.URLStats, 0, len(significant))
	for _, urlStats := range significant {
		sum := float64(urlStats.SumLatency)
		count := float64(urlStats.Occurrences)

		result = append(result, domain.NewURLStats(
			urlStats.URL,
			urlStats.Occurrences,
			sum/msPerSecond,
			float64(urlStats.MaxLatency)/msPerSecond,
			sum/(count*msPerSecond),
			float64(urlStats.Median())/msPerSecond,
			100*sum/totalTime,
			100*count/totalCount,
		))
	}

	return result
}

// FromAggregator builds the report from everything agg has folded.
func FromAggregator(agg *stats.Aggregator, limit int) []domain.URLStats {
	return Build(agg.URLs(), agg.General(), limit)
}
