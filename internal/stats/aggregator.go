package stats

import (
	"cmp"
	"slices"
	"strings"

	"github.com/es-debug/nginx-latency-report/internal/parser"
)

type URLStats struct {
	URL         string
	Occurrences int64
	SumLatency  int64
	MaxLatency  int64

	durations distribution
	firstSeen int64
}

func newURLStats(url string, seq int64, kind DistributionKind) *URLStats {
	return &URLStats{
		URL:       url,
		durations: newDistribution(kind),
		firstSeen: seq,
	}
}

func (s *URLStats) add(duration int64) {
	s.Occurrences++
	s.SumLatency += duration
	s.MaxLatency = max(s.MaxLatency, duration)
	s.durations.add(duration)
}

// Median is the median latency in milliseconds.
func (s *URLStats) Median() int64 {
	if s.Occurrences == 1 {
		return s.MaxLatency
	}

	return s.durations.median()
}

// Durations returns a copy of the recorded latencies, or nil when the
// distribution is a sketch.
func (s *URLStats) Durations() []int64 {
	if d, ok := s.durations.(*exactDistribution); ok {
		return slices.Clone(d.values)
	}

	return nil
}

type GeneralStats struct {
	TotalRecords int64
	SumLatency   int64
}

// Aggregator folds parsed records into per-URL latency statistics. It is
// owned by a single goroutine; use one Aggregator per worker and Merge them.
type Aggregator struct {
	kind    DistributionKind
	urls    map[string]*URLStats
	general GeneralStats
	quality Quality
	seq     int64
}

type Option func(a *Aggregator)

func WithDistribution(kind DistributionKind) Option {
	return func(a *Aggregator) {
		a.kind = kind
	}
}

func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		kind: Exact,
		urls: make(map[string]*URLStats),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Fold adds rec to the statistics. Records with zero duration are counted as
// good lines but do not contribute to any statistics.
func (a *Aggregator) Fold(rec parser.Record) {
	a.seq++
	a.FoldAt(a.seq, rec)
}

// FoldAt is Fold with an explicit line ordinal, used to keep the report
// order stable when lines are spread over several aggregators.
func (a *Aggregator) FoldAt(seq int64, rec parser.Record) {
	a.quality.Good++

	if rec.Duration == 0 {
		a.quality.Ignored++

		return
	}

	urlStats, ok := a.urls[rec.URL]
	if !ok {
		urlStats = newURLStats(rec.URL, seq, a.kind)
		a.urls[rec.URL] = urlStats
	}

	urlStats.add(rec.Duration)

	a.general.TotalRecords++
	a.general.SumLatency += rec.Duration
}

// Reject counts a line that could not be parsed.
func (a *Aggregator) Reject() {
	a.seq++
	a.quality.Bad++
}

// Merge adds everything other has folded into a. other must not be used
// afterwards.
func (a *Aggregator) Merge(other *Aggregator) {
	for url, o := range other.urls {
		urlStats, ok := a.urls[url]
		if !ok {
			a.urls[url] = o

			continue
		}

		urlStats.Occurrences += o.Occurrences
		urlStats.SumLatency += o.SumLatency
		urlStats.MaxLatency = max(urlStats.MaxLatency, o.MaxLatency)
		urlStats.firstSeen = min(urlStats.firstSeen, o.firstSeen)
		urlStats.durations.merge(o.durations)
	}

	a.general.TotalRecords += other.general.TotalRecords
	a.general.SumLatency += other.general.SumLatency
	a.quality.add(other.quality)
	a.seq = max(a.seq, other.seq)
}

// URLs returns the per-URL statistics in the order the URLs were first seen.
func (a *Aggregator) URLs() []*URLStats {
	urls := make([]*URLStats, 0, len(a.urls))
	for _, urlStats := range a.urls {
		urls = append(urls, urlStats)
	}

	slices.SortFunc(urls, func(x, y *URLStats) int {
		if c := cmp.Compare(x.firstSeen, y.firstSeen); c != 0 {
			return c
		}

		return strings.Compare(x.URL, y.URL)
	})

	return urls
}

func (a *Aggregator) Lookup(url string) (*URLStats, bool) {
	urlStats, ok := a.urls[url]

	return urlStats, ok
}

func (a *Aggregator) Len() int {
	return len(a.urls)
}

func (a *Aggregator) General() GeneralStats {
	return a.general
}

func (a *Aggregator) Quality() Quality {
	return a.quality
}
