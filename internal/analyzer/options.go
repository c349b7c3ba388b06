package analyzer

import "github.com/es-debug/nginx-latency-report/internal/stats"

type Options struct {
	// Workers is the number of goroutines parsing lines. 1 folds the file
	// strictly in order.
	Workers      int
	Distribution stats.DistributionKind
}

func DefaultOptions() Options {
	return Options{
		Workers:      1,
		Distribution: stats.Exact,
	}
}
