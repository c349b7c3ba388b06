package stats

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/influxdata/tdigest"
)

type DistributionKind int

const (
	// Exact keeps every duration and yields the exact median.
	Exact DistributionKind = iota
	// Digest keeps a t-digest sketch: bounded memory, approximate median.
	Digest
)

const digestCompression = 100

func ParseDistributionKind(value string) (DistributionKind, error) {
	switch strings.ToLower(value) {
	case "", "exact":
		return Exact, nil
	case "tdigest", "digest":
		return Digest, nil
	default:
		return Exact, fmt.Errorf("unknown median mode %q", value)
	}
}

func (k DistributionKind) String() string {
	if k == Digest {
		return "tdigest"
	}

	return "exact"
}

// distribution is the multiset of latencies seen for one URL.
type distribution interface {
	add(ms int64)
	median() int64
	merge(other distribution)
}

func newDistribution(kind DistributionKind) distribution {
	if kind == Digest {
		return &digestDistribution{
			digest: tdigest.NewWithCompression(digestCompression),
		}
	}

	return &exactDistribution{}
}

type exactDistribution struct {
	values []int64
}

func (d *exactDistribution) add(ms int64) {
	d.values = append(d.values, ms)
}

func (d *exactDistribution) median() int64 {
	return Median(d.values)
}

func (d *exactDistribution) merge(other distribution) {
	if o, ok := other.(*exactDistribution); ok {
		d.values = append(d.values, o.values...)
	}
}

type digestDistribution struct {
	digest *tdigest.TDigest
}

func (d *digestDistribution) add(ms int64) {
	d.digest.Add(float64(ms), 1)
}

func (d *digestDistribution) median() int64 {
	if d.digest.Count() == 0 {
		return 0
	}

	return int64(math.Floor(d.digest.Quantile(0.5)))
}

func (d *digestDistribution) merge(other distribution) {
	if o, ok := other.(*digestDistribution); ok {
		d.digest.AddCentroidList(o.digest.Centroids())
	}
}

// Median returns the exact median of values: the middle element for an odd
// count, the floor average of the two central elements for an even count.
// values is not modified.
func Median(values []int64) int64 {
	if len(values) == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}

	return (sorted[mid-1] + sorted[mid]) / 2
}
