package stats

// Quality counts input lines by parse outcome. Ignored lines parsed fine but
// carried a zero duration; they are included in Good.
type Quality struct {
	Good    int64
	Bad     int64
	Ignored int64
}

func (q Quality) Total() int64 {
	return q.Good + q.Bad
}

// ErrorRatio is bad / (bad + good), or 0 when no lines were read.
func (q Quality) ErrorRatio() float64 {
	total := q.Total()
	if total == 0 {
		return 0
	}

	return float64(q.Bad) / float64(total)
}

func (q *Quality) add(other Quality) {
	q.Good += other.Good
	q.Bad += other.Bad
	q.Ignored += other.Ignored
}
