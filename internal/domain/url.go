package domain

// URLStats is one row of the latency report. Times are in seconds,
// percentages are of the whole file.
type URLStats struct {
	URL       string  `json:"url"`
	Count     int64   `json:"count"`
	TimeSum   float64 `json:"time_sum"`
	TimeMax   float64 `json:"time_max"`
	TimeAvg   float64 `json:"time_avg"`
	TimeMed   float64 `json:"time_med"`
	TimePerc  float64 `json:"time_perc"`
	CountPerc float64 `json:"count_perc"`
}

func NewURLStats(
	url string,
	count int64,
	timeSum, timeMax, timeAvg, timeMed, timePerc, countPerc float64,
) URLStats {
	return URLStats{
		URL:       url,
		Count:     count,
		TimeSum:   timeSum,
		TimeMax:   timeMax,
		TimeAvg:   timeAvg,
		TimeMed:   timeMed,
		TimePerc:  timePerc,
		CountPerc: countPerc,
	}
}
