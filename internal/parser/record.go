package parser

import "time"

// Record is a single well-formed access log line. Duration is the request
// time in whole milliseconds, truncated.
type Record struct {
	RemoteAddr   Optional[string]
	RemoteUser   Optional[string]
	RealIP       Optional[string]
	Timestamp    time.Time
	Method       string
	URL          string
	Protocol     string
	Status       int
	BytesSent    int64
	Referer      Optional[string]
	UserAgent    string
	ForwardedFor string
	RequestID    string
	RBUser       string
	Duration     int64
}
