package parser

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Expected log_format:
//
//	'$remote_addr $remote_user $http_x_real_ip [$time_local] "$request" '
//	'$status $body_bytes_sent "$http_referer" '
//	'"$http_user_agent" "$http_x_forwarded_for" "$http_X_REQUEST_ID" "$http_X_RB_USER" '
//	'$request_time'
const (
	quoted     = `"((?:[^"\\]|\\.)*)"`
	urlPattern = `(?:(?i:https?|ftp|gopher|file):/)?/[^\s"]*`
	timeLayout = "2/Jan/2006:15:04:05 -0700"

	maxOffsetHours   = 23
	maxOffsetMinutes = 59
	maxOctet         = 255
)

var (
	errOutOfRange = errors.New("out of range")
	errOverflow   = errors.New("value overflows int64")
)

type Parser struct {
	line      *regexp.Regexp
	timestamp *regexp.Regexp
	request   *regexp.Regexp
	referer   *regexp.Regexp
	ipv4      *regexp.Regexp
	duration  *regexp.Regexp
}

func NewParser() *Parser {
	return &Parser{
		line: regexp.MustCompile(
			`^(\S+)\s+(\S+)\s+(\S+)\s+\[([^\]]*)\]\s+` + quoted + `\s+(\d{3})\s+(\d+)\s+` +
				quoted + `\s+` + quoted + `\s+` + quoted + `\s+` + quoted + `\s+` + quoted +
				`\s+(\S+)\s*$`,
		),
		timestamp: regexp.MustCompile(
			`^\d{1,2}/(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)/\d{4}:\d{2}:\d{2}:\d{2} [+-](\d{2})(\d{2})$`,
		),
		request: regexp.MustCompile(
			`^(GET|POST|HEAD|PUT|DELETE|CONNECT|OPTIONS|PATCH|TRACE) +(` + urlPattern + `) +(HTTP/1\.[01])$`,
		),
		referer:  regexp.MustCompile(`^(?:-|` + urlPattern + `)$`),
		ipv4:     regexp.MustCompile(`^(\d{1,3})\.(\d{1,3})\.(\d{1,3})\.(\d{1,3})$`),
		duration: regexp.MustCompile(`^(?:\d+\.?\d*|\.\d+)$`),
	}
}

// ParseLine converts one access log line into a Record. Any violated field
// rule fails the whole line; the returned error matches ErrBadLine.
func (p *Parser) ParseLine(text string) (Record, error) {
	matches := p.line.FindStringSubmatch(text)
	if matches == nil {
		return Record{}, NewErrLineFormat("line does not match access log format")
	}

	remoteAddr, err := p.parseAddress("remote address", matches[1])
	if err != nil {
		return Record{}, err
	}

	realIP, err := p.parseAddress("real ip", matches[3])
	if err != nil {
		return Record{}, err
	}

	timestamp, err := p.parseTimestamp(matches[4])
	if err != nil {
		return Record{}, err
	}

	method, url, protocol, err := p.parseRequest(matches[5])
	if err != nil {
		return Record{}, err
	}

	status, err := strconv.Atoi(matches[6])
	if err != nil {
		return Record{}, newFieldError("status", matches[6], err)
	}

	bytesSent, err := strconv.ParseInt(matches[7], 10, 64)
	if err != nil {
		return Record{}, newFieldError("bytes sent", matches[7], err)
	}

	if !p.referer.MatchString(matches[8]) {
		return Record{}, newFieldError("referer", matches[8], errors.New("not a url"))
	}

	duration, err := p.parseDuration(matches[13])
	if err != nil {
		return Record{}, err
	}

	return Record{
		RemoteAddr:   remoteAddr,
		RemoteUser:   dashOrValue(matches[2]),
		RealIP:       realIP,
		Timestamp:    timestamp,
		Method:       method,
		URL:          url,
		Protocol:     protocol,
		Status:       status,
		BytesSent:    bytesSent,
		Referer:      dashOrValue(matches[8]),
		UserAgent:    matches[9],
		ForwardedFor: matches[10],
		RequestID:    matches[11],
		RBUser:       matches[12],
		Duration:     duration,
	}, nil
}

func dashOrValue(value string) Optional[string] {
	if value == dash {
		return Missing[string]()
	}

	return Present(value)
}

func (p *Parser) parseAddress(field, value string) (Optional[string], error) {
	if value == dash {
		return Missing[string](), nil
	}

	octets := p.ipv4.FindStringSubmatch(value)
	if octets == nil {
		return Optional[string]{}, newFieldError(field, value, errors.New("not an ipv4 address"))
	}

	for _, octet := range octets[1:] {
		n, err := strconv.Atoi(octet)
		if err != nil {
			return Optional[string]{}, newFieldError(field, value, err)
		}

		if n > maxOctet {
			return Optional[string]{}, newFieldError(field, value, fmt.Errorf("octet %d: %w", n, errOutOfRange))
		}
	}

	return Present(value), nil
}

func (p *Parser) parseTimestamp(value string) (time.Time, error) {
	matches := p.timestamp.FindStringSubmatch(value)
	if matches == nil {
		return time.Time{}, newFieldError("time", value, errors.New("unexpected layout"))
	}

	// time.Parse tolerates offsets up to 24 hours.
	offsetHours, _ := strconv.Atoi(matches[1])
	offsetMinutes, _ := strconv.Atoi(matches[2])

	if offsetHours > maxOffsetHours || offsetMinutes > maxOffsetMinutes {
		return time.Time{}, newFieldError("time", value, fmt.Errorf("utc offset: %w", errOutOfRange))
	}

	parsedTime, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, newFieldError("time", value, err)
	}

	return parsedTime, nil
}

func (p *Parser) parseRequest(value string) (method, url, protocol string, err error) {
	matches := p.request.FindStringSubmatch(value)
	if matches == nil {
		return "", "", "", newFieldError("request", value, errors.New("unexpected request line"))
	}

	return matches[1], matches[2], matches[3], nil
}

// parseDuration converts decimal seconds to whole milliseconds without going
// through binary floating point, so "4.35" is exactly 4350.
func (p *Parser) parseDuration(value string) (int64, error) {
	if !p.duration.MatchString(value) {
		return 0, newFieldError("request time", value, errors.New("not a decimal number"))
	}

	intPart, fracPart, _ := strings.Cut(value, ".")

	var seconds int64

	if intPart != "" {
		var err error

		seconds, err = strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return 0, newFieldError("request time", value, err)
		}
	}

	fracPart = (fracPart + "000")[:3]

	millis, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, newFieldError("request time", value, err)
	}

	if seconds > (math.MaxInt64-millis)/1000 {
		return 0, newFieldError("request time", value, errOverflow)
	}

	return seconds*1000 + millis, nil
}
