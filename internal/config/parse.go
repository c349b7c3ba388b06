package config

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

type kind int

const (
	kindString kind = iota
	kindInt
	kindFloat
	kindVerbosity
	kindExtensions
)

var keyKinds = map[string]kind{
	KeyReportSize:     kindInt,
	KeyReportDir:      kindString,
	KeyLogDir:         kindString,
	KeyVerbose:        kindVerbosity,
	KeyLogGlob:        kindString,
	KeyReportGlob:     kindString,
	KeyAllowExts:      kindExtensions,
	KeyReportTemplate: kindString,
	KeyJournal:        kindString,
	KeyLogFormat:      kindString,
	KeyWorkers:        kindInt,
	KeyMedian:         kindString,
	KeyErrorThreshold: kindFloat,
	KeyMetricsFile:    kindString,
}

// keyAliases are older key names still accepted in config files.
var keyAliases = map[string]string{
	"template_html": KeyReportTemplate,
}

var (
	assignment = regexp.MustCompile(`^([A-Za-z_]+)\s*[:=]\s*(.*?)\s*$`)
	digits     = regexp.MustCompile(`^\d+$`)
	extension  = regexp.MustCompile(`^[[:alnum:]]{1,4}$`)
)

// Values maps lower case keys to their raw textual values.
type Values map[string]string

// SyntaxError points at the offending line of a config text. Line is 0 for
// values that did not come from a file.
type SyntaxError struct {
	Line int
	Key  string
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Key, e.Msg)
	}

	if e.Key == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}

	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Key, e.Msg)
}

// Parse reads "KEY: value" or "KEY = value" lines. Keys are case
// insensitive, lines starting with # are comments and a trailing comma is
// ignored.
func Parse(text string) (Values, error) {
	values := make(Values)

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		matches := assignment.FindStringSubmatch(line)
		if matches == nil {
			return nil, &SyntaxError{Line: i + 1, Msg: fmt.Sprintf("expected KEY: value, got %q", line)}
		}

		key := strings.ToLower(matches[1])
		if canonical, ok := keyAliases[key]; ok {
			key = canonical
		}
		value := strings.TrimSpace(strings.TrimSuffix(matches[2], ","))

		if err := checkValue(key, value); err != nil {
			err.Line = i + 1

			return nil, err
		}

		values[key] = value
	}

	return values, nil
}

// Load parses the config file at path.
func Load(path string) (Values, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	values, err := Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return values, nil
}

func checkValue(key, value string) *SyntaxError {
	k, ok := keyKinds[key]
	if !ok {
		return &SyntaxError{Key: key, Msg: "unknown key"}
	}

	var err error

	switch k {
	case kindInt:
		_, err = toInt(value)
	case kindFloat:
		_, err = toFloat(value)
	case kindVerbosity:
		_, err = toVerbosity(value)
	case kindExtensions:
		_, err = toExtensions(value)
	case kindString:
	}

	if err != nil {
		return &SyntaxError{Key: key, Msg: err.Error()}
	}

	return nil
}

func toInt(value string) (int, error) {
	if !digits.MatchString(value) {
		return 0, fmt.Errorf("%q is not a non-negative integer", value)
	}

	trimmed := strings.TrimLeft(value, "0")
	if trimmed == "" {
		return 0, nil
	}

	return cast.ToIntE(trimmed)
}

func toFloat(value string) (float64, error) {
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", value)
	}

	return f, nil
}

func toBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}

	b, err := cast.ToBoolE(strings.ToLower(value))
	if err != nil {
		return false, fmt.Errorf("%q is not a boolean", value)
	}

	return b, nil
}

// toVerbosity accepts a level 0-2 or a boolean, where true means 1.
func toVerbosity(value string) (int, error) {
	if digits.MatchString(value) {
		level, err := toInt(value)
		if err != nil || level > 2 {
			return 0, fmt.Errorf("verbosity %q is not in 0-2", value)
		}

		return level, nil
	}

	b, err := toBool(value)
	if err != nil {
		return 0, err
	}

	return cast.ToInt(b), nil
}

func toExtensions(value string) ([]string, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == '.' || r == ' ' || r == '\t'
	})

	exts := make([]string, 0, len(fields))

	for _, field := range fields {
		if !extension.MatchString(field) {
			return nil, fmt.Errorf("bad extension %q", field)
		}

		exts = append(exts, strings.ToLower(field))
	}

	return exts, nil
}

// Apply overrides the fields named in values.
func (c *Config) Apply(values Values) error {
	for key, value := range values {
		if err := checkValue(key, value); err != nil {
			return err
		}

		switch key {
		case KeyReportSize:
			c.ReportSize, _ = toInt(value)
		case KeyReportDir:
			c.ReportDir = value
		case KeyLogDir:
			c.LogDir = value
		case KeyVerbose:
			c.Verbose, _ = toVerbosity(value)
		case KeyLogGlob:
			c.LogGlob = value
		case KeyReportGlob:
			c.ReportGlob = value
		case KeyAllowExts:
			c.AllowExts, _ = toExtensions(value)
		case KeyReportTemplate:
			c.ReportTemplate = value
		case KeyJournal:
			c.Journal = value
		case KeyLogFormat:
			c.LogFormat = strings.ToLower(value)
		case KeyWorkers:
			c.Workers, _ = toInt(value)
		case KeyMedian:
			c.Median = strings.ToLower(value)
		case KeyErrorThreshold:
			c.ErrorThreshold, _ = toFloat(value)
		case KeyMetricsFile:
			c.MetricsFile = value
		}
	}

	return nil
}
