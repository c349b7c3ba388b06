package scanner

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// directives maps the supported strftime directives to the text they match.
var directives = map[byte]string{
	'Y': `\d{4}`,
	'm': `\d{2}`,
	'd': `\d{2}`,
	'b': `[A-Z][a-z]{2}`,
	'F': `\d{4}-\d{2}-\d{2}`,
}

// Template is a file name carrying strftime date directives, for example
// "nginx-access-ui.log-%Y%m%d". Supported directives are %Y, %m, %d, %b
// and %F.
type Template struct {
	raw        string
	dateFormat string
	regex      *regexp.Regexp
}

func ParseTemplate(raw string) (Template, error) {
	if strings.ContainsRune(raw, '/') {
		return Template{}, NewErrTemplate(fmt.Sprintf("template %q must be a file name, not a path", raw))
	}

	var (
		pattern strings.Builder
		literal strings.Builder
		specs   []string
	)

	pattern.WriteString("^")

	flush := func() {
		pattern.WriteString(regexp.QuoteMeta(literal.String()))
		literal.Reset()
	}

	for i := 0; i < len(raw); i++ {
		if raw[i] != '%' {
			literal.WriteByte(raw[i])

			continue
		}

		if i+1 == len(raw) {
			return Template{}, NewErrTemplate(fmt.Sprintf("template %q ends with a lone %%", raw))
		}

		expr, ok := directives[raw[i+1]]
		if !ok {
			return Template{}, NewErrTemplate(fmt.Sprintf("template %q: unsupported directive %%%c", raw, raw[i+1]))
		}

		flush()
		pattern.WriteString("(" + expr + ")")

		specs = append(specs, raw[i:i+2])
		i++
	}

	flush()

	if len(specs) == 0 {
		return Template{}, NewErrTemplate(fmt.Sprintf("template %q has no date directive", raw))
	}

	pattern.WriteString(`(?:\.([[:alnum:]]{1,4}))?$`)

	return Template{
		raw:        raw,
		dateFormat: strings.Join(specs, " "),
		regex:      regexp.MustCompile(pattern.String()),
	}, nil
}

func (t Template) String() string {
	return t.raw
}

// Format renders the template for date.
func (t Template) Format(date time.Time) string {
	return strftime.Format(t.raw, date)
}

// Match reports whether name is the template, optionally followed by a
// ".ext" suffix, and returns the decoded date and the suffix.
func (t Template) Match(name string) (date time.Time, ext string, ok bool) {
	matches := t.regex.FindStringSubmatch(name)
	if matches == nil {
		return time.Time{}, "", false
	}

	// Only the directive values are decoded, literals never reach the parser.
	dateParts := matches[1 : len(matches)-1]

	date, err := strftime.Parse(t.dateFormat, strings.Join(dateParts, " "))
	if err != nil {
		return time.Time{}, "", false
	}

	return date, matches[len(matches)-1], true
}
