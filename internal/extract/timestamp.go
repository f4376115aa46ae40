package extract

import (
	"regexp"
	"strings"
	"time"
)

// ISOLayout is the timestamp form emitted for parsed timestamps and for
// extraction times on stored records.
const ISOLayout = "2006-01-02T15:04:05"

// Chat exports wrap timestamps in bidirectional control marks on RTL
// locales; they must be stripped before any parse attempt.
var bidiMarks = strings.NewReplacer("‎", "", "‏", "")

var meridiemRe = regexp.MustCompile(`(?i)\b(am|pm)\b`)

// monthFirstLayouts are tried before dayFirstLayouts. A locale-ambiguous
// date such as 3/4/2025 therefore resolves consistently to month-first;
// an unambiguous day-first date (13/4/2025) fails every month-first
// layout and falls through to the second attempt.
var monthFirstLayouts = []string{
	"1/2/2006, 3:04 PM",
	"1/2/06, 3:04 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006, 15:04",
	"1/2/2006 15:04",
	"1/2/2006",
	"1/2/06",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"2 Jan 2006 15:04",
	"2 Jan 2006",
}

var dayFirstLayouts = []string{
	"2/1/2006, 3:04 PM",
	"2/1/06, 3:04 PM",
	"2/1/2006 3:04 PM",
	"2/1/2006, 15:04",
	"2/1/2006 15:04",
	"2/1/2006",
	"2/1/06",
}

// timeOnlyLayouts carry no date; a match is combined with the reference
// day so bare "14:32" headers still normalize.
var timeOnlyLayouts = []string{
	"3:04 PM",
	"3.04 PM",
	"15:04",
	"15.04",
}

// ParseTimestamp normalizes a raw timestamp string to ISOLayout form.
// The month-first attempt runs first and wins when it yields a result;
// ref supplies the date for time-only values. Returns ("", false) when
// no attempt succeeds, in which case callers keep the raw string.
func ParseTimestamp(raw string, ref time.Time) (string, bool) {
	s := strings.TrimSpace(bidiMarks.Replace(raw))
	if s == "" {
		return "", false
	}
	s = meridiemRe.ReplaceAllStringFunc(s, strings.ToUpper)

	for _, layouts := range [][]string{monthFirstLayouts, dayFirstLayouts} {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format(ISOLayout), true
			}
		}
	}

	for _, layout := range timeOnlyLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t = time.Date(ref.Year(), ref.Month(), ref.Day(),
			t.Hour(), t.Minute(), t.Second(), 0, ref.Location())
		return t.Format(ISOLayout), true
	}

	return "", false
}
