package extract

import (
	"regexp"
	"strings"
)

// Exported chat documents embed a metadata header per message, carried in
// a data attribute. Three shapes occur in the wild, tried in order; the
// first match wins and later shapes are not attempted:
//
//	[12/31/2024, 9:15 PM] Some Sender:
//	[12/31/2024, 9:15 PM]
//	9:15 PM Some Sender
var headerShapes = []*regexp.Regexp{
	regexp.MustCompile(`^\s*\[(?P<ts>[^\]]+)\]\s*(?P<sender>[^:]+):?\s*$`),
	regexp.MustCompile(`^\s*\[(?P<ts>[^\]]+)\]`),
	regexp.MustCompile(`^(?P<ts>\d{1,2}[:.]\d{2}(?:\s*(?:AM|PM|am|pm))?)`),
}

var (
	quotePrefixRe = regexp.MustCompile(`^(?:&gt;|>)+\s*`)
	lineBreaksRe  = regexp.MustCompile(`[\r\n]+`)
)

// cleanHeader normalizes a raw header value: quote markers stripped,
// line breaks collapsed, surrounding space removed.
func cleanHeader(raw string) string {
	s := strings.TrimSpace(raw)
	s = quotePrefixRe.ReplaceAllString(s, "")
	s = lineBreaksRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// headerTimestamp isolates the timestamp token from a message header.
// Returns "" when no recognized shape matches.
func headerTimestamp(raw string) string {
	if raw == "" {
		return ""
	}
	s := cleanHeader(raw)
	for _, shape := range headerShapes {
		m := shape.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		for i, name := range shape.SubexpNames() {
			if name == "ts" {
				return strings.TrimSpace(m[i])
			}
		}
	}
	return ""
}
