// Package extract parses exported chat-channel documents into ordered
// message sequences. It is tolerant by design: a malformed document
// yields an empty sequence and an error value, never a panic.
package extract

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ambrish/job-aggregator/internal/types"
)

// headerAttrs are the attribute names that may carry a message header.
const (
	headerAttr    = "data-pre-plain-text"
	headerAttrAlt = "data-pre_plain_text"
)

// probes are the structural selectors tried against the document, in
// order. The first probe that yields at least one node wins; later
// probes are never tried once one succeeds.
var probes = []string{
	"[" + headerAttr + "]",
	"[" + headerAttrAlt + "]",
	".copyable-text",
}

// Extractor turns raw exported documents into RawMessage sequences.
type Extractor struct {
	now func() time.Time
}

// New returns an Extractor using the wall clock for time-only timestamps.
func New() *Extractor {
	return &Extractor{now: time.Now}
}

// NewAt returns an Extractor with a fixed reference clock. Used by tests
// and replays where time-only timestamps must normalize deterministically.
func NewAt(now func() time.Time) *Extractor {
	return &Extractor{now: now}
}

// FromReader extracts all messages from an exported document, in
// document order. Nodes without usable text or without any timestamp
// token are discarded entirely rather than emitted as empty records.
func (e *Extractor) FromReader(r io.Reader) ([]types.RawMessage, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ExtractionError{Message: "parsing document", Cause: err}
	}

	var nodes *goquery.Selection
	for _, probe := range probes {
		sel := doc.Find(probe)
		if sel.Length() > 0 {
			nodes = sel
			break
		}
	}
	if nodes == nil {
		return nil, nil
	}

	ref := e.now()
	messages := make([]types.RawMessage, 0, nodes.Length())
	nodes.Each(func(_ int, s *goquery.Selection) {
		if msg, ok := e.fromNode(s, ref); ok {
			messages = append(messages, msg)
		}
	})
	return messages, nil
}

// FromFile extracts all messages from an exported document on disk.
func (e *Extractor) FromFile(path string) ([]types.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ExtractionError{Message: "opening document", Cause: err}
	}
	defer func() { _ = f.Close() }()
	return e.FromReader(f)
}

// fromNode lifts a single message node into a RawMessage. The header is
// read from the data attribute, its timestamp token isolated, and any
// exact-prefix duplication of the header inside the visible text removed.
func (e *Extractor) fromNode(s *goquery.Selection, ref time.Time) (types.RawMessage, bool) {
	header, ok := s.Attr(headerAttr)
	if !ok {
		header, _ = s.Attr(headerAttrAlt)
	}

	text := visibleText(s)
	if raw := strings.TrimSpace(header); raw != "" && strings.HasPrefix(text, raw) {
		text = strings.TrimSpace(strings.TrimPrefix(text, raw))
	}

	tsRaw := headerTimestamp(header)
	if text == "" || tsRaw == "" {
		return types.RawMessage{}, false
	}

	msg := types.RawMessage{Text: text, TimestampRaw: tsRaw}
	if iso, ok := ParseTimestamp(tsRaw, ref); ok {
		msg.TimestampISO = iso
	}
	return msg, true
}

// visibleText flattens a node's text content with single-space
// separation, mirroring how the exported markup renders.
func visibleText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
