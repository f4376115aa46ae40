// Package source defines where raw chat messages come from. Each source
// produces an ordered batch of messages tagged with the source's name.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/ambrish/job-aggregator/internal/extract"
	"github.com/ambrish/job-aggregator/internal/fetch"
	"github.com/ambrish/job-aggregator/internal/types"
)

// Source yields raw messages for one channel, group, or export.
type Source interface {
	// Name identifies the source in records and run summaries.
	Name() string
	// Fetch returns all raw messages in document order.
	Fetch(ctx context.Context) ([]types.RawMessage, error)
}

// DocumentSource reads messages out of a saved HTML export on disk.
type DocumentSource struct {
	name      string
	path      string
	extractor *extract.Extractor
}

// NewDocumentSource creates a source backed by an HTML file.
func NewDocumentSource(name, path string) *DocumentSource {
	return &DocumentSource{
		name:      name,
		path:      path,
		extractor: extract.New(),
	}
}

func (s *DocumentSource) Name() string { return s.name }

func (s *DocumentSource) Fetch(ctx context.Context) ([]types.RawMessage, error) {
	msgs, err := s.extractor.FromFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", s.name, err)
	}
	return msgs, nil
}

// URLSource downloads an HTML export over HTTP before extraction.
type URLSource struct {
	name      string
	url       string
	opts      *fetch.Options
	extractor *extract.Extractor
}

// NewURLSource creates a source backed by a remote HTML document. A nil
// opts uses fetch.DefaultOptions.
func NewURLSource(name, url string, opts *fetch.Options) *URLSource {
	return &URLSource{
		name:      name,
		url:       url,
		opts:      opts,
		extractor: extract.New(),
	}
}

func (s *URLSource) Name() string { return s.name }

func (s *URLSource) Fetch(ctx context.Context) ([]types.RawMessage, error) {
	result, err := fetch.URL(ctx, s.url, s.opts)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", s.name, err)
	}
	msgs, err := s.extractor.FromReader(strings.NewReader(result.HTML))
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", s.name, err)
	}
	return msgs, nil
}

// PreExtractedSource serves messages that were already extracted, either
// built in memory or loaded from a JSON file. Useful for replaying a
// batch without the original export.
type PreExtractedSource struct {
	name     string
	messages []types.RawMessage
}

// NewPreExtractedSource wraps an in-memory batch of messages.
func NewPreExtractedSource(name string, messages []types.RawMessage) *PreExtractedSource {
	return &PreExtractedSource{name: name, messages: messages}
}

func (s *PreExtractedSource) Name() string { return s.name }

func (s *PreExtractedSource) Fetch(ctx context.Context) ([]types.RawMessage, error) {
	return s.messages, nil
}
