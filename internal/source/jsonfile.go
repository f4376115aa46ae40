package source

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ambrish/job-aggregator/internal/types"
)

// LoadPreExtracted reads a JSON array of raw messages from disk and
// wraps it as a source. The file format mirrors types.RawMessage.
func LoadPreExtracted(name, path string) (*PreExtractedSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source %s: reading %s: %w", name, path, err)
	}
	var messages []types.RawMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("source %s: parsing %s: %w", name, path, err)
	}
	return &PreExtractedSource{name: name, messages: messages}, nil
}
