package main

import (
	"context"
	"fmt"

	"github.com/ambrish/job-aggregator/internal/config"
	"github.com/ambrish/job-aggregator/internal/llm"
	"github.com/ambrish/job-aggregator/internal/source"
	"github.com/ambrish/job-aggregator/internal/store"
)

// defaultDBPath is used when neither --db nor --db-url is given.
const defaultDBPath = "jobs.db"

// openStore picks the backend from config: Postgres when a database URL
// is set, SQLite otherwise.
func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.DatabaseURL != "" {
		return store.ConnectPostgres(ctx, cfg.DatabaseURL)
	}
	path := cfg.DBPath
	if path == "" {
		path = defaultDBPath
	}
	return store.OpenSQLite(path)
}

// newClient builds the provider client from config.
func newClient(ctx context.Context, cfg config.Config) (llm.Client, error) {
	lc := llm.DefaultConfig()
	if cfg.Provider != "" {
		lc.Provider = cfg.Provider
	}
	if cfg.OllamaURL != "" {
		lc.BaseURL = cfg.OllamaURL
	}
	if cfg.Model != "" {
		lc.Model = cfg.Model
	}
	if cfg.APIKey != "" {
		lc.APIKey = cfg.APIKey
	}
	if cfg.Temperature != 0 {
		lc.Temperature = cfg.Temperature
	}
	if t := cfg.Timeout(); t > 0 {
		lc.Timeout = t
	}
	return llm.NewClient(ctx, lc)
}

// buildSources turns the configured source list into runnable sources.
func buildSources(cfg config.Config) ([]source.Source, error) {
	var sources []source.Source
	for _, sc := range cfg.Sources {
		if !sc.IsEnabled() {
			continue
		}
		switch sc.Kind {
		case config.SourceKindFile:
			sources = append(sources, source.NewDocumentSource(sc.Name, sc.Path))
		case config.SourceKindURL:
			sources = append(sources, source.NewURLSource(sc.Name, sc.URL, nil))
		case config.SourceKindJSON:
			src, err := source.LoadPreExtracted(sc.Name, sc.Path)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		default:
			return nil, fmt.Errorf("unknown source kind %q for %q", sc.Kind, sc.Name)
		}
	}
	return sources, nil
}
