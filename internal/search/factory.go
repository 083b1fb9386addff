package search

import (
	"fmt"

	"github.com/pders01/folio/internal/config"
	"github.com/pders01/folio/internal/validation"
)

const (
	EngineBasic = "basic"
	EngineBleve = "bleve"
)

// New returns the engine selected by cfg.
func New(cfg config.SearchConfig, source Source) (Searcher, error) {
	switch cfg.Engine {
	case "", EngineBasic:
		return NewEngine(source), nil
	case EngineBleve:
		indexPath := cfg.IndexPath
		if indexPath != "" {
			dir, err := validation.NewPathHandler().Directory(indexPath)
			if err != nil {
				return nil, fmt.Errorf("invalid index path: %w", err)
			}
			indexPath = dir
		}
		engine, err := NewBleveEngine(source, indexPath)
		if err != nil {
			return nil, err
		}
		return engine, nil
	default:
		return nil, fmt.Errorf("unknown search engine %q", cfg.Engine)
	}
}
