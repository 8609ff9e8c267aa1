package files

import (
	"fmt"
	"os"
	"strings"

	"github.com/mrboxik/autostarter/internal/cfg"
)

// Import reads a list previously written by Export. Unlike loading the
// config file, a missing or corrupted file is an error.
func Import(src string, resolver cfg.PathResolver) ([]cfg.Item, error) {
	if _, err := os.Stat(src); err != nil {
		return nil, fmt.Errorf("stat import file: %w", err)
	}
	s, err := cfg.NewStore(src, resolver)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	items, err := s.Load()
	if err != nil {
		return nil, fmt.Errorf("import list: %w", err)
	}

	kept := items[:0]
	for _, it := range items {
		if resolver.IsSelf(it.Path) {
			continue
		}
		kept = append(kept, it)
	}
	return kept, nil
}

// Merge appends the imported items whose path is not already in existing.
// Paths are compared without regard to case.
func Merge(existing, imported []cfg.Item) []cfg.Item {
	merged := append([]cfg.Item{}, existing...)
	for _, it := range imported {
		dup := false
		for _, e := range merged {
			if strings.EqualFold(e.Path, it.Path) {
				dup = true
				break
			}
		}
		if !dup {
			merged = append(merged, it)
		}
	}
	return merged
}
