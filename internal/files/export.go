// Package files copies the launch list to and from files outside the data
// dir, so it can be moved between machines.
package files

import (
	"errors"
	"fmt"

	"github.com/mrboxik/autostarter/internal/cfg"
)

// Export writes items to dst in the config file format.
func Export(items []cfg.Item, dst string, resolver cfg.PathResolver) error {
	if dst == "" {
		return errors.New("export path is empty")
	}
	s, err := cfg.NewStore(dst, resolver)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	if err := s.Save(items); err != nil {
		return fmt.Errorf("export list: %w", err)
	}
	return nil
}
