package cfg

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/blang/semver"
)

// LastMigrationFileName stores the version of the last migration that ran.
const LastMigrationFileName = "last_migration"

// migrations maps a version to the migration that upgrades data written by older versions.
var migrations = map[string]func(s *Store) error{
	"v1.1.0": func(s *Store) error {
		// Older versions persisted bare path strings and did not filter
		// self-references on load. Rewriting through Save fixes both.
		items, err := s.Load()
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		if err := s.Save(items); err != nil {
			return fmt.Errorf("save items: %v", err)
		}
		return nil
	},
}

// RunMigrations runs, in version order, every migration newer than the one
// recorded in the data dir, then records version as the last migration.
func RunMigrations(s *Store, version string) {
	if version == "development" {
		log.Println("skipping migrations in development mode")
		return
	}

	lastMigrationFile := filepath.Join(filepath.Dir(s.Path()), LastMigrationFileName)

	var lastMigration string
	if _, err := os.Stat(s.Path()); os.IsNotExist(err) {
		// First launch: nothing to migrate.
		lastMigration = version
	} else if data, err := os.ReadFile(lastMigrationFile); err == nil {
		lastMigration = string(data)
	} else if os.IsNotExist(err) {
		lastMigration = "v0.0.0"
	} else {
		log.Printf("failed to read last migration file: %v", err)
		return
	}

	lastMigrationV, err := semver.ParseTolerant(lastMigration)
	if err != nil {
		log.Printf("error parsing last migration(%s): %v", lastMigration, err)
		return
	}

	type pending struct {
		version semver.Version
		name    string
	}
	var queue []pending
	for name := range migrations {
		v, err := semver.ParseTolerant(name)
		if err != nil {
			log.Printf("error parsing migration version(%s): %v", name, err)
			continue
		}
		if lastMigrationV.LT(v) {
			queue = append(queue, pending{version: v, name: name})
		}
	}
	sort.Slice(queue, func(i, j int) bool { return queue[i].version.LT(queue[j].version) })

	for _, m := range queue {
		if err := migrations[m.name](s); err != nil {
			log.Printf("error running migration(%s): %v", m.name, err)
		} else {
			log.Printf("ran migration %s", m.name)
		}
	}

	if err := os.WriteFile(lastMigrationFile, []byte(version), 0644); err != nil {
		log.Printf("error writing last migration file: %v", err)
	}
}
