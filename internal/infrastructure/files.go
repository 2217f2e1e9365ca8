package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SweepDir removes regular files in dir whose modification time is older
// than ttl and returns how many were removed. Downloaded sources and
// rendered outputs are only reachable while their session is alive, so
// anything past the session TTL is garbage.
func SweepDir(dir string, ttl time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	cutoff := time.Now().Add(-ttl)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("removing %s: %w", entry.Name(), err)
		}
		removed++
	}

	return removed, nil
}
