// Package batch runs extractions over directories of images, either once
// or continuously as new images arrive.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cadvision/internal/perception"
)

// ErrNotDirectory means the batch input is missing or not a directory.
var ErrNotDirectory = errors.New("not a directory")

// ScanImages lists the supported images directly inside dir, sorted by
// name. Subdirectories are not descended into.
func ScanImages(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrNotDirectory, dir)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() || !perception.IsSupportedImage(e.Name()) {
			continue
		}
		images = append(images, filepath.Join(dir, e.Name()))
	}
	sort.Strings(images)
	return images, nil
}
