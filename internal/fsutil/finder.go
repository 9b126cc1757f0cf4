// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns their full paths in lexical order.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// SplitExisting partitions paths relative to root into those that exist as
// regular files and those that do not, preserving input order.
func SplitExisting(root string, paths []string) (existing, missing []string, err error) {
	for _, p := range paths {
		full := p
		if !filepath.IsAbs(p) {
			full = filepath.Join(root, p)
		}
		info, statErr := os.Stat(full)
		switch {
		case statErr == nil && !info.IsDir():
			existing = append(existing, p)
		case statErr == nil || errors.Is(statErr, fs.ErrNotExist):
			missing = append(missing, p)
		default:
			return nil, nil, statErr
		}
	}
	return existing, missing, nil
}
