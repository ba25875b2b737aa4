package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverFiles walks root and returns every Rust source file, sorted for a
// deterministic scan order. Anything under a target build directory is
// skipped. A root that is itself a .rs file is returned as-is.
func DiscoverFiles(root string) ([]string, error) {
	if strings.HasSuffix(root, ".rs") {
		return []string{root}, nil
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "target" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".rs") {
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
