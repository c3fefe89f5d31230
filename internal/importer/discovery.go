package importer

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/uni-bremen-agst/LSP2GXL/internal/ignore"
)

// discover walks every include root, returning every file whose extension
// is claimed by the configured server, excluding paths the matcher
// rejects. Directories matched by the exclude matcher are pruned entirely
// rather than merely skipped, so a huge ignored tree (node_modules, a
// vendor directory) never gets walked at all.
func (imp *Importer) discover(matcher *ignore.Matcher) ([]string, error) {
	extensions := make(map[string]bool, len(imp.server.Extensions))
	for _, ext := range imp.server.Extensions {
		extensions[ext] = true
	}

	seen := make(map[string]bool)
	var files []string

	for _, root := range imp.opts.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("importer: resolving root %q: %w", root, err)
		}
		walkErr := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if matcher.ShouldExclude(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !extensions[filepath.Ext(path)] {
				return nil
			}
			if seen[path] {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("importer: walking %s: %w", root, walkErr)
		}
	}

	sort.Strings(files)
	return files, nil
}
