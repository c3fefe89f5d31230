// Package ignore implements the discovery step's exclude-path matching: a
// plain string matches by prefix, a pattern ending in "$" is compiled and
// matched as a regular expression.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultPatterns are excluded from every discovery run regardless of
// --exclude, the usual non-source directories a project accumulates.
var DefaultPatterns = []string{
	"node_modules",
	".venv",
	"venv",
	"vendor",
	"Pods",
	"Carthage",
	"__pycache__",
	"dist",
	"build",
	"_build",
	".build",
	".tox",
	".git",
	".hg",
	".svn",
	".vscode",
	".idea",
	".gradle",
	"target",
	".pytest_cache",
	"coverage",
	"htmlcov",
	".cache",
}

// pattern is one compiled exclude entry: either a literal prefix or a
// compiled regular expression, per the "$"-suffix rule.
type pattern struct {
	literal string
	re      *regexp.Regexp
}

// Matcher evaluates a path against an ordered list of exclude patterns.
type Matcher struct {
	patterns []pattern
}

// NewMatcher builds a matcher from the default patterns plus any
// additional excludes supplied by the caller (typically --exclude flags).
// It never returns an error for a malformed regex pattern: the pattern is
// dropped and the string is still tried as a literal prefix, so one typo
// can't abort an entire run.
func NewMatcher(excludes []string) *Matcher {
	m := &Matcher{}
	for _, p := range DefaultPatterns {
		m.add(p)
	}
	for _, p := range excludes {
		m.add(p)
	}
	return m
}

// NewMatcherFromFile behaves like NewMatcher but also loads newline
// separated patterns from an ignore file (blank lines and lines starting
// with "#" are skipped), if the file exists.
func NewMatcherFromFile(excludes []string, ignoreFilePath string) *Matcher {
	m := NewMatcher(excludes)
	m.loadFile(ignoreFilePath)
	return m
}

func (m *Matcher) loadFile(path string) {
	if path == "" {
		return
	}
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.add(line)
	}
}

func (m *Matcher) add(p string) {
	if strings.HasSuffix(p, "$") {
		if re, err := regexp.Compile(p); err == nil {
			m.patterns = append(m.patterns, pattern{re: re})
			return
		}
	}
	m.patterns = append(m.patterns, pattern{literal: p})
}

// ShouldExclude reports whether path matches any configured pattern. path
// is evaluated both in full (slash-normalised) and component-by-component,
// so a literal pattern like "vendor" excludes any "vendor" directory
// regardless of depth.
func (m *Matcher) ShouldExclude(path string) bool {
	slashed := filepath.ToSlash(path)
	parts := strings.Split(slashed, "/")

	for _, p := range m.patterns {
		if p.re != nil {
			if p.re.MatchString(slashed) {
				return true
			}
			continue
		}
		if strings.HasPrefix(slashed, p.literal) {
			return true
		}
		for _, part := range parts {
			if part == p.literal {
				return true
			}
		}
	}
	return false
}

// Patterns returns every active pattern as its original source text, for
// diagnostics.
func (m *Matcher) Patterns() []string {
	out := make([]string, 0, len(m.patterns))
	for _, p := range m.patterns {
		if p.re != nil {
			out = append(out, p.re.String())
		} else {
			out = append(out, p.literal)
		}
	}
	return out
}

// WriteDefaultIgnoreFile writes a commented template ignore file at
// "<dir>/.lsp2gxlignore".
func WriteDefaultIgnoreFile(dir string) error {
	path := filepath.Join(dir, ".lsp2gxlignore")
	content := `# lsp2gxl exclude patterns.
# A line matches by prefix; a line ending in "$" is a regular expression.
#
# testdata/
# .*_test\.go$
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("ignore: writing %s: %w", path, err)
	}
	return nil
}
