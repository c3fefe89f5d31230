package ignore

import "testing"

func TestDefaultPatternsExcludeVendor(t *testing.T) {
	m := NewMatcher(nil)
	if !m.ShouldExclude("project/vendor/pkg/file.go") {
		t.Fatal("expected vendor directory to be excluded by default")
	}
	if m.ShouldExclude("project/internal/vendored_thing.go") {
		t.Fatal("did not expect a component-prefix false positive")
	}
}

func TestLiteralPrefixMatch(t *testing.T) {
	m := NewMatcher([]string{"testdata"})
	if !m.ShouldExclude("testdata/fixtures/a.go") {
		t.Fatal("expected prefix match on testdata/")
	}
	if m.ShouldExclude("src/testdata_helpers.go") {
		t.Fatal("did not expect a path containing but not starting with the prefix to match")
	}
}

func TestRegexSuffixPattern(t *testing.T) {
	m := NewMatcher([]string{`.*_test\.go$`})
	if !m.ShouldExclude("pkg/foo_test.go") {
		t.Fatal("expected regex pattern ending in $ to match")
	}
	if m.ShouldExclude("pkg/foo.go") {
		t.Fatal("did not expect a non-matching file to be excluded")
	}
}

func TestMalformedRegexFallsBackToLiteral(t *testing.T) {
	m := NewMatcher([]string{`(unclosed$`})
	// Falls back to a literal pattern that won't match typical paths; the
	// important thing is that building the matcher does not panic and
	// other patterns still work.
	if m.ShouldExclude("pkg/foo.go") {
		t.Fatal("did not expect the fallback literal to match an unrelated path")
	}
}
