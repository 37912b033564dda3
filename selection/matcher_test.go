package selection

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var matcherPaths = []string{
	"cmd/app/main.go",
	"cmd/app/main_test.go",
	"internal/util/strings.go",
	"docs/guide.md",
	"README.md",
}

func matchSorted(t *testing.T, pattern string) []string {
	t.Helper()
	matcher, err := ParseMatcher(pattern)
	require.NoError(t, err)
	matches, err := matcher.Match(matcherPaths)
	require.NoError(t, err)
	sort.Strings(matches)
	return matches
}

func TestParseMatcherExact(t *testing.T) {
	assert.Equal(t, []string{"README.md"}, matchSorted(t, "=README.md"))
	assert.Empty(t, matchSorted(t, "=missing.go"))
}

func TestParseMatcherRegex(t *testing.T) {
	assert.Equal(t,
		[]string{"cmd/app/main.go", "internal/util/strings.go"},
		matchSorted(t, `/\.go$|!/_test\.go$`))
}

func TestParseMatcherGlob(t *testing.T) {
	assert.Equal(t,
		[]string{"cmd/app/main.go", "cmd/app/main_test.go"},
		matchSorted(t, "cmd/**/*.go"))
}

func TestParseMatcherFuzzy(t *testing.T) {
	matches := matchSorted(t, "utilstrings")
	assert.Equal(t, []string{"internal/util/strings.go"}, matches)
}

func TestParseMatcherNegation(t *testing.T) {
	assert.Equal(t,
		[]string{"README.md", "docs/guide.md"},
		matchSorted(t, `!/\.go$`))
}

func TestParseMatcherUnion(t *testing.T) {
	assert.Equal(t,
		[]string{"README.md", "docs/guide.md"},
		matchSorted(t, "=README.md;=docs/guide.md"))
}

func TestParseMatcherEmptySelectsAll(t *testing.T) {
	assert.Len(t, matchSorted(t, ""), len(matcherPaths))
}

func TestParseMatcherRejectsParentTraversal(t *testing.T) {
	_, err := ParseMatcher("../secrets")
	assert.Error(t, err)
}

func TestParseMatcherRejectsEmptyNegation(t *testing.T) {
	_, err := ParseMatcher("!")
	assert.Error(t, err)
}

func TestParseMatcherInvalidRegex(t *testing.T) {
	_, err := ParseMatcher("/([")
	assert.Error(t, err)
}

func TestParseMatchers(t *testing.T) {
	require := require.New(t)

	matchers, err := ParseMatchers(`
# comment line
=README.md

cmd/**/*.go
`)
	require.NoError(err)
	require.Len(matchers, 2)

	first, err := matchers[0].Match(matcherPaths)
	require.NoError(err)
	assert.Equal(t, []string{"README.md"}, first)
}
