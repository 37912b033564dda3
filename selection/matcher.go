// Matchers implement predicate-driven selection over blob paths.
//
// # Pattern Syntax
//
// 1. Fuzzy Matching (default):
//   - Example: "foo" matches any path containing characters that fuzzy match "foo"
//
// 2. Regular Expression Matching:
//   - Prefix: "/"
//   - Example: "/\.go$" matches paths ending with ".go"
//
// 3. Glob Matching:
//   - Used when the pattern contains '*' or '?'
//   - Example: "cmd/**/*.go" matches Go files anywhere under cmd
//
// 4. Exact Path Matching:
//   - Prefix: "="
//   - Example: "=path/to/file.go" matches only that exact path
//
// 5. Negation (exclude matches):
//   - Prefix: "!"
//   - Example: "!test" excludes paths that would match the pattern "test"
//
// 6. Compound Patterns (logical AND):
//   - Separator: "|"
//   - Example: "cmd|/\.go$|!test"
//
// 7. Union Patterns (logical OR):
//   - Separator: ";"
//   - Example: "cmd/**/*.go;internal/**/*.go"
//
// Empty pattern matches all paths. A "./" prefix is stripped; "../" is
// rejected.

package selection

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sahilm/fuzzy"
)

// Matcher is an interface for matching blob paths.
type Matcher interface {
	// Match takes a slice of paths and returns the matched paths
	Match(paths []string) ([]string, error)
}

// ExactPathMatcher matches a single exact path.
type ExactPathMatcher struct {
	Path string
}

// Match implements the Matcher interface for ExactPathMatcher
func (m ExactPathMatcher) Match(paths []string) ([]string, error) {
	for _, path := range paths {
		if path == m.Path {
			return []string{path}, nil
		}
	}
	return []string{}, nil
}

// FuzzyMatcher uses fuzzy matching for blob paths.
type FuzzyMatcher struct {
	Pattern string
}

// Match implements the Matcher interface for FuzzyMatcher
func (m FuzzyMatcher) Match(paths []string) ([]string, error) {
	// Empty pattern selects all files
	if m.Pattern == "" {
		return paths, nil
	}

	matchesSet := NewSet[string]()
	for _, match := range fuzzy.Find(m.Pattern, paths) {
		matchesSet.Add(paths[match.Index])
	}
	return matchesSet.Values(), nil
}

// GlobMatcher uses glob patterns (including '**') to match blob paths.
type GlobMatcher struct {
	Pattern string
}

func NewGlobMatcher(pattern string) (GlobMatcher, error) {
	if !doublestar.ValidatePattern(pattern) {
		return GlobMatcher{}, fmt.Errorf("invalid glob pattern '%s'", pattern)
	}
	return GlobMatcher{Pattern: pattern}, nil
}

func (m GlobMatcher) Match(paths []string) ([]string, error) {
	matchesSet := NewSet[string]()

	for _, p := range paths {
		match, err := doublestar.Match(m.Pattern, p)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern '%s': %v", m.Pattern, err)
		}
		if match {
			matchesSet.Add(p)
		}
	}

	return matchesSet.Values(), nil
}

// RegexMatcher uses regular expressions for matching blob paths.
type RegexMatcher struct {
	Pattern string
	regex   *regexp.Regexp
}

// NewRegexMatcher creates a new RegexMatcher with a pre-compiled regex pattern
func NewRegexMatcher(pattern string) (*RegexMatcher, error) {
	// Empty pattern selects all files
	if pattern == "" {
		return &RegexMatcher{Pattern: pattern}, nil
	}

	regex, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %v", err)
	}

	return &RegexMatcher{
		Pattern: pattern,
		regex:   regex,
	}, nil
}

// Match implements the Matcher interface for RegexMatcher
func (m *RegexMatcher) Match(paths []string) ([]string, error) {
	if m.Pattern == "" {
		return paths, nil
	}

	matchesSet := NewSet[string]()
	for _, path := range paths {
		if m.regex.MatchString(path) {
			matchesSet.Add(path)
		}
	}
	return matchesSet.Values(), nil
}

// NegationMatcher wraps another matcher and negates its results.
type NegationMatcher struct {
	Wrapped Matcher
}

// Match implements the Matcher interface for NegationMatcher
func (m NegationMatcher) Match(paths []string) ([]string, error) {
	matches, err := m.Wrapped.Match(paths)
	if err != nil {
		return nil, err
	}

	pathsSet := NewSetFromSlice(paths)
	matchesSet := NewSetFromSlice(matches)
	return pathsSet.Difference(matchesSet).Values(), nil
}

// CompoundMatcher applies multiple matchers in sequence (logical AND).
type CompoundMatcher struct {
	Matchers []Matcher
}

// Match implements the Matcher interface for CompoundMatcher
func (m CompoundMatcher) Match(paths []string) ([]string, error) {
	currentPaths := paths
	var err error

	for _, matcher := range m.Matchers {
		currentPaths, err = matcher.Match(currentPaths)
		if err != nil {
			return nil, err
		}
	}
	return currentPaths, nil
}

// UnionMatcher applies multiple matchers and combines their results (logical OR).
type UnionMatcher struct {
	Matchers []Matcher
}

// Match implements the Matcher interface for UnionMatcher
func (m UnionMatcher) Match(paths []string) ([]string, error) {
	resultSet := NewSet[string]()

	for _, matcher := range m.Matchers {
		matches, err := matcher.Match(paths)
		if err != nil {
			return nil, err
		}
		resultSet.AddValues(matches)
	}

	return resultSet.Values(), nil
}

// ParseMatcher parses a single pattern string into a Matcher.
func ParseMatcher(pattern string) (Matcher, error) {
	pattern = strings.TrimSpace(pattern)
	if strings.HasPrefix(pattern, "../") {
		return nil, fmt.Errorf("patterns with '../' are not supported for security reasons")
	}
	pattern = strings.TrimPrefix(pattern, "./")

	// ';' is logical OR, highest precedence.
	if strings.Contains(pattern, ";") {
		parts := strings.Split(pattern, ";")
		subMatchers := make([]Matcher, 0, len(parts))

		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			matcher, err := ParseMatcher(part)
			if err != nil {
				return nil, fmt.Errorf("in union pattern part '%s': %v", part, err)
			}
			subMatchers = append(subMatchers, matcher)
		}

		if len(subMatchers) == 0 {
			return nil, fmt.Errorf("union pattern contains no valid patterns")
		}
		if len(subMatchers) == 1 {
			return subMatchers[0], nil
		}
		return UnionMatcher{Matchers: subMatchers}, nil
	}

	if strings.HasPrefix(pattern, "=") {
		return ExactPathMatcher{Path: pattern[1:]}, nil
	} else if strings.Contains(pattern, "|") {
		// '|' is logical AND.
		parts := strings.Split(pattern, "|")
		subMatchers := make([]Matcher, 0, len(parts))

		for _, part := range parts {
			matcher, err := ParseMatcher(part)
			if err != nil {
				return nil, fmt.Errorf("in pattern part '%s': %v", part, err)
			}
			subMatchers = append(subMatchers, matcher)
		}

		return CompoundMatcher{Matchers: subMatchers}, nil
	}

	if strings.HasPrefix(pattern, "!") {
		pattern = pattern[1:]
		// An empty negation would exclude everything.
		if pattern == "" {
			return nil, fmt.Errorf("empty negation pattern '!' is not valid")
		}
		matcher, err := ParseMatcher(pattern)
		if err != nil {
			return nil, err
		}
		return NegationMatcher{Wrapped: matcher}, nil
	}

	if strings.HasPrefix(pattern, "/") {
		return NewRegexMatcher(pattern[1:])
	}

	if isGlobPattern(pattern) {
		return NewGlobMatcher(pattern)
	}

	// Default to fuzzy matching.
	return FuzzyMatcher{Pattern: pattern}, nil
}

func isGlobPattern(pat string) bool {
	return strings.ContainsAny(pat, "*?")
}

// ParseMatchers parses a string containing one pattern per line into a
// slice of Matchers. Empty lines and lines starting with # are skipped.
func ParseMatchers(input string) ([]Matcher, error) {
	var matchers []Matcher
	scanner := bufio.NewScanner(strings.NewReader(input))

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		matcher, err := ParseMatcher(line)
		if err != nil {
			return nil, fmt.Errorf("error parsing pattern '%s': %w", line, err)
		}
		matchers = append(matchers, matcher)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning input: %w", err)
	}

	return matchers, nil
}
