package domain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCategory indicates a category that is not in the category table.
var ErrUnknownCategory = errors.New("unknown category")

// SortMode selects the upstream ordering for an ingestion run.
// The upstream API returns pages in descending order of this key.
type SortMode string

const (
	SortVotes    SortMode = "votes"
	SortCreation SortMode = "creation"
	SortActivity SortMode = "activity"
)

// ParseSortMode validates a sort mode string.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case SortVotes, SortCreation, SortActivity:
		return SortMode(s), nil
	default:
		return "", fmt.Errorf("sort mode must be 'votes', 'creation' or 'activity', got: %s", s)
	}
}

// DefaultCategoryTags maps category names to upstream tags. Most categories
// use their own name as the tag; the entries below are the ones that differ.
// The table can be replaced wholesale through configuration.
var DefaultCategoryTags = map[string]string{
	"javascript":       "javascript",
	"python":           "python",
	"nodejs":           "node.js",
	"react":            "reactjs",
	"vue":              "vue.js",
	"angular":          "angular",
	"php":              "php",
	"java":             "java",
	"csharp":           "c#",
	"cpp":              "c++",
	"go":               "go",
	"rust":             "rust",
	"kotlin":           "kotlin",
	"swift":            "swift",
	"flutter":          "flutter",
	"react-native":     "react-native",
	"android":          "android",
	"ios":              "ios",
	"html":             "html",
	"css":              "css",
	"sql":              "sql",
	"typescript":       "typescript",
	"mongodb":          "mongodb",
	"mysql":            "mysql",
	"postgresql":       "postgresql",
	"redis":            "redis",
	"docker":           "docker",
	"kubernetes":       "kubernetes",
	"aws":              "amazon-web-services",
	"azure":            "azure",
	"git":              "git",
	"linux":            "linux",
	"bash":             "bash",
	"machine-learning": "machine-learning",
	"tensorflow":       "tensorflow",
	"pytorch":          "pytorch",
	"pandas":           "pandas",
	"numpy":            "numpy",
	"django":           "django",
	"flask":            "flask",
	"laravel":          "laravel",
	"spring-boot":      "spring-boot",
	"nextjs":           "next.js",
	"tailwind":         "tailwind-css",
	"graphql":          "graphql",
	"firebase":         "firebase",
	"elasticsearch":    "elasticsearch",
	"nginx":            "nginx",
	"regex":            "regex",
	"jest":             "jestjs",
}

// CategoryTable resolves category names to upstream tags.
type CategoryTable map[string]string

// TagFor returns the upstream tag for a category name.
// Returns ErrUnknownCategory (wrapped with the name) for unknown categories.
func (t CategoryTable) TagFor(category string) (string, error) {
	tag, ok := t[category]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	return tag, nil
}

// Names returns all category names in sorted order.
func (t CategoryTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
