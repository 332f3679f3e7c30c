package filesearch

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ignoreMatcher matches paths against the rules of a single .gitignore.
// Later rules win, so negations ("!kept.json") behave as git does.
type ignoreMatcher struct {
	rules []ignoreRule
}

type ignoreRule struct {
	regex    *regexp.Regexp
	negation bool
	dirOnly  bool
	anchored bool
}

// newIgnoreMatcher parses the .gitignore at path. A missing file yields an
// empty matcher, not an error.
func newIgnoreMatcher(path string) (*ignoreMatcher, error) {
	m := &ignoreMatcher{}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rule, ok := parseIgnoreRule(line); ok {
			m.rules = append(m.rules, rule)
		}
	}
	return m, scanner.Err()
}

// Matches reports whether the relative path is ignored.
func (m *ignoreMatcher) Matches(rel string, isDir bool) bool {
	if m == nil || len(m.rules) == 0 {
		return false
	}
	rel = filepath.ToSlash(rel)

	ignored := false
	for _, rule := range m.rules {
		if rule.matches(rel, isDir) {
			ignored = !rule.negation
		}
	}
	return ignored
}

func (r ignoreRule) matches(rel string, isDir bool) bool {
	if r.dirOnly {
		if isDir {
			return r.regex.MatchString(rel)
		}
		// A file inside an ignored directory is ignored with it.
		return r.regex.MatchString(filepath.Dir(rel))
	}
	if r.anchored {
		return r.regex.MatchString(rel)
	}
	return r.regex.MatchString(rel) || r.regex.MatchString(filepath.Base(rel))
}

func parseIgnoreRule(line string) (ignoreRule, bool) {
	rule := ignoreRule{}
	if strings.HasPrefix(line, "!") {
		rule.negation = true
		line = line[1:]
	}
	rule.anchored = strings.HasPrefix(line, "/")
	if strings.HasSuffix(line, "/") {
		rule.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	regex, err := regexp.Compile(globToRegex(line))
	if err != nil {
		return ignoreRule{}, false
	}
	rule.regex = regex
	return rule, true
}

// globToRegex converts a gitignore glob to an anchored regexp source.
func globToRegex(pattern string) string {
	var b strings.Builder

	anchored := strings.HasPrefix(pattern, "/")
	if anchored {
		b.WriteString("^")
		pattern = pattern[1:]
	} else {
		b.WriteString("(^|/)")
	}

	for i := 0; i < len(pattern); {
		i += writeGlobChar(&b, pattern, i)
	}

	if anchored {
		b.WriteString("$")
	} else {
		b.WriteString("(/.*)?$")
	}
	return b.String()
}

// writeGlobChar emits the regex for pattern[i] and returns the bytes
// consumed.
func writeGlobChar(b *strings.Builder, pattern string, i int) int {
	switch ch := pattern[i]; ch {
	case '*':
		if i+1 < len(pattern) && pattern[i+1] == '*' {
			if i+2 < len(pattern) && pattern[i+2] == '/' {
				b.WriteString("(.*/)?")
				return 3
			}
			b.WriteString(".*")
			return 2
		}
		b.WriteString("[^/]*")
		return 1
	case '?':
		b.WriteString("[^/]")
		return 1
	case '.', '+', '(', ')', '|', '^', '$', '@', '%':
		b.WriteByte('\\')
		b.WriteByte(ch)
		return 1
	case '[':
		end := strings.IndexByte(pattern[i:], ']')
		if end > 0 {
			b.WriteString(pattern[i : i+end+1])
			return end + 1
		}
		b.WriteString("\\[")
		return 1
	case '\\':
		if i+1 < len(pattern) {
			b.WriteByte('\\')
			b.WriteByte(pattern[i+1])
			return 2
		}
		b.WriteString("\\\\")
		return 1
	default:
		b.WriteByte(ch)
		return 1
	}
}
