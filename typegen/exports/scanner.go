// Package exports finds the top-level names a TypeScript module exports.
//
// The scanner is lexical: it strips comments, then matches export declarations and
// export lists. That is enough to verify that a hand-edited scaffold still provides
// the symbols generated code imports from it.
package exports

import (
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/teranos/schemagen/errors"
)

// Scanner reports the exported names of a source file.
type Scanner interface {
	Scan(fs afero.Fs, path string) (Set, error)
}

// Set is a set of exported names.
type Set map[string]struct{}

// Has reports whether name is exported.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the names in s in lexical order.
func (s Set) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Missing returns the names of want that s lacks, in the order of want.
func (s Set) Missing(want []string) []string {
	var missing []string
	for _, name := range want {
		if !s.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

var (
	declPattern    = regexp.MustCompile(`(?m)^[ \t]*export[ \t]+(?:declare[ \t]+)?(?:async[ \t]+)?(?:abstract[ \t]+)?(?:const|let|var|function\*?|class|interface|type|enum|namespace)[ \t]+([A-Za-z_$][A-Za-z0-9_$]*)`)
	listPattern    = regexp.MustCompile(`(?m)^[ \t]*export[ \t]+(?:type[ \t]+)?\{([^}]*)\}`)
	defaultPattern = regexp.MustCompile(`(?m)^[ \t]*export[ \t]+default\b`)
)

// TypeScript scans .ts files.
type TypeScript struct{}

// Scan reads path from fs and returns its exports.
func (TypeScript) Scan(fs afero.Fs, path string) (Set, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return ScanSource(string(content)), nil
}

// ScanSource returns the exports of TypeScript source text.
func ScanSource(source string) Set {
	clean := stripComments(source)
	found := make(Set)

	for _, m := range declPattern.FindAllStringSubmatch(clean, -1) {
		found[m[1]] = struct{}{}
	}

	if defaultPattern.MatchString(clean) {
		found["default"] = struct{}{}
	}

	for _, m := range listPattern.FindAllStringSubmatch(clean, -1) {
		for _, spec := range strings.Split(m[1], ",") {
			if name := exportedName(spec); name != "" {
				found[name] = struct{}{}
			}
		}
	}
	return found
}

// exportedName resolves one export list specifier: `a`, `a as b`, `type A`.
func exportedName(spec string) string {
	words := splitByDelimiters(spec, " \t\r\n")
	if len(words) > 0 && words[0] == "type" {
		words = words[1:]
	}
	switch {
	case len(words) == 1:
		return identifier(words[0])
	case len(words) == 3 && words[1] == "as":
		return identifier(words[2])
	}
	return ""
}

func identifier(word string) string {
	if !isIdentifier(word) {
		return ""
	}
	return word
}

// stripComments removes block and line comments, leaving string literals intact.
// Newlines inside removed comments are kept so declarations stay at line starts.
func stripComments(source string) string {
	var result strings.Builder
	i := 0

	for i < len(source) {
		c := source[i]

		if c == '"' || c == '\'' || c == '`' {
			end := closingQuote(source, i)
			result.WriteString(source[i:end])
			i = end
			continue
		}

		if i+1 < len(source) && source[i:i+2] == "/*" {
			end := strings.Index(source[i+2:], "*/")
			if end == -1 {
				break
			}
			comment := source[i : i+2+end+2]
			result.WriteString(strings.Repeat("\n", strings.Count(comment, "\n")))
			i += len(comment)
			continue
		}

		if i+1 < len(source) && source[i:i+2] == "//" {
			end := strings.IndexByte(source[i:], '\n')
			if end == -1 {
				break
			}
			result.WriteByte('\n')
			i += end + 1
			continue
		}

		result.WriteByte(c)
		i++
	}

	return result.String()
}

// closingQuote returns the index just past the literal opened at start.
func closingQuote(source string, start int) int {
	quote := source[start]
	for i := start + 1; i < len(source); i++ {
		switch source[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		case '\n':
			if quote != '`' {
				return i
			}
		}
	}
	return len(source)
}

// splitByDelimiters splits a string by any character in the delimiters string
func splitByDelimiters(s, delimiters string) []string {
	var result []string
	var current strings.Builder

	for _, ch := range s {
		if strings.ContainsRune(delimiters, ch) {
			if current.Len() > 0 {
				result = append(result, current.String())
				current.Reset()
			}
		} else {
			current.WriteRune(ch)
		}
	}

	if current.Len() > 0 {
		result = append(result, current.String())
	}

	return result
}

// isIdentifier checks if a string is a plain JavaScript identifier
func isIdentifier(s string) bool {
	for i, ch := range s {
		letter := (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_' || ch == '$'
		digit := ch >= '0' && ch <= '9'
		if !letter && !(digit && i > 0) {
			return false
		}
	}
	return s != ""
}
