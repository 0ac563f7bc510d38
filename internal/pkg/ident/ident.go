// Package ident canonicalizes host keys into palette identifiers
package ident

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// Host keys come from JavaScript, whose \s also covers Unicode spaces
	// and the byte order mark
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)
	wordSplit     = regexp.MustCompile(`[-_]`)

	titleCaser = cases.Title(language.English)
)

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func trim(id string) string {
	return strings.TrimFunc(id, isSpace)
}

// Sanitize produces the canonical lowercase-hyphen form of a key.
// Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(id string) string {
	out := trim(id)
	out = whitespaceRun.ReplaceAllString(out, "-")
	out = strings.ReplaceAll(out, "_", "-")
	return strings.ToLower(out)
}

// Unsanitize maps whitespace and hyphens back to underscores.
// It is lossy: "a b", "a_b" and "a-b" all map to "a_b", so lookups against
// host data must go through Spellings.
func Unsanitize(id string) string {
	out := trim(id)
	out = whitespaceRun.ReplaceAllString(out, "_")
	return strings.ReplaceAll(out, "-", "_")
}

// Spellings lists the keys worth trying when looking up an id in host data:
// the id as given, its sanitized form and its underscore form.
func Spellings(id string) []string {
	if trim(id) == "" {
		return nil
	}
	candidates := []string{id, Sanitize(id), Unsanitize(id)}
	out := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Same reports whether two keys share a canonical form
func Same(a, b string) bool {
	return Sanitize(a) == Sanitize(b)
}

// TranslationKey joins a prefix with a key in the host's snake_case form
func TranslationKey(prefix, key string) string {
	if prefix == "" || trim(key) == "" {
		return ""
	}
	normalized := whitespaceRun.ReplaceAllString(key, "_")
	normalized = strings.ToLower(strings.ReplaceAll(normalized, "-", "_"))
	return prefix + "." + normalized
}

// Humanize turns "school-ability" or "school_ability" into "School Ability"
func Humanize(id string) string {
	parts := wordSplit.Split(id, -1)
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		words = append(words, titleCaser.String(p))
	}
	return strings.Join(words, " ")
}
