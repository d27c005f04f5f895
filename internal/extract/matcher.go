package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// matcher finds whole-word vocabulary terms in lowercase text.
// Word boundaries are checked on runes, so terms with accented letters
// at either end ("éclair", "crème brûlée") match like ASCII ones.
type matcher struct {
	re *regexp.Regexp
}

// newMatcher compiles terms into one alternation. Longer terms come first
// so "croissants" is preferred over "croissant" at the same position.
func newMatcher(terms []string) *matcher {
	if len(terms) == 0 {
		return &matcher{}
	}
	sorted := make([]string, len(terms))
	copy(sorted, terms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	quoted := make([]string, len(sorted))
	for i, t := range sorted {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(t), " ", `\s+`)
	}
	return &matcher{re: regexp.MustCompile(`(?:` + strings.Join(quoted, "|") + `)`)}
}

// next returns the byte span of the first whole-word match at or after pos.
func (m *matcher) next(text string, pos int) (start, end int, ok bool) {
	for pos < len(text) {
		loc := m.re.FindStringIndex(text[pos:])
		if loc == nil {
			return 0, 0, false
		}
		start, end = pos+loc[0], pos+loc[1]
		if end > start && boundaryBefore(text, start) && boundaryAfter(text, end) {
			return start, end, true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + max(size, 1)
	}
	return 0, 0, false
}

// find returns each match in text order. Matches never overlap, so a
// token is counted at most once.
func (m *matcher) find(text string) []string {
	if m.re == nil || text == "" {
		return nil
	}
	var found []string
	for pos := 0; ; {
		start, end, ok := m.next(text, pos)
		if !ok {
			break
		}
		found = append(found, strings.Join(strings.Fields(text[start:end]), " "))
		pos = end
	}
	return found
}

// contains reports whether text has at least one term.
func (m *matcher) contains(text string) bool {
	if m.re == nil {
		return false
	}
	_, _, ok := m.next(text, 0)
	return ok
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}
