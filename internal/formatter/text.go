package formatter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/kyokomi/emoji/v2"
)

const shortHashLen = 7

// shortHash returns the first seven characters of a commit id.
func shortHash(id string) string {
	if len(id) <= shortHashLen {
		return id
	}
	return id[:shortHashLen]
}

// plural picks the singular form for exactly one, plural otherwise.
func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

var refPrefix = regexp.MustCompile(`^refs/(heads|tags)/`)

// refName strips refs/heads/ or refs/tags/ from a ref.
func refName(ref string) string {
	return refPrefix.ReplaceAllString(ref, "")
}

// isNullSHA reports whether sha is the all-zero id used for created and
// deleted refs.
func isNullSHA(sha string) bool {
	return sha != "" && strings.Trim(sha, "0") == ""
}

// firstLine returns the first line of s and whether anything followed it.
func firstLine(s string) (string, bool) {
	s = strings.TrimRight(s, "\r\n")
	line, _, more := strings.Cut(s, "\n")
	return strings.TrimRight(line, "\r"), more
}

// sentence joins items as "a", "a and b" or "a, b, and c".
func sentence(items []string) string {
	if len(items) <= 2 {
		return strings.Join(items, " and ")
	}
	return fmt.Sprintf("%s, and %s", strings.Join(items[:len(items)-1], ", "), items[len(items)-1])
}

// countActions tallies wiki page actions as "created 2"-style phrases in
// lexical order.
func countActions(actions []string) []string {
	counts := make(map[string]int)
	for _, a := range actions {
		counts[a]++
	}
	out := make([]string, 0, len(counts))
	for a, n := range counts {
		out = append(out, fmt.Sprintf("%s %d", a, n))
	}
	sort.Strings(out)
	return out
}

var (
	emojiAlias    = regexp.MustCompile(`:[a-zA-Z0-9_+\-]+:`)
	emojiCodes    map[string]string
	emojiCodesOne sync.Once
)

// emojize expands :alias: shortcodes; unknown aliases are left as written.
func emojize(s string) string {
	if !strings.Contains(s, ":") {
		return s
	}
	emojiCodesOne.Do(func() {
		emojiCodes = emoji.CodeMap()
	})
	return emojiAlias.ReplaceAllStringFunc(s, func(alias string) string {
		if e, ok := emojiCodes[strings.ToLower(alias)]; ok {
			return e
		}
		return alias
	})
}
