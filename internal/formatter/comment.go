package formatter

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	maxCommentWidth = 250
	continuation    = " […]"

	emptyComment = "(empty comment)"
	noBodyText   = "(no body text)"
)

var (
	markdownHeading = regexp.MustCompile(`^#+\s+`)
	fullCommitHash  = regexp.MustCompile(`[a-f0-9]{40}`)
	lineBreaks      = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// ShortCommentBody condenses a comment body to one chat-sized line.
//
// Quote lines, markdown headings and HTML comments are skipped and the
// first remaining line is kept, with full commit ids abbreviated. The line
// is cut at a word boundary to at most 250 characters, and " […]" marks
// that something was left out. A nil body renders as "(empty comment)";
// a body with no usable text renders as "(no body text)".
func ShortCommentBody(body *string) string {
	if body == nil {
		return emptyComment
	}

	var lines []string
	for _, line := range strings.Split(lineBreaks.Replace(*body), "\n") {
		if line == "" ||
			line[0] == '>' ||
			markdownHeading.MatchString(line) ||
			strings.HasPrefix(line, "<!-") {
			continue
		}
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return noBodyText
	}

	line := fullCommitHash.ReplaceAllStringFunc(lines[0], shortHash)
	short := wrapFirst(line, maxCommentWidth)
	if len(lines) > 1 || short != line {
		short += continuation
	}
	return short
}

// wrapFirst returns the first width characters of s, backed off to the last
// whitespace when the cut lands inside a word. A single word longer than
// width is hard-cut.
func wrapFirst(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}

	head := runes[:width]
	if !unicode.IsSpace(runes[width]) {
		for i := len(head) - 1; i > 0; i-- {
			if unicode.IsSpace(head[i]) {
				head = head[:i]
				break
			}
		}
	}
	return strings.TrimRightFunc(string(head), unicode.IsSpace)
}
