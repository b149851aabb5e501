package formatter_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"forge-relay/internal/formatter"
)

func TestShortCommentBody(t *testing.T) {
	tcs := map[string]struct {
		body *string
		want string
	}{
		"nil body":          {body: nil, want: "(empty comment)"},
		"empty":             {body: strPtr(""), want: "(no body text)"},
		"whitespace only":   {body: strPtr("  \n\t\n "), want: "(no body text)"},
		"short single line": {body: strPtr("LGTM"), want: "LGTM"},
		"quote skipped":     {body: strPtr("> you said\nagreed"), want: "agreed"},
		"heading skipped":   {body: strPtr("## Summary\nDoes a thing\nmore"), want: "Does a thing […]"},
		"html comment":      {body: strPtr("<!-- template -->\nFixes it"), want: "Fixes it"},
		"crlf":              {body: strPtr("first\r\nsecond"), want: "first […]"},
		"commit hash":       {body: strPtr("reverts " + strings.Repeat("ab", 20)), want: "reverts abababa"},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			if got := formatter.ShortCommentBody(tc.body); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestShortCommentBodyIdempotent(t *testing.T) {
	for _, in := range []string{"LGTM", "Looks fine to me, merging.", strings.Repeat("x", 250)} {
		once := formatter.ShortCommentBody(strPtr(in))
		if once != in {
			t.Errorf("short input changed: %q -> %q", in, once)
		}
		if twice := formatter.ShortCommentBody(strPtr(once)); twice != once {
			t.Errorf("not idempotent: %q -> %q", once, twice)
		}
	}
}

func TestShortCommentBodyTruncation(t *testing.T) {
	t.Run("Word Boundary", func(t *testing.T) {
		in := strings.TrimSpace(strings.Repeat("word ", 60))
		got := formatter.ShortCommentBody(strPtr(in))
		if !strings.HasSuffix(got, " […]") {
			t.Fatalf("expected continuation marker, got %q", got)
		}
		head := strings.TrimSuffix(got, " […]")
		if n := utf8.RuneCountInString(head); n > 250 {
			t.Errorf("expected at most 250 characters, got %d", n)
		}
		if strings.HasSuffix(head, "wor") {
			t.Errorf("expected cut at a word boundary, got %q", head)
		}
	})

	t.Run("Single Long Word", func(t *testing.T) {
		got := formatter.ShortCommentBody(strPtr(strings.Repeat("x", 300)))
		head := strings.TrimSuffix(got, " […]")
		if head == got {
			t.Fatalf("expected continuation marker, got %q", got)
		}
		if n := utf8.RuneCountInString(head); n != 250 {
			t.Errorf("expected hard cut at 250, got %d", n)
		}
	})

	t.Run("Wide Characters Counted Once", func(t *testing.T) {
		in := strings.TrimSpace(strings.Repeat("漢字仮名交じり文章 ", 40))
		got := formatter.ShortCommentBody(strPtr(in))
		head := strings.TrimSuffix(got, " […]")
		if head == got {
			t.Fatalf("expected continuation marker, got %q", got)
		}
		if n := utf8.RuneCountInString(head); n != 249 {
			t.Errorf("expected cut at the word boundary before 250, got %d characters", n)
		}
		if !strings.HasSuffix(head, "文章") {
			t.Errorf("expected cut at a word boundary, got %q", head)
		}
	})

	t.Run("Never Empty", func(t *testing.T) {
		for _, in := range []string{"", " ", "\n\n", "> only a quote", "# heading"} {
			if got := formatter.ShortCommentBody(strPtr(in)); got == "" {
				t.Errorf("empty output for %q", in)
			}
		}
	})
}
