// Package ircfmt renders and strips mIRC-style inline formatting codes.
//
// Chat lines carry these codes as the portable color/style representation;
// transports that cannot display them call Strip before sending.
package ircfmt

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	CodeBold   = "\x02"
	CodeColor  = "\x03"
	CodeItalic = "\x1d"
	CodeUnder  = "\x1f"
	CodeReset  = "\x0f"
)

// Common color numbers.
const (
	White     = "00"
	Black     = "01"
	Blue      = "02"
	Green     = "03"
	Red       = "04"
	Brown     = "05"
	Purple    = "06"
	Orange    = "07"
	Yellow    = "08"
	LightGrn  = "09"
	Teal      = "10"
	Cyan      = "11"
	LightBlue = "12"
	Pink      = "13"
	Grey      = "14"
	LightGrey = "15"
)

// Color wraps s in a foreground color. An empty token leaves s unchanged.
// Single-digit numeric tokens are zero padded so a following digit in s is
// not read as part of the color number.
func Color(s, fg string) string {
	if fg == "" {
		return s
	}
	if n, err := strconv.Atoi(fg); err == nil && n >= 0 && n < 100 {
		fg = fmt.Sprintf("%02d", n)
	}
	return CodeColor + fg + s + CodeReset
}

// Bold wraps s in bold markers.
func Bold(s string) string {
	return CodeBold + s + CodeReset
}

// Strip removes all formatting codes from s.
func Strip(s string) string {
	if !strings.ContainsAny(s, "\x02\x03\x0f\x1d\x1f\x16\x1e\x11") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\x02', '\x0f', '\x1d', '\x1f', '\x16', '\x1e', '\x11':
			continue
		case '\x03':
			i = skipColorArgs(s, i+1) - 1
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// skipColorArgs returns the index just past an optional "NN[,NN]" color
// argument starting at i.
func skipColorArgs(s string, i int) int {
	i = skipDigits(s, i, 2)
	if i+1 < len(s) && s[i] == ',' && isDigit(s[i+1]) {
		i = skipDigits(s, i+1, 2)
	}
	return i
}

func skipDigits(s string, i, max int) int {
	for n := 0; n < max && i < len(s) && isDigit(s[i]); n++ {
		i++
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
