package binder

import (
	"strings"

	"github.com/Konsultn-Engineering/sqlstmt/placeholder"
)

// Go reference layouts for the fixed temporal patterns, translated once.
var (
	DateLayout      = Layout(placeholder.DatePattern)
	TimeLayout      = Layout(placeholder.TimePattern)
	TimestampLayout = Layout(placeholder.TimestampPattern)
)

// Layout translates a yyyy-MM-dd style date pattern into a Go time layout.
// Unknown letters and all other characters are copied through.
func Layout(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]
		j := i
		for j < len(pattern) && pattern[j] == c {
			j++
		}
		run := j - i
		b.WriteString(token(c, run, pattern[i:j]))
		i = j
	}
	return b.String()
}

func token(c byte, run int, literal string) string {
	switch c {
	case 'y':
		if run == 2 {
			return "06"
		}
		return "2006"
	case 'M':
		switch run {
		case 1:
			return "1"
		case 3:
			return "Jan"
		case 4:
			return "January"
		}
		return "01"
	case 'd':
		if run == 1 {
			return "2"
		}
		return "02"
	case 'H':
		return "15"
	case 'h':
		if run == 1 {
			return "3"
		}
		return "03"
	case 'm':
		if run == 1 {
			return "4"
		}
		return "04"
	case 's':
		if run == 1 {
			return "5"
		}
		return "05"
	case 'S':
		// the separator before fractional seconds is part of the pattern
		return strings.Repeat("0", run)
	case 'a':
		return "PM"
	case 'Z':
		return "-0700"
	case 'X':
		return "Z07:00"
	case 'E':
		if run >= 4 {
			return "Monday"
		}
		return "Mon"
	default:
		return literal
	}
}
