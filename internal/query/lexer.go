package query

import "strings"

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_'
}

// skipQuoted advances past a single-quoted literal that opens at i and
// returns the index just after its closing quote, or -1 if it never closes.
// A backslash escapes the next byte and a doubled quote stands for one quote.
func skipQuoted(s string, i int) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '\'':
			if j+1 < len(s) && s[j+1] == '\'' {
				j++
				continue
			}
			return j + 1
		}
	}
	return -1
}

// literalBoundary returns the index of the first unescaped quote in s, or len(s).
func literalBoundary(s string) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '\'':
			return i
		}
	}
	return len(s)
}

// connectorAt reports the connector keyword starting at i, if any. The
// keyword must be followed by whitespace, a closing paren, or the end of
// input; the caller checks what precedes it.
func connectorAt(s string, i int) Connector {
	for _, kw := range []Connector{And, Or} {
		end := i + len(kw)
		if !strings.HasPrefix(s[i:], string(kw)) {
			continue
		}
		if end == len(s) || isSpace(s[end]) || s[end] == ')' {
			return kw
		}
	}
	return ConnectorNone
}

// endsWithListOperator reports whether the text accumulated for a clause
// ends in IN or NOT IN, meaning a following '(' opens a value list.
func endsWithListOperator(text string) bool {
	t := strings.TrimRight(text, " \t\r\n")
	if !strings.HasSuffix(t, string(OpIn)) {
		return false
	}
	rest := t[:len(t)-len(OpIn)]
	return rest != "" && isSpace(rest[len(rest)-1])
}

// matchOperator finds the operator of a simple clause within head, the part
// of the clause before its first literal. Operators must be preceded by
// whitespace; keyword operators must also end on a word boundary. The
// longest candidate wins; between candidates of equal length, the leftmost.
func matchOperator(head string) (Operator, int, bool) {
	var (
		best    Operator
		bestPos = -1
	)
	for _, op := range Operators {
		for from := 1; from < len(head); {
			idx := strings.Index(head[from:], string(op))
			if idx < 0 {
				break
			}
			pos := from + idx
			from = pos + 1

			if !isSpace(head[pos-1]) {
				continue
			}
			end := pos + len(op)
			if op.isKeyword() && end < len(head) && isIdentChar(head[end]) {
				continue
			}
			if bestPos < 0 || len(op) > len(best) || (len(op) == len(best) && pos < bestPos) {
				best, bestPos = op, pos
			}
			break
		}
	}
	return best, bestPos, bestPos >= 0
}
