package nest

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/huongly92/nestmap/table"
)

// parseTupleLiteral reinterprets a string of the form "(a, b, ...)" as a
// structured tuple of primitive literals: numbers, quoted strings,
// True/False/None, or nested tuples. The string must start with '(', end
// with ')' and contain a comma; anything that fails to scan cleanly reports
// ok=false and the caller keeps the original text.
func parseTupleLiteral(s string) (table.Value, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "(") || !strings.HasSuffix(trimmed, ")") || !strings.Contains(trimmed, ",") {
		return table.Null(), false
	}

	sc := &literalScanner{runes: []rune(trimmed)}
	v, ok := sc.scanTuple()
	if !ok {
		return table.Null(), false
	}
	sc.skipSpace()
	if sc.i != len(sc.runes) {
		return table.Null(), false
	}
	return v, true
}

type literalScanner struct {
	runes []rune
	i     int
}

func (s *literalScanner) skipSpace() {
	for s.i < len(s.runes) && unicode.IsSpace(s.runes[s.i]) {
		s.i++
	}
}

func (s *literalScanner) peek() (rune, bool) {
	if s.i >= len(s.runes) {
		return 0, false
	}
	return s.runes[s.i], true
}

// scanTuple scans "(elem, elem, ...)" starting at the opening paren.
// A closing paren with no comma before it is not a tuple.
func (s *literalScanner) scanTuple() (table.Value, bool) {
	ch, ok := s.peek()
	if !ok || ch != '(' {
		return table.Null(), false
	}
	s.i++

	var items []table.Value
	commas := 0
	for {
		s.skipSpace()
		ch, ok := s.peek()
		if !ok {
			return table.Null(), false
		}
		if ch == ')' {
			s.i++
			break
		}
		elem, ok := s.scanElement()
		if !ok {
			return table.Null(), false
		}
		items = append(items, elem)

		s.skipSpace()
		ch, ok = s.peek()
		if !ok {
			return table.Null(), false
		}
		switch ch {
		case ',':
			commas++
			s.i++
		case ')':
			// handled on the next loop pass
		default:
			return table.Null(), false
		}
	}

	if commas == 0 {
		return table.Null(), false
	}
	return table.TupleVal(items), true
}

func (s *literalScanner) scanElement() (table.Value, bool) {
	ch, ok := s.peek()
	if !ok {
		return table.Null(), false
	}
	switch {
	case ch == '\'' || ch == '"':
		return s.scanString(ch)
	case ch == '(':
		return s.scanTuple()
	case unicode.IsDigit(ch) || ch == '-' || ch == '+':
		return s.scanNumber()
	case unicode.IsLetter(ch):
		return s.scanWord()
	default:
		return table.Null(), false
	}
}

func (s *literalScanner) scanString(quote rune) (table.Value, bool) {
	s.i++ // opening quote
	var sb []rune
	for s.i < len(s.runes) {
		ch := s.runes[s.i]
		if ch == '\\' && s.i+1 < len(s.runes) {
			switch s.runes[s.i+1] {
			case '\'':
				sb = append(sb, '\'')
			case '"':
				sb = append(sb, '"')
			case '\\':
				sb = append(sb, '\\')
			case 'n':
				sb = append(sb, '\n')
			case 't':
				sb = append(sb, '\t')
			default:
				sb = append(sb, '\\', s.runes[s.i+1])
			}
			s.i += 2
			continue
		}
		if ch == quote {
			s.i++
			return table.StrVal(string(sb)), true
		}
		sb = append(sb, ch)
		s.i++
	}
	return table.Null(), false // unterminated
}

func (s *literalScanner) scanNumber() (table.Value, bool) {
	start := s.i
	if ch, _ := s.peek(); ch == '-' || ch == '+' {
		s.i++
	}
	digits := 0
	for s.i < len(s.runes) && (unicode.IsDigit(s.runes[s.i]) || s.runes[s.i] == '.') {
		if unicode.IsDigit(s.runes[s.i]) {
			digits++
		}
		s.i++
	}
	if digits == 0 {
		return table.Null(), false
	}
	// optional exponent
	if s.i < len(s.runes) && (s.runes[s.i] == 'e' || s.runes[s.i] == 'E') {
		s.i++
		if s.i < len(s.runes) && (s.runes[s.i] == '-' || s.runes[s.i] == '+') {
			s.i++
		}
		expDigits := 0
		for s.i < len(s.runes) && unicode.IsDigit(s.runes[s.i]) {
			expDigits++
			s.i++
		}
		if expDigits == 0 {
			return table.Null(), false
		}
	}

	text := string(s.runes[start:s.i])
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return table.IntVal(v), true
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return table.FloatVal(v), true
	}
	return table.Null(), false
}

func (s *literalScanner) scanWord() (table.Value, bool) {
	start := s.i
	for s.i < len(s.runes) && (unicode.IsLetter(s.runes[s.i]) || unicode.IsDigit(s.runes[s.i]) || s.runes[s.i] == '_') {
		s.i++
	}
	switch string(s.runes[start:s.i]) {
	case "True":
		return table.BoolVal(true), true
	case "False":
		return table.BoolVal(false), true
	case "None":
		return table.Null(), true
	default:
		return table.Null(), false
	}
}
