package formula

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenPercent
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
	tokenComma
)

type token struct {
	kind tokenKind
	raw  string
	pos  int
}

var singleRune = map[byte]tokenKind{
	'+': tokenPlus,
	'-': tokenMinus,
	'*': tokenStar,
	'/': tokenSlash,
	'%': tokenPercent,
	'(': tokenLParen,
	')': tokenRParen,
	',': tokenComma,
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	peek := func(offset int) byte {
		if i+offset >= len(input) {
			return 0
		}
		return input[i+offset]
	}
	emit := func(kind tokenKind, raw string, start int) {
		tokens = append(tokens, token{kind: kind, raw: raw, pos: start})
	}

	for i < len(input) {
		ch := input[i]
		start := i

		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case isSingleRune(ch):
			emit(singleRune[ch], string(ch), start)
			i++
		case ch == '=':
			if peek(1) != '=' {
				return nil, &SyntaxError{Offset: start, Message: "unexpected '='; use '=='"}
			}
			emit(tokenEq, "==", start)
			i += 2
		case ch == '!':
			if peek(1) == '=' {
				emit(tokenNeq, "!=", start)
				i += 2
				continue
			}
			emit(tokenNot, "!", start)
			i++
		case ch == '<' || ch == '>':
			kind, raw := tokenLt, "<"
			if ch == '>' {
				kind, raw = tokenGt, ">"
			}
			if peek(1) == '=' {
				kind++
				raw += "="
				i++
			}
			emit(kind, raw, start)
			i++
		case ch == '&':
			if peek(1) != '&' {
				return nil, &SyntaxError{Offset: start, Message: "unexpected '&'; use '&&'"}
			}
			emit(tokenAnd, "&&", start)
			i += 2
		case ch == '|':
			if peek(1) != '|' {
				return nil, &SyntaxError{Offset: start, Message: "unexpected '|'; use '||'"}
			}
			emit(tokenOr, "||", start)
			i += 2
		case ch == '"' || ch == '\'':
			value, next, err := scanString(input, i)
			if err != nil {
				return nil, err
			}
			emit(tokenString, value, start)
			i = next
		case isDigit(ch) || (ch == '.' && isDigit(peek(1))):
			for i < len(input) && (isDigit(input[i]) || input[i] == '.') {
				i++
			}
			raw := input[start:i]
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return nil, &SyntaxError{Offset: start, Message: fmt.Sprintf("invalid number %q", raw)}
			}
			emit(tokenNumber, raw, start)
		case isIdentStart(ch):
			for i < len(input) && (isIdentStart(input[i]) || isDigit(input[i]) || input[i] == '.') {
				i++
			}
			raw := input[start:i]
			switch strings.ToLower(raw) {
			case "true", "false":
				emit(tokenBool, strings.ToLower(raw), start)
			case "null", "nil":
				emit(tokenNull, "null", start)
			default:
				emit(tokenIdentifier, raw, start)
			}
		default:
			return nil, &SyntaxError{Offset: start, Message: fmt.Sprintf("unexpected character %q", ch)}
		}
	}
	return tokens, nil
}

func scanString(input string, start int) (string, int, error) {
	quote := input[start]
	escaped := false
	for i := start + 1; i < len(input); i++ {
		c := input[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c != quote {
			continue
		}
		body := input[start+1 : i]
		if quote == '\'' {
			body = strings.ReplaceAll(body, `\'`, `'`)
			body = strings.ReplaceAll(body, `"`, `\"`)
		}
		value, err := strconv.Unquote(`"` + body + `"`)
		if err != nil {
			return "", 0, &SyntaxError{Offset: start, Message: "invalid string literal"}
		}
		return value, i + 1, nil
	}
	return "", 0, &SyntaxError{Offset: start, Message: "unterminated string literal"}
}

func isSingleRune(c byte) bool {
	_, ok := singleRune[c]
	return ok
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
