package expr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokBool
	tokNull
	tokOp     // + - * / % == != < <= > >= && || !
	tokLParen // (
	tokRParen // )
	tokLBracket
	tokRBracket
	tokDot
	tokQuestion
	tokColon
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

// lex tokenizes a single expression source (the inside of a ${...} span).
func lex(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c >= '0' && c <= '9':
			start := i
			for i < len(src) && (src[i] >= '0' && src[i] <= '9' || src[i] == '.') {
				i++
			}
			text := src[start:i]
			num, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q at %d", text, start)
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, num: num, pos: start})
		case c == '\'' || c == '"':
			quote := c
			i++
			var sb strings.Builder
			start := i
			for i < len(src) && src[i] != quote {
				if src[i] == '\\' && i+1 < len(src) {
					i++
				}
				sb.WriteByte(src[i])
				i++
			}
			if i >= len(src) {
				return nil, fmt.Errorf("unterminated string at %d", start)
			}
			i++
			tokens = append(tokens, token{kind: tokString, text: sb.String(), pos: start})
		case isIdentStart(rune(c)):
			start := i
			for i < len(src) && isIdentPart(rune(src[i])) {
				i++
			}
			text := src[start:i]
			switch text {
			case "true", "false":
				tokens = append(tokens, token{kind: tokBool, text: text, pos: start})
			case "null":
				tokens = append(tokens, token{kind: tokNull, text: text, pos: start})
			default:
				tokens = append(tokens, token{kind: tokIdent, text: text, pos: start})
			}
		default:
			start := i
			two := ""
			if i+1 < len(src) {
				two = src[i : i+2]
			}
			switch two {
			case "==", "!=", "<=", ">=", "&&", "||":
				tokens = append(tokens, token{kind: tokOp, text: two, pos: start})
				i += 2
				continue
			}
			switch c {
			case '+', '-', '*', '/', '%', '<', '>', '!':
				tokens = append(tokens, token{kind: tokOp, text: string(c), pos: start})
			case '(':
				tokens = append(tokens, token{kind: tokLParen, text: "(", pos: start})
			case ')':
				tokens = append(tokens, token{kind: tokRParen, text: ")", pos: start})
			case '[':
				tokens = append(tokens, token{kind: tokLBracket, text: "[", pos: start})
			case ']':
				tokens = append(tokens, token{kind: tokRBracket, text: "]", pos: start})
			case '.':
				tokens = append(tokens, token{kind: tokDot, text: ".", pos: start})
			case '?':
				tokens = append(tokens, token{kind: tokQuestion, text: "?", pos: start})
			case ':':
				tokens = append(tokens, token{kind: tokColon, text: ":", pos: start})
			default:
				return nil, fmt.Errorf("unexpected character %q at %d", c, start)
			}
			i++
		}
	}
	tokens = append(tokens, token{kind: tokEOF, pos: len(src)})
	return tokens, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
