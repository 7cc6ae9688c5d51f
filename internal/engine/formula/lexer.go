package formula

import (
	"fmt"
	"strconv"
	"strings"
)

// tokenKind enumerates the lexical categories of §4.4.1: references, numbers,
// operators `+ - * / ^`, parentheses, commas, and function identifiers.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokRef
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

// refTokenPrefixes is the fixed prefix alphabet a reference starts with: one of
// these letters followed by digits (and an optional ".digits" sub-index) is the
// shape extractReferences recognizes, which lets the lexer tell a reference apart
// from a function identifier (pure letters) at lex time.
var refTokenPrefixes = "VCSFIRM"

func lex(formula string) ([]token, error) {
	var toks []token
	i := 0
	n := len(formula)

	for i < n {
		c := formula[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '+':
			toks = append(toks, token{kind: tokPlus, text: "+"})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus, text: "-"})
			i++
		case c == '*':
			toks = append(toks, token{kind: tokStar, text: "*"})
			i++
		case c == '/':
			toks = append(toks, token{kind: tokSlash, text: "/"})
			i++
		case c == '^':
			toks = append(toks, token{kind: tokCaret, text: "^"})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, text: ","})
			i++
		case isDigit(c) || c == '.':
			j := i
			for j < n && (isDigit(formula[j]) || formula[j] == '.') {
				j++
			}
			v, err := strconv.ParseFloat(formula[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", formula[i:j])
			}
			toks = append(toks, token{kind: tokNumber, num: v, text: formula[i:j]})
			i = j
		case isAlpha(c):
			j := i + 1
			for j < n && isAlphaNum(formula[j]) {
				j++
			}
			word := formula[i:j]

			// A reference is one prefix letter immediately followed by digits
			// (optionally a ".digits" sub-index); anything else alphabetic is a
			// function identifier.
			if isRefPrefix(word[0]) && len(word) > 1 && isDigit(word[1]) {
				k := j
				if k < n && formula[k] == '.' && k+1 < n && isDigit(formula[k+1]) {
					k++
					for k < n && isDigit(formula[k]) {
						k++
					}
				}
				toks = append(toks, token{kind: tokRef, text: strings.ToUpper(formula[i:k])})
				i = k
				continue
			}

			toks = append(toks, token{kind: tokIdent, text: strings.ToUpper(word)})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", c, i)
		}
	}

	toks = append(toks, token{kind: tokEOF})
	return toks, nil
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNum(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

func isRefPrefix(c byte) bool {
	up := c
	if up >= 'a' && up <= 'z' {
		up -= 'a' - 'A'
	}
	return strings.IndexByte(refTokenPrefixes, up) >= 0
}
