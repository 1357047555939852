package main

import "fmt"

// error_messages.go - Message formatting for lexical, syntactic, and
// name/type errors.
//
// Trimmed from the teacher's error_messages.go down to what this grammar
// can actually raise: Lotus's import/module error class has no
// counterpart here (this compiler has no module system), its per-error
// ErrorCode/ErrorHelpText taxonomy has no counterpart either (fatalAt
// takes a single formatted message, not a code - see diagnostics.go),
// and the generic-scripting-language token names are replaced by this
// language's TokenKind/reserved vocabulary. FormatExpectedToken/
// FormatUnexpectedToken and the "did you mean" typo suggestion survive,
// built on the same levenshteinDistance helper.

// TokenKindName names a token kind for "expected X, got Y" messages.
func TokenKindName(k TokenKind) string {
	switch k {
	case Head:
		return "start of file"
	case End:
		return "end of file"
	case Identifier:
		return "identifier"
	case Number:
		return "number"
	case StringTok:
		return "string literal"
	case ReturnTok:
		return "'return'"
	case Reserved:
		return "reserved word"
	default:
		return fmt.Sprintf("token(%d)", k)
	}
}

// FormatExpectedToken builds "expected X, got Y" with the actual token's
// text appended when it carries one (an identifier or a punctuator).
func FormatExpectedToken(expected string, got *Token) string {
	msg := fmt.Sprintf("expected %s, got %s", expected, TokenKindName(got.Kind))
	if got.Body != "" {
		msg += fmt.Sprintf(" %q", got.Body)
	}
	return msg
}

// FormatUnexpectedToken builds "unexpected X" for a token that could not
// start any production the parser was trying.
func FormatUnexpectedToken(got *Token) string {
	msg := fmt.Sprintf("unexpected %s", TokenKindName(got.Kind))
	if got.Body != "" {
		msg += fmt.Sprintf(" %q", got.Body)
	}
	return msg
}

// SuggestForTypo looks for a reserved word close to an unrecognized
// identifier-shaped token, for a "did you mean" hint on a bad keyword.
func SuggestForTypo(typo string) string {
	best, bestDist := "", 3
	for _, kw := range reservedWords {
		if d := levenshteinDistance(typo, kw); d < bestDist {
			bestDist, best = d, kw
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("did you mean %q?", best)
}

// Common error message templates, reused across parser.go's recursive
// descent so the wording stays consistent.
var (
	MsgMissingSemicolon  = "expected ';' after statement"
	MsgMissingCondition  = "expected condition expression"
	MsgMissingBlockOpen  = "expected '{' to open block"
	MsgMissingBlockClose = "expected '}' to close block"
	MsgMissingParenOpen  = "expected '(' "
	MsgMissingParenClose = "expected ')'"
	MsgMissingExpression = "expected expression"
	MsgMissingIdentifier = "expected identifier"
	MsgMissingType       = "expected a type"
	MsgSizeofNeedsParens = "sizeof applied to a type name requires parentheses"
	MsgInvalidLvalue     = "expression is not assignable"
)
