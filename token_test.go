package main

import "testing"

// collectKinds walks the chain after the Head sentinel, stopping before
// the terminating End token, and returns the kinds seen.
func collectKinds(head *Token) []TokenKind {
	var kinds []TokenKind
	for t := head.Next; t != nil && t.Kind != End; t = t.Next {
		kinds = append(kinds, t.Kind)
	}
	return kinds
}

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []TokenKind
	}{
		{"empty", "", nil},
		{"keyword+ident", "int x;", []TokenKind{Reserved, Identifier, Reserved}},
		{"return", "return 0;", []TokenKind{ReturnTok, Number, Reserved}},
		{"string literal", `"hi"`, []TokenKind{StringTok}},
		{"char literal", "'a'", []TokenKind{Number}},
		{"operators", "a += 1", []TokenKind{Identifier, Reserved, Number}},
	}

	for _, tt := range tests {
		head := Tokenize([]string{tt.src}, 0)
		got := collectKinds(head)
		if len(got) != len(tt.want) {
			t.Fatalf("%s: got %d tokens %v, want %d %v", tt.name, len(got), got, len(tt.want), tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: token %d kind = %d, want %d", tt.name, i, got[i], tt.want[i])
			}
		}
	}
}

func TestTokenizeIdentifierNotSplitByKeywordPrefix(t *testing.T) {
	head := Tokenize([]string{"forever;"}, 0)
	first := head.Next
	if first.Kind != Identifier || first.Body != "forever" {
		t.Errorf("expected a single identifier %q, got kind=%d body=%q", "forever", first.Kind, first.Body)
	}
}

func TestTokenizeCharLiteralValue(t *testing.T) {
	head := Tokenize([]string{"'A'"}, 0)
	tok := head.Next
	if tok.Kind != Number || tok.Value != 'A' {
		t.Errorf("'A' should tokenize to Number with Value=%d, got kind=%d value=%d", 'A', tok.Kind, tok.Value)
	}
}

func TestTokenizeCommentsSkipped(t *testing.T) {
	lines := []string{
		"int x; // trailing comment",
		"/* block",
		"   comment */ int y;",
	}
	head := Tokenize(lines, 0)
	got := collectKinds(head)
	want := []TokenKind{Reserved, Identifier, Reserved, Reserved, Identifier, Reserved}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
}

func TestTokenizeEndsWithEndToken(t *testing.T) {
	head := Tokenize([]string{"int x;"}, 0)
	var last *Token
	for t := head; t != nil; t = t.Next {
		last = t
	}
	if last.Kind != End {
		t.Errorf("chain should terminate in an End token, got kind=%d", last.Kind)
	}
}

func TestMatchOperatorLongestMatch(t *testing.T) {
	op, ok := matchOperator("<<=x", 0)
	if !ok || op != "<<=" {
		t.Errorf("expected longest match %q, got %q ok=%v", "<<=", op, ok)
	}
}
