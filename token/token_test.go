package token

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{PRINT, "print"},
		{EQUAL_EQUAL, "=="},
		{LESS_EQUAL, "<="},
		{IDENTIFIER, "IDENTIFIER"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("Kind.String() - got: %q, want: %q", got, tt.expected)
		}
	}
}

func TestKeywordsRecognizeReservedWords(t *testing.T) {
	reserved := []string{"and", "class", "else", "false", "for", "fun", "if",
		"nil", "or", "print", "return", "super", "this", "true", "var", "while"}

	for _, word := range reserved {
		if _, ok := Keywords[word]; !ok {
			t.Errorf("Keywords missing reserved word %q", word)
		}
	}

	if _, ok := Keywords["notAKeyword"]; ok {
		t.Error("Keywords should not contain non-reserved identifiers")
	}
}

func TestTokenLexeme(t *testing.T) {
	source := `var greeting = "hi";`
	tok := Token{Kind: STRING, Start: CodePosition{ByteOffset: 15, Line: 0, Column: 15}, Length: 4}

	if got := tok.Lexeme(source); got != `"hi"` {
		t.Errorf("Token.Lexeme() - got: %q, want: %q", got, `"hi"`)
	}
}
