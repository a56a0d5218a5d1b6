package scanner

import (
	"testing"

	"loxvm/token"
)

func kindsOf(t *testing.T, source string) []token.Kind {
	t.Helper()
	s := New(source)
	var kinds []token.Kind
	for {
		tok, err := s.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			return kinds
		}
	}
}

func TestScanPunctuationAndOperators(t *testing.T) {
	tests := []struct {
		source   string
		expected []token.Kind
	}{
		{"( ) { } ; , . - + * /", []token.Kind{
			token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.SEMICOLON,
			token.COMMA, token.DOT, token.MINUS, token.PLUS, token.STAR, token.SLASH, token.EOF,
		}},
		{"! != = == < <= > >=", []token.Kind{
			token.BANG, token.BANG_EQUAL, token.ASSIGN, token.EQUAL_EQUAL,
			token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL, token.EOF,
		}},
	}

	for _, tt := range tests {
		got := kindsOf(t, tt.source)
		if len(got) != len(tt.expected) {
			t.Fatalf("scanning %q - got %d tokens, want %d: %v", tt.source, len(got), len(tt.expected), got)
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("scanning %q - token %d: got %v, want %v", tt.source, i, got[i], tt.expected[i])
			}
		}
	}
}

func TestScanLineCommentsAndWhitespace(t *testing.T) {
	s := New("   // a comment\n  1")
	tok, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if tok.Kind != token.NUMBER {
		t.Fatalf("expected NUMBER, got %v", tok.Kind)
	}
	if tok.Start.Line != 1 {
		t.Errorf("expected comment/whitespace-skipping to land on line 1, got %d", tok.Start.Line)
	}
}

func TestScanNumbers(t *testing.T) {
	tests := []struct {
		source   string
		lexeme   string
		nextKind token.Kind
	}{
		{"123", "123", token.EOF},
		{"1.5", "1.5", token.EOF},
		{"1.", "1", token.DOT},   // trailing dot is not part of the number
		{"1.2.3", "1.2", token.DOT}, // second '.' ends the number
	}

	for _, tt := range tests {
		s := New(tt.source)
		tok, err := s.Next()
		if err != nil {
			t.Fatalf("scanning %q: Next() error: %v", tt.source, err)
		}
		if tok.Kind != token.NUMBER {
			t.Fatalf("scanning %q: expected NUMBER, got %v", tt.source, tok.Kind)
		}
		if got := tok.Lexeme(tt.source); got != tt.lexeme {
			t.Errorf("scanning %q: lexeme - got %q, want %q", tt.source, got, tt.lexeme)
		}
		next, err := s.Next()
		if err != nil {
			t.Fatalf("scanning %q: Next() error: %v", tt.source, err)
		}
		if next.Kind != tt.nextKind {
			t.Errorf("scanning %q: following token - got %v, want %v", tt.source, next.Kind, tt.nextKind)
		}
	}
}

func TestScanStringLiteral(t *testing.T) {
	s := New(`"foo bar"`)
	tok, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if tok.Kind != token.STRING {
		t.Fatalf("expected STRING, got %v", tok.Kind)
	}
	if got := tok.Lexeme(`"foo bar"`); got != `"foo bar"` {
		t.Errorf("lexeme - got %q, want %q", got, `"foo bar"`)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	s := New(`"unterminated`)
	_, err := s.Next()
	if _, ok := err.(UnterminatedStringError); !ok {
		t.Fatalf("expected UnterminatedStringError, got %v (%T)", err, err)
	}
}

func TestScanUnexpectedCharacter(t *testing.T) {
	s := New("@")
	_, err := s.Next()
	if _, ok := err.(UnexpectedCharacterError); !ok {
		t.Fatalf("expected UnexpectedCharacterError, got %v (%T)", err, err)
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	tests := []struct {
		source   string
		expected token.Kind
	}{
		{"print", token.PRINT},
		{"var", token.VAR},
		{"true", token.TRUE},
		{"false", token.FALSE},
		{"nil", token.NIL},
		{"and", token.AND},
		{"or", token.OR},
		{"myVariable_1", token.IDENTIFIER},
		{"_underscore", token.IDENTIFIER},
	}

	for _, tt := range tests {
		s := New(tt.source)
		tok, err := s.Next()
		if err != nil {
			t.Fatalf("scanning %q: Next() error: %v", tt.source, err)
		}
		if tok.Kind != tt.expected {
			t.Errorf("scanning %q: got %v, want %v", tt.source, tok.Kind, tt.expected)
		}
	}
}

func TestScanIsRestartableAfterError(t *testing.T) {
	s := New("@ 1")
	if _, err := s.Next(); err == nil {
		t.Fatal("expected an error scanning '@'")
	}
	tok, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error after recovering: %v", err)
	}
	if tok.Kind != token.NUMBER {
		t.Errorf("expected scanning to resume with NUMBER, got %v", tok.Kind)
	}
}
