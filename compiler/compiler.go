// Package compiler implements the single-pass Pratt parser that
// drives bytecode emission directly into a chunk.Chunk, without ever
// building an intermediate AST.
package compiler

import (
	"strconv"

	"loxvm/chunk"
	"loxvm/scanner"
	"loxvm/token"
	"loxvm/value"
)

// Compiler holds the single-token lookahead a Pratt parser needs
// (previous/current), the scanner feeding it, and the chunk/heap
// being built. It is single-use: construct one per call to Compile.
type Compiler struct {
	scanner *scanner.Scanner
	source  string

	previous token.Token
	current  token.Token

	chunk *chunk.Chunk
	heap  *value.Heap

	// names dedups repeated identifier lexemes against chunk.Names so
	// that "var x; x; x;" doesn't grow the pool once per occurrence.
	names map[string]int

	panicMode bool
	firstErr  error
}

// Compile scans and parses source in one pass, emitting bytecode into
// a fresh chunk.Chunk and interning string literals into a fresh
// value.Heap. It returns the first CompileError encountered, if any;
// this implementation keeps parsing after an error (synchronizing at
// the next statement boundary) so that one malformed statement does
// not stop the rest of the source from being parsed, but only the
// first diagnostic is ever returned, and no chunk or heap is returned
// alongside it.
func Compile(source string) (*chunk.Chunk, *value.Heap, error) {
	h := value.NewHeap()
	c, err := CompileInto(source, h)
	if err != nil {
		return nil, nil, err
	}
	return c, h, nil
}

// CompileInto compiles source the same way Compile does, but interns
// string literals into the caller's heap instead of a fresh one. The
// REPL uses this to compile each line into its own chunk while
// keeping one heap (and so one set of valid string handles) alive for
// the whole session, since a value.Heap's handles are meaningless
// once detached from the heap that produced them.
func CompileInto(source string, h *value.Heap) (*chunk.Chunk, error) {
	c := &Compiler{
		scanner: scanner.New(source),
		source:  source,
		chunk:   chunk.New(),
		heap:    h,
		names:   make(map[string]int),
	}

	c.advance()
	for c.current.Kind != token.EOF {
		c.declaration()
	}

	line := c.previous.Start.Line
	c.chunk.Emit(chunk.Simple(chunk.OpReturn), line)

	if c.firstErr != nil {
		return nil, c.firstErr
	}
	return c.chunk, nil
}

// advance shifts current into previous and pulls the next token from
// the scanner, skipping (and recording) any tokens that failed to
// scan at all so parsing can continue past a bad character.
func (c *Compiler) advance() {
	c.previous = c.current
	for {
		tok, err := c.scanner.Next()
		if err != nil {
			c.reportError(CompileError{Scan: err})
			continue
		}
		c.current = tok
		return
	}
}

// check reports whether current is of the given kind without
// consuming it.
func (c *Compiler) check(kind token.Kind) bool { return c.current.Kind == kind }

// match consumes current and returns true if it is of the given kind,
// otherwise leaves it in place and returns false.
func (c *Compiler) match(kind token.Kind) bool {
	if !c.check(kind) {
		return false
	}
	c.advance()
	return true
}

// consume advances past current if it matches kind, else raises an
// UnexpectedToken syntax error.
func (c *Compiler) consume(kind token.Kind, context string) {
	if c.check(kind) {
		c.advance()
		return
	}
	c.errorAtCurrent(SyntaxError{
		Kind:     UnexpectedToken,
		Expected: kind,
		Actual:   c.current.Kind,
		Pos:      c.current.Start,
	})
}

func (c *Compiler) errorAtCurrent(err SyntaxError) { c.reportError(CompileError{Syntax: &err}) }

// reportError records the first diagnostic seen and enters panic
// mode, which suppresses cascading errors until synchronize() finds
// the next statement boundary.
func (c *Compiler) reportError(err CompileError) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	if c.firstErr == nil {
		c.firstErr = err
	}
}

func (c *Compiler) line() int { return c.previous.Start.Line }

func (c *Compiler) emit(op chunk.Op) int { return c.chunk.Emit(op, c.line()) }

// declaration parses one top-level construct: a `var` declaration or
// a plain statement. After a parse error it resynchronizes so that
// one malformed declaration does not derail the rest of the source
// (still only the first diagnostic is ever returned).
func (c *Compiler) declaration() {
	if c.match(token.VAR) {
		c.varDeclaration()
	} else {
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

// varDeclaration parses "var" IDENTIFIER ("=" expression)? ";". An
// omitted initializer binds the name to Nil.
func (c *Compiler) varDeclaration() {
	c.consume(token.IDENTIFIER, "expect variable name")
	name := c.previous.Lexeme(c.source)
	nameIndex := c.identifierIndex(name)

	if c.match(token.ASSIGN) {
		c.expression()
	} else {
		c.emit(chunk.Simple(chunk.OpNil))
	}
	c.consume(token.SEMICOLON, "expect ';' after variable declaration")
	c.emit(chunk.GlobalOpFor(chunk.OpDefineGlobalSmall, nameIndex))
}

// identifierIndex returns name's index in the chunk's names pool,
// adding it if this is the first time it has been seen.
func (c *Compiler) identifierIndex(name string) int {
	if idx, ok := c.names[name]; ok {
		return idx
	}
	idx := c.chunk.AddName(name)
	c.names[name] = idx
	return idx
}

// statement parses `print expression ";"` or a bare expression
// statement. These are the only two statement forms the core
// supports; control flow and blocks are out of scope.
func (c *Compiler) statement() {
	if c.match(token.PRINT) {
		c.printStatement()
		return
	}
	c.expressionStatement()
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "expect ';' after value")
	c.emit(chunk.Simple(chunk.OpPrint))
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "expect ';' after expression")
	c.emit(chunk.Simple(chunk.OpPop))
}

// synchronize discards tokens until it reaches a likely statement
// boundary: just past a ';', or just before a keyword that starts a
// new declaration/statement.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.current.Kind != token.EOF {
		if c.previous.Kind == token.SEMICOLON {
			return
		}
		switch c.current.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR,
			token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		c.advance()
	}
}

// expression parses at the lowest (Assignment) precedence.
func (c *Compiler) expression() { c.parsePrecedence(PrecAssignment) }

// parsePrecedence is the core Pratt loop: consume a prefix
// expression, then keep consuming infix operators whose precedence is
// at least `min`.
func (c *Compiler) parsePrecedence(min Precedence) {
	c.advance()
	prefix := getRule(c.previous.Kind).prefix
	if prefix == nil {
		c.errorAtCurrent(SyntaxError{Kind: ExpectedPrefix, Actual: c.previous.Kind, Pos: c.previous.Start})
		return
	}

	canAssign := min <= PrecAssignment
	prefix(c, canAssign)

	for min <= getRule(c.current.Kind).precedence {
		c.advance()
		infix := getRule(c.previous.Kind).infix
		if infix == nil {
			c.errorAtCurrent(SyntaxError{Kind: ExpectedInfix, Actual: c.previous.Kind, Pos: c.previous.Start})
			return
		}
		infix(c, canAssign)
	}

	if canAssign && c.match(token.ASSIGN) {
		c.errorAtCurrent(SyntaxError{Kind: InvalidAssignmentTarget, Actual: c.previous.Kind, Pos: c.previous.Start})
	}
}

func (c *Compiler) grouping(_ bool) {
	c.expression()
	c.consume(token.RPAREN, "expect ')' after expression")
}

func (c *Compiler) unary(_ bool) {
	op := c.previous.Kind
	c.parsePrecedence(PrecUnary)
	switch op {
	case token.MINUS:
		c.emit(chunk.Simple(chunk.OpNegate))
	case token.BANG:
		c.emit(chunk.Simple(chunk.OpNot))
	}
}

// binary parses the RHS one precedence level higher than this
// operator's own, which is what makes `3 - 2 - 1` parse as
// `(3 - 2) - 1` instead of `3 - (2 - 1)`.
func (c *Compiler) binary(_ bool) {
	op := c.previous.Kind
	rule := getRule(op)
	c.parsePrecedence(rule.precedence.next())

	switch op {
	case token.PLUS:
		c.emit(chunk.Simple(chunk.OpAdd))
	case token.MINUS:
		c.emit(chunk.Simple(chunk.OpSubtract))
	case token.STAR:
		c.emit(chunk.Simple(chunk.OpMultiply))
	case token.SLASH:
		c.emit(chunk.Simple(chunk.OpDivide))
	case token.EQUAL_EQUAL:
		c.emit(chunk.Simple(chunk.OpEqual))
	case token.BANG_EQUAL:
		c.emit(chunk.Simple(chunk.OpEqual))
		c.emit(chunk.Simple(chunk.OpNot))
	case token.GREATER:
		c.emit(chunk.Simple(chunk.OpGreater))
	case token.GREATER_EQUAL:
		c.emit(chunk.Simple(chunk.OpLess))
		c.emit(chunk.Simple(chunk.OpNot))
	case token.LESS:
		c.emit(chunk.Simple(chunk.OpLess))
	case token.LESS_EQUAL:
		c.emit(chunk.Simple(chunk.OpGreater))
		c.emit(chunk.Simple(chunk.OpNot))
	}
}

func (c *Compiler) number(_ bool) {
	n, err := strconv.ParseFloat(c.previous.Lexeme(c.source), 64)
	if err != nil {
		c.reportError(CompileError{Internal: "malformed number literal slipped past the scanner: " + err.Error()})
		return
	}
	idx := c.chunk.AddConstant(value.Num(n))
	c.emit(chunk.ConstFor(idx))
}

func (c *Compiler) string(_ bool) {
	lexeme := c.previous.Lexeme(c.source)
	unquoted := lexeme[1 : len(lexeme)-1] // strip the surrounding quotes
	handle := c.heap.Intern(unquoted)
	idx := c.chunk.AddConstant(value.Object(handle))
	c.emit(chunk.ConstFor(idx))
}

func (c *Compiler) literal(_ bool) {
	switch c.previous.Kind {
	case token.TRUE:
		c.emit(chunk.Simple(chunk.OpTrue))
	case token.FALSE:
		c.emit(chunk.Simple(chunk.OpFalse))
	case token.NIL:
		c.emit(chunk.Simple(chunk.OpNil))
	}
}

// variable implements the identifier grammar: a bare name reads a
// global, `name = expr` at assignment precedence writes one.
func (c *Compiler) variable(canAssign bool) {
	name := c.previous.Lexeme(c.source)
	nameIndex := c.identifierIndex(name)

	if canAssign && c.match(token.ASSIGN) {
		c.expression()
		c.emit(chunk.GlobalOpFor(chunk.OpSetGlobalSmall, nameIndex))
		return
	}
	c.emit(chunk.GlobalOpFor(chunk.OpGetGlobalSmall, nameIndex))
}
