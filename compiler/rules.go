package compiler

import "loxvm/token"

// Precedence levels for the grammar, lowest to highest binding. A
// binary operator recurses into parsePrecedence one level above its
// own to get left-associativity.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

// next returns the next-higher precedence level, used by binary to
// enforce left-associativity.
func (p Precedence) next() Precedence { return p + 1 }

// parseFn is a prefix or infix parsing action. canAssign tells a
// prefix rule (variable, specifically) whether a trailing '='
// may legally turn this into an assignment, per the precedence the
// caller entered parsePrecedence at.
type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// rules is the Pratt table: one entry per token kind that
// participates in expression grammar. Kinds absent from this map get
// the zero parseRule (no prefix, no infix, PrecNone), which is
// exactly "all others -> None". It is filled in init because the
// parse functions it holds reach back to it through getRule.
var rules map[token.Kind]parseRule

func init() {
	rules = map[token.Kind]parseRule{
		token.LPAREN: {prefix: (*Compiler).grouping},

		token.MINUS: {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
		token.PLUS:  {infix: (*Compiler).binary, precedence: PrecTerm},
		token.STAR:  {infix: (*Compiler).binary, precedence: PrecFactor},
		token.SLASH: {infix: (*Compiler).binary, precedence: PrecFactor},

		token.BANG: {prefix: (*Compiler).unary},

		token.BANG_EQUAL:  {infix: (*Compiler).binary, precedence: PrecEquality},
		token.EQUAL_EQUAL: {infix: (*Compiler).binary, precedence: PrecEquality},

		token.GREATER:       {infix: (*Compiler).binary, precedence: PrecComparison},
		token.GREATER_EQUAL: {infix: (*Compiler).binary, precedence: PrecComparison},
		token.LESS:          {infix: (*Compiler).binary, precedence: PrecComparison},
		token.LESS_EQUAL:    {infix: (*Compiler).binary, precedence: PrecComparison},

		token.NUMBER:     {prefix: (*Compiler).number},
		token.STRING:     {prefix: (*Compiler).string},
		token.TRUE:       {prefix: (*Compiler).literal},
		token.FALSE:      {prefix: (*Compiler).literal},
		token.NIL:        {prefix: (*Compiler).literal},
		token.IDENTIFIER: {prefix: (*Compiler).variable},
	}
}

func getRule(kind token.Kind) parseRule {
	return rules[kind]
}
