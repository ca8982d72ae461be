// Package deduce implements a symbolic term/formula rewriting engine for
// proof-assistant style deduction. Given a context of previously established
// formulas, named rules produce new formulas either exhaustively (Apply) or
// steered toward a specific goal formula (ApplyToward).
//
// The package is built from small, purely functional layers:
//   - Symbols: QualifiedName, Variable, Constant, Function
//   - Terms: immutable syntax trees with structural equality, renaming,
//     canonicalization and generic traversal primitives
//   - Formulas: immutable logical trees over terms, same discipline
//   - Matchers: pattern matching and template replacement over formulas
//   - Rules: MatcherRule and MatcherDefRule, producing Deductions
//
// Every value in this package is immutable after construction and safe to
// share across concurrent callers without synchronization.
package deduce

import "fmt"

// QualifiedName is an opaque, comparable identifier used to name symbols,
// schematic placeholders and predicates. Two names are the same iff their
// display strings are equal.
type QualifiedName struct {
	text string
}

// Name creates a QualifiedName from its display string.
func Name(text string) QualifiedName {
	return QualifiedName{text: text}
}

// String returns the display string of the name.
func (n QualifiedName) String() string {
	return n.text
}

// Variable is a named bound symbol. Variables are value types: two Variable
// values denote the same variable iff their names compare equal, regardless
// of where or when they were created.
type Variable struct {
	name QualifiedName
}

// NewVariable creates a variable with the given display name.
func NewVariable(name string) Variable {
	return Variable{name: Name(name)}
}

// Name returns the variable's qualified name.
func (v Variable) Name() QualifiedName {
	return v.name
}

// String returns the variable's display name.
func (v Variable) String() string {
	return v.name.String()
}

// Constant is a named nullary symbol.
type Constant struct {
	name QualifiedName
}

// NewConstant creates a constant with the given display name.
func NewConstant(name string) Constant {
	return Constant{name: Name(name)}
}

// Name returns the constant's qualified name.
func (c Constant) Name() QualifiedName {
	return c.name
}

// String returns the constant's display name.
func (c Constant) String() string {
	return c.name.String()
}

// Function is a named symbol with an expected argument count. The arity is
// documentation and validation metadata only: the term model permits building
// a FunTerm with any argument count, and honoring the arity is the caller's
// responsibility.
type Function struct {
	name  QualifiedName
	arity int
}

// NewFunction creates a function symbol with the given name and arity.
func NewFunction(name string, arity int) Function {
	return Function{name: Name(name), arity: arity}
}

// Name returns the function's qualified name.
func (f Function) Name() QualifiedName {
	return f.name
}

// Arity returns the expected argument count.
func (f Function) Arity() int {
	return f.arity
}

// String returns the function's display name.
func (f Function) String() string {
	return f.name.String()
}

// VarSupply is a deterministic, effectively infinite supply of fresh
// variables: prefix0, prefix1, prefix2, and so on. A supply is caller-owned
// mutable state; canonicalization functions take one explicitly rather than
// relying on a package-global counter, which keeps renaming deterministic
// and testable.
//
// VarSupply is not safe for concurrent use; give each goroutine its own.
type VarSupply struct {
	prefix string
	next   int
}

// NewVarSupply creates a fresh-variable supply with the given name prefix.
// NewVarSupply("x") yields x0, x1, x2, ...
func NewVarSupply(prefix string) *VarSupply {
	return &VarSupply{prefix: prefix}
}

// Next returns the next fresh variable from the supply.
func (s *VarSupply) Next() Variable {
	v := NewVariable(fmt.Sprintf("%s%d", s.prefix, s.next))
	s.next++
	return v
}
