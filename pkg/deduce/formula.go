package deduce

import (
	"fmt"
	"strings"
)

// Connective identifies a binary logical connective.
type Connective int

// Binary connectives.
const (
	And Connective = iota
	Or
	Implies
	Iff
)

// String returns the connective's display symbol.
func (c Connective) String() string {
	switch c {
	case And:
		return "∧"
	case Or:
		return "∨"
	case Implies:
		return "→"
	case Iff:
		return "↔"
	default:
		return fmt.Sprintf("Connective(%d)", int(c))
	}
}

// Quantifier identifies a quantifier kind.
type Quantifier int

// Quantifier kinds.
const (
	Forall Quantifier = iota
	Exists
)

// String returns the quantifier's display symbol.
func (q Quantifier) String() string {
	switch q {
	case Forall:
		return "∀"
	case Exists:
		return "∃"
	default:
		return fmt.Sprintf("Quantifier(%d)", int(q))
	}
}

// Formula is an immutable logical tree over terms, following the same
// discipline as Term: sealed variant set, structural equality, pervasive
// immutability and structure-sharing renaming. A Formula is exactly one of
// *PredFormula, *NamedFormula, *NotFormula, *BinaryFormula or *QuantFormula.
type Formula interface {
	String() string

	// IsIdentityTo reports structural equality, exactly as for terms.
	IsIdentityTo(other Formula) bool

	// Vars returns the set of variables reachable through the formula,
	// including quantifier binders. Read-only.
	Vars() VarSet

	// RenameVar substitutes variables according to m, returning the receiver
	// itself when none of the formula's variables appear as a key.
	RenameVar(m map[Variable]Variable) Formula

	// RegularizeVarNames canonically renames every distinct variable in
	// pre-order, sharing nameMap and supply with term-level
	// canonicalization. Alpha-equivalent formulas canonicalize to
	// structurally identical forms.
	RegularizeVarNames(nameMap map[Variable]Variable, supply *VarSupply) Formula

	isFormula()
}

// PredFormula is an atomic formula: a named predicate applied to an ordered
// list of terms. Equality, membership and the like are ordinary predicates
// distinguished only by name.
type PredFormula struct {
	name QualifiedName
	args []Term
	vars VarSet
}

// NewPredFormula creates an atomic predicate formula.
func NewPredFormula(name QualifiedName, args ...Term) *PredFormula {
	var vars VarSet
	for _, a := range args {
		vars = vars.union(a.Vars())
	}
	return &PredFormula{name: name, args: args, vars: vars}
}

// QName returns the predicate name.
func (f *PredFormula) QName() QualifiedName { return f.name }

// Args returns the ordered term arguments. Read-only.
func (f *PredFormula) Args() []Term { return f.args }

func (f *PredFormula) String() string {
	if len(f.args) == 0 {
		return f.name.String()
	}
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.name, strings.Join(parts, ", "))
}

func (f *PredFormula) IsIdentityTo(other Formula) bool {
	o, ok := other.(*PredFormula)
	if !ok || f.name != o.name || len(f.args) != len(o.args) {
		return false
	}
	for i, a := range f.args {
		if !a.IsIdentityTo(o.args[i]) {
			return false
		}
	}
	return true
}

func (f *PredFormula) Vars() VarSet { return f.vars }

func (f *PredFormula) RenameVar(m map[Variable]Variable) Formula {
	if !f.vars.ContainsAnyKey(m) {
		return f
	}
	args := make([]Term, len(f.args))
	for i, a := range f.args {
		args[i] = a.RenameVar(m)
	}
	return NewPredFormula(f.name, args...)
}

func (f *PredFormula) RegularizeVarNames(nameMap map[Variable]Variable, supply *VarSupply) Formula {
	args := make([]Term, len(f.args))
	for i, a := range f.args {
		args[i] = a.RegularizeVarNames(nameMap, supply)
	}
	return NewPredFormula(f.name, args...)
}

func (f *PredFormula) isFormula() {}

// NamedFormula is a formula-level schematic placeholder, the mirror of
// NamedTerm: a named reference standing for some formula, with the ordered
// list of variables it may depend on. A leaf for all traversals.
type NamedFormula struct {
	name   QualifiedName
	params []Variable
}

// NewNamedFormula creates a schematic formula placeholder.
func NewNamedFormula(name QualifiedName, params ...Variable) *NamedFormula {
	return &NamedFormula{name: name, params: params}
}

// QName returns the placeholder's name.
func (f *NamedFormula) QName() QualifiedName { return f.name }

// Params returns the ordered parameter list. Read-only.
func (f *NamedFormula) Params() []Variable { return f.params }

func (f *NamedFormula) String() string {
	if len(f.params) == 0 {
		return f.name.String()
	}
	parts := make([]string, len(f.params))
	for i, p := range f.params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s[%s]", f.name, strings.Join(parts, ", "))
}

func (f *NamedFormula) IsIdentityTo(other Formula) bool {
	o, ok := other.(*NamedFormula)
	if !ok || f.name != o.name || len(f.params) != len(o.params) {
		return false
	}
	for i, p := range f.params {
		if p != o.params[i] {
			return false
		}
	}
	return true
}

func (f *NamedFormula) Vars() VarSet { return NewVarSet(f.params...) }

func (f *NamedFormula) RenameVar(m map[Variable]Variable) Formula {
	touched := false
	for _, p := range f.params {
		if _, ok := m[p]; ok {
			touched = true
			break
		}
	}
	if !touched {
		return f
	}
	params := make([]Variable, len(f.params))
	for i, p := range f.params {
		if np, ok := m[p]; ok {
			params[i] = np
		} else {
			params[i] = p
		}
	}
	return NewNamedFormula(f.name, params...)
}

func (f *NamedFormula) RegularizeVarNames(nameMap map[Variable]Variable, supply *VarSupply) Formula {
	params := make([]Variable, len(f.params))
	for i, p := range f.params {
		params[i] = regularized(p, nameMap, supply)
	}
	return NewNamedFormula(f.name, params...)
}

func (f *NamedFormula) isFormula() {}

// NotFormula is the negation of a formula.
type NotFormula struct {
	body Formula
}

// NewNotFormula creates a negation.
func NewNotFormula(body Formula) *NotFormula {
	return &NotFormula{body: body}
}

// Body returns the negated formula.
func (f *NotFormula) Body() Formula { return f.body }

func (f *NotFormula) String() string {
	return fmt.Sprintf("¬%s", f.body)
}

func (f *NotFormula) IsIdentityTo(other Formula) bool {
	o, ok := other.(*NotFormula)
	return ok && f.body.IsIdentityTo(o.body)
}

func (f *NotFormula) Vars() VarSet { return f.body.Vars() }

func (f *NotFormula) RenameVar(m map[Variable]Variable) Formula {
	body := f.body.RenameVar(m)
	if body == f.body {
		return f
	}
	return NewNotFormula(body)
}

func (f *NotFormula) RegularizeVarNames(nameMap map[Variable]Variable, supply *VarSupply) Formula {
	return NewNotFormula(f.body.RegularizeVarNames(nameMap, supply))
}

func (f *NotFormula) isFormula() {}

// BinaryFormula joins two formulas with a connective.
type BinaryFormula struct {
	op    Connective
	left  Formula
	right Formula
}

// NewBinaryFormula creates a binary connective formula.
func NewBinaryFormula(op Connective, left, right Formula) *BinaryFormula {
	return &BinaryFormula{op: op, left: left, right: right}
}

// Op returns the connective.
func (f *BinaryFormula) Op() Connective { return f.op }

// Left returns the left operand.
func (f *BinaryFormula) Left() Formula { return f.left }

// Right returns the right operand.
func (f *BinaryFormula) Right() Formula { return f.right }

func (f *BinaryFormula) String() string {
	return fmt.Sprintf("(%s %s %s)", f.left, f.op, f.right)
}

func (f *BinaryFormula) IsIdentityTo(other Formula) bool {
	o, ok := other.(*BinaryFormula)
	return ok && f.op == o.op && f.left.IsIdentityTo(o.left) && f.right.IsIdentityTo(o.right)
}

func (f *BinaryFormula) Vars() VarSet {
	return f.left.Vars().union(f.right.Vars())
}

func (f *BinaryFormula) RenameVar(m map[Variable]Variable) Formula {
	left := f.left.RenameVar(m)
	right := f.right.RenameVar(m)
	if left == f.left && right == f.right {
		return f
	}
	return NewBinaryFormula(f.op, left, right)
}

func (f *BinaryFormula) RegularizeVarNames(nameMap map[Variable]Variable, supply *VarSupply) Formula {
	left := f.left.RegularizeVarNames(nameMap, supply)
	right := f.right.RegularizeVarNames(nameMap, supply)
	return NewBinaryFormula(f.op, left, right)
}

func (f *BinaryFormula) isFormula() {}

// QuantFormula binds a variable over a body formula.
type QuantFormula struct {
	q    Quantifier
	v    Variable
	body Formula
}

// NewQuantFormula creates a quantified formula.
func NewQuantFormula(q Quantifier, v Variable, body Formula) *QuantFormula {
	return &QuantFormula{q: q, v: v, body: body}
}

// Kind returns the quantifier kind.
func (f *QuantFormula) Kind() Quantifier { return f.q }

// Bound returns the bound variable.
func (f *QuantFormula) Bound() Variable { return f.v }

// Body returns the quantified body.
func (f *QuantFormula) Body() Formula { return f.body }

func (f *QuantFormula) String() string {
	return fmt.Sprintf("%s%s.%s", f.q, f.v, f.body)
}

func (f *QuantFormula) IsIdentityTo(other Formula) bool {
	o, ok := other.(*QuantFormula)
	return ok && f.q == o.q && f.v == o.v && f.body.IsIdentityTo(o.body)
}

func (f *QuantFormula) Vars() VarSet {
	return NewVarSet(f.v).union(f.body.Vars())
}

func (f *QuantFormula) RenameVar(m map[Variable]Variable) Formula {
	v := f.v
	if nv, ok := m[f.v]; ok {
		v = nv
	}
	body := f.body.RenameVar(m)
	if v == f.v && body == f.body {
		return f
	}
	return NewQuantFormula(f.q, v, body)
}

func (f *QuantFormula) RegularizeVarNames(nameMap map[Variable]Variable, supply *VarSupply) Formula {
	// Binder first: pre-order guarantees the bound variable draws its fresh
	// name before any occurrence inside the body is visited.
	v := regularized(f.v, nameMap, supply)
	return NewQuantFormula(f.q, v, f.body.RegularizeVarNames(nameMap, supply))
}

func (f *QuantFormula) isFormula() {}
