package deduce

import (
	"fmt"
	"strings"
)

// VarSet is a set of variables. Sets returned by Vars() are owned by the term
// that produced them and must be treated as read-only by callers.
type VarSet map[Variable]struct{}

// NewVarSet builds a set from the given variables.
func NewVarSet(vars ...Variable) VarSet {
	s := make(VarSet, len(vars))
	for _, v := range vars {
		s[v] = struct{}{}
	}
	return s
}

// Contains reports whether v is in the set.
func (s VarSet) Contains(v Variable) bool {
	_, ok := s[v]
	return ok
}

// ContainsAnyKey reports whether any variable in the set appears as a key of m.
func (s VarSet) ContainsAnyKey(m map[Variable]Variable) bool {
	for v := range s {
		if _, ok := m[v]; ok {
			return true
		}
	}
	return false
}

// union returns a set containing the members of s and t, reusing s or t when
// one side is empty.
func (s VarSet) union(t VarSet) VarSet {
	if len(t) == 0 {
		return s
	}
	if len(s) == 0 {
		return t
	}
	out := make(VarSet, len(s)+len(t))
	for v := range s {
		out[v] = struct{}{}
	}
	for v := range t {
		out[v] = struct{}{}
	}
	return out
}

// Term is an immutable syntax tree representing a mathematical expression.
// The variant set is sealed: a Term is exactly one of *VarTerm, *ConstTerm,
// *NamedTerm or *FunTerm. Every transformation produces a new term; nothing
// mutates in place, so terms are freely shareable across goroutines.
type Term interface {
	// String returns a human-readable rendering. Display formatting is
	// presentational only and never participates in equality.
	String() string

	// IsIdentityTo reports structural equality: same variant, same symbol,
	// same children pairwise identical, same order. It is not mathematical
	// equivalence; a+b and b+a are distinct until a rule proves otherwise.
	IsIdentityTo(other Term) bool

	// Vars returns the exact set of variables reachable through this term's
	// children and parameter lists. The returned set is read-only.
	Vars() VarSet

	// RenameVar substitutes variables according to m. When none of the term's
	// variables appear as a key of m, the receiver itself is returned, not a
	// copy; callers rely on pointer identity to cheaply detect "no change".
	RenameVar(m map[Variable]Variable) Term

	// RegularizeVarNames renames every distinct variable encountered, in
	// pre-order, to the next variable drawn from supply, recording each
	// choice in nameMap so repeated occurrences of one variable receive the
	// same fresh name. nameMap is caller-provided and mutated in place, which
	// lets one canonicalization thread across several terms or a whole
	// formula. Two terms are alpha-equivalent iff their canonical forms are
	// structurally identical.
	RegularizeVarNames(nameMap map[Variable]Variable, supply *VarSupply) Term

	// RecurApply walks the tree in pre-order, invoking visit on every node
	// including leaves.
	RecurApply(visit func(Term))

	// RecurMap rebuilds the tree bottom-up. For a leaf, combine(node, node)
	// is invoked with the original node on both sides. For an internal node,
	// children are mapped first, a new node is built from the mapped
	// children, and combine(original, rebuilt) produces the final value.
	RecurMap(combine func(orig, mapped Term) Term) Term

	// RecurRewrite rebuilds the tree top-down with short-circuiting. before
	// is tried first at each node; if it returns (t, true) then t is used
	// as-is and the node's children are not visited. Otherwise children are
	// rewritten recursively, a rebuilt node is formed from the results, and
	// after(rebuilt) produces the final value.
	RecurRewrite(before func(Term) (Term, bool), after func(Term) Term) Term

	isTerm()
}

// VarTerm is a term consisting of a single variable.
type VarTerm struct {
	v Variable
}

// NewVarTerm creates a variable term.
func NewVarTerm(v Variable) *VarTerm {
	return &VarTerm{v: v}
}

// Variable returns the underlying variable.
func (t *VarTerm) Variable() Variable { return t.v }

func (t *VarTerm) String() string { return t.v.String() }

func (t *VarTerm) IsIdentityTo(other Term) bool {
	o, ok := other.(*VarTerm)
	return ok && t.v == o.v
}

func (t *VarTerm) Vars() VarSet { return VarSet{t.v: {}} }

func (t *VarTerm) RenameVar(m map[Variable]Variable) Term {
	if nv, ok := m[t.v]; ok {
		return NewVarTerm(nv)
	}
	return t
}

func (t *VarTerm) RegularizeVarNames(nameMap map[Variable]Variable, supply *VarSupply) Term {
	return NewVarTerm(regularized(t.v, nameMap, supply))
}

func (t *VarTerm) RecurApply(visit func(Term)) { visit(t) }

func (t *VarTerm) RecurMap(combine func(orig, mapped Term) Term) Term {
	return combine(t, t)
}

func (t *VarTerm) RecurRewrite(before func(Term) (Term, bool), after func(Term) Term) Term {
	if r, ok := before(t); ok {
		return r
	}
	return after(t)
}

func (t *VarTerm) isTerm() {}

// ConstTerm is a term consisting of a single constant symbol.
type ConstTerm struct {
	c Constant
}

// NewConstTerm creates a constant term.
func NewConstTerm(c Constant) *ConstTerm {
	return &ConstTerm{c: c}
}

// Constant returns the underlying constant.
func (t *ConstTerm) Constant() Constant { return t.c }

func (t *ConstTerm) String() string { return t.c.String() }

func (t *ConstTerm) IsIdentityTo(other Term) bool {
	o, ok := other.(*ConstTerm)
	return ok && t.c == o.c
}

func (t *ConstTerm) Vars() VarSet { return nil }

func (t *ConstTerm) RenameVar(m map[Variable]Variable) Term { return t }

func (t *ConstTerm) RegularizeVarNames(nameMap map[Variable]Variable, supply *VarSupply) Term {
	return t
}

func (t *ConstTerm) RecurApply(visit func(Term)) { visit(t) }

func (t *ConstTerm) RecurMap(combine func(orig, mapped Term) Term) Term {
	return combine(t, t)
}

func (t *ConstTerm) RecurRewrite(before func(Term) (Term, bool), after func(Term) Term) Term {
	if r, ok := before(t); ok {
		return r
	}
	return after(t)
}

func (t *ConstTerm) isTerm() {}

// NamedTerm is a schematic placeholder: a named reference standing for some
// term, carrying the ordered list of variables it may depend on. The
// parameters form a bound parameter list, not sub-terms; a NamedTerm is a
// leaf for every traversal primitive.
type NamedTerm struct {
	name   QualifiedName
	params []Variable
}

// NewNamedTerm creates a schematic term with the given name and parameters.
func NewNamedTerm(name QualifiedName, params ...Variable) *NamedTerm {
	return &NamedTerm{name: name, params: params}
}

// QName returns the placeholder's name.
func (t *NamedTerm) QName() QualifiedName { return t.name }

// Params returns the ordered parameter list. Read-only.
func (t *NamedTerm) Params() []Variable { return t.params }

func (t *NamedTerm) String() string {
	if len(t.params) == 0 {
		return t.name.String()
	}
	parts := make([]string, len(t.params))
	for i, p := range t.params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s[%s]", t.name, strings.Join(parts, ", "))
}

func (t *NamedTerm) IsIdentityTo(other Term) bool {
	o, ok := other.(*NamedTerm)
	if !ok || t.name != o.name || len(t.params) != len(o.params) {
		return false
	}
	for i, p := range t.params {
		if p != o.params[i] {
			return false
		}
	}
	return true
}

func (t *NamedTerm) Vars() VarSet { return NewVarSet(t.params...) }

func (t *NamedTerm) RenameVar(m map[Variable]Variable) Term {
	touched := false
	for _, p := range t.params {
		if _, ok := m[p]; ok {
			touched = true
			break
		}
	}
	if !touched {
		return t
	}
	params := make([]Variable, len(t.params))
	for i, p := range t.params {
		if np, ok := m[p]; ok {
			params[i] = np
		} else {
			params[i] = p
		}
	}
	return NewNamedTerm(t.name, params...)
}

func (t *NamedTerm) RegularizeVarNames(nameMap map[Variable]Variable, supply *VarSupply) Term {
	params := make([]Variable, len(t.params))
	for i, p := range t.params {
		params[i] = regularized(p, nameMap, supply)
	}
	return NewNamedTerm(t.name, params...)
}

func (t *NamedTerm) RecurApply(visit func(Term)) { visit(t) }

func (t *NamedTerm) RecurMap(combine func(orig, mapped Term) Term) Term {
	return combine(t, t)
}

func (t *NamedTerm) RecurRewrite(before func(Term) (Term, bool), after func(Term) Term) Term {
	if r, ok := before(t); ok {
		return r
	}
	return after(t)
}

func (t *NamedTerm) isTerm() {}

// FunTerm is a function application with an ordered argument list. The model
// does not enforce the function's arity; callers are responsible for passing
// the right argument count.
type FunTerm struct {
	fn   Function
	args []Term
	vars VarSet // cached union of argument variable sets
}

// NewFunTerm creates a function application term.
func NewFunTerm(fn Function, args ...Term) *FunTerm {
	var vars VarSet
	for _, a := range args {
		vars = vars.union(a.Vars())
	}
	return &FunTerm{fn: fn, args: args, vars: vars}
}

// Function returns the applied function symbol.
func (t *FunTerm) Function() Function { return t.fn }

// Args returns the ordered argument list. Read-only.
func (t *FunTerm) Args() []Term { return t.args }

func (t *FunTerm) String() string {
	parts := make([]string, len(t.args))
	for i, a := range t.args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", t.fn, strings.Join(parts, ", "))
}

func (t *FunTerm) IsIdentityTo(other Term) bool {
	o, ok := other.(*FunTerm)
	if !ok || t.fn != o.fn || len(t.args) != len(o.args) {
		return false
	}
	for i, a := range t.args {
		if !a.IsIdentityTo(o.args[i]) {
			return false
		}
	}
	return true
}

func (t *FunTerm) Vars() VarSet { return t.vars }

func (t *FunTerm) RenameVar(m map[Variable]Variable) Term {
	if !t.vars.ContainsAnyKey(m) {
		return t
	}
	args := make([]Term, len(t.args))
	for i, a := range t.args {
		args[i] = a.RenameVar(m)
	}
	return NewFunTerm(t.fn, args...)
}

func (t *FunTerm) RegularizeVarNames(nameMap map[Variable]Variable, supply *VarSupply) Term {
	args := make([]Term, len(t.args))
	for i, a := range t.args {
		args[i] = a.RegularizeVarNames(nameMap, supply)
	}
	return NewFunTerm(t.fn, args...)
}

func (t *FunTerm) RecurApply(visit func(Term)) {
	visit(t)
	for _, a := range t.args {
		a.RecurApply(visit)
	}
}

func (t *FunTerm) RecurMap(combine func(orig, mapped Term) Term) Term {
	args := make([]Term, len(t.args))
	for i, a := range t.args {
		args[i] = a.RecurMap(combine)
	}
	return combine(t, NewFunTerm(t.fn, args...))
}

func (t *FunTerm) RecurRewrite(before func(Term) (Term, bool), after func(Term) Term) Term {
	if r, ok := before(t); ok {
		return r
	}
	args := make([]Term, len(t.args))
	for i, a := range t.args {
		args[i] = a.RecurRewrite(before, after)
	}
	return after(NewFunTerm(t.fn, args...))
}

func (t *FunTerm) isTerm() {}

// regularized resolves v through nameMap, drawing a fresh variable from
// supply for a variable seen for the first time.
func regularized(v Variable, nameMap map[Variable]Variable, supply *VarSupply) Variable {
	if nv, ok := nameMap[v]; ok {
		return nv
	}
	nv := supply.Next()
	nameMap[v] = nv
	return nv
}
