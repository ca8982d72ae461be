package deduce

// This file provides short construction helpers for terms and formulas.
// They are plain wrappers over the NewXxx constructors, intended for tests,
// examples and rule definitions where fully spelled constructors drown the
// structure being built.

// V creates a variable term from a display name.
func V(name string) *VarTerm { return NewVarTerm(NewVariable(name)) }

// C creates a constant term from a display name.
func C(name string) *ConstTerm { return NewConstTerm(NewConstant(name)) }

// Ap applies a function symbol to arguments.
func Ap(fn Function, args ...Term) *FunTerm { return NewFunTerm(fn, args...) }

// X creates a schematic term placeholder.
func X(name string, params ...Variable) *NamedTerm {
	return NewNamedTerm(Name(name), params...)
}

// Pred creates an atomic predicate formula.
func Pred(name string, args ...Term) *PredFormula {
	return NewPredFormula(Name(name), args...)
}

// Meta creates a schematic formula placeholder.
func Meta(name string, params ...Variable) *NamedFormula {
	return NewNamedFormula(Name(name), params...)
}

// Not negates a formula.
func Not(f Formula) *NotFormula { return NewNotFormula(f) }

// Conj conjoins two formulas.
func Conj(l, r Formula) *BinaryFormula { return NewBinaryFormula(And, l, r) }

// Disj disjoins two formulas.
func Disj(l, r Formula) *BinaryFormula { return NewBinaryFormula(Or, l, r) }

// Impl builds an implication.
func Impl(l, r Formula) *BinaryFormula { return NewBinaryFormula(Implies, l, r) }

// Equiv builds a biconditional.
func Equiv(l, r Formula) *BinaryFormula { return NewBinaryFormula(Iff, l, r) }

// All universally quantifies body over v.
func All(v Variable, body Formula) *QuantFormula {
	return NewQuantFormula(Forall, v, body)
}

// Some existentially quantifies body over v.
func Some(v Variable, body Formula) *QuantFormula {
	return NewQuantFormula(Exists, v, body)
}
