package deduce

import (
	"errors"
	"fmt"
)

// ErrNoSuchName is returned when a binding lookup references a name the
// match never bound.
var ErrNoSuchName = errors.New("no such name bound in match")

// RewrittenName is the reserved binding under which a TermMatcher records
// the whole formula produced by rewriting a matched term position.
var RewrittenName = Name("#rewritten")

// Replacer produces a replacement formula from the bindings of one match.
type Replacer func(b *Bindings) Formula

// Matcher finds occurrences of a pattern inside a formula and substitutes a
// replacement produced by a Replacer.
type Matcher interface {
	// ReplaceOne produces one candidate formula per distinct matching
	// position, with exactly that occurrence replaced. Positions that do not
	// match contribute nothing; no match at all yields an empty slice.
	ReplaceOne(f Formula, r Replacer) []Formula

	// ReplaceAll replaces every matching occurrence simultaneously in one
	// pass. With no match the result is structurally identical to the input.
	ReplaceAll(f Formula, r Replacer) Formula
}

// Bindings is the match-binding context handed to a Replacer: the named term
// and formula references resolved from one pattern match, plus the mapping
// of pattern variables onto the variables they matched.
type Bindings struct {
	vars     map[Variable]Variable
	terms    map[QualifiedName]Term
	formulas map[QualifiedName]Formula
}

// NewBindings creates an empty binding context.
func NewBindings() *Bindings {
	return &Bindings{
		vars:     make(map[Variable]Variable),
		terms:    make(map[QualifiedName]Term),
		formulas: make(map[QualifiedName]Formula),
	}
}

// Term returns the term bound under name, or ErrNoSuchName.
func (b *Bindings) Term(name QualifiedName) (Term, error) {
	t, ok := b.terms[name]
	if !ok {
		return nil, fmt.Errorf("term %q: %w", name, ErrNoSuchName)
	}
	return t, nil
}

// MustTerm returns the term bound under name, panicking if it is unbound.
// Referencing a name the pattern can never bind is a programming error in
// the rule, not a runtime condition.
func (b *Bindings) MustTerm(name QualifiedName) Term {
	t, err := b.Term(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Formula returns the formula bound under name, or ErrNoSuchName.
func (b *Bindings) Formula(name QualifiedName) (Formula, error) {
	f, ok := b.formulas[name]
	if !ok {
		return nil, fmt.Errorf("formula %q: %w", name, ErrNoSuchName)
	}
	return f, nil
}

// MustFormula returns the formula bound under name, panicking if unbound.
func (b *Bindings) MustFormula(name QualifiedName) Formula {
	f, err := b.Formula(name)
	if err != nil {
		panic(err)
	}
	return f
}

// bindTerm records name ↦ t, failing when the name is already bound to a
// structurally different term.
func (b *Bindings) bindTerm(name QualifiedName, t Term) bool {
	if prev, ok := b.terms[name]; ok {
		return prev.IsIdentityTo(t)
	}
	b.terms[name] = t
	return true
}

// bindFormula records name ↦ f, failing on a structurally different rebind.
func (b *Bindings) bindFormula(name QualifiedName, f Formula) bool {
	if prev, ok := b.formulas[name]; ok {
		return prev.IsIdentityTo(f)
	}
	b.formulas[name] = f
	return true
}

// bindVar records a pattern-variable ↦ matched-variable pair, failing when
// the pattern variable already maps to a different variable.
func (b *Bindings) bindVar(pat, matched Variable) bool {
	if prev, ok := b.vars[pat]; ok {
		return prev == matched
	}
	b.vars[pat] = matched
	return true
}

// clone copies the binding context so one match can be extended without
// disturbing another.
func (b *Bindings) clone() *Bindings {
	nb := NewBindings()
	for k, v := range b.vars {
		nb.vars[k] = v
	}
	for k, v := range b.terms {
		nb.terms[k] = v
	}
	for k, v := range b.formulas {
		nb.formulas[k] = v
	}
	return nb
}

// InstantiateTerm substitutes the bindings into a template term: NamedTerm
// placeholders become their bound terms, pattern variables become the
// variables they matched, everything else is rebuilt structurally.
func (b *Bindings) InstantiateTerm(template Term) Term {
	switch t := template.(type) {
	case *NamedTerm:
		if bound, ok := b.terms[t.QName()]; ok {
			return bound
		}
		return t.RenameVar(b.vars)
	case *VarTerm:
		return t.RenameVar(b.vars)
	case *ConstTerm:
		return t
	case *FunTerm:
		args := make([]Term, len(t.Args()))
		for i, a := range t.Args() {
			args[i] = b.InstantiateTerm(a)
		}
		return NewFunTerm(t.Function(), args...)
	default:
		return template
	}
}

// InstantiateFormula substitutes the bindings into a template formula.
func (b *Bindings) InstantiateFormula(template Formula) Formula {
	switch f := template.(type) {
	case *NamedFormula:
		if bound, ok := b.formulas[f.QName()]; ok {
			return bound
		}
		return f.RenameVar(b.vars)
	case *PredFormula:
		args := make([]Term, len(f.Args()))
		for i, a := range f.Args() {
			args[i] = b.InstantiateTerm(a)
		}
		return NewPredFormula(f.QName(), args...)
	case *NotFormula:
		return NewNotFormula(b.InstantiateFormula(f.Body()))
	case *BinaryFormula:
		return NewBinaryFormula(f.Op(), b.InstantiateFormula(f.Left()), b.InstantiateFormula(f.Right()))
	case *QuantFormula:
		v := f.Bound()
		if nv, ok := b.vars[v]; ok {
			v = nv
		}
		return NewQuantFormula(f.Kind(), v, b.InstantiateFormula(f.Body()))
	default:
		return template
	}
}

// Template builds the common replacer that instantiates a fixed template
// formula from each match's bindings.
func Template(template Formula) Replacer {
	return func(b *Bindings) Formula {
		return b.InstantiateFormula(template)
	}
}

// Rewritten builds the replacer used with TermMatcher: it returns the whole
// formula produced by rewriting the matched term position, which the matcher
// records under RewrittenName.
func Rewritten() Replacer {
	return func(b *Bindings) Formula {
		return b.MustFormula(RewrittenName)
	}
}

// PatternMatcher matches a pattern formula against whole subformula
// positions. NamedFormula nodes in the pattern bind arbitrary subformulas,
// NamedTerm nodes bind arbitrary terms, and pattern variables bind matched
// variables; every placeholder must resolve consistently across repeated
// occurrences within one match.
type PatternMatcher struct {
	pattern Formula
}

// NewPatternMatcher creates a matcher for the given pattern formula.
func NewPatternMatcher(pattern Formula) *PatternMatcher {
	return &PatternMatcher{pattern: pattern}
}

// Pattern returns the pattern formula.
func (m *PatternMatcher) Pattern() Formula { return m.pattern }

// Match attempts to match the pattern against f as a whole, returning the
// bindings on success.
func (m *PatternMatcher) Match(f Formula) (*Bindings, bool) {
	b := NewBindings()
	if matchFormula(m.pattern, f, b) {
		return b, true
	}
	return nil, false
}

// ReplaceOne implements Matcher.
func (m *PatternMatcher) ReplaceOne(f Formula, r Replacer) []Formula {
	var out []Formula
	if b, ok := m.Match(f); ok {
		out = append(out, r(b))
	}
	switch f := f.(type) {
	case *NotFormula:
		for _, c := range m.ReplaceOne(f.Body(), r) {
			out = append(out, NewNotFormula(c))
		}
	case *BinaryFormula:
		for _, c := range m.ReplaceOne(f.Left(), r) {
			out = append(out, NewBinaryFormula(f.Op(), c, f.Right()))
		}
		for _, c := range m.ReplaceOne(f.Right(), r) {
			out = append(out, NewBinaryFormula(f.Op(), f.Left(), c))
		}
	case *QuantFormula:
		for _, c := range m.ReplaceOne(f.Body(), r) {
			out = append(out, NewQuantFormula(f.Kind(), f.Bound(), c))
		}
	}
	return out
}

// ReplaceAll implements Matcher. Replacement is pre-order: a replaced
// subformula is not descended into.
func (m *PatternMatcher) ReplaceAll(f Formula, r Replacer) Formula {
	if b, ok := m.Match(f); ok {
		return r(b)
	}
	switch f := f.(type) {
	case *NotFormula:
		body := m.ReplaceAll(f.Body(), r)
		if body == f.Body() {
			return f
		}
		return NewNotFormula(body)
	case *BinaryFormula:
		left := m.ReplaceAll(f.Left(), r)
		right := m.ReplaceAll(f.Right(), r)
		if left == f.Left() && right == f.Right() {
			return f
		}
		return NewBinaryFormula(f.Op(), left, right)
	case *QuantFormula:
		body := m.ReplaceAll(f.Body(), r)
		if body == f.Body() {
			return f
		}
		return NewQuantFormula(f.Kind(), f.Bound(), body)
	default:
		return f
	}
}

// matchFormula matches a pattern formula against a target, extending b.
func matchFormula(pat, tgt Formula, b *Bindings) bool {
	switch pat := pat.(type) {
	case *NamedFormula:
		return b.bindFormula(pat.QName(), tgt)
	case *PredFormula:
		o, ok := tgt.(*PredFormula)
		if !ok || pat.QName() != o.QName() || len(pat.Args()) != len(o.Args()) {
			return false
		}
		for i, a := range pat.Args() {
			if !matchTerm(a, o.Args()[i], b) {
				return false
			}
		}
		return true
	case *NotFormula:
		o, ok := tgt.(*NotFormula)
		return ok && matchFormula(pat.Body(), o.Body(), b)
	case *BinaryFormula:
		o, ok := tgt.(*BinaryFormula)
		return ok && pat.Op() == o.Op() &&
			matchFormula(pat.Left(), o.Left(), b) &&
			matchFormula(pat.Right(), o.Right(), b)
	case *QuantFormula:
		o, ok := tgt.(*QuantFormula)
		return ok && pat.Kind() == o.Kind() &&
			b.bindVar(pat.Bound(), o.Bound()) &&
			matchFormula(pat.Body(), o.Body(), b)
	default:
		return false
	}
}

// matchTerm matches a pattern term against a target, extending b.
func matchTerm(pat, tgt Term, b *Bindings) bool {
	switch pat := pat.(type) {
	case *NamedTerm:
		return b.bindTerm(pat.QName(), tgt)
	case *VarTerm:
		o, ok := tgt.(*VarTerm)
		return ok && b.bindVar(pat.Variable(), o.Variable())
	case *ConstTerm:
		o, ok := tgt.(*ConstTerm)
		return ok && pat.Constant() == o.Constant()
	case *FunTerm:
		o, ok := tgt.(*FunTerm)
		if !ok || pat.Function() != o.Function() || len(pat.Args()) != len(o.Args()) {
			return false
		}
		for i, a := range pat.Args() {
			if !matchTerm(a, o.Args()[i], b) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// TermMatcher matches a term pattern at every term position inside a
// formula and rewrites matched positions with a term template. It satisfies
// the same Matcher contract as PatternMatcher; the Replacer receives each
// rewritten formula under RewrittenName (see Rewritten), alongside the
// term-level bindings of the match.
type TermMatcher struct {
	pattern  Term
	template Term
}

// NewTermMatcher creates a matcher rewriting occurrences of a term pattern
// into the given template.
func NewTermMatcher(pattern, template Term) *TermMatcher {
	return &TermMatcher{pattern: pattern, template: template}
}

// Pattern returns the term pattern.
func (m *TermMatcher) Pattern() Term { return m.pattern }

// Template returns the replacement template.
func (m *TermMatcher) Template() Term { return m.template }

// matchAt attempts to match the pattern against t as a whole.
func (m *TermMatcher) matchAt(t Term) (*Bindings, bool) {
	b := NewBindings()
	if matchTerm(m.pattern, t, b) {
		return b, true
	}
	return nil, false
}

// termCandidate is one single-position term rewrite: the new term plus the
// bindings of the match that produced it.
type termCandidate struct {
	term Term
	b    *Bindings
}

// replaceOneTerm enumerates every rewrite of t with exactly one matching
// position replaced, in pre-order position order.
func (m *TermMatcher) replaceOneTerm(t Term) []termCandidate {
	var out []termCandidate
	if b, ok := m.matchAt(t); ok {
		out = append(out, termCandidate{term: b.InstantiateTerm(m.template), b: b})
	}
	if ft, ok := t.(*FunTerm); ok {
		for i, a := range ft.Args() {
			for _, c := range m.replaceOneTerm(a) {
				args := make([]Term, len(ft.Args()))
				copy(args, ft.Args())
				args[i] = c.term
				out = append(out, termCandidate{term: NewFunTerm(ft.Function(), args...), b: c.b})
			}
		}
	}
	return out
}

// formulaCandidate is one single-position formula rewrite.
type formulaCandidate struct {
	f Formula
	b *Bindings
}

// replaceOneFormula enumerates every rewrite of f with exactly one matching
// term position replaced.
func (m *TermMatcher) replaceOneFormula(f Formula) []formulaCandidate {
	var out []formulaCandidate
	switch f := f.(type) {
	case *PredFormula:
		for i, a := range f.Args() {
			for _, c := range m.replaceOneTerm(a) {
				args := make([]Term, len(f.Args()))
				copy(args, f.Args())
				args[i] = c.term
				out = append(out, formulaCandidate{f: NewPredFormula(f.QName(), args...), b: c.b})
			}
		}
	case *NotFormula:
		for _, c := range m.replaceOneFormula(f.Body()) {
			out = append(out, formulaCandidate{f: NewNotFormula(c.f), b: c.b})
		}
	case *BinaryFormula:
		for _, c := range m.replaceOneFormula(f.Left()) {
			out = append(out, formulaCandidate{f: NewBinaryFormula(f.Op(), c.f, f.Right()), b: c.b})
		}
		for _, c := range m.replaceOneFormula(f.Right()) {
			out = append(out, formulaCandidate{f: NewBinaryFormula(f.Op(), f.Left(), c.f), b: c.b})
		}
	case *QuantFormula:
		for _, c := range m.replaceOneFormula(f.Body()) {
			out = append(out, formulaCandidate{f: NewQuantFormula(f.Kind(), f.Bound(), c.f), b: c.b})
		}
	}
	return out
}

// ReplaceOne implements Matcher.
func (m *TermMatcher) ReplaceOne(f Formula, r Replacer) []Formula {
	cands := m.replaceOneFormula(f)
	out := make([]Formula, 0, len(cands))
	for _, c := range cands {
		b := c.b.clone()
		b.bindFormula(RewrittenName, c.f)
		out = append(out, r(b))
	}
	return out
}

// ReplaceAll implements Matcher. Every matching term occurrence is rewritten
// in one pre-order pass; a rewritten subterm is not descended into.
func (m *TermMatcher) ReplaceAll(f Formula, r Replacer) Formula {
	changed := false
	rewritten := m.rewriteAllFormula(f, &changed)
	if !changed {
		return f
	}
	b := NewBindings()
	b.bindFormula(RewrittenName, rewritten)
	return r(b)
}

// rewriteAllTerm rewrites every matching position of t in one pass.
func (m *TermMatcher) rewriteAllTerm(t Term, changed *bool) Term {
	return t.RecurRewrite(
		func(sub Term) (Term, bool) {
			if b, ok := m.matchAt(sub); ok {
				*changed = true
				return b.InstantiateTerm(m.template), true
			}
			return nil, false
		},
		func(rebuilt Term) Term { return rebuilt },
	)
}

// rewriteAllFormula applies rewriteAllTerm at every term position of f,
// sharing untouched subformulas.
func (m *TermMatcher) rewriteAllFormula(f Formula, changed *bool) Formula {
	switch f := f.(type) {
	case *PredFormula:
		before := *changed
		args := make([]Term, len(f.Args()))
		for i, a := range f.Args() {
			args[i] = m.rewriteAllTerm(a, changed)
		}
		if *changed == before {
			return f
		}
		return NewPredFormula(f.QName(), args...)
	case *NotFormula:
		body := m.rewriteAllFormula(f.Body(), changed)
		if body == f.Body() {
			return f
		}
		return NewNotFormula(body)
	case *BinaryFormula:
		left := m.rewriteAllFormula(f.Left(), changed)
		right := m.rewriteAllFormula(f.Right(), changed)
		if left == f.Left() && right == f.Right() {
			return f
		}
		return NewBinaryFormula(f.Op(), left, right)
	case *QuantFormula:
		body := m.rewriteAllFormula(f.Body(), changed)
		if body == f.Body() {
			return f
		}
		return NewQuantFormula(f.Kind(), f.Bound(), body)
	default:
		return f
	}
}
