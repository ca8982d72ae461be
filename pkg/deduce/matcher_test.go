package deduce

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindings(t *testing.T) {
	t.Run("unbound lookup fails with ErrNoSuchName", func(t *testing.T) {
		b := NewBindings()
		_, err := b.Term(Name("T"))
		assert.ErrorIs(t, err, ErrNoSuchName)
		_, err = b.Formula(Name("F"))
		assert.ErrorIs(t, err, ErrNoSuchName)
	})

	t.Run("MustTerm panics on an unbound name", func(t *testing.T) {
		b := NewBindings()
		assert.Panics(t, func() { b.MustTerm(Name("T")) })
	})

	t.Run("rebinding the same value succeeds", func(t *testing.T) {
		b := NewBindings()
		assert.True(t, b.bindTerm(Name("T"), C("a")))
		assert.True(t, b.bindTerm(Name("T"), C("a")))
		assert.False(t, b.bindTerm(Name("T"), C("b")))
	})
}

func TestPatternMatcherMatch(t *testing.T) {
	t.Run("placeholder binds the aligned term", func(t *testing.T) {
		m := NewPatternMatcher(Pred("p", X("T")))
		b, ok := m.Match(Pred("p", C("a")))
		require.True(t, ok)
		bound, err := b.Term(Name("T"))
		require.NoError(t, err)
		assert.True(t, bound.IsIdentityTo(C("a")))
	})

	t.Run("repeated placeholders must align identically", func(t *testing.T) {
		m := NewPatternMatcher(Pred("eq", X("T"), X("T")))
		_, ok := m.Match(Pred("eq", C("a"), C("a")))
		assert.True(t, ok)
		_, ok = m.Match(Pred("eq", C("a"), C("b")))
		assert.False(t, ok)
	})

	t.Run("formula placeholder binds a whole subformula", func(t *testing.T) {
		m := NewPatternMatcher(Not(Meta("F")))
		b, ok := m.Match(Not(Conj(Pred("p"), Pred("q"))))
		require.True(t, ok)
		bound, err := b.Formula(Name("F"))
		require.NoError(t, err)
		assert.True(t, bound.IsIdentityTo(Conj(Pred("p"), Pred("q"))))
	})

	t.Run("predicate name and arity gate the match", func(t *testing.T) {
		m := NewPatternMatcher(Pred("p", X("T")))
		_, ok := m.Match(Pred("q", C("a")))
		assert.False(t, ok)
		_, ok = m.Match(Pred("p", C("a"), C("b")))
		assert.False(t, ok)
	})

	t.Run("quantifier binders align as variables", func(t *testing.T) {
		pv := NewVariable("v")
		m := NewPatternMatcher(All(pv, Pred("p", NewVarTerm(pv))))
		_, ok := m.Match(All(NewVariable("x"), Pred("p", V("x"))))
		assert.True(t, ok)
		_, ok = m.Match(All(NewVariable("x"), Pred("p", V("y"))))
		assert.False(t, ok)
	})
}

func TestPatternMatcherReplace(t *testing.T) {
	m := NewPatternMatcher(Pred("p", X("T")))
	r := Template(Pred("q", X("T")))

	t.Run("ReplaceOne yields one candidate per position", func(t *testing.T) {
		f := Conj(Pred("p", C("a")), Pred("p", C("b")))
		got := m.ReplaceOne(f, r)
		require.Len(t, got, 2)
		assert.True(t, got[0].IsIdentityTo(Conj(Pred("q", C("a")), Pred("p", C("b")))))
		assert.True(t, got[1].IsIdentityTo(Conj(Pred("p", C("a")), Pred("q", C("b")))))
	})

	t.Run("ReplaceOne with no match yields nothing", func(t *testing.T) {
		assert.Empty(t, m.ReplaceOne(Pred("r", C("a")), r))
	})

	t.Run("ReplaceAll rewrites every occurrence in one pass", func(t *testing.T) {
		f := Conj(Pred("p", C("a")), Not(Pred("p", C("b"))))
		got := m.ReplaceAll(f, r)
		assert.True(t, got.IsIdentityTo(Conj(Pred("q", C("a")), Not(Pred("q", C("b"))))))
	})

	t.Run("ReplaceAll with no match returns the input node", func(t *testing.T) {
		f := Conj(Pred("r", C("a")), Pred("s", C("b")))
		assert.Same(t, f, m.ReplaceAll(f, r))
	})

	t.Run("replacement positions are not re-entered", func(t *testing.T) {
		// p(T) -> ¬p(T): the replacement contains a fresh match for the
		// pattern, which must not be rewritten again.
		wrap := Template(Not(Pred("p", X("T"))))
		got := m.ReplaceAll(Pred("p", C("a")), wrap)
		assert.True(t, got.IsIdentityTo(Not(Pred("p", C("a")))))
	})
}

func TestTermMatcher(t *testing.T) {
	f := NewFunction("f", 2)
	swap := NewTermMatcher(
		Ap(f, X("A"), X("B")),
		Ap(f, X("B"), X("A")),
	)

	t.Run("rewrites a matched term inside a predicate", func(t *testing.T) {
		in := Pred("p", Ap(f, C("a"), C("b")))
		got := swap.ReplaceOne(in, Rewritten())
		require.Len(t, got, 1)
		assert.True(t, got[0].IsIdentityTo(Pred("p", Ap(f, C("b"), C("a")))))
	})

	t.Run("round trip recovers the original term", func(t *testing.T) {
		in := Pred("p", Ap(f, C("a"), C("b")))
		once := swap.ReplaceOne(in, Rewritten())
		require.Len(t, once, 1)
		twice := swap.ReplaceOne(once[0], Rewritten())
		require.Len(t, twice, 1)
		assert.True(t, twice[0].IsIdentityTo(in))
	})

	t.Run("every term position is a candidate", func(t *testing.T) {
		in := Pred("p", Ap(f, C("a"), C("b")), Ap(f, C("c"), C("d")))
		got := swap.ReplaceOne(in, Rewritten())
		assert.Len(t, got, 2)
	})

	t.Run("nested matches yield one candidate per position", func(t *testing.T) {
		// f(f(a,b), c) matches at the root and at the inner application.
		in := Pred("p", Ap(f, Ap(f, C("a"), C("b")), C("c")))
		got := swap.ReplaceOne(in, Rewritten())
		require.Len(t, got, 2)
		assert.True(t, got[0].IsIdentityTo(Pred("p", Ap(f, C("c"), Ap(f, C("a"), C("b"))))))
		assert.True(t, got[1].IsIdentityTo(Pred("p", Ap(f, Ap(f, C("b"), C("a")), C("c")))))
	})

	t.Run("ReplaceAll rewrites without re-entering replacements", func(t *testing.T) {
		in := Pred("p", Ap(f, Ap(f, C("a"), C("b")), C("c")))
		got := swap.ReplaceAll(in, Rewritten())
		// Only the outermost match is rewritten; its former children are not
		// revisited.
		assert.True(t, got.IsIdentityTo(Pred("p", Ap(f, C("c"), Ap(f, C("a"), C("b"))))))
	})

	t.Run("ReplaceAll with no match returns the input node", func(t *testing.T) {
		in := Pred("p", C("a"))
		assert.Same(t, in, swap.ReplaceAll(in, Rewritten()))
	})

	t.Run("term bindings reach the replacer", func(t *testing.T) {
		in := Pred("p", Ap(f, C("a"), C("b")))
		var boundA Term
		swap.ReplaceOne(in, func(b *Bindings) Formula {
			boundA = b.MustTerm(Name("A"))
			return b.MustFormula(RewrittenName)
		})
		require.NotNil(t, boundA)
		assert.True(t, boundA.IsIdentityTo(C("a")))
	})
}

func TestTemplateInstantiation(t *testing.T) {
	t.Run("unbound template names fail loudly", func(t *testing.T) {
		m := NewPatternMatcher(Pred("p", X("T")))
		r := Template(Pred("q", X("T")))
		// The pattern binds T, so instantiation succeeds.
		got := m.ReplaceOne(Pred("p", C("a")), r)
		require.Len(t, got, 1)

		var errNo error
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					if e, ok := rec.(error); ok {
						errNo = e
					}
				}
			}()
			b := NewBindings()
			b.MustFormula(Name("missing"))
		}()
		assert.True(t, errors.Is(errNo, ErrNoSuchName))
	})
}
