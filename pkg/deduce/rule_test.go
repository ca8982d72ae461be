package deduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMatcher is a scripted Matcher for driving the rule loops from tests:
// it records every formula it is asked about and yields the configured
// candidates for formulas structurally identical to its trigger.
type stubMatcher struct {
	trigger    Formula
	candidates []Formula
	oneSeen    []Formula
	allSeen    []Formula
}

func (m *stubMatcher) ReplaceOne(f Formula, _ Replacer) []Formula {
	m.oneSeen = append(m.oneSeen, f)
	if m.trigger != nil && f.IsIdentityTo(m.trigger) {
		return m.candidates
	}
	return nil
}

func (m *stubMatcher) ReplaceAll(f Formula, _ Replacer) Formula {
	m.allSeen = append(m.allSeen, f)
	return f
}

func TestMatcherRuleApplyOne(t *testing.T) {
	t.Run("identity rewrite keeps the single-occurrence candidate", func(t *testing.T) {
		// Pattern X matched against P rewrites P to itself. ReplaceOne still
		// reports the occurrence; the all-occurrences probe adds nothing
		// because its result equals the input.
		p := Pred("P")
		rule := NewMatcherRule("identity", "X becomes X",
			NewPatternMatcher(Meta("X")), Template(Meta("X")))
		ds := rule.Apply(NewFormulaContext(p), nil, nil)
		require.Len(t, ds, 1)
		assert.True(t, ds[0].Conclusion.IsIdentityTo(p))
		require.Len(t, ds[0].Premises, 1)
		assert.True(t, ds[0].Premises[0].IsIdentityTo(p))
	})

	t.Run("candidates are deduplicated structurally", func(t *testing.T) {
		p := Pred("P")
		q := Pred("q")
		m := &stubMatcher{trigger: p, candidates: []Formula{q, Pred("q"), q}}
		rule := NewMatcherRule("dup", "yields duplicates", m, nil)
		ds := rule.Apply(NewFormulaContext(p), nil, nil)
		assert.Len(t, ds, 1)
	})

	t.Run("distinct replace-all result is appended last", func(t *testing.T) {
		// Two occurrences of p under a conjunction: two single rewrites plus
		// the simultaneous rewrite.
		f := Conj(Pred("p", C("a")), Pred("p", C("b")))
		rule := NewMatcherRule("q-for-p", "p becomes q",
			NewPatternMatcher(Pred("p", X("T"))), Template(Pred("q", X("T"))))
		ds := rule.Apply(NewFormulaContext(f), nil, nil)
		require.Len(t, ds, 3)
		assert.True(t, ds[2].Conclusion.IsIdentityTo(
			Conj(Pred("q", C("a")), Pred("q", C("b")))))
	})

	t.Run("single occurrence never double-reports", func(t *testing.T) {
		// With one occurrence the all-occurrences rewrite equals the single
		// one and is dropped.
		f := Pred("p", C("a"))
		rule := NewMatcherRule("q-for-p", "p becomes q",
			NewPatternMatcher(Pred("p", X("T"))), Template(Pred("q", X("T"))))
		ds := rule.Apply(NewFormulaContext(f), nil, nil)
		assert.Len(t, ds, 1)
	})
}

func TestMatcherRuleApply(t *testing.T) {
	t.Run("walks the context in establishment order", func(t *testing.T) {
		f0 := Pred("f0")
		f1 := Pred("f1")
		m := &stubMatcher{}
		rule := NewMatcherRule("probe", "records visits", m, nil)
		rule.Apply(NewFormulaContext(f0, f1), nil, nil)
		require.Len(t, m.oneSeen, 2)
		assert.True(t, m.oneSeen[0].IsIdentityTo(f0))
		assert.True(t, m.oneSeen[1].IsIdentityTo(f1))
	})

	t.Run("empty context yields no deductions", func(t *testing.T) {
		rule := NewMatcherRule("probe", "", &stubMatcher{}, nil)
		assert.Empty(t, rule.Apply(NewFormulaContext(), nil, nil))
	})
}

func TestMatcherRuleApplyToward(t *testing.T) {
	t.Run("scans newest-first and stops on the goal", func(t *testing.T) {
		f0 := Pred("f0")
		f1 := Pred("f1")
		f2 := Pred("f2")
		goal := Pred("goal")
		m := &stubMatcher{trigger: f1, candidates: []Formula{goal}}
		rule := NewMatcherRule("probe", "", m, nil)

		res := rule.ApplyToward(NewFormulaContext(f0, f1, f2), nil, nil, goal)
		reached, ok := res.(Reached)
		require.True(t, ok)
		require.Len(t, reached.Deduction.Premises, 1)
		assert.True(t, reached.Deduction.Premises[0].IsIdentityTo(f1))
		assert.True(t, reached.Deduction.Conclusion.IsIdentityTo(goal))

		// f2 was examined before f1; f0 was never reached.
		require.Len(t, m.oneSeen, 2)
		assert.True(t, m.oneSeen[0].IsIdentityTo(f2))
		assert.True(t, m.oneSeen[1].IsIdentityTo(f1))
	})

	t.Run("exhaustive failure collects every candidate", func(t *testing.T) {
		other := Pred("other")
		goal := Pred("goal")
		fs := []Formula{Pred("f0"), Pred("f1"), Pred("f2")}
		m := &scriptedMatcher{candidates: map[Formula][]Formula{
			fs[0]: {other}, fs[1]: {other, Pred("another")}, fs[2]: {other},
		}}
		rule := NewMatcherRule("probe", "", m, nil)
		res := rule.ApplyToward(NewFormulaContext(fs...), nil, nil, goal)
		nr, ok := res.(NotReached)
		require.True(t, ok)
		assert.Len(t, nr.Candidates, 4)
		for _, d := range nr.Candidates {
			// A NotReached candidate still nominally records the goal.
			assert.True(t, d.Conclusion.IsIdentityTo(goal))
		}
	})

	t.Run("identity rewrite reaches the formula itself", func(t *testing.T) {
		p := Pred("P")
		rule := NewMatcherRule("identity", "X becomes X",
			NewPatternMatcher(Meta("X")), Template(Meta("X")))
		res := rule.ApplyToward(NewFormulaContext(p), nil, nil, p)
		reached, ok := res.(Reached)
		require.True(t, ok)
		assert.True(t, reached.Deduction.Conclusion.IsIdentityTo(p))
		require.Len(t, reached.Deduction.Premises, 1)
		assert.True(t, reached.Deduction.Premises[0].IsIdentityTo(p))
	})

	t.Run("no applicable rewrite is NotReached with no candidates", func(t *testing.T) {
		rule := NewMatcherRule("probe", "", &stubMatcher{}, nil)
		res := rule.ApplyToward(NewFormulaContext(Pred("f0")), nil, nil, Pred("goal"))
		nr, ok := res.(NotReached)
		require.True(t, ok)
		assert.Empty(t, nr.Candidates)
	})
}

// scriptedMatcher yields fixed candidates per source formula.
type scriptedMatcher struct {
	candidates map[Formula][]Formula
}

func (m *scriptedMatcher) ReplaceOne(f Formula, _ Replacer) []Formula {
	for k, v := range m.candidates {
		if k.IsIdentityTo(f) {
			return v
		}
	}
	return nil
}

func (m *scriptedMatcher) ReplaceAll(f Formula, _ Replacer) Formula { return f }

func TestMatcherDefRule(t *testing.T) {
	t.Run("accumulates both patterns with cross-pattern dedup", func(t *testing.T) {
		p := Pred("P")
		c1 := Pred("c1")
		c2 := Pred("c2")
		m1 := &stubMatcher{trigger: p, candidates: []Formula{c1}}
		m2 := &stubMatcher{trigger: p, candidates: []Formula{Pred("c1"), c2}}
		rule := NewMatcherDefRule("def", "two-way definition", m1, nil, m2, nil)

		ds := rule.Apply(NewFormulaContext(p), nil, nil)
		require.Len(t, ds, 2)
		assert.True(t, ds[0].Conclusion.IsIdentityTo(c1))
		assert.True(t, ds[1].Conclusion.IsIdentityTo(c2))
	})

	t.Run("secondary replace-all probe runs on the primary matcher", func(t *testing.T) {
		p := Pred("P")
		m1 := &stubMatcher{}
		m2 := &stubMatcher{}
		rule := NewMatcherDefRule("def", "", m1, nil, m2, nil)
		rule.Apply(NewFormulaContext(p), nil, nil)

		// Both passes probe replace-all through the primary matcher; the
		// secondary matcher only contributes single-occurrence candidates.
		assert.Len(t, m1.oneSeen, 1)
		assert.Len(t, m2.oneSeen, 1)
		assert.Len(t, m1.allSeen, 2)
		assert.Empty(t, m2.allSeen)
	})

	t.Run("definition unfolds in both directions", func(t *testing.T) {
		// subset(A,B) ↔ ∀x.(in(x,A) → in(x,B)) as a two-pattern rule.
		x := NewVariable("x")
		unfold := Template(All(x, Impl(
			Pred("in", NewVarTerm(x), X("A")),
			Pred("in", NewVarTerm(x), X("B")))))
		fold := Template(Pred("subset", X("A"), X("B")))
		rule := NewMatcherDefRule("subset-def", "unfold or fold the subset definition",
			NewPatternMatcher(Pred("subset", X("A"), X("B"))), unfold,
			NewPatternMatcher(All(x, Impl(
				Pred("in", NewVarTerm(x), X("A")),
				Pred("in", NewVarTerm(x), X("B"))))), fold,
		)

		folded := Pred("subset", C("s"), C("t"))
		unfolded := All(x, Impl(
			Pred("in", NewVarTerm(x), C("s")),
			Pred("in", NewVarTerm(x), C("t"))))

		ds := rule.Apply(NewFormulaContext(folded), nil, nil)
		require.NotEmpty(t, ds)
		assert.True(t, ds[0].Conclusion.IsIdentityTo(unfolded))

		ds = rule.Apply(NewFormulaContext(unfolded), nil, nil)
		require.NotEmpty(t, ds)
		assert.True(t, ds[0].Conclusion.IsIdentityTo(folded))
	})
}

func TestSwapRuleRoundTrip(t *testing.T) {
	f := NewFunction("f", 2)
	rule := NewMatcherRule("swap", "f(A,B) becomes f(B,A)",
		NewTermMatcher(Ap(f, X("A"), X("B")), Ap(f, X("B"), X("A"))),
		Rewritten())

	start := Pred("p", Ap(f, C("a"), C("b")))
	ds := rule.Apply(NewFormulaContext(start), nil, nil)
	require.Len(t, ds, 1)
	swapped := ds[0].Conclusion
	assert.True(t, swapped.IsIdentityTo(Pred("p", Ap(f, C("b"), C("a")))))

	back := rule.Apply(NewFormulaContext(swapped), nil, nil)
	require.Len(t, back, 1)
	assert.True(t, back[0].Conclusion.IsIdentityTo(start))
}
