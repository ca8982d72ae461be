package deduce

// Deduction is a justified derivation record: this rule, given these premise
// formulas, yields the conclusion. Deductions are immutable values owned by
// the caller; they carry no back-references into the context and can outlive
// it.
type Deduction struct {
	// Rule is the rule that produced this deduction.
	Rule Rule
	// Conclusion is the derived (or, for goal-directed search, the desired)
	// formula.
	Conclusion Formula
	// Premises are the formulas the deduction depends on, in order.
	Premises []Formula
	// Info carries auxiliary rule-specific data.
	Info map[string]any
}

// NewDeduction creates a deduction with no auxiliary info.
func NewDeduction(rule Rule, conclusion Formula, premises ...Formula) Deduction {
	return Deduction{Rule: rule, Conclusion: conclusion, Premises: premises}
}

// TowardResult is the sealed outcome of a goal-directed rule application:
// either Reached or NotReached.
type TowardResult interface {
	isTowardResult()
}

// Reached reports that the search stopped on a rewrite structurally
// identical to the desired goal.
type Reached struct {
	Deduction Deduction
}

func (Reached) isTowardResult() {}

// NotReached reports that no rewrite matched the goal. Candidates holds
// every rewrite considered along the way; each still records the desired
// formula as its nominal conclusion, so callers must not assume a NotReached
// candidate's conclusion was actually derived.
type NotReached struct {
	Candidates []Deduction
}

func (NotReached) isTowardResult() {}

// Rule is a named transformation producing new formulas from a context of
// established ones.
//
// extraFormulas and extraTerms are rule-specific parameters for rule kinds
// that need caller-chosen instantiation, such as an existential witness. The
// rule kinds provided by this package accept but ignore them; they operate
// purely over the context.
type Rule interface {
	// Name identifies the rule.
	Name() string

	// Description explains what the rule does. Metadata only.
	Description() string

	// Apply enumerates every one-step rewrite the rule can produce from
	// every formula in the context, each paired with its source formula as
	// sole premise. Results are grouped by source formula in context order.
	// An empty result means nothing was applicable; it is not an error.
	Apply(fc *FormulaContext, extraFormulas []Formula, extraTerms []Term) []Deduction

	// ApplyToward searches for a one-step rewrite structurally identical to
	// desired, walking the context newest-first. It returns Reached on the
	// first hit, else NotReached carrying every candidate considered.
	ApplyToward(fc *FormulaContext, extraFormulas []Formula, extraTerms []Term, desired Formula) TowardResult
}

// containsIdentical reports whether fs holds a formula structurally
// identical to f.
func containsIdentical(fs []Formula, f Formula) bool {
	for _, g := range fs {
		if g.IsIdentityTo(f) {
			return true
		}
	}
	return false
}

// applyOneFunc computes the candidate rewrites of a single formula.
type applyOneFunc func(f Formula) []Formula

// applyAll runs applyOne over the whole context in establishment order,
// wrapping each candidate in a deduction with the candidate as conclusion
// and the source formula as sole premise.
func applyAll(rule Rule, fc *FormulaContext, applyOne applyOneFunc) []Deduction {
	var out []Deduction
	for _, f := range fc.Formulas() {
		for _, cand := range applyOne(f) {
			out = append(out, NewDeduction(rule, cand, f))
		}
	}
	return out
}

// applyTowardAll runs applyOne over the context from the most recently added
// formula back to the oldest, stopping on the first candidate structurally
// identical to desired. Every deduction records desired as its conclusion,
// whether or not the candidate actually reached it.
func applyTowardAll(rule Rule, fc *FormulaContext, desired Formula, applyOne applyOneFunc) TowardResult {
	var candidates []Deduction
	formulas := fc.Formulas()
	for i := len(formulas) - 1; i >= 0; i-- {
		f := formulas[i]
		for _, cand := range applyOne(f) {
			d := NewDeduction(rule, desired, f)
			if cand.IsIdentityTo(desired) {
				return Reached{Deduction: d}
			}
			candidates = append(candidates, d)
		}
	}
	return NotReached{Candidates: candidates}
}

// MatcherRule is a single-pattern rewrite rule: a matcher paired with a
// replacer template. Applied to a formula it yields every single-occurrence
// rewrite, plus the all-occurrences rewrite when that differs from both the
// input and every candidate already found.
type MatcherRule struct {
	name        string
	description string
	matcher     Matcher
	replacer    Replacer
}

// NewMatcherRule creates a single-pattern rewrite rule.
func NewMatcherRule(name, description string, m Matcher, r Replacer) *MatcherRule {
	return &MatcherRule{name: name, description: description, matcher: m, replacer: r}
}

// Name implements Rule.
func (r *MatcherRule) Name() string { return r.name }

// Description implements Rule.
func (r *MatcherRule) Description() string { return r.description }

// replaceAndAdd appends to acc the candidates produced by one matcher and
// replacer pair, skipping any candidate structurally identical to one
// already collected: first every ReplaceOne result in matcher order, then
// the all-occurrences rewrite when it differs from the input formula.
//
// The all-occurrences probe always runs through the receiver's primary
// matcher, whichever matcher produced the single-occurrence candidates.
// TODO: decide whether a definitional rule's secondary pass should probe
// with its own matcher instead; changing this alters which simultaneous
// rewrites MatcherDefRule reports.
func (r *MatcherRule) replaceAndAdd(acc []Formula, f Formula, m Matcher, rep Replacer) []Formula {
	for _, cand := range m.ReplaceOne(f, rep) {
		if !containsIdentical(acc, cand) {
			acc = append(acc, cand)
		}
	}
	all := r.matcher.ReplaceAll(f, rep)
	if !all.IsIdentityTo(f) && !containsIdentical(acc, all) {
		acc = append(acc, all)
	}
	return acc
}

// applyOne computes the deduplicated candidate rewrites of one formula.
func (r *MatcherRule) applyOne(f Formula) []Formula {
	return r.replaceAndAdd(nil, f, r.matcher, r.replacer)
}

// Apply implements Rule.
func (r *MatcherRule) Apply(fc *FormulaContext, _ []Formula, _ []Term) []Deduction {
	return applyAll(r, fc, r.applyOne)
}

// ApplyToward implements Rule.
func (r *MatcherRule) ApplyToward(fc *FormulaContext, _ []Formula, _ []Term, desired Formula) TowardResult {
	return applyTowardAll(r, fc, desired, r.applyOne)
}

// MatcherDefRule is a two-pattern rewrite rule, typically encoding a
// definition usable in both directions: the primary matcher/replacer pair of
// a MatcherRule plus a secondary pair. Candidates from both passes
// accumulate into one list deduplicated across the two patterns.
type MatcherDefRule struct {
	MatcherRule
	matcher2  Matcher
	replacer2 Replacer
}

// NewMatcherDefRule creates a two-pattern rewrite rule.
func NewMatcherDefRule(name, description string, m1 Matcher, r1 Replacer, m2 Matcher, r2 Replacer) *MatcherDefRule {
	return &MatcherDefRule{
		MatcherRule: MatcherRule{name: name, description: description, matcher: m1, replacer: r1},
		matcher2:    m2,
		replacer2:   r2,
	}
}

// applyOne runs the primary pass, then the secondary pass over the same
// formula. The secondary pass's all-occurrences probe goes through the
// primary matcher with the secondary replacer; see replaceAndAdd.
func (r *MatcherDefRule) applyOne(f Formula) []Formula {
	acc := r.replaceAndAdd(nil, f, r.matcher, r.replacer)
	return r.replaceAndAdd(acc, f, r.matcher2, r.replacer2)
}

// Apply implements Rule.
func (r *MatcherDefRule) Apply(fc *FormulaContext, _ []Formula, _ []Term) []Deduction {
	return applyAll(r, fc, r.applyOne)
}

// ApplyToward implements Rule.
func (r *MatcherDefRule) ApplyToward(fc *FormulaContext, _ []Formula, _ []Term, desired Formula) TowardResult {
	return applyTowardAll(r, fc, desired, r.applyOne)
}
