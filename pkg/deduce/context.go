package deduce

// FormulaContext is the ordered collection of formulas established so far in
// a proof attempt. Index 0 is the oldest formula; appending preserves order.
// Ordering matters: goal-directed search walks the context newest-first,
// since recently derived formulas are the most likely to be relevant to an
// in-progress goal.
//
// The engine assumes a stable snapshot of the context for the duration of one
// rule application. A caller mutating a shared context concurrently must
// provide its own synchronization.
type FormulaContext struct {
	formulas []Formula
}

// NewFormulaContext creates a context holding the given formulas in order.
func NewFormulaContext(formulas ...Formula) *FormulaContext {
	return &FormulaContext{formulas: formulas}
}

// Add appends a formula to the context.
func (c *FormulaContext) Add(f Formula) {
	c.formulas = append(c.formulas, f)
}

// Formulas returns the formulas in establishment order. The returned slice
// is read-only.
func (c *FormulaContext) Formulas() []Formula {
	return c.formulas
}

// Len returns the number of formulas in the context.
func (c *FormulaContext) Len() int {
	return len(c.formulas)
}

// Contains reports whether the context holds a formula structurally
// identical to f.
func (c *FormulaContext) Contains(f Formula) bool {
	for _, g := range c.formulas {
		if g.IsIdentityTo(f) {
			return true
		}
	}
	return false
}
