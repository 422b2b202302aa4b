// Package aspic implements the core of an ASPIC+ structured
// argumentation engine: formula and rule representation, an
// argumentation system (language, rules, contrariness), and the
// argumentation theory that constructs arguments and derives attack
// and defeat relations from them.
//
// The package does not parse free text beyond the small grammar
// described on Formula and Rule, does not implement incremental
// updates after a theory is evaluated, and does not enumerate Dung
// extensions itself — that last step is delegated to an external
// collaborator through the extclient subpackage.
package aspic

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/arg-tech/goaspic/internal/arith"
)

var (
	// termRegex splits "term(p1,p2,...)" or a bare "term" into its
	// predicate symbol and (optional) parenthesised parameter list.
	termRegex = regexp.MustCompile(`^\s*([^() ]+)\s*(\([^()]*\))?\s*$`)

	// comparisonRegex recognises a bare "a<b", "a>b" or "a==b" term
	// where each operand is an uppercase-initial variable or a numeric
	// literal.
	comparisonRegex = regexp.MustCompile(`^([A-Z][A-Za-z0-9_]*|[0-9]+(?:\.[0-9]+)?)\s*(<|>|==)\s*([A-Z][A-Za-z0-9_]*|[0-9]+(?:\.[0-9]+)?)$`)

	// expressionRegex recognises a bracketed arithmetic parameter,
	// e.g. "[X*0.8]" or "[{X+Y}*2]".
	expressionRegex = regexp.MustCompile(`^\[([^\[\]]+)\]$`)
)

// Formula represents a single literal in the ASPIC+ language: a
// predicate symbol (optionally prefixed with "~" for classical
// negation, or of the shape "~[label]" for an undercutter naming a
// defeasible rule) together with an ordered parameter list.
type Formula struct {
	Term       string
	Parameters []string
	Variables  []string
	IsComparison bool

	// expr holds, for each parameter index that was written as a
	// bracketed arithmetic expression, the original bracketed text
	// (for stringification) — e.g. Parameters[1] == "[X*2]".
	expr map[int]string
}

// ParseFormula parses the textual form of a single formula: a bare
// term, or "term(p1,...,pn)". Parameters are split on top-level commas
// (commas inside a bracketed expression "[...]" do not count — this
// grammar never nests brackets, so a naive split on "," after
// stripping outer parens is sufficient once expressions are protected).
//
// Returns ErrParse if the text doesn't match the term grammar at all.
func ParseFormula(text string) (*Formula, error) {
	text = strings.TrimSpace(text)
	m := termRegex.FindStringSubmatch(text)
	if m == nil {
		return nil, newParseError("formula", text, "does not match term(p1,...,pn) or bare term")
	}

	f := &Formula{
		Term: m[1],
		expr: map[int]string{},
	}

	if m[2] != "" {
		inner := m[2][1 : len(m[2])-1]
		for _, raw := range splitTopLevel(inner, ',') {
			p := strings.TrimSpace(raw)
			if p == "" {
				continue
			}
			f.addParameter(p)
		}
	} else if cm := comparisonRegex.FindStringSubmatch(f.Term); cm != nil {
		f.IsComparison = true
		for _, operand := range []string{cm[1], cm[3]} {
			if isVariableToken(operand) {
				f.Variables = append(f.Variables, operand)
			}
		}
	}

	return f, nil
}

// addParameter classifies and records one parameter: a bracketed
// arithmetic expression, a variable (uppercase initial), or a plain
// constant.
func (f *Formula) addParameter(p string) {
	idx := len(f.Parameters)
	if em := expressionRegex.FindStringSubmatch(p); em != nil {
		f.expr[idx] = em[1]
		f.Parameters = append(f.Parameters, p)
		for _, v := range expressionVariables(em[1]) {
			f.Variables = append(f.Variables, v)
		}
		return
	}

	f.Parameters = append(f.Parameters, p)
	if isVariableToken(p) {
		f.Variables = append(f.Variables, p)
	}
}

// expressionVariables extracts the uppercase-initial tokens from a
// bracketed expression body, splitting on the arithmetic operators and
// groupers the way the source's parse_expression does.
func expressionVariables(body string) []string {
	var vars []string
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		tok := current.String()
		if isVariableToken(tok) {
			vars = append(vars, tok)
		}
		current.Reset()
	}

	for _, c := range body {
		switch c {
		case '+', '-', '*', '/', '{', '}', '(', ')':
			flush()
		default:
			current.WriteRune(c)
		}
	}
	flush()
	return vars
}

// isVariableToken reports whether tok is an ASPIC+ variable: a
// non-empty token whose first rune is an uppercase ASCII letter.
func isVariableToken(tok string) bool {
	if tok == "" {
		return false
	}
	r := tok[0]
	return r >= 'A' && r <= 'Z'
}

// splitTopLevel splits s on sep, but never inside a "[...]" span, so
// that a bracketed expression parameter containing no commas is never
// mis-split (the grammar doesn't allow commas inside expressions).
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	var depth int
	var cur strings.Builder
	for _, c := range s {
		switch c {
		case '[':
			depth++
			cur.WriteRune(c)
		case ']':
			depth--
			cur.WriteRune(c)
		case sep:
			if depth == 0 {
				parts = append(parts, cur.String())
				cur.Reset()
				continue
			}
			cur.WriteRune(c)
		default:
			cur.WriteRune(c)
		}
	}
	parts = append(parts, cur.String())
	return parts
}

// HasVariables reports whether this formula contains at least one
// unbound variable (in its parameters or, for a comparison, in its
// operands).
func (f *Formula) HasVariables() bool {
	return len(f.Variables) > 0
}

// IsUndercutterLiteral reports whether this formula's term names
// another rule as an undercutter, i.e. begins "~[".
func (f *Formula) IsUndercutterLiteral() bool {
	return strings.HasPrefix(f.Term, "~[")
}

// UndercutTargetLabel returns the rule label named by an undercutter
// literal "~[L]" — including its brackets, since rule labels are
// stored with their brackets throughout this package (e.g. "[d1]"),
// and "~[d1]" is simply "~" prefixed onto that exact label. Returns
// false if f is not shaped that way.
func (f *Formula) UndercutTargetLabel() (string, bool) {
	if !f.IsUndercutterLiteral() {
		return "", false
	}
	return strings.TrimPrefix(f.Term, "~"), true
}

// EvaluateComparison substitutes each variable in mapping into this
// comparison formula's term and evaluates the resulting relational
// expression. A non-comparison formula, or one that fails to evaluate,
// returns false — never an error (per the source's exception-swallowing
// eval() and spec.md §7).
func (f *Formula) EvaluateComparison(mapping map[string]string) bool {
	if !f.IsComparison {
		return false
	}
	expr := substituteVariables(f.Term, mapping)
	result, ok := arith.EvalComparison(expr)
	if !ok {
		return false
	}
	return result
}

// ResolveExpressions substitutes mapping into every bracketed
// expression parameter and replaces that parameter, in place, with the
// evaluated integer's string form. Non-expression parameters are left
// untouched. A parameter whose expression fails to evaluate resolves
// to "0", per spec.md §7.
func (f *Formula) ResolveExpressions(mapping map[string]string) {
	for idx, body := range f.expr {
		substituted := substituteVariables(body, mapping)
		val, ok := arith.EvalInt(substituted)
		if !ok {
			val = 0
		}
		f.Parameters[idx] = strconv.Itoa(val)
		delete(f.expr, idx)
	}
}

// substituteVariables performs the source's (deliberately naive)
// string-replacement substitution: each mapping key is replaced by its
// value wherever it appears as a substring of expr. This can only
// misfire if one variable name is a prefix of another, which ASPIC+
// rule authors avoid by convention; preserving the literal behaviour
// keeps evaluate_comparison's semantics identical to the source.
func substituteVariables(expr string, mapping map[string]string) string {
	for k, v := range mapping {
		expr = strings.ReplaceAll(expr, k, v)
	}
	return expr
}

// String renders the canonical form of this formula: "term(p1, p2)"
// using resolved parameters, or the bare term if it has none. This
// must match exactly across implementations since attack and defeat
// derivation identify formulas by this string (spec.md §9).
func (f *Formula) String() string {
	if len(f.Parameters) == 0 {
		return f.Term
	}
	parts := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		if body, ok := f.expr[i]; ok {
			parts[i] = "[" + body + "]"
		} else {
			parts[i] = p
		}
	}
	return f.Term + "(" + strings.Join(parts, ", ") + ")"
}

// Equal reports structural equality: same term and same ordered
// parameter sequence.
func (f *Formula) Equal(other *Formula) bool {
	if other == nil {
		return false
	}
	if f.Term != other.Term || len(f.Parameters) != len(other.Parameters) {
		return false
	}
	for i := range f.Parameters {
		if f.Parameters[i] != other.Parameters[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of f, safe to mutate independently (used
// when a rule is specialised for a particular consequent
// instantiation).
func (f *Formula) Clone() *Formula {
	clone := &Formula{
		Term:         f.Term,
		IsComparison: f.IsComparison,
		Parameters:   append([]string(nil), f.Parameters...),
		Variables:    append([]string(nil), f.Variables...),
		expr:         make(map[int]string, len(f.expr)),
	}
	for k, v := range f.expr {
		clone.expr[k] = v
	}
	return clone
}
