package aspic

import "strings"

// Argument is a tagged variant: atomic (a single knowledge-base
// element, TopRule == nil) or ruled (built by applying TopRule to
// LastSubArguments). Both cases share every field below; the
// constructors NewAtomicArgument/NewRuleArgument populate them
// according to spec.md §3's invariants rather than relying on
// inheritance (per spec.md §9's design note on Argument polymorphism).
type Argument struct {
	Label      string
	Conclusion *Formula

	Premises []*Element

	TopRule *Rule

	Rules           []*Rule
	DefeasibleRules []*Rule
	StrictRules     []*Rule

	SubArguments     []*Argument
	LastSubArguments []*Argument
}

// NewAtomicArgument builds an atomic argument: its sole premise is e,
// it uses no rules, and it has no sub-arguments.
func NewAtomicArgument(label string, e *Element) *Argument {
	return &Argument{
		Label:      label,
		Conclusion: e.Formula,
		Premises:   []*Element{e},
	}
}

// NewRuleArgument builds a ruled argument from topRule applied to
// lastSubArguments: its conclusion is topRule's (already resolved)
// consequent; its premise, rule, and sub-argument sets are the unions
// over lastSubArguments plus topRule itself, in the order the source
// builds them (each sub-argument's own premises/rules/sub-arguments are
// appended in turn, so the resulting order depends on the order of
// lastSubArguments — this is observable in Argument equality below and
// is deliberately preserved, not sorted).
func NewRuleArgument(label string, topRule *Rule, lastSubArguments []*Argument) *Argument {
	a := &Argument{
		Label:            label,
		Conclusion:       topRule.Consequent,
		TopRule:          topRule,
		LastSubArguments: lastSubArguments,
		Rules:            []*Rule{topRule},
	}

	ruleSeen := map[string]bool{topRule.Label: true}

	for _, sub := range lastSubArguments {
		a.Premises = append(a.Premises, sub.Premises...)
		for _, r := range sub.Rules {
			if !ruleSeen[r.Label] {
				ruleSeen[r.Label] = true
				a.Rules = append(a.Rules, r)
			}
		}
		a.SubArguments = append(a.SubArguments, sub)
		a.SubArguments = append(a.SubArguments, sub.SubArguments...)
	}

	for _, r := range a.Rules {
		if r.Kind == Defeasible {
			a.DefeasibleRules = append(a.DefeasibleRules, r)
		} else {
			a.StrictRules = append(a.StrictRules, r)
		}
	}

	return a
}

// IsStrict reports whether a uses no defeasible rule anywhere.
func (a *Argument) IsStrict() bool { return len(a.DefeasibleRules) == 0 }

// IsDefeasible is the negation of IsStrict.
func (a *Argument) IsDefeasible() bool { return !a.IsStrict() }

// IsFirm reports whether at least one of a's premises is an axiom.
func (a *Argument) IsFirm() bool {
	for _, p := range a.Premises {
		if p.Tag == Axiom {
			return true
		}
	}
	return false
}

// IsPlausible is the negation of IsFirm.
func (a *Argument) IsPlausible() bool { return !a.IsFirm() }

// LastDefRules returns {TopRule.Label} if the top rule is defeasible,
// or an empty slice for an atomic argument or one topped by a strict
// rule.
func (a *Argument) LastDefRules() []string {
	if a.TopRule != nil && a.TopRule.Kind == Defeasible {
		return []string{a.TopRule.Label}
	}
	return nil
}

// DefeasibleRuleLabels returns the labels of a's defeasible rules, in
// the order they were accumulated.
func (a *Argument) DefeasibleRuleLabels() []string {
	labels := make([]string, len(a.DefeasibleRules))
	for i, r := range a.DefeasibleRules {
		labels[i] = r.Label
	}
	return labels
}

// String renders a's canonical form: for a ruled argument,
// "label: sub1,sub2 ARROW conclusion"; for an atomic argument,
// "label: conclusion".
func (a *Argument) String() string {
	if a.TopRule == nil {
		return a.Label + ": " + a.Conclusion.String()
	}
	labels := make([]string, len(a.LastSubArguments))
	for i, s := range a.LastSubArguments {
		labels[i] = s.Label
	}
	return a.Label + ": " + strings.Join(labels, ",") + a.TopRule.Kind.String() + a.Conclusion.String()
}

// structuralKey returns the key used to detect duplicate arguments
// during construction: the source hashes the concatenation of
// str(sub_argument) over sub_arguments and str(rule) over rules, in
// their accumulated (not sorted) order, and treats two arguments as
// equal iff their hashes match. A label-index string serves the same
// purpose here without relying on hash collisions. An atomic argument
// has neither sub-arguments nor rules, so its key is its own rendered
// form (label included) and every knowledge-base element seeds its own
// argument.
func (a *Argument) structuralKey() string {
	if a.TopRule == nil {
		return a.String()
	}
	var b strings.Builder
	for _, s := range a.SubArguments {
		b.WriteString(s.String())
	}
	for _, r := range a.Rules {
		b.WriteString(r.String())
	}
	return b.String()
}
