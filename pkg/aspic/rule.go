package aspic

import (
	"regexp"
	"strings"
)

// RuleKind distinguishes a strict (classically valid) rule from a
// defeasible (overridable) one.
type RuleKind int

const (
	Strict RuleKind = iota
	Defeasible
)

func (k RuleKind) String() string {
	if k == Strict {
		return "->"
	}
	return "=>"
}

// Rule is a single inference rule: a (possibly empty) ordered sequence
// of antecedent formulas, a consequent formula, and a strict/defeasible
// tag.
type Rule struct {
	Label         string
	Antecedents   []*Formula
	Consequent    *Formula
	Kind          RuleKind
	IsUndercutter bool
}

var antecedentRegex = regexp.MustCompile(`[^(), ]+\([^()]*\)|[^(), ]+`)

// ParseRule parses a rule's text body (everything after the label) of
// the form "ant1, ant2, ... ARROW consequent", where ARROW is "=>"
// (defeasible) or "->" (strict). Defeasible is checked first since a
// strict arrow can't appear in rule text that also contains "=>" — the
// source tries DEFEASIBLE before STRICT to avoid a partial match, and
// this mirrors that order exactly.
func ParseRule(label, text string) (*Rule, error) {
	var kind RuleKind
	var sep string
	switch {
	case strings.Contains(text, "=>"):
		kind = Defeasible
		sep = "=>"
	case strings.Contains(text, "->"):
		kind = Strict
		sep = "->"
	default:
		return nil, newParseError("rule", text, "no => or -> arrow found")
	}

	parts := strings.SplitN(text, sep, 2)
	if len(parts) != 2 {
		return nil, newParseError("rule", text, "malformed arrow split")
	}

	antecedentText := strings.TrimSpace(parts[0])
	consequentText := strings.TrimSpace(parts[1])

	var antecedents []*Formula
	for _, raw := range antecedentRegex.FindAllString(antecedentText, -1) {
		raw = strings.TrimSpace(strings.TrimSuffix(raw, ","))
		if raw == "" {
			continue
		}
		f, err := ParseFormula(raw)
		if err != nil {
			return nil, err
		}
		antecedents = append(antecedents, f)
	}

	consequent, err := ParseFormula(consequentText)
	if err != nil {
		return nil, err
	}

	return &Rule{
		Label:         label,
		Antecedents:   antecedents,
		Consequent:    consequent,
		Kind:          kind,
		IsUndercutter: consequent.IsUndercutterLiteral(),
	}, nil
}

// String renders the canonical form of this rule, matching the
// source's __str__ (label, comma-joined antecedents, arrow,
// consequent) so ParseRule(label, r.String()[len(label)+1:]) round-trips.
func (r *Rule) String() string {
	ants := make([]string, len(r.Antecedents))
	for i, a := range r.Antecedents {
		ants[i] = a.String()
	}
	return r.Label + " " + strings.Join(ants, ",") + r.Kind.String() + r.Consequent.String()
}

// Clone returns a deep copy of r, used when a rule is specialised with
// a particular variable-to-value mapping for its consequent.
func (r *Rule) Clone() *Rule {
	clone := &Rule{
		Label:         r.Label,
		Kind:          r.Kind,
		IsUndercutter: r.IsUndercutter,
		Consequent:    r.Consequent.Clone(),
	}
	clone.Antecedents = make([]*Formula, len(r.Antecedents))
	for i, a := range r.Antecedents {
		clone.Antecedents[i] = a.Clone()
	}
	return clone
}
