package aspic

import (
	"fmt"
	"strings"
)

// RulePreference is an ordered pair of rule labels: Less is strictly
// less preferred than More.
type RulePreference struct {
	Less string
	More string
}

// ArgumentationSystem holds the rule base, the contrariness relation,
// and the language of ground literals the engine has discovered so
// far. Rules and the language are held in insertion order (a slice
// plus an index set) rather than a hash-randomised map, so that
// argument construction — and therefore argument labelling — is
// reproducible across runs, per spec.md §5.
type ArgumentationSystem struct {
	Language []*Formula
	languageSeen map[string]bool

	Rules      []*Rule
	rulesByLabel map[string]*Rule

	RulePreferences []RulePreference

	// Contrariness maps a formula's canonical string to the canonical
	// strings of its contraries. Populated incrementally by
	// AddContrary (the user-declared relation) and rebuilt over the
	// populated language by UpdateContrariness once construction
	// finishes.
	Contrariness map[string][]string
	contrarinessSeen map[string]map[string]bool

	// declaredContraries holds the (x, y) pairs registered via
	// AddContrary before instantiation, consumed by UpdateContrariness.
	declaredContraries []declaredContrary

	Transposition bool
}

type declaredContrary struct {
	x *Formula
	y *Formula
}

// NewArgumentationSystem returns an empty system. If transposition is
// true, every strict rule added via AddRule is closed under
// transposition (spec.md §4.3) at insertion time.
func NewArgumentationSystem(transposition bool) *ArgumentationSystem {
	return &ArgumentationSystem{
		languageSeen:     map[string]bool{},
		rulesByLabel:     map[string]*Rule{},
		Contrariness:     map[string][]string{},
		contrarinessSeen: map[string]map[string]bool{},
		Transposition:    transposition,
	}
}

// AddRule registers r, deduplicating by label (re-adding the same
// label is a no-op, matching the source's set semantics). If r is
// strict and the system was constructed with transposition enabled,
// its contrapositive variants are generated and added as well.
func (s *ArgumentationSystem) AddRule(r *Rule) {
	if _, exists := s.rulesByLabel[r.Label]; exists {
		return
	}
	s.rulesByLabel[r.Label] = r
	s.Rules = append(s.Rules, r)

	if r.Kind == Strict && s.Transposition {
		for _, tr := range transposeRule(r) {
			if _, exists := s.rulesByLabel[tr.Label]; exists {
				continue
			}
			s.rulesByLabel[tr.Label] = tr
			s.Rules = append(s.Rules, tr)
		}
	}
}

// transposeRule builds the contrapositive variants of a strict rule
// per spec.md §4.3: for n=1 antecedents, a single rule "~c -> ~a1"; for
// n>1, one rule per antecedent index i omitting ai, concluding "~ai"
// from the remaining antecedents plus "~c".
func transposeRule(r *Rule) []*Rule {
	label := strings.TrimSuffix(strings.TrimPrefix(r.Label, "["), "]")
	negConsequent := negate(r.Consequent)

	if len(r.Antecedents) == 1 {
		tr := &Rule{
			Label:       fmt.Sprintf("[%s tp 1]", label),
			Antecedents: []*Formula{negConsequent},
			Consequent:  negate(r.Antecedents[0]),
			Kind:        Strict,
		}
		return []*Rule{tr}
	}

	var out []*Rule
	for i := range r.Antecedents {
		var remaining []*Formula
		for j, a := range r.Antecedents {
			if j != i {
				remaining = append(remaining, a)
			}
		}
		remaining = append(remaining, negConsequent)
		out = append(out, &Rule{
			Label:       fmt.Sprintf("[%s tp %d]", label, i+1),
			Antecedents: remaining,
			Consequent:  negate(r.Antecedents[i]),
			Kind:        Strict,
		})
	}
	return out
}

// negate returns the classical-negation counterpart of f: "p" becomes
// "~p", and "~p" becomes "p".
func negate(f *Formula) *Formula {
	if strings.HasPrefix(f.Term, "~") {
		neg, _ := ParseFormula(strings.TrimPrefix(f.String(), "~"))
		return neg
	}
	neg, _ := ParseFormula("~" + f.String())
	return neg
}

// AddRulePreference registers (less, more) as a rule preference,
// silently dropping it (per spec.md §7, UnknownRuleInPreference) unless
// both labels name existing, non-strict rules.
func (s *ArgumentationSystem) AddRulePreference(less, more string) {
	lr, lok := s.rulesByLabel[less]
	mr, mok := s.rulesByLabel[more]
	if !lok || !mok {
		return
	}
	if lr.Kind == Strict || mr.Kind == Strict {
		return
	}
	s.RulePreferences = append(s.RulePreferences, RulePreference{Less: less, More: more})
}

// AddContrary registers x as a contrary of y: y's contrary set gains
// x. If contradiction is true, y is also registered as a contrary of
// x. The pair is recorded for re-instantiation by UpdateContrariness,
// and also applied directly (covering the ground, variable-free case
// immediately).
func (s *ArgumentationSystem) AddContrary(x, y *Formula, contradiction bool) {
	s.declaredContraries = append(s.declaredContraries, declaredContrary{x: x, y: y})
	s.addContraryString(x.String(), y.String())

	if contradiction {
		s.declaredContraries = append(s.declaredContraries, declaredContrary{x: y, y: x})
		s.addContraryString(y.String(), x.String())
	}
}

func (s *ArgumentationSystem) addContraryString(x, y string) {
	if s.contrarinessSeen[y] == nil {
		s.contrarinessSeen[y] = map[string]bool{}
	}
	if s.contrarinessSeen[y][x] {
		return
	}
	s.contrarinessSeen[y][x] = true
	s.Contrariness[y] = append(s.Contrariness[y], x)
}

// addToLanguage adds f to the language set if not already present
// (by canonical string), preserving first-seen order.
func (s *ArgumentationSystem) addToLanguage(f *Formula) {
	key := f.String()
	if s.languageSeen[key] {
		return
	}
	s.languageSeen[key] = true
	s.Language = append(s.Language, f)
}

// instantiation pairs a ground formula produced by instantiating a
// (possibly variable-containing) formula over the language, with the
// variable-to-value mapping that produced it.
type instantiation struct {
	formula *Formula
	mapping map[string]string
}

// InstantiateFormula returns every way f can be made ground by binding
// its variables to values drawn from the language: if f has no
// variables it instantiates to itself with an empty mapping; otherwise
// every w in the language with the same term and arity is tried,
// matching each parameter position either as an exact constant or by
// capturing the binding for an uppercase variable position.
//
// This mirrors pkg/minikanren's walk-and-bind unification discipline
// (see primitives.go's unify), specialised to ASPIC+'s flat positional
// representation: there is no recursive term structure to walk, only a
// parameter vector to check position by position.
func (s *ArgumentationSystem) InstantiateFormula(f *Formula) []instantiation {
	if !f.HasVariables() {
		return []instantiation{{formula: f, mapping: map[string]string{}}}
	}

	var out []instantiation
	for _, w := range s.Language {
		if w.Term != f.Term || len(w.Parameters) != len(f.Parameters) {
			continue
		}
		mapping := map[string]string{}
		matched := true
		for i := range f.Parameters {
			if f.Parameters[i] == w.Parameters[i] {
				continue
			}
			if isVariableToken(f.Parameters[i]) {
				mapping[f.Parameters[i]] = w.Parameters[i]
				continue
			}
			matched = false
			break
		}
		if !matched {
			continue
		}
		ground := &Formula{Term: w.Term, Parameters: append([]string(nil), w.Parameters...), expr: map[int]string{}}
		out = append(out, instantiation{formula: ground, mapping: mapping})
	}
	return out
}

// UpdateContrariness rebuilds the contrariness relation over the
// populated language (spec.md §4.3): every literal w gets ¬w as a
// default contrary (and vice versa), and every declared (x, y) pair is
// instantiated over the language, with each pair of instantiations
// added when their captured variable mappings are compatible.
func (s *ArgumentationSystem) UpdateContrariness() {
	rebuilt := map[string][]string{}
	seen := map[string]map[string]bool{}
	add := func(contrary, of string) {
		if seen[of] == nil {
			seen[of] = map[string]bool{}
		}
		if seen[of][contrary] {
			return
		}
		seen[of][contrary] = true
		rebuilt[of] = append(rebuilt[of], contrary)
	}

	for _, w := range s.Language {
		ws := w.String()
		if strings.HasPrefix(ws, "~") {
			add(strings.TrimPrefix(ws, "~"), ws)
		} else {
			add("~"+ws, ws)
		}
	}

	for _, dc := range s.declaredContraries {
		xInstantiations := s.InstantiateFormula(dc.x)
		yInstantiations := s.InstantiateFormula(dc.y)

		for _, yi := range yInstantiations {
			add("~"+yi.formula.String(), yi.formula.String())
			for _, xi := range xInstantiations {
				if mappingsCompatible(xi.mapping, yi.mapping) {
					add(xi.formula.String(), yi.formula.String())
				}
			}
		}
	}

	s.Contrariness = rebuilt
	s.contrarinessSeen = seen
}

// mappingsCompatible implements spec.md §4.3's compatibility test: an
// empty mapping on either side is always compatible (adopted
// unmodified, per spec.md §9's note on harmonise_parameters conflating
// "incompatible" with "one side empty" — the same rule governs
// contrariness instantiation in the source); otherwise every variable
// shared between the two mappings must bind to the same value, and no
// value may be reachable from two different variables across the two
// mappings.
func mappingsCompatible(a, b map[string]string) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	for k1, v1 := range a {
		for k2, v2 := range b {
			if v1 == v2 && k1 != k2 {
				return false
			}
			if k1 == k2 && v1 != v2 {
				return false
			}
		}
	}
	return true
}

// ContrariesOf returns the canonical strings registered as contraries
// of the formula whose canonical string is of.
func (s *ArgumentationSystem) ContrariesOf(of string) []string {
	return s.Contrariness[of]
}
