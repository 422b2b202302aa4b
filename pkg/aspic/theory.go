package aspic

import (
	"context"
	"fmt"
	"sort"

	"github.com/arg-tech/goaspic/pkg/aspic/extclient"
)

// ArgumentationTheory ties a knowledge base to an argumentation system
// under a chosen preference ordering, and derives arguments, attacks,
// and defeats from them (spec.md §3-§4).
type ArgumentationTheory struct {
	System   *ArgumentationSystem
	KB       *KnowledgeBase
	Ordering Ordering

	Arguments []*Argument

	ArgumentPreferences [][2]string
	Attack               [][2]string
	Defeat               [][2]string

	argCount int
	seen     map[string]*Argument
}

// NewArgumentationTheory returns a theory over kb and system, ready for
// CheckWellFormed and Evaluate.
func NewArgumentationTheory(system *ArgumentationSystem, kb *KnowledgeBase, ordering Ordering) *ArgumentationTheory {
	return &ArgumentationTheory{
		System:   system,
		KB:       kb,
		Ordering: ordering,
		seen:     map[string]*Argument{},
	}
}

// CheckWellFormed implements spec.md §4.4.1's two Prakken 2010
// well-formedness principles over the system's currently-declared
// contrariness relation (the directly-declared pairs, not the
// post-construction instantiated one — the same state the source
// checks against):
//
//  1. no defeasible rule's consequent is a contrary of a strict rule's
//     consequent;
//  2. no assumption is contrary to the consequent of any strict or
//     defeasible rule, nor to any axiom or premise.
func (t *ArgumentationTheory) CheckWellFormed() bool {
	for _, r1 := range t.System.Rules {
		if r1.Kind != Strict {
			continue
		}
		contraries := t.System.ContrariesOf(r1.Consequent.String())
		for _, r2 := range t.System.Rules {
			if r2.Kind != Defeasible {
				continue
			}
			if containsString(contraries, r2.Consequent.String()) {
				return false
			}
		}
	}

	var nonAssumptionStrings []string
	for _, r := range t.System.Rules {
		nonAssumptionStrings = append(nonAssumptionStrings, r.Consequent.String())
	}
	for _, e := range t.KB.Axioms {
		nonAssumptionStrings = append(nonAssumptionStrings, e.String())
	}
	for _, e := range t.KB.Premises {
		nonAssumptionStrings = append(nonAssumptionStrings, e.String())
	}

	for _, a := range t.KB.Assumptions {
		as := a.String()
		for _, el := range nonAssumptionStrings {
			if containsString(t.System.ContrariesOf(el), as) {
				return false
			}
		}
	}

	return true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// candidate is one matched binding of an already-constructed argument
// against a single (non-comparison) antecedent formula: the argument
// itself, plus the variable captures that match produced.
type candidate struct {
	arg     *Argument
	mapping map[string]string
}

// ConstructArguments runs the fixed-point construction of spec.md
// §4.4.2: seed one atomic argument per knowledge-base element, then
// repeatedly fire every rule against the arguments built so far until a
// full pass over the rule base adds nothing new. Newly built arguments
// within a pass are immediately visible to later rules in that same
// pass, so a single pass can chain several rule firings — matching the
// source's shared mutable argument list rather than a stricter
// level-by-level construction.
func (t *ArgumentationTheory) ConstructArguments() {
	t.Arguments = nil
	t.argCount = 0
	t.seen = map[string]*Argument{}

	for _, e := range t.KB.AllElements() {
		arg := NewAtomicArgument(t.nextLabel(), e)
		t.tryAdd(arg)
	}

	for {
		before := len(t.Arguments)
		for _, r := range t.System.Rules {
			t.fireRule(r)
		}
		if len(t.Arguments) == before {
			break
		}
	}

	t.System.UpdateContrariness()
}

func (t *ArgumentationTheory) nextLabel() string {
	t.argCount++
	return fmt.Sprintf("A%d", t.argCount)
}

// tryAdd registers arg if no already-constructed argument has the same
// structural key (spec.md §9's dedup-by-structure rule), adding its
// conclusion to the language unless it's an undercutter literal.
func (t *ArgumentationTheory) tryAdd(arg *Argument) bool {
	key := arg.structuralKey()
	if _, exists := t.seen[key]; exists {
		t.argCount--
		return false
	}
	t.seen[key] = arg
	t.Arguments = append(t.Arguments, arg)
	if !arg.Conclusion.IsUndercutterLiteral() {
		t.System.addToLanguage(arg.Conclusion)
	}
	trace("argument constructed", "label", arg.Label, "conclusion", arg.Conclusion.String())
	return true
}

// fireRule tries every way r's antecedents can be matched against the
// arguments built so far, per spec.md §4.4.2, appending any new
// argument it derives directly to t.Arguments.
func (t *ArgumentationTheory) fireRule(r *Rule) {
	if r.IsUndercutter {
		label, _ := r.Consequent.UndercutTargetLabel()
		if !t.anyArgumentUsesRule(label) {
			return
		}
	}

	var matching, comparisons []*Formula
	for _, ant := range r.Antecedents {
		if ant.IsComparison {
			comparisons = append(comparisons, ant)
		} else {
			matching = append(matching, ant)
		}
	}

	candidateSets := make([][]candidate, len(matching))
	for i, ant := range matching {
		for _, a := range t.Arguments {
			if a.Conclusion.Term != ant.Term || len(a.Conclusion.Parameters) != len(ant.Parameters) {
				continue
			}
			mapping := map[string]string{}
			matched := true
			for idx := range ant.Parameters {
				if ant.Parameters[idx] == a.Conclusion.Parameters[idx] {
					continue
				}
				if isVariableToken(ant.Parameters[idx]) {
					mapping[ant.Parameters[idx]] = a.Conclusion.Parameters[idx]
					continue
				}
				matched = false
				break
			}
			if !matched {
				continue
			}
			candidateSets[i] = append(candidateSets[i], candidate{arg: a, mapping: mapping})
		}
		if len(candidateSets[i]) == 0 {
			return
		}
	}

	for _, tuple := range cartesianProduct(candidateSets) {
		reused := false
		for _, c := range tuple {
			if argHasRuleLabel(c.arg, r.Label) {
				reused = true
				break
			}
		}
		if reused {
			continue
		}

		harmonised, ok := harmoniseParameters(tuple)
		if !ok {
			continue
		}

		proceed := true
		for _, cmp := range comparisons {
			if !cmp.EvaluateComparison(harmonised) {
				proceed = false
				break
			}
		}
		if !proceed {
			continue
		}

		newRule := resolveConsequent(r, harmonised)

		lastSubArguments := make([]*Argument, len(tuple))
		for i, c := range tuple {
			lastSubArguments[i] = c.arg
		}

		arg := NewRuleArgument(t.nextLabel(), newRule, lastSubArguments)
		t.tryAdd(arg)
	}
}

func (t *ArgumentationTheory) anyArgumentUsesRule(label string) bool {
	for _, a := range t.Arguments {
		if argHasRuleLabel(a, label) {
			return true
		}
	}
	return false
}

func argHasRuleLabel(a *Argument, label string) bool {
	for _, r := range a.Rules {
		if r.Label == label {
			return true
		}
	}
	return false
}

// cartesianProduct returns every combination that picks exactly one
// element from each of sets, in sets[0]-major order. A zero-length
// sets yields one empty combination (for rules whose antecedents are
// all comparisons, or that have none at all).
func cartesianProduct(sets [][]candidate) [][]candidate {
	combos := [][]candidate{{}}
	for _, set := range sets {
		var next [][]candidate
		for _, combo := range combos {
			for _, c := range set {
				extended := make([]candidate, len(combo), len(combo)+1)
				copy(extended, combo)
				extended = append(extended, c)
				next = append(next, extended)
			}
		}
		combos = next
	}
	return combos
}

// harmoniseParameters merges the variable captures of every element of
// tuple into a single mapping, per spec.md §4.3/§9: a singleton tuple
// (or an empty one) adopts its sole mapping unmodified, even if empty.
// For a larger tuple, two elements disagreeing on the same variable
// name fails the merge; an element simply missing a variable the others
// bound is not a conflict — deliberately preserving the source's
// "one side empty is compatible" quirk rather than requiring every
// element to agree on every variable.
func harmoniseParameters(tuple []candidate) (map[string]string, bool) {
	if len(tuple) == 0 {
		return map[string]string{}, true
	}
	if len(tuple) == 1 {
		return tuple[0].mapping, true
	}

	harmonised := map[string]string{}
	for i := range tuple {
		for param, value := range tuple[i].mapping {
			for j := range tuple {
				if i == j {
					continue
				}
				if other, exists := tuple[j].mapping[param]; exists {
					if other != value {
						return nil, false
					}
				}
				harmonised[param] = value
			}
		}
	}
	return harmonised, true
}

// resolveConsequent returns r unchanged if its consequent has no
// variables, or a clone with every variable parameter substituted from
// mapping and every bracketed expression parameter evaluated, per
// spec.md §4.4.2's consequent-resolution step.
func resolveConsequent(r *Rule, mapping map[string]string) *Rule {
	if !r.Consequent.HasVariables() {
		return r
	}
	clone := r.Clone()
	for i, p := range clone.Consequent.Parameters {
		if isVariableToken(p) {
			if v, ok := mapping[p]; ok {
				clone.Consequent.Parameters[i] = v
			}
		}
	}
	clone.Consequent.ResolveExpressions(mapping)
	return clone
}

// CalculateArgumentPreferences derives the A1 ≻ A2 relation over
// t.Arguments under t.Ordering, per spec.md §4.4.3.
func (t *ArgumentationTheory) CalculateArgumentPreferences() [][2]string {
	elemPrefs := elementPreferencePairs(t.KB.Preferences)
	rulePrefs := rulePreferencePairs(t.System.RulePreferences)

	var prefs [][2]string
	for _, a1 := range t.Arguments {
		for _, a2 := range t.Arguments {
			if a1.Label == a2.Label {
				continue
			}

			var holds bool
			switch t.Ordering {
			case LastLink:
				switch {
				case a1.IsStrict() && a1.IsFirm() && (a2.IsDefeasible() || a2.IsPlausible()):
					holds = true
				case len(a1.LastDefRules()) == 0 && len(a2.LastDefRules()) == 0:
					holds = checkPreference(elementStrings(a1.Premises), elementStrings(a2.Premises), elemPrefs)
				default:
					holds = checkPreference(a1.LastDefRules(), a2.LastDefRules(), rulePrefs)
				}
			default: // WeakestLink
				if checkPreference(elementStrings(a1.Premises), elementStrings(a2.Premises), elemPrefs) {
					if len(a2.DefeasibleRules) > 0 {
						holds = checkPreference(a1.DefeasibleRuleLabels(), a2.DefeasibleRuleLabels(), rulePrefs)
					} else {
						holds = true
					}
				}
			}

			if holds {
				prefs = append(prefs, [2]string{a1.Label, a2.Label})
			}
		}
	}

	t.ArgumentPreferences = prefs
	return prefs
}

// simpleAttacks computes the direct rebut and undercut edges of
// spec.md §4.4.4, before the closure that propagates them into
// enclosing sub-arguments.
//
// Per spec.md's literal wording, rebut is gated on the target's top
// rule not being strict; undercut carries no such gate, independent of
// whether the undercutting argument's own top rule happens to be
// strict. (The source shares a single guard clause between both
// branches, which would silently drop every undercut produced by a
// strict undercutting rule — contradicting the worked undercut example
// in spec.md's own test scenarios, so the gate is not replicated for
// the undercut branch here.)
func (t *ArgumentationTheory) simpleAttacks() [][2]string {
	seen := map[[2]string]bool{}
	var attacks [][2]string
	add := func(from, to string) {
		k := [2]string{from, to}
		if seen[k] {
			return
		}
		seen[k] = true
		attacks = append(attacks, k)
	}

	for _, a1 := range t.Arguments {
		if a1.TopRule == nil || a1.TopRule.Kind != Strict {
			for _, contraryStr := range t.System.ContrariesOf(a1.Conclusion.String()) {
				for _, a2 := range t.Arguments {
					if a2.Conclusion.String() == contraryStr {
						add(a2.Label, a1.Label)
					}
				}
			}
		}

		if target, ok := a1.Conclusion.UndercutTargetLabel(); ok {
			for _, a2 := range t.Arguments {
				if a2.TopRule != nil && a2.TopRule.Kind == Defeasible && a2.TopRule.Label == target {
					add(a1.Label, a2.Label)
				}
			}
		}
	}

	sortPairs(attacks)
	return attacks
}

// closeAttacks propagates every (x, y) edge in base to (x, z) for every
// argument z that has y as a sub-argument, repeating until a full pass
// adds nothing — the attack-closure rule of spec.md §4.4.4.
func (t *ArgumentationTheory) closeAttacks(base [][2]string) [][2]string {
	attacks := append([][2]string(nil), base...)
	seen := map[[2]string]bool{}
	for _, p := range attacks {
		seen[p] = true
	}

	for {
		added := false
		for _, p := range append([][2]string(nil), attacks...) {
			for _, z := range t.Arguments {
				if !containsSubArgumentLabel(z, p[1]) {
					continue
				}
				k := [2]string{p[0], z.Label}
				if seen[k] {
					continue
				}
				seen[k] = true
				attacks = append(attacks, k)
				added = true
			}
		}
		if !added {
			break
		}
	}

	sortPairs(attacks)
	return attacks
}

func containsSubArgumentLabel(a *Argument, label string) bool {
	for _, s := range a.SubArguments {
		if s.Label == label {
			return true
		}
	}
	return false
}

// CalculateDefeat filters the simple attacks down to defeats per
// spec.md §4.4.5 (an edge (A1,A2) survives as a defeat iff (A2,A1) is
// among the argument preferences, whether or not (A1,A2) is too; every
// other edge is dropped), then closes the result the same way simpleAttacks is
// closed. Argument preferences are recomputed here even though
// ConstructArguments's caller may already have them — the source
// redoes this work unconditionally too, and it is idempotent.
func (t *ArgumentationTheory) CalculateDefeat() [][2]string {
	simple := t.simpleAttacks()
	t.Attack = t.closeAttacks(simple)

	prefs := t.CalculateArgumentPreferences()
	beats := map[[2]string]bool{}
	for _, p := range prefs {
		beats[p] = true
	}

	var defeat [][2]string
	for _, atk := range simple {
		if beats[[2]string{atk[1], atk[0]}] {
			defeat = append(defeat, atk)
		}
	}

	t.Defeat = t.closeAttacks(defeat)
	trace("defeat computed", "attacks", len(t.Attack), "defeats", len(t.Defeat))
	return t.Defeat
}

func sortPairs(pairs [][2]string) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
}

// ArgumentDetail is the shape of one entry in EvaluationResult.Arguments,
// giving callers the rendered facts about an argument without forcing
// them to walk *Argument directly.
type ArgumentDetail struct {
	Label            string
	Conclusion       string
	Premises         []string
	DefeasibleRules  []string
	TopRule          string
	SubArguments     []string
	LastSubArguments []string
}

// EvaluationResult is the output of (*ArgumentationTheory).Evaluate:
// the constructed arguments, the attack and defeat relations between
// them, the semantics actually used to enumerate extensions (which may
// differ from what was requested, per spec.md §7's fallback), the
// extensions themselves, and the conclusions acceptable under each.
type EvaluationResult struct {
	Arguments             map[string]ArgumentDetail
	Attack                [][2]string
	Defeat                [][2]string
	Semantics             string
	Extensions            map[string][]string
	AcceptableConclusions map[string][]string
}

// Evaluate runs the full pipeline of spec.md §4: well-formedness check,
// argument construction, preference and defeat derivation, and handing
// the resulting argument/defeat graph to client for extension
// enumeration under semantics. If query is non-nil, the returned
// AcceptableConclusions is filtered down to extensions containing some
// argument whose conclusion equals query — Arguments and Extensions are
// left untouched, per spec.md's recovered query-parameter behaviour.
func (t *ArgumentationTheory) Evaluate(ctx context.Context, client extclient.Client, url, semantics string, query *Formula) (*EvaluationResult, error) {
	if !t.CheckWellFormed() {
		return nil, newNotWellFormedError("theory violates a Prakken 2010 well-formedness principle")
	}

	t.ConstructArguments()
	t.CalculateDefeat()

	argLabels := make([]string, len(t.Arguments))
	for i, a := range t.Arguments {
		argLabels[i] = a.Label
	}

	attackStrings := make([]string, len(t.Defeat))
	for i, p := range t.Defeat {
		attackStrings[i] = fmt.Sprintf("(%s,%s)", p[0], p[1])
	}

	solved, err := client.Solve(ctx, extclient.Request{
		Arguments: argLabels,
		Attacks:   attackStrings,
		Semantics: semantics,
	})
	if err != nil {
		return nil, newExtensionServiceError(err, url)
	}

	details := make(map[string]ArgumentDetail, len(t.Arguments))
	for _, a := range t.Arguments {
		d := ArgumentDetail{
			Label:           a.Label,
			Conclusion:      a.Conclusion.String(),
			Premises:        elementStrings(a.Premises),
			DefeasibleRules: a.DefeasibleRuleLabels(),
		}
		if a.TopRule != nil {
			d.TopRule = a.TopRule.String()
		}
		for _, s := range a.SubArguments {
			d.SubArguments = append(d.SubArguments, s.Label)
		}
		for _, s := range a.LastSubArguments {
			d.LastSubArguments = append(d.LastSubArguments, s.Label)
		}
		details[a.Label] = d
	}

	acceptable := map[string][]string{}
	for id, labels := range solved.Extensions {
		var conclusions []string
		for _, l := range labels {
			if d, ok := details[l]; ok {
				conclusions = append(conclusions, d.Conclusion)
			}
		}
		acceptable[id] = conclusions
	}

	if query != nil {
		qs := query.String()
		for id, conclusions := range acceptable {
			if !containsString(conclusions, qs) {
				delete(acceptable, id)
			}
		}
	}

	return &EvaluationResult{
		Arguments:             details,
		Attack:                t.Attack,
		Defeat:                t.Defeat,
		Semantics:             solved.Semantics,
		Extensions:            solved.Extensions,
		AcceptableConclusions: acceptable,
	}, nil
}
