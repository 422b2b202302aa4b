package aspic

import "testing"

func mustParseFormula(t *testing.T, text string) *Formula {
	t.Helper()
	f, err := ParseFormula(text)
	if err != nil {
		t.Fatalf("ParseFormula(%q): %v", text, err)
	}
	return f
}

func mustParseRule(t *testing.T, label, text string) *Rule {
	t.Helper()
	r, err := ParseRule(label, text)
	if err != nil {
		t.Fatalf("ParseRule(%q, %q): %v", label, text, err)
	}
	return r
}

func findArgumentByConclusion(theory *ArgumentationTheory, conclusion string) *Argument {
	for _, a := range theory.Arguments {
		if a.Conclusion.String() == conclusion {
			return a
		}
	}
	return nil
}

// TestScenarioAFitnessGoal is spec.md §8's Scenario A: a fitness-goal
// theory where an originally-recommended step count gets revised for
// an under-18 user, a rejected value is scaled down by an arithmetic
// side-condition, and a strict rule attacks the rejected value
// outright.
func TestScenarioAFitnessGoal(t *testing.T) {
	system := NewArgumentationSystem(false)
	kb := NewKnowledgeBase()

	kb.AddPremise(mustParseFormula(t, "current_goal(steps)"))
	kb.AddPremise(mustParseFormula(t, "user_age(17)"))
	kb.AddPremise(mustParseFormula(t, "rejected_too_high(13000)"))

	for _, rd := range []struct{ label, text string }{
		{"[r1]", "current_goal(steps) => recommended(10000)"},
		{"[r2]", "recommended(X) => set_goal(X)"},
		{"[r3]", "current_goal(steps), user_age(X), X>65 => suggested(7500)"},
		{"[r4]", "current_goal(steps), user_age(X), X<18 => suggested(13000)"},
		{"[r5]", "suggested(X) => set_goal(X)"},
		{"[r6]", "rejected_too_high(X) -> ~set_goal(X)"},
		{"[r7]", "rejected_too_low(X) -> ~set_goal(X)"},
		{"[r8]", "rejected_too_high(X) => suggested([X*0.8])"},
		{"[r9]", "rejected_too_low(X) => suggested([X*1.2])"},
	} {
		system.AddRule(mustParseRule(t, rd.label, rd.text))
	}

	system.AddContrary(mustParseFormula(t, "set_goal(X)"), mustParseFormula(t, "set_goal(Y)"), true)
	system.AddRulePreference("[r2]", "[r5]")
	system.AddRulePreference("[r2]", "[r8]")
	system.AddRulePreference("[r2]", "[r9]")

	theory := NewArgumentationTheory(system, kb, WeakestLink)
	if !theory.CheckWellFormed() {
		t.Fatal("expected theory to be well-formed")
	}

	theory.ConstructArguments()

	for _, conclusion := range []string{"set_goal(10000)", "set_goal(13000)", "set_goal(10400)", "~set_goal(13000)"} {
		if findArgumentByConclusion(theory, conclusion) == nil {
			t.Errorf("expected an argument concluding %s", conclusion)
		}
	}

	theory.CalculateDefeat()

	attacker := findArgumentByConclusion(theory, "~set_goal(13000)")
	target := findArgumentByConclusion(theory, "set_goal(13000)")
	if attacker == nil || target == nil {
		t.Fatal("attacker or target argument missing")
	}

	found := false
	for _, d := range theory.Defeat {
		if d[0] == attacker.Label && d[1] == target.Label {
			found = true
		}
	}
	if !found {
		t.Error("the strict attacker must survive as a defeat against set_goal(13000)")
	}
}

// TestScenarioBWellFormednessRejection is spec.md §8's Scenario B.
func TestScenarioBWellFormednessRejection(t *testing.T) {
	system := NewArgumentationSystem(false)
	kb := NewKnowledgeBase()

	system.AddRule(mustParseRule(t, "[s]", "x -> b"))
	system.AddRule(mustParseRule(t, "[d]", "y => d"))
	system.AddContrary(mustParseFormula(t, "d"), mustParseFormula(t, "b"), false)

	theory := NewArgumentationTheory(system, kb, WeakestLink)
	if theory.CheckWellFormed() {
		t.Error("a defeasible rule's conclusion that is a contrary of a strict rule's conclusion must not be well-formed")
	}
}

// TestScenarioCUndercut is spec.md §8's Scenario C.
func TestScenarioCUndercut(t *testing.T) {
	system := NewArgumentationSystem(false)
	kb := NewKnowledgeBase()
	kb.AddPremise(mustParseFormula(t, "p"))
	kb.AddPremise(mustParseFormula(t, "r"))

	system.AddRule(mustParseRule(t, "[d1]", "p => q"))
	system.AddRule(mustParseRule(t, "[u]", "r -> ~[d1]"))

	theory := NewArgumentationTheory(system, kb, WeakestLink)
	if !theory.CheckWellFormed() {
		t.Fatal("expected theory to be well-formed")
	}
	theory.ConstructArguments()

	undercutter := findArgumentByConclusion(theory, "~[d1]")
	target := findArgumentByConclusion(theory, "q")
	if undercutter == nil || target == nil {
		t.Fatal("undercutter or target argument missing")
	}

	attacks := theory.simpleAttacks()
	found := false
	for _, a := range attacks {
		if a[0] == undercutter.Label && a[1] == target.Label {
			found = true
		}
	}
	if !found {
		t.Error("the undercutting argument must attack the argument built from [d1]")
	}
}

// TestScenarioDTransposition is spec.md §8's Scenario D.
func TestScenarioDTransposition(t *testing.T) {
	system := NewArgumentationSystem(true)
	system.AddRule(mustParseRule(t, "[s]", "a,b -> c"))

	labels := map[string]bool{}
	for _, r := range system.Rules {
		labels[r.Label] = true
	}
	if !labels["[s tp 1]"] || !labels["[s tp 2]"] {
		t.Errorf("expected both transposed rules, got labels %v", labels)
	}
}

// TestScenarioEArithmeticSideCondition is spec.md §8's Scenario E.
func TestScenarioEArithmeticSideCondition(t *testing.T) {
	run := func(age string) *ArgumentationTheory {
		system := NewArgumentationSystem(false)
		kb := NewKnowledgeBase()
		kb.AddPremise(mustParseFormula(t, "user_age("+age+")"))
		system.AddRule(mustParseRule(t, "[r]", "user_age(X), X>65 => discount(yes)"))

		theory := NewArgumentationTheory(system, kb, WeakestLink)
		theory.ConstructArguments()
		return theory
	}

	if findArgumentByConclusion(run("30"), "discount(yes)") != nil {
		t.Error("age 30 should not satisfy X>65")
	}
	if findArgumentByConclusion(run("70"), "discount(yes)") == nil {
		t.Error("age 70 should satisfy X>65")
	}
}

// TestScenarioFOrderingDivergence is spec.md §8's Scenario F: two
// arguments differing only in premise preferences, where weakest-link
// orders them by that premise preference but last-link does not
// (neither argument is strict-and-firm, so last-link compares only the
// top rules [r1] and [r2]; with no rule preferences declared,
// checkPreference holds in both directions, so last-link relates the
// two symmetrically instead of ranking one above the other).
func TestScenarioFOrderingDivergence(t *testing.T) {
	build := func(ordering Ordering) *ArgumentationTheory {
		system := NewArgumentationSystem(false)
		kb := NewKnowledgeBase()
		kb.AddPremise(mustParseFormula(t, "x"))
		kb.AddPremise(mustParseFormula(t, "y"))
		kb.AddPreference("y", "x")

		system.AddRule(mustParseRule(t, "[r1]", "x => c1"))
		system.AddRule(mustParseRule(t, "[r2]", "y => c2"))

		theory := NewArgumentationTheory(system, kb, ordering)
		theory.ConstructArguments()
		return theory
	}

	weakest := build(WeakestLink)
	weakest.CalculateArgumentPreferences()
	a1 := findArgumentByConclusion(weakest, "c1")
	a2 := findArgumentByConclusion(weakest, "c2")
	if a1 == nil || a2 == nil {
		t.Fatal("c1 or c2 argument missing")
	}

	weakestPrefers := false
	for _, p := range weakest.ArgumentPreferences {
		if p[0] == a2.Label && p[1] == a1.Label {
			weakestPrefers = true
		}
	}
	if !weakestPrefers {
		t.Error("weakest-link should prefer the argument whose premise is preferred")
	}

	last := build(LastLink)
	last.CalculateArgumentPreferences()
	b1 := findArgumentByConclusion(last, "c1")
	b2 := findArgumentByConclusion(last, "c2")

	lastForward, lastBackward := false, false
	for _, p := range last.ArgumentPreferences {
		if p[0] == b2.Label && p[1] == b1.Label {
			lastForward = true
		}
		if p[0] == b1.Label && p[1] == b2.Label {
			lastBackward = true
		}
	}
	if lastForward != lastBackward {
		t.Error("last-link has no rule-preference pair deciding these two, so it must relate them in both directions or neither, not one way as weakest-link does")
	}
}

func TestCalculateDefeatMutualPreferenceSurvives(t *testing.T) {
	// spec.md §9: weakest-link does not guard preference symmetry, so
	// mutual preference must leave both directions of an attack intact
	// as defeats rather than cancelling out.
	system := NewArgumentationSystem(false)
	kb := NewKnowledgeBase()
	kb.AddPremise(mustParseFormula(t, "x"))
	kb.AddPremise(mustParseFormula(t, "y"))
	kb.AddPreference("x", "y")
	kb.AddPreference("y", "x")

	system.AddRule(mustParseRule(t, "[r1]", "x => p"))
	system.AddRule(mustParseRule(t, "[r2]", "y => ~p"))

	theory := NewArgumentationTheory(system, kb, WeakestLink)
	theory.ConstructArguments()
	theory.CalculateDefeat()

	a1 := findArgumentByConclusion(theory, "p")
	a2 := findArgumentByConclusion(theory, "~p")
	if a1 == nil || a2 == nil {
		t.Fatal("p or ~p argument missing")
	}

	forward, backward := false, false
	for _, d := range theory.Defeat {
		if d[0] == a1.Label && d[1] == a2.Label {
			forward = true
		}
		if d[0] == a2.Label && d[1] == a1.Label {
			backward = true
		}
	}
	if !forward || !backward {
		t.Error("mutual preference should leave both rebut directions as defeats")
	}
}
