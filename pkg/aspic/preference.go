package aspic

// Ordering selects how argument preference is derived from element and
// rule preferences (spec.md §4.4.3).
type Ordering int

const (
	WeakestLink Ordering = iota
	LastLink
)

// pair is the uniform shape checkPreference operates over: both KnowledgeBase.Preferences (element-level) and
// ArgumentationSystem.RulePreferences (rule-level) reduce to pairs of
// strings once their fields are read, so checkPreference operates on
// plain [2]string pairs built by the caller.
type pair = [2]string

// checkPreference is the existential ("elitist") preference check of
// spec.md §4.4.3: false if set1 is empty, true if set2 is empty or
// there are no preference pairs at all, and otherwise true iff some
// (x, y) in prefs has x in set1 and y in set2. Per spec.md §9, this is
// deliberately the existential variant and must not be "fixed" to a
// universal one.
func checkPreference(set1, set2 []string, prefs []pair) bool {
	if len(set1) == 0 {
		return false
	}
	if len(set2) == 0 {
		return true
	}
	if len(prefs) == 0 {
		return true
	}

	for _, x := range set1 {
		for _, y := range set2 {
			for _, p := range prefs {
				if p[0] == x && p[1] == y {
					return true
				}
			}
		}
	}
	return false
}

func elementPreferencePairs(prefs []Preference) []pair {
	out := make([]pair, len(prefs))
	for i, p := range prefs {
		out[i] = pair{p.Less, p.More}
	}
	return out
}

func rulePreferencePairs(prefs []RulePreference) []pair {
	out := make([]pair, len(prefs))
	for i, p := range prefs {
		out[i] = pair{p.Less, p.More}
	}
	return out
}

func elementStrings(elems []*Element) []string {
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.String()
	}
	return out
}
