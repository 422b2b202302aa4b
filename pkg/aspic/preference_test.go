package aspic

import "testing"

func TestCheckPreferenceEmptySet1IsFalse(t *testing.T) {
	if checkPreference(nil, []string{"a"}, []pair{{"a", "b"}}) {
		t.Error("an empty attacker set should never be preferred")
	}
}

func TestCheckPreferenceEmptySet2IsTrue(t *testing.T) {
	if !checkPreference([]string{"a"}, nil, []pair{{"a", "b"}}) {
		t.Error("an empty target set is vacuously preferred over")
	}
}

func TestCheckPreferenceNoPreferencesIsTrue(t *testing.T) {
	if !checkPreference([]string{"a"}, []string{"b"}, nil) {
		t.Error("with no preference pairs declared, any non-empty sets should be considered preferred")
	}
}

func TestCheckPreferenceExistential(t *testing.T) {
	prefs := []pair{{"a", "x"}}
	if !checkPreference([]string{"a", "z"}, []string{"x", "y"}, prefs) {
		t.Error("existential semantics: one witnessing pair should suffice")
	}
	if checkPreference([]string{"z"}, []string{"y"}, prefs) {
		t.Error("no witnessing pair should mean no preference")
	}
}

func TestCheckPreferenceMutualNotDeduped(t *testing.T) {
	// spec.md §9: mutual preference (both directions present) is a
	// legitimate input this function must not special-case.
	prefs := []pair{{"a", "b"}, {"b", "a"}}
	if !checkPreference([]string{"a"}, []string{"b"}, prefs) {
		t.Error("expected a > b to hold")
	}
	if !checkPreference([]string{"b"}, []string{"a"}, prefs) {
		t.Error("expected b > a to also hold, since mutual preference is not deduplicated")
	}
}
