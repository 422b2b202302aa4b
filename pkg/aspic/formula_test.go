package aspic

import "testing"

func TestParseFormula(t *testing.T) {
	t.Run("bare term", func(t *testing.T) {
		f, err := ParseFormula("p")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Term != "p" || len(f.Parameters) != 0 {
			t.Errorf("got %+v", f)
		}
		if f.String() != "p" {
			t.Errorf("String() = %q", f.String())
		}
	})

	t.Run("term with constants", func(t *testing.T) {
		f, err := ParseFormula("current_goal(steps)")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Term != "current_goal" || f.Parameters[0] != "steps" {
			t.Errorf("got %+v", f)
		}
		if f.HasVariables() {
			t.Error("constant parameter should not register as a variable")
		}
	})

	t.Run("variable parameter", func(t *testing.T) {
		f, err := ParseFormula("user_age(X)")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !f.HasVariables() || f.Variables[0] != "X" {
			t.Errorf("expected variable X, got %+v", f.Variables)
		}
	})

	t.Run("bracketed expression parameter", func(t *testing.T) {
		f, err := ParseFormula("suggested([X*0.8])")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Variables[0] != "X" {
			t.Errorf("expected expression variable X, got %+v", f.Variables)
		}
		if f.String() != "suggested([X*0.8])" {
			t.Errorf("String() round-trip = %q", f.String())
		}
	})

	t.Run("undercutter literal", func(t *testing.T) {
		f, err := ParseFormula("~[d1]")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !f.IsUndercutterLiteral() {
			t.Fatal("expected undercutter literal")
		}
		target, ok := f.UndercutTargetLabel()
		if !ok || target != "[d1]" {
			t.Errorf("UndercutTargetLabel() = %q, %v", target, ok)
		}
	})

	t.Run("negation", func(t *testing.T) {
		f, err := ParseFormula("~set_goal(X)")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Term != "~set_goal" || f.Parameters[0] != "X" {
			t.Errorf("got %+v", f)
		}
	})

	t.Run("malformed text rejected", func(t *testing.T) {
		if _, err := ParseFormula("p(q"); err == nil {
			t.Fatal("expected parse error for unbalanced parens")
		}
	})
}

func TestFormulaResolveExpressions(t *testing.T) {
	f, err := ParseFormula("suggested([X*0.8])")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.ResolveExpressions(map[string]string{"X": "13000"})
	if f.Parameters[0] != "10400" {
		t.Errorf("resolved parameter = %q, want 10400", f.Parameters[0])
	}
}

func TestFormulaEvaluateComparison(t *testing.T) {
	f, err := ParseFormula("X>65")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.EvaluateComparison(map[string]string{"X": "70"}) {
		t.Error("expected 70 > 65 to hold")
	}
	if f.EvaluateComparison(map[string]string{"X": "30"}) {
		t.Error("expected 30 > 65 to fail")
	}
}

func TestFormulaEqualAndClone(t *testing.T) {
	a, _ := ParseFormula("set_goal(10000)")
	b, _ := ParseFormula("set_goal(10000)")
	if !a.Equal(b) {
		t.Error("structurally identical formulas should be Equal")
	}

	clone := a.Clone()
	clone.Parameters[0] = "99999"
	if a.Parameters[0] == clone.Parameters[0] {
		t.Error("Clone should be independently mutable")
	}
}
