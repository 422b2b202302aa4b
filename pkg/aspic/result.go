package aspic

import "github.com/tidwall/sjson"

// MarshalJSON renders an EvaluationResult the way
// argumentation_theory.py.evaluate assembles its return value: by
// setting individual paths on a growing JSON document rather than
// unmarshalling into one fixed struct, since the per-argument detail
// map and the extensions map are both keyed dynamically by
// argument/extension id.
func (r *EvaluationResult) MarshalJSON() ([]byte, error) {
	doc := "{}"
	var err error

	for label, detail := range r.Arguments {
		base := "arguments." + sjsonKey(label)
		if doc, err = sjson.Set(doc, base+".conclusion", detail.Conclusion); err != nil {
			return nil, err
		}
		if doc, err = sjson.Set(doc, base+".premises", detail.Premises); err != nil {
			return nil, err
		}
		if doc, err = sjson.Set(doc, base+".defeasible_rules", detail.DefeasibleRules); err != nil {
			return nil, err
		}
		if doc, err = sjson.Set(doc, base+".top_rule", detail.TopRule); err != nil {
			return nil, err
		}
		if doc, err = sjson.Set(doc, base+".sub_arguments", detail.SubArguments); err != nil {
			return nil, err
		}
		if doc, err = sjson.Set(doc, base+".last_sub_arguments", detail.LastSubArguments); err != nil {
			return nil, err
		}
	}

	attackPairs := make([]string, len(r.Attack))
	for i, p := range r.Attack {
		attackPairs[i] = "(" + p[0] + "," + p[1] + ")"
	}
	defeatPairs := make([]string, len(r.Defeat))
	for i, p := range r.Defeat {
		defeatPairs[i] = "(" + p[0] + "," + p[1] + ")"
	}
	if doc, err = sjson.Set(doc, "attack", attackPairs); err != nil {
		return nil, err
	}
	if doc, err = sjson.Set(doc, "defeat", defeatPairs); err != nil {
		return nil, err
	}
	if doc, err = sjson.Set(doc, "semantics", r.Semantics); err != nil {
		return nil, err
	}
	for id, labels := range r.Extensions {
		if doc, err = sjson.Set(doc, "extensions."+sjsonKey(id), labels); err != nil {
			return nil, err
		}
	}
	for id, conclusions := range r.AcceptableConclusions {
		if doc, err = sjson.Set(doc, "acceptable_conclusions."+sjsonKey(id), conclusions); err != nil {
			return nil, err
		}
	}

	return []byte(doc), nil
}

// sjsonKey escapes a map key for use as an sjson path segment: argument
// labels ("A12") and extension ids ("0") never contain the "." or "*"
// metacharacters sjson treats specially, so this is an identity
// function today, kept as a seam in case a future label scheme does.
func sjsonKey(key string) string {
	return key
}
