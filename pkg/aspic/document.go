package aspic

import (
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ruleDoc, kbDoc, contraryDoc and extensionServiceDoc are the
// unmarshalling shapes for one theory document, per SPEC_FULL.md's
// YAML format: original_source/pyaspic's own __main__ block builds a
// theory by calling Rule.from_string and Formula(...) directly in
// code, with no file format of its own — this document format is the
// concrete host this module needs for its CLI, handing
// each rule/formula's text straight to ParseRule/ParseFormula.
type ruleDoc struct {
	Label string `koanf:"label"`
	Text  string `koanf:"text"`
}

type kbDoc struct {
	Premises    []string   `koanf:"premises"`
	Axioms      []string   `koanf:"axioms"`
	Assumptions []string   `koanf:"assumptions"`
	Preferences [][2]string `koanf:"preferences"`
}

type contraryDoc struct {
	Less          string `koanf:"less"`
	More          string `koanf:"more"`
	Contradiction bool   `koanf:"contradiction"`
}

type extensionServiceDoc struct {
	URL     string `koanf:"url"`
	Timeout string `koanf:"timeout"`
}

// TheoryDocument is the parsed, still-textual form of a theory: its
// fields mirror SPEC_FULL.md's YAML schema one-to-one before any
// Formula/Rule parsing happens.
type TheoryDocument struct {
	Transposition    bool                `koanf:"transposition"`
	Ordering         string              `koanf:"ordering"`
	Rules            []ruleDoc           `koanf:"rules"`
	KnowledgeBase    kbDoc               `koanf:"knowledge_base"`
	Contraries       []contraryDoc       `koanf:"contraries"`
	RulePreferences  [][2]string         `koanf:"rule_preferences"`
	ExtensionService extensionServiceDoc `koanf:"extension_service"`
}

// LoadDocument reads and unmarshals a theory document from a YAML
// file at path.
func LoadDocument(path string) (*TheoryDocument, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, newParseError("document", path, err.Error())
	}

	var doc TheoryDocument
	if err := k.Unmarshal("", &doc); err != nil {
		return nil, newParseError("document", path, err.Error())
	}
	return &doc, nil
}

// ExtensionServiceConfig is the (url, timeout) pair a theory document
// may override relative to the engine's configured defaults.
type ExtensionServiceConfig struct {
	URL     string
	Timeout time.Duration
}

// BuildTheory parses doc's textual rules, formulas, and preference
// pairs into a ready-to-evaluate ArgumentationTheory, plus whatever
// extension-service override the document specifies (zero value if
// none).
func BuildTheory(doc *TheoryDocument) (*ArgumentationTheory, ExtensionServiceConfig, error) {
	ordering := WeakestLink
	if doc.Ordering == "last" {
		ordering = LastLink
	}

	system := NewArgumentationSystem(doc.Transposition)
	kb := NewKnowledgeBase()

	for _, text := range doc.KnowledgeBase.Premises {
		f, err := ParseFormula(text)
		if err != nil {
			return nil, ExtensionServiceConfig{}, err
		}
		kb.AddPremise(f)
	}
	for _, text := range doc.KnowledgeBase.Axioms {
		f, err := ParseFormula(text)
		if err != nil {
			return nil, ExtensionServiceConfig{}, err
		}
		kb.AddAxiom(f)
	}
	for _, text := range doc.KnowledgeBase.Assumptions {
		f, err := ParseFormula(text)
		if err != nil {
			return nil, ExtensionServiceConfig{}, err
		}
		kb.AddAssumption(f)
	}
	for _, pref := range doc.KnowledgeBase.Preferences {
		kb.AddPreference(pref[0], pref[1])
	}

	for _, rd := range doc.Rules {
		r, err := ParseRule(rd.Label, rd.Text)
		if err != nil {
			return nil, ExtensionServiceConfig{}, err
		}
		system.AddRule(r)
	}

	for _, cd := range doc.Contraries {
		x, err := ParseFormula(cd.Less)
		if err != nil {
			return nil, ExtensionServiceConfig{}, err
		}
		y, err := ParseFormula(cd.More)
		if err != nil {
			return nil, ExtensionServiceConfig{}, err
		}
		system.AddContrary(x, y, cd.Contradiction)
	}

	for _, rp := range doc.RulePreferences {
		system.AddRulePreference(rp[0], rp[1])
	}

	var extCfg ExtensionServiceConfig
	extCfg.URL = doc.ExtensionService.URL
	if doc.ExtensionService.Timeout != "" {
		if d, err := time.ParseDuration(doc.ExtensionService.Timeout); err == nil {
			extCfg.Timeout = d
		}
	}

	return NewArgumentationTheory(system, kb, ordering), extCfg, nil
}
