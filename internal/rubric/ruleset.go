package rubric

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PhraseRule is one windowed phrase check. Window is the number of
// characters inspected (from the start of the transcript, or the end for
// the farewell check).
type PhraseRule struct {
	Window  int      `yaml:"window"`
	Phrases []string `yaml:"phrases"`
}

// Ruleset is the full phrase configuration for one locale. Rulesets live in
// versioned YAML files so locale variants can be swapped without touching
// the scoring code.
type Ruleset struct {
	Locale         string     `yaml:"locale"`
	Greeting       PhraseRule `yaml:"greeting"`
	Identification PhraseRule `yaml:"identification"`
	HelpOffer      PhraseRule `yaml:"help_offer"`
	Farewell       PhraseRule `yaml:"farewell"`
	Forbidden      []string   `yaml:"forbidden"`
}

// LoadRuleset reads a ruleset from a YAML file.
func LoadRuleset(path string) (Ruleset, error) {
	var rs Ruleset
	data, err := os.ReadFile(path)
	if err != nil {
		return rs, fmt.Errorf("failed to read ruleset file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return rs, fmt.Errorf("failed to decode ruleset file: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return rs, err
	}
	return rs, nil
}

// Validate checks that every rule has a positive window and at least one
// phrase.
func (rs Ruleset) Validate() error {
	rules := map[string]PhraseRule{
		"greeting":       rs.Greeting,
		"identification": rs.Identification,
		"help_offer":     rs.HelpOffer,
		"farewell":       rs.Farewell,
	}
	for name, r := range rules {
		if r.Window <= 0 {
			return fmt.Errorf("ruleset %s: window must be positive", name)
		}
		if len(r.Phrases) == 0 {
			return fmt.Errorf("ruleset %s: phrase list is empty", name)
		}
	}
	if len(rs.Forbidden) == 0 {
		return fmt.Errorf("ruleset forbidden: phrase list is empty")
	}
	return nil
}

// DefaultRuleset returns the Colombian Spanish ruleset used by the
// production quality program.
func DefaultRuleset() Ruleset {
	return Ruleset{
		Locale: "es-CO",
		Greeting: PhraseRule{
			Window: 200,
			Phrases: []string{
				"buenos días",
				"buenas tardes",
				"buenas noches",
				"hola",
				"bienvenido",
				"gracias por comunicarte",
				"gracias por contactarnos",
			},
		},
		Identification: PhraseRule{
			Window: 300,
			Phrases: []string{
				"mi nombre es",
				"soy",
				"habla",
				"le atiende",
				"con quien tengo el gusto",
			},
		},
		HelpOffer: PhraseRule{
			Window: 400,
			Phrases: []string{
				"cómo puedo ayudarte",
				"en qué puedo ayudarte",
				"cómo te puedo ayudar",
				"en qué te puedo ayudar",
				"cuéntame",
				"dime",
				"cómo puedo apoyarte",
				"cómo te puedo asistir",
			},
		},
		Farewell: PhraseRule{
			Window: 200,
			Phrases: []string{
				"que tengas un buen día",
				"que tengas un excelente día",
				"fue un placer",
				"gracias por comunicarte",
				"hasta luego",
				"nos vemos",
				"cuídate",
				"estamos para servirte",
			},
		},
		Forbidden: []string{
			"no puedo",
			"no sé",
			"imposible",
			"no tengo idea",
			"eso no se puede",
			"no hay forma",
			"no me preguntes",
			"no es mi problema",
			"qué fastidio",
			"qué pereza",
		},
	}
}
