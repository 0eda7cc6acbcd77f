package paraphrase

import (
	_ "embed"
	"os"
	"strings"

	"github.com/go-go-golems/glazed/pkg/helpers/templating"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed prompt.yaml
var defaultPromptYAML []byte

// PromptConfig holds the instruction sent to the model and the phrases the
// UI shows while a rewrite is in flight.
type PromptConfig struct {
	Model    string   `yaml:"model"`
	Template string   `yaml:"template"`
	Fallback string   `yaml:"fallback"`
	Phrases  []string `yaml:"phrases"`
}

// DefaultPromptConfig returns the built-in prompt configuration.
func DefaultPromptConfig() *PromptConfig {
	ret := &PromptConfig{}
	if err := yaml.Unmarshal(defaultPromptYAML, ret); err != nil {
		panic(errors.Wrap(err, "embedded prompt.yaml is invalid"))
	}
	return ret
}

// LoadPromptConfig reads a YAML prompt file. Fields that are missing from the
// file keep their default values. An empty path returns the defaults.
func LoadPromptConfig(path string) (*PromptConfig, error) {
	ret := DefaultPromptConfig()
	if path == "" {
		return ret, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read prompt file %s", path)
	}
	override := &PromptConfig{}
	if err := yaml.Unmarshal(b, override); err != nil {
		return nil, errors.Wrapf(err, "could not parse prompt file %s", path)
	}

	if override.Model != "" {
		ret.Model = override.Model
	}
	if strings.TrimSpace(override.Template) != "" {
		ret.Template = override.Template
	}
	if override.Fallback != "" {
		ret.Fallback = override.Fallback
	}
	if len(override.Phrases) > 0 {
		ret.Phrases = override.Phrases
	}

	if _, err := ret.Render("test"); err != nil {
		return nil, err
	}

	return ret, nil
}

// Render executes the prompt template for sentence.
func (c *PromptConfig) Render(sentence string) (string, error) {
	tmpl, err := templating.CreateTemplate("paraphrase").Parse(c.Template)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse prompt template")
	}

	var buf strings.Builder
	err = tmpl.Execute(&buf, map[string]interface{}{
		"Sentence": sentence,
		"Fallback": c.Fallback,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to execute prompt template")
	}

	return buf.String(), nil
}
