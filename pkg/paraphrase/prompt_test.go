package paraphrase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultPromptConfig(t *testing.T) {
	c := DefaultPromptConfig()
	require.Equal(t, "gpt-4o-mini", c.Model)
	require.Equal(t, "My feelings are not expressible in words.", c.Fallback)
	require.Len(t, c.Phrases, 6)
	require.Contains(t, c.Phrases, "pop off then.")
}

func TestRenderEmbedsSentenceAndFallback(t *testing.T) {
	out, err := DefaultPromptConfig().Render("i am mad")
	require.NoError(t, err)
	require.Contains(t, out, `formal, mature way: "i am mad".`)
	require.Contains(t, out, "output: My feelings are not expressible in words.")
}

func TestLoadPromptConfigOverridesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.yaml")
	err := os.WriteFile(path, []byte("fallback: No comment.\nphrases: [hmm.]\n"), 0o644)
	require.NoError(t, err)

	c, err := LoadPromptConfig(path)
	require.NoError(t, err)
	require.Equal(t, "No comment.", c.Fallback)
	require.Equal(t, []string{"hmm."}, c.Phrases)
	require.Equal(t, "gpt-4o-mini", c.Model)

	out, err := c.Render("ugh")
	require.NoError(t, err)
	require.Contains(t, out, "output: No comment.")
}

func TestLoadPromptConfigRejectsBrokenTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.yaml")
	err := os.WriteFile(path, []byte("template: \"{{ .Sentence \"\n"), 0o644)
	require.NoError(t, err)

	_, err = LoadPromptConfig(path)
	require.Error(t, err)
}

func TestLoadPromptConfigEmptyPath(t *testing.T) {
	c, err := LoadPromptConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultPromptConfig(), c)
}
