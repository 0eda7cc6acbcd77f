package cmds

import (
	"time"

	"github.com/go-go-golems/anger-translator/pkg/events"
	"github.com/go-go-golems/anger-translator/pkg/paraphrase"
	"github.com/go-go-golems/anger-translator/pkg/rewrite"
	clay "github.com/go-go-golems/clay/pkg"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Settings is everything the commands read from flags, the config file and
// the environment.
type Settings struct {
	OpenAIAPIKey               string
	OpenAIBaseURL              string
	Model                      string
	Debounce                   time.Duration
	MaxLength                  int
	MaxTokens                  int
	AutoMaxTokens              bool
	PromptFile                 string
	LatestOnly                 bool
	SuppressDebounceOnTerminal bool
	Concurrency                int
	Redis                      events.Settings
}

// InitConfig reads the config file from the usual places ($HOME/.<app>,
// /etc/<app>, the XDG config dir) into the global viper, which the flags are
// bound to. A missing file is fine.
func InitConfig(appName string) error {
	v, err := clay.InitViperInstanceWithAppName(appName, "")
	if err != nil {
		return errors.Wrap(err, "could not read config file")
	}
	if p := v.ConfigFileUsed(); p != "" {
		viper.SetConfigFile(p)
	}
	return viper.MergeConfigMap(v.AllSettings())
}

// AddSettingsFlags registers the shared flags on the root command and binds
// them to viper.
func AddSettingsFlags(cmd *cobra.Command) error {
	redis := events.DefaultSettings()

	f := cmd.PersistentFlags()
	f.String("openai-api-key", "", "OpenAI API key (env OPENAI_API_KEY)")
	f.String("openai-base-url", "", "Override the OpenAI API base URL")
	f.String("model", "", "Model used for rewriting (default from the prompt file)")
	f.Duration("debounce", rewrite.DefaultDebounce, "Quiet period after the last keystroke before rewriting")
	f.Int("max-length", rewrite.DefaultMaxLength, "Maximum number of characters the user can type")
	f.Int("max-tokens", 0, "Completion token cap (0 sends no cap)")
	f.Bool("auto-max-tokens", false, "Derive the completion token cap from the sentence length when max-tokens is 0")
	f.String("prompt-file", "", "YAML file overriding the prompt template, fallback and loading phrases")
	f.Bool("latest-only", false, "Drop results of requests older than the last applied one")
	f.Bool("suppress-debounce-on-terminal", false, "Do not schedule a second rewrite when punctuation already triggered one")
	f.Int("concurrency", 4, "Parallel requests for the rewrite command")
	f.Bool("redis-enabled", redis.Enabled, "Mirror rewrite events to Redis Streams")
	f.String("redis-addr", redis.Addr, "Redis address host:port")
	f.String("redis-group", redis.Group, "Redis consumer group")
	f.String("redis-consumer", redis.Consumer, "Redis consumer name")

	if err := viper.BindPFlags(f); err != nil {
		return errors.Wrap(err, "could not bind flags")
	}
	if err := viper.BindEnv("openai-api-key", "OPENAI_API_KEY"); err != nil {
		return errors.Wrap(err, "could not bind OPENAI_API_KEY")
	}
	return viper.BindEnv("openai-base-url", "OPENAI_BASE_URL")
}

func LoadSettings() Settings {
	return Settings{
		OpenAIAPIKey:               viper.GetString("openai-api-key"),
		OpenAIBaseURL:              viper.GetString("openai-base-url"),
		Model:                      viper.GetString("model"),
		Debounce:                   viper.GetDuration("debounce"),
		MaxLength:                  viper.GetInt("max-length"),
		MaxTokens:                  viper.GetInt("max-tokens"),
		AutoMaxTokens:              viper.GetBool("auto-max-tokens"),
		PromptFile:                 viper.GetString("prompt-file"),
		LatestOnly:                 viper.GetBool("latest-only"),
		SuppressDebounceOnTerminal: viper.GetBool("suppress-debounce-on-terminal"),
		Concurrency:                viper.GetInt("concurrency"),
		Redis: events.Settings{
			Enabled:  viper.GetBool("redis-enabled"),
			Addr:     viper.GetString("redis-addr"),
			Group:    viper.GetString("redis-group"),
			Consumer: viper.GetString("redis-consumer"),
		},
	}
}

func (s Settings) ParaphraseSettings() paraphrase.Settings {
	return paraphrase.Settings{
		APIKey:     s.OpenAIAPIKey,
		BaseURL:    s.OpenAIBaseURL,
		Model:      s.Model,
		MaxTokens:  s.MaxTokens,
		AutoBudget: s.AutoMaxTokens,
	}
}

// NewParaphraser loads the prompt file and builds the OpenAI paraphraser.
func (s Settings) NewParaphraser() (*paraphrase.OpenAIParaphraser, *paraphrase.PromptConfig, error) {
	prompt, err := paraphrase.LoadPromptConfig(s.PromptFile)
	if err != nil {
		return nil, nil, err
	}
	p, err := paraphrase.NewOpenAIParaphraser(s.ParaphraseSettings(), prompt)
	if err != nil {
		return nil, nil, err
	}
	return p, prompt, nil
}
