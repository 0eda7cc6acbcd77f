package cmds

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/go-go-golems/anger-translator/pkg/config"
	"github.com/go-go-golems/anger-translator/pkg/events"
	"github.com/go-go-golems/anger-translator/pkg/paraphrase"
	"github.com/go-go-golems/anger-translator/pkg/rewrite"
	"github.com/go-go-golems/anger-translator/pkg/ui"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func NewTUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive translator",
		Args:  cobra.NoArgs,
		RunE:  RunTUI,
	}
	AddTUIFlags(cmd)
	return cmd
}

// AddTUIFlags is shared with the root command, which runs the TUI when
// called without a subcommand.
func AddTUIFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("print", false, "Print the final text to stdout on exit")
	cmd.Flags().Bool("verbose", false, "Log watermill internals")
}

func RunTUI(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) || !isatty.IsTerminal(os.Stdin.Fd()) {
		return errors.New("the translator needs a terminal, use the rewrite command for pipes")
	}
	printResult, _ := cmd.Flags().GetBool("print")
	verbose, _ := cmd.Flags().GetBool("verbose")
	logFile, _ := cmd.Flags().GetString("log-file")

	closeLog, err := redirectLogs(logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	s := LoadSettings()
	if s.OpenAIAPIKey == "" {
		key, err := promptAPIKey()
		if err != nil {
			return err
		}
		s.OpenAIAPIKey = key
	}

	p, prompt, err := s.NewParaphraser()
	if err != nil {
		return err
	}

	value, err := runTUI(cmd.Context(), s, p, prompt.Phrases, verbose)
	if err != nil {
		return err
	}
	if printResult {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}
	return nil
}

// runTUI runs the program and the event router side by side until the user
// quits or ctx is cancelled, and returns the final buffer.
func runTUI(
	ctx context.Context,
	s Settings,
	p paraphrase.Paraphraser,
	phrases []string,
	verbose bool,
	options ...tea.ProgramOption,
) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	router, err := events.NewRouter(verbose)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := events.CloseRouter(router); err != nil {
			log.Warn().Err(err).Msg("could not close router")
		}
	}()

	if s.Redis.Enabled {
		pub, err := events.NewRedisPublisher(s.Redis)
		if err != nil {
			return "", err
		}
		defer func() { _ = pub.Close() }()
		router.AddHandler("redis-mirror", events.Topic, events.MirrorHandler(pub, events.Topic))
	}

	surface := rewrite.NewSurface(s.MaxLength)
	dispatcher := rewrite.NewDispatcher(surface, p,
		rewrite.WithContext(ctx),
		rewrite.WithDebounce(s.Debounce),
		rewrite.WithSink(events.NewWatermillSink(router.Publisher, events.Topic)),
		rewrite.WithLatestOnly(s.LatestOnly),
		rewrite.WithSuppressDebounceOnTerminal(s.SuppressDebounceOnTerminal),
	)
	model := ui.NewModel(surface, dispatcher, ui.WithPhrases(phrases))

	options = append([]tea.ProgramOption{tea.WithContext(ctx)}, options...)
	program := tea.NewProgram(model, options...)

	router.AddHandler("log", events.Topic, events.LogHandler())
	router.AddHandler("ui-forward", events.Topic, ui.EventForwardFunc(program))

	eg, groupCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		err := router.Run(groupCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		defer cancel()
		select {
		case <-router.Running():
		case <-groupCtx.Done():
			return nil
		}
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	if err := eg.Wait(); err != nil {
		return "", err
	}

	return surface.Buffer(), nil
}

func promptAPIKey() (string, error) {
	var key string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API key").
				Description("Set openai-api-key in the config file to skip this prompt").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("the key can't be empty")
					}
					return nil
				}).
				Value(&key),
		),
	).WithTheme(huh.ThemeCharm()).Run()
	if err != nil {
		return "", errors.Wrap(err, "could not read api key")
	}
	return key, nil
}

// redirectLogs sends the global logger to a file while the TUI owns the
// screen, unless --log-file already points somewhere.
func redirectLogs(logFile string) (func(), error) {
	if logFile != "" {
		return func() {}, nil
	}

	path := filepath.Join(os.TempDir(), config.AppName+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open log file %s", path)
	}

	previous := log.Logger
	log.Logger = zerolog.New(f).With().Timestamp().Logger().Level(previous.GetLevel())
	return func() {
		log.Logger = previous
		_ = f.Close()
	}, nil
}
