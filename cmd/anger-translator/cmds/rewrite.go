package cmds

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-go-golems/anger-translator/pkg/rewrite"
	"github.com/go-go-golems/anger-translator/pkg/segment"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	tiktoken "github.com/weaviate/tiktoken-go"
)

func NewRewriteCommand() *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "rewrite [text...]",
		Short: "Rewrite text in one go, reading stdin when no text is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args, os.Stdin)
			if err != nil {
				return err
			}

			s := LoadSettings()
			p, _, err := s.NewParaphraser()
			if err != nil {
				return err
			}

			out, err := rewrite.RewriteText(cmd.Context(), p, input, s.Concurrency)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)

			if stats {
				st, err := computeStats(input, out)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.ErrOrStderr(), st)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "Print token statistics to stderr")
	return cmd
}

func readInput(args []string, stdin *os.File) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if isatty.IsTerminal(stdin.Fd()) || isatty.IsCygwinTerminal(stdin.Fd()) {
		return "", errors.New("no text given and stdin is a terminal")
	}
	return readAll(stdin)
}

func readAll(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "could not read stdin")
	}
	return strings.TrimSpace(string(b)), nil
}

type rewriteStats struct {
	Sentences    int
	InputTokens  int
	OutputTokens int
}

func (s rewriteStats) String() string {
	var b strings.Builder
	b.WriteString("Statistics:\n")
	fmt.Fprintf(&b, "  Sentences:     %d\n", s.Sentences)
	fmt.Fprintf(&b, "  Input tokens:  %d\n", s.InputTokens)
	fmt.Fprintf(&b, "  Output tokens: %d\n", s.OutputTokens)
	return b.String()
}

func computeStats(input string, output string) (rewriteStats, error) {
	tokenCounter, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return rewriteStats{}, errors.Wrap(err, "could not initialize token counter")
	}

	sentences := 0
	for _, s := range segment.Split(input) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}

	return rewriteStats{
		Sentences:    sentences,
		InputTokens:  len(tokenCounter.Encode(input, nil, nil)),
		OutputTokens: len(tokenCounter.Encode(output, nil, nil)),
	}, nil
}
