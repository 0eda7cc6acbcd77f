package rewrite

import (
	"context"
	"strings"

	"github.com/go-go-golems/anger-translator/pkg/paraphrase"
	"github.com/go-go-golems/anger-translator/pkg/segment"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// RewriteText rewrites every sentence of text, running at most concurrency
// requests at once, and joins the results in their original order. Blank
// fragments are skipped. Unlike the interactive loop, any failure fails the
// whole call.
func RewriteText(ctx context.Context, p paraphrase.Paraphraser, text string, concurrency int) (string, error) {
	sentences := []string{}
	for _, s := range segment.Split(text) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return "", nil
	}

	results := make([]string, len(sentences))
	eg, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		eg.SetLimit(concurrency)
	}
	for i, sentence := range sentences {
		eg.Go(func() error {
			out, err := p.Paraphrase(ctx, sentence)
			if err != nil {
				return errors.Wrapf(err, "could not rewrite sentence %d", i+1)
			}
			results[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return "", err
	}

	return strings.Join(results, " "), nil
}
