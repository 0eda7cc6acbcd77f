// Package paraphrase turns a single sentence into a more formal one by
// streaming a chat completion from a hosted model.
package paraphrase

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Paraphraser rewrites one sentence. Implementations must be safe to call
// from several goroutines at once, since overlapping rewrites are allowed.
type Paraphraser interface {
	Paraphrase(ctx context.Context, sentence string) (string, error)
}

// ParaphraserFunc adapts a plain function to the Paraphraser interface.
type ParaphraserFunc func(ctx context.Context, sentence string) (string, error)

func (f ParaphraserFunc) Paraphrase(ctx context.Context, sentence string) (string, error) {
	return f(ctx, sentence)
}

// FragmentStream yields incremental pieces of a completion. Recv returns
// io.EOF once the stream is complete.
type FragmentStream interface {
	Recv() (string, error)
}

// Accumulate concatenates the fragments of s in arrival order and returns the
// trimmed result. Any error other than io.EOF fails the whole operation and
// the partial text is dropped.
func Accumulate(s FragmentStream) (string, error) {
	var sb strings.Builder
	for {
		fragment, err := s.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", errors.Wrap(err, "completion stream failed")
		}
		sb.WriteString(fragment)
	}

	return strings.TrimSpace(sb.String()), nil
}
