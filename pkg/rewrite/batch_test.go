package rewrite

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-go-golems/anger-translator/pkg/paraphrase"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRewriteTextKeepsOrder(t *testing.T) {
	p := paraphrase.ParaphraserFunc(func(ctx context.Context, sentence string) (string, error) {
		// finish the first sentence last
		if strings.HasPrefix(sentence, "this") {
			time.Sleep(20 * time.Millisecond)
		}
		return strings.ToUpper(sentence), nil
	})

	out, err := RewriteText(context.Background(), p, "this sucks.   you suck! ok", 3)
	require.NoError(t, err)
	require.Equal(t, "THIS SUCKS. YOU SUCK! OK", out)
}

func TestRewriteTextRespectsConcurrency(t *testing.T) {
	var inFlight, peak int32
	p := paraphrase.ParaphraserFunc(func(ctx context.Context, sentence string) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			old := atomic.LoadInt32(&peak)
			if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return sentence, nil
	})

	_, err := RewriteText(context.Background(), p, "a. b. c. d. e. f.", 2)
	require.NoError(t, err)
	require.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestRewriteTextEmpty(t *testing.T) {
	called := false
	p := paraphrase.ParaphraserFunc(func(ctx context.Context, sentence string) (string, error) {
		called = true
		return "", nil
	})
	out, err := RewriteText(context.Background(), p, "  \n ", 1)
	require.NoError(t, err)
	require.Equal(t, "", out)
	require.False(t, called)
}

func TestRewriteTextFails(t *testing.T) {
	p := paraphrase.ParaphraserFunc(func(ctx context.Context, sentence string) (string, error) {
		if sentence == "b." {
			return "", errors.New("rate limited")
		}
		return sentence, nil
	})
	_, err := RewriteText(context.Background(), p, "a. b. c.", 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate limited")
}
