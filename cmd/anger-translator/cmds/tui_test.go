package cmds

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/anger-translator/pkg/events"
	"github.com/go-go-golems/anger-translator/pkg/paraphrase"
	"github.com/stretchr/testify/require"
)

var shout = paraphrase.ParaphraserFunc(func(ctx context.Context, sentence string) (string, error) {
	return strings.ToUpper(sentence), nil
})

func headlessSettings() Settings {
	return Settings{
		Debounce:  time.Hour,
		MaxLength: 300,
		Redis:     events.DefaultSettings(),
	}
}

func TestRunTUIReturnsBufferOnQuit(t *testing.T) {
	value, err := runTUI(context.Background(), headlessSettings(), shout, nil, false,
		tea.WithInput(strings.NewReader("i am mad\x03")),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
	)
	require.NoError(t, err)
	require.Equal(t, "i am mad", value)
}

func TestRunTUIStopsWhenContextIsCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := runTUI(ctx, headlessSettings(), shout, nil, false,
			tea.WithInput(nil),
			tea.WithOutput(io.Discard),
			tea.WithoutRenderer(),
		)
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("translator did not shut down")
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWatchPrintsEventsUntilCancelled(t *testing.T) {
	router, err := events.NewRouter(false)
	require.NoError(t, err)
	defer func() { _ = events.CloseRouter(router) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out lockedBuffer
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, router, &out)
	}()

	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	e := events.New(events.TypeCompleted, 4, "you again?")
	e.Rewritten = "How lovely to see you once more."
	require.NoError(t, events.NewWatermillSink(router.Publisher, events.Topic).Publish(e))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "How lovely to see you once more.")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop")
	}
}
