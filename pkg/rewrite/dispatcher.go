package rewrite

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/anger-translator/pkg/events"
	"github.com/go-go-golems/anger-translator/pkg/paraphrase"
	"github.com/go-go-golems/anger-translator/pkg/segment"
	"github.com/rs/zerolog/log"
)

const DefaultDebounce = 700 * time.Millisecond

// DebounceMsg is delivered when a debounce timer expires. Only the message
// carrying the latest generation leads to a dispatch.
type DebounceMsg struct {
	Gen  uint64
	Text string
}

// ResultMsg carries the outcome of one remote rewrite back to the UI loop.
type ResultMsg struct {
	Seq       uint64
	Prefix    string
	Sentence  string
	Rewritten string
	Err       error
}

// Dispatcher decides when to rewrite the current sentence and splices the
// result back into the Surface. All methods must be called from the
// bubbletea Update loop; the only asynchronous work is in the returned
// commands.
//
// In-flight rewrites are never cancelled. Overlapping rewrites may complete
// in any order and, unless LatestOnly is set, the last one to complete
// wins.
type Dispatcher struct {
	surface     *Surface
	paraphraser paraphrase.Paraphraser
	sink        events.Sink
	ctx         context.Context
	debounce    time.Duration
	tick        func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

	latestOnly                 bool
	suppressDebounceOnTerminal bool

	gen            uint64
	seq            uint64
	highestApplied uint64
}

type DispatcherOption func(*Dispatcher)

func WithDebounce(d time.Duration) DispatcherOption {
	return func(dispatcher *Dispatcher) {
		dispatcher.debounce = d
	}
}

func WithSink(s events.Sink) DispatcherOption {
	return func(d *Dispatcher) {
		d.sink = s
	}
}

func WithContext(ctx context.Context) DispatcherOption {
	return func(d *Dispatcher) {
		d.ctx = ctx
	}
}

// WithTicker replaces tea.Tick, mostly for tests.
func WithTicker(tick func(time.Duration, func(time.Time) tea.Msg) tea.Cmd) DispatcherOption {
	return func(d *Dispatcher) {
		d.tick = tick
	}
}

// WithLatestOnly only applies a result if no result from a later request has
// been applied yet. Off by default: results are applied in completion order.
func WithLatestOnly(latestOnly bool) DispatcherOption {
	return func(d *Dispatcher) {
		d.latestOnly = latestOnly
	}
}

// WithSuppressDebounceOnTerminal cancels the pending debounce when typing a
// terminal punctuation mark already triggered a dispatch. Off by default,
// which can rewrite the same sentence twice.
func WithSuppressDebounceOnTerminal(suppress bool) DispatcherOption {
	return func(d *Dispatcher) {
		d.suppressDebounceOnTerminal = suppress
	}
}

func NewDispatcher(surface *Surface, p paraphrase.Paraphraser, options ...DispatcherOption) *Dispatcher {
	ret := &Dispatcher{
		surface:     surface,
		paraphraser: p,
		sink:        events.NopSink{},
		ctx:         context.Background(),
		debounce:    DefaultDebounce,
		tick:        tea.Tick,
	}
	for _, o := range options {
		o(ret)
	}
	return ret
}

// OnEdit must be called after every accepted edit that changed the buffer.
// It restarts the debounce timer and, if text ends in terminal punctuation,
// dispatches right away as well.
func (d *Dispatcher) OnEdit(text string) tea.Cmd {
	d.gen++
	gen := d.gen

	terminal := segment.EndsWithTerminal(text)
	cmds := []tea.Cmd{}

	if !terminal || !d.suppressDebounceOnTerminal {
		cmds = append(cmds, d.tick(d.debounce, func(time.Time) tea.Msg {
			return DebounceMsg{Gen: gen, Text: text}
		}))
	}

	if terminal {
		if seg := segment.Split(text); seg.Dispatchable() {
			cmds = append(cmds, d.Dispatch(seg))
		}
	}

	return tea.Batch(cmds...)
}

func (d *Dispatcher) OnDebounce(msg DebounceMsg) tea.Cmd {
	if msg.Gen != d.gen {
		return nil
	}
	seg := segment.Split(msg.Text)
	if !seg.Dispatchable() {
		return nil
	}
	return d.Dispatch(seg)
}

// Dispatch marks the surface as loading and returns the command performing
// the remote rewrite of the current sentence of seg.
func (d *Dispatcher) Dispatch(seg segment.Segments) tea.Cmd {
	d.seq++
	seq := d.seq
	prefix, sentence := seg.StablePrefix(), seg.Current()

	d.surface.setLoading(true)

	e := events.New(events.TypeStarted, seq, sentence)
	e.Prefix = prefix
	d.publish(e)

	ctx, p := d.ctx, d.paraphraser
	return func() tea.Msg {
		rewritten, err := p.Paraphrase(ctx, sentence)
		return ResultMsg{
			Seq:       seq,
			Prefix:    prefix,
			Sentence:  sentence,
			Rewritten: rewritten,
			Err:       err,
		}
	}
}

// OnResult clears the loading flag and, on success, replaces the whole buffer
// with the stable prefix followed by the rewritten sentence, regardless of
// what was typed in the meantime. It reports whether the buffer changed.
func (d *Dispatcher) OnResult(msg ResultMsg) bool {
	d.surface.setLoading(false)

	e := events.New(events.TypeCompleted, msg.Seq, msg.Sentence)
	e.Prefix = msg.Prefix
	e.Rewritten = msg.Rewritten

	if msg.Err != nil {
		log.Error().Err(msg.Err).Uint64("seq", msg.Seq).Str("sentence", msg.Sentence).Msg("Error while translating")
		e.Type = events.TypeFailed
		e.Error = msg.Err.Error()
		d.publish(e)
		return false
	}

	if d.latestOnly && msg.Seq < d.highestApplied {
		log.Debug().Uint64("seq", msg.Seq).Uint64("applied", d.highestApplied).Msg("dropping stale rewrite")
		e.Type = events.TypeDiscarded
		d.publish(e)
		return false
	}
	if msg.Seq > d.highestApplied {
		d.highestApplied = msg.Seq
	}

	d.surface.replace(msg.Prefix + " " + msg.Rewritten)
	d.publish(e)
	return true
}

func (d *Dispatcher) publish(e events.Event) {
	if err := d.sink.Publish(e); err != nil {
		log.Warn().Err(err).Str("type", string(e.Type)).Msg("could not publish rewrite event")
	}
}
