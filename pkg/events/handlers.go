package events

import (
	"fmt"
	"io"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
)

var (
	seqStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	startedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	completedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("118"))
	failedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	discardedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	sentenceStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("246"))
)

// LogHandler logs every rewrite event at debug level.
func LogHandler() func(msg *message.Message) error {
	return func(msg *message.Message) error {
		defer msg.Ack()
		e, err := NewEventFromJson(msg.Payload)
		if err != nil {
			log.Error().Err(err).Str("payload", string(msg.Payload)).Msg("Failed to parse event")
			return nil
		}
		log.Debug().
			Str("type", string(e.Type)).
			Uint64("seq", e.Seq).
			Str("sentence", e.Sentence).
			Str("rewritten", e.Rewritten).
			Str("error", e.Error).
			Msg("rewrite event")
		return nil
	}
}

// PrinterHandler writes one styled line per event to w.
func PrinterHandler(w io.Writer) func(msg *message.Message) error {
	return func(msg *message.Message) error {
		defer msg.Ack()
		e, err := NewEventFromJson(msg.Payload)
		if err != nil {
			log.Error().Err(err).Str("payload", string(msg.Payload)).Msg("Failed to parse event")
			return nil
		}
		_, err = fmt.Fprintln(w, FormatEvent(e))
		return err
	}
}

func FormatEvent(e Event) string {
	seq := seqStyle.Render(fmt.Sprintf("#%d", e.Seq))
	sentence := sentenceStyle.Render(fmt.Sprintf("%q", e.Sentence))
	switch e.Type {
	case TypeStarted:
		return fmt.Sprintf("%s %s %s", seq, startedStyle.Render("rewriting"), sentence)
	case TypeCompleted:
		return fmt.Sprintf("%s %s %s -> %q", seq, completedStyle.Render("rewrote"), sentence, e.Rewritten)
	case TypeFailed:
		return fmt.Sprintf("%s %s %s: %s", seq, failedStyle.Render("failed"), sentence, e.Error)
	case TypeDiscarded:
		return fmt.Sprintf("%s %s %s -> %q", seq, discardedStyle.Render("discarded"), sentence, e.Rewritten)
	default:
		return fmt.Sprintf("%s %s %s", seq, e.Type, sentence)
	}
}
