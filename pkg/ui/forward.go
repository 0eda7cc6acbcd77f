package ui

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/anger-translator/pkg/events"
	"github.com/rs/zerolog/log"
)

// StatsMsg is one finished rewrite as seen on the event stream.
type StatsMsg struct {
	Type events.Type
}

// Stats counts finished rewrites for the footer.
type Stats struct {
	Completed int
	Failed    int
	Discarded int
}

func (s Stats) Add(msg StatsMsg) Stats {
	switch msg.Type {
	case events.TypeCompleted:
		s.Completed++
	case events.TypeFailed:
		s.Failed++
	case events.TypeDiscarded:
		s.Discarded++
	}
	return s
}

func (s Stats) String() string {
	if s.Completed+s.Failed+s.Discarded == 0 {
		return ""
	}
	ret := fmt.Sprintf("%d rewritten", s.Completed)
	if s.Failed > 0 {
		ret += fmt.Sprintf(", %d failed", s.Failed)
	}
	if s.Discarded > 0 {
		ret += fmt.Sprintf(", %d stale", s.Discarded)
	}
	return ret
}

// EventForwardFunc forwards rewrite events from the watermill router into
// the running program as StatsMsg.
func EventForwardFunc(p *tea.Program) func(msg *message.Message) error {
	return forwardTo(p.Send)
}

func forwardTo(send func(tea.Msg)) func(msg *message.Message) error {
	return func(msg *message.Message) error {
		msg.Ack()

		e, err := events.NewEventFromJson(msg.Payload)
		if err != nil {
			log.Error().Err(err).Str("payload", string(msg.Payload)).Msg("Failed to parse event")
			return nil
		}
		log.Debug().Str("type", string(e.Type)).Uint64("seq", e.Seq).Msg("Dispatching event to UI")

		if e.Type == events.TypeStarted {
			return nil
		}
		send(StatsMsg{Type: e.Type})
		return nil
	}
}
