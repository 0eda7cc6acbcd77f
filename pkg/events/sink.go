package events

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/pkg/errors"
)

// WatermillSink publishes events as JSON watermill messages.
type WatermillSink struct {
	publisher message.Publisher
	topic     string
}

var _ Sink = (*WatermillSink)(nil)

func NewWatermillSink(publisher message.Publisher, topic string) *WatermillSink {
	if topic == "" {
		topic = Topic
	}
	return &WatermillSink{publisher: publisher, topic: topic}
}

func (s *WatermillSink) Publish(e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "could not marshal rewrite event")
	}
	msg := message.NewMessage(e.ID.String(), b)
	if err := s.publisher.Publish(s.topic, msg); err != nil {
		return errors.Wrapf(err, "could not publish %s", e.Type)
	}
	return nil
}
