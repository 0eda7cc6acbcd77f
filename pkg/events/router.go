package events

import (
	"context"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	rstream "github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	gepevents "github.com/go-go-golems/geppetto/pkg/events"
	"github.com/go-go-golems/geppetto/pkg/helpers"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRouter returns an in-memory router. Publishing never waits for
// handlers, so it is safe to publish from the bubbletea Update loop even
// when a handler sends back into the program.
func NewRouter(verbose bool) (*gepevents.EventRouter, error) {
	logger := helpers.NewWatermill(log.Logger)
	goPubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            256,
		BlockPublishUntilSubscriberAck: false,
	}, logger)

	return gepevents.NewEventRouter(
		gepevents.WithLogger(logger),
		gepevents.WithPublisher(goPubSub),
		gepevents.WithSubscriber(goPubSub),
		optVerbose(verbose),
	)
}

// BuildRouter constructs a router backed by Redis Streams when enabled, and
// an in-memory router otherwise.
func BuildRouter(s Settings, verbose bool) (*gepevents.EventRouter, error) {
	if !s.Enabled {
		return NewRouter(verbose)
	}

	client := redis.NewClient(&redis.Options{Addr: s.Addr})
	logger := helpers.NewWatermill(log.Logger)

	pub, err := rstream.NewPublisher(rstream.PublisherConfig{
		Client:     client,
		Marshaller: rstream.DefaultMarshallerUnmarshaller{},
	}, logger)
	if err != nil {
		return nil, errors.Wrap(err, "could not create redis publisher")
	}

	sub, err := rstream.NewSubscriber(rstream.SubscriberConfig{
		Client:        client,
		Unmarshaller:  rstream.DefaultMarshallerUnmarshaller{},
		ConsumerGroup: s.Group,
		Consumer:      s.Consumer,
	}, logger)
	if err != nil {
		return nil, errors.Wrap(err, "could not create redis subscriber")
	}

	return gepevents.NewEventRouter(
		gepevents.WithLogger(logger),
		gepevents.WithPublisher(message.Publisher(pub)),
		gepevents.WithSubscriber(message.Subscriber(sub)),
		optVerbose(verbose),
	)
}

func optVerbose(v bool) gepevents.EventRouterOption {
	if v {
		return gepevents.WithVerbose(true)
	}
	return func(r *gepevents.EventRouter) {}
}

// NewRedisPublisher returns a publisher writing to Redis Streams, used to
// mirror local events to other processes.
func NewRedisPublisher(s Settings) (message.Publisher, error) {
	client := redis.NewClient(&redis.Options{Addr: s.Addr})
	pub, err := rstream.NewPublisher(rstream.PublisherConfig{
		Client:     client,
		Marshaller: rstream.DefaultMarshallerUnmarshaller{},
	}, helpers.NewWatermill(log.Logger))
	if err != nil {
		return nil, errors.Wrap(err, "could not create redis publisher")
	}
	return pub, nil
}

// MirrorHandler republishes every message it receives on topic of pub. It
// runs on the router's handler goroutine, so a slow or unreachable pub only
// delays the mirror. Failed messages are logged and dropped rather than
// nacked, which would redeliver them forever while Redis is down.
func MirrorHandler(pub message.Publisher, topic string) func(msg *message.Message) error {
	return func(msg *message.Message) error {
		if err := pub.Publish(topic, msg.Copy()); err != nil {
			log.Warn().Err(err).Str("topic", topic).Str("uuid", msg.UUID).Msg("could not mirror rewrite event")
		}
		return nil
	}
}

// CloseRouter closes the router and its publisher, and the subscriber when it
// is a separate transport.
func CloseRouter(r *gepevents.EventRouter) error {
	if err := r.Close(); err != nil {
		return err
	}
	if any(r.Subscriber) != any(r.Publisher) {
		return r.Subscriber.Close()
	}
	return nil
}

// EnsureGroupAtTail creates the consumer group for a given stream at the tail ($) if it doesn't exist.
// This prevents full historical replay on first subscribe.
func EnsureGroupAtTail(ctx context.Context, addr, stream, group string) error {
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = client.Close() }()

	err := client.XGroupCreateMkStream(ctx, stream, group, "$").Err()
	if err != nil {
		// BUSYGROUP means the group already exists
		if strings.Contains(err.Error(), "BUSYGROUP") {
			return nil
		}
		return errors.Wrapf(err, "could not create consumer group %s", group)
	}
	log.Info().Str("stream", stream).Str("group", group).Msg("created redis consumer group at $ (tail)")
	return nil
}
