package channel

import (
	"context"
	"fmt"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/rokkenjima/watchface/internal/logger/adapter/stdlogger"
)

const (
	replyOK        = "ok"
	readyTimeout   = 5 * time.Second
	reconnectDelay = time.Second
)

// NATSSubscriber receives updates published on a NATS subject. Messages of one
// subscription are handed to the Handler sequentially.
type NATSSubscriber struct {
	conn *nats.Conn
	sub  *nats.Subscription
}

// NewNATSSubscriber connects to url with automatic reconnection. Extra nats.Option
// values are appended to the defaults.
func NewNATSSubscriber(url string, opts ...nats.Option) (*NATSSubscriber, error) {
	defaults := []nats.Option{
		nats.Name("watchface"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(reconnectDelay),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	}

	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	return &NATSSubscriber{conn: nc}, nil
}

// Subscribe registers h for subject. A message carrying a reply subject is answered
// with "ok" or the handler error.
func (s *NATSSubscriber) Subscribe(ctx context.Context, subject string, h Handler) error {
	sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
		err := s.deliver(ctx, msg.Data, h)

		if msg.Reply == "" {
			return
		}

		reply := replyOK
		if err != nil {
			reply = err.Error()
		}

		if rerr := msg.Respond([]byte(reply)); rerr != nil {
			log.Warn().Err(rerr).Str("subject", msg.Subject).Msg("failed to answer settings request")
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", subject, err)
	}

	// the subscription must be known to the server before publishers on other
	// connections are routed to it
	if err := s.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return fmt.Errorf("flushing subscription: %w", err)
	}

	s.sub = sub
	log.Info().Str("subject", subject).Msg("listening for settings on nats")

	return nil
}

func (s *NATSSubscriber) deliver(ctx context.Context, data []byte, h Handler) error {
	d, err := Decode(SourceNATS, data)
	if err != nil {
		countDelivery(SourceNATS, err)
		log.Warn().Err(err).Int("size", len(data)).Msg("dropping nats delivery")

		return err
	}

	err = h(ctx, d)
	countDelivery(SourceNATS, err)

	if err != nil {
		log.Error().Err(err).Str("delivery", d.ID).Msg("nats delivery failed")
		return err
	}

	log.Debug().Str("delivery", d.ID).Int("keys", len(d.Payload)).Msg("nats delivery applied")

	return nil
}

// Close unsubscribes and closes the connection.
func (s *NATSSubscriber) Close() error {
	if s.sub != nil {
		_ = s.sub.Unsubscribe()
	}

	s.conn.Close()

	return nil
}

// StartEmbeddedNATS runs an in-process NATS server on host:port and waits until it
// accepts connections. A port of -1 picks a random free port.
func StartEmbeddedNATS(host string, port int) (*natsserver.Server, error) {
	srv, err := natsserver.NewServer(&natsserver.Options{
		Host:   host,
		Port:   port,
		NoSigs: true,
	})
	if err != nil {
		return nil, fmt.Errorf("starting embedded NATS: %w", err)
	}

	srv.SetLoggerV2(stdlogger.New("nats"), false, false, false)
	srv.Start()

	if !srv.ReadyForConnections(readyTimeout) {
		srv.Shutdown()
		return nil, ErrNATSNotReady
	}

	log.Info().Str("url", srv.ClientURL()).Msg("embedded nats server ready")

	return srv, nil
}
