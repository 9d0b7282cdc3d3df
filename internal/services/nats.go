package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const eventStream = "slide-events"

// NATSService publishes and consumes events through JetStream.
type NATSService struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger zerolog.Logger
}

// ConnectNATS connects to NATS and initializes JetStream and streams.
func ConnectNATS(url string, logger zerolog.Logger) (*NATSService, error) {
	logger = logger.With().Str("component", "nats").Logger()

	opts := []nats.Option{
		nats.Name("slide-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("reconnected")
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			logger.Info().Msg("connection closed")
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}

	js, err := conn.JetStream()
	if err != nil {
		// JetStream not enabled on the server
		conn.Close()
		return nil, err
	}

	s := &NATSService{conn: conn, js: js, logger: logger}
	if err := s.ensureStreams(); err != nil {
		logger.Warn().Err(err).Msg("failed to ensure streams")
	}

	logger.Info().Msg("connected and JetStream initialized")
	return s, nil
}

// ensureStreams creates streams used by the app if they don't exist
func (s *NATSService) ensureStreams() error {
	if _, err := s.js.StreamInfo(eventStream); err == nil {
		return nil
	}

	_, err := s.js.AddStream(&nats.StreamConfig{
		Name:     eventStream,
		Subjects: []string{"files.*"},
		Storage:  nats.FileStorage,
		MaxAge:   30 * 24 * time.Hour,
	})
	return err
}

// Publish stores the event durably; the random message id lets JetStream drop
// duplicates on client retries.
func (s *NATSService) Publish(ctx context.Context, subject string, payload any) error {
	if s == nil || s.js == nil {
		return errors.New("jetstream not initialized")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = s.js.Publish(subject, data, nats.MsgId(uuid.NewString()), nats.Context(ctx))
	if err != nil {
		s.logger.Error().Err(err).Str("subject", subject).Msg("publish failed")
		return err
	}
	return nil
}

// Subscribe creates a durable, manual-ack consumer. The handler must Ack or
// Nak every message.
func (s *NATSService) Subscribe(subject, durableName string, handler nats.MsgHandler) (*nats.Subscription, error) {
	if s == nil || s.js == nil {
		return nil, errors.New("jetstream not initialized")
	}
	sub, err := s.js.Subscribe(subject, handler, nats.Durable(durableName), nats.ManualAck())
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("subject", subject).Str("durable", durableName).Msg("subscribed")
	return sub, nil
}

func (s *NATSService) Close() {
	if s != nil && s.conn != nil && !s.conn.IsClosed() {
		s.conn.Drain()
	}
}
