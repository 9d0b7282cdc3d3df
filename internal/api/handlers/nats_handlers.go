package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/services"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const scanTimeout = 2 * time.Minute

// Scanner is satisfied by *services.UploadScanner.
type Scanner interface {
	Scan(ctx context.Context, event services.FileEvent) (services.ScanEvent, error)
}

// acker is the part of *nats.Msg the handlers reply through.
type acker interface {
	Ack(opts ...nats.AckOpt) error
	Nak(opts ...nats.AckOpt) error
	Term(opts ...nats.AckOpt) error
}

// FileUploaded scans every uploaded blob. Undecodable payloads and blobs that
// are gone are terminated; scanner failures are redelivered.
func FileUploaded(scanner Scanner, logger zerolog.Logger) nats.MsgHandler {
	logger = logger.With().Str("component", "nats").Str("subject", services.SubjectFileUploaded).Logger()
	return func(msg *nats.Msg) {
		handleFileUploaded(scanner, logger, msg.Data, msg)
	}
}

func handleFileUploaded(scanner Scanner, logger zerolog.Logger, data []byte, reply acker) {
	var event services.FileEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logger.Warn().Err(err).Msg("invalid payload")
		_ = reply.Term()
		return
	}
	if event.Locator == "" {
		logger.Debug().Str("file_id", event.FileID.String()).Msg("no locator, skipping scan")
		_ = reply.Ack()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	if _, err := scanner.Scan(ctx, event); err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInvalidArgument) {
			logger.Warn().Err(err).Str("file_id", event.FileID.String()).Msg("blob cannot be scanned")
			_ = reply.Term()
			return
		}
		logger.Error().Err(err).Str("file_id", event.FileID.String()).Msg("scan failed, will retry")
		_ = reply.Nak()
		return
	}
	_ = reply.Ack()
}
