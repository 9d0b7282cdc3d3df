package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/dutchcoders/go-clamd"
	"github.com/rs/zerolog"
)

const (
	ScanStatusClean    = "clean"
	ScanStatusInfected = "infected"
)

// StreamScanner is the part of *clamd.Clamd the scanner needs.
type StreamScanner interface {
	ScanStream(r io.Reader, abort chan bool) (chan *clamd.ScanResult, error)
}

// UploadScanner runs uploaded blobs through ClamAV and reports the verdict as
// a files.scanned event. It never touches the file record.
type UploadScanner struct {
	blobs     BlobStore
	clam      StreamScanner
	publisher Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

func NewUploadScanner(blobs BlobStore, clam StreamScanner, publisher Publisher, logger zerolog.Logger) *UploadScanner {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &UploadScanner{
		blobs:     blobs,
		clam:      clam,
		publisher: publisher,
		logger:    logger.With().Str("component", "scan").Logger(),
		now:       time.Now,
	}
}

// NewClamd connects lazily; the address looks like tcp://localhost:3310.
func NewClamd(address string) *clamd.Clamd {
	return clamd.NewClamd(address)
}

func (s *UploadScanner) Scan(ctx context.Context, event FileEvent) (ScanEvent, error) {
	ref := models.BlobReference{Locator: event.Locator, MimeType: event.MimeType, SizeBytes: event.SizeBytes}

	body, err := s.blobs.Open(ctx, ref)
	if err != nil {
		return ScanEvent{}, fmt.Errorf("open blob for scanning: %w", err)
	}
	defer body.Close()

	abort := make(chan bool)
	defer close(abort)

	results, err := s.clam.ScanStream(body, abort)
	if err != nil {
		return ScanEvent{}, fmt.Errorf("scan failed: %w", err)
	}

	verdict := ScanEvent{
		FileID:  event.FileID,
		Locator: event.Locator,
		Status:  ScanStatusClean,
	}
	for res := range results {
		if res.Status == clamd.RES_FOUND {
			verdict.Status = ScanStatusInfected
			verdict.Description = res.Description
		}
		if res.Status == clamd.RES_ERROR || res.Status == clamd.RES_PARSE_ERROR {
			return ScanEvent{}, fmt.Errorf("scan error: %s", res.Description)
		}
	}
	verdict.ScannedAt = s.now().UTC()

	if verdict.Status == ScanStatusInfected {
		s.logger.Warn().Str("file_id", event.FileID.String()).Str("signature", verdict.Description).Msg("virus detected")
	} else {
		s.logger.Info().Str("file_id", event.FileID.String()).Msg("scan finished clean")
	}

	if err := s.publisher.Publish(ctx, SubjectFileScanned, verdict); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish scan result")
	}
	return verdict, nil
}
