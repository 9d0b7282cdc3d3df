package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultCreateAttempts bounds code regeneration on uniqueness conflicts.
const DefaultCreateAttempts = 5

// InviteCache holds positive code resolutions. Invites are immutable and never
// deleted, so a cached invite never goes stale.
type InviteCache interface {
	Get(ctx context.Context, code string) (models.Invite, bool, error)
	Put(ctx context.Context, invite models.Invite) error
}

type InviteStore struct {
	storage     storage.Storage
	codes       CodeGenerator
	cache       InviteCache
	logger      zerolog.Logger
	maxAttempts int
	now         func() time.Time
}

type InviteStoreOption func(*InviteStore)

func WithInviteCache(cache InviteCache) InviteStoreOption {
	return func(s *InviteStore) { s.cache = cache }
}

func WithCreateAttempts(n int) InviteStoreOption {
	return func(s *InviteStore) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func WithInviteClock(now func() time.Time) InviteStoreOption {
	return func(s *InviteStore) { s.now = now }
}

func NewInviteStore(st storage.Storage, codes CodeGenerator, logger zerolog.Logger, opts ...InviteStoreOption) *InviteStore {
	s := &InviteStore{
		storage:     st,
		codes:       codes,
		logger:      logger.With().Str("component", "invites").Logger(),
		maxAttempts: DefaultCreateAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create allocates a fresh code and persists the invite, regenerating the code
// when it collides with an existing one.
func (s *InviteStore) Create(ctx context.Context) (models.Invite, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return models.Invite{}, fmt.Errorf("generate invite code: %w", err)
		}

		invite := models.Invite{
			ID:        uuid.New(),
			Code:      code,
			CreatedAt: s.now().UTC(),
		}
		err = s.storage.CreateInvite(ctx, invite)
		if err == nil {
			s.logger.Info().Str("invite_id", invite.ID.String()).Int("attempt", attempt).Msg("invite created")
			return invite, nil
		}
		if !errors.Is(err, storage.ErrCodeTaken) {
			return models.Invite{}, fmt.Errorf("persist invite: %w", err)
		}
		s.logger.Warn().Int("attempt", attempt).Msg("invite code collision, regenerating")
	}
	return models.Invite{}, fmt.Errorf("%w after %d attempts", models.ErrCreationExhausted, s.maxAttempts)
}

// Resolve looks an invite up by code. Absent and malformed codes both yield
// ErrNotFound.
func (s *InviteStore) Resolve(ctx context.Context, code string) (models.Invite, error) {
	if !WellFormed(code) {
		return models.Invite{}, models.ErrNotFound
	}

	if s.cache != nil {
		invite, hit, err := s.cache.Get(ctx, code)
		if err != nil {
			s.logger.Warn().Err(err).Msg("invite cache lookup failed")
		} else if hit {
			return invite, nil
		}
	}

	invite, err := s.storage.GetInviteByCode(ctx, code)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Invite{}, models.ErrNotFound
		}
		return models.Invite{}, fmt.Errorf("resolve invite: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, invite); err != nil {
			s.logger.Warn().Err(err).Msg("invite cache store failed")
		}
	}
	return invite, nil
}

// IsValid reports whether code names an existing invite.
func (s *InviteStore) IsValid(ctx context.Context, code string) (bool, error) {
	_, err := s.Resolve(ctx, code)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	return false, err
}
