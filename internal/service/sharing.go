package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/episodeo/episodeo-server/internal/cache"
	"github.com/episodeo/episodeo-server/internal/domain"
	"github.com/episodeo/episodeo-server/internal/errors"
	"github.com/episodeo/episodeo-server/internal/remote"
	"github.com/episodeo/episodeo-server/internal/state"
)

// maxCodeAttempts bounds the collision re-check loop when generating
// share codes. Six characters of UUID-derived entropy make collisions
// vanishingly rare, so hitting this limit means something is wrong.
const maxCodeAttempts = 5

// SharingService issues and redeems share codes for custom lists.
type SharingService struct {
	remote remote.Store
	cache  cache.Store
	state  *state.Container
	logger *slog.Logger
}

// NewSharingService creates a sharing service.
func NewSharingService(remoteStore remote.Store, cacheStore cache.Store, container *state.Container, logger *slog.Logger) *SharingService {
	return &SharingService{
		remote: remoteStore,
		cache:  cacheStore,
		state:  container,
		logger: logger,
	}
}

// newShareCode derives a 6-character uppercase code from a fresh UUID.
func newShareCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:domain.ShareCodeLength])
}

// GenerateCode creates and stores a share code for one of the user's own
// lists. Codes are single-use by convention only; nothing invalidates a
// code after redemption.
func (s *SharingService) GenerateCode(ctx context.Context, userID, listID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if userID == "" {
		return "", errors.ErrUnauthorized
	}

	list, ok := s.state.Get(userID).Lists[listID]
	if !ok {
		return "", errors.NotFound("list not found")
	}
	if list.OwnerID != userID {
		return "", errors.ErrUnauthorized
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := newShareCode()

		existing, err := s.remote.ShareCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check share code: %w", err)
		}
		if existing != nil {
			continue
		}

		sc := domain.ShareCode{Code: code, OwnerID: userID, ListID: listID}
		if err := s.remote.PutShareCode(ctx, sc); err != nil {
			return "", fmt.Errorf("store share code: %w", err)
		}

		s.logger.Info("share code generated", "user_id", userID, "list_id", listID)
		return code, nil
	}

	return "", errors.Internal("could not generate a unique share code", nil)
}

// RedeemCode resolves a share code and follows the list it points to.
// The list name is captured at redemption time; later renames by the
// owner do not propagate to followers.
func (s *SharingService) RedeemCode(ctx context.Context, userID, code string) (domain.FollowedList, error) {
	if err := ctx.Err(); err != nil {
		return domain.FollowedList{}, err
	}
	if userID == "" {
		return domain.FollowedList{}, errors.ErrUnauthorized
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != domain.ShareCodeLength {
		return domain.FollowedList{}, errors.ErrInvalidCode
	}

	sc, err := s.remote.ShareCode(ctx, code)
	if err != nil {
		return domain.FollowedList{}, fmt.Errorf("resolve share code: %w", err)
	}
	if sc == nil {
		return domain.FollowedList{}, errors.ErrInvalidCode
	}
	if sc.OwnerID == userID {
		return domain.FollowedList{}, errors.Validation("cannot follow your own list")
	}

	// The code may outlive the list it points to.
	list, err := s.remote.List(ctx, sc.OwnerID, sc.ListID)
	if err != nil {
		return domain.FollowedList{}, fmt.Errorf("resolve shared list: %w", err)
	}
	if list == nil {
		return domain.FollowedList{}, errors.ErrInvalidCode
	}

	ref := domain.FollowedList{
		ListID:   sc.ListID,
		OwnerID:  sc.OwnerID,
		ListName: list.Name,
	}

	if err := s.remote.PutFollow(ctx, userID, ref); err != nil {
		return domain.FollowedList{}, fmt.Errorf("store follow: %w", err)
	}

	s.state.Update(userID, func(snap *state.Snapshot) {
		snap.Follows[ref.ListID] = ref
	})
	if cacheErr := s.cache.PutFollow(ctx, userID, ref); cacheErr != nil {
		s.logger.Warn("cache write failed", "op", "put follow", "error", cacheErr)
	}

	s.logger.Info("share code redeemed", "user_id", userID, "list_id", ref.ListID)
	return ref, nil
}
