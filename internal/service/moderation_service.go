package service

import (
	"context"
	"fmt"
	"time"

	"hiddenspots/internal/cache"
	"hiddenspots/internal/model"
	"hiddenspots/internal/repository"
)

// DefaultFlagReason is recorded when a reporter gives none.
const DefaultFlagReason = "Inappropriate content"

// ModerationService drives the flag/approve/remove workflow.
type ModerationService interface {
	Flag(ctx context.Context, id, reporter, reason string) error
	ListFlagged(ctx context.Context) ([]model.Spot, error)
	Approve(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
}

type moderationService struct {
	repo  repository.SpotRepository
	cache *cache.Client
}

// NewModerationService creates a new moderation service.
func NewModerationService(repo repository.SpotRepository, cache *cache.Client) ModerationService {
	return &moderationService{repo: repo, cache: cache}
}

// Flag marks a spot for review and appends a flag record. Flagging an
// already-flagged spot appends another record; the boolean stays true.
func (s *moderationService) Flag(ctx context.Context, id, reporter, reason string) error {
	oid, err := parseSpotID(id)
	if err != nil {
		return err
	}

	spot, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return err
	}

	if reporter == "" {
		reporter = model.AnonymousUser
	}
	if reason == "" {
		reason = DefaultFlagReason
	}

	spot.Flagged = true
	spot.Flags = append(spot.Flags, model.Flag{
		User:   reporter,
		Reason: reason,
		Date:   time.Now().UTC(),
	})

	if err := s.repo.Replace(ctx, spot); err != nil {
		return fmt.Errorf("save flag: %w", err)
	}
	return nil
}

// ListFlagged returns every spot currently awaiting review.
func (s *moderationService) ListFlagged(ctx context.Context) ([]model.Spot, error) {
	return s.repo.ListFlagged(ctx)
}

// Approve restores a flagged spot. Accumulated flag records are discarded,
// not archived.
func (s *moderationService) Approve(ctx context.Context, id string) error {
	oid, err := parseSpotID(id)
	if err != nil {
		return err
	}

	spot, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return err
	}

	spot.Flagged = false
	spot.Flags = []model.Flag{}

	if err := s.repo.Replace(ctx, spot); err != nil {
		return fmt.Errorf("save approval: %w", err)
	}
	return nil
}

// Remove deletes a spot permanently. No tombstone is kept.
func (s *moderationService) Remove(ctx context.Context, id string) error {
	oid, err := parseSpotID(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, oid); err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, feedCacheKey)
	return nil
}
