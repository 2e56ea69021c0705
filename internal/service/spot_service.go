package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hiddenspots/internal/cache"
	"hiddenspots/internal/errors"
	"hiddenspots/internal/model"
	"hiddenspots/internal/repository"
)

const (
	feedCacheKey = "feed:top"
	feedCacheTTL = time.Minute
)

// NewSpot carries a validated spot submission.
type NewSpot struct {
	Name        string
	Vibe        string
	Description string
	Location    model.GeoPoint
	Images      []string
	CreatedBy   string
}

// RatingSubmission holds one rating across the four dimensions. Dimensions
// the client omitted arrive as zero and are folded in as zero.
type RatingSubmission struct {
	Uniqueness float64
	Vibe       float64
	Safety     float64
	Crowd      float64
}

// CommentInput is a single comment submission.
type CommentInput struct {
	User        string
	Text        string
	IsAnonymous bool
}

// SpotService handles spot operations.
type SpotService interface {
	Create(ctx context.Context, input NewSpot) (*model.Spot, error)
	Get(ctx context.Context, id string) (*model.Spot, error)
	Search(ctx context.Context, params repository.SearchParams) []model.Spot
	ApplyRating(ctx context.Context, id string, submission RatingSubmission) (*model.Spot, error)
	AddComment(ctx context.Context, id string, input CommentInput) (*model.Spot, error)
	TopSpots(ctx context.Context) ([]model.Spot, error)
}

type spotService struct {
	repo  repository.SpotRepository
	cache *cache.Client
}

// NewSpotService creates a new spot service.
func NewSpotService(repo repository.SpotRepository, cache *cache.Client) SpotService {
	return &spotService{repo: repo, cache: cache}
}

// Create validates and persists a new spot.
func (s *spotService) Create(ctx context.Context, input NewSpot) (*model.Spot, error) {
	if input.Name == "" || input.Vibe == "" || input.Description == "" {
		return nil, errors.ErrMissingFields
	}
	if input.Location.Type != "Point" || len(input.Location.Coordinates) != 2 {
		return nil, errors.ErrInvalidCoordinates
	}

	createdBy := input.CreatedBy
	if createdBy == "" {
		createdBy = model.AnonymousUser
	}
	images := input.Images
	if images == nil {
		images = []string{}
	}

	spot := &model.Spot{
		Name:        input.Name,
		Vibe:        input.Vibe,
		Description: input.Description,
		Location:    input.Location,
		Images:      images,
		Comments:    []model.Comment{},
		Flags:       []model.Flag{},
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, spot); err != nil {
		return nil, fmt.Errorf("create spot: %w", err)
	}

	_ = s.cache.Delete(ctx, feedCacheKey)
	return spot, nil
}

// Get retrieves a single spot by its hex ID.
func (s *spotService) Get(ctx context.Context, id string) (*model.Spot, error) {
	oid, err := parseSpotID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, oid)
}

// Search runs the nearby query. Store failures degrade to an empty result
// set: the discovery map stays up even when the store is unhappy.
func (s *spotService) Search(ctx context.Context, params repository.SearchParams) []model.Spot {
	spots, err := s.repo.Search(ctx, params)
	if err != nil {
		log.Printf("spot search failed, returning empty result: %v", err)
		return []model.Spot{}
	}
	return spots
}

// ApplyRating folds one rating submission into the spot's running averages
// and recomputes the composite score. The read-modify-write is not guarded;
// concurrent submissions for the same spot are last-write-wins.
func (s *spotService) ApplyRating(ctx context.Context, id string, submission RatingSubmission) (*model.Spot, error) {
	oid, err := parseSpotID(id)
	if err != nil {
		return nil, err
	}

	spot, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	spot.Ratings = foldRating(spot.Ratings, submission)
	spot.CompositeScore = (spot.Ratings.Uniqueness + spot.Ratings.Vibe +
		spot.Ratings.Safety + spot.Ratings.Crowd) / 4

	if err := s.repo.Replace(ctx, spot); err != nil {
		return nil, fmt.Errorf("save rating: %w", err)
	}

	_ = s.cache.Delete(ctx, feedCacheKey)
	return spot, nil
}

// AddComment appends a comment and returns the updated spot.
func (s *spotService) AddComment(ctx context.Context, id string, input CommentInput) (*model.Spot, error) {
	oid, err := parseSpotID(id)
	if err != nil {
		return nil, err
	}

	spot, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	user := input.User
	if user == "" || input.IsAnonymous {
		user = model.AnonymousUser
	}
	spot.Comments = append(spot.Comments, model.Comment{
		User:        user,
		Text:        input.Text,
		IsAnonymous: input.IsAnonymous,
		Timestamp:   time.Now().UTC(),
	})

	if err := s.repo.Replace(ctx, spot); err != nil {
		return nil, fmt.Errorf("save comment: %w", err)
	}
	return spot, nil
}

// TopSpots returns all spots ranked by composite score, best first, with a
// short-lived cache in front of the store.
func (s *spotService) TopSpots(ctx context.Context) ([]model.Spot, error) {
	if data, _ := s.cache.Get(ctx, feedCacheKey); data != nil {
		var cached []model.Spot
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	spots, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list spots: %w", err)
	}
	ranked := rankByScore(spots)

	if payload, err := json.Marshal(ranked); err == nil {
		_ = s.cache.Set(ctx, feedCacheKey, payload, feedCacheTTL)
	}
	return ranked, nil
}

// foldRating is the incremental-mean update: it needs only the previous
// average and count, never the full rating history.
func foldRating(r model.Ratings, sub RatingSubmission) model.Ratings {
	count := float64(r.Count)
	fold := func(old, v float64) float64 {
		return (old*count + v) / (count + 1)
	}
	return model.Ratings{
		Uniqueness: fold(r.Uniqueness, sub.Uniqueness),
		Vibe:       fold(r.Vibe, sub.Vibe),
		Safety:     fold(r.Safety, sub.Safety),
		Crowd:      fold(r.Crowd, sub.Crowd),
		Count:      r.Count + 1,
	}
}

// rankByScore orders spots descending by composite score. Scores that are
// not well-formed numbers count as zero; ties keep store order.
func rankByScore(spots []model.Spot) []model.Spot {
	ranked := make([]model.Spot, len(spots))
	copy(ranked, spots)
	sort.SliceStable(ranked, func(i, j int) bool {
		return coerceScore(ranked[i].CompositeScore) > coerceScore(ranked[j].CompositeScore)
	})
	return ranked
}

func coerceScore(score float64) float64 {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return score
}

// parseSpotID turns a path parameter into an ObjectID. Malformed IDs cannot
// reference any spot, so they map to not-found.
func parseSpotID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.ErrSpotNotFound
	}
	return oid, nil
}
