package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SpotCollection is the MongoDB collection holding spot documents.
const SpotCollection = "spots"

// AnonymousUser is the creator recorded for unauthenticated submissions.
const AnonymousUser = "anonymous"

// GeoPoint is a GeoJSON point, coordinates ordered [lng, lat] to match the
// 2dsphere index convention.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// Ratings holds per-dimension running averages and the number of
// submissions folded into them. Averages are zero until count > 0.
type Ratings struct {
	Uniqueness float64 `bson:"uniqueness" json:"uniqueness"`
	Vibe       float64 `bson:"vibe" json:"vibe"`
	Safety     float64 `bson:"safety" json:"safety"`
	Crowd      float64 `bson:"crowd" json:"crowd"`
	Count      int64   `bson:"count" json:"count"`
}

// Comment is a single visitor comment, append-only.
type Comment struct {
	User        string    `bson:"user" json:"user"`
	Text        string    `bson:"text" json:"text"`
	IsAnonymous bool      `bson:"is_anonymous" json:"is_anonymous"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}

// Flag is a single moderation report. Flags accumulate until a moderator
// approves the spot, which discards them.
type Flag struct {
	User   string    `bson:"user" json:"user"`
	Reason string    `bson:"reason" json:"reason"`
	Date   time.Time `bson:"date" json:"date"`
}

// Spot is a user-submitted geotagged point of interest.
type Spot struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Vibe           string             `bson:"vibe" json:"vibe"`
	Description    string             `bson:"description" json:"description"`
	Location       GeoPoint           `bson:"location" json:"location"`
	Images         []string           `bson:"images" json:"images"`
	Ratings        Ratings            `bson:"ratings" json:"ratings"`
	CompositeScore float64            `bson:"composite_score" json:"composite_score"`
	Comments       []Comment          `bson:"comments" json:"comments"`
	Flagged        bool               `bson:"flagged" json:"flagged"`
	Flags          []Flag             `bson:"flags" json:"flags"`
	CreatedBy      string             `bson:"created_by" json:"created_by"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
