package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SafetyScore represents a computed driver safety score on a 0-100 scale.
type SafetyScore struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DriverID        string             `bson:"driver_id" json:"driver_id"`
	Score           float64            `bson:"score" json:"score"`
	Recommendations string             `bson:"recommendations,omitempty" json:"recommendations,omitempty"`
	ComputedAt      time.Time          `bson:"computed_at" json:"computed_at"`
}

// Valid reports whether the score is within the 0-100 bounds.
func (s *SafetyScore) Valid() bool {
	return s.Score >= 0 && s.Score <= 100
}
