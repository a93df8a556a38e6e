package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginSession backs an issued auth token. Documents expire through the TTL
// index on expires_at; EndedAt is set on logout.
type LoginSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SessionID string             `bson:"session_id" json:"session_id"` // uuid v4
	UserID    int64              `bson:"user_id" json:"user_id"`
	Username  string             `bson:"username" json:"username"`
	Role      UserRole           `bson:"role" json:"role"`

	UserAgent string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	IP        string `bson:"ip,omitempty" json:"ip,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time  `bson:"expires_at" json:"expires_at"`
	EndedAt   *time.Time `bson:"ended_at,omitempty" json:"ended_at,omitempty"`
}

func (s *LoginSession) Active(now time.Time) bool {
	return s.EndedAt == nil && now.Before(s.ExpiresAt)
}
