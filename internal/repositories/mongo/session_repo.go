package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/talentmatch/internal/models"
	"github.com/yoockh/talentmatch/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type SessionRepository interface {
	Create(ctx context.Context, s *models.LoginSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.LoginSession, error)
	End(ctx context.Context, sessionID string, endedAt time.Time) error
	EndAllForUser(ctx context.Context, userID int64, endedAt time.Time) error
}

type sessionRepo struct {
	col *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepository {
	return &sessionRepo{col: db.Collection("auth_sessions")}
}

func (r *sessionRepo) Create(ctx context.Context, s *models.LoginSession) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *sessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.LoginSession, error) {
	var s models.LoginSession
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) End(ctx context.Context, sessionID string, endedAt time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID, "ended_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"ended_at": endedAt.UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// EndAllForUser revokes every open session of a user (deactivation, delete).
func (r *sessionRepo) EndAllForUser(ctx context.Context, userID int64, endedAt time.Time) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"user_id": userID, "ended_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"ended_at": endedAt.UTC()}},
	)
	return err
}
