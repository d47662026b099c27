package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/repositories"
	"github.com/yoockh/talentscope/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const AuthSessionsCollection = "auth_sessions"

type authSessionRepo struct {
	col *mongo.Collection
}

func NewAuthSessionRepo(db *mongo.Database) repositories.AuthSessionRepository {
	return &authSessionRepo{col: db.Collection(AuthSessionsCollection)}
}

// Save upserts the session by access token.
func (r *authSessionRepo) Save(ctx context.Context, s *models.AuthSession) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	s.StorageKey = models.AuthStorageKey

	_, err := r.col.UpdateOne(ctx,
		bson.M{"access_token": s.AccessToken},
		bson.M{"$set": bson.M{
			"storage_key":   s.StorageKey,
			"access_token":  s.AccessToken,
			"refresh_token": s.RefreshToken,
			"user":          s.User,
			"backend":       s.Backend,
			"created_at":    s.CreatedAt,
			"expires_at":    s.ExpiresAt.UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *authSessionRepo) GetByAccessToken(ctx context.Context, token string) (*models.AuthSession, error) {
	var s models.AuthSession
	err := r.col.FindOne(ctx, bson.M{"access_token": token}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// the TTL monitor runs about once a minute
	if !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt) {
		return nil, utils.ErrNotFound
	}
	return &s, nil
}

func (r *authSessionRepo) DeleteByAccessToken(ctx context.Context, token string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"access_token": token})
	return err
}
