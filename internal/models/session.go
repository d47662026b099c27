package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthStorageKey is the fixed store name of the auth session.
const AuthStorageKey = "auth-storage"

// AuthSession is the persisted auth state: the user plus the token it was
// issued.
type AuthSession struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	StorageKey   string             `bson:"storage_key" json:"storage_key"`
	AccessToken  string             `bson:"access_token" json:"access_token"`
	RefreshToken string             `bson:"refresh_token,omitempty" json:"refresh_token,omitempty"`
	User         User               `bson:"user" json:"user"`
	Backend      string             `bson:"backend" json:"backend"` // local|upstream

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"` // TTL index
}
