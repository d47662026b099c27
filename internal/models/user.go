package models

import "time"

// User is the account returned to clients. PasswordHash is only populated by
// the local auth backend.
type User struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey" json:"id" bson:"id"`
	Name         string    `gorm:"column:name;type:text" json:"name" bson:"name"`
	Email        string    `gorm:"column:email;type:text;uniqueIndex" json:"email" bson:"email"`
	Avatar       string    `gorm:"column:avatar;type:text" json:"avatar,omitempty" bson:"avatar,omitempty"`
	PasswordHash string    `gorm:"column:password_hash;type:text" json:"-" bson:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at" bson:"created_at"`
}

func (User) TableName() string { return "users" }

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}
