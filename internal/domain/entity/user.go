package entity

import (
	"time"
)

type User struct {
	ID        string `json:"id" firestore:"id"`
	Email     string `json:"email" firestore:"email"`
	Username  string `json:"username" firestore:"username"`
	Phone     string `json:"phone,omitempty" firestore:"phone,omitempty"`
	Bio       string `json:"bio,omitempty" firestore:"bio,omitempty"`
	Role      string `json:"role" firestore:"role"`
	Status    string `json:"status" firestore:"status"`
	AvatarURL string `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`
	Provider  string `json:"provider,omitempty" firestore:"provider,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
