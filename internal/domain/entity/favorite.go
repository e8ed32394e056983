package entity

import (
	"time"
)

type Favorite struct {
	ID                 string    `json:"id" firestore:"id"`
	UserID             string    `json:"user_id" firestore:"userId"`
	PetID              string    `json:"pet_id" firestore:"petId"`
	NotifyStatusChange bool      `json:"notify_status_change" firestore:"notifyStatusChange"`
	CreatedAt          time.Time `json:"created_at" firestore:"createdAt"`
}

type FavoriteWithPet struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	PetID              string    `json:"pet_id"`
	NotifyStatusChange bool      `json:"notify_status_change"`
	Pet                *Pet      `json:"pet"`
	CreatedAt          time.Time `json:"created_at"`
}
