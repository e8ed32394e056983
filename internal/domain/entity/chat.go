package entity

import "time"

// Chat is a conversation between the adopter interested in a pet and the
// pet's owner. Pet and participant display fields are denormalized snapshots
// taken at creation time, not live joins.
type Chat struct {
	ID       string `json:"id" firestore:"id"`
	PetID    string `json:"pet_id" firestore:"petId"`
	PetName  string `json:"pet_name" firestore:"petName"`
	PetImage string `json:"pet_image,omitempty" firestore:"petImage,omitempty"`

	AdopterID     string `json:"adopter_id" firestore:"adopterId"`
	AdopterName   string `json:"adopter_name" firestore:"adopterName"`
	AdopterAvatar string `json:"adopter_avatar,omitempty" firestore:"adopterAvatar,omitempty"`
	OwnerID       string `json:"owner_id" firestore:"ownerId"`
	OwnerName     string `json:"owner_name" firestore:"ownerName"`
	OwnerAvatar   string `json:"owner_avatar,omitempty" firestore:"ownerAvatar,omitempty"`

	LastMessage     string `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageTime int64  `json:"last_message_time" firestore:"lastMessageTime"` // millis since epoch

	// Unread counters are part of the stored schema but no operation
	// maintains them yet.
	UnreadCount        int `json:"unread_count" firestore:"unreadCount"`
	AdopterUnreadCount int `json:"adopter_unread_count" firestore:"adopterUnreadCount"`
	OwnerUnreadCount   int `json:"owner_unread_count" firestore:"ownerUnreadCount"`

	Status    string    `json:"status" firestore:"status"` // "active", "pending", "closed"
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

const (
	ChatStatusActive  = "active"
	ChatStatusPending = "pending"
	ChatStatusClosed  = "closed"
)
