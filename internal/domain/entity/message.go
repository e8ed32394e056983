package entity

// SystemSenderID is the sentinel sender of service-generated messages.
const SystemSenderID = "system"

type Message struct {
	ID           string `json:"id" firestore:"id"`
	ChatID       string `json:"chat_id" firestore:"chatId"`
	SenderID     string `json:"sender_id" firestore:"senderId"`
	SenderName   string `json:"sender_name" firestore:"senderName"`
	SenderAvatar string `json:"sender_avatar,omitempty" firestore:"senderAvatar,omitempty"`
	Content      string `json:"content" firestore:"content"`
	Type         string `json:"type" firestore:"type"` // "text", "image", "system"

	// Client-assigned millis since epoch. The sole sort key for message
	// ordering, so skewed device clocks can misorder messages.
	Timestamp int64 `json:"timestamp" firestore:"timestamp"`

	Read bool `json:"read" firestore:"read"`
}
