package repository

import (
	"context"

	"petmatch/internal/domain/entity"
)

// MessageListener receives the full message set of a chat every time the
// store reports a change. A listener may be invoked arbitrarily many times
// until its stop function is called.
type MessageListener func(messages []*entity.Message)

// ChatListener receives the full result set of a filtered chat query every
// time the store reports a change.
type ChatListener func(chats []*entity.Chat)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	// GetByTriple looks up the conversation identified by
	// (petID, adopterID, ownerID). Returns a NOT_FOUND AppError when absent.
	GetByTriple(ctx context.Context, petID, adopterID, ownerID string) (*entity.Chat, error)
	Update(ctx context.Context, chat *entity.Chat) error
	// UpdateTail writes only the denormalized lastMessage/lastMessageTime
	// fields. Separate from the message append; the pair is not atomic.
	UpdateTail(ctx context.Context, chatID, lastMessage string, lastMessageTime int64) error
	ListByOwnerID(ctx context.Context, ownerID string) ([]*entity.Chat, error)
	ListByAdopterID(ctx context.Context, adopterID string) ([]*entity.Chat, error)

	CreateMessage(ctx context.Context, message *entity.Message) error
	GetMessagesByChat(ctx context.Context, chatID string) ([]*entity.Message, error)
	// MarkMessagesRead applies a single batched update setting read=true on
	// exactly the given message ids.
	MarkMessagesRead(ctx context.Context, chatID string, messageIDs []string) error

	// Live subscriptions. Each returns a stop function that detaches the
	// listener; the caller must invoke it on teardown.
	ListenToMessages(ctx context.Context, chatID string, fn MessageListener) (func(), error)
	ListenToChatsByOwner(ctx context.Context, ownerID string, fn ChatListener) (func(), error)
	ListenToChatsByAdopter(ctx context.Context, adopterID string, fn ChatListener) (func(), error)
}
