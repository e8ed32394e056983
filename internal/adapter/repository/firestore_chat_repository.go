package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"petmatch/internal/domain/entity"
	"petmatch/internal/domain/repository"
	"petmatch/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("chats").Doc(chat.ID).Set(ctx, chat)
	if err != nil {
		return errors.Internal("Failed to create chat", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.client.Collection("chats").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", nil)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}

	return &chat, nil
}

// GetByTriple scans the conversations of a pet for the one held between the
// given adopter and owner. The scan-then-create sequence built on top of this
// is not atomic; two concurrent creations for the same triple can both miss
// and insert duplicates.
func (r *firestoreChatRepository) GetByTriple(ctx context.Context, petID, adopterID, ownerID string) (*entity.Chat, error) {
	query := r.client.Collection("chats").Where("petId", "==", petID)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query chats by pet", err)
	}

	for _, doc := range docs {
		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			continue // Skip malformed documents
		}

		if chat.AdopterID == adopterID && chat.OwnerID == ownerID {
			chat.ID = doc.Ref.ID
			return &chat, nil
		}
	}

	return nil, errors.NotFound("Chat", nil)
}

func (r *firestoreChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	_, err := r.client.Collection("chats").Doc(chat.ID).Set(ctx, chat)
	if err != nil {
		return errors.Internal("Failed to update chat", err)
	}

	return nil
}

func (r *firestoreChatRepository) UpdateTail(ctx context.Context, chatID, lastMessage string, lastMessageTime int64) error {
	_, err := r.client.Collection("chats").Doc(chatID).Update(ctx, []firestore.Update{
		{Path: "lastMessage", Value: lastMessage},
		{Path: "lastMessageTime", Value: lastMessageTime},
	})
	if err != nil {
		return errors.Internal("Failed to update chat tail", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*entity.Chat, error) {
	return r.listByField(ctx, "ownerId", ownerID)
}

func (r *firestoreChatRepository) ListByAdopterID(ctx context.Context, adopterID string) ([]*entity.Chat, error) {
	return r.listByField(ctx, "adopterId", adopterID)
}

func (r *firestoreChatRepository) listByField(ctx context.Context, field, value string) ([]*entity.Chat, error) {
	docs, err := r.client.Collection("chats").Where(field, "==", value).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to fetch chats", err)
	}

	var chats []*entity.Chat
	for _, doc := range docs {
		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			log.Printf("Error parsing chat data for %s=%s: %v", field, value, err)
			continue
		}
		chats = append(chats, &chat)
	}

	return chats, nil
}

func (r *firestoreChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	_, err := r.client.Collection("chats").Doc(message.ChatID).Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetMessagesByChat(ctx context.Context, chatID string) ([]*entity.Message, error) {
	iter := r.client.Collection("chats").Doc(chatID).Collection("messages").Documents(ctx)

	var messages []*entity.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while iterating messages for chat %s: %v", chatID, err)
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			log.Printf("Error parsing message data for chat %s: %v", chatID, err)
			return nil, errors.Internal("Failed to parse message data", err)
		}

		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreChatRepository) MarkMessagesRead(ctx context.Context, chatID string, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return nil
	}

	messagesRef := r.client.Collection("chats").Doc(chatID).Collection("messages")

	batch := r.client.Batch()
	for _, id := range messageIDs {
		batch.Update(messagesRef.Doc(id), []firestore.Update{
			{Path: "read", Value: true},
		})
	}

	if _, err := batch.Commit(ctx); err != nil {
		return errors.Internal("Failed to mark messages as read", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListenToMessages(ctx context.Context, chatID string, fn repository.MessageListener) (func(), error) {
	listenCtx, cancel := context.WithCancel(ctx)
	snapshots := r.client.Collection("chats").Doc(chatID).Collection("messages").Snapshots(listenCtx)

	go func() {
		defer snapshots.Stop()
		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Message listener for chat %s stopped: %v", chatID, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				log.Printf("Failed to read message snapshot for chat %s: %v", chatID, err)
				continue
			}

			var messages []*entity.Message
			for _, doc := range docs {
				var message entity.Message
				if err := doc.DataTo(&message); err != nil {
					log.Printf("Error parsing message data for chat %s: %v", chatID, err)
					continue
				}
				messages = append(messages, &message)
			}

			fn(messages)
		}
	}()

	return cancel, nil
}

func (r *firestoreChatRepository) ListenToChatsByOwner(ctx context.Context, ownerID string, fn repository.ChatListener) (func(), error) {
	return r.listenByField(ctx, "ownerId", ownerID, fn)
}

func (r *firestoreChatRepository) ListenToChatsByAdopter(ctx context.Context, adopterID string, fn repository.ChatListener) (func(), error) {
	return r.listenByField(ctx, "adopterId", adopterID, fn)
}

func (r *firestoreChatRepository) listenByField(ctx context.Context, field, value string, fn repository.ChatListener) (func(), error) {
	listenCtx, cancel := context.WithCancel(ctx)
	snapshots := r.client.Collection("chats").Where(field, "==", value).Snapshots(listenCtx)

	go func() {
		defer snapshots.Stop()
		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Chat listener for %s=%s stopped: %v", field, value, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				log.Printf("Failed to read chat snapshot for %s=%s: %v", field, value, err)
				continue
			}

			var chats []*entity.Chat
			for _, doc := range docs {
				var chat entity.Chat
				if err := doc.DataTo(&chat); err != nil {
					log.Printf("Error parsing chat data for %s=%s: %v", field, value, err)
					continue
				}
				chats = append(chats, &chat)
			}

			fn(chats)
		}
	}()

	return cancel, nil
}
