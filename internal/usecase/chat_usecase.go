package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"petmatch/internal/domain/entity"
	"petmatch/internal/domain/repository"
	"petmatch/internal/infrastructure/ratelimit"
	ws "petmatch/internal/infrastructure/websocket"
	"petmatch/pkg/errors"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	petRepo     repository.PetRepository
	wsManager   *ws.Manager
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	petRepo repository.PetRepository,
	wsManager *ws.Manager,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		petRepo:     petRepo,
		wsManager:   wsManager,
		rateLimiter: rateLimiter,
	}
}

type CreateOrGetChatInput struct {
	PetID       string `json:"pet_id" validate:"required"`
	PetName     string `json:"pet_name" validate:"required"`
	PetImage    string `json:"pet_image"`
	OwnerID     string `json:"owner_id" validate:"required"`
	OwnerName   string `json:"owner_name" validate:"required"`
	OwnerAvatar string `json:"owner_avatar"`
}

type SendMessageInput struct {
	ChatID  string `json:"chat_id" validate:"required"`
	Content string `json:"content" validate:"required"`
	Type    string `json:"type"` // "text" or "image", defaults to "text"
	// Client-assigned millis. Zero means "now" on the server clock.
	Timestamp int64 `json:"timestamp"`
}

// CreateOrGetChat returns the conversation for (pet, caller, owner), creating
// it with an interest system message when it does not exist yet. A second
// call with the same triple returns the existing chat untouched.
func (uc *ChatUseCase) CreateOrGetChat(ctx context.Context, userID string, input CreateOrGetChatInput) (*entity.Chat, error) {
	if userID == "" {
		return nil, errors.Unauthorized("You must be logged in to start a chat", nil)
	}

	if userID == input.OwnerID {
		log.Printf("CreateOrGetChat Error: User %s attempted to chat about their own pet %s", userID, input.PetID)
		return nil, errors.BadRequest("You cannot start a chat about your own pet", nil)
	}

	existing, err := uc.chatRepo.GetByTriple(ctx, input.PetID, userID, input.OwnerID)
	if err == nil && existing != nil {
		return existing, nil
	}
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		log.Printf("CreateOrGetChat Error: Failed to look up existing chat: %v", err)
		return nil, err
	}

	allowed, waitTime := uc.rateLimiter.Allow(userID, "create_chat")
	if !allowed {
		log.Printf("CreateOrGetChat Rate Limited: User %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before starting another chat", waitTime)
	}

	adopter, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("CreateOrGetChat Error: Adopter %s not found: %v", userID, err)
		return nil, errors.NotFound("User", err)
	}

	petName := input.PetName
	petImage := input.PetImage
	if petName == "" || petImage == "" {
		if pet, err := uc.petRepo.GetByID(ctx, input.PetID); err == nil {
			if petName == "" {
				petName = pet.Name
			}
			if petImage == "" {
				petImage = pet.MainImage()
			}
		}
	}

	chat := &entity.Chat{
		PetID:         input.PetID,
		PetName:       petName,
		PetImage:      petImage,
		AdopterID:     userID,
		AdopterName:   adopter.Username,
		AdopterAvatar: adopter.AvatarURL,
		OwnerID:       input.OwnerID,
		OwnerName:     input.OwnerName,
		OwnerAvatar:   input.OwnerAvatar,
		Status:        entity.ChatStatusActive,
		CreatedAt:     time.Now(),
	}

	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		log.Printf("CreateOrGetChat Error: Failed to create chat: %v", err)
		return nil, err
	}

	greeting := fmt.Sprintf("%s demonstrou interesse em adotar %s!", adopter.Username, petName)
	if msg, err := uc.SendSystemMessage(ctx, chat.ID, greeting); err != nil {
		log.Printf("CreateOrGetChat Warning: Failed to send interest message for chat %s: %v", chat.ID, err)
	} else {
		chat.LastMessage = greeting
		chat.LastMessageTime = msg.Timestamp
	}

	return chat, nil
}

// SendMessage appends a message to the chat, then updates the chat's
// denormalized tail. The two writes are not atomic; a tail failure leaves an
// orphaned message and is only logged.
func (uc *ChatUseCase) SendMessage(ctx context.Context, userID string, input SendMessageInput) (*entity.Message, error) {
	if userID == "" {
		return nil, errors.Unauthorized("You must be logged in to send messages", nil)
	}

	allowed, waitTime := uc.rateLimiter.Allow(userID, "send_message")
	if !allowed {
		log.Printf("SendMessage Rate Limited: User %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before sending another message", waitTime)
	}

	sender, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("SendMessage Error: Sender %s not found: %v", userID, err)
		return nil, errors.NotFound("User", err)
	}

	msgType := input.Type
	if msgType == "" {
		msgType = "text"
	}

	timestamp := input.Timestamp
	if timestamp == 0 {
		timestamp = time.Now().UnixMilli()
	}

	message := &entity.Message{
		ChatID:       input.ChatID,
		SenderID:     userID,
		SenderName:   sender.Username,
		SenderAvatar: sender.AvatarURL,
		Content:      input.Content,
		Type:         msgType,
		Timestamp:    timestamp,
		Read:         false,
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		log.Printf("SendMessage Error: Failed to store message in chat %s: %v", input.ChatID, err)
		return nil, err
	}

	if err := uc.chatRepo.UpdateTail(ctx, input.ChatID, input.Content, timestamp); err != nil {
		log.Printf("SendMessage Warning: Message %s stored but tail update failed for chat %s: %v", message.ID, input.ChatID, err)
	}

	uc.broadcastToChatRoom(input.ChatID, "new_message", message, userID)

	return message, nil
}

// SendSystemMessage appends a service-generated message. System messages are
// stored already read so they never count as pending for either participant.
func (uc *ChatUseCase) SendSystemMessage(ctx context.Context, chatID, content string) (*entity.Message, error) {
	timestamp := time.Now().UnixMilli()

	message := &entity.Message{
		ChatID:     chatID,
		SenderID:   entity.SystemSenderID,
		SenderName: "Sistema",
		Content:    content,
		Type:       "system",
		Timestamp:  timestamp,
		Read:       true,
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		log.Printf("SendSystemMessage Error: Failed to store system message in chat %s: %v", chatID, err)
		return nil, err
	}

	if err := uc.chatRepo.UpdateTail(ctx, chatID, content, timestamp); err != nil {
		log.Printf("SendSystemMessage Warning: Tail update failed for chat %s: %v", chatID, err)
	}

	uc.broadcastToChatRoom(chatID, "new_message", message, "")

	return message, nil
}

// GetChatData returns the chat or (nil, nil) when it does not exist.
func (uc *ChatUseCase) GetChatData(ctx context.Context, chatID string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, nil
		}
		return nil, err
	}
	return chat, nil
}

// GetChatMessages returns the chat's messages sorted ascending by their
// client-assigned timestamp.
func (uc *ChatUseCase) GetChatMessages(ctx context.Context, chatID string) ([]*entity.Message, error) {
	messages, err := uc.chatRepo.GetMessagesByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	sortMessages(messages)
	return messages, nil
}

// GetUserChats returns every chat the user participates in, as adopter or
// owner, deduplicated by id.
func (uc *ChatUseCase) GetUserChats(ctx context.Context, userID string) ([]*entity.Chat, error) {
	if userID == "" {
		return nil, errors.Unauthorized("You must be logged in to list chats", nil)
	}

	asOwner, err := uc.chatRepo.ListByOwnerID(ctx, userID)
	if err != nil {
		return nil, err
	}
	asAdopter, err := uc.chatRepo.ListByAdopterID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return mergeChatLists(asOwner, asAdopter), nil
}

// SubscribeToMessages delivers the chat's full message list, sorted by
// client timestamp, on every change. Returns a stop function.
func (uc *ChatUseCase) SubscribeToMessages(ctx context.Context, chatID string, fn repository.MessageListener) (func(), error) {
	return uc.chatRepo.ListenToMessages(ctx, chatID, func(messages []*entity.Message) {
		sortMessages(messages)
		fn(messages)
	})
}

// SubscribeToUserChats attaches one listener for chats where the user is the
// owner and one where they are the adopter, and delivers the deduplicated
// union whenever either side changes. Returns a stop function that detaches
// both listeners.
func (uc *ChatUseCase) SubscribeToUserChats(ctx context.Context, userID string, fn repository.ChatListener) (func(), error) {
	if userID == "" {
		return nil, errors.Unauthorized("You must be logged in to subscribe to chats", nil)
	}

	var mu sync.Mutex
	var ownerChats, adopterChats []*entity.Chat

	emit := func() {
		mu.Lock()
		merged := mergeChatLists(ownerChats, adopterChats)
		mu.Unlock()
		fn(merged)
	}

	stopOwner, err := uc.chatRepo.ListenToChatsByOwner(ctx, userID, func(chats []*entity.Chat) {
		mu.Lock()
		ownerChats = chats
		mu.Unlock()
		emit()
	})
	if err != nil {
		return nil, err
	}

	stopAdopter, err := uc.chatRepo.ListenToChatsByAdopter(ctx, userID, func(chats []*entity.Chat) {
		mu.Lock()
		adopterChats = chats
		mu.Unlock()
		emit()
	})
	if err != nil {
		stopOwner()
		return nil, err
	}

	return func() {
		stopOwner()
		stopAdopter()
	}, nil
}

// CloseChat marks the conversation closed and posts a closing system message.
// Closing is terminal; there is no reopen operation.
func (uc *ChatUseCase) CloseChat(ctx context.Context, userID, chatID string) (*entity.Chat, error) {
	if userID == "" {
		return nil, errors.Unauthorized("You must be logged in to close a chat", nil)
	}

	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	const closingNote = "Chat foi encerrado."

	chat.Status = entity.ChatStatusClosed
	chat.LastMessage = closingNote
	chat.LastMessageTime = time.Now().UnixMilli()

	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		log.Printf("CloseChat Error: Failed to close chat %s: %v", chatID, err)
		return nil, err
	}

	if _, err := uc.SendSystemMessage(ctx, chatID, closingNote); err != nil {
		log.Printf("CloseChat Warning: Chat %s closed but closing message failed: %v", chatID, err)
	}

	return chat, nil
}

// MarkMessagesAsRead marks every unread message from other senders in the
// chat as read, in a single batched update. Messages already read and the
// caller's own messages are left untouched.
func (uc *ChatUseCase) MarkMessagesAsRead(ctx context.Context, userID, chatID string) error {
	if userID == "" {
		return errors.Unauthorized("You must be logged in to mark messages as read", nil)
	}

	messages, err := uc.chatRepo.GetMessagesByChat(ctx, chatID)
	if err != nil {
		return err
	}

	var ids []string
	for _, msg := range messages {
		if msg.SenderID != userID && !msg.Read {
			ids = append(ids, msg.ID)
		}
	}

	if len(ids) == 0 {
		return nil
	}

	return uc.chatRepo.MarkMessagesRead(ctx, chatID, ids)
}

// HandleTypingEvent relays a typing indicator to the other participants in
// the chat room. Indicators are transient and never stored.
func (uc *ChatUseCase) HandleTypingEvent(userID, chatID string, isTyping bool) error {
	allowed, _ := uc.rateLimiter.Allow(userID, "typing")
	if !allowed {
		// Silently dropped; typing indicators are best effort.
		return nil
	}

	uc.broadcastToChatRoom(chatID, "typing", map[string]interface{}{
		"chat_id":   chatID,
		"user_id":   userID,
		"is_typing": isTyping,
	}, userID)

	return nil
}

func (uc *ChatUseCase) broadcastToChatRoom(chatID, event string, payload interface{}, excludeUserID string) {
	if uc.wsManager == nil {
		return
	}

	data, err := json.Marshal(map[string]interface{}{
		"type":    event,
		"payload": payload,
	})
	if err != nil {
		log.Printf("Broadcast Error: Failed to marshal %s event for chat %s: %v", event, chatID, err)
		return
	}

	uc.wsManager.SendToChatRoom(chatID, data, excludeUserID)
}

func sortMessages(messages []*entity.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp < messages[j].Timestamp
	})
}

// mergeChatLists unions the owner-side and adopter-side result sets,
// deduplicating by chat id. The owner-side copy wins on overlap, which only
// matters for self-chats that predate the self-chat guard.
func mergeChatLists(ownerChats, adopterChats []*entity.Chat) []*entity.Chat {
	merged := make([]*entity.Chat, 0, len(ownerChats)+len(adopterChats))
	seen := make(map[string]bool, len(ownerChats))

	for _, chat := range ownerChats {
		if !seen[chat.ID] {
			seen[chat.ID] = true
			merged = append(merged, chat)
		}
	}
	for _, chat := range adopterChats {
		if !seen[chat.ID] {
			seen[chat.ID] = true
			merged = append(merged, chat)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].LastMessageTime > merged[j].LastMessageTime
	})

	return merged
}
