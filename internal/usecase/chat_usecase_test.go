package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petmatch/internal/domain/entity"
	ws "petmatch/internal/infrastructure/websocket"
	"petmatch/pkg/errors"
)

func newTestChatUseCase(users ...*entity.User) (*ChatUseCase, *fakeChatRepo) {
	chatRepo := newFakeChatRepo()
	userRepo := newFakeUserRepo(users...)
	petRepo := newFakePetRepo()
	return NewChatUseCase(chatRepo, userRepo, petRepo, ws.NewManager()), chatRepo
}

func testUser(id, username string) *entity.User {
	return &entity.User{
		ID:       id,
		Email:    id + "@example.com",
		Username: username,
		Role:     "user",
		Status:   "active",
	}
}

func TestCreateOrGetChatNewConversation(t *testing.T) {
	uc, chatRepo := newTestChatUseCase(testUser("A", "A"), testUser("B", "Bea"))

	chat, err := uc.CreateOrGetChat(context.Background(), "A", CreateOrGetChatInput{
		PetID:     "P",
		PetName:   "Rex",
		PetImage:  "u",
		OwnerID:   "B",
		OwnerName: "Bea",
	})
	require.NoError(t, err)
	require.NotNil(t, chat)

	assert.NotEmpty(t, chat.ID)
	assert.Equal(t, "A", chat.AdopterID)
	assert.Equal(t, "B", chat.OwnerID)
	assert.Equal(t, "Rex", chat.PetName)
	assert.Equal(t, entity.ChatStatusActive, chat.Status)

	messages, err := chatRepo.GetMessagesByChat(context.Background(), chat.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "A demonstrou interesse em adotar Rex!", messages[0].Content)
	assert.Equal(t, entity.SystemSenderID, messages[0].SenderID)
	assert.Equal(t, "system", messages[0].Type)
	assert.True(t, messages[0].Read)
}

func TestCreateOrGetChatIdempotent(t *testing.T) {
	uc, chatRepo := newTestChatUseCase(testUser("A", "Ana"), testUser("B", "Bea"))

	input := CreateOrGetChatInput{
		PetID:     "P",
		PetName:   "Rex",
		OwnerID:   "B",
		OwnerName: "Bea",
	}

	first, err := uc.CreateOrGetChat(context.Background(), "A", input)
	require.NoError(t, err)

	second, err := uc.CreateOrGetChat(context.Background(), "A", input)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	// Exactly one interest message, not two.
	messages, err := chatRepo.GetMessagesByChat(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestCreateOrGetChatRejectsSelfChat(t *testing.T) {
	uc, _ := newTestChatUseCase(testUser("A", "Ana"))

	_, err := uc.CreateOrGetChat(context.Background(), "A", CreateOrGetChatInput{
		PetID:     "P",
		PetName:   "Rex",
		OwnerID:   "A",
		OwnerName: "Ana",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCreateOrGetChatUnauthenticated(t *testing.T) {
	uc, _ := newTestChatUseCase()

	_, err := uc.CreateOrGetChat(context.Background(), "", CreateOrGetChatInput{
		PetID:     "P",
		PetName:   "Rex",
		OwnerID:   "B",
		OwnerName: "Bea",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}

func TestSendMessageUpdatesTail(t *testing.T) {
	uc, chatRepo := newTestChatUseCase(testUser("A", "Ana"))

	require.NoError(t, chatRepo.Create(context.Background(), &entity.Chat{
		ID:        "c1",
		PetID:     "P",
		AdopterID: "A",
		OwnerID:   "B",
		Status:    entity.ChatStatusActive,
	}))

	_, err := uc.SendMessage(context.Background(), "A", SendMessageInput{
		ChatID:    "c1",
		Content:   "Oi!",
		Timestamp: 1000,
	})
	require.NoError(t, err)

	_, err = uc.SendMessage(context.Background(), "A", SendMessageInput{
		ChatID:    "c1",
		Content:   "Tudo bem?",
		Timestamp: 2000,
	})
	require.NoError(t, err)

	chat, err := chatRepo.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Tudo bem?", chat.LastMessage)
	assert.Equal(t, int64(2000), chat.LastMessageTime)

	messages, err := uc.GetChatMessages(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Oi!", messages[0].Content)
	assert.Equal(t, "Tudo bem?", messages[1].Content)
}

func TestSendMessageTailFailureDoesNotFailSend(t *testing.T) {
	uc, chatRepo := newTestChatUseCase(testUser("A", "Ana"))

	require.NoError(t, chatRepo.Create(context.Background(), &entity.Chat{
		ID:        "c1",
		AdopterID: "A",
		OwnerID:   "B",
		Status:    entity.ChatStatusActive,
	}))

	chatRepo.failTailUpdate = true

	msg, err := uc.SendMessage(context.Background(), "A", SendMessageInput{
		ChatID:    "c1",
		Content:   "Oi!",
		Timestamp: 1000,
	})
	require.NoError(t, err)
	require.NotNil(t, msg)

	// Message stored, tail left stale.
	messages, err := chatRepo.GetMessagesByChat(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, messages, 1)

	chat, err := chatRepo.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Empty(t, chat.LastMessage)
}

func TestSendMessageToClosedChatNotBlocked(t *testing.T) {
	uc, chatRepo := newTestChatUseCase(testUser("A", "Ana"))

	require.NoError(t, chatRepo.Create(context.Background(), &entity.Chat{
		ID:        "c1",
		AdopterID: "A",
		OwnerID:   "B",
		Status:    entity.ChatStatusClosed,
	}))

	_, err := uc.SendMessage(context.Background(), "A", SendMessageInput{
		ChatID:    "c1",
		Content:   "still here",
		Timestamp: 1000,
	})
	assert.NoError(t, err)
}

func TestSendMessageUnauthenticated(t *testing.T) {
	uc, _ := newTestChatUseCase()

	_, err := uc.SendMessage(context.Background(), "", SendMessageInput{
		ChatID:  "c1",
		Content: "Oi!",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}

func TestSubscribeToMessagesSortsByClientTimestamp(t *testing.T) {
	uc, chatRepo := newTestChatUseCase()

	// Stored out of order on purpose; the subscription must re-sort.
	for _, msg := range []*entity.Message{
		{ChatID: "c1", SenderID: "A", Content: "third", Timestamp: 3000},
		{ChatID: "c1", SenderID: "A", Content: "first", Timestamp: 1000},
		{ChatID: "c1", SenderID: "B", Content: "second", Timestamp: 2000},
	} {
		require.NoError(t, chatRepo.CreateMessage(context.Background(), msg))
	}

	var got []*entity.Message
	stop, err := uc.SubscribeToMessages(context.Background(), "c1", func(messages []*entity.Message) {
		got = messages
	})
	require.NoError(t, err)
	defer stop()

	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Content)
	assert.Equal(t, "second", got[1].Content)
	assert.Equal(t, "third", got[2].Content)
}

func TestSubscribeToMessagesStopEndsDelivery(t *testing.T) {
	uc, chatRepo := newTestChatUseCase()

	calls := 0
	stop, err := uc.SubscribeToMessages(context.Background(), "c1", func(messages []*entity.Message) {
		calls++
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls) // initial snapshot

	stop()

	require.NoError(t, chatRepo.CreateMessage(context.Background(), &entity.Message{
		ChatID: "c1", SenderID: "A", Content: "late", Timestamp: 1000,
	}))
	assert.Equal(t, 1, calls)
}

func TestSubscribeToUserChatsMergesBothRoles(t *testing.T) {
	uc, chatRepo := newTestChatUseCase()

	// u1 owns chat A and adopts in chat B.
	require.NoError(t, chatRepo.Create(context.Background(), &entity.Chat{
		ID: "A", OwnerID: "u1", AdopterID: "u2", LastMessageTime: 2000,
	}))
	require.NoError(t, chatRepo.Create(context.Background(), &entity.Chat{
		ID: "B", OwnerID: "u3", AdopterID: "u1", LastMessageTime: 1000,
	}))
	require.NoError(t, chatRepo.Create(context.Background(), &entity.Chat{
		ID: "C", OwnerID: "u2", AdopterID: "u3", LastMessageTime: 3000,
	}))

	var got []*entity.Chat
	stop, err := uc.SubscribeToUserChats(context.Background(), "u1", func(chats []*entity.Chat) {
		got = chats
	})
	require.NoError(t, err)
	defer stop()

	require.Len(t, got, 2)
	seen := map[string]int{}
	for _, chat := range got {
		seen[chat.ID]++
	}
	assert.Equal(t, 1, seen["A"])
	assert.Equal(t, 1, seen["B"])

	// Most recent activity first.
	assert.Equal(t, "A", got[0].ID)
	assert.Equal(t, "B", got[1].ID)
}

func TestSubscribeToUserChatsDeduplicates(t *testing.T) {
	uc, chatRepo := newTestChatUseCase()

	// Legacy self-chat where the user holds both roles must appear once.
	require.NoError(t, chatRepo.Create(context.Background(), &entity.Chat{
		ID: "A", OwnerID: "u1", AdopterID: "u1",
	}))

	var got []*entity.Chat
	stop, err := uc.SubscribeToUserChats(context.Background(), "u1", func(chats []*entity.Chat) {
		got = chats
	})
	require.NoError(t, err)
	defer stop()

	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].ID)
}

func TestSubscribeToUserChatsReactsToNewChats(t *testing.T) {
	uc, chatRepo := newTestChatUseCase()

	var got []*entity.Chat
	stop, err := uc.SubscribeToUserChats(context.Background(), "u1", func(chats []*entity.Chat) {
		got = chats
	})
	require.NoError(t, err)
	defer stop()

	assert.Empty(t, got)

	require.NoError(t, chatRepo.Create(context.Background(), &entity.Chat{
		ID: "A", OwnerID: "u1", AdopterID: "u2",
	}))

	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].ID)
}

func TestGetChatDataReturnsNilWhenAbsent(t *testing.T) {
	uc, _ := newTestChatUseCase()

	chat, err := uc.GetChatData(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, chat)
}

func TestCloseChatIsTerminal(t *testing.T) {
	uc, chatRepo := newTestChatUseCase(testUser("A", "Ana"))

	require.NoError(t, chatRepo.Create(context.Background(), &entity.Chat{
		ID:        "c1",
		AdopterID: "A",
		OwnerID:   "B",
		Status:    entity.ChatStatusActive,
	}))

	closed, err := uc.CloseChat(context.Background(), "A", "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.ChatStatusClosed, closed.Status)

	stored, err := chatRepo.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.ChatStatusClosed, stored.Status)
	assert.Equal(t, "Chat foi encerrado.", stored.LastMessage)

	messages, err := chatRepo.GetMessagesByChat(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Chat foi encerrado.", messages[0].Content)
	assert.Equal(t, entity.SystemSenderID, messages[0].SenderID)

	// Sending after close is not blocked; documented permissive behavior.
	_, err = uc.SendMessage(context.Background(), "A", SendMessageInput{
		ChatID:    "c1",
		Content:   "too late?",
		Timestamp: time.Now().UnixMilli(),
	})
	assert.NoError(t, err)
}

func TestMarkMessagesAsRead(t *testing.T) {
	uc, chatRepo := newTestChatUseCase(testUser("A", "Ana"))

	ctx := context.Background()
	for _, msg := range []*entity.Message{
		{ID: "m1", ChatID: "c1", SenderID: "B", Content: "hi", Timestamp: 1000},
		{ID: "m2", ChatID: "c1", SenderID: "B", Content: "there", Timestamp: 2000},
		{ID: "m3", ChatID: "c1", SenderID: "A", Content: "hello", Timestamp: 3000},
		{ID: "m4", ChatID: "c1", SenderID: "B", Content: "seen", Timestamp: 4000, Read: true},
		{ID: "m5", ChatID: "c2", SenderID: "B", Content: "other chat", Timestamp: 5000},
	} {
		require.NoError(t, chatRepo.CreateMessage(ctx, msg))
	}

	require.NoError(t, uc.MarkMessagesAsRead(ctx, "A", "c1"))

	messages, err := chatRepo.GetMessagesByChat(ctx, "c1")
	require.NoError(t, err)
	byID := map[string]*entity.Message{}
	for _, msg := range messages {
		byID[msg.ID] = msg
	}

	assert.True(t, byID["m1"].Read)
	assert.True(t, byID["m2"].Read)
	assert.False(t, byID["m3"].Read, "own messages stay untouched")
	assert.True(t, byID["m4"].Read)

	other, err := chatRepo.GetMessagesByChat(ctx, "c2")
	require.NoError(t, err)
	assert.False(t, other[0].Read, "other conversations stay untouched")
}

func TestMarkMessagesAsReadNoUnread(t *testing.T) {
	uc, chatRepo := newTestChatUseCase(testUser("A", "Ana"))

	ctx := context.Background()
	require.NoError(t, chatRepo.CreateMessage(ctx, &entity.Message{
		ID: "m1", ChatID: "c1", SenderID: "A", Content: "mine", Timestamp: 1000,
	}))

	assert.NoError(t, uc.MarkMessagesAsRead(ctx, "A", "c1"))
}

func TestSendSystemMessageMarkedRead(t *testing.T) {
	uc, chatRepo := newTestChatUseCase()

	require.NoError(t, chatRepo.Create(context.Background(), &entity.Chat{ID: "c1"}))

	msg, err := uc.SendSystemMessage(context.Background(), "c1", "announcement")
	require.NoError(t, err)
	assert.Equal(t, entity.SystemSenderID, msg.SenderID)
	assert.Equal(t, "system", msg.Type)
	assert.True(t, msg.Read)

	chat, err := chatRepo.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "announcement", chat.LastMessage)
}
