package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"petmatch/internal/domain/entity"
	"petmatch/internal/domain/repository"
	"petmatch/pkg/errors"
)

// In-memory repositories used by the usecase tests. Listeners fire an
// initial snapshot on registration and again after every mutation, the same
// contract the Firestore adapters provide.

type fakeChatRepo struct {
	mu       sync.Mutex
	chats    map[string]*entity.Chat
	messages map[string][]*entity.Message
	nextID   int

	msgListeners  map[string]map[int]repository.MessageListener
	chatListeners map[int]chatListenerEntry
	listenerSeq   int

	failTailUpdate bool
}

type chatListenerEntry struct {
	field string // "ownerId" or "adopterId"
	value string
	fn    repository.ChatListener
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:         make(map[string]*entity.Chat),
		messages:      make(map[string][]*entity.Message),
		msgListeners:  make(map[string]map[int]repository.MessageListener),
		chatListeners: make(map[int]chatListenerEntry),
	}
}

func (r *fakeChatRepo) genID(prefix string) string {
	r.nextID++
	return fmt.Sprintf("%s-%d", prefix, r.nextID)
}

func (r *fakeChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	if chat.ID == "" {
		chat.ID = r.genID("chat")
	}
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now()
	}
	copied := *chat
	r.chats[chat.ID] = &copied
	r.mu.Unlock()

	r.notifyChatListeners()
	return nil
}

func (r *fakeChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	copied := *chat
	return &copied, nil
}

func (r *fakeChatRepo) GetByTriple(ctx context.Context, petID, adopterID, ownerID string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, chat := range r.chats {
		if chat.PetID == petID && chat.AdopterID == adopterID && chat.OwnerID == ownerID {
			copied := *chat
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Chat", nil)
}

func (r *fakeChatRepo) Update(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	copied := *chat
	r.chats[chat.ID] = &copied
	r.mu.Unlock()

	r.notifyChatListeners()
	return nil
}

func (r *fakeChatRepo) UpdateTail(ctx context.Context, chatID, lastMessage string, lastMessageTime int64) error {
	r.mu.Lock()
	if r.failTailUpdate {
		r.mu.Unlock()
		return errors.Internal("tail update failed", nil)
	}
	chat, ok := r.chats[chatID]
	if !ok {
		r.mu.Unlock()
		return errors.NotFound("Chat", nil)
	}
	chat.LastMessage = lastMessage
	chat.LastMessageTime = lastMessageTime
	r.mu.Unlock()

	r.notifyChatListeners()
	return nil
}

func (r *fakeChatRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*entity.Chat, error) {
	return r.listByField("ownerId", ownerID), nil
}

func (r *fakeChatRepo) ListByAdopterID(ctx context.Context, adopterID string) ([]*entity.Chat, error) {
	return r.listByField("adopterId", adopterID), nil
}

func (r *fakeChatRepo) listByField(field, value string) []*entity.Chat {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Chat
	for _, chat := range r.chats {
		if (field == "ownerId" && chat.OwnerID == value) ||
			(field == "adopterId" && chat.AdopterID == value) {
			copied := *chat
			result = append(result, &copied)
		}
	}
	return result
}

func (r *fakeChatRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	if message.ID == "" {
		message.ID = r.genID("msg")
	}
	copied := *message
	r.messages[message.ChatID] = append(r.messages[message.ChatID], &copied)
	r.mu.Unlock()

	r.notifyMessageListeners(message.ChatID)
	return nil
}

func (r *fakeChatRepo) GetMessagesByChat(ctx context.Context, chatID string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotMessages(chatID), nil
}

// snapshotMessages copies the stored message list. Callers must hold mu.
func (r *fakeChatRepo) snapshotMessages(chatID string) []*entity.Message {
	stored := r.messages[chatID]
	result := make([]*entity.Message, 0, len(stored))
	for _, msg := range stored {
		copied := *msg
		result = append(result, &copied)
	}
	return result
}

func (r *fakeChatRepo) MarkMessagesRead(ctx context.Context, chatID string, messageIDs []string) error {
	r.mu.Lock()
	ids := make(map[string]bool, len(messageIDs))
	for _, id := range messageIDs {
		ids[id] = true
	}
	for _, msg := range r.messages[chatID] {
		if ids[msg.ID] {
			msg.Read = true
		}
	}
	r.mu.Unlock()

	r.notifyMessageListeners(chatID)
	return nil
}

func (r *fakeChatRepo) ListenToMessages(ctx context.Context, chatID string, fn repository.MessageListener) (func(), error) {
	r.mu.Lock()
	r.listenerSeq++
	id := r.listenerSeq
	if r.msgListeners[chatID] == nil {
		r.msgListeners[chatID] = make(map[int]repository.MessageListener)
	}
	r.msgListeners[chatID][id] = fn
	initial := r.snapshotMessages(chatID)
	r.mu.Unlock()

	fn(initial)

	return func() {
		r.mu.Lock()
		delete(r.msgListeners[chatID], id)
		r.mu.Unlock()
	}, nil
}

func (r *fakeChatRepo) ListenToChatsByOwner(ctx context.Context, ownerID string, fn repository.ChatListener) (func(), error) {
	return r.listenChats("ownerId", ownerID, fn)
}

func (r *fakeChatRepo) ListenToChatsByAdopter(ctx context.Context, adopterID string, fn repository.ChatListener) (func(), error) {
	return r.listenChats("adopterId", adopterID, fn)
}

func (r *fakeChatRepo) listenChats(field, value string, fn repository.ChatListener) (func(), error) {
	r.mu.Lock()
	r.listenerSeq++
	id := r.listenerSeq
	r.chatListeners[id] = chatListenerEntry{field: field, value: value, fn: fn}
	r.mu.Unlock()

	fn(r.listByField(field, value))

	return func() {
		r.mu.Lock()
		delete(r.chatListeners, id)
		r.mu.Unlock()
	}, nil
}

func (r *fakeChatRepo) notifyMessageListeners(chatID string) {
	r.mu.Lock()
	listeners := make([]repository.MessageListener, 0, len(r.msgListeners[chatID]))
	for _, fn := range r.msgListeners[chatID] {
		listeners = append(listeners, fn)
	}
	snapshot := r.snapshotMessages(chatID)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

func (r *fakeChatRepo) notifyChatListeners() {
	r.mu.Lock()
	entries := make([]chatListenerEntry, 0, len(r.chatListeners))
	for _, entry := range r.chatListeners {
		entries = append(entries, entry)
	}
	r.mu.Unlock()

	for _, entry := range entries {
		entry.fn(r.listByField(entry.field, entry.value))
	}
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type fakePetRepo struct {
	mu     sync.Mutex
	pets   map[string]*entity.Pet
	nextID int
}

func newFakePetRepo(pets ...*entity.Pet) *fakePetRepo {
	repo := &fakePetRepo{pets: make(map[string]*entity.Pet)}
	for _, pet := range pets {
		repo.pets[pet.ID] = pet
	}
	return repo
}

func (r *fakePetRepo) Create(ctx context.Context, pet *entity.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pet.ID == "" {
		r.nextID++
		pet.ID = fmt.Sprintf("pet-%d", r.nextID)
	}
	copied := *pet
	r.pets[pet.ID] = &copied
	return nil
}

func (r *fakePetRepo) GetByID(ctx context.Context, id string) (*entity.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pet, ok := r.pets[id]
	if !ok || pet.DeletedAt != nil {
		return nil, errors.NotFound("Pet", nil)
	}
	copied := *pet
	return &copied, nil
}

func (r *fakePetRepo) List(ctx context.Context, filter repository.PetFilter, limit, offset int) ([]*entity.Pet, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Pet
	for _, pet := range r.pets {
		if pet.DeletedAt != nil {
			continue
		}
		if filter.Species != "" && pet.Species != filter.Species {
			continue
		}
		if filter.City != "" && pet.City != filter.City {
			continue
		}
		if filter.Status != "" && pet.Status != filter.Status {
			continue
		}
		copied := *pet
		matched = append(matched, &copied)
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakePetRepo) ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Pet, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Pet
	for _, pet := range r.pets {
		if pet.DeletedAt == nil && pet.OwnerID == ownerID {
			copied := *pet
			matched = append(matched, &copied)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *fakePetRepo) Update(ctx context.Context, pet *entity.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *pet
	r.pets[pet.ID] = &copied
	return nil
}

func (r *fakePetRepo) SoftDelete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pet, ok := r.pets[id]
	if !ok {
		return errors.NotFound("Pet", nil)
	}
	now := time.Now()
	pet.DeletedAt = &now
	return nil
}

func (r *fakePetRepo) IncrementViews(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pet, ok := r.pets[id]
	if !ok {
		return errors.NotFound("Pet", nil)
	}
	pet.Views++
	return nil
}

type fakeFavoriteRepo struct {
	mu        sync.Mutex
	favorites map[string]*entity.Favorite // keyed userID+":"+petID
	nextID    int
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[string]*entity.Favorite)}
}

func favKey(userID, petID string) string {
	return userID + ":" + petID
}

func (r *fakeFavoriteRepo) Add(ctx context.Context, userID, petID string) (*entity.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.favorites[favKey(userID, petID)]; ok {
		copied := *existing
		return &copied, nil
	}

	r.nextID++
	fav := &entity.Favorite{
		ID:                 fmt.Sprintf("fav-%d", r.nextID),
		UserID:             userID,
		PetID:              petID,
		NotifyStatusChange: true,
		CreatedAt:          time.Now(),
	}
	r.favorites[favKey(userID, petID)] = fav
	copied := *fav
	return &copied, nil
}

func (r *fakeFavoriteRepo) Remove(ctx context.Context, userID, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.favorites, favKey(userID, petID))
	return nil
}

func (r *fakeFavoriteRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Favorite, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Favorite
	for _, fav := range r.favorites {
		if fav.UserID == userID {
			copied := *fav
			matched = append(matched, &copied)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeFavoriteRepo) ListByPetID(ctx context.Context, petID string) ([]*entity.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Favorite
	for _, fav := range r.favorites {
		if fav.PetID == petID {
			copied := *fav
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (r *fakeFavoriteRepo) IsFavorite(ctx context.Context, userID, petID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.favorites[favKey(userID, petID)]
	return ok, nil
}

func (r *fakeFavoriteRepo) Count(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, fav := range r.favorites {
		if fav.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeFavoriteRepo) SetNotify(ctx context.Context, userID, petID string, notify bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fav, ok := r.favorites[favKey(userID, petID)]
	if !ok {
		return errors.NotFound("Favorite", nil)
	}
	fav.NotifyStatusChange = notify
	return nil
}
