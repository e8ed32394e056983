package websocket

import (
	"context"
	"log"
	"sync"
)

// Manager tracks active WebSocket connections by user and the chat rooms
// each connection has joined.
type Manager struct {
	clients    map[string]*Client            // userID -> client
	rooms      map[string]map[string]*Client // chatID -> userID -> client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's registration loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				log.Printf("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if current, ok := m.clients[client.UserID]; ok && current == client {
					delete(m.clients, client.UserID)
				}
				for chatID, members := range m.rooms {
					if members[client.UserID] == client {
						delete(members, client.UserID)
						if len(members) == 0 {
							delete(m.rooms, chatID)
						}
					}
				}
				m.mutex.Unlock()

				client.CloseSubscriptions()
				client.closeSend()
				log.Printf("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// SendToUser sends a message to a specific user, dropping it if the user has
// no connection or a full send buffer.
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if !ok {
		return
	}

	select {
	case client.Send <- message:
	default:
		log.Printf("Dropping message for user %s: send buffer full", userID)
	}
}

// SendToChatRoom broadcasts a message to every connection joined to the chat
// room, optionally excluding one user (typically the sender).
func (m *Manager) SendToChatRoom(chatID string, message []byte, excludeUserID string) {
	m.mutex.RLock()
	members := make([]*Client, 0, len(m.rooms[chatID]))
	for userID, client := range m.rooms[chatID] {
		if userID == excludeUserID {
			continue
		}
		members = append(members, client)
	}
	m.mutex.RUnlock()

	for _, client := range members {
		select {
		case client.Send <- message:
		default:
			log.Printf("Dropping room message for user %s: send buffer full", client.UserID)
		}
	}
}

func (m *Manager) JoinChatRoom(chatID string, client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.rooms[chatID] == nil {
		m.rooms[chatID] = make(map[string]*Client)
	}
	m.rooms[chatID][client.UserID] = client
}

func (m *Manager) LeaveChatRoom(chatID string, client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if members, ok := m.rooms[chatID]; ok {
		if members[client.UserID] == client {
			delete(members, client.UserID)
			if len(members) == 0 {
				delete(m.rooms, chatID)
			}
		}
	}
}
