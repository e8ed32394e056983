package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"petmatch/internal/adapter/api/middleware"
	"petmatch/internal/domain/entity"
	ws "petmatch/internal/infrastructure/websocket"
	"petmatch/internal/usecase"
	"petmatch/pkg/errors"
)

type WebSocketHandler struct {
	wsManager      *ws.Manager
	chatUseCase    *usecase.ChatUseCase
	authMiddleware *middleware.AuthMiddleware
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // You should restrict this in production
	},
}

func SetupWebSocketHandler(wsManager *ws.Manager, chatUseCase *usecase.ChatUseCase, authMiddleware *middleware.AuthMiddleware) {
	websocketHandler = &WebSocketHandler{
		wsManager:      wsManager,
		chatUseCase:    chatUseCase,
		authMiddleware: authMiddleware,
	}
}

// HandleWebSocket upgrades the connection. Browsers cannot set headers on
// the WebSocket handshake, so the ID token arrives as a query parameter.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return errors.Unauthorized("Authentication token required", nil)
	}

	userID, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
	if err != nil {
		return errors.Unauthorized("Invalid or expired token", err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := ws.NewClient(userID, conn)

	h.wsManager.Register <- client

	go client.ReadPump(h.wsManager, h)
	go client.WritePump()

	return nil
}

type clientEvent struct {
	Type    string `json:"type"`
	ChatID  string `json:"chat_id,omitempty"`
	Content string `json:"content,omitempty"`
	// Client-assigned millis for send_message.
	Timestamp int64 `json:"timestamp,omitempty"`
	IsTyping  bool  `json:"is_typing,omitempty"`
}

// HandleClientMessage dispatches one inbound client event. It runs on the
// connection's read goroutine.
func (h *WebSocketHandler) HandleClientMessage(client *ws.Client, message []byte) {
	var event clientEvent
	if err := json.Unmarshal(message, &event); err != nil {
		h.sendError(client, "Invalid message format")
		return
	}

	ctx := context.Background()

	switch event.Type {
	case "ping":
		h.send(client, "pong", nil)

	case "subscribe_messages":
		if event.ChatID == "" {
			h.sendError(client, "chat_id is required")
			return
		}
		stop, err := h.chatUseCase.SubscribeToMessages(ctx, event.ChatID, func(messages []*entity.Message) {
			h.send(client, "messages_snapshot", map[string]interface{}{
				"chat_id":  event.ChatID,
				"messages": messages,
			})
		})
		if err != nil {
			h.sendError(client, "Failed to subscribe to messages")
			return
		}
		client.AddSubscription("messages:"+event.ChatID, stop)
		h.wsManager.JoinChatRoom(event.ChatID, client)

	case "unsubscribe_messages":
		client.StopSubscription("messages:" + event.ChatID)
		h.wsManager.LeaveChatRoom(event.ChatID, client)

	case "subscribe_chats":
		stop, err := h.chatUseCase.SubscribeToUserChats(ctx, client.UserID, func(chats []*entity.Chat) {
			h.send(client, "chats_snapshot", map[string]interface{}{
				"chats": chats,
			})
		})
		if err != nil {
			h.sendError(client, "Failed to subscribe to chats")
			return
		}
		client.AddSubscription("chats", stop)

	case "unsubscribe_chats":
		client.StopSubscription("chats")

	case "send_message":
		msg, err := h.chatUseCase.SendMessage(ctx, client.UserID, usecase.SendMessageInput{
			ChatID:    event.ChatID,
			Content:   event.Content,
			Timestamp: event.Timestamp,
		})
		if err != nil {
			h.sendError(client, "Failed to send message")
			return
		}
		h.send(client, "message_sent", msg)

	case "mark_read":
		if err := h.chatUseCase.MarkMessagesAsRead(ctx, client.UserID, event.ChatID); err != nil {
			h.sendError(client, "Failed to mark messages as read")
		}

	case "typing":
		h.chatUseCase.HandleTypingEvent(client.UserID, event.ChatID, event.IsTyping)

	default:
		h.sendError(client, "Unknown event type: "+event.Type)
	}
}

func (h *WebSocketHandler) send(client *ws.Client, eventType string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	})
	if err != nil {
		log.Printf("WebSocket send error for user %s: %v", client.UserID, err)
		return
	}

	select {
	case client.Send <- data:
	default:
		log.Printf("Dropping %s event for user %s: send buffer full", eventType, client.UserID)
	}
}

func (h *WebSocketHandler) sendError(client *ws.Client, message string) {
	h.send(client, "error", map[string]string{
		"message": message,
	})
}
