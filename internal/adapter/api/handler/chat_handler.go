package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"petmatch/internal/usecase"
	"petmatch/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

// CreateOrGet returns the existing conversation for this pet and owner, or
// creates it. The response is 200 either way; clients don't care which.
func (h *ChatHandler) CreateOrGet(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.CreateOrGetChatInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUseCase.CreateOrGetChat(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) List(c echo.Context) error {
	uid := c.Get("uid").(string)

	chats, err := h.chatUseCase.GetUserChats(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chats)
}

func (h *ChatHandler) GetByID(c echo.Context) error {
	chat, err := h.chatUseCase.GetChatData(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	if chat == nil {
		return c.JSON(http.StatusNotFound, response.Response{
			Success:   false,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Error: &response.ErrorInfo{
				Code:    "NOT_FOUND",
				Message: "Chat not found",
			},
		})
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) GetMessages(c echo.Context) error {
	messages, err := h.chatUseCase.GetChatMessages(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.SendMessageInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	req.ChatID = c.Param("id")
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.chatUseCase.MarkMessagesAsRead(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Messages marked as read",
	})
}

func (h *ChatHandler) Close(c echo.Context) error {
	uid := c.Get("uid").(string)

	chat, err := h.chatUseCase.CloseChat(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}
