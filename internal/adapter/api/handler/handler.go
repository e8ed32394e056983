package handler

import (
	"petmatch/internal/usecase"
)

var (
	authHandler      *AuthHandler
	userHandler      *UserHandler
	petHandler       *PetHandler
	favoriteHandler  *FavoriteHandler
	chatHandler      *ChatHandler
	uploadHandler    *UploadHandler
	websocketHandler *WebSocketHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	petUseCase *usecase.PetUseCase,
	favoriteUseCase *usecase.FavoriteUseCase,
	chatUseCase *usecase.ChatUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	petHandler = NewPetHandler(petUseCase)
	favoriteHandler = NewFavoriteHandler(favoriteUseCase)
	chatHandler = NewChatHandler(chatUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetPetHandler() *PetHandler {
	return petHandler
}

func GetFavoriteHandler() *FavoriteHandler {
	return favoriteHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetUploadHandler() *UploadHandler {
	return uploadHandler
}

func GetWebSocketHandler() *WebSocketHandler {
	return websocketHandler
}
