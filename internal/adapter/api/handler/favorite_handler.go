package handler

import (
	"github.com/labstack/echo/v4"

	"petmatch/internal/usecase"
	"petmatch/pkg/response"
	"petmatch/pkg/utils"
)

type FavoriteHandler struct {
	favoriteUseCase *usecase.FavoriteUseCase
}

func NewFavoriteHandler(favoriteUseCase *usecase.FavoriteUseCase) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteUseCase: favoriteUseCase,
	}
}

func (h *FavoriteHandler) Add(c echo.Context) error {
	uid := c.Get("uid").(string)

	favorite, err := h.favoriteUseCase.AddFavorite(c.Request().Context(), uid, c.Param("petId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, favorite)
}

func (h *FavoriteHandler) Remove(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.favoriteUseCase.RemoveFavorite(c.Request().Context(), uid, c.Param("petId")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Favorite removed",
	})
}

func (h *FavoriteHandler) List(c echo.Context) error {
	uid := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	favorites, total, err := h.favoriteUseCase.ListFavorites(c.Request().Context(), uid, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, favorites, total, pagination.PageSize, pagination.Offset)
}

func (h *FavoriteHandler) Count(c echo.Context) error {
	uid := c.Get("uid").(string)

	count, err := h.favoriteUseCase.CountFavorites(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int64{
		"count": count,
	})
}

func (h *FavoriteHandler) Check(c echo.Context) error {
	uid := c.Get("uid").(string)

	isFavorite, err := h.favoriteUseCase.IsFavorite(c.Request().Context(), uid, c.Param("petId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{
		"is_favorite": isFavorite,
	})
}

func (h *FavoriteHandler) SetNotify(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req struct {
		Notify bool `json:"notify"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.favoriteUseCase.SetNotify(c.Request().Context(), uid, c.Param("petId"), req.Notify); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Notification preference updated",
	})
}
