package handler

import (
	"github.com/labstack/echo/v4"

	"petmatch/internal/domain/repository"
	"petmatch/internal/usecase"
	"petmatch/pkg/response"
	"petmatch/pkg/utils"
)

type PetHandler struct {
	petUseCase *usecase.PetUseCase
}

func NewPetHandler(petUseCase *usecase.PetUseCase) *PetHandler {
	return &PetHandler{
		petUseCase: petUseCase,
	}
}

func (h *PetHandler) Create(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.CreatePetInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	pet, err := h.petUseCase.CreatePet(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, pet)
}

func (h *PetHandler) GetByID(c echo.Context) error {
	pet, err := h.petUseCase.GetPet(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, pet)
}

func (h *PetHandler) List(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	filter := repository.PetFilter{
		Species: c.QueryParam("species"),
		City:    c.QueryParam("city"),
	}

	pets, total, err := h.petUseCase.ListPets(c.Request().Context(), filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, pets, total, pagination.PageSize, pagination.Offset)
}

func (h *PetHandler) ListMine(c echo.Context) error {
	uid := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	pets, total, err := h.petUseCase.ListMyPets(c.Request().Context(), uid, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, pets, total, pagination.PageSize, pagination.Offset)
}

func (h *PetHandler) Update(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.UpdatePetInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	pet, err := h.petUseCase.UpdatePet(c.Request().Context(), uid, c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, pet)
}

func (h *PetHandler) Delete(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.petUseCase.DeletePet(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Pet listing deleted",
	})
}

func (h *PetHandler) MarkAdopted(c echo.Context) error {
	uid := c.Get("uid").(string)

	pet, err := h.petUseCase.MarkAdopted(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, pet)
}

// Admin moderation endpoints.

func (h *PetHandler) AdminList(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	filter := repository.PetFilter{
		Species: c.QueryParam("species"),
		City:    c.QueryParam("city"),
		Status:  c.QueryParam("status"),
	}
	if filter.Status == "" {
		filter.Status = "pending_review"
	}

	pets, total, err := h.petUseCase.ListPets(c.Request().Context(), filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, pets, total, pagination.PageSize, pagination.Offset)
}

func (h *PetHandler) Approve(c echo.Context) error {
	pet, err := h.petUseCase.ApprovePet(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, pet)
}

func (h *PetHandler) Reject(c echo.Context) error {
	pet, err := h.petUseCase.RejectPet(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, pet)
}
