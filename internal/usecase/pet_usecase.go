package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"petmatch/internal/domain/entity"
	"petmatch/internal/domain/repository"
	ws "petmatch/internal/infrastructure/websocket"
	"petmatch/pkg/errors"
	"petmatch/pkg/logger"
)

type PetUseCase struct {
	petRepo      repository.PetRepository
	favoriteRepo repository.FavoriteRepository
	wsManager    *ws.Manager
}

func NewPetUseCase(petRepo repository.PetRepository, favoriteRepo repository.FavoriteRepository, wsManager *ws.Manager) *PetUseCase {
	return &PetUseCase{
		petRepo:      petRepo,
		favoriteRepo: favoriteRepo,
		wsManager:    wsManager,
	}
}

type CreatePetInput struct {
	Name        string   `json:"name" validate:"required"`
	Species     string   `json:"species" validate:"required,oneof=dog cat bird other"`
	Breed       string   `json:"breed"`
	AgeMonths   int      `json:"age_months" validate:"gte=0"`
	Description string   `json:"description" validate:"required"`
	ImageURLs   []string `json:"image_urls"`
	City        string   `json:"city"`
}

type UpdatePetInput struct {
	Name        string   `json:"name"`
	Breed       string   `json:"breed"`
	AgeMonths   int      `json:"age_months"`
	Description string   `json:"description"`
	ImageURLs   []string `json:"image_urls"`
	City        string   `json:"city"`
}

// CreatePet registers a new listing. Listings start in pending_review and
// only become visible after admin approval.
func (uc *PetUseCase) CreatePet(ctx context.Context, ownerID string, input CreatePetInput) (*entity.Pet, error) {
	if ownerID == "" {
		return nil, errors.Unauthorized("You must be logged in to list a pet", nil)
	}

	images := make([]entity.PetImage, 0, len(input.ImageURLs))
	for i, url := range input.ImageURLs {
		images = append(images, entity.PetImage{
			ID:           uuid.New().String(),
			URL:          url,
			DisplayOrder: i,
		})
	}

	now := time.Now()
	pet := &entity.Pet{
		OwnerID:     ownerID,
		Name:        input.Name,
		Species:     input.Species,
		Breed:       input.Breed,
		AgeMonths:   input.AgeMonths,
		Description: input.Description,
		Images:      images,
		City:        input.City,
		Status:      "pending_review",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.petRepo.Create(ctx, pet); err != nil {
		return nil, errors.Internal("Failed to create pet listing", err)
	}

	return pet, nil
}

// GetPet fetches a listing and bumps its view counter. The counter bump is
// best effort and never fails the read.
func (uc *PetUseCase) GetPet(ctx context.Context, id string) (*entity.Pet, error) {
	pet, err := uc.petRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.petRepo.IncrementViews(ctx, id); err != nil {
		logger.Warn("GetPet Warning: Failed to bump views for pet %s: %v", id, err)
	} else {
		pet.Views++
	}

	return pet, nil
}

// ListPets returns approved listings only, unless the filter asks for a
// specific status (admin surface).
func (uc *PetUseCase) ListPets(ctx context.Context, filter repository.PetFilter, limit, offset int) ([]*entity.Pet, int64, error) {
	if filter.Status == "" {
		filter.Status = "available"
	}
	return uc.petRepo.List(ctx, filter, limit, offset)
}

func (uc *PetUseCase) ListMyPets(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Pet, int64, error) {
	if ownerID == "" {
		return nil, 0, errors.Unauthorized("You must be logged in to list your pets", nil)
	}
	return uc.petRepo.ListByOwnerID(ctx, ownerID, limit, offset)
}

func (uc *PetUseCase) UpdatePet(ctx context.Context, userID, petID string, input UpdatePetInput) (*entity.Pet, error) {
	pet, err := uc.petRepo.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}

	if pet.OwnerID != userID {
		return nil, errors.Forbidden("You can only update your own listings", nil)
	}

	if input.Name != "" {
		pet.Name = input.Name
	}
	if input.Breed != "" {
		pet.Breed = input.Breed
	}
	if input.AgeMonths > 0 {
		pet.AgeMonths = input.AgeMonths
	}
	if input.Description != "" {
		pet.Description = input.Description
	}
	if input.City != "" {
		pet.City = input.City
	}
	if input.ImageURLs != nil {
		images := make([]entity.PetImage, 0, len(input.ImageURLs))
		for i, url := range input.ImageURLs {
			images = append(images, entity.PetImage{
				ID:           uuid.New().String(),
				URL:          url,
				DisplayOrder: i,
			})
		}
		pet.Images = images
	}
	pet.UpdatedAt = time.Now()

	if err := uc.petRepo.Update(ctx, pet); err != nil {
		return nil, errors.Internal("Failed to update pet listing", err)
	}

	return pet, nil
}

func (uc *PetUseCase) DeletePet(ctx context.Context, userID, petID string) error {
	pet, err := uc.petRepo.GetByID(ctx, petID)
	if err != nil {
		return err
	}

	if pet.OwnerID != userID {
		return errors.Forbidden("You can only delete your own listings", nil)
	}

	return uc.petRepo.SoftDelete(ctx, petID)
}

// ApprovePet moves a listing from pending_review to available. Admin only;
// the role check happens in middleware.
func (uc *PetUseCase) ApprovePet(ctx context.Context, petID string) (*entity.Pet, error) {
	return uc.setStatus(ctx, petID, "available")
}

// RejectPet marks a listing as rejected. Admin only.
func (uc *PetUseCase) RejectPet(ctx context.Context, petID string) (*entity.Pet, error) {
	return uc.setStatus(ctx, petID, "rejected")
}

// MarkAdopted lets the owner mark their pet as adopted.
func (uc *PetUseCase) MarkAdopted(ctx context.Context, userID, petID string) (*entity.Pet, error) {
	pet, err := uc.petRepo.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}

	if pet.OwnerID != userID {
		return nil, errors.Forbidden("You can only mark your own pets as adopted", nil)
	}

	pet.Status = "adopted"
	pet.UpdatedAt = time.Now()

	if err := uc.petRepo.Update(ctx, pet); err != nil {
		return nil, errors.Internal("Failed to update pet status", err)
	}

	uc.notifyFavoriters(ctx, pet)

	return pet, nil
}

func (uc *PetUseCase) setStatus(ctx context.Context, petID, status string) (*entity.Pet, error) {
	pet, err := uc.petRepo.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}

	pet.Status = status
	pet.UpdatedAt = time.Now()

	if err := uc.petRepo.Update(ctx, pet); err != nil {
		return nil, errors.Internal("Failed to update pet status", err)
	}

	uc.notifyFavoriters(ctx, pet)

	return pet, nil
}

// notifyFavoriters pushes a status-change event to every user who favorited
// the pet with notifications enabled. Best effort; offline users miss it.
func (uc *PetUseCase) notifyFavoriters(ctx context.Context, pet *entity.Pet) {
	if uc.wsManager == nil || uc.favoriteRepo == nil {
		return
	}

	favorites, err := uc.favoriteRepo.ListByPetID(ctx, pet.ID)
	if err != nil {
		logger.Warn("NotifyFavoriters Warning: Failed to list favorites for pet %s: %v", pet.ID, err)
		return
	}

	data, err := json.Marshal(map[string]interface{}{
		"type": "pet_status_changed",
		"payload": map[string]interface{}{
			"pet_id":   pet.ID,
			"pet_name": pet.Name,
			"status":   pet.Status,
		},
	})
	if err != nil {
		return
	}

	for _, fav := range favorites {
		if fav.NotifyStatusChange {
			uc.wsManager.SendToUser(fav.UserID, data)
		}
	}
}
