package usecase

import (
	"context"

	"petmatch/internal/domain/entity"
	"petmatch/internal/domain/repository"
	"petmatch/pkg/errors"
	"petmatch/pkg/logger"
)

type FavoriteUseCase struct {
	favoriteRepo repository.FavoriteRepository
	petRepo      repository.PetRepository
}

func NewFavoriteUseCase(favoriteRepo repository.FavoriteRepository, petRepo repository.PetRepository) *FavoriteUseCase {
	return &FavoriteUseCase{
		favoriteRepo: favoriteRepo,
		petRepo:      petRepo,
	}
}

// AddFavorite bookmarks a pet for the user. Favoriting your own pet is
// rejected; favoriting twice is a no-op returning the existing record.
func (uc *FavoriteUseCase) AddFavorite(ctx context.Context, userID, petID string) (*entity.Favorite, error) {
	if userID == "" {
		return nil, errors.Unauthorized("You must be logged in to favorite a pet", nil)
	}

	pet, err := uc.petRepo.GetByID(ctx, petID)
	if err != nil {
		return nil, errors.NotFound("Pet", err)
	}

	if pet.OwnerID == userID {
		return nil, errors.BadRequest("You cannot favorite your own pet", nil)
	}

	return uc.favoriteRepo.Add(ctx, userID, petID)
}

// RemoveFavorite deletes the bookmark. Removing an absent favorite succeeds.
func (uc *FavoriteUseCase) RemoveFavorite(ctx context.Context, userID, petID string) error {
	if userID == "" {
		return errors.Unauthorized("You must be logged in to remove a favorite", nil)
	}
	return uc.favoriteRepo.Remove(ctx, userID, petID)
}

// ListFavorites returns the user's favorites with the pet embedded. Favorites
// whose pet was deleted are skipped, not errored.
func (uc *FavoriteUseCase) ListFavorites(ctx context.Context, userID string, limit, offset int) ([]*entity.FavoriteWithPet, int64, error) {
	if userID == "" {
		return nil, 0, errors.Unauthorized("You must be logged in to list favorites", nil)
	}

	favorites, total, err := uc.favoriteRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*entity.FavoriteWithPet, 0, len(favorites))
	for _, fav := range favorites {
		pet, err := uc.petRepo.GetByID(ctx, fav.PetID)
		if err != nil {
			logger.Warn("ListFavorites Warning: Pet %s for favorite %s unavailable: %v", fav.PetID, fav.ID, err)
			continue
		}
		result = append(result, &entity.FavoriteWithPet{
			ID:                 fav.ID,
			UserID:             fav.UserID,
			PetID:              fav.PetID,
			NotifyStatusChange: fav.NotifyStatusChange,
			Pet:                pet,
			CreatedAt:          fav.CreatedAt,
		})
	}

	return result, total, nil
}

func (uc *FavoriteUseCase) CountFavorites(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, errors.Unauthorized("You must be logged in to count favorites", nil)
	}
	return uc.favoriteRepo.Count(ctx, userID)
}

func (uc *FavoriteUseCase) IsFavorite(ctx context.Context, userID, petID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return uc.favoriteRepo.IsFavorite(ctx, userID, petID)
}

// SetNotify toggles status-change notifications for an existing favorite.
func (uc *FavoriteUseCase) SetNotify(ctx context.Context, userID, petID string, notify bool) error {
	if userID == "" {
		return errors.Unauthorized("You must be logged in to change notification settings", nil)
	}

	exists, err := uc.favoriteRepo.IsFavorite(ctx, userID, petID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NotFound("Favorite", nil)
	}

	return uc.favoriteRepo.SetNotify(ctx, userID, petID, notify)
}
