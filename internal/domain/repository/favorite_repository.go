package repository

import (
	"context"

	"petmatch/internal/domain/entity"
)

type FavoriteRepository interface {
	Add(ctx context.Context, userID, petID string) (*entity.Favorite, error)
	Remove(ctx context.Context, userID, petID string) error
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Favorite, int64, error)
	ListByPetID(ctx context.Context, petID string) ([]*entity.Favorite, error)
	IsFavorite(ctx context.Context, userID, petID string) (bool, error)
	Count(ctx context.Context, userID string) (int64, error)
	SetNotify(ctx context.Context, userID, petID string, notify bool) error
}
