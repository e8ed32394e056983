package repository

import (
	"context"

	"petmatch/internal/domain/entity"
)

type PetFilter struct {
	Species string
	City    string
	Status  string
}

type PetRepository interface {
	Create(ctx context.Context, pet *entity.Pet) error
	GetByID(ctx context.Context, id string) (*entity.Pet, error)
	List(ctx context.Context, filter PetFilter, limit, offset int) ([]*entity.Pet, int64, error)
	ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Pet, int64, error)
	Update(ctx context.Context, pet *entity.Pet) error
	SoftDelete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}
