package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petmatch/internal/domain/entity"
	"petmatch/pkg/errors"
)

func newTestFavoriteUseCase() (*FavoriteUseCase, *fakePetRepo, *fakeFavoriteRepo) {
	petRepo := newFakePetRepo()
	favoriteRepo := newFakeFavoriteRepo()
	return NewFavoriteUseCase(favoriteRepo, petRepo), petRepo, favoriteRepo
}

func TestAddFavorite(t *testing.T) {
	uc, petRepo, _ := newTestFavoriteUseCase()

	require.NoError(t, petRepo.Create(context.Background(), &entity.Pet{
		ID: "p1", OwnerID: "owner1", Status: "available",
	}))

	fav, err := uc.AddFavorite(context.Background(), "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "u1", fav.UserID)
	assert.Equal(t, "p1", fav.PetID)

	// Adding again returns the same record.
	again, err := uc.AddFavorite(context.Background(), "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, fav.ID, again.ID)
}

func TestAddFavoriteOwnPetRejected(t *testing.T) {
	uc, petRepo, _ := newTestFavoriteUseCase()

	require.NoError(t, petRepo.Create(context.Background(), &entity.Pet{
		ID: "p1", OwnerID: "owner1", Status: "available",
	}))

	_, err := uc.AddFavorite(context.Background(), "owner1", "p1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestAddFavoriteMissingPet(t *testing.T) {
	uc, _, _ := newTestFavoriteUseCase()

	_, err := uc.AddFavorite(context.Background(), "u1", "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestRemoveFavoriteAbsentIsNoOp(t *testing.T) {
	uc, _, _ := newTestFavoriteUseCase()

	assert.NoError(t, uc.RemoveFavorite(context.Background(), "u1", "never-added"))
}

func TestListFavoritesSkipsDeletedPets(t *testing.T) {
	uc, petRepo, _ := newTestFavoriteUseCase()

	ctx := context.Background()
	require.NoError(t, petRepo.Create(ctx, &entity.Pet{ID: "p1", OwnerID: "o1", Status: "available"}))
	require.NoError(t, petRepo.Create(ctx, &entity.Pet{ID: "p2", OwnerID: "o2", Status: "available"}))

	_, err := uc.AddFavorite(ctx, "u1", "p1")
	require.NoError(t, err)
	_, err = uc.AddFavorite(ctx, "u1", "p2")
	require.NoError(t, err)

	require.NoError(t, petRepo.SoftDelete(ctx, "p2"))

	favorites, total, err := uc.ListFavorites(ctx, "u1", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, favorites, 1)
	assert.Equal(t, "p1", favorites[0].PetID)
	require.NotNil(t, favorites[0].Pet)
}

func TestSetNotifyRequiresExistingFavorite(t *testing.T) {
	uc, petRepo, favoriteRepo := newTestFavoriteUseCase()

	ctx := context.Background()
	require.NoError(t, petRepo.Create(ctx, &entity.Pet{ID: "p1", OwnerID: "o1", Status: "available"}))

	err := uc.SetNotify(ctx, "u1", "p1", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	_, err = uc.AddFavorite(ctx, "u1", "p1")
	require.NoError(t, err)

	require.NoError(t, uc.SetNotify(ctx, "u1", "p1", false))

	fav := favoriteRepo.favorites[favKey("u1", "p1")]
	assert.False(t, fav.NotifyStatusChange)
}

func TestIsFavoriteAnonymous(t *testing.T) {
	uc, _, _ := newTestFavoriteUseCase()

	isFav, err := uc.IsFavorite(context.Background(), "", "p1")
	assert.NoError(t, err)
	assert.False(t, isFav)
}
