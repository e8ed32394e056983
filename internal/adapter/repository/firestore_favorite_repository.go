package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"petmatch/internal/domain/entity"
	"petmatch/internal/domain/repository"
	"petmatch/pkg/errors"
)

type firestoreFavoriteRepository struct {
	client *firestore.Client
}

func NewFirestoreFavoriteRepository(client *firestore.Client) repository.FavoriteRepository {
	return &firestoreFavoriteRepository{
		client: client,
	}
}

func (r *firestoreFavoriteRepository) Add(ctx context.Context, userID, petID string) (*entity.Favorite, error) {
	existing, err := r.find(ctx, userID, petID)
	if err == nil && existing != nil {
		return existing, nil
	}

	favorite := &entity.Favorite{
		ID:                 uuid.New().String(),
		UserID:             userID,
		PetID:              petID,
		NotifyStatusChange: true,
		CreatedAt:          time.Now(),
	}

	_, err = r.client.Collection("favorites").Doc(favorite.ID).Set(ctx, favorite)
	if err != nil {
		return nil, errors.Internal("Failed to add favorite", err)
	}

	return favorite, nil
}

func (r *firestoreFavoriteRepository) Remove(ctx context.Context, userID, petID string) error {
	existing, err := r.find(ctx, userID, petID)
	if err != nil || existing == nil {
		// Removing an absent favorite is a no-op.
		return nil
	}

	_, err = r.client.Collection("favorites").Doc(existing.ID).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to remove favorite", err)
	}

	return nil
}

func (r *firestoreFavoriteRepository) find(ctx context.Context, userID, petID string) (*entity.Favorite, error) {
	iter := r.client.Collection("favorites").
		Where("userId", "==", userID).
		Where("petId", "==", petID).
		Limit(1).
		Documents(ctx)

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Internal("Failed to query favorite", err)
	}

	var favorite entity.Favorite
	if err := doc.DataTo(&favorite); err != nil {
		return nil, errors.Internal("Failed to parse favorite data", err)
	}

	return &favorite, nil
}

func (r *firestoreFavoriteRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Favorite, int64, error) {
	allDocs, err := r.client.Collection("favorites").Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list favorites", err)
	}

	total := int64(len(allDocs))

	start := offset
	if start > len(allDocs) {
		start = len(allDocs)
	}
	end := len(allDocs)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	var favorites []*entity.Favorite
	for _, doc := range allDocs[start:end] {
		var favorite entity.Favorite
		if err := doc.DataTo(&favorite); err != nil {
			log.Printf("Error parsing favorite data for user %s: %v", userID, err)
			continue
		}
		favorites = append(favorites, &favorite)
	}

	return favorites, total, nil
}

func (r *firestoreFavoriteRepository) ListByPetID(ctx context.Context, petID string) ([]*entity.Favorite, error) {
	docs, err := r.client.Collection("favorites").Where("petId", "==", petID).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list favorites by pet", err)
	}

	var favorites []*entity.Favorite
	for _, doc := range docs {
		var favorite entity.Favorite
		if err := doc.DataTo(&favorite); err != nil {
			log.Printf("Error parsing favorite data for pet %s: %v", petID, err)
			continue
		}
		favorites = append(favorites, &favorite)
	}

	return favorites, nil
}

func (r *firestoreFavoriteRepository) IsFavorite(ctx context.Context, userID, petID string) (bool, error) {
	favorite, err := r.find(ctx, userID, petID)
	if err != nil {
		return false, err
	}
	return favorite != nil, nil
}

func (r *firestoreFavoriteRepository) Count(ctx context.Context, userID string) (int64, error) {
	docs, err := r.client.Collection("favorites").Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count favorites", err)
	}
	return int64(len(docs)), nil
}

func (r *firestoreFavoriteRepository) SetNotify(ctx context.Context, userID, petID string, notify bool) error {
	existing, err := r.find(ctx, userID, petID)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.NotFound("Favorite", nil)
	}

	_, err = r.client.Collection("favorites").Doc(existing.ID).Update(ctx, []firestore.Update{
		{Path: "notifyStatusChange", Value: notify},
	})
	if err != nil {
		return errors.Internal("Failed to update favorite notification preference", err)
	}

	return nil
}
