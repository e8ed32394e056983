package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"petmatch/internal/domain/entity"
	"petmatch/internal/domain/repository"
	"petmatch/pkg/errors"
)

type firestorePetRepository struct {
	client *firestore.Client
}

func NewFirestorePetRepository(client *firestore.Client) repository.PetRepository {
	return &firestorePetRepository{
		client: client,
	}
}

func (r *firestorePetRepository) Create(ctx context.Context, pet *entity.Pet) error {
	if pet.ID == "" {
		pet.ID = uuid.New().String()
	}

	now := time.Now()
	pet.CreatedAt = now
	pet.UpdatedAt = now

	_, err := r.client.Collection("pets").Doc(pet.ID).Set(ctx, pet)
	if err != nil {
		return errors.Internal("Failed to create pet", err)
	}

	return nil
}

func (r *firestorePetRepository) GetByID(ctx context.Context, id string) (*entity.Pet, error) {
	doc, err := r.client.Collection("pets").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Pet", nil)
		}
		return nil, errors.Internal("Failed to get pet", err)
	}

	var pet entity.Pet
	if err := doc.DataTo(&pet); err != nil {
		return nil, errors.Internal("Failed to parse pet data", err)
	}

	if pet.DeletedAt != nil {
		return nil, errors.NotFound("Pet", nil)
	}

	return &pet, nil
}

func (r *firestorePetRepository) List(ctx context.Context, filter repository.PetFilter, limit, offset int) ([]*entity.Pet, int64, error) {
	query := r.client.Collection("pets").Query

	if filter.Species != "" {
		query = query.Where("species", "==", filter.Species)
	}
	if filter.City != "" {
		query = query.Where("city", "==", filter.City)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", filter.Status)
	}

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while listing pets: %v", err)
		return nil, 0, errors.Internal("Failed to list pets", err)
	}

	var pets []*entity.Pet
	for _, doc := range allDocs {
		var pet entity.Pet
		if err := doc.DataTo(&pet); err != nil {
			log.Printf("Error parsing pet data: %v", err)
			continue
		}
		if pet.DeletedAt != nil {
			continue
		}
		pets = append(pets, &pet)
	}

	total := int64(len(pets))
	return paginatePets(pets, limit, offset), total, nil
}

func (r *firestorePetRepository) ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Pet, int64, error) {
	allDocs, err := r.client.Collection("pets").Where("ownerId", "==", ownerID).Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list pets by owner", err)
	}

	var pets []*entity.Pet
	for _, doc := range allDocs {
		var pet entity.Pet
		if err := doc.DataTo(&pet); err != nil {
			log.Printf("Error parsing pet data for owner %s: %v", ownerID, err)
			continue
		}
		if pet.DeletedAt != nil {
			continue
		}
		pets = append(pets, &pet)
	}

	total := int64(len(pets))
	return paginatePets(pets, limit, offset), total, nil
}

// Pagination is applied in-memory after the filtered fetch, matching how the
// store is queried elsewhere in this package.
func paginatePets(pets []*entity.Pet, limit, offset int) []*entity.Pet {
	start := offset
	if start > len(pets) {
		start = len(pets)
	}
	end := len(pets)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	return pets[start:end]
}

func (r *firestorePetRepository) Update(ctx context.Context, pet *entity.Pet) error {
	pet.UpdatedAt = time.Now()

	_, err := r.client.Collection("pets").Doc(pet.ID).Set(ctx, pet)
	if err != nil {
		return errors.Internal("Failed to update pet", err)
	}

	return nil
}

func (r *firestorePetRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now()
	_, err := r.client.Collection("pets").Doc(id).Update(ctx, []firestore.Update{
		{Path: "deletedAt", Value: now},
		{Path: "updatedAt", Value: now},
	})
	if err != nil {
		return errors.Internal("Failed to delete pet", err)
	}

	return nil
}

func (r *firestorePetRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.client.Collection("pets").Doc(id).Update(ctx, []firestore.Update{
		{Path: "views", Value: firestore.Increment(1)},
	})
	if err != nil {
		return errors.Internal("Failed to increment pet views", err)
	}

	return nil
}
