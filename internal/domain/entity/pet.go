package entity

import (
	"time"
)

type PetImage struct {
	ID           string `json:"id" firestore:"id"`
	URL          string `json:"url" firestore:"url"`
	DisplayOrder int    `json:"display_order" firestore:"displayOrder"`
}

type Pet struct {
	ID          string     `json:"id" firestore:"id"`
	OwnerID     string     `json:"owner_id" firestore:"ownerId"`
	Name        string     `json:"name" firestore:"name"`
	Species     string     `json:"species" firestore:"species"` // "dog", "cat", "bird", "other"
	Breed       string     `json:"breed,omitempty" firestore:"breed,omitempty"`
	AgeMonths   int        `json:"age_months" firestore:"ageMonths"`
	Description string     `json:"description" firestore:"description"`
	Images      []PetImage `json:"images" firestore:"images"`
	City        string     `json:"city,omitempty" firestore:"city,omitempty"`
	Status      string     `json:"status" firestore:"status"` // "pending_review", "available", "adopted", "rejected"
	Views       int        `json:"views" firestore:"views"`

	CreatedAt time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time  `json:"updated_at" firestore:"updatedAt"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" firestore:"deletedAt,omitempty"`
}

// MainImage returns the URL of the first image by display order, or "".
func (p *Pet) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	main := p.Images[0]
	for _, img := range p.Images[1:] {
		if img.DisplayOrder < main.DisplayOrder {
			main = img
		}
	}
	return main.URL
}
