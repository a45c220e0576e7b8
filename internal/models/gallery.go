package models

import "time"

// GalleryPost is the model for the 'gallery_posts' table (the
// community wellness gallery). Posts start as 'pending' and become
// visible only after moderation approves them.
type GalleryPost struct {
	ID       int64   `json:"id" db:"id"`
	PublicID string  `json:"publicId" db:"public_id"` // uuid, used in URLs
	UserID   int64   `json:"userId" db:"user_id"`
	Title    string  `json:"title" db:"title"`
	Slug     string  `json:"slug" db:"slug"`
	Body     string  `json:"body" db:"body"`
	ImageURL *string `json:"imageUrl,omitempty" db:"image_url"`

	Status          string  `json:"status" db:"status"` // pending, flagged, approved, rejected
	RejectionReason *string `json:"rejectionReason,omitempty" db:"rejection_reason"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Flattened for the gallery view (populated manually)
	AuthorName string `json:"authorName,omitempty" db:"-"`
}
