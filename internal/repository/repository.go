package repository

import (
	"context"

	"github.com/rhythmiaheartcare/rhythmia-web/internal/domain"
)

// ReviewRepository defines the interface for review persistence operations.
// The store assigns the review id and creation timestamp; callers never
// provide them.
type ReviewRepository interface {
	// Create inserts a new review. The store assigns ID and CreatedAt and
	// writes them back onto the passed review.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// SetApproved marks the review with the given id as approved. The flag
	// only ever moves false to true; there is no reverse operation.
	SetApproved(ctx context.Context, id string) error

	// ListApproved returns all approved reviews, most recent first.
	ListApproved(ctx context.Context) ([]domain.Review, error)
}
