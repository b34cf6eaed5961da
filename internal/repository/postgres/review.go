package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rhythmiaheartcare/rhythmia-web/internal/domain"
	"github.com/rhythmiaheartcare/rhythmia-web/pkg/database"
	apperrors "github.com/rhythmiaheartcare/rhythmia-web/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts a new review. The id is assigned here and created_at by the
// database, then both are written back onto the review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, name, email, rating, comment, approved, approval_token, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	id := uuid.New().String()

	ctx, end := database.TraceQuery(ctx, "CreateReview", query)
	err := r.pool.QueryRow(ctx, query,
		id,
		review.Name,
		review.Email,
		review.Rating,
		review.Comment,
		review.Approved,
		review.ApprovalToken,
		review.Verified,
	).Scan(&review.CreatedAt)
	end(err)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	review.ID = id
	return nil
}

// GetByID retrieves a review by its identifier.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `
		SELECT id, name, email, rating, comment, approved, approval_token, verified, created_at
		FROM reviews
		WHERE id = $1`

	var rv domain.Review

	ctx, end := database.TraceQuery(ctx, "GetReview", query)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rv.ID,
		&rv.Name,
		&rv.Email,
		&rv.Rating,
		&rv.Comment,
		&rv.Approved,
		&rv.ApprovalToken,
		&rv.Verified,
		&rv.CreatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &rv, nil
}

// SetApproved marks the review as approved.
func (r *ReviewRepository) SetApproved(ctx context.Context, id string) error {
	query := `UPDATE reviews SET approved = TRUE WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "ApproveReview", query)
	tag, err := r.pool.Exec(ctx, query, id)
	end(err)
	if err != nil {
		return fmt.Errorf("approve review: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}

	return nil
}

// ListApproved returns all approved reviews ordered by creation time, most
// recent first.
func (r *ReviewRepository) ListApproved(ctx context.Context) ([]domain.Review, error) {
	query := `
		SELECT id, name, email, rating, comment, approved, approval_token, verified, created_at
		FROM reviews
		WHERE approved = TRUE
		ORDER BY created_at DESC`

	ctx, end := database.TraceQuery(ctx, "ListApprovedReviews", query)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("list approved reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.Name,
			&rv.Email,
			&rv.Rating,
			&rv.Comment,
			&rv.Approved,
			&rv.ApprovalToken,
			&rv.Verified,
			&rv.CreatedAt,
		); err != nil {
			end(err)
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}
	end(nil)

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, nil
}
