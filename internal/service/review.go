package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rhythmiaheartcare/rhythmia-web/internal/cache"
	"github.com/rhythmiaheartcare/rhythmia-web/internal/domain"
	"github.com/rhythmiaheartcare/rhythmia-web/internal/event"
	"github.com/rhythmiaheartcare/rhythmia-web/internal/notifier"
	"github.com/rhythmiaheartcare/rhythmia-web/internal/repository"
	"github.com/rhythmiaheartcare/rhythmia-web/internal/token"
	apperrors "github.com/rhythmiaheartcare/rhythmia-web/pkg/errors"
)

// defaultNotifyTimeout bounds the detached notification call so a slow email
// relay cannot hold a goroutine forever.
const defaultNotifyTimeout = 15 * time.Second

// SubmitReviewInput holds the parameters for submitting a review.
type SubmitReviewInput struct {
	Name    string
	Email   string
	Rating  int
	Comment string
}

// ApprovedReviews is the result of the public read path: displayable reviews
// plus their aggregate rating.
type ApprovedReviews struct {
	Reviews []domain.PublicReview `json:"reviews"`
	Summary domain.RatingSummary  `json:"summary"`
}

// ReviewService owns the review lifecycle: submission creates a pending
// review and notifies the administrator; approval flips it public. There is
// no rejected state; a review that is never approved simply stays pending.
type ReviewService struct {
	repo          repository.ReviewRepository
	notifier      notifier.Notifier
	events        event.Publisher
	cache         *cache.ReviewCache
	logger        *slog.Logger
	notifyTimeout time.Duration
}

// NewReviewService creates a new review service.
func NewReviewService(
	repo repository.ReviewRepository,
	n notifier.Notifier,
	events event.Publisher,
	reviewCache *cache.ReviewCache,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		repo:          repo,
		notifier:      n,
		events:        events,
		cache:         reviewCache,
		logger:        logger,
		notifyTimeout: defaultNotifyTimeout,
	}
}

// Submit validates the input, stores the review unapproved with a fresh
// approval token, and dispatches the moderation notification. It returns the
// new review's id, the only thing the submitter ever learns; the token stays
// server-side. Notification and event failures are logged, never surfaced:
// the review exists in the store either way and can still be approved.
func (s *ReviewService) Submit(ctx context.Context, input *SubmitReviewInput) (string, error) {
	if strings.TrimSpace(input.Name) == "" {
		return "", apperrors.InvalidInput("name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return "", apperrors.InvalidInput("email is required")
	}
	if strings.TrimSpace(input.Comment) == "" {
		return "", apperrors.InvalidInput("comment is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return "", apperrors.InvalidInput("rating must be between 1 and 5")
	}

	approvalToken, err := token.Generate()
	if err != nil {
		return "", fmt.Errorf("generate approval token: %w", err)
	}

	review := &domain.Review{
		Name:          input.Name,
		Email:         input.Email,
		Rating:        input.Rating,
		Comment:       input.Comment,
		Approved:      false,
		ApprovalToken: approvalToken,
		Verified:      false,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return "", fmt.Errorf("create review: %w", err)
	}

	s.logger.InfoContext(ctx, "review submitted",
		slog.String("review_id", review.ID),
		slog.Int("rating", review.Rating),
	)

	// Fire-and-forget: the submitter's request must not wait on, or fail
	// because of, the email relay. Detach from the request context so the
	// send survives the response, but keep it bounded.
	go func() {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
		defer cancel()

		if err := s.notifier.Notify(nctx, review); err != nil {
			s.logger.WarnContext(nctx, "review notification failed",
				slog.String("review_id", review.ID),
				slog.String("error", err.Error()),
			)
		}
	}()

	if err := s.events.PublishReviewSubmitted(ctx, review); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review.submitted",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	return review.ID, nil
}

// Approve transitions a pending review to approved, provided the caller
// presents the exact approval token issued at submission. Re-approving an
// already approved review is an idempotent success. Two concurrent approvals
// can both pass the check and both write; the end state is identical, so the
// race is benign and deliberately unguarded.
func (s *ReviewService) Approve(ctx context.Context, id, approvalToken string) error {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch review for approval: %w", err)
	}

	// Constant-time comparison; the token is the security boundary and must
	// not leak through response timing.
	if subtle.ConstantTimeCompare([]byte(review.ApprovalToken), []byte(approvalToken)) != 1 {
		s.logger.WarnContext(ctx, "approval attempt with invalid token",
			slog.String("review_id", id),
		)
		return apperrors.InvalidToken()
	}

	if review.Approved {
		s.logger.InfoContext(ctx, "review already approved, no-op",
			slog.String("review_id", id),
		)
		return nil
	}

	if err := s.repo.SetApproved(ctx, id); err != nil {
		return fmt.Errorf("approve review: %w", err)
	}

	s.cache.Invalidate(ctx)

	s.logger.InfoContext(ctx, "review approved",
		slog.String("review_id", id),
	)

	if err := s.events.PublishReviewApproved(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review.approved",
			slog.String("review_id", id),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// ListApproved returns the approved reviews in public shape together with
// their aggregate rating. The email address and approval token never leave
// through this path.
func (s *ReviewService) ListApproved(ctx context.Context) (*ApprovedReviews, error) {
	reviews, hit := s.cache.GetApproved(ctx)
	if !hit {
		var err error
		reviews, err = s.repo.ListApproved(ctx)
		if err != nil {
			return nil, fmt.Errorf("list approved reviews: %w", err)
		}
		s.cache.SetApproved(ctx, reviews)
	}

	public := make([]domain.PublicReview, 0, len(reviews))
	for _, r := range reviews {
		public = append(public, r.Public())
	}

	return &ApprovedReviews{
		Reviews: public,
		Summary: domain.Summarize(reviews),
	}, nil
}
