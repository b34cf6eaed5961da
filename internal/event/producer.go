package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pkgkafka "github.com/rhythmiaheartcare/rhythmia-web/pkg/kafka"

	"github.com/rhythmiaheartcare/rhythmia-web/internal/domain"
)

// Kafka topic constants for review domain events.
const (
	TopicReviewSubmitted = "rhythmia.review.submitted"
	TopicReviewApproved  = "rhythmia.review.approved"
)

// Aggregate type constant.
const AggregateTypeReview = "review"

// Source identifier for events originating from this service.
const SourceReviewsService = "reviews-service"

// ReviewSubmittedData is the payload for a review.submitted event. The
// approval token is a credential and never leaves the service, so it is
// absent here.
type ReviewSubmittedData struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewApprovedData is the payload for a review.approved event.
type ReviewApprovedData struct {
	ID string `json:"id"`
}

// Publisher is the interface the review service publishes through.
type Publisher interface {
	PublishReviewSubmitted(ctx context.Context, review *domain.Review) error
	PublishReviewApproved(ctx context.Context, id string) error
}

// Producer publishes review domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the reviews service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewSubmitted publishes a review.submitted event.
func (p *Producer) PublishReviewSubmitted(ctx context.Context, review *domain.Review) error {
	data := ReviewSubmittedData{
		ID:        review.ID,
		Name:      review.Name,
		Rating:    review.Rating,
		Approved:  review.Approved,
		CreatedAt: review.CreatedAt,
	}

	event, err := pkgkafka.NewEvent(TopicReviewSubmitted, review.ID, AggregateTypeReview, SourceReviewsService, data)
	if err != nil {
		return fmt.Errorf("create review.submitted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewSubmitted, event); err != nil {
		return fmt.Errorf("publish review.submitted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.submitted event",
		slog.String("review_id", review.ID),
	)

	return nil
}

// PublishReviewApproved publishes a review.approved event.
func (p *Producer) PublishReviewApproved(ctx context.Context, id string) error {
	data := ReviewApprovedData{ID: id}

	event, err := pkgkafka.NewEvent(TopicReviewApproved, id, AggregateTypeReview, SourceReviewsService, data)
	if err != nil {
		return fmt.Errorf("create review.approved event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewApproved, event); err != nil {
		return fmt.Errorf("publish review.approved event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.approved event",
		slog.String("review_id", id),
	)

	return nil
}
