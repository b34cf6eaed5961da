// Package notifier sends the admin-facing email that carries the approval
// link for a freshly submitted review. Delivery is best effort: the
// submission flow never fails because of a notification problem.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rhythmiaheartcare/rhythmia-web/internal/domain"
	"github.com/rhythmiaheartcare/rhythmia-web/pkg/httpclient"
)

// Notifier dispatches a moderation notification for a newly submitted review.
type Notifier interface {
	Notify(ctx context.Context, review *domain.Review) error
}

// Config holds the settings for the email notifier.
type Config struct {
	// AdminEmail is the moderator's address. Empty disables notifications
	// entirely (the dispatcher becomes a logged no-op).
	AdminEmail string

	// EndpointBase is the form-to-email relay base URL; the admin address is
	// appended as the final path segment (FormSubmit AJAX convention).
	EndpointBase string

	// SiteOrigin is the public origin used to build the approval link.
	SiteOrigin string
}

// EmailNotifier posts a FormSubmit-style JSON payload to a form-to-email
// relay. The relay turns the payload into a table-formatted email to the
// administrator.
type EmailNotifier struct {
	cfg    Config
	client *httpclient.Client
	logger *slog.Logger
}

// NewEmailNotifier creates a notifier that delivers through the configured
// form-to-email relay.
func NewEmailNotifier(cfg Config, client *httpclient.Client, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// payload is the FormSubmit AJAX body. The underscore-prefixed fields are
// relay directives; the rest become rows of the emailed table.
type payload struct {
	Subject       string `json:"_subject"`
	Template      string `json:"_template"`
	ReviewerName  string `json:"Reviewer Name"`
	ReviewerEmail string `json:"Reviewer Email"`
	Rating        string `json:"Rating"`
	Comment       string `json:"Comment"`
	ReviewID      string `json:"Review ID"`
	ApprovalLink  string `json:"Approve Review"`
}

// ApprovalLink builds the single-use approval URL for the given review.
func ApprovalLink(siteOrigin, reviewID, approvalToken string) string {
	return fmt.Sprintf("%s/approve-review?id=%s&token=%s", siteOrigin, reviewID, approvalToken)
}

// Notify sends the moderation email for the given review. When no admin
// address is configured it logs a warning and returns nil.
func (n *EmailNotifier) Notify(ctx context.Context, review *domain.Review) error {
	if n.cfg.AdminEmail == "" {
		n.logger.WarnContext(ctx, "admin email not configured, skipping review notification",
			slog.String("review_id", review.ID),
		)
		return nil
	}

	body := payload{
		Subject:       "New Product Review Submitted",
		Template:      "table",
		ReviewerName:  review.Name,
		ReviewerEmail: review.Email,
		Rating:        fmt.Sprintf("%d / 5 Stars", review.Rating),
		Comment:       review.Comment,
		ReviewID:      review.ID,
		ApprovalLink:  ApprovalLink(n.cfg.SiteOrigin, review.ID, review.ApprovalToken),
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	url := n.cfg.EndpointBase + "/" + n.cfg.AdminEmail

	resp, err := n.client.Post(ctx, url, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("send review notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("send review notification: relay returned status %d", resp.StatusCode)
	}

	n.logger.InfoContext(ctx, "review notification sent",
		slog.String("review_id", review.ID),
		slog.Int("status", resp.StatusCode),
	)

	return nil
}
