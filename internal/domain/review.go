package domain

import (
	"math"
	"time"
)

// Review represents a product review submitted by a site visitor. A review is
// created unapproved and becomes publicly visible only after an administrator
// follows the approval link emailed on submission.
type Review struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	Approved      bool      `json:"approved"`
	ApprovalToken string    `json:"-"`
	Verified      bool      `json:"verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// PublicReview is the shape served to anonymous site visitors. The submitter's
// email and the approval token are private and must never appear here.
type PublicReview struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	Verified bool   `json:"verified"`
	Date     string `json:"date"`
}

// publicDateLayout renders created_at as a display date, e.g. "July 1, 2025".
const publicDateLayout = "January 2, 2006"

// Public returns the publicly displayable view of the review.
func (r *Review) Public() PublicReview {
	return PublicReview{
		ID:       r.ID,
		Name:     r.Name,
		Rating:   r.Rating,
		Comment:  r.Comment,
		Verified: r.Verified,
		Date:     r.CreatedAt.Format(publicDateLayout),
	}
}

// fallbackAverage is the display value shown when no approved reviews exist.
// It is a presentation placeholder, not a computed statistic; RatingSummary
// marks it with IsFallback so consumers cannot mistake it for real data.
const fallbackAverage = 5.0

// RatingSummary contains the aggregate rating across approved reviews.
type RatingSummary struct {
	Average    float64 `json:"average"`
	TotalCount int     `json:"total_count"`
	IsFallback bool    `json:"is_fallback"`
}

// Summarize computes the aggregate rating over the given reviews: the
// arithmetic mean of ratings rounded to one decimal place. An empty input
// yields the fallback display average with IsFallback set.
func Summarize(reviews []Review) RatingSummary {
	if len(reviews) == 0 {
		return RatingSummary{Average: fallbackAverage, TotalCount: 0, IsFallback: true}
	}

	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))

	return RatingSummary{
		Average:    math.Round(avg*10) / 10,
		TotalCount: len(reviews),
	}
}
