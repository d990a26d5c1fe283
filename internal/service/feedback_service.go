package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/countdown-service/internal/domain"
	"github.com/spec-kit/countdown-service/internal/repository"
	apperrors "github.com/spec-kit/countdown-service/pkg/util"
)

// FeedbackService handles visitor feedback submission and moderation.
type FeedbackService struct {
	feedback repository.FeedbackRepository
}

// NewFeedbackService builds the service.
func NewFeedbackService(feedback repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{feedback: feedback}
}

// List returns all entries, admin-only at the transport layer.
func (s *FeedbackService) List(ctx context.Context) ([]domain.Feedback, error) {
	return s.feedback.List(ctx)
}

// Submit records a public feedback entry.
func (s *FeedbackService) Submit(ctx context.Context, content, contact, username string) error {
	if content == "" {
		return apperrors.NewValidationError("feedback content required", nil)
	}
	if username == "" {
		username = "anonymous"
	}
	return s.feedback.Append(ctx, domain.Feedback{
		ID:        uuid.NewString(),
		Content:   content,
		Contact:   contact,
		Username:  username,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Delete removes one entry by id.
func (s *FeedbackService) Delete(ctx context.Context, id string) error {
	removed, err := s.feedback.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return apperrors.NewNotFound("feedback entry", nil)
	}
	return nil
}
