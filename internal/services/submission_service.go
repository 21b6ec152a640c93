package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"showroom/internal/domain"
	"showroom/internal/store"
)

// SubmissionService records contact-form leads. Submissions are append-only
// from the public side; only admins list and delete them.
type SubmissionService struct {
	rec *store.Reconciler[domain.Submission]
}

func NewSubmissionService(rec *store.Reconciler[domain.Submission]) *SubmissionService {
	return &SubmissionService{rec: rec}
}

// Submit assigns the id and timestamp and stores the lead newest-first.
func (s *SubmissionService) Submit(ctx context.Context, name, email, message string) (domain.Submission, error) {
	sub := domain.Submission{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	return sub, s.rec.Create(ctx, sub)
}

func (s *SubmissionService) List() []domain.Submission {
	return s.rec.Collection().Snapshot()
}

func (s *SubmissionService) Delete(ctx context.Context, id string) error {
	return s.rec.Drop(ctx, id)
}
