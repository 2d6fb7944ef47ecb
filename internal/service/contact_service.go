package service

import (
	"context"
	"fmt"

	"flanes/internal/metrics"
	"flanes/internal/model"
	"flanes/internal/repository"
	"flanes/internal/validation"
)

// ContactService handles contact form submissions.
type ContactService interface {
	Submit(ctx context.Context, form *validation.ContactForm) (validation.Errors, error)
}

type contactService struct {
	repo    repository.ContactRepository
	metrics *metrics.Metrics
}

// NewContactService creates a new contact service.
func NewContactService(repo repository.ContactRepository, m *metrics.Metrics) ContactService {
	return &contactService{repo: repo, metrics: m}
}

// Submit validates the form and stores it. Invalid forms are reported
// through the returned Errors and nothing is stored.
func (s *contactService) Submit(ctx context.Context, form *validation.ContactForm) (validation.Errors, error) {
	if errs := validation.ValidateContact(form); !errs.Valid() {
		return errs, nil
	}

	msg := &model.ContactMessage{
		Email:   form.Email,
		Name:    form.Name,
		Message: form.Message,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	s.metrics.ContactMessageReceived()
	return validation.Errors{}, nil
}
