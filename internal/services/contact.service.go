package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/omytech/contact-api/internal/model"
	"github.com/omytech/contact-api/internal/repository"
	"github.com/omytech/contact-api/pkg/logger"
	"github.com/omytech/contact-api/pkg/prom"
)

var (
	ErrNotFound      = errors.New("contact not found")
	ErrInvalidStatus = errors.New("invalid status value")
)

// ValidationError carries the full ordered list of violated rules back to
// the handler layer.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

type ContactRepository interface {
	Create(ctx context.Context, c *model.Contact) (*model.Contact, error)
	List(ctx context.Context) ([]*model.Contact, error)
	GetByID(ctx context.Context, id string) (*model.Contact, error)
	UpdateStatus(ctx context.Context, id string, status model.ContactStatus) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
}

type NotificationSender interface {
	Send(ctx context.Context, c *model.Contact) error
}

type ContactService struct {
	contactRepo ContactRepository
	sender      NotificationSender
	sendTimeout time.Duration
}

func NewContactService(contactRepo ContactRepository, sender NotificationSender) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		sender:      sender,
		sendTimeout: 10 * time.Second,
	}
}

// Submit runs the validation filter, persists the submission and attempts
// the notification. A persisted submission is reported as created even when
// the notification fails: the failure is logged and counted, the record
// stays.
func (s *ContactService) Submit(ctx context.Context, p model.ContactCreateRequest) (*model.Contact, error) {
	if msgs := p.Validate(); len(msgs) > 0 {
		prom.AddSubmissionResult("rejected")
		return nil, &ValidationError{Messages: msgs}
	}

	c := &model.Contact{
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Subject: p.Subject,
		Message: p.Message,
		Status:  model.ContactStatusNew,
	}

	created, err := s.contactRepo.Create(ctx, c)
	if err != nil {
		prom.AddSubmissionResult("failed")
		return nil, fmt.Errorf("create contact: %w", err)
	}
	prom.AddSubmissionResult("created")

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	if err := s.sender.Send(sendCtx, created); err != nil {
		logger.Error("notification delivery failed", "contact_id", created.ID.String(), "error", err)
		prom.AddNotificationStatus("failed")
	} else {
		prom.AddNotificationStatus("sent")
	}

	return created, nil
}

func (s *ContactService) List(ctx context.Context) ([]*model.Contact, error) {
	return s.contactRepo.List(ctx)
}

func (s *ContactService) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	c, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *ContactService) UpdateStatus(ctx context.Context, id string, status model.ContactStatus) (*model.Contact, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	c, err := s.contactRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	err := s.contactRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
