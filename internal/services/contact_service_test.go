package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/omytech/contact-api/internal/model"
	"github.com/omytech/contact-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, c *model.Contact) (*model.Contact, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockContactRepository) List(ctx context.Context) ([]*model.Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Contact), args.Error(1)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockContactRepository) UpdateStatus(ctx context.Context, id string, status model.ContactStatus) (*model.Contact, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockContactRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) Send(ctx context.Context, c *model.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func validSubmission() model.ContactCreateRequest {
	return model.ContactCreateRequest{
		Name:    "Jane",
		Email:   "jane@x.com",
		Subject: "Hi",
		Message: "Hello there!",
	}
}

func storedContact() *model.Contact {
	return &model.Contact{
		ID:      uuid.New(),
		Name:    "Jane",
		Email:   "jane@x.com",
		Subject: "Hi",
		Message: "Hello there!",
		Status:  model.ContactStatusNew,
	}
}

func TestContactService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("valid submission is stored and notified", func(t *testing.T) {
		repo := new(MockContactRepository)
		sender := new(MockNotificationSender)
		service := NewContactService(repo, sender)

		created := storedContact()
		repo.On("Create", ctx, mock.MatchedBy(func(c *model.Contact) bool {
			return c.Name == "Jane" && c.Status == model.ContactStatusNew
		})).Return(created, nil)
		sender.On("Send", mock.Anything, created).Return(nil)

		result, err := service.Submit(ctx, validSubmission())
		require.NoError(t, err)
		assert.Equal(t, created, result)

		repo.AssertExpectations(t)
		sender.AssertExpectations(t)
	})

	t.Run("validation failure short-circuits before any side effect", func(t *testing.T) {
		repo := new(MockContactRepository)
		sender := new(MockNotificationSender)
		service := NewContactService(repo, sender)

		p := validSubmission()
		p.Email = "not-an-email"
		p.Message = "short"

		result, err := service.Submit(ctx, p)
		assert.Nil(t, result)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{
			"Please provide a valid email address",
			"Message must be at least 10 characters long",
		}, verr.Messages)

		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("storage failure fails the submission", func(t *testing.T) {
		repo := new(MockContactRepository)
		sender := new(MockNotificationSender)
		service := NewContactService(repo, sender)

		repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("connection reset"))

		result, err := service.Submit(ctx, validSubmission())
		assert.Nil(t, result)
		assert.Error(t, err)

		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("notification failure does not undo a stored submission", func(t *testing.T) {
		repo := new(MockContactRepository)
		sender := new(MockNotificationSender)
		service := NewContactService(repo, sender)

		created := storedContact()
		repo.On("Create", ctx, mock.Anything).Return(created, nil)
		sender.On("Send", mock.Anything, created).Return(errors.New("relay unreachable"))

		result, err := service.Submit(ctx, validSubmission())
		require.NoError(t, err)
		assert.Equal(t, created, result)

		sender.AssertExpectations(t)
	})
}

func TestContactService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := new(MockContactRepository)
		service := NewContactService(repo, new(MockNotificationSender))

		c := storedContact()
		repo.On("GetByID", ctx, c.ID.String()).Return(c, nil)

		got, err := service.GetByID(ctx, c.ID.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	})

	t.Run("repository not-found maps to service not-found", func(t *testing.T) {
		repo := new(MockContactRepository)
		service := NewContactService(repo, new(MockNotificationSender))

		repo.On("GetByID", ctx, "missing").Return(nil, repository.ErrNotFound)

		_, err := service.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("storage failure passes through", func(t *testing.T) {
		repo := new(MockContactRepository)
		service := NewContactService(repo, new(MockNotificationSender))

		repo.On("GetByID", ctx, "boom").Return(nil, errors.New("io timeout"))

		_, err := service.GetByID(ctx, "boom")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestContactService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects status outside the enum without touching the store", func(t *testing.T) {
		repo := new(MockContactRepository)
		service := NewContactService(repo, new(MockNotificationSender))

		_, err := service.UpdateStatus(ctx, "any", model.ContactStatus("archived"))
		assert.ErrorIs(t, err, ErrInvalidStatus)

		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("accepts each enum value", func(t *testing.T) {
		for _, status := range []model.ContactStatus{model.ContactStatusNew, model.ContactStatusRead, model.ContactStatusReplied} {
			repo := new(MockContactRepository)
			service := NewContactService(repo, new(MockNotificationSender))

			c := storedContact()
			c.Status = status
			repo.On("UpdateStatus", ctx, "some-id", status).Return(c, nil)

			got, err := service.UpdateStatus(ctx, "some-id", status)
			require.NoError(t, err)
			assert.Equal(t, status, got.Status)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := new(MockContactRepository)
		service := NewContactService(repo, new(MockNotificationSender))

		repo.On("UpdateStatus", ctx, "missing", model.ContactStatusRead).Return(nil, repository.ErrNotFound)

		_, err := service.UpdateStatus(ctx, "missing", model.ContactStatusRead)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestContactService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("delete succeeds once", func(t *testing.T) {
		repo := new(MockContactRepository)
		service := NewContactService(repo, new(MockNotificationSender))

		repo.On("Delete", ctx, "some-id").Return(nil).Once()
		require.NoError(t, service.Delete(ctx, "some-id"))

		repo.On("Delete", ctx, "some-id").Return(repository.ErrNotFound)
		assert.ErrorIs(t, service.Delete(ctx, "some-id"), ErrNotFound)
	})
}

func TestContactService_List(t *testing.T) {
	ctx := context.Background()

	repo := new(MockContactRepository)
	service := NewContactService(repo, new(MockNotificationSender))

	contacts := []*model.Contact{storedContact(), storedContact()}
	repo.On("List", ctx).Return(contacts, nil)

	got, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
